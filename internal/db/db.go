package db

import (
	"fmt"

	"sms-portal/internal/config"
	"sms-portal/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var (
	DB     *gorm.DB
	logger = zap.NewNop()
)

// InitLogger sets the zap logger for this package
func InitLogger(l *zap.Logger) {
	logger = l
}

// InitDB opens the Postgres connection described by conf, tunes the pool
// and stores the handle in DB.
func InitDB(conf config.Database) error {
	gormDB, err := Open(postgres.Open(conf.DSN()), conf.Debug)
	if err != nil {
		logger.Error("Failed to open database connection", zap.String("host", conf.Host), zap.Error(err))
		return err
	}

	// Configure connection pool
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Error("Failed to get database connection", zap.Error(err))
		return err
	}
	sqlDB.SetMaxOpenConns(conf.MaxOpenConns)
	sqlDB.SetMaxIdleConns(conf.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(conf.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(conf.ConnMaxIdleTime)

	DB = gormDB
	logger.Info("Database connection established",
		zap.String("host", conf.Host),
		zap.Int("port", conf.Port),
		zap.String("database", conf.Name),
	)
	return nil
}

// Open wraps gorm.Open with the settings every caller needs. Driver errors
// are translated so unique violations surface as gorm.ErrDuplicatedKey.
func Open(dialector gorm.Dialector, debug bool) (*gorm.DB, error) {
	gormDB, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}
	// Enable GORM debug mode if DB_DEBUG=true
	if debug {
		gormDB = gormDB.Debug()
		logger.Info("GORM debug mode enabled")
	}
	return gormDB, nil
}

// Migrate creates or updates every table the portal owns.
func Migrate(gormDB *gorm.DB) error {
	logger.Info("Migrating database schema...")
	err := gormDB.AutoMigrate(
		&models.Society{},
		&models.SocietyRegistration{},
		&models.SocietyRenewal{},
		&models.EventPermission{},
		&models.AdminUser{},
		&models.ActivityLog{},
	)
	if err != nil {
		logger.Error("Error migrating database", zap.Error(err))
		return fmt.Errorf("migrate schema: %w", err)
	}
	logger.Info("Database schema migrated successfully")
	return nil
}
