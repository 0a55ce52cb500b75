package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"sms-portal/internal/config"
	"sms-portal/internal/db"
	"sms-portal/internal/handlers"
	"sms-portal/internal/middleware"
	"sms-portal/internal/service"
	"sms-portal/pkg/utils"
	"sms-portal/pkg/validation"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var logger = zap.NewNop()

// @title		Society Management Portal API
// @version	1.0
// @BasePath	/api
func main() {
	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRoot()
	root.SetContext(rootCtx)
	if err := root.Execute(); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRoot() *cobra.Command {
	root := &cobra.Command{
		Use:                "sms-portal",
		Short:              "Student society management portal",
		SilenceUsage:       true,
		PersistentPreRunE:  initGlobalResource,
		PersistentPostRunE: cleanGlobalResource,
	}
	root.AddCommand(
		newServe(),
		newMigrate(),
		newSeedAdmins(),
		newDeactivateLapsed(),
		newSendReminders(),
	)
	return root
}

func initGlobalResource(_ *cobra.Command, _ []string) error {
	conf, err := config.Load()
	if err != nil {
		return err
	}

	l, err := utils.NewLogger(utils.LogConfig{
		Level:      conf.Log.Level,
		File:       conf.Log.File,
		MaxSizeMB:  conf.Log.MaxSizeMB,
		MaxBackups: conf.Log.MaxBackups,
		MaxAgeDays: conf.Log.MaxAgeDays,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger = l

	// Pass logger to every package that logs
	db.InitLogger(logger)
	middleware.InitLogger(logger)
	handlers.InitLogger(logger)
	service.InitLogger(logger)
	utils.InitLogger(logger)

	utils.SetSigningSecret(conf.Server.HMACSecret)
	validation.SetUniversityDomain(conf.University.EmailDomain)
	return nil
}

func cleanGlobalResource(_ *cobra.Command, _ []string) error {
	// Sync fails on stdout for some terminals
	_ = logger.Sync()
	return nil
}
