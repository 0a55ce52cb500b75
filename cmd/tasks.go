package main

import (
	"fmt"
	"os"

	"sms-portal/internal/config"
	"sms-portal/internal/db"
	"sms-portal/internal/service"
	"sms-portal/pkg/notify"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"
)

// systemActor is recorded in the activity log for work started from the CLI.
var systemActor = service.Actor{Name: "system", Role: "SYSTEM"}

func newMigrate() *cobra.Command {
	return &cobra.Command{
		Use:          "migrate",
		Short:        "Create or update the database schema",
		SilenceUsage: true,
		PreRunE: func(_ *cobra.Command, _ []string) error {
			return db.InitDB(config.Global().Database)
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return db.Migrate(db.DB)
		},
		PostRunE: closeDB,
	}
}

func closeDB(_ *cobra.Command, _ []string) error {
	if db.DB == nil {
		return nil
	}
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// offlineService builds a service over Postgres that sends mail inline, for
// commands that exit as soon as their work is done.
func offlineService(cmd *cobra.Command) (*service.Service, func(), error) {
	conf := config.Global()
	if err := db.InitDB(conf.Database); err != nil {
		return nil, nil, err
	}
	statsCache, closeCache := openCache(cmd.Context(), conf.Redis)
	cleanup := func() {
		closeCache()
		if err := closeDB(cmd, nil); err != nil {
			logger.Warn("Failed to close database", zap.Error(err))
		}
	}
	sender := notify.Sync{Sender: newSender(conf.SMTP), Logger: logger}
	return newService(conf, db.NewStore(db.DB), sender, statsCache), cleanup, nil
}

type seedFile struct {
	Admins []service.NewAdminUser `yaml:"admins"`
}

func newSeedAdmins() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:          "seed-admins",
		Short:        "Create admin users listed in a YAML file",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			var seed seedFile
			if err := yaml.Unmarshal(raw, &seed); err != nil {
				return fmt.Errorf("parse %s: %w", path, err)
			}
			svc, cleanup, err := offlineService(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			created := 0
			for _, in := range seed.Admins {
				if _, err := svc.CreateAdminUser(cmd.Context(), systemActor, in); err != nil {
					logger.Warn("Skipping admin", zap.String("email", in.Email), zap.Error(err))
					continue
				}
				created++
			}
			logger.Info("Seeded admin users", zap.Int("created", created), zap.Int("listed", len(seed.Admins)))
			return nil
		},
	}
	cmd.Flags().StringVarP(&path, "file", "f", "admins.yaml", "YAML file with an admins list")
	return cmd
}

func newDeactivateLapsed() *cobra.Command {
	return &cobra.Command{
		Use:          "deactivate-lapsed",
		Short:        "Mark societies not renewed this year as inactive",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, cleanup, err := offlineService(cmd)
			if err != nil {
				return err
			}
			defer cleanup()
			n, err := svc.DeactivateLapsed(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d societies deactivated\n", n)
			return nil
		},
	}
}

func newSendReminders() *cobra.Command {
	return &cobra.Command{
		Use:          "send-reminders",
		Short:        "Email each reviewer a digest of applications awaiting them",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, cleanup, err := offlineService(cmd)
			if err != nil {
				return err
			}
			defer cleanup()
			n, err := svc.SendPendingReminders(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d reminder digests sent\n", n)
			return nil
		},
	}
}
