package main

import (
	"fmt"
	"time"

	"github.com/loycekalume/LifeStyleCoach-sub001/internal/config"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/database"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/migrations"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/models"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/scheduler"
	"github.com/loycekalume/LifeStyleCoach-sub001/internal/services"
	"github.com/loycekalume/LifeStyleCoach-sub001/pkg/logger"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// env is filled in by the root command before any subcommand runs.
type env struct {
	configPath string
	cfg        *config.Config
	open       func(dsn string) (*gorm.DB, func(), error)
}

func connect(dsn string) (*gorm.DB, func(), error) {
	db, err := database.Connect(dsn)
	if err != nil {
		return nil, nil, err
	}
	return db, func() { _ = database.Close(db) }, nil
}

func newRootCmd() *cobra.Command {
	return newRootCmdWith(&env{open: connect})
}

func newRootCmdWith(e *env) *cobra.Command {
	root := &cobra.Command{
		Use:           "coachctl",
		Short:         "Operational commands for the LifeStyle Coach backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFile(e.configPath)
			if err != nil {
				return err
			}
			e.cfg = cfg
			logger.Init(cfg.Env)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&e.configPath, "config", ".env", "path to the env file")

	root.AddCommand(newMigrateCmd(e), newPromoteAdminCmd(e), newRemindCmd(e))
	return root
}

func (e *env) db() (*gorm.DB, func(), error) {
	return e.open(e.cfg.DatabaseURL)
}

func newMigrateCmd(e *env) *cobra.Command {
	var rollback, status bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create tables and apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, closeDB, err := e.db()
			if err != nil {
				return err
			}
			defer closeDB()

			m := migrations.NewMigrator(db)
			if status {
				report, err := m.Status()
				if err != nil {
					return err
				}
				for _, st := range report {
					state := "pending"
					if st.AppliedAt != nil {
						state = "applied " + st.AppliedAt.Format(time.RFC3339)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", st.ID, state)
				}
				return nil
			}
			if rollback {
				return m.Rollback()
			}
			if err := database.AutoMigrate(db); err != nil {
				return err
			}
			if err := m.Run(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
	cmd.Flags().BoolVar(&rollback, "rollback", false, "roll back the most recent migration instead")
	cmd.Flags().BoolVar(&status, "status", false, "list migrations and whether they are applied")
	return cmd
}

func newPromoteAdminCmd(e *env) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "promote-admin",
		Short: "Give an existing account the admin role",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, closeDB, err := e.db()
			if err != nil {
				return err
			}
			defer closeDB()

			accounts := services.NewAccountService(db, e.cfg.JWTSecret, nil, nil)
			user, err := accounts.PromoteToAdmin(cmd.Context(), email)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "promoted %s (%s) to admin\n", user.Name, user.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email of the account to promote")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newRemindCmd(e *env) *cobra.Command {
	var (
		period  string
		enqueue bool
	)
	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Run a reminder fan-out now",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, ok := models.ParsePeriod(period)
			if !ok {
				return fmt.Errorf("unknown period %q (morning, afternoon or night)", period)
			}

			// A running server picks up queued tasks and pushes them to
			// connected sockets.
			if enqueue {
				if !e.cfg.RedisEnabled() {
					return fmt.Errorf("--enqueue needs REDIS_ADDR")
				}
				id, err := scheduler.Enqueue(cmd.Context(), e.cfg, p)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "enqueued %s reminder task %s\n", p, id)
				return nil
			}

			db, closeDB, err := e.db()
			if err != nil {
				return err
			}
			defer closeDB()

			reminders := services.NewReminderService(db, nil, e.cfg.ReminderLocation())
			created, err := reminders.FanOut(cmd.Context(), p, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %d %s reminders\n", created, p)
			return nil
		},
	}
	cmd.Flags().StringVar(&period, "period", "", "morning, afternoon or night")
	cmd.Flags().BoolVar(&enqueue, "enqueue", false, "queue the task for the server's worker instead of running it here")
	_ = cmd.MarkFlagRequired("period")
	return cmd
}
