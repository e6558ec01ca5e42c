package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/billbook/billbook/internal/auth"
	"github.com/billbook/billbook/internal/cache"
	"github.com/billbook/billbook/internal/config"
	"github.com/billbook/billbook/internal/domain/settings"
	"github.com/billbook/billbook/internal/logger"
	"github.com/billbook/billbook/internal/postgres"
	"github.com/billbook/billbook/internal/repository"
	"github.com/billbook/billbook/internal/service"
	"github.com/billbook/billbook/internal/validator"
	"github.com/spf13/cobra"
)

const commandTimeout = 30 * time.Second

// env holds what every subcommand needs once config and postgres are up
type env struct {
	cfg    *config.Configuration
	logger *logger.Logger
	db     *postgres.DB
}

func setup() (*env, error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	log.Infow("connecting to database", "host", cfg.Postgres.Host)
	db, err := postgres.NewDB(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	validator.NewValidator()
	return &env{cfg: cfg, logger: log, db: db}, nil
}

func (e *env) serviceParams() service.ServiceParams {
	return service.NewServiceParams(
		e.logger,
		e.cfg,
		e.db,
		cache.NewInMemoryCache(e.cfg, e.logger),
		auth.NewProvider(e.cfg),
		repository.NewInvoiceRepository(e.db, e.logger),
		repository.NewCounterRepository(e.db, e.logger),
		repository.NewClientRepository(e.db, e.logger),
		repository.NewSettingsRepository(e.db, e.logger),
		repository.NewUserRepository(e.db, e.logger),
	)
}

var rootCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Schema migrations and seed data for billbook",
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending schema migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		dryRun, _ := cmd.Flags().GetBool("dry-run")

		e, err := setup()
		if err != nil {
			return err
		}
		defer e.db.Close()

		migrator, err := postgres.NewMigrator(e.db)
		if err != nil {
			return err
		}
		defer migrator.Close()

		if dryRun {
			version, _, err := migrator.Version()
			if err != nil {
				return err
			}
			pending, err := migrator.Pending()
			if err != nil {
				return err
			}
			fmt.Printf("Current schema version: %d\n", version)
			if len(pending) == 0 {
				fmt.Println("No pending migrations")
				return nil
			}
			for _, mig := range pending {
				fmt.Printf("-- %03d_%s\n%s\n", mig.Version, mig.Name, mig.SQL)
			}
			return nil
		}

		if err := migrator.Up(); err != nil {
			return err
		}
		fmt.Println("Migration process completed")
		return nil
	},
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Revert the most recent schema migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		steps, _ := cmd.Flags().GetInt("steps")

		e, err := setup()
		if err != nil {
			return err
		}
		defer e.db.Close()

		migrator, err := postgres.NewMigrator(e.db)
		if err != nil {
			return err
		}
		defer migrator.Close()

		return migrator.Down(steps)
	},
}

var seedUserCmd = &cobra.Command{
	Use:   "seed-user",
	Short: "Create a user that can log in to the API",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		role, _ := cmd.Flags().GetString("role")

		e, err := setup()
		if err != nil {
			return err
		}
		defer e.db.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
		defer cancel()

		u, err := service.NewAuthService(e.serviceParams()).CreateUser(ctx, name, email, password, role)
		if err != nil {
			return err
		}
		fmt.Printf("Created user %d (%s)\n", u.ID, u.Email)
		return nil
	},
}

var seedSettingsCmd = &cobra.Command{
	Use:   "seed-settings",
	Short: "Write the company settings used to prefill invoices",
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		cs := &settings.CompanySettings{}
		for flag, dst := range map[string]*string{
			"seller-name":    &cs.SellerName,
			"regd-address":   &cs.RegdAddress,
			"offc-address":   &cs.OffcAddress,
			"gst-number":     &cs.GSTNumber,
			"phone":          &cs.Phone,
			"email":          &cs.Email,
			"bank-name":      &cs.BankName,
			"account-name":   &cs.AccountName,
			"account-number": &cs.AccountNumber,
			"ifsc-code":      &cs.IFSCCode,
			"branch":         &cs.Branch,
		} {
			*dst, _ = flags.GetString(flag)
		}

		e, err := setup()
		if err != nil {
			return err
		}
		defer e.db.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
		defer cancel()

		if err := service.NewSettingsService(e.serviceParams()).SaveCompanySettings(ctx, cs); err != nil {
			return err
		}
		fmt.Println("Company settings saved")
		return nil
	},
}

func init() {
	upCmd.Flags().Bool("dry-run", false, "Print pending migration SQL without executing it")
	downCmd.Flags().Int("steps", 1, "Number of migrations to revert")

	seedUserCmd.Flags().String("name", "Admin", "Display name")
	seedUserCmd.Flags().String("email", "", "Login email")
	seedUserCmd.Flags().String("password", "", "Login password")
	seedUserCmd.Flags().String("role", "", "Role, defaults to admin")
	_ = seedUserCmd.MarkFlagRequired("email")
	_ = seedUserCmd.MarkFlagRequired("password")

	for _, flag := range []string{
		"seller-name", "regd-address", "offc-address", "gst-number", "phone", "email",
		"bank-name", "account-name", "account-number", "ifsc-code", "branch",
	} {
		seedSettingsCmd.Flags().String(flag, "", "")
	}
	_ = seedSettingsCmd.MarkFlagRequired("seller-name")

	rootCmd.AddCommand(upCmd, downCmd, seedUserCmd, seedSettingsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
