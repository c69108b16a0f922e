package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	identitymetrics "digitalidentity/internal/identity/metrics"
	"digitalidentity/internal/identity/models"
	"digitalidentity/internal/identity/store"
	"digitalidentity/internal/platform/config"
	"digitalidentity/internal/platform/logger"
	"digitalidentity/internal/platform/postgres"
	id "digitalidentity/pkg/domain"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply PostgreSQL schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			db, err := postgres.Open(cmd.Context(), cfg.Store.DatabaseURL, cfg.Store.MaxConns)
			if err != nil {
				return err
			}
			defer db.Close()
			if err := postgres.Migrate(db); err != nil {
				return err
			}
			logger.New(cfg.LogLevel).InfoContext(cmd.Context(), "migrations applied")
			return nil
		},
	}
}

func newPurgeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "purge",
		Short: "Remove closed identities whose retention has elapsed",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			log := logger.New(cfg.LogLevel)
			backend, closeStore, err := openStore(cmd.Context(), cfg.Store)
			if err != nil {
				return err
			}
			defer closeStore()

			n, err := store.NewPurger(backend, time.Minute, log, identitymetrics.New()).RunOnce(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "purged %d identities\n", n)
			return nil
		},
	}
}

// seedCustomer is one line of the seed file. Customer and contact records are
// owned by other services; seeding exists for local runs and demos.
type seedCustomer struct {
	CustomerID        id.CustomerID `json:"CustomerId"`
	GivenName         string        `json:"GivenName"`
	FamilyName        string        `json:"FamilyName"`
	EmailAddress      string        `json:"EmailAddress"`
	DateOfTermination *time.Time    `json:"DateOfTermination"`
}

func newSeedCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load customers and contacts from a JSON file",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read seed file: %w", err)
			}
			var customers []seedCustomer
			if err := json.Unmarshal(raw, &customers); err != nil {
				return fmt.Errorf("parse seed file: %w", err)
			}

			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			if cfg.Store.Backend == config.StoreMemory {
				return fmt.Errorf("seeding the memory store has no effect; set STORE_BACKEND")
			}
			backend, closeStore, err := openStore(cmd.Context(), cfg.Store)
			if err != nil {
				return err
			}
			defer closeStore()

			ctx := cmd.Context()
			for _, c := range customers {
				if err := backend.SaveCustomer(ctx, &models.Customer{
					CustomerID:        c.CustomerID,
					GivenName:         c.GivenName,
					FamilyName:        c.FamilyName,
					DateOfTermination: c.DateOfTermination,
				}); err != nil {
					return err
				}
				if c.EmailAddress == "" {
					continue
				}
				if err := backend.SaveContact(ctx, &models.Contact{
					ContactID:    id.ContactID(uuid.New()),
					CustomerID:   c.CustomerID,
					EmailAddress: c.EmailAddress,
				}); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d customers\n", len(customers))
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "customers.json", "Path to the seed file")
	return cmd
}
