package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"signpost/internal/config"
	"signpost/internal/repository/postgres"
	"signpost/internal/seed"
	siteservice "signpost/internal/service/site"
	"signpost/internal/sidebar"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		dropTables bool
		schemaOnly bool
		file       string
		name       string
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Set up the database schema and seed a site",
		Long: `Set up the database schema and seed a site.

Without --file the built-in tutorial sidebar is stored. Seeding an existing
site name replaces its config.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Load .env file
			_ = godotenv.Load()
			cfg := config.Load()
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			if cfg.Storage != config.StoragePostgres {
				return errors.New("seeding needs STORAGE=postgres")
			}

			// SAFETY: Prevent destructive operations in production
			if cfg.Environment == "prod" && dropTables {
				return errors.New("BLOCKED: cannot run --drop-tables in production environment")
			}

			logger, logCloser, err := config.NewLogger(cfg, os.Stdout)
			if err != nil {
				return err
			}
			defer logCloser.Close()

			seedCfg := sidebar.Default()
			if file != "" {
				if seedCfg, err = readConfigFile(file); err != nil {
					return err
				}
			}

			ctx := cmd.Context()
			pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("connect to database: %w", err)
			}
			defer pool.Close()

			tables := postgres.NewTableNames(cfg.TablePrefix)
			logger.Info("seeding database", "environment", cfg.Environment, "prefix", cfg.TablePrefix)

			if dropTables {
				if err := postgres.DropTables(ctx, pool, tables, logger); err != nil {
					return err
				}
			}
			if err := postgres.EnsureSchema(ctx, pool, tables); err != nil {
				return err
			}
			logger.Info("schema ready")
			if schemaOnly {
				return nil
			}

			repo := postgres.NewSiteRepository(&postgres.RepositoryConfig{Pool: pool, Tables: tables, Logger: logger})
			service := siteservice.NewSiteService(repo, postgres.NewTransactionManager(pool, logger), logger)

			site, created, err := seed.NewSiteSeeder(service, logger).Seed(ctx, name, seedCfg)
			if err != nil {
				return err
			}
			verb := "updated"
			if created {
				verb = "created"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s site %q (%s)\n", verb, site.Name, site.ID)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dropTables, "drop-tables", false, "Drop all tables before seeding (fresh start)")
	cmd.Flags().BoolVar(&schemaOnly, "schema-only", false, "Only set up schema, don't seed a site")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Sidebars file to seed (.js, .json, .yaml)")
	cmd.Flags().StringVar(&name, "name", seed.DefaultSiteName, "Site name")

	cmd.SetContext(context.Background())
	return cmd
}

func readConfigFile(path string) (sidebar.Config, error) {
	format, err := sidebar.FormatFromPath(path)
	if err != nil {
		return sidebar.Config{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return sidebar.Config{}, err
	}
	defer f.Close()

	cfg, err := sidebar.Decode(f, format)
	if err != nil {
		return sidebar.Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}
