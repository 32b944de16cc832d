// Package main is the riskctl admin CLI: migrations, reference-data seeding,
// and dev token issuing.
package main

import (
	"fmt"
	"os"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/cobra"

	"netros/internal/app"
	"netros/internal/config"
	internaldb "netros/internal/db"
	"netros/internal/db/repository"
	"netros/internal/middleware"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "riskctl",
		Short:         "Administration CLI for the risk register",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return config.LoadDotEnv(".env")
		},
	}
	rootCmd.AddCommand(newMigrateCmd(), newSeedCmd(), newTokenCmd())
	return rootCmd
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadFromEnv()
			if err != nil {
				return err
			}
			conn, err := internaldb.OpenSQLite(cfg.DBPath, "write", 0)
			if err != nil {
				return err
			}
			defer conn.Close()
			if err := internaldb.RunMigrations(conn); err != nil {
				return err
			}
			cmd.Println("migrations applied")
			return nil
		},
	}
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the NSM and Ekomforskriften principle catalogues",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadFromEnv()
			if err != nil {
				return err
			}
			conn, err := internaldb.OpenSQLite(cfg.DBPath, "write", 0)
			if err != nil {
				return err
			}
			defer conn.Close()
			if err := internaldb.RunMigrations(conn); err != nil {
				return err
			}

			created, err := app.SeedPrinciples(cmd.Context(), repository.NewPrincipleRepo(conn))
			if err != nil {
				return err
			}
			cmd.Printf("seeded %d principles\n", created)
			return nil
		},
	}
}

func newTokenCmd() *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)
	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an HS256 bearer token for the API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadFromEnv()
			if err != nil {
				return err
			}
			if subject == "" {
				return fmt.Errorf("--subject is required")
			}
			token, err := middleware.IssueToken([]byte(cfg.JWTSecret), subject, ttl)
			if err != nil {
				return err
			}
			cmd.Println(token)
			return nil
		},
	}
	tokenCmd.Flags().StringVar(&subject, "subject", "", "subject (actor name) the token identifies")
	tokenCmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return tokenCmd
}
