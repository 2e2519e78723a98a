package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/printlabs/pressconfig/internal/clock"
	"github.com/printlabs/pressconfig/internal/config"
	"github.com/printlabs/pressconfig/internal/constraint"
	"github.com/printlabs/pressconfig/internal/dependency"
	"github.com/printlabs/pressconfig/internal/discount"
	"github.com/printlabs/pressconfig/internal/migration"
	"github.com/printlabs/pressconfig/internal/observability"
	"github.com/printlabs/pressconfig/internal/option"
	"github.com/printlabs/pressconfig/internal/pricing"
	"github.com/printlabs/pressconfig/internal/product"
	"github.com/printlabs/pressconfig/internal/publish"
	"github.com/printlabs/pressconfig/internal/quote"
	"github.com/printlabs/pressconfig/internal/recipe"
	"github.com/printlabs/pressconfig/internal/scheduler"
	"github.com/printlabs/pressconfig/internal/server"
	"github.com/printlabs/pressconfig/internal/simulation"
	"github.com/printlabs/pressconfig/pkg/db"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "pressconfig",
		Short:   "Print product configuration and pricing engine",
		Version: readVersionFromEnv(),
	}
	root.AddCommand(newMigrateCmd(), newServeCmd(), newSchedulerCmd(), newAllCmd())
	return root
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate()
		},
	}
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the admin API and widget endpoints",
		RunE: func(cmd *cobra.Command, args []string) error {
			runServe()
			return nil
		},
	}
}

func newSchedulerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scheduler",
		Short: "Run retention sweep workers",
		RunE: func(cmd *cobra.Command, args []string) error {
			runScheduler()
			return nil
		},
	}
}

func newAllCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "Run migrations, then start the API server and scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := runMigrate(); err != nil {
				return err
			}
			runMonolith()
			return nil
		},
	}
}

func runMigrate() error {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(registerSnowflake),
		db.Module,
		migration.Module,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		return fmt.Errorf("migrate failed: %w", err)
	}
	_ = app.Stop(context.Background())
	return nil
}

func domainModules() fx.Option {
	return fx.Options(
		product.Module,
		option.Module,
		quote.Module,
		discount.Module,
		recipe.Module,
		constraint.Module,
		dependency.Module,
		pricing.Module,
		simulation.Module,
		publish.Module,
	)
}

func runServe() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(registerSnowflake),
		db.Module,
		clock.Module,
		domainModules(),
		server.Module,
	)
	app.Run()
}

func runScheduler() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(registerSnowflake),
		db.Module,
		clock.Module,
		domainModules(),
		scheduler.Module,
		fx.Invoke(startScheduler),
	)
	app.Run()
}

func runMonolith() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(registerSnowflake),
		db.Module,
		clock.Module,
		domainModules(),
		server.Module,
		scheduler.Module,
		fx.Invoke(startScheduler),
	)
	app.Run()
}

func registerSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}

func readVersionFromEnv() string {
	if v := strings.TrimSpace(os.Getenv("APP_VERSION")); v != "" {
		return v
	}
	return "dev"
}

func startScheduler(lc fx.Lifecycle, s *scheduler.Scheduler) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go s.RunForever(context.Background())
			return nil
		},
	})
}
