package main

import (
	"fmt"
	"os"

	"github.com/bwmarrin/snowflake"
	"github.com/joho/godotenv"
	"github.com/couriersync/billing/internal/clock"
	"github.com/couriersync/billing/internal/config"
	"github.com/couriersync/billing/internal/events"
	"github.com/couriersync/billing/internal/invoice"
	"github.com/couriersync/billing/internal/migration"
	"github.com/couriersync/billing/internal/observability"
	"github.com/couriersync/billing/internal/pricing"
	"github.com/couriersync/billing/internal/redis"
	"github.com/couriersync/billing/internal/scheduler"
	"github.com/couriersync/billing/internal/seed"
	"github.com/couriersync/billing/internal/server"
	"github.com/couriersync/billing/pkg/db"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	_ = godotenv.Load()
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "billing",
		Short: "CourierSync billing service",
	}
	root.AddCommand(newMigrateCmd(), newSeedCmd(), newServeCmd(), newSchedulerCmd(), newAllCmd())
	return root
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := fx.New(
				baseModules(),
				migration.Module,
				fx.NopLogger,
			)
			if err := app.Err(); err != nil {
				return err
			}
			return nil
		},
	}
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the starter pricing rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := fx.New(
				baseModules(),
				fx.Invoke(func(conn *gorm.DB, log *zap.Logger) error {
					inserted, err := seed.EnsureStarterRules(conn)
					if err != nil {
						return err
					}
					log.Info("starter rules seeded", zap.Int("inserted", inserted))
					return nil
				}),
				fx.NopLogger,
			)
			return app.Err()
		},
	}
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the pricing and invoicing API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			runApp(serveModules())
			return nil
		},
	}
}

func newSchedulerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scheduler",
		Short: "Run background jobs (overdue invoice sweep)",
		RunE: func(cmd *cobra.Command, args []string) error {
			runApp(fx.Options(
				baseModules(),
				events.Module,
				pricing.Module,
				invoice.Module,
				scheduler.Module,
			))
			return nil
		},
	}
}

func newAllCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "Run migrations, then the API server and scheduler together",
		RunE: func(cmd *cobra.Command, args []string) error {
			runApp(fx.Options(
				serveModules(),
				migration.Module,
				scheduler.Module,
			))
			return nil
		},
	}
}

func baseModules() fx.Option {
	return fx.Options(
		config.Module,
		observability.Module,
		clock.Module,
		fx.Provide(registerSnowflake),
		db.Module,
		redis.Module,
	)
}

func serveModules() fx.Option {
	return fx.Options(
		baseModules(),
		events.Module,
		pricing.Module,
		invoice.Module,
		fx.Provide(server.NewAuthorizer),
		fx.Provide(server.NewEngine),
		fx.Provide(server.NewServer),
		fx.Invoke(func(s *server.Server) { s.RegisterRoutes() }),
		fx.Invoke(server.RunHTTP),
	)
}

func runApp(opts fx.Option) {
	fx.New(opts).Run()
}

func registerSnowflake(cfg config.Config) (*snowflake.Node, error) {
	return snowflake.NewNode(cfg.Snowflake.NodeID)
}
