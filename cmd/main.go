package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"foodcourt/internal/config"
	"foodcourt/internal/database"
	"foodcourt/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	portFlag := func(value int) *cli.IntFlag {
		return &cli.IntFlag{Name: "port", Value: value, EnvVars: []string{"PORT"}, Usage: "HTTP port"}
	}
	prefetchFlag := func() *cli.IntFlag {
		return &cli.IntFlag{Name: "prefetch", Value: 1, Usage: "RabbitMQ prefetch count"}
	}

	return &cli.App{
		Name:  "foodcourt",
		Usage: "food court order lifecycle services",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Value:   "config.yaml",
				EnvVars: []string{"CONFIG_PATH"},
				Usage:   "path to the YAML configuration file",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "order-service",
				Usage:  "accept, price and commit customer orders",
				Flags:  []cli.Flag{portFlag(3000)},
				Action: withDeps("order-service", runOrderService),
			},
			{
				Name:   "kitchen-service",
				Usage:  "kitchen queue, preparation status and inventory",
				Flags:  []cli.Flag{portFlag(3001)},
				Action: withDeps("kitchen-service", runKitchenService),
			},
			{
				Name:   "tracking-service",
				Usage:  "customer order feed and pickup notifications",
				Flags:  []cli.Flag{portFlag(3002)},
				Action: withDeps("tracking-service", runTrackingService),
			},
			{
				Name:   "notification-subscriber",
				Usage:  "print customer notifications and reorder alerts",
				Flags:  []cli.Flag{prefetchFlag()},
				Action: withDeps("notification-subscriber", runNotificationSubscriber),
			},
			{
				Name:  "kitchen-display",
				Usage: "print incoming kitchen tickets",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Value: "kitchen-display", Usage: "display name, used as consumer tag"},
					prefetchFlag(),
				},
				Action: withDeps("kitchen-display", runKitchenDisplay),
			},
			{
				Name:  "migrate",
				Usage: "apply or roll back database migrations",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "down", Usage: "roll back this many steps instead of migrating up"},
				},
				Action: withDeps("migrate", runMigrate),
			},
		},
	}
}

// deps is what every command starts from
type deps struct {
	cfg *config.Config
	log *logger.Logger
}

func withDeps(service string, run func(c *cli.Context, rt *deps) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg, err := config.Load(c.String("config"))
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		rt := &deps{cfg: cfg, log: logger.New(service)}
		requestID := logger.GenerateRequestID()
		rt.log.Info("service_started", fmt.Sprintf("Starting %s", service), requestID, map[string]interface{}{
			"config": c.String("config"),
		})

		if err := run(c, rt); err != nil {
			rt.log.Error("service_failed", fmt.Sprintf("%s failed", service), requestID, err, nil)
			return err
		}

		rt.log.Info("service_stopped", "Service stopped gracefully", requestID, nil)
		return nil
	}
}

func runMigrate(c *cli.Context, rt *deps) error {
	if steps := c.Int("down"); steps > 0 {
		return database.RollbackMigrations(rt.cfg.MigrationURL(), steps, rt.log)
	}
	return database.RunMigrations(rt.cfg.MigrationURL(), rt.log)
}
