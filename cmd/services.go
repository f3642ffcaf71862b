package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"foodcourt/internal/api"
	"foodcourt/internal/database"
	"foodcourt/internal/logger"
	"foodcourt/internal/messaging"
	"foodcourt/internal/metrics"
	"foodcourt/internal/services/inventory"
	"foodcourt/internal/services/kitchen"
	"foodcourt/internal/services/notification"
	"foodcourt/internal/services/order"
	"foodcourt/internal/services/tracking"
)

func runOrderService(c *cli.Context, rt *deps) error {
	if err := database.RunMigrations(rt.cfg.MigrationURL(), rt.log); err != nil {
		return err
	}

	db, err := database.New(c.Context, rt.cfg, rt.log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	conn, err := messaging.New(rt.cfg, rt.log)
	if err != nil {
		return fmt.Errorf("failed to initialize messaging: %w", err)
	}
	defer conn.Close()

	m := metrics.NewRegistry()
	service := order.NewService(order.NewRepository(db), messaging.NewPublisher(conn, rt.log), m, rt.log, rt.cfg)

	mux := newMux("order-service", db, m, rt.log)
	order.NewHandler(service, rt.log).Register(mux)

	return serve(c.Context, rt.log, "Order Service", c.Int("port"), api.WithLogging(rt.log, mux))
}

func runKitchenService(c *cli.Context, rt *deps) error {
	db, err := database.New(c.Context, rt.cfg, rt.log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	conn, err := messaging.New(rt.cfg, rt.log)
	if err != nil {
		return fmt.Errorf("failed to initialize messaging: %w", err)
	}
	defer conn.Close()

	m := metrics.NewRegistry()
	publisher := messaging.NewPublisher(conn, rt.log)

	mux := newMux("kitchen-service", db, m, rt.log)
	kitchen.NewHandler(kitchen.NewService(kitchen.NewRepository(db), publisher, m, rt.log), rt.log).Register(mux)
	inventory.NewHandler(inventory.NewService(inventory.NewRepository(db), publisher, m, rt.log), rt.log).Register(mux)

	return serve(c.Context, rt.log, "Kitchen Service", c.Int("port"), api.WithLogging(rt.log, mux))
}

func runTrackingService(c *cli.Context, rt *deps) error {
	db, err := database.New(c.Context, rt.cfg, rt.log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	m := metrics.NewRegistry()
	service := tracking.NewService(tracking.NewRepository(db), rt.cfg.Orders.NotificationWindow, rt.log)

	mux := newMux("tracking-service", db, m, rt.log)
	tracking.NewHandler(service, rt.log).Register(mux)

	return serve(c.Context, rt.log, "Tracking Service", c.Int("port"), api.WithLogging(rt.log, mux))
}

func runNotificationSubscriber(c *cli.Context, rt *deps) error {
	conn, err := messaging.New(rt.cfg, rt.log)
	if err != nil {
		return fmt.Errorf("failed to initialize messaging: %w", err)
	}

	consumer := messaging.NewConsumer(conn, rt.log, messaging.NotificationsQueue, "notification-subscriber", c.Int("prefetch"))
	defer consumer.Close()

	return notification.NewSubscriber(consumer, os.Stdout, rt.log).Start(c.Context)
}

func runKitchenDisplay(c *cli.Context, rt *deps) error {
	conn, err := messaging.New(rt.cfg, rt.log)
	if err != nil {
		return fmt.Errorf("failed to initialize messaging: %w", err)
	}

	name := c.String("name")
	consumer := messaging.NewConsumer(conn, rt.log, messaging.KitchenQueue, name, c.Int("prefetch"))
	defer consumer.Close()

	return kitchen.NewDisplay(name, rt.cfg.Orders.Currency, consumer, os.Stdout, rt.log).Start(c.Context)
}

func newMux(service string, db api.Pinger, m *metrics.Registry, log *logger.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("GET /health", api.HealthHandler(service, db, log))
	mux.Handle("GET /metrics", m.Handler())
	return mux
}

// serve runs an HTTP server until ctx is done, then shuts it down.
func serve(ctx context.Context, log *logger.Logger, name string, port int, handler http.Handler) error {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("service_started", fmt.Sprintf("%s started on port %d", name, port), "startup", map[string]interface{}{
			"port": port,
		})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("graceful_shutdown", "Received shutdown signal", "shutdown", nil)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
