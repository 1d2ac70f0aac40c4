package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/AIOpsCrew/ssl-monitor/internal/config"
	"github.com/AIOpsCrew/ssl-monitor/internal/handlers"
	"github.com/AIOpsCrew/ssl-monitor/internal/monitor"
	"github.com/AIOpsCrew/ssl-monitor/internal/notify"
	"github.com/AIOpsCrew/ssl-monitor/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		logrus.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close()

	checker := monitor.NewChecker(st, buildPublisher(cfg), cfg.ExpiringThreshold)
	checker.Concurrency = cfg.CheckConcurrency

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := seed(ctx, st, checker, cfg.SeedFile); err != nil {
		logrus.WithError(err).Warn("Seed bootstrap failed")
	}

	go monitor.NewScheduler(checker, cfg.CheckHour).Run(ctx)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})
	app.Use(recover.New())

	app.Get("/healthz", handlers.Healthz())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")
	api.Get("/websites", handlers.ListSites(checker))
	api.Post("/websites", handlers.AddSite(checker))
	api.Get("/websites/errors", handlers.ListErrored(checker))
	api.Get("/websites/:id", handlers.GetSite(checker))
	api.Delete("/websites/:id", handlers.RemoveSite(checker))
	api.Post("/websites/:id/check", handlers.CheckSite(checker))
	api.Post("/refresh", handlers.RefreshAll(checker))
	api.Post("/bulk_import", handlers.BulkImport(checker))

	go func() {
		<-ctx.Done()
		logrus.Info("Shutting down")
		_ = app.Shutdown()
	}()

	if err := app.Listen(":" + cfg.Port); err != nil {
		logrus.Fatalf("Server error: %v", err)
	}
}

// seed bootstraps an empty store from the optional seed file so a fresh
// deployment starts with something to monitor.
func seed(ctx context.Context, st store.Store, checker *monitor.Checker, path string) error {
	sites, err := st.Load(ctx)
	if err != nil {
		return err
	}
	if len(sites) > 0 {
		return nil
	}

	entries, err := store.LoadSeedFile(path)
	if err != nil || len(entries) == 0 {
		return err
	}

	added := 0
	for _, e := range entries {
		if _, err := checker.AddSite(ctx, e.URL, e.Name, e.RelatedDomains); err != nil {
			logrus.WithError(err).WithField("url", e.URL).Warn("Skipping seed entry")
			continue
		}
		added++
	}
	logrus.WithField("count", added).Info("Initialized sites from seed file")
	return nil
}

func buildPublisher(cfg *config.Config) notify.Publisher {
	var pubs notify.Multi

	if p := notify.NewSNSPublisher(cfg.AWSRegion, cfg.SNSTopicARN, cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey); p != nil {
		pubs = append(pubs, p)
	}
	if p := notify.NewWebhookPublisher(cfg.WebhookURL, cfg.WebhookFormat); p != nil {
		pubs = append(pubs, p)
	}
	if p := notify.NewEmailPublisher(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom, cfg.AlertEmail, cfg.SMTPUsername, cfg.SMTPPassword); p != nil {
		pubs = append(pubs, p)
	}

	if len(pubs) == 0 {
		logrus.Info("No notification target configured, alerts disabled")
		return nil
	}
	return pubs
}
