package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"snapcal/config"
	eventHTTP "snapcal/internal/event/delivery/http"
	tgDelivery "snapcal/internal/event/delivery/telegram"
	"snapcal/internal/httpserver"
	"snapcal/internal/middleware"
	"snapcal/pkg/gcalendar"
	"snapcal/pkg/log"
	"snapcal/pkg/telegram"
)

const ngrokAPIBase = "http://ngrok:4040"

// Serve runs the HTTP API (and the Telegram webhook when enabled) until ctx is cancelled.
func Serve(ctx context.Context, logger log.Logger, cfg *config.Config) error {
	logger.Info(ctx, "Starting snapcal...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)

	// 1. Pipeline
	pipeline, err := NewPipeline(ctx, logger, cfg, ConsentFor(cfg.GoogleCalendar.Consent, os.Stdin, os.Stderr))
	if err != nil {
		return err
	}
	if st, err := pipeline.Credentials.Status(ctx); err != nil {
		logger.Warnf(ctx, "Google Calendar token store unreadable: %v", err)
	} else if st == gcalendar.StateAbsent {
		logger.Warn(ctx, "No Google Calendar token yet → run `snapcal auth` to authorize")
	} else {
		logger.Infof(ctx, "Google Calendar token is %s", st)
	}

	if err := os.MkdirAll(cfg.HTTPServer.UploadDir, 0o700); err != nil {
		return fmt.Errorf("upload dir: %w", err)
	}

	// 2. Middleware
	perMin := 0
	if cfg.RateLimit.Enabled {
		perMin = cfg.RateLimit.PerMin
	}
	mw := middleware.New(logger, middleware.Config{
		CORSOrigins:     cfg.HTTPServer.CORSOrigins,
		RateLimitPerMin: perMin,
		MaxUploadBytes:  cfg.HTTPServer.MaxUploadMB << 20,
	})

	// 3. Delivery
	eventHandler := eventHTTP.New(logger, pipeline.UseCase, eventHTTP.Config{
		TempDir:  cfg.HTTPServer.UploadDir,
		Location: pipeline.Location,
	})

	var telegramHandler tgDelivery.Handler
	if cfg.Telegram.Enabled {
		bot := telegram.NewBot(cfg.Telegram.BotToken)
		telegramHandler = tgDelivery.New(logger, pipeline.UseCase, bot, tgDelivery.Config{
			TempDir:    cfg.HTTPServer.UploadDir,
			RunTimeout: cfg.HTTPServer.RequestTimeout,
			MaxBytes:   cfg.HTTPServer.MaxUploadMB << 20,
		})
		registerWebhook(ctx, logger, bot, cfg.Telegram.WebhookURL)
	} else {
		logger.Info(ctx, "Telegram delivery disabled")
	}

	// 4. Background jobs
	jobs, err := StartJobs(ctx, logger, pipeline.Credentials, JobsConfig{
		TokenKeepalive: cfg.Jobs.TokenKeepalive,
		UploadSweep:    cfg.Jobs.UploadSweep,
		UploadDir:      cfg.HTTPServer.UploadDir,
		UploadMaxAge:   cfg.Jobs.UploadMaxAge,
	})
	if err != nil {
		return err
	}
	defer func() { <-jobs.Stop().Done() }()

	// 5. HTTP Server
	httpServer, err := httpserver.New(logger, httpserver.Config{
		Logger:          logger,
		Port:            cfg.HTTPServer.Port,
		Mode:            cfg.HTTPServer.Mode,
		Environment:     cfg.Environment.Name,
		RequestTimeout:  cfg.HTTPServer.RequestTimeout,
		Middleware:      mw,
		ReadyCheck:      readyCheck(pipeline),
		EventHandler:    eventHandler,
		TelegramHandler: telegramHandler,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize HTTP server: %w", err)
	}

	// 6. Run
	return httpServer.Run(ctx)
}

// registerWebhook points Telegram at this server: the configured URL, else an ngrok tunnel.
func registerWebhook(ctx context.Context, logger log.Logger, bot *telegram.Bot, webhookURL string) {
	if webhookURL == "" {
		ngrokURL, err := detectNgrokURL(ctx, ngrokAPIBase)
		if err != nil {
			logger.Warnf(ctx, "Could not detect ngrok URL: %v", err)
			return
		}
		webhookURL = ngrokURL + "/webhook/telegram"
		logger.Infof(ctx, "Auto-detected ngrok URL: %s", webhookURL)
	}

	if err := bot.SetWebhook(ctx, webhookURL); err != nil {
		logger.Warnf(ctx, "Failed to set Telegram webhook: %v", err)
		return
	}
	logger.Infof(ctx, "Telegram webhook registered at %s", webhookURL)
}

func readyCheck(p *Pipeline) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if p.Vision.Primary() == nil {
			return errors.New("no vision provider")
		}
		st, err := p.Credentials.Status(ctx)
		if err != nil {
			return fmt.Errorf("token store: %w", err)
		}
		if st == gcalendar.StateAbsent {
			return errors.New("no calendar token, run `snapcal auth`")
		}
		return nil
	}
}
