package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"snapcal/config"
	_ "snapcal/docs" // Swagger docs for serve
	"snapcal/internal/app"
	"snapcal/internal/event"
	"snapcal/pkg/icsexport"
	"snapcal/pkg/log"
)

func main() {
	cliApp := &cli.App{
		Name:  "snapcal",
		Usage: "Turn a photo of an event notice into a Google Calendar event.",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "debug", Usage: "Log at debug level, including raw model replies."},
		},
		Commands: []*cli.Command{
			authCommand(),
			processCommand(),
			serveCommand(),
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cliApp.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "snapcal:", err)
		os.Exit(1)
	}
}

// setup loads config and builds the logger, honouring --debug.
func setup(c *cli.Context) (*config.Config, log.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if c.Bool("debug") {
		cfg.Logger.Level = "debug"
		cfg.HTTPServer.Mode = "debug"
	}
	return cfg, app.NewLogger(cfg.Logger), nil
}

func authCommand() *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Authorize Google Calendar access and save the token.",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "no-browser", Usage: "Paste the authorization code instead of using a local redirect."},
		},
		Action: func(c *cli.Context) error {
			cfg, logger, err := setup(c)
			if err != nil {
				return err
			}

			mode := config.ConsentLoopback
			if c.Bool("no-browser") {
				mode = config.ConsentPrompt
			}
			creds, err := app.NewCredentialManager(logger, cfg.GoogleCalendar, app.ConsentFor(mode, os.Stdin, os.Stderr))
			if err != nil {
				return err
			}

			if _, err := creds.Authorize(c.Context); err != nil {
				return fmt.Errorf("authorization failed: %w", err)
			}
			fmt.Printf("Token saved to %s\n", creds.TokenPath())
			return nil
		},
	}
}

func processCommand() *cli.Command {
	return &cli.Command{
		Name:      "process",
		Usage:     "Extract an event from an image and add it to the calendar.",
		ArgsUsage: "<image>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "dry-run", Usage: "Stop after validation. Nothing is written to the calendar."},
			&cli.StringFlag{Name: "ics", Usage: "Also write the extracted event to `FILE` as iCalendar."},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("usage: snapcal process <image>", 2)
			}
			cfg, logger, err := setup(c)
			if err != nil {
				return err
			}

			pipeline, err := app.NewPipeline(c.Context, logger, cfg, app.ConsentFor(cfg.GoogleCalendar.Consent, os.Stdin, os.Stderr))
			if err != nil {
				return err
			}
			input := event.ProcessInput{ImagePath: c.Args().First()}

			var ev event.ExtractOutput
			if c.Bool("dry-run") {
				ev, err = pipeline.UseCase.Extract(c.Context, input)
				if err != nil {
					return cli.Exit(describe(err), 1)
				}
				fmt.Printf("%s\n  start: %s\n  end:   %s\n", ev.Event.Summary, ev.Event.Start.DateTime, ev.Event.End.DateTime)
			} else {
				out, err := pipeline.UseCase.Process(c.Context, input)
				if err != nil {
					return cli.Exit(describe(err), 1)
				}
				ev.Event = out.Event
				fmt.Println(out.Created.HTMLLink)
			}

			if path := c.String("ics"); path != "" {
				ics, err := event.ICSEvent(ev.Event, pipeline.Location)
				if err != nil {
					return fmt.Errorf("ics: %w", err)
				}
				if err := icsexport.WriteFile(path, ics); err != nil {
					return err
				}
				fmt.Fprintf(os.Stderr, "Wrote %s\n", path)
			}
			return nil
		},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API and the Telegram webhook.",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "port", Usage: "Listen port (overrides http_server.port)."},
		},
		Action: func(c *cli.Context) error {
			cfg, logger, err := setup(c)
			if err != nil {
				return err
			}
			if c.IsSet("port") {
				cfg.HTTPServer.Port = c.Int("port")
			}
			if err := app.Serve(c.Context, logger, cfg); err != nil {
				return err
			}
			logger.Info(c.Context, "Server stopped gracefully")
			return nil
		},
	}
}

// describe renders a pipeline error for the terminal.
func describe(err error) string {
	var ve *event.ValidationError
	var pe *event.ParseError
	switch {
	case errors.As(err, &ve):
		return fmt.Sprintf("the extracted event is invalid: %s %s", ve.Reason, ve.Field)
	case errors.As(err, &pe):
		return fmt.Sprintf("the model reply is not a JSON object: %v\nreply: %s", pe.Err, pe.Reply)
	case errors.Is(err, event.ErrAuth):
		return fmt.Sprintf("%v\nrun `snapcal auth` to authorize Google Calendar", err)
	default:
		return err.Error()
	}
}
