package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/catalytics/catalytics-cron/app"
	"github.com/catalytics/catalytics-cron/config"
	"github.com/catalytics/catalytics-cron/internal/observability"
	"github.com/urfave/cli/v2"
)

func main() {
	cliApp := &cli.App{
		Name:  "catalytics-cron",
		Usage: "sync applicant badges and refresh the leaderboard",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Value:   "config.yaml",
				Usage:   "path to the configuration file",
				EnvVars: []string{"CONFIG_PATH"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "run the job once and exit",
				Action: runOnce,
			},
			{
				Name:   "schedule",
				Usage:  "run the job on its cron schedule and serve the leaderboard API",
				Action: schedule,
			},
			{
				Name:   "serve",
				Usage:  "serve the leaderboard API and metrics only",
				Action: serve,
			},
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp(c *cli.Context) (context.Context, context.CancelFunc, *app.App, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	obs := observability.New(cfg.Observability, os.Stderr)

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	application, err := app.NewApp(ctx, cfg, obs)
	if err != nil {
		stop()
		return nil, nil, nil, fmt.Errorf("failed to initialize app: %w", err)
	}
	return ctx, stop, application, nil
}

func runOnce(c *cli.Context) error {
	ctx, stop, application, err := newApp(c)
	if err != nil {
		return err
	}
	defer stop()
	defer application.Close(context.Background())

	report := application.RunOnce(ctx, os.Stdout)
	if !report.OK() {
		return cli.Exit("job finished with issues", 1)
	}
	return nil
}

func schedule(c *cli.Context) error {
	ctx, stop, application, err := newApp(c)
	if err != nil {
		return err
	}
	defer stop()

	if err := application.StartScheduler(ctx); err != nil {
		_ = application.Close(context.Background())
		return err
	}
	return application.Serve(ctx)
}

func serve(c *cli.Context) error {
	ctx, stop, application, err := newApp(c)
	if err != nil {
		return err
	}
	defer stop()

	return application.Serve(ctx)
}
