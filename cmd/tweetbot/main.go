package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/umputun/tweetbot/pkg/composer"
	"github.com/umputun/tweetbot/pkg/config"
	"github.com/umputun/tweetbot/pkg/publisher"
	"github.com/umputun/tweetbot/pkg/scheduler"
	"github.com/umputun/tweetbot/pkg/twitter"
	"github.com/umputun/tweetbot/server"
)

// Opts with all CLI options
type Opts struct {
	Port   int    `short:"p" long:"port" env:"PORT" default:"5000" description:"listen port"`
	Config string `short:"c" long:"config" env:"CONFIG" description:"optional configuration file"`

	Twitter struct {
		APIKey       string `long:"api-key" env:"API_KEY" description:"api (consumer) key"`
		APISecret    string `long:"api-secret" env:"API_SECRET" description:"api (consumer) secret"`
		AccessToken  string `long:"access-token" env:"ACCESS_TOKEN" description:"user access token"`
		AccessSecret string `long:"access-secret" env:"ACCESS_SECRET" description:"user access token secret"`
	} `group:"twitter" namespace:"twitter" env-namespace:"TWITTER"`

	DryRun bool `long:"dry-run" env:"DRY_RUN" description:"compose posts without sending them"`

	// Common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

func main() {
	// credentials may come from a dotenv file, it has to be loaded before flags parsing picks env
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	envErr := loadEnvFile(envFile)

	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	SetupLog(opts.Debug, opts.NoColor, credentials(opts).Secrets()...)
	if envErr != nil {
		log.Printf("[WARN] can't load %s: %v", envFile, envErr)
	}

	log.Printf("[INFO] starting tweetbot version %s", revision)

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Print("[INFO] termination signal received")
		cancel()
	}()

	err := run(ctx, opts)
	cancel()

	if err != nil {
		log.Printf("[ERROR] %v", err)
		os.Exit(1)
	}

	log.Print("[INFO] shutdown complete")
}

// application holds everything built at startup, scheduler and server share the publisher
type application struct {
	publisher *publisher.Publisher
	scheduler *scheduler.Scheduler
	server    *server.Server
}

func newApplication(opts Opts) (*application, error) {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	creds := credentials(opts)
	if !creds.Complete() {
		log.Printf("[ERROR] missing twitter credentials, set TWITTER_API_KEY, TWITTER_API_SECRET, " +
			"TWITTER_ACCESS_TOKEN and TWITTER_ACCESS_SECRET")
	}

	// posting quota is shared by all clients, scheduled and manual posts draw from the same budget
	perDay := cfg.Twitter.PostsPerDay
	limiter := rate.NewLimiter(rate.Every(24*time.Hour/time.Duration(perDay)), perDay)

	pub := publisher.New(publisher.Params{
		Credentials: creds,
		Composer:    composer.New(cfg.Content),
		Timeout:     cfg.Publish.Timeout,
		DryRun:      opts.DryRun,
		PosterMaker: func(c twitter.Credentials) (publisher.Poster, error) {
			client, err := twitter.New(twitter.Params{
				Credentials: c,
				BaseURL:     cfg.Twitter.Endpoint,
				Limiter:     limiter,
				MaxAttempts: cfg.Twitter.MaxAttempts,
				Timeout:     cfg.Twitter.RequestTimeout,
			})
			if err != nil {
				return nil, err
			}
			return client, nil
		},
	})

	sched, err := scheduler.New(scheduler.Params{
		Publisher: pub,
		Interval:  cfg.Schedule.Interval,
		Cron:      cfg.Schedule.Cron,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to make scheduler: %w", err)
	}

	listen := cfg.Server.Listen
	if listen == "" {
		listen = fmt.Sprintf(":%d", opts.Port)
	}
	srv := server.New(server.Config{
		Listen:  listen,
		Timeout: cfg.Server.Timeout,
		Version: revision,
		Debug:   opts.Debug,
	}, pub, sched)

	return &application{publisher: pub, scheduler: sched, server: srv}, nil
}

// run starts the scheduler and the http server, blocks until ctx is canceled or the server fails
func run(ctx context.Context, opts Opts) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	if err := app.scheduler.Start(ctx); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	g.Go(func() error {
		<-ctx.Done()
		app.scheduler.Stop()
		return nil
	})

	g.Go(func() error {
		if err := app.server.Run(ctx); err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	return g.Wait()
}

func credentials(opts Opts) twitter.Credentials {
	return twitter.Credentials{
		APIKey:       opts.Twitter.APIKey,
		APISecret:    opts.Twitter.APISecret,
		AccessToken:  opts.Twitter.AccessToken,
		AccessSecret: opts.Twitter.AccessSecret,
	}
}

// loadEnvFile loads variables from a dotenv file without overriding the process environment,
// missing file is not an error
func loadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}

// SetupLog configures lgr and redirects the std logger to it, secrets are masked in all output
func SetupLog(dbg, noColor bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	if !noColor {
		colorizer := lgr.Mapper{
			ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
			WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
			InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
			DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
			CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
			TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
		}
		logOpts = append(logOpts, lgr.Map(colorizer))
	}
	if len(secs) > 0 {
		logOpts = append(logOpts, lgr.Secret(secs...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
