package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/BjornMelin/contribux-sub005/auth"
	"github.com/BjornMelin/contribux-sub005/github"
	"github.com/BjornMelin/contribux-sub005/observe"
)

type rootOptions struct {
	baseURL         string
	envFile         string
	logLevel        string
	metricsExporter string
	traceExporter   string

	observer observe.Observer
	emitter  observe.Emitter
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "contribux-doctor",
		Short:         "Self-checks and quota status for a GitHub client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// A missing .env file is fine; explicit paths must exist.
			if err := godotenv.Load(opts.envFile); err != nil && opts.envFile != ".env" {
				return fmt.Errorf("load %s: %w", opts.envFile, err)
			}

			obs, emitter, err := newTelemetry(cmd.Context(), opts)
			if err != nil {
				return fmt.Errorf("configure telemetry: %w", err)
			}
			opts.observer = obs
			opts.emitter = emitter
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if opts.observer == nil {
				return nil
			}
			return opts.observer.Shutdown(cmd.Context())
		},
	}

	cmd.PersistentFlags().StringVar(&opts.baseURL, "base-url", "https://api.github.com", "API root URL")
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "environment file to load")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level (debug|info|warn|error)")
	cmd.PersistentFlags().StringVar(&opts.metricsExporter, "metrics-exporter", "none", "metrics exporter (otlp|prometheus|stdout|none)")
	cmd.PersistentFlags().StringVar(&opts.traceExporter, "trace-exporter", "none", "trace exporter (otlp|stdout|none)")

	cmd.AddCommand(newCheckCmd(opts))
	cmd.AddCommand(newRateLimitCmd(opts))
	return cmd
}

// newTelemetry builds the observer and the dispatch emitter every
// client built by this invocation reports through.
func newTelemetry(ctx context.Context, opts *rootOptions) (observe.Observer, observe.Emitter, error) {
	obs, err := observe.NewObserver(ctx, observe.Config{
		ServiceName: "contribux-doctor",
		Tracing: observe.TracingConfig{
			Enabled:   opts.traceExporter != "none" && opts.traceExporter != "",
			Exporter:  opts.traceExporter,
			SamplePct: 1.0,
		},
		Metrics: observe.MetricsConfig{
			Enabled:  true,
			Exporter: opts.metricsExporter,
		},
		Logging: observe.LoggingConfig{
			Enabled: true,
			Level:   opts.logLevel,
		},
	})
	if err != nil {
		return nil, nil, err
	}
	emitter, err := obs.Emitter()
	if err != nil {
		return nil, nil, err
	}
	return obs, emitter, nil
}

// clientFromEnv builds a client from environment credentials. Token
// auth wins over App auth wins over OAuth app credentials.
func clientFromEnv(opts *rootOptions) (*github.Client, error) {
	var cfg auth.Config
	switch {
	case os.Getenv("GITHUB_TOKEN") != "":
		cfg = auth.TokenConfig{Token: os.Getenv("GITHUB_TOKEN")}

	case os.Getenv("GITHUB_APP_ID") != "":
		keyPath := os.Getenv("GITHUB_APP_PRIVATE_KEY_PATH")
		if keyPath == "" {
			return nil, errors.New("GITHUB_APP_ID is set but GITHUB_APP_PRIVATE_KEY_PATH is not")
		}
		pem, err := os.ReadFile(keyPath)
		if err != nil {
			return nil, fmt.Errorf("read private key: %w", err)
		}
		app := auth.AppConfig{
			AppID:         os.Getenv("GITHUB_APP_ID"),
			PrivateKeyPEM: pem,
		}
		if v := os.Getenv("GITHUB_APP_INSTALLATION_ID"); v != "" {
			id, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("parse GITHUB_APP_INSTALLATION_ID: %w", err)
			}
			app.InstallationID = id
		}
		cfg = app

	case os.Getenv("GITHUB_CLIENT_ID") != "":
		cfg = auth.OAuthConfig{
			ClientID:     os.Getenv("GITHUB_CLIENT_ID"),
			ClientSecret: os.Getenv("GITHUB_CLIENT_SECRET"),
		}

	default:
		return nil, errors.New("no credentials: set GITHUB_TOKEN, GITHUB_APP_ID, or GITHUB_CLIENT_ID")
	}

	return github.New(github.Options{
		Auth:    cfg,
		BaseURL: opts.baseURL,
		Emitter: opts.emitter,
	})
}
