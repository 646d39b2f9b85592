package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/guidekit/guidekit"
	"github.com/guidekit/guidekit/internal/adapters/redis"
	"github.com/guidekit/guidekit/internal/adapters/ws"
	"github.com/guidekit/guidekit/internal/assets"
	"github.com/guidekit/guidekit/internal/config"
	"github.com/guidekit/guidekit/internal/hosttest"
	"github.com/guidekit/guidekit/internal/logging"
	"github.com/guidekit/guidekit/internal/prefs"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the palette bridge server",
	Long:  `Starts the websocket bridge the embedded palette view connects to, plus health, metrics and asset endpoints. Without a CAD process attached it runs against a simulated host, which is enough to develop and debug tutorial documents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfgPath, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		if v, _ := cmd.Flags().GetString("addr"); v != "" {
			cfg.Addr = v
		}
		if v, _ := cmd.Flags().GetString("dir"); v != "" {
			cfg.TutorialDir = v
		}
		if v, _ := cmd.Flags().GetString("data-dir"); v != "" {
			cfg.DataDir = v
		}
		if v, _ := cmd.Flags().GetString("asset-dir"); v != "" {
			cfg.AssetDir = v
		}
		return runServe(cfg)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("addr", "a", "", "Listen address (e.g. :8700)")
	serveCmd.Flags().StringP("dir", "d", "", "Directory containing tutorial documents")
	serveCmd.Flags().String("data-dir", "", "Directory for the preference file (defaults to the tutorial dir)")
	serveCmd.Flags().String("asset-dir", "", "Directory of palette reference images")
	serveCmd.Flags().StringP("config", "c", "", "Path to a YAML config file")
}

func runServe(cfg config.Config) error {
	logger := logging.New(parseLevel(cfg.LogLevel))

	opts := []guidekit.Option{guidekit.WithLogger(logger)}

	if cfg.Redis != nil {
		store := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		defer store.Close()
		opts = append(opts, guidekit.WithPreferenceStore(store))
	} else if cfg.DataDir != "" {
		opts = append(opts, guidekit.WithPreferenceStore(prefs.NewFileStore(cfg.DataDir, logger)))
	}

	var am *assets.Manager
	if cfg.AssetDir != "" {
		am = assets.NewManager(cfg.AssetDir, logger)
		opts = append(opts, guidekit.WithAssetManager(am))
	}

	// The simulated host stands in for the CAD process; the palette drives
	// navigation against a scripted Design/Solid context.
	host := hosttest.New()

	app, err := guidekit.New(host, cfg.TutorialDir, opts...)
	if err != nil {
		return fmt.Errorf("error initializing guidekit: %w", err)
	}
	defer app.Close()

	watchCtx, cancelWatch := context.WithCancel(context.Background())
	defer cancelWatch()
	if err := app.WatchTutorials(watchCtx); err != nil {
		logger.Warn("tutorial watching disabled", "err", err)
	}

	server := ws.NewServer(app, am, app.Registry(), logger)
	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: server.Handler(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("guidekit server listening", "addr", cfg.Addr, "tutorials", cfg.TutorialDir)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info("shutting down", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Warn("graceful shutdown did not complete", "err", err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("error killing server: %w", err)
			}
		}
		logger.Info("guidekit server stopped")
	}
	return nil
}

func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
