package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mumumio1/mockapi/internal/config"
	"github.com/mumumio1/mockapi/internal/dataset"
	"github.com/mumumio1/mockapi/internal/instance"
	"github.com/mumumio1/mockapi/internal/log"
	"github.com/mumumio1/mockapi/internal/metrics"
	"github.com/mumumio1/mockapi/internal/server"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "mockapi",
		Short: "Mock REST backend for load balancer demos",
		Long: `mockapi serves a small fixed set of posts and users over HTTP.
Every response names the instance that produced it, so a client behind a
load balancer can see which backend answered.

SERVER_NAME and PORT select the instance label and listening port.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath)
		},
	}
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (YAML or JSON)")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "mockapi version %s (built %s)\n", version, buildTime)
		},
	})

	return rootCmd
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := log.NewLogger(log.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		OutputPath: cfg.Logging.OutputPath,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	logger = logger.With(log.String("server", cfg.Server.Name))
	logger.Info("Starting mockapi",
		log.String("version", version),
		log.String("build_time", buildTime),
	)

	inst := instance.New(cfg.Server.Name, cfg.Server.Port)
	data := dataset.Seed()

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.NewMetrics(inst.Name, inst.Uptime)
		logger.Info("Metrics enabled", log.String("path", cfg.Metrics.Path))
	}

	srv := server.New(server.Options{
		Dataset:     data,
		Instance:    inst,
		Logger:      logger,
		Metrics:     m,
		CORS:        cfg.CORS,
		MetricsPath: cfg.Metrics.Path,
	})

	addr := net.JoinHostPort(cfg.Server.Address, strconv.Itoa(int(cfg.Server.Port)))
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      srv.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Bind before announcing so a taken port aborts startup
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		logger.Fatal("Failed to bind listener", log.String("address", addr), log.Error(err))
	}

	printBanner(os.Stdout, inst.Name, cfg.Server.Port, m != nil, cfg.Metrics.Path)
	logger.Info("Listening",
		log.String("address", addr),
		log.Int("posts", data.PostCount()),
		log.Int("users", data.UserCount()),
	)

	serveErr := make(chan error, 1)
	go func() {
		if err := httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("Shutting down server...", log.String("signal", sig.String()))
	case err := <-serveErr:
		if err != nil {
			logger.Error("Server error", log.Error(err))
			return err
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := httpSrv.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", log.Error(err))
		return err
	}

	logger.Info("Server stopped", log.Duration("uptime", inst.Uptime()))
	return nil
}
