package main

//	@title		Notes App API
//	@version	1.0
//	@description	Notes App is a small notes service with structured request logging and a Grafana log dashboard.

//	@contact.name	Notes App Maintainers

//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT

//	@host		localhost:3000
//	@BasePath	/

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ebogdum/notes-app/config"
	applog "github.com/ebogdum/notes-app/core/log"
	"github.com/ebogdum/notes-app/notes"
	"github.com/ebogdum/notes-app/notes/memory"
	"github.com/ebogdum/notes-app/server"
)

var rootCmd = &cobra.Command{
	Use:   "notes-app",
	Short: "Notes App - notes service with request logging",
	Long: `Notes App serves a JSON API and a small web front-end for managing notes,
logging every request to the console and to JSON log files.`,
}

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the Notes App server",
	Long:  "Start the Notes App HTTP server with the configured logging and dashboard settings",
	RunE:  runServer,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management commands",
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration",
	Long:  "Validate the Notes App configuration and display the loaded settings",
	RunE:  validateConfig,
}

var configFilePath string

func main() {
	serverCmd.Flags().StringVarP(&configFilePath, "config", "c", "", "Path to configuration file")
	validateCmd.Flags().StringVarP(&configFilePath, "config", "c", "", "Path to configuration file")

	configCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(serverCmd, configCmd)

	// If no command specified, default to server
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "server")
	}

	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

// runServer starts the Notes App server
func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigFromFile(configFilePath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// File sink failures are reported on stderr and leave console logging on
	logs := applog.New(cfg.Log, cfg.App)
	defer func() {
		if err := logs.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to close log sinks: %v\n", err)
		}
	}()
	logger := logs.Logger()

	logger.Info("Starting Notes App server",
		zap.String("listen_addr", cfg.Server.ListenAddr()),
		zap.String("log_dir", logs.Dir()),
		zap.Bool("file_logging", logs.FileSinksEnabled()))

	watcher, err := startConfigWatcher(logs)
	if err != nil {
		logger.Warn("Config hot reload disabled", zap.Error(err))
	}
	if watcher != nil {
		defer watcher.Stop()
	}

	store := memory.NewStore(notes.DefaultSeed(time.Now()))

	logger.Info("Initializing HTTP router")
	router := server.NewRouter(store, cfg, logger)

	srv := &http.Server{
		Addr:         cfg.Server.ListenAddr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	logger.Info("Notes App started successfully",
		zap.Int("port", cfg.Server.Port),
		zap.String("environment", cfg.App.Environment),
		zap.String("go_version", runtime.Version()))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("Shutting down server...", zap.String("signal", sig.String()))
	case err, ok := <-serveErr:
		if ok {
			logger.Error("Failed to start server", zap.Error(err))
			return fmt.Errorf("server failed: %w", err)
		}
	}

	if err := logs.Sync(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to sync logger: %v\n", err)
	}

	// In-flight requests are not drained
	if err := srv.Close(); err != nil {
		logger.Error("Failed to close server", zap.Error(err))
		return err
	}

	logger.Info("Server stopped")
	return nil
}

// startConfigWatcher re-applies log.level whenever the config file in use
// changes. It returns nil when no config file is in use.
func startConfigWatcher(logs *applog.Manager) (*config.Watcher, error) {
	path := configFilePath
	if path == "" {
		path = config.FindConfigFile()
	}
	if path == "" {
		return nil, nil
	}

	logger := logs.Logger()
	watcher, err := config.NewWatcher(path, logger)
	if err != nil {
		return nil, err
	}

	watcher.OnChange(func(cfg config.AppConfig) {
		if cfg.Log.Level == logs.Level() {
			return
		}
		if err := logs.SetLevel(cfg.Log.Level); err != nil {
			logger.Warn("Ignoring reloaded log level", zap.String("level", cfg.Log.Level), zap.Error(err))
			return
		}
		logger.Info("Log level changed", zap.String("level", cfg.Log.Level))
	})
	watcher.Start()

	logger.Info("Watching config file for changes", zap.String("path", path))
	return watcher, nil
}

// validateConfig validates the Notes App configuration and displays settings
func validateConfig(cmd *cobra.Command, args []string) error {
	fmt.Println("Validating configuration...")

	cfg, err := config.LoadConfigFromFile(configFilePath)
	if err != nil {
		fmt.Printf("❌ Configuration validation failed: %v\n", err)
		return err
	}

	fmt.Println("✅ Configuration is valid")
	fmt.Printf("Service: %s (%s)\n", cfg.App.Name, cfg.App.Environment)
	fmt.Printf("Listen Address: %s\n", cfg.Server.ListenAddr())
	fmt.Printf("Log Level: %s\n", cfg.Log.Level)
	fmt.Printf("Log Directory: %s\n", applog.ResolveDir(cfg.Log, cfg.App))
	fmt.Printf("Grafana URL: %s\n", cfg.Dashboard.GrafanaURL)
	if cfg.Metrics.Enabled {
		fmt.Printf("Metrics Path: %s\n", cfg.Metrics.Path)
	}

	return nil
}
