package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "taskboard/docs" // swagger metadata

	"taskboard/internal/events"
	"taskboard/internal/handlers"
	"taskboard/internal/logger"
	"taskboard/internal/ratelimit"
	"taskboard/internal/repository"
	"taskboard/internal/repository/db"
	"taskboard/internal/server"
	"taskboard/internal/service"

	"github.com/spf13/viper"
)

func main() {
	// init logger at default level first; reconfigure is not needed because
	// Get latches on first call, so read config before any logging happens
	// below Info.
	if err := loadConfig(); err != nil {
		logger.Get(logger.InfoLevel).Fatalw("error reading config", "err", err)
	}
	log := logger.Get(viper.GetString("log_level"))

	// open DB
	database, err := openDB(log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := database.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(database)
	feed := events.NewBroadcaster()
	limiter := ratelimit.New(
		viper.GetInt("rate_limit.requests"),
		viper.GetDuration("rate_limit.window"),
	)
	services := service.NewService(repos, feed, service.Config{
		SigningKey: viper.GetString("auth.signing_key"),
		TokenTTL:   time.Duration(viper.GetInt("auth.token_ttl_minutes")) * time.Minute,
	})
	apiHandler := handlers.NewHandler(services, feed, limiter, log)

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, viper.GetString("port"), apiHandler, log)

	// graceful shutdown
	waitForShutdown(srv, log)
}

// loadConfig reads configs/config.yml and lets TASKBOARD_* env vars override
// individual keys (e.g. TASKBOARD_AUTH_SIGNING_KEY).
func loadConfig() error {
	viper.SetDefault("port", "8080")
	viper.SetDefault("log_level", logger.InfoLevel)
	viper.SetDefault("db.path", "tasks.db")
	viper.SetDefault("auth.token_ttl_minutes", 30)
	viper.SetDefault("rate_limit.requests", 100)
	viper.SetDefault("rate_limit.window", time.Hour)

	viper.SetEnvPrefix("taskboard")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")
	return viper.ReadInConfig()
}

// openDB initializes the SQLite database using configuration.
func openDB(log *logger.Logger) (*sql.DB, error) {
	dbPath := viper.GetString("db.path")
	if dbPath == "" {
		log.Infow("db.path not set in config; using default file", "default", "tasks.db")
		dbPath = "tasks.db"
	}
	return db.InitDB(dbPath)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if err := srv.Run(port, handler.InitRoutes()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// allow in-flight requests to complete
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
