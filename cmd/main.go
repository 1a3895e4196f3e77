package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ai_diary/internal/handlers"
	"ai_diary/internal/llm"
	"ai_diary/internal/logger"
	"ai_diary/internal/repository"
	"ai_diary/internal/server"
	"ai_diary/internal/service"

	"github.com/spf13/viper"
)

const sweepTick = 1 * time.Minute

// @title        AI Diary API
// @version      1.0
// @description  Guided diary creation: summary, clarifying questions, composed entries.
// @securityDefinitions.apikey BearerAuth
// @in   header
// @name Authorization
func main() {
	// load config.yml first so the logger level comes from it
	if err := loadConfig(); err != nil {
		fmt.Fprintln(os.Stderr, "error reading config:", err)
		os.Exit(1)
	}

	log := logger.Get(viper.GetString("log_level"))

	// open DB
	db, err := openDB(log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			log.Fatalw("failed to close sqlite", "err", cerr)
		}
	}()

	// build the text-generation client
	client, err := buildLLM()
	if err != nil {
		log.Fatalw("failed to init llm client", "err", err)
	}

	// wire dependencies
	repos := repository.NewRepository(db)
	services := service.NewService(service.Deps{
		Repos:      repos,
		LLM:        client,
		Log:        log,
		SigningKey: viper.GetString("auth.signing_key"),
		TokenTTL:   viper.GetDuration("auth.token_ttl"),
		SessionTTL: viper.GetDuration("session.ttl"),
	})
	apiHandler := handlers.NewHandler(services, log)

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// evict expired workflow sessions
	go services.Sweeper.Run(ctx, sweepTick)

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, viper.GetString("port"), apiHandler, log)

	waitForShutdown(cancel, srv, log)
}

func loadConfig() error {
	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")
	return viper.ReadInConfig()
}

// openDB initializes the SQLite database using configuration.
func openDB(log *logger.Logger) (*sql.DB, error) {
	dbPath := viper.GetString("db.path")
	if dbPath == "" {
		log.Infow("db.path not set in config; using default file", "default", "diary.db")
		dbPath = "diary.db"
	}
	return repository.InitDB(dbPath)
}

// buildLLM constructs the chat-completion client from config. The API key
// is read from the environment variable named by llm.api_key_env.
func buildLLM() (llm.Client, error) {
	provider := viper.GetString("llm.provider")
	switch provider {
	case "openai", "deepseek":
		apiKeyEnv := viper.GetString("llm.api_key_env")
		if apiKeyEnv == "" {
			apiKeyEnv = "OPENAI_API_KEY"
		}
		return llm.NewOpenAIClient(llm.Settings{
			Provider: provider,
			Model:    viper.GetString("llm.model"),
			APIKey:   os.Getenv(apiKeyEnv),
			BaseURL:  viper.GetString("llm.base_url"),
		})
	case "mock":
		return llm.Mock{}, nil
	default:
		return nil, fmt.Errorf("llm provider %q not supported", provider)
	}
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if port == "" {
			port = "8080"
		}
		if err := srv.Run(port, handler.InitRoutes()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop background goroutines
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
