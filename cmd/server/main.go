package main

import (
	"net/http"

	"github.com/fistulo/faqbot/internal/api"
	"github.com/fistulo/faqbot/internal/config"
	"github.com/fistulo/faqbot/internal/db"
	"github.com/fistulo/faqbot/internal/llm"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// A missing .env file is fine; the environment may be set directly.
	_ = godotenv.Load()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.New()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	database, err := db.New(cfg.DBPath)
	if err != nil {
		logger.Fatal("failed to initialize database",
			zap.Error(err),
			zap.String("dbPath", cfg.DBPath))
	}
	defer database.Close()

	engine, err := llm.New(cfg.AnthropicAPIKey, cfg.LLMModel, cfg.ProfilePath, cfg.BotSubject, cfg.ContactEmail)
	if err != nil {
		logger.Fatal("failed to initialize answer engine", zap.Error(err))
	}

	handler := api.NewHandler(database, engine, logger, cfg.AdminToken)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/ask", handler.HandleAsk)
	mux.HandleFunc("/api/health", handler.HandleHealth)
	mux.HandleFunc("/api/admin", handler.HandleAdmin)

	root := api.CORS(cfg.AllowedOrigin(), api.RequestLog(logger, mux))

	logger.Info("starting server",
		zap.String("addr", cfg.ListenAddr),
		zap.String("allowedOrigin", cfg.AllowedOrigin()))
	if err := http.ListenAndServe(cfg.ListenAddr, root); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
