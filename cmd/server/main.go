package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/apex/log"

	"medchat-backend/internal/config"
	"medchat-backend/internal/database"
	"medchat-backend/internal/events"
	"medchat-backend/internal/handlers"
	"medchat-backend/internal/logging"
	"medchat-backend/internal/router"
	"medchat-backend/internal/services"
	"medchat-backend/internal/websocket"
)

func main() {
	// ──── Step 1: Load Environment Variables ────
	// Panics when GROQ_API_KEY is missing; the server never starts.
	cfg := config.Load()

	logging.Setup(os.Stderr, cfg.LogLevel, cfg.IsProduction())
	log.WithField("env", cfg.Env).Info("starting medchat backend")

	// ──── Step 2: Initialize Groq Client ────
	groqClient := services.NewGroqClient(cfg.GroqAPIKey, cfg.GroqBaseURL)
	chatService := services.NewChatService(groqClient)
	log.WithField("model", services.Model).Info("groq client initialized")

	// ──── Step 3: Optional Event Feed ────
	var publisher events.Publisher = events.Nop{}
	var wsHub *websocket.Hub
	if cfg.EventsEnabled() {
		redisClients, err := database.NewRedisClients(cfg.RedisURL)
		if err != nil {
			log.WithError(err).Fatal("redis connection failed")
		}
		defer redisClients.Close()

		publisher = events.NewRedisPublisher(redisClients.Publish, cfg.EventsChannel)
		wsHub = websocket.NewHub(redisClients.PubSub, cfg.EventsChannel)
		defer wsHub.Close()
		log.WithField("channel", cfg.EventsChannel).Info("chat events enabled")
	}

	// ──── Step 4: Start HTTP Server ────
	chatHandler := handlers.NewChatHandler(chatService, publisher)
	r := router.New(chatHandler, wsHub)

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.ReadTimeoutSecs) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeoutSecs) * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.WithField("addr", cfg.Addr()).Info("medchat backend ready")

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.WithError(err).Fatal("server error")
	}
}
