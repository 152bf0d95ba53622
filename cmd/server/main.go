package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/joho/godotenv"
	"github.com/vedran77/courier/internal/auth"
	"github.com/vedran77/courier/internal/config"
	"github.com/vedran77/courier/internal/database"
	postgresrepo "github.com/vedran77/courier/internal/repository/postgres"
	"github.com/vedran77/courier/internal/service"
	"github.com/vedran77/courier/internal/transport/http/handlers"
	"github.com/vedran77/courier/internal/transport/http/middleware"
	"github.com/vedran77/courier/internal/transport/ws"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found; relying on existing environment")
	}

	cfg := config.Load()

	// Database
	pool, err := database.Connect(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()
	if err := database.Migrate(context.Background(), pool); err != nil {
		log.Fatal(err)
	}
	log.Println("Connected to database")

	// Repositories
	userRepo := postgresrepo.NewUserRepo(pool)
	messageRepo := postgresrepo.NewMessageRepo(pool)

	// Core components
	hasher, err := service.NewPasswordHasher(cfg.BcryptCost)
	if err != nil {
		log.Fatal(err)
	}
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)

	// Services
	authService := service.NewAuthService(userRepo, hasher, tokens)
	userService := service.NewUserService(userRepo)
	messageService := service.NewMessageService(messageRepo, userRepo)

	// WebSocket hub
	hub := ws.NewHub()
	go hub.Run()
	messageService.SetNotifier(ws.NewHubNotifier(hub))

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService, messageService)
	messageHandler := handlers.NewMessageHandler(messageService)

	// Auth middleware
	authMW := middleware.Auth(tokens)

	// Routes
	mux := http.NewServeMux()

	// Public
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "ok"}`))
	})
	mux.HandleFunc("POST /api/v1/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/v1/auth/login", authHandler.Login)
	mux.HandleFunc("GET /ws", ws.ServeWS(hub, tokens))

	// Protected - Users
	mux.Handle("GET /api/v1/users", authMW(http.HandlerFunc(userHandler.List)))
	mux.Handle("GET /api/v1/users/{username}", authMW(http.HandlerFunc(userHandler.Get)))
	mux.Handle("GET /api/v1/users/{username}/messages/from", authMW(http.HandlerFunc(userHandler.MessagesFrom)))
	mux.Handle("GET /api/v1/users/{username}/messages/to", authMW(http.HandlerFunc(userHandler.MessagesTo)))

	// Protected - Messages
	mux.Handle("POST /api/v1/messages", authMW(http.HandlerFunc(messageHandler.Send)))
	mux.Handle("GET /api/v1/messages/{id}", authMW(http.HandlerFunc(messageHandler.Get)))
	mux.Handle("POST /api/v1/messages/{id}/read", authMW(http.HandlerFunc(messageHandler.MarkRead)))

	// Start server with CORS
	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	log.Printf("Starting server on %s", addr)
	log.Fatal(http.ListenAndServe(addr, middleware.CORS(mux)))
}
