package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"taskmanager/internal/accounts"
	"taskmanager/internal/config"
	"taskmanager/internal/database"
	"taskmanager/internal/mailer"
	"taskmanager/internal/otp"
	"taskmanager/internal/registration"
	"taskmanager/internal/resettoken"
	"taskmanager/internal/tasks"
)

func init() {
	// Load environment variables from .env file.
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}
}

func main() {
	cfg := config.FromEnv()
	if cfg.TokenSecret == "" {
		log.Fatal("TOKEN_SECRET must be set")
	}

	// Create a context for initialization.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := database.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatalf("Initialization error: %v", err)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Printf("Error disconnecting from DB: %v", err)
		}
	}()

	users := database.UserCollection(client, cfg.MongoDB)
	taskCol := database.TaskCollection(client, cfg.MongoDB)
	lists := database.ListCollection(client, cfg.MongoDB)
	if err := database.EnsureIndexes(ctx, users, lists); err != nil {
		log.Fatalf("Initialization error: %v", err)
	}

	notifier := mailer.NewSMTP(mailer.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.MailFrom,
	})

	accountStore := accounts.NewMongoStore(users)
	taskStore := tasks.NewMongoStore(client, taskCol, lists)

	app := &server{
		accounts: accountStore,
		flow:     registration.NewFlow(accountStore, registration.NewPendingStore(), otp.Issuer{}, notifier, cfg.OTPTTL),
		reset:    resettoken.NewService(accountStore, notifier, []byte(cfg.TokenSecret), cfg.ResetTokenMaxAge, cfg.ResetBaseURL),
		engine:   tasks.NewEngine(taskStore),
		catalog:  tasks.NewCatalog(taskStore),
	}

	// Create a new Gorilla Mux router.
	router := mux.NewRouter()
	app.routes(router)

	// Wrap the router with logging middleware.
	loggedRouter := handlers.LoggingHandler(os.Stdout, router)

	// Create the HTTP server.
	srv := &http.Server{
		Handler:      loggedRouter,
		Addr:         cfg.HTTPAddr,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start the server in a goroutine.
	go func() {
		log.Printf("Server running on http://localhost%s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signals for graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Graceful shutdown.
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exiting gracefully.")
}
