package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"transfer-service/internal/config"
	"transfer-service/internal/server"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Transfer: No .env file found, relying on system env vars")
	}
	cfg := config.Load()
	srv := server.NewServer(cfg)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Println("Shutting down...")
		srv.Shutdown(ctx)
	case err := <-errCh:
		log.Fatal(err)
	}
}
