// Package main API.
//
// go-stamppdf provides a REST API for stamping an image onto PDF pages.
//
//	@title			go-stamppdf API
//	@version		1.0.0
//	@description	Stamps an image onto the pages of a PDF document.
//	@host			localhost:8000
//	@BasePath		/
//	@schemes		http
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go-stamppdf/internal/server"
	"go-stamppdf/internal/store"
)

func gracefulShutdown(apiServer *http.Server, done chan bool, cleanupFunc func()) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Listen for the interrupt signal.
	<-ctx.Done()

	log.Println("shutting down gracefully, press Ctrl+C again to force")

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown with error: %v", err)
	}

	// Remove uploads and stamped files
	if cleanupFunc != nil {
		log.Println("Cleaning upload directory")
		cleanupFunc()
	}

	log.Println("Server exiting")

	// Notify the main goroutine that the shutdown is complete
	done <- true
}

func cleanupUploads(dir string) func() {
	return func() {
		d, err := store.NewDisk(dir)
		if err != nil {
			log.Printf("[ERROR] opening upload directory: %v", err)
			return
		}
		if err := d.Clear(); err != nil {
			log.Printf("[ERROR] cleaning upload directory: %v", err)
		}
	}
}

func main() {
	cfg := server.LoadConfig()
	cleanup := cleanupUploads(cfg.UploadDir)

	// Cleanup uploads/ on startup
	cleanup()

	log.Printf("Starting server on port %d", cfg.Port)

	server, err := server.NewServer(cfg)
	if err != nil {
		log.Fatalf("server setup failed: %v", err)
	}

	// Create a done channel to signal when the shutdown is complete
	done := make(chan bool, 1)

	// Run graceful shutdown in a separate goroutine
	go gracefulShutdown(server, done, cleanup)

	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		panic(fmt.Sprintf("http server error: %s", err))
	}

	// Wait for the graceful shutdown to complete
	<-done
	log.Println("Graceful shutdown complete.")
}
