// Package server provides the HTTP server setup for go-stamppdf.
//
// NewServer creates and configures the HTTP server, the upload store and its
// retention policy.
//
// Expected outputs:
// - Server listens on the configured port (default 8000)
// - Only the newest MAX_STORED_FILES uploads and results are kept on disk
//
// Usage:
//
//	server, err := server.NewServer(server.LoadConfig())
//	server.ListenAndServe()
//
// See internal/server/routes.go for route registration.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go-stamppdf/internal/store"
)

type Server struct {
	port          int
	Store         store.Store
	Retention     *store.Retention
	MaxUploadSize int64
	Origins       []string
}

func NewServer(cfg Config) (*http.Server, error) {
	disk, err := store.NewDisk(cfg.UploadDir)
	if err != nil {
		return nil, err
	}

	srv := &Server{
		port:          cfg.Port,
		Store:         disk,
		Retention:     store.NewRetention(disk, cfg.MaxStoredFiles),
		MaxUploadSize: cfg.MaxUploadSize,
		Origins:       cfg.AllowedOrigins,
	}

	// Eviction also runs after every stamping request; the ticker covers
	// uploads abandoned mid-request.
	ctx, cancel := context.WithCancel(context.Background())
	go srv.Retention.Run(ctx, cfg.PruneInterval)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", srv.port),
		Handler:      srv.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}
	server.RegisterOnShutdown(cancel)

	return server, nil
}
