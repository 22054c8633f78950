// Copyright (c) 2026 WSO2 LLC. (https://www.wso2.com).
//
// WSO2 LLC. licenses this file to you under the Apache License,
// Version 2.0 (the "License"); you may not use this file except
// in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

// Package main is the entry point for the branded QR code service.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/wso2-open-operations/common-tools/operations/branded-qr/internal/app"
	"github.com/wso2-open-operations/common-tools/operations/branded-qr/internal/config"
	"github.com/wso2-open-operations/common-tools/operations/branded-qr/internal/logger"
	transport "github.com/wso2-open-operations/common-tools/operations/branded-qr/internal/transport/http"
)

func main() {
	log := logger.InitLogger()
	defer logger.Sync()
	log.Debug("Starting branded QR service initialization")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}
	log.Debug("Configuration loaded",
		zap.String("port", cfg.Port),
		zap.Duration("read_timeout", cfg.ReadTimeout),
		zap.Duration("write_timeout", cfg.WriteTimeout),
		zap.Strings("logo_paths", cfg.LogoPaths),
		zap.Bool("debug_endpoints", cfg.DebugEndpoints),
	)

	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	a, err := app.New(startCtx, cfg, log, app.Options{
		OutputCache: true,
		Diagnostics: cfg.DebugEndpoints,
	})
	cancelStart()
	if err != nil {
		log.Fatal("Failed to initialize service", zap.Error(err))
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Warn("Failed to close connections", zap.Error(err))
		}
	}()

	h := transport.NewHandler(a.Service, a.Diagnostics, log, cfg.DefaultWidth, cfg.DefaultHeight)
	log.Debug("HTTP handler initialized")

	// Configure HTTP server with timeouts and security settings
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           h.Routes(),
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: 2 * time.Second,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}
	log.Debug("HTTP server configured",
		zap.String("addr", srv.Addr),
		zap.Duration("read_timeout", cfg.ReadTimeout),
		zap.Duration("write_timeout", cfg.WriteTimeout),
	)

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Starting server", zap.String("port", cfg.Port), zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 2)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		log.Error("Server failed", zap.Error(err))
		return
	case sig := <-quit:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))
	}
	log.Debug("Initiating graceful shutdown", zap.Duration("timeout", cfg.ShutdownTimeout))

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err), zap.Duration("timeout", cfg.ShutdownTimeout))
		if errors.Is(err, context.DeadlineExceeded) {
			log.Warn("Shutdown timeout exceeded, closing connections")
			_ = srv.Close()
		}
		return
	}

	log.Info("Server exited gracefully")
}
