package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/gommon/log"

	"credit-negotiator/config"
	httpLayer "credit-negotiator/http"
	"credit-negotiator/repository"
	"credit-negotiator/service"
)

func main() {
	cfg := config.Load()

	var cache repository.CacheRepository
	if cfg.RedisAddr != "" {
		cache = repository.NewRedisCache(cfg.RedisAddr)
	} else {
		cache = repository.NewMockCache()
	}

	extractor := service.NewFieldExtractor()
	interpreter := service.NewInterpreter(cfg.InterpreterBaseURL, cfg.InterpreterModel, extractor, cache)
	lender := service.NewLenderClient(cfg.LenderBaseURL)
	aggregator := repository.NewOfferAggregator()
	session := service.NewSession(interpreter, lender, aggregator)

	handler := httpLayer.NewSessionHandler(session)

	rateLimiter := httpLayer.NewRateLimiter(30, time.Minute)
	defer rateLimiter.Stop()

	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     httpLayer.NewRouter(handler, rateLimiter),
		ReadTimeout: 15 * time.Second,
		// negotiation calls wait on the lender pool, give them room
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Infof("credit negotiator listening on :%s (session %s)", cfg.Port, session.ID())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		log.Errorf("error starting server: %v", err)
		return
	case <-quit:
		log.Info("shutting down server...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Errorf("error during server shutdown: %v", err)
	}

	log.Info("server exited")
}
