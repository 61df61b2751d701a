package main

import (
	"context"
	"fmt"
	stdlog "log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/serenechat/serenechat/internal/ai"
	"github.com/serenechat/serenechat/internal/config"
	"github.com/serenechat/serenechat/internal/handler"
	"github.com/serenechat/serenechat/internal/history"
	"github.com/serenechat/serenechat/internal/hub"
	"github.com/serenechat/serenechat/internal/registry"
	"github.com/serenechat/serenechat/internal/service"
	"github.com/serenechat/serenechat/pkg/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatalf("Failed to load configuration: %v", err)
	}

	log.Init(log.Config{
		Level:       cfg.Log.Level,
		Pretty:      cfg.Log.Pretty,
		ServiceName: "serenechat",
	})
	logger := log.L()

	// Core components
	store := history.New(cfg.Chat.HistoryCapacity)
	reg := registry.NewMemoryRegistry()
	runner := ai.NewHTTPRunner(cfg.AI)
	transformer := ai.NewTransformer(runner, cfg.AI)

	wsHub := hub.NewHub(cfg.WebSocket)
	go wsHub.Run()

	chatSvc := service.NewChatService(wsHub, store, reg, transformer, cfg.Chat)
	defer chatSvc.Stop()

	// HTTP surface
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(log.GinMiddleware(*logger), gin.Recovery())

	handler.NewWSHandler(wsHub, chatSvc, cfg.WebSocket, cfg.Chat.DefaultRoom).RegisterRoutes(router)
	handler.NewHTTPHandler(chatSvc).RegisterRoutes(router)

	server := &http.Server{
		Addr:        fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().Str("addr", server.Addr).Msg("serenechat listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal().Err(err).Msg("server error")
	}

	logger.Info().Msg("serenechat stopped")
}
