package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/puluc-backend/internal/config"
	"github.com/rocketscienceinc/puluc-backend/internal/puluc"
	"github.com/rocketscienceinc/puluc-backend/internal/repository"
	"github.com/rocketscienceinc/puluc-backend/internal/repository/storage"
	"github.com/rocketscienceinc/puluc-backend/internal/usecase"
	"github.com/rocketscienceinc/puluc-backend/transport/rest"
	"github.com/rocketscienceinc/puluc-backend/transport/websocket"
)

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	redisClient, err := storage.New(ctx, conf.Redis.GetRedisAddr())
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisClient.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	rules := conf.Puluc.Rules()

	engine, err := puluc.NewEngine(rules, puluc.NewDice(conf.Puluc.Seed, rules.RollMin, rules.RollMax))
	if err != nil {
		return fmt.Errorf("could not create rules engine: %w", err)
	}

	matchRepo := repository.NewMatchRepository(redisClient, conf.Redis.MatchTTL)
	matchManager := usecase.NewMatchManager(logger, matchRepo, engine)

	log.Info("Puluc rules loaded",
		"boardLength", rules.BoardLength,
		"piecesPerSide", rules.PiecesPerSide,
		"rollMin", rules.RollMin,
		"rollMax", rules.RollMax,
	)

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := rest.Start(ctx, logger, conf.HTTPPort, matchManager); httpErr != nil {
			log.Error("HTTP server error", "error", httpErr)
			httpErrCh <- httpErr
		}
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		wsServer := websocket.New(logger, matchManager)
		if wsErr := wsServer.Start(ctx, conf.SocketPort); wsErr != nil {
			log.Error("WebSocket server error", "error", wsErr)
			wsErrCh <- wsErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err = <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}
