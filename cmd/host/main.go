package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"emberdelve-server/internal/content"
	"emberdelve-server/internal/domain"
	"emberdelve-server/internal/engine"
	"emberdelve-server/internal/network"
	"emberdelve-server/internal/server"
	"emberdelve-server/internal/storage"
	"emberdelve-server/internal/version"
	"emberdelve-server/pkg/logger"
)

func init() {
	logger.Init()
}

func main() {
	// 1. Парсинг конфигурации
	var seed uint64
	var gameID string
	var verifyID string
	flag.Uint64Var(&seed, "seed", 0, "Dungeon seed (0 for random)")
	flag.StringVar(&gameID, "game", "", "Saved game ID to resume")
	flag.StringVar(&verifyID, "verify", "", "Saved game ID to verify and exit")
	flag.Parse()

	logger.Log.Info("Starting Emberdelve host...")
	logger.Log.Info(version.String())

	cfg, err := server.LoadConfig()
	if err != nil {
		logger.Log.Fatal("Bad configuration: ", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := openStore(ctx, cfg)
	reg := content.NewRegistry()

	// РЕЖИМ ПРОВЕРКИ: прогоняем журнал через движок реплея и выходим
	if verifyID != "" {
		verifyGame(ctx, store, reg, verifyID, cfg.CheckpointInterval)
		return
	}

	// 2. Инициализация движка: возобновление из журнала или новая партия
	var host *engine.Host
	if gameID != "" {
		gameLog, err := store.Load(ctx, gameID)
		if err != nil {
			logger.Log.Fatal("Failed to load game: ", err)
		}
		host, err = engine.FromLog(gameLog, reg)
		if err != nil {
			logger.Log.Fatal("Failed to restore game: ", err)
		}
	} else {
		gameCfg := domain.GameConfig{
			DungeonSeed: uint32(seed),
			RNGSeed:     uint32(seed),
		}
		if seed == 0 {
			// Случайный сид всё равно персистится в конфиге партии
			random := uint32(time.Now().UnixNano())
			gameCfg.DungeonSeed = random
			gameCfg.RNGSeed = random
			logger.Log.Infof("🎲 Using random dungeon seed: %d", random)
		} else {
			logger.Log.Infof("🎲 Using explicit dungeon seed: %d", seed)
		}
		host = engine.NewHost(gameCfg, reg)
	}

	coord := engine.NewCoordinator(host, cfg.PlanningTimeout)
	hub := network.NewBroadcaster()
	game := server.NewGame(host, coord, hub, store, cfg.SaveInterval)

	go game.Run(ctx)

	// 3. Запуск сервера
	srv := server.New(game, store, cfg.Port)
	go func() {
		if err := srv.Run(); err != nil {
			logger.Log.Fatal("Server start error: ", err)
		}
	}()

	<-ctx.Done()
	logger.Log.Info("Shutting down...")
	logger.Log.Info("Done.")
}

func verifyGame(ctx context.Context, store storage.Store, reg content.Registry, gameID string, interval int) {
	gameLog, err := store.Load(ctx, gameID)
	if err != nil {
		logger.Log.Fatal("Failed to load game: ", err)
	}
	replay := engine.NewReplayEngine(gameLog, reg, interval)
	match, report, err := replay.VerifyDeterminism()
	if err != nil {
		logger.Log.Fatal("Verification error: ", err)
	}
	logger.Log.WithFields(logrus.Fields{
		"game_id":  gameID,
		"applied":  report.Applied,
		"failures": len(report.Failures),
		"match":    match,
	}).Info("Determinism check finished.")
	if !match {
		os.Exit(1)
	}
}

func openStore(ctx context.Context, cfg server.Config) storage.Store {
	if cfg.RedisAddr != "" {
		store, err := storage.NewRedisStore(ctx, cfg.RedisAddr)
		if err != nil {
			logger.Log.Fatal("Redis unavailable: ", err)
		}
		return store
	}
	store, err := storage.NewFileStore(cfg.SaveDir)
	if err != nil {
		logger.Log.Fatal("Save dir unavailable: ", err)
	}
	return store
}
