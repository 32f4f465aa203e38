// Command picocored runs a picocore server: a minimal Minecraft Java
// Edition 1.21.8 (protocol 772) server core. Grounded on the teacher's
// cmd/server/main.go (flag parsing, start, signal-driven shutdown), adapted
// from its Config-literal-plus-flags shape to layering flags over
// pkg/config's YAML-loadable defaults.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/pico-mc/picocore/pkg/config"
	"github.com/pico-mc/picocore/pkg/mcserver"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file (optional)")
	port := flag.Int("port", 0, "Server port (0 = use config/default)")
	maxPlayers := flag.Int("max-players", 0, "Maximum number of players (0 = use config/default)")
	motd := flag.String("motd", "", "Server MOTD (empty = use config/default)")
	seed := flag.Int64("seed", 0, "World seed (0 = use config/default)")
	savePath := flag.String("save", "", "World save file path (empty = use config/default)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("loading config", "path", *configPath, "err", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Port = *port
	}
	if *maxPlayers != 0 {
		cfg.MaxPlayers = *maxPlayers
	}
	if *motd != "" {
		cfg.MOTD = *motd
	}
	if *seed != 0 {
		cfg.WorldSeed = *seed
	}
	if *savePath != "" {
		cfg.WorldSavePath = *savePath
	}

	srv, err := mcserver.New(cfg, logger)
	if err != nil {
		logger.Error("starting server", "err", err)
		os.Exit(1)
	}

	logger.Info("picocore starting", "protocol", "1.21.8", "port", cfg.Port, "max_players", cfg.MaxPlayers)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := srv.Run(ctx); err != nil {
		logger.Error("server stopped with error", "err", err)
		os.Exit(1)
	}
	logger.Info("picocore stopped")
}
