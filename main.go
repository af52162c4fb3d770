package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"fishwrap/bots"
	"fishwrap/config"
	"fishwrap/engine"
	"fishwrap/game"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	switch {
	case errors.Is(err, pflag.ErrHelp):
		config.Usage(os.Stderr)
		return
	case err != nil:
		fmt.Fprintf(os.Stderr, "fishwrap: %v\n\n", err)
		config.Usage(os.Stderr)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "fishwrap: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	logFile, err := os.Create(cfg.LogFile)
	if err != nil {
		return fmt.Errorf("unable to create log file: %w", err)
	}
	defer logFile.Close()

	logger := zerolog.New(logFile).Level(cfg.Level).With().Timestamp().Logger()

	bot, err := bots.New(cfg.Kind, bots.Options{
		ScovillePercent: cfg.ScovillePercent,
		Logger:          logger,
	})
	if err != nil {
		return err
	}

	pool, err := engine.SpawnPool(engine.PoolConfig{
		Path:    cfg.Engine,
		Workers: cfg.Workers,
		Nodes:   cfg.NodeBudget,
		Grace:   cfg.Grace,
		Logger:  logger,
	})
	if err != nil {
		logger.Error().Err(err).Str("engine", cfg.Engine).Msg("unable to start engine")
		return err
	}
	defer func() {
		if err := pool.Shutdown(); err != nil {
			logger.Warn().Err(err).Msg("engine shutdown")
		}
	}()
	logger.Info().
		Str("policy", bot.Name()).
		Int("workers", pool.Size()).
		Uint64("nodes", cfg.NodeBudget).
		Msg("engines ready")

	session := game.NewSession(os.Stdin, os.Stdout, pool, bot, logger)
	pool.SetInfoHandler(session.Relay)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	done := make(chan error, 1)
	go func() {
		done <- session.Run()
	}()

	select {
	case err = <-done:
		if err != nil {
			logger.Error().Err(err).Msg("session failed")
		}
	case sig := <-sigs:
		logger.Info().Stringer("signal", sig).Msg("shutting down")
	}
	return err
}
