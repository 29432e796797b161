package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/jhchabran/polls"
	"github.com/jhchabran/polls/cmd"
	"github.com/jhchabran/polls/sqlstore"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg := cmd.DefaultConfig()
	err := cfg.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Cannot read configuration")
	}
	logger := cmd.SetupLogger(cfg)

	// setup database
	store := sqlstore.New(cfg.DatabaseDriver, cfg.DSN())

	// fire the server
	s := polls.NewServer(&polls.ServerConfig{Addr: cfg.Addr, Secret: cfg.ServerSecret}, logger, store)
	err = s.Prepare()
	if err != nil {
		logger.Fatal().Err(err).Msg("Cannot prepare server")
	}

	// signal.Notify requires the channel to be buffered
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigc
		logger.Info().Str("signal", sig.String()).Msg("Shutting down")
		s.Stop()
	}()

	err = s.Start()
	if err != nil {
		logger.Fatal().Err(err).Msg("Cannot start server")
	}
}
