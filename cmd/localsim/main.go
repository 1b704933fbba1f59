package main

import (
	"fmt"
	"net/http"
	"os"

	"dianti/config"
	"dianti/logger"
	"dianti/simulator"
)

func main() {
	config.InitConfig()
	cfg, err := config.Load()
	log := logger.GetLoggerConfigured(logger.ParseLevel(cfg.LogLevel))
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	srv, n, err := newServer(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("local simulator")
	}

	log.Info().Str("addr", cfg.SimAddr).Int("buildings", n).Msg("local simulator listening (api endpoint: /api)")
	log.Fatal().Err(http.ListenAndServe(cfg.SimAddr, srv)).Msg("local simulator stopped")
}

// newServer builds the simulator from the embedded presets, or from the
// SIM_BUILDINGS file when one is configured. It also returns the preset count.
func newServer(cfg config.Config) (*simulator.Server, int, error) {
	buildings := simulator.DefaultBuildings()
	if cfg.SimBuildings != "" {
		f, err := os.Open(cfg.SimBuildings)
		if err != nil {
			return nil, 0, fmt.Errorf("open building presets: %w", err)
		}
		defer f.Close()
		buildings, err = simulator.LoadBuildings(f)
		if err != nil {
			return nil, 0, fmt.Errorf("load building presets %s: %w", cfg.SimBuildings, err)
		}
	}
	return simulator.NewServer(buildings), len(buildings), nil
}
