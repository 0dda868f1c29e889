package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/bcdannyboy/blackvol/positions"
)

type config struct {
	Input    string
	Output   string
	Token    string
	Workers  int
	VolGuess float64
	Progress bool
}

func (c config) remote() bool {
	return strings.HasPrefix(c.Input, "http://") || strings.HasPrefix(c.Input, "https://")
}

func (c config) batchOptions(progress io.Writer) positions.BatchOptions {
	opts := positions.BatchOptions{Workers: c.Workers, VolGuess: c.VolGuess}
	if c.Progress {
		opts.Progress = progress
	}
	return opts
}

func getenv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

// loadConfig reads the BLACKVOL_* environment, usually populated from .env.
func loadConfig() (config, error) {
	cfg := config{
		Input:    getenv("BLACKVOL_INPUT", "quotes.json"),
		Output:   getenv("BLACKVOL_OUTPUT", "results.json"),
		Token:    os.Getenv("BLACKVOL_TOKEN"),
		Progress: true,
	}

	if v := os.Getenv("BLACKVOL_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return config{}, fmt.Errorf("BLACKVOL_WORKERS must be a non-negative integer, have %q", v)
		}
		cfg.Workers = n
	}
	if v := os.Getenv("BLACKVOL_VOL_GUESS"); v != "" {
		g, err := strconv.ParseFloat(v, 64)
		if err != nil || !(g >= 0) {
			return config{}, fmt.Errorf("BLACKVOL_VOL_GUESS must be a non-negative number, have %q", v)
		}
		cfg.VolGuess = g
	}
	if v := os.Getenv("BLACKVOL_PROGRESS"); v != "" {
		p, err := strconv.ParseBool(v)
		if err != nil {
			return config{}, fmt.Errorf("BLACKVOL_PROGRESS must be a boolean, have %q", v)
		}
		cfg.Progress = p
	}
	return cfg, nil
}
