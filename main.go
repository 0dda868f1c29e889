package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/golang/glog"
	"github.com/joho/godotenv"

	"github.com/bcdannyboy/blackvol/positions"
	"github.com/bcdannyboy/blackvol/quotes"
)

func main() {
	flag.Parse()
	defer glog.Flush()

	if err := godotenv.Load(); err != nil {
		glog.Warningf("No .env file loaded: %v", err)
	}
	cfg, err := loadConfig()
	if err != nil {
		glog.Exitf("Invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		glog.Errorf("%v", err)
		glog.Flush()
		os.Exit(1)
	}
}

func loadDocument(ctx context.Context, cfg config) (*quotes.Document, error) {
	if cfg.remote() {
		return quotes.Fetch(ctx, nil, cfg.Input, cfg.Token)
	}
	return quotes.Load(cfg.Input)
}

func run(ctx context.Context, cfg config) error {
	doc, err := loadDocument(ctx, cfg)
	if err != nil {
		return err
	}
	batch, err := doc.Jobs()
	if err != nil {
		return err
	}
	glog.Infof("Loaded %d option quotes and %d strips from %s", len(doc.Options), len(doc.Strips), cfg.Input)

	opts := cfg.batchOptions(os.Stdout)
	options, err := positions.EvaluateOptions(ctx, batch.Options, opts)
	if err != nil {
		return err
	}
	strips, err := positions.EvaluateStrips(ctx, batch.Strips, opts)
	if err != nil {
		return err
	}

	out := quotes.Output{
		Options: append(options, batch.RejectedOptions...),
		Strips:  append(strips, batch.RejectedStrips...),
	}
	if err := quotes.WriteResults(cfg.Output, out); err != nil {
		return err
	}

	failed := 0
	for _, rows := range [][]positions.Result{out.Options, out.Strips} {
		for _, r := range rows {
			if r.Error != "" {
				failed++
			}
		}
	}
	glog.Infof("Successfully wrote %d option and %d strip results to %s (%d failed)", len(out.Options), len(out.Strips), cfg.Output, failed)
	return nil
}
