package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cryptonstudio/ladder-matching-engine/config"
	"github.com/cryptonstudio/ladder-matching-engine/generator"
	"github.com/cryptonstudio/ladder-matching-engine/logging"
	"github.com/cryptonstudio/ladder-matching-engine/providers/feed"
)

func main() {
	var configPath string
	var instructions int
	flag.StringVar(&configPath, "config", "", "Path to the config file")
	flag.IntVar(&instructions, "i", 0, "Instructions per instrument, overrides the config")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if instructions > 0 {
		cfg.Generator.Instructions = instructions
	}
	logger, err := logging.New(cfg.Log.Production, cfg.Log.Level)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync() // nolint:errcheck

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		logger.Fatal("failed to create data dir", zap.String("path", cfg.DataDir), zap.Error(err))
	}

	timeStart := time.Now()
	directory := cfg.Directory()
	group, ctx := errgroup.WithContext(context.Background())
	for id, name := range cfg.Names() {
		group.Go(func() error {
			path := filepath.Join(cfg.DataDir, name+".dat")
			if err := generate(ctx, cfg, directory, uint32(id), path); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			logger.Info("instructions generated", zap.String("instrument", name), zap.String("path", path))
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		logger.Fatal("failed to generate instructions", zap.Error(err))
	}

	logger.Info("done",
		zap.Int("instruments", directory.Len()),
		zap.Int("instructions", cfg.Generator.Instructions*directory.Len()),
		zap.Duration("elapsed", time.Since(timeStart)),
	)
}

func generate(ctx context.Context, cfg *config.Config, directory *feed.Directory, symbolID uint32, path string) error {
	generatorConfig, err := cfg.GeneratorConfig(symbolID)
	if err != nil {
		return err
	}
	g, err := generator.New(generatorConfig)
	if err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := feed.NewWriter(file, directory)
	if err := w.WriteHeader(); err != nil {
		return err
	}
	// Generate in parts so other instruments could stop this one
	const part = 1 << 16
	for g.Generated() < generatorConfig.Instructions {
		if err := ctx.Err(); err != nil {
			return err
		}
		for i := 0; i < part && g.Generated() < generatorConfig.Instructions; i++ {
			if err := w.Write(g.Next()); err != nil {
				return err
			}
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return file.Close()
}
