// Command tilesim is a small top-down tile world built on the ecs package.
// Arrow keys or WASD walk, shift runs, and the door in the overworld leads
// into a house.
package main

import (
	"flag"
	"image/color"
	"log/slog"
	"os"

	"github.com/plus3/tilecore/host/ebitenhost"
)

// Config is everything main reads from the command line.
type Config struct {
	Scale    int
	TPS      int
	Debug    bool
	Grid     bool
	LogLevel slog.Level
}

func parseFlags(args []string) (Config, error) {
	var cfg Config
	fs := flag.NewFlagSet("tilesim", flag.ContinueOnError)
	fs.IntVar(&cfg.Scale, "scale", 4, "Initial window size as a multiple of the logical screen.")
	fs.IntVar(&cfg.TPS, "tps", 60, "Frames per second requested from the host.")
	fs.BoolVar(&cfg.Debug, "debug", false, "Show the ImGui debug windows.")
	fs.BoolVar(&cfg.Grid, "grid", false, "Draw the tile grid.")
	fs.TextVar(&cfg.LogLevel, "log-level", slog.LevelInfo, "Minimum log level (debug, info, warn, error).")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func main() {
	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))

	scheduler, err := newSimulation(logger, cfg.Grid)
	if err != nil {
		logger.Error("failed to build world", "error", err)
		os.Exit(1)
	}

	err = ebitenhost.Run(ebitenhost.Config{
		Title:      "tilesim",
		Width:      ScreenWidth,
		Height:     ScreenHeight,
		Scale:      cfg.Scale,
		TPS:        cfg.TPS,
		Debug:      cfg.Debug,
		Background: color.RGBA{0, 0, 0, 0xff},
		Logger:     logger,
	}, scheduler)
	if err != nil {
		logger.Error("host stopped", "error", err)
		os.Exit(1)
	}

	logger.Info("exiting", "stats", scheduler.GetStats().String())
}
