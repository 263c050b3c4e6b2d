package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime/pprof"

	"github.com/urfave/cli"

	"github.com/lukaszgryglicki/fuzzycover/internal/fuzzycover"
)

func main() {
	app := cli.NewApp()
	app.Name = "fuzzycover"
	app.Usage = "fuzzy multi-camera coverage of a discretized scene"
	app.ArgsUsage = "[config.yaml]"
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "config, c", Value: "scenes/example.yaml", Usage: "run description (YAML or JSON)"},
		cli.BoolFlag{Name: "debug", Usage: "verbose output and per-camera sight statistics", EnvVar: "DEBUG"},
		cli.BoolFlag{Name: "profile", Usage: "write a CPU profile to cpu.out", EnvVar: "PROFILE"},
		cli.BoolFlag{Name: "quiet, q", Usage: "no progress bars"},
		cli.IntFlag{Name: "workers, w", Usage: "in-scene workers (0 = all CPUs)", EnvVar: "WORKERS"},
	}
	app.Action = run
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	level := slog.LevelInfo
	if c.Bool("debug") {
		level = slog.LevelDebug
		fuzzycover.Debug = true
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	fuzzycover.Workers = c.Int("workers")
	fuzzycover.ShowProgress = !c.Bool("quiet")

	if c.Bool("profile") {
		f, err := os.Create("cpu.out")
		if err != nil {
			return err
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			return err
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		}()
	}

	cfg := c.String("config")
	if c.NArg() > 0 {
		cfg = c.Args().First()
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return fuzzycover.Run(ctx, cfg)
}
