package fuzzycover

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/cheggaaa/pb"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// barProgress shows one terminal progress bar per in-scene pass.
func barProgress(camera string, cells int) (func(), func()) {
	bar := pb.New(cells).Prefix(fmt.Sprintf("%-12s", camera))
	bar.Output = os.Stderr
	bar.ShowSpeed = true
	bar.Start()
	return func() { bar.Increment() }, bar.Finish
}

// Build assembles the scene, occluders, cameras and network described by cfg
// and computes every in-scene set.
func (cfg *Config) Build(ctx context.Context, opts ...Option) (*Network, error) {
	scene, err := cfg.Scene.Build()
	if err != nil {
		return nil, err
	}
	for _, oc := range cfg.Occluders {
		o, err := oc.Build()
		if err != nil {
			return nil, err
		}
		if err := scene.AddOccluder(o); err != nil {
			return nil, err
		}
	}
	if len(cfg.Occluders) > 0 {
		if _, err := scene.RebuildOpacity(); err != nil {
			return nil, err
		}
	}
	for _, p := range cfg.Opaque {
		if err := scene.MakeOpaque(p); err != nil {
			return nil, errors.Wrap(err, "opaque cells")
		}
	}
	policy, err := ParsePolicy(cfg.Policy)
	if err != nil {
		return nil, err
	}
	workers := cfg.Workers
	if Workers > 0 {
		workers = Workers
	}
	nw, err := NewNetwork(scene, policy, append([]Option{WithWorkers(workers)}, opts...)...)
	if err != nil {
		return nil, err
	}
	for _, cc := range cfg.Cameras {
		cam, err := cc.Build()
		if err != nil {
			return nil, err
		}
		if err := nw.AddCamera(ctx, cam); err != nil {
			return nil, err
		}
	}
	return nw, nil
}

func Run(ctx context.Context, cfgPath string) error {
	log := slog.With("run", uuid.New().String())
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}
	var opts []Option
	if ShowProgress {
		opts = append(opts, WithProgress(barProgress))
	}

	start := time.Now()
	nw, err := cfg.Build(ctx, opts...)
	if err != nil {
		return err
	}
	scene := nw.Scene()
	log.Info("in-scene sets computed",
		"cameras", nw.Len(),
		"cells", fmt.Sprintf("%dx%dx%d", scene.Nx, scene.Ny, scene.Nz),
		"directions", scene.Directions(),
		"opaque", len(scene.OpaqueCells()),
		"elapsed", time.Since(start))
	for _, name := range nw.Names() {
		if c, ok := nw.SightStats(name); ok {
			log.Info("camera", "name", name, "covered", c[Covered], "outOfModel", c[OutOfModel], "occluded", c[Occluded])
		}
	}

	model, err := nw.Update()
	if err != nil {
		return err
	}
	log.Info("coverage model updated",
		"policy", nw.Policy(),
		"points", model.Len(),
		"fullyCovered", model.AlphaCut(1),
		"performance", nw.Performance())

	if cfg.RawOut == "" && cfg.GIFOut == "" {
		return nil
	}
	vol := nw.Volume()
	if cfg.RawOut != "" {
		if err := vol.SaveRaw(cfg.RawOut); err != nil {
			return errors.Wrapf(err, "saving %s", cfg.RawOut)
		}
		log.Info("saved raw volume", "path", cfg.RawOut)
	}
	if cfg.GIFOut != "" {
		if err := vol.SaveAnimatedGIF(cfg.GIFOut, cfg.GIFDelay, cfg.Gamma); err != nil {
			return errors.Wrapf(err, "saving %s", cfg.GIFOut)
		}
		log.Info("saved animated GIF", "path", cfg.GIFOut)
	}
	return nil
}
