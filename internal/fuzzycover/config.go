package fuzzycover

import (
	"math"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type SceneCfg struct {
	X        Range   `yaml:"x"`
	Y        Range   `yaml:"y"`
	Z        Range   `yaml:"z"`
	PStep    float64 `yaml:"pstep,omitempty"`
	DStepDeg float64 `yaml:"dstepDeg,omitempty"` // angular step in degrees
}

// RotDeg is a rotation in degrees. A non-zero Axis selects axis-angle,
// otherwise X, Y, Z are Euler angles applied in Order (default "xyz").
type RotDeg struct {
	Order    string  `yaml:"order,omitempty"`
	X        float64 `yaml:"x,omitempty"`
	Y        float64 `yaml:"y,omitempty"`
	Z        float64 `yaml:"z,omitempty"`
	Axis     Point   `yaml:"axis,omitempty"`
	AngleDeg float64 `yaml:"angleDeg,omitempty"`
}

type PoseCfg struct {
	T      Point  `yaml:"t"`
	RotDeg RotDeg `yaml:"rotDeg"`
}

type CameraCfg struct {
	Name        string      `yaml:"name"`
	Intrinsics  Intrinsics  `yaml:"intrinsics"`
	Application Application `yaml:"application"`
	Pose        PoseCfg     `yaml:"pose"`
}

type OccluderCfg struct {
	Name      string     `yaml:"name"`
	Triangles [][3]Point `yaml:"triangles"`
	Pose      PoseCfg    `yaml:"pose"`
}

type Config struct {
	Policy    string        `yaml:"policy,omitempty"`
	Workers   int           `yaml:"workers,omitempty"`
	RawOut    string        `yaml:"rawOut,omitempty"`
	GIFOut    string        `yaml:"gifOut,omitempty"`
	GIFDelay  int           `yaml:"gifDelay,omitempty"`
	Gamma     float64       `yaml:"gamma,omitempty"`
	Scene     SceneCfg      `yaml:"scene"`
	Opaque    []Point       `yaml:"opaque,omitempty"`
	Occluders []OccluderCfg `yaml:"occluders,omitempty"`
	Cameras   []CameraCfg   `yaml:"cameras"`
}

func (r RotDeg) Build() (Rotation, error) {
	if r.Axis.Norm() >= Eps {
		return RotationFromAxisAngle(radians(r.AngleDeg), r.Axis), nil
	}
	order := r.Order
	if order == "" {
		order = "xyz"
	}
	return RotationFromEuler(order, radians(r.X), radians(r.Y), radians(r.Z))
}

func (p PoseCfg) Build() (Pose, error) {
	R, err := p.RotDeg.Build()
	if err != nil {
		return Pose{}, err
	}
	return NewPose(p.T, R), nil
}

func (s SceneCfg) Build() (*Scene, error) {
	return NewScene(s.X, s.Y, s.Z, s.PStep, radians(s.DStepDeg))
}

func (c CameraCfg) Build() (*Camera, error) {
	pose, err := c.Pose.Build()
	if err != nil {
		return nil, errors.Wrapf(err, "camera %s", c.Name)
	}
	return NewCamera(c.Name, c.Intrinsics, c.Application, pose)
}

func (o OccluderCfg) Build() (*Occluder, error) {
	pose, err := o.Pose.Build()
	if err != nil {
		return nil, errors.Wrapf(err, "occluder %s", o.Name)
	}
	tris := make([]Triangle, len(o.Triangles))
	for i, v := range o.Triangles {
		tris[i] = Triangle{V: v}
	}
	return NewOccluder(o.Name, tris, pose)
}

// parseConfig decodes YAML (or JSON) and applies defaults.
func parseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(ErrInvalidConfig, err.Error())
	}
	if cfg.Policy == "" {
		cfg.Policy = DefaultPolicy
	}
	if _, err := ParsePolicy(cfg.Policy); err != nil {
		return nil, err
	}
	if cfg.Scene.PStep <= 0 {
		cfg.Scene.PStep = DefaultPStep
	}
	if cfg.Scene.DStepDeg <= 0 {
		cfg.Scene.DStepDeg = DefaultDStep * 180 / math.Pi
	}
	if cfg.GIFDelay <= 0 {
		cfg.GIFDelay = GIFDelay
	}
	if cfg.Gamma <= 0 {
		cfg.Gamma = Gamma
	}
	if len(cfg.Cameras) == 0 {
		return nil, errors.Wrap(ErrInvalidConfig, "config has no cameras")
	}
	names := make(map[string]bool, len(cfg.Cameras))
	for _, c := range cfg.Cameras {
		if names[c.Name] {
			return nil, errors.Wrapf(ErrDuplicateCamera, "%q", c.Name)
		}
		names[c.Name] = true
	}
	return &cfg, nil
}

func loadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading config %s", path)
	}
	cfg, err := parseConfig(data)
	if err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	DebugLog("Loaded config from %s: policy=%s, cameras=%d, occluders=%d, opaque=%d, pstep=%g, dstep=%g°",
		path, cfg.Policy, len(cfg.Cameras), len(cfg.Occluders), len(cfg.Opaque), cfg.Scene.PStep, cfg.Scene.DStepDeg)
	return cfg, nil
}
