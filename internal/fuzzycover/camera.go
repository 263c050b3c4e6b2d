package fuzzycover

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
)

// Intrinsics are the optical parameters of a camera.
type Intrinsics struct {
	A  float64 `yaml:"A"`  // aperture size
	F  float64 `yaml:"f"`  // focal length
	Su float64 `yaml:"su"` // effective pixel width
	Sv float64 `yaml:"sv"` // effective pixel height
	Ou float64 `yaml:"ou"` // principal point, pixels
	Ov float64 `yaml:"ov"`
	W  int     `yaml:"w"` // sensor size, pixels
	H  int     `yaml:"h"`
	ZS float64 `yaml:"zS"` // subject distance
}

// Application holds the task-level acceptability thresholds.
type Application struct {
	Gamma float64 `yaml:"gamma"` // visibility fuzzification, pixels
	R1    float64 `yaml:"r1"`    // fully acceptable resolution
	R2    float64 `yaml:"r2"`    // acceptable resolution
	CMax  float64 `yaml:"cmax"`  // maximum acceptable circle of confusion
	Zeta  float64 `yaml:"zeta"`  // direction fuzzification, radians
}

// Camera is a single-camera fuzzy coverage model with a mutable pose.
type Camera struct {
	posed
	name string
	Intr Intrinsics
	App  Application

	Cvh, Cvv Trapezoid // visibility over x/z and y/z
	Cr       Trapezoid // resolution over depth
	Cf       Trapezoid // focus over depth
	zeta     float64
}

func (in Intrinsics) validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{{"A", in.A}, {"f", in.F}, {"su", in.Su}, {"sv", in.Sv}, {"zS", in.ZS}} {
		if !(f.v > 0) || !isFinite(f.v) {
			return fmt.Errorf("%s must be positive, got %v", f.name, f.v)
		}
	}
	if in.ZS <= in.F {
		return fmt.Errorf("subject distance zS=%v must exceed the focal length f=%v", in.ZS, in.F)
	}
	if in.W <= 0 || in.H <= 0 {
		return fmt.Errorf("sensor size must be positive, got %dx%d", in.W, in.H)
	}
	if in.Ou < 0 || in.Ou > float64(in.W) || in.Ov < 0 || in.Ov > float64(in.H) {
		return fmt.Errorf("principal point (%v, %v) outside the %dx%d sensor", in.Ou, in.Ov, in.W, in.H)
	}
	return nil
}

func (ap Application) validate() error {
	switch {
	case !(ap.Gamma >= 0):
		return fmt.Errorf("gamma must be non-negative, got %v", ap.Gamma)
	case !(ap.R2 > 0) || !(ap.R1 > ap.R2):
		return fmt.Errorf("resolution thresholds need r1 > r2 > 0, got r1=%v r2=%v", ap.R1, ap.R2)
	case !(ap.CMax > 0):
		return fmt.Errorf("cmax must be positive, got %v", ap.CMax)
	case !(ap.Zeta > 0):
		return fmt.Errorf("zeta must be positive, got %v", ap.Zeta)
	}
	return nil
}

// dofLimit is the thin-lens depth-of-field limit for circle of confusion c;
// sign selects the near (+1) or far (-1) limit. No far limit means +Inf.
// The near denominator is positive because validate requires zS > f.
func dofLimit(in Intrinsics, c, sign float64) float64 {
	af := in.A * in.F
	den := af + sign*c*(in.ZS-in.F)
	if den <= 0 {
		return math.Inf(1)
	}
	return af * in.ZS / den
}

// NewCamera derives the four membership functions from intr and app.
func NewCamera(name string, intr Intrinsics, app Application, pose Pose) (*Camera, error) {
	if name == "" {
		return nil, errors.Wrap(ErrInvalidCamera, "empty name")
	}
	if err := intr.validate(); err != nil {
		return nil, errors.Wrapf(ErrInvalidCamera, "%s: %v", name, err)
	}
	if err := app.validate(); err != nil {
		return nil, errors.Wrapf(ErrInvalidCamera, "%s: %v", name, err)
	}
	w, h := float64(intr.W), float64(intr.H)

	// visibility
	ahl := 2 * math.Atan(intr.Ou*intr.Su/(2*intr.F))
	ahr := 2 * math.Atan((w-intr.Ou)*intr.Su/(2*intr.F))
	avl := 2 * math.Atan(intr.Ov*intr.Sv/(2*intr.F))
	avr := 2 * math.Atan((h-intr.Ov)*intr.Sv/(2*intr.F))
	sh := math.Sin((ahl + ahr) / 2)
	sv := math.Sin((avl + avr) / 2)
	gh := app.Gamma / w * 2 * sh
	gv := app.Gamma / h * 2 * sv
	c := &Camera{name: name, Intr: intr, App: app, zeta: app.Zeta}
	c.Cvh = NewTrapezoid(
		[2]float64{-math.Sin(ahl) + gh, math.Sin(ahr) - gh},
		[2]float64{-math.Sin(ahl), math.Sin(ahr)},
	)
	c.Cvv = NewTrapezoid(
		[2]float64{-math.Sin(avl) + gv, math.Sin(avr) - gv},
		[2]float64{-math.Sin(avl), math.Sin(avr)},
	)

	// resolution
	mr := math.Min(w/(2*sh), h/(2*sv))
	c.Cr = NewTrapezoid([2]float64{0, mr / app.R1}, [2]float64{0, mr / app.R2})

	// focus
	cmin := math.Min(intr.Su, intr.Sv)
	c.Cf = NewTrapezoid(
		[2]float64{dofLimit(intr, cmin, 1), dofLimit(intr, cmin, -1)},
		[2]float64{dofLimit(intr, app.CMax, 1), dofLimit(intr, app.CMax, -1)},
	)
	c.pose = pose
	DebugLog("Camera %s: Cvh=%s Cvv=%s Cr=%s Cf=%s zeta=%g", name, c.Cvh, c.Cvv, c.Cr, c.Cf, c.zeta)
	return c, nil
}

func (c *Camera) Name() string { return c.name }

// Center is the camera's principal point in the world frame.
func (c *Camera) Center() Point { return c.Pose().T }

// Mu is the coverage degree of l in [0, 1] for the current pose.
func (c *Camera) Mu(l Locus) float64 {
	return c.muInFrame(c.Pose().Inverse(), l)
}

// muInFrame evaluates l with inv as the world-to-camera transform.
func (c *Camera) muInFrame(inv Pose, l Locus) float64 {
	cp := inv.MapLocus(l)
	p := cp.Pos()
	if math.Abs(p.Z) < Eps {
		return 0
	}
	mv := math.Min(c.Cvh.Mu(p.X/p.Z), c.Cvv.Mu(p.Y/p.Z))
	if mv == 0 {
		return 0
	}
	mu := mv * c.Cr.Mu(p.Z) * c.Cf.Mu(p.Z)
	if dp, ok := cp.(DirectionalPoint); ok && mu > 0 {
		mu *= c.muDirection(dp)
	}
	return mu
}

// muDirection ramps from 1 when the outward direction points at the camera
// down to 0 once it is perpendicular to the line of sight.
func (c *Camera) muDirection(dp DirectionalPoint) float64 {
	theta := math.Pi
	if toCam := dp.Point.Scale(-1); toCam.Norm() >= Eps {
		cos := dp.Direction().Dot(toCam.Unit())
		theta = math.Acos(math.Max(-1, math.Min(1, cos)))
	}
	return clamp01((math.Pi/2 - theta) / c.zeta)
}

func (c *Camera) String() string {
	return fmt.Sprintf("Camera(%s, %s)", c.name, c.Pose())
}
