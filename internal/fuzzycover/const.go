package fuzzycover

// Defaults and tolerances.
const (
	Eps            = 1e-9 // point equality, lattice alignment
	AngleEps       = 1e-9
	DefaultPStep   = 1.0
	DefaultDStep   = 0.5235987755982988 // π/6
	DefaultPolicy  = "simple"
	GIFDelay       = 10 // 100ths of a second per frame
	Gamma          = 1.0
	MinCellsPerJob = 16 // smallest share of grid cells handed to one worker
	// hot-loop constants for the voxel traversal
	tieEps  = 1e-9
	slabEps = 1e-12
)
