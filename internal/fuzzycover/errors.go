package fuzzycover

import "github.com/pkg/errors"

// Domain errors. They are returned wrapped with context; match with errors.Is.
var (
	ErrNotOnGrid         = errors.New("discrete point must fall on the grid")
	ErrInvalidScene      = errors.New("invalid scene")
	ErrInvalidRotation   = errors.New("invalid rotation")
	ErrInvalidCamera     = errors.New("invalid camera")
	ErrInvalidOccluder   = errors.New("invalid occluder")
	ErrDuplicateCamera   = errors.New("duplicate camera name")
	ErrDuplicateOccluder = errors.New("duplicate occluder name")
	ErrUnknownCamera     = errors.New("unknown camera")
	ErrUnsupportedPolicy = errors.New("unsupported aggregation policy")
	ErrStaleCache        = errors.New("in-scene cache is stale")
	ErrInvalidConfig     = errors.New("invalid config")
)
