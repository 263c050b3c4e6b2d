package fuzzycover

var (
	Debug        = false // set to true for verbose debug output and sight statistics
	Workers      = 0     // in-scene workers; <= 0 means runtime.NumCPU()
	ShowProgress = true  // progress bars on stderr during Run
	// Compile time checks for the pose capability and the point sum type.
	_ Posable = (*Camera)(nil)
	_ Posable = (*Occluder)(nil)
	_ Locus   = Point{}
	_ Locus   = DirectionalPoint{}
)
