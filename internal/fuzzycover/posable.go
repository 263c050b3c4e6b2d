package fuzzycover

import "sync"

// Posable is the capability shared by every scene object that takes part in
// coverage or occlusion: a current pose that is replaced wholesale.
type Posable interface {
	Pose() Pose
	SetAbsolutePose(Pose)
	// SetRelativePose applies delta (world frame) after the current pose.
	SetRelativePose(delta Pose)
	// PoseGeneration increases on every pose replacement; caches built for
	// one generation are stale once it moves.
	PoseGeneration() uint64
}

// posed implements Posable; embed it by value.
type posed struct {
	mu   sync.RWMutex
	pose Pose
	gen  uint64
}

func (p *posed) Pose() Pose {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.pose
}

func (p *posed) PoseGeneration() uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.gen
}

// poseState returns pose and generation read together.
func (p *posed) poseState() (Pose, uint64) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.pose, p.gen
}

func (p *posed) SetAbsolutePose(pose Pose) {
	p.mu.Lock()
	p.pose = pose
	p.gen++
	p.mu.Unlock()
}

func (p *posed) SetRelativePose(delta Pose) {
	p.mu.Lock()
	p.pose = p.pose.Then(delta)
	p.gen++
	p.mu.Unlock()
}
