package pod

import (
	"fmt"

	"github.com/awender/podlink/internal/infrastructure/config"
)

// Registry maps host-platform device identifiers onto pod targets.
//
// The mapping is fixed at construction and immutable afterwards, so
// lookups need no locking and are safe for concurrent use.
type Registry struct {
	byID map[string]Target
	ids  map[Target]string
}

// NewRegistry builds a Registry from the configured identifiers.
//
// The three identifiers (pod, left, right) must be non-empty and
// pairwise distinct; config validation enforces this before we get
// here, but the check is repeated so the invariant does not depend on
// the caller.
//
// Returns:
//   - *Registry: The immutable mapping
//   - error: If identifiers are missing or collide
func NewRegistry(cfg config.RegistryConfig) (*Registry, error) {
	entries := []struct {
		id     string
		target Target
	}{
		{cfg.PodID, PodTarget()},
		{cfg.LeftID, SideTarget(Left)},
		{cfg.RightID, SideTarget(Right)},
	}

	byID := make(map[string]Target, len(entries))
	ids := make(map[Target]string, len(entries))
	for _, e := range entries {
		if e.id == "" {
			return nil, fmt.Errorf("registry: empty identifier for target %s", e.target)
		}
		if prev, dup := byID[e.id]; dup {
			return nil, fmt.Errorf("registry: identifier %q maps to both %s and %s", e.id, prev, e.target)
		}
		byID[e.id] = e.target
		ids[e.target] = e.id
	}

	return &Registry{byID: byID, ids: ids}, nil
}

// Resolve returns the Target for an external device identifier.
func (r *Registry) Resolve(deviceID string) (Target, error) {
	t, ok := r.byID[deviceID]
	if !ok {
		return Target{}, fmt.Errorf("%w: %q", ErrUnknownDevice, deviceID)
	}
	return t, nil
}

// DeviceID returns the external identifier for a target.
func (r *Registry) DeviceID(t Target) (string, bool) {
	id, ok := r.ids[t]
	return id, ok
}

// DeviceIDs returns all registered external identifiers.
// The order is pod, left, right.
func (r *Registry) DeviceIDs() []string {
	return []string{
		r.ids[PodTarget()],
		r.ids[SideTarget(Left)],
		r.ids[SideTarget(Right)],
	}
}
