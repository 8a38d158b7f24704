package pod

import "fmt"

// SideIndex identifies one of the two sides of the pod.
type SideIndex int

// The two sides. Left is always index 0 and right index 1; the order
// matches the device's own wire naming.
const (
	Left  SideIndex = 0
	Right SideIndex = 1
)

// NumSides is the number of sides a pod has.
const NumSides = 2

// String returns the device wire name for the side ("left" or "right").
func (s SideIndex) String() string {
	switch s {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("side(%d)", int(s))
	}
}

// Valid reports whether s is one of the two defined sides.
func (s SideIndex) Valid() bool {
	return s == Left || s == Right
}

// ParseSide converts a wire name ("left" or "right") to a SideIndex.
func ParseSide(name string) (SideIndex, error) {
	switch name {
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownSide, name)
	}
}

// Sides returns both sides in index order.
func Sides() [NumSides]SideIndex {
	return [NumSides]SideIndex{Left, Right}
}

// TargetKind distinguishes whole-pod targets from per-side targets.
type TargetKind int

const (
	// KindPod targets the whole device.
	KindPod TargetKind = iota

	// KindSide targets a single side.
	KindSide
)

// Target identifies what a command or schedule applies to: the whole
// pod, or one specific side.
type Target struct {
	Kind TargetKind
	Side SideIndex // meaningful only when Kind == KindSide
}

// PodTarget returns a Target addressing the whole device.
func PodTarget() Target {
	return Target{Kind: KindPod}
}

// SideTarget returns a Target addressing a single side.
func SideTarget(s SideIndex) Target {
	return Target{Kind: KindSide, Side: s}
}

// String returns a human-readable form, "pod" or the side name.
func (t Target) String() string {
	if t.Kind == KindPod {
		return "pod"
	}
	return t.Side.String()
}
