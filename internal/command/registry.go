package command

import "github.com/awender/podlink/internal/pod"

// Command names accepted by the registry.
const (
	TurnOn            = "TURN_ON"
	TurnOff           = "TURN_OFF"
	SetTemp           = "SET_TEMP"
	SetAwayMode       = "SET_AWAY_MODE"
	SetLEDBrightness  = "SET_LED_BRIGHTNESS"
	SetPrimeDaily     = "SET_PRIME_DAILY"
	SetPrimeDailyTime = "SET_PRIME_DAILY_TIME"
	SetRebootDaily    = "SET_REBOOT_DAILY"
	SetBiometrics     = "SET_BIOMETRICS"
	Prime             = "PRIME"
	Reboot            = "REBOOT"
)

// ValueKind describes what value a command carries.
type ValueKind int

const (
	// ValueNone means the command takes no value.
	ValueNone ValueKind = iota

	// ValueBool means the command takes a boolean.
	ValueBool

	// ValueInt means the command takes an integer, optionally ranged.
	ValueInt

	// ValueTimeOfDay means the command takes an "HH:MM" time.
	ValueTimeOfDay
)

// IntRange is an inclusive integer range.
type IntRange struct {
	Min int
	Max int
}

// Contains reports whether v falls inside the range.
func (r IntRange) Contains(v int) bool {
	return v >= r.Min && v <= r.Max
}

// Spec declares how one registry entry validates and dispatches.
type Spec struct {
	// Name is the registry key.
	Name string

	// Value is the required value kind.
	Value ValueKind

	// Range bounds integer values when non-nil.
	Range *IntRange

	// Target is what the command addresses: the whole pod or one side.
	Target pod.TargetKind

	// Idempotent commands may be retried after network-class failures.
	// Non-idempotent ones (priming, reboot) are attempted at most once.
	Idempotent bool
}

// Registry is the closed set of accepted commands.
//
// A Registry is immutable after construction and safe for concurrent
// use. Integer ranges come from configuration; everything else is
// fixed by the device surface.
type Registry struct {
	specs map[string]Spec
}

// RegistryConfig carries the configurable integer ranges.
type RegistryConfig struct {
	// TempRange bounds SET_TEMP values (°F).
	TempRange IntRange

	// BrightnessRange bounds SET_LED_BRIGHTNESS values (percent).
	BrightnessRange IntRange
}

// DefaultRegistryConfig returns the device's documented ranges.
func DefaultRegistryConfig() RegistryConfig {
	return RegistryConfig{
		TempRange:       IntRange{Min: 55, Max: 110},
		BrightnessRange: IntRange{Min: 0, Max: 100},
	}
}

// NewRegistry builds the closed command registry.
func NewRegistry(cfg RegistryConfig) *Registry {
	tempRange := cfg.TempRange
	brightnessRange := cfg.BrightnessRange

	specs := []Spec{
		{Name: TurnOn, Value: ValueNone, Target: pod.KindSide, Idempotent: true},
		{Name: TurnOff, Value: ValueNone, Target: pod.KindSide, Idempotent: true},
		{Name: SetTemp, Value: ValueInt, Range: &tempRange, Target: pod.KindSide, Idempotent: true},
		{Name: SetAwayMode, Value: ValueBool, Target: pod.KindSide, Idempotent: true},
		{Name: SetLEDBrightness, Value: ValueInt, Range: &brightnessRange, Target: pod.KindPod, Idempotent: true},
		{Name: SetPrimeDaily, Value: ValueBool, Target: pod.KindPod, Idempotent: true},
		{Name: SetPrimeDailyTime, Value: ValueTimeOfDay, Target: pod.KindPod, Idempotent: true},
		{Name: SetRebootDaily, Value: ValueBool, Target: pod.KindPod, Idempotent: true},
		{Name: SetBiometrics, Value: ValueBool, Target: pod.KindPod, Idempotent: true},
		{Name: Prime, Value: ValueNone, Target: pod.KindPod, Idempotent: false},
		{Name: Reboot, Value: ValueNone, Target: pod.KindPod, Idempotent: false},
	}

	m := make(map[string]Spec, len(specs))
	for _, s := range specs {
		m[s.Name] = s
	}
	return &Registry{specs: m}
}

// Lookup returns the Spec for a command name.
func (r *Registry) Lookup(name string) (Spec, bool) {
	s, ok := r.specs[name]
	return s, ok
}

// Names returns every registered command name, in no particular order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.specs))
	for name := range r.specs {
		names = append(names, name)
	}
	return names
}
