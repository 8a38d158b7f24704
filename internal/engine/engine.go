package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/awender/podlink/internal/command"
	"github.com/awender/podlink/internal/infrastructure/logging"
	"github.com/awender/podlink/internal/pod"
	"github.com/awender/podlink/internal/schedule"
	"github.com/awender/podlink/internal/temperature"
)

// DeviceClient is the slice of the device bridge the engine needs.
type DeviceClient interface {
	ExecuteCommand(ctx context.Context, v command.Validated, target pod.Target) error
	WriteDaySchedule(ctx context.Context, side pod.SideIndex, day schedule.Weekday, ds schedule.DaySchedule) error
}

// Publisher receives command acknowledgements and committed schedule
// state for fan-out to the host platform. Implementations must not
// block; slow consumers drop or buffer on their own side.
type Publisher interface {
	PublishCommandAck(result CommandResult)
	PublishSchedule(deviceID string, side pod.SideIndex, week schedule.WeeklySchedule)
}

// Deps collects the engine's collaborators.
type Deps struct {
	Commands  *command.Registry
	Pods      *pod.Registry
	Device    DeviceClient
	Store     *schedule.Store
	Converter *temperature.Converter
	Bounds    schedule.Bounds
	Logger    *logging.Logger
}

// Engine mediates between callers and the device: it validates
// commands and schedule fragments, serializes per-side schedule
// writes, dispatches to the device bridge, and commits accepted
// state.
//
// Thread Safety:
//   - All methods are safe for concurrent use. Schedule writes are
//     serialized per side; raw commands never take schedule locks.
type Engine struct {
	commands *command.Registry
	pods     *pod.Registry
	device   DeviceClient
	store    *schedule.Store
	conv     *temperature.Converter
	bounds   schedule.Bounds
	logger   *logging.Logger

	pubMu      sync.RWMutex
	publishers []Publisher

	// sideMu serializes merge+dispatch+commit per side.
	sideMu [pod.NumSides]sync.Mutex
}

// New creates an Engine. All Deps fields except Logger are required.
func New(deps Deps) (*Engine, error) {
	if deps.Commands == nil {
		return nil, fmt.Errorf("engine: command registry is required")
	}
	if deps.Pods == nil {
		return nil, fmt.Errorf("engine: pod registry is required")
	}
	if deps.Device == nil {
		return nil, fmt.Errorf("engine: device client is required")
	}
	if deps.Store == nil {
		return nil, fmt.Errorf("engine: schedule store is required")
	}
	if deps.Converter == nil {
		return nil, fmt.Errorf("engine: temperature converter is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.Default()
	}

	return &Engine{
		commands: deps.Commands,
		pods:     deps.Pods,
		device:   deps.Device,
		store:    deps.Store,
		conv:     deps.Converter,
		bounds:   deps.Bounds,
		logger:   logger.With("component", "engine"),
	}, nil
}

// AddPublisher registers a fan-out target for acks and schedule state.
func (e *Engine) AddPublisher(p Publisher) {
	if p == nil {
		return
	}
	e.pubMu.Lock()
	defer e.pubMu.Unlock()
	e.publishers = append(e.publishers, p)
}

func (e *Engine) publishAck(result CommandResult) {
	e.pubMu.RLock()
	publishers := e.publishers
	e.pubMu.RUnlock()
	for _, p := range publishers {
		p.PublishCommandAck(result)
	}
}

func (e *Engine) publishSchedule(deviceID string, side pod.SideIndex, week schedule.WeeklySchedule) {
	e.pubMu.RLock()
	publishers := e.publishers
	e.pubMu.RUnlock()
	for _, p := range publishers {
		p.PublishSchedule(deviceID, side, week)
	}
}
