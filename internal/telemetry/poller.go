package telemetry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/awender/podlink/internal/bridges/freesleep"
	"github.com/awender/podlink/internal/infrastructure/logging"
	"github.com/awender/podlink/internal/pod"
)

// DeviceReader is the slice of the device client the poller needs.
type DeviceReader interface {
	FetchVitals(ctx context.Context, side pod.SideIndex) (freesleep.Vitals, error)
	FetchStatus(ctx context.Context) (freesleep.DeviceStatus, error)
}

// Sink receives the results of each successful poll cycle.
// Implementations must not block; slow consumers drop or buffer on
// their own side.
type Sink interface {
	PublishSample(side pod.SideIndex, sample Sample)
	PublishStatus(status freesleep.DeviceStatus)
}

// CycleFunc observes the outcome of each poll cycle. A nil error means
// the cycle succeeded.
type CycleFunc func(err error)

// Poller fetches vitals and device status on a fixed interval.
//
// Thread Safety:
//   - Start/Stop coordinate via sync.Once; Latest and Status are safe
//     for concurrent use with a running poller.
type Poller struct {
	device   DeviceReader
	interval time.Duration
	logger   *logging.Logger
	onCycle  CycleFunc

	mu     sync.RWMutex
	sinks  []Sink
	latest map[pod.SideIndex]Sample
	status *freesleep.DeviceStatus

	stopOnce sync.Once
	done     chan struct{}
	wg       sync.WaitGroup
}

// NewPoller creates a poller. onCycle may be nil.
func NewPoller(device DeviceReader, interval time.Duration, logger *logging.Logger, onCycle CycleFunc) (*Poller, error) {
	if device == nil {
		return nil, fmt.Errorf("telemetry: device reader is required")
	}
	if interval <= 0 {
		return nil, fmt.Errorf("telemetry: poll interval must be positive, got %v", interval)
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &Poller{
		device:   device,
		interval: interval,
		logger:   logger.With("component", "telemetry"),
		onCycle:  onCycle,
		latest:   make(map[pod.SideIndex]Sample),
		done:     make(chan struct{}),
	}, nil
}

// AddSink registers a sink for published samples and status snapshots.
// Sinks added after Start receive subsequent cycles only.
func (p *Poller) AddSink(s Sink) {
	if s == nil {
		return
	}
	p.mu.Lock()
	p.sinks = append(p.sinks, s)
	p.mu.Unlock()
}

// Start launches the polling loop. The first cycle runs immediately.
// The loop exits when ctx is cancelled or Stop is called.
func (p *Poller) Start(ctx context.Context) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		p.runCycle(ctx)

		for {
			select {
			case <-ctx.Done():
				return
			case <-p.done:
				return
			case <-ticker.C:
				p.runCycle(ctx)
			}
		}
	}()
}

// Stop halts the polling loop and waits for the in-flight cycle.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() {
		close(p.done)
	})
	p.wg.Wait()
}

// Latest returns the most recent sample for a side.
func (p *Poller) Latest(side pod.SideIndex) (Sample, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	s, ok := p.latest[side]
	return s, ok
}

// Status returns the most recent device status snapshot.
func (p *Poller) Status() (freesleep.DeviceStatus, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.status == nil {
		return freesleep.DeviceStatus{}, false
	}
	return *p.status, true
}

// runCycle executes one cycle and reports its outcome.
func (p *Poller) runCycle(ctx context.Context) {
	err := p.poll(ctx)
	if err != nil {
		// Degrade to "no sample this cycle"; the loop keeps going.
		p.logger.Warn("poll cycle failed", "error", err)
	}
	if p.onCycle != nil {
		p.onCycle(err)
	}
}

// poll fetches both sides' vitals and the status snapshot in one
// cycle. All samples share a single timestamp taken at cycle start.
func (p *Poller) poll(ctx context.Context) error {
	at := time.Now().UTC()

	var (
		vitals [pod.NumSides]freesleep.Vitals
		status freesleep.DeviceStatus
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, side := range pod.Sides() {
		g.Go(func() error {
			v, err := p.device.FetchVitals(gctx, side)
			if err != nil {
				return fmt.Errorf("vitals %s: %w", side, err)
			}
			vitals[side] = v
			return nil
		})
	}
	g.Go(func() error {
		s, err := p.device.FetchStatus(gctx)
		if err != nil {
			return fmt.Errorf("status: %w", err)
		}
		status = s
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("%w: %v", ErrTelemetryUnavailable, err)
	}

	p.mu.Lock()
	samples := make(map[pod.SideIndex]Sample, pod.NumSides)
	for _, side := range pod.Sides() {
		sample := Normalize(vitals[side], at)
		p.latest[side] = sample
		samples[side] = sample
	}
	p.status = &status
	sinks := make([]Sink, len(p.sinks))
	copy(sinks, p.sinks)
	p.mu.Unlock()

	for _, sink := range sinks {
		for _, side := range pod.Sides() {
			sink.PublishSample(side, samples[side])
		}
		sink.PublishStatus(status)
	}

	return nil
}
