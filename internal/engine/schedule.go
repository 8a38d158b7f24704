package engine

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/awender/podlink/internal/pod"
	"github.com/awender/podlink/internal/schedule"
	"github.com/awender/podlink/internal/temperature"
)

// ScheduleRequest is a partial schedule update for one or more sides.
//
// Temperatures arrive in the caller's unit (default °F) and are
// converted to canonical °F before validation. Nil sub-objects and a
// nil Temperatures list leave the stored values alone; an empty
// non-nil Temperatures list clears the stored list. An empty Weekdays
// list targets all seven days.
type ScheduleRequest struct {
	DeviceIDs []string
	Weekdays  []string
	Unit      string

	Power        *PowerFragment
	Temperatures []TemperaturePointFragment
	Alarm        *AlarmFragment
}

// PowerFragment is the caller-unit form of a power schedule block.
type PowerFragment struct {
	On            string
	OnTemperature *float64
}

// TemperaturePointFragment is one caller-unit temperature step.
type TemperaturePointFragment struct {
	Time        string
	Temperature float64
}

// AlarmFragment is the caller-unit form of an alarm schedule block.
type AlarmFragment struct {
	Time             string
	Enabled          bool
	AlarmTemperature *float64
}

// SideResult is the per-side outcome of a schedule request.
type SideResult struct {
	DeviceID string
	Side     pod.SideIndex
	Err      error
}

// ScheduleResult collects per-side outcomes, in request order.
type ScheduleResult struct {
	Sides []SideResult
}

// Failed returns the number of sides that did not commit.
func (r ScheduleResult) Failed() int {
	n := 0
	for _, s := range r.Sides {
		if s.Err != nil {
			n++
		}
	}
	return n
}

// SetSchedule applies a partial schedule update to the targeted sides.
//
// The fragment is converted and validated once, then applied to each
// side independently: load the latest committed week, merge, dispatch
// one device write per targeted weekday, and commit only on full
// success. A per-side mutex serializes merge and dispatch, so
// concurrent requests for the same side cannot interleave. One side's
// failure never affects another side's committed state.
//
// Returns:
//   - ScheduleResult: Per-side outcomes, always populated after
//     validation succeeds
//   - error: A validation error (nothing dispatched), ErrPartialFailure
//     when outcomes are mixed, or the underlying error when every
//     side failed
func (e *Engine) SetSchedule(ctx context.Context, req ScheduleRequest) (ScheduleResult, error) {
	if len(req.DeviceIDs) == 0 {
		return ScheduleResult{}, fmt.Errorf("engine: at least one device ID is required")
	}

	days, err := schedule.ExpandWeekdays(req.Weekdays)
	if err != nil {
		return ScheduleResult{}, err
	}

	frag, err := e.buildFragment(req)
	if err != nil {
		return ScheduleResult{}, err
	}

	// Resolve every target before dispatching anything.
	type job struct {
		deviceID string
		side     pod.SideIndex
	}
	jobs := make([]job, 0, len(req.DeviceIDs))
	seen := make(map[pod.SideIndex]bool, len(req.DeviceIDs))
	for _, id := range req.DeviceIDs {
		target, err := e.pods.Resolve(id)
		if err != nil {
			return ScheduleResult{}, err
		}
		if target.Kind != pod.KindSide {
			return ScheduleResult{}, fmt.Errorf("%w: schedules apply to sides, device %q is the pod",
				ErrTargetMismatch, id)
		}
		if seen[target.Side] {
			return ScheduleResult{}, fmt.Errorf("engine: device %q targets side %s twice", id, target.Side)
		}
		seen[target.Side] = true
		jobs = append(jobs, job{deviceID: id, side: target.Side})
	}

	results := make([]SideResult, len(jobs))
	var wg sync.WaitGroup
	for i, j := range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := e.applySide(ctx, j.deviceID, j.side, frag, days)
			results[i] = SideResult{DeviceID: j.deviceID, Side: j.side, Err: err}
		}()
	}
	wg.Wait()

	result := ScheduleResult{Sides: results}
	failed := result.Failed()
	switch {
	case failed == 0:
		return result, nil
	case failed < len(results):
		return result, fmt.Errorf("%w: %d of %d sides failed", ErrPartialFailure, failed, len(results))
	default:
		var first error
		for _, s := range results {
			if s.Err != nil {
				first = s.Err
				break
			}
		}
		return result, fmt.Errorf("engine: schedule write failed for all sides: %w", first)
	}
}

// Schedule returns the committed weekly schedule for a side device ID.
func (e *Engine) Schedule(ctx context.Context, deviceID string) (schedule.WeeklySchedule, error) {
	target, err := e.pods.Resolve(deviceID)
	if err != nil {
		return schedule.WeeklySchedule{}, err
	}
	if target.Kind != pod.KindSide {
		return schedule.WeeklySchedule{}, fmt.Errorf("%w: schedules apply to sides, device %q is the pod",
			ErrTargetMismatch, deviceID)
	}
	return e.store.Load(ctx, target.Side)
}

// applySide merges and dispatches one side's update under its lock.
func (e *Engine) applySide(ctx context.Context, deviceID string, side pod.SideIndex, frag schedule.Fragment, days schedule.WeekdaySet) error {
	e.sideMu[side].Lock()
	defer e.sideMu[side].Unlock()

	week, err := e.store.Load(ctx, side)
	if err != nil {
		return fmt.Errorf("load side %s: %w", side, err)
	}

	merged := schedule.Merge(week, frag, days)

	for _, d := range days.Days() {
		if err := e.device.WriteDaySchedule(ctx, side, d, merged[d]); err != nil {
			return fmt.Errorf("write side %s %s: %w", side, d, err)
		}
	}

	if err := e.store.Commit(ctx, side, merged); err != nil {
		return fmt.Errorf("commit side %s: %w", side, err)
	}

	e.publishSchedule(deviceID, side, merged)
	e.logger.Info("schedule committed",
		"device_id", deviceID,
		"side", side.String(),
		"days", days.Len())
	return nil
}

// buildFragment converts a caller-unit request into a canonical °F
// fragment and validates it against the configured bounds.
func (e *Engine) buildFragment(req ScheduleRequest) (schedule.Fragment, error) {
	unit := temperature.Fahrenheit
	if req.Unit != "" {
		var err error
		unit, err = temperature.ParseUnit(req.Unit)
		if err != nil {
			return schedule.Fragment{}, err
		}
	}

	var frag schedule.Fragment

	if req.Power != nil {
		on, err := schedule.ParseTimeOfDay(req.Power.On)
		if err != nil {
			return schedule.Fragment{}, fmt.Errorf("power.on: %w", err)
		}
		p := &schedule.PowerSchedule{On: on}
		if req.Power.OnTemperature != nil {
			t, err := e.toDeviceTemp(*req.Power.OnTemperature, unit)
			if err != nil {
				return schedule.Fragment{}, fmt.Errorf("power.on_temperature: %w", err)
			}
			p.OnTemperature = &t
		}
		frag.Power = p
	}

	if req.Temperatures != nil {
		points := make([]schedule.TemperaturePoint, 0, len(req.Temperatures))
		for i, p := range req.Temperatures {
			at, err := schedule.ParseTimeOfDay(p.Time)
			if err != nil {
				return schedule.Fragment{}, fmt.Errorf("temperatures[%d]: %w", i, err)
			}
			t, err := e.toDeviceTemp(p.Temperature, unit)
			if err != nil {
				return schedule.Fragment{}, fmt.Errorf("temperatures[%d]: %w", i, err)
			}
			points = append(points, schedule.TemperaturePoint{Time: at, Temperature: t})
		}
		frag.Temperatures = points
	}

	if req.Alarm != nil {
		at, err := schedule.ParseTimeOfDay(req.Alarm.Time)
		if err != nil {
			return schedule.Fragment{}, fmt.Errorf("alarm.time: %w", err)
		}
		a := &schedule.AlarmSchedule{Time: at, Enabled: req.Alarm.Enabled}
		if req.Alarm.AlarmTemperature != nil {
			t, err := e.toDeviceTemp(*req.Alarm.AlarmTemperature, unit)
			if err != nil {
				return schedule.Fragment{}, fmt.Errorf("alarm.alarm_temperature: %w", err)
			}
			a.AlarmTemperature = &t
		}
		frag.Alarm = a
	}

	if frag.IsZero() {
		return schedule.Fragment{}, fmt.Errorf("%w: empty fragment", schedule.ErrInvalidFragment)
	}
	if err := frag.Validate(e.bounds); err != nil {
		return schedule.Fragment{}, err
	}
	return frag, nil
}

// toDeviceTemp converts a caller-unit temperature to the device's
// whole-degree °F representation.
func (e *Engine) toDeviceTemp(value float64, from temperature.Unit) (int, error) {
	f, err := e.conv.Convert(value, from)
	if err != nil {
		return 0, err
	}
	return int(math.RoundToEven(f)), nil
}
