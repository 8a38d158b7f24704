package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/awender/podlink/internal/bridges/freesleep"
	"github.com/awender/podlink/internal/command"
	"github.com/awender/podlink/internal/engine"
	"github.com/awender/podlink/internal/pod"
	"github.com/awender/podlink/internal/schedule"
	"github.com/awender/podlink/internal/telemetry"
	"github.com/awender/podlink/internal/temperature"
)

// handleHealth returns the server health status, including the pod
// firmware version when a status snapshot is available.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	body := map[string]any{
		"status":  "ok",
		"version": s.version,
	}
	if s.poller != nil {
		if status, ok := s.poller.Status(); ok {
			body["firmware_version"] = status.FirmwareVersion()
		}
	}
	writeJSON(w, http.StatusOK, body)
}

// commandRequest is the POST /commands body.
type commandRequest struct {
	DeviceID string `json:"device_id"`
	Command  string `json:"command"`
	Value    any    `json:"value"`
}

// handleExecuteCommand validates and dispatches one command.
func (s *Server) handleExecuteCommand(w http.ResponseWriter, r *http.Request) {
	var req commandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body: "+err.Error())
		return
	}
	if req.DeviceID == "" {
		writeBadRequest(w, "device_id is required")
		return
	}
	if req.Command == "" {
		writeBadRequest(w, "command is required")
		return
	}

	result, err := s.engine.Execute(r.Context(), req.DeviceID, req.Command, req.Value)
	if err != nil {
		if result.RequestID != "" {
			// Dispatched but failed; surface the result alongside the error.
			writeJSON(w, statusForError(err), map[string]any{
				"error":  errorBody(err),
				"result": result,
			})
			return
		}
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// scheduleRequest is the POST /schedules body.
type scheduleRequest struct {
	Side            []string        `json:"side"`
	DayOfWeek       []string        `json:"day_of_week"`
	TemperatureUnit string          `json:"temperature_unit"`
	Schedule        schedulePayload `json:"schedule"`
}

type schedulePayload struct {
	Power        *powerPayload  `json:"power"`
	Temperatures []pointPayload `json:"temperatures"`
	Alarm        *alarmPayload  `json:"alarm"`
}

type powerPayload struct {
	On            string   `json:"on"`
	OnTemperature *float64 `json:"on_temperature"`
}

type pointPayload struct {
	Time        string  `json:"time"`
	Temperature float64 `json:"temperature"`
}

type alarmPayload struct {
	Time             string   `json:"time"`
	Enabled          bool     `json:"enabled"`
	AlarmTemperature *float64 `json:"alarm_temperature"`
}

// sideResultBody is the per-side outcome in schedule responses.
type sideResultBody struct {
	DeviceID string `json:"device_id"`
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"`
}

// handleSetSchedule applies a partial schedule update to one or more sides.
func (s *Server) handleSetSchedule(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body: "+err.Error())
		return
	}

	engReq := engine.ScheduleRequest{
		DeviceIDs: req.Side,
		Weekdays:  req.DayOfWeek,
		Unit:      req.TemperatureUnit,
	}
	if req.Schedule.Power != nil {
		engReq.Power = &engine.PowerFragment{
			On:            req.Schedule.Power.On,
			OnTemperature: req.Schedule.Power.OnTemperature,
		}
	}
	if req.Schedule.Temperatures != nil {
		points := make([]engine.TemperaturePointFragment, 0, len(req.Schedule.Temperatures))
		for _, p := range req.Schedule.Temperatures {
			points = append(points, engine.TemperaturePointFragment{Time: p.Time, Temperature: p.Temperature})
		}
		engReq.Temperatures = points
	}
	if req.Schedule.Alarm != nil {
		engReq.Alarm = &engine.AlarmFragment{
			Time:             req.Schedule.Alarm.Time,
			Enabled:          req.Schedule.Alarm.Enabled,
			AlarmTemperature: req.Schedule.Alarm.AlarmTemperature,
		}
	}

	result, err := s.engine.SetSchedule(r.Context(), engReq)
	if len(result.Sides) == 0 && err != nil {
		// Validation failure; nothing was dispatched.
		writeDomainError(w, err)
		return
	}

	sides := make([]sideResultBody, 0, len(result.Sides))
	for _, sr := range result.Sides {
		body := sideResultBody{DeviceID: sr.DeviceID, Success: sr.Err == nil}
		if sr.Err != nil {
			body.Error = sr.Err.Error()
		}
		sides = append(sides, body)
	}
	body := map[string]any{"results": sides}

	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, body)
	case errors.Is(err, engine.ErrPartialFailure):
		body["error"] = errorBody(err)
		writeJSON(w, http.StatusMultiStatus, body)
	default:
		body["error"] = errorBody(err)
		writeJSON(w, statusForError(err), body)
	}
}

// handleGetSchedule returns the committed weekly schedule for a side.
func (s *Server) handleGetSchedule(w http.ResponseWriter, r *http.Request) {
	deviceID := chi.URLParam(r, "deviceID")

	week, err := s.engine.Schedule(r.Context(), deviceID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"device_id": deviceID,
		"schedule":  week,
	})
}

// handleTelemetry returns the latest sample for every side.
func (s *Server) handleTelemetry(w http.ResponseWriter, _ *http.Request) {
	if s.poller == nil {
		writeError(w, http.StatusServiceUnavailable, ErrCodeUnavailable, "telemetry polling is disabled")
		return
	}

	samples := make(map[string]*telemetry.Sample, pod.NumSides)
	for _, side := range pod.Sides() {
		deviceID, ok := s.pods.DeviceID(pod.SideTarget(side))
		if !ok {
			continue
		}
		if sample, ok := s.poller.Latest(side); ok {
			c := sample
			samples[deviceID] = &c
		} else {
			samples[deviceID] = nil
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"samples": samples})
}

// handleTelemetryDevice returns the latest sample for one side.
func (s *Server) handleTelemetryDevice(w http.ResponseWriter, r *http.Request) {
	if s.poller == nil {
		writeError(w, http.StatusServiceUnavailable, ErrCodeUnavailable, "telemetry polling is disabled")
		return
	}

	deviceID := chi.URLParam(r, "deviceID")
	target, err := s.pods.Resolve(deviceID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if target.Kind != pod.KindSide {
		writeBadRequest(w, "telemetry is per side, device "+deviceID+" is the pod")
		return
	}

	sample, ok := s.poller.Latest(target.Side)
	if !ok {
		writeNotFound(w, "no sample recorded yet for "+deviceID)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"device_id": deviceID,
		"sample":    sample,
	})
}

// handleStatus returns the pod's last known status snapshot.
func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	if s.poller == nil {
		writeError(w, http.StatusServiceUnavailable, ErrCodeUnavailable, "telemetry polling is disabled")
		return
	}

	status, ok := s.poller.Status()
	if !ok {
		writeError(w, http.StatusServiceUnavailable, ErrCodeUnavailable, "no status snapshot yet")
		return
	}

	writeJSON(w, http.StatusOK, status)
}

// statusForError maps domain errors to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, pod.ErrUnknownDevice):
		return http.StatusNotFound
	case errors.Is(err, command.ErrUnknownCommand),
		errors.Is(err, command.ErrMissingValue),
		errors.Is(err, command.ErrUnexpectedValue),
		errors.Is(err, command.ErrValueOutOfRange),
		errors.Is(err, schedule.ErrInvalidWeekday),
		errors.Is(err, schedule.ErrInvalidTime),
		errors.Is(err, schedule.ErrInvalidFragment),
		errors.Is(err, temperature.ErrUnsupportedUnit),
		errors.Is(err, engine.ErrTargetMismatch):
		return http.StatusBadRequest
	case errors.Is(err, freesleep.ErrDeviceRejected):
		return http.StatusBadGateway
	case errors.Is(err, freesleep.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// codeForStatus maps an HTTP status to a stable error code string.
func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return ErrCodeValidation
	case http.StatusNotFound:
		return ErrCodeNotFound
	case http.StatusBadGateway:
		return ErrCodeDeviceRejected
	case http.StatusServiceUnavailable:
		return ErrCodeUnavailable
	default:
		return ErrCodeInternal
	}
}

// errorBody builds the structured error payload for a domain error.
func errorBody(err error) Error {
	status := statusForError(err)
	return Error{
		Status:  status,
		Code:    codeForStatus(status),
		Message: err.Error(),
	}
}

// writeDomainError writes a domain error as a structured JSON response.
func writeDomainError(w http.ResponseWriter, err error) {
	status := statusForError(err)
	writeError(w, status, codeForStatus(status), err.Error())
}
