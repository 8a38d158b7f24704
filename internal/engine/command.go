package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CommandResult records the outcome of one command dispatch. It is
// returned to the caller and published as the MQTT acknowledgement.
type CommandResult struct {
	RequestID  string    `json:"request_id"`
	DeviceID   string    `json:"device_id"`
	Command    string    `json:"command"`
	Success    bool      `json:"success"`
	Error      string    `json:"error,omitempty"`
	ExecutedAt time.Time `json:"executed_at"`
}

// Execute validates and dispatches one command to the device.
//
// The flow is validate, resolve, dispatch, acknowledge. Validation
// failures return before anything reaches the wire; dispatch failures
// are acknowledged with Success=false and returned alongside the
// result. Execute never takes schedule locks, so raw commands run
// concurrently with schedule writes.
//
// Parameters:
//   - ctx: Context for cancellation and the overall deadline
//   - deviceID: Logical device ID (pod or side) from the registry
//   - name: Command name, e.g. "SET_TEMP"
//   - value: Raw JSON-decoded value, nil for no-value commands
//
// Returns:
//   - CommandResult: The dispatch outcome (zero value on validation failure)
//   - error: Validation error, pod.ErrUnknownDevice, ErrTargetMismatch,
//     or the dispatch error
func (e *Engine) Execute(ctx context.Context, deviceID, name string, value any) (CommandResult, error) {
	v, err := e.commands.Validate(name, value)
	if err != nil {
		return CommandResult{}, err
	}

	target, err := e.pods.Resolve(deviceID)
	if err != nil {
		return CommandResult{}, err
	}
	if v.Spec.Target != target.Kind {
		return CommandResult{}, fmt.Errorf("%w: %s does not accept device %q",
			ErrTargetMismatch, v.Name(), deviceID)
	}

	result := CommandResult{
		RequestID:  uuid.NewString(),
		DeviceID:   deviceID,
		Command:    v.Name(),
		ExecutedAt: time.Now().UTC(),
	}

	if err := e.device.ExecuteCommand(ctx, v, target); err != nil {
		result.Error = err.Error()
		e.publishAck(result)
		e.logger.Warn("command dispatch failed",
			"request_id", result.RequestID,
			"device_id", deviceID,
			"command", v.Name(),
			"error", err)
		return result, err
	}

	result.Success = true
	e.publishAck(result)
	e.logger.Info("command executed",
		"request_id", result.RequestID,
		"device_id", deviceID,
		"command", v.Name())
	return result, nil
}
