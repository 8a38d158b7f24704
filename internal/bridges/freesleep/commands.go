package freesleep

import (
	"context"
	"fmt"

	"github.com/awender/podlink/internal/command"
	"github.com/awender/podlink/internal/pod"
)

// ExecuteCommand dispatches one validated command as one outbound
// request.
//
// The target must match the command's declared addressing: side
// commands need a side target, pod commands a pod target. Retry
// behaviour follows the command's idempotency flag.
func (c *Client) ExecuteCommand(ctx context.Context, v command.Validated, target pod.Target) error {
	if v.Spec.Target != target.Kind {
		return fmt.Errorf("freesleep: command %s targets %s, got %s",
			v.Name(), targetKindName(v.Spec.Target), target)
	}
	if target.Kind == pod.KindSide && !target.Side.Valid() {
		return fmt.Errorf("freesleep: command %s: invalid side %d", v.Name(), int(target.Side))
	}

	side := target.Side.String()
	idem := v.Spec.Idempotent

	switch v.Name() {
	case command.TurnOn:
		return c.post(ctx, deviceStatusEndpoint, map[string]any{side: map[string]any{"isOn": true}}, idem)

	case command.TurnOff:
		return c.post(ctx, deviceStatusEndpoint, map[string]any{side: map[string]any{"isOn": false}}, idem)

	case command.SetTemp:
		return c.post(ctx, deviceStatusEndpoint, map[string]any{side: map[string]any{"targetTemperatureF": v.Int}}, idem)

	case command.SetAwayMode:
		return c.post(ctx, settingsEndpoint, map[string]any{side: map[string]any{"awayMode": v.Bool}}, idem)

	case command.SetLEDBrightness:
		return c.post(ctx, deviceStatusEndpoint, map[string]any{"settings": map[string]any{"ledBrightness": v.Int}}, idem)

	case command.SetPrimeDaily:
		return c.post(ctx, settingsEndpoint, map[string]any{"primePodDaily": map[string]any{"enabled": v.Bool}}, idem)

	case command.SetPrimeDailyTime:
		return c.post(ctx, settingsEndpoint, map[string]any{"primePodDaily": map[string]any{"time": string(v.Time)}}, idem)

	case command.SetRebootDaily:
		return c.post(ctx, settingsEndpoint, map[string]any{"rebootDaily": v.Bool}, idem)

	case command.SetBiometrics:
		return c.post(ctx, servicesEndpoint, map[string]any{"biometrics": map[string]any{"enabled": v.Bool}}, idem)

	case command.Prime:
		return c.post(ctx, jobsEndpoint, []string{"prime"}, idem)

	case command.Reboot:
		return c.post(ctx, jobsEndpoint, []string{"reboot"}, idem)

	default:
		// Unreachable for registry-validated commands.
		return fmt.Errorf("freesleep: no wire mapping for command %s", v.Name())
	}
}

func targetKindName(k pod.TargetKind) string {
	if k == pod.KindPod {
		return "pod"
	}
	return "side"
}
