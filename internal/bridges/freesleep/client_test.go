package freesleep

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/awender/podlink/internal/command"
	"github.com/awender/podlink/internal/infrastructure/config"
	"github.com/awender/podlink/internal/infrastructure/logging"
	"github.com/awender/podlink/internal/pod"
	"github.com/awender/podlink/internal/schedule"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(config.DeviceConfig{
		Host:    srv.URL,
		Timeout: 5,
		Retry: config.RetryConfig{
			MaxAttempts:    3,
			InitialDelayMs: 1,
			MaxDelayMs:     5,
		},
	}, logging.Default())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c
}

func TestNew_RequiresHost(t *testing.T) {
	if _, err := New(config.DeviceConfig{}, nil); err == nil {
		t.Error("New() with empty host expected error, got nil")
	}
}

func TestClient_ExecuteCommand_Writes(t *testing.T) {
	reg := command.NewRegistry(command.DefaultRegistryConfig())

	tests := []struct {
		name     string
		command  string
		value    any
		target   pod.Target
		wantPath string
		wantBody string
	}{
		{
			name:     "turn on left",
			command:  command.TurnOn,
			target:   pod.SideTarget(pod.Left),
			wantPath: "/api/deviceStatus",
			wantBody: `{"left":{"isOn":true}}`,
		},
		{
			name:     "turn off right",
			command:  command.TurnOff,
			target:   pod.SideTarget(pod.Right),
			wantPath: "/api/deviceStatus",
			wantBody: `{"right":{"isOn":false}}`,
		},
		{
			name:     "set temp",
			command:  command.SetTemp,
			value:    82,
			target:   pod.SideTarget(pod.Left),
			wantPath: "/api/deviceStatus",
			wantBody: `{"left":{"targetTemperatureF":82}}`,
		},
		{
			name:     "away mode",
			command:  command.SetAwayMode,
			value:    true,
			target:   pod.SideTarget(pod.Right),
			wantPath: "/api/settings",
			wantBody: `{"right":{"awayMode":true}}`,
		},
		{
			name:     "led brightness",
			command:  command.SetLEDBrightness,
			value:    40,
			target:   pod.PodTarget(),
			wantPath: "/api/deviceStatus",
			wantBody: `{"settings":{"ledBrightness":40}}`,
		},
		{
			name:     "prime daily time",
			command:  command.SetPrimeDailyTime,
			value:    "14:00",
			target:   pod.PodTarget(),
			wantPath: "/api/settings",
			wantBody: `{"primePodDaily":{"time":"14:00"}}`,
		},
		{
			name:     "reboot daily",
			command:  command.SetRebootDaily,
			value:    false,
			target:   pod.PodTarget(),
			wantPath: "/api/settings",
			wantBody: `{"rebootDaily":false}`,
		},
		{
			name:     "biometrics",
			command:  command.SetBiometrics,
			value:    true,
			target:   pod.PodTarget(),
			wantPath: "/api/services",
			wantBody: `{"biometrics":{"enabled":true}}`,
		},
		{
			name:     "prime job",
			command:  command.Prime,
			target:   pod.PodTarget(),
			wantPath: "/api/jobs",
			wantBody: `["prime"]`,
		},
		{
			name:     "reboot job",
			command:  command.Reboot,
			target:   pod.PodTarget(),
			wantPath: "/api/jobs",
			wantBody: `["reboot"]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPath, gotBody string
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				data, _ := io.ReadAll(r.Body) //nolint:errcheck // Test helper
				gotBody = string(data)
				w.WriteHeader(http.StatusNoContent)
			}))

			v, err := reg.Validate(tt.command, tt.value)
			if err != nil {
				t.Fatalf("Validate(%s) error = %v", tt.command, err)
			}
			if err := client.ExecuteCommand(context.Background(), v, tt.target); err != nil {
				t.Fatalf("ExecuteCommand() error = %v", err)
			}

			if gotPath != tt.wantPath {
				t.Errorf("path = %q, want %q", gotPath, tt.wantPath)
			}
			if gotBody != tt.wantBody {
				t.Errorf("body = %s, want %s", gotBody, tt.wantBody)
			}
		})
	}
}

func TestClient_ExecuteCommand_TargetMismatch(t *testing.T) {
	reg := command.NewRegistry(command.DefaultRegistryConfig())
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should reach the device")
	}))

	v, err := reg.Validate(command.TurnOn, nil)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if err := client.ExecuteCommand(context.Background(), v, pod.PodTarget()); err == nil {
		t.Error("ExecuteCommand(side command, pod target) expected error, got nil")
	}
}

func TestClient_RetriesNetworkFailures(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	err := client.WriteDaySchedule(context.Background(), pod.Left, schedule.Monday, schedule.DaySchedule{})
	if err != nil {
		t.Fatalf("WriteDaySchedule() error = %v", err)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("device saw %d requests, want 3", got)
	}
}

func TestClient_ExhaustedRetriesReturnUnavailable(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))

	err := client.WriteDaySchedule(context.Background(), pod.Left, schedule.Monday, schedule.DaySchedule{})
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("WriteDaySchedule() error = %v, want ErrUnavailable", err)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("device saw %d requests, want 3 (max attempts)", got)
	}
}

func TestClient_CancelDuringBackoffIsNotUnavailable(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		// Cancel while the client is waiting to retry this failure.
		cancel()
		w.WriteHeader(http.StatusBadGateway)
	}))

	err := client.WriteDaySchedule(ctx, pod.Left, schedule.Monday, schedule.DaySchedule{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("WriteDaySchedule() error = %v, want context.Canceled", err)
	}
	if errors.Is(err, ErrUnavailable) {
		t.Errorf("WriteDaySchedule() error = %v, cancellation must not classify as ErrUnavailable", err)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("device saw %d requests, want 1 (no retry after cancel)", got)
	}
}

func TestClient_DeviceRejectedNotRetried(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad schedule", http.StatusBadRequest)
	}))

	err := client.WriteDaySchedule(context.Background(), pod.Left, schedule.Monday, schedule.DaySchedule{})
	if !errors.Is(err, ErrDeviceRejected) {
		t.Fatalf("WriteDaySchedule() error = %v, want ErrDeviceRejected", err)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("device saw %d requests, want 1 (4xx never retried)", got)
	}
}

func TestClient_NonIdempotentSingleAttempt(t *testing.T) {
	reg := command.NewRegistry(command.DefaultRegistryConfig())

	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))

	v, err := reg.Validate(command.Reboot, nil)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	err = client.ExecuteCommand(context.Background(), v, pod.PodTarget())
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("ExecuteCommand() error = %v, want ErrUnavailable", err)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("device saw %d requests, want exactly 1 for non-idempotent command", got)
	}
}

func TestClient_WriteDaySchedule_WireShape(t *testing.T) {
	var gotBody map[string]map[string]wireDay
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/schedules" {
			t.Errorf("path = %q, want /api/schedules", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decoding body: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	onTemp := 82
	ds := schedule.DaySchedule{
		Power: &schedule.PowerSchedule{On: "21:00", OnTemperature: &onTemp},
		Temperatures: []schedule.TemperaturePoint{
			{Time: "22:00", Temperature: 77},
			{Time: "02:00", Temperature: 70},
		},
		Alarm: &schedule.AlarmSchedule{Time: "07:00", Enabled: true},
	}

	if err := client.WriteDaySchedule(context.Background(), pod.Right, schedule.Friday, ds); err != nil {
		t.Fatalf("WriteDaySchedule() error = %v", err)
	}

	day, ok := gotBody["right"]["friday"]
	if !ok {
		t.Fatalf("body missing right/friday: %v", gotBody)
	}
	if day.Power == nil || day.Power.On != "21:00" || day.Power.OnTemperature == nil || *day.Power.OnTemperature != 82 {
		t.Errorf("power = %+v", day.Power)
	}
	if day.Temperatures["22:00"] != 77 || day.Temperatures["02:00"] != 70 {
		t.Errorf("temperatures = %v, want map keyed by HH:MM", day.Temperatures)
	}
	if day.Alarm == nil || day.Alarm.Time != "07:00" || !day.Alarm.Enabled {
		t.Errorf("alarm = %+v", day.Alarm)
	}
}

func TestClient_FetchVitals(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("side"); got != "left" {
			t.Errorf("side query = %q, want left", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"heartRate": 58.5, "respiratoryRate": null}`)) //nolint:errcheck // Test handler
	}))

	vitals, err := client.FetchVitals(context.Background(), pod.Left)
	if err != nil {
		t.Fatalf("FetchVitals() error = %v", err)
	}
	if vitals.HeartRate == nil || *vitals.HeartRate != 58.5 {
		t.Errorf("HeartRate = %v, want 58.5", vitals.HeartRate)
	}
	if vitals.RespiratoryRate != nil {
		t.Errorf("RespiratoryRate = %v, want nil for null field", vitals.RespiratoryRate)
	}
	if vitals.HRV != nil {
		t.Errorf("HRV = %v, want nil for absent field", vitals.HRV)
	}
}

func TestClient_FetchStatus(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"left": {"currentTemperatureF": 71.2, "targetTemperatureF": 75, "isOn": true},
			"right": {"currentTemperatureF": 69.8, "targetTemperatureF": 72, "isOn": false},
			"waterLevel": "ok",
			"settings": {"ledBrightness": 60},
			"freeSleep": {"version": "1.4.2"}
		}`)) //nolint:errcheck // Test handler
	}))

	status, err := client.FetchStatus(context.Background())
	if err != nil {
		t.Fatalf("FetchStatus() error = %v", err)
	}
	if !status.Left.IsOn || status.Left.TargetTemperatureF != 75 {
		t.Errorf("left status = %+v", status.Left)
	}
	if status.SideFor(pod.Right).CurrentTemperatureF != 69.8 {
		t.Errorf("SideFor(right) = %+v", status.SideFor(pod.Right))
	}
	if status.FirmwareVersion() != "1.4.2" {
		t.Errorf("FirmwareVersion() = %q, want 1.4.2", status.FirmwareVersion())
	}
}
