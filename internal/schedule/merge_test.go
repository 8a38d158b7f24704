package schedule

import (
	"errors"
	"reflect"
	"testing"
)

func intPtr(v int) *int { return &v }

func testBounds() Bounds {
	return Bounds{MinF: 55, MaxF: 110}
}

func TestFragment_Validate(t *testing.T) {
	tests := []struct {
		name    string
		frag    Fragment
		wantErr bool
	}{
		{
			name: "valid full fragment",
			frag: Fragment{
				Power: &PowerSchedule{On: "21:00", OnTemperature: intPtr(85)},
				Temperatures: []TemperaturePoint{
					{Time: "22:00", Temperature: 80},
					{Time: "23:30", Temperature: 75},
				},
				Alarm: &AlarmSchedule{Time: "07:00", Enabled: true, AlarmTemperature: intPtr(95)},
			},
		},
		{
			name: "empty fragment valid",
			frag: Fragment{},
		},
		{
			name:    "bad power time",
			frag:    Fragment{Power: &PowerSchedule{On: "9:00"}},
			wantErr: true,
		},
		{
			name:    "power temperature out of bounds",
			frag:    Fragment{Power: &PowerSchedule{On: "21:00", OnTemperature: intPtr(500)}},
			wantErr: true,
		},
		{
			name:    "bad alarm time",
			frag:    Fragment{Alarm: &AlarmSchedule{Time: "25:00"}},
			wantErr: true,
		},
		{
			name: "temperature out of bounds",
			frag: Fragment{Temperatures: []TemperaturePoint{
				{Time: "22:00", Temperature: 120},
			}},
			wantErr: true,
		},
		{
			name: "duplicate temperature times",
			frag: Fragment{Temperatures: []TemperaturePoint{
				{Time: "22:00", Temperature: 80},
				{Time: "22:00", Temperature: 75},
			}},
			wantErr: true,
		},
		{
			name: "unordered temperature times",
			frag: Fragment{Temperatures: []TemperaturePoint{
				{Time: "23:00", Temperature: 80},
				{Time: "22:00", Temperature: 75},
			}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.frag.Validate(testBounds())
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidFragment) {
					t.Fatalf("Validate() error = %v, want ErrInvalidFragment", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate() error = %v", err)
			}
		})
	}
}

func TestMerge_Idempotent(t *testing.T) {
	var existing WeeklySchedule
	existing[Monday] = DaySchedule{
		Alarm: &AlarmSchedule{Time: "06:30", Enabled: true},
	}

	frag := Fragment{
		Power: &PowerSchedule{On: "21:00"},
		Temperatures: []TemperaturePoint{
			{Time: "22:00", Temperature: 77},
		},
	}
	days := WeekdaySet(0).Add(Monday).Add(Tuesday)

	once := Merge(existing, frag, days)
	twice := Merge(once, frag, days)

	if !reflect.DeepEqual(once, twice) {
		t.Error("merging the same fragment twice should equal merging once")
	}
}

func TestMerge_PartialFieldPreservation(t *testing.T) {
	var existing WeeklySchedule
	existing[Thursday] = DaySchedule{
		Power: &PowerSchedule{On: "20:00", OnTemperature: intPtr(82)},
		Temperatures: []TemperaturePoint{
			{Time: "22:00", Temperature: 78},
		},
		Alarm: &AlarmSchedule{Time: "06:45", Enabled: true},
	}

	frag := Fragment{Power: &PowerSchedule{On: "21:30"}}
	merged := Merge(existing, frag, WeekdaySet(0).Add(Thursday))

	got := merged[Thursday]
	if got.Power == nil || got.Power.On != "21:30" {
		t.Errorf("power.on = %v, want 21:30", got.Power)
	}
	// Power is replaced wholesale, so the old on-temperature goes away
	if got.Power.OnTemperature != nil {
		t.Error("power.on_temperature should be cleared by wholesale replace")
	}
	// Fields absent from the fragment stay as they were
	if !reflect.DeepEqual(got.Temperatures, existing[Thursday].Temperatures) {
		t.Errorf("temperatures changed: %v", got.Temperatures)
	}
	if !reflect.DeepEqual(got.Alarm, existing[Thursday].Alarm) {
		t.Errorf("alarm changed: %v", got.Alarm)
	}
}

func TestMerge_TemperaturesArrayReplace(t *testing.T) {
	var existing WeeklySchedule
	existing[Friday] = DaySchedule{
		Temperatures: []TemperaturePoint{
			{Time: "21:00", Temperature: 80},
			{Time: "23:00", Temperature: 72},
			{Time: "04:00", Temperature: 68},
		},
	}

	frag := Fragment{
		Temperatures: []TemperaturePoint{
			{Time: "22:30", Temperature: 76},
		},
	}
	merged := Merge(existing, frag, WeekdaySet(0).Add(Friday))

	want := []TemperaturePoint{{Time: "22:30", Temperature: 76}}
	if !reflect.DeepEqual(merged[Friday].Temperatures, want) {
		t.Errorf("temperatures = %v, want full replacement %v", merged[Friday].Temperatures, want)
	}
}

func TestMerge_UnnamedDaysUnchanged(t *testing.T) {
	var existing WeeklySchedule
	existing[Saturday] = DaySchedule{
		Power: &PowerSchedule{On: "22:00"},
	}

	frag := Fragment{Power: &PowerSchedule{On: "20:00"}}
	merged := Merge(existing, frag, WeekdaySet(0).Add(Monday))

	if !reflect.DeepEqual(merged[Saturday], existing[Saturday]) {
		t.Error("saturday should be unchanged when only monday is targeted")
	}
	if merged[Monday].Power == nil || merged[Monday].Power.On != "20:00" {
		t.Error("monday should carry the merged power block")
	}
}

func TestMerge_DoesNotMutateInput(t *testing.T) {
	var existing WeeklySchedule
	existing[Monday] = DaySchedule{
		Temperatures: []TemperaturePoint{{Time: "22:00", Temperature: 78}},
	}
	snapshot := existing.Clone()

	frag := Fragment{
		Temperatures: []TemperaturePoint{{Time: "23:00", Temperature: 70}},
	}
	merged := Merge(existing, frag, AllWeekdays())

	if !reflect.DeepEqual(existing, snapshot) {
		t.Error("Merge mutated its input week")
	}

	// Mutating the result must not leak back into the fragment
	merged[Monday].Temperatures[0].Temperature = 0
	if frag.Temperatures[0].Temperature != 70 {
		t.Error("merged result shares backing array with fragment")
	}
}

func TestMerge_AllDays(t *testing.T) {
	// The all-days scenario: power and temperatures land on every
	// weekday, alarm untouched everywhere.
	var existing WeeklySchedule
	for d := Monday; d <= Sunday; d++ {
		existing[d] = DaySchedule{Alarm: &AlarmSchedule{Time: "07:00", Enabled: true}}
	}

	frag := Fragment{
		Power:        &PowerSchedule{On: "21:00"},
		Temperatures: []TemperaturePoint{{Time: "22:00", Temperature: 77}},
	}
	merged := Merge(existing, frag, AllWeekdays())

	for d := Monday; d <= Sunday; d++ {
		day := merged[d]
		if day.Power == nil || day.Power.On != "21:00" {
			t.Errorf("%s: power.on = %v, want 21:00", d, day.Power)
		}
		if len(day.Temperatures) != 1 || day.Temperatures[0].Temperature != 77 {
			t.Errorf("%s: temperatures = %v, want [{22:00 77}]", d, day.Temperatures)
		}
		if day.Alarm == nil || day.Alarm.Time != "07:00" {
			t.Errorf("%s: alarm should be untouched, got %v", d, day.Alarm)
		}
	}
}

func TestParseTimeOfDay(t *testing.T) {
	valid := []string{"00:00", "09:30", "12:00", "23:59"}
	for _, v := range valid {
		if _, err := ParseTimeOfDay(v); err != nil {
			t.Errorf("ParseTimeOfDay(%q) error = %v", v, err)
		}
	}

	invalid := []string{"24:00", "9:00", "12:60", "noon", "", "12:00:00"}
	for _, v := range invalid {
		if _, err := ParseTimeOfDay(v); !errors.Is(err, ErrInvalidTime) {
			t.Errorf("ParseTimeOfDay(%q) error = %v, want ErrInvalidTime", v, err)
		}
	}
}
