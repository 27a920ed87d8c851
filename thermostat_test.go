package ojmicroline

import (
	"testing"
)

func TestTargetTemperatureFollowsMode(t *testing.T) {
	therm := Thermostat{
		ScheduleSetpoint:        2000,
		ComfortSetpoint:         2300,
		ManualSetpoint:          2100,
		VacationSetpoint:        1500,
		FrostProtectionSetpoint: 500,
		MaxSetpoint:             2700,
	}

	cases := []struct {
		mode RegulationMode
		want Temperature
	}{
		{ModeSchedule, 2000},
		{ModeComfort, 2300},
		{ModeManual, 2100},
		{ModeVacation, 1500},
		{ModeFrostProtection, 500},
		{ModeBoost, 2700},
		{ModeEco, 2000}, // eco follows the schedule setpoint
	}
	for _, tc := range cases {
		therm.RegulationMode = tc.mode
		if got := therm.TargetTemperature(); got != tc.want {
			t.Fatalf("%s: got %v want %v", tc.mode, got, tc.want)
		}
	}
}

func TestCurrentTemperaturePrefersRoomSensor(t *testing.T) {
	room := Temperature(2150)
	floor := Temperature(2450)

	therm := Thermostat{RoomTemperature: &room, FloorTemperature: &floor}
	if got := therm.CurrentTemperature(); got != room {
		t.Fatalf("got %v", got)
	}

	therm.RoomTemperature = nil
	if got := therm.CurrentTemperature(); got != floor {
		t.Fatalf("got %v", got)
	}

	therm.FloorTemperature = nil
	if got := therm.CurrentTemperature(); got != 0 {
		t.Fatalf("got %v", got)
	}
}

func TestTemperatureFormatting(t *testing.T) {
	if got := Temperature(2150).String(); got != "21.5°C" {
		t.Fatalf("got %q", got)
	}
	if got := Temperature(2000).String(); got != "20°C" {
		t.Fatalf("got %q", got)
	}
	if got := Temperature(2150).Celsius(); got != 21.5 {
		t.Fatalf("got %v", got)
	}
}

func TestParseTemperature(t *testing.T) {
	if got, err := ParseTemperature("21.5"); err != nil || got != 2150 {
		t.Fatalf("got %v err %v", got, err)
	}
	if got, err := ParseTemperature("15"); err != nil || got != 1500 {
		t.Fatalf("got %v err %v", got, err)
	}
	if _, err := ParseTemperature("warm"); err == nil {
		t.Fatal("expected an error")
	}
}

func TestRegulationModeString(t *testing.T) {
	if got := ModeFrostProtection.String(); got != "Frost Protection" {
		t.Fatalf("got %q", got)
	}
	// unknown wire values print their number instead of guessing
	if got := RegulationMode(42).String(); got != "mode(42)" {
		t.Fatalf("got %q", got)
	}
}

func TestSupportsMode(t *testing.T) {
	therm := Thermostat{SupportedModes: wg4SupportedModes}
	if !therm.SupportsMode(ModeVacation) {
		t.Fatal("expected vacation support")
	}
	if therm.SupportsMode(ModeBoost) {
		t.Fatal("wg4 has no boost")
	}
}
