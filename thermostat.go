package ojmicroline

import (
	"fmt"
	"strconv"
	"time"
)

// Temperature is a vendor temperature value in hundredths of a degree
// celsius, 2150 = 21.50C. Both API families use this encoding.
type Temperature int

func (t Temperature) Celsius() float64 {
	return float64(t) / 100
}

func (t Temperature) String() string {
	return strconv.FormatFloat(t.Celsius(), 'f', -1, 64) + "°C"
}

func FromCelsius(c float64) Temperature {
	return Temperature(c * 100)
}

// ParseTemperature parses a celsius value such as "21.5" into a
// vendor Temperature.
func ParseTemperature(s string) (Temperature, error) {
	c, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid temperature %q", s)
	}
	return FromCelsius(c), nil
}

// RegulationMode values are the vendor's own wire values.
type RegulationMode int

const (
	ModeSchedule        RegulationMode = 1
	ModeComfort         RegulationMode = 2
	ModeManual          RegulationMode = 3
	ModeVacation        RegulationMode = 4
	ModeFrostProtection RegulationMode = 6
	ModeBoost           RegulationMode = 8
	ModeEco             RegulationMode = 9
)

func (m RegulationMode) String() string {
	switch m {
	case ModeSchedule:
		return "Schedule"
	case ModeComfort:
		return "Comfort"
	case ModeManual:
		return "Manual"
	case ModeVacation:
		return "Vacation"
	case ModeFrostProtection:
		return "Frost Protection"
	case ModeBoost:
		return "Boost"
	case ModeEco:
		return "Eco"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

type Thermostat struct {
	SerialNumber    string
	Name            string
	Model           string
	SoftwareVersion string

	// wd5 updates are issued per group, so listing keeps the ids around
	GroupID   int
	GroupName string

	Online  bool
	Heating bool

	// nil when the model has no such sensor
	RoomTemperature  *Temperature
	FloorTemperature *Temperature

	RegulationMode RegulationMode
	SupportedModes []RegulationMode

	ScheduleSetpoint        Temperature
	ComfortSetpoint         Temperature
	ComfortEndTime          time.Time
	ManualSetpoint          Temperature
	FrostProtectionSetpoint Temperature
	BoostEndTime            time.Time

	VacationEnabled  bool
	VacationSetpoint Temperature
	VacationBegin    time.Time
	VacationEnd      time.Time

	MinSetpoint Temperature
	MaxSetpoint Temperature

	// wd5 only
	AdaptiveMode        *bool
	OpenWindowDetection *bool
}

// CurrentTemperature prefers the room sensor over the floor sensor.
func (t Thermostat) CurrentTemperature() Temperature {
	if t.RoomTemperature != nil {
		return *t.RoomTemperature
	}
	if t.FloorTemperature != nil {
		return *t.FloorTemperature
	}
	return 0
}

// TargetTemperature is the setpoint the active regulation mode is
// holding the thermostat to.
func (t Thermostat) TargetTemperature() Temperature {
	switch t.RegulationMode {
	case ModeComfort:
		return t.ComfortSetpoint
	case ModeManual:
		return t.ManualSetpoint
	case ModeVacation:
		return t.VacationSetpoint
	case ModeFrostProtection:
		return t.FrostProtectionSetpoint
	case ModeBoost:
		return t.MaxSetpoint
	}
	return t.ScheduleSetpoint
}

func (t Thermostat) SupportsMode(mode RegulationMode) bool {
	for _, m := range t.SupportedModes {
		if m == mode {
			return true
		}
	}
	return false
}
