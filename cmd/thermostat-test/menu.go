package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"

	ojmicroline "github.com/smarmau/ojmicroline-thermostat-test"
	"github.com/smarmau/ojmicroline-thermostat-test/internal/bootstrap"
	"github.com/smarmau/ojmicroline-thermostat-test/internal/config"
)

// the vendor applies updates asynchronously, listing too soon after
// a write returns the old values
const propagationDelay = 2 * time.Second

type app struct {
	in          *bufio.Reader
	store       *config.Store
	client      *ojmicroline.Client
	settings    config.Settings
	thermostats []ojmicroline.Thermostat
}

func (a *app) menu() {
	for {
		fmt.Println("\n=== Thermostat Test Application ===")
		fmt.Println("1. Configure API Connection")
		fmt.Println("2. Show Thermostats")
		fmt.Println("3. View Thermostat Details")
		fmt.Println("4. Set Temperature")
		fmt.Println("5. Set Preset Mode")
		fmt.Println("6. Refresh Thermostat Data")
		fmt.Println("7. Exit")

		switch prompt(a.in, "\nEnter choice (1-7): ") {
		case "1":
			a.configure()
		case "2":
			if a.fetchIfEmpty() {
				a.renderThermostats()
			}
		case "3":
			if t, ok := a.selectThermostat(); ok {
				a.renderDetails(t)
			}
		case "4":
			if t, ok := a.selectThermostat(); ok {
				a.setTemperature(t)
			}
		case "5":
			if t, ok := a.selectThermostat(); ok {
				a.setPresetMode(t)
			}
		case "6":
			fmt.Println("Refreshing thermostat data...")
			if a.refresh() {
				fmt.Println("Data refreshed.")
			}
		case "7":
			fmt.Println("Exiting application.")
			return
		default:
			fmt.Println("Invalid choice. Please try again.")
		}
	}
}

// configure runs one collection pass and swaps the live session only
// after the new settings survive a connection attempt. The old
// session stays intact on any failure.
func (a *app) configure() {
	cfg, err := collectSettings(a.in)
	if err != nil {
		return
	}

	fmt.Println("Testing connection...")
	client, devs, err := bootstrap.Dial(context.Background(), cfg)
	if err != nil {
		fmt.Println("Connection failed:", bootstrap.Describe(err))
		return
	}
	fmt.Println("Successfully connected to the API")

	if err := a.store.Save(cfg); err != nil {
		fmt.Println("Could not save settings:", err)
		fmt.Println("Continuing without persistence for this run.")
	} else {
		fmt.Println("Configuration saved.")
	}

	if os.Getenv(debugEnv) != "" {
		client.Log.SetOutput(os.Stderr)
	}
	a.client = client
	a.settings = cfg
	a.thermostats = devs
}

func (a *app) refresh() bool {
	devs, err := a.client.Thermostats(context.Background())
	if err != nil {
		fmt.Println("Error fetching thermostats:", bootstrap.Describe(err))
		return false
	}
	a.thermostats = devs
	return true
}

func (a *app) fetchIfEmpty() bool {
	if len(a.thermostats) > 0 {
		return true
	}
	if !a.refresh() {
		return false
	}
	if len(a.thermostats) == 0 {
		fmt.Println("No thermostats found on this account.")
		return false
	}
	return true
}

func (a *app) renderThermostats() {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"#", "Name", "Serial", "Status", "Current", "Target", "Mode", "Model", "SW Ver"})

	for i, t := range a.thermostats {
		status := "Offline"
		if t.Online {
			status = "Online"
		}
		if t.Heating {
			status += ", Heating"
		}
		table.Append([]string{
			strconv.Itoa(i + 1),
			t.Name,
			t.SerialNumber,
			status,
			t.CurrentTemperature().String(),
			t.TargetTemperature().String(),
			t.RegulationMode.String(),
			t.Model,
			t.SoftwareVersion,
		})
	}

	table.Render()
}

// selectThermostat auto-selects when the account has exactly one.
func (a *app) selectThermostat() (ojmicroline.Thermostat, bool) {
	if !a.fetchIfEmpty() {
		return ojmicroline.Thermostat{}, false
	}
	if len(a.thermostats) == 1 {
		return a.thermostats[0], true
	}

	a.renderThermostats()
	raw := prompt(a.in, "Select thermostat (or press Enter to cancel): ")
	if raw == "" {
		return ojmicroline.Thermostat{}, false
	}
	idx, err := strconv.Atoi(raw)
	if err != nil || idx < 1 || idx > len(a.thermostats) {
		fmt.Println("Invalid selection.")
		return ojmicroline.Thermostat{}, false
	}
	return a.thermostats[idx-1], true
}

func (a *app) renderDetails(t ojmicroline.Thermostat) {
	fmt.Printf("\n=== %s Details ===\n", t.Name)
	fmt.Println("Serial Number:", t.SerialNumber)
	fmt.Println("Model:", t.Model)
	fmt.Println("Software Version:", t.SoftwareVersion)
	if t.GroupName != "" {
		fmt.Println("Group:", t.GroupName)
	}
	fmt.Println("Status:", onOff(t.Online, "Online", "Offline"))
	fmt.Println("Heating:", onOff(t.Heating, "Yes", "No"))

	fmt.Println("Current Temperature:", t.CurrentTemperature())
	fmt.Println("Target Temperature:", t.TargetTemperature())
	if t.RoomTemperature != nil {
		fmt.Println("Room Temperature:", *t.RoomTemperature)
	}
	if t.FloorTemperature != nil {
		fmt.Println("Floor Temperature:", *t.FloorTemperature)
	}
	fmt.Printf("Temperature Range: %s - %s\n", t.MinSetpoint, t.MaxSetpoint)

	fmt.Println("Regulation Mode:", t.RegulationMode)
	fmt.Print("Supported Modes: ")
	for i, m := range t.SupportedModes {
		if i > 0 {
			fmt.Print(", ")
		}
		fmt.Print(m)
	}
	fmt.Println()

	if t.AdaptiveMode != nil {
		fmt.Println("Adaptive Mode:", onOff(*t.AdaptiveMode, "Enabled", "Disabled"))
	}
	if t.OpenWindowDetection != nil {
		fmt.Println("Open Window Detection:", onOff(*t.OpenWindowDetection, "Enabled", "Disabled"))
	}

	if t.RegulationMode == ojmicroline.ModeBoost && !t.BoostEndTime.IsZero() {
		fmt.Println("Boost End Time:", t.BoostEndTime.Format(time.RFC1123))
	}
	if t.RegulationMode == ojmicroline.ModeComfort && !t.ComfortEndTime.IsZero() {
		fmt.Println("Comfort End Time:", t.ComfortEndTime.Format(time.RFC1123))
	}
	if t.VacationEnabled {
		if !t.VacationBegin.IsZero() {
			fmt.Println("Vacation Begin Time:", t.VacationBegin.Format(dayLayout))
		}
		if !t.VacationEnd.IsZero() {
			fmt.Println("Vacation End Time:", t.VacationEnd.Format(dayLayout))
		}
	}
}

func (a *app) setTemperature(t ojmicroline.Thermostat) {
	fmt.Println("\nCurrent target temperature:", t.TargetTemperature())
	fmt.Printf("Valid range: %s - %s\n", t.MinSetpoint, t.MaxSetpoint)

	raw := prompt(a.in, "Enter new temperature in °C (or press Enter to cancel): ")
	if raw == "" {
		fmt.Println("Operation cancelled.")
		return
	}
	setpoint, err := ojmicroline.ParseTemperature(raw)
	if err != nil {
		fmt.Println("Invalid input. Please enter a valid temperature.")
		return
	}
	if setpoint < t.MinSetpoint || setpoint > t.MaxSetpoint {
		fmt.Printf("Temperature must be between %s and %s\n", t.MinSetpoint, t.MaxSetpoint)
		return
	}

	fmt.Println("\nSelect regulation mode:")
	fmt.Println("1. Manual (permanent)")
	fmt.Println("2. Comfort (temporary)")

	mode := ojmicroline.ModeManual
	var duration time.Duration
	if prompt(a.in, "Enter choice (1-2, default: 1): ") == "2" {
		mode = ojmicroline.ModeComfort
		duration = time.Duration(promptInt(a.in, "Enter duration in minutes (default: 60): ", 60)) * time.Minute
	}

	if err := a.client.SetRegulationMode(context.Background(), t, mode, setpoint, duration); err != nil {
		fmt.Println("Error setting temperature:", bootstrap.Describe(err))
		return
	}
	fmt.Printf("Temperature set to %s in %s mode\n", setpoint, mode)
	a.delayedRefresh()
}

func (a *app) setPresetMode(t ojmicroline.Thermostat) {
	fmt.Println("\nAvailable preset modes:")
	for i, m := range t.SupportedModes {
		fmt.Printf("%d. %s\n", i+1, m)
	}

	raw := prompt(a.in, "\nSelect mode (or press Enter to cancel): ")
	if raw == "" {
		fmt.Println("Operation cancelled.")
		return
	}
	idx, err := strconv.Atoi(raw)
	if err != nil || idx < 1 || idx > len(t.SupportedModes) {
		fmt.Println("Invalid selection.")
		return
	}
	mode := t.SupportedModes[idx-1]

	switch mode {
	case ojmicroline.ModeComfort:
		duration := time.Duration(promptInt(a.in, "Enter duration in minutes (default: 60): ", 60)) * time.Minute
		setpoint, ok := promptTemperature(a.in, fmt.Sprintf("Enter temperature in °C (default: %s): ", t.TargetTemperature()), t.TargetTemperature())
		if !ok {
			return
		}
		err = a.client.SetRegulationMode(context.Background(), t, mode, setpoint, duration)
	case ojmicroline.ModeManual:
		setpoint, ok := promptTemperature(a.in, fmt.Sprintf("Enter temperature in °C (default: %s): ", t.TargetTemperature()), t.TargetTemperature())
		if !ok {
			return
		}
		err = a.client.SetRegulationMode(context.Background(), t, mode, setpoint, 0)
	case ojmicroline.ModeVacation:
		begin, ok := promptDate(a.in, "Enter vacation start date (YYYY-MM-DD, default: today): ")
		if !ok {
			return
		}
		if begin.IsZero() {
			begin = time.Now()
		}
		end, ok := promptDate(a.in, "Enter vacation end date (YYYY-MM-DD): ")
		if !ok {
			return
		}
		if end.IsZero() {
			fmt.Println("End date is required for vacation mode.")
			return
		}
		setpoint, ok := promptTemperature(a.in, "Enter temperature in °C (default: 15°C): ", ojmicroline.FromCelsius(15))
		if !ok {
			return
		}
		err = a.client.SetVacationMode(context.Background(), t, setpoint, begin, end)
	default:
		err = a.client.SetRegulationMode(context.Background(), t, mode, 0, 0)
	}

	if err != nil {
		fmt.Println("Error setting mode:", bootstrap.Describe(err))
		return
	}
	fmt.Println("Mode set to", mode)
	a.delayedRefresh()
}

func (a *app) delayedRefresh() {
	time.Sleep(propagationDelay)
	a.refresh()
}

func onOff(v bool, yes, no string) string {
	if v {
		return yes
	}
	return no
}
