package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/smarmau/ojmicroline-thermostat-test/internal/bootstrap"
	"github.com/smarmau/ojmicroline-thermostat-test/internal/config"
)

const debugEnv = "THERMOSTAT_TEST_DEBUG"

func main() {
	var rootCmd = &cobra.Command{
		Use:   "thermostat-test",
		Short: "Menu driven test harness for OJ Microline WiFi thermostats",
		Long:  "Exercises connect, read-status, set-temperature and set-mode against an OJ Microline account before wiring it into anything bigger",
		Run:   run,
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
}

func run(cmd *cobra.Command, args []string) {
	in := bufio.NewReader(os.Stdin)
	store := config.NewStore(config.DefaultPath)

	b := bootstrap.New(store, func() (config.Settings, error) {
		return collectSettings(in)
	})
	if os.Getenv(debugEnv) != "" {
		b.Log.SetOutput(os.Stderr)
	}

	res, err := b.Run(context.Background())
	if errors.Is(err, bootstrap.ErrExit) {
		fmt.Println("Exiting application.")
		return
	}
	if err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
	if os.Getenv(debugEnv) != "" {
		res.Client.Log.SetOutput(os.Stderr)
	}
	fmt.Println("Successfully connected to the API")

	app := &app{
		in:          in,
		store:       store,
		client:      res.Client,
		settings:    res.Settings,
		thermostats: res.Thermostats,
	}
	app.menu()
}

// collectSettings walks the user through one configuration pass:
// family first, then the fields that family requires. The password
// echoes as typed but is never printed back afterwards.
func collectSettings(in *bufio.Reader) (config.Settings, error) {
	fmt.Println("\n=== API Configuration ===")
	fmt.Println("Select thermostat model:")
	fmt.Println("1. WD5 series (OWD5, MWD5)")
	fmt.Println("2. WG4 series (UWG4, AWG4)")

	var cfg config.Settings
	switch prompt(in, "Enter choice (1-2, or press Enter to cancel): ") {
	case "1":
		cfg.Family = config.FamilyWD5
	case "2":
		cfg.Family = config.FamilyWG4
	default:
		fmt.Println("Configuration cancelled.")
		return cfg, bootstrap.ErrExit
	}

	cfg.Username = prompt(in, "Username: ")
	cfg.Password = prompt(in, "Password: ")

	if cfg.Family == config.FamilyWD5 {
		cfg.APIKey = prompt(in, "API Key: ")
		cfg.CustomerID = promptInt(in, fmt.Sprintf("Customer ID (default: %d): ", config.DefaultCustomerID), config.DefaultCustomerID)
	}
	cfg.Endpoint = prompt(in, "API endpoint (optional, leave blank for default): ")
	return cfg, nil
}
