// Package bootstrap produces a validated thermostat session before
// the menu runs: load saved settings and try them, otherwise collect
// settings interactively until a connection attempt succeeds.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"net/url"
	"os"

	ojmicroline "github.com/smarmau/ojmicroline-thermostat-test"
	"github.com/smarmau/ojmicroline-thermostat-test/internal/config"
)

// ErrExit is returned by Collect when the user declines to enter
// settings, the only way out of the retry loop.
var ErrExit = errors.New("user exit")

// Result is a proven session: the connect attempt that produced it
// already listed the account's thermostats once.
type Result struct {
	Client      *ojmicroline.Client
	Thermostats []ojmicroline.Thermostat
	Settings    config.Settings
}

type Bootstrapper struct {
	Store   *config.Store
	Collect func() (config.Settings, error)
	Connect func(ctx context.Context, cfg config.Settings) (*ojmicroline.Client, []ojmicroline.Thermostat, error)
	Out     io.Writer
	Log     *log.Logger
}

func New(store *config.Store, collect func() (config.Settings, error)) *Bootstrapper {
	return &Bootstrapper{
		Store:   store,
		Collect: collect,
		Connect: Dial,
		Out:     os.Stdout,
		Log:     log.New(ioutil.Discard, "[bootstrap] ", log.LstdFlags),
	}
}

// Run loops until a connection attempt succeeds or the user exits.
// Failures are reported and re-prompted, never fatal.
func (b *Bootstrapper) Run(ctx context.Context) (*Result, error) {
	if cfg, ok := b.Store.Load(); ok {
		b.Log.Println("loaded settings from", b.Store.Path())
		client, devs, err := b.Connect(ctx, cfg)
		if err == nil {
			b.Log.Println("saved settings accepted,", len(devs), "thermostats")
			return &Result{Client: client, Thermostats: devs, Settings: cfg}, nil
		}
		fmt.Fprintln(b.Out, "Saved settings no longer work:", Describe(err))
	} else {
		b.Log.Println("no usable settings at", b.Store.Path())
	}

	for {
		cfg, err := b.Collect()
		if err != nil {
			return nil, err
		}

		client, devs, err := b.Connect(ctx, cfg)
		if err != nil {
			fmt.Fprintln(b.Out, "Connection failed:", Describe(err))
			continue
		}

		// a failed save is reported but the session stands, this
		// run just won't persist
		if err := b.Store.Save(cfg); err != nil {
			fmt.Fprintln(b.Out, "Could not save settings:", err)
			fmt.Fprintln(b.Out, "Continuing without persistence for this run.")
		}
		return &Result{Client: client, Thermostats: devs, Settings: cfg}, nil
	}
}

// Dial validates cfg, builds the family's api and proves the session
// with one listing call. Zero thermostats is still a success.
func Dial(ctx context.Context, cfg config.Settings) (*ojmicroline.Client, []ojmicroline.Thermostat, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	var api ojmicroline.API
	switch cfg.Family {
	case config.FamilyWD5:
		api = ojmicroline.NewWD5API(ojmicroline.WD5Config{
			Username:   cfg.Username,
			Password:   cfg.Password,
			APIKey:     cfg.APIKey,
			CustomerID: cfg.CustomerID,
			Endpoint:   cfg.Endpoint,
		})
	case config.FamilyWG4:
		api = ojmicroline.NewWG4API(ojmicroline.WG4Config{
			Username: cfg.Username,
			Password: cfg.Password,
			Endpoint: cfg.Endpoint,
		})
	default:
		return nil, nil, fmt.Errorf("unknown thermostat family %q", cfg.Family)
	}

	client := ojmicroline.New(api)
	devs, err := client.Thermostats(ctx)
	if err != nil {
		return nil, nil, err
	}
	return client, devs, nil
}

// Describe turns a connect failure into a one-line reason,
// separating credential rejection from an unreachable api.
func Describe(err error) string {
	var urlErr *url.Error
	var apiErr ojmicroline.APIError
	var statusErr ojmicroline.HTTPStatusError
	switch {
	case errors.Is(err, ojmicroline.ErrInvalidCredentials):
		return "authentication rejected, check username, password and api key"
	case errors.As(err, &urlErr):
		return "could not reach the api: " + err.Error()
	case errors.As(err, &apiErr) || errors.As(err, &statusErr):
		return "the api rejected the request: " + err.Error()
	}
	return err.Error()
}
