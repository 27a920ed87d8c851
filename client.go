package ojmicroline

import (
	"context"
	"errors"
	"io/ioutil"
	"log"
	"time"
)

// API is the per-family vendor surface. WD5API and WG4API implement
// it, tests fake it.
type API interface {
	SignIn(ctx context.Context) (string, error)
	Thermostats(ctx context.Context, sessionID string) ([]Thermostat, error)
	Update(ctx context.Context, sessionID string, t Thermostat, u Update) error
}

// Update describes a regulation change. Zero fields mean "keep the
// thermostat's current value".
type Update struct {
	Mode          RegulationMode
	Setpoint      Temperature
	Duration      time.Duration
	VacationBegin time.Time
	VacationEnd   time.Time
}

func New(api API) *Client {
	return &Client{
		Log: log.New(ioutil.Discard, "[ojmicroline] ", log.LstdFlags),
		api: api,
	}
}

// Client wraps an API with session handling. It signs in lazily,
// caches the session id and re-signs in exactly once when the vendor
// reports the session expired.
type Client struct {
	Log       *log.Logger
	api       API
	sessionID string
}

func (c *Client) Thermostats(ctx context.Context) (devs []Thermostat, err error) {
	err = c.withSession(ctx, func(sessionID string) error {
		devs, err = c.api.Thermostats(ctx, sessionID)
		return err
	})
	return
}

func (c *Client) SetRegulationMode(ctx context.Context, t Thermostat, mode RegulationMode, setpoint Temperature, duration time.Duration) error {
	return c.withSession(ctx, func(sessionID string) error {
		return c.api.Update(ctx, sessionID, t, Update{
			Mode:     mode,
			Setpoint: setpoint,
			Duration: duration,
		})
	})
}

func (c *Client) SetVacationMode(ctx context.Context, t Thermostat, setpoint Temperature, from, to time.Time) error {
	return c.withSession(ctx, func(sessionID string) error {
		return c.api.Update(ctx, sessionID, t, Update{
			Mode:          ModeVacation,
			Setpoint:      setpoint,
			VacationBegin: from,
			VacationEnd:   to,
		})
	})
}

func (c *Client) withSession(ctx context.Context, fn func(sessionID string) error) error {
	if c.sessionID == "" {
		if err := c.signIn(ctx); err != nil {
			return err
		}
	}
	err := fn(c.sessionID)
	if !errors.Is(err, ErrSessionExpired) {
		return err
	}

	// one retry on a fresh session, a second expiry is terminal
	c.Log.Println("session expired, signing in again")
	c.sessionID = ""
	if err := c.signIn(ctx); err != nil {
		return err
	}
	return fn(c.sessionID)
}

func (c *Client) signIn(ctx context.Context) error {
	sessionID, err := c.api.SignIn(ctx)
	if err != nil {
		return err
	}
	if sessionID == "" {
		return ErrNoSession
	}
	c.sessionID = sessionID
	c.Log.Println("signed in")
	return nil
}
