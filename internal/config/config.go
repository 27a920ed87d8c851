// Package config persists the connection settings for a thermostat
// account between runs. The on-disk shape is one key=value pair per
// line, plain text, hand-editable. The password is stored in the
// clear, same as the app this harness exists to test against.
package config

import (
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"strconv"
	"strings"
)

type Family string

const (
	FamilyWD5 Family = "WD5"
	FamilyWG4 Family = "WG4"
)

const DefaultPath = "config.txt"

// the vendor's shared customer id, works for most WD5 accounts
const DefaultCustomerID = 99

// Settings is everything needed to open a session against one
// account. APIKey and CustomerID only apply to the WD5 family.
type Settings struct {
	Family     Family
	Username   string
	Password   string
	APIKey     string
	CustomerID int
	Endpoint   string
}

// Validate checks that every field the family requires is present.
func (s Settings) Validate() error {
	if s.Username == "" {
		return errors.New("username is required")
	}
	if s.Password == "" {
		return errors.New("password is required")
	}
	switch s.Family {
	case FamilyWD5:
		if s.APIKey == "" {
			return errors.New("api key is required for WD5")
		}
		return nil
	case FamilyWG4:
		return nil
	}
	return fmt.Errorf("unknown thermostat family %q", s.Family)
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Store reads and writes a Settings file at a fixed path.
type Store struct {
	path string
}

func (s *Store) Path() string {
	return s.path
}

// Load reads the settings file. A missing, empty or unparseable file
// is a normal first-run condition and reports ok=false, never an
// error. Family-specific extras are not checked here; a missing api
// key surfaces later as a failed connection attempt.
func (s *Store) Load() (Settings, bool) {
	data, err := ioutil.ReadFile(s.path)
	if err != nil {
		return Settings{}, false
	}

	cfg := Settings{CustomerID: DefaultCustomerID}
	for _, line := range strings.Split(string(data), "\n") {
		idx := strings.Index(line, "=")
		if idx < 0 {
			continue
		}
		key := strings.TrimSpace(line[:idx])
		value := strings.TrimSpace(line[idx+1:])
		if value == "" {
			continue
		}
		switch key {
		case "model_family":
			cfg.Family = Family(value)
		case "username":
			cfg.Username = value
		case "password":
			cfg.Password = value
		case "api_key":
			cfg.APIKey = value
		case "customer_id":
			id, err := strconv.Atoi(value)
			if err != nil {
				return Settings{}, false
			}
			cfg.CustomerID = id
		case "api_endpoint":
			cfg.Endpoint = value
		}
	}

	switch cfg.Family {
	case FamilyWD5, FamilyWG4:
	default:
		// an unrecognized family tag is treated the same as no file
		return Settings{}, false
	}
	if cfg.Username == "" || cfg.Password == "" {
		return Settings{}, false
	}
	return cfg, true
}

// Save overwrites the settings file with cfg. Only the active
// family's fields are written, nothing from a previous save
// survives.
func (s *Store) Save(cfg Settings) error {
	var b strings.Builder
	writeKey := func(key, value string) {
		if value != "" {
			fmt.Fprintf(&b, "%s=%s\n", key, value)
		}
	}

	writeKey("model_family", string(cfg.Family))
	writeKey("username", cfg.Username)
	writeKey("password", cfg.Password)
	if cfg.Family == FamilyWD5 {
		writeKey("api_key", cfg.APIKey)
		writeKey("customer_id", strconv.Itoa(cfg.CustomerID))
	}
	writeKey("api_endpoint", cfg.Endpoint)

	if err := ioutil.WriteFile(s.path, []byte(b.String()), os.FileMode(0644)); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	return nil
}
