package ojmicroline

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWD5Flow(t *testing.T) {
	var signInBody map[string]interface{}
	var updateBody struct {
		APIKEY   string
		SetGroup wd5SetGroup
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/UserProfile/SignIn":
			if r.Method != http.MethodPost {
				t.Fatalf("expected POST sign in, got %s", r.Method)
			}
			if err := json.NewDecoder(r.Body).Decode(&signInBody); err != nil {
				t.Fatal(err)
			}
			_, _ = io.WriteString(w, `{"SessionId":"sess-1","ErrorCode":0}`)
		case "/api/Group/GroupContents":
			if got := r.URL.Query().Get("sessionid"); got != "sess-1" {
				t.Fatalf("got sessionid %q", got)
			}
			if got := r.URL.Query().Get("apiKey"); got != "key-123" {
				t.Fatalf("got apiKey %q", got)
			}
			_, _ = io.WriteString(w, `{"ErrorCode":0,"GroupContents":[{"GroupId":7,"GroupName":"Bathroom","Thermostats":[{
				"SerialNumber":"123456","ThermostatName":"Bathroom Floor","SWversion":"1013W212",
				"Online":true,"Heating":true,"RoomTemperature":2150,"FloorTemperature":2450,"SensorAppl":3,
				"RegulationMode":2,"ComfortSetpoint":2300,"ComfortEndTime":"27/08/2026 22:00:00",
				"ManualModeSetpoint":2100,"FrostProtectionTemperature":500,
				"VacationEnabled":false,"MinSetpoint":500,"MaxSetpoint":4000,
				"OpenWindow":false,"AdaptiveMode":true}]}]}`)
		case "/api/Group/UpdateGroup":
			if got := r.URL.Query().Get("sessionid"); got != "sess-1" {
				t.Fatalf("got sessionid %q", got)
			}
			if err := json.NewDecoder(r.Body).Decode(&updateBody); err != nil {
				t.Fatal(err)
			}
			_, _ = io.WriteString(w, `{"ErrorCode":0}`)
		default:
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
	}))
	defer server.Close()

	api := NewWD5API(WD5Config{
		Username:   "alice",
		Password:   "secret",
		APIKey:     "key-123",
		CustomerID: 99,
		Endpoint:   server.URL,
	})
	ctx := context.Background()

	sessionID, err := api.SignIn(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if sessionID != "sess-1" {
		t.Fatalf("got session %q", sessionID)
	}
	if signInBody["APIKEY"] != "key-123" || signInBody["UserName"] != "alice" {
		t.Fatalf("sign in payload: %+v", signInBody)
	}
	if signInBody["CustomerId"] != float64(99) {
		t.Fatalf("sign in payload: %+v", signInBody)
	}
	if signInBody["ClientSWVersion"] == nil {
		t.Fatal("sign in payload missing ClientSWVersion")
	}

	devs, err := api.Thermostats(ctx, sessionID)
	if err != nil {
		t.Fatal(err)
	}
	if len(devs) != 1 {
		t.Fatalf("got %d thermostats", len(devs))
	}
	therm := devs[0]
	if therm.SerialNumber != "123456" || therm.Name != "Bathroom Floor" {
		t.Fatalf("got %+v", therm)
	}
	if therm.GroupID != 7 || therm.GroupName != "Bathroom" {
		t.Fatalf("group not carried: %+v", therm)
	}
	if !therm.Online || !therm.Heating {
		t.Fatalf("got %+v", therm)
	}
	// SensorAppl 3 means room+floor, both sensors present
	if therm.RoomTemperature == nil || *therm.RoomTemperature != 2150 {
		t.Fatalf("room temperature: %v", therm.RoomTemperature)
	}
	if therm.FloorTemperature == nil || *therm.FloorTemperature != 2450 {
		t.Fatalf("floor temperature: %v", therm.FloorTemperature)
	}
	if therm.RegulationMode != ModeComfort {
		t.Fatalf("got mode %v", therm.RegulationMode)
	}
	if therm.TargetTemperature() != 2300 {
		t.Fatalf("got target %v", therm.TargetTemperature())
	}
	if therm.ComfortEndTime.IsZero() {
		t.Fatal("comfort end time not parsed")
	}
	if therm.AdaptiveMode == nil || !*therm.AdaptiveMode {
		t.Fatal("adaptive mode not carried")
	}

	err = api.Update(ctx, sessionID, therm, Update{Mode: ModeManual, Setpoint: 2200})
	if err != nil {
		t.Fatal(err)
	}
	if updateBody.APIKEY != "key-123" {
		t.Fatalf("update payload: %+v", updateBody)
	}
	if updateBody.SetGroup.GroupID != 7 || updateBody.SetGroup.RegulationMode != int(ModeManual) {
		t.Fatalf("update payload: %+v", updateBody.SetGroup)
	}
	if updateBody.SetGroup.ManualModeSetpoint != 2200 {
		t.Fatalf("update payload: %+v", updateBody.SetGroup)
	}
}

func TestWD5SignInInvalidCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"SessionId":"","ErrorCode":1}`)
	}))
	defer server.Close()

	api := NewWD5API(WD5Config{Endpoint: server.URL})
	if _, err := api.SignIn(context.Background()); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestWD5VendorErrorCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"ErrorCode":5}`)
	}))
	defer server.Close()

	api := NewWD5API(WD5Config{Endpoint: server.URL})
	_, err := api.Thermostats(context.Background(), "sess-1")
	var apiErr APIError
	if !errors.As(err, &apiErr) || apiErr.Code != 5 {
		t.Fatalf("expected APIError code 5, got %v", err)
	}
}

func TestWD5ExpiredSessionStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	api := NewWD5API(WD5Config{Endpoint: server.URL})
	if _, err := api.Thermostats(context.Background(), "stale"); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
}

func TestWD5HTTPStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer server.Close()

	api := NewWD5API(WD5Config{Endpoint: server.URL})
	_, err := api.Thermostats(context.Background(), "sess-1")
	var statusErr HTTPStatusError
	if !errors.As(err, &statusErr) || statusErr.Status != http.StatusBadGateway {
		t.Fatalf("expected HTTPStatusError 502, got %v", err)
	}
}

func TestWD5DefaultEndpoint(t *testing.T) {
	api := NewWD5API(WD5Config{})
	if api.cfg.Endpoint != DefaultWD5Endpoint {
		t.Fatalf("got %q", api.cfg.Endpoint)
	}
}
