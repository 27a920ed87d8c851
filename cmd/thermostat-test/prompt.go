package main

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"
	"time"

	ojmicroline "github.com/smarmau/ojmicroline-thermostat-test"
)

func prompt(in *bufio.Reader, label string) string {
	fmt.Print(label)
	line, _ := in.ReadString('\n')
	return strings.TrimSpace(line)
}

// promptInt falls back on empty or unparseable input.
func promptInt(in *bufio.Reader, label string, fallback int) int {
	raw := prompt(in, label)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		fmt.Println("Invalid number, using", fallback)
		return fallback
	}
	return n
}

// promptTemperature returns fallback on empty input and reports
// ok=false only on unparseable input.
func promptTemperature(in *bufio.Reader, label string, fallback ojmicroline.Temperature) (ojmicroline.Temperature, bool) {
	raw := prompt(in, label)
	if raw == "" {
		return fallback, true
	}
	t, err := ojmicroline.ParseTemperature(raw)
	if err != nil {
		fmt.Println("Invalid input. Please enter a valid temperature.")
		return 0, false
	}
	return t, true
}

const dayLayout = "2006-01-02"

// promptDate reads a YYYY-MM-DD date. Empty input returns the zero
// time so callers can apply their own default.
func promptDate(in *bufio.Reader, label string) (time.Time, bool) {
	raw := prompt(in, label)
	if raw == "" {
		return time.Time{}, true
	}
	day, err := time.ParseInLocation(dayLayout, raw, time.Local)
	if err != nil {
		fmt.Println("Invalid date, expected YYYY-MM-DD.")
		return time.Time{}, false
	}
	return day, true
}
