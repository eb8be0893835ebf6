package main

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGetForecast(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/points/"):
			if got := r.Header.Get("User-Agent"); got != "siteweekly-test" {
				t.Errorf("user agent = %q", got)
			}
			fmt.Fprintf(w, `{"properties": {"forecast": %q}}`, srv.URL+"/gridpoints/LOX/forecast")
		case strings.HasPrefix(r.URL.Path, "/gridpoints/"):
			fmt.Fprint(w, `{"properties": {"periods": [
				{"name": "Tuesday", "startTime": "2026-02-10T06:00:00-08:00", "temperature": 58,
				 "shortForecast": "Rain Showers", "detailedForecast": "Rain likely.",
				 "probabilityOfPrecipitation": {"value": 70}},
				{"name": "Tuesday Night", "startTime": "2026-02-10T18:00:00-08:00", "temperature": 48,
				 "shortForecast": "Mostly Cloudy", "detailedForecast": "",
				 "probabilityOfPrecipitation": {"value": null}}
			]}}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	old := weatherBaseURL
	weatherBaseURL = srv.URL
	defer func() { weatherBaseURL = old }()

	periods, err := GetForecast(33.9249, -118.3398, "siteweekly-test")
	if err != nil {
		t.Fatalf("GetForecast: %v", err)
	}
	if len(periods) != 2 {
		t.Fatalf("expected 2 periods, got %d", len(periods))
	}
	if periods[0].Name != "Tuesday" || periods[0].PrecipPct != 70 {
		t.Fatalf("first period = %+v", periods[0])
	}
	// A null precipitation value decodes as 0.
	if periods[1].PrecipPct != 0 {
		t.Fatalf("null precip = %d", periods[1].PrecipPct)
	}
}

func TestGetForecastErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	old := weatherBaseURL
	weatherBaseURL = srv.URL
	defer func() { weatherBaseURL = old }()

	if _, err := GetForecast(33.9249, -118.3398, "siteweekly-test"); err == nil {
		t.Fatal("expected error for 503 response")
	}
}

func TestCheckWeatherConflicts(t *testing.T) {
	forecast := []ForecastPeriod{
		{Name: "Monday", Short: "Sunny", PrecipPct: 0},
		{Name: "Monday Night", Short: "Rain Showers", PrecipPct: 80}, // night periods don't count
		{Name: "Tuesday", Short: "Rain Showers", PrecipPct: 70},
	}

	got := CheckWeatherConflicts(forecast, []string{"SOG concrete pour Grid 11-15", "Paint interior walls"}, nil)
	if !strings.HasPrefix(got, "WEATHER FORECAST CONFLICT:") {
		t.Fatalf("expected conflict, got %q", got)
	}
	if !strings.Contains(got, "Tuesday (70% chance, Rain Showers)") {
		t.Fatalf("missing rain day: %q", got)
	}
	if strings.Contains(got, "Monday Night") {
		t.Fatalf("night period counted: %q", got)
	}
	if !strings.Contains(got, "SOG concrete pour Grid 11-15") {
		t.Fatalf("missing sensitive work: %q", got)
	}
	if strings.Contains(got, "Paint interior walls") {
		t.Fatalf("non-sensitive work listed: %q", got)
	}
}

func TestCheckWeatherConflictsNone(t *testing.T) {
	dry := []ForecastPeriod{{Name: "Tuesday", Short: "Sunny", PrecipPct: 5}}
	if got := CheckWeatherConflicts(dry, []string{"Concrete pour"}, nil); got != "" {
		t.Fatalf("expected no conflict on a dry week, got %q", got)
	}

	wet := []ForecastPeriod{{Name: "Tuesday", Short: "Rain", PrecipPct: 90}}
	if got := CheckWeatherConflicts(wet, []string{"Paint interior walls"}, nil); got != "" {
		t.Fatalf("expected no conflict without sensitive work, got %q", got)
	}
}

// A 40% chance without rain wording still flags.
func TestCheckWeatherConflictsPrecipThreshold(t *testing.T) {
	forecast := []ForecastPeriod{{Name: "Wednesday", Short: "Mostly Cloudy", PrecipPct: 40}}
	got := CheckWeatherConflicts(forecast, []string{"Footing excavation"}, nil)
	if got == "" {
		t.Fatal("expected conflict at 40% precipitation")
	}
}
