package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// weatherBaseURL is a variable so tests can point at a local server.
var weatherBaseURL = "https://api.weather.gov"

// defaultWeatherKeywords marks planned work that rain can stop.
var defaultWeatherKeywords = []string{
	"concrete", "pour", "sog", "slab", "footing",
	"earthwork", "compaction", "grading", "excavat",
	"trench", "backfill", "paving", "asphalt",
	"waterproof", "roofing", "membrane",
}

// ForecastPeriod is one simplified period of the weather.gov forecast.
type ForecastPeriod struct {
	Name        string
	Start       string
	Temperature int
	Short       string
	PrecipPct   int
	Detailed    string
}

type pointsResponse struct {
	Properties struct {
		Forecast string `json:"forecast"`
	} `json:"properties"`
}

type forecastResponse struct {
	Properties struct {
		Periods []struct {
			Name                       string `json:"name"`
			StartTime                  string `json:"startTime"`
			Temperature                int    `json:"temperature"`
			ShortForecast              string `json:"shortForecast"`
			DetailedForecast           string `json:"detailedForecast"`
			ProbabilityOfPrecipitation struct {
				Value *int `json:"value"`
			} `json:"probabilityOfPrecipitation"`
		} `json:"periods"`
	} `json:"properties"`
}

// GetForecast fetches the 7-day forecast for a point. weather.gov requires
// two requests: the point lookup returns the forecast URL.
func GetForecast(lat, lon float64, userAgent string) ([]ForecastPeriod, error) {
	var points pointsResponse
	pointsURL := fmt.Sprintf("%s/points/%.4f,%.4f", weatherBaseURL, lat, lon)
	if err := weatherGet(pointsURL, userAgent, &points); err != nil {
		return nil, fmt.Errorf("weather points lookup: %w", err)
	}
	if points.Properties.Forecast == "" {
		return nil, fmt.Errorf("weather points lookup: no forecast URL for %.4f,%.4f", lat, lon)
	}

	var forecast forecastResponse
	if err := weatherGet(points.Properties.Forecast, userAgent, &forecast); err != nil {
		return nil, fmt.Errorf("weather forecast fetch: %w", err)
	}

	periods := make([]ForecastPeriod, 0, len(forecast.Properties.Periods))
	for _, p := range forecast.Properties.Periods {
		precip := 0
		if p.ProbabilityOfPrecipitation.Value != nil {
			precip = *p.ProbabilityOfPrecipitation.Value
		}
		periods = append(periods, ForecastPeriod{
			Name:        p.Name,
			Start:       p.StartTime,
			Temperature: p.Temperature,
			Short:       p.ShortForecast,
			PrecipPct:   precip,
			Detailed:    p.DetailedForecast,
		})
	}
	return periods, nil
}

func weatherGet(url, userAgent string, out any) error {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return err
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}
	resp, err := externalHTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("GET %s: status %d: %s", url, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// CheckWeatherConflicts reports a conflict when rain is forecast for a
// daytime period and weather-sensitive work is planned. Empty means no
// conflict.
func CheckWeatherConflicts(forecast []ForecastPeriod, planned []string, sensitiveKeywords []string) string {
	if len(sensitiveKeywords) == 0 {
		sensitiveKeywords = defaultWeatherKeywords
	}

	var sensitiveWork []string
	for _, act := range planned {
		lower := strings.ToLower(act)
		for _, kw := range sensitiveKeywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				sensitiveWork = append(sensitiveWork, act)
				break
			}
		}
	}
	if len(sensitiveWork) == 0 {
		return ""
	}

	var rainDays []string
	for _, period := range forecast {
		if strings.Contains(strings.ToLower(period.Name), "night") {
			continue
		}
		short := strings.ToLower(period.Short)
		rainy := period.PrecipPct >= 40
		for _, w := range []string{"rain", "shower", "storm", "thunder"} {
			if strings.Contains(short, w) {
				rainy = true
				break
			}
		}
		if rainy {
			rainDays = append(rainDays, fmt.Sprintf("%s (%d%% chance, %s)", period.Name, period.PrecipPct, period.Short))
		}
	}
	if len(rainDays) == 0 {
		return ""
	}

	return fmt.Sprintf(
		"WEATHER FORECAST CONFLICT:\nRain in forecast: %s\nWeather-sensitive work planned: %s",
		strings.Join(rainDays, "; "), strings.Join(sensitiveWork, "; "))
}
