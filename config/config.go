// Package config centralises the environment configuration for health-sheets.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/healthsheets/health-sheets/cronometer"
	"github.com/healthsheets/health-sheets/strava"
)

// Config captures the file locations and credentials for a run. Paths default to the
// PROJECT_PATH layout:
//
//	config/credentials.json
//	config/refresh_token.txt
//	data/cronometer_nutrition.csv
//	data/strava_activities.csv
//	data/downloads/
type Config struct {
	DownloadsDir      string
	NutritionFile     string
	ActivitiesFile    string
	RefreshTokenFile  string
	GoogleCredentials string
	Spreadsheet       string
	Store             string // 'csv' or 'sqlite'
	SQLiteFile        string
	MetricsFile       string
	RedirectAddress   string
	Strava            strava.Config
	Cronometer        Cronometer
}

type Cronometer struct {
	Email    string
	Password string
	TimeZone string
}

// Load reads the optional .env file into the environment (without overriding variables that are
// already set) and then builds the configuration from the environment.
func Load(envfile string) (Config, error) {
	if envfile != "" {
		if err := godotenv.Load(envfile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
	}

	project := getEnv("PROJECT_PATH", ".")
	data := filepath.Join(project, "data")
	address := getEnv("STRAVA_REDIRECT_ADDRESS", "localhost:8085")

	cfg := Config{
		DownloadsDir:      getEnv("HEALTH_DOWNLOADS", filepath.Join(data, "downloads")),
		NutritionFile:     getEnv("HEALTH_NUTRITION_FILE", filepath.Join(data, "cronometer_nutrition.csv")),
		ActivitiesFile:    getEnv("HEALTH_ACTIVITIES_FILE", filepath.Join(data, "strava_activities.csv")),
		RefreshTokenFile:  getEnv("STRAVA_REFRESH_TOKEN_FILE", filepath.Join(project, "config", "refresh_token.txt")),
		GoogleCredentials: getEnv("GOOGLE_CREDENTIALS", filepath.Join(project, "config", "credentials.json")),
		Spreadsheet:       getEnv("GSHEET_ID", ""),
		Store:             getEnv("HEALTH_STORE", "csv"),
		SQLiteFile:        getEnv("HEALTH_SQLITE", filepath.Join(data, "health.db")),
		MetricsFile:       getEnv("HEALTH_METRICS_FILE", ""),
		RedirectAddress:   address,
		Strava: strava.Config{
			ClientID:     getEnv("STRAVA_CLIENT_ID", ""),
			ClientSecret: getEnv("STRAVA_CLIENT_SECRET", ""),
			AuthURL:      getEnv("STRAVA_AUTH_URL", strava.DefaultAuthURL),
			TokenURL:     getEnv("STRAVA_TOKEN_URL", strava.DefaultTokenURL),
			APIURL:       getEnv("STRAVA_API_URL", strava.DefaultAPIURL),
			RedirectURL:  "http://" + address + "/",
			PerPage:      getIntEnv("STRAVA_PER_PAGE", strava.DefaultPerPage),
		},
		Cronometer: Cronometer{
			Email:    getEnv("CRONOMETER_EMAIL", ""),
			Password: getEnv("CRONOMETER_PASSWORD", ""),
			TimeZone: getEnv("CRONOMETER_TIMEZONE", cronometer.TimeZone),
		},
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}
