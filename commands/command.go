package commands

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/healthsheets/health-sheets/config"
	"github.com/healthsheets/health-sheets/cronometer"
	"github.com/healthsheets/health-sheets/delta"
	"github.com/healthsheets/health-sheets/gsheets"
	"github.com/healthsheets/health-sheets/masterfile"
	"github.com/healthsheets/health-sheets/metrics"
	"github.com/healthsheets/health-sheets/pipeline"
	"github.com/healthsheets/health-sheets/strava"
)

const APP = "health-sheets"

type Options struct {
	Debug   bool
	EnvFile string
}

type Command interface {
	Name() string
	Description() string
	Usage() string
	FlagSet() *flag.FlagSet
	Execute(ctx context.Context, options *Options) error
}

// command holds the options shared by the commands that access the spreadsheet and masterfiles.
// Options left blank fall back to the environment configuration.
type command struct {
	credentials string
	spreadsheet string
	store       string
	downloads   string
	debug       bool
}

// usage describes the options registered by flagset.
const usage = "[--credentials <file>] [--spreadsheet <URL>] [--store <csv|sqlite>] [--downloads <dir>]"

func (c *command) flagset(name string) *flag.FlagSet {
	flagset := flag.NewFlagSet(name, flag.ExitOnError)

	flagset.StringVar(&c.credentials, "credentials", c.credentials, "Path for the Google 'credentials.json' file. Defaults to $PROJECT_PATH/config/credentials.json")
	flagset.StringVar(&c.spreadsheet, "spreadsheet", c.spreadsheet, "Spreadsheet ID or URL. Defaults to $GSHEET_ID")
	flagset.StringVar(&c.store, "store", c.store, "Masterfile store ('csv' or 'sqlite'). Defaults to $HEALTH_STORE or 'csv'")
	flagset.StringVar(&c.downloads, "downloads", c.downloads, "Downloads directory. Defaults to $PROJECT_PATH/data/downloads")

	return flagset
}

type spreadsheet interface {
	gsheets.Sink
	Fetch(ctx context.Context, slot int) (*masterfile.Table, error)
}

// environment is the per-run state shared by the pipelines.
type environment struct {
	config  config.Config
	sink    spreadsheet
	metrics *metrics.Metrics
	log     *log.Logger
	debug   bool
	db      *sql.DB
}

// configure loads the configuration and applies the command line overrides.
func (c *command) configure(options *Options) (config.Config, error) {
	c.debug = options.Debug

	cfg, err := config.Load(options.EnvFile)
	if err != nil {
		return config.Config{}, fmt.Errorf("could not load configuration (%v)", err)
	}

	if strings.TrimSpace(c.credentials) != "" {
		cfg.GoogleCredentials = c.credentials
	}

	if strings.TrimSpace(c.spreadsheet) != "" {
		cfg.Spreadsheet = c.spreadsheet
	}

	if strings.TrimSpace(c.store) != "" {
		cfg.Store = c.store
	}

	if strings.TrimSpace(c.downloads) != "" {
		cfg.DownloadsDir = c.downloads
	}

	if cfg.Store != "csv" && cfg.Store != "sqlite" {
		return config.Config{}, fmt.Errorf("invalid masterfile store '%v' - expected 'csv' or 'sqlite'", cfg.Store)
	}

	return cfg, nil
}

// open creates the per-run environment without a spreadsheet connection.
func (c *command) open(cfg config.Config) (*environment, error) {
	env := environment{
		config:  cfg,
		metrics: metrics.New(),
		log:     runLogger(),
		debug:   c.debug,
	}

	if cfg.Store == "sqlite" {
		db, err := masterfile.OpenSQLite(cfg.SQLiteFile)
		if err != nil {
			return nil, err
		}

		env.db = db
	}

	return &env, nil
}

func (c *command) setup(ctx context.Context, options *Options) (*environment, error) {
	cfg, err := c.configure(options)
	if err != nil {
		return nil, err
	}

	spreadsheet, err := gsheets.SpreadsheetID(cfg.Spreadsheet)
	if err != nil {
		return nil, fmt.Errorf("invalid spreadsheet (%v)", err)
	}

	if c.debug {
		debugf("Spreadsheet - ID:%s  store:%s  downloads:%s", spreadsheet, cfg.Store, cfg.DownloadsDir)
	}

	sink, err := gsheets.Connect(ctx, cfg.GoogleCredentials, spreadsheet)
	if err != nil {
		return nil, fmt.Errorf("Google Sheets authentication/authorization error (%w)", err)
	}

	env, err := c.open(cfg)
	if err != nil {
		return nil, err
	}

	env.sink = sink

	return env, nil
}

func (e *environment) close() {
	if e.db != nil {
		e.db.Close()
	}

	if err := e.metrics.Write(e.config.MetricsFile); err != nil {
		warnf("error writing metrics to %v (%v)", e.config.MetricsFile, err)
	}
}

func (e *environment) masterfile(name, file string) masterfile.Store {
	if e.db != nil {
		return masterfile.NewSQLiteStore(e.db, name)
	}

	return masterfile.NewCSVStore(file)
}

func (e *environment) nutrition(ctx context.Context) error {
	p := pipeline.Nutrition{
		Downloads: e.config.DownloadsDir,
		Store:     e.masterfile("nutrition", e.config.NutritionFile),
		Sink:      e.sink,
		Metrics:   e.metrics,
		Log:       e.log,
		Debug:     e.debug,
	}

	status, err := p.Run(ctx)
	if err != nil {
		return err
	}

	if status == delta.Updated {
		fmt.Println("Exported Cronometer data.")
	} else {
		fmt.Println("No new Cronometer data available.")
	}

	return nil
}

func (e *environment) activities(ctx context.Context) error {
	p := pipeline.Activities{
		Strava:    e.config.Strava,
		Tokens:    strava.NewFileTokenStore(e.config.RefreshTokenFile),
		Downloads: e.config.DownloadsDir,
		Store:     e.masterfile("activities", e.config.ActivitiesFile),
		Sink:      e.sink,
		Metrics:   e.metrics,
		Log:       e.log,
		Debug:     e.debug,
	}

	status, err := p.Run(ctx)
	if err != nil {
		return err
	}

	if status == delta.Updated {
		fmt.Println("Exported Strava data.")
	} else {
		fmt.Println("No new Strava data available.")
	}

	return nil
}

func (e *environment) download(ctx context.Context, exporter cronometer.Exporter, since string, now time.Time) error {
	loc, err := time.LoadLocation(e.config.Cronometer.TimeZone)
	if err != nil {
		return fmt.Errorf("invalid time zone '%v' (%w)", e.config.Cronometer.TimeZone, err)
	}

	p := pipeline.Download{
		Cronometer: exporter,
		Email:      e.config.Cronometer.Email,
		Password:   e.config.Cronometer.Password,
		Downloads:  e.config.DownloadsDir,
		Store:      e.masterfile("nutrition", e.config.NutritionFile),
		Location:   loc,
		Since:      since,
		Log:        e.log,
		Debug:      e.debug,
	}

	status, err := p.Run(ctx, now)
	if err != nil {
		return err
	}

	if status == delta.Updated {
		fmt.Println("Downloaded Cronometer data.")
	} else {
		fmt.Println("Data is already up-to-date.")
	}

	return nil
}

// runLogger tags the log lines for a run with a short run ID so that interleaved cron
// output can be separated.
func runLogger() *log.Logger {
	id := uuid.NewString()[:8]

	return log.New(os.Stderr, fmt.Sprintf("%s  ", id), log.LstdFlags)
}

func slot(v int) error {
	switch v {
	case gsheets.Nutrition, gsheets.Activities:
		return nil

	case gsheets.Servings:
		return fmt.Errorf("worksheet %v is reserved", v)

	default:
		return fmt.Errorf("invalid worksheet %v - expected %v (nutrition) or %v (activities)", v, gsheets.Nutrition, gsheets.Activities)
	}
}

func debugf(format string, args ...any) {
	log.Printf("%-5s %s", "DEBUG", fmt.Sprintf(format, args...))
}

func infof(format string, args ...any) {
	log.Printf("%-5s %s", "INFO", fmt.Sprintf(format, args...))
}

func warnf(format string, args ...any) {
	log.Printf("%-5s %s", "WARN", fmt.Sprintf(format, args...))
}
