package commands

import (
	"context"
	"flag"
	"time"

	"github.com/healthsheets/health-sheets/cronometer"
)

var DownloadCmd = Download{}

// Download fetches the Cronometer daily summary, servings and exercises exports for the days
// after the latest date in the nutrition masterfile.
type Download struct {
	command
	since string
}

func (cmd *Download) Name() string {
	return "download"
}

func (cmd *Download) Description() string {
	return "Downloads the Cronometer exports for the days missing from the nutrition masterfile"
}

func (cmd *Download) Usage() string {
	return "[--store <csv|sqlite>] [--downloads <dir>] [--since <yyyy-mm-dd>]"
}

func (cmd *Download) FlagSet() *flag.FlagSet {
	flagset := flag.NewFlagSet("download", flag.ExitOnError)

	flagset.StringVar(&cmd.store, "store", cmd.store, "Masterfile store ('csv' or 'sqlite'). Defaults to $HEALTH_STORE or 'csv'")
	flagset.StringVar(&cmd.downloads, "downloads", cmd.downloads, "Downloads directory. Defaults to $PROJECT_PATH/data/downloads")
	flagset.StringVar(&cmd.since, "since", cmd.since, "First day to download if the nutrition masterfile is empty")

	return flagset
}

func (cmd *Download) Execute(ctx context.Context, options *Options) error {
	cfg, err := cmd.configure(options)
	if err != nil {
		return err
	}

	env, err := cmd.open(cfg)
	if err != nil {
		return err
	}

	defer env.close()

	return env.download(ctx, cronometer.NewClient(), cmd.since, time.Now())
}
