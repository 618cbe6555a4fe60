package commands

import (
	"context"
	"flag"
	"time"

	"github.com/healthsheets/health-sheets/cronometer"
)

var UpdateCmd = Update{}

// Update runs the nutrition pipeline and then the activities pipeline, optionally downloading the
// Cronometer exports first. The pipelines are independent but an error in any one fails the run.
type Update struct {
	command
	download bool
}

func (cmd *Update) Name() string {
	return "update"
}

func (cmd *Update) Description() string {
	return "Exports new Cronometer and Strava data to the masterfiles and the spreadsheet"
}

func (cmd *Update) Usage() string {
	return usage + " [--download]"
}

func (cmd *Update) FlagSet() *flag.FlagSet {
	flagset := cmd.flagset("update")

	flagset.BoolVar(&cmd.download, "download", cmd.download, "Downloads the Cronometer exports before updating")

	return flagset
}

func (cmd *Update) Execute(ctx context.Context, options *Options) error {
	env, err := cmd.setup(ctx, options)
	if err != nil {
		return err
	}

	defer env.close()

	if cmd.download {
		if err := env.download(ctx, cronometer.NewClient(), "", time.Now()); err != nil {
			return err
		}
	}

	if err := env.nutrition(ctx); err != nil {
		return err
	}

	return env.activities(ctx)
}
