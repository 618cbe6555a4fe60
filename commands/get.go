package commands

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/healthsheets/health-sheets/masterfile"
)

var GetCmd = Get{
	file: time.Now().Format("2006-01-02T150405.csv"),
}

// Get downloads a worksheet to a CSV masterfile, e.g. to rebuild a lost masterfile.
type Get struct {
	command
	slot int
	file string
}

func (cmd *Get) Name() string {
	return "get"
}

func (cmd *Get) Description() string {
	return "Downloads a worksheet from the spreadsheet to a CSV masterfile"
}

func (cmd *Get) Usage() string {
	return "--worksheet <0|1> --file <file> " + usage
}

func (cmd *Get) FlagSet() *flag.FlagSet {
	flagset := cmd.flagset("get")

	flagset.IntVar(&cmd.slot, "worksheet", cmd.slot, "Worksheet (0: nutrition, 1: activities)")
	flagset.StringVar(&cmd.file, "file", cmd.file, "CSV file name. Defaults to '<yyyy-mm-ddTHHmmss>.csv'")

	return flagset
}

func (cmd *Get) Execute(ctx context.Context, options *Options) error {
	if err := slot(cmd.slot); err != nil {
		return err
	}

	if cmd.file == "" {
		return fmt.Errorf("--file is a required option")
	}

	env, err := cmd.setup(ctx, options)
	if err != nil {
		return err
	}

	defer env.close()

	table, err := env.sink.Fetch(ctx, cmd.slot)
	if err != nil {
		return err
	}

	if err := masterfile.NewCSVStore(cmd.file).Save(ctx, table); err != nil {
		return err
	}

	infof("Retrieved worksheet %v (%v rows) to file %s", cmd.slot, len(table.Records), cmd.file)

	return nil
}
