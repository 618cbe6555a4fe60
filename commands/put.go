package commands

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/healthsheets/health-sheets/masterfile"
)

var PutCmd = Put{}

// Put republishes a CSV masterfile to a worksheet without merging any new data.
type Put struct {
	command
	slot int
	file string
}

func (cmd *Put) Name() string {
	return "put"
}

func (cmd *Put) Description() string {
	return "Uploads a CSV masterfile to a worksheet, replacing the worksheet contents"
}

func (cmd *Put) Usage() string {
	return "--worksheet <0|1> --file <file> " + usage
}

func (cmd *Put) FlagSet() *flag.FlagSet {
	flagset := cmd.flagset("put")

	flagset.IntVar(&cmd.slot, "worksheet", cmd.slot, "Worksheet (0: nutrition, 1: activities)")
	flagset.StringVar(&cmd.file, "file", cmd.file, "CSV masterfile")

	return flagset
}

func (cmd *Put) Execute(ctx context.Context, options *Options) error {
	if err := slot(cmd.slot); err != nil {
		return err
	}

	if strings.TrimSpace(cmd.file) == "" {
		return fmt.Errorf("--file is a required option")
	}

	env, err := cmd.setup(ctx, options)
	if err != nil {
		return err
	}

	defer env.close()

	table, err := masterfile.NewCSVStore(cmd.file).Load(ctx)
	if err != nil {
		return err
	} else if table.IsEmpty() {
		return fmt.Errorf("%v is missing or empty", cmd.file)
	}

	if err := env.sink.Publish(ctx, cmd.slot, table); err != nil {
		return err
	}

	infof("Uploaded CSV file %v to worksheet %v", cmd.file, cmd.slot)

	return nil
}
