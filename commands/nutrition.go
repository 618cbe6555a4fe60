package commands

import (
	"context"
	"flag"
)

var NutritionCmd = Nutrition{}

type Nutrition struct {
	command
}

func (cmd *Nutrition) Name() string {
	return "nutrition"
}

func (cmd *Nutrition) Description() string {
	return "Exports the latest Cronometer downloads to the nutrition masterfile and worksheet"
}

func (cmd *Nutrition) Usage() string {
	return usage
}

func (cmd *Nutrition) FlagSet() *flag.FlagSet {
	return cmd.flagset("nutrition")
}

func (cmd *Nutrition) Execute(ctx context.Context, options *Options) error {
	env, err := cmd.setup(ctx, options)
	if err != nil {
		return err
	}

	defer env.close()

	return env.nutrition(ctx)
}
