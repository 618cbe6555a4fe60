package commands

import (
	"context"
	"flag"
)

var ActivitiesCmd = Activities{}

type Activities struct {
	command
	tokens string
}

func (cmd *Activities) Name() string {
	return "activities"
}

func (cmd *Activities) Description() string {
	return "Exports new Strava activities to the activities masterfile and worksheet"
}

func (cmd *Activities) Usage() string {
	return usage + " [--refresh-token <file>]"
}

func (cmd *Activities) FlagSet() *flag.FlagSet {
	flagset := cmd.flagset("activities")

	flagset.StringVar(&cmd.tokens, "refresh-token", cmd.tokens, "Strava refresh token file. Defaults to $PROJECT_PATH/config/refresh_token.txt")

	return flagset
}

func (cmd *Activities) Execute(ctx context.Context, options *Options) error {
	env, err := cmd.setup(ctx, options)
	if err != nil {
		return err
	}

	defer env.close()

	if cmd.tokens != "" {
		env.config.RefreshTokenFile = cmd.tokens
	}

	return env.activities(ctx)
}
