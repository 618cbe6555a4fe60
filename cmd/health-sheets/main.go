package main

import (
	"context"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/healthsheets/health-sheets/commands"
)

var cli = []commands.Command{
	&commands.VersionCmd,
	&commands.UpdateCmd,
	&commands.DownloadCmd,
	&commands.NutritionCmd,
	&commands.ActivitiesCmd,
	&commands.AuthoriseCmd,
	&commands.GetCmd,
	&commands.PutCmd,
}

var options = commands.Options{
	Debug:   false,
	EnvFile: ".env",
}

func main() {
	root := &cobra.Command{
		Use:           commands.APP,
		Short:         "Exports Cronometer nutrition and Strava activity data to a Google Sheets spreadsheet",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().BoolVar(&options.Debug, "debug", options.Debug, "Enable debugging information")
	root.PersistentFlags().StringVar(&options.EnvFile, "env", options.EnvFile, "Environment file")

	for _, c := range cli {
		root.AddCommand(wrap(c))
	}

	if err := root.ExecuteContext(context.Background()); err != nil {
		log.Printf("ERROR: %v", err)
		os.Exit(1)
	}
}

// wrap adapts a command to cobra, reusing the command flag set so that the flags are bound to
// the command fields.
func wrap(c commands.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   strings.TrimSpace(c.Name() + " " + c.Usage()),
		Short: c.Description(),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.Execute(cmd.Context(), &options)
		},
	}

	cmd.Flags().AddGoFlagSet(c.FlagSet())

	return cmd
}
