package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/healthsheets/health-sheets/activities"
	"github.com/healthsheets/health-sheets/delta"
	"github.com/healthsheets/health-sheets/downloads"
	"github.com/healthsheets/health-sheets/gsheets"
	"github.com/healthsheets/health-sheets/masterfile"
	"github.com/healthsheets/health-sheets/metrics"
	"github.com/healthsheets/health-sheets/strava"
)

const RawActivities = "strava_activities.json"

// Activities merges the most recent Strava activities into the activities masterfile. The
// refresh token is exchanged (and the new refresh token stored) before anything else happens.
type Activities struct {
	Strava    strava.Config
	Tokens    strava.TokenStore
	Downloads string
	Store     masterfile.Store
	Sink      gsheets.Sink
	Metrics   *metrics.Metrics
	Log       *log.Logger
	Debug     bool
}

func (p *Activities) Run(ctx context.Context) (delta.Status, error) {
	token, err := strava.Refresh(ctx, p.Strava, p.Tokens)
	if err != nil {
		return delta.NoNewData, err
	}

	client := strava.NewClient(ctx, p.Strava, token)

	infof(p.Log, "activities: downloading Strava activities")

	raw, err := client.FetchActivities(ctx)
	if err != nil {
		return delta.NoNewData, fmt.Errorf("error retrieving Strava activities (%w)", err)
	}

	if p.Downloads != "" {
		if err := downloads.SaveRaw(p.Downloads, RawActivities, raw); err != nil {
			return delta.NoNewData, fmt.Errorf("error saving Strava activities (%w)", err)
		}
	}

	fetched, err := strava.DecodeActivities(raw)
	if err != nil {
		return delta.NoNewData, err
	}

	table, err := p.Store.Load(ctx)
	if err != nil {
		return delta.NoNewData, fmt.Errorf("error loading activities masterfile (%w)", err)
	}

	history, err := activities.FromTable(table)
	if err != nil {
		return delta.NoNewData, fmt.Errorf("invalid activities masterfile (%w)", err)
	}

	if p.Debug {
		debugf(p.Log, "activities: masterfile:%v rows  retrieved:%v activities", len(history), len(fetched))
	}

	merged, status, err := activities.Merge(ctx, history, fetched, client)
	if err != nil {
		return delta.NoNewData, err
	}

	if status == delta.Updated {
		updated := activities.ToTable(merged)

		if err := p.Sink.Publish(ctx, gsheets.Activities, updated); err != nil {
			return delta.NoNewData, fmt.Errorf("error publishing activities (%w)", err)
		}

		if err := p.Store.Save(ctx, updated); err != nil {
			return delta.NoNewData, fmt.Errorf("error saving activities masterfile (%w)", err)
		}

		infof(p.Log, "activities: added %v activities, %v activities in masterfile", len(merged)-len(history), len(merged))
	}

	p.Metrics.RecordRun("activities", time.Now(), status, len(merged)-len(history), len(merged))

	return status, nil
}
