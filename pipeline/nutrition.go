package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/healthsheets/health-sheets/cronometer"
	"github.com/healthsheets/health-sheets/delta"
	"github.com/healthsheets/health-sheets/downloads"
	"github.com/healthsheets/health-sheets/gsheets"
	"github.com/healthsheets/health-sheets/masterfile"
	"github.com/healthsheets/health-sheets/metrics"
	"github.com/healthsheets/health-sheets/nutrition"
)

const (
	DailySummary = cronometer.DailySummary
	Exercises    = cronometer.Exercises
)

// Nutrition merges the latest Cronometer 'dailysummary' and 'exercises' exports from the
// downloads directory into the nutrition masterfile.
type Nutrition struct {
	Downloads string
	Store     masterfile.Store
	Sink      gsheets.Sink
	Metrics   *metrics.Metrics
	Log       *log.Logger
	Debug     bool
}

func (p *Nutrition) Run(ctx context.Context) (delta.Status, error) {
	table, err := p.Store.Load(ctx)
	if err != nil {
		return delta.NoNewData, fmt.Errorf("error loading nutrition masterfile (%w)", err)
	}

	history, err := nutrition.FromTable(table)
	if err != nil {
		return delta.NoNewData, fmt.Errorf("invalid nutrition masterfile (%w)", err)
	}

	summaryFile, err := downloads.Latest(p.Downloads, DailySummary)
	if err != nil {
		return delta.NoNewData, err
	}

	exerciseFile, err := downloads.Latest(p.Downloads, Exercises)
	if err != nil {
		return delta.NoNewData, err
	}

	if p.Debug {
		debugf(p.Log, "nutrition: masterfile:%v rows  summary:%v  exercises:%v", len(history), summaryFile, exerciseFile)
	}

	summaries, err := parse(summaryFile, nutrition.ParseSummaries)
	if err != nil {
		return delta.NoNewData, err
	}

	exercises, err := parse(exerciseFile, nutrition.ParseExercises)
	if err != nil {
		return delta.NoNewData, err
	}

	merged, status := nutrition.Merge(history, summaries, exercises)
	if status == delta.Updated {
		updated := nutrition.ToTable(merged)

		if err := p.Sink.Publish(ctx, gsheets.Nutrition, updated); err != nil {
			return delta.NoNewData, fmt.Errorf("error publishing nutrition data (%w)", err)
		}

		if err := p.Store.Save(ctx, updated); err != nil {
			return delta.NoNewData, fmt.Errorf("error saving nutrition masterfile (%w)", err)
		}

		infof(p.Log, "nutrition: added %v days, %v days in masterfile", len(merged)-len(history), len(merged))
	}

	p.Metrics.RecordRun("nutrition", time.Now(), status, len(merged)-len(history), len(merged))

	return status, nil
}
