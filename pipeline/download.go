package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/healthsheets/health-sheets/cronometer"
	"github.com/healthsheets/health-sheets/delta"
	"github.com/healthsheets/health-sheets/masterfile"
)

// Download fetches the Cronometer exports for the days after the latest date in the nutrition
// masterfile, for the Nutrition pipeline to merge. Since is the first day to download when the
// masterfile is empty.
type Download struct {
	Cronometer cronometer.Exporter
	Email      string
	Password   string
	Downloads  string
	Store      masterfile.Store
	Location   *time.Location
	Since      string
	Log        *log.Logger
	Debug      bool
}

func (p *Download) Run(ctx context.Context, now time.Time) (delta.Status, error) {
	if p.Email == "" || p.Password == "" {
		return delta.NoNewData, fmt.Errorf("missing Cronometer credentials")
	}

	table, err := p.Store.Load(ctx)
	if err != nil {
		return delta.NoNewData, fmt.Errorf("error loading nutrition masterfile (%w)", err)
	}

	dates := []string{}
	if !table.IsEmpty() {
		if dates, err = table.Column("Date"); err != nil {
			return delta.NoNewData, fmt.Errorf("invalid nutrition masterfile (%w)", err)
		}
	}

	loc := p.Location
	if loc == nil {
		loc = time.UTC
	}

	start, end, ok, err := cronometer.Window(delta.Watermark(dates), p.Since, cronometer.Today(now, loc))
	if err != nil {
		return delta.NoNewData, err
	} else if !ok {
		return delta.NoNewData, nil
	}

	if p.Debug {
		debugf(p.Log, "download: %v to %v", start.Format(time.DateOnly), end.Format(time.DateOnly))
	}

	if err := p.Cronometer.Login(ctx, p.Email, p.Password); err != nil {
		return delta.NoNewData, fmt.Errorf("failed to login to Cronometer (%w)", err)
	}

	files, err := cronometer.Export(ctx, p.Cronometer, p.Downloads, start, end)
	if err != nil {
		return delta.NoNewData, err
	}

	for _, f := range files {
		infof(p.Log, "download: saved %v", f)
	}

	return delta.Updated, nil
}
