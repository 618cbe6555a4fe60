package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/healthsheets/health-sheets/masterfile"
)

type fakeSink struct {
	published map[int]*masterfile.Table
	err       error
}

func (s *fakeSink) Publish(ctx context.Context, slot int, table *masterfile.Table) error {
	if s.err != nil {
		return s.err
	}

	if s.published == nil {
		s.published = map[int]*masterfile.Table{}
	}

	s.published[slot] = table

	return nil
}

type testWriter struct {
	t *testing.T
}

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(bytes.TrimSpace(p)))
	return len(p), nil
}

func testLogger(t *testing.T) *log.Logger {
	return log.New(testWriter{t}, "", 0)
}

func write(t *testing.T, dir, file, content string) {
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, file), []byte(content), 0644))
}

var errSink = fmt.Errorf("503 Service Unavailable")
