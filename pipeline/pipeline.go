// Package pipeline runs the nutrition and activities updates: fetch the new data, merge it into
// the masterfile and, if anything was added, publish the masterfile to the spreadsheet and save it.
//
// The spreadsheet is updated before the masterfile is saved so that a failed update leaves the
// masterfile unchanged and the next run retries the same delta.
package pipeline

import (
	"fmt"
	"io"
	"log"
	"os"
)

func logger(l *log.Logger) *log.Logger {
	if l == nil {
		return log.Default()
	}

	return l
}

func debugf(l *log.Logger, format string, args ...any) {
	logger(l).Printf("%-5s %s", "DEBUG", fmt.Sprintf(format, args...))
}

func infof(l *log.Logger, format string, args ...any) {
	logger(l).Printf("%-5s %s", "INFO", fmt.Sprintf(format, args...))
}

func parse[T any](file string, f func(io.Reader) ([]T, error)) ([]T, error) {
	r, err := os.Open(file)
	if err != nil {
		return nil, err
	}

	defer r.Close()

	list, err := f(r)
	if err != nil {
		return nil, fmt.Errorf("invalid file %v (%w)", file, err)
	}

	return list, nil
}
