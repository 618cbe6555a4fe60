//go:build !linux && !darwin

package commands

const (
	BROWSER = "xdg-open"
)
