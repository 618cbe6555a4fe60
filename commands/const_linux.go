package commands

const (
	BROWSER = "xdg-open"
)
