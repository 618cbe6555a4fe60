package commands

const (
	BROWSER = "open"
)
