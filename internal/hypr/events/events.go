package events

import "strings"

type Name = string

// Hyprland socket2 events the orchestrator reacts to. Anything else coming
// down the wire is forwarded and ignored, which keeps us forward-compatible
// with new compositor releases.
const (
	Workspace    Name = "workspace"
	OpenWindow   Name = "openwindow"
	CloseWindow  Name = "closewindow"
	ResizeWindow Name = "resizewindow"
)

// Event is one parsed line of the socket2 protocol: `name>>arg1,arg2,...`.
type Event struct {
	Name Name
	Args []string
}

func (e Event) Arg(i int) string {
	if i < 0 || i >= len(e.Args) {
		return ""
	}
	return e.Args[i]
}

// Parse splits a raw socket2 line. Lines without the `>>` separator are
// malformed and reported as not ok; they must never kill the stream.
func Parse(line string) (Event, bool) {
	line = strings.TrimRight(line, "\n")

	name, rest, found := strings.Cut(line, ">>")
	if !found || name == "" {
		return Event{}, false
	}

	var args []string
	if rest != "" {
		args = strings.Split(rest, ",")
	}

	return Event{Name: name, Args: args}, true
}
