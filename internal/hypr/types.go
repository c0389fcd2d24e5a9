package hypr

// Subset of hyprctl's JSON output we consume. Field order follows hyprctl
// for sanity when diffing against `hyprctl clients -j`.

type WorkspaceRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Window struct {
	Address   string       `json:"address"`
	Mapped    bool         `json:"mapped"`
	Hidden    bool         `json:"hidden"`
	At        []int        `json:"at"`
	Size      []int        `json:"size"`
	Workspace WorkspaceRef `json:"workspace"`
	Floating  bool         `json:"floating"`
	Class     string       `json:"class"`
	Title     string       `json:"title"`
	Pid       int          `json:"pid"`
}

type Monitor struct {
	ID              int          `json:"id"`
	Name            string       `json:"name"`
	Width           int          `json:"width"`
	Height          int          `json:"height"`
	X               int          `json:"x"`
	Y               int          `json:"y"`
	ActiveWorkspace WorkspaceRef `json:"activeWorkspace"`
	Scale           float64      `json:"scale"`
	Focused         bool         `json:"focused"`
}

type Instance struct {
	InstanceSignature string `json:"instanceSignature"`
}

// Geometry accessors; hyprctl reports position and size as 2-element arrays.

func (w Window) X() int {
	if len(w.At) < 2 {
		return 0
	}
	return w.At[0]
}

func (w Window) Y() int {
	if len(w.At) < 2 {
		return 0
	}
	return w.At[1]
}

func (w Window) Width() int {
	if len(w.Size) < 2 {
		return 0
	}
	return w.Size[0]
}

func (w Window) Height() int {
	if len(w.Size) < 2 {
		return 0
	}
	return w.Size[1]
}

func (w Window) HasGeometry() bool {
	return len(w.At) >= 2 && len(w.Size) >= 2 && w.Size[0] > 0 && w.Size[1] > 0
}
