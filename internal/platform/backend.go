package platform

import (
	"context"
	"fmt"
)

// Rect describes a window frame as position plus size.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Bounds describes a window rectangle by its top-left and bottom-right corners.
// This is the convention of Chrome's scriptable "bounds" property.
type Bounds struct {
	Left   int
	Top    int
	Right  int
	Bottom int
}

// Rect converts corner bounds into a position/size frame.
func (b Bounds) Rect() Rect {
	return Rect{
		X:      b.Left,
		Y:      b.Top,
		Width:  b.Right - b.Left,
		Height: b.Bottom - b.Top,
	}
}

func (b Bounds) String() string {
	return fmt.Sprintf("{%d, %d, %d, %d}", b.Left, b.Top, b.Right, b.Bottom)
}

// Bounds converts a position/size frame into corner bounds.
func (r Rect) Bounds() Bounds {
	return Bounds{
		Left:   r.X,
		Top:    r.Y,
		Right:  r.X + r.Width,
		Bottom: r.Y + r.Height,
	}
}

func (r Rect) String() string {
	return fmt.Sprintf("position {%d, %d} size {%d, %d}", r.X, r.Y, r.Width, r.Height)
}

// Window contains the title and geometry of a browser window.
type Window struct {
	Index  int
	Title  string
	Bounds Bounds
}

// BatchSlot is one browser slot handled by the batch strategy, in order.
type BatchSlot struct {
	Bounds     Bounds
	TitleLabel string
}

// Backend abstracts the window automation calls used by the repositioner.
type Backend interface {
	// RepositionMatching moves every browser window whose title matches a
	// marker into the slot with the same ordinal and returns the count handled.
	RepositionMatching(ctx context.Context, slots []BatchSlot) (int, Result)
	// MoveByTabURL moves the window owning the first tab whose URL contains urlFragment.
	MoveByTabURL(ctx context.Context, urlFragment string, bounds Bounds) Result
	// MoveByTitle moves the first browser process window whose title matches a marker.
	MoveByTitle(ctx context.Context, bounds Bounds) Result
	// SetFrameByPID sets position and size of window 1 of the process with the given pid.
	SetFrameByPID(ctx context.Context, pid int, frame Rect) Result
	// SetFrameByProcess sets position and size of window 1 of the named process.
	SetFrameByProcess(ctx context.Context, process string, frame Rect) Result
	// ListWindows returns every browser window with its current bounds.
	ListWindows(ctx context.Context) ([]Window, error)
}
