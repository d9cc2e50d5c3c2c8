package input

// EventKind identifies what an Event reports.
type EventKind int

const (
	// EventQuit asks the frame loop to stop, e.g. when the window is closed.
	EventQuit EventKind = iota
	// EventKey is a key press or release. Key holds the key code.
	EventKey
	// EventScroll is a wheel movement. ScrollY is positive when scrolling up.
	EventScroll
	// EventMouseButton is a mouse button press or release. Button holds the button code.
	EventMouseButton
	// EventCursor is a cursor movement. X and Y hold the new position in framebuffer pixels.
	EventCursor
	// EventResize is a framebuffer size change. Width and Height hold the new size.
	EventResize
)

func (k EventKind) String() string {
	switch k {
	case EventQuit:
		return "quit"
	case EventKey:
		return "key"
	case EventScroll:
		return "scroll"
	case EventMouseButton:
		return "mouse_button"
	case EventCursor:
		return "cursor"
	case EventResize:
		return "resize"
	}
	return "unknown"
}

// Event is one input notification. Only the fields relevant to Kind are set.
type Event struct {
	Kind    EventKind
	Key     int
	Button  int
	Pressed bool
	ScrollY float64
	X, Y    float64
	Width   int
	Height  int
}

func Quit() Event {
	return Event{Kind: EventQuit}
}

func Key(key int, pressed bool) Event {
	return Event{Kind: EventKey, Key: key, Pressed: pressed}
}

func Scroll(dy float64) Event {
	return Event{Kind: EventScroll, ScrollY: dy}
}

func MouseButton(button int, pressed bool) Event {
	return Event{Kind: EventMouseButton, Button: button, Pressed: pressed}
}

func Cursor(x, y float64) Event {
	return Event{Kind: EventCursor, X: x, Y: y}
}

func Resize(width, height int) Event {
	return Event{Kind: EventResize, Width: width, Height: height}
}
