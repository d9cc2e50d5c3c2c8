package input

import (
	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/camera"
	"github.com/go-gl/mathgl/mgl32"
)

// Handler applies input events to the frame loop state and the camera controller.
//
// Keys: q and Escape quit, s starts the animation, f stops it. Scrolling up zooms in and scrolling
// down zooms out. Dragging with the left button pans the camera focus and dragging with the right
// button orbits it, both scaled by the inverse framebuffer size. The first cursor event of a drag only
// records the anchor, and the anchor is cleared whenever no drag button is held, so a new drag never
// starts from a stale position.
type Handler struct {
	controller camera.CameraController
	width      int
	height     int

	running   bool
	animating bool

	left, right bool
	anchor      *mgl32.Vec2

	onResize func(width, height int)
}

// NewHandler creates a Handler in the running, non-animating state.
//
// Parameters:
//   - controller: the camera controller to drive
//   - width: the framebuffer width used to normalise cursor motion
//   - height: the framebuffer height used to normalise cursor motion
//
// Returns:
//   - *Handler: the handler
func NewHandler(controller camera.CameraController, width, height int) *Handler {
	return &Handler{
		controller: controller,
		width:      max(width, 1),
		height:     max(height, 1),
		running:    true,
	}
}

// SetResizeCallback registers a function called for every EventResize after the handler has
// updated its own window size.
func (h *Handler) SetResizeCallback(fn func(width, height int)) {
	h.onResize = fn
}

// Running reports whether no quit event has been handled.
func (h *Handler) Running() bool {
	return h.running
}

// Animating reports whether animation is toggled on.
func (h *Handler) Animating() bool {
	return h.animating
}

// Dragging reports whether a drag anchor is set.
func (h *Handler) Dragging() bool {
	return h.anchor != nil
}

// Handle applies one event.
func (h *Handler) Handle(e Event) {
	switch e.Kind {
	case EventQuit:
		h.running = false
	case EventKey:
		if e.Pressed {
			h.handleKey(e.Key)
		}
	case EventScroll:
		switch {
		case e.ScrollY > 0:
			h.controller.ZoomIn()
		case e.ScrollY < 0:
			h.controller.ZoomOut()
		}
	case EventMouseButton:
		h.handleButton(e.Button, e.Pressed)
	case EventCursor:
		h.handleCursor(mgl32.Vec2{float32(e.X), float32(e.Y)})
	case EventResize:
		if e.Width <= 0 || e.Height <= 0 {
			return
		}
		h.width, h.height = e.Width, e.Height
		if h.onResize != nil {
			h.onResize(e.Width, e.Height)
		}
	}
}

func (h *Handler) handleKey(key int) {
	switch key {
	case common.KeyQ, common.KeyEsc:
		h.running = false
	case common.KeyS:
		h.animating = true
	case common.KeyF:
		h.animating = false
	}
}

func (h *Handler) handleButton(button int, pressed bool) {
	switch button {
	case common.MouseButtonLeft:
		h.left = pressed
	case common.MouseButtonRight:
		h.right = pressed
	}
	if !h.left && !h.right {
		h.anchor = nil
	}
}

func (h *Handler) handleCursor(pos mgl32.Vec2) {
	if !h.left && !h.right {
		h.anchor = nil
		return
	}
	if h.anchor == nil {
		h.anchor = &pos
		return
	}
	d := pos.Sub(*h.anchor)
	*h.anchor = pos
	dx := d.X() / float32(h.width)
	dy := d.Y() / float32(h.height)
	if h.left {
		h.controller.Pan(dx, dy)
	} else {
		h.controller.Orbit(dx, dy)
	}
}
