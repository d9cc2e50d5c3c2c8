package common

// Virtual key codes for cross-platform input handling.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyS   = 83  // S key (ASCII), starts animation
	KeyQ   = 81  // Q key (ASCII), quits
	KeyF   = 70  // F key (ASCII), stops animation
	KeyEsc = 256 // Escape key (GLFW), quits
)

// Mouse button codes, matching glfw.MouseButton values.
const (
	MouseButtonLeft   = 0
	MouseButtonRight  = 1
	MouseButtonMiddle = 2
)
