package engine

import (
	"errors"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-gl/engine/input"
	"github.com/Carmen-Shannon/oxy-gl/engine/profiler"
	"github.com/Carmen-Shannon/oxy-gl/engine/scene"
	"github.com/Carmen-Shannon/oxy-gl/engine/window"
	"go.uber.org/zap"
)

// ErrNotConfigured is returned by Run when the engine has no window or no scene to draw.
var ErrNotConfigured = errors.New("engine not configured")

// DefaultInputQueueSize is the number of input events buffered between two frames.
const DefaultInputQueueSize = 256

// engine implements the Engine interface.
// The frame loop runs on the thread that owns the window's graphics context.
type engine struct {
	window window.Window
	scene  scene.Scene
	logger *zap.Logger

	queue     *input.Queue
	queueSize int
	handler   *input.Handler

	profiler         *profiler.Profiler
	profilingEnabled bool

	renderCallback   func(deltaTime float32)
	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	now       func() time.Time
	sleep     func(time.Duration)
	lastFrame time.Time
	frames    uint64

	err    error
	closed bool
}

// Engine is the main entry point for the renderer.
// It owns the frame loop: input handling, scene drawing, buffer swaps and frame limiting.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Scene returns the scene drawn each frame.
	//
	// Returns:
	//   - scene.Scene: the scene, nil if none is set
	Scene() scene.Scene

	// SetScene replaces the scene drawn each frame and rebinds input handling to its camera.
	// The previous scene is not released.
	//
	// Parameters:
	//   - s: the scene
	SetScene(s scene.Scene)

	// Handler returns the input handler bound to the scene's camera controller.
	//
	// Returns:
	//   - *input.Handler: the handler, nil until a scene with a camera controller is set
	Handler() *input.Handler

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetRenderCallback registers the function called after each frame is presented.
	//
	// Parameters:
	//   - callback: function to call each frame, receiving the delta time in seconds
	SetRenderCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit sets the frame rate cap in frames per second.
	// Pass 0 to uncap the loop.
	//
	// Parameters:
	//   - fps: maximum frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Frames returns the number of frames presented so far.
	//
	// Returns:
	//   - uint64: the frame count
	Frames() uint64

	// Run locks the calling goroutine to its OS thread and runs the frame loop until a quit event,
	// a call to Quit or a draw error. It must be called from the thread the window was created on.
	//
	// Returns:
	//   - error: the draw error that stopped the loop, or ErrNotConfigured
	Run() error

	// Quit stops the frame loop after the current frame.
	// Safe to call multiple times and from any goroutine.
	Quit()

	// Close releases the scene's GPU resources and closes the window. Calling it again does nothing.
	//
	// Returns:
	//   - error: an error if the window fails to close
	Close() error
}

var _ Engine = &engine{}

// NewEngine creates a new Engine instance with the provided options.
// Window callbacks are bound to the engine's input queue; they only enqueue events, which the frame
// loop applies at the start of the next frame.
//
// Parameters:
//   - options: functional options for engine configuration (window, scene, profiling, frame limit)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		logger:      zap.NewNop(),
		queueSize:   DefaultInputQueueSize,
		quitChannel: make(chan struct{}),
		now:         time.Now,
		sleep:       time.Sleep,
	}

	for _, opt := range options {
		opt(e)
	}

	e.queue = input.NewQueue(e.queueSize)
	if e.profiler == nil {
		e.profiler = profiler.NewProfiler(profiler.WithLogger(e.logger))
	}
	if e.window != nil {
		e.bindWindow()
	}
	if e.scene != nil {
		e.SetScene(e.scene)
	}
	return e
}

// bindWindow routes every window callback into the input queue.
func (e *engine) bindWindow() {
	push := func(ev input.Event) {
		if !e.queue.Push(ev) {
			e.logger.Warn("input event dropped", zap.Stringer("kind", ev.Kind), zap.Int("dropped", e.queue.Dropped()))
		}
	}
	e.window.SetCloseCallback(func() { push(input.Quit()) })
	e.window.SetKeyCallback(func(keyCode int, pressed bool) { push(input.Key(keyCode, pressed)) })
	e.window.SetScrollCallback(func(delta float32) { push(input.Scroll(float64(delta))) })
	e.window.SetMouseButtonCallback(func(button int, pressed bool) { push(input.MouseButton(button, pressed)) })
	e.window.SetMouseMoveCallback(func(x, y float64) { push(input.Cursor(x, y)) })
	e.window.SetResizeCallback(func(width, height int) { push(input.Resize(width, height)) })
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Scene() scene.Scene {
	return e.scene
}

func (e *engine) SetScene(s scene.Scene) {
	e.scene = s
	e.handler = nil
	if s == nil {
		return
	}
	ctrl := s.Camera().Controller()
	if ctrl == nil {
		return
	}

	width, height := 1, 1
	if e.window != nil {
		width, height = e.window.Width(), e.window.Height()
	}
	e.handler = input.NewHandler(ctrl, width, height)
	e.handler.SetResizeCallback(func(width, height int) {
		s.Renderer().Resize(width, height)
		s.Camera().SetViewport(width, height)
		e.logger.Debug("viewport resized", zap.Int("width", width), zap.Int("height", height))
	})
}

func (e *engine) Handler() *input.Handler {
	return e.handler
}

func (e *engine) Frames() uint64 {
	return e.frames
}

func (e *engine) Run() error {
	if e.window == nil || e.scene == nil || e.handler == nil {
		return ErrNotConfigured
	}

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	e.lastFrame = e.now()
	e.window.SetUpdateCallback(e.update)
	e.logger.Info("engine running",
		zap.String("scene", e.scene.Name()),
		zap.Int("objects", e.scene.Count()),
		zap.Duration("frame_limit", e.renderFrameLimit),
	)
	e.window.ProcessMessages()
	e.window.SetUpdateCallback(nil)

	e.logger.Info("engine stopped", zap.Uint64("frames", e.frames), zap.Error(e.err))
	return e.err
}

// update is the window's per-iteration callback. It stops the window loop once quit is signalled
// or a frame fails.
func (e *engine) update() {
	select {
	case <-e.quitChannel:
		e.window.RequestClose()
		return
	default:
	}

	if err := e.frame(); err != nil {
		e.err = err
		e.logger.Error("frame failed", zap.Uint64("frame", e.frames), zap.Error(err))
		e.signalQuit()
	}
	if e.isQuitting() {
		e.window.RequestClose()
	}
}

// frame applies pending input, draws and presents one frame, then sleeps out the frame budget.
func (e *engine) frame() error {
	start := e.now()
	dt := float32(start.Sub(e.lastFrame).Seconds())
	e.lastFrame = start

	e.queue.Drain(e.handler.Handle)
	if !e.handler.Running() {
		e.signalQuit()
		return nil
	}

	if err := e.scene.DrawFrame(e.handler.Animating()); err != nil {
		return err
	}
	e.window.SwapBuffers()
	e.frames++

	if e.renderCallback != nil {
		e.renderCallback(dt)
	}
	if e.profilingEnabled && e.profiler != nil {
		e.profiler.Tick()
	}

	// Frame rate limiting
	if e.renderFrameLimit > 0 {
		if remaining := e.renderFrameLimit - e.now().Sub(start); remaining > 0 {
			e.sleep(remaining)
		}
	}
	return nil
}

// Quit signals the frame loop to stop.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel to signal the loop to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}

func (e *engine) isQuitting() bool {
	select {
	case <-e.quitChannel:
		return true
	default:
		return false
	}
}

func (e *engine) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	e.signalQuit()

	if e.scene != nil {
		e.scene.Release()
	}
	if e.window != nil {
		return e.window.Close()
	}
	return nil
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

// SetRenderCallback registers the function called each render frame.
func (e *engine) SetRenderCallback(callback func(deltaTime float32)) {
	e.renderCallback = callback
}

// SetRenderFrameLimit sets an optional render frame rate cap.
// Pass 0 to uncap the render loop.
func (e *engine) SetRenderFrameLimit(fps float64) {
	e.renderFrameLimit = frameBudget(fps)
}

// frameBudget converts a frame rate cap into the minimum frame duration, 0 for uncapped.
func frameBudget(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}
