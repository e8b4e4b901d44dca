package vtview

import (
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/go-logr/logr"
)

// The size of the queued updates channel.
const updatesQueueSize = 100

// MouseAction is what the mouse is logically doing, derived from the button
// state of consecutive mouse events.
type MouseAction int16

const (
	MouseMove MouseAction = iota
	MouseLeftDown
	MouseLeftUp
	// Button released where it was pressed.
	MouseLeftClick
	MouseScrollUp
	MouseScrollDown
)

// mouseState is carried from one mouse event to the next.
type mouseState struct {
	// Primitive returned by the last MouseHandler; it gets the next action.
	capture      Primitive
	x, y         int
	downX, downY int
	buttons      tcell.ButtonMask
}

// queuedUpdate represented the execution of f queued by
// Application.QueueUpdate(). If "done" is not nil, it receives exactly one
// element after f has executed.
type queuedUpdate struct {
	f    func()
	done chan struct{}
}

// Application represents the top node of an application. It owns the screen,
// runs the event loop and executes the commands returned by primitives.
//
// Application also implements [FrameScheduler]: callbacks passed to
// RequestFrame run on the event loop right before the root is drawn.
//
// The following command displays a primitive p on the screen until the
// application is stopped (for example via QuitCommand):
//
//	if err := vtview.NewApplication().SetRoot(p).Run(); err != nil {
//	    panic(err)
//	}
type Application struct {
	sync.RWMutex

	// The application's screen.
	screen tcell.Screen

	// The primitive which currently has the keyboard focus.
	focus Primitive

	// The root primitive to be seen on the screen.
	root Primitive

	// Called for every key event before it reaches the root.
	inputCapture func(event *tcell.EventKey) (*tcell.EventKey, Command)

	enableMouse bool

	events chan tcell.Event
	// Closed by Stop to end the event loop.
	done chan struct{}

	// Functions queued from goroutines, used to serialize updates to primitives.
	updates chan queuedUpdate

	// Frame callbacks waiting for the next draw, and the wakeup for the loop.
	frames     []func()
	frameReady chan struct{}

	// Only touched by the event loop.
	mouse mouseState

	// forceRedraw requests a full clear before the next frame.
	forceRedraw bool

	logger logr.Logger
}

var _ FrameScheduler = &Application{}

// NewApplication creates and returns a new application.
func NewApplication() *Application {
	return &Application{
		updates:    make(chan queuedUpdate, updatesQueueSize),
		frameReady: make(chan struct{}, 1),
		logger:     logr.Discard(),
	}
}

// SetScreen sets the application's screen. The screen must already be
// initialized. It has no effect once a screen is set.
func (a *Application) SetScreen(screen tcell.Screen) *Application {
	a.Lock()
	defer a.Unlock()
	if a.screen == nil {
		a.screen = screen
		a.forceRedraw = true
	}
	return a
}

// SetLogger sets the logger for event loop diagnostics.
func (a *Application) SetLogger(logger logr.Logger) *Application {
	a.Lock()
	defer a.Unlock()
	a.logger = logger.WithName("app")
	return a
}

// EnableMouse enables mouse events once the application runs.
func (a *Application) EnableMouse(enable bool) *Application {
	a.Lock()
	defer a.Unlock()
	a.enableMouse = enable
	if a.screen != nil {
		if enable {
			a.screen.EnableMouse()
		} else {
			a.screen.DisableMouse()
		}
	}
	return a
}

// SetInputCapture installs a function which sees every key event before the
// root does. Returning a nil event stops the event from propagating; the
// returned command is executed either way.
func (a *Application) SetInputCapture(capture func(event *tcell.EventKey) (*tcell.EventKey, Command)) *Application {
	a.Lock()
	defer a.Unlock()
	a.inputCapture = capture
	return a
}

// RequestFrame schedules fn to run on the event loop before the next draw.
// It is safe to call from any goroutine.
func (a *Application) RequestFrame(fn func()) {
	if fn == nil {
		return
	}
	a.Lock()
	a.frames = append(a.frames, fn)
	a.Unlock()
	select {
	case a.frameReady <- struct{}{}:
	default:
	}
}

// Run starts the application and thus the event loop. This function returns
// when [Application.Stop] was called.
//
// Note that while an application is running, it fully claims stdin, stdout, and
// stderr. If you use these standard streams, they may not work as expected.
func (a *Application) Run() error {
	var appErr error
	a.Lock()

	// Make a screen if there is none yet.
	if a.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			a.Unlock()
			return err
		}
		if err = screen.Init(); err != nil {
			a.Unlock()
			return err
		}
		a.screen = screen
		a.forceRedraw = true
	}
	if a.enableMouse {
		a.screen.EnableMouse()
	}
	screen := a.screen
	a.events = make(chan tcell.Event, updatesQueueSize)
	a.done = make(chan struct{})
	events, done := a.events, a.done
	logger := a.logger
	a.Unlock()

	// We catch panics to clean up because they mess up the terminal.
	defer func() {
		if p := recover(); p != nil {
			a.Stop()
			panic(p)
		}
	}()

	go screen.ChannelEvents(events, done)

	// Draw the screen for the first time.
	a.draw()

	logger.V(1).Info("event loop started")
EventLoop:
	for {
		select {
		case <-done:
			break EventLoop

		case event, ok := <-events:
			if !ok || event == nil {
				break EventLoop
			}

			switch event := event.(type) {
			case *tcell.EventKey:
				if a.handleKey(event) {
					a.draw()
				}
			case *tcell.EventResize:
				a.Lock()
				a.forceRedraw = true
				a.Unlock()
				logger.V(1).Info("screen resized")
				a.draw()
			case *tcell.EventMouse:
				if a.handleMouse(event) {
					a.draw()
				}
			case *tcell.EventError:
				appErr = event
				a.Stop()
			}

		case <-a.frameReady:
			a.RLock()
			pending := len(a.frames)
			a.RUnlock()
			if pending > 0 {
				a.draw()
			}

		// If we have updates, now is the time to execute them.
		case update := <-a.updates:
			update.f()
			if update.done != nil {
				update.done <- struct{}{}
			}
		}
	}

	logger.V(1).Info("event loop stopped", "error", appErr)
	return appErr
}

// handleKey passes a key event through the input capture to the root. It
// returns whether a redraw is needed.
func (a *Application) handleKey(event *tcell.EventKey) bool {
	a.RLock()
	root := a.root
	capture := a.inputCapture
	a.RUnlock()

	redraw := false
	if capture != nil {
		var cmd Command
		event, cmd = capture(event)
		redraw = a.executeCommand(cmd)
		if event == nil {
			return redraw
		}
	}

	if root != nil && root.HasFocus() {
		if a.executeCommand(root.InputHandler(event)) {
			redraw = true
		}
	}
	return redraw
}

// handleMouse turns a mouse event into actions and sends each of them to the
// capturing primitive, or to the root. It returns whether a redraw is needed.
func (a *Application) handleMouse(event *tcell.EventMouse) bool {
	a.RLock()
	root := a.root
	a.RUnlock()

	m := &a.mouse
	redraw := false
	// Once a capturing primitive took an action, the rest of this event's
	// actions go to it as well.
	var target Primitive
	fire := func(action MouseAction) {
		p := root
		if m.capture != nil {
			p, target = m.capture, m.capture
		} else if target != nil {
			p = target
		}
		if p == nil {
			return
		}
		var cmd Command
		m.capture, cmd = p.MouseHandler(action, event)
		if a.executeCommand(cmd) {
			redraw = true
		}
	}

	x, y := event.Position()
	buttons := event.Buttons()
	if x != m.x || y != m.y {
		m.x, m.y = x, y
		fire(MouseMove)
	}
	if (buttons^m.buttons)&tcell.ButtonPrimary != 0 {
		if buttons&tcell.ButtonPrimary != 0 {
			m.downX, m.downY = x, y
			fire(MouseLeftDown)
		} else {
			fire(MouseLeftUp)
			if x == m.downX && y == m.downY {
				fire(MouseLeftClick)
			}
		}
	}
	if buttons&tcell.WheelUp != 0 {
		fire(MouseScrollUp)
	}
	if buttons&tcell.WheelDown != 0 {
		fire(MouseScrollDown)
	}
	m.buttons = buttons
	return redraw
}

// Stop stops the application, causing Run() to return.
func (a *Application) Stop() {
	a.Lock()
	defer a.Unlock()
	if a.done != nil {
		close(a.done)
		a.done = nil
	}
	screen := a.screen
	if screen == nil {
		return
	}
	screen.Fini()
	a.screen = nil
}

// Draw refreshes the screen (during the next update cycle). It calls the Draw()
// function of the application's root primitive and then syncs the screen
// buffer. It can deadlock your application if you call it from the event loop
// (e.g. in a callback function of a widget).
func (a *Application) Draw() *Application {
	a.QueueUpdate(func() {
		a.draw()
	})
	return a
}

// ForceDraw refreshes the screen immediately. Never call this function from a
// goroutine other than the event loop.
func (a *Application) ForceDraw() *Application {
	return a.draw()
}

// draw runs the pending frame callbacks and then draws the root.
func (a *Application) draw() *Application {
	a.Lock()
	screen := a.screen
	root := a.root
	forceRedraw := a.forceRedraw
	frames := a.frames
	a.frames = nil
	a.Unlock()

	// Callbacks requested from within a frame wait for the next draw.
	for _, fn := range frames {
		fn()
	}

	// Maybe we're not ready yet or not anymore.
	if screen == nil || root == nil {
		return a
	}

	drawWidth, drawHeight := screen.Size()
	root.SetRect(0, 0, drawWidth, drawHeight)

	// tcell only emits changed cells in Show(); clear for forced redraws only.
	if forceRedraw {
		screen.Clear()
	}
	root.Draw(screen)
	screen.Show()

	a.Lock()
	a.forceRedraw = false
	a.Unlock()

	return a
}

// SetRoot sets the root primitive for this application and focuses it. This
// function must be called at least once or nothing will be displayed when the
// application starts.
func (a *Application) SetRoot(root Primitive) *Application {
	a.Lock()
	a.root = root
	if a.screen != nil {
		a.forceRedraw = true
	}
	a.Unlock()

	a.SetFocus(root)
	return a
}

// SetFocus sets the focus to a new primitive. All key events will be directed
// down the hierarchy (starting at the root) until a primitive handles them,
// which per default goes towards the focused primitive.
//
// Blur() will be called on the previously focused primitive. Focus() will be
// called on the new primitive.
func (a *Application) SetFocus(p Primitive) *Application {
	a.Lock()
	if a.focus != nil {
		a.focus.Blur()
	}
	a.focus = p
	if a.screen != nil {
		a.screen.HideCursor()
	}
	a.Unlock()
	if p != nil {
		p.Focus(func(p Primitive) {
			a.SetFocus(p)
		})
	}

	return a
}

// GetFocus returns the primitive which has the current focus. If none has it,
// nil is returned.
func (a *Application) GetFocus() Primitive {
	a.RLock()
	defer a.RUnlock()
	return a.focus
}

// QueueUpdate is used to synchronize access to primitives from non-main
// goroutines. The provided function will be executed as part of the event loop
// and thus will not cause race conditions with other such update functions or
// the Draw() function.
//
// This function returns after f has executed.
func (a *Application) QueueUpdate(f func()) *Application {
	ch := make(chan struct{})
	a.updates <- queuedUpdate{f: f, done: ch}
	<-ch
	return a
}

// QueueUpdateDraw works like QueueUpdate() except it refreshes the screen
// immediately after executing f.
func (a *Application) QueueUpdateDraw(f func()) *Application {
	a.QueueUpdate(func() {
		f()
		a.draw()
	})
	return a
}

// executeCommand runs cmd and returns whether the screen needs a redraw.
func (a *Application) executeCommand(cmd Command) bool {
	if cmd == nil {
		return false
	}

	switch c := cmd.(type) {
	case BatchCommand:
		handled := false
		for _, item := range c {
			if a.executeCommand(item) {
				handled = true
			}
		}
		return handled
	case RedrawCommand:
		return true
	case QuitCommand:
		a.Stop()
		return false
	case SetFocusCommand:
		if c.Target == nil {
			return false
		}
		a.RLock()
		changed := a.focus != c.Target
		a.RUnlock()
		a.SetFocus(c.Target)
		return changed
	case ConsumeEventCommand:
		return false
	}

	return false
}
