package main

import (
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/xqrs/vtview"
	"github.com/xqrs/vtview/help"
	"github.com/xqrs/vtview/keybind"
	"github.com/xqrs/vtview/layers"
)

// debugWidth is the width of the window overlay, border included.
const debugWidth = 26

type keyMap struct {
	list  vtview.VirtualListKeyMap
	Debug keybind.Keybind
	Help  keybind.Keybind
	Quit  keybind.Keybind
}

func defaultKeyMap(list vtview.VirtualListKeyMap) keyMap {
	return keyMap{
		list:  list,
		Debug: keybind.NewKeybind(keybind.WithKeys("d"), keybind.WithHelp("d", "window")),
		Help:  keybind.NewKeybind(keybind.WithKeys("?"), keybind.WithHelp("?", "more")),
		Quit:  keybind.NewKeybind(keybind.WithKeys("q", "ctrl+c"), keybind.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []keybind.Keybind {
	return append(k.list.ShortHelp(), k.Debug, k.Help, k.Quit)
}

func (k keyMap) FullHelp() [][]keybind.Keybind {
	return append(k.list.FullHelp(), []keybind.Keybind{k.Debug, k.Help, k.Quit})
}

type ui struct {
	app    *vtview.Application
	root   *layers.Layers
	list   *vtview.VirtualList
	help   *help.Help
	keys   keyMap
	logger logr.Logger
}

func newUI(cfg config, logger logr.Logger, screen tcell.Screen) (*ui, error) {
	u := &ui{
		app:    vtview.NewApplication().SetLogger(logger).EnableMouse(true),
		root:   layers.New(),
		help:   help.New(),
		logger: logger,
	}
	if screen != nil {
		u.app.SetScreen(screen)
	}

	list, err := vtview.NewVirtualList(
		vtview.WithItemHeight(cfg.ItemHeight),
		vtview.WithBufferPadding(cfg.BufferPadding),
		vtview.WithScrollBar(cfg.ScrollBar),
		vtview.WithFrameScheduler(u.app),
		vtview.WithLogger(logger),
		vtview.WithCreateItemFunc(func(*vtview.Slot) vtview.Primitive {
			return newContactRow()
		}),
		vtview.WithLoadItemFunc(func(slot *vtview.Slot) {
			slot.Node().(*contactRow).load(slot)
		}),
	)
	if err != nil {
		return nil, err
	}
	u.list = list
	u.list.SetClickedFunc(func(slot *vtview.Slot) {
		u.logger.Info("row clicked", "index", slot.Index())
	})

	start := time.Now()
	u.list.SetItems(vtview.ItemsOf(generateContacts(cfg.Rows, cfg.Seed)))
	logger.V(1).Info("rows generated", "rows", cfg.Rows, "seed", cfg.Seed, "took", time.Since(start))

	u.keys = defaultKeyMap(list.KeyMap())
	u.help.SetKeyMap(u.keys).SetSeparators(" · ", "   ")

	content := &mainView{Box: vtview.NewBox(), list: u.list, help: u.help}
	u.root.AddLayer(content, layers.WithName("main"), layers.WithResize(true))
	debug := &dock{Box: vtview.NewBox(), view: vtview.NewDebugView(u.list)}
	u.root.AddLayer(debug,
		layers.WithName("debug"),
		layers.WithResize(true),
		layers.WithEnabled(false),
		layers.WithVisible(cfg.Debug),
	)

	u.app.SetRoot(u.root).SetInputCapture(u.handleKey)
	return u, nil
}

// handleKey runs the application wide bindings before the list sees a key.
func (u *ui) handleKey(event *tcell.EventKey) (*tcell.EventKey, vtview.Command) {
	switch {
	case keybind.Matches(event, u.keys.Quit):
		return nil, vtview.QuitCommand{}
	case keybind.Matches(event, u.keys.Debug):
		visible := u.root.ToggleLayer("debug")
		u.logger.V(1).Info("window overlay toggled", "visible", visible)
		return nil, vtview.RedrawCommand{}
	case keybind.Matches(event, u.keys.Help):
		u.help.SetShowAll(!u.help.ShowAll())
		return nil, vtview.RedrawCommand{}
	}
	return event, nil
}

func runDemo(cmd *cobra.Command, cfg config) error {
	logger, cleanup, err := setupLogger(cfg.LogFile, cfg.LogVerbosity)
	if err != nil {
		return err
	}
	defer cleanup()

	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	u, err := newUI(cfg, logger, nil)
	if err != nil {
		return err
	}
	defer u.list.Close()
	return u.app.Run()
}

// mainView stacks the list above the help bar.
type mainView struct {
	*vtview.Box
	list *vtview.VirtualList
	help *help.Help
}

func (m *mainView) SetRect(x, y, width, height int) {
	m.Box.SetRect(x, y, width, height)
	helpHeight := min(m.help.Height(width), height)
	m.list.SetRect(x, y, width, height-helpHeight)
	m.help.SetRect(x, y+height-helpHeight, width, helpHeight)
}

func (m *mainView) Draw(screen tcell.Screen) {
	// The help height depends on the help mode, which may have changed since
	// the last SetRect.
	m.SetRect(m.GetRect())
	m.list.Draw(screen)
	m.help.Draw(screen)
}

func (m *mainView) InputHandler(event *tcell.EventKey) vtview.Command {
	return m.list.InputHandler(event)
}

func (m *mainView) MouseHandler(action vtview.MouseAction, event *tcell.EventMouse) (vtview.Primitive, vtview.Command) {
	return m.list.MouseHandler(action, event)
}

func (m *mainView) Focus(delegate func(p vtview.Primitive)) {
	delegate(m.list)
}

func (m *mainView) HasFocus() bool {
	return m.list.HasFocus()
}

// dock pins the debug view to the right edge of whatever rect it is given.
type dock struct {
	*vtview.Box
	view *vtview.DebugView
}

func (d *dock) SetRect(x, y, width, height int) {
	d.Box.SetRect(x, y, width, height)
	w := min(debugWidth, width)
	d.view.SetRect(x+width-w, y, w, height)
}

func (d *dock) Draw(screen tcell.Screen) {
	d.view.Draw(screen)
}
