// Package layers stacks primitives on top of each other, e.g. a diagnostic
// overlay above a list.
package layers

import (
	"github.com/gdamore/tcell/v2"

	"github.com/xqrs/vtview"
)

// layer represents one layer of a Layers object.
type layer struct {
	name    string           // The layer's name.
	item    vtview.Primitive // The layer's primitive.
	resize  bool             // Whether or not to resize the layer when it is drawn.
	visible bool             // Whether or not this layer is visible.
	enabled bool             // Whether or not this layer can receive focus/input.
	overlay bool             // Whether this layer applies a background style to layers behind it.
}

// Layers is a container for other primitives laid out on top of each other.
// The layers are drawn from back to front. An overlay layer restyles everything
// drawn behind it and blocks mouse input to those layers.
type Layers struct {
	*vtview.Box

	// The contained layers. (Visible) layers are drawn from back to front.
	layers []*layer
	// The style applied to layers behind the active overlay layer.
	backgroundLayerStyle tcell.Style

	// Set by Focus so visibility changes can move the focus.
	setFocus func(p vtview.Primitive)
	// Called whenever the visibility or the order of layers changes.
	changed func()
}

// Option configures a layer on Add.
type Option func(*layer)

// WithName sets the layer's name.
func WithName(name string) Option {
	return func(l *layer) {
		l.name = name
	}
}

// WithResize sets whether the layer is resized to the container's inner rect.
func WithResize(resize bool) Option {
	return func(l *layer) {
		l.resize = resize
	}
}

// WithVisible sets the initial visibility of the layer.
func WithVisible(visible bool) Option {
	return func(l *layer) {
		l.visible = visible
	}
}

// WithEnabled sets whether the layer can receive focus and input. A disabled
// layer is still drawn.
func WithEnabled(enabled bool) Option {
	return func(l *layer) {
		l.enabled = enabled
	}
}

// WithOverlay marks this layer as an overlay layer.
func WithOverlay() Option {
	return func(l *layer) {
		l.overlay = true
	}
}

// New returns a new Layers object.
func New() *Layers {
	return &Layers{Box: vtview.NewBox().SetDontClear(true)}
}

// SetChangedFunc sets a handler which is called whenever the visibility or the
// order of any visible layers changes.
func (l *Layers) SetChangedFunc(handler func()) *Layers {
	l.changed = handler
	return l
}

func (l *Layers) notify() {
	if l.changed != nil {
		l.changed()
	}
}

// refocus hands the focus to the new top layer if the container held it.
func (l *Layers) refocus(hadFocus bool) {
	if hadFocus {
		l.Focus(l.setFocus)
	}
}

func (l *Layers) find(name string) (int, *layer) {
	for index, layer := range l.layers {
		if layer.name == name {
			return index, layer
		}
	}
	return -1, nil
}

// LayerNames returns all layer names ordered from front to back, optionally
// limited to visible layers.
func (l *Layers) LayerNames(visibleOnly bool) []string {
	var names []string
	for index := len(l.layers) - 1; index >= 0; index-- {
		if !visibleOnly || l.layers[index].visible {
			names = append(names, l.layers[index].name)
		}
	}
	return names
}

// AddLayer adds a new layer for the given primitive in front of all others. A
// layer with the same name is replaced.
func (l *Layers) AddLayer(item vtview.Primitive, opts ...Option) *Layers {
	hadFocus := l.HasFocus()
	newLayer := &layer{
		item:    item,
		visible: true,
		enabled: true,
	}
	for _, opt := range opts {
		opt(newLayer)
	}
	if newLayer.name != "" {
		if index, _ := l.find(newLayer.name); index >= 0 {
			l.layers = append(l.layers[:index], l.layers[index+1:]...)
		}
	}
	l.layers = append(l.layers, newLayer)
	l.notify()
	l.refocus(hadFocus)
	return l
}

// RemoveLayer removes the layer with the given name.
func (l *Layers) RemoveLayer(name string) *Layers {
	hadFocus := l.HasFocus()
	if index, layer := l.find(name); layer != nil {
		l.layers = append(l.layers[:index], l.layers[index+1:]...)
		if layer.visible {
			l.notify()
		}
	}
	l.refocus(hadFocus)
	return l
}

// HasLayer returns true if a layer with the given name exists in this object.
func (l *Layers) HasLayer(name string) bool {
	_, layer := l.find(name)
	return layer != nil
}

// GetLayer returns the primitive of the named layer, or nil.
func (l *Layers) GetLayer(name string) vtview.Primitive {
	if _, layer := l.find(name); layer != nil {
		return layer.item
	}
	return nil
}

// GetVisible returns whether the given layer is visible.
func (l *Layers) GetVisible(name string) bool {
	_, layer := l.find(name)
	return layer != nil && layer.visible
}

// SetVisible shows or hides the named layer.
func (l *Layers) SetVisible(name string, visible bool) *Layers {
	hadFocus := l.HasFocus()
	if _, layer := l.find(name); layer != nil && layer.visible != visible {
		layer.visible = visible
		l.notify()
	}
	l.refocus(hadFocus)
	return l
}

// ShowLayer makes the named layer visible.
func (l *Layers) ShowLayer(name string) *Layers {
	return l.SetVisible(name, true)
}

// HideLayer hides the named layer.
func (l *Layers) HideLayer(name string) *Layers {
	return l.SetVisible(name, false)
}

// ToggleLayer flips the visibility of the named layer and returns the new
// state.
func (l *Layers) ToggleLayer(name string) bool {
	visible := !l.GetVisible(name)
	l.SetVisible(name, visible)
	return l.GetVisible(name)
}

// SendToFront moves the named layer in front of all others.
func (l *Layers) SendToFront(name string) *Layers {
	hadFocus := l.HasFocus()
	if index, layer := l.find(name); layer != nil {
		if index < len(l.layers)-1 {
			l.layers = append(append(l.layers[:index], l.layers[index+1:]...), layer)
		}
		if layer.visible {
			l.notify()
		}
	}
	l.refocus(hadFocus)
	return l
}

// GetFrontLayer returns the front-most visible layer. If there are no visible
// layers, ("", nil) is returned.
func (l *Layers) GetFrontLayer() (name string, item vtview.Primitive) {
	for index := len(l.layers) - 1; index >= 0; index-- {
		if l.layers[index].visible {
			return l.layers[index].name, l.layers[index].item
		}
	}
	return
}

// SetBackgroundLayerStyle sets the style applied to layers behind the active
// overlay layer.
func (l *Layers) SetBackgroundLayerStyle(style tcell.Style) *Layers {
	if l.backgroundLayerStyle != style {
		l.backgroundLayerStyle = style
		l.notify()
	}
	return l
}

// HasFocus returns whether or not this primitive has focus.
func (l *Layers) HasFocus() bool {
	for _, layer := range l.layers {
		if layer.enabled && layer.item.HasFocus() {
			return true
		}
	}
	return l.Box.HasFocus()
}

// Focus is called by the application when the primitive receives focus.
func (l *Layers) Focus(delegate func(p vtview.Primitive)) {
	if delegate == nil {
		return // We cannot delegate so we cannot focus.
	}
	l.setFocus = delegate
	if top := l.topLayer(false); top >= 0 {
		delegate(l.layers[top].item)
		return
	}
	l.Box.Focus(delegate)
}

// Draw draws this primitive onto the screen.
func (l *Layers) Draw(screen tcell.Screen) {
	l.DrawForSubclass(screen, l)

	overlay := l.topLayer(true)
	for index, layer := range l.layers {
		if !layer.visible {
			continue
		}
		layerScreen := screen
		if overlay >= 0 && index < overlay {
			layerScreen = &overlayScreen{Screen: screen, overlay: l.backgroundLayerStyle}
		}
		if layer.resize {
			layer.item.SetRect(l.GetInnerRect())
		}
		layer.item.Draw(layerScreen)
	}
}

// MouseHandler passes mouse events to the front-most enabled layer that
// handles them, but never to layers behind an active overlay.
func (l *Layers) MouseHandler(action vtview.MouseAction, event *tcell.EventMouse) (vtview.Primitive, vtview.Command) {
	if !l.InRect(event.Position()) {
		return nil, nil
	}

	overlay := l.topLayer(true)
	for index := len(l.layers) - 1; index >= 0 && index >= overlay; index-- {
		layer := l.layers[index]
		if !layer.visible || !layer.enabled {
			continue
		}
		capture, cmd := layer.item.MouseHandler(action, event)
		if capture != nil || cmd != nil {
			return capture, cmd
		}
	}

	if overlay >= 0 {
		return nil, vtview.ConsumeEventCommand{}
	}
	return nil, nil
}

// InputHandler forwards key events to the focused enabled layer.
func (l *Layers) InputHandler(event *tcell.EventKey) vtview.Command {
	for _, layer := range l.layers {
		if layer.enabled && layer.item.HasFocus() {
			return layer.item.InputHandler(event)
		}
	}
	return nil
}

// topLayer returns the index of the front-most visible and enabled layer,
// restricted to overlay layers if overlayOnly is set, or -1.
func (l *Layers) topLayer(overlayOnly bool) int {
	for index := len(l.layers) - 1; index >= 0; index-- {
		layer := l.layers[index]
		if layer.visible && layer.enabled && (layer.overlay || !overlayOnly) {
			return index
		}
	}
	return -1
}

var _ vtview.Primitive = &Layers{}

// overlayScreen restyles every cell drawn through it.
type overlayScreen struct {
	tcell.Screen
	overlay tcell.Style
}

func (s *overlayScreen) SetContent(x int, y int, primary rune, combining []rune, style tcell.Style) {
	s.Screen.SetContent(x, y, primary, combining, applyBackgroundStyle(style, s.overlay))
}

// applyBackgroundStyle merges the overlay's explicit colors and attributes into
// base. Attributes are only ever added.
func applyBackgroundStyle(base, overlay tcell.Style) tcell.Style {
	fg, bg, attrs := overlay.Decompose()
	_, _, baseAttrs := base.Decompose()
	if fg != tcell.ColorDefault {
		base = base.Foreground(fg)
	}
	if bg != tcell.ColorDefault {
		base = base.Background(bg)
	}
	return base.Attributes(baseAttrs | attrs)
}
