package vtview

// GeometrySource notifies subscribers about geometry changes of a scroll
// container. Every subscription returns a cancel function which removes it
// again.
type GeometrySource interface {
	// OnResize subscribes to changes of the container's viewport height.
	OnResize(fn func(height int)) (cancel func())
	// OnScroll subscribes to changes of the container's scroll offset.
	OnScroll(fn func(offset int)) (cancel func())
}

type geometrySubscription struct {
	id int
	fn func(int)
}

// geometryEmitter is the GeometrySource embedded in scroll containers.
type geometryEmitter struct {
	nextID int
	resize []geometrySubscription
	scroll []geometrySubscription
}

// OnResize implements GeometrySource.
func (g *geometryEmitter) OnResize(fn func(height int)) (cancel func()) {
	return g.subscribe(&g.resize, fn)
}

// OnScroll implements GeometrySource.
func (g *geometryEmitter) OnScroll(fn func(offset int)) (cancel func()) {
	return g.subscribe(&g.scroll, fn)
}

func (g *geometryEmitter) subscribe(list *[]geometrySubscription, fn func(int)) func() {
	g.nextID++
	id := g.nextID
	*list = append(*list, geometrySubscription{id: id, fn: fn})
	return func() {
		for i, sub := range *list {
			if sub.id == id {
				*list = append((*list)[:i], (*list)[i+1:]...)
				return
			}
		}
	}
}

func (g *geometryEmitter) emitResize(height int) {
	for _, sub := range g.resize {
		sub.fn(height)
	}
}

func (g *geometryEmitter) emitScroll(offset int) {
	for _, sub := range g.scroll {
		sub.fn(offset)
	}
}

// subscribers returns the number of live subscriptions on both channels.
func (g *geometryEmitter) subscribers() (resize, scroll int) {
	return len(g.resize), len(g.scroll)
}
