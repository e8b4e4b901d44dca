// Package frame provides deferred execution of work "before the next
// repaint".
//
// A Scheduler is whatever the host uses to run callbacks ahead of its next
// draw. A Queue sits on top of a Scheduler and holds at most one pending task
// at a time, which is how high-frequency signals (scroll events) collapse into
// a single recompute per frame.
package frame

// Scheduler runs callbacks before the next repaint.
type Scheduler interface {
	RequestFrame(fn func())
}

// SchedulerFunc adapts a plain function to the Scheduler interface.
type SchedulerFunc func(fn func())

// RequestFrame calls f(fn).
func (f SchedulerFunc) RequestFrame(fn func()) {
	f(fn)
}

// Queue is a single-slot deferred task queue. While a task is pending, further
// submissions are dropped. The latch is cleared after the task has run, so the
// next submission arms the queue again.
//
// Queue is not safe for concurrent use. It is meant to be driven from one
// event loop.
type Queue struct {
	scheduler Scheduler
	pending   bool
	runs      int
}

// NewQueue returns a queue which defers its task through scheduler.
func NewQueue(scheduler Scheduler) *Queue {
	return &Queue{scheduler: scheduler}
}

// Submit schedules fn unless a task is already pending. It returns true if fn
// was scheduled.
func (q *Queue) Submit(fn func()) bool {
	if q.pending || fn == nil {
		return false
	}
	q.pending = true
	q.scheduler.RequestFrame(func() {
		defer func() {
			q.pending = false
		}()
		q.runs++
		fn()
	})
	return true
}

// Pending returns whether a task is scheduled but has not run yet.
func (q *Queue) Pending() bool {
	return q.pending
}

// Runs returns how many tasks this queue has executed.
func (q *Queue) Runs() int {
	return q.runs
}
