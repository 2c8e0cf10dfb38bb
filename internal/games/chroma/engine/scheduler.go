package engine

import (
	"container/heap"
	"fmt"
	"time"
)

// TaskID identifies a scheduled task.
type TaskID uint64

type task struct {
	id    TaskID
	name  string
	due   time.Duration
	seq   uint64
	every time.Duration
	fn    func()
	index int
}

type taskQueue []*task

func (q taskQueue) Len() int { return len(q) }

func (q taskQueue) Less(i, j int) bool {
	if q[i].due != q[j].due {
		return q[i].due < q[j].due
	}
	return q[i].seq < q[j].seq
}

func (q taskQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *taskQueue) Push(x any) {
	t := x.(*task)
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *taskQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*q = old[:n-1]
	return t
}

// Scheduler runs deferred tasks against a virtual clock.
// Time only moves when Advance is called; tasks due at the same instant
// run in the order they were scheduled.
type Scheduler struct {
	now    time.Duration
	seq    uint64
	nextID TaskID
	queue  taskQueue
	tasks  map[TaskID]*task
}

// NewScheduler creates a scheduler with its clock at zero.
func NewScheduler() *Scheduler {
	return &Scheduler{tasks: make(map[TaskID]*task)}
}

// Now returns the current virtual time.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// Pending returns the number of scheduled tasks.
func (s *Scheduler) Pending() int {
	return len(s.queue)
}

// After schedules fn to run once, d after the current time.
func (s *Scheduler) After(d time.Duration, name string, fn func()) TaskID {
	return s.schedule(max(d, 0), 0, name, fn)
}

// Every schedules fn to run repeatedly with the given interval.
func (s *Scheduler) Every(interval time.Duration, name string, fn func()) TaskID {
	if interval <= 0 {
		panic(fmt.Sprintf("engine: non-positive interval %v for task %q", interval, name))
	}
	return s.schedule(interval, interval, name, fn)
}

func (s *Scheduler) schedule(d, every time.Duration, name string, fn func()) TaskID {
	s.nextID++
	s.seq++
	t := &task{
		id:    s.nextID,
		name:  name,
		due:   s.now + d,
		seq:   s.seq,
		every: every,
		fn:    fn,
	}
	heap.Push(&s.queue, t)
	s.tasks[t.id] = t
	return t.id
}

// Scheduled reports whether the task is still waiting to run.
func (s *Scheduler) Scheduled(id TaskID) bool {
	_, ok := s.tasks[id]
	return ok
}

// Cancel removes a task. Returns false if it is unknown or already ran.
func (s *Scheduler) Cancel(id TaskID) bool {
	t, ok := s.tasks[id]
	if !ok {
		return false
	}
	delete(s.tasks, id)
	if t.index >= 0 {
		heap.Remove(&s.queue, t.index)
	}
	return true
}

// CancelAll drops every scheduled task.
func (s *Scheduler) CancelAll() {
	for _, t := range s.queue {
		t.index = -1
	}
	s.queue = s.queue[:0]
	clear(s.tasks)
}

// Advance moves the clock forward by d, running every task that becomes
// due on the way. Tasks scheduled by running tasks are honored if they
// fall inside the window. Returns the number of tasks run.
func (s *Scheduler) Advance(d time.Duration) int {
	target := s.now + max(d, 0)
	ran := 0
	for len(s.queue) > 0 && s.queue[0].due <= target {
		t := heap.Pop(&s.queue).(*task)
		s.now = t.due
		if t.every > 0 {
			s.seq++
			t.due += t.every
			t.seq = s.seq
			heap.Push(&s.queue, t)
		} else {
			delete(s.tasks, t.id)
		}
		t.fn()
		ran++
	}
	s.now = target
	return ran
}

// Reset cancels all tasks and rewinds the clock to zero.
func (s *Scheduler) Reset() {
	s.CancelAll()
	s.now = 0
}
