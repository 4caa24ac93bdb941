package reachability

import (
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// workQueue is the shared frontier for the parallel explorer. Termination
// is quiescence, not an empty queue: a pop blocks while the queue is
// empty but some worker still holds in-flight work, because that worker
// may push new markings. Once the queue is empty and nothing is in
// flight, the queue closes and all blocked pops return false.
type workQueue struct {
	mu       sync.Mutex
	cond     *sync.Cond
	items    []Marking
	inflight int
	closed   bool
}

func newWorkQueue() *workQueue {
	q := &workQueue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

func (q *workQueue) push(m Marking) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.items = append(q.items, m)
	q.cond.Signal()
}

// pop removes the next marking, blocking until one is available or the
// search has quiesced. The second return is false once the queue is
// closed. A successful pop counts as in-flight work until done is called.
func (q *workQueue) pop() (Marking, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) == 0 && !q.closed {
		if q.inflight == 0 {
			q.closed = true
			q.cond.Broadcast()
			return Marking{}, false
		}
		q.cond.Wait()
	}
	if q.closed && len(q.items) == 0 {
		return Marking{}, false
	}
	m := q.items[0]
	q.items = q.items[1:]
	q.inflight++
	return m, true
}

// done marks one popped marking as fully expanded. If that was the last
// in-flight marking and the queue is empty, the search has quiesced.
func (q *workQueue) done() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.inflight--
	if q.inflight == 0 && len(q.items) == 0 {
		q.closed = true
	}
	q.cond.Broadcast()
}

// exploreParallel runs the search with e.workers concurrent workers. The
// visited set's claim is the atomic insert-if-absent: one winner per
// marking, so each distinct marking is expanded at most once. The final
// set is identical to the serial explorer's; only discovery order varies.
func (e *Explorer) exploreParallel() (*Result, error) {
	start := time.Now()
	set := newVisited(e.maxStates)
	q := newWorkQueue()

	initial := InitialMarking(e.net)
	set.claim(initial)
	e.reporter.Discovered(initial, 1)
	q.push(initial)

	trans := e.net.Transitions()

	var g errgroup.Group
	for w := 0; w < e.workers; w++ {
		g.Go(func() error {
			for {
				m, ok := q.pop()
				if !ok {
					return nil
				}
				for i := range trans {
					t := &trans[i]
					if !Enabled(m, t) {
						continue
					}
					next := Fire(m, t)
					if !set.claim(next) {
						continue
					}
					q.push(next)
					e.reporter.Discovered(next, set.count())
				}
				q.done()
			}
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := set.result(BFS, e.workers, time.Since(start))
	e.reporter.Done(res.StateCount, res.Elapsed)
	return res, nil
}
