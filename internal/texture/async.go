package texture

import (
	"context"
	"image"
)

// Done receives a finished load on the goroutine that called Poll or Wait.
type Done func(img *image.NRGBA, err error)

type result struct {
	img  *image.NRGBA
	err  error
	done Done
}

// Loader decodes images in the background and hands the results back to
// the frame loop, so completion callbacks never run concurrently with it.
type Loader struct {
	resolver Resolver
	results  chan result

	pending int
	loaded  int
	total   int
}

// NewLoader returns a loader backed by r.
func NewLoader(r Resolver) *Loader {
	return &Loader{resolver: r, results: make(chan result, 16)}
}

// Load starts decoding path. done is invoked from a later Poll or Wait.
func (l *Loader) Load(path string, done Done) {
	l.pending++
	l.total++
	go func() {
		img, err := l.resolver.Resolve(path)
		l.results <- result{img: img, err: err, done: done}
	}()
}

// Poll delivers every completed load without blocking and returns how
// many were delivered.
func (l *Loader) Poll() int {
	n := 0
	for l.pending > 0 {
		select {
		case r := <-l.results:
			l.deliver(r)
			n++
		default:
			return n
		}
	}
	return n
}

// Wait blocks until every started load has been delivered.
func (l *Loader) Wait(ctx context.Context) error {
	for l.pending > 0 {
		select {
		case r := <-l.results:
			l.deliver(r)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (l *Loader) deliver(r result) {
	l.pending--
	l.loaded++
	if r.done != nil {
		r.done(r.img, r.err)
	}
}

// Progress returns delivered and started load counts. Failed loads count
// as delivered.
func (l *Loader) Progress() (loaded, total int) {
	return l.loaded, l.total
}

// Idle reports whether nothing is in flight.
func (l *Loader) Idle() bool {
	return l.pending == 0
}
