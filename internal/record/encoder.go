package record

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HugoSmits86/nativewebp"
	"github.com/charmbracelet/log"

	"card-gallery/internal/postprocess"
)

type job struct {
	index int
	img   *image.NRGBA
}

// encoder writes frames as WebP on a worker pool.
type encoder struct {
	dir    string
	factor int
	log    *log.Logger

	jobs      chan job
	wg        sync.WaitGroup
	processed atomic.Int64
	done      chan struct{}

	mu  sync.Mutex
	err error
}

func startEncoder(dir string, workers, factor, total int, logger *log.Logger) *encoder {
	if workers < 1 {
		workers = 1
	}
	e := &encoder{
		dir:    dir,
		factor: factor,
		log:    logger,
		jobs:   make(chan job, workers*2),
		done:   make(chan struct{}),
	}

	start := time.Now()
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-e.done:
				return
			case <-ticker.C:
				p := e.processed.Load()
				if p > 0 {
					rate := float64(p) / time.Since(start).Seconds()
					e.log.Info("encoding", "frames", fmt.Sprintf("%d/%d", p, total), "rate", fmt.Sprintf("%.1f/s", rate))
				}
			}
		}
	}()

	for w := 0; w < workers; w++ {
		e.wg.Add(1)
		go func() {
			defer e.wg.Done()
			for j := range e.jobs {
				if err := encodeFrame(e.dir, e.factor, j); err != nil {
					e.fail(err)
				}
				e.processed.Add(1)
			}
		}()
	}
	return e
}

func (e *encoder) fail(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err == nil {
		e.err = err
	}
}

func (e *encoder) submit(j job) {
	e.jobs <- j
}

// close waits for queued frames and returns the first encode error.
func (e *encoder) close() error {
	close(e.jobs)
	e.wg.Wait()
	close(e.done)
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}

func encodeFrame(dir string, factor int, j job) error {
	img := postprocess.Factor(j.img, factor)

	path := filepath.Join(dir, frameName(j.index))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("record: create %s: %w", path, err)
	}
	if err := nativewebp.Encode(f, img, nil); err != nil {
		f.Close()
		return fmt.Errorf("record: webp encode %s: %w", path, err)
	}
	return f.Close()
}
