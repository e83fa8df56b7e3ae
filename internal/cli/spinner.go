package cli

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/matzehuels/gnparser/pkg/pipeline"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// batchSpinner animates a status line on stderr while batches of names are
// parsed. Each finished batch is added with [batchSpinner.Add] and the line
// shows the running totals. The animation ends when Stop is called or ctx is
// cancelled.
type batchSpinner struct {
	ctx     context.Context
	stop    chan struct{}
	stopped chan struct{}
	once    sync.Once

	mu      sync.Mutex
	batches int
	totals  pipeline.Stats
	hits    int
	width   int // widest line drawn, for clearing
}

func newBatchSpinner(ctx context.Context) *batchSpinner {
	return &batchSpinner{
		ctx:     ctx,
		stop:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// Start draws the status line every 80ms in a goroutine.
func (s *batchSpinner) Start() {
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				return
			case <-s.stop:
				return
			case <-ticker.C:
				s.draw(spinnerFrames[i%len(spinnerFrames)])
			}
		}
	}()
}

// Add records the statistics of one finished batch.
func (s *batchSpinner) Add(st pipeline.Stats, cacheHits int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches++
	s.totals.Parsed += st.Parsed
	s.totals.Missing += st.Missing
	s.totals.Faults += st.Faults
	s.totals.Duration += st.Duration
	s.hits += cacheHits
}

// Stop ends the animation and clears the status line. It may be called more
// than once.
func (s *batchSpinner) Stop() {
	s.once.Do(func() { close(s.stop) })
	<-s.stopped

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width > 0 {
		fmt.Fprintf(statusOut, "\r%s\r", strings.Repeat(" ", s.width+2))
	}
}

func (s *batchSpinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	line := s.line()
	fmt.Fprintf(statusOut, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(line))
	s.width = max(s.width, len(line))
}

// line renders the totals, e.g. "Parsing names: 2 batches, 1200 parsed,
// 3 missing, 40 cached". Zero counts other than parsed are left out.
func (s *batchSpinner) line() string {
	if s.batches == 0 {
		return "Parsing names..."
	}
	parts := []string{plural(s.batches, "batch", "batches"), fmt.Sprintf("%d parsed", s.totals.Parsed)}
	if s.totals.Missing > 0 {
		parts = append(parts, fmt.Sprintf("%d missing", s.totals.Missing))
	}
	if s.totals.Faults > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", s.totals.Faults))
	}
	if s.hits > 0 {
		parts = append(parts, fmt.Sprintf("%d cached", s.hits))
	}
	return "Parsing names: " + strings.Join(parts, ", ")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return fmt.Sprintf("%d %s", n, many)
}
