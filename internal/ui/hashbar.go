package ui

import (
	"io"
	"sync"

	"github.com/fenilsonani/dupescan/internal/progress"
	"github.com/schollz/progressbar/v3"
)

// HashBar shows a counting progress bar for the hashing phase. The bar is
// created on the first hashing update, once the candidate count is known.
type HashBar struct {
	mu     sync.Mutex
	out    io.Writer
	bar    *progressbar.ProgressBar
	hashed int
}

// NewHashBar creates a bar writing to out
func NewHashBar(out io.Writer) *HashBar {
	return &HashBar{out: out}
}

// Update moves the bar to the hashed count in p. Non-hashing phases are ignored.
func (h *HashBar) Update(p *progress.ScanProgress) {
	if p == nil || p.Phase != progress.PhaseHashing || p.Candidates == 0 {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.bar == nil {
		h.bar = progressbar.NewOptions(p.Candidates,
			progressbar.OptionSetWriter(h.out),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(15),
			progressbar.OptionSetDescription("Hashing files..."),
			progressbar.OptionShowElapsedTimeOnFinish(),
		)
	}
	// Updates may arrive out of order after drops; never move backwards
	if p.FilesHashed > h.hashed {
		h.hashed = p.FilesHashed
		_ = h.bar.Set(h.hashed)
	}
}

// Finish completes the bar if one was started
func (h *HashBar) Finish() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.bar != nil {
		_ = h.bar.Finish()
		io.WriteString(h.out, "\n")
	}
}

// Started reports whether a hashing phase was seen
func (h *HashBar) Started() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.bar != nil
}
