package progress

import (
	"fmt"
	"sync"
	"time"

	"github.com/fenilsonani/dupescan/pkg/utils"
)

// Phase represents the current phase of a scan
type Phase string

const (
	PhaseWalking  Phase = "walking"
	PhaseHashing  Phase = "hashing"
	PhaseComplete Phase = "complete"
	PhaseError    Phase = "error"
)

// ScanProgress is a snapshot of scan progress
type ScanProgress struct {
	Phase       Phase
	Root        string
	CurrentPath string
	FilesFound  int   // files emitted by the walker
	BytesFound  int64 // sum of their sizes
	Candidates  int   // files in size buckets with two or more members
	FilesHashed int
	BytesHashed int64
	Groups      int
	Warnings    int
	StartTime   time.Time
	Error       error
}

// ProgressReporter provides thread-safe progress reporting
type ProgressReporter struct {
	scanProgress *ScanProgress
	mu           sync.RWMutex
	listeners    []chan *ScanProgress
}

// NewProgressReporter creates a new progress reporter
func NewProgressReporter() *ProgressReporter {
	return &ProgressReporter{
		listeners: make([]chan *ScanProgress, 0),
	}
}

// Subscribe returns a channel that receives progress updates
func (pr *ProgressReporter) Subscribe() <-chan *ScanProgress {
	pr.mu.Lock()
	defer pr.mu.Unlock()

	ch := make(chan *ScanProgress, 10)
	pr.listeners = append(pr.listeners, ch)
	return ch
}

// Unsubscribe closes and removes a listener channel
func (pr *ProgressReporter) Unsubscribe(ch <-chan *ScanProgress) {
	pr.mu.Lock()
	defer pr.mu.Unlock()

	for i, listener := range pr.listeners {
		if listener == ch {
			close(listener)
			pr.listeners = append(pr.listeners[:i], pr.listeners[i+1:]...)
			return
		}
	}
}

// UpdateScanProgress updates scan progress and notifies listeners
func (pr *ProgressReporter) UpdateScanProgress(update *ScanProgress) {
	pr.mu.Lock()
	pr.scanProgress = update
	listeners := make([]chan *ScanProgress, len(pr.listeners))
	copy(listeners, pr.listeners)
	pr.mu.Unlock()

	// Notify all listeners (non-blocking)
	for _, listener := range listeners {
		select {
		case listener <- update:
		default:
			// Skip if channel is full
		}
	}
}

// GetScanProgress returns the current scan progress
func (pr *ProgressReporter) GetScanProgress() *ScanProgress {
	pr.mu.RLock()
	defer pr.mu.RUnlock()
	return pr.scanProgress
}

// FormatScanProgress returns a human-readable scan progress string
func FormatScanProgress(p *ScanProgress) string {
	if p == nil {
		return "Initializing..."
	}

	elapsed := time.Since(p.StartTime)

	switch p.Phase {
	case PhaseWalking:
		return fmt.Sprintf("Walking %s... Found %d files (%s) [%s]",
			p.Root,
			p.FilesFound,
			utils.FormatBytes(p.BytesFound),
			FormatDuration(elapsed))
	case PhaseHashing:
		percentage := 0
		if p.Candidates > 0 {
			percentage = (p.FilesHashed * 100) / p.Candidates
		}
		return fmt.Sprintf("Hashing... %d/%d candidates (%d%%) - %s read [%s]",
			p.FilesHashed,
			p.Candidates,
			percentage,
			utils.FormatBytes(p.BytesHashed),
			FormatDuration(elapsed))
	case PhaseComplete:
		return fmt.Sprintf("Scan complete: %d files, %d duplicate groups in %s",
			p.FilesFound,
			p.Groups,
			FormatDuration(elapsed))
	case PhaseError:
		return fmt.Sprintf("Scan error: %v", p.Error)
	default:
		return "Scanning..."
	}
}

// FormatDuration formats duration in human-readable format
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)

	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%dm%ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
