package ui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fenilsonani/dupescan/internal/progress"
	"github.com/fenilsonani/dupescan/internal/scanner"
	"github.com/fenilsonani/dupescan/internal/ui/styles"
	uiutils "github.com/fenilsonani/dupescan/internal/ui/utils"
	"github.com/fenilsonani/dupescan/pkg/utils"
	"golang.org/x/term"
)

// LiveProgress handles live terminal progress display
type LiveProgress struct {
	mu          sync.Mutex
	out         io.Writer
	last        *progress.ScanProgress
	startTime   time.Time
	lastUpdate  time.Time
	termWidth   int
	enabled     bool
	statusLines int
}

// NewLiveProgress creates a live progress display writing to out. The width
// follows the terminal when out is one.
func NewLiveProgress(out io.Writer) *LiveProgress {
	width := 80
	if f, ok := out.(*os.File); ok {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
			width = w
		}
	}

	return &LiveProgress{
		out:         out,
		startTime:   time.Now(),
		termWidth:   width,
		enabled:     true,
		statusLines: 3,
	}
}

// Start initializes the progress display area
func (lp *LiveProgress) Start() {
	if !lp.enabled {
		return
	}
	// Reserve space for status lines
	fmt.Fprint(lp.out, "\n\n\n")
	// Move cursor up to the reserved area
	fmt.Fprintf(lp.out, "\033[%dA", lp.statusLines)
}

// Update updates the progress display
func (lp *LiveProgress) Update(p *progress.ScanProgress) {
	lp.mu.Lock()
	defer lp.mu.Unlock()

	if !lp.enabled || p == nil {
		return
	}
	lp.last = p

	// Throttle updates to avoid flickering (max 10 updates per second)
	now := time.Now()
	if p.Phase != progress.PhaseComplete && now.Sub(lp.lastUpdate) < 100*time.Millisecond {
		return
	}
	lp.lastUpdate = now

	lp.render()
}

// render draws the progress display
func (lp *LiveProgress) render() {
	p := lp.last
	width := lp.termWidth - 2

	// Save cursor position
	fmt.Fprint(lp.out, "\033[s")

	// Line 1: phase and stats
	elapsed := time.Since(lp.startTime).Round(time.Second)
	line1 := fmt.Sprintf("📂 %-8s | Found: %d files (%s) | Hashed: %d/%d | Time: %s",
		p.Phase, p.FilesFound, utils.FormatBytes(p.BytesFound), p.FilesHashed, p.Candidates, elapsed)
	fmt.Fprintf(lp.out, "\033[K%s\n", uiutils.TruncateString(line1, width))

	// Line 2: current path with animation
	spinner := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	spinIdx := int(time.Now().UnixMilli()/100) % len(spinner)
	line2 := fmt.Sprintf("%s %s", spinner[spinIdx], uiutils.TruncatePath(p.CurrentPath, width-2))
	fmt.Fprintf(lp.out, "\033[K%s\n", line2)

	// Line 3: hashing progress
	fmt.Fprintf(lp.out, "\033[K%s", styles.ProgressBar(p.FilesHashed, p.Candidates, width))

	// Restore cursor position
	fmt.Fprint(lp.out, "\033[u")
}

// Finish completes the progress display
func (lp *LiveProgress) Finish() {
	lp.mu.Lock()
	defer lp.mu.Unlock()

	if !lp.enabled {
		return
	}

	// Move to the end and clear the status lines
	fmt.Fprintf(lp.out, "\033[%dB", lp.statusLines)
	fmt.Fprint(lp.out, "\033[K\n")
}

// SetEnabled enables or disables live progress
func (lp *LiveProgress) SetEnabled(enabled bool) {
	lp.mu.Lock()
	defer lp.mu.Unlock()
	lp.enabled = enabled
}

// Watch subscribes fn to pr. Updates are delivered on a single goroutine.
// The returned stop function unsubscribes and waits for delivery to end.
func Watch(pr *progress.ProgressReporter, fn func(*progress.ScanProgress)) (stop func()) {
	ch := pr.Subscribe()
	done := make(chan struct{})

	go func() {
		defer close(done)
		for p := range ch {
			fn(p)
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			pr.Unsubscribe(ch)
			<-done
		})
	}
}

// PrintGroupTree prints each duplicate group as a tree of its members
func PrintGroupTree(out io.Writer, groups []scanner.DuplicateGroup) {
	var wasted int64
	var files int

	for i, g := range groups {
		wasted += g.WastedBytes()
		files += len(g.Paths)

		fmt.Fprintf(out, "\n╭─ Group %d · %s × %d · sha256 %s\n",
			i+1, utils.FormatBytes(g.Size), len(g.Paths), g.Digest.Short())

		// Members that share a parent directory are listed together
		var dirs []string
		byDir := make(map[string][]string)
		for _, p := range g.Paths {
			dir := filepath.Dir(p)
			if _, ok := byDir[dir]; !ok {
				dirs = append(dirs, dir)
			}
			byDir[dir] = append(byDir[dir], filepath.Base(p))
		}

		for d, dir := range dirs {
			isLastDir := d == len(dirs)-1

			connector := "├"
			if isLastDir {
				connector = "╰"
			}
			fmt.Fprintf(out, "%s── 📁 %s\n", connector, dir)

			names := byDir[dir]
			for n, name := range names {
				fileConnector := "│   ├"
				if isLastDir {
					fileConnector = "    ├"
				}
				if n == len(names)-1 {
					if isLastDir {
						fileConnector = "    ╰"
					} else {
						fileConnector = "│   ╰"
					}
				}
				fmt.Fprintf(out, "%s── %s\n", fileConnector, name)
			}
		}
	}

	fmt.Fprintf(out, "\n════════════════════════════════════════════════════════\n")
	fmt.Fprintf(out, "Total: %d groups | %d files | %s reclaimable\n", len(groups), files, utils.FormatBytes(wasted))
}
