package progress

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribeReceivesUpdates(t *testing.T) {
	pr := NewProgressReporter()
	ch := pr.Subscribe()

	update := &ScanProgress{Phase: PhaseWalking, FilesFound: 3}
	pr.UpdateScanProgress(update)

	select {
	case got := <-ch:
		assert.Same(t, update, got)
	case <-time.After(time.Second):
		t.Fatal("no update delivered")
	}

	assert.Same(t, update, pr.GetScanProgress())
}

func TestUpdateDoesNotBlockOnFullListener(t *testing.T) {
	pr := NewProgressReporter()
	pr.Subscribe()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			pr.UpdateScanProgress(&ScanProgress{FilesFound: i})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("UpdateScanProgress blocked on a full listener")
	}
	assert.Equal(t, 99, pr.GetScanProgress().FilesFound)
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	pr := NewProgressReporter()
	ch := pr.Subscribe()
	pr.Unsubscribe(ch)

	_, open := <-ch
	assert.False(t, open)

	// No listeners left; must not panic
	pr.UpdateScanProgress(&ScanProgress{})
}

func TestFormatScanProgress(t *testing.T) {
	start := time.Now()

	assert.Equal(t, "Initializing...", FormatScanProgress(nil))

	walking := FormatScanProgress(&ScanProgress{Phase: PhaseWalking, Root: "/data", FilesFound: 12, BytesFound: 2048, StartTime: start})
	assert.True(t, strings.HasPrefix(walking, "Walking /data... Found 12 files (2.00 KB)"), walking)

	hashing := FormatScanProgress(&ScanProgress{Phase: PhaseHashing, Candidates: 4, FilesHashed: 1, StartTime: start})
	assert.Contains(t, hashing, "1/4 candidates (25%)")

	zero := FormatScanProgress(&ScanProgress{Phase: PhaseHashing, StartTime: start})
	assert.Contains(t, zero, "(0%)")

	complete := FormatScanProgress(&ScanProgress{Phase: PhaseComplete, FilesFound: 10, Groups: 2, StartTime: start})
	assert.Contains(t, complete, "10 files, 2 duplicate groups")

	failed := FormatScanProgress(&ScanProgress{Phase: PhaseError, Error: errors.New("boom")})
	assert.Equal(t, "Scan error: boom", failed)
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0s"},
		{1500 * time.Millisecond, "2s"},
		{61 * time.Second, "1m1s"},
		{time.Hour + 2*time.Minute + 3*time.Second, "1h2m3s"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, FormatDuration(tt.in))
	}
}
