package escalate_test

import (
	"testing"
	"time"

	"github.com/dshills/keyladder/internal/escalate"
)

// waitForIdle polls until the path returns to level 0 or the deadline hits.
func waitForIdle(t *testing.T, d *escalate.Dispatcher, pathName string, deadline time.Duration) {
	t.Helper()

	end := time.Now().Add(deadline)
	for time.Now().Before(end) {
		if d.Level(pathName) == 0 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("path %s still at level %d after %s", pathName, d.Level(pathName), deadline)
}

func TestRealTimerReleasesPath(t *testing.T) {
	rec := &recorder{}
	d := newTestDispatcher(t, primaryConfig(50*time.Millisecond), rec, escalate.RealTimers())

	d.OnTrigger("primary")
	if got := d.Level("primary"); got != 1 {
		t.Fatalf("Level(primary) = %d, want 1", got)
	}

	waitForIdle(t, d, "primary", time.Second)
	wantDispatched(t, rec, "smart_close")
}

func TestRealTimerWindowExtension(t *testing.T) {
	rec := &recorder{}
	d := newTestDispatcher(t, primaryConfig(150*time.Millisecond), rec, escalate.RealTimers())

	d.OnTrigger("primary")
	time.Sleep(50 * time.Millisecond)
	d.OnTrigger("primary")

	// The second press landed inside the window and extended the run.
	if got := d.Level("primary"); got != 2 {
		t.Errorf("Level(primary) = %d, want 2", got)
	}
	wantDispatched(t, rec, "smart_close", "save")

	waitForIdle(t, d, "primary", time.Second)
}

func TestRealTimerZeroDebounce(t *testing.T) {
	rec := &recorder{}
	d := newTestDispatcher(t, primaryConfig(0), rec, escalate.RealTimers())

	d.OnTrigger("primary")
	d.OnTrigger("primary")

	if got := d.Level("primary"); got != 0 {
		t.Errorf("Level(primary) = %d, want 0", got)
	}
	wantDispatched(t, rec, "smart_close", "smart_close")
}
