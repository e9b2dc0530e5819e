package dedup

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

func newTestGuard() (*Guard, *ManualClock) {
	clock := NewManualClock(epoch)
	return NewGuard(DefaultConfig(), clock), clock
}

func TestGuardDebounce(t *testing.T) {
	guard, clock := newTestGuard()
	key := AnnotateKey("#hero", "", "Title", "red")

	require.True(t, guard.Admit(key).Admitted)

	clock.Advance(1500 * time.Millisecond)
	d := guard.Admit(key)
	assert.False(t, d.Admitted)
	assert.True(t, d.Duplicate)
	assert.Equal(t, epoch, d.LastExecuted)

	clock.Advance(500 * time.Millisecond)
	d = guard.Admit(key)
	assert.True(t, d.Admitted, "a rejected request does not refresh the record")
}

func TestGuardRetention(t *testing.T) {
	guard, clock := newTestGuard()
	key := CommentKey("", "Pricing", "check this", "right", "bubble")

	require.True(t, guard.Admit(key).Admitted)
	assert.Equal(t, 1, guard.Len())
	assert.Equal(t, 1, clock.Pending())

	clock.Advance(10 * time.Second)
	assert.Equal(t, 0, guard.Len(), "sweep drops records at the retention window")
	assert.Equal(t, 0, clock.Pending())

	assert.True(t, guard.Admit(key).Admitted)
}

func TestGuardSweepKeepsFreshRecords(t *testing.T) {
	guard, clock := newTestGuard()

	require.True(t, guard.Admit("a").Admitted)
	clock.Advance(6 * time.Second)
	require.True(t, guard.Admit("b").Admitted)

	clock.Advance(4 * time.Second)
	snapshot := guard.Snapshot()
	require.Len(t, snapshot, 1)
	assert.Equal(t, "b", snapshot[0].Key)
	assert.Equal(t, epoch.Add(6*time.Second), snapshot[0].Executed)

	clock.Advance(6 * time.Second)
	assert.Empty(t, guard.Snapshot())
}

func TestGuardKeysAreIndependent(t *testing.T) {
	guard, _ := newTestGuard()

	assert.True(t, guard.Admit(AnnotateKey("#a", "", "x", "yellow")).Admitted)
	assert.True(t, guard.Admit(AnnotateKey("#a", "", "x", "red")).Admitted)
	assert.True(t, guard.Admit(CommentKey("#a", "", "x", "right", "bubble")).Admitted)
	assert.False(t, guard.Admit(AnnotateKey("#a", "", "x", "red")).Admitted)
	assert.Equal(t, 3, guard.Len())
}

func TestGuardCloseStopsSweeps(t *testing.T) {
	guard, clock := newTestGuard()

	guard.Admit("a")
	guard.Admit("b")
	assert.Equal(t, 2, clock.Pending())

	guard.Close()
	assert.Equal(t, 0, clock.Pending())

	guard.Admit("c")
	assert.Equal(t, 0, clock.Pending())

	guard.Reset()
	assert.Equal(t, 0, guard.Len())
}

func TestGuardConcurrentAdmit(t *testing.T) {
	guard, _ := newTestGuard()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		admitted int
	)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if guard.Admit("same").Admitted {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, admitted)
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "annotate-#hero-Title-red", AnnotateKey("#hero", "ignored", "Title", "red"))
	assert.Equal(t, "annotate-Pricing--yellow", AnnotateKey("", "Pricing", "", "yellow"))
	assert.Equal(t, "comment-.cta-Nice-top-sticky", CommentKey(".cta", "", "Nice", "top", "sticky"))
	assert.Equal(t, "clear-", Key("clear"))
}

func TestSystemClock(t *testing.T) {
	fired := make(chan struct{})
	timer := SystemClock{}.AfterFunc(time.Millisecond, func() { close(fired) })
	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("timer did not fire")
	}
	assert.False(t, timer.Stop())
}
