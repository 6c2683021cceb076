package brewing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexander-akhmetov/brewguide/internal/domain"
)

const testInterval = 5 * time.Millisecond

func receiveTick(t *testing.T, tm *Timer) int {
	t.Helper()
	select {
	case tag := <-tm.C():
		return tag
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for tick")
		return 0
	}
}

func isLive(tm *Timer) bool {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	return tm.stop != nil
}

func TestTimer_DeliversTag(t *testing.T) {
	tm := NewTimer(testInterval)
	defer tm.Stop()

	tm.Schedule(7)
	assert.True(t, isLive(tm))
	assert.Equal(t, 7, receiveTick(t, tm))
	assert.Equal(t, 7, receiveTick(t, tm))
}

func TestTimer_ScheduleSameTagIsNoop(t *testing.T) {
	tm := NewTimer(testInterval)
	defer tm.Stop()

	tm.Schedule(1)
	stop := tm.stop
	tm.Schedule(1)
	assert.Equal(t, stop, tm.stop, "same tag must keep the live source")
}

func TestTimer_RescheduleReplacesSource(t *testing.T) {
	tm := NewTimer(testInterval)
	defer tm.Stop()

	tm.Schedule(1)
	receiveTick(t, tm)
	tm.Schedule(2)

	for range 3 {
		assert.Equal(t, 2, receiveTick(t, tm))
	}
}

func TestTimer_CancelIsTotal(t *testing.T) {
	tm := NewTimer(testInterval)
	defer tm.Stop()

	tm.Schedule(1)
	receiveTick(t, tm)
	tm.Cancel()
	assert.False(t, isLive(tm))

	select {
	case tag := <-tm.C():
		t.Fatalf("unexpected tick %d after cancel", tag)
	case <-time.After(10 * testInterval):
	}

	tm.Cancel()
}

func TestTimer_StopPreventsSchedule(t *testing.T) {
	tm := NewTimer(testInterval)
	tm.Stop()
	tm.Schedule(1)
	assert.False(t, isLive(tm))
}

func TestTimer_DrivesSession(t *testing.T) {
	tm := NewTimer(testInterval)
	defer tm.Stop()

	s, err := New(makeSteps(2), Meta{}, WithScheduler(tm))
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Start())
	for s.Elapsed() < 3 {
		s.Tick(receiveTick(t, tm))
	}
	assert.Equal(t, 3, s.Elapsed())

	require.NoError(t, s.TogglePause())
	assert.False(t, isLive(tm))

	require.NoError(t, s.TogglePause())
	assert.True(t, isLive(tm))
	assert.Equal(t, s.Tag(), receiveTick(t, tm))

	require.NoError(t, s.Complete())
	assert.False(t, isLive(tm))
}

func TestNewTimer_DefaultInterval(t *testing.T) {
	tm := NewTimer(0)
	assert.Equal(t, time.Second, tm.interval)
}

func TestNewBrewingRecord(t *testing.T) {
	recipe := domain.Recipe{
		ID:         "v60",
		Parameters: domain.Parameters{WaterML: 250, CoffeeGrams: 15, BrewSeconds: 180},
	}
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	rec := NewBrewingRecord("user1", recipe, "bean-1", Result{ActualElapsedSeconds: 200, StepsCompletedCount: 5, TotalSteps: 6}, now)

	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "user1", rec.UserID)
	assert.Equal(t, "v60", rec.RecipeID)
	assert.Equal(t, "bean-1", rec.BeanID)
	assert.Equal(t, 200, rec.Result.ActualSeconds)
	assert.Equal(t, 250, rec.Result.YieldML)
	assert.Equal(t, 5, rec.Result.StepsCompleted)
	assert.Equal(t, 6, rec.Result.TotalSteps)
	assert.Equal(t, now, rec.CreatedAt)

	other := NewBrewingRecord("user1", recipe, "", Result{}, now)
	assert.NotEqual(t, rec.ID, other.ID)

	meta := MetaFor(recipe, "bean-1")
	assert.Equal(t, Meta{RecipeID: "v60", BeanID: "bean-1", TargetWaterML: 250, TargetBrewSeconds: 180}, meta)
}
