package dispatch

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rogelio-fraga-dev/barberbot/internal/bot"
	"github.com/rogelio-fraga-dev/barberbot/internal/config"
	"github.com/rogelio-fraga-dev/barberbot/internal/models"
	"github.com/rogelio-fraga-dev/barberbot/internal/store"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Contact{}, &models.Interaction{}, &models.ScheduledAction{}))
	return db
}

type recordingSender struct {
	mu   sync.Mutex
	sent []string
	fail bool
}

func (s *recordingSender) SendText(phone, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("gateway down")
	}
	s.sent = append(s.sent, phone)
	return nil
}

type engineFixture struct {
	engine  *Engine
	actions *store.ActionStore
	sender  *recordingSender
	pauses  *bot.PauseRegistry
	now     time.Time
}

func newEngineFixture(t *testing.T, batchSize int) *engineFixture {
	t.Helper()
	actions := store.NewActionStore(newTestDB(t))
	sender := &recordingSender{}
	pauses := bot.NewPauseRegistry()
	cfg := &config.Config{DispatchBatchSize: batchSize, DispatchMessageDelay: 0}

	engine := NewEngine(actions, sender, pauses, cfg)
	f := &engineFixture{
		engine:  engine,
		actions: actions,
		sender:  sender,
		pauses:  pauses,
		now:     time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC),
	}
	engine.now = func() time.Time { return f.now }
	engine.sleep = func(time.Duration) {}
	return f
}

func (f *engineFixture) seedDue(t *testing.T, phone string, age time.Duration) *models.ScheduledAction {
	t.Helper()
	action := &models.ScheduledAction{
		CustomerPhone:  phone,
		ExecutionTime:  f.now.Add(-age),
		ActionKind:     models.ActionKindReminder,
		MessageContent: "Lembrete do seu horário!",
		Status:         models.ActionPending,
	}
	require.NoError(t, f.actions.Create(action))
	return action
}

func TestRunCycleSendsDueActionsInOrder(t *testing.T) {
	f := newEngineFixture(t, 10)
	f.seedDue(t, "5534991110000", 2*time.Hour)
	f.seedDue(t, "5534992220000", 1*time.Hour)

	f.engine.RunCycle()

	assert.Equal(t, []string{"5534991110000", "5534992220000"}, f.sender.sent)

	due, err := f.actions.DuePending(f.now)
	require.NoError(t, err)
	assert.Empty(t, due)

	pending, err := f.actions.PendingCount()
	require.NoError(t, err)
	assert.Zero(t, pending)
}

func TestRunCycleHonorsBatchLimit(t *testing.T) {
	f := newEngineFixture(t, 2)
	f.seedDue(t, "1", 3*time.Hour)
	f.seedDue(t, "2", 2*time.Hour)
	f.seedDue(t, "3", 1*time.Hour)

	f.engine.RunCycle()
	assert.Len(t, f.sender.sent, 2)

	// The remainder drains on the next cycle.
	f.engine.RunCycle()
	assert.Len(t, f.sender.sent, 3)
}

func TestRunCycleDefersPausedCustomers(t *testing.T) {
	f := newEngineFixture(t, 10)
	action := f.seedDue(t, "5534991110000", time.Hour)
	f.pauses.Pause("5534991110000", 60)

	f.engine.RunCycle()

	assert.Empty(t, f.sender.sent)

	due, err := f.actions.DuePending(f.now)
	require.NoError(t, err)
	assert.Empty(t, due)

	// Still pending, pushed one hour out.
	rescheduled, err := f.actions.DuePending(f.now.Add(61 * time.Minute))
	require.NoError(t, err)
	require.Len(t, rescheduled, 1)
	assert.Equal(t, action.ID, rescheduled[0].ID)
	assert.Equal(t, models.ActionPending, rescheduled[0].Status)
}

func TestRunCycleFailsActionAfterThreeAttempts(t *testing.T) {
	f := newEngineFixture(t, 10)
	f.seedDue(t, "5534991110000", time.Hour)
	f.sender.fail = true

	for i := 0; i < 3; i++ {
		f.engine.RunCycle()
	}

	due, err := f.actions.DuePending(f.now)
	require.NoError(t, err)
	assert.Empty(t, due, "failed actions must leave the due queue")

	pending, err := f.actions.PendingCount()
	require.NoError(t, err)
	assert.Zero(t, pending)

	// Recovery of the gateway does not resurrect a failed action.
	f.sender.fail = false
	f.engine.RunCycle()
	assert.Empty(t, f.sender.sent)
}

func TestRunCycleCompletedAtIsSet(t *testing.T) {
	f := newEngineFixture(t, 10)
	f.seedDue(t, "5534991110000", time.Hour)

	f.engine.RunCycle()

	window, err := f.actions.InWindowByKind(f.now.Add(-2*time.Hour), f.now, models.ActionKindReminder)
	require.NoError(t, err)
	require.Len(t, window, 1)
	assert.Equal(t, models.ActionCompleted, window[0].Status)
	require.NotNil(t, window[0].CompletedAt)
}
