package agenda

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rogelio-fraga-dev/barberbot/internal/config"
	"github.com/rogelio-fraga-dev/barberbot/internal/models"
	"github.com/rogelio-fraga-dev/barberbot/internal/store"
)

func newFixture(t *testing.T) (*Service, *store.ActionStore, time.Time) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.ScheduledAction{}))

	actions := store.NewActionStore(db)
	cfg := &config.Config{ReminderLeadMinutes: 60}
	svc := NewService(actions, cfg)
	now := time.Date(2026, 9, 1, 9, 30, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	return svc, actions, now
}

func TestProcessAgendaCreatesReminders(t *testing.T) {
	svc, actions, now := newFixture(t)

	payload := `{"items":[
		{"name":"Ana","phone":"(34) 98888-7766","time":"14:00","service":"Corte"},
		{"name":"Bruno","phone":"5534991110000","time":"16:30","service":"Barba"}
	]}`
	created, err := svc.ProcessAgenda(payload)
	require.NoError(t, err)
	assert.Equal(t, 2, created)

	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	reminders, err := actions.InWindowByKind(start, start.AddDate(0, 0, 1), models.ActionKindReminder)
	require.NoError(t, err)
	require.Len(t, reminders, 2)

	// Reminder fires the configured lead ahead of the cut.
	first := reminders[0]
	assert.Equal(t, "34988887766", first.CustomerPhone)
	assert.True(t, first.ExecutionTime.Equal(time.Date(2026, 9, 1, 13, 0, 0, 0, time.UTC)))
	assert.Equal(t, models.ActionPending, first.Status)
	assert.Contains(t, first.MessageContent, "Ana")
	assert.Contains(t, first.MessageContent, "14:00")
}

func TestProcessAgendaSkipsBadItems(t *testing.T) {
	svc, _, _ := newFixture(t)

	payload := `{"items":[
		{"name":"Sem Hora","phone":"5534991110000","time":"meio dia"},
		{"name":"Sem Telefone","phone":"","time":"14:00"},
		{"name":"Ok","phone":"5534992220000","time":"15:00"}
	]}`
	created, err := svc.ProcessAgenda(payload)
	require.NoError(t, err)
	assert.Equal(t, 1, created)
}

func TestProcessAgendaRejectsMalformedJSON(t *testing.T) {
	svc, _, _ := newFixture(t)
	_, err := svc.ProcessAgenda("the model rambled instead of emitting JSON")
	assert.Error(t, err)
}

func TestProcessAgendaEmptyIsNotAnError(t *testing.T) {
	svc, _, _ := newFixture(t)
	created, err := svc.ProcessAgenda(`{"items":[]}`)
	require.NoError(t, err)
	assert.Zero(t, created)
}

func TestSummaryRendersCutTimes(t *testing.T) {
	svc, _, _ := newFixture(t)

	_, err := svc.ProcessAgenda(`{"items":[{"name":"Ana","phone":"5534988887766","time":"14:00"}]}`)
	require.NoError(t, err)

	summary, err := svc.Summary()
	require.NoError(t, err)
	assert.Contains(t, summary, "✂️ 14:00 - Final 7766")
}

func TestSummaryWhenNothingSaved(t *testing.T) {
	svc, _, _ := newFixture(t)
	summary, err := svc.Summary()
	require.NoError(t, err)
	assert.Equal(t, "Nenhum agendamento salvo para hoje.", summary)
}

func TestCreateReviewRequest(t *testing.T) {
	svc, actions, now := newFixture(t)

	require.NoError(t, svc.CreateReviewRequest("5534988887766", "Ana", now))

	due, err := actions.DuePending(now.Add(2 * time.Hour))
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, models.ActionKindReviewRequest, due[0].ActionKind)
	assert.True(t, due[0].ExecutionTime.Equal(now.Add(time.Hour)))
	assert.Contains(t, due[0].MessageContent, "Ana")
}
