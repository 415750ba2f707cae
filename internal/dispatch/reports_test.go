package dispatch

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rogelio-fraga-dev/barberbot/internal/config"
	"github.com/rogelio-fraga-dev/barberbot/internal/models"
	"github.com/rogelio-fraga-dev/barberbot/internal/store"
)

type textSink struct {
	messages []sentText
}

type sentText struct {
	Phone string
	Text  string
}

func (s *textSink) SendText(phone, text string) error {
	s.messages = append(s.messages, sentText{Phone: phone, Text: text})
	return nil
}

type stubAgenda struct {
	summary string
	err     error
}

func (s stubAgenda) Summary() (string, error) { return s.summary, s.err }

func newReporterFixture(t *testing.T, agenda AgendaSummarizer) (*Reporter, *store.ContactStore, *store.ActionStore, *textSink, time.Time) {
	t.Helper()
	db := newTestDB(t)
	contacts := store.NewContactStore(db)
	actions := store.NewActionStore(db)
	sink := &textSink{}
	cfg := &config.Config{AdminPhone: "5534991234567", ReminderLeadMinutes: 60}

	reporter := NewReporter(contacts, actions, agenda, sink, cfg)
	now := time.Date(2026, 9, 1, 21, 0, 0, 0, time.UTC)
	reporter.now = func() time.Time { return now }
	return reporter, contacts, actions, sink, now
}

func TestMorningReport(t *testing.T) {
	reporter, contacts, _, sink, _ := newReporterFixture(t, stubAgenda{summary: "✂️ 14:00 - Final 7766"})
	require.NoError(t, contacts.Upsert("5534991110000", "Ana"))

	reporter.SendMorningReport()

	require.Len(t, sink.messages, 1)
	assert.Equal(t, "5534991234567", sink.messages[0].Phone)
	assert.Contains(t, sink.messages[0].Text, "Base de Clientes: 1")
	assert.Contains(t, sink.messages[0].Text, "✂️ 14:00 - Final 7766")
}

func TestMorningReportSurvivesSummaryError(t *testing.T) {
	reporter, _, _, sink, _ := newReporterFixture(t, stubAgenda{err: errors.New("boom")})

	reporter.SendMorningReport()

	require.Len(t, sink.messages, 1)
	assert.Contains(t, sink.messages[0].Text, "Nenhum agendamento salvo para hoje.")
}

func TestNightlyNudgeAsksForPhotoWhenTomorrowIsEmpty(t *testing.T) {
	reporter, _, _, sink, _ := newReporterFixture(t, stubAgenda{})

	reporter.SendNightlyAgendaNudge()

	require.Len(t, sink.messages, 1)
	assert.Contains(t, sink.messages[0].Text, "Ainda não recebi a agenda de amanhã")
}

func TestNightlyNudgeSummarizesProgrammedReminders(t *testing.T) {
	reporter, _, actions, sink, now := newReporterFixture(t, stubAgenda{})

	// Reminder fires 13:00 tomorrow, so the cut itself is at 14:00.
	tomorrow := time.Date(now.Year(), now.Month(), now.Day()+1, 13, 0, 0, 0, now.Location())
	require.NoError(t, actions.Create(&models.ScheduledAction{
		CustomerPhone:  "5534998887766",
		ExecutionTime:  tomorrow,
		ActionKind:     models.ActionKindReminder,
		MessageContent: "Lembrete",
		Status:         models.ActionPending,
	}))
	// Today's reminders stay out of tomorrow's summary.
	require.NoError(t, actions.Create(&models.ScheduledAction{
		CustomerPhone:  "5534991110000",
		ExecutionTime:  now.Add(-time.Hour),
		ActionKind:     models.ActionKindReminder,
		MessageContent: "Lembrete",
		Status:         models.ActionCompleted,
	}))

	reporter.SendNightlyAgendaNudge()

	require.Len(t, sink.messages, 1)
	text := sink.messages[0].Text
	assert.Contains(t, text, "Já programado")
	assert.Contains(t, text, "✂️ 14:00 - Final 7766")
	assert.NotContains(t, text, "1110000")
}
