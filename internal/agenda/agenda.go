// Package agenda turns the vision model's JSON reading of the barber's
// appointment book into scheduled reminder actions, and renders the saved
// agenda back for the admin.
package agenda

import (
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/rogelio-fraga-dev/barberbot/internal/config"
	"github.com/rogelio-fraga-dev/barberbot/internal/models"
	"github.com/rogelio-fraga-dev/barberbot/internal/store"
)

var nonDigits = regexp.MustCompile(`[^0-9]`)

// agendaPayload is the shape the vision prompt asks the model to produce.
type agendaPayload struct {
	Items []agendaItem `json:"items"`
}

type agendaItem struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Time    string `json:"time"`
	Service string `json:"service"`
}

type Service struct {
	actions *store.ActionStore
	cfg     *config.Config
	now     func() time.Time
}

func NewService(actions *store.ActionStore, cfg *config.Config) *Service {
	return &Service{actions: actions, cfg: cfg, now: time.Now}
}

// ProcessAgenda parses the extracted agenda JSON and creates one REMINDER
// action per appointment, scheduled the configured lead ahead of the cut.
// A malformed item is skipped, not fatal; returns how many reminders were
// created.
func (s *Service) ProcessAgenda(agendaJSON string) (int, error) {
	var payload agendaPayload
	if err := json.Unmarshal([]byte(agendaJSON), &payload); err != nil {
		return 0, fmt.Errorf("failed to parse agenda JSON: %w", err)
	}
	if len(payload.Items) == 0 {
		log.Println("Agenda image produced no items")
		return 0, nil
	}

	today := s.now()
	created := 0
	for _, item := range payload.Items {
		cutTime, err := parseClock(item.Time)
		if err != nil {
			log.Printf("Skipping agenda item with bad time %q: %v", item.Time, err)
			continue
		}
		phone := nonDigits.ReplaceAllString(item.Phone, "")
		if phone == "" {
			log.Printf("Skipping agenda item without phone: %s", item.Name)
			continue
		}

		cutAt := time.Date(today.Year(), today.Month(), today.Day(),
			cutTime.Hour(), cutTime.Minute(), 0, 0, today.Location())
		executionTime := cutAt.Add(-time.Duration(s.cfg.ReminderLeadMinutes) * time.Minute)

		name := item.Name
		if name == "" {
			name = "Cliente"
		}
		message := fmt.Sprintf(
			"Olá %s! ✂️ Passando para lembrar do seu horário de hoje às *%s* na LH Barbearia.\n"+
				"Te esperamos! 💈",
			name, cutAt.Format("15:04"))

		action := &models.ScheduledAction{
			CustomerPhone:  phone,
			ExecutionTime:  executionTime,
			ActionKind:     models.ActionKindReminder,
			MessageContent: message,
			Status:         models.ActionPending,
		}
		if err := s.actions.Create(action); err != nil {
			log.Printf("Error saving reminder for %s: %v", phone, err)
			continue
		}
		created++
	}

	log.Printf("Agenda processed: %d reminders created", created)
	return created, nil
}

// CreateReviewRequest schedules a post-service review ask, the configured
// lead after the appointment.
func (s *Service) CreateReviewRequest(customerPhone, customerName string, serviceTime time.Time) error {
	if customerName == "" {
		customerName = "Cliente"
	}
	message := fmt.Sprintf(
		"Olá %s! Esperamos que tenha gostado do seu atendimento. "+
			"Sua opinião é muito importante para nós! "+
			"Por favor, avalie nosso serviço: https://maps.app.goo.gl/seulink",
		customerName)

	return s.actions.Create(&models.ScheduledAction{
		CustomerPhone:  customerPhone,
		ExecutionTime:  serviceTime.Add(time.Duration(s.cfg.ReminderLeadMinutes) * time.Minute),
		ActionKind:     models.ActionKindReviewRequest,
		MessageContent: message,
		Status:         models.ActionPending,
	})
}

// Summary renders today's saved reminders for the admin. Times shown are the
// cut times (execution plus the reminder lead), phones shortened to the last
// four digits.
func (s *Service) Summary() (string, error) {
	now := s.now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 0, 1)

	reminders, err := s.actions.InWindowByKind(start, end, models.ActionKindReminder)
	if err != nil {
		return "", err
	}
	if len(reminders) == 0 {
		return "Nenhum agendamento salvo para hoje.", nil
	}

	lead := time.Duration(s.cfg.ReminderLeadMinutes) * time.Minute
	var b strings.Builder
	for _, reminder := range reminders {
		cut := reminder.ExecutionTime.Add(lead).Format("15:04")
		b.WriteString("✂️ " + cut + " - Final " + lastDigits(reminder.CustomerPhone, 4))
		switch reminder.Status {
		case models.ActionCompleted:
			b.WriteString(" ✅")
		case models.ActionFailed:
			b.WriteString(" ❌")
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func parseClock(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", value)
}

func lastDigits(phone string, n int) string {
	if len(phone) <= n {
		return phone
	}
	return phone[len(phone)-n:]
}
