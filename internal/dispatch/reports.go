package dispatch

import (
	"fmt"
	"log"
	"time"

	"github.com/rogelio-fraga-dev/barberbot/internal/config"
	"github.com/rogelio-fraga-dev/barberbot/internal/models"
	"github.com/rogelio-fraga-dev/barberbot/internal/store"
)

// AgendaSummarizer renders the saved agenda for the admin reports.
type AgendaSummarizer interface {
	Summary() (string, error)
}

// Reporter sends the two daily admin messages: the morning status report and
// the nightly agenda nudge.
type Reporter struct {
	contacts *store.ContactStore
	actions  *store.ActionStore
	agenda   AgendaSummarizer
	sender   Sender
	cfg      *config.Config
	now      func() time.Time
}

func NewReporter(contacts *store.ContactStore, actions *store.ActionStore, agenda AgendaSummarizer, sender Sender, cfg *config.Config) *Reporter {
	return &Reporter{
		contacts: contacts,
		actions:  actions,
		agenda:   agenda,
		sender:   sender,
		cfg:      cfg,
		now:      time.Now,
	}
}

// SendMorningReport greets the admin at 08:00 with the contact count and the
// agenda already mapped for the day.
func (r *Reporter) SendMorningReport() {
	total, err := r.contacts.Count()
	if err != nil {
		log.Printf("[reports] error counting contacts: %v", err)
	}
	summary, err := r.agenda.Summary()
	if err != nil {
		log.Printf("[reports] error building agenda summary: %v", err)
		summary = "Nenhum agendamento salvo para hoje."
	}

	report := fmt.Sprintf("☀️ *Bom dia, Chefe!* O robô já acordou. 🤖\n\n"+
		"👥 Base de Clientes: %d\n\n"+
		"📅 *Nossa agenda mapeada para hoje é:*\n\n%s\n\n"+
		"🚀 Fique tranquilo, eu cuidarei de enviar o lembrete 1 hora antes para cada um deles!",
		total, summary)

	if err := r.sender.SendText(r.cfg.AdminPhone, report); err != nil {
		log.Printf("[reports] error sending morning report: %v", err)
	}
}

// SendNightlyAgendaNudge runs at 21:00. When tomorrow has no reminders
// programmed yet it asks the admin for the agenda photo; otherwise it
// confirms the plan with cut times and shortened phones.
func (r *Reporter) SendNightlyAgendaNudge() {
	now := r.now()
	startOfTomorrow := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	endOfTomorrow := startOfTomorrow.AddDate(0, 0, 1)

	tomorrows, err := r.actions.InWindowByKind(startOfTomorrow, endOfTomorrow, models.ActionKindReminder)
	if err != nil {
		log.Printf("[reports] error loading tomorrow's reminders: %v", err)
		return
	}

	var message string
	if len(tomorrows) == 0 {
		message = "🌙 *Opa Chefe, boa noite!*\n\n" +
			"⚠️ Ainda não recebi a agenda de amanhã.\n\n" +
			"📸 *Mande a foto da agenda agora* para eu programar os lembretes dos clientes e garantir que ninguém falte!\n" +
			"\n_Estou aguardando..._"
	} else {
		lead := time.Duration(r.cfg.ReminderLeadMinutes) * time.Minute
		message = "🌙 *Resumo para Amanhã (Já programado)*\n\n" +
			"✅ A agenda já está no sistema! Vou enviar lembretes para:\n\n"
		for _, reminder := range tomorrows {
			cut := reminder.ExecutionTime.Add(lead).Format("15:04")
			message += "✂️ " + cut + " - Final " + lastDigits(reminder.CustomerPhone, 4) + "\n"
		}
		message += "\nPode descansar que eu cuido dos avisos! 💤"
	}

	if err := r.sender.SendText(r.cfg.AdminPhone, message); err != nil {
		log.Printf("[reports] error sending nightly nudge: %v", err)
	}
}

func lastDigits(phone string, n int) string {
	if len(phone) <= n {
		return "---"
	}
	return phone[len(phone)-n:]
}
