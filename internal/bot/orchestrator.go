package bot

import (
	"context"
	"fmt"
	"log"

	"github.com/rogelio-fraga-dev/barberbot/internal/ai"
	"github.com/rogelio-fraga-dev/barberbot/internal/config"
	"github.com/rogelio-fraga-dev/barberbot/internal/evolution"
	"github.com/rogelio-fraga-dev/barberbot/internal/metrics"
	"github.com/rogelio-fraga-dev/barberbot/internal/store"
	"github.com/rogelio-fraga-dev/barberbot/pkg/models"
)

const adminMenuText = "🛠️ *PAINEL CENTRAL - LH BARBEARIA*\n\n" +
	"*1* - 📊 Ver Resumo\n" +
	"*2* - 📢 Disparar Avisos (Base)\n" +
	"*3* - 🎯 Disparar Prospecção\n" +
	"*4* - ⏸️ Pausar bot (Cliente)\n" +
	"*5* - ▶️ Retomar bot (Cliente)\n" +
	"*6* - 📅 Ver Agenda Salva\n" +
	"*7* - 📥 Importar Cliente (Manual)\n" +
	"*8* - 📸 Ler Agenda (Foto)"

// Sender is the outbound half of the gateway the core depends on.
type Sender interface {
	SendText(phone, text string) error
	SendList(phone, title, description, buttonText, footer string, sections []evolution.Section) error
}

// MediaFetcher resolves media payloads that arrive without inline content.
type MediaFetcher interface {
	FetchMediaBase64(messageID string) (string, error)
}

// AI is the language-model collaborator. All three calls are slow and
// fallible; the orchestrator degrades to canned responses on error.
type AI interface {
	CompleteChat(ctx context.Context, history []ai.Turn, userMessage string) (string, error)
	ExtractAgendaFromImage(ctx context.Context, imageBase64, mimeType string) (string, error)
	TranscribeAudio(ctx context.Context, audioBase64, mimeType string) (string, error)
}

// AgendaIngestor turns extracted agenda JSON into scheduled reminders.
type AgendaIngestor interface {
	ProcessAgenda(agendaJSON string) (int, error)
	Summary() (string, error)
}

// Orchestrator wires the classification pipeline to the admin and customer
// flows. One instance is shared by all webhook workers.
type Orchestrator struct {
	cfg          *config.Config
	sender       Sender
	media        MediaFetcher
	ai           AI
	agenda       AgendaIngestor
	contacts     *store.ContactStore
	interactions *store.InteractionStore
	actions      *store.ActionStore
	Dedup        *DedupGuard
	Pauses       *PauseRegistry
	adminStates  *AdminStates
}

func NewOrchestrator(
	cfg *config.Config,
	sender Sender,
	media MediaFetcher,
	aiClient AI,
	agenda AgendaIngestor,
	contacts *store.ContactStore,
	interactions *store.InteractionStore,
	actions *store.ActionStore,
) *Orchestrator {
	return &Orchestrator{
		cfg:          cfg,
		sender:       sender,
		media:        media,
		ai:           aiClient,
		agenda:       agenda,
		contacts:     contacts,
		interactions: interactions,
		actions:      actions,
		Dedup:        NewDedupGuard(interactions),
		Pauses:       NewPauseRegistry(),
		adminStates:  NewAdminStates(),
	}
}

// ProcessEvent runs one inbound event through the pipeline: classify,
// deduplicate, then route to the admin or customer flow. It never returns an
// error: a fault processing one event must not affect the next, so failures
// are logged and swallowed here.
func (o *Orchestrator) ProcessEvent(ctx context.Context, event *models.WebhookEvent) {
	classification, phone := Classify(event, o.cfg.AdminPhone)
	if classification == SenderIgnored {
		metrics.EventsProcessed.WithLabelValues("ignored").Inc()
		return
	}

	if !o.Dedup.ShouldProcess(event.MessageID()) {
		metrics.DuplicatesDropped.Inc()
		return
	}

	if classification == SenderAdmin {
		metrics.EventsProcessed.WithLabelValues("admin").Inc()
		log.Printf("[webhook] admin message from %s", phone)
		o.processAdminEvent(ctx, event, phone)
		return
	}

	metrics.EventsProcessed.WithLabelValues("customer").Inc()
	if o.Pauses.IsPaused(phone) {
		log.Printf("[webhook] customer %s is paused (human handoff), bot silenced", phone)
		return
	}
	o.processCustomerEvent(ctx, event, phone)
}

// --- Admin flow ---

func (o *Orchestrator) processAdminEvent(ctx context.Context, event *models.WebhookEvent, phone string) {
	if event.HasDocument() {
		o.adminStates.Clear(phone)
		o.handleAdminCSV(event, phone)
		return
	}
	if event.HasImage() {
		o.adminStates.Clear(phone)
		o.handleAdminAgendaImage(ctx, event, phone)
		return
	}

	command := event.MessageText()
	if event.HasAudio() {
		b64, ok := o.mediaBase64(event)
		if !ok {
			return
		}
		o.sendText(phone, "🎧 Ouvindo seu áudio...")
		transcribed, err := o.ai.TranscribeAudio(ctx, b64, event.MimeType())
		if err != nil {
			log.Printf("Error transcribing admin audio: %v", err)
			o.sendText(phone, "❌ Não consegui entender o áudio. Pode digitar?")
			return
		}
		// Free speech with no active step is just echoed back transcribed.
		if o.adminStates.Get(phone).Step == StepNone && !IsSystemCommand(transcribed) {
			o.sendText(phone, "📝 *Transcrição Livre:*\n"+transcribed)
			return
		}
		command = transcribed
	}

	if command == "" {
		return
	}

	state := o.adminStates.Get(phone)
	next, effects := TransitionAdmin(state, command, o.Pauses.ListPaused())
	o.adminStates.Set(phone, next)
	o.applyAdminEffects(phone, effects)
}

func (o *Orchestrator) handleAdminCSV(event *models.WebhookEvent, phone string) {
	b64, ok := o.mediaBase64(event)
	if !ok {
		o.sendText(phone, "❌ O arquivo CSV chegou corrompido.")
		return
	}
	o.sendText(phone, "⏳ Lendo a base de clientes do CSV...")
	imported, err := o.contacts.ImportFromCSVBase64(b64)
	if err != nil {
		log.Printf("Error importing CSV: %v", err)
		o.sendText(phone, "❌ Erro ao processar o CSV.")
		return
	}
	o.sendText(phone, fmt.Sprintf("✅ Importação Concluída!\nForam salvos/atualizados *%d* clientes.", imported))
}

func (o *Orchestrator) handleAdminAgendaImage(ctx context.Context, event *models.WebhookEvent, phone string) {
	b64, ok := o.mediaBase64(event)
	if !ok {
		o.sendText(phone, "❌ A imagem não pôde ser decodificada.")
		return
	}
	o.sendText(phone, "⏳ Visão Computacional ativada. Lendo horários...")
	agendaJSON, err := o.ai.ExtractAgendaFromImage(ctx, b64, event.MimeType())
	if err != nil {
		log.Printf("Error extracting agenda from image: %v", err)
		o.sendText(phone, "❌ Erro na IA ao ler a imagem.")
		return
	}
	created, err := o.agenda.ProcessAgenda(agendaJSON)
	if err != nil {
		log.Printf("Error processing agenda: %v", err)
		o.sendText(phone, "❌ Erro na IA ao ler a imagem.")
		return
	}
	o.sendText(phone, fmt.Sprintf("✅ Agenda lida com sucesso! %d clientes identificados para receber o lembrete. Digite *6* para conferir.", created))
}

// mediaBase64 returns the inline media payload or fetches it from the
// gateway by message id.
func (o *Orchestrator) mediaBase64(event *models.WebhookEvent) (string, bool) {
	if event.Data != nil && event.Data.Base64 != "" {
		return event.Data.Base64, true
	}
	b64, err := o.media.FetchMediaBase64(event.MessageID())
	if err != nil {
		log.Printf("Error fetching media for message %s: %v", event.MessageID(), err)
		return "", false
	}
	return b64, true
}

func (o *Orchestrator) applyAdminEffects(adminPhone string, effects []Effect) {
	for _, effect := range effects {
		switch effect.Kind {
		case EffectReply:
			o.sendText(adminPhone, effect.Text)

		case EffectSendMenu:
			o.sendText(adminPhone, adminMenuText)

		case EffectShowSummary:
			total, err := o.contacts.Count()
			if err != nil {
				log.Printf("Error counting contacts: %v", err)
			}
			pending, err := o.actions.PendingCount()
			if err != nil {
				log.Printf("Error counting pending actions: %v", err)
			}
			o.sendText(adminPhone, fmt.Sprintf(
				"📊 *Resumo BarberBot*\n\n👥 Clientes na Base: %d\n⏰ Lembretes pendentes: %d\n✅ Inteligência Artificial Online.",
				total, pending))

		case EffectShowAgenda:
			summary, err := o.agenda.Summary()
			if err != nil {
				log.Printf("Error building agenda summary: %v", err)
				summary = "Nenhum agendamento salvo."
			}
			o.sendText(adminPhone, "📅 *Agenda Salva*\n\n"+summary)

		case EffectShowResumeList:
			o.sendText(adminPhone, o.renderResumeList(effect.Options))

		case EffectBroadcast:
			go o.Broadcast(adminPhone, effect.Text, effect.Prospect)

		case EffectPause:
			o.Pauses.Pause(effect.Phone, 60)

		case EffectResume:
			o.Pauses.Resume(effect.Phone)
			o.sendText(adminPhone, "▶️ Robô religado para: *"+o.contactLabel(effect.Phone)+"*")

		case EffectImportContact:
			if err := o.contacts.Upsert(effect.Phone, effect.Name); err != nil {
				log.Printf("Error importing contact %s: %v", effect.Phone, err)
			}
		}
	}
}

func (o *Orchestrator) renderResumeList(phones []string) string {
	out := "▶️ *Retomar Robô - Clientes Pausados*\n\n"
	for i, phone := range phones {
		out += fmt.Sprintf("*%d* - %s\n", i+1, o.contactLabel(phone))
	}
	out += "\nDigite o *NÚMERO DA OPÇÃO* (Ex: 1) para religar o robô."
	return out
}

func (o *Orchestrator) contactLabel(phone string) string {
	contact, err := o.contacts.Find(phone)
	if err != nil || contact.Name == "" {
		return phone
	}
	return contact.Name
}

// --- Shared send helpers ---

func (o *Orchestrator) sendText(phone, text string) {
	if err := o.sender.SendText(phone, text); err != nil {
		metrics.MessagesSent.WithLabelValues("error").Inc()
		log.Printf("Error sending text to %s: %v", phone, err)
		return
	}
	metrics.MessagesSent.WithLabelValues("ok").Inc()
}

// saveAndSend logs the outbound interaction before handing the message to
// the gateway, so the conversation window stays accurate even if the send
// fails halfway.
func (o *Orchestrator) saveAndSend(phone, content string) {
	if err := o.interactions.Append(phone, "BOT", content, ""); err != nil {
		log.Printf("Error logging outbound interaction for %s: %v", phone, err)
	}
	o.sendText(phone, content)
}
