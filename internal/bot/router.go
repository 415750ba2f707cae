package bot

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/rogelio-fraga-dev/barberbot/internal/ai"
	"github.com/rogelio-fraga-dev/barberbot/pkg/models"
)

const (
	historyWindow = 10

	aiFallbackReply = "Desculpe, estou terminando um corte aqui! Pode tentar novamente em instantes? ✂️"
	mediaOnlyReply  = "Recebi seu arquivo! 📎 Se precisar de algo, é só escrever ou mandar um áudio."
	handoffReply    = "⏳ Certo! Pausei o assistente virtual. Aguarde um instante que o Luiz já vai te atender por aqui mesmo."
)

// processCustomerEvent routes one inbound customer message: canned menu
// answers first, then menu and greeting flows, and only then the AI.
func (o *Orchestrator) processCustomerEvent(ctx context.Context, event *models.WebhookEvent, phone string) {
	if event.HasSticker() {
		log.Printf("[customer] sticker from %s, ignoring", phone)
		return
	}

	pushName := ""
	if event.Data != nil {
		pushName = event.Data.PushName
	}

	content := event.MessageText()
	transcribed := false
	if event.HasAudio() {
		if b64, ok := o.mediaBase64(event); ok {
			text, err := o.ai.TranscribeAudio(ctx, b64, event.MimeType())
			if err != nil {
				log.Printf("Error transcribing customer audio: %v", err)
			} else {
				content = text
				transcribed = true
			}
		}
		if !transcribed {
			content = "[Áudio]"
		}
	}
	mediaOnly := content == ""
	if mediaOnly {
		content = "[Arquivo]"
	}

	contact, err := o.contacts.FindOrCreate(phone, pushName)
	if err != nil {
		log.Printf("Error loading contact %s: %v", phone, err)
		return
	}

	history, err := o.interactions.Recent(phone, historyWindow)
	if err != nil {
		log.Printf("Error loading history for %s: %v", phone, err)
	}
	firstMessage := len(history) == 0

	// Inbound is logged first, so a crash mid-send still leaves an accurate
	// record of what the customer said.
	if err := o.interactions.Append(phone, "USER", content, event.MessageID()); err != nil {
		log.Printf("Error logging inbound interaction for %s: %v", phone, err)
	}

	if mediaOnly && !transcribed {
		o.saveAndSend(phone, mediaOnlyReply)
		return
	}

	text := strings.TrimSpace(content)

	if option := ResolveMenuOption(text); option != "" {
		if option == RowAttendant {
			o.Pauses.Pause(phone, 60)
			o.saveAndSend(phone, handoffReply)
			return
		}
		o.saveAndSend(phone, MenuResponse(option))
		return
	}

	if IsHandoffRequest(text) {
		o.Pauses.Pause(phone, 60)
		o.saveAndSend(phone, handoffReply)
		return
	}

	if IsMenuRequest(text) {
		o.sendMenu(phone)
		return
	}

	if firstMessage || IsGreeting(text) {
		firstName := "amigo(a)"
		if contact.Name != "" && contact.Name != "Cliente" {
			firstName = strings.SplitN(contact.Name, " ", 2)[0]
		}
		o.saveAndSend(phone, "Olá, "+firstName+"! 👋 Bem-vindo(a) à *LH Barbearia*!\n_Corte novo, autoestima renovada!_ 💈")
		time.Sleep(1 * time.Second)
		o.sendMenu(phone)
		return
	}

	turns := make([]ai.Turn, 0, len(history))
	for _, entry := range history {
		role := "user"
		if entry.Type == "BOT" {
			role = "assistant"
		}
		turns = append(turns, ai.Turn{Role: role, Content: entry.Content})
	}

	response, err := o.ai.CompleteChat(ctx, turns, content)
	if err != nil {
		log.Printf("Error from AI for %s: %v", phone, err)
		response = aiFallbackReply
	}
	o.saveAndSend(phone, response)
}

// sendMenu tries the interactive list first; any gateway error falls back to
// the plain-text rendering of the same menu.
func (o *Orchestrator) sendMenu(phone string) {
	if err := o.interactions.Append(phone, "BOT", MenuText(), ""); err != nil {
		log.Printf("Error logging menu interaction for %s: %v", phone, err)
	}
	err := o.sender.SendList(phone,
		"💈 LH Barbearia",
		"Como posso te ajudar hoje? Escolha uma opção:",
		"Ver opções",
		"Corte novo, autoestima renovada!",
		MenuSections())
	if err != nil {
		log.Printf("Interactive list send failed for %s, falling back to text menu: %v", phone, err)
		o.sendText(phone, MenuText())
		return
	}
}
