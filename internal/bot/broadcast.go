package bot

import (
	"fmt"
	"log"
	"time"
)

// Broadcast fans one message out to every known contact, skipping the
// administrator, pacing sends to stay under the gateway's rate limits.
// A failure on one target never aborts the remaining sends. Runs detached
// from the admin flow that triggered it.
func (o *Orchestrator) Broadcast(adminPhone, message string, prospect bool) {
	contacts, err := o.contacts.All()
	if err != nil {
		log.Printf("Error loading contacts for broadcast: %v", err)
		o.sendText(adminPhone, "❌ Não consegui carregar a base de clientes para o disparo.")
		return
	}

	o.sendText(adminPhone, fmt.Sprintf("🚀 Iniciando disparo para %d contatos...", len(contacts)))

	header := "📢 *Aviso LH Barbearia*\n\n"
	if prospect {
		header = "💈 *LH Barbearia* 💈\n\n"
	}

	sent := 0
	for _, contact := range contacts {
		if IsAdminPhone(adminPhone, contact.PhoneNumber) {
			continue
		}
		if err := o.sender.SendText(contact.PhoneNumber, header+message); err != nil {
			log.Printf("Failed to broadcast to %s: %v", contact.PhoneNumber, err)
			continue
		}
		sent++
		time.Sleep(o.cfg.BroadcastDelay)
	}

	o.sendText(adminPhone, fmt.Sprintf("✅ Disparo finalizado! Alcançou %d contatos.", sent))
}
