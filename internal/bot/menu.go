package bot

import (
	"strings"

	"github.com/rogelio-fraga-dev/barberbot/internal/evolution"
)

// Row ids of the interactive customer menu. When the user taps an option the
// gateway delivers the row id back as the message text.
const (
	RowAddress   = "menu_endereco"
	RowServices  = "menu_servicos"
	RowProducts  = "menu_produtos"
	RowSchedule  = "menu_agendar"
	RowAttendant = "menu_atendente"
	RowInstagram = "menu_instagram"
)

// menuRows maps the numeric aliases "1".."6" in order.
var menuRows = []string{
	RowAddress, RowServices, RowProducts,
	RowSchedule, RowAttendant, RowInstagram,
}

// ResolveMenuOption converts a message into a menu row id, accepting either
// the row id itself or a single digit within the option range. Returns ""
// when the message is not a menu selection.
func ResolveMenuOption(text string) string {
	t := strings.TrimSpace(text)
	for _, id := range menuRows {
		if id == t {
			return id
		}
	}
	if len(t) == 1 && t[0] >= '1' && t[0] <= '0'+byte(len(menuRows)) {
		return menuRows[t[0]-'1']
	}
	return ""
}

// MenuResponse returns the canned reply for a selected menu option.
func MenuResponse(rowID string) string {
	switch rowID {
	case RowAddress:
		return "📍 *LH Barbearia*\nR. Floriano Peixoto, 585 - Miranda, Araguari/MG.\n\nhttps://maps.app.goo.gl/lhbarbearia"
	case RowServices:
		return "💰 *Serviços e Valores*\n\n✂️ Corte: a partir de R$35\n🧔 Barba: R$25\n✨ Combo Corte + Barba: R$55\n\nPlanos VIP disponíveis, pergunte!"
	case RowProducts:
		return "💈 Produtos (pomadas, óleos e minoxidil) disponíveis na loja. Pergunte os valores por aqui!"
	case RowSchedule:
		return "📅 Agende seu horário pelo link:\nhttps://cashbarber.com.br/lhbarbearia"
	case RowAttendant:
		return "⏳ Certo! Pausei o assistente virtual. Aguarde um instante que o Luiz já vai te atender por aqui mesmo."
	case RowInstagram:
		return "📸 Nos siga no Instagram:\nhttps://instagram.com/lhbarbearia"
	}
	return "Opção não reconhecida. Digite *menu* para ver as opções."
}

// MenuSections builds the interactive list payload (a single section with all
// the options).
func MenuSections() []evolution.Section {
	return []evolution.Section{
		{
			Title: "Escolha uma opção",
			Rows: []evolution.Row{
				{ID: RowAddress, Title: "📍 Endereço", Description: "Texto + Google Maps"},
				{ID: RowServices, Title: "💰 Serviços", Description: "Tabela de preços"},
				{ID: RowProducts, Title: "💈 Produtos", Description: "Fotos e valores"},
				{ID: RowSchedule, Title: "📅 Agendar", Description: "Link para agendamento"},
				{ID: RowAttendant, Title: "🗣️ Falar com Atendente", Description: "Chama o Luiz"},
				{ID: RowInstagram, Title: "📸 Instagram", Description: "Nos siga nas redes"},
			},
		},
	}
}

// MenuText is the plain-text rendering used when the interactive list send
// fails.
func MenuText() string {
	return "📋 *Menu de opções:*\n\n" +
		"*1* - 📍 Endereço (Texto + Google Maps)\n" +
		"*2* - 💰 Serviços e Tabela de Preços\n" +
		"*3* - 💈 Produtos (Fotos e Valores)\n" +
		"*4* - 📅 Agendar Horário (Link externo)\n" +
		"*5* - 🗣️ Falar com Atendente (Chama o Luiz)\n" +
		"*6* - 📸 Instagram (Nos siga nas redes)\n\n" +
		"Digite o número da opção (1 a 6) ou toque na lista."
}

// IsMenuRequest reports whether the user is asking to see the menu.
func IsMenuRequest(text string) bool {
	t := strings.ToLower(strings.TrimSpace(text))
	switch t {
	case "menu", "opções", "opcoes", "opção", "opcao", "ver opções", "ver opcoes":
		return true
	}
	return strings.HasPrefix(t, "quero ver o menu") || strings.HasPrefix(t, "mostrar menu")
}

var greetings = []string{"oi", "olá", "ola", "bom dia", "boa tarde", "boa noite"}

// IsGreeting matches the salutations that trigger the welcome + menu flow.
func IsGreeting(text string) bool {
	t := strings.ToLower(strings.TrimSpace(text))
	for _, g := range greetings {
		if t == g || strings.HasPrefix(t, g+" ") || strings.HasPrefix(t, g+",") || strings.HasPrefix(t, g+"!") {
			return true
		}
	}
	return false
}

// IsHandoffRequest matches free-text asks for a human attendant.
func IsHandoffRequest(text string) bool {
	t := strings.ToLower(strings.TrimSpace(text))
	return strings.Contains(t, "falar com") || strings.Contains(t, "atendente") || strings.Contains(t, "luiz")
}
