package bot

import (
	"strconv"
	"strings"
	"sync"
)

// AdminStep enumerates the positions of the administrator's multi-turn
// command flow.
type AdminStep int

const (
	StepNone AdminStep = iota
	StepAwaitBroadcast
	StepAwaitProspect
	StepAwaitPauseTarget
	StepAwaitResumeChoice
	StepAwaitManualImport
)

// AdminState is the volatile per-admin cursor. ResumeOptions captures the
// paused list shown when entering StepAwaitResumeChoice, so the numbered
// selection stays valid even if the registry changes meanwhile.
type AdminState struct {
	Step          AdminStep
	ResumeOptions []string
}

// EffectKind labels the side effects an admin transition requests.
type EffectKind int

const (
	EffectReply EffectKind = iota // send Text to the admin
	EffectSendMenu                // send the full admin panel
	EffectShowSummary             // send the status summary
	EffectShowAgenda              // send the saved agenda
	EffectShowResumeList          // send the numbered paused list in Options
	EffectBroadcast               // fan out Text to the whole base
	EffectPause                   // silence the bot for Phone
	EffectResume                  // re-enable the bot for Phone
	EffectImportContact           // upsert Phone under Name
)

// Effect is one side effect produced by the admin state machine. The
// orchestrator executes effects in order; the transition itself touches
// nothing.
type Effect struct {
	Kind     EffectKind
	Text     string
	Phone    string
	Name     string
	Prospect bool
	Options  []string
}

func reply(text string) Effect {
	return Effect{Kind: EffectReply, Text: text}
}

// normalizeCommand lowercases and strips everything but letters, digits and
// spaces, so "Cancelar!" and "cancelar" read the same.
func normalizeCommand(input string) string {
	lower := strings.ToLower(strings.TrimSpace(input))
	var b strings.Builder
	for _, r := range lower {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == ' ' {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

func extractDigits(input string) string {
	return digitsOnly.ReplaceAllString(input, "")
}

// normalizeImportPhone prepends the country code to 10/11-digit local numbers.
func normalizeImportPhone(digits string) string {
	if len(digits) == 10 || len(digits) == 11 {
		return "55" + digits
	}
	return digits
}

// IsSystemCommand reports whether a transcription looks like one of the admin
// keywords rather than free speech.
func IsSystemCommand(text string) bool {
	t := normalizeCommand(text)
	for _, kw := range []string{"comando", "resumo", "aviso", "prospec", "pausar", "retomar", "agenda", "importar"} {
		if strings.Contains(t, kw) {
			return true
		}
	}
	return false
}

// TransitionAdmin is the admin state machine: given the current state, the
// inbound text and the currently paused phones, it returns the next state and
// the effects to execute. Pure, so the flows are unit-testable without any
// live collaborator.
func TransitionAdmin(state AdminState, input string, paused []string) (AdminState, []Effect) {
	original := strings.TrimSpace(input)
	cmd := normalizeCommand(input)

	if state.Step != StepNone {
		if strings.Contains(cmd, "cancela") {
			return AdminState{}, []Effect{{Kind: EffectSendMenu}}
		}
		return transitionStep(state, original, cmd)
	}
	return transitionStepless(cmd, paused)
}

// transitionStep handles input while a multi-turn flow is active. Every
// branch returns to stepless: an invalid answer cancels the flow instead of
// looping, so the admin can never get stuck mid-step.
func transitionStep(state AdminState, original, cmd string) (AdminState, []Effect) {
	switch state.Step {
	case StepAwaitBroadcast:
		return AdminState{}, []Effect{{Kind: EffectBroadcast, Text: original}}

	case StepAwaitProspect:
		return AdminState{}, []Effect{{Kind: EffectBroadcast, Text: original, Prospect: true}}

	case StepAwaitPauseTarget:
		target := extractDigits(cmd)
		if target == "" {
			return AdminState{}, []Effect{reply("❌ Formato inválido. Ação cancelada.")}
		}
		return AdminState{}, []Effect{
			{Kind: EffectPause, Phone: target},
			reply("⏸️ Robô silenciado com sucesso."),
		}

	case StepAwaitResumeChoice:
		digits := extractDigits(cmd)
		if index, err := strconv.Atoi(digits); err == nil && index >= 1 && index <= len(state.ResumeOptions) {
			return AdminState{}, []Effect{{Kind: EffectResume, Phone: state.ResumeOptions[index-1]}}
		}
		// A full phone number also works, even if it was never listed.
		if len(digits) >= 10 {
			return AdminState{}, []Effect{{Kind: EffectResume, Phone: digits}}
		}
		return AdminState{}, []Effect{reply("❌ Opção inválida. Ação cancelada.")}

	case StepAwaitManualImport:
		parts := strings.Split(original, ",")
		if len(parts) < 2 {
			return AdminState{}, []Effect{reply("❌ Formato incorreto. Use: Nome, Telefone")}
		}
		name := strings.TrimSpace(parts[0])
		phone := normalizeImportPhone(extractDigits(parts[1]))
		if name == "" || phone == "" {
			return AdminState{}, []Effect{reply("❌ Formato incorreto. Use: Nome, Telefone")}
		}
		return AdminState{}, []Effect{
			{Kind: EffectImportContact, Phone: phone, Name: name},
			reply("✅ Cliente *" + name + "* salvo!"),
		}
	}
	return AdminState{}, []Effect{{Kind: EffectSendMenu}}
}

// transitionStepless dispatches the numbered/keyword commands of the admin
// panel.
func transitionStepless(cmd string, paused []string) (AdminState, []Effect) {
	switch {
	case strings.Contains(cmd, "comando") || strings.Contains(cmd, "ajuda") || strings.Contains(cmd, "menu"):
		return AdminState{}, []Effect{{Kind: EffectSendMenu}}

	case cmd == "1" || strings.Contains(cmd, "resumo"):
		return AdminState{}, []Effect{{Kind: EffectShowSummary}}

	case cmd == "2" || (strings.Contains(cmd, "aviso") && strings.Contains(cmd, "base")):
		return AdminState{Step: StepAwaitBroadcast}, []Effect{
			reply("📢 *Disparo 1: Base de Clientes*\n\nEnvie agora a mensagem de aviso.\n_(Diga 'cancelar' para abortar)_"),
		}

	case cmd == "3" || strings.Contains(cmd, "prospec"):
		return AdminState{Step: StepAwaitProspect}, []Effect{
			reply("🎯 *Disparo 2: Prospecção*\n\nEnvie a sua mensagem de oferta.\n_(Diga 'cancelar' para abortar)_"),
		}

	case cmd == "4" || strings.Contains(cmd, "pausa"):
		return AdminState{Step: StepAwaitPauseTarget}, []Effect{
			reply("⏸️ *Pausar Robô*\nDigite o número do cliente com DDD."),
		}

	case cmd == "5" || strings.Contains(cmd, "retoma"):
		if len(paused) == 0 {
			return AdminState{}, []Effect{reply("▶️ *Retomar Robô*\n\nNenhum cliente está pausado no momento.")}
		}
		options := append([]string(nil), paused...)
		return AdminState{Step: StepAwaitResumeChoice, ResumeOptions: options},
			[]Effect{{Kind: EffectShowResumeList, Options: options}}

	case cmd == "6" || (strings.Contains(cmd, "agenda") && !strings.Contains(cmd, "ler")):
		return AdminState{}, []Effect{{Kind: EffectShowAgenda}}

	case cmd == "7" || strings.Contains(cmd, "importar"):
		return AdminState{Step: StepAwaitManualImport}, []Effect{
			reply("📥 *Importar Manual*\nDigite: Nome, Telefone"),
		}

	case cmd == "8" || strings.Contains(cmd, "ler agenda"):
		return AdminState{}, []Effect{
			reply("📸 Mande o print da agenda que eu farei a leitura automática."),
		}
	}

	return AdminState{}, []Effect{
		reply("Fala, Chefe! 💈 O que vamos fazer hoje?\nDigite *comandos* para abrir o Menu Completo."),
	}
}

// AdminStates is the shared, concurrency-safe map of per-admin cursors.
type AdminStates struct {
	mu     sync.Mutex
	states map[string]AdminState
}

func NewAdminStates() *AdminStates {
	return &AdminStates{states: make(map[string]AdminState)}
}

func (s *AdminStates) Get(phone string) AdminState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.states[phone]
}

func (s *AdminStates) Set(phone string, state AdminState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if state.Step == StepNone {
		delete(s.states, phone)
		return
	}
	s.states[phone] = state
}

func (s *AdminStates) Clear(phone string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, phone)
}
