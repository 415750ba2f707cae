// Package ai wraps the OpenAI API behind the three operations the bot needs:
// receptionist chat, agenda extraction from screenshots and audio transcription.
package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/rogelio-fraga-dev/barberbot/internal/config"
)

const receptionistPrompt = `Você é o assistente virtual oficial da **LH Barbearia** em Araguari, MG.
Seu objetivo é ser cordial, ágil e refletir a frase: "Corte novo, autoestima renovada!".

📋 **Informações da Barbearia:**
- **Endereço:** R. Floriano Peixoto, 585 - Miranda, Araguari.
- **Horário de Funcionamento:** Segunda a Sábado, das 09:00 às 20:00.
- **Almoço:** Fechado das 12:00 às 14:00.

⚙️ **Regras de Atendimento:**
1. Seja breve. Respostas curtas funcionam melhor no WhatsApp.
2. Se o cliente quiser agendar, mande o link de agendamento ou peça para digitar "2".
3. Se for algo complexo que você não sabe, peça para digitar "4" (Atendimento Humano).
4. Nunca invente preços que não estão na sua base.

💬 **Estilo de Fala:** Profissional mas acessível. Use emojis com moderação (✂️, 💈, 🔥).`

const agendaReaderPrompt = `Você é um assistente especializado em ler prints de sistemas de agendamento.

Sua tarefa: Analisar a imagem e extrair os agendamentos.
Retorne APENAS um JSON válido (sem markdown, sem blocos de código) no formato:
{"items":[{"name":"Nome do Cliente","phone":"5534999999999","time":"14:30","service":"Corte"}]}

Regras Críticas:
1. Extraia o telefone apenas com números. Se não tiver DDI (55), adicione se for Brasil.
2. Se o telefone não estiver visível, deixe vazio.
3. Horário deve ser HH:mm.`

// Turn is one prior exchange fed back to the model as conversation memory.
type Turn struct {
	Role    string // "user" or "assistant"
	Content string
}

type Client struct {
	client       openai.Client
	model        string
	whisperModel string
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		client:       openai.NewClient(option.WithAPIKey(cfg.OpenAIKey)),
		model:        cfg.OpenAIModel,
		whisperModel: cfg.OpenAIWhisperModel,
	}
}

// CompleteChat answers a customer message with the recent conversation window
// as context.
func (c *Client) CompleteChat(ctx context.Context, history []Turn, userMessage string) (string, error) {
	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(receptionistPrompt),
	}
	for _, turn := range history {
		if turn.Role == "assistant" {
			messages = append(messages, openai.AssistantMessage(turn.Content))
		} else {
			messages = append(messages, openai.UserMessage(turn.Content))
		}
	}
	messages = append(messages, openai.UserMessage(userMessage))

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(c.model),
		Messages: messages,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// ExtractAgendaFromImage runs the vision model over an agenda screenshot and
// returns the raw JSON it produced.
func (c *Client) ExtractAgendaFromImage(ctx context.Context, imageBase64, mimeType string) (string, error) {
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	dataURI := fmt.Sprintf("data:%s;base64,%s", mimeType, stripDataURI(imageBase64))

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(agendaReaderPrompt),
			openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
				openai.TextContentPart("Analise esta imagem e extraia os agendamentos em JSON."),
				openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{URL: dataURI}),
			}),
		},
	})
	if err != nil {
		return "", fmt.Errorf("vision completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("vision completion returned no choices")
	}

	// The model occasionally wraps the JSON in a markdown fence anyway.
	out := resp.Choices[0].Message.Content
	out = strings.ReplaceAll(out, "```json", "")
	out = strings.ReplaceAll(out, "```", "")
	return strings.TrimSpace(out), nil
}

// TranscribeAudio sends a voice note to Whisper and returns the text.
func (c *Client) TranscribeAudio(ctx context.Context, audioBase64, mimeType string) (string, error) {
	audioBytes, err := base64.StdEncoding.DecodeString(stripDataURI(audioBase64))
	if err != nil {
		return "", fmt.Errorf("invalid audio payload: %w", err)
	}
	if mimeType == "" {
		mimeType = "audio/ogg"
	}

	resp, err := c.client.Audio.Transcriptions.New(ctx, openai.AudioTranscriptionNewParams{
		Model: openai.AudioModel(c.whisperModel),
		File:  openai.File(bytes.NewReader(audioBytes), "audio.ogg", mimeType),
	})
	if err != nil {
		return "", fmt.Errorf("transcription failed: %w", err)
	}
	return strings.TrimSpace(resp.Text), nil
}

// stripDataURI drops a "data:...;base64," prefix when the gateway includes one.
func stripDataURI(b64 string) string {
	if idx := strings.Index(b64, ","); idx >= 0 && strings.HasPrefix(b64, "data:") {
		return b64[idx+1:]
	}
	return b64
}
