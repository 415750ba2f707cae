// Package webhook is the gin ingress for Evolution API callbacks: inbound
// messages, QR code updates, plus the health and QR endpoints.
package webhook

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rogelio-fraga-dev/barberbot/internal/bot"
	"github.com/rogelio-fraga-dev/barberbot/pkg/models"
)

// processTimeout bounds how long one event may hold a worker goroutine,
// AI calls included.
const processTimeout = 2 * time.Minute

type Handler struct {
	orchestrator *bot.Orchestrator
	qrFilePath   string
}

func NewHandler(orchestrator *bot.Orchestrator) *Handler {
	return &Handler{
		orchestrator: orchestrator,
		qrFilePath:   "qrcode-evolution.png",
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	group := r.Group("/api/webhook")
	{
		group.POST("", h.Receive)
		group.GET("/health", h.Health)
		group.GET("/qrcode", h.ServeQRCode)
	}
}

// envelope is the loose first parse of the callback body. The gateway emits
// many event types with different data shapes, so only the discriminator and
// the raw data are read here.
type envelope struct {
	Event    string          `json:"event"`
	Instance string          `json:"instance"`
	Data     json.RawMessage `json:"data"`
}

// Receive accepts any Evolution callback. Message events are handed to the
// orchestrator on a worker goroutine; QR updates are persisted to disk.
// Everything else is acknowledged and dropped.
func (h *Handler) Receive(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		log.Printf("[webhook] unparseable payload: %v", err)
		c.Status(http.StatusBadRequest)
		return
	}

	switch {
	case eventIs(env.Event, "qrcode.updated"):
		h.saveQRCode(env.Data)
		c.String(http.StatusOK, "QR Code recebido")

	case eventIs(env.Event, "messages.upsert"):
		var event models.WebhookEvent
		if err := json.Unmarshal(raw, &event); err != nil {
			log.Printf("[webhook] unparseable message event: %v", err)
			c.Status(http.StatusBadRequest)
			return
		}
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), processTimeout)
			defer cancel()
			h.orchestrator.ProcessEvent(ctx, &event)
		}()
		c.String(http.StatusOK, "Webhook recebido com sucesso")

	default:
		// presence.update, chats.update etc. are noise for this bot.
		c.String(http.StatusOK, "Webhook recebido com sucesso")
	}
}

// eventIs compares event names ignoring case and the dot/underscore
// spelling difference (the gateway sends both "messages.upsert" and
// "MESSAGES_UPSERT").
func eventIs(event, want string) bool {
	normalized := strings.ReplaceAll(strings.ToLower(event), "_", ".")
	return normalized == want
}

// qrData covers the two places the gateway has carried the QR image.
type qrData struct {
	Base64 string `json:"base64"`
	QR     string `json:"qr"`
}

// saveQRCode writes the QR PNG next to the binary so it can be scanned even
// when the gateway manager fails to display it.
func (h *Handler) saveQRCode(data json.RawMessage) {
	var qr qrData
	if err := json.Unmarshal(data, &qr); err != nil {
		log.Printf("[webhook] unparseable QR payload: %v", err)
		return
	}

	encoded := qr.Base64
	if encoded == "" {
		encoded = qr.QR
	}
	if idx := strings.Index(encoded, ","); idx >= 0 && strings.HasPrefix(encoded, "data:image") {
		encoded = encoded[idx+1:]
	}
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return
	}

	bytes, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil || len(bytes) == 0 {
		log.Printf("[webhook] could not decode QR image: %v", err)
		return
	}
	if err := os.WriteFile(h.qrFilePath, bytes, 0o644); err != nil {
		log.Printf("[webhook] could not save QR image: %v", err)
		return
	}
	log.Printf("[webhook] QR Code saved to %s", h.qrFilePath)
}

func (h *Handler) Health(c *gin.Context) {
	c.String(http.StatusOK, "BarberBot está online!")
}

// ServeQRCode returns the last QR image received, 404 when none arrived yet.
func (h *Handler) ServeQRCode(c *gin.Context) {
	bytes, err := os.ReadFile(h.qrFilePath)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Nenhum QR Code recebido ainda. Reinicie a conexão da instância."})
		return
	}
	c.Data(http.StatusOK, "image/png", bytes)
}
