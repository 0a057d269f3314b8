package handlers

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"bank-assist/internal/convo"

	"go.mau.fi/whatsmeow/types/events"
)

const nonTextNudge = "I can only read text messages for now. Type what you need and I'll help."

// WhatsAppHandler feeds inbound WhatsApp events into the dialogue engine.
type WhatsAppHandler struct {
	engine   *convo.Engine
	gateway  convo.Gateway
	sessions *sessions
	logger   *slog.Logger
}

// NewWhatsAppHandler constructs the handler.
func NewWhatsAppHandler(engine *convo.Engine, gateway convo.Gateway, logger *slog.Logger) *WhatsAppHandler {
	return &WhatsAppHandler{
		engine:   engine,
		gateway:  gateway,
		sessions: newSessions(),
		logger:   logger.With("component", "wa_handler"),
	}
}

// HandleEvent processes one inbound message event.
func (h *WhatsAppHandler) HandleEvent(evt *events.Message) {
	if evt.Info.MessageSource.IsFromMe {
		return
	}

	sender := evt.Info.Sender.String()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	text := extractText(evt)
	if text == "" {
		if err := h.gateway.SendText(ctx, sender, nonTextNudge); err != nil {
			h.logger.Warn("failed nudging non-text sender", "error", err)
		}
		return
	}

	conv := h.sessions.get(sender, sender)
	h.engine.Handle(ctx, conv, convo.NewUserMessage(text), false)
}

func extractText(evt *events.Message) string {
	msg := evt.Message
	switch {
	case msg.GetConversation() != "":
		return strings.TrimSpace(msg.GetConversation())
	case msg.ExtendedTextMessage != nil:
		return strings.TrimSpace(msg.GetExtendedTextMessage().GetText())
	default:
		return ""
	}
}
