package wa

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"go.mau.fi/whatsmeow"
	waProto "go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	waLog "go.mau.fi/whatsmeow/util/log"
	"google.golang.org/protobuf/proto"

	_ "modernc.org/sqlite"
)

// Gateway connects the bot to WhatsApp. It implements convo.Gateway for
// outbound text and forwards inbound message events to a registered handler.
type Gateway struct {
	client *whatsmeow.Client
	logger *slog.Logger
}

// Config holds WhatsApp gateway settings.
type Config struct {
	StorePath string
	LogLevel  string
}

// NewGateway opens the device store and builds the WhatsApp client.
func NewGateway(ctx context.Context, cfg Config, logger *slog.Logger) (*Gateway, error) {
	if dir := filepath.Dir(cfg.StorePath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	dbLog := waLog.Stdout("wa-db", cfg.LogLevel, false)
	address := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(10000)", cfg.StorePath)
	container, err := sqlstore.New(ctx, "sqlite", address, dbLog)
	if err != nil {
		return nil, fmt.Errorf("open whatsapp store: %w", err)
	}

	device, err := container.GetFirstDevice(ctx)
	if err != nil {
		return nil, fmt.Errorf("load whatsapp device: %w", err)
	}

	client := whatsmeow.NewClient(device, waLog.Stdout("wa", cfg.LogLevel, false))
	return &Gateway{
		client: client,
		logger: logger.With("component", "wa_gateway"),
	}, nil
}

// OnMessage registers a handler for inbound message events.
func (g *Gateway) OnMessage(handler func(evt *events.Message)) {
	g.client.AddEventHandler(func(rawEvt any) {
		if evt, ok := rawEvt.(*events.Message); ok {
			handler(evt)
		}
	})
}

// Connect establishes the WhatsApp session. An unpaired device prints QR
// codes to the log for pairing.
func (g *Gateway) Connect(ctx context.Context) error {
	if g.client.Store.ID == nil {
		qrChan, err := g.client.GetQRChannel(ctx)
		if err != nil {
			return fmt.Errorf("get qr channel: %w", err)
		}
		if err := g.client.Connect(); err != nil {
			return fmt.Errorf("connect: %w", err)
		}
		go func() {
			for evt := range qrChan {
				if evt.Event == "code" {
					g.logger.Info("scan QR code to pair", "code", evt.Code)
				} else {
					g.logger.Info("pairing event", "event", evt.Event)
				}
			}
		}()
		return nil
	}
	if err := g.client.Connect(); err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	return nil
}

// SendText implements convo.Gateway. to must be a parseable JID.
func (g *Gateway) SendText(ctx context.Context, to string, text string) error {
	jid, err := types.ParseJID(to)
	if err != nil {
		return fmt.Errorf("parse recipient %q: %w", to, err)
	}
	_, err = g.client.SendMessage(ctx, jid, &waProto.Message{
		Conversation: proto.String(text),
	})
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// Disconnect tears down the WhatsApp session.
func (g *Gateway) Disconnect() {
	g.client.Disconnect()
}
