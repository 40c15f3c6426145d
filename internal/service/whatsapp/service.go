package whatsapp

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	client "github.com/JayaniDinukshika/fuelx/pkg/clients/whatsapp"
)

// maxBodyLength is the WhatsApp limit on a text message body.
const maxBodyLength = 4096

// Notifier pushes text notifications to station staff.
type Notifier interface {
	NotifyManager(ctx context.Context, message string) error
}

// MetaNotifier sends notifications through the WhatsApp Cloud API.
type MetaNotifier struct {
	managerID string
	client    client.Client
	logger    *zap.Logger
}

// NewMetaNotifier wires a notifier that writes to managerID.
func NewMetaNotifier(managerID string, c client.Client, logger *zap.Logger) *MetaNotifier {
	n := &MetaNotifier{
		managerID: managerID,
		client:    c,
		logger:    logger,
	}
	if n.logger == nil {
		n.logger = zap.NewNop()
	}
	return n
}

// NotifyManager sends message to the station manager, split into as many
// WhatsApp messages as needed.
func (n *MetaNotifier) NotifyManager(ctx context.Context, message string) error {
	if n.managerID == "" {
		return errors.New("manager id is not configured")
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return errors.New("empty notification")
	}

	for i, part := range SplitMessage(message, maxBodyLength) {
		ctxWithTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
		resp, err := n.client.SendTextMessage(ctxWithTimeout, client.SendTextMessageRequest{
			To:   n.managerID,
			Body: part,
		})
		cancel()
		if err != nil {
			return err
		}

		messageID := ""
		if resp != nil && len(resp.Messages) > 0 {
			messageID = resp.Messages[0].ID
		}
		n.logger.Info("manager notified", zap.Int("part", i+1), zap.String("message_id", messageID))
	}
	return nil
}

// SplitMessage cuts message into chunks of at most limit bytes, preferring
// line breaks and never splitting a UTF-8 sequence.
func SplitMessage(message string, limit int) []string {
	if limit <= 0 || len(message) <= limit {
		return []string{message}
	}

	var parts []string
	for len(message) > limit {
		cut := strings.LastIndexByte(message[:limit], '\n')
		if cut <= 0 {
			cut = limit
			for cut > 0 && !startsRune(message[cut]) {
				cut--
			}
			if cut == 0 {
				cut = limit
			}
		}
		parts = append(parts, strings.TrimRight(message[:cut], "\n"))
		message = strings.TrimLeft(message[cut:], "\n")
	}
	if message != "" {
		parts = append(parts, message)
	}
	return parts
}

func startsRune(b byte) bool {
	return b&0xC0 != 0x80
}
