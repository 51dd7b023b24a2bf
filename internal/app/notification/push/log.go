package push

import (
	"context"

	"go.uber.org/zap"

	"github.com/light-bringer/rawsy-service/internal/app/notification/contracts"
)

// LogTransport writes pushes to the log instead of a device gateway.
// Used in local development and when no FCM project is configured.
type LogTransport struct {
	log *zap.Logger
}

func NewLogTransport(log *zap.Logger) *LogTransport {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogTransport{log: log.Named("push.log")}
}

func (t *LogTransport) SendMulticast(_ context.Context, tokens []string, msg contracts.PushMessage) error {
	t.log.Info("push multicast",
		zap.Int("tokens", len(tokens)),
		zap.String("title", msg.Title),
		zap.String("type", msg.Data["type"]),
	)
	return nil
}
