// Package push delivers notifications to user devices.
package push

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
	fcm "google.golang.org/api/fcm/v1"
	"google.golang.org/api/option"

	"github.com/light-bringer/rawsy-service/internal/app/notification/contracts"
)

// sender delivers a single FCM message.
type sender interface {
	Send(ctx context.Context, msg *fcm.Message) error
}

type fcmSender struct {
	svc    *fcm.Service
	parent string
}

func (s *fcmSender) Send(ctx context.Context, msg *fcm.Message) error {
	_, err := s.svc.Projects.Messages.Send(s.parent, &fcm.SendMessageRequest{Message: msg}).Context(ctx).Do()
	return err
}

// FCMConfig configures the Firebase Cloud Messaging transport.
type FCMConfig struct {
	ProjectID       string
	CredentialsFile string
	RatePerSecond   float64
	Burst           int
	Concurrency     int
}

// FCMTransport fans one message out to many device tokens through the FCM
// HTTP v1 API. Sends are rate limited and bounded in concurrency.
type FCMTransport struct {
	sender      sender
	limiter     *rate.Limiter
	concurrency int
	log         *zap.Logger
}

// NewFCMTransport creates the FCM client. Without a credentials file the
// application default credentials are used.
func NewFCMTransport(ctx context.Context, cfg FCMConfig, log *zap.Logger) (*FCMTransport, error) {
	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("fcm project id is required")
	}

	opts := []option.ClientOption{option.WithScopes(fcm.FirebaseMessagingScope)}
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	svc, err := fcm.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create FCM client: %w", err)
	}

	return newFCMTransport(&fcmSender{svc: svc, parent: "projects/" + cfg.ProjectID}, cfg, log), nil
}

func newFCMTransport(s sender, cfg FCMConfig, log *zap.Logger) *FCMTransport {
	if log == nil {
		log = zap.NewNop()
	}
	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 8
	}
	return &FCMTransport{
		sender:      s,
		limiter:     rate.NewLimiter(limit, burst),
		concurrency: concurrency,
		log:         log.Named("push.fcm"),
	}
}

// SendMulticast sends msg to every token. Individual token failures are
// logged and counted; the call fails only if no device accepted the message.
func (t *FCMTransport) SendMulticast(ctx context.Context, tokens []string, msg contracts.PushMessage) error {
	if len(tokens) == 0 {
		return nil
	}

	failures := make([]error, len(tokens))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(t.concurrency)
	for i, token := range tokens {
		g.Go(func() error {
			if err := t.limiter.Wait(gctx); err != nil {
				return err
			}
			failures[i] = t.sender.Send(gctx, &fcm.Message{
				Token:        token,
				Notification: &fcm.Notification{Title: msg.Title, Body: msg.Body},
				Data:         msg.Data,
			})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("push multicast interrupted: %w", err)
	}

	var (
		failed   int
		firstErr error
	)
	for i, err := range failures {
		if err == nil {
			continue
		}
		failed++
		if firstErr == nil {
			firstErr = err
		}
		t.log.Debug("device push failed", zap.Int("token_index", i), zap.Error(err))
	}
	if failed == len(tokens) {
		return fmt.Errorf("all %d device pushes failed: %w", failed, firstErr)
	}
	if failed > 0 {
		t.log.Warn("some device pushes failed", zap.Int("failed", failed), zap.Int("total", len(tokens)))
	}
	return nil
}
