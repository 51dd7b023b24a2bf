package contracts

import (
	"context"

	"github.com/light-bringer/rawsy-service/internal/app/notification/domain"
)

// NotificationRepository persists notifications.
type NotificationRepository interface {
	Save(ctx context.Context, n *domain.Notification) error
	// ListByUser returns the user's notifications newest first.
	ListByUser(ctx context.Context, userID string, limit int) ([]*domain.Notification, error)
}

// UserDirectory resolves accounts owned by the identity service.
type UserDirectory interface {
	// GetRecipient returns domain.ErrUserNotFound when the user does not exist.
	GetRecipient(ctx context.Context, userID string) (*domain.Recipient, error)
	// FindWishlistWatchers returns every user whose wishlist contains productID.
	FindWishlistWatchers(ctx context.Context, productID string) ([]*domain.Recipient, error)
}

// PushMessage is what a push transport delivers to each device.
type PushMessage struct {
	Title string
	Body  string
	Data  map[string]string
}

// PushTransport delivers one message to many devices in a single call.
type PushTransport interface {
	SendMulticast(ctx context.Context, tokens []string, msg PushMessage) error
}
