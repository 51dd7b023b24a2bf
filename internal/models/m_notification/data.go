package m_notification

import (
	"time"

	"cloud.google.com/go/spanner"
)

// Row represents the database model for the notifications table.
type Row struct {
	NotificationID string           `spanner:"notification_id"`
	UserID         string           `spanner:"user_id"`
	Type           string           `spanner:"type"`
	Title          string           `spanner:"title"`
	Body           string           `spanner:"body"`
	Data           spanner.NullJSON `spanner:"data"`
	Read           bool             `spanner:"read"`
	CreatedAt      time.Time        `spanner:"created_at"`
}
