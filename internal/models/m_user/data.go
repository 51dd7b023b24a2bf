package m_user

import "time"

// Data represents the database model for the users table.
type Data struct {
	UserID       string    `spanner:"user_id"`
	Name         string    `spanner:"name"`
	Role         string    `spanner:"role"`
	DeviceTokens []string  `spanner:"device_tokens"`
	CreatedAt    time.Time `spanner:"created_at"`
}
