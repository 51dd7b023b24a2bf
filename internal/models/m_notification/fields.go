package m_notification

// Field name constants for the notifications table.
const (
	TableName = "notifications"

	NotificationID = "notification_id"
	UserID         = "user_id"
	Type           = "type"
	Title          = "title"
	Body           = "body"
	Data           = "data"
	Read           = "read"
	CreatedAt      = "created_at"

	IndexByUser = "notifications_by_user"
)

// Columns lists every column in Row order.
func Columns() []string {
	return []string{NotificationID, UserID, Type, Title, Body, Data, Read, CreatedAt}
}
