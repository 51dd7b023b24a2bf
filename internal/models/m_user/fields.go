package m_user

// Field name constants for the users table. Accounts are owned by the
// identity service; this service only reads them.
const (
	TableName = "users"

	UserID       = "user_id"
	Name         = "name"
	Role         = "role"
	DeviceTokens = "device_tokens"
	CreatedAt    = "created_at"
)

func Columns() []string {
	return []string{UserID, Name, Role, DeviceTokens, CreatedAt}
}
