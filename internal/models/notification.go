package models

// NotificationType distinguishes the event that produced a notification.
type NotificationType string

const (
	NotificationMessage NotificationType = "MESSAGE"
	NotificationStatus  NotificationType = "STATUS"
)

// Notification is a per-user inbox entry created as a side effect of
// messaging or status-change events. It is never created directly via API.
type Notification struct {
	ID        string           `db:"id" json:"id"`
	UserID    string           `db:"user_id" json:"userId"`
	Title     string           `db:"title" json:"title"`
	Message   string           `db:"message" json:"message"`
	Link      string           `db:"link" json:"link"`
	IsRead    bool             `db:"is_read" json:"isRead"`
	CreatedAt string           `db:"created_at" json:"createdAt"`
	Type      NotificationType `db:"type" json:"type"`
}
