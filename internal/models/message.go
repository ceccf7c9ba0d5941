package models

// ApplicationMessage is one entry in an application's conversation thread.
// Sender is "ADMIN" for office staff; any other value represents the
// application owner's side.
type ApplicationMessage struct {
	ID            string `db:"id" json:"id"`
	ApplicationID string `db:"application_id" json:"applicationId"`
	Sender        string `db:"sender" json:"sender"`
	Message       string `db:"message" json:"message"`
	CreatedAt     string `db:"created_at" json:"createdAt"`
}
