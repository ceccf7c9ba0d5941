package models

import "github.com/lib/pq"

// Application links one student to one program with a free-text workflow
// status and an ordered list of stored attachment filenames.
type Application struct {
	ID        string         `db:"id" json:"id"`
	StudentID string         `db:"student_id" json:"studentId"`
	ProgramID string         `db:"program_id" json:"programId"`
	Status    string         `db:"status" json:"status"`
	Semester  string         `db:"semester" json:"semester"`
	CreatedAt string         `db:"created_at" json:"createdAt"`
	Files     pq.StringArray `db:"files" json:"files"`
	UserID    *string        `db:"user_id" json:"userId"`
}

// ApplicationDetail joins the owning agent's contact fields onto the record.
type ApplicationDetail struct {
	Application
	AgentName        *string `db:"agent_name"`
	AgentPhone       *string `db:"agent_phone"`
	AgentCountryCode *string `db:"agent_country_code"`
}

// ApplicationView is the listing shape: files rendered as download URLs plus
// the owning agent's contact information (null when unowned).
type ApplicationView struct {
	ID               string   `json:"id"`
	StudentID        string   `json:"studentId"`
	ProgramID        string   `json:"programId"`
	Status           string   `json:"status"`
	Semester         string   `json:"semester"`
	CreatedAt        string   `json:"createdAt"`
	Files            []string `json:"files"`
	UserID           *string  `json:"userId"`
	AgentName        *string  `json:"agentName"`
	AgentPhone       *string  `json:"agentPhone"`
	AgentCountryCode *string  `json:"agentCountryCode"`
}

// ApplicationFilter restricts application listings. OwnerID is set for agents.
type ApplicationFilter struct {
	OwnerID string
}

// FileInfo pairs a stored attachment's display name with its download URL.
type FileInfo struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}
