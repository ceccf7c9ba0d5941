package models

// University is a catalog entry offering degree programs.
type University struct {
	ID          string  `db:"id" json:"id"`
	Name        string  `db:"name" json:"name"`
	Website     string  `db:"website" json:"website"`
	Country     string  `db:"country" json:"country"`
	Description string  `db:"description" json:"description"`
	Logo        *string `db:"logo" json:"logo"`
}

// Program is a degree program offered by a university.
type Program struct {
	ID           string  `db:"id" json:"id"`
	UniversityID string  `db:"university_id" json:"universityId"`
	Name         string  `db:"name" json:"name"`
	Degree       string  `db:"degree" json:"degree"`
	Language     string  `db:"language" json:"language"`
	Years        int     `db:"years" json:"years"`
	Deadline     string  `db:"deadline" json:"deadline"`
	Fee          float64 `db:"fee" json:"fee"`
	Currency     string  `db:"currency" json:"currency"`
	Description  string  `db:"description" json:"description"`
}
