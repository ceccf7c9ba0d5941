package models

// Student is an applicant managed by the office or by an external agent.
type Student struct {
	ID               string  `db:"id" json:"id"`
	FirstName        string  `db:"first_name" json:"firstName"`
	LastName         string  `db:"last_name" json:"lastName"`
	PassportNumber   string  `db:"passport_number" json:"passportNumber"`
	FatherName       string  `db:"father_name" json:"fatherName"`
	MotherName       string  `db:"mother_name" json:"motherName"`
	Gender           string  `db:"gender" json:"gender"`
	Phone            string  `db:"phone" json:"phone"`
	Email            string  `db:"email" json:"email"`
	Nationality      string  `db:"nationality" json:"nationality"`
	DegreeTarget     string  `db:"degree_target" json:"degreeTarget"`
	DOB              string  `db:"dob" json:"dob"`
	ResidenceCountry string  `db:"residence_country" json:"residenceCountry"`
	UserID           *string `db:"user_id" json:"userId"`
}

// StudentFilter restricts student listings. OwnerID is set for agent callers.
type StudentFilter struct {
	OwnerID string
}
