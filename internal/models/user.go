package models

// User is an operator account: an admin, a staff user or an external agent.
type User struct {
	ID           string  `db:"id" json:"id"`
	Name         string  `db:"name" json:"name"`
	Email        string  `db:"email" json:"email"`
	PasswordHash string  `db:"password_hash" json:"-"`
	Role         Role    `db:"role" json:"role"`
	Phone        *string `db:"phone" json:"phone"`
	CountryCode  *string `db:"country_code" json:"countryCode"`
}

// UserInfo is the projection returned by listings and login.
type UserInfo struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Role        Role    `json:"role"`
	Phone       *string `json:"phone"`
	CountryCode *string `json:"countryCode"`
}

// Info converts a stored user into its public projection.
func (u *User) Info() UserInfo {
	return UserInfo{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        u.Role,
		Phone:       u.Phone,
		CountryCode: u.CountryCode,
	}
}
