package domain

import "time"

type User struct {
	ID             string
	IDNumber       string
	FirstName      string
	LastName       string
	Email          string
	Phone          string
	PasswordHash   string // argon2 encoded, empty for seeded accounts
	Vehicles       []Vehicle
	PaymentHistory []PaymentRecord
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Registrations returns the registration numbers of every owned vehicle in
// list order.
func (u User) Registrations() []string {
	regs := make([]string, 0, len(u.Vehicles))
	for _, v := range u.Vehicles {
		regs = append(regs, v.Registration)
	}
	return regs
}

// ProfileUpdate carries the mutable profile fields. Nil fields are left as is.
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
	Email     *string
	Phone     *string
	IDNumber  *string
}

type Vehicle struct {
	ID           string
	UserID       string
	Registration string
	Make         string
	Model        string
	Year         int
	CreatedAt    time.Time
}
