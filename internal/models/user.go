package models

import (
	"time"
)

// Gender is the single-character gender code stored for a user.
type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
)

// Valid reports whether g is one of the recognized gender codes.
func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

// User represents one person seeking a roommate match.
type User struct {
	ID               int64   `db:"id" json:"id"`
	Email            string  `db:"email" json:"email"`
	Phone            string  `db:"phone" json:"phone"`
	FirstName        string  `db:"first_name" json:"first_name"`
	TelegramUsername *string `db:"telegram_username" json:"telegram_username"`
	TelegramUserID   *int64  `db:"telegram_user_id" json:"telegram_user_id"`
	Gender           Gender  `db:"gender" json:"gender"`
	// MonthBudget keeps the original wire name "month_budjet" for API compatibility.
	MonthBudget  int64   `db:"month_budjet" json:"month_budjet"`
	Comment      *string `db:"comment" json:"comment"`
	Photo        *string `db:"photo" json:"photo"`
	PasswordHash string  `db:"password_hash" json:"-"` // Не отдаем хеш пароля

	IsActive           bool `db:"is_active" json:"is_active"`
	IsStaff            bool `db:"is_staff" json:"is_staff"`
	IsSuperuser        bool `db:"is_superuser" json:"is_superuser"`
	IsActiveAccount    bool `db:"is_active_account" json:"is_active_account"`
	IsConfirmedAccount bool `db:"is_confirmed_account" json:"is_confirmed_account"`

	LastLogin       *time.Time `db:"last_login" json:"last_login"`
	DatetimeCreated time.Time  `db:"datetime_created" json:"datetime_created"`
	DatetimeUpdated time.Time  `db:"datetime_updated" json:"datetime_updated"`
	DatetimeDeleted *time.Time `db:"datetime_deleted" json:"-"`

	// Districts is loaded separately (many-to-many), not scanned from the users row.
	Districts []District `json:"districts,omitempty"`
}

// IsDeleted reports whether the user is soft-deleted.
func (u *User) IsDeleted() bool {
	return u.DatetimeDeleted != nil
}

// IsEligible reports whether the user may appear as a match candidate:
// not soft-deleted and with an active account.
func (u *User) IsEligible() bool {
	return !u.IsDeleted() && u.IsActiveAccount
}
