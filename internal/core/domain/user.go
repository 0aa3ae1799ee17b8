package domain

import (
	"time"
)

type User struct {
	ID        int64     `db:"id"`
	Email     string    `db:"email"`
	FullName  string    `db:"full_name"`
	Phone     *string   `db:"phone"`
	Bio       *string   `db:"bio"`
	Location  *string   `db:"location"`
	IsActive  bool      `db:"is_active"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (u *User) IsDeactivated() bool {
	return !u.IsActive
}

// DeactivatedUser is what a soft deactivation reports back.
type DeactivatedUser struct {
	ID       int64  `db:"id"`
	Email    string `db:"email"`
	IsActive bool   `db:"is_active"`
}

// DeletedUser identifies a row that was permanently removed.
type DeletedUser struct {
	ID    int64  `db:"id"`
	Email string `db:"email"`
}

// ProfileField names a column a profile update may touch. Only the values
// listed in UpdatableFields ever reach an UPDATE statement.
type ProfileField string

const (
	FieldFullName ProfileField = "full_name"
	FieldPhone    ProfileField = "phone"
	FieldBio      ProfileField = "bio"
	FieldLocation ProfileField = "location"
)

var UpdatableFields = []ProfileField{
	FieldFullName,
	FieldPhone,
	FieldBio,
	FieldLocation,
}

// UserChanges holds the fields a caller explicitly sent. A nil value clears
// the column; a missing key leaves it untouched.
type UserChanges map[ProfileField]*string

func (c UserChanges) IsEmpty() bool {
	return len(c) == 0
}

func (c UserChanges) Has(field ProfileField) bool {
	_, ok := c[field]
	return ok
}
