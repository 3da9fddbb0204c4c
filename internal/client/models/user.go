package models

import (
	"fmt"

	"github.com/passy1977/pocket-web-backend/internal/common"
)

// UserStatus values follow the server numbering.
type UserStatus int

const (
	UserStatusActive      UserStatus = 0
	UserStatusNotActive   UserStatus = 1
	UserStatusDeleted     UserStatus = 2
	UserStatusInvalidated UserStatus = 3
)

func (s UserStatus) String() string {
	switch s {
	case UserStatusActive:
		return "active"
	case UserStatusNotActive:
		return "not-active"
	case UserStatusDeleted:
		return "deleted"
	case UserStatusInvalidated:
		return "invalidated"
	default:
		return fmt.Sprintf("user-status(%d)", int(s))
	}
}

func (s UserStatus) Valid() bool {
	return s >= UserStatusActive && s <= UserStatusInvalidated
}

// User is the authenticated account. It is the unit of remote identity sent
// on every sync; TimestampLastUpdate is the optimistic concurrency token the
// server checks against its own copy.
type User struct {
	ID     int64
	Email  string `validate:"required,email"`
	Name   string
	Status UserStatus `validate:"user_status"`

	// Password is never logged. Call Wipe when the user is discarded.
	Password []byte

	TimestampLastUpdate int64
}

// Clone returns a deep copy, including its own copy of the password.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	if u.Password != nil {
		c.Password = append([]byte(nil), u.Password...)
	}
	return &c
}

// Wipe zeroes the password in place.
func (u *User) Wipe() {
	if u == nil {
		return
	}
	common.WipeByteArray(u.Password)
	u.Password = nil
}

// String never includes the password.
func (u *User) String() string {
	if u == nil {
		return "<nil user>"
	}
	return fmt.Sprintf("%s (id=%d, %s)", u.Email, u.ID, u.Status)
}
