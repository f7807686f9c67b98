package user

import (
	"fmt"
	"time"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusDisabled Status = "disabled"
)

// User is the reference record grants point at: it is checked for existence
// and shown as the grantor in history rows. Accounts are managed elsewhere.
type User struct {
	id        uint
	username  string
	name      string
	status    Status
	createdAt time.Time
	updatedAt time.Time
}

func NewUser(username, name string) (*User, error) {
	if username == "" {
		return nil, fmt.Errorf("username is required")
	}
	if len(username) > 64 {
		return nil, fmt.Errorf("username too long (max 64 characters)")
	}
	if name == "" {
		name = username
	}

	now := time.Now()
	return &User{
		username:  username,
		name:      name,
		status:    StatusActive,
		createdAt: now,
		updatedAt: now,
	}, nil
}

func ReconstructUser(id uint, username, name string, status Status, createdAt, updatedAt time.Time) (*User, error) {
	if id == 0 {
		return nil, fmt.Errorf("user ID cannot be zero")
	}
	return &User{
		id:        id,
		username:  username,
		name:      name,
		status:    status,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}, nil
}

func (u *User) ID() uint {
	return u.id
}

func (u *User) SetID(id uint) error {
	if u.id != 0 {
		return fmt.Errorf("user ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("user ID cannot be zero")
	}
	u.id = id
	return nil
}

func (u *User) Username() string { return u.username }
func (u *User) Name() string { return u.name }
func (u *User) Status() Status { return u.status }
func (u *User) CreatedAt() time.Time { return u.createdAt }
func (u *User) UpdatedAt() time.Time { return u.updatedAt }

func (u *User) IsActive() bool {
	return u.status == StatusActive
}
