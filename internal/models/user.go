package models

import (
	"fmt"
	"time"
)

type Role string

const (
	RoleBasic Role = "basic"
	RoleAdmin Role = "admin"
)

type AuthProvider string

const (
	ProviderManual AuthProvider = "manual"
	ProviderGoogle AuthProvider = "google"
)

const DefaultProfilePic = "/uploads/profile/default-avatar.jpg"

type User struct {
	ID           string
	Email        string
	Name         string
	Password     string
	AuthProvider AuthProvider
	Role         Role
	ProfilePic   string
	Address      string
	Contact      string
	City         string
	State        string
	PinCode      string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserSummary is the subset of a user embedded into task responses.
type UserSummary struct {
	ID    string
	Name  string
	Email string
}

func (u *User) Summary() *UserSummary {
	return &UserSummary{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
	}
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func ParseRole(s string) (Role, error) {
	switch normalizeEnum(s) {
	case "basic":
		return RoleBasic, nil
	case "admin":
		return RoleAdmin, nil
	}
	return "", fmt.Errorf("invalid role %q", s)
}
