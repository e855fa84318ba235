package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin        Role = "ADMIN"
	RoleEntrepreneur Role = "ENTREPRENEUR"
	RoleReviewer     Role = "REVIEWER"
	RoleSponsor      Role = "SPONSOR"
)

// ParseRole accepts any casing; stored values are canonical upper-case.
func ParseRole(raw string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(raw))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleEntrepreneur:
		return RoleEntrepreneur, nil
	case RoleReviewer:
		return RoleReviewer, nil
	case RoleSponsor:
		return RoleSponsor, nil
	}
	return "", fmt.Errorf("unknown role %q", raw)
}

type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
