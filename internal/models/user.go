package models

import (
	"strings"
	"time"
)

type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleSupervisor Role = "SUPERVISOR"
	RoleEngineer   Role = "ENGINEER"
	RoleUser       Role = "USER"
)

func ParseRole(s string) Role {
	switch r := Role(strings.ToUpper(s)); r {
	case RoleAdmin, RoleSupervisor, RoleEngineer:
		return r
	default:
		return RoleUser
	}
}

type User struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Password  string     `json:"-"` // bcrypt hash
	Role      Role       `json:"role"`
	IsActive  bool       `json:"isActive"`
	LastLogin *time.Time `json:"lastLogin"`
}
