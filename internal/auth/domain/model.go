package domain

import "time"

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleSeller Role = "seller"
)

type User struct {
	ID        int64
	Name      string
	Email     string
	Role      Role
	StoreID   int64
	CreatedAt time.Time
}

func (u User) Clone() User { return u }

func (u User) IsAdmin() bool { return u.Role == RoleAdmin }
