package model

import "time"

type UserRole string

const (
	UserRoleStudent UserRole = "student"
	UserRoleTeacher UserRole = "teacher"
	UserRoleAdmin   UserRole = "admin"
)

// User is a directory entry. The ledger looks up display names here but does
// not own user records.
type User struct {
	ID           string // UUID
	Name         string
	Role         UserRole
	Grade        string // optional, students only
	RegisteredAt time.Time
}
