package models

const (
	StudentRole = "student"
	AdminRole   = "admin"
)

type User struct {
	ID       string
	Username string
	Password string
	Email    string
	Roles    []string
}
