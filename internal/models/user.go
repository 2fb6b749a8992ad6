package models

import "golang.org/x/crypto/bcrypt"

type Role string

const (
	RoleResponder   Role = "Responder"
	RoleCoordinator Role = "Coordinator"
	RoleAdmin       Role = "Admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleResponder, RoleCoordinator, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Role         Role   `json:"role"`
}

func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}
