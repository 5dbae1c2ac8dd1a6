package models

type Role struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"uniqueIndex"`

	Users []User
}

// Константы для RoleID, используемые по всему приложению.
// RoleAdmin - суперпользователь: проходит любую проверку policy.
const (
	RoleGuest  uint = 0
	RoleWriter uint = 1
	RoleLead   uint = 2
	RoleAdmin  uint = 3
)
