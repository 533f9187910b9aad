package entity

import "time"

// User representa un usuario del sistema (pertenece a un Department).
type User struct {
	ID           string
	DepartmentID string
	Email        string
	Name         string
	Role         string
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Actor identidad de quien ejecuta una acción, tal como la entrega la capa de autenticación.
type Actor struct {
	ID           string
	DepartmentID string
}
