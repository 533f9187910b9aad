package entity

import "time"

// Department representa un departamento de la organización.
// LocationCode es el código con el que los documentos registran su ubicación física.
type Department struct {
	ID           string
	Code         string
	Name         string
	LocationCode string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
