package repository

import (
	"context"

	"github.com/jhoicas/Distribucion-api/internal/domain/entity"
)

// DocumentCatalog adaptador de solo lectura sobre los catálogos de facturas y documentos adicionales.
type DocumentCatalog interface {
	// ListCandidates lista documentos ubicados en el departamento (según su código de ubicación)
	// que coinciden con searchText. Las facturas incluyen sus adjuntos.
	ListCandidates(ctx context.Context, departmentID string, docType entity.DocumentType, searchText string) ([]entity.Document, error)
	// FindDocument devuelve (nil, nil) si el documento no existe.
	FindDocument(ctx context.Context, ref entity.DocumentRef) (entity.Document, error)
}

// DocumentLocationRepository actualiza la ubicación física de un documento (dentro de la tx del caller).
type DocumentLocationRepository interface {
	UpdateLocation(ctx context.Context, ref entity.DocumentRef, locationCode string) error
}
