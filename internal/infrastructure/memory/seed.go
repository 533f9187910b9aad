package memory

import (
	"time"

	"github.com/jhoicas/Distribucion-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// SeedDemo carga datos de ejemplo: dos departamentos, un tipo, un usuario por departamento
// y facturas con adjuntos en ubicaciones distintas.
func SeedDemo(s *Store) {
	now := time.Now().UTC()
	s.PutDepartment(entity.Department{ID: "dep-contabilidad", Code: "CONT", Name: "Contabilidad", LocationCode: "LOC-CONT", CreatedAt: now, UpdatedAt: now})
	s.PutDepartment(entity.Department{ID: "dep-tesoreria", Code: "TES", Name: "Tesorería", LocationCode: "LOC-TES", CreatedAt: now, UpdatedAt: now})
	s.PutDepartment(entity.Department{ID: "dep-archivo", Code: "ARC", Name: "Archivo Central", LocationCode: "LOC-ARC", CreatedAt: now, UpdatedAt: now})

	s.PutDistributionType(entity.DistributionType{ID: "type-normal", Code: "NOR", Name: "Normal", Color: "#5BC0DE", Priority: 2})
	s.PutDistributionType(entity.DistributionType{ID: "type-urgente", Code: "URG", Name: "Urgente", Color: "#D9534F", Priority: 1})

	s.PutUser(entity.User{ID: "usr-ana", DepartmentID: "dep-contabilidad", Email: "ana@example.com", Name: "Ana Gómez", Role: "analista", Status: "active", CreatedAt: now, UpdatedAt: now})
	s.PutUser(entity.User{ID: "usr-luis", DepartmentID: "dep-tesoreria", Email: "luis@example.com", Name: "Luis Pérez", Role: "tesorero", Status: "active", CreatedAt: now, UpdatedAt: now})

	s.PutAdditionalDocument(entity.AdditionalDocument{ID: "ad-oc-100", Number: "OC-100", Date: now.AddDate(0, 0, -10), Kind: "Orden de compra", Location: "LOC-CONT"})
	s.PutAdditionalDocument(entity.AdditionalDocument{ID: "ad-rem-7", Number: "REM-7", Date: now.AddDate(0, 0, -9), Kind: "Remisión", Location: "LOC-ARC"})
	s.PutAdditionalDocument(entity.AdditionalDocument{ID: "ad-acta-3", Number: "ACTA-3", Date: now.AddDate(0, 0, -3), Kind: "Acta de entrega", Location: "LOC-CONT"})

	s.PutInvoice(entity.InvoiceDocument{
		ID: "inv-fe-1001", Number: "FE-1001", Date: now.AddDate(0, 0, -8),
		SupplierName: "Suministros Andinos SAS", Description: "Papelería",
		Amount: decimal.RequireFromString("1250000.00"), Currency: "COP", Location: "LOC-CONT",
		Attachments: []entity.AttachedDocument{{ID: "ad-oc-100"}, {ID: "ad-rem-7"}},
	})
	s.PutInvoice(entity.InvoiceDocument{
		ID: "inv-fe-1002", Number: "FE-1002", Date: now.AddDate(0, 0, -2),
		SupplierName: "Logística del Norte", Description: "Transporte",
		Amount: decimal.RequireFromString("480000.00"), Currency: "COP", Location: "LOC-CONT",
		Attachments: []entity.AttachedDocument{{ID: "ad-acta-3"}},
	})
}
