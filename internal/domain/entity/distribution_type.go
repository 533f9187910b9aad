package entity

// DistributionType clasificación de la distribución (prioridad/categoría). Solo cosmético, pero obligatorio.
type DistributionType struct {
	ID       string
	Code     string
	Name     string
	Color    string // color hexadecimal para la UI, ej: "#D9534F"
	Priority int
}
