package entity

// Document variante cerrada de los documentos distribuibles: InvoiceDocument | AdditionalDocument.
// El método no exportado impide implementaciones fuera de este paquete.
type Document interface {
	Ref() DocumentRef
	isDocument()
}

var (
	_ Document = InvoiceDocument{}
	_ Document = AdditionalDocument{}
)
