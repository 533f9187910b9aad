// Package xmlexport serializa el snapshot de remisión a XML para intercambio con sistemas de archivo.
package xmlexport

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"strconv"
	"time"

	"github.com/beevik/etree"
	"github.com/ucarion/c14n"

	appdist "github.com/jhoicas/Distribucion-api/internal/application/distribution"
)

// Namespace del documento de remisión.
const Namespace = "urn:distribucion:transmittal:1"

var _ appdist.TransmittalXMLExporter = (*Exporter)(nil)

// Exporter implementa distribution.TransmittalXMLExporter con etree.
type Exporter struct{}

// NewExporter construye el exportador.
func NewExporter() *Exporter { return &Exporter{} }

// ExportTransmittalXML construye el XML y devuelve su digest SHA-256 (base64) sobre la forma canónica C14N.
func (e *Exporter) ExportTransmittalXML(s *appdist.TransmittalSnapshot) ([]byte, string, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("Transmittal")
	root.CreateAttr("xmlns", Namespace)
	root.CreateAttr("number", s.Number)
	root.CreateAttr("status", string(s.Status))

	text(root, "DistributionID", s.DistributionID)
	text(root, "Date", s.Date.UTC().Format(time.RFC3339))
	text(root, "DocumentType", string(s.DocumentType))

	typ := root.CreateElement("Type")
	typ.CreateAttr("code", s.Type.Code)
	typ.SetText(s.Type.Name)

	department(root, "Origin", s.Origin)
	department(root, "Destination", s.Destination)

	people := root.CreateElement("Responsibles")
	person(people, "CreatedBy", s.CreatedBy)
	person(people, "SenderVerifier", s.SenderVerifier)
	person(people, "ReceiverVerifier", s.ReceiverVerifier)

	if s.SentAt != nil {
		text(root, "SentAt", s.SentAt.UTC().Format(time.RFC3339))
	}
	if s.ReceivedAt != nil {
		text(root, "ReceivedAt", s.ReceivedAt.UTC().Format(time.RFC3339))
	}
	if s.CompletedAt != nil {
		text(root, "CompletedAt", s.CompletedAt.UTC().Format(time.RFC3339))
	}
	if s.Notes != "" {
		text(root, "Notes", s.Notes)
	}

	docs := root.CreateElement("Documents")
	docs.CreateAttr("total", strconv.Itoa(s.TotalDocuments))
	docs.CreateAttr("hasDiscrepancies", strconv.FormatBool(s.HasDiscrepancies))
	if len(s.Documents) == 0 {
		docs.CreateElement("Empty").SetText(s.EmptyMessage)
	}
	for _, d := range s.Documents {
		el := docs.CreateElement("Document")
		el.CreateAttr("type", string(d.DocumentType))
		el.CreateAttr("id", d.DocumentID)
		el.CreateAttr("autoIncluded", strconv.FormatBool(d.AutoIncluded))
		text(el, "Number", d.Number)
		if !d.Date.IsZero() {
			text(el, "Date", d.Date.Format("2006-01-02"))
		}
		if d.Description != "" {
			text(el, "Description", d.Description)
		}
		if d.Amount != nil {
			amt := el.CreateElement("Amount")
			amt.CreateAttr("currency", d.Currency)
			amt.SetText(d.Amount.StringFixed(2))
		}
		if d.VerificationStatus != "" {
			v := el.CreateElement("Verification")
			v.CreateAttr("status", string(d.VerificationStatus))
			if d.VerificationNotes != "" {
				v.SetText(d.VerificationNotes)
			}
		}
	}

	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, "", fmt.Errorf("xml: serializar remisión: %w", err)
	}
	body := etree.NewDocument()
	body.SetRoot(root.Copy())
	raw, err := body.WriteToBytes()
	if err != nil {
		return nil, "", fmt.Errorf("xml: serializar cuerpo: %w", err)
	}
	digest, err := Digest(raw)
	if err != nil {
		return nil, "", err
	}
	return out, digest, nil
}

// Digest SHA-256 en base64 de la forma canónica C14N del elemento raíz (sin declaración XML).
func Digest(data []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Entity = map[string]string{}
	canonical, err := c14n.Canonicalize(dec)
	if err != nil {
		return "", fmt.Errorf("xml: canonicalizar: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return base64.StdEncoding.EncodeToString(sum[:]), nil
}

func text(parent *etree.Element, tag, value string) {
	parent.CreateElement(tag).SetText(value)
}

func department(parent *etree.Element, tag string, d appdist.TransmittalDepartment) {
	el := parent.CreateElement(tag)
	el.CreateAttr("id", d.ID)
	el.CreateAttr("code", d.Code)
	el.CreateAttr("location", d.LocationCode)
	el.SetText(d.Name)
}

func person(parent *etree.Element, tag string, p appdist.TransmittalPerson) {
	if p.ID == "" {
		return
	}
	el := parent.CreateElement(tag)
	el.CreateAttr("id", p.ID)
	el.SetText(p.Name)
}

// DocumentDigest recalcula el digest de un XML de remisión ya exportado (con declaración XML).
// Sirve para comprobar que un archivo no fue alterado.
func DocumentDigest(data []byte) (string, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return "", fmt.Errorf("xml: leer remisión: %w", err)
	}
	root := doc.Root()
	if root == nil {
		return "", fmt.Errorf("xml: documento sin raíz")
	}
	body := etree.NewDocument()
	body.SetRoot(root.Copy())
	raw, err := body.WriteToBytes()
	if err != nil {
		return "", fmt.Errorf("xml: serializar cuerpo: %w", err)
	}
	return Digest(raw)
}
