package flyer

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
)

// Data son los campos que se imprimen en el volante de mascota perdida.
// Layout estático A4; no es un formato de intercambio, solo algo imprimible.
type Data struct {
	PetName     string
	Species     string
	Breed       string
	Colors      string
	Size        string
	LastSeenAt  string
	Description string
	Contact     string
}

// Render genera el PDF del volante "SE BUSCA".
func Render(d Data) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Missing pet flyer", false)
	pdf.AddPage()

	// Cabecera
	pdf.SetFont("Helvetica", "B", 36)
	pdf.SetTextColor(180, 30, 30)
	pdf.CellFormat(0, 18, "SE BUSCA", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "B", 24)
	pdf.SetTextColor(0, 0, 0)
	name := strings.TrimSpace(d.PetName)
	if name == "" {
		name = "Mascota perdida"
	}
	pdf.CellFormat(0, 14, name, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// Placeholder de foto: recuadro centrado
	pageW, _ := pdf.GetPageSize()
	boxW, boxH := 110.0, 80.0
	x := (pageW - boxW) / 2
	pdf.SetDrawColor(120, 120, 120)
	pdf.Rect(x, pdf.GetY(), boxW, boxH, "D")
	pdf.SetFont("Helvetica", "I", 10)
	pdf.SetXY(x, pdf.GetY()+boxH/2-3)
	pdf.CellFormat(boxW, 6, "FOTO", "", 1, "C", false, 0, "")
	pdf.SetY(pdf.GetY() + boxH/2 + 6)

	// Detalles
	pdf.SetFont("Helvetica", "", 12)
	rows := [][2]string{
		{"Especie", d.Species},
		{"Raza", d.Breed},
		{"Colores", d.Colors},
		{"Tamano", d.Size},
		{"Visto por ultima vez", d.LastSeenAt},
	}
	for _, row := range rows {
		if strings.TrimSpace(row[1]) == "" {
			continue
		}
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(55, 8, row[0]+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 12)
		pdf.MultiCell(0, 8, row[1], "", "L", false)
	}

	if desc := strings.TrimSpace(d.Description); desc != "" {
		pdf.Ln(3)
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 6, desc, "", "L", false)
	}

	// Contacto
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 16)
	contact := strings.TrimSpace(d.Contact)
	if contact != "" {
		pdf.CellFormat(0, 10, "Contacto: "+contact, "", 1, "C", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("flyer render: %w", err)
	}
	return buf.Bytes(), nil
}
