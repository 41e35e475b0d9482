// Package pdf builds the A4 reports handed out by the calculators and the
// export endpoints.
package pdf

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	family = "go"
	mono   = "gomono"

	lineH   = 6.0
	rowH    = 7.0
	ellipse = "..."

	// TimeLayout dd-mm-YYYY HH:MM:SS
	TimeLayout = "02-01-2006 15:04:05"
)

type rgb struct{ r, g, b int }

var (
	headerFill = rgb{52, 73, 94}
	stripeFill = rgb{242, 244, 247}
	titleColor = rgb{44, 62, 80}
)

type Document struct {
	pdf    *fpdf.Fpdf
	images int
}

// New starts an A4 portrait document with a centered title and the
// generated/user meta lines.
func New(title, user string, generated time.Time) *Document {
	p := fpdf.New("P", "mm", "A4", "")
	p.AddUTF8FontFromBytes(family, "", goregular.TTF)
	p.AddUTF8FontFromBytes(family, "B", gobold.TTF)
	p.AddUTF8FontFromBytes(mono, "", gomono.TTF)
	p.SetMargins(15, 15, 15)
	p.SetAutoPageBreak(true, 15)
	p.SetTitle(title, true)
	p.SetCreator("LabMate", true)
	p.AddPage()

	d := &Document{pdf: p}
	p.SetFont(family, "B", 18)
	p.SetTextColor(titleColor.r, titleColor.g, titleColor.b)
	p.CellFormat(0, 12, title, "", 1, "C", false, 0, "")
	p.SetTextColor(0, 0, 0)
	p.Ln(2)

	p.SetFont(family, "", 10)
	p.CellFormat(0, lineH, "Generated: "+generated.Format(TimeLayout), "", 1, "L", false, 0, "")
	if user != "" {
		p.CellFormat(0, lineH, "User: "+user, "", 1, "L", false, 0, "")
	}
	p.Ln(4)
	return d
}

func (d *Document) width() float64 {
	w, _ := d.pdf.GetPageSize()
	l, _, r, _ := d.pdf.GetMargins()
	return w - l - r
}

func (d *Document) Heading(text string) {
	d.pdf.Ln(2)
	d.pdf.SetFont(family, "B", 13)
	d.pdf.SetTextColor(titleColor.r, titleColor.g, titleColor.b)
	d.pdf.CellFormat(0, 9, text, "", 1, "L", false, 0, "")
	d.pdf.SetTextColor(0, 0, 0)
}

func (d *Document) Paragraph(text string) {
	d.pdf.SetFont(family, "", 10)
	d.pdf.MultiCell(0, lineH, text, "", "L", false)
	d.pdf.Ln(1)
}

// Field prints "label: value" with a bold label. Empty values are skipped.
func (d *Document) Field(label, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	d.pdf.SetFont(family, "B", 10)
	d.pdf.CellFormat(0, lineH, label+":", "", 1, "L", false, 0, "")
	d.Paragraph(value)
}

// Preformatted keeps line breaks and column alignment.
func (d *Document) Preformatted(text string) {
	d.pdf.SetFont(mono, "", 8.5)
	d.pdf.MultiCell(0, 4.5, strings.TrimRight(text, "\n"), "", "L", false)
	d.pdf.Ln(2)
}

// Table draws a header row followed by striped body rows. Widths are in mm
// and default to an even split of the printable width.
func (d *Document) Table(headers []string, rows [][]string, widths []float64) {
	if len(headers) == 0 {
		return
	}
	if len(widths) != len(headers) {
		widths = make([]float64, len(headers))
		for i := range widths {
			widths[i] = d.width() / float64(len(headers))
		}
	}

	p := d.pdf
	header := func() {
		p.SetFont(family, "B", 9)
		p.SetFillColor(headerFill.r, headerFill.g, headerFill.b)
		p.SetTextColor(255, 255, 255)
		for i, h := range headers {
			p.CellFormat(widths[i], rowH, d.fit(h, widths[i]), "1", 0, "C", true, 0, "")
		}
		p.Ln(-1)
		p.SetTextColor(0, 0, 0)
		p.SetFont(family, "", 9)
	}

	header()
	_, pageH := p.GetPageSize()
	_, _, _, bottom := p.GetMargins()
	for n, row := range rows {
		if p.GetY()+rowH > pageH-bottom {
			p.AddPage()
			header()
		}
		p.SetFillColor(stripeFill.r, stripeFill.g, stripeFill.b)
		for i := range headers {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			p.CellFormat(widths[i], rowH, d.fit(cell, widths[i]), "1", 0, "L", n%2 == 1, 0, "")
		}
		p.Ln(-1)
	}
	p.Ln(3)
}

// fit shortens text with an ellipsis so it stays within one cell.
func (d *Document) fit(text string, w float64) string {
	limit := w - 2
	if d.pdf.GetStringWidth(text) <= limit {
		return text
	}
	runes := []rune(text)
	for len(runes) > 0 && d.pdf.GetStringWidth(string(runes)+ellipse) > limit {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + ellipse
}

// Image embeds a PNG scaled to the given width in mm (0 means full width).
func (d *Document) Image(png []byte, width float64) {
	if len(png) == 0 {
		return
	}
	if width <= 0 || width > d.width() {
		width = d.width()
	}
	d.images++
	name := fmt.Sprintf("chart-%d", d.images)
	opts := fpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	d.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))
	l, _, _, _ := d.pdf.GetMargins()
	x := l + (d.width()-width)/2
	d.pdf.ImageOptions(name, x, 0, width, 0, true, opts, 0, "")
	d.pdf.Ln(4)
}

func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (d *Document) Base64() (string, error) {
	b, err := d.Bytes()
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// FileName is "{kind}_{ddmmYYYY_HHMMSS}.pdf".
func FileName(kind string, t time.Time) string {
	return fmt.Sprintf("%s_%s.pdf", kind, t.Format("02012006_150405"))
}
