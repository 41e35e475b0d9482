package pdf

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scienceol/labmate/pkg/core/report/chart"
)

func TestDocument(t *testing.T) {
	at := time.Date(2025, 3, 9, 14, 5, 7, 0, time.UTC)
	doc := New("LabMateAI - Calculations Report", "Ada", at)
	doc.Heading("Results")
	doc.Paragraph("Mean Cd = 0.9512")
	doc.Field("Description", "Calibrate the venturimeter")
	doc.Field("Observations", "")
	doc.Preformatted("Step 1: a1 = 0.000283 m²\nStep 2: Δh = 7.3 cm")

	rows := make([][]string, 0, 80)
	for i := 0; i < 80; i++ {
		rows = append(rows, []string{"09-03-2025", strings.Repeat("Sodium Chloride ", 4), "NaCl"})
	}
	doc.Table([]string{"Date", "Reagent", "Formula"}, rows, []float64{40, 80, 60})

	png, err := (&chart.Chart{
		Title:  "Qa vs Qt",
		Series: []chart.Series{{X: []float64{1, 2}, Y: []float64{1, 2}}},
		Width:  400,
		Height: 240,
	}).Render()
	require.NoError(t, err)
	doc.Image(png, 120)

	out, err := doc.Bytes()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "%PDF-"))
}

func TestBase64(t *testing.T) {
	b64, err := New("Report", "", time.Now()).Base64()
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(b64)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "%PDF-"))
}

func TestFileName(t *testing.T) {
	at := time.Date(2025, 3, 9, 14, 5, 7, 0, time.UTC)
	assert.Equal(t, "calculations_09032025_140507.pdf", FileName("calculations", at))
}

func TestFitTruncates(t *testing.T) {
	doc := New("t", "", time.Now())
	got := doc.fit(strings.Repeat("x", 200), 20)
	assert.True(t, strings.HasSuffix(got, ellipse))
	assert.Less(t, len(got), 200)
	assert.Equal(t, "short", doc.fit("short", 50))
}
