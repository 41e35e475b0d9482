// Package chart renders scatter plots with fitted curves as PNG images.
package chart

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	defaultWidth  = 1000
	defaultHeight = 600

	marginLeft   = 90.0
	marginRight  = 40.0
	marginTop    = 60.0
	marginBottom = 70.0
	ticks        = 5
	curveSamples = 100
)

// Axis selects the y axis a series is scaled against.
type Axis int

const (
	Left Axis = iota
	Right
)

var (
	Blue   = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	Red    = color.RGBA{R: 214, G: 39, B: 40, A: 255}
	Green  = color.RGBA{R: 44, G: 160, B: 44, A: 255}
	Orange = color.RGBA{R: 255, G: 127, B: 14, A: 255}
	Purple = color.RGBA{R: 148, G: 103, B: 189, A: 255}

	gridColor  = color.RGBA{R: 220, G: 220, B: 220, A: 255}
	wheat      = color.RGBA{R: 245, G: 222, B: 179, A: 200}
	textColor  = color.RGBA{R: 33, G: 33, B: 33, A: 255}
	axisColor  = color.RGBA{R: 80, G: 80, B: 80, A: 255}
	legendFill = color.RGBA{R: 255, G: 255, B: 255, A: 230}
)

type Series struct {
	Name  string
	X     []float64
	Y     []float64
	Color color.Color
	Axis  Axis
}

type Curve struct {
	Name   string
	Fn     func(float64) float64
	From   float64
	To     float64
	Color  color.Color
	Dashed bool
	Axis   Axis
}

type Chart struct {
	Title      string
	XLabel     string
	YLabel     string
	Y2Label    string
	Series     []Series
	Curves     []Curve
	Annotation string
	Width      int
	Height     int
}

var (
	fontOnce sync.Once
	ttf      *truetype.Font
	fontErr  error
)

func face(size float64) (font.Face, error) {
	fontOnce.Do(func() {
		ttf, fontErr = truetype.Parse(goregular.TTF)
	})
	if fontErr != nil {
		return nil, fontErr
	}
	return truetype.NewFace(ttf, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingNone}), nil
}

type bounds struct {
	min, max float64
}

func (b *bounds) add(v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return
	}
	b.min = math.Min(b.min, v)
	b.max = math.Max(b.max, v)
}

func (b bounds) empty() bool {
	return b.min > b.max
}

// padded widens the range by 5% on both sides and never returns a zero span.
func (b bounds) padded() bounds {
	if b.empty() {
		return bounds{0, 1}
	}
	span := b.max - b.min
	if span == 0 {
		span = math.Max(math.Abs(b.max)*0.2, 1)
		return bounds{b.min - span/2, b.max + span/2}
	}
	return bounds{b.min - span*0.05, b.max + span*0.05}
}

func newBounds() bounds {
	return bounds{min: math.Inf(1), max: math.Inf(-1)}
}

type frame struct {
	x, y, w, h float64
	xb         bounds
	yb         [2]bounds
}

func (f frame) px(v float64) float64 {
	return f.x + (v-f.xb.min)/(f.xb.max-f.xb.min)*f.w
}

func (f frame) py(axis Axis, v float64) float64 {
	b := f.yb[axis]
	return f.y + f.h - (v-b.min)/(b.max-b.min)*f.h
}

// plottable 非有限值会让光栅化死循环，一律跳过
func plottable(x, y float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0) && !math.IsNaN(y) && !math.IsInf(y, 0)
}

func sample(c Curve) ([]float64, []float64) {
	xs := make([]float64, 0, curveSamples)
	ys := make([]float64, 0, curveSamples)
	step := (c.To - c.From) / float64(curveSamples-1)
	for i := 0; i < curveSamples; i++ {
		x := c.From + float64(i)*step
		y := c.Fn(x)
		if !plottable(x, y) {
			continue
		}
		xs = append(xs, x)
		ys = append(ys, y)
	}
	return xs, ys
}

func formatTick(v float64) string {
	if math.Abs(v) < 1e-12 {
		return "0"
	}
	return strconv.FormatFloat(v, 'g', 4, 64)
}

func (c *Chart) hasRight() bool {
	for _, s := range c.Series {
		if s.Axis == Right {
			return true
		}
	}
	for _, cv := range c.Curves {
		if cv.Axis == Right {
			return true
		}
	}
	return false
}

// Render draws the chart and encodes it as PNG.
func (c *Chart) Render() ([]byte, error) {
	width, height := c.Width, c.Height
	if width == 0 {
		width = defaultWidth
	}
	if height == 0 {
		height = defaultHeight
	}

	titleFace, err := face(18)
	if err != nil {
		return nil, err
	}
	labelFace, _ := face(14)
	tickFace, _ := face(12)

	xb := newBounds()
	yb := [2]bounds{newBounds(), newBounds()}
	for _, s := range c.Series {
		for i := range s.X {
			if i < len(s.Y) && plottable(s.X[i], s.Y[i]) {
				xb.add(s.X[i])
				yb[s.Axis].add(s.Y[i])
			}
		}
	}
	sampled := make([][2][]float64, len(c.Curves))
	for i, cv := range c.Curves {
		if cv.Fn == nil {
			continue
		}
		xs, ys := sample(cv)
		sampled[i] = [2][]float64{xs, ys}
		for j := range xs {
			xb.add(xs[j])
			yb[cv.Axis].add(ys[j])
		}
	}

	right := marginRight
	if c.hasRight() {
		right = marginLeft
	}
	f := frame{
		x:  marginLeft,
		y:  marginTop,
		w:  float64(width) - marginLeft - right,
		h:  float64(height) - marginTop - marginBottom,
		xb: xb.padded(),
		yb: [2]bounds{yb[0].padded(), yb[1].padded()},
	}

	dc := gg.NewContext(width, height)
	dc.SetColor(color.White)
	dc.Clear()

	// grid and ticks
	dc.SetFontFace(tickFace)
	dc.SetLineWidth(1)
	for i := 0; i <= ticks; i++ {
		xv := f.xb.min + float64(i)*(f.xb.max-f.xb.min)/ticks
		yv := f.yb[0].min + float64(i)*(f.yb[0].max-f.yb[0].min)/ticks
		x, y := f.px(xv), f.py(Left, yv)

		dc.SetColor(gridColor)
		dc.DrawLine(x, f.y, x, f.y+f.h)
		dc.DrawLine(f.x, y, f.x+f.w, y)
		dc.Stroke()

		dc.SetColor(textColor)
		dc.DrawStringAnchored(formatTick(xv), x, f.y+f.h+16, 0.5, 0.5)
		dc.DrawStringAnchored(formatTick(yv), f.x-8, y, 1, 0.5)
		if c.hasRight() {
			y2 := f.yb[1].min + float64(i)*(f.yb[1].max-f.yb[1].min)/ticks
			dc.DrawStringAnchored(formatTick(y2), f.x+f.w+8, f.py(Right, y2), 0, 0.5)
		}
	}

	dc.SetColor(axisColor)
	dc.SetLineWidth(1.5)
	dc.DrawRectangle(f.x, f.y, f.w, f.h)
	dc.Stroke()

	// curves under points
	for i, cv := range c.Curves {
		xs, ys := sampled[i][0], sampled[i][1]
		if len(xs) < 2 {
			continue
		}
		dc.SetColor(colorOr(cv.Color, Red))
		dc.SetLineWidth(2)
		if cv.Dashed {
			dc.SetDash(8, 5)
		}
		dc.MoveTo(f.px(xs[0]), f.py(cv.Axis, ys[0]))
		for j := 1; j < len(xs); j++ {
			dc.LineTo(f.px(xs[j]), f.py(cv.Axis, ys[j]))
		}
		dc.Stroke()
		dc.SetDash()
	}

	for _, s := range c.Series {
		dc.SetColor(colorOr(s.Color, Blue))
		for i := range s.X {
			if i >= len(s.Y) {
				break
			}
			if !plottable(s.X[i], s.Y[i]) {
				continue
			}
			dc.DrawCircle(f.px(s.X[i]), f.py(s.Axis, s.Y[i]), 5)
			dc.Fill()
		}
	}

	dc.SetColor(textColor)
	dc.SetFontFace(titleFace)
	dc.DrawStringAnchored(c.Title, float64(width)/2, marginTop/2, 0.5, 0.5)

	dc.SetFontFace(labelFace)
	dc.DrawStringAnchored(c.XLabel, f.x+f.w/2, float64(height)-marginBottom/3, 0.5, 0.5)
	drawVertical(dc, c.YLabel, 22, f.y+f.h/2)
	if c.hasRight() && c.Y2Label != "" {
		drawVertical(dc, c.Y2Label, float64(width)-22, f.y+f.h/2)
	}

	dc.SetFontFace(tickFace)
	c.drawLegend(dc, f)
	if c.Annotation != "" {
		drawBox(dc, strings.Split(c.Annotation, "\n"), f.x+12, f.y+12)
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderBase64 is Render followed by standard base64 encoding.
func (c *Chart) RenderBase64() (string, error) {
	png, err := c.Render()
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(png), nil
}

func colorOr(c color.Color, def color.Color) color.Color {
	if c == nil {
		return def
	}
	return c
}

func drawVertical(dc *gg.Context, s string, x, y float64) {
	dc.Push()
	dc.RotateAbout(-math.Pi/2, x, y)
	dc.DrawStringAnchored(s, x, y, 0.5, 0.5)
	dc.Pop()
}

func drawBox(dc *gg.Context, lines []string, x, y float64) {
	w, lineH := 0.0, 0.0
	for _, l := range lines {
		lw, lh := dc.MeasureString(l)
		w = math.Max(w, lw)
		lineH = math.Max(lineH, lh)
	}
	lineH += 6
	dc.SetColor(wheat)
	dc.DrawRoundedRectangle(x, y, w+16, lineH*float64(len(lines))+10, 6)
	dc.Fill()
	dc.SetColor(textColor)
	for i, l := range lines {
		dc.DrawStringAnchored(l, x+8, y+8+lineH*float64(i)+lineH/2, 0, 0.5)
	}
}

type legendEntry struct {
	name  string
	color color.Color
	line  bool
}

func (c *Chart) drawLegend(dc *gg.Context, f frame) {
	entries := make([]legendEntry, 0, len(c.Series)+len(c.Curves))
	for _, s := range c.Series {
		if s.Name != "" {
			entries = append(entries, legendEntry{name: s.Name, color: colorOr(s.Color, Blue)})
		}
	}
	for _, cv := range c.Curves {
		if cv.Name != "" {
			entries = append(entries, legendEntry{name: cv.Name, color: colorOr(cv.Color, Red), line: true})
		}
	}
	if len(entries) == 0 {
		return
	}

	w := 0.0
	for _, e := range entries {
		lw, _ := dc.MeasureString(e.name)
		w = math.Max(w, lw)
	}
	const rowH = 20.0
	boxW, boxH := w+48, rowH*float64(len(entries))+10
	x, y := f.x+f.w-boxW-10, f.y+10

	dc.SetColor(legendFill)
	dc.DrawRectangle(x, y, boxW, boxH)
	dc.FillPreserve()
	dc.SetColor(gridColor)
	dc.SetLineWidth(1)
	dc.Stroke()

	for i, e := range entries {
		cy := y + 5 + rowH*float64(i) + rowH/2
		dc.SetColor(e.color)
		if e.line {
			dc.SetLineWidth(2)
			dc.DrawLine(x+8, cy, x+30, cy)
			dc.Stroke()
		} else {
			dc.DrawCircle(x+19, cy, 5)
			dc.Fill()
		}
		dc.SetColor(textColor)
		dc.DrawStringAnchored(e.name, x+38, cy, 0, 0.5)
	}
}
