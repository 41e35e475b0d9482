// Package fit provides the least squares fits drawn on calculator charts.
package fit

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

var ErrInsufficientData = errors.New("insufficient data for fit")

type Line struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	R2        float64 `json:"r2"`
}

func (l Line) Eval(x float64) float64 {
	return l.Slope*x + l.Intercept
}

func (l Line) String() string {
	return fmt.Sprintf("y = %.4fx + %.4f", l.Slope, l.Intercept)
}

// Linear fits y = slope*x + intercept.
func Linear(x, y []float64) (Line, error) {
	if len(x) != len(y) || len(x) < 2 {
		return Line{}, ErrInsufficientData
	}
	if stat.Variance(x, nil) == 0 {
		return Line{}, ErrInsufficientData
	}

	alpha, beta := stat.LinearRegression(x, y, nil, false)
	r2 := stat.RSquared(x, y, nil, alpha, beta)
	if math.IsNaN(r2) {
		// every y equal, the line is exact
		r2 = 1
	}
	return Line{Slope: beta, Intercept: alpha, R2: r2}, nil
}

// Poly holds polynomial coefficients in ascending order of power.
type Poly []float64

func (p Poly) Eval(x float64) float64 {
	y := 0.0
	for i := len(p) - 1; i >= 0; i-- {
		y = y*x + p[i]
	}
	return y
}

func (p Poly) Degree() int {
	return len(p) - 1
}

func (p Poly) String() string {
	terms := make([]string, 0, len(p))
	for i := len(p) - 1; i >= 0; i-- {
		switch i {
		case 0:
			terms = append(terms, fmt.Sprintf("%.2f", p[i]))
		case 1:
			terms = append(terms, fmt.Sprintf("%.2fx", p[i]))
		default:
			terms = append(terms, fmt.Sprintf("%.4fx^%d", p[i], i))
		}
	}
	return "y = " + strings.Join(terms, " + ")
}

// Polynomial solves the ordinary least squares problem for the given degree.
func Polynomial(x, y []float64, degree int) (Poly, error) {
	n := len(x)
	if degree < 1 || len(y) != n || n < degree+1 {
		return nil, ErrInsufficientData
	}

	a := mat.NewDense(n, degree+1, nil)
	for i, xi := range x {
		v := 1.0
		for j := 0; j <= degree; j++ {
			a.Set(i, j, v)
			v *= xi
		}
	}

	var qr mat.QR
	qr.Factorize(a)
	var coef mat.VecDense
	if err := qr.SolveVecTo(&coef, false, mat.NewVecDense(n, y)); err != nil {
		return nil, ErrInsufficientData
	}

	out := make(Poly, degree+1)
	for i := range out {
		out[i] = coef.AtVec(i)
		if math.IsNaN(out[i]) || math.IsInf(out[i], 0) {
			return nil, ErrInsufficientData
		}
	}
	return out, nil
}

// Best returns a quadratic when there are at least three points, a line otherwise.
func Best(x, y []float64) (Poly, error) {
	if len(x) >= 3 {
		if p, err := Polynomial(x, y, 2); err == nil {
			return p, nil
		}
	}
	l, err := Linear(x, y)
	if err != nil {
		return nil, err
	}
	return Poly{l.Intercept, l.Slope}, nil
}
