package analysis

import (
	"math"

	"github.com/KaramelBytes/qcov/internal/survey"
)

// Paired returns the values at the indices where both x and y are present.
func Paired(x, y []survey.Value) (xs, ys []float64) {
	n := min(len(x), len(y))
	for i := 0; i < n; i++ {
		if x[i].OK && y[i].OK {
			xs = append(xs, x[i].V)
			ys = append(ys, y[i].V)
		}
	}
	return xs, ys
}

// Covariance returns the unbiased sample covariance of x and y over their
// paired values. It is NaN when fewer than two pairs exist.
func Covariance(x, y []survey.Value) float64 {
	xs, ys := Paired(x, y)
	n := len(xs)
	if n < 2 {
		return math.NaN()
	}
	var sumX, sumY float64
	for i := 0; i < n; i++ {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX := sumX / float64(n)
	meanY := sumY / float64(n)
	var acc float64
	for i := 0; i < n; i++ {
		acc += (xs[i] - meanX) * (ys[i] - meanY)
	}
	return acc / float64(n-1)
}

// Variance is the sample variance of the present values of x.
func Variance(x []survey.Value) float64 { return Covariance(x, x) }

// CovMatrix holds the symmetric covariance matrix of a dataset's columns.
type CovMatrix struct {
	Columns []string
	Values  [][]float64 // row-major, Values[i][j]
	Pairs   [][]int     // complete pairs behind Values[i][j]
}

// Matrix computes covariance for every column pair of ds. The diagonal
// holds each column's variance.
func Matrix(ds *survey.Dataset) *CovMatrix {
	n := len(ds.Columns)
	m := &CovMatrix{
		Columns: ds.Columns,
		Values:  make([][]float64, n),
		Pairs:   make([][]int, n),
	}
	for i := range m.Values {
		m.Values[i] = make([]float64, n)
		m.Pairs[i] = make([]int, n)
	}
	for a := 0; a < n; a++ {
		for b := a; b < n; b++ {
			xs, _ := Paired(ds.Values[a], ds.Values[b])
			c := Covariance(ds.Values[a], ds.Values[b])
			m.Values[a][b], m.Values[b][a] = c, c
			m.Pairs[a][b], m.Pairs[b][a] = len(xs), len(xs)
		}
	}
	return m
}

// At returns the covariance between two named columns, or NaN if either is unknown.
func (m *CovMatrix) At(a, b string) float64 {
	i, j := m.index(a), m.index(b)
	if i < 0 || j < 0 {
		return math.NaN()
	}
	return m.Values[i][j]
}

func (m *CovMatrix) index(name string) int {
	for i, c := range m.Columns {
		if c == name {
			return i
		}
	}
	return -1
}
