// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Oct 17th 2026
// Project: A VAR-based Analysis of the Copper-Gold Ratio and the Treasury Yield Spread
// Class: 02-613 at Caregie Mellon University

package varmodel

import (
	"bufio"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// ============================================================================
// BOOTSTRAP QUANTILE TESTS
// ============================================================================

type BootstrapQuantileTest struct {
	Samples []float64
	Q       float64
	Result  float64
}

// skipComments reads lines from scanner, skipping comment lines starting with #
func skipComments(scanner *bufio.Scanner) string {
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" && !strings.HasPrefix(line, "#") {
			return line
		}
	}
	return ""
}

func readFloat(t *testing.T, scanner *bufio.Scanner, what string) float64 {
	t.Helper()
	v, err := strconv.ParseFloat(skipComments(scanner), 64)
	require.NoError(t, err, "parsing %s", what)
	return v
}

func ReadBootstrapQuantileTests(t *testing.T, directory string) []BootstrapQuantileTest {
	t.Helper()
	inputFiles, err := os.ReadDir(filepath.Join(directory, "input"))
	require.NoError(t, err)
	outputFiles, err := os.ReadDir(filepath.Join(directory, "output"))
	require.NoError(t, err)
	require.Equal(t, len(inputFiles), len(outputFiles), "number of input and output files do not match")

	tests := make([]BootstrapQuantileTest, len(inputFiles))
	for i, inputFile := range inputFiles {
		f, err := os.Open(filepath.Join(directory, "input", inputFile.Name()))
		require.NoError(t, err)
		scanner := bufio.NewScanner(f)

		// First value is N (number of samples)
		n, err := strconv.Atoi(skipComments(scanner))
		require.NoError(t, err)
		tests[i].Samples = make([]float64, n)
		for j := 0; j < n; j++ {
			tests[i].Samples[j] = readFloat(t, scanner, fmt.Sprintf("sample %d", j))
		}
		// Last value is Q
		tests[i].Q = readFloat(t, scanner, "q")
		f.Close()
	}

	for i, outputFile := range outputFiles {
		f, err := os.Open(filepath.Join(directory, "output", outputFile.Name()))
		require.NoError(t, err)
		tests[i].Result = readFloat(t, bufio.NewScanner(f), "result")
		f.Close()
	}

	return tests
}

func TestBootstrapQuantile(t *testing.T) {
	tests := ReadBootstrapQuantileTests(t, filepath.Join("testdata", "BootstrapQuantile"))
	require.NotEmpty(t, tests)
	for i, test := range tests {
		got := bootstrapQuantile(test.Samples, test.Q)
		if !almostEqual(got, test.Result, 1e-6) {
			t.Errorf("Test %d: bootstrapQuantile(%v, %v) = %v; want %v",
				i+1, test.Samples, test.Q, got, test.Result)
		}
	}

	assert.True(t, math.IsNaN(bootstrapQuantile(nil, 0.5)))
}

// ============================================================================
// SIMULATE BOOTSTRAP SERIES TESTS
// ============================================================================

func TestSimulateBootstrapSeriesKeepsInitialRows(t *testing.T) {
	ts := simulateVAR1(rand.New(rand.NewSource(31)), 50)
	rf := mustEstimate(t, ts, ModelSpec{Lags: 2, Deterministic: DetConstTrend})

	star := rf.simulateBootstrapSeries(rand.New(rand.NewSource(1)))
	T, K := star.Y.Dims()
	assert.Equal(t, 50, T)
	assert.Equal(t, 2, K)
	for tt := 0; tt < 2; tt++ {
		assert.Equal(t, mat.Row(nil, tt, ts.Y), mat.Row(nil, tt, star.Y))
	}
	assert.Equal(t, ts.VarNames, star.VarNames)

	// same seed, same sample
	again := rf.simulateBootstrapSeries(rand.New(rand.NewSource(1)))
	assert.True(t, mat.Equal(star.Y, again.Y))
}

// ============================================================================
// BOOTSTRAP IRF TESTS
// ============================================================================

func TestBootstrapIRFReproducibleWithSeed(t *testing.T) {
	rf := mustEstimate(t, simulateVAR1(rand.New(rand.NewSource(32)), 80), ModelSpec{Lags: 1, Deterministic: DetConstTrend})
	opts := BootstrapOptions{NReplications: 40, Horizon: 6, Alpha: 0.1, Seed: 99}

	b1, err := rf.BootstrapIRF(opts)
	require.NoError(t, err)
	b2, err := rf.BootstrapIRF(opts)
	require.NoError(t, err)

	require.Len(t, b1, 2)
	for shock := 0; shock < 2; shock++ {
		res := b1[shock]
		assert.Equal(t, shock, res.ShockIndex)
		rows, cols := res.Lower.Dims()
		assert.Equal(t, 7, rows)
		assert.Equal(t, 2, cols)

		assert.True(t, mat.Equal(res.Lower, b2[shock].Lower))
		assert.True(t, mat.Equal(res.Upper, b2[shock].Upper))

		point, err := rf.IRF(6, shock)
		require.NoError(t, err)
		assert.True(t, mat.Equal(point, res.Point))

		for h := 0; h < rows; h++ {
			for j := 0; j < cols; j++ {
				assert.LessOrEqual(t, res.Lower.At(h, j), res.Upper.At(h, j))
			}
		}
	}

	other, err := rf.BootstrapIRF(BootstrapOptions{NReplications: 40, Horizon: 6, Alpha: 0.1, Seed: 100})
	require.NoError(t, err)
	assert.False(t, mat.Equal(b1[0].Lower, other[0].Lower))
}

func TestBootstrapIRFDefaults(t *testing.T) {
	rf := mustEstimate(t, simulateVAR1(rand.New(rand.NewSource(33)), 40), ModelSpec{Lags: 1, Deterministic: DetConst})

	res, err := rf.BootstrapIRF(BootstrapOptions{NReplications: 10, Seed: 5})
	require.NoError(t, err)
	assert.Equal(t, 20, res[0].Horizon)
	assert.Equal(t, 0.05, res[0].Alpha)
}

// ============================================================================
// BOOTSTRAP GRANGER TESTS
// ============================================================================

func TestBootstrapGrangerMatrix(t *testing.T) {
	rf := mustEstimate(t, simulateVAR1(rand.New(rand.NewSource(34)), 80), ModelSpec{Lags: 1, Deterministic: DetConstTrend})
	opts := GrangerBootstrapOptions{NReplications: 30, Alpha: 0.05, Seed: 7}

	m1, err := rf.BootstrapGrangerMatrix(opts)
	require.NoError(t, err)
	m2, err := rf.BootstrapGrangerMatrix(opts)
	require.NoError(t, err)

	assert.Nil(t, m1[0][0])
	assert.Nil(t, m1[1][1])
	for _, pair := range [][2]int{{0, 1}, {1, 0}} {
		res := m1[pair[0]][pair[1]]
		require.NotNil(t, res)
		require.NotNil(t, res.Base)
		assert.Equal(t, m2[pair[0]][pair[1]].BootPValue, res.BootPValue)
		assert.Greater(t, res.BootPValue, 0.0)
		assert.LessOrEqual(t, res.BootPValue, 1.0)
		assert.Equal(t, res.BootPValue < 0.05, res.Significant)
	}
}

func TestBootstrapGrangerDrawsUnderNull(t *testing.T) {
	rf := mustEstimate(t, simulateVAR1(rand.New(rand.NewSource(9)), 300), ModelSpec{Lags: 1, Deterministic: DetConst})

	m, err := rf.BootstrapGrangerMatrix(GrangerBootstrapOptions{NReplications: 200, Alpha: 0.05, Seed: 9})
	require.NoError(t, err)

	// x -> y is planted with coefficient 0.3
	planted := m[0][1]
	require.NotNil(t, planted)
	assert.Less(t, planted.Base.PValue, 0.001)
	assert.Less(t, planted.BootPValue, 0.05)
	assert.True(t, planted.Significant)

	// y -> x is absent: the bootstrap p-value tracks the analytic one
	absent := m[1][0]
	require.NotNil(t, absent)
	assert.InDelta(t, absent.Base.PValue, absent.BootPValue, 0.15)
}

func TestRestrictEquationDropsCauseLags(t *testing.T) {
	rf := mustEstimate(t, simulateVAR1(rand.New(rand.NewSource(10)), 120), ModelSpec{Lags: 2, Deterministic: DetConstTrend})

	r, err := rf.restrictEquation(0, 1)
	require.NoError(t, err)
	assert.Len(t, r.coef, 2+2*1)
	assert.Len(t, r.resid, 118)

	// residuals of the restricted fit give the restricted RSS behind the F-statistic
	gc, err := rf.GrangerCausality(0, 1)
	require.NoError(t, err)
	rssR, rssU := 0.0, 0.0
	for i, u := range r.resid {
		rssR += u * u
		rssU += rf.U.At(i, 1) * rf.U.At(i, 1)
	}
	f := ((rssR - rssU) / 2) / (rssU / float64(gc.DF2))
	assert.InDelta(t, gc.FStatistic, f, 1e-6)

	star := rf.simulateUnder(rand.New(rand.NewSource(2)), r)
	rows, cols := star.Y.Dims()
	assert.Equal(t, 120, rows)
	assert.Equal(t, 2, cols)
	assert.True(t, mat.Equal(star.Y.Slice(0, 2, 0, 2), rf.Sample.Y.Slice(0, 2, 0, 2)))
}
