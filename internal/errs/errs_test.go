// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Oct 17th 2026
// Project: A VAR-based Analysis of the Copper-Gold Ratio and the Treasury Yield Spread
// Class: 02-613 at Caregie Mellon University

package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMatchesItsKindOnly(t *testing.T) {
	err := Fit("stationarity", "%s has zero variance", "spread")

	assert.True(t, errors.Is(err, ErrFit))
	assert.False(t, errors.Is(err, ErrInput))
	assert.Equal(t, "stationarity: fit error: spread has zero variance", err.Error())
}

func TestWrapKeepsInnermostStage(t *testing.T) {
	inner := Alignment("align", "no overlapping months")
	wrapped := Wrap(ErrInput, "pipeline", fmt.Errorf("loading: %w", inner), "replication %d", 3)

	assert.Equal(t, "align", StageOf(wrapped))
	assert.True(t, errors.Is(wrapped, ErrAlignment))
	assert.False(t, errors.Is(wrapped, ErrInput))
	assert.Equal(t, "replication 3: loading: align: alignment error: no overlapping months", wrapped.Error())
}

func TestWrapPlainError(t *testing.T) {
	base := errors.New("file not found")
	err := Wrap(ErrInput, "ingest", base, "open %s", "gold.csv")

	assert.True(t, errors.Is(err, ErrInput))
	assert.True(t, errors.Is(err, base))
	assert.Equal(t, "ingest", StageOf(err))
	assert.Equal(t, "ingest: input error: open gold.csv: file not found", err.Error())

	assert.Nil(t, Wrap(ErrInput, "ingest", nil, "unused"))
	assert.Equal(t, "", StageOf(base))
}

func TestJoinedDivisionByZeroStillMatches(t *testing.T) {
	err := errors.Join(DivisionByZero("evaluate", "MAPE of spread undefined"), nil)
	assert.True(t, errors.Is(err, ErrDivisionByZero))
	assert.Equal(t, "evaluate", StageOf(err))
}
