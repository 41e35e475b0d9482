package utils

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafelyRun(t *testing.T) {
	assert.NoError(t, SafelyRun(func() {}))

	err := SafelyRun(func() { panic("boom") })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")

	var pe *PanicError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "boom", pe.Value)
	assert.NotEmpty(t, pe.Stack)
	assert.Nil(t, pe.Unwrap())

	cause := errors.New("cause")
	err = SafelyRun(func() { panic(cause) })
	assert.True(t, errors.Is(err, cause))
}

func TestSafelyGo(t *testing.T) {
	done := make(chan error, 1)
	SafelyGo(func() { panic("in goroutine") }, func(err error) { done <- err })
	select {
	case err := <-done:
		assert.Contains(t, err.Error(), "in goroutine")
	case <-time.After(time.Second):
		t.Fatal("panic handler was not called")
	}
}

func TestFilterSlice(t *testing.T) {
	out := FilterSlice([]int{1, 2, 3, 4}, func(i int) (string, bool) {
		return string(rune('a' + i)), i%2 == 0
	})
	assert.Equal(t, []string{"c", "e"}, out)
}

func TestOr(t *testing.T) {
	assert.Equal(t, "b", Or("", "b", "c"))
	assert.Equal(t, "", Or("", ""))
	assert.Equal(t, 3, Or(0, 3))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "héllo", Truncate("héllo", 10))
	assert.Equal(t, "hé", Truncate("héllo", 2))
}

func TestRound(t *testing.T) {
	tests := []struct {
		in   float64
		n    int
		want float64
	}{
		{1.23456, 2, 1.23},
		{1.235, 1, 1.2},
		{-2.5, 0, -3},
		{0.0000123456, 6, 0.000012},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, Round(tt.in, tt.n), 1e-12)
	}
	assert.True(t, math.IsNaN(Round(math.NaN(), 2)))
}

func TestAllFinite(t *testing.T) {
	assert.True(t, AllFinite())
	assert.True(t, AllFinite(1, -2, 0))
	assert.False(t, AllFinite(1, math.NaN()))
	assert.False(t, AllFinite(math.Inf(-1), 3))
}

func TestSanitizeAndMean(t *testing.T) {
	assert.Equal(t, 0.0, Sanitize(math.Inf(1)))
	assert.Equal(t, 0.0, Sanitize(math.NaN()))
	assert.Equal(t, 1.5, Sanitize(1.5))
	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, 2.0, Mean([]float64{1, 2, 3}))
}

func TestJWT(t *testing.T) {
	token, err := SignJWT(&Claims{UserID: 7, Name: "Ada", Role: "Researcher", AccessLevel: 3}, "secret", time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "Ada", claims.Name)
	assert.Equal(t, 3, claims.AccessLevel)

	_, err = ParseJWT(token, "other")
	assert.Error(t, err)

	expired, err := SignJWT(&Claims{UserID: 1}, "secret", -time.Minute)
	require.NoError(t, err)
	_, err = ParseJWT(expired, "secret")
	assert.Error(t, err)
}
