package stars

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNone(t *testing.T) {
	n, err := None{}.NewStarsWon(Round{Won: true, Score: 1 << 20})
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestThresholds(t *testing.T) {
	th := []int{100, 250, 500}
	cases := []struct {
		name  string
		round Round
		want  int
	}{
		{"lost", Round{Won: false, Score: 1000, Thresholds: th}, 0},
		{"below first", Round{Won: true, Score: 99, Thresholds: th}, 0},
		{"first", Round{Won: true, Score: 100, Thresholds: th}, 1},
		{"two", Round{Won: true, Score: 260, Thresholds: th}, 3},
		{"all", Round{Won: true, Score: 500, Thresholds: th}, 7},
		{"no thresholds", Round{Won: true, Score: 500}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Thresholds{}.NewStarsWon(tc.round)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestScript_Default(t *testing.T) {
	s, err := LoadScript("")
	require.NoError(t, err)

	th := []int{100, 250, 500}
	got, err := s.NewStarsWon(Round{Won: true, Score: 260, Elapsed: time.Minute, Thresholds: th})
	require.NoError(t, err)
	assert.Equal(t, 3, got)

	got, err = s.NewStarsWon(Round{Won: true, Score: 120, Elapsed: 10 * time.Second, Thresholds: th})
	require.NoError(t, err)
	assert.Equal(t, 5, got, "quick clear adds the third star")

	got, err = s.NewStarsWon(Round{Won: false, Score: 999, Elapsed: 10 * time.Second, Thresholds: th})
	require.NoError(t, err)
	assert.Equal(t, 0, got)
}

func TestScript_MasksExtraBits(t *testing.T) {
	s, err := NewScript([]byte(`stars := 15`))
	require.NoError(t, err)
	got, err := s.NewStarsWon(Round{})
	require.NoError(t, err)
	assert.Equal(t, 7, got)
}

func TestScript_Errors(t *testing.T) {
	_, err := NewScript([]byte(`x := 1`))
	assert.Error(t, err, "stars must be defined")

	_, err = NewScript([]byte(`stars := (`))
	assert.Error(t, err)

	_, err = LoadScript(filepath.Join(t.TempDir(), "missing.tengo"))
	assert.Error(t, err)
}

func TestLoadScript_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rule.tengo")
	require.NoError(t, os.WriteFile(path, []byte("stars := 0\nif coins >= 10 { stars = 1 }\n"), 0o644))

	s, err := LoadScript(path)
	require.NoError(t, err)
	got, err := s.NewStarsWon(Round{Coins: 12})
	require.NoError(t, err)
	assert.Equal(t, 1, got)
}
