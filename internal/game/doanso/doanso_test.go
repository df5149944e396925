package doanso

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestDoanSoGame_ValidateBet(t *testing.T) {
	g := New(nil)

	tests := []struct {
		name    string
		bet     int64
		params  map[string]any
		wantErr bool
	}{
		{"valid guess", 10000, map[string]any{"guess": 5}, false},
		{"min guess", 10000, map[string]any{"guess": 1}, false},
		{"max guess", 500000, map[string]any{"guess": 10}, false},
		{"zero bet", 0, map[string]any{"guess": 5}, true},
		{"below min bet", 9999, map[string]any{"guess": 5}, true},
		{"above max bet", 500001, map[string]any{"guess": 5}, true},
		{"missing guess", 10000, nil, true},
		{"guess too low", 10000, map[string]any{"guess": 0}, true},
		{"guess too high", 10000, map[string]any{"guess": 11}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := g.ValidateBet(tt.bet, tt.params)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDoanSoGame_Play(t *testing.T) {
	g := New(nil)
	ctx := context.Background()

	// Correct guess pays 7x.
	result, err := g.Play(ctx, 12345, 10000, map[string]any{"guess": 3, "number": 3})
	require.NoError(t, err)
	assert.True(t, result.Win)
	assert.Equal(t, int64(70000), result.WinAmount)

	// Wrong guess loses.
	result, err = g.Play(ctx, 12345, 10000, map[string]any{"guess": 3, "number": 4})
	require.NoError(t, err)
	assert.False(t, result.Win)
	assert.Zero(t, result.WinAmount)
	assert.Equal(t, 4, result.Details["number"])
	assert.Equal(t, 3, result.Details["guess"])
}

func TestDoanSoGame_Interface(t *testing.T) {
	g := New(nil)

	assert.Equal(t, "Đoán Số", g.Name())
	assert.Equal(t, "doanso", g.Command())
	assert.Equal(t, int64(10000), g.MinBet())
	assert.Equal(t, int64(500000), g.MaxBet())
	assert.Equal(t, "doanso", g.PotName())
}

// TestDoanSoDrawProperty plays with a random draw and checks the win
// condition against the drawn number.
func TestDoanSoDrawProperty(t *testing.T) {
	g := New(nil)
	ctx := context.Background()

	rapid.Check(t, func(t *rapid.T) {
		guess := rapid.IntRange(1, 10).Draw(t, "guess")
		bet := rapid.Int64Range(10000, 500000).Draw(t, "bet")

		result, err := g.Play(ctx, 1, bet, map[string]any{"guess": guess})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		number := result.Details["number"].(int)
		if number < 1 || number > 10 {
			t.Fatalf("number out of range: %d", number)
		}
		if result.Win != (guess == number) {
			t.Fatalf("win mismatch: guess=%d number=%d win=%v", guess, number, result.Win)
		}
		if result.Win && result.WinAmount != bet*7 {
			t.Fatalf("win amount mismatch: got %d, want %d", result.WinAmount, bet*7)
		}
	})
}
