package chanle

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestChanLeGame_ValidateBet(t *testing.T) {
	g := New(nil)

	tests := []struct {
		name    string
		bet     int64
		params  map[string]any
		wantErr bool
	}{
		{"valid chan bet", 10000, map[string]any{"choice": "chan"}, false},
		{"valid le bet", 1000000, map[string]any{"choice": "le"}, false},
		{"zero bet", 0, map[string]any{"choice": "chan"}, true},
		{"below min", 9999, map[string]any{"choice": "chan"}, true},
		{"above max", 1000001, map[string]any{"choice": "le"}, true},
		{"missing choice", 10000, nil, true},
		{"bad choice", 10000, map[string]any{"choice": "even"}, true},
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

func TestChanLeGame_Play(t *testing.T) {
	g := New(nil)
	ctx := context.Background()

	tests := []struct {
		name      string
		choice    string
		number    int
		win       bool
		winAmount int64
	}{
		{"chan wins on even", "chan", 42, true, 19000},
		{"chan loses on odd", "chan", 7, false, 0},
		{"le wins on odd", "le", 99, true, 19000},
		{"le loses on even", "le", 100, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := map[string]any{"choice": tt.choice, "number": tt.number}

			result, err := g.Play(ctx, 12345, 10000, params)
			require.NoError(t, err)
			assert.Equal(t, tt.win, result.Win)
			assert.Equal(t, tt.winAmount, result.WinAmount)
			assert.Equal(t, tt.number, result.Details["number"])
		})
	}
}

func TestChanLeGame_Interface(t *testing.T) {
	g := New(nil)

	assert.Equal(t, "Chẵn Lẻ", g.Name())
	assert.Equal(t, "chanle", g.Command())
	assert.Equal(t, int64(10000), g.MinBet())
	assert.Equal(t, int64(1000000), g.MaxBet())
	assert.Equal(t, "chanle", g.PotName())
}

// TestChanLeParityProperty checks that the draw always lands in range
// and the win follows the parity of the drawn number.
func TestChanLeParityProperty(t *testing.T) {
	g := New(nil)
	ctx := context.Background()

	rapid.Check(t, func(t *rapid.T) {
		choice := rapid.SampledFrom([]string{"chan", "le"}).Draw(t, "choice")
		bet := rapid.Int64Range(10000, 1000000).Draw(t, "bet")

		result, err := g.Play(ctx, 1, bet, map[string]any{"choice": choice})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		number := result.Details["number"].(int)
		if number < 1 || number > 100 {
			t.Fatalf("number out of range: %d", number)
		}

		wantWin := (choice == "chan") == (number%2 == 0)
		if result.Win != wantWin {
			t.Fatalf("win mismatch: choice=%s number=%d win=%v", choice, number, result.Win)
		}
	})
}
