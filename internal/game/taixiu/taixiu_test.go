package taixiu

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestTaiXiuGame_ValidateBet(t *testing.T) {
	g := New(nil)

	tests := []struct {
		name    string
		bet     int64
		params  map[string]any
		wantErr bool
	}{
		{"valid tai bet", 10000, map[string]any{"choice": "tai"}, false},
		{"valid xiu bet", 1000000, map[string]any{"choice": "xiu"}, false},
		{"zero bet", 0, map[string]any{"choice": "tai"}, true},
		{"negative bet", -100, map[string]any{"choice": "tai"}, true},
		{"below min", 9999, map[string]any{"choice": "tai"}, true},
		{"above max", 1000001, map[string]any{"choice": "tai"}, true},
		{"missing choice", 10000, nil, true},
		{"bad choice", 10000, map[string]any{"choice": "high"}, true},
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

func TestTaiXiuGame_Play(t *testing.T) {
	g := New(nil)
	ctx := context.Background()

	tests := []struct {
		name      string
		choice    string
		dice      []int
		win       bool
		winAmount int64
	}{
		{"tai wins on 12", "tai", []int{4, 4, 4}, true, 18000},
		{"tai loses on 10", "tai", []int{3, 3, 4}, false, 0},
		{"xiu wins on 3", "xiu", []int{1, 1, 1}, true, 18000},
		{"xiu loses on 18", "xiu", []int{6, 6, 6}, false, 0},
		{"boundary 11 is tai", "tai", []int{3, 4, 4}, true, 18000},
		{"boundary 10 is xiu", "xiu", []int{3, 3, 4}, true, 18000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := map[string]any{"choice": tt.choice, "dice": tt.dice}

			result, err := g.Play(ctx, 12345, 10000, params)
			require.NoError(t, err)
			assert.Equal(t, tt.win, result.Win)
			assert.Equal(t, tt.winAmount, result.WinAmount)
			assert.NotEmpty(t, result.Description)
			assert.Equal(t, tt.dice, result.Details["dice"])
		})
	}
}

func TestTaiXiuGame_PlayInvalidDice(t *testing.T) {
	g := New(nil)
	ctx := context.Background()

	tests := []struct {
		name string
		dice []int
	}{
		{"too few dice", []int{1, 2}},
		{"too many dice", []int{1, 2, 3, 4}},
		{"die too low", []int{0, 3, 3}},
		{"die too high", []int{7, 3, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := g.Play(ctx, 12345, 10000, map[string]any{"choice": "tai", "dice": tt.dice})
			assert.ErrorIs(t, err, ErrInvalidDice)
		})
	}
}

func TestTaiXiuGame_Interface(t *testing.T) {
	g := New(nil)

	assert.Equal(t, "Tài Xỉu", g.Name())
	assert.Equal(t, "taixiu", g.Command())
	assert.NotEmpty(t, g.Description())
	assert.Equal(t, int64(10000), g.MinBet())
	assert.Equal(t, int64(1000000), g.MaxBet())
	assert.Equal(t, "taixiu", g.PotName())
}

// TestTaiXiuRandomRollProperty plays with no dice override and checks
// the invariants of whatever was rolled.
func TestTaiXiuRandomRollProperty(t *testing.T) {
	g := New(nil)
	ctx := context.Background()

	rapid.Check(t, func(t *rapid.T) {
		choice := rapid.SampledFrom([]string{"tai", "xiu"}).Draw(t, "choice")
		bet := rapid.Int64Range(10000, 1000000).Draw(t, "bet")

		result, err := g.Play(ctx, 1, bet, map[string]any{"choice": choice})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		sum := result.Details["sum"].(int)
		if sum < 3 || sum > 18 {
			t.Fatalf("sum out of range: %d", sum)
		}

		wantWin := (choice == "tai") == (sum > 10)
		if result.Win != wantWin {
			t.Fatalf("win mismatch: choice=%s sum=%d win=%v", choice, sum, result.Win)
		}
		if result.Win {
			want := int64(float64(bet) * 1.8)
			if result.WinAmount != want {
				t.Fatalf("win amount mismatch: got %d, want %d", result.WinAmount, want)
			}
		} else if result.WinAmount != 0 {
			t.Fatalf("losing play must have zero win amount, got %d", result.WinAmount)
		}
	})
}
