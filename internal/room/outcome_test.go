package room

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// TestRollProperty verifies the invariants of every rolled outcome:
// dice in range, sum derived from the dice and the high/even
// predicates consistent with the sum.
func TestRollProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		seed := rapid.Int64().Draw(t, "seed")
		rnd := rand.New(rand.NewSource(seed))

		o := Roll(rnd)

		sum := 0
		for _, d := range o.Dice {
			if d < 1 || d > 6 {
				t.Fatalf("die out of range: %d", d)
			}
			sum += d
		}
		if o.Sum != sum {
			t.Fatalf("sum mismatch: got %d, dice add to %d", o.Sum, sum)
		}
		if o.Sum < 3 || o.Sum > 18 {
			t.Fatalf("sum out of range: %d", o.Sum)
		}
		if o.IsHigh() != (o.Sum > 10) {
			t.Fatalf("IsHigh mismatch for sum %d", o.Sum)
		}
		if o.IsEven() != (o.Sum%2 == 0) {
			t.Fatalf("IsEven mismatch for sum %d", o.Sum)
		}
	})
}

// TestOutcomeWinsProperty verifies exactly one of tai/xiu and exactly
// one of chan/le wins for any outcome.
func TestOutcomeWinsProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var o Outcome
		for i := range o.Dice {
			o.Dice[i] = rapid.IntRange(1, 6).Draw(t, "die")
			o.Sum += o.Dice[i]
		}

		if o.Wins(CategoryTai) == o.Wins(CategoryXiu) {
			t.Fatalf("exactly one of tai/xiu must win, sum=%d", o.Sum)
		}
		if o.Wins(CategoryChan) == o.Wins(CategoryLe) {
			t.Fatalf("exactly one of chan/le must win, sum=%d", o.Sum)
		}
	})
}

func TestOutcomeWins(t *testing.T) {
	tests := []struct {
		name string
		dice [3]int
		high bool
		even bool
	}{
		{"triple fours", [3]int{4, 4, 4}, true, true},
		{"minimum roll", [3]int{1, 1, 1}, false, false},
		{"maximum roll", [3]int{6, 6, 6}, true, true},
		{"boundary ten", [3]int{3, 3, 4}, false, true},
		{"boundary eleven", [3]int{3, 4, 4}, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := Outcome{Dice: tt.dice, Sum: tt.dice[0] + tt.dice[1] + tt.dice[2]}
			assert.Equal(t, tt.high, o.Wins(CategoryTai))
			assert.Equal(t, !tt.high, o.Wins(CategoryXiu))
			assert.Equal(t, tt.even, o.Wins(CategoryChan))
			assert.Equal(t, !tt.even, o.Wins(CategoryLe))
		})
	}
}

func TestParseCategory(t *testing.T) {
	for _, s := range []string{"tai", "xiu", "chan", "le"} {
		c, err := ParseCategory(s)
		require.NoError(t, err)
		assert.Equal(t, Category(s), c)
		assert.NotEmpty(t, c.Label())
	}

	for _, s := range []string{"", "TAI", "high", "taixiu", "l e"} {
		_, err := ParseCategory(s)
		assert.ErrorIs(t, err, ErrInvalidCategory, "input %q", s)
	}
}

func TestMD5SchemeCommit(t *testing.T) {
	scheme := MD5Scheme{}

	// Known vector: md5("1700000000000-444-12")
	o := Outcome{Dice: [3]int{4, 4, 4}, Sum: 12}
	assert.Equal(t, "b5160df9ae20a9fa1b0a2d86bd1ff749", scheme.Commit(1700000000000, o))

	// Known vector: md5("42-123-6")
	o2 := Outcome{Dice: [3]int{1, 2, 3}, Sum: 6}
	assert.Equal(t, "1a9e481909044c7dbe07eb79664b56d4", scheme.Commit(42, o2))

	// Same inputs always give the same digest, different round IDs differ.
	assert.Equal(t, scheme.Commit(7, o), scheme.Commit(7, o))
	assert.NotEqual(t, scheme.Commit(7, o), scheme.Commit(8, o))
}
