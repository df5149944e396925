// Package room implements the multiplayer Tài Xỉu betting room.
// One Room per chat runs a countdown round, accepts concurrent bets,
// resolves a pre-rolled outcome at expiry and settles every bet.
package room

import (
	"fmt"
	"math/rand"
)

// Category is one of the four outcome predictions a bet can target.
type Category string

const (
	CategoryTai  Category = "tai"  // sum > 10
	CategoryXiu  Category = "xiu"  // sum <= 10
	CategoryChan Category = "chan" // even sum
	CategoryLe   Category = "le"   // odd sum
)

// categories in display and settlement order.
var categories = []Category{CategoryTai, CategoryXiu, CategoryChan, CategoryLe}

// ParseCategory normalizes a user-supplied category string.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryTai, CategoryXiu, CategoryChan, CategoryLe:
		return Category(s), nil
	}
	return "", ErrInvalidCategory
}

// Label returns the Vietnamese display name of the category.
func (c Category) Label() string {
	switch c {
	case CategoryTai:
		return "Tài"
	case CategoryXiu:
		return "Xỉu"
	case CategoryChan:
		return "Chẵn"
	case CategoryLe:
		return "Lẻ"
	}
	return string(c)
}

// Outcome is a resolved 3-dice roll.
type Outcome struct {
	Dice [3]int
	Sum  int
}

// Roll produces a uniformly random outcome from the given source.
func Roll(rnd *rand.Rand) Outcome {
	var o Outcome
	for i := range o.Dice {
		o.Dice[i] = rnd.Intn(6) + 1
		o.Sum += o.Dice[i]
	}
	return o
}

// IsHigh reports whether the outcome is Tài (sum over 10).
func (o Outcome) IsHigh() bool {
	return o.Sum > 10
}

// IsEven reports whether the outcome is Chẵn (even sum).
func (o Outcome) IsEven() bool {
	return o.Sum%2 == 0
}

// Wins reports whether a bet on the given category wins this outcome.
func (o Outcome) Wins(c Category) bool {
	switch c {
	case CategoryTai:
		return o.IsHigh()
	case CategoryXiu:
		return !o.IsHigh()
	case CategoryChan:
		return o.IsEven()
	case CategoryLe:
		return !o.IsEven()
	}
	return false
}

// String renders the dice for display, e.g. "4 - 4 - 4 = 12".
func (o Outcome) String() string {
	return fmt.Sprintf("%d - %d - %d = %d", o.Dice[0], o.Dice[1], o.Dice[2], o.Sum)
}
