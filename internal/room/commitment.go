package room

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
)

// CommitmentScheme binds a round's pre-rolled outcome before bets are
// visible. The digest is published at round start and the inputs are
// revealed at resolution so players can recompute it.
type CommitmentScheme interface {
	Commit(roundID int64, outcome Outcome) string
}

// MD5Scheme hashes "<roundId>-<d1><d2><d3>-<sum>".
type MD5Scheme struct{}

// Commit returns the hex MD5 digest for the round.
func (MD5Scheme) Commit(roundID int64, o Outcome) string {
	payload := fmt.Sprintf("%d-%d%d%d-%d", roundID, o.Dice[0], o.Dice[1], o.Dice[2], o.Sum)
	sum := md5.Sum([]byte(payload))
	return hex.EncodeToString(sum[:])
}
