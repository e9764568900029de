// apps/go-server/internal/daily/daily.go
//
// Deterministic daily numbers puzzle. Every player gets the same six numbers
// and target for a given UTC date: HMAC-SHA256(salt, YYYY-MM-DD) seeds the
// round generator.

package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"math/rand/v2"
	"time"

	"github.com/robalobadob/wingo/apps/go-server/internal/game"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Seed returns a deterministic seed for a date using HMAC(salt, YYYY-MM-DD).
func Seed(date time.Time, salt string) uint64 {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// take first 8 bytes as the seed
	return binary.BigEndian.Uint64(sum[:8])
}

// Round builds the daily round for date. The big-number count (1–4) is
// drawn from the same seed so it varies from day to day.
func Round(date time.Time, salt string) *game.Round {
	seed := Seed(date, salt)
	rng := rand.New(rand.NewPCG(seed, seed>>1|1))
	big := 1 + rng.IntN(4)
	r, _ := game.NewRound(big, rng) // big is always in range
	r.ID = "daily-" + DateKey(date)
	return r
}
