package normaliser

import (
	"math/rand"
	"time"
)

const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ1234567890"

// NameGenerator hands out random temporary identifiers. A generator created with the
// same non-zero seed produces the same sequence of names.
type NameGenerator struct {
	rng *rand.Rand
}

func NewNameGenerator(seed int64) *NameGenerator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &NameGenerator{rng: rand.New(rand.NewSource(seed))}
}

// RandomString returns n characters drawn from [a-zA-Z0-9].
func (g *NameGenerator) RandomString(n int) string {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = alphabet[g.rng.Intn(len(alphabet))]
	}
	return string(buf)
}

// Fresh returns prefix followed by ten random characters, retrying while taken
// reports a collision.
func (g *NameGenerator) Fresh(prefix string, taken func(string) bool) string {
	for {
		name := prefix + g.RandomString(10)
		if taken == nil || !taken(name) {
			return name
		}
	}
}
