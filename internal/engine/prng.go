package engine

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
)

// Rand is the slice of a random source the simulators draw from.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// SeedFromString returns a 64-bit seed from an arbitrary string using SHA256.
func SeedFromString(s string) uint64 {
	h := sha256.Sum256([]byte(s))
	return binary.LittleEndian.Uint64(h[:8])
}

// Derive returns a child seed for label using HMAC-SHA256 keyed by base.
func Derive(base uint64, label string) uint64 {
	key := make([]byte, 8)
	binary.LittleEndian.PutUint64(key, base)
	m := hmac.New(sha256.New, key)
	_, _ = m.Write([]byte(label))
	return binary.LittleEndian.Uint64(m.Sum(nil)[:8])
}

// Seed is the textual session seed plus its hashed root.
type Seed struct {
	Text string
	root uint64
}

// NewSeed hashes seedText into a Seed. Empty text is rejected.
func NewSeed(seedText string) (Seed, error) {
	if seedText == "" {
		return Seed{}, fmt.Errorf("seed text must not be empty")
	}
	return Seed{Text: seedText, root: SeedFromString(seedText)}, nil
}

// Stream returns the labelled stream for this seed, e.g. "world" or "missions".
func (s Seed) Stream(label string) *Stream {
	return newStream(Derive(s.root, label))
}

type splitMix64 struct{ state uint64 }

func (s *splitMix64) next() uint64 {
	s.state += 0x9E3779B97F4A7C15
	z := s.state
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

// Stream is a deterministic SplitMix64 source. It is not safe for concurrent use;
// the Session serializes every draw.
type Stream struct {
	sm splitMix64
}

func newStream(seed uint64) *Stream {
	return &Stream{sm: splitMix64{state: seed}}
}

// Intn returns a value in [0,n). n <= 0 yields 0.
func (s *Stream) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(s.sm.next() % uint64(n))
}

// Float64 returns a float in [0,1).
func (s *Stream) Float64() float64 { return float64(s.sm.next()>>11) / (1 << 53) }
