// Package rng implements the memory-mapped random-number register: any
// CPU write to its byte is answered by the device immediately overwriting
// it with a freshly sampled value, so a read-after-write observes the new
// sample. Grounded on SPEC_FULL.md §6 and the original random generator
// device this was ported from.
package rng

import (
	"math/rand"

	"github.com/jmchacon/nes6502/bus"
)

const (
	// lo and hi bound the half-open sample range [1, 16).
	lo = 1
	hi = 16
)

// Generator is the random-number register.
type Generator struct {
	addr uint16
	mem  []uint8
	rnd  *rand.Rand
}

// New returns a generator register mapped at addr (0x4018), seeded from
// seed. Host code picks the seed; tests use a fixed one for determinism.
func New(addr uint16, seed int64) *Generator {
	return &Generator{addr: addr, rnd: rand.New(rand.NewSource(seed))}
}

// Mapping implements bus.Device.
func (g *Generator) Mapping() bus.AddressRange {
	return bus.AddressRange{Lo: g.addr, Hi: g.addr + 1}
}

// Bind implements bus.Device.
func (g *Generator) Bind(mem []uint8) {
	g.mem = mem
}

// OnRead implements bus.Device; reads carry no side effect of their own,
// they simply observe whatever was last sampled.
func (g *Generator) OnRead(addr uint16) {}

// OnWrite implements bus.Device. Whatever the CPU wrote is discarded and
// replaced by a fresh sample in [1, 16).
func (g *Generator) OnWrite(addr uint16, val uint8) {
	g.mem[0] = uint8(lo + g.rnd.Intn(hi-lo))
}
