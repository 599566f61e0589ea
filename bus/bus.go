// Package bus implements the 6502 address space: a flat backing memory,
// hardware address mirroring, and a registry of memory-mapped devices
// whose callbacks fire on reads and writes that land in their claimed
// range.
package bus

import "fmt"

const (
	// memSize matches the historical off-by-one in the source this was
	// ported from: addresses 0x0000..=0xFFFE are valid, 0xFFFF is not.
	// See SPEC_FULL.md §9 for why this is kept rather than widened to 64k.
	memSize = 0xFFFF

	kRAM_MIRROR_LO = uint16(0x0000)
	kRAM_MIRROR_HI = uint16(0x1FFF)
	kRAM_MIRROR_MASK = uint16(0x07FF)

	kPPU_MIRROR_LO = uint16(0x2000)
	kPPU_MIRROR_HI = uint16(0x3FFF)
	kPPU_MIRROR_MASK = uint16(0x2007)

	// ResetVector is the address the CPU loads PC from on reset.
	ResetVector = uint16(0xFFFC)
)

// AddressRange is a half-open range [Lo, Hi) in the 16 bit address space.
type AddressRange struct {
	Lo uint16
	Hi uint16
}

// Contains reports whether addr falls within [Lo, Hi).
func (a AddressRange) Contains(addr uint16) bool {
	return addr >= a.Lo && addr < a.Hi
}

func (a AddressRange) overlaps(o AddressRange) bool {
	return a.Lo < o.Hi && o.Lo < a.Hi
}

// Device is the contract every memory-mapped peripheral satisfies. See
// SPEC_FULL.md §4.1.
type Device interface {
	// Mapping returns the half-open address range this device claims.
	Mapping() AddressRange
	// Bind is called once at registration, handing the device a mutable
	// view restricted to exactly the bytes of its claimed range. The
	// device retains this slice for its lifetime and must not keep
	// references outside it.
	Bind(mem []uint8)
	// OnRead runs after the bus has loaded the byte at addr.
	OnRead(addr uint16)
	// OnWrite runs after the bus has stored val at addr.
	OnWrite(addr uint16, val uint8)
}

type registeredDevice struct {
	rng AddressRange
	dev Device
}

// InvalidMapping indicates two registered devices claim overlapping
// address ranges.
type InvalidMapping struct {
	New      AddressRange
	Existing AddressRange
}

// Error implements the error interface.
func (e InvalidMapping) Error() string {
	return fmt.Sprintf("device range %v overlaps already-registered range %v", e.New, e.Existing)
}

// Bus owns the entire 6502 address space and routes every access through
// the hardware mirroring map before dispatching to any matching device.
type Bus struct {
	mem     [memSize]uint8
	devices []registeredDevice
}

// New returns a powered-on, device-free Bus.
func New() *Bus {
	return &Bus{}
}

// Register binds d into the bus at the range it claims. A range that
// overlaps an already-registered one is rejected outright with an
// InvalidMapping, since it is a configuration error, not a runtime one;
// registered ranges are therefore always disjoint.
func (b *Bus) Register(d Device) error {
	rng := d.Mapping()
	for _, r := range b.devices {
		if rng.overlaps(r.rng) {
			return InvalidMapping{New: rng, Existing: r.rng}
		}
	}
	lo, hi := int(rng.Lo), int(rng.Hi)
	if lo < 0 || hi > len(b.mem)+1 || lo > hi {
		return fmt.Errorf("device range %v is out of bounds for a %d byte bus", rng, len(b.mem))
	}
	// A device whose Hi lies past the end of the backing array binds
	// against it directly; clamp the slice bound to what exists.
	if hi > len(b.mem) {
		hi = len(b.mem)
	}
	d.Bind(b.mem[lo:hi])
	b.devices = append(b.devices, registeredDevice{rng: rng, dev: d})
	return nil
}

// mirror applies the fixed hardware address-mirroring map from
// SPEC_FULL.md §4.2.
func mirror(addr uint16) uint16 {
	switch {
	case addr >= kRAM_MIRROR_LO && addr <= kRAM_MIRROR_HI:
		return addr & kRAM_MIRROR_MASK
	case addr >= kPPU_MIRROR_LO && addr <= kPPU_MIRROR_HI:
		return addr & kPPU_MIRROR_MASK
	default:
		return addr
	}
}

func (b *Bus) deviceFor(addr uint16) Device {
	for _, r := range b.devices {
		if r.rng.Contains(addr) {
			return r.dev
		}
	}
	return nil
}

// Read8 mirrors addr, loads the byte stored there, invokes the matching
// device's OnRead after the load, and returns the byte at addr as it
// stands once OnRead has run.
func (b *Bus) Read8(addr uint16) uint8 {
	eff := mirror(addr)
	val := b.mem[eff]
	if d := b.deviceFor(eff); d != nil {
		d.OnRead(eff)
		val = b.mem[eff]
	}
	return val
}

// Write8 mirrors addr, stores val there, and invokes the matching
// device's OnWrite after the store.
func (b *Bus) Write8(addr uint16, val uint8) {
	eff := mirror(addr)
	b.mem[eff] = val
	if d := b.deviceFor(eff); d != nil {
		d.OnWrite(eff, val)
	}
}

// Read16 reads a little-endian word starting at addr.
func (b *Bus) Read16(addr uint16) uint16 {
	lo := b.Read8(addr)
	hi := b.Read8(addr + 1)
	return uint16(hi)<<8 | uint16(lo)
}

// Write16 writes word as little-endian bytes starting at addr.
func (b *Bus) Write16(addr uint16, word uint16) {
	b.Write8(addr, uint8(word&0xFF))
	b.Write8(addr+1, uint8(word>>8))
}

// Load copies program into the backing memory starting at dest. It does
// not go through mirroring or devices; it's raw setup, the same way the
// teacher's program loaders stage a cart image before running it.
func (b *Bus) Load(program []uint8, dest uint16) {
	for i, v := range program {
		b.mem[int(dest)+i] = v
	}
}

// LoadROM loads program at dest and points the reset vector at it, so a
// subsequent Chip.Reset will start execution there. See SPEC_FULL.md's
// "program loading" supplemented module.
func (b *Bus) LoadROM(program []uint8, dest uint16) {
	b.Load(program, dest)
	b.Write16(ResetVector, dest)
}
