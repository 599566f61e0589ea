package bus

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
)

// pollingDevice is a two-byte test double exercising the OnRead/OnWrite
// ordering contract: it replaces its first byte with a marker on every
// read and doubles its second byte on every write.
type pollingDevice struct {
	rng  AddressRange
	mem  []uint8
	reads, writes int
}

func (p *pollingDevice) Mapping() AddressRange { return p.rng }
func (p *pollingDevice) Bind(mem []uint8)      { p.mem = mem }
func (p *pollingDevice) OnRead(addr uint16) {
	p.reads++
	p.mem[0] = 0xAA
}
func (p *pollingDevice) OnWrite(addr uint16, val uint8) {
	p.writes++
	p.mem[1] = val * 2
}

func TestRamMirroring(t *testing.T) {
	b := New()
	for a := 0; a <= 0x1FFF; a += 0x137 {
		addr := uint16(a)
		b.Write8(addr, uint8(addr))
		if got, want := b.Read8(addr), b.Read8(addr&0x07FF); got != want {
			t.Errorf("Read8(%#x) = %#x, Read8(%#x) = %#x; want equal\nstate: %s", addr, got, addr&0x07FF, want, spew.Sdump(b))
		}
	}
}

func TestPPUMirroring(t *testing.T) {
	b := New()
	for a := 0x2000; a <= 0x3FFF; a += 0x101 {
		addr := uint16(a)
		b.Write8(addr, uint8(addr))
		if got, want := b.Read8(addr), b.Read8(addr&0x2007); got != want {
			t.Errorf("Read8(%#x) = %#x, Read8(%#x) = %#x; want equal\nstate: %s", addr, got, addr&0x2007, want, spew.Sdump(b))
		}
	}
}

func TestUnmirroredPassesThrough(t *testing.T) {
	b := New()
	b.Write8(0x8000, 0x42)
	if got, want := b.Read8(0x8000), uint8(0x42); got != want {
		t.Errorf("Read8(0x8000) = %#x, want %#x", got, want)
	}
}

func TestReadWrite16LittleEndian(t *testing.T) {
	b := New()
	b.Write16(0x0300, 0xBEEF)
	if got, want := b.Read8(0x0300), uint8(0xEF); got != want {
		t.Errorf("low byte = %#x, want %#x", got, want)
	}
	if got, want := b.Read8(0x0301), uint8(0xBE); got != want {
		t.Errorf("high byte = %#x, want %#x", got, want)
	}
	if got, want := b.Read16(0x0300), uint16(0xBEEF); got != want {
		t.Errorf("Read16 = %#x, want %#x", got, want)
	}
}

func TestDeviceReadWriteOrdering(t *testing.T) {
	b := New()
	d := &pollingDevice{rng: AddressRange{Lo: 0x4020, Hi: 0x4022}}
	if err := b.Register(d); err != nil {
		t.Fatalf("Register: %v", err)
	}

	// Write should be visible to OnWrite (second byte doubled).
	b.Write8(0x4021, 5)
	if got, want := b.Read8(0x4021), uint8(10); got != want {
		t.Errorf("after write+OnWrite, byte = %d, want %d", got, want)
	}

	// Read at the first byte should come back as the OnRead-injected marker.
	if got, want := b.Read8(0x4020), uint8(0xAA); got != want {
		t.Errorf("after OnRead, byte = %#x, want %#x", got, want)
	}
	if d.reads == 0 || d.writes == 0 {
		t.Errorf("device hooks did not fire: reads=%d writes=%d", d.reads, d.writes)
	}
}

func TestRegisterOverlapRejected(t *testing.T) {
	b := New()
	if err := b.Register(&pollingDevice{rng: AddressRange{Lo: 0x4020, Hi: 0x4022}}); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	err := b.Register(&pollingDevice{rng: AddressRange{Lo: 0x4021, Hi: 0x4030}})
	if err == nil {
		t.Fatal("expected overlapping Register to fail, got nil error")
	}
	if _, ok := err.(InvalidMapping); !ok {
		t.Errorf("error type = %T, want InvalidMapping", err)
	}
}

func TestRegisteredDeviceOnReadFiresOnce(t *testing.T) {
	b := New()
	first := &pollingDevice{rng: AddressRange{Lo: 0x5000, Hi: 0x5002}}
	if err := b.Register(first); err != nil {
		t.Fatalf("Register: %v", err)
	}
	b.Read8(0x5000)
	if first.reads != 1 {
		t.Errorf("first device reads = %d, want 1", first.reads)
	}
}

func TestLoadAndLoadROM(t *testing.T) {
	b := New()
	prog := []uint8{0xA9, 0x10, 0x00}
	b.LoadROM(prog, 0x8000)
	for i, v := range prog {
		if got := b.Read8(0x8000 + uint16(i)); got != v {
			t.Errorf("byte %d = %#x, want %#x", i, got, v)
		}
	}
	if got, want := b.Read16(ResetVector), uint16(0x8000); got != want {
		t.Errorf("reset vector = %#x, want %#x", got, want)
	}
}
