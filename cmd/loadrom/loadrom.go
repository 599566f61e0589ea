// loadrom takes a flat binary with a 2 byte little-endian load-address
// header (the same convention C64 PRG files use) and assembles it into a
// 0xFFFF byte memory image with the reset vector pointed at the load
// address, ready for a host to feed straight into bus.Bus + cpu.Chip.
// Adapted from the teacher's convertprg, generalized off the C64-specific
// BASIC vector setup onto this module's bus.LoadROM; see DESIGN.md.
package main

import (
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"

	"github.com/jmchacon/nes6502/bus"
)

func main() {
	flag.Parse()
	if len(flag.Args()) != 1 {
		log.Fatalf("Invalid command: %s <input.prg>", os.Args[0])
	}
	fn := flag.Args()[0]
	raw, err := ioutil.ReadFile(fn)
	if err != nil {
		log.Fatalf("Can't open %s - %v", fn, err)
	}
	if len(raw) < 2 {
		log.Fatalf("%s too short to contain a load-address header", fn)
	}

	addr := uint16(raw[0]) | uint16(raw[1])<<8
	program := raw[2:]

	b := bus.New()
	b.LoadROM(program, addr)

	// The address space tops out at 0xFFFE (see bus.Bus), so the image
	// written here is 0xFFFF bytes, not a full 64k.
	out := make([]byte, 0xFFFF)
	for i := range out {
		out[i] = b.Read8(uint16(i))
	}

	outfn := fn + ".bin"
	if err := ioutil.WriteFile(outfn, out, 0644); err != nil {
		log.Fatalf("Can't write %q: %v", outfn, err)
	}
	fmt.Printf("Loaded %d bytes at %#04x, reset vector set, wrote %s\n", len(program), addr, outfn)
}
