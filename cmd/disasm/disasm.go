// disasm loads a flat binary produced by loadrom and prints a disassembly
// listing starting at a given address. Grounded on the teacher's
// hand_asm CLI shape (flag.Int offset, positional filename, log.Fatalf
// on error); see DESIGN.md.
package main

import (
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"

	"github.com/jmchacon/nes6502/bus"
	"github.com/jmchacon/nes6502/disassemble"
)

var (
	start  = flag.Int("start", 0x8000, "Address to begin disassembling from")
	length = flag.Int("length", 0x100, "Number of bytes to disassemble")
)

func main() {
	flag.Parse()
	if len(flag.Args()) != 1 {
		log.Fatalf("Invalid command: %s <image.bin>", os.Args[0])
	}
	fn := flag.Args()[0]
	raw, err := ioutil.ReadFile(fn)
	if err != nil {
		log.Fatalf("Can't open %s - %v", fn, err)
	}

	b := bus.New()
	b.Load(raw, 0x0000)

	pc := uint16(*start)
	end := uint16(*start + *length)
	for pc < end {
		line, n := disassemble.Step(pc, b)
		fmt.Println(line)
		pc += uint16(n)
	}
}
