// Package framebuffer implements the 32x32 color-index pixel grid a
// running program paints by writing into its memory window. Grounded on
// SPEC_FULL.md §6 and the original screen device this was ported from.
package framebuffer

import (
	"image"
	"image/color"

	"github.com/jmchacon/nes6502/bus"
)

const (
	// Base is the address of the first pixel byte.
	Base = uint16(0x0200)
	// Extent is the address one past the last pixel byte.
	Extent = uint16(0x0600)

	width  = 32
	height = 32
)

// Framebuffer is a passive memory window: writes land directly in its
// backing bytes and reads pass through untouched, so it implements no
// side effects of its own beyond exposing the grid to a host renderer.
type Framebuffer struct {
	mem []uint8
}

// New returns an unbound Framebuffer; Register it on a Bus before use.
func New() *Framebuffer {
	return &Framebuffer{}
}

// Mapping implements bus.Device.
func (f *Framebuffer) Mapping() bus.AddressRange {
	return bus.AddressRange{Lo: Base, Hi: Extent}
}

// Bind implements bus.Device.
func (f *Framebuffer) Bind(mem []uint8) {
	f.mem = mem
}

// OnRead implements bus.Device. The grid carries no side effects on read.
func (f *Framebuffer) OnRead(addr uint16) {}

// OnWrite implements bus.Device. The grid carries no side effects on
// write beyond the plain store the bus already performed.
func (f *Framebuffer) OnWrite(addr uint16, val uint8) {}

// GetScreenData returns the grid as height rows of width color-index
// bytes, row-major in the order they sit in memory.
func (f *Framebuffer) GetScreenData() [][]uint8 {
	rows := make([][]uint8, 0, height)
	for r := 0; r < height; r++ {
		row := make([]uint8, width)
		copy(row, f.mem[r*width:(r+1)*width])
		rows = append(rows, row)
	}
	return rows
}

// paletteHex is the fixed 9 color palette indexed bytes map onto, per
// SPEC_FULL.md §6: 0=black, 1=white, 2|9=grey, 3|10=red, 4|11=green,
// 5|12=blue, 6|13=magenta, 7|14=yellow, anything else=cyan.
var paletteHex = [9]string{
	"#000000", "#FFFFFF", "#7F7F7F", "#FF0000", "#00FF00",
	"#0000FF", "#FF00FF", "#FFFF00", "#00FFFF",
}

var paletteRGBA = [9]color.NRGBA{
	{0x00, 0x00, 0x00, 0xFF},
	{0xFF, 0xFF, 0xFF, 0xFF},
	{0x7F, 0x7F, 0x7F, 0xFF},
	{0xFF, 0x00, 0x00, 0xFF},
	{0x00, 0xFF, 0x00, 0xFF},
	{0x00, 0x00, 0xFF, 0xFF},
	{0xFF, 0x00, 0xFF, 0xFF},
	{0xFF, 0xFF, 0x00, 0xFF},
	{0x00, 0xFF, 0xFF, 0xFF},
}

func paletteIndex(b uint8) int {
	switch b {
	case 0, 1:
		return int(b)
	case 2, 9:
		return 2
	case 3, 10:
		return 3
	case 4, 11:
		return 4
	case 5, 12:
		return 5
	case 6, 13:
		return 6
	case 7, 14:
		return 7
	default:
		return 8
	}
}

// Color returns the hex RGB string a given pixel byte maps to.
func Color(b uint8) string {
	return paletteHex[paletteIndex(b)]
}

// RGBA renders the current grid into a 32x32 image for a host to blit or
// scale up. cmd/nesrun does not use it; it renders from GetScreenData
// and Color.
func (f *Framebuffer) RGBA() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	rows := f.GetScreenData()
	for y, row := range rows {
		for x, b := range row {
			img.SetNRGBA(x, y, paletteRGBA[paletteIndex(b)])
		}
	}
	return img
}
