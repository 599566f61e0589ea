// nesrun is a minimal SDL2 host for the core: it loads a program into a
// bus.Bus wired up with two controllers, a framebuffer and a random
// register, steps the CPU a fixed number of instructions per displayed
// frame, and blits the resulting 32x32 grid to a window. Grounded on the
// teacher's vcs_main.go (sdl.Main/sdl.Do pattern, direct surface pixel
// poking via a draw.Image, the pprof debug goroutine); see DESIGN.md.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io/ioutil"
	"log"
	"net/http"
	_ "net/http/pprof"
	"sync"
	"time"

	"github.com/jmchacon/nes6502/bus"
	"github.com/jmchacon/nes6502/controller"
	"github.com/jmchacon/nes6502/cpu"
	"github.com/jmchacon/nes6502/framebuffer"
	"github.com/jmchacon/nes6502/rng"
	"github.com/veandco/go-sdl2/sdl"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var (
	cart        = flag.String("cart", "", "Path to a raw 6502 program image to run")
	scale       = flag.Int("scale", 12, "Scale factor to render the 32x32 grid")
	port        = flag.Int("port", 6060, "Port to run HTTP server for pprof")
	debug       = flag.Bool("debug", false, "If true, overlay register state on the window")
	instPerDraw = flag.Int("instructions_per_frame", 2000, "CPU instructions to execute between redraws")
)

const (
	gridSize   = 32
	overlayRow = 16 // rows of overlay text space, in source pixels, appended below the grid
)

// fastImage pokes pixels directly into an SDL surface's backing bytes,
// the same shortcut the teacher's vcs_main.go uses to avoid color.Color
// boxing in the hot per-pixel path.
type fastImage struct {
	surface *sdl.Surface
	data    []byte
}

func (f *fastImage) Set(x, y int, c color.Color) {
	i := int32(y)*f.surface.Pitch + int32(x)*int32(f.surface.Format.BytesPerPixel)
	r, g, b, a := c.RGBA()
	f.data[i+0] = uint8(b >> 8)
	f.data[i+1] = uint8(g >> 8)
	f.data[i+2] = uint8(r >> 8)
	f.data[i+3] = uint8(a >> 8)
}

func (f *fastImage) ColorModel() color.Model { return f.surface.ColorModel() }
func (f *fastImage) Bounds() image.Rectangle { return f.surface.Bounds() }
func (f *fastImage) At(x, y int) color.Color { return f.surface.At(x, y) }

// keymap assigns a keyboard scancode to a button on player one's pad.
var keymap = map[sdl.Scancode]controller.Button{
	sdl.SCANCODE_UP:     controller.Up,
	sdl.SCANCODE_DOWN:   controller.Down,
	sdl.SCANCODE_LEFT:   controller.Left,
	sdl.SCANCODE_RIGHT:  controller.Right,
	sdl.SCANCODE_Z:      controller.A,
	sdl.SCANCODE_X:      controller.B,
	sdl.SCANCODE_RSHIFT: controller.Select,
	sdl.SCANCODE_RETURN: controller.Start,
}

func main() {
	flag.Parse()
	if *cart == "" {
		log.Fatalf("--cart is required")
	}

	go func() {
		log.Println(http.ListenAndServe(fmt.Sprintf("localhost:%d", *port), nil))
	}()

	rom, err := ioutil.ReadFile(*cart)
	if err != nil {
		log.Fatalf("Can't load cart: %v from path: %s", err, *cart)
	}

	b := bus.New()
	chip, err := cpu.Init(&cpu.ChipDef{Variant: cpu.VariantNMOSRicoh})
	if err != nil {
		log.Fatalf("Can't init CPU: %v", err)
	}

	pad1 := controller.New(0x4016)
	pad2 := controller.New(0x4017)
	fb := framebuffer.New()
	gen := rng.New(0x4018, time.Now().UnixNano())
	for _, d := range []bus.Device{pad1, pad2, fb, gen} {
		if err := b.Register(d); err != nil {
			log.Fatalf("Can't register device: %v", err)
		}
	}

	b.LoadROM(rom, 0x8000)
	chip.Reset(b)

	w := gridSize * *scale
	h := (gridSize + overlayRow) * *scale

	var window *sdl.Window
	fi := &fastImage{}

	sdl.Main(func() {
		var wg sync.WaitGroup
		wg.Add(1)
		sdl.Do(func() {
			if err := sdl.Init(sdl.INIT_EVERYTHING); err != nil {
				log.Fatalf("Can't init SDL: %v", err)
			}
			var err error
			window, err = sdl.CreateWindow("nes6502", sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED, int32(w), int32(h), sdl.WINDOW_SHOWN)
			if err != nil {
				log.Fatalf("Can't create window: %v", err)
			}
			fi.surface, err = window.GetSurface()
			if err != nil {
				log.Fatalf("Can't get window surface: %v", err)
			}
			fi.data = fi.surface.Pixels()
			wg.Done()
		})
		wg.Wait()
		defer func() {
			window.Destroy()
			sdl.Quit()
		}()

		running := true
		for running && !chip.Halted() {
			sdl.Do(func() {
				for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
					switch e := ev.(type) {
					case *sdl.QuitEvent:
						running = false
					case *sdl.KeyboardEvent:
						handleKey(pad1, e)
					}
				}
			})

			for i := 0; i < *instPerDraw && !chip.Halted(); i++ {
				if _, err := chip.Step(b); err != nil {
					log.Fatalf("Step error: %v", err)
				}
			}

			sdl.Do(func() {
				draw.Draw(fi, image.Rect(0, 0, w, h), image.NewUniform(color.Black), image.Point{}, draw.Src)
				blitFramebuffer(fi, fb, *scale)
				if *debug {
					drawOverlay(fi, chip.State(), *scale)
				}
				window.UpdateSurface()
			})
		}
	})
}

func handleKey(pad *controller.Controller, e *sdl.KeyboardEvent) {
	btn, ok := keymap[e.Keysym.Scancode]
	if !ok {
		return
	}
	if e.State == sdl.PRESSED {
		pad.Press(btn)
	} else {
		pad.Release(btn)
	}
}

func blitFramebuffer(img draw.Image, fb *framebuffer.Framebuffer, scale int) {
	rows := fb.GetScreenData()
	for y, row := range rows {
		for x, v := range row {
			c := pixelColor(v)
			for dy := 0; dy < scale; dy++ {
				for dx := 0; dx < scale; dx++ {
					img.Set(x*scale+dx, y*scale+dy, c)
				}
			}
		}
	}
}

var paletteCache = map[uint8]color.RGBA{}

func pixelColor(v uint8) color.RGBA {
	if c, ok := paletteCache[v]; ok {
		return c
	}
	hex := framebuffer.Color(v)
	var r, g, bl uint8
	fmt.Sscanf(hex, "#%02x%02x%02x", &r, &g, &bl)
	c := color.RGBA{R: r, G: g, B: bl, A: 0xFF}
	paletteCache[v] = c
	return c
}

func drawOverlay(img draw.Image, st cpu.State, scale int) {
	line := fmt.Sprintf("A:%02X X:%02X Y:%02X SP:%02X PC:%04X P:%02X", st.A, st.X, st.Y, st.SP, st.PC, st.P)
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(colornames.Lightgreen),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(4, gridSize*scale+14),
	}
	d.DrawString(line)
}
