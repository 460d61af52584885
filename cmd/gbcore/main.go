package main

import (
	"flag"
	"fmt"
	"hash/crc32"
	"image"
	"image/png"
	"log"
	"os"
	"strings"
	"time"

	"github.com/Developers-0x0/GameBoy-DMG-Emulator/internal/cart"
	"github.com/Developers-0x0/GameBoy-DMG-Emulator/internal/emu"
	"github.com/Developers-0x0/GameBoy-DMG-Emulator/internal/ppu"
	"github.com/Developers-0x0/GameBoy-DMG-Emulator/internal/ui"
)

type CLIFlags struct {
	ROMPath string
	Scale   int
	Title   string
	Info    bool // print header summary and exit
	SaveRAM bool // persist battery RAM next to ROM (.sav)

	// headless
	Headless bool
	Frames   int
	PNGOut   string
	Expect   string // expected framebuffer CRC32 hex (e.g., "1a2b3c4d")
}

func parseFlags() CLIFlags {
	var f CLIFlags
	flag.StringVar(&f.ROMPath, "rom", "", "path to ROM (.gb)")
	flag.IntVar(&f.Scale, "scale", 3, "window scale")
	flag.StringVar(&f.Title, "title", "gbcore", "window title")
	flag.BoolVar(&f.Info, "info", false, "print cartridge header info and exit")
	flag.BoolVar(&f.SaveRAM, "save", true, "persist battery RAM to ROM.sav on exit and load on start")

	// headless options
	flag.BoolVar(&f.Headless, "headless", false, "run without a window")
	flag.IntVar(&f.Frames, "frames", 300, "frames to run in headless mode")
	flag.StringVar(&f.PNGOut, "outpng", "", "write last framebuffer to PNG at path")
	flag.StringVar(&f.Expect, "expect", "", "assert framebuffer CRC32 (hex)")
	flag.Parse()
	return f
}

func runHeadless(m *emu.Machine, frames int, pngPath, expectCRC string) error {
	if frames <= 0 {
		frames = 1
	}

	start := time.Now()
	for i := 0; i < frames; i++ {
		m.StepFrame()
	}
	dur := time.Since(start)

	fb := m.FramebufferRGBA(nil)
	crc := crc32.ChecksumIEEE(fb)
	fps := float64(frames) / dur.Seconds()

	log.Printf("headless: frames=%d elapsed=%s fps=%.2f fb_crc32=%08x",
		frames, dur.Truncate(time.Millisecond), fps, crc)

	if pngPath != "" {
		if err := saveFramePNG(fb, ppu.Width, ppu.Height, pngPath); err != nil {
			return fmt.Errorf("write PNG: %w", err)
		}
		log.Printf("wrote %s", pngPath)
	}

	if expectCRC != "" {
		want := strings.TrimPrefix(strings.ToLower(expectCRC), "0x")
		got := fmt.Sprintf("%08x", crc)
		if got != want {
			return fmt.Errorf("checksum mismatch: got %s, want %s", got, want)
		}
	}
	return nil
}

func saveFramePNG(pix []byte, w, h int, path string) error {
	img := &image.RGBA{
		Pix:    make([]byte, len(pix)),
		Stride: 4 * w,
		Rect:   image.Rect(0, 0, w, h),
	}
	copy(img.Pix, pix)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

func savPathFor(romPath string) string {
	for _, ext := range []string{".gb", ".gbc"} {
		if strings.HasSuffix(strings.ToLower(romPath), ext) {
			return romPath[:len(romPath)-len(ext)] + ".sav"
		}
	}
	return romPath + ".sav"
}

func main() {
	f := parseFlags()
	if f.ROMPath == "" {
		log.Fatal("no ROM given (use -rom)")
	}
	rom, err := os.ReadFile(f.ROMPath)
	if err != nil {
		log.Fatalf("read %s: %v", f.ROMPath, err)
	}

	if h, err := cart.ParseHeader(rom); err == nil {
		log.Printf("ROM: %q type=%s banks=%d ram=%dB", h.Title, h.CartTypeStr, h.ROMBanks, h.RAMSizeBytes)
		if f.Info {
			fmt.Print(h.Info())
			return
		}
	} else if f.Info {
		log.Fatalf("parse header: %v", err)
	}

	m := emu.New(emu.DefaultConfig())
	if err := m.LoadCartridge(rom); err != nil {
		log.Fatalf("load cart: %v", err)
	}

	// Battery RAM: load .sav if present
	var savPath string
	if f.SaveRAM {
		savPath = savPathFor(f.ROMPath)
		if data, err := os.ReadFile(savPath); err == nil {
			if m.LoadBattery(data) {
				log.Printf("loaded save RAM: %s (%d bytes)", savPath, len(data))
			}
		}
	}

	saveBattery := func() {
		if !f.SaveRAM || savPath == "" {
			return
		}
		if data, ok := m.SaveBattery(); ok {
			if err := os.WriteFile(savPath, data, 0644); err == nil {
				log.Printf("wrote %s", savPath)
			}
		}
	}

	if f.Headless {
		if err := runHeadless(m, f.Frames, f.PNGOut, f.Expect); err != nil {
			log.Fatal(err)
		}
		saveBattery()
		return
	}

	app := ui.NewApp(ui.Config{Title: f.Title, Scale: f.Scale}, m)
	if err := app.Run(); err != nil {
		log.Fatal(err)
	}
	saveBattery()
}
