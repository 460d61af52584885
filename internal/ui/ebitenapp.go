package ui

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/Developers-0x0/GameBoy-DMG-Emulator/internal/emu"
	"github.com/Developers-0x0/GameBoy-DMG-Emulator/internal/ppu"
)

type App struct {
	cfg    Config
	m      *emu.Machine
	tex    *ebiten.Image
	pix    []byte
	paused bool
	fast   bool
	muted  bool
}

func NewApp(cfg Config, m *emu.Machine) *App {
	cfg.Defaults()
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(ppu.Width*cfg.Scale, ppu.Height*cfg.Scale)
	return &App{cfg: cfg, m: m, muted: cfg.Mute}
}

func (a *App) Run() error {
	if err := a.startAudio(); err != nil {
		return err
	}
	return ebiten.RunGame(a)
}

func (a *App) Update() error {
	// Pause toggle (P)
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		a.paused = !a.paused
	}

	// Fast-forward (Tab): while held, run multiple frames per Ebiten update
	a.fast = ebiten.IsKeyPressed(ebiten.KeyTab)

	// Mute toggle (M)
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		a.muted = !a.muted
	}

	// Frame-step when paused (N)
	if a.paused && inpututil.IsKeyJustPressed(ebiten.KeyN) {
		a.m.StepFrame()
	}

	// Screenshot (F12)
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		_ = a.saveScreenshot()
	}

	if !a.paused {
		if a.fast {
			for i := 0; i < 5; i++ {
				a.m.StepFrame()
			}
		} else {
			a.m.StepFrame()
		}
	}
	return nil
}

func (a *App) Draw(screen *ebiten.Image) {
	if a.tex == nil {
		a.tex = ebiten.NewImage(ppu.Width, ppu.Height)
	}
	a.pix = a.m.FramebufferRGBA(a.pix)
	a.tex.WritePixels(a.pix)
	screen.DrawImage(a.tex, nil)
}

func (a *App) Layout(outW, outH int) (int, int) { return ppu.Width, ppu.Height }

func (a *App) saveScreenshot() error {
	img := &image.RGBA{
		Pix:    a.m.FramebufferRGBA(nil),
		Stride: 4 * ppu.Width,
		Rect:   image.Rect(0, 0, ppu.Width, ppu.Height),
	}
	ts := time.Now().Format("20060102_150405")
	name := fmt.Sprintf("screenshot_%s.png", ts)
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
