package ppu

// renderScanline rasterizes the current line into the frame buffer. Called
// exactly once per visible line, at the Draw->HBlank transition. Layers are
// composited in fixed order (background, window, sprites), each gated by its
// LCDC enable bit.
func (p *PPU) renderScanline() {
	if p.line >= p.cfg.VisibleLines {
		return
	}
	y := p.line
	row := p.frame[y*Width : (y+1)*Width]
	for x := range row {
		row[x] = 0
	}
	if (p.lcdc & 0x80) == 0 { // LCD off
		return
	}

	// Raw 2-bit color indices before palette mapping; sprite priority
	// depends on them, not on the shaded output.
	var bgci [Width]byte

	if (p.lcdc & 0x01) != 0 {
		p.renderBackground(row, bgci[:])
	}
	// On DMG the window also requires the background enable bit.
	if (p.lcdc&0x20) != 0 && (p.lcdc&0x01) != 0 {
		p.renderWindow(row, bgci[:])
	}
	if (p.lcdc & 0x02) != 0 {
		p.renderSprites(row, bgci[:])
	}
}

// shade maps a 2-bit color index through an 8-bit palette register to a
// shade index 0..3 (0 lightest).
func shade(pal, ci byte) byte {
	return (pal >> (ci * 2)) & 0x03
}

func (p *PPU) renderBackground(row []byte, bgci []byte) {
	mapBase := uint16(0x9800)
	if (p.lcdc & 0x08) != 0 {
		mapBase = 0x9C00
	}
	tileData8000 := (p.lcdc & 0x10) != 0

	bgy := byte((uint16(p.scy) + uint16(p.line)) & 0xFF)
	tileRow := uint16(bgy/8) * 32
	fineY := bgy % 8
	for x := 0; x < Width; x++ {
		bgx := byte((uint16(p.scx) + uint16(x)) & 0xFF)
		tileCol := uint16(bgx / 8)
		tileNum := p.mem.ReadVRAM(mapBase + tileRow + tileCol)
		lo, hi := p.tileRowBytes(tileNum, fineY, tileData8000)
		bit := 7 - (bgx % 8)
		ci := ((hi>>bit)&1)<<1 | ((lo >> bit) & 1)
		row[x] = shade(p.bgp, ci)
		bgci[x] = ci
	}
}

func (p *PPU) renderWindow(row []byte, bgci []byte) {
	if p.line < int(p.wy) || int(p.wy) >= p.cfg.VisibleLines {
		return
	}
	winXStart := int(p.wx) - 7
	if winXStart >= Width || int(p.wx) > 166 {
		return
	}
	mapBase := uint16(0x9800)
	if (p.lcdc & 0x40) != 0 {
		mapBase = 0x9C00
	}
	tileData8000 := (p.lcdc & 0x10) != 0

	// The window keeps its own line counter: it does not resume lower on
	// screen after being hidden mid-frame.
	winY := byte(p.winLine)
	p.winLine++
	tileRow := uint16(winY/8) * 32
	fineY := winY % 8
	for x := max(0, winXStart); x < Width; x++ {
		winX := byte(x - winXStart)
		tileCol := uint16(winX / 8)
		tileNum := p.mem.ReadVRAM(mapBase + tileRow + tileCol)
		lo, hi := p.tileRowBytes(tileNum, fineY, tileData8000)
		bit := 7 - (winX % 8)
		ci := ((hi>>bit)&1)<<1 | ((lo >> bit) & 1)
		row[x] = shade(p.bgp, ci)
		bgci[x] = ci
	}
}

// tileRowBytes fetches the two bitplane bytes for one row of a tile, using
// either 0x8000 unsigned or 0x9000 signed tile-data addressing.
func (p *PPU) tileRowBytes(tileNum, fineY byte, tileData8000 bool) (lo, hi byte) {
	var addr uint16
	if tileData8000 {
		addr = 0x8000 + uint16(tileNum)*16 + uint16(fineY)*2
	} else {
		addr = uint16(int(0x9000) + int(int8(tileNum))*16 + int(fineY)*2)
	}
	return p.mem.ReadVRAM(addr), p.mem.ReadVRAM(addr + 1)
}

type oamEntry struct {
	sy, sx     int
	tile, attr byte
	index      int
}

func (p *PPU) renderSprites(row []byte, bgci []byte) {
	y := p.line
	sprite16 := (p.lcdc & 0x04) != 0
	height := 8
	if sprite16 {
		height = 16
	}

	// Up to 10 sprites covering this line, in OAM order.
	candidates := make([]oamEntry, 0, 10)
	for i := 0; i < 40 && len(candidates) < 10; i++ {
		base := uint16(0xFE00 + i*4)
		sy := int(p.mem.ReadOAM(base)) - 16
		sx := int(p.mem.ReadOAM(base+1)) - 8
		if sy <= y && y < sy+height {
			candidates = append(candidates, oamEntry{
				sy: sy, sx: sx,
				tile:  p.mem.ReadOAM(base + 2),
				attr:  p.mem.ReadOAM(base + 3),
				index: i,
			})
		}
	}
	if len(candidates) == 0 {
		return
	}
	// Leftmost X wins; OAM index breaks ties.
	for i := 0; i < len(candidates); i++ {
		for j := i + 1; j < len(candidates); j++ {
			if candidates[j].sx < candidates[i].sx ||
				(candidates[j].sx == candidates[i].sx && candidates[j].index < candidates[i].index) {
				candidates[i], candidates[j] = candidates[j], candidates[i]
			}
		}
	}

	for x := 0; x < Width; x++ {
		for _, s := range candidates {
			if x < s.sx || x >= s.sx+8 {
				continue
			}
			// OBJ-behind-BG: skip where the BG/window pixel is non-zero
			if (s.attr&(1<<7)) != 0 && bgci[x] != 0 {
				continue
			}
			tr := y - s.sy
			tc := x - s.sx
			if (s.attr & (1 << 6)) != 0 { // Y flip
				tr = height - 1 - tr
			}
			if (s.attr & (1 << 5)) != 0 { // X flip
				tc = 7 - tc
			}
			tileNum := s.tile
			if sprite16 {
				tileNum &= 0xFE
				if tr >= 8 {
					tileNum++
				}
			}
			base := 0x8000 + uint16(tileNum)*16 + uint16(tr&7)*2
			lo := p.mem.ReadVRAM(base)
			hi := p.mem.ReadVRAM(base + 1)
			bit := 7 - byte(tc)
			ci := ((hi>>bit)&1)<<1 | ((lo >> bit) & 1)
			if ci == 0 { // transparent
				continue
			}
			pal := p.obp0
			if (s.attr & (1 << 4)) != 0 {
				pal = p.obp1
			}
			row[x] = shade(pal, ci)
			break
		}
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
