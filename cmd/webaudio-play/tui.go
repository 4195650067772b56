package main

import (
	"fmt"
	"time"

	"github.com/nsf/termbox-go"
)

const (
	colDef    = termbox.ColorDefault
	colCyan   = termbox.ColorCyan
	colGreen  = termbox.ColorGreen
	colYellow = termbox.ColorYellow
	colRed    = termbox.ColorRed

	meterWidth    = 48
	spectrumBands = 48
	spectrumRows  = 10
)

func runTUI(p *player) error {
	if err := termbox.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	defer termbox.Close()
	termbox.SetInputMode(termbox.InputEsc)

	events := make(chan termbox.Event)
	go func() {
		for {
			events <- termbox.PollEvent()
		}
	}()

	ticker := time.NewTicker(40 * time.Millisecond)
	defer ticker.Stop()

	var status string
	for {
		select {
		case ev := <-events:
			if ev.Type != termbox.EventKey {
				break
			}
			var err error
			switch {
			case ev.Key == termbox.KeyEsc || ev.Ch == 'q':
				return nil
			case ev.Key == termbox.KeySpace:
				err = p.togglePause()
			case ev.Ch == '+' || ev.Ch == '=':
				err = p.nudgeGain(1)
			case ev.Ch == '-':
				err = p.nudgeGain(-1)
			}
			status = ""
			if err != nil {
				status = err.Error()
			}
		case <-ticker.C:
		}
		p.ctx.ProcessEvents()
		draw(p, status)
	}
}

func draw(p *player, status string) {
	termbox.Clear(colDef, colDef)

	printTB(0, 0, colCyan, colDef, "webaudio-play - space: pause/resume  +/-: gain  q: quit")
	printTB(0, 1, colDef, colDef, fmt.Sprintf("state %-9s time %8.2f s  gain %+5.1f dB",
		p.ctx.State(), p.ctx.CurrentTime(), p.gainDB))

	peak, rms := p.levels()
	drawMeter(0, 3, "Peak", peak)
	drawMeter(0, 4, "RMS ", rms)

	bands := p.bands(spectrumBands)
	for i, v := range bands {
		h := int(v * spectrumRows)
		for row := 0; row < h; row++ {
			termbox.SetCell(2+i, 6+spectrumRows-row, '▮', colGreen, colDef)
		}
	}

	if status != "" {
		printTB(0, 8+spectrumRows, colRed, colDef, status)
	}
	termbox.Flush()
}

func drawMeter(x, y int, label string, db float64) {
	const floor = -60.0
	ratio := (max(db, floor) - floor) / -floor
	filled := min(int(ratio*meterWidth), meterWidth)

	printTB(x, y, colDef, colDef, fmt.Sprintf("%s %6.1f dB ", label, max(db, floor)))
	for i := 0; i < meterWidth; i++ {
		ch, fg := '·', colDef
		if i < filled {
			ch, fg = '█', colGreen
			if i >= meterWidth*9/10 {
				fg = colRed
			} else if i >= meterWidth*3/4 {
				fg = colYellow
			}
		}
		termbox.SetCell(x+16+i, y, ch, fg, colDef)
	}
}

func printTB(x, y int, fg, bg termbox.Attribute, msg string) {
	for _, c := range msg {
		termbox.SetCell(x, y, c, fg, bg)
		x++
	}
}
