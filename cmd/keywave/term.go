package main

// This file implements a terminal preview of the device, every key drawn as
// a patch of cells colored with the last rendered frame

import (
	"bytes"
	"image/color"
	"io"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/go-stack/stack"
	"github.com/karlmutch/errors"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/TeamNorCal/keywave"
	"github.com/TeamNorCal/keywave/model"
)

// keyCell is the area of the screen covering one key
type keyCell struct {
	x0, y0, x1, y1 int // x1 and y1 exclusive
	index          int // Slot in the render target
	label          []rune
}

// layoutCells scales the keys of the database to a width x height screen.
// Keys without a position are not drawn
func layoutCells(db *model.KeyDatabase, width, height int) (cells []keyCell) {
	bounds := db.Bounds()
	spanX := bounds.X1 - bounds.X0
	spanY := bounds.Y1 - bounds.Y0
	if spanX <= 0 || spanY <= 0 || width <= 0 || height <= 0 {
		return nil
	}

	cells = make([]keyCell, 0, len(db.Keys()))
	for _, key := range db.Keys() {
		if key.Position.IsUnset() {
			continue
		}
		cell := keyCell{
			x0:    (key.Position.X0 - bounds.X0) * width / spanX,
			y0:    (key.Position.Y0 - bounds.Y0) * height / spanY,
			x1:    (key.Position.X1 - bounds.X0) * width / spanX,
			y1:    (key.Position.Y1 - bounds.Y0) * height / spanY,
			index: key.Index,
			label: []rune(key.Name),
		}
		// Tiny keys still get one cell
		if cell.x1 <= cell.x0 {
			cell.x1 = cell.x0 + 1
		}
		if cell.y1 <= cell.y0 {
			cell.y1 = cell.y0 + 1
		}
		cells = append(cells, cell)
	}
	return cells
}

// labelColor picks black or white, whichever reads better on c
func labelColor(c color.RGBA) tcell.Color {
	l, _, _ := colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Lab()
	if l > 0.5 {
		return tcell.ColorBlack
	}
	return tcell.ColorWhite
}

// runPreview draws frames until the user presses Escape, q or Ctrl-C, at
// which point stopC is closed, or until quitC is closed.  The screen is
// restored before returning
func runPreview(db *model.KeyDatabase, screen tcell.Screen, subscribeC chan chan *keywave.Frame, stopC chan<- struct{}, quitC <-chan struct{}) (err errors.Error) {

	if errGo := screen.Init(); errGo != nil {
		return errors.Wrap(errGo).With("stack", stack.Trace().TrimRuntime())
	}
	defer screen.Fini()

	frameC := make(chan *keywave.Frame, 1)
	select {
	case subscribeC <- frameC:
	case <-quitC:
		return nil
	}

	eventC := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			eventC <- ev
		}
	}()

	width, height := screen.Size()
	cells := layoutCells(db, width, height-1)

	for {
		select {
		case ev := <-eventC:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
					(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
					close(stopC)
					return nil
				}
			case *tcell.EventResize:
				width, height = screen.Size()
				cells = layoutCells(db, width, height-1)
				screen.Sync()
			}

		case frame := <-frameC:
			drawFrame(screen, db.Device(), cells, frame)

		case <-quitC:
			return nil
		}
	}
}

func drawFrame(screen tcell.Screen, device string, cells []keyCell, frame *keywave.Frame) {
	screen.Clear()
	colors := frame.Target.Colors()
	for _, cell := range cells {
		if cell.index >= len(colors) {
			continue
		}
		c := colors[cell.index]
		style := tcell.StyleDefault.
			Background(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))).
			Foreground(labelColor(c))
		for y := cell.y0; y < cell.y1; y++ {
			for x := cell.x0; x < cell.x1; x++ {
				r := ' '
				if y == cell.y0 && x-cell.x0 < len(cell.label) {
					r = cell.label[x-cell.x0]
				}
				screen.SetContent(x, y, r, nil, style)
			}
		}
	}

	_, height := screen.Size()
	status := []rune(device + "  q to quit")
	for x, r := range status {
		screen.SetContent(x, height-1, r, nil, tcell.StyleDefault)
	}
	screen.Show()
}

// heldLog collects log output while the preview owns the terminal so that it
// can be written out once the screen is restored
type heldLog struct {
	sync.Mutex
	buf bytes.Buffer
}

func (h *heldLog) Write(p []byte) (int, error) {
	h.Lock()
	defer h.Unlock()
	return h.buf.Write(p)
}

func (h *heldLog) WriteTo(w io.Writer) (int64, error) {
	h.Lock()
	defer h.Unlock()
	return h.buf.WriteTo(w)
}
