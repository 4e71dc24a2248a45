package keywave

// This file contains the render loop.  It owns the effects and the render
// target, drives them from a ticker and publishes each frame to the fanout
// for the fadecandy sink and any monitors

import (
	"image/color"
	"time"

	"github.com/TeamNorCal/keywave/animation"
	"github.com/TeamNorCal/keywave/config"
)

// Frame is a rendered frame as handed to subscribers.  The target is a copy
// and is never touched by the loop once published
type Frame struct {
	Seq    uint64
	Time   time.Time
	Target *animation.RenderTarget
}

// Background is painted under the effects at the start of every frame
var Background = color.RGBA{A: 0xff}

// RenderLoop renders a stack of effects, bottom first
type RenderLoop struct {
	effects []animation.Effect
	target  *animation.RenderTarget
	seq     uint64
}

// NewRenderLoop creates a loop for a device with the given block sizes
func NewRenderLoop(sizes []int, effects []animation.Effect) (loop *RenderLoop) {
	return &RenderLoop{
		effects: effects,
		target:  animation.NewRenderTarget(sizes),
	}
}

// Step renders one frame, elapsed after the previous one.  The returned
// target belongs to the loop and is overwritten by the next step
func (loop *RenderLoop) Step(elapsed time.Duration) *animation.RenderTarget {
	loop.target.Fill(Background)
	for _, effect := range loop.effects {
		effect.Render(elapsed, loop.target)
	}
	loop.seq++
	return loop.target
}

// Run renders fps frames a second until quitC is closed.  A new set of
// effects received on swapC replaces the current one between two frames.
// Frames that frameC cannot take immediately are dropped
func (loop *RenderLoop) Run(fps int, frameC chan<- *Frame, swapC <-chan []animation.Effect, quitC <-chan struct{}) {

	if fps <= 0 {
		fps = config.DefaultFPS
	}
	tick := time.NewTicker(time.Second / time.Duration(fps))
	defer tick.Stop()

	last := time.Now()
	for {
		select {
		case effects := <-swapC:
			loop.effects = effects
			logger.Info("effects replaced", "effects", len(effects))

		case now := <-tick.C:
			elapsed := now.Sub(last)
			last = now

			target := loop.Step(elapsed)
			frame := &Frame{
				Seq:    loop.seq,
				Time:   now,
				Target: target.Clone(),
			}
			select {
			case frameC <- frame:
			default:
				logger.Debug("frame dropped", "frame", frame.Seq)
			}

		case <-quitC:
			return
		}
	}
}
