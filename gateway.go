package keywave

// This module wires the render loop to the frame fanout and, when a server
// is configured, to the fadecandy sink

import (
	"github.com/karlmutch/errors"

	logxi "github.com/mgutz/logxi/v1"

	"github.com/TeamNorCal/keywave/animation"
)

var logger = logxi.New("keywave")

type Gateway struct {
}

// Start runs the loop at fps frames a second.  The returned channel accepts
// additional frame subscribers such as monitors
func (*Gateway) Start(server string, fps int, loop *RenderLoop, swapC <-chan []animation.Effect, errorC chan<- errors.Error, quitC <-chan struct{}) (subscribeC chan chan *Frame) {

	frameC, subscribeC := startFanOut(quitC)

	if server != "" {
		StartFadeCandy(server, subscribeC, errorC, quitC)
	}

	go loop.Run(fps, frameC, swapC, quitC)

	return subscribeC
}
