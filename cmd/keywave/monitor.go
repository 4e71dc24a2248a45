package main

import (
	"time"

	"github.com/TeamNorCal/keywave"
)

// This file implements a monitor that subscribes to rendered frames and logs
// the frame rate actually achieved

func runMonitoring(subscribeC chan chan *keywave.Frame, quitC <-chan struct{}) {

	frameC := make(chan *keywave.Frame, 1)
	subscribeC <- frameC

	report := time.NewTicker(5 * time.Second)
	defer report.Stop()

	frames := 0
	var last *keywave.Frame
	for {
		select {
		case frame := <-frameC:
			frames++
			last = frame
		case <-report.C:
			if last == nil {
				continue
			}
			logger.Debug("render loop", "fps", float64(frames)/5, "frame", last.Seq, "slots", last.Target.Len())
			frames = 0
		case <-quitC:
			return
		}
	}
}
