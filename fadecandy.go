package keywave

// This file contains a listener for rendered frames that will forward every
// frame whose content changed to a fadecandy server using the Open Pixel
// Control protocol, one OPC channel per block of the device

import (
	"bytes"
	"fmt"
	"image/color"
	"os"
	"time"

	"github.com/go-stack/stack"
	"github.com/karlmutch/errors"

	"github.com/cnf/structhash"

	"github.com/kellydunn/go-opc"

	"github.com/TeamNorCal/keywave/animation"
)

// How long to wait between attempts to reach the fadecandy server
const reconnectDelay = time.Second

// frameDigest is the part of a frame that is hashed to detect changes
type frameDigest struct {
	Colors []color.RGBA
}

type fadeCandy struct {
	server    string
	client    *opc.Client
	connected bool
	lastTry   time.Time
	last      []byte
}

// StartFadeCandy subscribes to rendered frames and sends them to the OPC
// server until quitC is closed
func StartFadeCandy(server string, subscribeC chan chan *Frame, errorC chan<- errors.Error, quitC <-chan struct{}) {

	frameC := make(chan *Frame, 1)
	subscribeC <- frameC

	fc := &fadeCandy{
		server: server,
		client: opc.NewClient(),
		last:   []byte{},
	}

	go func() {
		for {
			select {
			case frame := <-frameC:
				if frame == nil {
					continue
				}
				if err := fc.send(frame); err != nil {
					reportError(err.With("url", server), errorC)
				}
			case <-quitC:
				return
			}
		}
	}()
}

// send forwards the frame unless it is identical to the previous one
func (fc *fadeCandy) send(frame *Frame) (err errors.Error) {
	hash := structhash.Md5(frameDigest{Colors: frame.Target.Colors()}, 1)
	if bytes.Equal(fc.last, hash) {
		return nil
	}

	if !fc.connected {
		if time.Since(fc.lastTry) < reconnectDelay {
			return nil
		}
		fc.lastTry = time.Now()
		if errGo := fc.client.Connect("tcp", fc.server); errGo != nil {
			return errors.Wrap(errGo).With("stack", stack.Trace().TrimRuntime())
		}
		fc.connected = true
		logger.Info("connected to fadecandy", "server", fc.server)
	}

	if err = sendOPC(fc.client, frame.Target); err != nil {
		fc.connected = false
		return err.With("frame", frame.Seq)
	}
	fc.last = hash
	return nil
}

// sendOPC writes one OPC message per block of the target, OPC channels are
// 1 based with 0 being broadcast
func sendOPC(oc *opc.Client, target *animation.RenderTarget) (err errors.Error) {
	for block := 0; block < target.Blocks(); block++ {
		slots, errGo := target.Block(block)
		if errGo != nil {
			return errors.Wrap(errGo).With("stack", stack.Trace().TrimRuntime())
		}

		m := opc.NewMessage(uint8(block + 1))
		m.SetLength(uint16(len(slots) * 3))
		for idx, c := range slots {
			m.SetPixelColor(idx, c.R, c.G, c.B)
		}

		if errGo := oc.Send(m); errGo != nil {
			return errors.Wrap(errGo).With("block", block).With("stack", stack.Trace().TrimRuntime())
		}
	}
	return nil
}

func reportError(err errors.Error, errorC chan<- errors.Error) {
	select {
	case errorC <- err:
	case <-time.After(100 * time.Millisecond):
		fmt.Fprintln(os.Stderr, err.Error())
	}
}
