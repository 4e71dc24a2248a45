package keywave

import (
	"sync"
	"time"
)

// How long a subscriber gets to accept a frame before it is skipped for
// that frame
const subscriberTimeout = 20 * time.Millisecond

type subs struct {
	subs []chan *Frame
	sync.Mutex
}

// startFanOut implement a broadcast mechanisim for accepting rendered frames
// and relaying them to subscribers.  The function returns a single channel
// to which frames get sent and, a channel that can be used to add
// listeners.  Subscribers that close their channel are dropped
//
func startFanOut(quitC <-chan struct{}) (inC chan *Frame, subC chan chan *Frame) {

	inC = make(chan *Frame, 1)
	subC = make(chan chan *Frame, 1)

	listeners := &subs{
		subs: []chan *Frame{},
	}

	go func(quitC <-chan struct{}) {
		defer logger.Debug("fanout stopped")
		for {
			select {
			case <-quitC:
				return
			case sub := <-subC:
				if nil != sub {
					listeners.Lock()
					listeners.subs = append(listeners.subs, sub)
					listeners.Unlock()
					logger.Debug("subscription added", "subscribers", len(listeners.subs))
				}
			case frame := <-inC:
				// Subscribers are groomed out on unrecoverable failures using
				// https://github.com/golang/go/wiki/SliceTricks#filtering-without-allocating
				listeners.Lock()
				newSubs := listeners.subs[:0]
				for _, ch := range listeners.subs {
					if deliver(ch, frame) {
						newSubs = append(newSubs, ch)
						continue
					}
					logger.Debug("subscription dropped", "frame", frame.Seq)
				}
				listeners.subs = newSubs
				listeners.Unlock()
			}
		}
	}(quitC)

	return inC, subC
}

// deliver sends the frame to a subscriber, it returns false when the
// subscriber has gone away
func deliver(ch chan *Frame, frame *Frame) (alive bool) {
	defer func() {
		if r := recover(); r != nil {
			alive = false
		}
	}()

	select {
	case ch <- frame:
	case <-time.After(subscriberTimeout):
		logger.Debug("subscriber too slow, frame skipped", "frame", frame.Seq)
	}
	return true
}
