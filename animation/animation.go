/*
Package animation contains implementations of lighting effects, generating
buffers of LED color values for consecutive frames of a keyboard like device.
*/
package animation

import (
	"time"

	logxi "github.com/mgutz/logxi/v1"
)

// Accuracy is the number of steps in one full cycle of a periodic effect,
// phases and color tables are indexed in [0, Accuracy)
const Accuracy = 1024

// Fails to compile unless Accuracy is a power of two
var _ = [1]struct{}{}[Accuracy&(Accuracy-1)]

var logger = logxi.New("animation")

// Effect is an interface for types that support generation of animation
// frames
type Effect interface {
	// Render advances the effect by elapsed and draws the resulting frame
	// onto target.  The target is expected to have the shape of the device
	// the effect was built for
	Render(elapsed time.Duration, target *RenderTarget)
}
