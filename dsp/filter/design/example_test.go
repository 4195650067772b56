package design_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-webaudio/dsp/filter/design"
)

func ExampleLowpass() {
	// Q is in dB for lowpass: 6 dB of resonance doubles the gain at cutoff.
	c := design.Lowpass(1000, 6, 48000)

	fmt.Printf("DC:     %.3f\n", math.Sqrt(c.MagnitudeSquared(0, 48000)))
	fmt.Printf("cutoff: %.3f\n", math.Sqrt(c.MagnitudeSquared(1000, 48000)))
	// Output:
	// DC:     1.000
	// cutoff: 1.995
}
