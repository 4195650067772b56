package automation_test

import (
	"fmt"

	"github.com/cwbudde/algo-webaudio/webaudio/automation"
)

func ExampleTimeline_ValueAt() {
	tl := automation.NewTimeline(0)
	_ = tl.SetValueAtTime(1, 0)
	_ = tl.LinearRampToValueAtTime(2, 1)
	_ = tl.ExponentialRampToValueAtTime(8, 2)

	for _, t := range []float64{0, 0.5, 1, 1.5, 2} {
		fmt.Printf("t=%.1f v=%.4f\n", t, tl.ValueAt(t))
	}
	// Output:
	// t=0.0 v=1.0000
	// t=0.5 v=1.5000
	// t=1.0 v=2.0000
	// t=1.5 v=4.0000
	// t=2.0 v=8.0000
}
