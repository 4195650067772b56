package core_test

import (
	"fmt"

	"github.com/cwbudde/algo-webaudio/dsp/core"
)

func ExampleApplyProcessorOptions() {
	cfg := core.ApplyProcessorOptions(
		core.WithSampleRate(48000),
		core.WithBlockSize(256),
	)
	fmt.Printf("sampleRate=%.0f blockSize=%d channels=%d\n", cfg.SampleRate, cfg.BlockSize, cfg.Channels)
	// Output:
	// sampleRate=48000 blockSize=256 channels=2
}

func ExampleCentsToRatio() {
	fmt.Printf("%.3f %.3f\n", core.CentsToRatio(1200), core.CentsToRatio(-1200))
	// Output:
	// 2.000 0.500
}
