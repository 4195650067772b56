package audiofile_test

import (
	"fmt"

	"github.com/cwbudde/algo-webaudio/webaudio/audiofile"
)

func ExampleFormatFromPath() {
	fmt.Println(audiofile.FormatFromPath("impulse.WAV"))
	fmt.Println(audiofile.FormatFromPath("loop.ogg"))
	// Output:
	// wav
	// ogg
}
