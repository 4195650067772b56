package conv

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// StreamingOverlapAdd implements streaming FFT-based convolution using
// overlap-add. It keeps state for block-by-block processing and does not
// allocate per block.
type StreamingOverlapAdd struct {
	kernelFFT []complex128

	kernelLen int
	blockSize int
	fftSize   int // blockSize + kernelLen - 1, rounded to a power of 2

	plan *algofft.Plan[complex128]

	work []complex128
	tail []float64 // kernelLen-1 samples carried into the next block
}

// NewStreamingOverlapAdd creates a streaming overlap-add convolver.
// blockSize is the fixed size of input and output blocks.
func NewStreamingOverlapAdd(kernel []float64, blockSize int) (*StreamingOverlapAdd, error) {
	if len(kernel) == 0 {
		return nil, ErrEmptyKernel
	}
	if blockSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBlockSize, blockSize)
	}

	kernelLen := len(kernel)
	fftSize := nextPowerOf2(blockSize + kernelLen - 1)

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("conv: failed to create FFT plan: %w", err)
	}

	soa := &StreamingOverlapAdd{
		kernelFFT: make([]complex128, fftSize),
		kernelLen: kernelLen,
		blockSize: blockSize,
		fftSize:   fftSize,
		plan:      plan,
		work:      make([]complex128, fftSize),
		tail:      make([]float64, kernelLen-1),
	}

	padded := make([]complex128, fftSize)
	for i, v := range kernel {
		padded[i] = complex(v, 0)
	}
	if err := plan.Forward(soa.kernelFFT, padded); err != nil {
		return nil, fmt.Errorf("conv: failed to compute kernel FFT: %w", err)
	}

	return soa, nil
}

// ProcessBlockTo convolves input and writes blockSize samples to output.
// output and input may alias.
func (soa *StreamingOverlapAdd) ProcessBlockTo(output, input []float64) error {
	if len(input) != soa.blockSize {
		return fmt.Errorf("%w: expected %d input samples, got %d", ErrLengthMismatch, soa.blockSize, len(input))
	}
	if len(output) != soa.blockSize {
		return fmt.Errorf("%w: expected %d output samples, got %d", ErrLengthMismatch, soa.blockSize, len(output))
	}

	for i := range soa.work {
		soa.work[i] = 0
	}
	for i, x := range input {
		soa.work[i] = complex(x, 0)
	}

	if err := soa.plan.Forward(soa.work, soa.work); err != nil {
		return fmt.Errorf("conv: forward FFT failed: %w", err)
	}
	for i := range soa.work {
		soa.work[i] *= soa.kernelFFT[i]
	}
	if err := soa.plan.Inverse(soa.work, soa.work); err != nil {
		return fmt.Errorf("conv: inverse FFT failed: %w", err)
	}

	// Output takes the head of this block's result plus the carried tail;
	// the new tail is the rest of the result plus what is left of the old
	// tail past one block.
	tailLen := len(soa.tail)
	for i := range soa.blockSize {
		y := real(soa.work[i])
		if i < tailLen {
			y += soa.tail[i]
		}
		output[i] = y
	}
	for i := range tailLen {
		v := real(soa.work[soa.blockSize+i])
		if k := soa.blockSize + i; k < tailLen {
			v += soa.tail[k]
		}
		soa.tail[i] = v
	}

	return nil
}

// Reset clears the overlap state carried from previous blocks.
func (soa *StreamingOverlapAdd) Reset() {
	clear(soa.tail)
}

// BlockSize returns the block size.
func (soa *StreamingOverlapAdd) BlockSize() int {
	return soa.blockSize
}

// KernelLen returns the kernel length.
func (soa *StreamingOverlapAdd) KernelLen() int {
	return soa.kernelLen
}

// FFTSize returns the FFT size.
func (soa *StreamingOverlapAdd) FFTSize() int {
	return soa.fftSize
}
