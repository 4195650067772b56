package conv

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// UniformPartitioned convolves a stream of fixed-size blocks with a long
// kernel. The kernel is cut into partitions of blockSize samples whose
// spectra are multiplied against a frequency-domain delay line of past
// input spectra:
//
//	Y_n = sum_p X_{n-p} * H_p
//
// Each product is inverse transformed once per block and overlap-added,
// so output is produced without latency.
type UniformPartitioned struct {
	blockSize int
	fftSize   int // 2 * blockSize
	kernelLen int

	plan *algofft.Plan[complex128]

	partitions [][]complex128 // H_p, one spectrum per kernel partition
	fdl        [][]complex128 // X_{n-p}, ring indexed from head
	head       int

	acc     []complex128
	overlap []float64
}

// NewUniformPartitioned builds a convolver for kernel, processing blocks of
// blockSize samples. blockSize must be a power of two.
func NewUniformPartitioned(kernel []float64, blockSize int) (*UniformPartitioned, error) {
	if len(kernel) == 0 {
		return nil, ErrEmptyKernel
	}
	if blockSize <= 0 || blockSize&(blockSize-1) != 0 {
		return nil, fmt.Errorf("%w: %d is not a positive power of two", ErrInvalidBlockSize, blockSize)
	}

	fftSize := 2 * blockSize
	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("conv: failed to create FFT plan: %w", err)
	}

	count := (len(kernel) + blockSize - 1) / blockSize
	up := &UniformPartitioned{
		blockSize:  blockSize,
		fftSize:    fftSize,
		kernelLen:  len(kernel),
		plan:       plan,
		partitions: make([][]complex128, count),
		fdl:        make([][]complex128, count),
		acc:        make([]complex128, fftSize),
		overlap:    make([]float64, blockSize),
	}

	padded := make([]complex128, fftSize)
	for p := range count {
		clear(padded)
		start := p * blockSize
		end := min(start+blockSize, len(kernel))
		for i, v := range kernel[start:end] {
			padded[i] = complex(v, 0)
		}

		spectrum := make([]complex128, fftSize)
		if err := plan.Forward(spectrum, padded); err != nil {
			return nil, fmt.Errorf("conv: failed to compute partition %d FFT: %w", p, err)
		}
		up.partitions[p] = spectrum
		up.fdl[p] = make([]complex128, fftSize)
	}

	return up, nil
}

// ProcessBlock convolves one block from src into dst. Both must hold
// exactly blockSize samples; they may alias.
func (up *UniformPartitioned) ProcessBlock(dst, src []float64) error {
	if len(src) != up.blockSize || len(dst) != up.blockSize {
		return fmt.Errorf("%w: expected %d samples, got src=%d dst=%d",
			ErrLengthMismatch, up.blockSize, len(src), len(dst))
	}

	// Newest spectrum goes to the slot after the previous head so that
	// fdl[(head+p) mod count] always holds X_{n-p}.
	count := len(up.fdl)
	up.head = (up.head - 1 + count) % count
	x := up.fdl[up.head]
	clear(x)
	for i, v := range src {
		x[i] = complex(v, 0)
	}
	if err := up.plan.Forward(x, x); err != nil {
		return fmt.Errorf("conv: forward FFT failed: %w", err)
	}

	clear(up.acc)
	for p, h := range up.partitions {
		xp := up.fdl[(up.head+p)%count]
		for k := range up.acc {
			up.acc[k] += xp[k] * h[k]
		}
	}

	if err := up.plan.Inverse(up.acc, up.acc); err != nil {
		return fmt.Errorf("conv: inverse FFT failed: %w", err)
	}

	for i := range up.blockSize {
		dst[i] = real(up.acc[i]) + up.overlap[i]
		up.overlap[i] = real(up.acc[up.blockSize+i])
	}

	return nil
}

// Reset clears the delay line and overlap so the next block starts from
// silence.
func (up *UniformPartitioned) Reset() {
	for _, x := range up.fdl {
		clear(x)
	}
	clear(up.overlap)
	up.head = 0
}

// BlockSize returns the block size.
func (up *UniformPartitioned) BlockSize() int {
	return up.blockSize
}

// KernelLen returns the kernel length.
func (up *UniformPartitioned) KernelLen() int {
	return up.kernelLen
}

// Partitions returns the number of kernel partitions.
func (up *UniformPartitioned) Partitions() int {
	return len(up.partitions)
}
