// Package conv provides streaming FFT convolution for block-based audio
// rendering.
//
// Two convolvers are offered:
//
//   - [UniformPartitioned]: the kernel is split into partitions of the block
//     size and convolved with a frequency-domain delay line. Latency is zero
//     and cost per block grows linearly with the kernel length, which suits
//     long room impulse responses fed one render quantum at a time.
//   - [StreamingOverlapAdd]: a single FFT covers the whole kernel. Suited to
//     short fixed filters such as resampling low-passes.
//
// Both take fixed-size input blocks and produce output blocks of the same
// size, carrying the convolution tail between calls.
//
// [Direct] is the O(N*M) reference used for very short kernels and tests.
package conv
