package core

// EnsureLen returns a slice with the requested length, reusing buf capacity if possible.
func EnsureLen(buf []float64, n int) []float64 {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]float64, n)
}

// Zero sets all values in buf to 0.
func Zero(buf []float64) {
	clear(buf)
}

// Fill sets all values in buf to v.
func Fill(buf []float64, v float64) {
	for i := range buf {
		buf[i] = v
	}
}

// AddInto accumulates src into dst over their common length.
func AddInto(dst, src []float64) {
	n := min(len(dst), len(src))
	for i := range n {
		dst[i] += src[i]
	}
}

// IsConstant reports whether every value in buf equals buf[0].
// Render kernels use it to skip per-sample coefficient work.
func IsConstant(buf []float64) bool {
	if len(buf) == 0 {
		return true
	}
	first := buf[0]
	for _, v := range buf[1:] {
		if v != first {
			return false
		}
	}
	return true
}

// CopyInto copies src into dst and returns the number of copied elements.
func CopyInto(dst, src []float64) int {
	n := min(len(dst), len(src))
	copy(dst[:n], src[:n])
	return n
}
