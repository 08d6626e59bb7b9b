package kernels

// Downscale2x2 averages every 2x2 group of a square block into one sample,
// writing (a+b+c+d)>>2 into dst. blockSize must be even. The returned slice
// has (blockSize/2)^2 samples and reuses dst's capacity.
func Downscale2x2(dst, block []uint16, blockSize int) []uint16 {
	half := blockSize >> 1
	n := half * half
	if cap(dst) < n {
		dst = make([]uint16, n)
	}
	dst = dst[:n]

	for i := 0; i < blockSize; i += 2 {
		top := block[i*blockSize:]
		bottom := block[(i+1)*blockSize:]
		out := dst[(i>>1)*half:]
		for j := 0; j < blockSize; j += 2 {
			sum := uint32(top[j]) + uint32(top[j+1]) + uint32(bottom[j]) + uint32(bottom[j+1])
			out[j>>1] = uint16(sum >> 2)
		}
	}
	return dst
}
