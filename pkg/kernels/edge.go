package kernels

// ComputeEdgeDensity returns the fraction of adjacent sample pairs in a
// square block whose absolute difference exceeds 2^(bitDepth-1)-1.
//
// The normalizer 2*N*(N-1) is the number of horizontal plus vertical pairs,
// so the result lies in [0, 1]. blockSize must be at least 2.
func ComputeEdgeDensity(block []uint16, bitDepth, blockSize int) float64 {
	if blockSize < 2 {
		panic("kernels: edge density needs a block size of at least 2")
	}

	threshold := int32(1)<<(bitDepth-1) - 1
	edges := 0

	for y := 0; y < blockSize; y++ {
		row := block[y*blockSize : (y+1)*blockSize]
		var below []uint16
		if y < blockSize-1 {
			below = block[(y+1)*blockSize : (y+2)*blockSize]
		}
		for x, p := range row {
			if x < blockSize-1 && absDiff(p, row[x+1]) > threshold {
				edges++
			}
			if below != nil && absDiff(p, below[x]) > threshold {
				edges++
			}
		}
	}

	return float64(edges) / float64(2*blockSize*(blockSize-1))
}

func absDiff(a, b uint16) int32 {
	d := int32(a) - int32(b)
	if d < 0 {
		return -d
	}
	return d
}
