package analyzer

import "github.com/user/vca/pkg/pipeline"

// Job pairs a borrowed frame with its submission sequence number.
type Job struct {
	Frame      *pipeline.Frame
	SequenceID uint64
}

// blockGrid returns the number of blocks across and down a frame.
// Partial blocks at the right and bottom edges are counted.
func blockGrid(info pipeline.FrameInfo, blockSize int) (wide, high int) {
	wide = (info.Width + blockSize - 1) / blockSize
	high = (info.Height + blockSize - 1) / blockSize
	return wide, high
}
