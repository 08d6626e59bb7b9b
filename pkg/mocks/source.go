package mocks

import (
	"context"
	"io"
	"sync"

	"github.com/user/vca/pkg/pipeline"
	"github.com/user/vca/pkg/ports"
)

// FrameSource is a mock implementation of ports.FrameSource that serves
// frames from memory.
type FrameSource struct {
	mu     sync.Mutex
	info   pipeline.FrameInfo
	frames []*pipeline.Frame
	next   int

	// ReadErr, when set, is returned after all frames have been served
	// instead of io.EOF.
	ReadErr error

	Closed bool
}

// NewFrameSource creates a source that yields count frames filled by fill.
// fill receives the frame index and luma coordinates and returns the sample.
func NewFrameSource(info pipeline.FrameInfo, count int, fill func(i, x, y int) uint16) *FrameSource {
	frames := make([]*pipeline.Frame, count)
	for i := range frames {
		frames[i] = NewFrame(info, i, func(x, y int) uint16 { return fill(i, x, y) })
	}
	return &FrameSource{info: info, frames: frames}
}

// NewFrame builds a single frame with a luma plane filled by fill.
// Chroma planes are left empty.
func NewFrame(info pipeline.FrameInfo, poc int, fill func(x, y int) uint16) *pipeline.Frame {
	bps := info.BytesPerSample()
	stride := info.Width * bps
	luma := make([]byte, stride*info.Height)
	for y := 0; y < info.Height; y++ {
		for x := 0; x < info.Width; x++ {
			v := fill(x, y)
			if bps == 2 {
				luma[y*stride+2*x] = byte(v)
				luma[y*stride+2*x+1] = byte(v >> 8)
			} else {
				luma[y*stride+x] = byte(v)
			}
		}
	}
	return &pipeline.Frame{
		Info:   info,
		Planes: [3][]byte{luma},
		Stride: [3]int{stride},
		POC:    poc,
		PTS:    int64(poc),
	}
}

// AddFrame appends a frame to be served after the existing ones.
func (m *FrameSource) AddFrame(frame *pipeline.Frame) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.frames = append(m.frames, frame)
}

func (m *FrameSource) Info() pipeline.FrameInfo {
	return m.info
}

func (m *FrameSource) ReadFrame(ctx context.Context) (*pipeline.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.next >= len(m.frames) {
		if m.ReadErr != nil {
			return nil, m.ReadErr
		}
		return nil, io.EOF
	}
	f := m.frames[m.next]
	m.next++
	return f, nil
}

func (m *FrameSource) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return nil
}

var _ ports.FrameSource = (*FrameSource)(nil)
