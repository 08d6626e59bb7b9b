package yuvsource

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/user/vca/pkg/mocks"
	"github.com/user/vca/pkg/pipeline"
)

func rawFrames(info pipeline.FrameInfo, count int) []byte {
	var buf bytes.Buffer
	size := info.FrameSize()
	for i := 0; i < count; i++ {
		frame := make([]byte, size)
		for j := range frame {
			frame[j] = byte(i)
		}
		buf.Write(frame)
	}
	return buf.Bytes()
}

func TestSource_RawFrames(t *testing.T) {
	info := pipeline.FrameInfo{BitDepth: 8, Width: 4, Height: 2, ColorSpace: pipeline.ColorSpaceI420}
	fs := mocks.NewFileSystem()
	fs.WriteFile("in.yuv", rawFrames(info, 3))

	src, err := Open(fs, "in.yuv", info, 0)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer src.Close()

	for i := 0; i < 3; i++ {
		frame, err := src.ReadFrame(context.Background())
		if err != nil {
			t.Fatalf("ReadFrame %d failed: %v", i, err)
		}
		if frame.POC != i {
			t.Errorf("expected POC %d, got %d", i, frame.POC)
		}
		if len(frame.Planes[0]) != 8 || len(frame.Planes[1]) != 2 || len(frame.Planes[2]) != 2 {
			t.Errorf("unexpected plane sizes %d/%d/%d", len(frame.Planes[0]), len(frame.Planes[1]), len(frame.Planes[2]))
		}
		if frame.Stride[0] != 4 || frame.Stride[1] != 2 {
			t.Errorf("unexpected strides %v", frame.Stride)
		}
		if frame.LumaSample(3, 1) != uint16(i) {
			t.Errorf("expected sample %d, got %d", i, frame.LumaSample(3, 1))
		}
	}
	if _, err := src.ReadFrame(context.Background()); err != io.EOF {
		t.Errorf("expected io.EOF, got %v", err)
	}
}

func TestSource_SkipFrames(t *testing.T) {
	info := pipeline.FrameInfo{BitDepth: 10, Width: 2, Height: 2, ColorSpace: pipeline.ColorSpaceI400}
	fs := mocks.NewFileSystem()
	fs.WriteFile("in.yuv", rawFrames(info, 4))

	src, err := Open(fs, "in.yuv", info, 3)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	frame, err := src.ReadFrame(context.Background())
	if err != nil {
		t.Fatalf("ReadFrame failed: %v", err)
	}
	if frame.POC != 3 {
		t.Errorf("expected POC 3 after skipping, got %d", frame.POC)
	}
	if frame.Stride[0] != 4 {
		t.Errorf("expected 16-bit stride 4, got %d", frame.Stride[0])
	}
	// Bytes are 0x0303, masked to 10 bits.
	if got := frame.LumaSample(0, 0); got != 0x0303&0x3ff {
		t.Errorf("unexpected sample %#x", got)
	}
}

func TestSource_SkipPastEnd(t *testing.T) {
	info := pipeline.FrameInfo{BitDepth: 8, Width: 2, Height: 2, ColorSpace: pipeline.ColorSpaceI400}
	fs := mocks.NewFileSystem()
	fs.WriteFile("in.yuv", rawFrames(info, 1))

	src, err := Open(fs, "in.yuv", info, 5)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, err := src.ReadFrame(context.Background()); err != io.EOF {
		t.Errorf("expected io.EOF, got %v", err)
	}
}

func TestSource_TruncatedFrame(t *testing.T) {
	info := pipeline.FrameInfo{BitDepth: 8, Width: 4, Height: 4, ColorSpace: pipeline.ColorSpaceI420}
	data := rawFrames(info, 1)

	src, err := NewReader(bytes.NewReader(data[:10]), info, false)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	if _, err := src.ReadFrame(context.Background()); !errors.Is(err, ErrTruncated) {
		t.Errorf("expected ErrTruncated, got %v", err)
	}
}

func TestSource_RawNeedsGeometry(t *testing.T) {
	_, err := NewReader(bytes.NewReader(nil), pipeline.FrameInfo{}, false)
	if !errors.Is(err, ErrMissingGeometry) {
		t.Errorf("expected ErrMissingGeometry, got %v", err)
	}
}

func TestSource_Y4M(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("YUV4MPEG2 W4 H2 F25:1 Ip A1:1 C420p10 XYSCSS=420P10\n")
	info := pipeline.FrameInfo{BitDepth: 10, Width: 4, Height: 2, ColorSpace: pipeline.ColorSpaceI420}
	for i := 0; i < 2; i++ {
		buf.WriteString("FRAME\n")
		buf.Write(rawFrames(info, 1))
	}

	fs := mocks.NewFileSystem()
	fs.WriteFile("clip.y4m", buf.Bytes())

	src, err := Open(fs, "clip.y4m", pipeline.FrameInfo{}, 0)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if src.Info() != info {
		t.Errorf("expected %s, got %s", info, src.Info())
	}
	for i := 0; i < 2; i++ {
		if _, err := src.ReadFrame(context.Background()); err != nil {
			t.Fatalf("ReadFrame %d failed: %v", i, err)
		}
	}
	if _, err := src.ReadFrame(context.Background()); err != io.EOF {
		t.Errorf("expected io.EOF, got %v", err)
	}
}

func TestParseY4MColorSpace(t *testing.T) {
	tests := []struct {
		tag   string
		csp   pipeline.ColorSpace
		depth int
	}{
		{"420jpeg", pipeline.ColorSpaceI420, 8},
		{"420paldv", pipeline.ColorSpaceI420, 8},
		{"420p10", pipeline.ColorSpaceI420, 10},
		{"422", pipeline.ColorSpaceI422, 8},
		{"444p12", pipeline.ColorSpaceI444, 12},
		{"mono", pipeline.ColorSpaceI400, 8},
		{"mono16", pipeline.ColorSpaceI400, 16},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			csp, depth, err := parseY4MColorSpace(tt.tag)
			if err != nil {
				t.Fatalf("parse failed: %v", err)
			}
			if csp != tt.csp || depth != tt.depth {
				t.Errorf("got %s/%d, want %s/%d", csp, depth, tt.csp, tt.depth)
			}
		})
	}
	if _, _, err := parseY4MColorSpace("411"); err == nil {
		t.Error("expected error for 411")
	}
}

func TestSource_Y4MBadHeader(t *testing.T) {
	_, err := NewReader(bytes.NewReader([]byte("RIFF....\n")), pipeline.FrameInfo{}, true)
	if !errors.Is(err, ErrBadHeader) {
		t.Errorf("expected ErrBadHeader, got %v", err)
	}
}

func TestSource_CancelledContext(t *testing.T) {
	info := pipeline.FrameInfo{BitDepth: 8, Width: 2, Height: 2, ColorSpace: pipeline.ColorSpaceI400}
	src, err := NewReader(bytes.NewReader(rawFrames(info, 1)), info, false)
	if err != nil {
		t.Fatalf("NewReader failed: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := src.ReadFrame(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
