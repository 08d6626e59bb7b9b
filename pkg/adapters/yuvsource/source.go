// Package yuvsource reads raw planar frames from .yuv and .y4m files.
//
// Raw .yuv files carry no header, so the caller supplies the geometry.
// .y4m files describe their own geometry in the stream header; any
// caller-supplied geometry is ignored for them.
package yuvsource

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/user/vca/pkg/pipeline"
	"github.com/user/vca/pkg/ports"
)

var (
	// ErrBadHeader is returned for a malformed y4m stream or frame header.
	ErrBadHeader = errors.New("yuvsource: bad y4m header")

	// ErrMissingGeometry is returned when a raw file is opened without a
	// usable width, height and bit depth.
	ErrMissingGeometry = errors.New("yuvsource: raw input needs width, height and bit depth")

	// ErrTruncated is returned when the input ends inside a frame.
	ErrTruncated = errors.New("yuvsource: truncated frame")
)

const y4mMagic = "YUV4MPEG2"

// Source implements ports.FrameSource over a byte stream.
type Source struct {
	r      *bufio.Reader
	closer io.Closer
	info   pipeline.FrameInfo
	y4m    bool
	poc    int
	read   int64
}

// Open opens path through fs and skips the first skipFrames frames.
// A ".y4m" extension selects the y4m parser.
func Open(fs ports.FileSystem, path string, info pipeline.FrameInfo, skipFrames int) (*Source, error) {
	rc, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	y4m := strings.EqualFold(filepath.Ext(path), ".y4m")

	s, err := NewReader(rc, info, y4m)
	if err != nil {
		rc.Close()
		return nil, err
	}
	if err := s.Skip(skipFrames); err != nil {
		rc.Close()
		return nil, err
	}
	return s, nil
}

// NewReader wraps r. If r is an io.Closer it is closed by Close.
func NewReader(r io.Reader, info pipeline.FrameInfo, y4m bool) (*Source, error) {
	s := &Source{r: bufio.NewReaderSize(r, 1<<16), y4m: y4m}
	if c, ok := r.(io.Closer); ok {
		s.closer = c
	}

	if y4m {
		parsed, err := readStreamHeader(s.r)
		if err != nil {
			return nil, err
		}
		s.info = parsed
		return s, nil
	}

	if info.Width <= 0 || info.Height <= 0 || info.BitDepth < 8 || info.BitDepth > 16 {
		return nil, fmt.Errorf("%w: got %s", ErrMissingGeometry, info)
	}
	s.info = info
	return s, nil
}

// Info returns the geometry of every frame.
func (s *Source) Info() pipeline.FrameInfo {
	return s.info
}

// Skip discards n frames. Reaching the end of input is not an error.
func (s *Source) Skip(n int) error {
	size := int64(s.info.FrameSize())
	for i := 0; i < n; i++ {
		if s.y4m {
			if err := readFrameHeader(s.r); err != nil {
				if err == io.EOF {
					return nil
				}
				return err
			}
		}
		if _, err := io.CopyN(io.Discard, s.r, size); err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("skip frame: %w", err)
		}
		s.poc++
	}
	return nil
}

// ReadFrame reads the next frame. It returns io.EOF at a clean end of input.
func (s *Source) ReadFrame(ctx context.Context) (*pipeline.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if s.y4m {
		if err := readFrameHeader(s.r); err != nil {
			return nil, err
		}
	}

	buf := make([]byte, s.info.FrameSize())
	n, err := io.ReadFull(s.r, buf)
	s.read += int64(n)
	if err != nil {
		if err == io.EOF && !s.y4m {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("%w: frame %d has %d of %d bytes", ErrTruncated, s.poc, n, len(buf))
	}

	frame := s.split(buf)
	s.poc++
	return frame, nil
}

// split slices a packed frame buffer into planes.
func (s *Source) split(buf []byte) *pipeline.Frame {
	info := s.info
	bps := info.BytesPerSample()
	lumaStride := info.Width * bps
	lumaSize := lumaStride * info.Height

	frame := &pipeline.Frame{
		Info: info,
		POC:  s.poc,
		PTS:  int64(s.poc),
	}
	frame.Planes[0] = buf[:lumaSize]
	frame.Stride[0] = lumaStride

	if info.ColorSpace.Planes() == 3 {
		sx, sy := info.ColorSpace.ChromaShift()
		chromaStride := (info.Width >> sx) * bps
		chromaSize := chromaStride * (info.Height >> sy)
		frame.Planes[1] = buf[lumaSize : lumaSize+chromaSize]
		frame.Planes[2] = buf[lumaSize+chromaSize : lumaSize+2*chromaSize]
		frame.Stride[1] = chromaStride
		frame.Stride[2] = chromaStride
	}
	return frame
}

// BytesRead returns the number of sample bytes read by ReadFrame.
func (s *Source) BytesRead() int64 {
	return s.read
}

// Close closes the underlying reader.
func (s *Source) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// readStreamHeader parses "YUV4MPEG2 W<w> H<h> [C<csp>] ..." up to the
// newline. Unknown tags are ignored.
func readStreamHeader(r *bufio.Reader) (pipeline.FrameInfo, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return pipeline.FrameInfo{}, fmt.Errorf("%w: %v", ErrBadHeader, err)
	}
	fields := strings.Fields(line)
	if len(fields) == 0 || fields[0] != y4mMagic {
		return pipeline.FrameInfo{}, fmt.Errorf("%w: missing %s signature", ErrBadHeader, y4mMagic)
	}

	info := pipeline.FrameInfo{BitDepth: 8, ColorSpace: pipeline.ColorSpaceI420}
	for _, f := range fields[1:] {
		tag, value := f[0], f[1:]
		switch tag {
		case 'W':
			info.Width, err = strconv.Atoi(value)
		case 'H':
			info.Height, err = strconv.Atoi(value)
		case 'C':
			info.ColorSpace, info.BitDepth, err = parseY4MColorSpace(value)
		}
		if err != nil {
			return pipeline.FrameInfo{}, fmt.Errorf("%w: tag %q: %v", ErrBadHeader, f, err)
		}
	}
	if info.Width <= 0 || info.Height <= 0 {
		return pipeline.FrameInfo{}, fmt.Errorf("%w: missing width or height", ErrBadHeader)
	}
	return info, nil
}

// parseY4MColorSpace parses C tags such as "420jpeg", "422p10" or "mono".
func parseY4MColorSpace(tag string) (pipeline.ColorSpace, int, error) {
	depth := 8
	if i := strings.Index(tag, "p"); i >= 0 && i+1 < len(tag) && tag[i+1] >= '0' && tag[i+1] <= '9' {
		d, err := strconv.Atoi(tag[i+1:])
		if err != nil {
			return 0, 0, err
		}
		depth = d
		tag = tag[:i]
	}

	switch {
	case strings.HasPrefix(tag, "mono"):
		if rest := strings.TrimPrefix(tag, "mono"); rest != "" {
			d, err := strconv.Atoi(rest)
			if err != nil {
				return 0, 0, err
			}
			depth = d
		}
		return pipeline.ColorSpaceI400, depth, nil
	case strings.HasPrefix(tag, "420"):
		return pipeline.ColorSpaceI420, depth, nil
	case strings.HasPrefix(tag, "422"):
		return pipeline.ColorSpaceI422, depth, nil
	case strings.HasPrefix(tag, "444"):
		return pipeline.ColorSpaceI444, depth, nil
	default:
		return 0, 0, fmt.Errorf("unsupported colour space %q", tag)
	}
}

// readFrameHeader consumes one "FRAME[ params]\n" line.
func readFrameHeader(r *bufio.Reader) error {
	line, err := r.ReadSlice('\n')
	if err != nil {
		if err == io.EOF && len(line) == 0 {
			return io.EOF
		}
		return fmt.Errorf("%w: frame header: %v", ErrBadHeader, err)
	}
	if !bytes.HasPrefix(line, []byte("FRAME")) {
		return fmt.Errorf("%w: expected FRAME marker", ErrBadHeader)
	}
	return nil
}

var _ ports.FrameSource = (*Source)(nil)
