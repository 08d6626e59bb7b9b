// Package pipeline defines the data types that flow between frame sources,
// the analyzer and result sinks.
package pipeline

import (
	"fmt"
	"strings"
)

// =============================================================================
// Frame Types
// =============================================================================

// ColorSpace identifies the chroma layout of a picture.
// Values follow chroma_format_idc semantics.
type ColorSpace int

const (
	ColorSpaceI400 ColorSpace = iota // yuv 4:0:0 planar
	ColorSpaceI420                   // yuv 4:2:0 planar
	ColorSpaceI422                   // yuv 4:2:2 planar
	ColorSpaceI444                   // yuv 4:4:4 planar
)

// String returns the lower-case name of the color space.
func (c ColorSpace) String() string {
	switch c {
	case ColorSpaceI400:
		return "i400"
	case ColorSpaceI420:
		return "i420"
	case ColorSpaceI422:
		return "i422"
	case ColorSpaceI444:
		return "i444"
	default:
		return fmt.Sprintf("csp(%d)", int(c))
	}
}

// ParseColorSpace parses a color space name such as "i420".
func ParseColorSpace(s string) (ColorSpace, error) {
	switch strings.ToLower(s) {
	case "i400":
		return ColorSpaceI400, nil
	case "i420", "":
		return ColorSpaceI420, nil
	case "i422":
		return ColorSpaceI422, nil
	case "i444":
		return ColorSpaceI444, nil
	default:
		return 0, fmt.Errorf("unknown color space %q", s)
	}
}

// Planes returns the number of planes stored for the color space.
func (c ColorSpace) Planes() int {
	if c == ColorSpaceI400 {
		return 1
	}
	return 3
}

// ChromaShift returns the horizontal and vertical chroma subsampling shifts.
func (c ColorSpace) ChromaShift() (x, y int) {
	switch c {
	case ColorSpaceI420:
		return 1, 1
	case ColorSpaceI422:
		return 1, 0
	default:
		return 0, 0
	}
}

// FrameInfo describes the geometry of every frame in a sequence.
type FrameInfo struct {
	BitDepth   int // 8..16, values above 8 imply 16-bit samples
	Width      int // luma width in pixels
	Height     int // luma height in pixels
	ColorSpace ColorSpace
}

// BytesPerSample returns 1 for 8-bit content and 2 otherwise.
func (i FrameInfo) BytesPerSample() int {
	if i.BitDepth > 8 {
		return 2
	}
	return 1
}

// FrameSize returns the size in bytes of one tightly packed frame.
func (i FrameInfo) FrameSize() int {
	bps := i.BytesPerSample()
	luma := i.Width * i.Height * bps
	if i.ColorSpace.Planes() == 1 {
		return luma
	}
	sx, sy := i.ColorSpace.ChromaShift()
	chroma := (i.Width >> sx) * (i.Height >> sy) * bps
	return luma + 2*chroma
}

// String returns a compact description like "1920x1080 i420 10-bit".
func (i FrameInfo) String() string {
	return fmt.Sprintf("%dx%d %s %d-bit", i.Width, i.Height, i.ColorSpace, i.BitDepth)
}

// Frame is one picture submitted for analysis.
// The pixel buffers are owned by the caller and must stay valid and
// unmodified until the corresponding result has been pulled.
type Frame struct {
	Info FrameInfo

	// Planes holds Y, U and V sample data. Only the luma plane is analyzed.
	Planes [3][]byte

	// Stride is the number of bytes between row starts for each plane.
	Stride [3]int

	// POC is the presentation index, returned unchanged in the result.
	POC int

	// PTS is a user-specified presentation timestamp.
	PTS int64
}

// LumaSample returns the luma sample at (x, y).
// 16-bit samples are little-endian and masked to the frame bit depth.
func (f *Frame) LumaSample(x, y int) uint16 {
	row := f.Planes[0][y*f.Stride[0]:]
	if f.Info.BitDepth > 8 {
		v := uint16(row[2*x]) | uint16(row[2*x+1])<<8
		return v & uint16(1<<f.Info.BitDepth-1)
	}
	return uint16(row[x])
}

// =============================================================================
// Result Types
// =============================================================================

// BlockStats holds the statistics computed for one block.
type BlockStats struct {
	AbsoluteEnergy int32
	RelativeEnergy float64

	Entropy     float64
	HasEntropy  bool
	EdgeDensity float64

	HasEdgeDensity bool
}

// FrameResult holds the per-frame analysis output.
// Per-block slices are indexed in raster block order.
type FrameResult struct {
	POC        int
	SequenceID uint64

	AverageEnergy      int32
	AverageEntropy     float64
	AverageEdgeDensity float64

	EnergyPerBlock         []int32
	RelativeEnergyPerBlock []float64
	EntropyPerBlock        []float64 // nil when entropy is disabled
	EdgeDensityPerBlock    []float64 // nil when edge density is disabled

	BlocksWide int
	BlocksHigh int
}

// BlockCount returns the number of blocks covered by the result.
func (r *FrameResult) BlockCount() int {
	return r.BlocksWide * r.BlocksHigh
}

// CopyTo copies r into out, reusing the capacity of out's slices.
func (r *FrameResult) CopyTo(out *FrameResult) {
	out.POC = r.POC
	out.SequenceID = r.SequenceID
	out.AverageEnergy = r.AverageEnergy
	out.AverageEntropy = r.AverageEntropy
	out.AverageEdgeDensity = r.AverageEdgeDensity
	out.BlocksWide = r.BlocksWide
	out.BlocksHigh = r.BlocksHigh
	out.EnergyPerBlock = append(out.EnergyPerBlock[:0], r.EnergyPerBlock...)
	out.RelativeEnergyPerBlock = append(out.RelativeEnergyPerBlock[:0], r.RelativeEnergyPerBlock...)
	out.EntropyPerBlock = copyOptional(out.EntropyPerBlock, r.EntropyPerBlock)
	out.EdgeDensityPerBlock = copyOptional(out.EdgeDensityPerBlock, r.EdgeDensityPerBlock)
}

func copyOptional(dst, src []float64) []float64 {
	if src == nil {
		return nil
	}
	return append(dst[:0], src...)
}
