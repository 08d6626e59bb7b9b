package summarizer

import (
	"fmt"
	"strings"
	"time"
)

// MarkdownFormatter renders a Summary as a Markdown document.
type MarkdownFormatter struct {
	translate func(string) string
	version   string
}

// MarkdownOption configures a MarkdownFormatter.
type MarkdownOption func(*MarkdownFormatter)

// WithTranslator sets the function used to translate labels.
func WithTranslator(fn func(string) string) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.translate = fn
	}
}

// WithVersion adds the tool version to the footer.
func WithVersion(version string) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.version = version
	}
}

// NewMarkdownFormatter creates a formatter with English labels.
func NewMarkdownFormatter(opts ...MarkdownOption) *MarkdownFormatter {
	f := &MarkdownFormatter{
		translate: func(s string) string { return s },
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format implements Formatter.
func (f *MarkdownFormatter) Format(s *Summary) string {
	t := f.translate
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", t("Analysis Summary"))
	fmt.Fprintf(&b, "%s: %s\n\n", t("Generated"), s.GeneratedAt.Format(time.RFC3339))

	fmt.Fprintf(&b, "## %s\n\n", t("Input"))
	f.table(&b,
		row{t("File"), s.Input.Path},
		row{t("Format"), s.Input.Format},
		row{t("Resolution"), fmt.Sprintf("%dx%d", s.Input.Width, s.Input.Height)},
		row{t("Bit Depth"), fmt.Sprintf("%d", s.Input.BitDepth)},
		row{t("Color Space"), s.Input.ColorSpace},
		row{t("Bytes Read"), formatBytes(s.Input.BytesRead)},
		row{t("Skipped Frames"), fmt.Sprintf("%d", s.Input.Skipped)},
	)

	fmt.Fprintf(&b, "## %s\n\n", t("Settings"))
	f.table(&b,
		row{t("Threads"), fmt.Sprintf("%d x %d", s.Settings.FrameThreads, s.Settings.SliceThreads)},
		row{t("Block Size"), fmt.Sprintf("%d", s.Settings.BlockSize)},
		row{t("CPU SIMD"), s.Settings.CPUSimd},
		row{t("Low-pass"), f.onOff(s.Settings.EnableLowpass)},
		row{t("Entropy"), f.onOff(s.Settings.EnableEntropy)},
		row{t("Edge Density"), f.onOff(s.Settings.EnableEdgeDensity)},
	)

	fmt.Fprintf(&b, "## %s\n\n", t("Run"))
	f.table(&b,
		row{t("Frames"), fmt.Sprintf("%d", s.Run.Frames)},
		row{t("Rejected Frames"), fmt.Sprintf("%d", s.Run.Rejected)},
		row{t("Blocks per Frame"), fmt.Sprintf("%d", s.Run.BlockCount)},
		row{t("Duration"), fmt.Sprintf("%d ms", s.Run.DurationMs)},
		row{t("Throughput"), fmt.Sprintf("%.1f fps", s.Run.FPS())},
	)

	if s.Run.Frames > 0 {
		fmt.Fprintf(&b, "## %s\n\n", t("Metrics"))
		rows := []row{
			{t("Mean Energy (E)"), fmt.Sprintf("%.2f", s.Metrics.MeanEnergy)},
			{t("Energy Range"), fmt.Sprintf("%d - %d", s.Metrics.MinEnergy, s.Metrics.MaxEnergy)},
		}
		if s.Settings.EnableEntropy {
			rows = append(rows, row{t("Mean Entropy (h)"), fmt.Sprintf("%.4f", s.Metrics.MeanEntropy)})
		}
		if s.Settings.EnableEdgeDensity {
			rows = append(rows, row{t("Mean Edge Density"), fmt.Sprintf("%.4f", s.Metrics.MeanEdgeDensity)})
		}
		rows = append(rows, row{t("Peak Energy Change"),
			fmt.Sprintf("%.2f (POC %d)", s.Metrics.PeakEpsilon, s.Metrics.PeakEpsilonPOC)})
		f.table(&b, rows...)
	}

	if len(s.Outputs) > 0 {
		fmt.Fprintf(&b, "## %s\n\n", t("Outputs"))
		for _, out := range s.Outputs {
			fmt.Fprintf(&b, "- `%s`\n", out)
		}
		b.WriteString("\n")
	}

	b.WriteString("---\n\n")
	if f.version != "" {
		fmt.Fprintf(&b, "%s vca %s\n", t("Generated by"), f.version)
	} else {
		fmt.Fprintf(&b, "%s vca\n", t("Generated by"))
	}

	return b.String()
}

type row struct {
	label string
	value string
}

func (f *MarkdownFormatter) table(b *strings.Builder, rows ...row) {
	fmt.Fprintf(b, "| %s | %s |\n", f.translate("Item"), f.translate("Value"))
	b.WriteString("|---|---|\n")
	for _, r := range rows {
		fmt.Fprintf(b, "| %s | %s |\n", r.label, r.value)
	}
	b.WriteString("\n")
}

func (f *MarkdownFormatter) onOff(v bool) string {
	if v {
		return f.translate("on")
	}
	return f.translate("off")
}

// formatBytes formats a byte count with binary units.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit && exp < 2; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(n)/float64(div), "KMG"[exp])
}

var _ Formatter = (*MarkdownFormatter)(nil)
