// Package render turns watch events into aligned, colorized audit lines.
package render

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/zoro11031/webwatcher/internal/watch"
)

const (
	// Layout24Hour renders timestamps as 15:04:05.
	Layout24Hour = "15:04:05"
	// Layout12Hour renders timestamps as 3:04:05 PM.
	Layout12Hour = "3:04:05 PM"

	bytesPerMegabyte = 1024 * 1024
	arrow            = "->"
)

// ColorMode selects when escape sequences are written.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// Options configures a Formatter. Zero values select the defaults.
type Options struct {
	TimeLayout string
	Color      ColorMode
	Clock      func() time.Time
	Stat       func(path string) (os.FileInfo, error)
}

// Line holds the uncolored fields of one rendered event.
type Line struct {
	Timestamp string
	Label     string
	Path      string
	Size      string
}

// Formatter renders events to a writer. It is immutable after New.
type Formatter struct {
	out        io.Writer
	labelWidth int
	layout     string
	clock      func() time.Time
	stat       func(path string) (os.FileInfo, error)

	timeColor  *color.Color
	labelColor *color.Color
	sizeColor  *color.Color
}

// New returns a Formatter writing to out. The label width is computed once
// from the full set of event kinds.
func New(out io.Writer, options Options) *Formatter {
	if out == nil {
		out = os.Stdout
	}
	layout := options.TimeLayout
	if layout == "" {
		layout = Layout24Hour
	}
	clock := options.Clock
	if clock == nil {
		clock = time.Now
	}
	stat := options.Stat
	if stat == nil {
		stat = os.Stat
	}

	formatter := &Formatter{
		out:        out,
		labelWidth: LabelWidth(watch.Kinds()),
		layout:     layout,
		clock:      clock,
		stat:       stat,
		timeColor:  color.New(color.FgCyan),
		labelColor: color.New(color.FgRed),
		sizeColor:  color.New(color.FgGreen),
	}
	formatter.applyColorMode(options.Color)
	return formatter
}

func (f *Formatter) applyColorMode(mode ColorMode) {
	for _, c := range []*color.Color{f.timeColor, f.labelColor, f.sizeColor} {
		switch mode {
		case ColorAlways:
			c.EnableColor()
		case ColorNever:
			c.DisableColor()
		}
	}
}

// LabelWidth returns the length of the longest kind name.
func LabelWidth(kinds []watch.Kind) int {
	width := 0
	for _, kind := range kinds {
		if n := len(kind.String()); n > width {
			width = n
		}
	}
	return width
}

// LabelWidth returns the width every label is padded to.
func (f *Formatter) LabelWidth() int {
	return f.labelWidth
}

// Label returns the upper-cased kind name padded to the label width.
func (f *Formatter) Label(kind watch.Kind) string {
	name := strings.ToUpper(kind.String())
	if pad := f.labelWidth - len(name); pad > 0 {
		name += strings.Repeat(" ", pad)
	}
	return name
}

// Format builds the fields for event. The size is looked up now, not when
// the event happened; a path that no longer exists simply has no size.
func (f *Formatter) Format(event watch.Event) (Line, error) {
	size, err := f.size(event)
	if err != nil {
		return Line{}, err
	}
	return Line{
		Timestamp: f.clock().Format(f.layout),
		Label:     f.Label(event.Kind),
		Path:      event.Path,
		Size:      size,
	}, nil
}

func (f *Formatter) size(event watch.Event) (string, error) {
	if event.Kind.IsDir() {
		return "", nil
	}
	info, err := f.stat(event.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to stat %s: %w", event.Path, err)
	}
	if info.IsDir() {
		return "", nil
	}
	return FormatSize(info.Size()), nil
}

// FormatSize renders a byte count as megabytes with two decimals.
func FormatSize(bytes int64) string {
	return fmt.Sprintf("(%.2f mb)", float64(bytes)/bytesPerMegabyte)
}

// String colorizes line. The arrow and the path keep the terminal's
// default color.
func (f *Formatter) String(line Line) string {
	var b strings.Builder
	b.WriteString(f.timeColor.Sprint(line.Timestamp))
	b.WriteString(" " + arrow + " ")
	b.WriteString(f.labelColor.Sprint(line.Label))
	b.WriteString(" ")
	b.WriteString(line.Path)
	if line.Size != "" {
		b.WriteString(" ")
		b.WriteString(f.sizeColor.Sprint(line.Size))
	}
	b.WriteString("\n")
	return b.String()
}

// Render formats event and writes it as a single line.
func (f *Formatter) Render(event watch.Event) error {
	line, err := f.Format(event)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(f.out, f.String(line)); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}
	return nil
}
