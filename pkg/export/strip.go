package export

import (
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"
	"git.sr.ht/~sbinet/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/vanderheijden86/stepwise/pkg/stepper"
)

// Progress strip geometry, in pixels.
const (
	stripCell     = 140
	stripHeight   = 120
	stripRadius   = 18
	stripCenterY  = 44
	stripLabelY   = 92
	stripMaxLabel = 18
)

const (
	colorBackground = "#282a36"
	colorText       = "#f8f8f2"
	colorMuted      = "#6272a4"
	colorDisabled   = "#44475a"
)

// stateColor is the indicator fill for a step in the strip.
func stateColor(st StepSnapshot) string {
	if st.Disabled {
		return colorDisabled
	}
	switch st.State {
	case stepper.StateCompleted:
		return "#50fa7b"
	case stepper.StateActive:
		return "#8be9fd"
	case stepper.StateLoading:
		return "#f1fa8c"
	default:
		return colorMuted
	}
}

func stripWidth(snap Snapshot) int {
	if len(snap.Steps) == 0 {
		return stripCell
	}
	return len(snap.Steps) * stripCell
}

func stripCenterX(i int) int {
	return i*stripCell + stripCell/2
}

func stripLabel(title string) string {
	r := []rune(title)
	if len(r) > stripMaxLabel {
		return string(r[:stripMaxLabel-1]) + "…"
	}
	return title
}

// WriteSVG draws snap as a horizontal progress strip: one circle per step
// with its indicator, connectors between them and the titles below.
func WriteSVG(w io.Writer, snap Snapshot) error {
	width := stripWidth(snap)

	canvas := svg.New(w)
	canvas.Start(width, stripHeight)
	canvas.Title(snap.Title)
	canvas.Rect(0, 0, width, stripHeight, "fill:"+colorBackground)

	for i, st := range snap.Steps {
		if st.Separator == nil || i+1 >= len(snap.Steps) {
			continue
		}
		color := colorMuted
		dash := ";stroke-dasharray:6,4"
		if st.Separator.Filled {
			color = stateColor(st)
			dash = ""
		}
		canvas.Line(stripCenterX(i)+stripRadius, stripCenterY, stripCenterX(i+1)-stripRadius, stripCenterY,
			fmt.Sprintf("stroke:%s;stroke-width:3%s", color, dash))
	}

	for i, st := range snap.Steps {
		cx := stripCenterX(i)
		style := "fill:" + stateColor(st)
		if st.Selected {
			style += ";stroke:" + colorText + ";stroke-width:3"
		}
		canvas.Circle(cx, stripCenterY, stripRadius, style)
		canvas.Text(cx, stripCenterY+5, st.Indicator,
			"text-anchor:middle;font-family:monospace;font-size:14px;fill:"+colorBackground)

		labelColor := colorText
		if st.State == stepper.StateInactive || st.Disabled {
			labelColor = colorMuted
		}
		weight := "normal"
		if st.Selected {
			weight = "bold"
		}
		canvas.Text(cx, stripLabelY, stripLabel(st.Title),
			fmt.Sprintf("text-anchor:middle;font-family:sans-serif;font-size:13px;font-weight:%s;fill:%s", weight, labelColor))
	}

	canvas.End()
	return nil
}

// WritePNG renders the same strip as WriteSVG into a PNG image.
func WritePNG(w io.Writer, snap Snapshot) error {
	width := stripWidth(snap)

	dc := gg.NewContext(width, stripHeight)
	dc.SetHexColor(colorBackground)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	for i, st := range snap.Steps {
		if st.Separator == nil || i+1 >= len(snap.Steps) {
			continue
		}
		color := colorMuted
		if st.Separator.Filled {
			color = stateColor(st)
		}
		dc.SetHexColor(color)
		dc.SetLineWidth(3)
		dc.DrawLine(float64(stripCenterX(i)+stripRadius), stripCenterY, float64(stripCenterX(i+1)-stripRadius), stripCenterY)
		dc.Stroke()
	}

	for i, st := range snap.Steps {
		cx := float64(stripCenterX(i))

		dc.DrawCircle(cx, stripCenterY, stripRadius)
		dc.SetHexColor(stateColor(st))
		if st.Selected {
			dc.FillPreserve()
			dc.SetHexColor(colorText)
			dc.SetLineWidth(3)
			dc.Stroke()
		} else {
			dc.Fill()
		}

		// basicfont only covers ASCII, so non-ASCII indicators fall back to the ordinal.
		dc.SetHexColor(colorBackground)
		dc.DrawStringAnchored(asciiOr(st.Indicator, fmt.Sprintf("%d", st.Ordinal)), cx, stripCenterY, 0.5, 0.35)

		labelColor := colorText
		if st.State == stepper.StateInactive || st.Disabled {
			labelColor = colorMuted
		}
		dc.SetHexColor(labelColor)
		label := []rune(st.Title)
		if len(label) > stripMaxLabel {
			label = append(label[:stripMaxLabel-3], []rune("...")...)
		}
		dc.DrawStringAnchored(asciiOr(string(label), string(label)), cx, stripLabelY, 0.5, 0.5)
	}

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}
	return nil
}

// asciiOr returns s if it is printable ASCII, otherwise fallback with its
// non-ASCII runes replaced by '?'.
func asciiOr(s, fallback string) string {
	if isASCII(s) {
		return s
	}
	if isASCII(fallback) {
		return fallback
	}
	out := []rune(fallback)
	for i, r := range out {
		if r > 0x7e || r < 0x20 {
			out[i] = '?'
		}
	}
	return string(out)
}

func isASCII(s string) bool {
	for _, r := range s {
		if r > 0x7e || r < 0x20 {
			return false
		}
	}
	return true
}
