package services

import "backend/models"

// StatusStyle is the display treatment for a recorded status: label
// text, cell fill and font color. Empty values mean "leave default".
type StatusStyle struct {
	Label     string
	FillColor string
	FontColor string
}

// Fixed status palette shared by both renderers.
const (
	statusFillPass      = "00B050"
	statusFillPriority1 = "FF0000"
	statusFillPriority2 = "ED7D31"
	statusFillNA        = "BFBFBF"

	fontBlack = "000000"
	fontWhite = "FFFFFF"
)

// DescribeStatus maps a status code to its display treatment. Total
// over the enum: unrecognized or empty input yields a blank style, not
// an error.
func DescribeStatus(status models.StatusCode) StatusStyle {
	switch status {
	case models.StatusPass:
		return StatusStyle{Label: "Pass", FillColor: statusFillPass, FontColor: fontBlack}
	case models.StatusPriority1:
		return StatusStyle{Label: "Priority 1", FillColor: statusFillPriority1, FontColor: fontWhite}
	case models.StatusPriority2:
		return StatusStyle{Label: "Priority 2", FillColor: statusFillPriority2, FontColor: fontWhite}
	case models.StatusNA:
		return StatusStyle{Label: "N/A", FillColor: statusFillNA, FontColor: fontBlack}
	}
	return StatusStyle{}
}

// StatusGlyph renders a status as the pivot-table glyph: check for
// pass, cross for either priority level, blank otherwise. The second
// value is the glyph font color.
func StatusGlyph(status models.StatusCode) (string, string) {
	switch status {
	case models.StatusPass:
		return "✓", "008000"
	case models.StatusPriority1, models.StatusPriority2:
		return "✗", "FF0000"
	}
	return "", fontBlack
}
