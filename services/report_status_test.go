package services

import (
	"testing"

	"backend/models"
)

func TestDescribeStatus(t *testing.T) {
	tests := []struct {
		name   string
		status models.StatusCode
		want   StatusStyle
	}{
		{"pass", models.StatusPass, StatusStyle{Label: "Pass", FillColor: "00B050", FontColor: "000000"}},
		{"priority1", models.StatusPriority1, StatusStyle{Label: "Priority 1", FillColor: "FF0000", FontColor: "FFFFFF"}},
		{"priority2", models.StatusPriority2, StatusStyle{Label: "Priority 2", FillColor: "ED7D31", FontColor: "FFFFFF"}},
		{"na", models.StatusNA, StatusStyle{Label: "N/A", FillColor: "BFBFBF", FontColor: "000000"}},
		{"empty", models.StatusUnknown, StatusStyle{}},
		{"unrecognized", models.StatusCode("broken"), StatusStyle{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DescribeStatus(tt.status); got != tt.want {
				t.Errorf("DescribeStatus(%q) = %+v, want %+v", tt.status, got, tt.want)
			}
		})
	}
}

func TestDescribeStatusAfterParse(t *testing.T) {
	// Raw stored values pass through ParseStatusCode before styling;
	// casing and whitespace never changes the outcome.
	if DescribeStatus(models.ParseStatusCode("  PASS ")) != DescribeStatus(models.StatusPass) {
		t.Error("parsed 'PASS' should style like StatusPass")
	}
	if DescribeStatus(models.ParseStatusCode("nonsense")) != (StatusStyle{}) {
		t.Error("unparseable value should style blank")
	}
}

func TestStatusGlyph(t *testing.T) {
	tests := []struct {
		name      string
		status    models.StatusCode
		wantGlyph string
		wantColor string
	}{
		{"pass", models.StatusPass, "✓", "008000"},
		{"priority1", models.StatusPriority1, "✗", "FF0000"},
		{"priority2", models.StatusPriority2, "✗", "FF0000"},
		{"na", models.StatusNA, "", "000000"},
		{"empty", models.StatusUnknown, "", "000000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			glyph, color := StatusGlyph(tt.status)
			if glyph != tt.wantGlyph || color != tt.wantColor {
				t.Errorf("StatusGlyph(%q) = (%q, %q), want (%q, %q)",
					tt.status, glyph, color, tt.wantGlyph, tt.wantColor)
			}
		})
	}
}
