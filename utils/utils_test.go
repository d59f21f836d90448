package utils

import "testing"

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain name", "Harbour Towers", "Harbour_Towers"},
		{"slashes and parens", "Tower A/B (2024)", "Tower_AB_2024"},
		{"unicode stripped", "Résumé №7", "Rsum_7"},
		{"keeps dash underscore", "block_4-east", "block_4-east"},
		{"collapses whitespace", "  a   b\tc ", "a_b_c"},
		{"newlines separate", "Tower A\nLevel 2", "Tower_A_Level_2"},
		{"tab inside invalid run", "a\t/b", "a_b"},
		{"empty", "", ""},
		{"only invalid", "///***", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFilename(tt.input); got != tt.want {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
