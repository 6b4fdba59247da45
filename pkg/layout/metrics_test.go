package layout

import "testing"

func TestLabelSize(t *testing.T) {
	m := Metrics{CharWidth: 8, LineHeight: 24, PadX: 4}
	tests := []struct {
		name string
		text string
		w    float64
	}{
		{"ascii", "abc", 3*8 + 8},
		{"empty keeps one cell", "", 8 + 8},
		{"wide runes", "概要", 4*8 + 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := m.LabelSize(tt.text)
			if w != tt.w || h != 24 {
				t.Errorf("LabelSize(%q) = %v x %v, want %v x 24", tt.text, w, h, tt.w)
			}
		})
	}
}

func TestMetricsOrDefault(t *testing.T) {
	if got := (Metrics{}).orDefault(); got != DefaultMetrics() {
		t.Errorf("zero metrics should fall back to defaults, got %+v", got)
	}
	custom := Metrics{CharWidth: 10, LineHeight: 30}
	if got := custom.orDefault(); got != custom {
		t.Errorf("custom metrics replaced: %+v", got)
	}
}
