package models

import "testing"

func TestNormalizeSymbol(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
		ok   bool
	}{
		{name: "plain", raw: "aapl", want: "AAPL", ok: true},
		{name: "padded", raw: "  msft ", want: "MSFT", ok: true},
		{name: "class share dot", raw: "brk.b", want: "BRK.B", ok: true},
		{name: "hyphenated", raw: "bf-b", want: "BF-B", ok: true},
		{name: "empty", raw: "  ", want: "", ok: false},
		{name: "too long", raw: "toolongsymbol", want: "TOOLONGSYMBOL", ok: false},
		{name: "bad characters", raw: "aa pl", want: "AA PL", ok: false},
		{name: "punctuation", raw: "aapl!", want: "AAPL!", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeSymbol(tt.raw)
			if got != tt.want || ok != tt.ok {
				t.Errorf("NormalizeSymbol(%q) = %q, %v; want %q, %v", tt.raw, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestLookupTimeframe(t *testing.T) {
	tf, ok := LookupTimeframe("")
	if !ok || tf.Name != "ttm" {
		t.Errorf("empty name resolved to %v, want ttm", tf.Name)
	}

	if _, ok := LookupTimeframe("2y"); ok {
		t.Error("unknown timeframe should not resolve")
	}

	tf, ok = LookupTimeframe("1d")
	if !ok || tf.Interval != "1min" || tf.OutputSize != 390 {
		t.Errorf("1d = %+v, want 1min/390", tf)
	}
}
