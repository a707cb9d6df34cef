package calculate

import (
	"errors"
	"math"
	"testing"

	"github.com/dkellerny/Fire-Watch-GUI/internal/config"
	"github.com/dkellerny/Fire-Watch-GUI/models"
)

func generateTestCandles(count int, generator func(i int) models.Candle) []models.Candle {
	candles := make([]models.Candle, count)
	for i := 0; i < count; i++ {
		candles[i] = generator(i)
	}
	return candles
}

func candlesFromCloses(closes ...float64) []models.Candle {
	candles := make([]models.Candle, len(closes))
	for i, c := range closes {
		candles[i] = models.Candle{Open: c, High: c, Low: c, Close: c}
	}
	return candles
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCalculateSMA(t *testing.T) {
	tests := []struct {
		name     string
		closes   []float64
		period   int
		expected float64
	}{
		{name: "last three of five", closes: []float64{1, 2, 3, 4, 5}, period: 3, expected: 4},
		{name: "whole window", closes: []float64{2, 4, 6}, period: 3, expected: 4},
		{name: "not enough data returns last close", closes: []float64{7, 9}, period: 5, expected: 9},
		{name: "constant series", closes: []float64{3, 3, 3, 3}, period: 4, expected: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateSMA(candlesFromCloses(tt.closes...), tt.period)
			if !almostEqual(got, tt.expected) {
				t.Errorf("CalculateSMA() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCalculateEMA(t *testing.T) {
	// Seeded with SMA(1,2,3)=2, multiplier 0.5: 4 -> 3, 5 -> 4
	got := CalculateEMA(candlesFromCloses(1, 2, 3, 4, 5), 3)
	if !almostEqual(got, 4) {
		t.Errorf("CalculateEMA() = %v, want 4", got)
	}

	// Constant series stays put
	got = CalculateEMA(candlesFromCloses(6, 6, 6, 6, 6, 6), 3)
	if !almostEqual(got, 6) {
		t.Errorf("CalculateEMA() on constant series = %v, want 6", got)
	}
}

func TestSMASeries(t *testing.T) {
	series := SMASeries(candlesFromCloses(1, 2, 3, 4, 5), 3)
	if len(series) != 5 {
		t.Fatalf("series length = %d, want 5", len(series))
	}
	if !math.IsNaN(series[0]) || !math.IsNaN(series[1]) {
		t.Error("expected NaN before window fills")
	}
	want := []float64{2, 3, 4}
	for i, w := range want {
		if !almostEqual(series[i+2], w) {
			t.Errorf("series[%d] = %v, want %v", i+2, series[i+2], w)
		}
	}
}

func TestEMASeries(t *testing.T) {
	series := EMASeries(candlesFromCloses(1, 2, 3), 3)
	// Seeded with the first close, multiplier 0.5
	want := []float64{1, 1.5, 2.25}
	for i, w := range want {
		if !almostEqual(series[i], w) {
			t.Errorf("series[%d] = %v, want %v", i, series[i], w)
		}
	}
}

func TestCalculateRSI(t *testing.T) {
	tests := []struct {
		name     string
		closes   []float64
		period   int
		expected float64
	}{
		{name: "all gains", closes: []float64{1, 2, 3, 4, 5, 6, 7}, period: 5, expected: 100},
		{name: "all losses", closes: []float64{7, 6, 5, 4, 3, 2, 1}, period: 5, expected: 0},
		{name: "not enough data", closes: []float64{1, 2}, period: 14, expected: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateRSI(candlesFromCloses(tt.closes...), tt.period)
			if !almostEqual(got, tt.expected) {
				t.Errorf("CalculateRSI() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRSISeriesBounds(t *testing.T) {
	candles := generateTestCandles(40, func(i int) models.Candle {
		c := 100 + float64(i%7) - float64(i%3)*2
		return models.Candle{Open: c, High: c + 1, Low: c - 1, Close: c}
	})

	series := RSISeries(candles, 14)
	if len(series) != len(candles) {
		t.Fatalf("series length = %d, want %d", len(series), len(candles))
	}
	for i := 0; i < 14; i++ {
		if !math.IsNaN(series[i]) {
			t.Fatalf("series[%d] = %v, want NaN before window fills", i, series[i])
		}
	}
	for i := 14; i < len(series); i++ {
		if series[i] < 0 || series[i] > 100 {
			t.Errorf("series[%d] = %v, out of [0,100]", i, series[i])
		}
	}
}

func TestRSISeriesAllGains(t *testing.T) {
	series := RSISeries(candlesFromCloses(1, 2, 3, 4, 5, 6), 5)
	if !almostEqual(series[5], 100) {
		t.Errorf("series[5] = %v, want 100", series[5])
	}
}

func TestCalculateBollingerBands(t *testing.T) {
	// mean 3, population stddev sqrt(2)
	upper, middle, lower := CalculateBollingerBands(candlesFromCloses(1, 2, 3, 4, 5), 5, 2.0)
	sd := math.Sqrt(2)
	if !almostEqual(middle, 3) {
		t.Errorf("middle = %v, want 3", middle)
	}
	if !almostEqual(upper, 3+2*sd) {
		t.Errorf("upper = %v, want %v", upper, 3+2*sd)
	}
	if !almostEqual(lower, 3-2*sd) {
		t.Errorf("lower = %v, want %v", lower, 3-2*sd)
	}

	// Flat series collapses the bands
	upper, middle, lower = CalculateBollingerBands(candlesFromCloses(4, 4, 4, 4), 4, 2.0)
	if !almostEqual(upper, 4) || !almostEqual(middle, 4) || !almostEqual(lower, 4) {
		t.Errorf("flat series bands = %v/%v/%v, want 4/4/4", upper, middle, lower)
	}
}

func TestBollingerSeries(t *testing.T) {
	// Window {1,2,3}: mean 2, sample stddev 1
	upper, lower := BollingerSeries(candlesFromCloses(1, 2, 3), 3, 2.0)
	if !math.IsNaN(upper[0]) || !math.IsNaN(upper[1]) {
		t.Error("expected NaN before window fills")
	}
	if !almostEqual(upper[2], 4) {
		t.Errorf("upper[2] = %v, want 4", upper[2])
	}
	if !almostEqual(lower[2], 0) {
		t.Errorf("lower[2] = %v, want 0", lower[2])
	}
}

func TestCalculateADX(t *testing.T) {
	// Steady uptrend: +DI should dominate and ADX stay within range
	uptrend := generateTestCandles(60, func(i int) models.Candle {
		base := 100 + float64(i)*2
		return models.Candle{Open: base, High: base + 3, Low: base - 1, Close: base + 2}
	})

	adx, plusDI, minusDI := CalculateADX(uptrend, 14)
	if plusDI <= minusDI {
		t.Errorf("uptrend: +DI (%v) should exceed -DI (%v)", plusDI, minusDI)
	}
	if adx < 0 || adx > 100 {
		t.Errorf("ADX = %v, out of [0,100]", adx)
	}

	// Not enough data
	adx, plusDI, minusDI = CalculateADX(uptrend[:10], 14)
	if adx != 0 || plusDI != 0 || minusDI != 0 {
		t.Errorf("short input: got %v/%v/%v, want zeros", adx, plusDI, minusDI)
	}
}

func TestADXSeries(t *testing.T) {
	downtrend := generateTestCandles(40, func(i int) models.Candle {
		base := 200 - float64(i)*2
		return models.Candle{Open: base, High: base + 1, Low: base - 3, Close: base - 2}
	})

	adx, plusDI, minusDI := ADXSeries(downtrend, 14)
	if len(adx) != len(downtrend) || len(plusDI) != len(downtrend) || len(minusDI) != len(downtrend) {
		t.Fatal("series lengths must match candle count")
	}
	last := len(adx) - 1
	if minusDI[last] <= plusDI[last] {
		t.Errorf("downtrend: -DI (%v) should exceed +DI (%v)", minusDI[last], plusDI[last])
	}
	for i, v := range adx {
		if math.IsNaN(v) || v < 0 || v > 100 {
			t.Errorf("adx[%d] = %v, want finite value in [0,100]", i, v)
		}
	}
}

func TestCalculateATR(t *testing.T) {
	// Identical candles: TR is always high-low = 2
	flat := generateTestCandles(20, func(i int) models.Candle {
		return models.Candle{Open: 11, High: 12, Low: 10, Close: 11}
	})
	if got := CalculateATR(flat, 14); !almostEqual(got, 2) {
		t.Errorf("CalculateATR() = %v, want 2", got)
	}

	if got := CalculateATR(flat[:5], 14); got != 0 {
		t.Errorf("short input: CalculateATR() = %v, want 0", got)
	}
}

func testConfig() *config.Config {
	return &config.Config{
		RSIPeriod:    14,
		BBPeriod:     20,
		BBStdDev:     2.0,
		ADXPeriod:    14,
		ATRPeriod:    14,
		EMAPeriod:    12,
		SMAFast:      50,
		SMASlow:      200,
		OverlayLimit: 3,
	}
}

func TestSnapshot(t *testing.T) {
	candles := generateTestCandles(250, func(i int) models.Candle {
		base := 100 + float64(i)*0.5 + float64(i%5)
		return models.Candle{Open: base, High: base + 2, Low: base - 2, Close: base + 1}
	})

	snapshot, err := Snapshot("AAPL", "ttm", candles, testConfig())
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if snapshot.Symbol != "AAPL" || snapshot.Timeframe != "ttm" {
		t.Errorf("snapshot identity = %s/%s", snapshot.Symbol, snapshot.Timeframe)
	}
	if snapshot.Close != candles[len(candles)-1].Close {
		t.Errorf("Close = %v, want %v", snapshot.Close, candles[len(candles)-1].Close)
	}
	if snapshot.RSI < 0 || snapshot.RSI > 100 {
		t.Errorf("RSI = %v, out of range", snapshot.RSI)
	}
	if snapshot.BBUpper < snapshot.BBMiddle || snapshot.BBMiddle < snapshot.BBLower {
		t.Errorf("band ordering violated: %v/%v/%v", snapshot.BBUpper, snapshot.BBMiddle, snapshot.BBLower)
	}
	if snapshot.ATR <= 0 {
		t.Errorf("ATR = %v, want positive", snapshot.ATR)
	}
}

func TestSnapshotNotEnoughData(t *testing.T) {
	_, err := Snapshot("AAPL", "1d", candlesFromCloses(1, 2, 3), testConfig())
	if !errors.Is(err, ErrNotEnoughData) {
		t.Errorf("Snapshot() error = %v, want ErrNotEnoughData", err)
	}
}

func TestBuildOverlays(t *testing.T) {
	candles := generateTestCandles(60, func(i int) models.Candle {
		base := 50 + float64(i)
		return models.Candle{Open: base, High: base + 1, Low: base - 1, Close: base}
	})
	cfg := testConfig()

	t.Run("known overlays", func(t *testing.T) {
		overlays, err := BuildOverlays(candles, []string{"sma50", "ema12"}, cfg)
		if err != nil {
			t.Fatalf("BuildOverlays() error = %v", err)
		}
		if len(overlays) != 2 {
			t.Fatalf("got %d overlays, want 2", len(overlays))
		}
		for _, o := range overlays {
			if len(o.Values) != len(candles) {
				t.Errorf("overlay %s length = %d, want %d", o.Name, len(o.Values), len(candles))
			}
		}
	})

	t.Run("adx expands to three lines", func(t *testing.T) {
		overlays, err := BuildOverlays(candles, []string{"adx"}, cfg)
		if err != nil {
			t.Fatalf("BuildOverlays() error = %v", err)
		}
		if len(overlays) != 3 {
			t.Errorf("got %d series, want 3", len(overlays))
		}
	})

	t.Run("custom periods", func(t *testing.T) {
		overlays, err := BuildOverlays(candles, []string{"sma:30", "ema:9"}, cfg)
		if err != nil {
			t.Fatalf("BuildOverlays() error = %v", err)
		}
		if len(overlays) != 2 {
			t.Errorf("got %d overlays, want 2", len(overlays))
		}
	})

	t.Run("period zero switches the line off", func(t *testing.T) {
		overlays, err := BuildOverlays(candles, []string{"sma:0"}, cfg)
		if err != nil {
			t.Fatalf("BuildOverlays() error = %v", err)
		}
		if len(overlays) != 0 {
			t.Errorf("got %d overlays, want 0", len(overlays))
		}
	})

	t.Run("too many lines", func(t *testing.T) {
		_, err := BuildOverlays(candles, []string{"sma50", "sma200", "ema12", "bbupper"}, cfg)
		if err == nil {
			t.Error("expected error for more than three overlay lines")
		}
	})

	t.Run("unknown overlay", func(t *testing.T) {
		_, err := BuildOverlays(candles, []string{"macd"}, cfg)
		if err == nil {
			t.Error("expected error for unknown overlay")
		}
	})

	t.Run("custom period out of range", func(t *testing.T) {
		if _, err := BuildOverlays(candles, []string{"sma:500"}, cfg); err == nil {
			t.Error("expected error for SMA period above 200")
		}
		if _, err := BuildOverlays(candles, []string{"ema:60"}, cfg); err == nil {
			t.Error("expected error for EMA period above 50")
		}
	})
}
