package calculate

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dkellerny/Fire-Watch-GUI/internal/config"
	"github.com/dkellerny/Fire-Watch-GUI/models"
)

// Overlay names accepted by BuildOverlays. "sma:N" and "ema:N" take a custom
// period, mirroring the detail view's adjustable spin boxes; the rest mirror
// its fixed toggle buttons.
const (
	OverlaySMAFast = "sma50"
	OverlaySMASlow = "sma200"
	OverlayEMA     = "ema12"
	OverlayBBUpper = "bbupper"
	OverlayBBLower = "bblower"
	OverlayRSI     = "rsi"
	OverlayADX     = "adx"
)

// BuildOverlays resolves a list of overlay names into chart series. At most
// cfg.OverlayLimit lines may be requested at once; unknown names are rejected.
func BuildOverlays(candles []models.Candle, names []string, cfg *config.Config) ([]models.IndicatorSeries, error) {
	if len(names) == 0 {
		return nil, nil
	}
	if len(names) > cfg.OverlayLimit {
		return nil, fmt.Errorf("at most %d overlay lines at a time", cfg.OverlayLimit)
	}

	var out []models.IndicatorSeries
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		series, err := buildOverlay(candles, name, cfg)
		if err != nil {
			return nil, err
		}
		out = append(out, series...)
	}
	return out, nil
}

func buildOverlay(candles []models.Candle, name string, cfg *config.Config) ([]models.IndicatorSeries, error) {
	switch {
	case name == OverlaySMAFast:
		return []models.IndicatorSeries{{Name: name, Values: SMASeries(candles, cfg.SMAFast)}}, nil
	case name == OverlaySMASlow:
		return []models.IndicatorSeries{{Name: name, Values: SMASeries(candles, cfg.SMASlow)}}, nil
	case name == OverlayEMA:
		return []models.IndicatorSeries{{Name: name, Values: EMASeries(candles, cfg.EMAPeriod)}}, nil
	case name == OverlayBBUpper:
		upper, _ := BollingerSeries(candles, cfg.BBPeriod, cfg.BBStdDev)
		return []models.IndicatorSeries{{Name: name, Values: upper}}, nil
	case name == OverlayBBLower:
		_, lower := BollingerSeries(candles, cfg.BBPeriod, cfg.BBStdDev)
		return []models.IndicatorSeries{{Name: name, Values: lower}}, nil
	case name == OverlayRSI:
		return []models.IndicatorSeries{{Name: name, Values: RSISeries(candles, cfg.RSIPeriod)}}, nil
	case name == OverlayADX:
		adx, plusDI, minusDI := ADXSeries(candles, cfg.ADXPeriod)
		return []models.IndicatorSeries{
			{Name: "adx", Values: adx},
			{Name: "plus_di", Values: plusDI},
			{Name: "minus_di", Values: minusDI},
		}, nil
	case strings.HasPrefix(name, "sma:"):
		period, err := overlayPeriod(name, 200)
		if err != nil {
			return nil, err
		}
		if period == 0 {
			return nil, nil // period 0 means the line is switched off
		}
		return []models.IndicatorSeries{{Name: name, Values: SMASeries(candles, period)}}, nil
	case strings.HasPrefix(name, "ema:"):
		period, err := overlayPeriod(name, 50)
		if err != nil {
			return nil, err
		}
		if period == 0 {
			return nil, nil
		}
		return []models.IndicatorSeries{{Name: name, Values: EMASeries(candles, period)}}, nil
	default:
		return nil, fmt.Errorf("unknown overlay %q", name)
	}
}

func overlayPeriod(name string, max int) (int, error) {
	_, raw, _ := strings.Cut(name, ":")
	period, err := strconv.Atoi(raw)
	if err != nil || period < 0 || period > max {
		return 0, fmt.Errorf("overlay %q: period must be 0..%d", name, max)
	}
	return period, nil
}
