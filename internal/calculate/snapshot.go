package calculate

import (
	"errors"

	"github.com/dkellerny/Fire-Watch-GUI/internal/config"
	"github.com/dkellerny/Fire-Watch-GUI/models"
)

// ErrNotEnoughData is returned when a snapshot is requested over a series too
// short to compute anything meaningful.
var ErrNotEnoughData = errors.New("not enough candles for indicators")

// Snapshot calculates the latest value of every supported indicator
func Snapshot(symbol, timeframe string, candles []models.Candle, cfg *config.Config) (*models.IndicatorSnapshot, error) {
	if len(candles) < 5 {
		return nil, ErrNotEnoughData
	}

	rsi := CalculateRSI(candles, cfg.RSIPeriod)
	bbUpper, bbMiddle, bbLower := CalculateBollingerBands(candles, cfg.BBPeriod, cfg.BBStdDev)
	adx, plusDI, minusDI := CalculateADX(candles, cfg.ADXPeriod)
	atr := CalculateATR(candles, cfg.ATRPeriod)

	return &models.IndicatorSnapshot{
		Symbol:    symbol,
		Timeframe: timeframe,
		Close:     candles[len(candles)-1].Close,
		RSI:       rsi,
		SMAFast:   CalculateSMA(candles, cfg.SMAFast),
		SMASlow:   CalculateSMA(candles, cfg.SMASlow),
		EMA:       CalculateEMA(candles, cfg.EMAPeriod),
		BBUpper:   bbUpper,
		BBMiddle:  bbMiddle,
		BBLower:   bbLower,
		ADX:       adx,
		PlusDI:    plusDI,
		MinusDI:   minusDI,
		ATR:       atr,
	}, nil
}
