package calculate

import "github.com/dkellerny/Fire-Watch-GUI/models"

// CalculateSMA returns the simple moving average of the last period closes.
func CalculateSMA(candles []models.Candle, period int) float64 {
	if period <= 0 || len(candles) == 0 {
		return 0
	}
	if len(candles) < period {
		return candles[len(candles)-1].Close // Return last close if not enough data
	}

	var sum float64
	for i := len(candles) - period; i < len(candles); i++ {
		sum += candles[i].Close
	}
	return sum / float64(period)
}

// CalculateEMA returns the latest EMA value, seeded with the SMA of the first
// period closes.
func CalculateEMA(candles []models.Candle, period int) float64 {
	if period <= 0 || len(candles) == 0 {
		return 0
	}
	if len(candles) < period {
		return candles[len(candles)-1].Close // Return last close if not enough data
	}

	// Calculate simple moving average for the initial value
	var sum float64
	for i := 0; i < period; i++ {
		sum += candles[i].Close
	}
	sma := sum / float64(period)

	// Multiplier for weighting the EMA
	multiplier := 2.0 / float64(period+1)

	// Start with SMA and then calculate EMA
	ema := sma
	for i := period; i < len(candles); i++ {
		ema = (candles[i].Close-ema)*multiplier + ema
	}

	return ema
}

// SMASeries returns a per-candle rolling mean line. NaN until the window fills.
func SMASeries(candles []models.Candle, period int) []float64 {
	out := nanSeries(len(candles))
	if period <= 0 || len(candles) < period {
		return out
	}

	var sum float64
	for i, c := range candles {
		sum += c.Close
		if i >= period {
			sum -= candles[i-period].Close
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		}
	}
	return out
}

// EMASeries returns a per-candle EMA line seeded with the first close, the
// recursive form used for the chart overlays.
func EMASeries(candles []models.Candle, period int) []float64 {
	out := nanSeries(len(candles))
	if period <= 0 || len(candles) == 0 {
		return out
	}

	multiplier := 2.0 / float64(period+1)
	ema := candles[0].Close
	out[0] = ema
	for i := 1; i < len(candles); i++ {
		ema = (candles[i].Close-ema)*multiplier + ema
		out[i] = ema
	}
	return out
}
