package calculate

import (
	"math"

	"github.com/dkellerny/Fire-Watch-GUI/models"
)

// CalculateBollingerBands returns the latest upper, middle and lower band.
func CalculateBollingerBands(candles []models.Candle, period int, stdDev float64) (float64, float64, float64) {
	if len(candles) < period {
		last := candles[len(candles)-1].Close
		return last, last, last // Return last close if not enough data
	}

	// Calculate SMA
	var sum float64
	for i := len(candles) - period; i < len(candles); i++ {
		sum += candles[i].Close
	}
	middle := sum / float64(period)

	// Calculate standard deviation
	var variance float64
	for i := len(candles) - period; i < len(candles); i++ {
		variance += math.Pow(candles[i].Close-middle, 2)
	}
	sd := math.Sqrt(variance / float64(period))

	upper := middle + (sd * stdDev)
	lower := middle - (sd * stdDev)

	return upper, middle, lower
}

// BollingerSeries returns per-candle upper and lower band lines. The rolling
// deviation uses the sample form (n-1 divisor) to match the chart reference.
func BollingerSeries(candles []models.Candle, period int, stdDev float64) (upper, lower []float64) {
	upper = nanSeries(len(candles))
	lower = nanSeries(len(candles))
	if period < 2 || len(candles) < period {
		return upper, lower
	}

	for i := period - 1; i < len(candles); i++ {
		var sum float64
		for j := i - period + 1; j <= i; j++ {
			sum += candles[j].Close
		}
		mean := sum / float64(period)

		var variance float64
		for j := i - period + 1; j <= i; j++ {
			d := candles[j].Close - mean
			variance += d * d
		}
		sd := math.Sqrt(variance / float64(period-1))

		upper[i] = mean + sd*stdDev
		lower[i] = mean - sd*stdDev
	}
	return upper, lower
}
