package calculate

import (
	"math"

	"github.com/dkellerny/Fire-Watch-GUI/models"
)

// CalculateADX returns the latest ADX, +DI and -DI using Wilder smoothing.
func CalculateADX(candles []models.Candle, period int) (float64, float64, float64) {
	if len(candles) < period*2 {
		return 0, 0, 0 // Not enough data
	}

	// Calculate +DM, -DM, and TR for each period
	var plusDM, minusDM, trueRange []float64

	for i := 1; i < len(candles); i++ {
		upMove := candles[i].High - candles[i-1].High
		downMove := candles[i-1].Low - candles[i].Low

		// +DM occurs when current high - previous high exceeds
		// previous low - current low, and is positive
		pDM := 0.0
		if upMove > downMove && upMove > 0 {
			pDM = upMove
		}
		plusDM = append(plusDM, pDM)

		mDM := 0.0
		if downMove > upMove && downMove > 0 {
			mDM = downMove
		}
		minusDM = append(minusDM, mDM)

		tr1 := candles[i].High - candles[i].Low
		tr2 := math.Abs(candles[i].High - candles[i-1].Close)
		tr3 := math.Abs(candles[i].Low - candles[i-1].Close)
		trueRange = append(trueRange, math.Max(tr1, math.Max(tr2, tr3)))
	}

	// Initial smoothed values
	var smoothedPlusDM, smoothedMinusDM, smoothedTR float64
	for i := 0; i < period; i++ {
		smoothedPlusDM += plusDM[i]
		smoothedMinusDM += minusDM[i]
		smoothedTR += trueRange[i]
	}

	plusDI := (smoothedPlusDM / smoothedTR) * 100
	minusDI := (smoothedMinusDM / smoothedTR) * 100

	dx := math.Abs(plusDI-minusDI) / (plusDI + minusDI) * 100
	adx := dx

	// Refine for remaining periods
	for i := period; i < len(trueRange); i++ {
		smoothedPlusDM = smoothedPlusDM - (smoothedPlusDM / float64(period)) + plusDM[i]
		smoothedMinusDM = smoothedMinusDM - (smoothedMinusDM / float64(period)) + minusDM[i]
		smoothedTR = smoothedTR - (smoothedTR / float64(period)) + trueRange[i]

		newPlusDI := (smoothedPlusDM / smoothedTR) * 100
		newMinusDI := (smoothedMinusDM / smoothedTR) * 100

		newDX := math.Abs(newPlusDI-newMinusDI) / (newPlusDI + newMinusDI) * 100

		// ADX is smoothed DX
		adx = ((float64(period-1) * adx) + newDX) / float64(period)

		plusDI = newPlusDI
		minusDI = newMinusDI
	}

	return adx, plusDI, minusDI
}

// ADXSeries returns per-candle ADX, +DI and -DI lines computed with rolling
// means over a minimum window of one, the form used for the chart panel.
// Undefined positions come out as 0 rather than NaN.
func ADXSeries(candles []models.Candle, period int) (adx, plusDI, minusDI []float64) {
	n := len(candles)
	adx = make([]float64, n)
	plusDI = make([]float64, n)
	minusDI = make([]float64, n)
	if period <= 0 || n < 2 {
		return adx, plusDI, minusDI
	}

	tr := make([]float64, n)
	pDM := make([]float64, n)
	mDM := make([]float64, n)
	for i := 1; i < n; i++ {
		tr1 := candles[i].High - candles[i].Low
		tr2 := math.Abs(candles[i].High - candles[i-1].Close)
		tr3 := math.Abs(candles[i].Low - candles[i-1].Close)
		tr[i] = math.Max(tr1, math.Max(tr2, tr3))

		if up := candles[i].High - candles[i-1].High; up > 0 {
			pDM[i] = up
		}
		if down := candles[i-1].Low - candles[i].Low; down > 0 {
			mDM[i] = down
		}
	}

	rollingMean := func(vals []float64, i int) float64 {
		lo := i - period + 1
		if lo < 1 {
			lo = 1
		}
		var sum float64
		count := 0
		for j := lo; j <= i; j++ {
			sum += vals[j]
			count++
		}
		if count == 0 {
			return 0
		}
		return sum / float64(count)
	}

	dx := make([]float64, n)
	for i := 1; i < n; i++ {
		atr := rollingMean(tr, i)
		if atr == 0 {
			continue
		}
		plusDI[i] = 100 * rollingMean(pDM, i) / atr
		minusDI[i] = 100 * rollingMean(mDM, i) / atr
		if sum := plusDI[i] + minusDI[i]; sum != 0 {
			dx[i] = 100 * math.Abs(plusDI[i]-minusDI[i]) / sum
		}
	}
	for i := 1; i < n; i++ {
		adx[i] = rollingMean(dx, i)
	}
	return adx, plusDI, minusDI
}
