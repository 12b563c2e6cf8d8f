package report

import (
	"math"
	"sort"
	"time"

	"github.com/sells-group/vendor-risk/internal/model"
)

const (
	trendMonths = 12

	// trendSwing scales a month's normalized return into score points.
	trendSwing = 5

	// trendPadJitter bounds the jitter applied to padded months.
	trendPadJitter = 3
)

// riskTrend synthesizes a 12-month trend from monthly-grouped closes,
// anchored to the current overall risk score. Months without enough price
// history are padded with small jitter around the current score. The
// result always has exactly 12 points in chronological order.
func riskTrend(prices []model.PricePoint, overallRisk int, now time.Time, jitter func(bound int) int) []model.RiskTrendPoint {
	monthlyCloses := lastClosePerMonth(prices)
	deviations := monthlyDeviations(monthlyCloses)

	out := make([]model.RiskTrendPoint, 0, trendMonths)
	for i := trendMonths - 1; i >= 0; i-- {
		month := now.AddDate(0, -i, 0)
		key := month.Format("2006-01")

		score := overallRisk
		if dev, ok := deviations[key]; ok {
			score = overallRisk + int(math.Round(dev*trendSwing))
		} else {
			score = overallRisk + jitter(trendPadJitter)
		}
		out = append(out, model.RiskTrendPoint{
			Month: key,
			Score: clampScore(score),
		})
	}
	return out
}

// lastClosePerMonth reduces a daily series to one close per month.
func lastClosePerMonth(prices []model.PricePoint) map[string]model.PricePoint {
	out := make(map[string]model.PricePoint)
	for _, p := range prices {
		if p.Close <= 0 {
			continue
		}
		key := p.Date.Format("2006-01")
		if existing, ok := out[key]; !ok || p.Date.After(existing.Date) {
			out[key] = p
		}
	}
	return out
}

// monthlyDeviations computes each month's return normalized by the series'
// return volatility. A month appears only when the prior month also has a
// close.
func monthlyDeviations(monthlyCloses map[string]model.PricePoint) map[string]float64 {
	keys := make([]string, 0, len(monthlyCloses))
	for k := range monthlyCloses {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) < 3 {
		return nil
	}

	returns := make(map[string]float64, len(keys)-1)
	var all []float64
	for i := 1; i < len(keys); i++ {
		prev := monthlyCloses[keys[i-1]].Close
		curr := monthlyCloses[keys[i]].Close
		r := (curr - prev) / prev
		returns[keys[i]] = r
		all = append(all, r)
	}

	var sum float64
	for _, r := range all {
		sum += r
	}
	mean := sum / float64(len(all))
	var variance float64
	for _, r := range all {
		variance += (r - mean) * (r - mean)
	}
	std := math.Sqrt(variance / float64(len(all)))
	if std == 0 {
		return nil
	}

	out := make(map[string]float64, len(returns))
	for k, r := range returns {
		out[k] = r / std
	}
	return out
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
