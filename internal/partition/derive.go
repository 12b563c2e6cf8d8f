package partition

import (
	"math"
	"sort"

	"github.com/sells-group/vendor-risk/internal/model"
)

const (
	// volatilityWindow caps the number of most recent daily closes used.
	volatilityWindow = 253

	// tradingDaysPerYear scales daily return volatility to annual.
	tradingDaysPerYear = 252
)

// annualizedVolatility computes annualized volatility from daily log-returns
// of up to the most recent 253 closes. Returns nil when fewer than two
// usable closes exist.
func annualizedVolatility(prices []model.PricePoint) *float64 {
	usable := make([]model.PricePoint, 0, len(prices))
	for _, p := range prices {
		if p.Close > 0 && !math.IsNaN(p.Close) && !math.IsInf(p.Close, 0) {
			usable = append(usable, p)
		}
	}
	sort.Slice(usable, func(i, j int) bool { return usable[i].Date.Before(usable[j].Date) })
	if len(usable) > volatilityWindow {
		usable = usable[len(usable)-volatilityWindow:]
	}
	if len(usable) < 2 {
		return nil
	}

	returns := make([]float64, 0, len(usable)-1)
	for i := 1; i < len(usable); i++ {
		returns = append(returns, math.Log(usable[i].Close/usable[i-1].Close))
	}

	var sum float64
	for _, r := range returns {
		sum += r
	}
	mean := sum / float64(len(returns))

	var variance float64
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(len(returns))

	vol := math.Sqrt(variance) * math.Sqrt(tradingDaysPerYear)
	if math.IsNaN(vol) || math.IsInf(vol, 0) {
		return nil
	}
	return &vol
}

// deriveAltmanZ approximates the Altman Z-Score from statement data when
// the ratios endpoint does not report it. Working capital, retained
// earnings, and EBIT are proxied by cash, total equity, and net income
// since the statement slice does not carry the exact inputs.
func deriveAltmanZ(
	balanceSheets []model.BalanceSheet,
	incomeStatements []model.IncomeStatement,
	marketCap float64,
) *float64 {
	if len(balanceSheets) == 0 || len(incomeStatements) == 0 {
		return nil
	}
	bs := balanceSheets[0]
	if bs.TotalAssets <= 0 || bs.TotalLiabilities <= 0 {
		return nil
	}

	// Trailing revenue and income over up to four reported periods.
	var revenue, netIncome float64
	for i, stmt := range incomeStatements {
		if i >= 4 {
			break
		}
		revenue += stmt.Revenue
		netIncome += stmt.NetIncome
	}

	x1 := bs.CashAndEquiv / bs.TotalAssets
	x2 := bs.TotalEquity / bs.TotalAssets
	x3 := netIncome / bs.TotalAssets
	x4 := marketCap / bs.TotalLiabilities
	x5 := revenue / bs.TotalAssets

	z := 1.2*x1 + 1.4*x2 + 3.3*x3 + 0.6*x4 + 1.0*x5
	if math.IsNaN(z) || math.IsInf(z, 0) {
		return nil
	}
	return &z
}
