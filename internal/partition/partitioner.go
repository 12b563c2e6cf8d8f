// Package partition extracts every quantitative field from aggregated and
// evaluated data into named, category- and industry-tagged variables. The
// partitioner never fails; absent inputs simply yield fewer variables.
package partition

import (
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/vendor-risk/internal/model"
)

// macroRouting assigns each tracked macro series to a scoring category.
var macroRouting = map[string]model.RiskCategory{
	"UNRATE":   model.CategoryOperational,
	"CPIAUCSL": model.CategoryFinancial,
	"FEDFUNDS": model.CategoryFinancial,
	"INDPRO":   model.CategoryOperational,
	"DTWEXBGS": model.CategoryGeographical,
	"T10Y2Y":   model.CategoryFinancial,
}

// signalRouting maps the seven signal categories into the four scoring
// categories. The scorer uses the same table when blending severities.
var signalRouting = map[model.SignalCategory]model.RiskCategory{
	model.SignalFinancial:     model.CategoryFinancial,
	model.SignalSupplyChain:   model.CategoryOperational,
	model.SignalSafety:        model.CategoryOperational,
	model.SignalRegulatory:    model.CategoryEthical,
	model.SignalLitigation:    model.CategoryEthical,
	model.SignalEnvironmental: model.CategoryEthical,
	model.SignalMacro:         model.CategoryGeographical,
}

// SignalRouting exposes the signal-to-scoring-category table.
func SignalRouting() map[model.SignalCategory]model.RiskCategory {
	return signalRouting
}

type collector struct {
	industry model.IndustrySector
	out      model.PartitionedVariables
}

// add records a variable unless the value is non-finite. Callers gate
// zero-valued fields themselves where zero means "not reported".
func (c *collector) add(category model.RiskCategory, name string, value float64) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return
	}
	v := model.Variable{Name: name, Value: value, Category: category, Industry: c.industry}
	switch category {
	case model.CategoryFinancial:
		c.out.Financial = append(c.out.Financial, v)
	case model.CategoryOperational:
		c.out.Operational = append(c.out.Operational, v)
	case model.CategoryGeographical:
		c.out.Geographical = append(c.out.Geographical, v)
	case model.CategoryEthical:
		c.out.Ethical = append(c.out.Ethical, v)
	}
}

func (c *collector) addPtr(category model.RiskCategory, name string, value *float64) {
	if value == nil {
		return
	}
	c.add(category, name, *value)
}

// Partition extracts variables from one aggregation run. evaluated may be
// nil; evaluation-derived variables are then omitted entirely.
func Partition(agg model.AggregatedCompanyData, evaluated *model.EvaluatedData) model.PartitionedVariables {
	industry := model.SectorUnknown
	if p := agg.Profile.Data; p != nil {
		industry = ResolveIndustry(p.Sector)
	}

	c := &collector{
		industry: industry,
		out: model.PartitionedVariables{
			Company:  agg.Company,
			Industry: industry,
		},
	}

	c.partitionFinancial(agg)
	c.partitionOperational(agg)
	c.partitionGeographical(agg)
	c.partitionEthical(agg)
	c.partitionMacro(agg)
	c.partitionSignals(evaluated)

	zap.L().Debug("variables partitioned",
		zap.String("ticker", agg.Company.Ticker),
		zap.String("industry", string(industry)),
		zap.Int("total", c.out.Total()),
	)
	return c.out
}

func (c *collector) partitionFinancial(agg model.AggregatedCompanyData) {
	if p := agg.Profile.Data; p != nil {
		if p.MarketCap > 0 {
			c.add(model.CategoryFinancial, "market_cap", p.MarketCap)
		}
		if p.Beta != 0 {
			c.add(model.CategoryFinancial, "beta", p.Beta)
		}
	}

	if q := agg.Quote.Data; q != nil {
		if q.Price > 0 {
			c.add(model.CategoryFinancial, "price", q.Price)
		}
		c.add(model.CategoryFinancial, "price_change_percent", q.ChangePercent)
		if q.PE > 0 {
			c.add(model.CategoryFinancial, "pe_ratio", q.PE)
		}
	}

	if r := agg.Ratios.Data; r != nil {
		c.addPtr(model.CategoryFinancial, "current_ratio", r.CurrentRatio)
		c.addPtr(model.CategoryFinancial, "quick_ratio", r.QuickRatio)
		c.addPtr(model.CategoryFinancial, "debt_to_equity", r.DebtToEquity)
		c.addPtr(model.CategoryFinancial, "return_on_equity", r.ReturnOnEquity)
		c.addPtr(model.CategoryFinancial, "return_on_assets", r.ReturnOnAssets)
		c.addPtr(model.CategoryFinancial, "gross_margin", r.GrossMargin)
		c.addPtr(model.CategoryFinancial, "net_margin", r.NetMargin)
		c.addPtr(model.CategoryFinancial, "altman_z_score", r.AltmanZScore)
	}

	if prices := agg.HistoricalPrices.Data; prices != nil {
		c.addPtr(model.CategoryFinancial, "annualized_volatility", annualizedVolatility(*prices))
	}

	// Derive Altman Z from statements only when no reported value exists.
	if !c.has(model.CategoryFinancial, "altman_z_score") {
		var marketCap float64
		if p := agg.Profile.Data; p != nil {
			marketCap = p.MarketCap
		}
		if sheets := agg.BalanceSheets.Data; sheets != nil && marketCap > 0 {
			var stmts []model.IncomeStatement
			if s := agg.IncomeStatements.Data; s != nil {
				stmts = *s
			}
			c.addPtr(model.CategoryFinancial, "altman_z_score", deriveAltmanZ(*sheets, stmts, marketCap))
		}
	}
}

func (c *collector) partitionOperational(agg model.AggregatedCompanyData) {
	if p := agg.Profile.Data; p != nil && p.Employees > 0 {
		c.add(model.CategoryOperational, "employee_count", float64(p.Employees))
	}
	if filings := agg.Filings.Data; filings != nil {
		c.add(model.CategoryOperational, "filing_count", float64(len(*filings)))
	}
	if news := agg.News.Data; news != nil {
		c.add(model.CategoryOperational, "news_volume", float64(len(*news)))
	}
}

func (c *collector) partitionGeographical(agg model.AggregatedCompanyData) {
	states := make(map[string]int)
	total := 0
	if violations := agg.Environmental.Data; violations != nil {
		for _, v := range *violations {
			if s := strings.TrimSpace(v.State); s != "" {
				states[s]++
				total++
			}
		}
	}
	if inspections := agg.LaborSafety.Data; inspections != nil {
		for _, ins := range *inspections {
			if s := strings.TrimSpace(ins.State); s != "" {
				states[s]++
				total++
			}
		}
	}
	if total == 0 {
		return
	}

	c.add(model.CategoryGeographical, "facility_state_spread", float64(len(states)))

	maxCount := 0
	for _, n := range states {
		if n > maxCount {
			maxCount = n
		}
	}
	c.add(model.CategoryGeographical, "facility_concentration_ratio", float64(maxCount)/float64(total))
}

func (c *collector) partitionEthical(agg model.AggregatedCompanyData) {
	if violations := agg.Environmental.Data; violations != nil {
		c.add(model.CategoryEthical, "environmental_violation_count", float64(len(*violations)))
		var penalties float64
		for _, v := range *violations {
			if v.PenaltyUSD > 0 {
				penalties += v.PenaltyUSD
			}
		}
		c.add(model.CategoryEthical, "environmental_penalty_total", penalties)
	}
	if inspections := agg.LaborSafety.Data; inspections != nil {
		var violationTotal, penalties float64
		for _, ins := range *inspections {
			violationTotal += float64(ins.ViolationCount)
			if ins.PenaltyUSD > 0 {
				penalties += ins.PenaltyUSD
			}
		}
		c.add(model.CategoryEthical, "safety_violation_total", violationTotal)
		c.add(model.CategoryEthical, "safety_penalty_total", penalties)
	}
}

func (c *collector) partitionMacro(agg model.AggregatedCompanyData) {
	macro := agg.Macro.Data
	if macro == nil {
		return
	}
	for _, series := range *macro {
		category, ok := macroRouting[series.SeriesID]
		if !ok {
			continue
		}
		c.add(category, "macro_"+strings.ToLower(series.SeriesID), series.Latest)
	}
}

func (c *collector) partitionSignals(evaluated *model.EvaluatedData) {
	if evaluated == nil {
		return
	}
	counts := make(map[model.SignalCategory]int)
	for _, s := range evaluated.RiskSignals {
		counts[s.Category]++
	}
	for _, signalCategory := range model.SignalCategories {
		n, ok := counts[signalCategory]
		if !ok {
			continue
		}
		category := signalRouting[signalCategory]
		c.add(category, "signal_count_"+string(signalCategory), float64(n))
	}
}

func (c *collector) has(category model.RiskCategory, name string) bool {
	for _, v := range c.out.ByCategory(category) {
		if v.Name == name {
			return true
		}
	}
	return false
}
