package sources

import (
	"math"
	"strconv"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/vendor-risk/internal/model"
	"github.com/sells-group/vendor-risk/pkg/edgar"
	"github.com/sells-group/vendor-risk/pkg/epa"
	"github.com/sells-group/vendor-risk/pkg/fmp"
	"github.com/sells-group/vendor-risk/pkg/newsapi"
	"github.com/sells-group/vendor-risk/pkg/osha"
	"github.com/sells-group/vendor-risk/pkg/websearch"
)

// The adapters below are the parse-or-drop boundary: loosely-typed provider
// payloads are validated into the fixed internal schema here, and fields
// that cannot be parsed are dropped rather than zeroed or passed through.

func errString(s string) error {
	return eris.New(s)
}

// finitePtr copies p only when it points at a finite value.
func finitePtr(p *float64) *float64 {
	if p == nil || math.IsNaN(*p) || math.IsInf(*p, 0) {
		return nil
	}
	v := *p
	return &v
}

func profileFromFMP(p *fmp.Profile) model.CompanyProfile {
	out := model.CompanyProfile{
		Ticker:      p.Symbol,
		Name:        p.CompanyName,
		Sector:      p.Sector,
		Industry:    p.Industry,
		Country:     p.Country,
		MarketCap:   p.MktCap,
		Beta:        p.Beta,
		Description: p.Description,
		Website:     p.Website,
	}
	if n, err := strconv.Atoi(p.FullTimeEmployees); err == nil {
		out.Employees = n
	}
	return out
}

func quoteFromFMP(q *fmp.Quote) model.Quote {
	return model.Quote{
		Price:            q.Price,
		ChangePercent:    q.ChangesPercentage,
		Volume:           q.Volume,
		PriceAvg50:       q.PriceAvg50,
		PriceAvg200:      q.PriceAvg200,
		YearHigh:         q.YearHigh,
		YearLow:          q.YearLow,
		PE:               q.PE,
		EarningsPerShare: q.EPS,
	}
}

func pricesFromFMP(prices []fmp.HistoricalPrice) []model.PricePoint {
	out := make([]model.PricePoint, 0, len(prices))
	for _, p := range prices {
		d, err := time.Parse("2006-01-02", p.Date)
		if err != nil || p.Close <= 0 {
			continue
		}
		out = append(out, model.PricePoint{Date: d, Close: p.Close})
	}
	return out
}

func incomeFromFMP(stmts []fmp.IncomeStatement) []model.IncomeStatement {
	out := make([]model.IncomeStatement, 0, len(stmts))
	for _, s := range stmts {
		d, err := time.Parse("2006-01-02", s.Date)
		if err != nil {
			continue
		}
		out = append(out, model.IncomeStatement{
			Period:      s.Period,
			Date:        d,
			Revenue:     s.Revenue,
			GrossProfit: s.GrossProfit,
			NetIncome:   s.NetIncome,
			EPS:         s.EPS,
		})
	}
	return out
}

func balanceFromFMP(sheets []fmp.BalanceSheet) []model.BalanceSheet {
	out := make([]model.BalanceSheet, 0, len(sheets))
	for _, s := range sheets {
		d, err := time.Parse("2006-01-02", s.Date)
		if err != nil {
			continue
		}
		out = append(out, model.BalanceSheet{
			Period:           s.Period,
			Date:             d,
			TotalAssets:      s.TotalAssets,
			TotalLiabilities: s.TotalLiabilities,
			TotalEquity:      s.TotalStockholdersEquity,
			CashAndEquiv:     s.CashAndCashEquivalents,
			TotalDebt:        s.TotalDebt,
		})
	}
	return out
}

func cashFlowFromFMP(flows []fmp.CashFlowStatement) []model.CashFlowStatement {
	out := make([]model.CashFlowStatement, 0, len(flows))
	for _, f := range flows {
		d, err := time.Parse("2006-01-02", f.Date)
		if err != nil {
			continue
		}
		out = append(out, model.CashFlowStatement{
			Period:            f.Period,
			Date:              d,
			OperatingCashFlow: f.OperatingCashFlow,
			FreeCashFlow:      f.FreeCashFlow,
			CapEx:             f.CapitalExpenditure,
		})
	}
	return out
}

func ratiosFromFMP(r *fmp.RatiosTTM) model.FinancialRatios {
	out := model.FinancialRatios{
		CurrentRatio:   finitePtr(r.CurrentRatioTTM),
		QuickRatio:     finitePtr(r.QuickRatioTTM),
		DebtToEquity:   finitePtr(r.DebtEquityRatioTTM),
		ReturnOnEquity: finitePtr(r.ReturnOnEquityTTM),
		ReturnOnAssets: finitePtr(r.ReturnOnAssetsTTM),
		GrossMargin:    finitePtr(r.GrossProfitMarginTTM),
		NetMargin:      finitePtr(r.NetProfitMarginTTM),
	}
	// Altman Z is not reported by the ratios endpoint; the partitioner
	// derives it from statements when the inputs are present.
	return out
}

func filingsFromEdgar(filings []edgar.Filing) []model.Filing {
	out := make([]model.Filing, 0, len(filings))
	for _, f := range filings {
		out = append(out, model.Filing{
			Form:        f.Form,
			FiledAt:     f.FiledAt,
			Description: f.Description,
		})
	}
	return out
}

func articlesFromNews(articles []newsapi.Article) []model.Article {
	out := make([]model.Article, 0, len(articles))
	for _, a := range articles {
		if a.URL == "" {
			continue
		}
		out = append(out, model.Article{
			Title:       a.Title,
			URL:         a.URL,
			Source:      a.Source,
			PublishedAt: a.PublishedAt,
			Summary:     a.Description,
		})
	}
	return out
}

func violationsFromEPA(violations []epa.Violation) []model.Violation {
	out := make([]model.Violation, 0, len(violations))
	for _, v := range violations {
		out = append(out, model.Violation{
			FacilityName: v.FacilityName,
			Statute:      v.Statute,
			State:        v.State,
			PenaltyUSD:   v.PenaltyUSD,
			Date:         v.Date,
		})
	}
	return out
}

func inspectionsFromOSHA(inspections []osha.Inspection) []model.Inspection {
	out := make([]model.Inspection, 0, len(inspections))
	for _, ins := range inspections {
		out = append(out, model.Inspection{
			EstablishmentName: ins.EstablishmentName,
			State:             ins.State,
			ViolationCount:    ins.ViolationCount,
			PenaltyUSD:        ins.PenaltyUSD,
			OpenedAt:          ins.OpenedAt,
		})
	}
	return out
}

func snippetsFromWebsearch(snippets []websearch.Snippet) []model.ResearchSnippet {
	out := make([]model.ResearchSnippet, 0, len(snippets))
	for _, s := range snippets {
		out = append(out, model.ResearchSnippet{
			Snippet: s.Text,
			URL:     s.URL,
		})
	}
	return out
}
