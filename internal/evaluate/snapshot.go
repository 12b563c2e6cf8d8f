package evaluate

import (
	"fmt"
	"strings"

	"github.com/sells-group/vendor-risk/internal/model"
)

const (
	snapshotQuarters  = 4
	snapshotFilings   = 10
	snapshotHeadlines = 15
	snapshotRecords   = 10
	snapshotSnippets  = 8
)

// buildSnapshot serializes aggregated data into the compact textual form the
// reasoning service consumes. Failed sources are listed explicitly so the
// evaluation can account for missing evidence instead of guessing.
func buildSnapshot(agg model.AggregatedCompanyData) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Company: %s (%s)\n\n", agg.Company.Name, agg.Company.Ticker)

	if p := agg.Profile.Data; p != nil {
		b.WriteString("## Profile\n")
		fmt.Fprintf(&b, "Sector: %s | Industry: %s | Country: %s\n", p.Sector, p.Industry, p.Country)
		fmt.Fprintf(&b, "Employees: %d | Market cap: %.0f | Beta: %.2f\n", p.Employees, p.MarketCap, p.Beta)
		if p.Description != "" {
			fmt.Fprintf(&b, "%s\n", truncate(p.Description, 500))
		}
		b.WriteString("\n")
	}

	if q := agg.Quote.Data; q != nil {
		b.WriteString("## Market Quote\n")
		fmt.Fprintf(&b, "Price: %.2f (%.2f%% change) | 50d avg: %.2f | 200d avg: %.2f\n",
			q.Price, q.ChangePercent, q.PriceAvg50, q.PriceAvg200)
		fmt.Fprintf(&b, "52w range: %.2f - %.2f | P/E: %.2f | EPS: %.2f\n\n",
			q.YearLow, q.YearHigh, q.PE, q.EarningsPerShare)
	}

	if r := agg.Ratios.Data; r != nil {
		b.WriteString("## Health Ratios (TTM)\n")
		writeRatio(&b, "Current ratio", r.CurrentRatio)
		writeRatio(&b, "Quick ratio", r.QuickRatio)
		writeRatio(&b, "Debt/equity", r.DebtToEquity)
		writeRatio(&b, "Return on equity", r.ReturnOnEquity)
		writeRatio(&b, "Return on assets", r.ReturnOnAssets)
		writeRatio(&b, "Gross margin", r.GrossMargin)
		writeRatio(&b, "Net margin", r.NetMargin)
		b.WriteString("\n")
	}

	if stmts := agg.IncomeStatements.Data; stmts != nil && len(*stmts) > 0 {
		b.WriteString("## Income Highlights (recent quarters)\n")
		for i, s := range *stmts {
			if i >= snapshotQuarters {
				break
			}
			fmt.Fprintf(&b, "%s %s: revenue %.0f, net income %.0f, EPS %.2f\n",
				s.Period, s.Date.Format("2006-01-02"), s.Revenue, s.NetIncome, s.EPS)
		}
		b.WriteString("\n")
	}

	if sheets := agg.BalanceSheets.Data; sheets != nil && len(*sheets) > 0 {
		s := (*sheets)[0]
		b.WriteString("## Latest Balance Sheet\n")
		fmt.Fprintf(&b, "%s: assets %.0f, liabilities %.0f, equity %.0f, cash %.0f, total debt %.0f\n\n",
			s.Date.Format("2006-01-02"), s.TotalAssets, s.TotalLiabilities, s.TotalEquity, s.CashAndEquiv, s.TotalDebt)
	}

	if filings := agg.Filings.Data; filings != nil && len(*filings) > 0 {
		b.WriteString("## Recent Regulatory Filings\n")
		for i, f := range *filings {
			if i >= snapshotFilings {
				break
			}
			fmt.Fprintf(&b, "%s filed %s\n", f.Form, f.FiledAt.Format("2006-01-02"))
		}
		b.WriteString("\n")
	}

	if news := agg.News.Data; news != nil && len(*news) > 0 {
		b.WriteString("## Recent News Headlines\n")
		for i, a := range *news {
			if i >= snapshotHeadlines {
				break
			}
			fmt.Fprintf(&b, "- %s (%s)\n", a.Title, a.Source)
		}
		b.WriteString("\n")
	}

	if macro := agg.Macro.Data; macro != nil && len(*macro) > 0 {
		b.WriteString("## Macro Indicators\n")
		for _, m := range *macro {
			if m.Prior != nil {
				fmt.Fprintf(&b, "%s (%s): %.2f (prior %.2f)\n", m.Name, m.SeriesID, m.Latest, *m.Prior)
			} else {
				fmt.Fprintf(&b, "%s (%s): %.2f\n", m.Name, m.SeriesID, m.Latest)
			}
		}
		b.WriteString("\n")
	}

	if violations := agg.Environmental.Data; violations != nil && len(*violations) > 0 {
		b.WriteString("## Environmental Enforcement Records\n")
		for i, v := range *violations {
			if i >= snapshotRecords {
				break
			}
			fmt.Fprintf(&b, "- %s [%s]: %s, penalty $%.0f\n", v.FacilityName, v.State, v.Statute, v.PenaltyUSD)
		}
		b.WriteString("\n")
	}

	if inspections := agg.LaborSafety.Data; inspections != nil && len(*inspections) > 0 {
		b.WriteString("## Labor Safety Inspections\n")
		for i, ins := range *inspections {
			if i >= snapshotRecords {
				break
			}
			fmt.Fprintf(&b, "- %s [%s]: %d violations, penalty $%.0f\n",
				ins.EstablishmentName, ins.State, ins.ViolationCount, ins.PenaltyUSD)
		}
		b.WriteString("\n")
	}

	if snippets := agg.WebResearch.Data; snippets != nil && len(*snippets) > 0 {
		b.WriteString("## Web Research\n")
		for i, s := range *snippets {
			if i >= snapshotSnippets {
				break
			}
			fmt.Fprintf(&b, "- %s\n", truncate(s.Snippet, 300))
		}
		b.WriteString("\n")
	}

	if failed := agg.FailedSources(); len(failed) > 0 {
		b.WriteString("## Unavailable Sources\n")
		fmt.Fprintf(&b, "The following sources failed and their data is missing: %s\n",
			strings.Join(failed, ", "))
	}

	return b.String()
}

func writeRatio(b *strings.Builder, label string, v *float64) {
	if v == nil {
		return
	}
	fmt.Fprintf(b, "%s: %.3f\n", label, *v)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
