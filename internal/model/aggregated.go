package model

import "time"

// CompanyProfile is the validated slice of a provider profile payload.
type CompanyProfile struct {
	Ticker      string  `json:"ticker"`
	Name        string  `json:"name"`
	Sector      string  `json:"sector"`
	Industry    string  `json:"industry"`
	Country     string  `json:"country"`
	Employees   int     `json:"employees"`
	MarketCap   float64 `json:"market_cap"`
	Beta        float64 `json:"beta"`
	Description string  `json:"description"`
	Website     string  `json:"website"`
}

// Quote is a point-in-time market quote.
type Quote struct {
	Price            float64 `json:"price"`
	ChangePercent    float64 `json:"change_percent"`
	Volume           int64   `json:"volume"`
	PriceAvg50       float64 `json:"price_avg_50"`
	PriceAvg200      float64 `json:"price_avg_200"`
	YearHigh         float64 `json:"year_high"`
	YearLow          float64 `json:"year_low"`
	PE               float64 `json:"pe"`
	EarningsPerShare float64 `json:"eps"`
}

// PricePoint is one daily close in a historical price series.
type PricePoint struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// IncomeStatement holds one reported period of income data.
type IncomeStatement struct {
	Period      string    `json:"period"`
	Date        time.Time `json:"date"`
	Revenue     float64   `json:"revenue"`
	GrossProfit float64   `json:"gross_profit"`
	NetIncome   float64   `json:"net_income"`
	EPS         float64   `json:"eps"`
}

// BalanceSheet holds one reported period of balance sheet data.
type BalanceSheet struct {
	Period           string    `json:"period"`
	Date             time.Time `json:"date"`
	TotalAssets      float64   `json:"total_assets"`
	TotalLiabilities float64   `json:"total_liabilities"`
	TotalEquity      float64   `json:"total_equity"`
	CashAndEquiv     float64   `json:"cash_and_equivalents"`
	TotalDebt        float64   `json:"total_debt"`
}

// CashFlowStatement holds one reported period of cash flow data.
type CashFlowStatement struct {
	Period            string    `json:"period"`
	Date              time.Time `json:"date"`
	OperatingCashFlow float64   `json:"operating_cash_flow"`
	FreeCashFlow      float64   `json:"free_cash_flow"`
	CapEx             float64   `json:"capex"`
}

// FinancialRatios holds the health ratios used by the benchmark rules.
// Pointer fields distinguish "not reported" from a true zero.
type FinancialRatios struct {
	CurrentRatio   *float64 `json:"current_ratio,omitempty"`
	QuickRatio     *float64 `json:"quick_ratio,omitempty"`
	DebtToEquity   *float64 `json:"debt_to_equity,omitempty"`
	ReturnOnEquity *float64 `json:"return_on_equity,omitempty"`
	ReturnOnAssets *float64 `json:"return_on_assets,omitempty"`
	AltmanZScore   *float64 `json:"altman_z_score,omitempty"`
	GrossMargin    *float64 `json:"gross_margin,omitempty"`
	NetMargin      *float64 `json:"net_margin,omitempty"`
}

// Filing is one regulatory filing reference.
type Filing struct {
	Form        string    `json:"form"`
	FiledAt     time.Time `json:"filed_at"`
	Description string    `json:"description,omitempty"`
	URL         string    `json:"url,omitempty"`
}

// Article is one news item. URL is the de-duplication key when merging
// multiple query strategies.
type Article struct {
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Source      string    `json:"source,omitempty"`
	PublishedAt time.Time `json:"published_at"`
	Summary     string    `json:"summary,omitempty"`
}

// MacroSeries is one macro indicator with its latest and prior observations.
type MacroSeries struct {
	SeriesID string    `json:"series_id"`
	Name     string    `json:"name"`
	Latest   float64   `json:"latest"`
	Prior    *float64  `json:"prior,omitempty"`
	AsOf     time.Time `json:"as_of"`
}

// Violation is one environmental enforcement record.
type Violation struct {
	FacilityName string    `json:"facility_name"`
	Statute      string    `json:"statute"`
	Severity     string    `json:"severity,omitempty"`
	PenaltyUSD   float64   `json:"penalty_usd"`
	State        string    `json:"state,omitempty"`
	Date         time.Time `json:"date"`
}

// Inspection is one labor-safety inspection record.
type Inspection struct {
	EstablishmentName string    `json:"establishment_name"`
	State             string    `json:"state,omitempty"`
	ViolationCount    int       `json:"violation_count"`
	PenaltyUSD        float64   `json:"penalty_usd"`
	OpenedAt          time.Time `json:"opened_at"`
}

// ResearchSnippet is one web research result.
type ResearchSnippet struct {
	Title   string `json:"title,omitempty"`
	URL     string `json:"url,omitempty"`
	Snippet string `json:"snippet"`
}

// AggregatedCompanyData is the merged output of one aggregation run: one
// SourceResult per provider, created once and immutable thereafter.
type AggregatedCompanyData struct {
	Company          CompanyIdentifier                 `json:"company"`
	Profile          SourceResult[CompanyProfile]      `json:"profile"`
	Quote            SourceResult[Quote]               `json:"quote"`
	HistoricalPrices SourceResult[[]PricePoint]        `json:"historical_prices"`
	IncomeStatements SourceResult[[]IncomeStatement]   `json:"income_statements"`
	BalanceSheets    SourceResult[[]BalanceSheet]      `json:"balance_sheets"`
	CashFlows        SourceResult[[]CashFlowStatement] `json:"cash_flows"`
	Ratios           SourceResult[FinancialRatios]     `json:"ratios"`
	Filings          SourceResult[[]Filing]            `json:"filings"`
	News             SourceResult[[]Article]           `json:"news"`
	Macro            SourceResult[[]MacroSeries]       `json:"macro"`
	Environmental    SourceResult[[]Violation]         `json:"environmental"`
	LaborSafety      SourceResult[[]Inspection]        `json:"labor_safety"`
	WebResearch      SourceResult[[]ResearchSnippet]   `json:"web_research"`
	AggregatedAt     time.Time                         `json:"aggregated_at"`
}

// FailedSources lists the provider names whose fetch did not succeed.
func (a AggregatedCompanyData) FailedSources() []string {
	var failed []string
	check := func(source string, ok bool) {
		if !ok {
			failed = append(failed, source)
		}
	}
	check(a.Profile.Source, a.Profile.Success)
	check(a.Quote.Source, a.Quote.Success)
	check(a.HistoricalPrices.Source, a.HistoricalPrices.Success)
	check(a.IncomeStatements.Source, a.IncomeStatements.Success)
	check(a.BalanceSheets.Source, a.BalanceSheets.Success)
	check(a.CashFlows.Source, a.CashFlows.Success)
	check(a.Ratios.Source, a.Ratios.Success)
	check(a.Filings.Source, a.Filings.Success)
	check(a.News.Source, a.News.Success)
	check(a.Macro.Source, a.Macro.Success)
	check(a.Environmental.Source, a.Environmental.Success)
	check(a.LaborSafety.Source, a.LaborSafety.Success)
	check(a.WebResearch.Source, a.WebResearch.Success)
	return failed
}
