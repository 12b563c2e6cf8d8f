package fmp

// Profile is the company profile payload.
type Profile struct {
	Symbol            string  `json:"symbol"`
	CompanyName       string  `json:"companyName"`
	Sector            string  `json:"sector"`
	Industry          string  `json:"industry"`
	Country           string  `json:"country"`
	FullTimeEmployees string  `json:"fullTimeEmployees"`
	MktCap            float64 `json:"mktCap"`
	Beta              float64 `json:"beta"`
	Description       string  `json:"description"`
	Website           string  `json:"website"`
	CIK               string  `json:"cik"`
}

// Quote is the real-time quote payload.
type Quote struct {
	Symbol            string  `json:"symbol"`
	Price             float64 `json:"price"`
	ChangesPercentage float64 `json:"changesPercentage"`
	Volume            int64   `json:"volume"`
	PriceAvg50        float64 `json:"priceAvg50"`
	PriceAvg200       float64 `json:"priceAvg200"`
	YearHigh          float64 `json:"yearHigh"`
	YearLow           float64 `json:"yearLow"`
	PE                float64 `json:"pe"`
	EPS               float64 `json:"eps"`
}

// HistoricalPrice is one daily bar in the historical series.
type HistoricalPrice struct {
	Date  string  `json:"date"`
	Close float64 `json:"close"`
}

// historicalResponse wraps the historical price list.
type historicalResponse struct {
	Symbol     string            `json:"symbol"`
	Historical []HistoricalPrice `json:"historical"`
}

// IncomeStatement is one quarterly income statement.
type IncomeStatement struct {
	Date        string  `json:"date"`
	Period      string  `json:"period"`
	Revenue     float64 `json:"revenue"`
	GrossProfit float64 `json:"grossProfit"`
	NetIncome   float64 `json:"netIncome"`
	EPS         float64 `json:"eps"`
}

// BalanceSheet is one quarterly balance sheet.
type BalanceSheet struct {
	Date                    string  `json:"date"`
	Period                  string  `json:"period"`
	TotalAssets             float64 `json:"totalAssets"`
	TotalLiabilities        float64 `json:"totalLiabilities"`
	TotalStockholdersEquity float64 `json:"totalStockholdersEquity"`
	CashAndCashEquivalents  float64 `json:"cashAndCashEquivalents"`
	TotalDebt               float64 `json:"totalDebt"`
}

// CashFlowStatement is one quarterly cash flow statement.
type CashFlowStatement struct {
	Date               string  `json:"date"`
	Period             string  `json:"period"`
	OperatingCashFlow  float64 `json:"operatingCashFlow"`
	FreeCashFlow       float64 `json:"freeCashFlow"`
	CapitalExpenditure float64 `json:"capitalExpenditure"`
}

// RatiosTTM is the trailing-twelve-month ratio set. Pointer fields keep
// "not reported" distinguishable from zero.
type RatiosTTM struct {
	CurrentRatioTTM      *float64 `json:"currentRatioTTM"`
	QuickRatioTTM        *float64 `json:"quickRatioTTM"`
	DebtEquityRatioTTM   *float64 `json:"debtEquityRatioTTM"`
	ReturnOnEquityTTM    *float64 `json:"returnOnEquityTTM"`
	ReturnOnAssetsTTM    *float64 `json:"returnOnAssetsTTM"`
	GrossProfitMarginTTM *float64 `json:"grossProfitMarginTTM"`
	NetProfitMarginTTM   *float64 `json:"netProfitMarginTTM"`
}

// SearchResult is one ticker search hit.
type SearchResult struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchangeShortName"`
}
