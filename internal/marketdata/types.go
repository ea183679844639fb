package marketdata

// --- Yahoo Finance API response types ---

// chartResponse wraps the v8 chart API response.
type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *apiError     `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Meta       chartMeta       `json:"meta"`
	Timestamp  []int64         `json:"timestamp"`
	Indicators chartIndicators `json:"indicators"`
}

type chartMeta struct {
	Symbol   string `json:"symbol"`
	Currency string `json:"currency"`
}

type chartIndicators struct {
	Quote []chartQuote `json:"quote"`
}

// chartQuote uses pointers so null entries in the JSON arrays are
// distinguishable from real zeros.
type chartQuote struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*int64   `json:"volume"`
}

// quoteSummaryResponse wraps the v10 quoteSummary API response.
type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []quoteSummaryResult `json:"result"`
		Error  *apiError            `json:"error"`
	} `json:"quoteSummary"`
}

type quoteSummaryResult struct {
	AssetProfile         *assetProfile  `json:"assetProfile"`
	DefaultKeyStatistics *keyStatistics `json:"defaultKeyStatistics"`
	SummaryDetail        *summaryDetail `json:"summaryDetail"`
	FinancialData        *financialData `json:"financialData"`
}

// finVal holds a formatted Yahoo metric. Raw is a pointer: metrics
// Yahoo omits or leaves empty decode to nil, not zero.
type finVal struct {
	Raw *float64 `json:"raw"`
	Fmt string   `json:"fmt"`
}

type assetProfile struct {
	Industry string `json:"industry"`
	Sector   string `json:"sector"`
}

type keyStatistics struct {
	ForwardPE   finVal `json:"forwardPE"`
	Beta        finVal `json:"beta"`
	PriceToBook finVal `json:"priceToBook"`
	TrailingEps finVal `json:"trailingEps"`
}

type summaryDetail struct {
	MarketCap     finVal `json:"marketCap"`
	TrailingPE    finVal `json:"trailingPE"`
	ForwardPE     finVal `json:"forwardPE"`
	DividendYield finVal `json:"dividendYield"`
	Beta          finVal `json:"beta"`
}

type financialData struct {
	CurrentPrice finVal `json:"currentPrice"`
}

type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}
