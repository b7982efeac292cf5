// Package domain provides core domain models and types.
package domain

// EsgRecord holds the governance scoring of one company.
// All scores are integers in [0,100].
type EsgRecord struct {
	Ticker        string `json:"ticker" msgpack:"ticker"`
	ESGScore      int    `json:"esg_score" msgpack:"esg_score"`
	Environmental int    `json:"environmental" msgpack:"environmental"`
	Social        int    `json:"social" msgpack:"social"`
	Governance    int    `json:"governance" msgpack:"governance"`
}

// FinancialRecord holds the market metrics of one company at fetch time.
// A nil field means the provider did not report it; it is never zero-filled.
type FinancialRecord struct {
	CompanyName   *string  `json:"company_name" msgpack:"company_name"`
	MarketCap     *int64   `json:"market_cap" msgpack:"market_cap"`
	PERatio       *float64 `json:"pe_ratio" msgpack:"pe_ratio"`
	ROE           *float64 `json:"roe" msgpack:"roe"`
	DividendYield *float64 `json:"dividend_yield" msgpack:"dividend_yield"`
	Beta          *float64 `json:"beta" msgpack:"beta"`
	DebtToEquity  *float64 `json:"debt_to_equity" msgpack:"debt_to_equity"`
	Ticker        string   `json:"ticker" msgpack:"ticker"`
}

// IsEmpty reports whether no optional field is set.
func (f FinancialRecord) IsEmpty() bool {
	return f.CompanyName == nil &&
		f.MarketCap == nil &&
		f.PERatio == nil &&
		f.ROE == nil &&
		f.DividendYield == nil &&
		f.Beta == nil &&
		f.DebtToEquity == nil
}

// Clone returns a deep copy so cached records cannot be mutated through the copy.
func (f FinancialRecord) Clone() FinancialRecord {
	out := FinancialRecord{Ticker: f.Ticker}
	if f.CompanyName != nil {
		v := *f.CompanyName
		out.CompanyName = &v
	}
	if f.MarketCap != nil {
		v := *f.MarketCap
		out.MarketCap = &v
	}
	out.PERatio = cloneFloat(f.PERatio)
	out.ROE = cloneFloat(f.ROE)
	out.DividendYield = cloneFloat(f.DividendYield)
	out.Beta = cloneFloat(f.Beta)
	out.DebtToEquity = cloneFloat(f.DebtToEquity)
	return out
}

func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// MergedRecord is the join of one EsgRecord and one FinancialRecord sharing a ticker.
type MergedRecord struct {
	CompanyName   *string  `json:"company_name" msgpack:"company_name"`
	MarketCap     *int64   `json:"market_cap" msgpack:"market_cap"`
	PERatio       *float64 `json:"pe_ratio" msgpack:"pe_ratio"`
	ROE           *float64 `json:"roe" msgpack:"roe"`
	DividendYield *float64 `json:"dividend_yield" msgpack:"dividend_yield"`
	Beta          *float64 `json:"beta" msgpack:"beta"`
	DebtToEquity  *float64 `json:"debt_to_equity" msgpack:"debt_to_equity"`
	Ticker        string   `json:"ticker" msgpack:"ticker"`
	ESGScore      int      `json:"esg_score" msgpack:"esg_score"`
	Environmental int      `json:"environmental" msgpack:"environmental"`
	Social        int      `json:"social" msgpack:"social"`
	Governance    int      `json:"governance" msgpack:"governance"`
}

// NewMergedRecord combines both sides of a join. The caller guarantees matching tickers.
func NewMergedRecord(esg EsgRecord, fin FinancialRecord) MergedRecord {
	f := fin.Clone()
	return MergedRecord{
		Ticker:        esg.Ticker,
		ESGScore:      esg.ESGScore,
		Environmental: esg.Environmental,
		Social:        esg.Social,
		Governance:    esg.Governance,
		CompanyName:   f.CompanyName,
		MarketCap:     f.MarketCap,
		PERatio:       f.PERatio,
		ROE:           f.ROE,
		DividendYield: f.DividendYield,
		Beta:          f.Beta,
		DebtToEquity:  f.DebtToEquity,
	}
}

// FilterCriteria are the user-supplied thresholds of one interaction.
type FilterCriteria struct {
	MinESGScore int     `json:"min_esg_score" msgpack:"min_esg_score" validate:"min=0,max=100"`
	MaxPERatio  float64 `json:"max_pe_ratio" msgpack:"max_pe_ratio" validate:"min=0,max=100"`
}

// ShortlistEntry is a MergedRecord restricted to the summary-table columns.
type ShortlistEntry struct {
	CompanyName   *string  `json:"company_name" msgpack:"company_name"`
	PERatio       *float64 `json:"pe_ratio" msgpack:"pe_ratio"`
	ROE           *float64 `json:"roe" msgpack:"roe"`
	DividendYield *float64 `json:"dividend_yield" msgpack:"dividend_yield"`
	Beta          *float64 `json:"beta" msgpack:"beta"`
	Ticker        string   `json:"ticker" msgpack:"ticker"`
	ESGScore      int      `json:"esg_score" msgpack:"esg_score"`
}

// Float64Ptr returns a pointer to v.
func Float64Ptr(v float64) *float64 {
	return &v
}

// Int64Ptr returns a pointer to v.
func Int64Ptr(v int64) *int64 {
	return &v
}

// StringPtr returns a pointer to v.
func StringPtr(v string) *string {
	return &v
}
