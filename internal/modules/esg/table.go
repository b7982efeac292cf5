// Package esg provides the static ESG reference table for the screening universe.
package esg

import "github.com/aristath/esgscreen/internal/domain"

// defaultRecords is the fixed screening universe, in display order.
var defaultRecords = []domain.EsgRecord{
	{Ticker: "AAPL", ESGScore: 75, Environmental: 70, Social: 80, Governance: 75},
	{Ticker: "MSFT", ESGScore: 85, Environmental: 90, Social: 80, Governance: 85},
	{Ticker: "TSLA", ESGScore: 65, Environmental: 60, Social: 70, Governance: 65},
	{Ticker: "AMZN", ESGScore: 60, Environmental: 55, Social: 65, Governance: 60},
	{Ticker: "GOOGL", ESGScore: 80, Environmental: 75, Social: 85, Governance: 80},
	{Ticker: "META", ESGScore: 70, Environmental: 65, Social: 72, Governance: 73},
	{Ticker: "NVDA", ESGScore: 78, Environmental: 72, Social: 80, Governance: 76},
	{Ticker: "JPM", ESGScore: 74, Environmental: 68, Social: 75, Governance: 79},
	{Ticker: "JNJ", ESGScore: 82, Environmental: 78, Social: 83, Governance: 85},
	{Ticker: "XOM", ESGScore: 55, Environmental: 50, Social: 60, Governance: 55},
}

var defaultTable = New(defaultRecords)

// Table is an immutable, ordered set of ESG records.
type Table struct {
	records []domain.EsgRecord
	index   map[string]int
	tickers []string
}

// Default returns the process-wide reference table.
func Default() *Table {
	return defaultTable
}

// New builds a table from records. Order is preserved; for a repeated ticker
// Get resolves to the first occurrence.
func New(records []domain.EsgRecord) *Table {
	t := &Table{
		records: make([]domain.EsgRecord, len(records)),
		index:   make(map[string]int, len(records)),
		tickers: make([]string, len(records)),
	}
	copy(t.records, records)
	for i, r := range t.records {
		t.tickers[i] = r.Ticker
		if _, exists := t.index[r.Ticker]; !exists {
			t.index[r.Ticker] = i
		}
	}
	return t
}

// LookupAll returns every record in insertion order.
func (t *Table) LookupAll() []domain.EsgRecord {
	out := make([]domain.EsgRecord, len(t.records))
	copy(out, t.records)
	return out
}

// Tickers returns the ticker list in insertion order. The order is stable across
// calls so the fetcher's memo key stays the same.
func (t *Table) Tickers() []string {
	out := make([]string, len(t.tickers))
	copy(out, t.tickers)
	return out
}

// Get returns the record for ticker. Matching is exact and case-sensitive.
func (t *Table) Get(ticker string) (domain.EsgRecord, bool) {
	i, ok := t.index[ticker]
	if !ok {
		return domain.EsgRecord{}, false
	}
	return t.records[i], true
}

// Len returns the number of records.
func (t *Table) Len() int {
	return len(t.records)
}
