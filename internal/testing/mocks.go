package testing

import (
	"fmt"
	"sync"

	"github.com/aristath/esgscreen/internal/domain"
)

// MockFinancialProvider is an in-memory market-data provider that counts calls.
type MockFinancialProvider struct {
	mu      sync.Mutex
	records map[string]*domain.FinancialRecord
	errors  map[string]error
	calls   map[string]int
	order   []string
}

// NewMockFinancialProvider creates a provider answering from records.
// Tickers absent from records produce an error.
func NewMockFinancialProvider(records map[string]*domain.FinancialRecord) *MockFinancialProvider {
	if records == nil {
		records = make(map[string]*domain.FinancialRecord)
	}
	return &MockFinancialProvider{
		records: records,
		errors:  make(map[string]error),
		calls:   make(map[string]int),
	}
}

// SetRecord replaces the record returned for ticker. A nil record makes the provider return nil, nil.
func (m *MockFinancialProvider) SetRecord(ticker string, rec *domain.FinancialRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[ticker] = rec
}

// SetError makes every call for ticker fail with err.
func (m *MockFinancialProvider) SetError(ticker string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[ticker] = err
}

// GetFinancials returns a copy of the configured record.
func (m *MockFinancialProvider) GetFinancials(ticker string) (*domain.FinancialRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls[ticker]++
	m.order = append(m.order, ticker)

	if err, ok := m.errors[ticker]; ok {
		return nil, err
	}
	rec, ok := m.records[ticker]
	if !ok {
		return nil, fmt.Errorf("no data for %s", ticker)
	}
	if rec == nil {
		return nil, nil
	}
	out := rec.Clone()
	return &out, nil
}

// Name identifies the mock in logs.
func (m *MockFinancialProvider) Name() string {
	return "mock"
}

// Calls returns how many times ticker was requested.
func (m *MockFinancialProvider) Calls(ticker string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[ticker]
}

// TotalCalls returns the number of requests across all tickers.
func (m *MockFinancialProvider) TotalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.order)
}

// CallOrder returns the tickers in the order they were requested.
func (m *MockFinancialProvider) CallOrder() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}
