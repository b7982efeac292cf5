// Package financego provides a market-data provider backed by piquette/finance-go.
//
// The equity quote endpoint reports name, market cap, trailing P/E and trailing
// dividend yield. ROE, beta and debt/equity are not available from it and are
// always left unset.
package financego

import (
	"fmt"
	"strings"

	"github.com/aristath/esgscreen/internal/domain"
	"github.com/piquette/finance-go/equity"
	"github.com/rs/zerolog"
)

type equityQuote struct {
	Symbol        string
	LongName      string
	ShortName     string
	MarketCap     int64
	TrailingPE    float64
	DividendYield float64
}

type quoteFunc func(symbol string) (*equityQuote, error)

// Client implements the fundamentals provider contract using finance-go.
type Client struct {
	getQuote quoteFunc
	log      zerolog.Logger
}

// NewClient creates a new finance-go client
func NewClient(log zerolog.Logger) *Client {
	return &Client{
		getQuote: fetchEquity,
		log:      log.With().Str("client", "financego").Logger(),
	}
}

func fetchEquity(symbol string) (*equityQuote, error) {
	q, err := equity.Get(symbol)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, nil
	}
	return &equityQuote{
		Symbol:        q.Symbol,
		LongName:      q.LongName,
		ShortName:     q.ShortName,
		MarketCap:     int64(q.MarketCap),
		TrailingPE:    q.TrailingPE,
		DividendYield: q.TrailingAnnualDividendYield,
	}, nil
}

// GetFinancials fetches the equity quote for ticker.
func (c *Client) GetFinancials(ticker string) (*domain.FinancialRecord, error) {
	symbol := strings.TrimSpace(ticker)
	if symbol == "" {
		return nil, fmt.Errorf("empty ticker")
	}

	q, err := c.getQuote(symbol)
	if err != nil {
		return nil, fmt.Errorf("finance-go %s: %w", ticker, err)
	}
	if q == nil {
		return nil, fmt.Errorf("finance-go %s: no quote returned", ticker)
	}
	if q.Symbol != "" && !strings.EqualFold(q.Symbol, symbol) {
		return nil, fmt.Errorf("finance-go %s: quote is for %s", ticker, q.Symbol)
	}

	rec := &domain.FinancialRecord{Ticker: ticker}
	if name := strings.TrimSpace(q.LongName); name != "" {
		rec.CompanyName = &name
	} else if short := strings.TrimSpace(q.ShortName); short != "" {
		rec.CompanyName = &short
	}
	if q.MarketCap > 0 {
		mc := q.MarketCap
		rec.MarketCap = &mc
	}
	if q.TrailingPE != 0 {
		pe := q.TrailingPE
		rec.PERatio = &pe
	}
	if q.DividendYield > 0 {
		dy := q.DividendYield
		rec.DividendYield = &dy
	}

	c.log.Debug().Str("ticker", ticker).Bool("has_pe", rec.PERatio != nil).Msg("Fetched equity quote")

	return rec, nil
}

// Name identifies the provider.
func (c *Client) Name() string {
	return "financego"
}
