// Package yahoo provides a market-data provider backed by Yahoo Finance via go-yfinance.
package yahoo

import (
	"fmt"
	"strings"

	"github.com/aristath/esgscreen/internal/domain"
	"github.com/rs/zerolog"
	"github.com/wnjoon/go-yfinance/pkg/ticker"
)

// quoteInfo holds the subset of the Yahoo quote summary this client maps.
// Zero values mean Yahoo did not report the field.
type quoteInfo struct {
	LongName       string
	ShortName      string
	MarketCap      int64
	TrailingPE     float64
	ReturnOnEquity float64
	DividendYield  float64
	Beta           float64
	DebtToEquity   float64
}

type infoFunc func(symbol string) (quoteInfo, error)

// Client implements the fundamentals provider contract using go-yfinance.
type Client struct {
	fetchInfo infoFunc
	log       zerolog.Logger
}

// NewClient creates a new Yahoo Finance client
func NewClient(log zerolog.Logger) *Client {
	return &Client{
		fetchInfo: fetchQuoteInfo,
		log:       log.With().Str("client", "yahoo").Logger(),
	}
}

func fetchQuoteInfo(symbol string) (quoteInfo, error) {
	t, err := ticker.New(symbol)
	if err != nil {
		return quoteInfo{}, fmt.Errorf("failed to create ticker: %w", err)
	}
	defer t.Close()

	info, err := t.Info()
	if err != nil {
		return quoteInfo{}, fmt.Errorf("failed to get info: %w", err)
	}

	return quoteInfo{
		LongName:       info.LongName,
		ShortName:      info.ShortName,
		MarketCap:      int64(info.MarketCap),
		TrailingPE:     info.TrailingPE,
		ReturnOnEquity: info.ReturnOnEquity,
		DividendYield:  info.DividendYield,
		Beta:           info.Beta,
		DebtToEquity:   info.DebtToEquity,
	}, nil
}

// GetFinancials fetches the quote summary for ticker and maps it to a FinancialRecord.
func (c *Client) GetFinancials(ticker string) (*domain.FinancialRecord, error) {
	symbol := strings.TrimSpace(ticker)
	if symbol == "" {
		return nil, fmt.Errorf("empty ticker")
	}

	info, err := c.fetchInfo(symbol)
	if err != nil {
		return nil, fmt.Errorf("yahoo %s: %w", ticker, err)
	}

	rec := mapInfo(ticker, info)
	c.log.Debug().
		Str("ticker", ticker).
		Bool("has_pe", rec.PERatio != nil).
		Msg("Fetched quote summary")

	return rec, nil
}

// Name identifies the provider.
func (c *Client) Name() string {
	return "yahoo"
}

// mapInfo copies every reported field. Values are copied to locals before
// taking addresses so records never share storage.
func mapInfo(ticker string, info quoteInfo) *domain.FinancialRecord {
	rec := &domain.FinancialRecord{Ticker: ticker}

	if name := strings.TrimSpace(info.LongName); name != "" {
		rec.CompanyName = &name
	} else if short := strings.TrimSpace(info.ShortName); short != "" {
		rec.CompanyName = &short
	}
	if info.MarketCap > 0 {
		marketCap := info.MarketCap
		rec.MarketCap = &marketCap
	}
	// Loss-making companies report a negative P/E; keep it.
	if info.TrailingPE != 0 {
		pe := info.TrailingPE
		rec.PERatio = &pe
	}
	// ROE can legitimately be negative; only an exact zero means "not reported".
	if info.ReturnOnEquity != 0 {
		roe := info.ReturnOnEquity
		rec.ROE = &roe
	}
	if info.DividendYield > 0 {
		dy := info.DividendYield
		rec.DividendYield = &dy
	}
	if info.Beta != 0 {
		beta := info.Beta
		rec.Beta = &beta
	}
	if info.DebtToEquity > 0 {
		de := info.DebtToEquity
		rec.DebtToEquity = &de
	}

	return rec
}
