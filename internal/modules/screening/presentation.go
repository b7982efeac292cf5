package screening

import (
	"strconv"

	"github.com/aristath/esgscreen/internal/domain"
	"github.com/shopspring/decimal"
)

// NotAvailable is shown for unset values.
const NotAvailable = "N/A"

// ShortlistRow is a shortlist entry formatted for display.
type ShortlistRow struct {
	Ticker        string `json:"ticker" msgpack:"ticker"`
	Company       string `json:"company" msgpack:"company"`
	ESGScore      string `json:"esg_score" msgpack:"esg_score"`
	PERatio       string `json:"pe_ratio" msgpack:"pe_ratio"`
	ROE           string `json:"roe" msgpack:"roe"`
	DividendYield string `json:"dividend_yield" msgpack:"dividend_yield"`
	Beta          string `json:"beta" msgpack:"beta"`
}

// FormatShortlist renders entries with fixed decimal places. Unset values become NotAvailable.
func FormatShortlist(entries []domain.ShortlistEntry) []ShortlistRow {
	rows := make([]ShortlistRow, len(entries))
	for i, e := range entries {
		company := NotAvailable
		if e.CompanyName != nil {
			company = *e.CompanyName
		}
		rows[i] = ShortlistRow{
			Ticker:        e.Ticker,
			Company:       company,
			ESGScore:      strconv.Itoa(e.ESGScore),
			PERatio:       formatDecimal(e.PERatio, 2),
			ROE:           formatDecimal(e.ROE, 4),
			DividendYield: formatDecimal(e.DividendYield, 4),
			Beta:          formatDecimal(e.Beta, 2),
		}
	}
	return rows
}

func formatDecimal(v *float64, places int32) string {
	if v == nil {
		return NotAvailable
	}
	return decimal.NewFromFloat(*v).StringFixed(places)
}
