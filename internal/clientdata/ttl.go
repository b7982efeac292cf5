package clientdata

import "time"

// TTLFundamentals is the default lifetime of a persisted provider response.
// P/E and market cap move daily; company names and ROE far less often.
const TTLFundamentals = 24 * time.Hour
