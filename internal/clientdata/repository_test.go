package clientdata

import (
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `
CREATE TABLE yahoo_fundamentals (ticker TEXT PRIMARY KEY, data TEXT NOT NULL, expires_at INTEGER NOT NULL);
CREATE TABLE financego_fundamentals (ticker TEXT PRIMARY KEY, data TEXT NOT NULL, expires_at INTEGER NOT NULL);
CREATE INDEX idx_yahoo_fundamentals_expires ON yahoo_fundamentals(expires_at);
CREATE INDEX idx_financego_fundamentals_expires ON financego_fundamentals(expires_at);
`

func setupTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)

	_, err = db.Exec(testSchema)
	require.NoError(t, err)

	return db
}

func insertRow(t *testing.T, db *sql.DB, table, ticker string, expiresAt int64) {
	_, err := db.Exec("INSERT INTO "+table+" (ticker, data, expires_at) VALUES (?, ?, ?)", ticker, `{}`, expiresAt)
	require.NoError(t, err)
}

func TestStore(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db)

	data := map[string]interface{}{
		"ticker":   "AAPL",
		"pe_ratio": 28.5,
	}

	err := repo.Store(TableYahooFundamentals, "AAPL", data, 24*time.Hour)
	require.NoError(t, err)

	var storedData string
	var expiresAt int64
	err = db.QueryRow("SELECT data, expires_at FROM yahoo_fundamentals WHERE ticker = ?", "AAPL").Scan(&storedData, &expiresAt)
	require.NoError(t, err)

	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(storedData), &parsed))
	assert.Equal(t, "AAPL", parsed["ticker"])
	assert.Equal(t, 28.5, parsed["pe_ratio"])

	expected := time.Now().Add(24 * time.Hour).Unix()
	assert.InDelta(t, expected, expiresAt, 5)
}

func TestStoreUpsert(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db)

	require.NoError(t, repo.Store(TableYahooFundamentals, "MSFT", map[string]int{"v": 1}, time.Hour))
	require.NoError(t, repo.Store(TableYahooFundamentals, "MSFT", map[string]int{"v": 2}, time.Hour))

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM yahoo_fundamentals").Scan(&count))
	assert.Equal(t, 1, count)

	raw, err := repo.GetIfFresh(TableYahooFundamentals, "MSFT")
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":2}`, string(raw))
}

func TestGetIfFresh(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db)
	now := time.Now()
	insertRow(t, db, TableYahooFundamentals, "FRESH", now.Add(time.Hour).Unix())
	insertRow(t, db, TableYahooFundamentals, "STALE", now.Add(-time.Hour).Unix())

	tests := []struct {
		name   string
		ticker string
		found  bool
	}{
		{name: "fresh entry", ticker: "FRESH", found: true},
		{name: "expired entry", ticker: "STALE", found: false},
		{name: "missing entry", ticker: "NONE", found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := repo.GetIfFresh(TableYahooFundamentals, tt.ticker)
			require.NoError(t, err)
			if tt.found {
				assert.NotNil(t, raw)
			} else {
				assert.Nil(t, raw)
			}
		})
	}
}

func TestGet_ReturnsStaleData(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db)
	insertRow(t, db, TableFinanceGoFundamentals, "XOM", time.Now().Add(-48*time.Hour).Unix())

	raw, err := repo.Get(TableFinanceGoFundamentals, "XOM")
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(raw))

	raw, err = repo.Get(TableFinanceGoFundamentals, "NONE")
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestDelete(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db)
	insertRow(t, db, TableYahooFundamentals, "AAPL", time.Now().Add(time.Hour).Unix())

	require.NoError(t, repo.Delete(TableYahooFundamentals, "AAPL"))
	require.NoError(t, repo.Delete(TableYahooFundamentals, "NONE"))

	raw, err := repo.Get(TableYahooFundamentals, "AAPL")
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestDeleteAll(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db)
	future := time.Now().Add(time.Hour).Unix()
	insertRow(t, db, TableYahooFundamentals, "AAPL", future)
	insertRow(t, db, TableYahooFundamentals, "MSFT", future)
	insertRow(t, db, TableFinanceGoFundamentals, "AAPL", future)

	deleted, err := repo.DeleteAll(TableYahooFundamentals)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	stats, err := repo.Stats(TableFinanceGoFundamentals)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Total, "other tables are untouched")
}

func TestDeleteExpired(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db)
	now := time.Now()
	insertRow(t, db, TableYahooFundamentals, "OLD1", now.Add(-time.Hour).Unix())
	insertRow(t, db, TableYahooFundamentals, "OLD2", now.Add(-2*time.Hour).Unix())
	insertRow(t, db, TableYahooFundamentals, "NEW", now.Add(time.Hour).Unix())

	deleted, err := repo.DeleteExpired(TableYahooFundamentals)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	raw, err := repo.GetIfFresh(TableYahooFundamentals, "NEW")
	require.NoError(t, err)
	assert.NotNil(t, raw)
}

func TestStats(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db)

	stats, err := repo.Stats(TableYahooFundamentals)
	require.NoError(t, err)
	assert.Equal(t, TableStats{}, stats)

	now := time.Now()
	insertRow(t, db, TableYahooFundamentals, "A", now.Add(time.Hour).Unix())
	insertRow(t, db, TableYahooFundamentals, "B", now.Add(-time.Hour).Unix())

	stats, err = repo.Stats(TableYahooFundamentals)
	require.NoError(t, err)
	assert.Equal(t, TableStats{Total: 2, Fresh: 1}, stats)
}

func TestInvalidTableName(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewRepository(db)
	table := "fundamentals; DROP TABLE yahoo_fundamentals"

	err := repo.Store(table, "A", map[string]int{}, time.Hour)
	assert.ErrorIs(t, err, ErrInvalidTable)

	_, err = repo.GetIfFresh(table, "A")
	assert.ErrorIs(t, err, ErrInvalidTable)

	_, err = repo.Get(table, "A")
	assert.ErrorIs(t, err, ErrInvalidTable)

	assert.ErrorIs(t, repo.Delete(table, "A"), ErrInvalidTable)

	_, err = repo.DeleteAll(table)
	assert.ErrorIs(t, err, ErrInvalidTable)

	_, err = repo.DeleteExpired(table)
	assert.ErrorIs(t, err, ErrInvalidTable)

	_, err = repo.Stats(table)
	assert.ErrorIs(t, err, ErrInvalidTable)
}
