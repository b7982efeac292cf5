package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/aristath/esgscreen/internal/clientdata"
	"github.com/aristath/esgscreen/internal/domain"
	"github.com/aristath/esgscreen/internal/modules/esg"
	"github.com/aristath/esgscreen/internal/modules/fundamentals"
	"github.com/aristath/esgscreen/internal/modules/screening"
	testingpkg "github.com/aristath/esgscreen/internal/testing"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

var defaultCriteria = domain.FilterCriteria{MinESGScore: 60, MaxPERatio: 40}

type stubPurger struct {
	mu     sync.Mutex
	purged int64
	err    error
	calls  int
}

func (p *stubPurger) Purge() (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	return p.purged, p.err
}

func (p *stubPurger) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func setupRouter(t *testing.T, purger Purger) (chi.Router, *testingpkg.MockFinancialProvider) {
	t.Helper()

	provider := testingpkg.NewMockFinancialProvider(testingpkg.NewFinancialFixtures())
	fetcher := fundamentals.NewFetcher(provider, fundamentals.NewCache(0), zerolog.Nop())
	pipeline := screening.NewPipeline(esg.Default(), fetcher, screening.DefaultShortlistSize, zerolog.Nop())
	h := NewHandlers(pipeline, purger, defaultCriteria, zerolog.Nop())

	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r, provider
}

func filteredTickers(v screening.View) []string {
	out := make([]string, len(v.Filtered))
	for i, r := range v.Filtered {
		out[i] = r.Ticker
	}
	return out
}

func TestHandleGetView_Defaults(t *testing.T) {
	router, _ := setupRouter(t, nil)

	req := httptest.NewRequest("GET", "/screening/view", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var view screening.View
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, defaultCriteria, view.Criteria)
	assert.Equal(t, 10, view.UniverseSize)
	assert.Equal(t, []string{"AAPL", "MSFT", "GOOGL", "META", "JPM", "JNJ"}, filteredTickers(view))
	assert.Len(t, view.Shortlist, 5)
	assert.Len(t, view.Scatter.Points, 6)
}

func TestHandleGetView_QueryParams(t *testing.T) {
	router, provider := setupRouter(t, nil)

	req := httptest.NewRequest("GET", "/screening/view?min_esg_score=80&max_pe_ratio=30", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var view screening.View
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, domain.FilterCriteria{MinESGScore: 80, MaxPERatio: 30}, view.Criteria)
	assert.Equal(t, []string{"GOOGL", "JNJ"}, filteredTickers(view))
	assert.Equal(t, 10, provider.TotalCalls())
}

func TestHandleGetView_InvalidParams(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		message string
	}{
		{name: "non integer esg", query: "min_esg_score=60.5", message: "min_esg_score must be an integer"},
		{name: "text esg", query: "min_esg_score=high", message: "min_esg_score must be an integer"},
		{name: "esg above range", query: "min_esg_score=101", message: "min_esg_score must be between 0 and 100"},
		{name: "esg below range", query: "min_esg_score=-1", message: "min_esg_score must be between 0 and 100"},
		{name: "pe above range", query: "max_pe_ratio=100.5", message: "max_pe_ratio must be between 0 and 100"},
		{name: "pe below range", query: "max_pe_ratio=-0.1", message: "max_pe_ratio must be between 0 and 100"},
		{name: "pe nan", query: "max_pe_ratio=NaN", message: "max_pe_ratio must be a number"},
		{name: "pe text", query: "max_pe_ratio=cheap", message: "max_pe_ratio must be a number"},
	}

	router, provider := setupRouter(t, nil)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/screening/view?"+tt.query, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.message, body["error"])
		})
	}

	assert.Equal(t, 0, provider.TotalCalls(), "invalid criteria never reach the provider")
}

func TestHandleGetView_BoundaryValuesAccepted(t *testing.T) {
	router, _ := setupRouter(t, nil)

	for _, q := range []string{"min_esg_score=0&max_pe_ratio=0", "min_esg_score=100&max_pe_ratio=100"} {
		req := httptest.NewRequest("GET", "/screening/view?"+q, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, q)
	}
}

func TestHandleGetView_Msgpack(t *testing.T) {
	router, _ := setupRouter(t, nil)

	req := httptest.NewRequest("GET", "/screening/view", nil)
	req.Header.Set("Accept", "application/msgpack")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/msgpack", w.Header().Get("Content-Type"))

	var decoded struct {
		Filtered     []domain.MergedRecord   `msgpack:"filtered"`
		Shortlist    []domain.ShortlistEntry `msgpack:"shortlist"`
		UniverseSize int                     `msgpack:"universe_size"`
	}
	require.NoError(t, msgpack.Unmarshal(w.Body.Bytes(), &decoded))
	assert.Equal(t, 10, decoded.UniverseSize)
	assert.Len(t, decoded.Filtered, 6)
	require.Len(t, decoded.Shortlist, 5)
	assert.Equal(t, "MSFT", decoded.Shortlist[0].Ticker)
}

func TestHandleGetESG(t *testing.T) {
	router, provider := setupRouter(t, nil)

	req := httptest.NewRequest("GET", "/screening/esg", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Records []domain.EsgRecord `json:"records"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Records, 10)
	assert.Equal(t, domain.EsgRecord{Ticker: "AAPL", ESGScore: 75, Environmental: 70, Social: 80, Governance: 75}, body.Records[0])
	assert.Equal(t, 0, provider.TotalCalls())
}

func TestHandleGetShortlist(t *testing.T) {
	router, _ := setupRouter(t, nil)

	req := httptest.NewRequest("GET", "/screening/shortlist?min_esg_score=80", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body ShortlistResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, domain.FilterCriteria{MinESGScore: 80, MaxPERatio: 40}, body.Criteria)
	require.Len(t, body.Rows, 3)
	assert.Equal(t, screening.ShortlistRow{
		Ticker:        "MSFT",
		Company:       "Microsoft Corporation",
		ESGScore:      "85",
		PERatio:       "35.20",
		ROE:           "0.3600",
		DividendYield: "0.0072",
		Beta:          "0.90",
	}, body.Rows[0])
	assert.Equal(t, "JNJ", body.Rows[1].Ticker)
	assert.Equal(t, "GOOGL", body.Rows[2].Ticker)
}

func TestHandleInvalidateCache(t *testing.T) {
	router, provider := setupRouter(t, nil)

	get := func() {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/screening/view", nil))
		require.Equal(t, http.StatusOK, w.Code)
	}

	get()
	get()
	assert.Equal(t, 10, provider.TotalCalls())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/screening/cache/invalidate", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, float64(0), body["purged"])

	get()
	assert.Equal(t, 20, provider.TotalCalls())
}

func TestHandleInvalidateCache_PurgesPersistedData(t *testing.T) {
	purger := &stubPurger{purged: 7}
	router, _ := setupRouter(t, purger)

	for i := 1; i <= 2; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("POST", "/screening/cache/invalidate", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, float64(7), body["purged"])
		assert.Equal(t, i, purger.Calls())
	}
}

func TestHandleInvalidateCache_PurgeError(t *testing.T) {
	router, _ := setupRouter(t, &stubPurger{err: errors.New("disk I/O error")})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/screening/cache/invalidate", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to purge persisted cache")
}

func TestHandleInvalidateCache_ServesUpstreamChangesThroughPersistedCache(t *testing.T) {
	db, cleanup := testingpkg.NewTestDB(t, "client_data")
	defer cleanup()

	upstream := testingpkg.NewMockFinancialProvider(testingpkg.NewFinancialFixtures())
	caching := fundamentals.NewCachingProvider(upstream, clientdata.NewRepository(db.Conn()),
		fundamentals.CachingProviderConfig{Table: clientdata.TableYahooFundamentals}, zerolog.Nop())
	fetcher := fundamentals.NewFetcher(caching, fundamentals.NewCache(0), zerolog.Nop())
	pipeline := screening.NewPipeline(esg.Default(), fetcher, screening.DefaultShortlistSize, zerolog.Nop())
	router := chi.NewRouter()
	NewHandlers(pipeline, caching, defaultCriteria, zerolog.Nop()).RegisterRoutes(router)

	view := func() screening.View {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/screening/view", nil))
		require.Equal(t, http.StatusOK, w.Code)
		var v screening.View
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
		return v
	}

	assert.Contains(t, filteredTickers(view()), "AAPL")

	changed := testingpkg.NewFinancialFixtures()["AAPL"].Clone()
	changed.PERatio = domain.Float64Ptr(45)
	upstream.SetRecord("AAPL", &changed)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("POST", "/screening/cache/invalidate", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(10), body["purged"])

	after := view()
	assert.NotContains(t, filteredTickers(after), "AAPL", "a P/E of 45 exceeds the default maximum of 40")
	assert.Equal(t, 2, upstream.Calls("AAPL"))
}

func TestRoutes_MethodNotAllowed(t *testing.T) {
	router, _ := setupRouter(t, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/screening/cache/invalidate", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
