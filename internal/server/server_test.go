package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/vendor-risk/internal/model"
	"github.com/sells-group/vendor-risk/internal/vendor"
)

type fakeStore struct {
	entries   map[string]model.VendorEntry
	triggered []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{entries: make(map[string]model.VendorEntry)}
}

func (f *fakeStore) Trigger(vendorName string) vendor.TriggerReceipt {
	f.triggered = append(f.triggered, vendorName)
	return vendor.TriggerReceipt{
		VendorID:                   "v-new",
		VendorName:                 vendorName,
		Status:                     model.StatusProcessing,
		EstimatedCompletionSeconds: 45,
	}
}

func (f *fakeStore) Get(id string) (model.VendorEntry, bool) {
	entry, ok := f.entries[id]
	return entry, ok
}

func (f *fakeStore) GetMultipleResults(ids []string) []*model.VendorAnalysisResult {
	out := make([]*model.VendorAnalysisResult, len(ids))
	for i, id := range ids {
		if entry, ok := f.entries[id]; ok && entry.Status == model.StatusComplete {
			out[i] = entry.Result
		}
	}
	return out
}

type fakeComparer struct {
	received []model.ComparisonVendor
}

func (f *fakeComparer) Comparison(ctx context.Context, vendors []model.ComparisonVendor) model.ComparisonResponse {
	f.received = vendors
	return model.ComparisonResponse{
		Vendors: vendors,
		Winner:  model.ComparisonWinner{VendorID: vendors[0].VendorID, VendorName: vendors[0].VendorName},
	}
}

type fakeResolver struct {
	fail map[string]bool
}

func (f *fakeResolver) Resolve(ctx context.Context, name string) (model.CompanyIdentifier, error) {
	if f.fail[name] {
		return model.CompanyIdentifier{}, eris.New("could not identify " + name)
	}
	ticker := strings.ToUpper(strings.Fields(name)[0])
	return model.CompanyIdentifier{Ticker: ticker, Name: name}, nil
}

type fakeAggregator struct{}

func (fakeAggregator) AggregateAll(ctx context.Context, companies []model.CompanyIdentifier, maxConcurrent int) []model.AggregatedCompanyData {
	out := make([]model.AggregatedCompanyData, len(companies))
	for i, company := range companies {
		out[i] = model.AggregatedCompanyData{
			Company: company,
			Profile: model.Ok("profile", model.CompanyProfile{Ticker: company.Ticker, Name: company.Name, Sector: "Technology"}),
		}
	}
	return out
}

type fakeEvaluator struct{}

func (fakeEvaluator) EvaluateAll(ctx context.Context, aggregated []model.AggregatedCompanyData) []*model.EvaluatedData {
	out := make([]*model.EvaluatedData, len(aggregated))
	for i, agg := range aggregated {
		out[i] = &model.EvaluatedData{
			Company:           agg.Company,
			EvaluationSummary: "ok",
			RiskSignals: []model.Signal{
				{Category: model.SignalFinancial, Severity: model.SeverityLow, Signal: "stable"},
			},
		}
	}
	return out
}

func completeEntry(id, name string, risk int) model.VendorEntry {
	result := &model.VendorAnalysisResult{
		Company: model.CompanyIdentifier{Ticker: strings.ToUpper(name[:4]), Name: name},
		Score: model.RiskScoreResult{
			OverallRiskScore:       risk,
			OverallRiskLevel:       model.RiskLevelFor(risk),
			OverallResilienceScore: 100 - risk,
			ResilienceRating:       model.ResilienceRatingFor(100 - risk),
		},
		Overview:  model.VendorOverview{VendorID: id, VendorName: name, OverallRiskScore: risk},
		Breakdown: model.RiskBreakdown{VendorID: id},
		Tree:      model.DependencyResponse{VendorID: id, Root: model.DependencyNode{ID: "n1", Name: name, Tier: 1}},
	}
	return model.VendorEntry{
		VendorID:   id,
		VendorName: name,
		Status:     model.StatusComplete,
		Result:     result,
	}
}

func newTestServer(store *fakeStore) (*Server, *fakeComparer) {
	comparer := &fakeComparer{}
	srv := New(store, comparer, &fakeResolver{}, fakeAggregator{}, fakeEvaluator{}, BatchLimits{
		MaxCompanies:           10,
		MaxConcurrentCompanies: 5,
	})
	return srv, comparer
}

func doRequest(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var envelope errorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope.Error
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(newFakeStore())
	rec := doRequest(t, srv.Router(), http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAnalyze(t *testing.T) {
	store := newFakeStore()
	srv, _ := newTestServer(store)
	router := srv.Router()

	t.Run("accepted", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/vendors/analyze", map[string]string{"vendor_name": "Acme Corp"})

		require.Equal(t, http.StatusAccepted, rec.Code)
		var receipt vendor.TriggerReceipt
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &receipt))
		assert.Equal(t, "v-new", receipt.VendorID)
		assert.Equal(t, model.StatusProcessing, receipt.Status)
		assert.Equal(t, 45, receipt.EstimatedCompletionSeconds)
		assert.Equal(t, []string{"Acme Corp"}, store.triggered)
	})

	t.Run("empty name rejected", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/vendors/analyze", map[string]string{"vendor_name": "  "})

		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, CodeAnalysisFailed, decodeError(t, rec).Code)
	})

	t.Run("malformed body rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/vendors/analyze", strings.NewReader("{not json"))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		body := decodeError(t, rec)
		assert.Equal(t, CodeAnalysisFailed, body.Code)
		assert.Equal(t, http.StatusUnprocessableEntity, body.Status)
	})
}

func TestStatus(t *testing.T) {
	store := newFakeStore()
	store.entries["v-1"] = model.VendorEntry{VendorID: "v-1", Status: model.StatusProcessing}
	srv, _ := newTestServer(store)
	router := srv.Router()

	t.Run("found", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/vendors/v-1/status", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "processing", body["status"])
	})

	t.Run("unknown id", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/vendors/nope/status", nil)

		require.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, CodeVendorNotFound, decodeError(t, rec).Code)
	})
}

func TestTabReads(t *testing.T) {
	store := newFakeStore()
	store.entries["processing"] = model.VendorEntry{VendorID: "processing", Status: model.StatusProcessing}
	store.entries["failed"] = model.VendorEntry{VendorID: "failed", Status: model.StatusFailed, Error: "could not identify vendor"}
	store.entries["done"] = completeEntry("done", "Acme Corp", 43)
	srv, _ := newTestServer(store)
	router := srv.Router()

	tabs := []string{"overview", "dependencies", "risk-breakdown"}
	for _, tab := range tabs {
		t.Run(tab+" still processing", func(t *testing.T) {
			rec := doRequest(t, router, http.MethodGet, "/vendors/processing/"+tab, nil)

			require.Equal(t, http.StatusAccepted, rec.Code)
			assert.Equal(t, CodeStillProcessing, decodeError(t, rec).Code)
		})

		t.Run(tab+" failed run", func(t *testing.T) {
			rec := doRequest(t, router, http.MethodGet, "/vendors/failed/"+tab, nil)

			require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			body := decodeError(t, rec)
			assert.Equal(t, CodeAnalysisFailed, body.Code)
			assert.Contains(t, body.Message, "could not identify vendor")
		})

		t.Run(tab+" unknown id", func(t *testing.T) {
			rec := doRequest(t, router, http.MethodGet, "/vendors/nope/"+tab, nil)
			require.Equal(t, http.StatusNotFound, rec.Code)
		})
	}

	t.Run("overview complete", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/vendors/done/overview", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		var overview model.VendorOverview
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &overview))
		assert.Equal(t, "Acme Corp", overview.VendorName)
		assert.Equal(t, 43, overview.OverallRiskScore)
	})

	t.Run("dependencies complete", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/vendors/done/dependencies", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		var tree model.DependencyResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tree))
		assert.Equal(t, 1, tree.Root.Tier)
	})

	t.Run("risk-breakdown complete", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/vendors/done/risk-breakdown", nil)
		require.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestCompare(t *testing.T) {
	store := newFakeStore()
	store.entries["v-1"] = completeEntry("v-1", "Acme Corp", 43)
	store.entries["v-2"] = completeEntry("v-2", "Beta Inc", 61)
	store.entries["pending"] = model.VendorEntry{VendorID: "pending", Status: model.StatusProcessing}
	srv, comparer := newTestServer(store)
	router := srv.Router()

	t.Run("fewer than two ids", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/vendors/compare?ids=v-1", nil)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, CodeInvalidIDs, decodeError(t, rec).Code)
	})

	t.Run("missing ids are named", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/vendors/compare?ids=v-1,pending,nope", nil)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		body := decodeError(t, rec)
		assert.Equal(t, CodeInvalidIDs, body.Code)
		assert.Contains(t, body.Message, "pending")
		assert.Contains(t, body.Message, "nope")
		assert.NotContains(t, body.Message, "v-1,")
	})

	t.Run("order mirrors ids", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/vendors/compare?ids=v-2,v-1", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Len(t, comparer.received, 2)
		assert.Equal(t, "v-2", comparer.received[0].VendorID)
		assert.Equal(t, "v-1", comparer.received[1].VendorID)
		assert.Equal(t, "Beta Inc", comparer.received[0].VendorName)
		assert.Equal(t, 61, comparer.received[0].OverallRiskScore)
	})
}

func TestBatch(t *testing.T) {
	srv, _ := newTestServer(newFakeStore())
	router := srv.Router()

	t.Run("over the company limit", func(t *testing.T) {
		companies := make([]string, 11)
		for i := range companies {
			companies[i] = "Vendor"
		}
		rec := doRequest(t, router, http.MethodPost, "/companies/batch", map[string]any{"companies": companies})

		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Equal(t, CodeAnalysisFailed, decodeError(t, rec).Code)
	})

	t.Run("empty companies rejected", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/companies/batch", map[string]any{"companies": []string{}})
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("skip evaluation returns aggregated only", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/companies/batch", map[string]any{
			"companies":       []string{"Acme Corp", "Beta Inc"},
			"skip_evaluation": true,
		})

		require.Equal(t, http.StatusOK, rec.Code)
		var body batchResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body.Results, 2)
		assert.Equal(t, "ACME", body.Results[0].Company.Ticker)
		assert.Nil(t, body.Results[0].Evaluated)
		assert.Nil(t, body.Results[0].Variables)
	})

	t.Run("with evaluation returns variables", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/companies/batch", map[string]any{
			"companies": []string{"Acme Corp"},
		})

		require.Equal(t, http.StatusOK, rec.Code)
		var body batchResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body.Results, 1)
		require.NotNil(t, body.Results[0].Evaluated)
		require.NotNil(t, body.Results[0].Variables)
		assert.Equal(t, model.SectorTechnology, body.Results[0].Variables.Industry)
	})

	t.Run("resolution failures are per-company", func(t *testing.T) {
		resolver := &fakeResolver{fail: map[string]bool{"Ghost LLC": true}}
		srv := New(newFakeStore(), &fakeComparer{}, resolver, fakeAggregator{}, fakeEvaluator{}, BatchLimits{MaxCompanies: 10, MaxConcurrentCompanies: 5})

		rec := doRequest(t, srv.Router(), http.MethodPost, "/companies/batch", map[string]any{
			"companies":       []string{"Ghost LLC", "Acme Corp"},
			"skip_evaluation": true,
		})

		require.Equal(t, http.StatusOK, rec.Code)
		var body batchResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body.Results, 2)
		assert.Contains(t, body.Results[0].Error, "Ghost LLC")
		assert.Equal(t, "ACME", body.Results[1].Company.Ticker)
		assert.Empty(t, body.Results[1].Error)
	})
}
