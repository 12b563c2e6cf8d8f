package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sells-group/vendor-risk/internal/model"
	"github.com/sells-group/vendor-risk/internal/partition"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type analyzeRequest struct {
	VendorName string `json:"vendor_name"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusUnprocessableEntity, CodeAnalysisFailed, "invalid request body")
		return
	}
	req.VendorName = strings.TrimSpace(req.VendorName)
	if req.VendorName == "" {
		respondError(w, http.StatusUnprocessableEntity, CodeAnalysisFailed, "vendor_name is required")
		return
	}

	receipt := s.store.Trigger(req.VendorName)
	respondJSON(w, http.StatusAccepted, receipt)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "vendorID")
	entry, ok := s.store.Get(id)
	if !ok {
		respondError(w, http.StatusNotFound, CodeVendorNotFound, "no analysis found for vendor id "+id)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"vendor_id": entry.VendorID,
		"status":    entry.Status,
	})
}

// resultFor implements the shared tab-read state handling: 404 when the
// id is unknown, 202 while processing, 422 when the run failed.
func (s *Server) resultFor(w http.ResponseWriter, id string) *model.VendorAnalysisResult {
	entry, ok := s.store.Get(id)
	if !ok {
		respondError(w, http.StatusNotFound, CodeVendorNotFound, "no analysis found for vendor id "+id)
		return nil
	}
	switch entry.Status {
	case model.StatusProcessing:
		respondError(w, http.StatusAccepted, CodeStillProcessing, "analysis is still processing")
		return nil
	case model.StatusFailed:
		message := entry.Error
		if message == "" {
			message = "analysis failed"
		}
		respondError(w, http.StatusUnprocessableEntity, CodeAnalysisFailed, message)
		return nil
	}
	if entry.Result == nil {
		respondError(w, http.StatusUnprocessableEntity, CodeAnalysisFailed, "analysis completed without a result")
		return nil
	}
	return entry.Result
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	result := s.resultFor(w, chi.URLParam(r, "vendorID"))
	if result == nil {
		return
	}
	respondJSON(w, http.StatusOK, result.Overview)
}

func (s *Server) handleDependencies(w http.ResponseWriter, r *http.Request) {
	result := s.resultFor(w, chi.URLParam(r, "vendorID"))
	if result == nil {
		return
	}
	respondJSON(w, http.StatusOK, result.Tree)
}

func (s *Server) handleRiskBreakdown(w http.ResponseWriter, r *http.Request) {
	result := s.resultFor(w, chi.URLParam(r, "vendorID"))
	if result == nil {
		return
	}
	respondJSON(w, http.StatusOK, result.Breakdown)
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var ids []string
	for _, raw := range strings.Split(r.URL.Query().Get("ids"), ",") {
		if id := strings.TrimSpace(raw); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) < 2 {
		respondError(w, http.StatusBadRequest, CodeInvalidIDs, "at least 2 vendor ids are required")
		return
	}

	results := s.store.GetMultipleResults(ids)
	var missing []string
	for i, result := range results {
		if result == nil {
			missing = append(missing, ids[i])
		}
	}
	if len(missing) > 0 {
		respondError(w, http.StatusBadRequest, CodeInvalidIDs,
			"vendors not found or not yet complete: "+strings.Join(missing, ", "))
		return
	}

	// Response order mirrors the requested ids.
	vendors := make([]model.ComparisonVendor, 0, len(ids))
	for i, result := range results {
		vendors = append(vendors, model.ComparisonVendor{
			VendorID:               ids[i],
			VendorName:             result.Company.Name,
			OverallRiskScore:       result.Score.OverallRiskScore,
			OverallRiskLevel:       result.Score.OverallRiskLevel,
			OverallResilienceScore: result.Score.OverallResilienceScore,
			ResilienceRating:       result.Score.ResilienceRating,
		})
	}

	respondJSON(w, http.StatusOK, s.comparer.Comparison(r.Context(), vendors))
}

type batchRequest struct {
	Companies      []string `json:"companies"`
	SkipEvaluation bool     `json:"skip_evaluation"`
}

type batchCompanyResult struct {
	Company    model.CompanyIdentifier     `json:"company"`
	Aggregated model.AggregatedCompanyData `json:"aggregated"`
	Evaluated  *model.EvaluatedData        `json:"evaluated,omitempty"`
	Variables  *model.PartitionedVariables `json:"variables,omitempty"`
	Error      string                      `json:"error,omitempty"`
}

type batchResponse struct {
	Results []batchCompanyResult `json:"results"`
}

// handleBatch runs the pipeline front half synchronously for up to the
// configured number of companies. With skip_evaluation the response
// carries raw aggregated data only; otherwise evaluation and partitioned
// variables are included.
func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusUnprocessableEntity, CodeAnalysisFailed, "invalid request body")
		return
	}
	if len(req.Companies) == 0 {
		respondError(w, http.StatusUnprocessableEntity, CodeAnalysisFailed, "companies is required")
		return
	}
	if len(req.Companies) > s.batch.MaxCompanies {
		respondError(w, http.StatusUnprocessableEntity, CodeAnalysisFailed,
			fmt.Sprintf("at most %d companies per batch", s.batch.MaxCompanies))
		return
	}

	ctx := r.Context()

	out := batchResponse{Results: make([]batchCompanyResult, len(req.Companies))}
	var companies []model.CompanyIdentifier
	var resolvedIdx []int
	for i, name := range req.Companies {
		company, err := s.resolver.Resolve(ctx, name)
		if err != nil {
			zap.L().Warn("batch resolution failed",
				zap.String("vendor_name", name),
				zap.Error(err),
			)
			out.Results[i] = batchCompanyResult{
				Company: model.CompanyIdentifier{Name: name},
				Error:   err.Error(),
			}
			continue
		}
		companies = append(companies, company)
		resolvedIdx = append(resolvedIdx, i)
	}

	aggregated := s.aggregator.AggregateAll(ctx, companies, s.batch.MaxConcurrentCompanies)

	var evaluations []*model.EvaluatedData
	if !req.SkipEvaluation && s.evaluator != nil {
		evaluations = s.evaluator.EvaluateAll(ctx, aggregated)
	}

	for j, agg := range aggregated {
		result := batchCompanyResult{
			Company:    agg.Company,
			Aggregated: agg,
		}
		if evaluations != nil {
			result.Evaluated = evaluations[j]
			vars := partition.Partition(agg, evaluations[j])
			result.Variables = &vars
		}
		out.Results[resolvedIdx[j]] = result
	}

	respondJSON(w, http.StatusOK, out)
}
