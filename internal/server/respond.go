package server

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// Error codes surfaced in the uniform error envelope.
const (
	CodeAnalysisFailed  = "ANALYSIS_FAILED"
	CodeVendorNotFound  = "VENDOR_NOT_FOUND"
	CodeStillProcessing = "STILL_PROCESSING"
	CodeInvalidIDs      = "INVALID_IDS"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zap.L().Error("write response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorEnvelope{Error: errorBody{
		Code:    code,
		Message: message,
		Status:  status,
	}})
}
