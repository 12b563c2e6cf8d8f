package model

import "time"

// CompanyIdentifier is the resolved handle for a single company. It is
// immutable once resolution succeeds; every downstream stage keys off Ticker.
type CompanyIdentifier struct {
	Ticker string `json:"ticker"`
	Name   string `json:"name,omitempty"`
	CIK    string `json:"cik,omitempty"`
}

// SourceResult wraps the outcome of one provider fetch. Exactly one of Data
// and Error is meaningful: Success == true ⇔ Data != nil ⇔ Error == "".
type SourceResult[T any] struct {
	Source    string    `json:"source"`
	Success   bool      `json:"success"`
	Data      *T        `json:"data,omitempty"`
	Error     string    `json:"error,omitempty"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Ok builds a successful SourceResult.
func Ok[T any](source string, data T) SourceResult[T] {
	return SourceResult[T]{
		Source:    source,
		Success:   true,
		Data:      &data,
		FetchedAt: time.Now().UTC(),
	}
}

// Fail builds a failed SourceResult carrying the error message.
func Fail[T any](source string, err error) SourceResult[T] {
	return SourceResult[T]{
		Source:    source,
		Error:     err.Error(),
		FetchedAt: time.Now().UTC(),
	}
}
