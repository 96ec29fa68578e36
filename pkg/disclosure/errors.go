// Package disclosure holds the error taxonomy shared by the questionnaire engine packages.
package disclosure

import "errors"

var (
	// ErrSessionNotFound is returned when a step references a session that does not exist
	// and the request is not flagged as the first call.
	ErrSessionNotFound = errors.New("questionnaire session not found")

	// ErrStaleAnswer is returned when an answer targets a question other than the pending one.
	ErrStaleAnswer = errors.New("answer does not match the pending question")

	// ErrSessionComplete is returned when an answer is submitted to a completed session.
	ErrSessionComplete = errors.New("questionnaire session already complete")

	// ErrSynthesisFailed marks a model-backed operation that exhausted its retries.
	// Callers may retry the whole operation.
	ErrSynthesisFailed = errors.New("synthesis failed")

	// ErrUnsupportedMedia is returned by document analysis for formats it cannot read.
	ErrUnsupportedMedia = errors.New("unsupported media type")

	// ErrProductNotEligible is returned when a questionnaire is requested for a product
	// that has not been accepted.
	ErrProductNotEligible = errors.New("product has not passed eligibility")

	ErrProductNotFound = errors.New("product not found")

	ErrReportNotFound = errors.New("disclosure report not found")

	// ErrReportNotRetryable is returned when a retry targets a report that has not failed.
	ErrReportNotRetryable = errors.New("disclosure report is not in a failed state")
)
