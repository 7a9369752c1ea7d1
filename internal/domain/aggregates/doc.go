// Package aggregates defines domain-facing aggregate contracts.
//
// Contracts describe the write boundaries of the assessment and action plan domains. Each write
// runs in a single transaction owned by the aggregate and fails with *Error carrying one of the
// ErrorCode values below.
package aggregates
