// Package aggregates implements the assessment and action plan write paths.
//
// Each write runs inside one transaction owned by the aggregate, composed from the table repos in
// internal/data/repos. Failures come back as *domain/aggregates.Error so transport code can map
// them to a status without inspecting driver errors.
package aggregates
