package aggregates

import (
	"context"
	"time"

	"github.com/yungbote/lifewheel-backend/internal/domain/assessment"
	"github.com/yungbote/lifewheel-backend/internal/scoring"
)

var AssessmentAggregateContract = Contract{
	Name:             "Assessment.AssessmentAggregate",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Notes:            "Owns the in_progress to completed transition, response upserts and derived score rows.",
	Tables:           []string{
		assessment.Assessment{}.TableName(),
		assessment.Response{}.TableName(),
		assessment.SubcategoryScore{}.TableName(),
		assessment.AreaScore{}.TableName(),
	},
}

// AssessmentAggregate owns assessment lifecycle and scoring invariants.
//
// Write method failures return *aggregates.Error with codes:
// CodeValidation, CodeNotFound, CodeConflict, CodeInvariantViolation, CodeRetryable, CodeInternal.
type AssessmentAggregate interface {
	Aggregate

	// StartOrResume returns the caller's in_progress assessment, creating one when none exists.
	StartOrResume(ctx context.Context, in StartOrResumeInput) (StartOrResumeResult, error)

	// RecordResponses upserts a batch of scores. Entries with no score or an unknown question are
	// skipped; everything else commits together or not at all.
	RecordResponses(ctx context.Context, in RecordResponsesInput) (RecordResponsesResult, error)

	// CalculateScores recomputes every subcategory and area score from the current responses and
	// marks the assessment completed.
	CalculateScores(ctx context.Context, in CalculateScoresInput) (CalculateScoresResult, error)

	// UpdateProgress moves the UI cursor of an in_progress assessment.
	UpdateProgress(ctx context.Context, in UpdateProgressInput) (assessment.Assessment, error)
}

type StartOrResumeInput struct {
	UserID uint
	Title  string
	Now    time.Time
}

type StartOrResumeResult struct {
	Assessment assessment.Assessment
	Resumed    bool
}

type ResponseEntry struct {
	QuestionID uint
	Score      *int
}

type RecordResponsesInput struct {
	UserID       uint
	AssessmentID uint
	Entries      []ResponseEntry
}

// SkippedResponse explains why an entry in a batch was not written.
type SkippedResponse struct {
	QuestionID uint
	Reason     string
}

const (
	SkipReasonNullScore       = "null_score"
	SkipReasonUnknownQuestion = "unknown_question"
)

type RecordResponsesResult struct {
	SavedCount int
	Skipped    []SkippedResponse
}

type CalculateScoresInput struct {
	UserID       uint
	AssessmentID uint
	CalculatedAt time.Time
}

type CalculateScoresResult struct {
	Assessment    assessment.Assessment
	Subcategories []scoring.SubcategoryResult
	Areas         []scoring.AreaResult
}

type UpdateProgressInput struct {
	UserID           uint
	AssessmentID     uint
	CurrentAreaIndex int
}
