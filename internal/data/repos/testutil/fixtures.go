package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	types "github.com/yungbote/lifewheel-backend/internal/domain"
	"gorm.io/gorm"
)

// Unique suffixes keep fixtures from colliding on the catalog's unique names when tests share
// one Postgres database.
func suffix() string { return uuid.NewString()[:8] }

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	if email == "" {
		email = "user-" + suffix() + "@example.com"
	}
	u := &types.User{
		Email:        types.NormalizeEmail(email),
		PasswordHash: "pw",
		Name:         "Test User",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedLifeArea(tb testing.TB, ctx context.Context, tx *gorm.DB, name string, order int) *types.LifeArea {
	tb.Helper()
	a := &types.LifeArea{
		Name:         name + " " + suffix(),
		Color:        "#3498db",
		Icon:         "star",
		DisplayOrder: order,
	}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed life area: %v", err)
	}
	return a
}

func SeedSubcategory(tb testing.TB, ctx context.Context, tx *gorm.DB, areaID uint, name string, order int) *types.Subcategory {
	tb.Helper()
	s := &types.Subcategory{
		LifeAreaID:   areaID,
		Name:         name + " " + suffix(),
		DisplayOrder: order,
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed subcategory: %v", err)
	}
	return s
}

func SeedQuestion(tb testing.TB, ctx context.Context, tx *gorm.DB, subcategoryID uint, order int) *types.Question {
	tb.Helper()
	q := &types.Question{
		SubcategoryID: subcategoryID,
		QuestionText:  "How satisfied are you?",
		QuestionOrder: order,
	}
	if err := tx.WithContext(ctx).Create(q).Error; err != nil {
		tb.Fatalf("seed question: %v", err)
	}
	return q
}

func SeedAssessment(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uint, status types.AssessmentStatus) *types.Assessment {
	tb.Helper()
	now := time.Now().UTC()
	a := &types.Assessment{
		UserID:    userID,
		Title:     types.DefaultAssessmentTitle,
		Status:    status,
		StartedAt: now,
	}
	if status == types.AssessmentCompleted {
		a.CompletedAt = &now
	}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed assessment: %v", err)
	}
	return a
}

func SeedResponse(tb testing.TB, ctx context.Context, tx *gorm.DB, assessmentID, questionID uint, score int) *types.Response {
	tb.Helper()
	r := &types.Response{AssessmentID: assessmentID, QuestionID: questionID, Score: score}
	if err := tx.WithContext(ctx).Create(r).Error; err != nil {
		tb.Fatalf("seed response: %v", err)
	}
	return r
}
