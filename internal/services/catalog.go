package services

import (
	"context"

	"github.com/yungbote/lifewheel-backend/internal/data/aggregates"
	"github.com/yungbote/lifewheel-backend/internal/data/repos"
	types "github.com/yungbote/lifewheel-backend/internal/domain"
	"github.com/yungbote/lifewheel-backend/internal/platform/apierr"
	"github.com/yungbote/lifewheel-backend/internal/platform/dbctx"
	"github.com/yungbote/lifewheel-backend/internal/platform/logger"
)

// CatalogService serves the read-only question catalog.
type CatalogService interface {
	ListLifeAreas(ctx context.Context) ([]*types.LifeArea, error)
	ListSubcategories(ctx context.Context, lifeAreaID uint) ([]*types.Subcategory, error)
	ListQuestions(ctx context.Context, subcategoryID uint) ([]*types.Question, error)
}

type catalogService struct {
	log           *logger.Logger
	lifeAreas     repos.LifeAreaRepo
	subcategories repos.SubcategoryRepo
	questions     repos.QuestionRepo
}

func NewCatalogService(log *logger.Logger, lifeAreas repos.LifeAreaRepo, subcategories repos.SubcategoryRepo, questions repos.QuestionRepo) CatalogService {
	return &catalogService{
		log:           log.With("service", "CatalogService"),
		lifeAreas:     lifeAreas,
		subcategories: subcategories,
		questions:     questions,
	}
}

func (cs *catalogService) ListLifeAreas(ctx context.Context) ([]*types.LifeArea, error) {
	out, err := cs.lifeAreas.List(dbctx.Context{Ctx: ctx})
	if err != nil {
		return nil, aggregates.MapError("Catalog.ListLifeAreas", err)
	}
	return out, nil
}

func (cs *catalogService) ListSubcategories(ctx context.Context, lifeAreaID uint) ([]*types.Subcategory, error) {
	const op = "Catalog.ListSubcategories"
	dbc := dbctx.Context{Ctx: ctx}
	area, err := cs.lifeAreas.GetByID(dbc, lifeAreaID)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	if area == nil {
		return nil, apierr.NotFound("life area not found")
	}
	out, err := cs.subcategories.ListByLifeArea(dbc, lifeAreaID)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	return out, nil
}

func (cs *catalogService) ListQuestions(ctx context.Context, subcategoryID uint) ([]*types.Question, error) {
	const op = "Catalog.ListQuestions"
	dbc := dbctx.Context{Ctx: ctx}
	sub, err := cs.subcategories.GetByID(dbc, subcategoryID)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	if sub == nil {
		return nil, apierr.NotFound("subcategory not found")
	}
	out, err := cs.questions.ListBySubcategory(dbc, subcategoryID)
	if err != nil {
		return nil, aggregates.MapError(op, err)
	}
	return out, nil
}
