package catalog

import (
	"errors"

	types "github.com/yungbote/lifewheel-backend/internal/domain"
	"github.com/yungbote/lifewheel-backend/internal/platform/dbctx"
	"github.com/yungbote/lifewheel-backend/internal/platform/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LifeAreaRepo interface {
	List(dbc dbctx.Context) ([]*types.LifeArea, error)
	GetByID(dbc dbctx.Context, id uint) (*types.LifeArea, error)
	GetByIDs(dbc dbctx.Context, ids []uint) ([]*types.LifeArea, error)
	CountByIDs(dbc dbctx.Context, ids []uint) (int64, error)
	UpsertByName(dbc dbctx.Context, area *types.LifeArea) (*types.LifeArea, error)
}

type lifeAreaRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLifeAreaRepo(db *gorm.DB, baseLog *logger.Logger) LifeAreaRepo {
	return &lifeAreaRepo{db: db, log: baseLog.With("repo", "LifeAreaRepo")}
}

func (r *lifeAreaRepo) List(dbc dbctx.Context) ([]*types.LifeArea, error) {
	q := dbc.Query(r.db)
	var out []*types.LifeArea
	if err := q.
		Order("display_order ASC, name ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *lifeAreaRepo) GetByID(dbc dbctx.Context, id uint) (*types.LifeArea, error) {
	q := dbc.Query(r.db)
	var area types.LifeArea
	err := q.Where("id = ?", id).First(&area).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &area, nil
}

func (r *lifeAreaRepo) GetByIDs(dbc dbctx.Context, ids []uint) ([]*types.LifeArea, error) {
	q := dbc.Query(r.db)
	var out []*types.LifeArea
	if len(ids) == 0 {
		return out, nil
	}
	if err := q.
		Where("id IN ?", ids).
		Order("display_order ASC, name ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// CountByIDs counts how many of ids exist. Duplicate ids are counted once.
func (r *lifeAreaRepo) CountByIDs(dbc dbctx.Context, ids []uint) (int64, error) {
	q := dbc.Query(r.db)
	if len(ids) == 0 {
		return 0, nil
	}
	var count int64
	if err := q.
		Model(&types.LifeArea{}).
		Where("id IN ?", ids).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *lifeAreaRepo) UpsertByName(dbc dbctx.Context, area *types.LifeArea) (*types.LifeArea, error) {
	q := dbc.Query(r.db)
	if err := q.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"description", "color", "icon", "display_order"}),
		}).
		Create(area).Error; err != nil {
		return nil, err
	}
	var stored types.LifeArea
	if err := q.Where("name = ?", area.Name).First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}
