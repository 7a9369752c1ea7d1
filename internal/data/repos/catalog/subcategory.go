package catalog

import (
	"errors"

	types "github.com/yungbote/lifewheel-backend/internal/domain"
	"github.com/yungbote/lifewheel-backend/internal/platform/dbctx"
	"github.com/yungbote/lifewheel-backend/internal/platform/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SubcategoryRepo interface {
	// List returns every subcategory ordered by area display order, then its own.
	List(dbc dbctx.Context) ([]*types.Subcategory, error)
	ListByLifeArea(dbc dbctx.Context, lifeAreaID uint) ([]*types.Subcategory, error)
	GetByID(dbc dbctx.Context, id uint) (*types.Subcategory, error)
	UpsertByAreaAndName(dbc dbctx.Context, sub *types.Subcategory) (*types.Subcategory, error)
}

type subcategoryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSubcategoryRepo(db *gorm.DB, baseLog *logger.Logger) SubcategoryRepo {
	return &subcategoryRepo{db: db, log: baseLog.With("repo", "SubcategoryRepo")}
}

func (r *subcategoryRepo) List(dbc dbctx.Context) ([]*types.Subcategory, error) {
	q := dbc.Query(r.db)
	var out []*types.Subcategory
	if err := q.
		Table("subcategories").
		Select("subcategories.*").
		Joins("JOIN life_areas ON life_areas.id = subcategories.life_area_id").
		Order("life_areas.display_order ASC, life_areas.id ASC, subcategories.display_order ASC, subcategories.name ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *subcategoryRepo) ListByLifeArea(dbc dbctx.Context, lifeAreaID uint) ([]*types.Subcategory, error) {
	q := dbc.Query(r.db)
	var out []*types.Subcategory
	if err := q.
		Where("life_area_id = ?", lifeAreaID).
		Order("display_order ASC, name ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *subcategoryRepo) GetByID(dbc dbctx.Context, id uint) (*types.Subcategory, error) {
	q := dbc.Query(r.db)
	var sub types.Subcategory
	err := q.Where("id = ?", id).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *subcategoryRepo) UpsertByAreaAndName(dbc dbctx.Context, sub *types.Subcategory) (*types.Subcategory, error) {
	q := dbc.Query(r.db)
	if err := q.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "life_area_id"}, {Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"description", "display_order"}),
		}).
		Create(sub).Error; err != nil {
		return nil, err
	}
	var stored types.Subcategory
	if err := q.
		Where("life_area_id = ? AND name = ?", sub.LifeAreaID, sub.Name).
		First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}
