package seed

import (
	"context"
	"embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/yungbote/lifewheel-backend/internal/data/repos"
	types "github.com/yungbote/lifewheel-backend/internal/domain"
	"github.com/yungbote/lifewheel-backend/internal/platform/dbctx"
	"github.com/yungbote/lifewheel-backend/internal/platform/logger"
)

//go:embed catalog.yaml
var catalogFS embed.FS

const PathEnv = "CATALOG_PATH"

type Catalog struct {
	LifeAreas []Area `yaml:"life_areas"`
}

type Area struct {
	Name          string        `yaml:"name"`
	Description   string        `yaml:"description"`
	Color         string        `yaml:"color"`
	Icon          string        `yaml:"icon"`
	Subcategories []Subcategory `yaml:"subcategories"`
}

type Subcategory struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Questions   []string `yaml:"questions"`
}

// Summary counts the rows written by Apply.
type Summary struct {
	LifeAreas     int `json:"life_areas"`
	Subcategories int `json:"subcategories"`
	Questions     int `json:"questions"`
}

// Default returns the embedded catalog.
func Default() (*Catalog, error) {
	raw, err := catalogFS.ReadFile("catalog.yaml")
	if err != nil {
		return nil, fmt.Errorf("read embedded catalog: %w", err)
	}
	return Parse(raw)
}

// Resolve loads the catalog named by CATALOG_PATH, falling back to the embedded one when unset.
func Resolve(log *logger.Logger) (*Catalog, error) {
	path := strings.TrimSpace(os.Getenv(PathEnv))
	if path == "" {
		return Default()
	}
	if log != nil {
		log.Info("Loading catalog override", "path", path)
	}
	return Load(path)
}

func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(raw)
}

func Parse(raw []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) Validate() error {
	if c == nil || len(c.LifeAreas) == 0 {
		return fmt.Errorf("catalog has no life areas")
	}
	areaNames := map[string]bool{}
	for i, a := range c.LifeAreas {
		name := strings.TrimSpace(a.Name)
		if name == "" {
			return fmt.Errorf("life_areas[%d]: name required", i)
		}
		if areaNames[name] {
			return fmt.Errorf("life_areas[%d]: duplicate name %q", i, name)
		}
		areaNames[name] = true
		if a.Color != "" && (len(a.Color) != 7 || a.Color[0] != '#') {
			return fmt.Errorf("life area %q: color must be #RRGGBB", name)
		}
		if len(a.Subcategories) == 0 {
			return fmt.Errorf("life area %q: at least one subcategory required", name)
		}
		subNames := map[string]bool{}
		for j, s := range a.Subcategories {
			sn := strings.TrimSpace(s.Name)
			if sn == "" {
				return fmt.Errorf("life area %q subcategories[%d]: name required", name, j)
			}
			if subNames[sn] {
				return fmt.Errorf("life area %q: duplicate subcategory %q", name, sn)
			}
			subNames[sn] = true
			if len(s.Questions) == 0 {
				return fmt.Errorf("subcategory %q: at least one question required", sn)
			}
			for k, q := range s.Questions {
				if strings.TrimSpace(q) == "" {
					return fmt.Errorf("subcategory %q questions[%d]: text required", sn, k)
				}
			}
		}
	}
	return nil
}

// Apply upserts the catalog in one transaction. Display order follows document order starting at 1,
// and question order restarts at 1 within each subcategory. Running it twice leaves the same rows.
func Apply(ctx context.Context, db *gorm.DB, log *logger.Logger, c *Catalog) (Summary, error) {
	var sum Summary
	if err := c.Validate(); err != nil {
		return sum, err
	}
	if log == nil {
		log = logger.Nop()
	}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sum = Summary{}
		rs := repos.NewSet(tx, log)
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		for i, a := range c.LifeAreas {
			area, err := rs.LifeAreas.UpsertByName(dbc, &types.LifeArea{
				Name:         strings.TrimSpace(a.Name),
				Description:  strings.TrimSpace(a.Description),
				Color:        strings.ToUpper(a.Color),
				Icon:         strings.TrimSpace(a.Icon),
				DisplayOrder: i + 1,
			})
			if err != nil {
				return fmt.Errorf("upsert life area %q: %w", a.Name, err)
			}
			sum.LifeAreas++
			for j, s := range a.Subcategories {
				sub, err := rs.Subcategories.UpsertByAreaAndName(dbc, &types.Subcategory{
					LifeAreaID:   area.ID,
					Name:         strings.TrimSpace(s.Name),
					Description:  strings.TrimSpace(s.Description),
					DisplayOrder: j + 1,
				})
				if err != nil {
					return fmt.Errorf("upsert subcategory %q: %w", s.Name, err)
				}
				sum.Subcategories++
				for k, text := range s.Questions {
					if err := rs.Questions.UpsertBySubcategoryAndOrder(dbc, &types.Question{
						SubcategoryID: sub.ID,
						QuestionText:  strings.TrimSpace(text),
						QuestionOrder: k + 1,
					}); err != nil {
						return fmt.Errorf("upsert question %d of %q: %w", k+1, s.Name, err)
					}
					sum.Questions++
				}
			}
		}
		return nil
	})
	if err != nil {
		return Summary{}, err
	}
	log.Info("Catalog applied",
		"life_areas", sum.LifeAreas,
		"subcategories", sum.Subcategories,
		"questions", sum.Questions,
	)
	return sum, nil
}
