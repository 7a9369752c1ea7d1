package handlers

import (
	"strconv"
	"time"

	types "github.com/yungbote/lifewheel-backend/internal/domain"
	domassessment "github.com/yungbote/lifewheel-backend/internal/domain/assessment"
	"github.com/yungbote/lifewheel-backend/internal/scoring"
)

type userJSON struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserJSON(u *types.User) userJSON {
	return userJSON{ID: u.ID, Name: u.Name, Email: u.Email, CreatedAt: u.CreatedAt}
}

type assessmentJSON struct {
	ID               uint       `json:"id"`
	Title            string     `json:"title"`
	Status           string     `json:"status"`
	CurrentAreaIndex int        `json:"current_area_index"`
	StartedAt        time.Time  `json:"started_at"`
	CompletedAt      *time.Time `json:"completed_at"`
}

func toAssessmentJSON(a *types.Assessment) assessmentJSON {
	return assessmentJSON{
		ID:               a.ID,
		Title:            a.Title,
		Status:           string(a.Status),
		CurrentAreaIndex: a.CurrentAreaIndex,
		StartedAt:        a.StartedAt,
		CompletedAt:      a.CompletedAt,
	}
}

type areaResultJSON struct {
	LifeAreaID   uint    `json:"life_area_id"`
	LifeAreaName string  `json:"life_area_name"`
	Color        string  `json:"color"`
	AverageScore float64 `json:"average_score"`
	Percentage   float64 `json:"percentage"`
}

type subcategoryResultJSON struct {
	SubcategoryID   uint    `json:"subcategory_id"`
	SubcategoryName string  `json:"subcategory_name"`
	LifeAreaID      uint    `json:"life_area_id"`
	LifeAreaName    string  `json:"life_area_name,omitempty"`
	AverageScore    float64 `json:"average_score"`
	Percentage      float64 `json:"percentage"`
}

// Percentages are stored at two decimals and shown at one.

func areaViewsJSON(views []domassessment.AreaScoreView) []areaResultJSON {
	out := make([]areaResultJSON, 0, len(views))
	for _, v := range views {
		out = append(out, areaResultJSON{
			LifeAreaID:   v.LifeAreaID,
			LifeAreaName: v.LifeAreaName,
			Color:        v.Color,
			AverageScore: v.AverageScore,
			Percentage:   scoring.RoundEven1(v.Percentage),
		})
	}
	return out
}

func subcategoryViewsJSON(views []domassessment.SubcategoryScoreView) []subcategoryResultJSON {
	out := make([]subcategoryResultJSON, 0, len(views))
	for _, v := range views {
		out = append(out, subcategoryResultJSON{
			SubcategoryID:   v.SubcategoryID,
			SubcategoryName: v.SubcategoryName,
			LifeAreaID:      v.LifeAreaID,
			LifeAreaName:    v.LifeAreaName,
			AverageScore:    v.AverageScore,
			Percentage:      scoring.RoundEven1(v.Percentage),
		})
	}
	return out
}

func areaResultsJSON(results []scoring.AreaResult) []areaResultJSON {
	out := make([]areaResultJSON, 0, len(results))
	for _, r := range results {
		out = append(out, areaResultJSON{
			LifeAreaID:   r.LifeAreaID,
			LifeAreaName: r.LifeAreaName,
			Color:        r.Color,
			AverageScore: r.DisplayAverage(),
			Percentage:   r.DisplayPercentage(),
		})
	}
	return out
}

func subcategoryResultsJSON(results []scoring.SubcategoryResult) []subcategoryResultJSON {
	out := make([]subcategoryResultJSON, 0, len(results))
	for _, r := range results {
		out = append(out, subcategoryResultJSON{
			SubcategoryID:   r.SubcategoryID,
			SubcategoryName: r.SubcategoryName,
			LifeAreaID:      r.LifeAreaID,
			AverageScore:    r.DisplayAverage(),
			Percentage:      r.DisplayPercentage(),
		})
	}
	return out
}

// scoreMapJSON keys responses by question id; JSON object keys are strings.
func scoreMapJSON(m map[uint]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[uintKey(k)] = v
	}
	return out
}

func uintKey(v uint) string { return strconv.FormatUint(uint64(v), 10) }
