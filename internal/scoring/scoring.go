package scoring

type Area struct {
	ID           uint
	Name         string
	Color        string
	DisplayOrder int
}

type Subcategory struct {
	ID           uint
	LifeAreaID   uint
	Name         string
	DisplayOrder int
}

// Response is one score already resolved to its question's subcategory.
type Response struct {
	SubcategoryID uint
	Score         int
}

// SubcategoryResult carries the exact mean alongside the stored and displayed forms.
type SubcategoryResult struct {
	SubcategoryID   uint
	SubcategoryName string
	LifeAreaID      uint
	ResponseCount   int

	Average    float64
	Percentage float64

	StoredAverage    float64
	StoredPercentage float64
}

// DisplayAverage and DisplayPercentage are the one-decimal values shown to users.
func (r SubcategoryResult) DisplayAverage() float64    { return RoundEven1(r.Average) }
func (r SubcategoryResult) DisplayPercentage() float64 { return RoundEven1(r.Percentage) }

type AreaResult struct {
	LifeAreaID       uint
	LifeAreaName     string
	Color            string
	SubcategoryCount int

	Average    float64
	Percentage float64

	StoredAverage    float64
	StoredPercentage float64
}

func (r AreaResult) DisplayAverage() float64    { return RoundEven1(r.Average) }
func (r AreaResult) DisplayPercentage() float64 { return RoundEven1(r.Percentage) }

// Compute scores every subcategory that has at least one response, then every area that has at
// least one scored subcategory. Output order follows the order of subcats and areas.
func Compute(subcats []Subcategory, areas []Area, responses []Response) ([]SubcategoryResult, []AreaResult) {
	bySub := make(map[uint][]int, len(subcats))
	for _, r := range responses {
		bySub[r.SubcategoryID] = append(bySub[r.SubcategoryID], r.Score)
	}

	subResults := make([]SubcategoryResult, 0, len(subcats))
	for _, sc := range subcats {
		scores := bySub[sc.ID]
		if len(scores) == 0 {
			continue
		}
		subResults = append(subResults, scoreSubcategory(sc, scores))
	}

	areaResults := make([]AreaResult, 0, len(areas))
	for _, a := range areas {
		if res, ok := scoreArea(a, subResults); ok {
			areaResults = append(areaResults, res)
		}
	}
	return subResults, areaResults
}

func scoreSubcategory(sc Subcategory, scores []int) SubcategoryResult {
	sum := 0
	for _, s := range scores {
		sum += s
	}
	avg := float64(sum) / float64(len(scores))
	pct := Percentage(avg)
	return SubcategoryResult{
		SubcategoryID:    sc.ID,
		SubcategoryName:  sc.Name,
		LifeAreaID:       sc.LifeAreaID,
		ResponseCount:    len(scores),
		Average:          avg,
		Percentage:       pct,
		StoredAverage:    Round1(avg),
		StoredPercentage: Round2(pct),
	}
}

// The area mean is taken over the one-decimal subcategory averages that are reported to the
// caller, not over the underlying responses.
func scoreArea(a Area, subResults []SubcategoryResult) (AreaResult, bool) {
	values := make([]float64, 0, 4)
	for _, sr := range subResults {
		if sr.LifeAreaID == a.ID {
			values = append(values, sr.DisplayAverage())
		}
	}
	avg, ok := Mean(values)
	if !ok {
		return AreaResult{}, false
	}
	pct := Percentage(avg)
	return AreaResult{
		LifeAreaID:       a.ID,
		LifeAreaName:     a.Name,
		Color:            a.Color,
		SubcategoryCount: len(values),
		Average:          avg,
		Percentage:       pct,
		StoredAverage:    Round1(avg),
		StoredPercentage: Round2(pct),
	}, true
}
