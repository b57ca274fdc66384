package dataset

import (
	"encoding/json"
	"math"
)

// School identifies one of the four participating schools. The identifier is
// the Korean school name exactly as it appears in the source files and the
// growth workbook's sheet names.
type School string

const (
	SchoolSongdo  School = "송도고"
	SchoolHaneul  School = "하늘고"
	SchoolAra     School = "아라고"
	SchoolDongsan School = "동산고"
)

// SchoolOrder is the fixed iteration order used everywhere a deterministic
// scan over schools is needed, including BestEC tie-breaking. It matches
// ascending target EC.
var SchoolOrder = []School{SchoolSongdo, SchoolHaneul, SchoolAra, SchoolDongsan}

// ecTargets maps each school to the EC concentration its nutrient solution
// was held at. Immutable and total over the four schools.
var ecTargets = map[School]float64{
	SchoolSongdo:  1.0,
	SchoolHaneul:  2.0,
	SchoolAra:     4.0,
	SchoolDongsan: 8.0,
}

// schoolColors carries the chart color assigned to each school.
var schoolColors = map[School]string{
	SchoolSongdo:  "#1f77b4",
	SchoolHaneul:  "#2ca02c",
	SchoolAra:     "#ff7f0e",
	SchoolDongsan: "#d62728",
}

// ECFor returns the target EC concentration for a school. The second return
// is false for schools outside the fixed experiment set; callers must treat
// that as "unmapped" rather than substituting a default.
func ECFor(school School) (float64, bool) {
	ec, ok := ecTargets[school]
	return ec, ok
}

// ColorFor returns the display color for a school, or "" if unmapped.
func ColorFor(school School) string {
	return schoolColors[school]
}

// Environment CSV columns, in file order.
const (
	ColTime        = "time"
	ColTemperature = "temperature"
	ColHumidity    = "humidity"
	ColPH          = "ph"
	ColEC          = "ec"
)

// Growth workbook columns.
const (
	ColPlantID     = "개체번호"
	ColFreshWeight = "생중량(g)"
	ColLeafCount   = "잎 수(장)"
	ColShootLength = "지상부 길이(mm)"
)

// MetricColumns maps summary metric names to the workbook columns they are
// computed from. Exports consume this instead of repeating column literals
// at each call site; MetricOrder fixes the column order.
var MetricColumns = map[string]string{
	"freshWeight": ColFreshWeight,
	"leafCount":   ColLeafCount,
	"shootLength": ColShootLength,
}

// MetricOrder is the deterministic order in which growth metrics appear in
// summaries and exports.
var MetricOrder = []string{"freshWeight", "leafCount", "shootLength"}

// EnvironmentRecord is one timestamped sensor reading from a school's
// environment CSV. Time is kept as the raw source string so exports
// round-trip byte-for-byte.
type EnvironmentRecord struct {
	Time        string  `json:"time"`
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	PH          float64 `json:"ph"`
	EC          float64 `json:"ec"`
	School      School  `json:"school"`
}

// GrowthRecord is one plant's final measurements from the growth workbook.
// EC is derived from the school via the EC mapping at load time.
type GrowthRecord struct {
	PlantID     string  `json:"plantId"`
	FreshWeight float64 `json:"freshWeightG"`
	LeafCount   float64 `json:"leafCount"`
	ShootLength float64 `json:"shootLengthMm"`
	School      School  `json:"school"`
	EC          float64 `json:"ec"`
}

// Stat is a float64 statistic that may be undefined. Undefined values are
// carried as NaN in memory and marshal as JSON null, so degenerate statistics
// (single-point std, CV over an undefined std) reach the presentation layer
// explicitly instead of being coerced to 0.
type Stat float64

// IsDefined reports whether the statistic has a value.
func (s Stat) IsDefined() bool {
	return !math.IsNaN(float64(s))
}

// Undefined returns the explicit undefined statistic.
func Undefined() Stat {
	return Stat(math.NaN())
}

func (s Stat) MarshalJSON() ([]byte, error) {
	if !s.IsDefined() {
		return []byte("null"), nil
	}
	return json.Marshal(float64(s))
}

func (s *Stat) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = Undefined()
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = Stat(v)
	return nil
}

// EnvironmentSummary is one row of the per-school environment comparison:
// mean of each environmental metric plus the school's target EC.
type EnvironmentSummary struct {
	School          School  `json:"school"`
	MeanTemperature float64 `json:"meanTemperature"`
	MeanHumidity    float64 `json:"meanHumidity"`
	MeanPH          float64 `json:"meanPh"`
	MeanEC          float64 `json:"meanEc"`
	TargetEC        float64 `json:"targetEc"`
}

// StabilityRow is one row of the per-school environmental stability summary.
// Standard deviations use the sample (n-1) definition and are undefined for
// series shorter than two points.
type StabilityRow struct {
	School         School `json:"school"`
	StdTemperature Stat   `json:"stdTemperature"`
	StdHumidity    Stat   `json:"stdHumidity"`
	StdEC          Stat   `json:"stdEc"`
}

// GrowthPerformance is one row of the per-school (equivalently per-EC)
// growth summary. CV is std/mean, 0 when the mean is exactly 0, and
// undefined when the std is undefined.
type GrowthPerformance struct {
	School          School  `json:"school"`
	EC              float64 `json:"ec"`
	MeanFreshWeight float64 `json:"meanFreshWeight"`
	StdFreshWeight  Stat    `json:"stdFreshWeight"`
	MeanLeafCount   float64 `json:"meanLeafCount"`
	MeanShootLength float64 `json:"meanShootLength"`
	Count           int     `json:"count"`
	CV              Stat    `json:"cv"`
}

// BestECResult names the EC concentration with the highest mean fresh weight.
type BestECResult struct {
	EC              float64 `json:"ec"`
	MeanFreshWeight float64 `json:"meanFreshWeight"`
	School          School  `json:"school"`
}
