package dataset

import "math"

// accumulator collects streaming mean/variance via Welford's method.
type accumulator struct {
	n    int
	mean float64
	m2   float64
}

func (a *accumulator) add(x float64) {
	a.n++
	delta := x - a.mean
	a.mean += delta / float64(a.n)
	a.m2 += delta * (x - a.mean)
}

// std returns the sample (n-1) standard deviation, undefined for n < 2.
func (a *accumulator) std() Stat {
	if a.n < 2 {
		return Undefined()
	}
	return Stat(math.Sqrt(a.m2 / float64(a.n-1)))
}

// cv returns the coefficient of variation std/mean. It is exactly 0 when the
// mean is 0 (explicit guard, not a division fault) and undefined when the
// std itself is undefined.
func (a *accumulator) cv() Stat {
	std := a.std()
	if !std.IsDefined() {
		return Undefined()
	}
	if a.mean == 0 {
		return 0
	}
	return Stat(float64(std) / a.mean)
}

// SummarizeEnvironment computes one row per school: the mean of each
// environmental metric plus the school's target EC. Rows follow SchoolOrder;
// schools absent from data are omitted. Source records are never mutated.
func SummarizeEnvironment(data EnvironmentData) []EnvironmentSummary {
	var rows []EnvironmentSummary
	for _, school := range SchoolOrder {
		records := data[school]
		if len(records) == 0 {
			continue
		}

		var temp, hum, ph, ec accumulator
		for _, r := range records {
			temp.add(r.Temperature)
			hum.add(r.Humidity)
			ph.add(r.PH)
			ec.add(r.EC)
		}

		target, _ := ECFor(school)
		rows = append(rows, EnvironmentSummary{
			School:          school,
			MeanTemperature: temp.mean,
			MeanHumidity:    hum.mean,
			MeanPH:          ph.mean,
			MeanEC:          ec.mean,
			TargetEC:        target,
		})
	}
	return rows
}

// SummarizeStability computes per-school sample standard deviations of
// temperature, humidity and measured EC. A school whose series has fewer
// than two points gets undefined stds, surfaced as such rather than zeroed.
func SummarizeStability(data EnvironmentData) []StabilityRow {
	var rows []StabilityRow
	for _, school := range SchoolOrder {
		records := data[school]
		if len(records) == 0 {
			continue
		}

		var temp, hum, ec accumulator
		for _, r := range records {
			temp.add(r.Temperature)
			hum.add(r.Humidity)
			ec.add(r.EC)
		}

		rows = append(rows, StabilityRow{
			School:         school,
			StdTemperature: temp.std(),
			StdHumidity:    hum.std(),
			StdEC:          ec.std(),
		})
	}
	return rows
}

// SummarizeGrowth computes one row per school (equivalently per EC, since
// the mapping is 1:1): mean/std/count and CV of fresh weight, plus mean leaf
// count and shoot length. Rows follow SchoolOrder.
func SummarizeGrowth(data GrowthData) []GrowthPerformance {
	var rows []GrowthPerformance
	for _, school := range SchoolOrder {
		records := data[school]
		if len(records) == 0 {
			continue
		}

		var weight, leaves, shoot accumulator
		for _, r := range records {
			weight.add(r.FreshWeight)
			leaves.add(r.LeafCount)
			shoot.add(r.ShootLength)
		}

		ec, _ := ECFor(school)
		rows = append(rows, GrowthPerformance{
			School:          school,
			EC:              ec,
			MeanFreshWeight: weight.mean,
			StdFreshWeight:  weight.std(),
			MeanLeafCount:   leaves.mean,
			MeanShootLength: shoot.mean,
			Count:           weight.n,
			CV:              weight.cv(),
		})
	}
	return rows
}

// BestEC returns the EC concentration whose school achieved the highest mean
// fresh weight. The scan follows SchoolOrder (ascending EC), so ties resolve
// deterministically to the first maximal entry; the boolean is false when no
// school has any records.
func BestEC(rows []GrowthPerformance) (BestECResult, bool) {
	var best BestECResult
	found := false
	for _, row := range rows {
		if !found || row.MeanFreshWeight > best.MeanFreshWeight {
			best = BestECResult{
				EC:              row.EC,
				MeanFreshWeight: row.MeanFreshWeight,
				School:          row.School,
			}
			found = true
		}
	}
	return best, found
}
