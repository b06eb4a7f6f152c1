package analytics

type TrendDirection string

const (
	TrendUp   TrendDirection = "up"
	TrendDown TrendDirection = "down"
	TrendFlat TrendDirection = "flat"
)

type TrendStat struct {
	SlopePerLoggedDay float64        `json:"slopePerLoggedDay"`
	Direction         TrendDirection `json:"direction"`
}

type Trend struct {
	Calories TrendStat `json:"calories"`
	Protein  TrendStat `json:"protein"`
}

// CalculateTrend fits a line through the totals of logged days, oldest
// first. Unlogged days are skipped rather than read as zero.
func CalculateTrend(days []DayStats) Trend {
	calories := make([]float64, 0, len(days))
	protein := make([]float64, 0, len(days))
	for _, d := range days {
		if !d.HasData {
			continue
		}
		calories = append(calories, d.TotalCalories)
		protein = append(protein, d.TotalProtein)
	}
	return Trend{
		Calories: trendFromValues(calories, 10),
		Protein:  trendFromValues(protein, 1),
	}
}

func trendFromValues(values []float64, flatBand float64) TrendStat {
	slope := linearRegressionSlope(values)
	direction := TrendFlat
	if slope >= flatBand {
		direction = TrendUp
	} else if slope <= -flatBand {
		direction = TrendDown
	}
	return TrendStat{SlopePerLoggedDay: slope, Direction: direction}
}

func linearRegressionSlope(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	var sumX, sumY, sumXY, sumX2 float64
	for i := range values {
		x := float64(i)
		y := values[i]
		sumX += x
		sumY += y
		sumXY += x * y
		sumX2 += x * x
	}
	denom := (float64(n) * sumX2) - (sumX * sumX)
	if denom == 0 {
		return 0
	}
	return ((float64(n) * sumXY) - (sumX * sumY)) / denom
}
