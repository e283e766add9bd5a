package model

// DailyStat is one calendar-date bucket of completed workouts. Derived
// on demand, never persisted.
type DailyStat struct {
	Date         string `json:"date"`
	Duration     int    `json:"duration"`
	Calories     int    `json:"calories"`
	WorkoutCount int    `json:"workoutCount"`
}

// StatsTotals sums across all emitted buckets. All zeros when the range
// holds no completed workouts.
type StatsTotals struct {
	TotalDuration int `json:"totalDuration"`
	TotalCalories int `json:"totalCalories"`
	TotalWorkouts int `json:"totalWorkouts"`
}

type StatsResponse struct {
	Daily  []DailyStat `json:"daily"`
	Totals StatsTotals `json:"totals"`
}
