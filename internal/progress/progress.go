// Package progress defines the progress types shared by strategies, the
// orchestration layer and the presentation layer.
package progress

// ProgressUpdate is a progress notification sent by a running calculator.
type ProgressUpdate struct {
	// CalculatorIndex identifies the calculator within a comparison run.
	CalculatorIndex int
	// Value is the normalized progress, from 0.0 to 1.0.
	Value float64
}

// ProgressCallback receives normalized progress values (0.0 to 1.0).
type ProgressCallback func(progress float64)

// reportSteps bounds how many updates a day-by-day loop emits.
const reportSteps = 100

// Report calls reporter with value when reporter is non-nil.
func Report(reporter ProgressCallback, value float64) {
	if reporter != nil {
		reporter(value)
	}
}

// ReportDayProgress reports progress for day-by-day loops. It emits at most
// roughly reportSteps updates for the whole run plus the final one, so long
// simulations do not flood the channel.
//
// Parameters:
//   - reporter: The callback to notify; nil is allowed.
//   - day: The number of days completed so far.
//   - days: The total number of days in the run.
func ReportDayProgress(reporter ProgressCallback, day, days int) {
	if reporter == nil || days <= 0 {
		return
	}
	step := days / reportSteps
	if step == 0 {
		step = 1
	}
	if day%step == 0 || day == days {
		reporter(float64(day) / float64(days))
	}
}
