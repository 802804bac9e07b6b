package format

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// maxETA caps estimates produced from very slow progress rates.
const maxETA = 24 * time.Hour

// ProgressState aggregates the progress of calculators running side by side
// and exposes their average. It is safe for concurrent use.
type ProgressState struct {
	mu             sync.Mutex
	progresses     []float64
	numCalculators int
}

// NewProgressState returns a state tracking numCalculators calculators.
func NewProgressState(numCalculators int) *ProgressState {
	if numCalculators < 0 {
		numCalculators = 0
	}
	return &ProgressState{
		progresses:     make([]float64, numCalculators),
		numCalculators: numCalculators,
	}
}

// Update records the progress of one calculator. Out-of-range indices are
// ignored and values are clamped to [0, 1].
func (ps *ProgressState) Update(index int, value float64) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if index >= 0 && index < len(ps.progresses) {
		ps.progresses[index] = clamp01(value)
	}
}

// CalculateAverage returns the mean progress of all calculators.
func (ps *ProgressState) CalculateAverage() float64 {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	return ps.averageLocked()
}

func (ps *ProgressState) averageLocked() float64 {
	if ps.numCalculators == 0 {
		return 0
	}
	var total float64
	for _, p := range ps.progresses {
		total += p
	}
	return total / float64(ps.numCalculators)
}

// ProgressWithETA extends ProgressState with a remaining-time estimate based
// on the average progress rate since the first update.
type ProgressWithETA struct {
	*ProgressState
	startTime    time.Time
	progressRate float64 // average progress per second
}

// NewProgressWithETA returns a tracker for numCalculators calculators whose
// clock starts now.
func NewProgressWithETA(numCalculators int) *ProgressWithETA {
	return &ProgressWithETA{
		ProgressState: NewProgressState(numCalculators),
		startTime:     time.Now(),
	}
}

// UpdateWithETA records one calculator's progress and returns the new
// average together with the current estimate.
func (p *ProgressWithETA) UpdateWithETA(index int, value float64) (float64, time.Duration) {
	p.Update(index, value)

	p.mu.Lock()
	avg := p.averageLocked()
	if elapsed := time.Since(p.startTime).Seconds(); elapsed > 0 && avg > 0 {
		p.progressRate = avg / elapsed
	}
	p.mu.Unlock()

	return avg, p.GetETA()
}

// GetETA returns the estimated remaining time, or 0 while the rate is
// unknown or the work is complete.
func (p *ProgressWithETA) GetETA() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	avg := p.averageLocked()
	if p.progressRate <= 0 || avg >= 1 {
		return 0
	}
	seconds := (1 - avg) / p.progressRate
	eta := time.Duration(seconds * float64(time.Second))
	if eta > maxETA || eta < 0 {
		return maxETA
	}
	return eta
}

// ProgressBar renders a bar of length cells for a progress in [0, 1].
func ProgressBar(progress float64, length int) string {
	count := int(clamp01(progress) * float64(length))
	var b strings.Builder
	b.Grow(length * 3)
	for i := 0; i < length; i++ {
		if i < count {
			b.WriteRune('█')
		} else {
			b.WriteRune('░')
		}
	}
	return b.String()
}

// FormatProgressBarWithETA renders "[bar] 42.0% ETA: 3s".
func FormatProgressBarWithETA(progress float64, eta time.Duration, width int) string {
	return fmt.Sprintf("[%s] %5.1f%% ETA: %s", ProgressBar(progress, width), clamp01(progress)*100, FormatETA(eta))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
