package services

import (
	"time"

	"github.com/owletdev/nocturna/internal/models"
)

type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// DefaultCycleLengthDays is assumed when a user has no usable cycle
// history yet.
const DefaultCycleLengthDays = 28

// maxPredictionHistory caps how far back averaging looks; older cycles stop
// describing the current pattern.
const maxPredictionHistory = 6

type Prediction struct {
	NextStart          time.Time  `json:"next_start"`
	Confidence         Confidence `json:"confidence"`
	AverageCycleLength int        `json:"average_cycle_length"`
	BasedOnRecords     int        `json:"based_on_records"`
}

// PredictNextPeriod consumes a user's cycle records ordered most recent
// first and estimates the next start date.
//
// Zero records fail with ErrInsufficientData. A single record predicts
// start + 28 days at low confidence. With two or more records the recorded
// cycle lengths (stamped once at record creation) are averaged with integer
// rounding; confidence is high from three records up, medium below.
func PredictNextPeriod(history []models.CycleRecord, location *time.Location) (Prediction, error) {
	if len(history) == 0 {
		return Prediction{}, ErrInsufficientData
	}
	if len(history) > maxPredictionHistory {
		history = history[:maxPredictionHistory]
	}

	lastStart := DateAtLocation(history[0].StartDate, location)

	if len(history) == 1 {
		return Prediction{
			NextStart:          lastStart.AddDate(0, 0, DefaultCycleLengthDays),
			Confidence:         ConfidenceLow,
			AverageCycleLength: DefaultCycleLengthDays,
			BasedOnRecords:     1,
		}, nil
	}

	lengths := make([]int, 0, len(history)-1)
	for _, record := range history {
		if record.CycleLength != nil && *record.CycleLength > 0 {
			lengths = append(lengths, *record.CycleLength)
		}
	}

	// Records imported without a stamped length leave nothing to average;
	// fall back to the default-cycle assumption rather than failing.
	if len(lengths) == 0 {
		return Prediction{
			NextStart:          lastStart.AddDate(0, 0, DefaultCycleLengthDays),
			Confidence:         ConfidenceLow,
			AverageCycleLength: DefaultCycleLengthDays,
			BasedOnRecords:     len(history),
		}, nil
	}

	average := roundedAverage(lengths)
	confidence := ConfidenceMedium
	if len(history) >= 3 {
		confidence = ConfidenceHigh
	}

	return Prediction{
		NextStart:          lastStart.AddDate(0, 0, average),
		Confidence:         confidence,
		AverageCycleLength: average,
		BasedOnRecords:     len(history),
	}, nil
}

func roundedAverage(values []int) int {
	var total int
	for _, value := range values {
		total += value
	}
	return int(float64(total)/float64(len(values)) + 0.5)
}

// ComputeCycleLength derives the cycle length stored on a new record: the
// day count between its start and the immediately preceding record's start.
// It is stamped once at creation and never recalculated retroactively.
func ComputeCycleLength(start time.Time, preceding *models.CycleRecord, location *time.Location) *int {
	if preceding == nil {
		return nil
	}
	days := DaysBetween(preceding.StartDate, start, location)
	if days <= 0 {
		return nil
	}
	return &days
}
