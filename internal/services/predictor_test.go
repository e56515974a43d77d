package services

import (
	"errors"
	"testing"
	"time"

	"github.com/owletdev/nocturna/internal/models"
)

func day(year int, month time.Month, dayOfMonth int) time.Time {
	return time.Date(year, month, dayOfMonth, 0, 0, 0, 0, time.UTC)
}

func intPointer(value int) *int {
	return &value
}

func TestPredictNextPeriodNoHistory(t *testing.T) {
	t.Parallel()

	_, err := PredictNextPeriod(nil, time.UTC)
	if !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

func TestPredictNextPeriodSingleRecord(t *testing.T) {
	t.Parallel()

	history := []models.CycleRecord{
		{StartDate: day(2026, time.May, 1), EndDate: day(2026, time.May, 5)},
	}

	prediction, err := PredictNextPeriod(history, time.UTC)
	if err != nil {
		t.Fatalf("PredictNextPeriod() unexpected error: %v", err)
	}
	if got, want := prediction.NextStart, day(2026, time.May, 29); !got.Equal(want) {
		t.Fatalf("NextStart = %v, want %v", got, want)
	}
	if prediction.Confidence != ConfidenceLow {
		t.Fatalf("Confidence = %q, want %q", prediction.Confidence, ConfidenceLow)
	}
	if prediction.AverageCycleLength != DefaultCycleLengthDays {
		t.Fatalf("AverageCycleLength = %d, want %d", prediction.AverageCycleLength, DefaultCycleLengthDays)
	}
}

func TestPredictNextPeriodAveragesWithRounding(t *testing.T) {
	t.Parallel()

	// Newest first. Lengths 29, 28 and 30 average to 29.
	history := []models.CycleRecord{
		{StartDate: day(2026, time.June, 10), CycleLength: intPointer(29)},
		{StartDate: day(2026, time.May, 12), CycleLength: intPointer(28)},
		{StartDate: day(2026, time.April, 14), CycleLength: intPointer(30)},
	}

	prediction, err := PredictNextPeriod(history, time.UTC)
	if err != nil {
		t.Fatalf("PredictNextPeriod() unexpected error: %v", err)
	}
	if prediction.AverageCycleLength != 29 {
		t.Fatalf("AverageCycleLength = %d, want 29", prediction.AverageCycleLength)
	}
	if got, want := prediction.NextStart, day(2026, time.July, 9); !got.Equal(want) {
		t.Fatalf("NextStart = %v, want %v", got, want)
	}
	if prediction.Confidence != ConfidenceHigh {
		t.Fatalf("Confidence = %q, want %q", prediction.Confidence, ConfidenceHigh)
	}
	if prediction.BasedOnRecords != 3 {
		t.Fatalf("BasedOnRecords = %d, want 3", prediction.BasedOnRecords)
	}
}

func TestPredictNextPeriodTwoRecordsMediumConfidence(t *testing.T) {
	t.Parallel()

	history := []models.CycleRecord{
		{StartDate: day(2026, time.June, 8), CycleLength: intPointer(27)},
		{StartDate: day(2026, time.May, 12)},
	}

	prediction, err := PredictNextPeriod(history, time.UTC)
	if err != nil {
		t.Fatalf("PredictNextPeriod() unexpected error: %v", err)
	}
	if prediction.Confidence != ConfidenceMedium {
		t.Fatalf("Confidence = %q, want %q", prediction.Confidence, ConfidenceMedium)
	}
	if prediction.AverageCycleLength != 27 {
		t.Fatalf("AverageCycleLength = %d, want 27", prediction.AverageCycleLength)
	}
}

func TestPredictNextPeriodNoStampedLengthsFallsBack(t *testing.T) {
	t.Parallel()

	history := []models.CycleRecord{
		{StartDate: day(2026, time.June, 1)},
		{StartDate: day(2026, time.May, 1)},
	}

	prediction, err := PredictNextPeriod(history, time.UTC)
	if err != nil {
		t.Fatalf("PredictNextPeriod() unexpected error: %v", err)
	}
	if prediction.Confidence != ConfidenceLow {
		t.Fatalf("Confidence = %q, want %q", prediction.Confidence, ConfidenceLow)
	}
	if got, want := prediction.NextStart, day(2026, time.June, 29); !got.Equal(want) {
		t.Fatalf("NextStart = %v, want %v", got, want)
	}
}

func TestPredictNextPeriodCapsHistory(t *testing.T) {
	t.Parallel()

	history := make([]models.CycleRecord, 0, 8)
	start := day(2026, time.August, 1)
	for i := 0; i < 8; i++ {
		length := 28
		if i >= maxPredictionHistory {
			// Old outliers must not influence the average.
			length = 90
		}
		history = append(history, models.CycleRecord{
			StartDate:   start.AddDate(0, 0, -28*i),
			CycleLength: intPointer(length),
		})
	}

	prediction, err := PredictNextPeriod(history, time.UTC)
	if err != nil {
		t.Fatalf("PredictNextPeriod() unexpected error: %v", err)
	}
	if prediction.AverageCycleLength != 28 {
		t.Fatalf("AverageCycleLength = %d, want 28", prediction.AverageCycleLength)
	}
	if prediction.BasedOnRecords != maxPredictionHistory {
		t.Fatalf("BasedOnRecords = %d, want %d", prediction.BasedOnRecords, maxPredictionHistory)
	}
}

func TestComputeCycleLength(t *testing.T) {
	t.Parallel()

	preceding := &models.CycleRecord{StartDate: day(2026, time.May, 12)}
	length := ComputeCycleLength(day(2026, time.June, 10), preceding, time.UTC)
	if length == nil || *length != 29 {
		t.Fatalf("ComputeCycleLength() = %v, want 29", length)
	}

	if got := ComputeCycleLength(day(2026, time.June, 10), nil, time.UTC); got != nil {
		t.Fatalf("expected nil length without a preceding record, got %d", *got)
	}

	// A start on or before the preceding start yields no usable length.
	if got := ComputeCycleLength(day(2026, time.May, 12), preceding, time.UTC); got != nil {
		t.Fatalf("expected nil length for zero-day gap, got %d", *got)
	}
}

func TestComputeCycleLengthAcrossDSTTransition(t *testing.T) {
	t.Parallel()

	newYork, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	// The 2026-03-08 spring-forward day has only 23 hours; the calendar
	// day count must not lose a day to it.
	preceding := &models.CycleRecord{StartDate: time.Date(2026, time.February, 20, 0, 0, 0, 0, newYork)}
	length := ComputeCycleLength(time.Date(2026, time.March, 20, 0, 0, 0, 0, newYork), preceding, newYork)
	if length == nil || *length != 28 {
		t.Fatalf("ComputeCycleLength() across spring forward = %v, want 28", length)
	}

	// The 2026-11-01 fall-back day has 25 hours; the count must not gain
	// a day from it either.
	preceding = &models.CycleRecord{StartDate: time.Date(2026, time.October, 20, 0, 0, 0, 0, newYork)}
	length = ComputeCycleLength(time.Date(2026, time.November, 17, 0, 0, 0, 0, newYork), preceding, newYork)
	if length == nil || *length != 28 {
		t.Fatalf("ComputeCycleLength() across fall back = %v, want 28", length)
	}
}
