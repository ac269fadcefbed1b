package domain

import (
	"math"
	"testing"
	"time"
)

func TestAggregateDailyMergesSameDate(t *testing.T) {
	trades := []Trade{
		{ID: "a", Date: "2025-03-10", PnL: 4.00},
		{ID: "b", Date: "2025-03-10", PnL: -1.50},
		{ID: "c", Date: "2025-03-11", PnL: 2.00},
	}

	series := AggregateDaily(trades)

	if len(series) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(series))
	}
	if series[0].Date != "2025-03-10" || series[0].PnL != 2.50 {
		t.Fatalf("unexpected first bucket: %+v", series[0])
	}
	if series[1].Date != "2025-03-11" || series[1].PnL != 2.00 {
		t.Fatalf("unexpected second bucket: %+v", series[1])
	}
}

func TestAggregateDailyIsPure(t *testing.T) {
	trades := []Trade{
		{ID: "a", Date: "2025-03-10", PnL: 4.00},
		{ID: "b", Date: "2025-03-12", PnL: -1.50},
		{ID: "c", Date: "2025-03-10", PnL: 1.25},
	}

	first := AggregateDaily(trades)
	second := AggregateDaily(trades)

	if len(first) != len(second) {
		t.Fatalf("repeated aggregation diverged: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("repeated aggregation diverged at %d: %+v vs %+v", i, first[i], second[i])
		}
	}

	var tradeSum, bucketSum float64
	for _, trade := range trades {
		tradeSum += trade.PnL
	}
	for _, day := range first {
		bucketSum += day.PnL
	}
	if math.Abs(tradeSum-bucketSum) > 1e-9 {
		t.Fatalf("bucket sum %f does not match trade sum %f", bucketSum, tradeSum)
	}
}

func TestSummarize(t *testing.T) {
	series := []DailyPnL{
		{Date: "2025-03-10", PnL: 5},
		{Date: "2025-03-11", PnL: -2},
		{Date: "2025-03-12", PnL: 3},
	}

	summary := Summarize(series)

	if summary.TotalPnL != 6 {
		t.Fatalf("expected total +6, got %f", summary.TotalPnL)
	}
	if math.Abs(summary.WinRate-66.666666) > 0.001 {
		t.Fatalf("expected win rate ~66.7, got %f", summary.WinRate)
	}
	if summary.DayCount != 3 {
		t.Fatalf("expected 3 days, got %d", summary.DayCount)
	}
}

func TestSummarizeEmptySeries(t *testing.T) {
	summary := Summarize(nil)
	if summary.WinRate != 0 || summary.TotalPnL != 0 || summary.DayCount != 0 {
		t.Fatalf("empty series should summarize to zeros, got %+v", summary)
	}
}

func TestSortDailyLeavesInputUntouched(t *testing.T) {
	series := []DailyPnL{
		{Date: "2025-03-12", PnL: 1},
		{Date: "2025-03-10", PnL: 2},
	}

	sorted := SortDaily(series)

	if sorted[0].Date != "2025-03-10" || sorted[1].Date != "2025-03-12" {
		t.Fatalf("unexpected order: %+v", sorted)
	}
	if series[0].Date != "2025-03-12" {
		t.Fatalf("input was mutated: %+v", series)
	}
}

func TestBalanceCurve(t *testing.T) {
	series := []DailyPnL{
		{Date: "2025-03-10", PnL: 10},
		{Date: "2025-03-11", PnL: -4},
	}

	points := BalanceCurve(series, 10000)

	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}
	if points[0].Balance != 10010 {
		t.Fatalf("expected first balance 10010, got %f", points[0].Balance)
	}
	if points[1].Balance != 10006 {
		t.Fatalf("expected second balance 10006, got %f", points[1].Balance)
	}
}

func TestMonthGrid(t *testing.T) {
	series := []DailyPnL{
		{Date: "2025-02-14", PnL: 7.5},
	}

	grid := MonthGrid(2025, time.February, series)

	if len(grid) != 28 {
		t.Fatalf("february 2025 should have 28 cells, got %d", len(grid))
	}
	if grid[0].Date != "2025-02-01" || grid[0].Weekday != time.Saturday {
		t.Fatalf("unexpected first cell: %+v", grid[0])
	}

	cell := grid[13]
	if cell.Date != "2025-02-14" || !cell.HasTrades || cell.PnL != 7.5 {
		t.Fatalf("traded day not merged into grid: %+v", cell)
	}
	if grid[14].HasTrades || grid[14].PnL != 0 {
		t.Fatalf("untraded day should be empty: %+v", grid[14])
	}
}
