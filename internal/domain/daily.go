package domain

import (
	"sort"
	"time"
)

// AggregateDaily groups trades into per-date P&L buckets by exact date-string
// equality. Buckets appear in order of first occurrence; the input slice is
// never mutated.
func AggregateDaily(trades []Trade) []DailyPnL {
	series := make([]DailyPnL, 0, len(trades))
	index := make(map[string]int, len(trades))

	for _, trade := range trades {
		if i, ok := index[trade.Date]; ok {
			series[i].PnL += trade.PnL
			continue
		}
		index[trade.Date] = len(series)
		series = append(series, DailyPnL{Date: trade.Date, PnL: trade.PnL})
	}

	return series
}

// SortDaily returns a copy of the series sorted by date ascending. Dates use
// DateLayout, so lexicographic order is chronological order.
func SortDaily(series []DailyPnL) []DailyPnL {
	sorted := make([]DailyPnL, len(series))
	copy(sorted, series)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date < sorted[j].Date
	})
	return sorted
}

// Summarize derives the dashboard statistics from a daily series. WinRate is
// the percentage of days with positive P&L, 0 for an empty series. DayCount
// counts distinct trading days rather than raw trade volume.
func Summarize(series []DailyPnL) Summary {
	var total float64
	var winningDays int
	for _, day := range series {
		total += day.PnL
		if day.PnL > 0 {
			winningDays++
		}
	}

	winRate := 0.0
	if len(series) > 0 {
		winRate = float64(winningDays) / float64(len(series)) * 100
	}

	return Summary{
		TotalPnL: total,
		WinRate:  winRate,
		DayCount: len(series),
	}
}

// BalanceCurve folds a date-sorted daily series into a running balance,
// starting from the given opening balance.
func BalanceCurve(series []DailyPnL, opening float64) []BalancePoint {
	points := make([]BalancePoint, 0, len(series))
	balance := opening
	for _, day := range series {
		balance += day.PnL
		points = append(points, BalancePoint{Date: day.Date, Balance: balance})
	}
	return points
}

// MonthGrid builds one calendar cell per day of the given month, merging in
// the daily P&L where a bucket exists for that date.
func MonthGrid(year int, month time.Month, series []DailyPnL) []CalendarDay {
	byDate := make(map[string]float64, len(series))
	for _, day := range series {
		byDate[day.Date] = day.PnL
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	days := make([]CalendarDay, 0, 31)
	for d := first; d.Month() == month; d = d.AddDate(0, 0, 1) {
		date := d.Format(DateLayout)
		pnl, traded := byDate[date]
		days = append(days, CalendarDay{
			Date:      date,
			Day:       d.Day(),
			Weekday:   d.Weekday(),
			PnL:       pnl,
			HasTrades: traded,
		})
	}
	return days
}
