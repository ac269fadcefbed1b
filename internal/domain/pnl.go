package domain

import "math"

// IsLoss classifies a closed trade by comparing exit and entry for the given
// direction: a long loses when it exits below entry, a short loses when it
// exits above entry. Equal prices classify as not-a-loss for both directions.
func IsLoss(entryPrice, exitPrice float64, position Position) bool {
	if position == PositionShort {
		return exitPrice > entryPrice
	}
	return exitPrice < entryPrice
}

// SignedPnL applies the direction-derived sign to a user-supplied unsigned
// magnitude. The user enters how large the gain or loss was; the prices and
// direction decide whether it counts against the account.
func SignedPnL(entryPrice, exitPrice, magnitude float64, position Position) float64 {
	if IsLoss(entryPrice, exitPrice, position) {
		return -math.Abs(magnitude)
	}
	return math.Abs(magnitude)
}

// DeltaPnL is the plain signed price delta: exit minus entry for longs,
// entry minus exit for shorts. The quick journal entry flow uses this rule;
// the detailed form uses SignedPnL. The two are intentionally distinct.
func DeltaPnL(entryPrice, exitPrice float64, position Position) float64 {
	if position == PositionShort {
		return entryPrice - exitPrice
	}
	return exitPrice - entryPrice
}
