package selection

import (
	"github.com/sartorproj/welldecline/arima"
	"github.com/sartorproj/welldecline/stats"
)

// DefaultMaxSuggestedOrder caps the AR and MA orders read off a profile.
const DefaultMaxSuggestedOrder = 3

// Suggestion holds AR and MA orders read off an autocorrelation profile.
type Suggestion struct {
	P      int           `json:"p"` // end of the leading significant PACF run
	Q      int           `json:"q"` // end of the leading significant ACF run
	Orders []arima.Order `json:"orders"`
}

// SuggestOrder reads candidate orders from the ACF/PACF of a series that was
// differenced d times. A PACF that is significant at lags 1..k and then
// cuts off suggests AR(k); the ACF likewise suggests MA(k). Isolated
// significant lags past the first gap are ignored. Orders are
// capped at maxOrder (DefaultMaxSuggestedOrder when not positive). The
// suggestions are the AR-only, MA-only and combined orders, without
// duplicates.
func SuggestOrder(profile *stats.Profile, d, maxOrder int) Suggestion {
	if maxOrder <= 0 {
		maxOrder = DefaultMaxSuggestedOrder
	}

	p := min(leadingRun(profile.PACFSignif), maxOrder)
	q := min(leadingRun(profile.ACFSignif), maxOrder)

	s := Suggestion{P: p, Q: q}
	seen := make(map[arima.Order]bool)
	for _, o := range []arima.Order{{P: p, D: d}, {D: d, Q: q}, {P: p, D: d, Q: q}} {
		if seen[o] {
			continue
		}
		seen[o] = true
		s.Orders = append(s.Orders, o)
	}
	return s
}

// leadingRun returns k when lags 1..k are all present in the sorted list.
func leadingRun(lags []int) int {
	k := 0
	for _, lag := range lags {
		if lag != k+1 {
			break
		}
		k = lag
	}
	return k
}
