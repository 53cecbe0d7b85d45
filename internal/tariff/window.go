package tariff

// RateWindow prices consumption that falls within a daily clock-time interval.
// The Start and End of a Default window are ignored: it catches every reading
// no other window claims.
type RateWindow struct {
	Label   string
	Start   ClockTime
	End     ClockTime
	Rate    float64
	Default bool
}

// Wraps reports whether the window crosses midnight. A window whose start
// equals its end wraps and covers the whole day.
func (w RateWindow) Wraps() bool {
	return !w.Start.Before(w.End)
}

// Contains reports whether t falls in the window: start inclusive, end exclusive.
// Default windows contain nothing on their own.
func (w RateWindow) Contains(t ClockTime) bool {
	if w.Default {
		return false
	}
	if w.Wraps() {
		return !t.Before(w.Start) || t.Before(w.End)
	}
	return !t.Before(w.Start) && t.Before(w.End)
}

// MatchWindow returns the window that prices consumption at t.
//
// Non-default windows are tried in declaration order and the first that
// contains t wins, so overlapping windows resolve to the earlier one. When
// none matches, the default window is used if the list has one; otherwise
// ok is false.
func MatchWindow(t ClockTime, windows []RateWindow) (RateWindow, bool) {
	for _, w := range windows {
		if w.Contains(t) {
			return w, true
		}
	}
	for _, w := range windows {
		if w.Default {
			return w, true
		}
	}
	return RateWindow{}, false
}
