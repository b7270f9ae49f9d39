package x

import (
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/bep/debounce"
)

// Debounce returns a function that delays invoking its callback until
// wait has elapsed since the last call. Successive calls replace the
// pending callback.
func Debounce(wait time.Duration) func(f func()) {
	return debounce.New(wait)
}

// Throttle returns a wrapper that invokes f at most once per interval.
// Calls inside the window are dropped, matching scroll-handler
// throttling semantics (trailing calls are not replayed).
func Throttle(interval time.Duration, f func()) func() {
	var mu sync.Mutex
	var last time.Time
	return func() {
		mu.Lock()
		now := time.Now()
		if now.Sub(last) < interval {
			mu.Unlock()
			return
		}
		last = now
		mu.Unlock()
		f()
	}
}

// FormatNumber renders a number with the given decimal places, decimal
// separator and thousands separator.
//
//	FormatNumber(1234567.891, 2, ",", " ")  // "1 234 567,89"
func FormatNumber(n float64, decimals int, decimal, thousands string) string {
	s := strconv.FormatFloat(n, 'f', decimals, 64)

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, fracPart, hasFrac := strings.Cut(s, ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteString(thousands)
		}
		b.WriteRune(r)
	}
	if hasFrac {
		b.WriteString(decimal)
		b.WriteString(fracPart)
	}
	return b.String()
}

// Price formats a number as a price with two decimals, space-grouped
// thousands and a comma decimal separator.
func Price(n float64) string {
	return FormatNumber(n, 2, ",", " ")
}

// Plural picks the grammatical form for n from [one, few, many], using
// the slavic plural rule (1 товар, 2 товара, 5 товаров). Forms that
// also fit english-style pairs work by passing the same few and many.
func Plural(n int, one, few, many string) string {
	if n < 0 {
		n = -n
	}
	switch {
	case n%100 >= 11 && n%100 <= 14:
		return many
	case n%10 == 1:
		return one
	case n%10 >= 2 && n%10 <= 4:
		return few
	default:
		return many
	}
}
