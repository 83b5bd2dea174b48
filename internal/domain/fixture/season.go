package fixture

import (
	"fmt"
	"time"
)

// CurrentSeason returns the provider-facing season label for a sport at
// a given instant. Football seasons are a single four-digit year rolling
// over in August; basketball seasons span two calendar years ("2025-2026")
// rolling over in October. Other sports use the calendar year.
func CurrentSeason(sport Sport, now time.Time) string {
	year := now.Year()
	switch sport {
	case SportFootball:
		if now.Month() < time.August {
			year--
		}
		return fmt.Sprintf("%d", year)
	case SportBasketball:
		if now.Month() < time.October {
			year--
		}
		return fmt.Sprintf("%d-%d", year, year+1)
	default:
		return fmt.Sprintf("%d", year)
	}
}
