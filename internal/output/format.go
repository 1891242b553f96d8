package output

import (
	"fmt"
	"strconv"
)

// FormatStat formats a per-game or rate statistic to one decimal place.
func FormatStat(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// FormatPercentage formats a 0-100 percentage, e.g. "47.5%".
func FormatPercentage(pct float64) string {
	return FormatStat(pct) + "%"
}

// FormatDiff formats a signed difference, e.g. "+12", "-3", or "0".
func FormatDiff(d int) string {
	if d > 0 {
		return fmt.Sprintf("+%d", d)
	}
	return strconv.Itoa(d)
}

// FormatGamesBehind formats games behind the leader. The leader is shown as
// "-".
func FormatGamesBehind(gb float64) string {
	if gb == 0 {
		return "-"
	}
	return FormatStat(gb)
}

// FormatRank formats a rank, showing unranked (zero) as "-".
func FormatRank(r int) string {
	if r == 0 {
		return "-"
	}
	return strconv.Itoa(r)
}
