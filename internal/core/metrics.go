package core

import (
	"math"
	"strconv"
)

// StreakMilestones is the fixed ascending milestone ladder, in days.
var StreakMilestones = []int{7, 15, 30, 60, 100}

// Health score band thresholds. Fixed constants, never derived from data.
const (
	healthExcellentMin = 80
	healthGoodMin      = 60
)

type (
	// Change is a month-over-month percentage delta. Positive means spending
	// went down, which the UI treats as the good outcome.
	Change struct {
		Percent  float64 // one decimal place
		Positive bool
	}

	// CategoryShare is one category's slice of total spend.
	CategoryShare struct {
		Category   string
		Amount     int64
		Percentage float64 // one decimal place
	}

	// StreakStatus describes progress toward the next milestone.
	StreakStatus struct {
		NextMilestone int
		Percent       int
	}

	// Band is a qualitative health score classification.
	Band struct {
		Label      string
		ColorClass string
	}

	// BadgeCounts partitions a badge list into earned and total.
	BadgeCounts struct {
		Earned int
		Total  int
	}
)

// TotalAmount sums transaction amounts. Empty input totals zero.
func TotalAmount(transactions []Transaction) int64 {
	var sum int64
	for _, t := range transactions {
		sum += t.Amount
	}
	return sum
}

// AverageAmount is the mean amount rounded to the nearest rupee, zero for an
// empty list.
func AverageAmount(transactions []Transaction) int64 {
	if len(transactions) == 0 {
		return 0
	}
	total := TotalAmount(transactions)
	return int64(math.Round(float64(total) / float64(len(transactions))))
}

// PercentageChange computes (current-previous)/previous*100 rounded to one
// decimal. A negative raw change (spending decreased) is reported as Positive.
// ok is false when previous is zero; callers must render "no data" instead of
// propagating a non-finite value.
func PercentageChange(current, previous int64) (Change, bool) {
	if previous == 0 {
		return Change{}, false
	}
	raw := float64(current-previous) / float64(previous) * 100
	pct := round1(raw)
	return Change{Percent: pct, Positive: raw < 0}, true
}

// CategoryPercentages derives each category's share of the total spend,
// rounded to one decimal. ok is false when the total is zero.
func CategoryPercentages(breakdown []CategoryBreakdown) ([]CategoryShare, bool) {
	var total int64
	for _, b := range breakdown {
		total += b.Amount
	}
	if total == 0 {
		return nil, false
	}
	shares := make([]CategoryShare, 0, len(breakdown))
	for _, b := range breakdown {
		shares = append(shares, CategoryShare{
			Category:   b.Category,
			Amount:     b.Amount,
			Percentage: round1(float64(b.Amount) / float64(total) * 100),
		})
	}
	return shares, true
}

// StreakProgress finds the first milestone strictly greater than the streak,
// falling back to the last milestone when the streak has passed them all.
// Percent is intentionally not clamped: a streak beyond the final milestone
// reports more than 100.
func StreakProgress(streak int) StreakStatus {
	next := StreakMilestones[len(StreakMilestones)-1]
	for _, m := range StreakMilestones {
		if m > streak {
			next = m
			break
		}
	}
	return StreakStatus{
		NextMilestone: next,
		Percent:       int(math.Round(float64(streak) / float64(next) * 100)),
	}
}

// HealthBand classifies a 0-100 health score.
func HealthBand(score int) Band {
	switch {
	case score >= healthExcellentMin:
		return Band{Label: "Excellent", ColorClass: "success"}
	case score >= healthGoodMin:
		return Band{Label: "Good", ColorClass: "warning"}
	default:
		return Band{Label: "Needs Attention", ColorClass: "danger"}
	}
}

// BadgeSummary counts earned badges. Order of the input is irrelevant.
func BadgeSummary(badges []Badge) BadgeCounts {
	earned := 0
	for _, b := range badges {
		if b.Earned {
			earned++
		}
	}
	return BadgeCounts{Earned: earned, Total: len(badges)}
}

// BarWidths scales breakdown amounts against the largest category for
// progress-bar rendering. Widths are rounded percents of the max, floored at 2
// for visibility and capped at 100.
func BarWidths(breakdown []CategoryBreakdown) []int {
	var max int64
	for _, b := range breakdown {
		if b.Amount > max {
			max = b.Amount
		}
	}
	widths := make([]int, len(breakdown))
	if max == 0 {
		return widths
	}
	for i, b := range breakdown {
		if b.Amount <= 0 {
			continue
		}
		w := int((b.Amount*100 + max/2) / max)
		if w < 2 {
			w = 2
		}
		if w > 100 {
			w = 100
		}
		widths[i] = w
	}
	return widths
}

// FormatRupees renders a whole-rupee amount with thousands grouping and the
// currency sign, e.g. 12450 -> "₹12,450".
func FormatRupees(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	digits := strconv.FormatInt(amount, 10)
	var out []byte
	for i, d := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, d)
	}
	if neg {
		return "-₹" + string(out)
	}
	return "₹" + string(out)
}

// FormatPercent renders a one-decimal percentage, e.g. -18.1 -> "18.1%".
// The sign is dropped; direction is carried by Change.Positive.
func FormatPercent(pct float64) string {
	return strconv.FormatFloat(math.Abs(pct), 'f', 1, 64) + "%"
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
