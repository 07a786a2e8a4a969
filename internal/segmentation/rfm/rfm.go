// Package rfm scores customers by recency, frequency and monetary value and
// assigns each one a segment.
package rfm

import (
	"time"

	orderdomain "github.com/smallbiznis/vitrine/internal/order/domain"
	"github.com/smallbiznis/vitrine/internal/segmentation/domain"
)

const day = 24 * time.Hour

// Monetary thresholds in centavos.
const (
	monetaryTop  int64 = 100000
	monetaryHigh int64 = 50000
	monetaryMid  int64 = 20000
)

// Compute returns one metric per distinct customer phone, in the order each
// phone first appears in orders.
func Compute(orders []orderdomain.Order, now time.Time) []domain.CustomerMetric {
	if len(orders) == 0 {
		return []domain.CustomerMetric{}
	}

	index := make(map[string]int, len(orders))
	metrics := make([]domain.CustomerMetric, 0)
	for _, o := range orders {
		i, ok := index[o.CustomerPhone]
		if !ok {
			i = len(metrics)
			index[o.CustomerPhone] = i
			metrics = append(metrics, domain.CustomerMetric{
				Phone:         o.CustomerPhone,
				Name:          o.CustomerName,
				LastOrderDate: o.Date,
			})
		}

		m := &metrics[i]
		m.TotalSpent += o.Total
		m.OrderCount++
		if o.Date.After(m.LastOrderDate) {
			m.LastOrderDate = o.Date
		}
	}

	for i := range metrics {
		m := &metrics[i]
		m.Recency = RecencyDays(m.LastOrderDate, now)
		m.Frequency = m.OrderCount
		m.Monetary = m.TotalSpent
		m.Segment = Classify(m.Recency, m.Frequency, m.Monetary)
	}
	return metrics
}

// RecencyDays is the whole number of days between last and now, rounded up.
// Orders dated after now count by their absolute distance.
func RecencyDays(last, now time.Time) int {
	d := now.Sub(last)
	if d < 0 {
		d = -d
	}
	days := int(d / day)
	if d%day != 0 {
		days++
	}
	return days
}

func RecencyScore(recency int) int {
	switch {
	case recency <= 30:
		return 5
	case recency <= 60:
		return 4
	case recency <= 90:
		return 3
	case recency <= 120:
		return 2
	default:
		return 1
	}
}

func FrequencyScore(frequency int) int {
	switch {
	case frequency >= 10:
		return 5
	case frequency >= 6:
		return 4
	case frequency >= 4:
		return 3
	case frequency >= 2:
		return 2
	default:
		return 1
	}
}

// MonetaryScore never goes below 2.
func MonetaryScore(monetary int64) int {
	switch {
	case monetary > monetaryTop:
		return 5
	case monetary > monetaryHigh:
		return 4
	case monetary > monetaryMid:
		return 3
	default:
		return 2
	}
}

// CombinedScore is the ceiling of the mean of the frequency and monetary
// scores.
func CombinedScore(f, m int) int {
	return (f + m + 1) / 2
}

// Classify applies the segment rules; the first matching rule wins.
func Classify(recency, frequency int, monetary int64) domain.Segment {
	r := RecencyScore(recency)
	c := CombinedScore(FrequencyScore(frequency), MonetaryScore(monetary))

	switch {
	case r >= 4 && c >= 4:
		return domain.SegmentChampions
	case r >= 3 && c >= 3:
		return domain.SegmentLoyal
	case r >= 4 && c <= 2:
		return domain.SegmentNew
	case r <= 2 && c >= 4:
		return domain.SegmentAtRisk
	case r <= 2 && c <= 2:
		return domain.SegmentLost
	default:
		return domain.SegmentNeedsAttention
	}
}

// Group buckets metrics by segment. Every segment is present, in display
// order, even when empty.
func Group(metrics []domain.CustomerMetric) []domain.Group {
	bySegment := make(map[domain.Segment][]domain.CustomerMetric, len(domain.Segments))
	for _, m := range metrics {
		bySegment[m.Segment] = append(bySegment[m.Segment], m)
	}

	groups := make([]domain.Group, 0, len(domain.Segments))
	for _, s := range domain.Segments {
		customers := bySegment[s]
		if customers == nil {
			customers = []domain.CustomerMetric{}
		}
		groups = append(groups, domain.Group{Segment: s, Customers: customers})
	}
	return groups
}
