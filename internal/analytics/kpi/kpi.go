// Package kpi summarizes a store's orders over a time window.
package kpi

import (
	"math"
	"sort"
	"time"

	"github.com/smallbiznis/vitrine/internal/analytics/domain"
	orderdomain "github.com/smallbiznis/vitrine/internal/order/domain"
)

const topProductsLimit = 5

// WindowStart returns the first instant of the period ending at now. Today
// starts at midnight in now's location; the others step back calendar days,
// months or years.
func WindowStart(period domain.Period, now time.Time) time.Time {
	switch period {
	case domain.PeriodToday:
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	case domain.PeriodWeek:
		return now.AddDate(0, 0, -7)
	case domain.PeriodYear:
		return now.AddDate(-1, 0, 0)
	default:
		return now.AddDate(0, -1, 0)
	}
}

// Filter keeps the orders dated within [start, now].
func Filter(orders []orderdomain.Order, start, now time.Time) []orderdomain.Order {
	out := make([]orderdomain.Order, 0, len(orders))
	for _, o := range orders {
		if o.Date.Before(start) || o.Date.After(now) {
			continue
		}
		out = append(out, o)
	}
	return out
}

// Summarize computes the KPIs for the orders that fall in the period.
func Summarize(orders []orderdomain.Order, period domain.Period, now time.Time) domain.Summary {
	start := WindowStart(period, now)
	in := Filter(orders, start, now)

	var total int64
	for _, o := range in {
		total += o.Total
	}

	return domain.Summary{
		Period:        period,
		From:          start,
		To:            now,
		TotalSales:    total,
		OrderCount:    len(in),
		AverageTicket: AverageTicket(total, len(in)),
		TopProducts:   TopProducts(in, topProductsLimit),
	}
}

// AverageTicket is total / count rounded to the nearest centavo, or 0 when
// there are no orders.
func AverageTicket(total int64, count int) int64 {
	if count == 0 {
		return 0
	}
	return int64(math.Round(float64(total) / float64(count)))
}

// TopProducts sums item quantities by name and returns the best sellers.
// Ties keep the order in which names were first seen.
func TopProducts(orders []orderdomain.Order, limit int) []domain.TopProduct {
	index := make(map[string]int)
	ranked := make([]domain.TopProduct, 0)
	for _, o := range orders {
		for _, it := range o.Items {
			i, ok := index[it.Name]
			if !ok {
				i = len(ranked)
				index[it.Name] = i
				ranked = append(ranked, domain.TopProduct{Name: it.Name})
			}
			ranked[i].Quantity += it.Quantity
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Quantity > ranked[j].Quantity
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
