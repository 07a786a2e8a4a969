package rfm

import (
	"strconv"
	"sync"
	"testing"
	"time"

	orderdomain "github.com/smallbiznis/vitrine/internal/order/domain"
	"github.com/smallbiznis/vitrine/internal/segmentation/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)

func order(phone, name string, daysAgo int, total int64) orderdomain.Order {
	return orderdomain.Order{
		CustomerPhone: phone,
		CustomerName:  name,
		Date:          now.AddDate(0, 0, -daysAgo),
		Total:         total,
		Status:        orderdomain.StatusCompleted,
	}
}

func TestComputeEmpty(t *testing.T) {
	got := Compute(nil, now)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestComputeSingleRecentOrderIsNew(t *testing.T) {
	got := Compute([]orderdomain.Order{order("5511", "Ana", 15, 15000)}, now)
	require.Len(t, got, 1)

	m := got[0]
	assert.Equal(t, 15, m.Recency)
	assert.Equal(t, 1, m.Frequency)
	assert.Equal(t, int64(15000), m.Monetary)
	assert.Equal(t, domain.SegmentNew, m.Segment)
}

func TestComputeFrequentHighSpenderIsChampion(t *testing.T) {
	orders := make([]orderdomain.Order, 0, 12)
	for i := 0; i < 12; i++ {
		orders = append(orders, order("5522", "Bruno", 5+i*20, 25000))
	}

	got := Compute(orders, now)
	require.Len(t, got, 1)
	assert.Equal(t, 5, got[0].Recency)
	assert.Equal(t, 12, got[0].OrderCount)
	assert.Equal(t, int64(300000), got[0].TotalSpent)
	assert.Equal(t, domain.SegmentChampions, got[0].Segment)
}

func TestComputeAggregatesPerPhone(t *testing.T) {
	orders := []orderdomain.Order{
		order("A", "Ana", 40, 1001),
		order("B", "Bia", 3, 2002),
		order("A", "Ana Maria", 2, 3003),
		order("C", "Caio", 200, 4004),
		order("A", "Ana", 90, 5005),
	}

	got := Compute(orders, now)
	require.Len(t, got, 3)

	assert.Equal(t, []string{"A", "B", "C"}, []string{got[0].Phone, got[1].Phone, got[2].Phone})
	assert.Equal(t, "Ana", got[0].Name)
	assert.Equal(t, 3, got[0].OrderCount)
	assert.Equal(t, int64(1001+3003+5005), got[0].TotalSpent)
	assert.True(t, got[0].LastOrderDate.Equal(now.AddDate(0, 0, -2)))
	assert.Equal(t, 2, got[0].Recency)
}

func TestRecencyDays(t *testing.T) {
	cases := []struct {
		name string
		last time.Time
		want int
	}{
		{name: "now", last: now, want: 0},
		{name: "one_second_ago", last: now.Add(-time.Second), want: 1},
		{name: "exactly_one_day", last: now.Add(-24 * time.Hour), want: 1},
		{name: "day_and_a_bit", last: now.Add(-25 * time.Hour), want: 2},
		{name: "future", last: now.Add(36 * time.Hour), want: 2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := RecencyDays(tc.last, now)
			assert.Equal(t, tc.want, got)
			assert.GreaterOrEqual(t, got, 0)
		})
	}
}

func TestScores(t *testing.T) {
	recency := map[int]int{0: 5, 30: 5, 31: 4, 60: 4, 61: 3, 90: 3, 91: 2, 120: 2, 121: 1}
	for in, want := range recency {
		assert.Equal(t, want, RecencyScore(in), "recency %d", in)
	}

	frequency := map[int]int{0: 1, 1: 1, 2: 2, 3: 2, 4: 3, 5: 3, 6: 4, 9: 4, 10: 5, 50: 5}
	for in, want := range frequency {
		assert.Equal(t, want, FrequencyScore(in), "frequency %d", in)
	}

	monetary := map[int64]int{0: 2, 20000: 2, 20001: 3, 50000: 3, 50001: 4, 100000: 4, 100001: 5}
	for in, want := range monetary {
		assert.Equal(t, want, MonetaryScore(in), "monetary %d", in)
	}

	assert.Equal(t, 2, CombinedScore(1, 2))
	assert.Equal(t, 4, CombinedScore(3, 4))
	assert.Equal(t, 5, CombinedScore(5, 5))
}

func TestClassifyRules(t *testing.T) {
	cases := []struct {
		name      string
		recency   int
		frequency int
		monetary  int64
		want      domain.Segment
	}{
		{name: "champions", recency: 10, frequency: 10, monetary: 200000, want: domain.SegmentChampions},
		{name: "loyal_recent_mid", recency: 10, frequency: 4, monetary: 30000, want: domain.SegmentLoyal},
		{name: "loyal_r3", recency: 80, frequency: 6, monetary: 60000, want: domain.SegmentLoyal},
		{name: "new", recency: 1, frequency: 1, monetary: 100, want: domain.SegmentNew},
		{name: "at_risk", recency: 150, frequency: 10, monetary: 200000, want: domain.SegmentAtRisk},
		{name: "lost", recency: 150, frequency: 1, monetary: 100, want: domain.SegmentLost},
		{name: "needs_attention_r3_low", recency: 75, frequency: 1, monetary: 100, want: domain.SegmentNeedsAttention},
		{name: "needs_attention_r2_mid", recency: 100, frequency: 4, monetary: 30000, want: domain.SegmentNeedsAttention},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.recency, tc.frequency, tc.monetary))
		})
	}
}

func TestClassifyPartitionsInputSpace(t *testing.T) {
	valid := make(map[domain.Segment]bool, len(domain.Segments))
	for _, s := range domain.Segments {
		valid[s] = true
	}

	seen := make(map[domain.Segment]bool)
	for r := 0; r <= 200; r += 5 {
		for f := 0; f <= 12; f++ {
			for _, m := range []int64{0, 20001, 50001, 100001} {
				got := Classify(r, f, m)
				assert.True(t, valid[got], "r=%d f=%d m=%d", r, f, m)
				assert.Equal(t, got, Classify(r, f, m))
				seen[got] = true
			}
		}
	}
	assert.Len(t, seen, len(domain.Segments))
}

func TestGroupKeepsAllSegmentsInDisplayOrder(t *testing.T) {
	metrics := []domain.CustomerMetric{
		{Phone: "1", Segment: domain.SegmentLost},
		{Phone: "2", Segment: domain.SegmentChampions},
		{Phone: "3", Segment: domain.SegmentLost},
	}

	groups := Group(metrics)
	require.Len(t, groups, 6)

	order := make([]domain.Segment, 0, len(groups))
	for _, g := range groups {
		order = append(order, g.Segment)
		assert.NotNil(t, g.Customers)
	}
	assert.Equal(t, domain.Segments, order)
	assert.Len(t, groups[0].Customers, 1)
	assert.Len(t, groups[5].Customers, 2)
	assert.Equal(t, "1", groups[5].Customers[0].Phone)
}

func TestComputeDoesNotMutateInput(t *testing.T) {
	orders := []orderdomain.Order{order("A", "Ana", 1, 100)}
	snapshot := strconv.FormatInt(orders[0].Total, 10) + orders[0].CustomerName

	_ = Compute(orders, now)
	assert.Equal(t, snapshot, strconv.FormatInt(orders[0].Total, 10)+orders[0].CustomerName)
}

func TestComputeConcurrentCallersShareInput(t *testing.T) {
	orders := make([]orderdomain.Order, 0, 60)
	for i := 0; i < 60; i++ {
		phone := "55" + strconv.Itoa(i%12)
		orders = append(orders, order(phone, "Cliente "+phone, i*3, int64(1000+i*250)))
	}
	snapshot := make([]orderdomain.Order, len(orders))
	for i := range orders {
		snapshot[i] = orders[i].Clone()
	}
	want := Compute(orders, now)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				got := Compute(orders, now)
				assert.Equal(t, want, got)
				assert.Len(t, Group(got), len(Group(want)))
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, snapshot, orders)
}
