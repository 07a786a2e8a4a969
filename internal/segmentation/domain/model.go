package domain

import "time"

// Segment is a customer bucket derived from recency, frequency and monetary
// scores.
type Segment string

const (
	SegmentChampions      Segment = "champions"
	SegmentLoyal          Segment = "loyal"
	SegmentNeedsAttention Segment = "needs_attention"
	SegmentNew            Segment = "new"
	SegmentAtRisk         Segment = "at_risk"
	SegmentLost           Segment = "lost"
)

// Segments lists every segment in display order.
var Segments = []Segment{
	SegmentChampions,
	SegmentLoyal,
	SegmentNeedsAttention,
	SegmentNew,
	SegmentAtRisk,
	SegmentLost,
}

var segmentLabels = map[Segment]string{
	SegmentChampions:      "Campeões",
	SegmentLoyal:          "Leais",
	SegmentNeedsAttention: "Precisam de Atenção",
	SegmentNew:            "Novos",
	SegmentAtRisk:         "Em Risco",
	SegmentLost:           "Perdidos",
}

var segmentDescriptions = map[Segment]string{
	SegmentChampions:      "Compram frequentemente e gastam muito. Mime-os!",
	SegmentLoyal:          "Compram com regularidade. Tente aumentar o ticket.",
	SegmentNeedsAttention: "Recência e frequência médias.",
	SegmentNew:            "Primeira compra recente. Crie relacionamento.",
	SegmentAtRisk:         "Bons clientes que pararam de comprar. Reative-os!",
	SegmentLost:           "Não compram há muito tempo e gastaram pouco.",
}

func (s Segment) Label() string       { return segmentLabels[s] }
func (s Segment) Description() string { return segmentDescriptions[s] }

// CustomerMetric is derived per distinct customer phone and never stored.
// Money is in centavos.
type CustomerMetric struct {
	Phone         string
	Name          string
	LastOrderDate time.Time
	TotalSpent    int64
	OrderCount    int
	Recency       int
	Frequency     int
	Monetary      int64
	Segment       Segment
}

// Group is one segment with its customers.
type Group struct {
	Segment   Segment
	Customers []CustomerMetric
}
