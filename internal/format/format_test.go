package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBRL(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{cents: 0, want: "R$ 0,00"},
		{cents: 2990, want: "R$ 29,90"},
		{cents: 5, want: "R$ 0,05"},
		{cents: 123456, want: "R$ 1.234,56"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, BRL(tc.cents))
	}
}

func TestDates(t *testing.T) {
	ts := time.Date(2024, time.March, 5, 14, 7, 0, 0, time.UTC)

	assert.Equal(t, "05/03/2024", Date(ts))
	assert.Equal(t, "05/03/2024 14:07", DateTime(ts))
	assert.Equal(t, "2024-03-05T14:07:00Z", ISO(ts))
}
