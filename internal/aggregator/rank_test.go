package aggregator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/screenhub/internal/screener"
)

func TestTopKDescendingMissingFieldSortsLast(t *testing.T) {
	agg := newTestAggregator()

	stocks := []screener.Record{
		{"ticker": "A", "marketCap": 100.0},
		{"ticker": "B"},
		{"ticker": "C", "marketCap": 50.0},
	}

	top := agg.TopK(stocks, 2, "marketCap", true)

	assert.Equal(t, []string{"A", "C"}, tickersOf(top))
}

func TestTopKAscendingMissingFieldSortsLast(t *testing.T) {
	agg := newTestAggregator()

	stocks := []screener.Record{
		{"ticker": "A", "peRatio": 30.0},
		{"ticker": "B"},
		{"ticker": "C", "peRatio": 10.0},
	}

	top := agg.TopK(stocks, 3, "peRatio", false)

	// Missing field sorts to the worst end in either direction
	assert.Equal(t, []string{"C", "A", "B"}, tickersOf(top))
}

func TestTopKStableTies(t *testing.T) {
	agg := newTestAggregator()

	stocks := []screener.Record{
		{"ticker": "FIRST", "marketCap": 100.0},
		{"ticker": "SECOND", "marketCap": 100.0},
		{"ticker": "THIRD", "marketCap": 100.0},
	}

	top := agg.TopK(stocks, 3, "marketCap", true)

	assert.Equal(t, []string{"FIRST", "SECOND", "THIRD"}, tickersOf(top))
}

func TestTopKBounds(t *testing.T) {
	agg := newTestAggregator()

	stocks := []screener.Record{
		{"ticker": "A", "marketCap": 1.0},
		{"ticker": "B", "marketCap": 2.0},
	}

	assert.Empty(t, agg.TopK(stocks, 0, "marketCap", true))
	assert.Empty(t, agg.TopK(stocks, -3, "marketCap", true))
	assert.Len(t, agg.TopK(stocks, 10, "marketCap", true), 2)
}

func TestTopKDoesNotMutateInput(t *testing.T) {
	agg := newTestAggregator()

	stocks := []screener.Record{
		{"ticker": "A", "marketCap": 1.0},
		{"ticker": "B", "marketCap": 2.0},
	}

	agg.TopK(stocks, 2, "marketCap", true)

	assert.Equal(t, "A", stocks[0]["ticker"], "input order must be preserved")
}
