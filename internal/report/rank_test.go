package report_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vasiliy-maslov/ecommerce-microservices/report-service/internal/report"
)

type rankedRow struct {
	Value int
	Name  string
	Seq   int
}

func byValueDesc(a, b rankedRow) int { return b.Value - a.Value }

func byNameAsc(a, b rankedRow) int { return strings.Compare(a.Name, b.Name) }

func TestSortStable_TieBreaks(t *testing.T) {
	rows := []rankedRow{
		{Value: 10, Name: "beta", Seq: 0},
		{Value: 20, Name: "delta", Seq: 1},
		{Value: 10, Name: "alpha", Seq: 2},
		{Value: 20, Name: "delta", Seq: 3},
	}

	report.SortStable(rows, byValueDesc, byNameAsc)

	// Primary desc, secondary asc; the two identical delta rows keep their
	// original relative order.
	assert.Equal(t, []rankedRow{
		{Value: 20, Name: "delta", Seq: 1},
		{Value: 20, Name: "delta", Seq: 3},
		{Value: 10, Name: "alpha", Seq: 2},
		{Value: 10, Name: "beta", Seq: 0},
	}, rows)
}

func TestSortStable_NilSecondaryPreservesOrder(t *testing.T) {
	rows := []rankedRow{
		{Value: 5, Name: "b", Seq: 0},
		{Value: 5, Name: "a", Seq: 1},
	}

	report.SortStable(rows, byValueDesc, nil)

	assert.Equal(t, 0, rows[0].Seq)
	assert.Equal(t, 1, rows[1].Seq)
}

func TestTopN(t *testing.T) {
	rows := []rankedRow{{Value: 3}, {Value: 2}, {Value: 1}}

	tests := []struct {
		name    string
		n       int
		wantLen int
	}{
		{name: "zero", n: 0, wantLen: 0},
		{name: "negative", n: -1, wantLen: 0},
		{name: "fewer_than_available", n: 2, wantLen: 2},
		{name: "exact", n: 3, wantLen: 3},
		{name: "more_than_available", n: 10, wantLen: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := report.TopN(rows, tt.n)
			assert.Len(t, got, tt.wantLen)
			if tt.wantLen > 0 {
				assert.Equal(t, 3, got[0].Value, "truncation must keep the head of the sequence")
			}
		})
	}
}
