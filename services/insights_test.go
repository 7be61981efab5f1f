package services

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"callforscience/models"
)

func insightListings() []*models.Listing {
	a := listing("A")
	a.Deadline = time.Date(2027, 3, 1, 0, 0, 0, 0, time.UTC)
	a.DeadlineRaw = "01/03/2027"

	b := listing("B")
	b.Quartile = "Q2"
	b.Abstract = "No"
	b.Fee, b.FeeAmount = "1000", 1000

	c := listing("C")
	c.Fee, c.FeeAmount, c.FeeKnown = "gratis", 0, false
	c.Deadline = time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	c.DeadlineRaw = "01/11/2026"

	expired := listing("Old")
	expired.Deadline = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	expired.FeeAmount = 99999

	return []*models.Listing{a, b, c, expired}
}

func TestInsightCounts(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	quarantined := []*models.Quarantined{{Line: 7, Reason: "empty topics"}}

	r := svc.Generate(5, insightListings(), quarantined, testNow)
	assert.Equal(t, 5, r.TotalRows)
	assert.Equal(t, 3, r.OpenListings)
	assert.Equal(t, 1, r.Expired)
	assert.Equal(t, 1, r.Quarantined)
	assert.Equal(t, 2, r.AbstractOnly)
	assert.Equal(t, map[string]int{"Q1": 2, "Q2": 1}, r.ByQuartile)
}

func TestInsightFeesIgnoreUnknownAndExpired(t *testing.T) {
	r := NewInsightService(newTestLogger()).Generate(4, insightListings(), nil, testNow)
	assert.Equal(t, 2, r.FeesKnown)
	assert.Equal(t, 500.0, r.MinFee)
	assert.Equal(t, 1000.0, r.MaxFee)
	assert.Equal(t, 750.0, r.AverageFee)
}

func TestInsightNearestDeadline(t *testing.T) {
	r := NewInsightService(newTestLogger()).Generate(4, insightListings(), nil, testNow)
	require.NotNil(t, r.NearestDeadline)
	assert.Equal(t, "C", r.NearestDeadline.Journal)
}

func TestInsightEmpty(t *testing.T) {
	r := NewInsightService(newTestLogger()).Generate(0, nil, nil, testNow)
	assert.Zero(t, r.OpenListings)
	assert.Zero(t, r.AverageFee)
	assert.Nil(t, r.NearestDeadline)

	var buf bytes.Buffer
	NewInsightService(newTestLogger()).Print(&buf, r)
	assert.Contains(t, buf.String(), "No fee data available")
	assert.Contains(t, buf.String(), "No quartile data")
}

func TestInsightPrint(t *testing.T) {
	svc := NewInsightService(newTestLogger())
	r := svc.Generate(4, insightListings(), nil, testNow)

	var buf bytes.Buffer
	svc.Print(&buf, r)
	out := buf.String()

	assert.Contains(t, out, "$750.00")
	assert.Contains(t, out, "CFP C")
	assert.Contains(t, out, "01/11/2026")
	assert.True(t, strings.Contains(out, "Q1") && strings.Contains(out, "Q2"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "revis...", truncate("revistaciencia", 8))
	assert.Equal(t, "bio...", truncate("biologíaaaa", 6))
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{12.3456, 12.35},
		{12.3412, 12.34},
		{-12.3456, -12.35},
		{-0.004, 0},
		{750, 750},
	}
	for _, tt := range tests {
		if got := round2(tt.in); got != tt.want {
			t.Errorf("round2(%v) = %v; want %v", tt.in, got, tt.want)
		}
	}
	assert.InEpsilon(t, 1e300, round2(1e300), 1e-9)
}

func TestInsightHugeFeeKeepsOrder(t *testing.T) {
	huge := listing("Huge")
	huge.Fee, huge.FeeAmount = "1e300", 1e300

	r := NewInsightService(newTestLogger()).Generate(2, []*models.Listing{listing("A"), huge}, nil, testNow)
	assert.Equal(t, 500.0, r.MinFee)
	assert.InEpsilon(t, 1e300, r.MaxFee, 1e-9)
	assert.Greater(t, r.AverageFee, r.MinFee)
}
