package services

import (
	"time"

	"callforscience/models"
	"callforscience/utils"
)

var testNow = time.Date(2026, time.October, 18, 12, 0, 0, 0, time.UTC)

func newTestLogger() *utils.Logger { return utils.NewNopLogger() }

// listing builds an open Q1 listing; override fields on the result.
func listing(journal string) *models.Listing {
	return &models.Listing{
		Journal:     journal,
		CFPName:     "CFP " + journal,
		Topics:      "biología; química",
		TopicsEN:    "biology; chemistry",
		Quartile:    "Q1",
		Abstract:    "Sí",
		Fee:         "500",
		FeeAmount:   500,
		FeeKnown:    true,
		DeadlineRaw: "31/12/2099",
		Deadline:    time.Date(2099, time.December, 31, 0, 0, 0, 0, time.UTC),
		Link:        "http://x",
	}
}

func journals(ls []*models.Listing) []string {
	out := make([]string, len(ls))
	for i, l := range ls {
		out[i] = l.Journal
	}
	return out
}

func feePtr(v float64) *float64 { return &v }
