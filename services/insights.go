package services

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"callforscience/models"
	"callforscience/utils"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("178"))
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	valueStyle   = lipgloss.NewStyle().Bold(true)
	feeStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
)

type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

// Generate summarises the dataset. totalRows is the number of parsed CSV rows,
// listings the cleaned rows and quarantined the rest.
func (s *InsightService) Generate(totalRows int, listings []*models.Listing, quarantined []*models.Quarantined, now time.Time) *models.StatsReport {
	report := &models.StatsReport{
		TotalRows:   totalRows,
		Quarantined: len(quarantined),
		ByQuartile:  make(map[string]int),
	}

	var feeTotal float64
	for _, l := range listings {
		if !IsOpen(l, now) {
			report.Expired++
			continue
		}
		report.OpenListings++

		if l.Quartile != "" {
			report.ByQuartile[l.Quartile]++
		}
		if IsAbstractOnly(l) {
			report.AbstractOnly++
		}
		if l.FeeKnown {
			if report.FeesKnown == 0 || l.FeeAmount < report.MinFee {
				report.MinFee = l.FeeAmount
			}
			if report.FeesKnown == 0 || l.FeeAmount > report.MaxFee {
				report.MaxFee = l.FeeAmount
			}
			feeTotal += l.FeeAmount
			report.FeesKnown++
		}
		if report.NearestDeadline == nil || l.Deadline.Before(report.NearestDeadline.Deadline) {
			report.NearestDeadline = l
		}
	}

	if report.FeesKnown > 0 {
		report.AverageFee = round2(feeTotal / float64(report.FeesKnown))
		report.MinFee = round2(report.MinFee)
		report.MaxFee = round2(report.MaxFee)
	}

	s.logger.Debug("[insights] %d open / %d expired / %d quarantined",
		report.OpenListings, report.Expired, report.Quarantined)
	return report
}

func (s *InsightService) Print(w io.Writer, r *models.StatsReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Fprintf(w, "\n%s\n", titleStyle.Render(sep))
	fmt.Fprintf(w, "%s\n", titleStyle.Render("  CALL FOR SCIENCE — DATASET SUMMARY"))
	fmt.Fprintf(w, "%s\n\n", titleStyle.Render(sep))

	fmt.Fprintf(w, "%s\n", sectionStyle.Render("  Overview"))
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  CSV rows        : %s\n", valueStyle.Render(fmt.Sprint(r.TotalRows)))
	fmt.Fprintf(w, "  Open calls      : %s\n", valueStyle.Render(fmt.Sprint(r.OpenListings)))
	fmt.Fprintf(w, "  Expired calls   : %s\n", valueStyle.Render(fmt.Sprint(r.Expired)))
	fmt.Fprintf(w, "  Quarantined rows: %s\n", valueStyle.Render(fmt.Sprint(r.Quarantined)))
	fmt.Fprintf(w, "  Abstract only   : %s\n", valueStyle.Render(fmt.Sprint(r.AbstractOnly)))
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%s\n", sectionStyle.Render("  Fees (numeric only)"))
	fmt.Fprintf(w, "  %s\n", thin)
	if r.FeesKnown > 0 {
		fmt.Fprintf(w, "  Average : %s\n", feeStyle.Render(fmt.Sprintf("$%.2f", r.AverageFee)))
		fmt.Fprintf(w, "  Minimum : %s\n", feeStyle.Render(fmt.Sprintf("$%.2f", r.MinFee)))
		fmt.Fprintf(w, "  Maximum : %s\n", feeStyle.Render(fmt.Sprintf("$%.2f", r.MaxFee)))
	} else {
		fmt.Fprintf(w, "  No fee data available\n")
	}
	fmt.Fprintln(w)

	if r.NearestDeadline != nil {
		fmt.Fprintf(w, "%s\n", sectionStyle.Render("  Closing Soonest"))
		fmt.Fprintf(w, "  %s\n", thin)
		fmt.Fprintf(w, "  %s\n", truncate(r.NearestDeadline.CFPName, 50))
		fmt.Fprintf(w, "  Journal  : %s\n", truncate(r.NearestDeadline.Journal, 40))
		fmt.Fprintf(w, "  Deadline : %s\n", r.NearestDeadline.DeadlineRaw)
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "%s\n", sectionStyle.Render("  Open Calls by Quartile"))
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.ByQuartile) == 0 {
		fmt.Fprintf(w, "  No quartile data\n")
	} else {
		quartiles := make([]string, 0, len(r.ByQuartile))
		for q := range r.ByQuartile {
			quartiles = append(quartiles, q)
		}
		sort.Strings(quartiles)
		for _, q := range quartiles {
			bar := strings.Repeat("█", r.ByQuartile[q])
			fmt.Fprintf(w, "  %-8s %s (%d)\n", truncate(q, 8), bar, r.ByQuartile[q])
		}
	}

	fmt.Fprintf(w, "\n%s\n\n", titleStyle.Render(sep))
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

func truncate(s string, max int) string {
	if len([]rune(s)) <= max {
		return s
	}
	return string([]rune(s)[:max-3]) + "..."
}
