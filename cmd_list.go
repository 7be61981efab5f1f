package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"callforscience/i18n"
	"callforscience/models"
	"callforscience/services"
	"callforscience/storage"
)

// filterFlags mirrors the page's filter controls.
type filterFlags struct {
	quartile string
	abstract string
	maxFee   string
	topic    string
	lang     string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.quartile, "cuartil", "", "quartile (Q1, Q2, Q3)")
	cmd.Flags().StringVar(&f.abstract, "resumen", "", "abstract required (Sí, No)")
	cmd.Flags().StringVar(&f.maxFee, "pago", "", "maximum fee")
	cmd.Flags().StringVar(&f.topic, "tematica", "", "topic substring")
	cmd.Flags().StringVar(&f.lang, "lang", "", "label and topic language (es, en)")
}

func (f *filterFlags) criteria() (models.Criteria, error) {
	lang := f.lang
	if lang == "" {
		lang = cfg.DefaultLang
	}
	return services.NewCriteria(services.CriteriaInput{
		Quartile: f.quartile,
		Abstract: f.abstract,
		MaxFee:   f.maxFee,
		Topic:    f.topic,
		Lang:     lang,
	})
}

var (
	listFilters filterFlags
	listPage    int
	listPerPage int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print one page of open calls as cards",
	RunE: func(cmd *cobra.Command, args []string) error {
		criteria, err := listFilters.criteria()
		if err != nil {
			return err
		}
		req, err := services.NewPageRequest(listPage, listPerPage)
		if err != nil {
			return err
		}
		bundle, err := i18n.Default(cfg.DefaultLang)
		if err != nil {
			return err
		}

		snap, err := loadSnapshot(cmd.Context())
		if err != nil {
			return err
		}
		page := services.Paginate(services.Filter(snap.Listings, criteria, time.Now()), req)
		services.RenderCards(cmd.OutOrStdout(), page, bundle, criteria.Lang)
		return nil
	},
}

var topicsLang string

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "Print the distinct topic keywords offered as suggestions",
	RunE: func(cmd *cobra.Command, args []string) error {
		lang := topicsLang
		if lang == "" {
			lang = cfg.DefaultLang
		}
		snap, err := loadSnapshot(cmd.Context())
		if err != nil {
			return err
		}
		for _, t := range services.TopicSuggestions(snap.Raw, services.NormaliseLang(lang)) {
			fmt.Fprintln(cmd.OutOrStdout(), t)
		}
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarise the dataset: open, expired and quarantined rows, fees, quartiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		snap, err := loadSnapshot(cmd.Context())
		if err != nil {
			return err
		}
		insights := services.NewInsightService(logger)
		report := insights.Generate(snap.Rows, snap.Listings, snap.Quarantined, time.Now())
		insights.Print(cmd.OutOrStdout(), report)
		return nil
	},
}

var (
	exportFilters filterFlags
	exportOutput  string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the filtered open calls to a CSV file (- for stdout)",
	RunE: func(cmd *cobra.Command, args []string) error {
		criteria, err := exportFilters.criteria()
		if err != nil {
			return err
		}
		out := exportOutput
		if out == "" {
			out = cfg.ExportOutputPath
		}

		snap, err := loadSnapshot(cmd.Context())
		if err != nil {
			return err
		}
		filtered := services.Filter(snap.Listings, criteria, time.Now())

		var w storage.ListingWriter
		if out == "-" {
			w, err = storage.NewCSVStreamWriter(cmd.OutOrStdout())
		} else {
			w, err = storage.NewCSVWriter(out)
		}
		if err != nil {
			return err
		}
		if err := w.Write(filtered); err != nil {
			_ = w.Close()
			return err
		}
		if err := w.Close(); err != nil {
			return err
		}
		if out != "-" {
			logger.Info("Exported %d listings to %s", len(filtered), out)
		}
		return nil
	},
}

func init() {
	listFilters.register(listCmd)
	listCmd.Flags().IntVar(&listPage, "page", 1, "page number (1-based)")
	listCmd.Flags().IntVar(&listPerPage, "per-page", services.DefaultPageSize, "page size (10, 20, 30, 50)")

	topicsCmd.Flags().StringVar(&topicsLang, "lang", "", "topic language (es, en)")

	exportFilters.register(exportCmd)
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output path, - for stdout (default from EXPORT_OUTPUT_PATH)")
}
