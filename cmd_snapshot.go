package main

import (
	"github.com/spf13/cobra"

	"callforscience/snapshot"
)

var (
	snapshotURL    string
	snapshotOutput string
	snapshotWidth  int64
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Save a full-page PNG of a running card grid using headless Chrome",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := snapshotOutput
		if out == "" {
			out = cfg.SnapshotOutputPath
		}
		capturer := snapshot.New(snapshot.Options{
			ChromeBin: cfg.ChromeBin,
			Width:     snapshotWidth,
		}, logger)
		return capturer.Capture(cmd.Context(), snapshotURL, out)
	},
}

func init() {
	snapshotCmd.Flags().StringVar(&snapshotURL, "url", "http://localhost:8080/", "page to capture")
	snapshotCmd.Flags().StringVarP(&snapshotOutput, "output", "o", "", "PNG path (default from SNAPSHOT_OUTPUT_PATH)")
	snapshotCmd.Flags().Int64Var(&snapshotWidth, "width", 1280, "viewport width in pixels")
}
