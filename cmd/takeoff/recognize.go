package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"

	"github.com/structeng/takeoff/constants"
	"github.com/structeng/takeoff/internal/common"
	"github.com/structeng/takeoff/pkg/takeoff"
)

var (
	inputPath  string
	outputPath string
	threshold  float64
	radius     float64
)

var recognizeCmd = &cobra.Command{
	Use:   "recognize",
	Short: "Recognize components from an annotation file",
	Long: `Reads annotations from --input and writes an XLSX report to --output.

JSON input is an array of {"id", "text", "position": {"x","y"}} objects.
XLSX input is a sheet with id, text, x, y columns (header row required).`,
	RunE: runRecognize,
}

func init() {
	cfg := common.LoadConfig()
	recognizeCmd.Flags().StringVarP(&inputPath, "input", "i", "", "annotation file, .json or .xlsx (required)")
	recognizeCmd.Flags().StringVarP(&outputPath, "output", "o", cfg.Export.OutputPath, "report output path")
	recognizeCmd.Flags().Float64Var(&threshold, "threshold", cfg.Recognizer.ConfidenceThreshold, "confidence acceptance bar in [0,1]")
	recognizeCmd.Flags().Float64Var(&radius, "radius", cfg.Recognizer.NeighborRadius, "neighbor search radius in drawing mm")
	_ = recognizeCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(recognizeCmd)
}

func runRecognize(cmd *cobra.Command, args []string) error {
	logger := slog.Default()

	// flags override env defaults; re-validate the effective values
	cfg := &common.Config{
		Recognizer: common.RecognizerConfig{
			ConfidenceThreshold: threshold,
			NeighborRadius:      radius,
		},
		Export: common.ExportConfig{OutputPath: outputPath},
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	doc, err := readDocument(inputPath)
	if err != nil {
		return err
	}
	logger.Info("cli.input.ok", "path", inputPath, "annotations", len(doc.Annotations))

	eng, err := takeoff.NewEngine(
		takeoff.WithLogger(logger),
		takeoff.WithThreshold(threshold),
		takeoff.WithRadius(radius),
	)
	if err != nil {
		return err
	}

	res, err := eng.Recognize(context.Background(), doc)
	if err != nil {
		return err
	}

	report, err := eng.ExportXLSX(res)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, report, 0o644); err != nil {
		return common.WrapError(err, "write report")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "recognized %d component(s), report written to %s\n",
		len(res.Components), outputPath)
	return nil
}

func readDocument(path string) (takeoff.Document, error) {
	ext := constants.NormalizeExt(filepath.Ext(path))
	if _, ok := constants.AllowedExtensions[ext]; !ok {
		return takeoff.Document{}, fmt.Errorf("unsupported input format %q, want one of %v", ext, constants.InputFormats)
	}
	switch ext {
	case "json":
		return readJSON(path)
	default:
		return readXLSX(path)
	}
}

func readJSON(path string) (takeoff.Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return takeoff.Document{}, fmt.Errorf("read input: %w", err)
	}
	var anns []takeoff.Annotation
	if err := json.Unmarshal(b, &anns); err != nil {
		return takeoff.Document{}, fmt.Errorf("parse input: %w", err)
	}
	return takeoff.Document{Annotations: anns}, nil
}

// readXLSX expects a header row naming at least id and text columns;
// x and y are optional and default to the origin.
func readXLSX(path string) (takeoff.Document, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return takeoff.Document{}, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return takeoff.Document{}, fmt.Errorf("read sheet: %w", err)
	}
	if len(rows) == 0 {
		return takeoff.Document{}, fmt.Errorf("input sheet %q is empty", sheet)
	}

	col := map[string]int{}
	for i, h := range rows[0] {
		col[h] = i
	}
	idCol, ok := col["id"]
	if !ok {
		return takeoff.Document{}, fmt.Errorf("input sheet %q has no id column", sheet)
	}
	textCol, ok := col["text"]
	if !ok {
		return takeoff.Document{}, fmt.Errorf("input sheet %q has no text column", sheet)
	}

	var doc takeoff.Document
	for _, row := range rows[1:] {
		ann := takeoff.Annotation{
			ID:   cellAt(row, idCol),
			Text: cellAt(row, textCol),
		}
		if ann.ID == "" && ann.Text == "" {
			continue
		}
		if xCol, ok := col["x"]; ok {
			ann.Position.X = cellFloat(row, xCol)
		}
		if yCol, ok := col["y"]; ok {
			ann.Position.Y = cellFloat(row, yCol)
		}
		doc.Annotations = append(doc.Annotations, ann)
	}
	return doc, nil
}

func cellAt(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func cellFloat(row []string, i int) float64 {
	v, err := strconv.ParseFloat(cellAt(row, i), 64)
	if err != nil {
		return 0
	}
	return v
}
