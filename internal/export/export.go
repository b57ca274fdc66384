// Package export generates downloadable files from the in-memory datasets.
// Nothing here touches disk: downloads are built on demand and handed to the
// HTTP layer as byte slices.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/greenroot/growth-data-aggregation/internal/dataset"
)

const (
	growthSheet      = "생육결과"
	performanceSheet = "EC별 성과"
)

// EnvironmentCSV renders the concatenated environment dataset as CSV, one
// row per record, schools in fixed order. Float formatting uses the shortest
// round-trippable representation so re-parsing yields the same values.
func EnvironmentCSV(data dataset.EnvironmentData) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		dataset.ColTime,
		dataset.ColTemperature,
		dataset.ColHumidity,
		dataset.ColPH,
		dataset.ColEC,
		"school",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, school := range dataset.SchoolOrder {
		for _, r := range data[school] {
			row := []string{
				r.Time,
				formatFloat(r.Temperature),
				formatFloat(r.Humidity),
				formatFloat(r.PH),
				formatFloat(r.EC),
				string(r.School),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GrowthWorkbook renders the concatenated growth dataset as a single-sheet
// workbook, one row per plant, with the source column names.
func GrowthWorkbook(data dataset.GrowthData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", growthSheet); err != nil {
		return nil, err
	}

	header := []interface{}{dataset.ColPlantID}
	for _, metric := range dataset.MetricOrder {
		header = append(header, dataset.MetricColumns[metric])
	}
	header = append(header, "school", "ec")
	if err := f.SetSheetRow(growthSheet, "A1", &header); err != nil {
		return nil, err
	}

	rowNum := 2
	for _, school := range dataset.SchoolOrder {
		for _, r := range data[school] {
			row := []interface{}{
				r.PlantID,
				r.FreshWeight,
				r.LeafCount,
				r.ShootLength,
				string(r.School),
				r.EC,
			}
			cell := fmt.Sprintf("A%d", rowNum)
			if err := f.SetSheetRow(growthSheet, cell, &row); err != nil {
				return nil, err
			}
			rowNum++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// PerformanceWorkbook renders the computed growth performance table.
// Undefined statistics become empty cells.
func PerformanceWorkbook(rows []dataset.GrowthPerformance) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", performanceSheet); err != nil {
		return nil, err
	}

	header := []interface{}{
		"school", "ec",
		"mean " + dataset.MetricColumns["freshWeight"],
		"std " + dataset.MetricColumns["freshWeight"],
		"mean " + dataset.MetricColumns["leafCount"],
		"mean " + dataset.MetricColumns["shootLength"],
		"count", "cv",
	}
	if err := f.SetSheetRow(performanceSheet, "A1", &header); err != nil {
		return nil, err
	}

	for i, r := range rows {
		row := []interface{}{
			string(r.School),
			r.EC,
			r.MeanFreshWeight,
			statCell(r.StdFreshWeight),
			r.MeanLeafCount,
			r.MeanShootLength,
			r.Count,
			statCell(r.CV),
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(performanceSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// statCell maps an undefined statistic to an empty cell instead of writing
// NaN into the sheet.
func statCell(s dataset.Stat) interface{} {
	if !s.IsDefined() {
		return ""
	}
	return float64(s)
}
