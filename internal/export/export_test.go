package export

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/greenroot/growth-data-aggregation/internal/dataset"
)

func envFixture() dataset.EnvironmentData {
	return dataset.EnvironmentData{
		dataset.SchoolSongdo: {
			{Time: "2024-03-01 09:00", Temperature: 20.5, Humidity: 65, PH: 6.1, EC: 1.2, School: dataset.SchoolSongdo},
			{Time: "2024-03-01 10:00", Temperature: 21.25, Humidity: 63, PH: 6.2, EC: 1.0, School: dataset.SchoolSongdo},
		},
		dataset.SchoolHaneul: {
			{Time: "2024-03-01 09:00", Temperature: 19.5, Humidity: 70, PH: 6.0, EC: 2.1, School: dataset.SchoolHaneul},
		},
	}
}

// Writing the concatenated environment data and re-parsing it yields the
// same row count and per-row field values as the in-memory concatenation.
func TestEnvironmentCSVRoundTrip(t *testing.T) {
	data := envFixture()

	body, err := EnvironmentCSV(data)
	if err != nil {
		t.Fatalf("EnvironmentCSV failed: %v", err)
	}

	r := csv.NewReader(bytes.NewReader(body))
	rows, err := r.ReadAll()
	if err != nil {
		t.Fatalf("re-parse failed: %v", err)
	}

	var want []dataset.EnvironmentRecord
	for _, school := range dataset.SchoolOrder {
		want = append(want, data[school]...)
	}

	if len(rows) != len(want)+1 {
		t.Fatalf("got %d rows incl. header, want %d", len(rows), len(want)+1)
	}

	for i, rec := range want {
		row := rows[i+1]
		if row[0] != rec.Time || row[5] != string(rec.School) {
			t.Fatalf("row %d mismatch: %v vs %+v", i, row, rec)
		}
		for j, field := range []float64{rec.Temperature, rec.Humidity, rec.PH, rec.EC} {
			got, err := strconv.ParseFloat(row[j+1], 64)
			if err != nil {
				t.Fatalf("row %d col %d not numeric: %v", i, j+1, err)
			}
			if got != field {
				t.Fatalf("row %d col %d = %v, want %v", i, j+1, got, field)
			}
		}
	}
}

func TestGrowthWorkbook(t *testing.T) {
	data := dataset.GrowthData{
		dataset.SchoolSongdo: {
			{PlantID: "1", FreshWeight: 12.5, LeafCount: 8, ShootLength: 150, School: dataset.SchoolSongdo, EC: 1.0},
		},
		dataset.SchoolHaneul: {
			{PlantID: "1", FreshWeight: 15.5, LeafCount: 9, ShootLength: 170, School: dataset.SchoolHaneul, EC: 2.0},
			{PlantID: "2", FreshWeight: 16.0, LeafCount: 10, ShootLength: 175, School: dataset.SchoolHaneul, EC: 2.0},
		},
	}

	body, err := GrowthWorkbook(data)
	if err != nil {
		t.Fatalf("GrowthWorkbook failed: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(body))
	if err != nil {
		t.Fatalf("re-open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(growthSheet)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 4 {
		t.Fatalf("got %d rows incl. header, want 4", len(rows))
	}
	if rows[0][1] != dataset.ColFreshWeight {
		t.Fatalf("header col 2 = %q, want %q", rows[0][1], dataset.ColFreshWeight)
	}
	// SchoolOrder concatenation: Songdo first, then Haneul.
	if rows[1][4] != string(dataset.SchoolSongdo) || rows[2][4] != string(dataset.SchoolHaneul) {
		t.Fatalf("unexpected school order: %q, %q", rows[1][4], rows[2][4])
	}
}

// Undefined statistics become empty cells, never zeros.
func TestPerformanceWorkbookUndefinedStats(t *testing.T) {
	rows := []dataset.GrowthPerformance{
		{
			School:          dataset.SchoolAra,
			EC:              4.0,
			MeanFreshWeight: 42,
			StdFreshWeight:  dataset.Undefined(),
			Count:           1,
			CV:              dataset.Undefined(),
		},
	}

	body, err := PerformanceWorkbook(rows)
	if err != nil {
		t.Fatalf("PerformanceWorkbook failed: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	std, err := f.GetCellValue(performanceSheet, "D2")
	if err != nil {
		t.Fatal(err)
	}
	if std != "" {
		t.Fatalf("undefined std cell = %q, want empty", std)
	}
	cv, err := f.GetCellValue(performanceSheet, "H2")
	if err != nil {
		t.Fatal(err)
	}
	if cv != "" {
		t.Fatalf("undefined cv cell = %q, want empty", cv)
	}
}
