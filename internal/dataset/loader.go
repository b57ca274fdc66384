package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/unicode/norm"
)

const (
	envFileSuffix  = "_환경데이터.csv"
	growthFileName = "4개교_생육결과데이터.xlsx"
)

// EnvironmentData holds per-school environment series, keyed by school.
type EnvironmentData map[School][]EnvironmentRecord

// GrowthData holds per-school growth records, keyed by school. One workbook
// sheet maps 1:1 to one school's records.
type GrowthData map[School][]GrowthRecord

// EnvironmentLoad is the result of loading the environment dataset. Schools
// whose file could not be resolved are listed in Missing and absent from
// Data; the load continues for the remaining schools.
type EnvironmentLoad struct {
	Data    EnvironmentData
	Missing []School
}

// EnvFileName returns the expected environment CSV name for a school.
func EnvFileName(school School) string {
	return string(school) + envFileSuffix
}

// resolveAny resolves the first candidate filename that exists in dir.
// Only resolver misses fall through to the next candidate.
func resolveAny(dir string, candidates ...string) (string, error) {
	for _, name := range candidates {
		path, err := Resolve(dir, name)
		if err == nil {
			return path, nil
		}
		if !errors.Is(err, ErrFileNotFound) {
			return "", err
		}
	}
	return "", fmt.Errorf("%w: %s in %s", ErrFileNotFound, candidates[0], dir)
}

// LoadEnvironment loads one environment CSV per school from dir.
//
// Resolution failures are per-school: the school is recorded in Missing and
// skipped. Parse failures (missing column, malformed row) are fatal for the
// whole load. Filenames are tried in canonical form first, then with the
// duplicate extension observed in some deployments ("….csv.csv").
func LoadEnvironment(dir string) (*EnvironmentLoad, error) {
	load := &EnvironmentLoad{Data: make(EnvironmentData)}

	for _, school := range SchoolOrder {
		name := EnvFileName(school)
		path, err := resolveAny(dir, name, name+".csv")
		if err != nil {
			if errors.Is(err, ErrFileNotFound) {
				load.Missing = append(load.Missing, school)
				continue
			}
			return nil, err
		}

		records, err := parseEnvironmentCSV(path, school)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		load.Data[school] = records
	}

	return load, nil
}

func parseEnvironmentCSV(path string, school School) ([]EnvironmentRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty file")
		}
		return nil, err
	}

	idx, err := columnIndex(header, ColTime, ColTemperature, ColHumidity, ColPH, ColEC)
	if err != nil {
		return nil, err
	}

	var records []EnvironmentRecord
	for row := 2; ; row++ {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("row %d: %w", row, err)
		}

		fields, err := floatFields(rec, idx, ColTemperature, ColHumidity, ColPH, ColEC)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}

		records = append(records, EnvironmentRecord{
			Time:        strings.TrimSpace(rec[idx[ColTime]]),
			Temperature: fields[ColTemperature],
			Humidity:    fields[ColHumidity],
			PH:          fields[ColPH],
			EC:          fields[ColEC],
			School:      school,
		})
	}

	return records, nil
}

// LoadGrowth loads the growth workbook from dir. Every sheet is one school:
// the sheet name is the school identifier and each row one plant. Unlike the
// environment load, a missing workbook fails the whole dataset, since sheets
// are discovered dynamically from whatever workbook is found.
func LoadGrowth(dir string) (GrowthData, error) {
	path, err := resolveAny(dir, growthFileName, growthFileName+".xlsx")
	if err != nil {
		return nil, err
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", growthFileName, err)
	}
	defer f.Close()

	data := make(GrowthData)
	for _, sheet := range f.GetSheetList() {
		school := School(norm.NFC.String(sheet))
		ec, ok := ECFor(school)
		if !ok {
			return nil, fmt.Errorf("sheet %q does not name a known school", sheet)
		}

		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("sheet %q: %w", sheet, err)
		}

		records, err := parseGrowthRows(rows, school, ec)
		if err != nil {
			return nil, fmt.Errorf("sheet %q: %w", sheet, err)
		}
		data[school] = records
	}

	return data, nil
}

func parseGrowthRows(rows [][]string, school School, ec float64) ([]GrowthRecord, error) {
	if len(rows) == 0 {
		return nil, errors.New("empty sheet")
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = norm.NFC.String(h)
	}
	idx, err := columnIndex(header, ColPlantID, ColFreshWeight, ColLeafCount, ColShootLength)
	if err != nil {
		return nil, err
	}

	var records []GrowthRecord
	for i, rec := range rows[1:] {
		if blankRow(rec) {
			continue
		}

		fields, err := floatFields(rec, idx, ColFreshWeight, ColLeafCount, ColShootLength)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}

		records = append(records, GrowthRecord{
			PlantID:     strings.TrimSpace(cellAt(rec, idx[ColPlantID])),
			FreshWeight: fields[ColFreshWeight],
			LeafCount:   fields[ColLeafCount],
			ShootLength: fields[ColShootLength],
			School:      school,
			EC:          ec,
		})
	}

	return records, nil
}

// columnIndex maps each required column name to its position in header.
func columnIndex(header []string, required ...string) (map[string]int, error) {
	idx := make(map[string]int, len(required))
	for i, h := range header {
		idx[strings.TrimSpace(h)] = i
	}
	for _, col := range required {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}
	return idx, nil
}

// floatFields parses the named columns of a record as float64.
func floatFields(rec []string, idx map[string]int, cols ...string) (map[string]float64, error) {
	out := make(map[string]float64, len(cols))
	for _, col := range cols {
		raw := strings.TrimSpace(cellAt(rec, idx[col]))
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("column %q: invalid value %q", col, raw)
		}
		out[col] = v
	}
	return out, nil
}

// cellAt returns rec[i], tolerating short rows (trailing empty cells are
// omitted by the XLSX reader).
func cellAt(rec []string, i int) string {
	if i >= len(rec) {
		return ""
	}
	return rec[i]
}

func blankRow(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
