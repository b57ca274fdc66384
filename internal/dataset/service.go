package dataset

import (
	"errors"
	"fmt"
	"log"
	"time"
)

// Store is the contract the in-memory store (and any future persistent
// store) must satisfy.
type Store interface {
	Replace(env EnvironmentData, growth GrowthData)
	Environment() (EnvironmentData, error)
	EnvironmentSeries(school School) ([]EnvironmentRecord, error)
	Growth() (GrowthData, error)
	GrowthRecords(school School) ([]GrowthRecord, error)
	LoadedAt() time.Time
}

// Service orchestrates dataset loading and serves summary queries over the
// store. Summaries are recomputed per request from the stored records; only
// the records themselves are cached.
type Service struct {
	store   Store
	dataDir string
}

// NewService creates a new Service reading data files from dataDir.
func NewService(store Store, dataDir string) *Service {
	return &Service{
		store:   store,
		dataDir: dataDir,
	}
}

// Load reads both datasets from the data directory and replaces the store
// contents. Missing per-school environment files are reported and skipped;
// a missing growth workbook, an unparseable file, or an entirely empty
// environment dataset fails the load, leaving any previous contents intact.
func (s *Service) Load() error {
	envLoad, err := LoadEnvironment(s.dataDir)
	if err != nil {
		return fmt.Errorf("environment data: %w", err)
	}
	for _, school := range envLoad.Missing {
		log.Printf("environment data file not found for %s; continuing without it", school)
	}
	if len(envLoad.Data) == 0 {
		return errors.New("environment data: no file resolved for any school")
	}

	growth, err := LoadGrowth(s.dataDir)
	if err != nil {
		return fmt.Errorf("growth data: %w", err)
	}

	s.store.Replace(envLoad.Data, growth)
	return nil
}

// OverviewSchool is one row of the experiment-condition table.
type OverviewSchool struct {
	School     School  `json:"school"`
	TargetEC   float64 `json:"targetEc"`
	PlantCount int     `json:"plantCount"`
	Color      string  `json:"color"`
}

// Overview summarizes the whole experiment: the per-school condition table,
// total plant count, overall environment means, and the best EC found.
type Overview struct {
	Schools         []OverviewSchool `json:"schools"`
	TotalPlants     int              `json:"totalPlants"`
	MeanTemperature float64          `json:"meanTemperature"`
	MeanHumidity    float64          `json:"meanHumidity"`
	Best            BestECResult     `json:"bestEc"`
}

// GetOverview builds the experiment overview from both datasets.
func (s *Service) GetOverview() (Overview, error) {
	env, err := s.store.Environment()
	if err != nil {
		return Overview{}, err
	}
	growth, err := s.store.Growth()
	if err != nil {
		return Overview{}, err
	}

	var ov Overview
	for _, school := range SchoolOrder {
		target, _ := ECFor(school)
		count := len(growth[school])
		ov.TotalPlants += count
		ov.Schools = append(ov.Schools, OverviewSchool{
			School:     school,
			TargetEC:   target,
			PlantCount: count,
			Color:      ColorFor(school),
		})
	}

	var temp, hum accumulator
	for _, records := range env {
		for _, r := range records {
			temp.add(r.Temperature)
			hum.add(r.Humidity)
		}
	}
	ov.MeanTemperature = temp.mean
	ov.MeanHumidity = hum.mean

	if best, ok := BestEC(SummarizeGrowth(growth)); ok {
		ov.Best = best
	}
	return ov, nil
}

// GetEnvironmentSummary recomputes the per-school environment means.
func (s *Service) GetEnvironmentSummary() ([]EnvironmentSummary, error) {
	env, err := s.store.Environment()
	if err != nil {
		return nil, err
	}
	return SummarizeEnvironment(env), nil
}

// GetStability recomputes the per-school environmental stability rows.
func (s *Service) GetStability() ([]StabilityRow, error) {
	env, err := s.store.Environment()
	if err != nil {
		return nil, err
	}
	return SummarizeStability(env), nil
}

// GetEnvironmentSeries delegates to the underlying store.
func (s *Service) GetEnvironmentSeries(school School) ([]EnvironmentRecord, error) {
	return s.store.EnvironmentSeries(school)
}

// GetGrowthPerformance recomputes the per-school/per-EC growth summary.
func (s *Service) GetGrowthPerformance() ([]GrowthPerformance, error) {
	growth, err := s.store.Growth()
	if err != nil {
		return nil, err
	}
	return SummarizeGrowth(growth), nil
}

// GetBestEC returns the EC concentration maximizing mean fresh weight.
func (s *Service) GetBestEC() (BestECResult, error) {
	rows, err := s.GetGrowthPerformance()
	if err != nil {
		return BestECResult{}, err
	}
	best, ok := BestEC(rows)
	if !ok {
		return BestECResult{}, errors.New("no growth records loaded")
	}
	return best, nil
}

// GetGrowthRecords delegates to the underlying store.
func (s *Service) GetGrowthRecords(school School) ([]GrowthRecord, error) {
	return s.store.GrowthRecords(school)
}

// AllEnvironment returns the environment dataset for export.
func (s *Service) AllEnvironment() (EnvironmentData, error) {
	return s.store.Environment()
}

// AllGrowth returns the growth dataset for export.
func (s *Service) AllGrowth() (GrowthData, error) {
	return s.store.Growth()
}

// LoadedAt reports when data was last loaded.
func (s *Service) LoadedAt() time.Time {
	return s.store.LoadedAt()
}
