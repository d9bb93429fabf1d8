package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"github.com/san-kum/soup/internal/config"
	"github.com/san-kum/soup/internal/dynamo"
	"github.com/san-kum/soup/internal/sim"
)

const (
	metadataFile  = "metadata.json"
	configFile    = "config.yaml"
	metricsFile   = "metrics.csv"
	particlesFile = "particles.csv"
)

// Store keeps run reports, one directory per run. A report records what a run
// did; it is not a checkpoint and cannot be resumed.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir(runID string) string { return filepath.Join(s.baseDir, runID) }

type RunMetadata struct {
	ID        string             `json:"id"`
	Preset    string             `json:"preset"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      uint64             `json:"seed"`
	Dt        float64            `json:"dt"`
	Steps     int                `json:"steps"`
	Particles int                `json:"particles"`
	Species   int                `json:"species"`
	Workers   int                `json:"workers"`
	SimTime   float64            `json:"sim_time"`
	WallTime  float64            `json:"wall_time_seconds"`
	Metrics   map[string]float64 `json:"metrics"`
}

// ParticleRecord is one row of a run's final population report.
type ParticleRecord struct {
	ID      int
	Species int
	X, Y    float64
	VX, VY  float64
}

// Save writes a report for a finished run and returns its id.
func (s *Store) Save(seed uint64, cfg *config.Config, result *sim.Result, final *dynamo.Particles) (string, error) {
	now := time.Now()
	name := cfg.Preset
	if name == "" {
		name = "custom"
	}
	runID := fmt.Sprintf("%s_%d", name, now.UnixNano())
	runDir := s.Dir(runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Preset:    name,
		Timestamp: now,
		Seed:      seed,
		Dt:        cfg.Dt,
		Steps:     result.Steps,
		Particles: final.Len(),
		Species:   final.SpeciesCount(),
		Workers:   dynamo.Workers(cfg.Workers),
		SimTime:   result.Time,
		WallTime:  result.Elapsed.Seconds(),
		Metrics:   result.Metrics,
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := config.Save(filepath.Join(runDir, configFile), cfg); err != nil {
		return "", err
	}
	if err := writeSeries(filepath.Join(runDir, metricsFile), result); err != nil {
		return "", err
	}
	if err := writeParticles(filepath.Join(runDir, particlesFile), final); err != nil {
		return "", err
	}

	log.Debug("saved run", "id", runID, "dir", runDir)
	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func seriesNames(result *sim.Result) []string {
	names := make([]string, 0, len(result.Series))
	for name := range result.Series {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func writeSeries(path string, result *sim.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	names := seriesNames(result)
	if err := w.Write(append([]string{"time"}, names...)); err != nil {
		return err
	}
	for i, t := range result.Times {
		row := []string{strconv.FormatFloat(t, 'f', 6, 64)}
		for _, name := range names {
			val := 0.0
			if i < len(result.Series[name]) {
				val = result.Series[name][i]
			}
			row = append(row, strconv.FormatFloat(val, 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeParticles(path string, p *dynamo.Particles) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"id", "species", "x", "y", "vx", "vy"}); err != nil {
		return err
	}
	for i := 0; i < p.Len(); i++ {
		row := []string{
			strconv.Itoa(i),
			strconv.Itoa(p.Species(i)),
			strconv.FormatFloat(p.X(i), 'g', -1, 64),
			strconv.FormatFloat(p.Y(i), 'g', -1, 64),
			strconv.FormatFloat(p.VX(i), 'g', -1, 64),
			strconv.FormatFloat(p.VY(i), 'g', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			log.Debug("skipping run directory", "dir", entry.Name(), "err", err)
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

// Latest returns the most recent run.
func (s *Store) Latest() (*RunMetadata, error) {
	runs, err := s.List()
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, fmt.Errorf("%w: no runs in %s", dynamo.ErrNotFound, s.baseDir)
	}
	return &runs[len(runs)-1], nil
}

func (s *Store) open(runID, name string) (*os.File, error) {
	f, err := os.Open(filepath.Join(s.Dir(runID), name))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: run %s has no %s", dynamo.ErrNotFound, runID, name)
	}
	return f, err
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	f, err := s.open(runID, metadataFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var meta RunMetadata
	if err := json.NewDecoder(f).Decode(&meta); err != nil {
		return nil, fmt.Errorf("decode %s metadata: %w", runID, err)
	}
	return &meta, nil
}

// LoadConfig returns the configuration the run was started with.
func (s *Store) LoadConfig(runID string) (*config.Config, error) {
	cfg, err := config.Load(filepath.Join(s.Dir(runID), configFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: run %s has no %s", dynamo.ErrNotFound, runID, configFile)
	}
	return cfg, err
}

func readCSV(f *os.File) ([][]string, error) {
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

// LoadSeries returns the sampled metric columns of a run.
func (s *Store) LoadSeries(runID string) ([]float64, map[string][]float64, error) {
	f, err := s.open(runID, metricsFile)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	records, err := readCSV(f)
	if err != nil {
		return nil, nil, err
	}
	series := make(map[string][]float64)
	if len(records) < 1 {
		return []float64{}, series, nil
	}

	header := records[0]
	times := make([]float64, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) != len(header) {
			continue
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		times = append(times, t)
		for j := 1; j < len(record); j++ {
			val, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				val = 0
			}
			series[header[j]] = append(series[header[j]], val)
		}
	}
	return times, series, nil
}

// LoadParticles returns the final population report of a run.
func (s *Store) LoadParticles(runID string) ([]ParticleRecord, error) {
	f, err := s.open(runID, particlesFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := readCSV(f)
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []ParticleRecord{}, nil
	}

	out := make([]ParticleRecord, 0, len(records)-1)
	for i, record := range records[1:] {
		if len(record) != 6 {
			return nil, fmt.Errorf("%s line %d: %w: %d fields", particlesFile, i+2, dynamo.ErrDimensionMismatch, len(record))
		}
		rec, err := parseParticle(record)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", particlesFile, i+2, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func parseParticle(record []string) (ParticleRecord, error) {
	var rec ParticleRecord
	var err error
	if rec.ID, err = strconv.Atoi(record[0]); err != nil {
		return rec, err
	}
	if rec.Species, err = strconv.Atoi(record[1]); err != nil {
		return rec, err
	}
	vals := make([]float64, 4)
	for k := range vals {
		if vals[k], err = strconv.ParseFloat(record[k+2], 64); err != nil {
			return rec, err
		}
	}
	rec.X, rec.Y, rec.VX, rec.VY = vals[0], vals[1], vals[2], vals[3]
	return rec, nil
}

// ParticlesPath is the on-disk location of a run's population report.
func (s *Store) ParticlesPath(runID string) string {
	return filepath.Join(s.Dir(runID), particlesFile)
}
