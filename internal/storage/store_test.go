package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/soup/internal/config"
	"github.com/san-kum/soup/internal/dynamo"
	"github.com/san-kum/soup/internal/sim"
)

func sampleRun(t *testing.T) (*config.Config, *sim.Result, *dynamo.Particles) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Particles = 4
	cfg.Species = 2
	cfg.Matrix = [][]float64{{1, 0}, {0, 1}}
	cfg.Colors = [][]float64{{1, 0, 0}, {0, 0, 1}}

	base, err := dynamo.FromPositions([]float64{1, 2, 3, 4}, []float64{5, 6, 7, 8}, []int{0, 0, 1, 1})
	if err != nil {
		t.Fatal(err)
	}
	final, err := base.WithVelocities([]float64{0.5, 0, 0, -1.25}, []float64{0, 0, 2, 0})
	if err != nil {
		t.Fatal(err)
	}

	result := &sim.Result{
		Steps:   20,
		Time:    20.0 / 60,
		Elapsed: 150 * time.Millisecond,
		Metrics: map[string]float64{"kinetic_energy": 1.5, "mean_speed": 0.75},
		Series: map[string][]float64{
			"kinetic_energy": {2, 1.5},
			"mean_speed":     {1, 0.75},
		},
		Times: []float64{10.0 / 60, 20.0 / 60},
	}
	return cfg, result, final
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	cfg, result, final := sampleRun(t)
	runID, err := st.Save(42, cfg, result, final)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Preset != "soup" {
		t.Errorf("expected preset 'soup', got '%s'", meta.Preset)
	}
	if meta.Seed != 42 {
		t.Errorf("expected seed 42, got %d", meta.Seed)
	}
	if meta.Particles != 4 || meta.Species != 2 || meta.Steps != 20 {
		t.Errorf("unexpected counts: %+v", meta)
	}
	if meta.Metrics["kinetic_energy"] != 1.5 {
		t.Errorf("expected kinetic_energy 1.5, got %f", meta.Metrics["kinetic_energy"])
	}

	times, series, err := st.LoadSeries(runID)
	if err != nil {
		t.Fatalf("load series failed: %v", err)
	}
	if len(times) != 2 {
		t.Errorf("expected 2 samples, got %d", len(times))
	}
	if got := series["mean_speed"]; len(got) != 2 || got[1] != 0.75 {
		t.Errorf("mean_speed series = %v", got)
	}

	particles, err := st.LoadParticles(runID)
	if err != nil {
		t.Fatalf("load particles failed: %v", err)
	}
	if len(particles) != 4 {
		t.Fatalf("expected 4 particles, got %d", len(particles))
	}
	if p := particles[3]; p.Species != 1 || p.X != 4 || p.VX != -1.25 {
		t.Errorf("particle 3 = %+v", p)
	}

	loaded, err := st.LoadConfig(runID)
	if err != nil {
		t.Fatalf("load config failed: %v", err)
	}
	if loaded.Species != 2 || loaded.Matrix[1][1] != 1 {
		t.Errorf("config not preserved: %+v", loaded)
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}
	if _, err := st.Latest(); !errors.Is(err, dynamo.ErrNotFound) {
		t.Errorf("expected ErrNotFound from empty store, got %v", err)
	}

	cfg, result, final := sampleRun(t)
	first, err := st.Save(1, cfg, result, final)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	cfg.Preset = ""
	second, err := st.Save(2, cfg, result, final)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != first || runs[1].ID != second {
		t.Errorf("runs out of order: %s, %s", runs[0].ID, runs[1].ID)
	}
	if runs[1].Preset != "custom" {
		t.Errorf("unnamed run preset = %q, want custom", runs[1].Preset)
	}

	latest, err := st.Latest()
	if err != nil || latest.ID != second {
		t.Errorf("latest = %v, %v; want %s", latest, err, second)
	}
}

func TestStoreListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "absent"))
	runs, err := st.List()
	if err != nil || len(runs) != 0 {
		t.Errorf("expected empty list, got %v, %v", runs, err)
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	cfg, result, final := sampleRun(t)
	runID, err := st.Save(7, cfg, result, final)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	for _, name := range []string{"metadata.json", "config.yaml", "metrics.csv", "particles.csv"} {
		if _, err := os.Stat(filepath.Join(tmpDir, runID, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}
	if st.ParticlesPath(runID) != filepath.Join(tmpDir, runID, "particles.csv") {
		t.Errorf("unexpected particles path %s", st.ParticlesPath(runID))
	}
}

func TestLoadUnknownRun(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("nope"); !errors.Is(err, dynamo.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, _, err := st.LoadSeries("nope"); !errors.Is(err, dynamo.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := st.LoadConfig("nope"); !errors.Is(err, dynamo.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestExportJSON(t *testing.T) {
	st := New(t.TempDir())
	_ = st.Init()
	cfg, result, final := sampleRun(t)
	runID, err := st.Save(3, cfg, result, final)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	var buf bytes.Buffer
	if err := st.ExportJSON(&buf, runID); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if data.ID != runID || len(data.Times) != 2 || len(data.Series["kinetic_energy"]) != 2 {
		t.Errorf("unexpected export: %+v", data)
	}
}
