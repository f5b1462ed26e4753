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
	"strings"
	"time"

	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/experiment"
	"github.com/san-kum/gravsim/internal/scenario"
)

const (
	metadataFile = "metadata.json"
	statesFile   = "states.csv"
	finalFile    = "final.txt"

	// columns per body in states.csv
	bodyColumns = 4
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Scenario   string             `json:"scenario"`
	Timestamp  time.Time          `json:"timestamp"`
	G          float64            `json:"g"`
	Epsilon    float64            `json:"epsilon"`
	Dt         float64            `json:"dt"`
	Steps      int                `json:"steps"`
	Duration   float64            `json:"duration"`
	Integrator string             `json:"integrator"`
	Bodies     int                `json:"bodies"`
	Elapsed    float64            `json:"elapsed_seconds"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Save writes a run directory and returns its id. ID, Timestamp, Steps,
// Duration, Bodies, Elapsed and Metrics are filled from result.
func (s *Store) Save(meta RunMetadata, result *experiment.Result) (string, error) {
	if len(result.Samples) == 0 {
		return "", fmt.Errorf("storage: run has no samples")
	}

	runID, runDir, err := s.createRunDir(runName(meta.Scenario))
	if err != nil {
		return "", err
	}

	final := result.Final
	if final == nil {
		final = result.Samples[len(result.Samples)-1]
	}

	meta.ID = runID
	meta.Timestamp = time.Now()
	meta.Steps = result.Steps
	meta.Duration = meta.Dt * float64(result.Steps)
	meta.Bodies = len(final)
	meta.Elapsed = result.Elapsed.Seconds()
	meta.Metrics = result.Metrics

	if err := writeMetadata(filepath.Join(runDir, metadataFile), &meta); err != nil {
		return "", err
	}
	if err := writeStates(filepath.Join(runDir, statesFile), result.Times, result.Samples); err != nil {
		return "", err
	}
	if err := scenario.SaveFile(filepath.Join(runDir, finalFile), final); err != nil {
		return "", err
	}

	return runID, nil
}

func runName(source string) string {
	name := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	if name == "" || name == "." {
		return "run"
	}
	return name
}

func (s *Store) createRunDir(name string) (string, string, error) {
	base := fmt.Sprintf("%s_%d", name, time.Now().Unix())
	for i := 0; ; i++ {
		runID := base
		if i > 0 {
			runID = fmt.Sprintf("%s_%d", base, i)
		}
		runDir := filepath.Join(s.baseDir, runID)
		err := os.Mkdir(runDir, 0755)
		if err == nil {
			return runID, runDir, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", "", err
		}
	}
}

func writeMetadata(path string, meta *RunMetadata) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func writeStates(path string, times []float64, samples [][]dynamo.Body) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)

	header := []string{"time"}
	for i := range samples[0] {
		header = append(header,
			fmt.Sprintf("b%d_x", i), fmt.Sprintf("b%d_y", i),
			fmt.Sprintf("b%d_vx", i), fmt.Sprintf("b%d_vy", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i, bodies := range samples {
		row := make([]string, 0, 1+len(bodies)*bodyColumns)
		row = append(row, formatFloat(times[i]))
		for _, b := range bodies {
			row = append(row,
				formatFloat(b.Pos.X), formatFloat(b.Pos.Y),
				formatFloat(b.Vel.X), formatFloat(b.Vel.Y))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// List returns the metadata of every run, oldest first. Directories without
// readable metadata are skipped.
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
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("%s: %w", runID, err)
	}
	return &meta, nil
}

// Track is the sampled history of one body.
type Track struct {
	Pos []dynamo.Vec2
	Vel []dynamo.Vec2
}

// LoadStates reads states.csv back as sample times and one track per body.
func (s *Store) LoadStates(runID string) ([]float64, []Track, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, statesFile))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", runID, err)
	}
	if len(records) < 1 {
		return nil, nil, fmt.Errorf("%s: empty %s", runID, statesFile)
	}

	cols := len(records[0]) - 1
	if cols < 0 || cols%bodyColumns != 0 {
		return nil, nil, fmt.Errorf("%s: bad header in %s", runID, statesFile)
	}

	rows := records[1:]
	times := make([]float64, 0, len(rows))
	tracks := make([]Track, cols/bodyColumns)
	for i := range tracks {
		tracks[i].Pos = make([]dynamo.Vec2, 0, len(rows))
		tracks[i].Vel = make([]dynamo.Vec2, 0, len(rows))
	}

	for n, record := range rows {
		vals := make([]float64, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("%s: %s row %d: %w", runID, statesFile, n+2, err)
			}
			vals[j] = v
		}

		times = append(times, vals[0])
		for i := range tracks {
			c := 1 + i*bodyColumns
			tracks[i].Pos = append(tracks[i].Pos, dynamo.Vec2{X: vals[c], Y: vals[c+1]})
			tracks[i].Vel = append(tracks[i].Vel, dynamo.Vec2{X: vals[c+2], Y: vals[c+3]})
		}
	}

	return times, tracks, nil
}

// LoadFinal returns the bodies as they were at the end of the run.
func (s *Store) LoadFinal(runID string) ([]dynamo.Body, error) {
	return scenario.LoadFile(s.FinalPath(runID))
}

// FinalPath is the scenario file holding the final state of a run.
func (s *Store) FinalPath(runID string) string {
	return filepath.Join(s.baseDir, runID, finalFile)
}

// StatesPath is the CSV file holding the sampled states of a run.
func (s *Store) StatesPath(runID string) string {
	return filepath.Join(s.baseDir, runID, statesFile)
}
