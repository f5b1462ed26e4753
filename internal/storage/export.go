package storage

import (
	"encoding/json"
	"io"
	"os"
)

type ExportData struct {
	Run    RunMetadata `json:"run"`
	Times  []float64   `json:"times"`
	Bodies []BodyTrack `json:"bodies"`
}

type BodyTrack struct {
	Label  string    `json:"label"`
	Color  string    `json:"color"`
	Mass   float64   `json:"mass"`
	Radius float64   `json:"radius"`
	X      []float64 `json:"x"`
	Y      []float64 `json:"y"`
	VX     []float64 `json:"vx"`
	VY     []float64 `json:"vy"`
}

// ExportJSON writes the metadata, the sampled tracks and the body
// attributes of a run as one JSON document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	times, tracks, err := s.LoadStates(runID)
	if err != nil {
		return err
	}
	final, err := s.LoadFinal(runID)
	if err != nil {
		return err
	}

	data := ExportData{
		Run:    *meta,
		Times:  times,
		Bodies: make([]BodyTrack, len(tracks)),
	}
	for i, tr := range tracks {
		bt := BodyTrack{
			X:  make([]float64, len(tr.Pos)),
			Y:  make([]float64, len(tr.Pos)),
			VX: make([]float64, len(tr.Vel)),
			VY: make([]float64, len(tr.Vel)),
		}
		if i < len(final) {
			bt.Label = final[i].Label()
			bt.Color = final[i].Color()
			bt.Mass = final[i].Mass()
			bt.Radius = final[i].Radius()
		}
		for k := range tr.Pos {
			bt.X[k], bt.Y[k] = tr.Pos[k].X, tr.Pos[k].Y
			bt.VX[k], bt.VY[k] = tr.Vel[k].X, tr.Vel[k].Y
		}
		data.Bodies[i] = bt
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func (s *Store) ExportJSONFile(path, runID string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return s.ExportJSON(file, runID)
}

// CopyStates writes the raw states.csv of a run to w.
func (s *Store) CopyStates(w io.Writer, runID string) error {
	f, err := os.Open(s.StatesPath(runID))
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(w, f)
	return err
}
