package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/distgrab/internal/sim"
)

type ExportData struct {
	Run     *RunMetadata `json:"run"`
	Columns []string     `json:"columns"`
	Times   []float64    `json:"times"`
	Values  [][]float64  `json:"values"`
}

// ExportJSON writes a stored run to w as one JSON document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	series, err := s.LoadSeries(runID)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ExportData{
		Run:     meta,
		Columns: series.Columns,
		Times:   series.Times,
		Values:  series.Values,
	})
}

// ExportResult writes a full in-memory result, frames and events included.
func ExportResult(path string, result *sim.Result) error {
	if path == "" || path == "-" {
		return encodeResult(os.Stdout, result)
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return encodeResult(file, result)
}

func encodeResult(w io.Writer, result *sim.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
