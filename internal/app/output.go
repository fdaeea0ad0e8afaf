package app

import (
	"encoding/json"
	"fmt"

	"github.com/specialistvlad/nxload/internal/dataset"
)

// summaryLine is one line of the JSON output stream.
type summaryLine struct {
	File   string          `json:"file"`
	Record dataset.Summary `json:"record"`
}

// writeSummary writes one JSON line per record. Workers share outW.
func (a *App) writeSummary(file string, s dataset.Summary) error {
	b, err := json.Marshal(summaryLine{File: file, Record: s})
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}
	a.outMu.Lock()
	defer a.outMu.Unlock()
	_, err = fmt.Fprintf(a.outW, "%s\n", b)
	return err
}
