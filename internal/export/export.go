// Package export serializes simulation results to JSON and CSV.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/san-kum/ionsim/internal/engine"
	"github.com/san-kum/ionsim/internal/storage"
)

// resultDoc mirrors the original result vocabulary: probabilities are
// transposed to one array per state, paired with a state_map from state
// id to its column index.
type resultDoc struct {
	TimeMS             []float64      `json:"time_ms"`
	VoltageMV          []float64      `json:"voltage_mV"`
	Probabilities      [][]float64    `json:"probabilities"`
	TotalConductanceNS []float64      `json:"total_conductance_nS"`
	TotalCurrentPA     []float64      `json:"total_current_pA"`
	InternalKMM        []float64      `json:"internal_K_mM"`
	ExternalKMM        []float64      `json:"external_K_mM"`
	NernstPotentialMV  []float64      `json:"nernst_potential_mV"`
	StateMap           map[string]int `json:"state_map"`
}

// JSON writes the full result document, indented.
func JSON(w io.Writer, res *engine.Result) error {
	n := res.Len()
	numStates := len(res.StateIndex)

	probs := make([][]float64, numStates)
	for s := range probs {
		probs[s] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for s := 0; s < numStates; s++ {
			probs[s][i] = res.Probabilities[i][s]
		}
	}

	doc := resultDoc{
		TimeMS:             res.TimeMS,
		VoltageMV:          res.VoltageMV,
		Probabilities:      probs,
		TotalConductanceNS: res.TotalConductanceNS,
		TotalCurrentPA:     res.TotalCurrentPA,
		InternalKMM:        res.InternalKMM,
		ExternalKMM:        res.ExternalKMM,
		NernstPotentialMV:  res.NernstPotentialMV,
		StateMap:           res.StateIndex,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// CSV writes the result as the same trace table the run store persists.
func CSV(w io.Writer, res *engine.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(storage.TraceColumns(res)); err != nil {
		return err
	}
	for i := 0; i < res.Len(); i++ {
		if err := cw.Write(formatRow(storage.TraceRow(res, i))); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTraces re-serializes a stored trace table, for exporting runs
// loaded back from disk.
func WriteTraces(w io.Writer, columns []string, rows [][]float64) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write(formatRow(row)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// TracesJSON writes a stored trace table as a column-keyed JSON object.
func TracesJSON(w io.Writer, columns []string, rows [][]float64) error {
	doc := make(map[string][]float64, len(columns))
	for i, col := range columns {
		series := make([]float64, len(rows))
		for j, row := range rows {
			series[j] = row[i]
		}
		doc[col] = series
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func formatRow(vals []float64) []string {
	row := make([]string, len(vals))
	for i, v := range vals {
		row[i] = strconv.FormatFloat(v, 'g', 12, 64)
	}
	return row
}
