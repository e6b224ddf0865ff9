package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/ionsim/internal/engine"
)

// Store persists simulation runs under a base directory, one
// subdirectory per run holding metadata.json and traces.csv.
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
	ChannelID  string             `json:"channel_id"`
	ProtocolID string             `json:"protocol_id"`
	Timestamp  time.Time          `json:"timestamp"`
	DurationMS float64            `json:"duration_ms"`
	Steps      int                `json:"steps"`
	Integrator string             `json:"integrator"`
	Metrics    map[string]float64 `json:"metrics"`
}

// Save writes one run. The trace columns are time_ms, voltage_mV, one
// p_<state id> column per state in index order, then conductance,
// current, concentrations and Nernst potential.
func (s *Store) Save(meta RunMetadata, res *engine.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", meta.ChannelID, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = time.Now()

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "traces.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write(TraceColumns(res)); err != nil {
		return "", err
	}
	for i := 0; i < res.Len(); i++ {
		if err := w.Write(formatRow(TraceRow(res, i))); err != nil {
			return "", err
		}
	}
	if err := w.Error(); err != nil {
		return "", err
	}

	return runID, nil
}

// TraceColumns returns the CSV header for a result.
func TraceColumns(res *engine.Result) []string {
	cols := []string{"time_ms", "voltage_mV"}
	for _, id := range stateIDsInOrder(res.StateIndex) {
		cols = append(cols, "p_"+id)
	}
	cols = append(cols,
		"total_conductance_nS",
		"total_current_pA",
		"internal_K_mM",
		"external_K_mM",
		"nernst_potential_mV",
	)
	return cols
}

// TraceRow returns the i-th sample as a numeric row matching TraceColumns.
func TraceRow(res *engine.Result, i int) []float64 {
	row := []float64{res.TimeMS[i], res.VoltageMV[i]}
	row = append(row, res.Probabilities[i]...)
	row = append(row,
		res.TotalConductanceNS[i],
		res.TotalCurrentPA[i],
		res.InternalKMM[i],
		res.ExternalKMM[i],
		res.NernstPotentialMV[i],
	)
	return row
}

func stateIDsInOrder(index map[string]int) []string {
	ids := make([]string, 0, len(index))
	for id := range index {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(a, b int) bool { return index[ids[a]] < index[ids[b]] })
	return ids
}

func formatRow(vals []float64) []string {
	row := make([]string, len(vals))
	for i, v := range vals {
		row[i] = strconv.FormatFloat(v, 'g', 12, 64)
	}
	return row
}

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
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}
		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadTraces reads a run's trace table back: the column names and one
// numeric row per sample.
func (s *Store) LoadTraces(runID string) ([]string, [][]float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "traces.csv"))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("storage: run %s has empty traces", runID)
	}

	columns := records[0]
	rows := make([][]float64, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make([]float64, len(record))
		for i, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("storage: run %s: bad value %q: %w", runID, field, err)
			}
			row[i] = v
		}
		rows = append(rows, row)
	}
	return columns, rows, nil
}
