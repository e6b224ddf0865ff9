package schema

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/ionsim/internal/channel"
)

type stateDoc struct {
	ID          string  `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Conductance float64 `json:"conductance" yaml:"conductance"`
}

type rateFunctionDoc struct {
	ID       string `json:"id" yaml:"id"`
	Equation string `json:"equation" yaml:"equation"`
}

type transitionDoc struct {
	From           string   `json:"from" yaml:"from"`
	To             string   `json:"to" yaml:"to"`
	RateFunctionID string   `json:"rate_function_id" yaml:"rate_function_id"`
	Multiplier     *float64 `json:"multiplier" yaml:"multiplier"` // default 1
}

type modelDoc struct {
	ChannelID     string            `json:"channel_id" yaml:"channel_id"`
	States        []stateDoc        `json:"states" yaml:"states"`
	RateFunctions []rateFunctionDoc `json:"rate_functions" yaml:"rate_functions"`
	Transitions   []transitionDoc   `json:"transitions" yaml:"transitions"`
}

type holdingValuesDoc struct {
	VoltageMV       float64  `json:"voltage_mV" yaml:"voltage_mV"`
	InternalKMM     float64  `json:"internal_K_mM" yaml:"internal_K_mM"`
	ExternalKMM     float64  `json:"external_K_mM" yaml:"external_K_mM"`
	VolumeInternalL *float64 `json:"volume_internal_L" yaml:"volume_internal_L"`
	VolumeExternalL *float64 `json:"volume_external_L" yaml:"volume_external_L"`
}

type epochDoc struct {
	Variable    string  `json:"variable" yaml:"variable"`
	StartTimeMS float64 `json:"start_time_ms" yaml:"start_time_ms"`
	DurationMS  float64 `json:"duration_ms" yaml:"duration_ms"`
	Value       float64 `json:"value" yaml:"value"`
}

type protocolDoc struct {
	ProtocolID    string           `json:"protocol_id" yaml:"protocol_id"`
	HoldingValues holdingValuesDoc `json:"holding_values" yaml:"holding_values"`
	Epochs        []epochDoc       `json:"epochs" yaml:"epochs"`
}

// requestDoc is the combined simulation request consumed from stdin or
// a single file: model, protocol and run parameters together.
type requestDoc struct {
	Model      modelDoc    `json:"model" yaml:"model"`
	Protocol   protocolDoc `json:"protocol" yaml:"protocol"`
	DurationMS float64     `json:"duration_ms" yaml:"duration_ms"`
	Steps      int         `json:"steps" yaml:"steps"`
}

func unmarshal(data []byte, path string, v any) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, v)
	default:
		return json.Unmarshal(data, v)
	}
}

func (d modelDoc) build() (*channel.Model, error) {
	states := make([]channel.State, len(d.States))
	for i, s := range d.States {
		states[i] = channel.State{ID: s.ID, Name: s.Name, Conductance: s.Conductance}
	}
	fns := make([]channel.RateFunction, len(d.RateFunctions))
	for i, f := range d.RateFunctions {
		fns[i] = channel.RateFunction{ID: f.ID, Equation: f.Equation}
	}
	trans := make([]channel.Transition, len(d.Transitions))
	for i, tr := range d.Transitions {
		mult := 1.0
		if tr.Multiplier != nil {
			mult = *tr.Multiplier
		}
		trans[i] = channel.Transition{
			From:           tr.From,
			To:             tr.To,
			RateFunctionID: tr.RateFunctionID,
			Multiplier:     mult,
		}
	}
	return channel.NewModel(d.ChannelID, states, fns, trans)
}

func (d protocolDoc) build() (*channel.Protocol, error) {
	hv := channel.HoldingValues{
		VoltageMV:       d.HoldingValues.VoltageMV,
		InternalKMM:     d.HoldingValues.InternalKMM,
		ExternalKMM:     d.HoldingValues.ExternalKMM,
		VolumeInternalL: d.HoldingValues.VolumeInternalL,
		VolumeExternalL: d.HoldingValues.VolumeExternalL,
	}
	epochs := make([]channel.Epoch, len(d.Epochs))
	for i, e := range d.Epochs {
		epochs[i] = channel.Epoch{
			Variable:    e.Variable,
			StartTimeMS: e.StartTimeMS,
			DurationMS:  e.DurationMS,
			Value:       e.Value,
		}
	}
	return channel.NewProtocol(d.ProtocolID, hv, epochs)
}

// DecodeModel parses a model document. path selects the format by
// extension (.yaml/.yml, anything else is JSON).
func DecodeModel(data []byte, path string) (*channel.Model, error) {
	var doc modelDoc
	if err := unmarshal(data, path, &doc); err != nil {
		return nil, fmt.Errorf("schema: decode model: %w", err)
	}
	return doc.build()
}

// DecodeProtocol parses a protocol document.
func DecodeProtocol(data []byte, path string) (*channel.Protocol, error) {
	var doc protocolDoc
	if err := unmarshal(data, path, &doc); err != nil {
		return nil, fmt.Errorf("schema: decode protocol: %w", err)
	}
	return doc.build()
}

// LoadModel reads and parses a model file.
func LoadModel(path string) (*channel.Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return DecodeModel(data, path)
}

// LoadProtocol reads and parses a protocol file.
func LoadProtocol(path string) (*channel.Protocol, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return DecodeProtocol(data, path)
}

// Request is a decoded combined simulation request.
type Request struct {
	Model      *channel.Model
	Protocol   *channel.Protocol
	DurationMS float64
	Steps      int
}

// DecodeRequest parses a combined {model, protocol, duration_ms, steps}
// document.
func DecodeRequest(data []byte, path string) (*Request, error) {
	var doc requestDoc
	if err := unmarshal(data, path, &doc); err != nil {
		return nil, fmt.Errorf("schema: decode request: %w", err)
	}
	m, err := doc.Model.build()
	if err != nil {
		return nil, err
	}
	p, err := doc.Protocol.build()
	if err != nil {
		return nil, err
	}
	return &Request{Model: m, Protocol: p, DurationMS: doc.DurationMS, Steps: doc.Steps}, nil
}
