package channel

import "fmt"

// Stimulus variable names. Epochs may override any of these.
const (
	VarVoltageMV       = "voltage_mV"
	VarInternalKMM     = "internal_K_mM"
	VarExternalKMM     = "external_K_mM"
	VarVolumeInternalL = "volume_internal_L"
	VarVolumeExternalL = "volume_external_L"
)

// Compartment volume placeholders substituted when a protocol omits the
// optional volume fields. 1 pL is a generic cell, 1 uL a recording bath.
const (
	DefaultInternalVolumeL = 1e-12
	DefaultExternalVolumeL = 1e-6
)

// HoldingValues are the baseline conditions absent any active epoch.
// The volume fields are optional; nil means the package defaults apply.
type HoldingValues struct {
	VoltageMV       float64
	InternalKMM     float64
	ExternalKMM     float64
	VolumeInternalL *float64
	VolumeExternalL *float64
}

// Epoch overrides one stimulus variable for the half-open interval
// [StartTimeMS, StartTimeMS+DurationMS).
type Epoch struct {
	Variable    string
	StartTimeMS float64
	DurationMS  float64
	Value       float64
}

// Protocol is an immutable stimulus protocol.
type Protocol struct {
	ProtocolID    string
	HoldingValues HoldingValues
	Epochs        []Epoch
}

// NewProtocol validates holding values and epochs and returns an
// immutable Protocol. Overlapping epochs on the same variable are
// allowed; see Stimulus.ValueAt for the resolution order.
func NewProtocol(protocolID string, hv HoldingValues, epochs []Epoch) (*Protocol, error) {
	if protocolID == "" {
		return nil, fmt.Errorf("%w: empty protocol id", ErrInvalidProtocol)
	}
	if hv.VolumeInternalL != nil && *hv.VolumeInternalL <= 0 {
		return nil, fmt.Errorf("%w: volume_internal_L must be positive, got %g", ErrInvalidProtocol, *hv.VolumeInternalL)
	}
	if hv.VolumeExternalL != nil && *hv.VolumeExternalL <= 0 {
		return nil, fmt.Errorf("%w: volume_external_L must be positive, got %g", ErrInvalidProtocol, *hv.VolumeExternalL)
	}

	for i, e := range epochs {
		if !validVariable(e.Variable) {
			return nil, fmt.Errorf("%w: epoch %d: %q is not a stimulus variable", ErrInvalidProtocol, i, e.Variable)
		}
		if e.StartTimeMS < 0 {
			return nil, fmt.Errorf("%w: epoch %d: start time must be >= 0, got %g", ErrInvalidProtocol, i, e.StartTimeMS)
		}
		if e.DurationMS <= 0 {
			return nil, fmt.Errorf("%w: epoch %d: duration must be positive, got %g", ErrInvalidProtocol, i, e.DurationMS)
		}
	}

	p := &Protocol{
		ProtocolID:    protocolID,
		HoldingValues: hv,
		Epochs:        append([]Epoch(nil), epochs...),
	}
	return p, nil
}

func validVariable(name string) bool {
	switch name {
	case VarVoltageMV, VarInternalKMM, VarExternalKMM, VarVolumeInternalL, VarVolumeExternalL:
		return true
	}
	return false
}

// InternalVolumeL resolves the internal compartment volume, applying
// the default when the protocol omits it.
func (p *Protocol) InternalVolumeL() float64 {
	if p.HoldingValues.VolumeInternalL != nil {
		return *p.HoldingValues.VolumeInternalL
	}
	return DefaultInternalVolumeL
}

// ExternalVolumeL resolves the external compartment volume, applying
// the default when the protocol omits it.
func (p *Protocol) ExternalVolumeL() float64 {
	if p.HoldingValues.VolumeExternalL != nil {
		return *p.HoldingValues.VolumeExternalL
	}
	return DefaultExternalVolumeL
}
