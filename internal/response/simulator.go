// Package response maps shocks through risk domains and combines per-domain
// outcomes into portfolio risk figures.
package response

import (
	"fmt"

	"github.com/rs/zerolog"

	"startup-risk-lab/internal/domain"
	"startup-risk-lab/internal/riskdomain"
)

// Simulator evaluates domain responses against a registry.
// It holds no mutable state and is safe for concurrent use.
type Simulator struct {
	registry *riskdomain.Registry
	logger   zerolog.Logger
}

// Options contains configuration for creating a Simulator.
type Options struct {
	Registry *riskdomain.Registry // nil: riskdomain.Default()
	Logger   *zerolog.Logger      // nil: no logging
}

// New creates a response simulator.
func New(opts Options) *Simulator {
	reg := opts.Registry
	if reg == nil {
		reg = riskdomain.Default()
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = opts.Logger.With().Str("component", "response").Logger()
	}
	return &Simulator{registry: reg, logger: logger}
}

// Registry returns the registry the simulator resolves domains from.
func (s *Simulator) Registry() *riskdomain.Registry {
	return s.registry
}

// SimulateDomainResponse resolves the domain, validates features against its
// schema and returns the domain's outcomes for the shock list.
// Returns an error wrapping riskdomain.ErrUnknownDomain for unknown keys.
func (s *Simulator) SimulateDomainResponse(domainKey string, features map[string]float64, shocks []domain.Shock) (domain.Outcomes, error) {
	d, err := s.registry.Get(domainKey)
	if err != nil {
		return nil, err
	}
	f, err := d.ExtractFeatures(features)
	if err != nil {
		return nil, err
	}
	return d.SimulateResponse(f, shocks), nil
}

// Respond is SimulateDomainResponse plus the domain's loss index.
func (s *Simulator) Respond(domainKey string, features map[string]float64, shocks []domain.Shock) (DomainResponse, error) {
	d, err := s.registry.Get(domainKey)
	if err != nil {
		return DomainResponse{}, err
	}
	f, err := d.ExtractFeatures(features)
	if err != nil {
		return DomainResponse{}, err
	}
	out := d.SimulateResponse(f, shocks)
	return DomainResponse{Outcomes: out, Loss: d.LossIndex(out)}, nil
}

// FromScenario turns a completed scenario run into a DomainResponse: metric
// means as point outcomes and one loss sample per iteration.
func (s *Simulator) FromScenario(res *domain.ScenarioResult) (DomainResponse, error) {
	d, err := s.registry.Get(res.DomainKey)
	if err != nil {
		return DomainResponse{}, err
	}
	if len(res.Results) == 0 {
		return DomainResponse{}, fmt.Errorf("scenario %s has no iterations", res.ID)
	}

	out := make(domain.Outcomes, len(res.SummaryStats))
	for k, st := range res.SummaryStats {
		out[k] = st.Mean
	}
	losses := make([]float64, len(res.Results))
	for i, it := range res.Results {
		losses[i] = d.LossIndex(it.Outcomes)
	}
	return DomainResponse{Outcomes: out, Loss: d.LossIndex(out), Losses: losses}, nil
}
