package config

import (
	"fmt"
	"os"

	"startup-risk-lab/internal/domain"
)

// ScenarioFile is a scenario definition on disk. Zero iterations, horizon and
// correlation are filled from EngineConfig defaults by ApplyDefaults.
type ScenarioFile struct {
	Scenario domain.ScenarioParameters `yaml:"scenario"`
}

// PortfolioFile is a portfolio definition on disk.
type PortfolioFile struct {
	Portfolio domain.Portfolio `yaml:"portfolio"`
}

// LoadScenario reads scenario parameters from a YAML file.
// Validation happens in the engine, which owns the rules.
func LoadScenario(path string) (domain.ScenarioParameters, error) {
	var f ScenarioFile
	if err := readYAML(path, &f); err != nil {
		return domain.ScenarioParameters{}, err
	}
	return f.Scenario, nil
}

// LoadPortfolio reads and validates a portfolio from a YAML file.
func LoadPortfolio(path string) (*domain.Portfolio, error) {
	var f PortfolioFile
	if err := readYAML(path, &f); err != nil {
		return nil, err
	}
	if err := f.Portfolio.Validate(); err != nil {
		return nil, fmt.Errorf("portfolio %s: %w", path, err)
	}
	return &f.Portfolio, nil
}

// ApplyDefaults fills unset run parameters from engine defaults.
func (e EngineConfig) ApplyDefaults(p *domain.ScenarioParameters) {
	if p.NumIterations == 0 {
		p.NumIterations = e.DefaultIterations
	}
	if p.TimeHorizonDays == 0 {
		p.TimeHorizonDays = e.DefaultHorizonDays
	}
	if p.CorrelationProbability == 0 && len(p.CustomShocks) == 0 {
		p.CorrelationProbability = e.CorrelationProbability
	}
}

func readYAML(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := decodeStrict(data, out); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
