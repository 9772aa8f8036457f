package domain

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// WeightTolerance is the allowed deviation of a portfolio's weight sum from 1.0.
const WeightTolerance = 0.01

// ErrInvalidPortfolio is returned by Portfolio.Validate.
var ErrInvalidPortfolio = errors.New("invalid portfolio")

var validate = validator.New()

// Holding is one position of a portfolio, exposed to a single risk domain.
type Holding struct {
	DomainKey string             `json:"domain_key" yaml:"domain_key" validate:"required"`
	Weight    float64            `json:"weight" yaml:"weight" validate:"gte=0,lte=1"`
	Value     decimal.Decimal    `json:"value" yaml:"value"`
	Features  map[string]float64 `json:"features,omitempty" yaml:"features,omitempty"`
}

// Portfolio is a named collection of holdings. Weights are expected to sum to
// 1.0 within WeightTolerance.
type Portfolio struct {
	ID       string    `json:"id" yaml:"id"`
	Name     string    `json:"name" yaml:"name" validate:"required"`
	Holdings []Holding `json:"holdings" yaml:"holdings" validate:"required,min=1,dive"`
}

// Validate checks field constraints, non-negative values and the weight sum.
// The response simulator does not call it; callers validate before aggregating.
func (p *Portfolio) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPortfolio, err)
	}
	for i, h := range p.Holdings {
		if h.Value.IsNegative() {
			return fmt.Errorf("%w: holding %d has negative value %s", ErrInvalidPortfolio, i, h.Value)
		}
	}
	if sum := p.TotalWeight(); math.Abs(sum-1) > WeightTolerance {
		return fmt.Errorf("%w: weights sum to %.4f", ErrInvalidPortfolio, sum)
	}
	return nil
}

// TotalValue sums the monetary value of all holdings.
func (p *Portfolio) TotalValue() decimal.Decimal {
	total := decimal.Zero
	for _, h := range p.Holdings {
		total = total.Add(h.Value)
	}
	return total
}

// TotalWeight sums holding weights.
func (p *Portfolio) TotalWeight() float64 {
	sum := 0.0
	for _, h := range p.Holdings {
		sum += h.Weight
	}
	return sum
}
