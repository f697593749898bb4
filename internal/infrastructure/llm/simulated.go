package llm

import (
	"context"
	"fmt"
)

// SimulatedProvider produces deterministic offline responses.  It always
// mentions the brand, which is what keeps the no-keys analysis path producing
// stable, reproducible mention statistics.
type SimulatedProvider struct {
	brandName string
}

// NewSimulatedProvider builds a simulated provider for one brand.
func NewSimulatedProvider(brandName string) *SimulatedProvider {
	return &SimulatedProvider{brandName: brandName}
}

// Name implements ChatProvider.
func (p *SimulatedProvider) Name() string { return "simulated" }

// Complete implements ChatProvider.  It echoes the query inside a fixed
// brand-mentioning template and never fails.
func (p *SimulatedProvider) Complete(_ context.Context, prompt string, _ int) (string, error) {
	return fmt.Sprintf("%s is known for innovation. %s", p.brandName, prompt), nil
}
