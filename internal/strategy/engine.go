package strategy

import (
	"sync"

	"github.com/quantfolio/quantfolio/internal/core"
	"go.uber.org/zap"
)

// Engine manages registered strategies and turns price series into
// lagged position signals.
type Engine struct {
	mu         sync.RWMutex
	strategies map[string]Strategy
	logger     *zap.Logger
}

// NewEngine creates a new strategy engine
func NewEngine(logger ...*zap.Logger) *Engine {
	var l *zap.Logger
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	} else {
		l = zap.NewNop()
	}
	return &Engine{
		strategies: make(map[string]Strategy),
		logger:     l,
	}
}

// Register adds a strategy to the engine
func (e *Engine) Register(s Strategy) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.strategies[s.Name()] = s
}

// Get retrieves a strategy by name
func (e *Engine) Get(name string) (Strategy, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	s, ok := e.strategies[name]
	return s, ok
}

// Names returns the registered strategy names.
func (e *Engine) Names() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	result := make([]string, 0, len(e.strategies))
	for name := range e.strategies {
		result = append(result, name)
	}
	return result
}

// ComputeSignal runs the named strategy over the series and returns
// the lagged position signal, aligned 1:1 with the input.
func (e *Engine) ComputeSignal(series core.PriceSeries, name string) ([]int, error) {
	s, ok := e.Get(name)
	if !ok {
		return nil, core.ErrStrategyNotFound
	}
	return Compute(s, series)
}

// Compute validates the series, runs the strategy, and applies the
// mandatory one-period lag. A series shorter than the strategy's
// window is not an error: undefined positions are simply Flat.
func Compute(s Strategy, series core.PriceSeries) ([]int, error) {
	if err := series.Validate(); err != nil {
		return nil, err
	}
	raw := s.Raw(series.Prices())
	return Shift(raw), nil
}
