package strategy

// Position values produced by strategies: 0 = flat, 1 = long.
const (
	Flat = 0
	Long = 1
)

// Strategy defines the interface for position-signal generators.
//
// Raw returns one position value per input price, computed only from
// prices at or before each index. Positions the strategy cannot define
// yet (warm-up windows) are Flat. Raw output must still be lagged by
// Shift before it is applied to returns; the engine does this so that
// individual strategies cannot forget it.
type Strategy interface {
	Name() string
	Description() string
	MinHistory() int
	Raw(prices []float64) []int
}

// Shift lags a raw signal by exactly one period, so the position held
// on day t was decided with information known at t-1. The first
// position is always Flat.
func Shift(raw []int) []int {
	shifted := make([]int, len(raw))
	for i := 1; i < len(raw); i++ {
		shifted[i] = raw[i-1]
	}
	return shifted
}
