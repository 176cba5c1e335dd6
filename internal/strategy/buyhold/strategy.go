package buyhold

// BuyHold is the baseline strategy: fully invested from the first day,
// never exits.
type BuyHold struct{}

// New creates a new Buy & Hold strategy
func New() *BuyHold {
	return &BuyHold{}
}

func (b *BuyHold) Name() string {
	return "buy_and_hold"
}

func (b *BuyHold) Description() string {
	return "Buy at the start, hold forever"
}

func (b *BuyHold) MinHistory() int {
	return 1
}

func (b *BuyHold) Raw(prices []float64) []int {
	signal := make([]int, len(prices))
	for i := range signal {
		signal[i] = 1
	}
	return signal
}
