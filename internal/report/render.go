package report

import (
	"fmt"
	"strings"
)

// Render formats the report as plain text for archiving and CLI output.
func (r *Report) Render() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Daily Portfolio Report — %s\n", r.GeneratedAt.Format("2006-01-02 15:04 UTC"))
	fmt.Fprintf(&b, "Run %s\n\n", r.ID)

	b.WriteString("Assets\n")
	for _, a := range r.Assets {
		fmt.Fprintf(&b, "  %-10s $%.2f (%+.2f%% 24h)  stance: %s\n",
			a.Asset, a.Price, a.Change24h, a.Stance)
		fmt.Fprintf(&b, "             return %+.2f%%  vol %.2f%%  sharpe %.2f  max dd %.2f%%\n",
			a.Stats.TotalReturn*100, a.Stats.Volatility*100, a.Stats.SharpeRatio, a.Stats.MaxDrawdown*100)
		if a.Forecast != nil {
			fmt.Fprintf(&b, "             next day $%.2f (%+.2f%%, confidence %.0f%%)\n",
				a.Forecast.Price, a.Forecast.Change*100, a.Forecast.Confidence*100)
		}
	}

	p := r.Portfolio
	fmt.Fprintf(&b, "\nPortfolio (%s rebalancing, %d rebalances)\n", p.Frequency, p.Rebalances)
	fmt.Fprintf(&b, "  $%.2f -> $%.2f (%+.2f%%)\n",
		p.InitialCapital, p.FinalValue, p.Stats.TotalReturn*100)
	fmt.Fprintf(&b, "  vol %.2f%%  sharpe %.2f  max dd %.2f%%\n",
		p.Stats.Volatility*100, p.Stats.SharpeRatio, p.Stats.MaxDrawdown*100)

	b.WriteString("  drift from target:\n")
	for _, d := range p.Drift {
		fmt.Fprintf(&b, "    %-10s %.1f%% -> %.1f%%  (%.6f coins)\n",
			d.Asset, d.TargetWeight*100, d.FinalWeight*100, d.FinalQuantity)
	}

	return b.String()
}
