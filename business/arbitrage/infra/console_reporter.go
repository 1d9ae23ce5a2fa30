// Package infra contains infrastructure adapters for the arbitrage context.
package infra

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/deeparb/deeparb/business/arbitrage/domain"
)

// ConsoleReporter implements Reporter for CLI output.
type ConsoleReporter struct {
	out io.Writer
}

// NewConsoleReporter creates a new ConsoleReporter.
func NewConsoleReporter() *ConsoleReporter {
	return &ConsoleReporter{
		out: os.Stdout,
	}
}

// Start initializes the console reporter.
func (r *ConsoleReporter) Start(ctx context.Context) error {
	fmt.Fprintln(r.out, "Arbitrage Scanner Started")
	fmt.Fprintln(r.out, "=========================")
	return nil
}

// Report outputs an arbitrage opportunity to the console.
func (r *ConsoleReporter) Report(opp *domain.Opportunity) {
	rule := strings.Repeat("=", 80)
	thin := strings.Repeat("-", 80)

	fmt.Fprintln(r.out, "")
	fmt.Fprintln(r.out, rule)
	fmt.Fprintln(r.out, "ARBITRAGE OPPORTUNITY DETECTED")
	fmt.Fprintln(r.out, rule)
	fmt.Fprintf(r.out, "Timestamp:      %s\n", opp.Timestamp.Format(time.RFC3339))
	fmt.Fprintf(r.out, "Path:           %s\n", strings.Join(opp.Path, " -> "))
	fmt.Fprintln(r.out, thin)
	fmt.Fprintln(r.out, "ROUTE")
	fmt.Fprintf(r.out, "  Borrow:         %s %s on %s (%s side)\n",
		opp.BorrowAmount.StringFixed(4), opp.BorrowAsset, opp.BorrowPool, opp.BorrowSide)
	fmt.Fprintf(r.out, "  Swap via:       %s\n", opp.SwapPool)
	fmt.Fprintf(r.out, "  Est. return:    %s %s\n", opp.EstimatedReturn.StringFixed(4), opp.BorrowAsset)
	fmt.Fprintln(r.out, thin)
	fmt.Fprintln(r.out, "PROFIT")
	fmt.Fprintf(r.out, "  Net:            %s %s (%s%%)\n",
		opp.EstimatedProfit.StringFixed(6), opp.BorrowAsset, opp.ProfitPercent.StringFixed(4))
	fmt.Fprintln(r.out, rule)
}

// Stop gracefully shuts down the console reporter.
func (r *ConsoleReporter) Stop() error {
	fmt.Fprintln(r.out, "")
	fmt.Fprintln(r.out, "Arbitrage Scanner Stopped")
	return nil
}
