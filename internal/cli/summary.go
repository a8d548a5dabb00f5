package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"sol-paper-ledger/internal/ledger"
	"sol-paper-ledger/internal/metrics"
)

type summaryCmd struct {
	mgr *ledger.Manager
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "show balances and aggregate metrics" }
func (*summaryCmd) Usage() string {
	return `summary

  Shows the cash balance, mark-to-market open value, equity and the
  realized metrics over closed positions.
`
}

func (*summaryCmd) SetFlags(*flag.FlagSet) {}

func (c *summaryCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	state := c.mgr.State()
	if !state.Initialized() {
		fmt.Println("No active session. Run 'init' first.")
		return subcommands.ExitSuccess
	}
	renderSummary(os.Stdout, state, metrics.Compute(state))
	return subcommands.ExitSuccess
}
