package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"sol-paper-ledger/internal/ledger"
)

type historyCmd struct {
	mgr *ledger.Manager
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "show the balance / open-value time series" }
func (*historyCmd) Usage() string {
	return `history

  Shows every recorded snapshot point, oldest first. Points are only
  recorded when balance or open value actually changed.
`
}

func (*historyCmd) SetFlags(*flag.FlagSet) {}

func (c *historyCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	state := c.mgr.State()
	if len(state.History) == 0 {
		fmt.Println("No history recorded yet.")
		return subcommands.ExitSuccess
	}
	renderHistory(os.Stdout, state.History)
	return subcommands.ExitSuccess
}

type clearHistoryCmd struct {
	mgr *ledger.Manager
}

func (*clearHistoryCmd) Name() string     { return "clear-history" }
func (*clearHistoryCmd) Synopsis() string { return "empty the snapshot series" }
func (*clearHistoryCmd) Usage() string {
	return `clear-history

  Empties the snapshot series. Balance and positions are untouched.
`
}

func (*clearHistoryCmd) SetFlags(*flag.FlagSet) {}

func (c *clearHistoryCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := c.mgr.ClearHistory(); err != nil {
		return fail(err)
	}
	fmt.Println("History cleared.")
	return subcommands.ExitSuccess
}
