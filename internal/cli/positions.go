package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"sol-paper-ledger/internal/ledger"
)

type positionsCmd struct {
	mgr *ledger.Manager
	all bool
}

func (*positionsCmd) Name() string     { return "positions" }
func (*positionsCmd) Synopsis() string { return "list positions" }
func (*positionsCmd) Usage() string {
	return `positions [-all]

  Lists open positions, most recent first. With -all, closed positions
  are included.
`
}

func (c *positionsCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.all, "all", false, "include closed positions")
}

func (c *positionsCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	state := c.mgr.State()
	if !state.Initialized() {
		fmt.Println("No active session. Run 'init' first.")
		return subcommands.ExitSuccess
	}
	renderPositions(os.Stdout, state, c.all)
	return subcommands.ExitSuccess
}
