package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"sol-paper-ledger/internal/ledger"
)

type openCmd struct {
	mgr    *ledger.Manager
	name   string
	mark   string
	amount string
}

func (*openCmd) Name() string     { return "open" }
func (*openCmd) Synopsis() string { return "open a new position at a market-cap mark" }
func (*openCmd) Usage() string {
	return `open -name <label> -mark <mcap> -amount <sol>

  Opens a position, committing <sol> at the given market-cap mark and
  debiting the balance.
`
}

func (c *openCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "free-text label for the position (required)")
	f.StringVar(&c.mark, "mark", "", "entry market cap (required)")
	f.StringVar(&c.amount, "amount", "", "amount to invest in SOL (required)")
}

func (c *openCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.name == "" {
		return usageErr("-name is required")
	}
	mark, err := parsePositive("-mark", c.mark)
	if err != nil {
		return usageErr("%v", err)
	}
	amount, err := parsePositive("-amount", c.amount)
	if err != nil {
		return usageErr("%v", err)
	}

	pos, err := c.mgr.OpenPosition(c.name, mark, amount)
	if err != nil {
		return fail(err)
	}
	fmt.Printf("Opened position %s (%s): %s SOL at %s.\n",
		pos.ID, pos.Name, fmtSOL(pos.InvestedAmount), fmtMark(pos.AverageEntryMark))
	return subcommands.ExitSuccess
}
