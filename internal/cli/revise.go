package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"sol-paper-ledger/internal/engine"
	"sol-paper-ledger/internal/ledger"
)

type reviseCmd struct {
	mgr      *ledger.Manager
	id       string
	name     string
	entry    string
	invested string
}

func (*reviseCmd) Name() string     { return "revise" }
func (*reviseCmd) Synopsis() string { return "manually override fields of an open position" }
func (*reviseCmd) Usage() string {
	return `revise -id <position> [-name <label>] [-entry <mcap>] [-invested <sol>]

  Correction override for an open position. Changing -invested settles
  the difference against the balance. Cumulative buy/sell tracking is
  not touched; prefer 'buy' and 'sell' for real trades.
`
}

func (c *reviseCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "position id (required)")
	f.StringVar(&c.name, "name", "", "new label")
	f.StringVar(&c.entry, "entry", "", "new average entry market cap")
	f.StringVar(&c.invested, "invested", "", "new invested amount in SOL")
}

func (c *reviseCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.id == "" {
		return usageErr("-id is required")
	}

	var rev engine.Revision
	provided := map[string]bool{}
	f.Visit(func(fl *flag.Flag) { provided[fl.Name] = true })

	if provided["name"] {
		rev.Name = &c.name
	}
	if provided["entry"] {
		entry, err := parsePositive("-entry", c.entry)
		if err != nil {
			return usageErr("%v", err)
		}
		rev.AverageEntryMark = &entry
	}
	if provided["invested"] {
		invested, err := parseFinite("-invested", c.invested)
		if err != nil {
			return usageErr("%v", err)
		}
		rev.InvestedAmount = &invested
	}
	if rev.Name == nil && rev.AverageEntryMark == nil && rev.InvestedAmount == nil {
		return usageErr("nothing to revise; pass at least one of -name, -entry, -invested")
	}

	if err := c.mgr.ReviseOpenPosition(c.id, rev); err != nil {
		return fail(err)
	}
	fmt.Printf("Revised position %s.\n", c.id)
	return subcommands.ExitSuccess
}
