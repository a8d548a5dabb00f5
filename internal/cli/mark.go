package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"sol-paper-ledger/internal/ledger"
)

type markCmd struct {
	mgr  *ledger.Manager
	id   string
	mark string
}

func (*markCmd) Name() string     { return "mark" }
func (*markCmd) Synopsis() string { return "record a newly observed market cap on a position" }
func (*markCmd) Usage() string {
	return `mark -id <position> -mark <mcap>

  Updates the observed market cap of an open position. Purely
  observational; realized figures are unaffected.
`
}

func (c *markCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "position id (required)")
	f.StringVar(&c.mark, "mark", "", "observed market cap (required)")
}

func (c *markCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.id == "" {
		return usageErr("-id is required")
	}
	mark, err := parsePositive("-mark", c.mark)
	if err != nil {
		return usageErr("%v", err)
	}

	if err := c.mgr.MarkPosition(c.id, mark); err != nil {
		return fail(err)
	}
	fmt.Printf("Marked %s at %s.\n", c.id, fmtMark(mark))
	return subcommands.ExitSuccess
}
