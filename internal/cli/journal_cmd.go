package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"sol-paper-ledger/internal/ledger"
)

type journalCmd struct {
	mgr   *ledger.Manager
	limit int
	clear bool
}

func (*journalCmd) Name() string     { return "journal" }
func (*journalCmd) Synopsis() string { return "show the audit trail of executed operations" }
func (*journalCmd) Usage() string {
	return `journal [-limit <n>] [-clear]

  Shows the operations executed in the current session, most recent
  first. With -clear, deletes the current session's entries instead.
`
}

func (c *journalCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.limit, "limit", 50, "maximum number of entries to show, 0 for all")
	f.BoolVar(&c.clear, "clear", false, "delete the current session's entries")
}

func (c *journalCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	jrnl := c.mgr.Journal()
	if jrnl == nil {
		fmt.Println("Journal is disabled.")
		return subcommands.ExitSuccess
	}

	if c.clear {
		if err := jrnl.Clear(c.mgr.SessionID()); err != nil {
			return fail(err)
		}
		fmt.Println("Journal cleared for this session.")
		return subcommands.ExitSuccess
	}

	entries, err := jrnl.List(c.mgr.SessionID(), c.limit)
	if err != nil {
		return fail(err)
	}
	if len(entries) == 0 {
		fmt.Println("No journal entries for this session.")
		return subcommands.ExitSuccess
	}
	renderJournal(os.Stdout, entries)
	return subcommands.ExitSuccess
}
