// Package cli is the presentation layer: it parses and validates raw
// user input into typed numbers, invokes the ledger manager, and renders
// state and metrics as tables. Engine rejections are surfaced directly
// and leave the prior state untouched.
package cli

import (
	"fmt"
	"os"

	"github.com/google/subcommands"

	"sol-paper-ledger/internal/ledger"
)

// Register wires every command into the default subcommands commander.
func Register(mgr *ledger.Manager) {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")

	subcommands.Register(&initCmd{mgr: mgr}, "session")
	subcommands.Register(&adjustCmd{mgr: mgr}, "session")
	subcommands.Register(&resetCmd{mgr: mgr}, "session")

	subcommands.Register(&openCmd{mgr: mgr}, "trading")
	subcommands.Register(&buyCmd{mgr: mgr}, "trading")
	subcommands.Register(&sellCmd{mgr: mgr}, "trading")
	subcommands.Register(&markCmd{mgr: mgr}, "trading")
	subcommands.Register(&reviseCmd{mgr: mgr}, "trading")

	subcommands.Register(&positionsCmd{mgr: mgr}, "reporting")
	subcommands.Register(&summaryCmd{mgr: mgr}, "reporting")
	subcommands.Register(&historyCmd{mgr: mgr}, "reporting")
	subcommands.Register(&journalCmd{mgr: mgr}, "reporting")
	subcommands.Register(&clearHistoryCmd{mgr: mgr}, "reporting")
}

// fail prints an operation rejection and returns the failure status.
func fail(err error) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return subcommands.ExitFailure
}

// usageErr prints a usage problem and returns the usage-error status.
func usageErr(format string, args ...interface{}) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	return subcommands.ExitUsageError
}
