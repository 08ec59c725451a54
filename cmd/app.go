// Package cmd implements the CLI application to manage a skin portfolio.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/skinfolio"
	"github.com/etnz/skinfolio/renderer"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&holdingsCmd{}, "reports")
	c.Register(&gainsCmd{}, "reports")
	c.Register(&historyCmd{}, "reports")
	c.Register(&txCmd{}, "reports")
	c.Register(&cashCmd{}, "reports")

	c.Register(&buyCmd{}, "ledger")
	c.Register(&sellCmd{}, "ledger")
	c.Register(&deleteCmd{}, "ledger")
	c.Register(&depositCmd{}, "ledger")
	c.Register(&withdrawCmd{}, "ledger")
	c.Register(&fmtCmd{}, "ledger")

	c.Register(&fetchCmd{}, "prices")
	c.Register(&watchCmd{}, "prices")

	c.Register(&topicCmd{}, "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	configFile  = flag.String("config", DefaultConfigFile, "Path to the configuration file")
	profileName = flag.String("profile", "", "Name of the portfolio profile. Defaults to the configured default profile.")
	Verbose     = flag.Bool("v", false, "Enable debug logging")
)

// workspace is what a command needs to operate on the selected portfolio.
type workspace struct {
	config  *Config
	session *skinfolio.Session
	source  string // human readable location of the files
}

// openWorkspace loads the configuration and opens the session of the selected profile.
func openWorkspace() (*workspace, error) {
	config, err := LoadConfig(*configFile)
	if err != nil {
		return nil, err
	}
	return config.Open(*profileName)
}

// loadBook opens the workspace and loads its book, printing rejected rows as warnings.
func loadBook(ctx context.Context) (*workspace, *skinfolio.Book, error) {
	ws, err := openWorkspace()
	if err != nil {
		return nil, nil, err
	}
	book, err := ws.session.Load(ctx)
	if err != nil {
		return nil, nil, err
	}
	if len(book.Rejected) > 0 {
		fmt.Fprint(os.Stderr, renderer.WarningsMarkdown(book.Rejected))
	}
	return ws, book, nil
}

// failf prints an error message and returns the failure status.
func failf(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	return subcommands.ExitFailure
}
