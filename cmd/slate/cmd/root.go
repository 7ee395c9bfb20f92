package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "slate",
	Short: "Slate compiler front-end",
	Long: `go-slate is the front-end of the Slate compiler.

It consumes the parse tree emitted by the Slate parser and lowers it into
a typed SSA intermediate representation for the native code generator:
  - Type resolution against the module symbol environment
  - Control-flow, defer and type-switch lowering
  - Interface synthesis and trampoline-based method binding
  - Return-type deduction and implicit-return insertion`,
	Version: Version,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}

func exitWithError(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
	os.Exit(1)
}
