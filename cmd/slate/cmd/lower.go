package cmd

import (
	"fmt"
	"os"

	"github.com/slatelang/go-slate/internal/codegen"
	"github.com/slatelang/go-slate/internal/errors"
	"github.com/slatelang/go-slate/internal/ir"
	"github.com/slatelang/go-slate/internal/parsetree"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	configFile string
	sourceFile string
	noColor    bool
)

// buildConfig is the optional yaml build configuration.
type buildConfig struct {
	Module string `yaml:"module"`
	Target struct {
		PointerBits int `yaml:"pointer_bits"`
	} `yaml:"target"`
}

var lowerCmd = &cobra.Command{
	Use:   "lower [tree.json]",
	Short: "Lower a parse tree to IR",
	Long: `Lower a parser-emitted parse tree into typed SSA IR.

The input is the JSON serialization of one module's parse tree as written
by the Slate parser. On success the IR text is printed to stdout; on
failure each diagnostic is reported with its source position.

Examples:
  # Lower a module
  slate lower module.tree.json

  # Lower with a build configuration
  slate lower --config build.yaml module.tree.json

  # Show diagnostics against the original source
  slate lower --source module.sl module.tree.json`,
	Args: cobra.ExactArgs(1),
	RunE: runLower,
}

func init() {
	rootCmd.AddCommand(lowerCmd)

	lowerCmd.Flags().StringVarP(&configFile, "config", "c", "", "yaml build configuration")
	lowerCmd.Flags().StringVarP(&sourceFile, "source", "s", "", "original source file for diagnostics")
	lowerCmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored diagnostics")
}

func runLower(cmd *cobra.Command, args []string) error {
	cfg := buildConfig{}
	cfg.Module = args[0]
	cfg.Target.PointerBits = 64
	if configFile != "" {
		data, err := os.ReadFile(configFile)
		if err != nil {
			exitWithError("cannot read config: %v", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			exitWithError("cannot parse config: %v", err)
		}
	}

	f, err := os.Open(args[0])
	if err != nil {
		exitWithError("cannot open parse tree: %v", err)
	}
	defer f.Close()
	tree, err := parsetree.Decode(f)
	if err != nil {
		exitWithError("%v", err)
	}

	source := ""
	if sourceFile != "" {
		data, err := os.ReadFile(sourceFile)
		if err != nil {
			exitWithError("cannot read source: %v", err)
		}
		source = string(data)
	}

	mod := ir.NewModule(cfg.Module)
	mod.Layout = ir.DataLayout{PointerBits: cfg.Target.PointerBits}
	ctx := codegen.NewContext(mod)
	errs := codegen.LowerModule(ctx, tree)

	for _, w := range ctx.Warnings {
		fmt.Fprintln(os.Stderr, errors.FormatWarning(w, !noColor))
	}
	if len(errs) > 0 {
		for _, e := range errs {
			if ce, ok := e.(*errors.CompileError); ok {
				fmt.Fprintln(os.Stderr, errors.Format(ce, source, !noColor))
			} else {
				fmt.Fprintln(os.Stderr, e)
			}
		}
		return fmt.Errorf("%d error(s)", len(errs))
	}

	fmt.Print(mod.String())
	return nil
}
