package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wippyai/wasm-uasm/errors"
	"github.com/wippyai/wasm-uasm/internal/source"
	"github.com/wippyai/wasm-uasm/translate"
	"github.com/wippyai/wasm-uasm/wasm"
)

var version = "<unknown>"

type globalFlags struct {
	verbose bool
	offset  int
}

func configureCLI() *cobra.Command {
	var flags globalFlags

	rootCommand := &cobra.Command{
		Use:           "wasm2uasm",
		Short:         "WebAssembly to Udon Assembly translator",
		Long:          "wasm2uasm - translate WebAssembly modules to Udon Assembly",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !flags.verbose {
				return nil
			}
			logger, err := zap.NewDevelopment()
			if err != nil {
				return err
			}
			wasm.SetLogger(logger)
			translate.SetLogger(logger)
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			// Sync on a console sink reports EINVAL on some platforms.
			_ = translate.Logger().Sync()
			return nil
		},
	}

	rootCommand.AddCommand(translateCommand(&flags))
	rootCommand.AddCommand(sectionsCommand(&flags))
	rootCommand.AddCommand(viewCommand(&flags))

	rootCommand.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log decoder and translator progress to stderr")
	rootCommand.PersistentFlags().IntVar(&flags.offset, "offset", 0, "byte offset of the module inside the input file")

	return rootCommand
}

func main() {
	if err := configureCLI().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// openModule maps path and checks that offset lies inside it.
func openModule(path string, offset int) (*source.File, error) {
	f, err := source.Open(path)
	if err != nil {
		return nil, err
	}
	if offset < 0 || offset > len(f.Data) {
		f.Close()
		return nil, errors.Load(fmt.Sprintf("offset %d outside %d-byte input", offset, len(f.Data)), nil)
	}
	return f, nil
}
