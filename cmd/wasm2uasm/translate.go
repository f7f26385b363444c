package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/wippyai/wasm-uasm/internal/verify"
	"github.com/wippyai/wasm-uasm/translate"
)

func translateCommand(flags *globalFlags) *cobra.Command {
	var out string
	var check bool
	var exportInit bool

	command := &cobra.Command{
		Use:   "translate [path to module]",
		Short: "Translate a module to Udon Assembly",
		Long:  "Translate a WebAssembly module and print the Udon Assembly program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			f, err := openModule(args[0], flags.offset)
			if err != nil {
				return err
			}
			defer f.Close()

			if check {
				if err := verify.Module(ctx, f.Data[flags.offset:]); err != nil {
					return err
				}
			}

			opts := translate.DefaultOptions()
			opts.Offset = flags.offset
			opts.ExportInitializers = exportInit

			text, err := translate.New(opts).Translate(ctx, f.Data)
			if err != nil {
				return err
			}

			if out == "" {
				_, err = cmd.OutOrStdout().Write([]byte(text))
				return err
			}
			return os.WriteFile(out, []byte(text), 0o644)
		},
	}

	command.Flags().StringVarP(&out, "out", "o", "", "write the program to this path instead of stdout")
	command.Flags().BoolVar(&check, "verify", false, "compile the module with wazero before translating")
	command.Flags().BoolVar(&exportInit, "export-init", false, "emit .export directives for initializer blocks")

	return command
}
