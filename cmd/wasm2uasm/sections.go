package main

import (
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/wippyai/wasm-uasm/internal/stats"
	"github.com/wippyai/wasm-uasm/translate"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	borderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

func sectionsCommand(flags *globalFlags) *cobra.Command {
	var asCSV bool

	command := &cobra.Command{
		Use:   "sections [path to module]",
		Short: "List the sections of a module",
		Long:  "Decode a WebAssembly module and list kind, id, offset, size and entry count per record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := openModule(args[0], flags.offset)
			if err != nil {
				return err
			}
			defer f.Close()

			opts := translate.DefaultOptions()
			opts.Offset = flags.offset
			sections, err := translate.New(opts).Sections(cmd.Context(), f.Data)
			if err != nil {
				return err
			}
			rows := stats.Collect(sections)

			w := cmd.OutOrStdout()
			if asCSV {
				return stats.WriteCSV(w, rows)
			}
			_, err = io.WriteString(w, sectionTable(rows, isTerminal(w)).Render()+"\n")
			return err
		},
	}

	command.Flags().BoolVar(&asCSV, "csv", false, "print rows as CSV")

	return command
}

func sectionTable(rows []stats.Row, styled bool) *table.Table {
	t := table.New().Headers("#", "kind", "id", "offset", "size", "count", "name")
	for _, r := range rows {
		id, count := "-", "-"
		if r.ID != nil {
			id = strconv.Itoa(*r.ID)
		}
		if r.Count != nil {
			count = strconv.FormatUint(uint64(*r.Count), 10)
		}
		t.Row(strconv.Itoa(r.Index), r.Kind, id,
			strconv.Itoa(r.Offset), strconv.Itoa(r.Size), count, r.Name)
	}

	if !styled {
		return t.Border(lipgloss.MarkdownBorder()).BorderTop(false).BorderBottom(false)
	}
	return t.Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
