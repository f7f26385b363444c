package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/wippyai/wasm-uasm/translate"
	"github.com/wippyai/wasm-uasm/uasm"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	dataStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// chromeHeight is the number of lines above and below the viewport.
const chromeHeight = 5

type entryKind int

const (
	entryData entryKind = iota
	entryCode
)

// entry is one declaration or one labelled block of the program.
type entry struct {
	name  string
	lines []string
	kind  entryKind
}

type loadedMsg struct {
	err     error
	entries []entry
}

type viewModel struct {
	err      error
	load     func() tea.Msg
	filename string
	entries  []entry
	filter   textinput.Model
	viewport viewport.Model
	shown    int
	loaded   bool
}

func newViewModel(filename string, load func() tea.Msg) *viewModel {
	ti := textinput.New()
	ti.Prompt = "filter: "
	ti.Placeholder = "label or variable name"
	ti.Width = 40
	ti.Focus()

	return &viewModel{
		filename: filename,
		load:     load,
		filter:   ti,
		viewport: viewport.New(80, 20),
	}
}

func (m *viewModel) Init() tea.Cmd {
	return tea.Batch(m.load, textinput.Blink)
}

func (m *viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		}
		// Printable keys go to the filter, navigation keys to the viewport.
		if msg.Type != tea.KeyRunes && msg.Type != tea.KeySpace {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-chromeHeight, 1)

	case loadedMsg:
		m.err = msg.err
		m.entries = msg.entries
		m.loaded = true
		m.refresh()
		return m, nil
	}

	before := m.filter.Value()
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	cmds = append(cmds, cmd)
	if m.filter.Value() != before {
		m.refresh()
	}

	return m, tea.Batch(cmds...)
}

func (m *viewModel) refresh() {
	content, n := filterEntries(m.entries, m.filter.Value())
	m.shown = n
	m.viewport.SetContent(content)
	m.viewport.GotoTop()
}

func (m *viewModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress esc to quit.", m.err))
	}
	if !m.loaded {
		return "Translating module..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("wasm2uasm"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString("\n")
	b.WriteString(m.filter.View())
	b.WriteString("\n\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(fmt.Sprintf("%d/%d shown • ↑/↓ pgup/pgdn scroll • esc quit",
		m.shown, len(m.entries))))
	return b.String()
}

// programEntries lists data declarations first, then code blocks in label
// order.
func programEntries(p *uasm.Program) ([]entry, error) {
	var entries []entry
	if p.Data != nil {
		for _, d := range p.Data.Decls() {
			lines, err := uasm.RenderDecl(d)
			if err != nil {
				return nil, err
			}
			entries = append(entries, entry{name: d.Variable.Name, kind: entryData, lines: lines})
		}
	}
	if p.Code != nil && p.Code.Code != nil {
		for _, label := range p.Code.Code.Labels() {
			var lines []string
			if p.Code.Exported {
				lines = append(lines, "    .export "+string(label))
			}
			lines = append(lines, "    "+string(label)+":")
			b, _ := p.Code.Code.Block(label)
			for _, ins := range b.Instructions() {
				text, err := uasm.RenderInstruction(ins)
				if err != nil {
					return nil, err
				}
				lines = append(lines, "        "+text)
			}
			entries = append(entries, entry{name: string(label), kind: entryCode, lines: lines})
		}
	}
	return entries, nil
}

// filterEntries renders the entries whose name contains query, ignoring
// case, and reports how many matched.
func filterEntries(entries []entry, query string) (string, int) {
	query = strings.ToLower(strings.TrimSpace(query))

	var b strings.Builder
	n := 0
	for _, e := range entries {
		if query != "" && !strings.Contains(strings.ToLower(e.name), query) {
			continue
		}
		n++
		style := dataStyle
		if e.kind == entryCode {
			style = labelStyle
		}
		for _, line := range e.lines {
			b.WriteString(style.Render(line))
			b.WriteString("\n")
		}
	}
	return b.String(), n
}

func loadProgram(ctx context.Context, path string, opts translate.Options) func() tea.Msg {
	return func() tea.Msg {
		f, err := openModule(path, opts.Offset)
		if err != nil {
			return loadedMsg{err: err}
		}
		defer f.Close()

		p, err := translate.New(opts).Program(ctx, f.Data)
		if err != nil {
			return loadedMsg{err: err}
		}
		entries, err := programEntries(p)
		return loadedMsg{entries: entries, err: err}
	}
}

func viewCommand(flags *globalFlags) *cobra.Command {
	var exportInit bool

	command := &cobra.Command{
		Use:   "view [path to module]",
		Short: "Browse the translated program interactively",
		Long:  "Translate a module and browse its declarations and code blocks in a terminal UI",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := translate.DefaultOptions()
			opts.Offset = flags.offset
			opts.ExportInitializers = exportInit

			m := newViewModel(args[0], loadProgram(cmd.Context(), args[0], opts))
			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			if _, err := p.Run(); err != nil {
				return err
			}
			return m.err
		},
	}

	command.Flags().BoolVar(&exportInit, "export-init", false, "show .export directives for initializer blocks")

	return command
}
