package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gnparser/pkg/core/code"
	"github.com/matzehuels/gnparser/pkg/errors"
	"github.com/matzehuels/gnparser/pkg/parser"
)

var (
	promptStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	labelStyle  = lipgloss.NewStyle().Foreground(colorGray).Width(11)
	boxStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1)
)

// maxHistory is how many earlier results the interactive view keeps.
const maxHistory = 5

func (c *CLI) interactiveCommand() *cobra.Command {
	var codeName string
	cmd := &cobra.Command{
		Use:     "interactive",
		Aliases: []string{"i"},
		Short:   "Parse names as you type them",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("code") {
				codeName = c.Config.Parse.Code
			}
			cd, err := errors.ValidateCode(codeName)
			if err != nil {
				return err
			}
			p, err := parser.New(parser.Options{Code: cd, PreserveDiaereses: c.Config.Parse.Diaereses})
			if err != nil {
				return err
			}
			prog := tea.NewProgram(NewParseModel(p), tea.WithContext(cmd.Context()))
			_, err = prog.Run()
			return err
		},
	}
	cmd.Flags().StringVarP(&codeName, "code", "c", "", "initial nomenclatural code (tab cycles)")
	return cmd
}

// =============================================================================
// ParseModel - Interactive parsing
// =============================================================================

// ParseModel is the bubbletea model of the interactive mode. Enter parses
// the current input; tab switches the nomenclatural code and reparses.
type ParseModel struct {
	parser  *parser.Parser
	Input   []rune
	Last    *parser.Result
	History []parser.Result
	Width   int
}

// NewParseModel creates a model parsing with p.
func NewParseModel(p *parser.Parser) ParseModel {
	return ParseModel{parser: p, Width: 80}
}

func (m ParseModel) Init() tea.Cmd {
	return nil
}

func (m ParseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			name := strings.TrimSpace(string(m.Input))
			if name == "" {
				return m, nil
			}
			m.push(m.parser.Parse(name))
			m.Input = m.Input[:0]
		case tea.KeyTab:
			m.cycleCode()
		case tea.KeyBackspace:
			if len(m.Input) > 0 {
				m.Input = m.Input[:len(m.Input)-1]
			}
		case tea.KeyCtrlU:
			m.Input = m.Input[:0]
		case tea.KeySpace:
			m.Input = append(m.Input, ' ')
		case tea.KeyRunes:
			m.Input = append(m.Input, msg.Runes...)
		}
	case tea.WindowSizeMsg:
		m.Width = msg.Width
	}
	return m, nil
}

func (m *ParseModel) push(r parser.Result) {
	if m.Last != nil {
		m.History = append([]parser.Result{*m.Last}, m.History...)
		if len(m.History) > maxHistory {
			m.History = m.History[:maxHistory]
		}
	}
	m.Last = &r
}

// cycleCode moves to the next nomenclatural code and reparses the last name
// under it.
func (m *ParseModel) cycleCode() {
	opts := m.parser.Options()
	all := append([]code.Code{code.None}, code.All()...)
	next := all[0]
	for i, c := range all {
		if c == opts.Code {
			next = all[(i+1)%len(all)]
			break
		}
	}
	opts.Code = next
	m.parser = m.parser.WithOptions(opts)
	if m.Last != nil {
		r := m.parser.Parse(m.Last.Verbatim)
		m.Last = &r
	}
}

func (m ParseModel) View() string {
	var b strings.Builder

	codeName := m.parser.Options().Code.String()
	if codeName == "" {
		codeName = "none"
	}
	b.WriteString(StyleTitle.Render("gnparser"))
	b.WriteString(StyleDim.Render("  code: " + codeName))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("⏎ parse  tab code  ctrl+u clear  esc quit"))
	b.WriteString("\n\n")
	b.WriteString(promptStyle.Render("> ") + string(m.Input) + "█\n\n")

	if m.Last != nil {
		b.WriteString(boxStyle.Width(max(m.Width-4, 40)).Render(renderResult(*m.Last)))
		b.WriteString("\n")
	}
	for _, r := range m.History {
		b.WriteString(StyleDim.Render(fmt.Sprintf("  %s  %s", qualityBadge(r), r.Verbatim)))
		b.WriteString("\n")
	}
	return b.String()
}

func renderResult(r parser.Result) string {
	var lines []string
	row := func(label, value string) {
		if value != "" {
			lines = append(lines, labelStyle.Render(label)+" "+StyleValue.Render(value))
		}
	}

	row("verbatim", r.Verbatim)
	if !r.Parsed {
		reason := "not a scientific name"
		if r.Virus {
			reason = "virus names are not parsed"
		} else if r.Failure != nil {
			reason = r.Failure.Error()
		}
		lines = append(lines, labelStyle.Render("parsed")+" "+StyleError.Render("no: "+reason))
		return strings.Join(lines, "\n")
	}

	row("quality", qualityBadge(r))
	if r.Canonical != nil {
		row("full", r.Canonical.Full)
		row("simple", r.Canonical.Simple)
		row("stemmed", r.Canonical.Stemmed)
	}
	row("rank", r.Rank)
	if r.Authorship != nil {
		row("authorship", r.Authorship.Normalized)
		row("year", r.Authorship.Year)
	}
	row("hybrid", r.Hybrid)
	row("tail", r.Tail)
	for _, w := range r.Warnings {
		lines = append(lines, labelStyle.Render("warning")+" "+StyleWarning.Render(w.Message))
	}
	return strings.Join(lines, "\n")
}

func qualityBadge(r parser.Result) string {
	style := StyleSuccess
	switch {
	case r.Quality == 0:
		style = StyleError
	case r.Quality >= 3:
		style = StyleWarning
	}
	return style.Render(fmt.Sprintf("q%d", r.Quality))
}
