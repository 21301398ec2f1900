package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/navgen/pkg/extract"
	"github.com/matzehuels/navgen/pkg/model"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	detailBoxStyle    = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorDim).
				Padding(0, 1)
)

// browseCommand creates the browse command, an interactive destination browser.
func (c *CLI) browseCommand() *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "browse [feed]",
		Short: "Interactively browse resolved destinations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.resolveForDisplay(cmd, args[0], &flags)
			if err != nil {
				return err
			}
			if len(res.Screens) == 0 {
				printInfo("No destinations")
				return nil
			}

			m := NewDestinationListModel(res.Screens, graphRoutes(res.Root), res.Sources)
			_, err = tea.NewProgram(m, tea.WithContext(cmd.Context()), tea.WithAltScreen()).Run()
			return err
		},
	}

	flags.register(cmd)
	return cmd
}

// =============================================================================
// DestinationListModel - Interactive destination browser
// =============================================================================

// DestinationListModel is the bubbletea model of the destination browser:
// a scrolling list on top and the details of the selected destination below.
type DestinationListModel struct {
	Screens []*model.ResolvedScreen
	Graphs  map[*model.ResolvedScreen]string
	Sources *extract.SourceIndex
	Cursor  int
	Height  int
	Offset  int
}

// NewDestinationListModel creates a new destination list model.
func NewDestinationListModel(screens []*model.ResolvedScreen, graphs map[*model.ResolvedScreen]string, sources *extract.SourceIndex) DestinationListModel {
	return DestinationListModel{
		Screens: screens,
		Graphs:  graphs,
		Sources: sources,
		Height:  10,
	}
}

func (m DestinationListModel) Init() tea.Cmd {
	return nil
}

func (m DestinationListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Screens)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		case "end", "G":
			m.Cursor = len(m.Screens) - 1
			if m.Cursor >= m.Height {
				m.Offset = m.Cursor - m.Height + 1
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height/2 - 4
		if m.Height < 5 {
			m.Height = 5
		}
		if m.Cursor >= m.Offset+m.Height {
			m.Offset = m.Cursor - m.Height + 1
		}
	}
	return m, nil
}

func (m DestinationListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Destinations"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  g/G first/last  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Screens))
	for i := m.Offset; i < end; i++ {
		s := m.Screens[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		line := fmt.Sprintf("%s%-32s %s", cursor, s.Name, listDimStyle.Render(s.Route))
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Screens))))
	b.WriteString("\n\n")

	if len(m.Screens) > 0 {
		b.WriteString(detailBoxStyle.Render(m.details(m.Screens[m.Cursor])))
		b.WriteString("\n")
	}
	return b.String()
}

// details renders the detail pane of one destination.
func (m DestinationListModel) details(s *model.ResolvedScreen) string {
	key := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	var lines []string
	add := func(k, v string) {
		lines = append(lines, key.Render(k)+" "+StyleValue.Render(v))
	}

	add("Name", s.Name)
	add("Composable", s.QualifiedName)
	add("Route id", s.RouteID)
	add("Pattern", s.Route)
	if g := m.Graphs[s]; g != "" {
		add("Graph", g)
	}
	add("Style", styleName(s.Style))
	for i, a := range s.NavArgs {
		label := ""
		if i == 0 {
			label = "Arguments"
		}
		add(label, argSummary(a))
	}
	for i, d := range s.DeepLinks {
		label := ""
		if i == 0 {
			label = "Deep links"
		}
		add(label, d.URIPattern)
	}
	if req := optInList(s); req != "—" {
		add("Requires", req)
	}
	if pos := s.Position.String(); pos != "" {
		add("Source", pos)
	}
	if m.Sources != nil {
		for i, f := range m.Sources.Sources(s.Name) {
			label := ""
			if i == 0 {
				label = "Files"
			}
			add(label, f)
		}
	}
	return strings.Join(lines, "\n")
}
