package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	stateMenu = iota
	stateSim
)

// Choice is one entry of the scenario menu: a built-in preset or a
// scenario file.
type Choice struct {
	Name   string
	Desc   string
	Path   string
	Preset bool
}

// Launcher builds the live view for a chosen entry.
type Launcher func(Choice) (Model, error)

// App lists presets and scenario files and opens the chosen one in the
// live view. esc in the live view returns to the menu.
type App struct {
	state   int
	cursor  int
	choices []Choice
	launch  Launcher
	theme   Theme
	live    Model
	err     error
}

func NewApp(choices []Choice, launch Launcher, theme Theme) App {
	return App{
		state:   stateMenu,
		choices: choices,
		launch:  launch,
		theme:   theme,
	}
}

func (a App) Init() tea.Cmd { return nil }

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.state == stateSim {
		if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
			a.state = stateMenu
			return a, nil
		}
		next, cmd := a.live.Update(msg)
		a.live = next.(Model)
		return a, cmd
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return a, nil
	}
	switch key.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(a.choices)-1 {
			a.cursor++
		}
	case "enter", " ":
		if len(a.choices) == 0 {
			return a, nil
		}
		live, err := a.launch(a.choices[a.cursor])
		if err != nil {
			a.err = err
			return a, nil
		}
		a.err = nil
		a.live = live.WithTheme(a.theme)
		a.state = stateSim
		return a, a.live.Init()
	}
	return a, nil
}

func (a App) View() string {
	if a.state == stateSim {
		return a.live.View()
	}

	st := newStyles(a.theme)
	var b strings.Builder
	b.WriteString("\n\n    " + st.header.UnsetMarginBottom().Render("GRAVSIM") + "\n    " + st.muted.Render("n-body gravity") + "\n    " + Separator(25, st.muted) + "\n\n")
	if len(a.choices) == 0 {
		b.WriteString("    " + st.muted.Render("no scenarios found") + "\n")
	}
	for i, c := range a.choices {
		kind := "file"
		if c.Preset {
			kind = "preset"
		}
		desc := c.Desc
		if len(desc) > 40 {
			desc = desc[:37] + "..."
		}
		if i == a.cursor {
			b.WriteString(fmt.Sprintf("    %s %s %s  %s\n", st.cursor.Render("▸"), st.value.Bold(true).Render(fmt.Sprintf("%-16s", c.Name)), st.muted.Render(fmt.Sprintf("%-6s", kind)), st.cursor.UnsetBold().Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("      %s %s  %s\n", st.muted.Render(fmt.Sprintf("%-16s", c.Name)), st.muted.Render(fmt.Sprintf("%-6s", kind)), st.muted.Render(desc)))
		}
	}
	if a.err != nil {
		b.WriteString("\n    " + st.failed.Render(a.err.Error()) + "\n")
	}
	b.WriteString("\n    " + st.keyHints("j/k", "navigate", "enter", "open", "esc", "back", "q", "quit") + "\n")
	return b.String()
}
