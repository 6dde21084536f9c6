package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/RozmiDan/driftrace/internal/entity"
	"github.com/RozmiDan/driftrace/internal/form"
	"github.com/RozmiDan/driftrace/internal/processor"
	"github.com/RozmiDan/driftrace/internal/session"
)

type Options struct {
	Config entity.Config
	Log    zerolog.Logger
}

var labels = map[entity.Field]string{
	entity.FieldDistance: "Distância (km)",
	entity.FieldSpeedA:   "Velocidade Mazda RX-7 (km/h)",
	entity.FieldSpeedB:   "Velocidade Nissan 350Z (km/h)",
	entity.FieldBonusA:   "Bônus Drift Mazda (s)",
	entity.FieldBonusB:   "Bônus Drift Nissan (s)",
}

var placeholders = map[entity.Field]string{
	entity.FieldDistance: "Ex: 5.0",
	entity.FieldSpeedA:   "Ex: 100",
	entity.FieldSpeedB:   "Ex: 95",
	entity.FieldBonusA:   "Ex: 0.2",
	entity.FieldBonusB:   "Ex: 0.1",
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF2E88"))
	textStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C0C0D0"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00E5FF"))
	focusStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFD400"))
	buttonStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 2).Background(lipgloss.Color("#FF2E88")).Foreground(lipgloss.Color("#FFFFFF"))
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5555"))
	resultStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#39FF14")).Padding(0, 1)
	summaryStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#39FF14"))
	hintStyle    = lipgloss.NewStyle().Faint(true)
)

const volumeStep = 0.1

type model struct {
	opts    Options
	proc    *processor.Processor
	machine *session.Machine
	state   session.State
	inputs  []textinput.Model
	focus   int
}

// calcMsg приходит после искусственной задержки, values — снимок формы на момент нажатия
type calcMsg struct {
	values form.Values
}

type resetMsg struct{}

func Run(opts Options) error {
	m := initialModel(opts)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func initialModel(opts Options) model {
	inputs := make([]textinput.Model, len(entity.Fields))
	for i, f := range entity.Fields {
		ti := textinput.New()
		ti.Placeholder = placeholders[f]
		ti.Prompt = "> "
		ti.CharLimit = 32
		ti.Width = 20
		inputs[i] = ti
	}
	inputs[0].Focus()

	return model{
		opts:    opts,
		proc:    processor.NewProcessor(opts.Config, opts.Log),
		machine: session.NewMachine(),
		state:   session.Initial(),
		inputs:  inputs,
	}
}

func (m model) Init() tea.Cmd { return textinput.Blink }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "down":
			cmd := m.moveFocus(1)
			return m, cmd
		case "shift+tab", "up":
			cmd := m.moveFocus(-1)
			return m, cmd
		case "enter":
			return m.calculate()
		case "ctrl+r":
			return m.back()
		case "ctrl+a":
			m.state = m.machine.Apply(m.state, session.ToggleAudio())
			m.opts.Log.Debug().Bool("playing", m.state.AudioPlaying).Msg("audio toggled")
			return m, nil
		case "pgup":
			m.state = m.machine.Apply(m.state, session.SetVolume(m.state.Volume+volumeStep))
			return m, nil
		case "pgdown":
			m.state = m.machine.Apply(m.state, session.SetVolume(m.state.Volume-volumeStep))
			return m, nil
		}
		if m.state.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
		m.state = m.machine.Apply(m.state, session.SetField(entity.Fields[m.focus], m.inputs[m.focus].Value()))
		return m, cmd
	case calcMsg:
		params, errs := form.Parse(msg.values)
		if err := errs.Err(); err != nil {
			m.opts.Log.Debug().Err(err).Msg("form rejected")
			m.state = m.machine.Apply(m.state, session.Fail(err))
			return m, nil
		}
		m.state = m.machine.Apply(m.state, session.Complete(m.proc.Run(params)))
		return m, nil
	case resetMsg:
		m.state = m.machine.Apply(m.state, session.Reset())
		m.syncInputs()
		return m, nil
	}
	return m, nil
}

func (m model) calculate() (tea.Model, tea.Cmd) {
	if m.state.Loading() {
		return m, nil
	}
	m.state = m.machine.Apply(m.state, session.Submit())
	values := m.values()
	return m, tea.Tick(m.opts.Config.Delay, func(time.Time) tea.Msg {
		return calcMsg{values: values}
	})
}

func (m model) back() (tea.Model, tea.Cmd) {
	if m.state.Loading() {
		return m, nil
	}
	m.state = m.machine.Apply(m.state, session.Return())
	return m, tea.Tick(m.opts.Config.ResetDelay, func(time.Time) tea.Msg {
		return resetMsg{}
	})
}

func (m *model) moveFocus(delta int) tea.Cmd {
	m.inputs[m.focus].Blur()
	n := len(m.inputs)
	m.focus = ((m.focus+delta)%n + n) % n
	return m.inputs[m.focus].Focus()
}

func (m *model) syncInputs() {
	for i, f := range entity.Fields {
		m.inputs[i].SetValue(m.state.Field(f))
	}
}

func (m model) values() form.Values {
	vals := make(form.Values, len(entity.Fields))
	for _, f := range entity.Fields {
		vals[f] = m.state.Field(f)
	}
	return vals
}

func (m model) View() string {
	var b strings.Builder

	audio := "🎵"
	if m.state.AudioPlaying {
		audio = "⏸️"
	}
	b.WriteString(titleStyle.Render("Tokyo Drift: Desafiando o DK"))
	b.WriteString(fmt.Sprintf("   %s %3.0f%%\n\n", audio, m.state.Volume*100))

	b.WriteString(textStyle.Render(fmt.Sprintf(
		"No lendário circuito de Neo-Tóquio, você desafia o Drift King (DK) para decidir quem é o verdadeiro rei do asfalto.\n"+
			"Você: %s. DK: %s.", m.opts.Config.Names.A, m.opts.Config.Names.B)))
	b.WriteString("\n\n")

	for i, f := range entity.Fields {
		label := labelStyle.Render(labels[f])
		if i == m.focus {
			label = focusStyle.Render(labels[f])
		}
		b.WriteString(label + "\n" + m.inputs[i].View() + "\n")
	}
	b.WriteString("\n")

	button := "CALCULAR"
	if m.state.Loading() {
		button = "CALCULANDO..."
	}
	b.WriteString(buttonStyle.Render(button) + "  " + buttonStyle.Render("RETORNAR") + "\n")

	if m.state.Phase == session.PhaseError && m.state.Err != "" {
		b.WriteString("\n" + errStyle.Render(m.state.Err) + "\n")
	}

	if m.state.ShowResult && m.state.Result != nil {
		rep := m.state.Result
		body := strings.Join(rep.Details, "\n") + "\n" + summaryStyle.Render(rep.Summary)
		b.WriteString("\n" + resultStyle.Render(body) + "\n")
	}

	b.WriteString("\n" + hintStyle.Render("tab/↑↓ campo  •  enter calcular  •  ctrl+r retornar  •  ctrl+a música  •  pgup/pgdn volume  •  esc sair") + "\n")
	return b.String()
}
