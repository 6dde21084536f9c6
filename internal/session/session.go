package session

import (
	"math"

	"github.com/RozmiDan/driftrace/internal/entity"
)

type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseSuccess Phase = "success"
	PhaseError   Phase = "error"
)

type ActionKind int

const (
	ActSetField ActionKind = iota + 1
	ActSubmit
	ActComplete
	ActFail
	ActReturn
	ActReset
	ActToggleAudio
	ActSetVolume
)

// Action — одно действие пользователя или таймера
type Action struct {
	Kind   ActionKind
	Field  entity.Field
	Text   string
	Report *entity.Report
	Err    error
	Volume float64
}

func SetField(f entity.Field, text string) Action {
	return Action{Kind: ActSetField, Field: f, Text: text}
}

func Submit() Action { return Action{Kind: ActSubmit} }
func Complete(rep entity.Report) Action { return Action{Kind: ActComplete, Report: &rep} }
func Fail(err error) Action { return Action{Kind: ActFail, Err: err} }
func Return() Action { return Action{Kind: ActReturn} }
func Reset() Action { return Action{Kind: ActReset} }
func ToggleAudio() Action { return Action{Kind: ActToggleAudio} }
func SetVolume(v float64) Action { return Action{Kind: ActSetVolume, Volume: v} }

// State — состояние страницы, меняется только через Machine.Apply
type State struct {
	Phase        Phase
	Form         map[entity.Field]string
	Result       *entity.Report
	ShowResult   bool
	AudioPlaying bool
	Volume       float64
	Err          string
}

func Initial() State {
	return State{Phase: PhaseIdle, Form: map[entity.Field]string{}, Volume: 1}
}

// Field возвращает текст поля
func (s State) Field(f entity.Field) string { return s.Form[f] }

// Loading — идёт расчёт, кнопка заблокирована
func (s State) Loading() bool { return s.Phase == PhaseLoading }

type Machine struct {
	handlers map[ActionKind]func(State, Action) State
}

func NewMachine() *Machine {
	m := &Machine{handlers: make(map[ActionKind]func(State, Action) State)}

	// Регистрируем обработчики по виду действия
	m.handlers[ActSetField] = m.onSetField
	m.handlers[ActSubmit] = m.onSubmit
	m.handlers[ActComplete] = m.onComplete
	m.handlers[ActFail] = m.onFail
	m.handlers[ActReturn] = m.onReturn
	m.handlers[ActReset] = m.onReset
	m.handlers[ActToggleAudio] = m.onToggleAudio
	m.handlers[ActSetVolume] = m.onSetVolume

	return m
}

// Apply не меняет s, неизвестное действие возвращает s как есть
func (m *Machine) Apply(s State, a Action) State {
	h, ok := m.handlers[a.Kind]
	if !ok {
		return s
	}
	return h(s, a)
}

func (m *Machine) onSetField(s State, a Action) State {
	form := make(map[entity.Field]string, len(s.Form)+1)
	for k, v := range s.Form {
		form[k] = v
	}
	form[a.Field] = a.Text
	s.Form = form
	return s
}

func (m *Machine) onSubmit(s State, _ Action) State {
	if s.Phase == PhaseLoading {
		return s
	}
	s.Phase = PhaseLoading
	s.Err = ""
	return s
}

func (m *Machine) onComplete(s State, a Action) State {
	if s.Phase != PhaseLoading || a.Report == nil {
		return s
	}
	s.Phase = PhaseSuccess
	s.Result = a.Report
	s.ShowResult = true
	return s
}

func (m *Machine) onFail(s State, a Action) State {
	if s.Phase != PhaseLoading {
		return s
	}
	s.Phase = PhaseError
	s.ShowResult = false
	if a.Err != nil {
		s.Err = a.Err.Error()
	}
	return s
}

func (m *Machine) onReturn(s State, _ Action) State {
	if s.Phase == PhaseLoading {
		return s
	}
	s.ShowResult = false
	s.Phase = PhaseIdle
	s.Err = ""
	return s
}

// onReset — отложенная очистка после возврата
func (m *Machine) onReset(s State, _ Action) State {
	if s.ShowResult || s.Phase == PhaseLoading {
		return s
	}
	s.Result = nil
	s.Form = map[entity.Field]string{}
	return s
}

func (m *Machine) onToggleAudio(s State, _ Action) State {
	s.AudioPlaying = !s.AudioPlaying
	return s
}

func (m *Machine) onSetVolume(s State, a Action) State {
	v := a.Volume
	if v < 0 || math.IsNaN(v) {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	s.Volume = v
	return s
}
