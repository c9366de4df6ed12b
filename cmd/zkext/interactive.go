package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	zkscffi "github.com/wippyai/zksc-ffi"
	"github.com/wippyai/zksc-ffi/extern"
	"github.com/wippyai/zksc-ffi/externs"
	"github.com/wippyai/zksc-ffi/value"
)

type interactiveModel struct {
	err      error
	rt       *zkscffi.Runtime
	examples map[string][]string
	result   string
	refs     []string
	funcs    []extern.Signature
	inputs   []textinput.Model
	selected int
	focusIdx int
	state    modelState
}

type modelState int

const (
	stateSelectFunc modelState = iota
	stateInputArgs
	stateShowResult
)

func newInteractiveModel(rt *zkscffi.Runtime) *interactiveModel {
	m := &interactiveModel{rt: rt, state: stateSelectFunc, examples: sampleInputs()}
	for _, name := range rt.Registry().Names() {
		if sig, ok := rt.Registry().Describe(name); ok {
			m.funcs = append(m.funcs, sig)
		}
	}
	return m
}

// sampleInputs renders each sample call site as the text of its input
// fields: type arguments first, then typed value literals. Unqualified
// type arguments have no field.
func sampleInputs() map[string][]string {
	inputs := make(map[string][]string)
	for _, s := range externs.Samples() {
		texts := make([]string, 0, len(s.TypeArgs)+len(s.Args))
		for _, ta := range s.TypeArgs {
			if ta.Kind != extern.TypeUnqualified {
				texts = append(texts, ta.String())
			}
		}
		for _, a := range s.Args {
			if a.IsRef() {
				v := a.Slot.Load()
				texts = append(texts, v.Literal())
				v.Release()
			} else {
				texts = append(texts, a.Val.Literal())
			}
		}
		releaseArgs(s.Args)
		inputs[s.Name] = texts
	}
	return inputs
}

type callResultMsg struct {
	err    error
	result string
	refs   []string
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.state != stateInputArgs || msg.String() == "ctrl+c" {
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateSelectFunc && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectFunc && m.selected < len(m.funcs)-1 {
				m.selected++
			}

		case "enter":
			switch m.state {
			case stateSelectFunc:
				if len(m.funcs) == 0 {
					return m, nil
				}
				m.prepareInputs()
				if len(m.inputs) == 0 {
					return m, m.callFunction
				}
				m.state = stateInputArgs

			case stateInputArgs:
				return m, m.callFunction

			case stateShowResult:
				m.reset()
			}

		case "tab":
			if m.state == stateInputArgs && len(m.inputs) > 1 {
				m.inputs[m.focusIdx].Blur()
				m.focusIdx = (m.focusIdx + 1) % len(m.inputs)
				m.inputs[m.focusIdx].Focus()
			}

		case "esc":
			switch m.state {
			case stateInputArgs:
				m.state = stateSelectFunc
				m.inputs = nil
			case stateShowResult:
				m.reset()
			}
		}

	case callResultMsg:
		m.result = msg.result
		m.refs = msg.refs
		m.err = msg.err
		m.state = stateShowResult
	}

	if m.state == stateInputArgs {
		var cmds []tea.Cmd
		for i := range m.inputs {
			var cmd tea.Cmd
			m.inputs[i], cmd = m.inputs[i].Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m *interactiveModel) reset() {
	m.state = stateSelectFunc
	m.result = ""
	m.refs = nil
	m.err = nil
}

// prepareInputs creates one field per type parameter followed by one per
// value parameter.
func (m *interactiveModel) prepareInputs() {
	f := m.funcs[m.selected]
	m.inputs = make([]textinput.Model, 0, len(f.TypeParams)+len(f.Params))
	for i, k := range f.TypeParams {
		ti := textinput.New()
		ti.Placeholder = k.String()
		ti.Prompt = fmt.Sprintf("T%d: ", i)
		ti.Width = 40
		m.inputs = append(m.inputs, ti)
	}
	for i, p := range f.Params {
		ti := textinput.New()
		ti.Placeholder = p.String()
		ti.Prompt = fmt.Sprintf("arg%d: ", i)
		ti.Width = 40
		m.inputs = append(m.inputs, ti)
	}
	if texts := m.examples[f.Name]; len(texts) == len(m.inputs) {
		for i := range m.inputs {
			m.inputs[i].SetValue(texts[i])
		}
	}
	if len(m.inputs) > 0 {
		m.inputs[0].Focus()
	}
	m.focusIdx = 0
}

func (m *interactiveModel) callFunction() tea.Msg {
	f := m.funcs[m.selected]

	targs := make([]extern.TypeArg, len(f.TypeParams))
	for i, k := range f.TypeParams {
		ta, err := extern.ParseTypeArg(k, m.inputs[i].Value())
		if err != nil {
			return callResultMsg{err: fmt.Errorf("T%d: %w", i, err)}
		}
		targs[i] = ta
	}

	args := make([]extern.Arg, len(f.Params))
	var slots []*value.Slot
	for i, p := range f.Params {
		v, err := extern.ParseValue(p.Shape, m.inputs[len(f.TypeParams)+i].Value())
		if err != nil {
			releaseArgs(args[:i])
			return callResultMsg{err: fmt.Errorf("arg%d: %w", i, err)}
		}
		if p.Ref {
			s := value.NewSlot(v)
			slots = append(slots, s)
			args[i] = extern.ByRef(s)
		} else {
			args[i] = extern.ByVal(v)
		}
	}
	defer releaseArgs(args)

	result, err := m.rt.Call(f.Name, targs, args...)
	if err != nil {
		return callResultMsg{err: err}
	}
	defer result.Release()

	refs := make([]string, len(slots))
	for i, s := range slots {
		v := s.Load()
		refs[i] = v.String()
		v.Release()
	}
	return callResultMsg{result: result.String(), refs: refs}
}

func releaseArgs(args []extern.Arg) {
	for _, a := range args {
		if a.IsRef() {
			a.Slot.Store(value.Unit())
		} else {
			a.Val.Release()
		}
	}
}

func (m *interactiveModel) View() string {
	if len(m.funcs) == 0 {
		return errorStyle.Render("No externs registered.\n\nPress q to quit.")
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Extern Runner"))
	b.WriteString(" ")
	b.WriteString(m.rt.Domain().String())
	b.WriteString("\n\n")

	out := &printer{color: true}

	switch m.state {
	case stateSelectFunc:
		b.WriteString("Select an extern to call:\n\n")
		for i, f := range m.funcs {
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + f.String()))
			} else {
				b.WriteString("  " + out.formatSignature(f))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter call • q quit"))

	case stateInputArgs:
		f := m.funcs[m.selected]
		b.WriteString(fmt.Sprintf("Calling %s\n\n", funcStyle.Render(f.Name)))
		for _, input := range m.inputs {
			b.WriteString(input.View())
			b.WriteString(" ")
			b.WriteString(typeStyle.Render(input.Placeholder))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("tab next field • enter call • esc back"))

	case stateShowResult:
		f := m.funcs[m.selected]
		b.WriteString(fmt.Sprintf("Result of %s:\n\n", funcStyle.Render(f.Name)))
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(resultStyle.Render(m.result))
			for i, r := range m.refs {
				b.WriteString(fmt.Sprintf("\nref %d -> %s", i, typeStyle.Render(r)))
			}
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter continue • q quit"))
	}

	return b.String()
}

func runInteractive(rt *zkscffi.Runtime) error {
	p := tea.NewProgram(newInteractiveModel(rt), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
