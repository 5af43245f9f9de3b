// Package tui is the full-screen front-end of the workflow wizard.
//
// The [Model] renders one [wizard.Wizard] step at a time and forwards every
// edit to it. Saves run off the UI loop through [wizard.Submission].
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"areactl/internal/binding"
	"areactl/internal/catalog"
	"areactl/internal/gateway"
	"areactl/internal/wizard"
)

// savedMsg carries the outcome of a submission.
type savedMsg struct {
	wf  gateway.Workflow
	err error
}

// option is one row of a catalog step's entry list.
type option struct {
	name  string
	label string
	hint  string
	none  bool
}

// paramField is the input for one parameter of the selected entry.
type paramField struct {
	name  string
	label string
	input textinput.Model
}

// Model is the bubbletea model for the wizard.
type Model struct {
	ctx    context.Context
	wizard *wizard.Wizard

	keys    keyMap
	help    help.Model
	spinner spinner.Model

	nameInput textinput.Model

	// Catalog steps. focus 0 is the entry list, 1..n the parameter fields.
	cursor int
	focus  int
	fields []paramField

	status   string
	width    int
	done     bool
	quitting bool
}

// New creates a model over w. ctx bounds the save request.
func New(ctx context.Context, w *wizard.Wizard) Model {
	ni := textinput.New()
	ni.Placeholder = "defaults to \"New Workflow\""
	ni.CharLimit = 100
	ni.SetValue(w.Draft().Name)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = cursorStyle

	m := Model{
		ctx:       ctx,
		wizard:    w,
		keys:      keys,
		help:      help.New(),
		spinner:   sp,
		nameInput: ni,
	}
	m.loadStep()
	return m
}

// Saved returns the stored workflow once a save has succeeded.
func (m Model) Saved() (gateway.Workflow, bool) {
	if !m.done {
		return gateway.Workflow{}, false
	}
	return m.wizard.Saved()
}

// Quitting reports whether the user left without saving.
func (m Model) Quitting() bool {
	return m.quitting
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width - 4
		return m, nil

	case spinner.TickMsg:
		if !m.wizard.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case savedMsg:
		m.wizard.FinishSave(msg.wf, msg.err)
		if msg.err != nil {
			m.status = ""
			return m, nil
		}
		m.done = true
		return m, tea.Quit

	case tea.KeyMsg:
		return m.updateKey(msg)
	}

	return m.updateInput(msg)
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Save):
		return m.save()

	case key.Matches(msg, m.keys.NextStep):
		m.commitFocused()
		m.wizard.Next()
		m.loadStep()
		return m, nil

	case key.Matches(msg, m.keys.PrevStep):
		m.commitFocused()
		m.wizard.Previous()
		m.loadStep()
		return m, nil
	}

	if m.wizard.Step() == wizard.NameStep {
		return m.updateNameStep(msg)
	}
	return m.updateCatalogStep(msg)
}

func (m Model) updateNameStep(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Enter):
		m.wizard.Next()
		m.loadStep()
		return m, nil
	case key.Matches(msg, m.keys.Active):
		m.wizard.SetActive(!m.wizard.Draft().Active)
		return m, nil
	}
	return m.updateInput(msg)
}

func (m Model) updateCatalogStep(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	kind, _ := m.wizard.Step().Kind()
	opts := m.options(kind)

	switch {
	case key.Matches(msg, m.keys.Up):
		if m.focus == 0 {
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		}
		return m, m.setFocus(m.focus - 1)

	case key.Matches(msg, m.keys.Down):
		if m.focus == 0 && m.cursor < len(opts)-1 {
			m.cursor++
			return m, nil
		}
		if m.focus < len(m.fields) {
			return m, m.setFocus(m.focus + 1)
		}
		return m, nil

	case key.Matches(msg, m.keys.Tab):
		return m, m.setFocus((m.focus + 1) % (len(m.fields) + 1))

	case key.Matches(msg, m.keys.BackTab):
		n := len(m.fields) + 1
		return m, m.setFocus((m.focus - 1 + n) % n)

	case key.Matches(msg, m.keys.Enter):
		if m.focus == 0 {
			return m, m.choose(kind, opts)
		}
		if m.focus < len(m.fields) {
			return m, m.setFocus(m.focus + 1)
		}
		m.commitFocused()
		return m, nil

	case key.Matches(msg, m.keys.Bind):
		m.bindNextOutput(kind)
		return m, nil

	case key.Matches(msg, m.keys.Unbind):
		if f := m.focused(); f != nil {
			_ = m.wizard.ClearReference(kind, f.name)
			f.input.SetValue("")
			m.status = ""
		}
		return m, nil
	}

	if f := m.focused(); f != nil && m.wizard.IsReference(kind, f.name) {
		m.status = "bound to an output; ctrl+x to type a value"
		return m, nil
	}
	return m.updateInput(msg)
}

// updateInput forwards msg to the focused text input and mirrors its text
// into the draft.
func (m Model) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.wizard.Step() == wizard.NameStep {
		m.nameInput, cmd = m.nameInput.Update(msg)
		m.wizard.SetName(m.nameInput.Value())
		return m, cmd
	}

	f := m.focused()
	if f == nil {
		return m, nil
	}
	kind, _ := m.wizard.Step().Kind()
	before := f.input.Value()
	f.input, cmd = f.input.Update(msg)
	if v := f.input.Value(); v != before {
		if err := m.wizard.SetParameter(kind, f.name, v); err != nil {
			m.status = err.Error()
		}
	}
	return m, cmd
}

// save starts an asynchronous save.
func (m Model) save() (tea.Model, tea.Cmd) {
	m.commitFocused()
	sub, err := m.wizard.BeginSave()
	if err != nil {
		m.status = err.Error()
		return m, nil
	}
	m.status = ""
	ctx := m.ctx
	send := func() tea.Msg {
		wf, err := sub.Send(ctx)
		return savedMsg{wf: wf, err: err}
	}
	return m, tea.Batch(m.spinner.Tick, send)
}

// loadStep rebuilds the step-local state from the draft.
func (m *Model) loadStep() {
	m.focus = 0
	m.fields = nil
	m.status = ""

	kind, ok := m.wizard.Step().Kind()
	if !ok {
		m.nameInput.SetValue(m.wizard.Draft().Name)
		m.nameInput.Focus()
		return
	}
	m.nameInput.Blur()

	m.cursor = 0
	slot := m.wizard.Draft().Slot(kind)
	for i, o := range m.options(kind) {
		if (o.none && !slot.Selected()) || (!o.none && o.name == slot.Name()) {
			m.cursor = i
		}
	}
	m.loadFields(kind)
}

func (m *Model) loadFields(kind catalog.Kind) {
	m.fields = nil
	slot := m.wizard.Draft().Slot(kind)
	for _, v := range slot.Values {
		ti := textinput.New()
		ti.Prompt = "› "
		ti.CharLimit = 500
		label := v.DisplayName
		if label == "" {
			label = v.Name
		}
		ti.Placeholder = label
		ti.SetValue(m.wizard.DisplayValue(kind, v.Name))
		m.fields = append(m.fields, paramField{name: v.Name, label: label, input: ti})
	}
}

func (m *Model) options(kind catalog.Kind) []option {
	var opts []option
	if kind == catalog.KindModifier {
		opts = append(opts, option{label: "none", hint: "pass the action's outputs straight through", none: true})
	}
	for _, e := range m.wizard.Catalog().Entries(kind) {
		opts = append(opts, option{name: e.Name, label: e.Label(), hint: e.Description})
	}
	return opts
}

// choose applies the option under the cursor to the current step.
func (m *Model) choose(kind catalog.Kind, opts []option) tea.Cmd {
	if m.cursor >= len(opts) {
		return nil
	}
	o := opts[m.cursor]
	if o.none {
		m.wizard.ClearModifier()
	} else if err := m.wizard.SelectCatalogEntry(kind, o.name); err != nil {
		m.status = err.Error()
		return nil
	}
	m.status = ""
	m.loadFields(kind)
	if len(m.fields) > 0 {
		return m.setFocus(1)
	}
	return nil
}

func (m *Model) focused() *paramField {
	if m.focus < 1 || m.focus > len(m.fields) {
		return nil
	}
	return &m.fields[m.focus-1]
}

func (m *Model) setFocus(i int) tea.Cmd {
	m.commitFocused()
	if f := m.focused(); f != nil {
		f.input.Blur()
	}
	if i < 0 {
		i = 0
	}
	m.focus = i
	m.status = ""
	if f := m.focused(); f != nil {
		return f.input.Focus()
	}
	return nil
}

// commitFocused binds typed text that names a visible output by its display
// name.
func (m *Model) commitFocused() {
	f := m.focused()
	if f == nil {
		return
	}
	kind, _ := m.wizard.Step().Kind()
	if m.wizard.IsReference(kind, f.name) {
		return
	}
	if o, ok := binding.MatchDisplayName(f.input.Value(), m.wizard.AvailableOutputs(kind)); ok {
		if err := m.wizard.SelectOutput(kind, f.name, o.Name); err == nil {
			f.input.SetValue(o.Label())
		}
	}
}

// bindNextOutput cycles the focused parameter through the visible outputs.
func (m *Model) bindNextOutput(kind catalog.Kind) {
	f := m.focused()
	if f == nil {
		return
	}
	visible := m.wizard.AvailableOutputs(kind)
	if len(visible) == 0 {
		m.status = fmt.Sprintf("no outputs available at the %s step", kind)
		return
	}

	next := 0
	if v, ok := m.wizard.Draft().Slot(kind).Value(f.name); ok {
		if cur, ok := binding.Lookup(v.Value, visible); ok {
			for i, o := range visible {
				if o.Name == cur.Name {
					next = (i + 1) % len(visible)
				}
			}
		}
	}
	o := visible[next]
	if err := m.wizard.SelectOutput(kind, f.name, o.Name); err != nil {
		m.status = err.Error()
		return
	}
	f.input.SetValue(o.Label())
	m.status = ""
}

func (m Model) View() string {
	if m.done || m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.header() + "\n\n")

	if m.wizard.Step() == wizard.NameStep {
		b.WriteString(m.nameView())
	} else {
		b.WriteString(m.catalogView())
	}

	b.WriteString("\n" + m.statusLine())
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return appStyle.Render(b.String())
}

func (m Model) header() string {
	title := "New workflow"
	if id := m.wizard.Draft().ID; id != 0 {
		title = fmt.Sprintf("Edit workflow #%d", id)
	}

	tabs := make([]string, 0, len(wizard.Steps()))
	for _, s := range wizard.Steps() {
		if s == m.wizard.Step() {
			tabs = append(tabs, activeTabStyle.Render(s.String()))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(s.String()))
		}
	}
	return titleStyle.Render(title) + "  " + strings.Join(tabs, inactiveTabStyle.Render(" › "))
}

func (m Model) nameView() string {
	var b strings.Builder
	b.WriteString(formLabelStyle.Render("Name") + "\n")
	b.WriteString(m.nameInput.View() + "\n\n")

	state := "[ ] paused"
	if m.wizard.Draft().Active {
		state = "[x] active"
	}
	b.WriteString(formLabelStyle.Render("State") + "  " + state + "  " + formHintStyle.Render("ctrl+t to toggle") + "\n")
	return b.String()
}

func (m Model) catalogView() string {
	kind, _ := m.wizard.Step().Kind()
	var b strings.Builder

	b.WriteString(formLabelStyle.Render("Choose a "+string(kind)) + "\n")
	opts := m.options(kind)
	if len(opts) == 0 {
		b.WriteString(formHintStyle.Render("  none available") + "\n")
	}
	slot := m.wizard.Draft().Slot(kind)
	for i, o := range opts {
		prefix := "  "
		if i == m.cursor && m.focus == 0 {
			prefix = cursorStyle.Render("▸ ")
		}
		mark := "○ "
		if (o.none && !slot.Selected()) || (!o.none && o.name == slot.Name()) {
			mark = selectedStyle.Render("● ")
		}
		line := prefix + mark + o.label
		if o.hint != "" {
			line += "  " + entryHintStyle.Render(o.hint)
		}
		b.WriteString(line + "\n")
	}

	if len(m.fields) > 0 {
		b.WriteString("\n" + formLabelStyle.Render("Parameters") + "\n")
		for _, f := range m.fields {
			label := f.label
			if m.wizard.IsReference(kind, f.name) {
				label += " " + referenceStyle.Render("← output")
			}
			b.WriteString("  " + label + "\n  " + f.input.View() + "\n")
		}
		if visible := m.wizard.AvailableOutputs(kind); len(visible) > 0 && m.focus > 0 {
			names := make([]string, len(visible))
			for i, o := range visible {
				names[i] = o.Label()
			}
			b.WriteString(formHintStyle.Render("  outputs: "+strings.Join(names, ", ")) + "\n")
		}
	}
	return b.String()
}

func (m Model) statusLine() string {
	switch {
	case m.wizard.Loading():
		return m.spinner.View() + " Saving…\n"
	case m.wizard.Err() != "":
		return statusErrorStyle.Render("✗ "+m.wizard.Err()) + "\n"
	case m.status != "":
		return formHintStyle.Render(m.status) + "\n"
	case m.wizard.CanSave():
		return statusOkStyle.Render("ready to save (ctrl+s)") + "\n"
	}
	return "\n"
}

// Run shows the wizard full-screen until the user saves or quits. It returns
// the saved workflow, or ok=false when the user quit.
func Run(ctx context.Context, w *wizard.Wizard, opts ...tea.ProgramOption) (gateway.Workflow, bool, error) {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	final, err := tea.NewProgram(New(ctx, w), opts...).Run()
	if err != nil {
		return gateway.Workflow{}, false, err
	}
	m, ok := final.(Model)
	if !ok {
		return gateway.Workflow{}, false, nil
	}
	wf, saved := m.Saved()
	return wf, saved, nil
}
