package components

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lazygrid/lazygrid/internal/filter"
	"github.com/lazygrid/lazygrid/internal/grid"
	"github.com/lazygrid/lazygrid/internal/models"
	"github.com/lazygrid/lazygrid/internal/ui/theme"
)

// ApplyFilterMsg is sent when the editor submits a value/operator pair
type ApplyFilterMsg struct {
	Column   string
	Value    any
	Operator models.FilterOperator
}

// RemoveFilterMsg is sent when the column's filter should be cleared
type RemoveFilterMsg struct {
	Column string
}

// CloseFilterEditorMsg is sent when the editor closes without submitting
type CloseFilterEditorMsg struct{}

const editorDateLayout = "2006-01-02"

// FilterEditor is the per-column filter dialog. It edits the column's
// pending value; the committed value only changes when a submission
// compiles successfully, and closing without submitting restores the
// last committed value.
type FilterEditor struct {
	Width  int
	Height int
	Theme  theme.Theme

	column grid.Column

	editMode      string // "operator", "value", "range"
	operators     []models.FilterOperator
	operatorIndex int
	valueInput    textinput.Model
	startInput    textinput.Model
	endInput      textinput.Model
	rangeFocus    int // 0 = start, 1 = end
	preview       string
	previewError  string
	submitError   string
}

// NewFilterEditor creates a new filter editor
func NewFilterEditor(th theme.Theme) *FilterEditor {
	value := textinput.New()
	value.Placeholder = "value..."
	value.CharLimit = 256
	value.Width = 32

	start := textinput.New()
	start.Placeholder = "start (YYYY-MM-DD)"
	start.CharLimit = 10
	start.Width = 20

	end := textinput.New()
	end.Placeholder = "end (YYYY-MM-DD)"
	end.CharLimit = 10
	end.Width = 20

	return &FilterEditor{
		Width:      60,
		Height:     20,
		Theme:      th,
		valueInput: value,
		startInput: start,
		endInput:   end,
	}
}

// Open starts an editing session for the column. The column's staged
// state is primed so the inputs show the last committed value.
func (fe *FilterEditor) Open(col grid.Column) {
	fe.column = col
	fe.operators = filter.OperatorsForKind(col.Info.Kind)
	fe.operatorIndex = 0
	fe.editMode = "operator"
	fe.submitError = ""
	fe.rangeFocus = 0
	fe.valueInput.Blur()
	fe.startInput.Blur()
	fe.endInput.Blur()

	col.Filter.BeginEdit()
	if op := col.Filter.Operator(); op != "" {
		for i, candidate := range fe.operators {
			if candidate == op {
				fe.operatorIndex = i
				break
			}
		}
	}
	fe.seedInputs(col.Filter.Pending())
	fe.updatePreview()
}

// Column returns the column being edited.
func (fe *FilterEditor) Column() grid.Column { return fe.column }

// SetSubmitError surfaces a failed submission; the editor stays open
// so the user can correct and resubmit.
func (fe *FilterEditor) SetSubmitError(msg string) {
	fe.submitError = msg
}

// seedInputs fills the text inputs from a staged value.
func (fe *FilterEditor) seedInputs(v any) {
	fe.valueInput.SetValue("")
	fe.startInput.SetValue("")
	fe.endInput.SetValue("")

	switch val := v.(type) {
	case nil:
	case models.DateRange:
		if val.Start != nil {
			fe.startInput.SetValue(val.Start.Format(editorDateLayout))
		}
		if val.End != nil {
			fe.endInput.SetValue(val.End.Format(editorDateLayout))
		}
	case string:
		fe.valueInput.SetValue(val)
	case bool:
		fe.valueInput.SetValue(strconv.FormatBool(val))
	case time.Time:
		fe.valueInput.SetValue(val.Format(editorDateLayout))
	default:
		fe.valueInput.SetValue(fmt.Sprintf("%v", val))
	}
}

// currentOperator returns the highlighted operator.
func (fe *FilterEditor) currentOperator() models.FilterOperator {
	if fe.operatorIndex < 0 || fe.operatorIndex >= len(fe.operators) {
		return models.OpEquals
	}
	return fe.operators[fe.operatorIndex]
}

func isRangeOperator(op models.FilterOperator) bool {
	return op == models.OpBetween || op == models.OpBetweenIncluding
}

func isNullOperator(op models.FilterOperator) bool {
	return op == models.OpIsNull || op == models.OpIsNotNull
}

// pendingValue converts the inputs into a typed filter value. The
// second return value is a validation message for unparseable range
// endpoints.
func (fe *FilterEditor) pendingValue() (any, string) {
	op := fe.currentOperator()
	switch {
	case isNullOperator(op):
		return nil, ""
	case isRangeOperator(op):
		r := models.DateRange{}
		if text := fe.startInput.Value(); text != "" {
			t, err := time.Parse(editorDateLayout, text)
			if err != nil {
				return nil, fmt.Sprintf("invalid start date %q (use YYYY-MM-DD)", text)
			}
			r.Start = &t
		}
		if text := fe.endInput.Value(); text != "" {
			t, err := time.Parse(editorDateLayout, text)
			if err != nil {
				return nil, fmt.Sprintf("invalid end date %q (use YYYY-MM-DD)", text)
			}
			r.End = &t
		}
		return r, ""
	default:
		return parseScalar(fe.valueInput.Value(), fe.column.Info.Kind), ""
	}
}

// parseScalar types a text input per the column kind. Text that does
// not parse stays text: a free-form string filter against a typed
// column is legal through string coercion.
func parseScalar(text string, kind models.Kind) any {
	if text == "" {
		return nil
	}
	switch kind {
	case models.KindNumeric:
		if n, err := strconv.ParseInt(text, 10, 64); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(text, 64); err == nil {
			return f
		}
	case models.KindBoolean:
		if b, err := strconv.ParseBool(text); err == nil {
			return b
		}
	case models.KindDate:
		if t, err := time.Parse(editorDateLayout, text); err == nil {
			return t
		}
	}
	return text
}

// Update handles keyboard input
func (fe *FilterEditor) Update(msg tea.KeyMsg) (*FilterEditor, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if fe.editMode != "operator" {
			fe.editMode = "operator"
			return fe, nil
		}
		fe.column.Filter.ResetToLastValue()
		return fe, func() tea.Msg { return CloseFilterEditorMsg{} }
	case "ctrl+r":
		return fe, func() tea.Msg { return RemoveFilterMsg{Column: fe.column.Info.Name} }
	case "enter":
		return fe.submit()
	}

	switch fe.editMode {
	case "operator":
		return fe.handleOperatorMode(msg)
	case "value":
		return fe.handleValueMode(msg)
	case "range":
		return fe.handleRangeMode(msg)
	}
	return fe, nil
}

func (fe *FilterEditor) handleOperatorMode(msg tea.KeyMsg) (*FilterEditor, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if fe.operatorIndex > 0 {
			fe.operatorIndex--
		}
		fe.updatePreview()
	case "down", "j":
		if fe.operatorIndex < len(fe.operators)-1 {
			fe.operatorIndex++
		}
		fe.updatePreview()
	case "tab":
		op := fe.currentOperator()
		switch {
		case isNullOperator(op):
			// No value to edit.
		case isRangeOperator(op):
			fe.editMode = "range"
			fe.rangeFocus = 0
			fe.startInput.Focus()
			fe.endInput.Blur()
		default:
			fe.editMode = "value"
			fe.valueInput.Focus()
		}
	}
	return fe, nil
}

func (fe *FilterEditor) handleValueMode(msg tea.KeyMsg) (*FilterEditor, tea.Cmd) {
	if msg.String() == "tab" {
		fe.editMode = "operator"
		fe.valueInput.Blur()
		return fe, nil
	}
	var cmd tea.Cmd
	fe.valueInput, cmd = fe.valueInput.Update(msg)
	fe.stagePending()
	return fe, cmd
}

func (fe *FilterEditor) handleRangeMode(msg tea.KeyMsg) (*FilterEditor, tea.Cmd) {
	if msg.String() == "tab" {
		if fe.rangeFocus == 0 {
			fe.rangeFocus = 1
			fe.startInput.Blur()
			fe.endInput.Focus()
		} else {
			fe.editMode = "operator"
			fe.rangeFocus = 0
			fe.endInput.Blur()
		}
		return fe, nil
	}
	var cmd tea.Cmd
	if fe.rangeFocus == 0 {
		fe.startInput, cmd = fe.startInput.Update(msg)
	} else {
		fe.endInput, cmd = fe.endInput.Update(msg)
	}
	fe.stagePending()
	return fe, cmd
}

// stagePending pushes the current inputs into the column's pending
// slot and refreshes the preview.
func (fe *FilterEditor) stagePending() {
	value, validation := fe.pendingValue()
	if validation == "" {
		fe.column.Filter.SetPending(value)
	}
	fe.updatePreview()
}

// submit emits the staged value/operator pair for the grid to apply.
func (fe *FilterEditor) submit() (*FilterEditor, tea.Cmd) {
	value, validation := fe.pendingValue()
	if validation != "" {
		fe.submitError = validation
		return fe, nil
	}
	fe.submitError = ""
	op := fe.currentOperator()
	column := fe.column.Info.Name
	return fe, func() tea.Msg {
		return ApplyFilterMsg{Column: column, Value: value, Operator: op}
	}
}

// updatePreview compiles the staged pair without committing it.
func (fe *FilterEditor) updatePreview() {
	fe.preview = ""
	fe.previewError = ""

	value, validation := fe.pendingValue()
	if validation != "" {
		fe.previewError = validation
		return
	}
	op := fe.currentOperator()
	if value == nil && !isNullOperator(op) {
		return
	}

	pred, err := fe.column.Filter.Compile(value, op)
	if err != nil {
		fe.previewError = err.Error()
		return
	}
	fe.preview = pred
}

// View renders the filter editor
func (fe *FilterEditor) View() string {
	var sections []string

	titleStyle := lipgloss.NewStyle().
		Foreground(fe.Theme.Foreground).
		Background(fe.Theme.Info).
		Padding(0, 1).
		Bold(true)
	sections = append(sections, titleStyle.Render(fmt.Sprintf("Filter: %s (%s)", fe.column.Info.DisplayTitle(), fe.column.Info.Kind)))

	instructionStyle := lipgloss.NewStyle().
		Foreground(fe.Theme.Cursor).
		Padding(0, 1)
	var instructions string
	switch fe.editMode {
	case "value", "range":
		instructions = "Type value · Tab switch field · Enter apply · Esc back"
	default:
		instructions = "↑↓ operator · Tab edit value · Enter apply · Ctrl+R remove · Esc close"
	}
	sections = append(sections, instructionStyle.Render(instructions))

	if fe.submitError != "" {
		errorStyle := lipgloss.NewStyle().
			Foreground(fe.Theme.Error).
			Padding(0, 1).
			Bold(true)
		sections = append(sections, errorStyle.Render("Error: "+fe.submitError))
	}

	sections = append(sections, "")
	sections = append(sections, fe.renderOperators())
	sections = append(sections, "")
	sections = append(sections, fe.renderInputs())

	if fe.preview != "" || fe.previewError != "" {
		sections = append(sections, "")
		sections = append(sections, "Predicate:")
		previewStyle := lipgloss.NewStyle().
			Foreground(fe.Theme.Field).
			Padding(0, 1).
			Italic(true)
		if fe.previewError != "" {
			previewStyle = previewStyle.Foreground(fe.Theme.Error)
			sections = append(sections, previewStyle.Render(fe.previewError))
		} else {
			sections = append(sections, previewStyle.Render(fe.preview))
		}
	}

	containerStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(fe.Theme.BorderFocused).
		Foreground(fe.Theme.Foreground).
		Width(fe.Width).
		Padding(1)
	return containerStyle.Render(strings.Join(sections, "\n"))
}

func (fe *FilterEditor) renderOperators() string {
	var lines []string
	for i, op := range fe.operators {
		style := lipgloss.NewStyle().Padding(0, 1)
		if i == fe.operatorIndex {
			style = style.Background(fe.Theme.Selection).Foreground(fe.Theme.Foreground)
		}
		lines = append(lines, style.Render(string(op)))
	}
	return strings.Join(lines, "\n")
}

func (fe *FilterEditor) renderInputs() string {
	op := fe.currentOperator()
	switch {
	case isNullOperator(op):
		return lipgloss.NewStyle().Foreground(fe.Theme.Cursor).Render("(no value needed)")
	case isRangeOperator(op):
		return fe.startInput.View() + "\n" + fe.endInput.View()
	default:
		return fe.valueInput.View()
	}
}
