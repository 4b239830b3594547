package kiosk

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wolfman30/connection-card/internal/cards"
	"github.com/wolfman30/connection-card/internal/config"
	"github.com/wolfman30/connection-card/internal/visitor"
	"github.com/wolfman30/connection-card/pkg/logging"
)

const defaultSubmitTimeout = 45 * time.Second

// Submitter turns a finished card into the welcome shown to the visitor.
// *cards.Service satisfies it.
type Submitter interface {
	SubmitCard(ctx context.Context, rec visitor.Record, source string) (cards.Result, error)
}

type view int

const (
	viewEditing view = iota
	viewShowing
)

type submittedMsg struct {
	result cards.Result
	err    error
}

// App is the lobby kiosk: one card form, then the generated welcome.
type App struct {
	submitter Submitter
	church    config.ChurchProfile
	logger    *logging.Logger
	timeout   time.Duration

	width  int
	height int
	view   view

	form    *visitor.Form
	rows    []visitor.Field
	inputs  map[visitor.Field]*textinput.Model
	focus   int
	ageIdx  int
	joinIdx int

	busy    bool
	spinner spinner.Model
	result  cards.Result
	errMsg  string
}

// Option configures an App.
type Option func(*App)

// WithSubmitTimeout bounds one submit, generation included.
func WithSubmitTimeout(d time.Duration) Option {
	return func(a *App) {
		if d > 0 {
			a.timeout = d
		}
	}
}

func NewApp(submitter Submitter, church config.ChurchProfile, logger *logging.Logger, opts ...Option) *App {
	if submitter == nil {
		panic("kiosk: submitter required")
	}
	if logger == nil {
		logger = logging.Discard()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styleChoiceFocused

	a := &App{
		submitter: submitter,
		church:    church,
		logger:    logger,
		timeout:   defaultSubmitTimeout,
		form:      visitor.NewForm(),
		rows:      visitor.Fields(),
		inputs:    make(map[visitor.Field]*textinput.Model),
		spinner:   sp,
	}
	for _, f := range a.rows {
		if isSelector(f) {
			continue
		}
		in := newInput(f)
		a.inputs[f] = &in
	}
	for _, opt := range opts {
		opt(a)
	}
	a.syncSelectors()
	a.focusRow(0)
	return a
}

func newInput(f visitor.Field) textinput.Model {
	in := textinput.New()
	in.Prompt = ""
	in.Width = 40
	in.CharLimit = 120
	switch f {
	case visitor.FieldEmail:
		in.Placeholder = "you@example.com"
	case visitor.FieldCityOrRegion:
		in.Placeholder = "City, State ZIP"
	case visitor.FieldPrayerRequest:
		in.Placeholder = "How can we pray for you?"
		in.CharLimit = 500
	}
	return in
}

func isSelector(f visitor.Field) bool {
	return f == visitor.FieldAgeRange || f == visitor.FieldMembershipInterest
}

func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		return a, a.handleKey(msg)

	case submittedMsg:
		a.busy = false
		if msg.err != nil {
			a.errMsg = submitErrorText(msg.err)
			a.logger.Warn("kiosk submit failed", "error", msg.err)
			return a, nil
		}
		a.result = msg.result
		a.view = viewShowing
		a.logger.Info("kiosk card submitted", "generated", msg.result.Generated)
		return a, nil

	case spinner.TickMsg:
		if !a.busy {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	return a, a.updateFocusedInput(msg)
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, keys.Quit) {
		return tea.Quit
	}
	// The card is locked while its welcome is being generated.
	if a.busy {
		return nil
	}

	if a.view == viewShowing {
		if key.Matches(msg, keys.Reset) {
			a.reset()
			return textinput.Blink
		}
		return nil
	}

	switch {
	case key.Matches(msg, keys.Reset):
		a.reset()
		return textinput.Blink
	case key.Matches(msg, keys.Submit):
		return a.submit()
	case key.Matches(msg, keys.Next):
		a.focusRow(a.focus + 1)
		return nil
	case key.Matches(msg, keys.Prev):
		a.focusRow(a.focus - 1)
		return nil
	}

	if field := a.rows[a.focus]; isSelector(field) {
		switch {
		case key.Matches(msg, keys.Left):
			a.cycle(field, -1)
		case key.Matches(msg, keys.Right):
			a.cycle(field, 1)
		}
		return nil
	}

	return a.updateFocusedInput(msg)
}

func (a *App) updateFocusedInput(msg tea.Msg) tea.Cmd {
	if a.view != viewEditing || a.busy {
		return nil
	}
	field := a.rows[a.focus]
	in, ok := a.inputs[field]
	if !ok {
		return nil
	}
	updated, cmd := in.Update(msg)
	*in = updated
	// Free-text fields cannot fail.
	_ = a.form.SetField(field, in.Value())
	return cmd
}

func (a *App) focusRow(i int) {
	n := len(a.rows)
	a.focus = ((i % n) + n) % n
	for f, in := range a.inputs {
		if f == a.rows[a.focus] {
			in.Focus()
		} else {
			in.Blur()
		}
	}
}

func (a *App) cycle(field visitor.Field, step int) {
	switch field {
	case visitor.FieldAgeRange:
		ranges := visitor.AgeRanges()
		a.ageIdx = wrap(a.ageIdx+step, len(ranges))
		_ = a.form.SetAgeRange(ranges[a.ageIdx])
	case visitor.FieldMembershipInterest:
		choices := visitor.MembershipInterests()
		a.joinIdx = wrap(a.joinIdx+step, len(choices))
		_ = a.form.SetMembershipInterest(choices[a.joinIdx])
	}
}

func wrap(i, n int) int {
	return ((i % n) + n) % n
}

// syncSelectors points the selectors at the form's current enum values.
func (a *App) syncSelectors() {
	snap := a.form.Snapshot()
	for i, r := range visitor.AgeRanges() {
		if r == snap.AgeRange {
			a.ageIdx = i
		}
	}
	for i, m := range visitor.MembershipInterests() {
		if m == snap.MembershipInterest {
			a.joinIdx = i
		}
	}
}

func (a *App) submit() tea.Cmd {
	rec := a.form.Snapshot()
	if err := rec.Validate(); err != nil {
		a.errMsg = submitErrorText(err)
		return nil
	}
	a.errMsg = ""
	a.busy = true
	return tea.Batch(a.spinner.Tick, a.submitCmd(rec))
}

func (a *App) submitCmd(rec visitor.Record) tea.Cmd {
	submitter, timeout := a.submitter, a.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		result, err := submitter.SubmitCard(ctx, rec, cards.SourceKiosk)
		return submittedMsg{result: result, err: err}
	}
}

func (a *App) reset() {
	a.form.Reset()
	for _, in := range a.inputs {
		in.Reset()
	}
	a.syncSelectors()
	a.result = cards.Result{}
	a.errMsg = ""
	a.view = viewEditing
	a.focusRow(0)
}

func submitErrorText(err error) string {
	switch {
	case errors.Is(err, visitor.ErrMissingFirstName):
		return "Please tell us your first name."
	case errors.Is(err, visitor.ErrMissingLastName):
		return "Please tell us your last name."
	default:
		return "Something went wrong while preparing your welcome. Please try again."
	}
}

func (a *App) View() string {
	if a.view == viewShowing {
		return a.renderResult()
	}
	return a.renderForm()
}
