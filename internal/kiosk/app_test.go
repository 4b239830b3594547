package kiosk

import (
	"context"
	"errors"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/connection-card/internal/cards"
	"github.com/wolfman30/connection-card/internal/config"
	"github.com/wolfman30/connection-card/internal/visitor"
)

type fakeSubmitter struct {
	mu      sync.Mutex
	records []visitor.Record
	sources []string
	result  cards.Result
	err     error
}

func (f *fakeSubmitter) SubmitCard(_ context.Context, rec visitor.Record, source string) (cards.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, rec)
	f.sources = append(f.sources, source)
	if f.err != nil {
		return cards.Result{}, f.err
	}
	res := f.result
	res.FirstName = rec.FirstName
	return res, nil
}

func newTestApp(sub *fakeSubmitter) *App {
	return NewApp(sub, config.DefaultChurchProfile(), nil)
}

func typeText(a *App, s string) {
	a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func press(a *App, k tea.KeyType) tea.Cmd {
	_, cmd := a.Update(tea.KeyMsg{Type: k})
	return cmd
}

// runCmd executes cmd and any batch it expands to, returning every message.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		return []tea.Msg{msg}
	}
	var out []tea.Msg
	for _, c := range batch {
		out = append(out, runCmd(c)...)
	}
	return out
}

func findSubmitted(t *testing.T, msgs []tea.Msg) submittedMsg {
	t.Helper()
	for _, m := range msgs {
		if sm, ok := m.(submittedMsg); ok {
			return sm
		}
	}
	t.Fatalf("no submittedMsg among %d messages", len(msgs))
	return submittedMsg{}
}

func fillNames(a *App) {
	typeText(a, "Jane")
	press(a, tea.KeyTab)
	typeText(a, "Doe")
}

func TestApp_SubmitShowsWelcome(t *testing.T) {
	sub := &fakeSubmitter{result: cards.Result{
		WelcomeMessage: "So glad you came, Jane.",
		Prayer:         "Lord, bless Jane this week.",
		Generated:      true,
	}}
	app := newTestApp(sub)

	fillNames(app)
	cmd := press(app, tea.KeyEnter)
	require.NotNil(t, cmd)
	assert.True(t, app.busy)

	app.Update(findSubmitted(t, runCmd(cmd)))

	assert.False(t, app.busy)
	assert.Equal(t, viewShowing, app.view)
	require.Len(t, sub.records, 1)
	assert.Equal(t, "Jane", sub.records[0].FirstName)
	assert.Equal(t, "Doe", sub.records[0].LastName)
	assert.Equal(t, cards.SourceKiosk, sub.sources[0])

	out := app.View()
	assert.Contains(t, out, "Thank you, Jane!")
	assert.Contains(t, out, "So glad you came")
	assert.Contains(t, out, "bless Jane")
}

func TestApp_SubmitRequiresNames(t *testing.T) {
	sub := &fakeSubmitter{}
	app := newTestApp(sub)

	cmd := press(app, tea.KeyEnter)
	assert.Nil(t, cmd)
	assert.Equal(t, "Please tell us your first name.", app.errMsg)
	assert.Contains(t, app.View(), "Please tell us your first name.")

	typeText(app, "Jane")
	assert.Nil(t, press(app, tea.KeyEnter))
	assert.Equal(t, "Please tell us your last name.", app.errMsg)
	assert.Empty(t, sub.records)
}

func TestApp_SelectorsCycleEnumValues(t *testing.T) {
	app := newTestApp(&fakeSubmitter{})

	for app.rows[app.focus] != visitor.FieldAgeRange {
		press(app, tea.KeyTab)
	}
	press(app, tea.KeyRight)
	assert.Equal(t, visitor.AgeRange50To69, app.form.Snapshot().AgeRange)
	press(app, tea.KeyRight)
	press(app, tea.KeyRight)
	assert.Equal(t, visitor.AgeRange13To17, app.form.Snapshot().AgeRange)

	// shift+tab from the first row wraps to the last.
	for app.focus != 0 {
		press(app, tea.KeyTab)
	}
	press(app, tea.KeyShiftTab)
	require.Equal(t, visitor.FieldMembershipInterest, app.rows[app.focus])
	press(app, tea.KeyLeft)
	assert.Equal(t, visitor.MembershipYes, app.form.Snapshot().MembershipInterest)
	press(app, tea.KeyLeft)
	assert.Equal(t, visitor.MembershipMaybe, app.form.Snapshot().MembershipInterest)
}

func TestApp_IgnoresEditsWhileBusy(t *testing.T) {
	app := newTestApp(&fakeSubmitter{})
	fillNames(app)

	cmd := press(app, tea.KeyEnter)
	require.NotNil(t, cmd)

	typeText(app, "xyz")
	press(app, tea.KeyCtrlR)
	assert.Equal(t, "Doe", app.form.Snapshot().LastName)
	assert.True(t, app.busy)
}

func TestApp_ResetAfterShowing(t *testing.T) {
	app := newTestApp(&fakeSubmitter{result: cards.Result{WelcomeMessage: "Hi"}})
	fillNames(app)
	for app.rows[app.focus] != visitor.FieldAgeRange {
		press(app, tea.KeyTab)
	}
	press(app, tea.KeyLeft)

	app.Update(findSubmitted(t, runCmd(press(app, tea.KeyEnter))))
	require.Equal(t, viewShowing, app.view)

	typeText(app, "ignored")
	press(app, tea.KeyCtrlR)

	assert.Equal(t, viewEditing, app.view)
	assert.Equal(t, visitor.DefaultRecord(), app.form.Snapshot())
	assert.Equal(t, 0, app.focus)
	assert.Empty(t, app.inputs[visitor.FieldFirstName].Value())
	assert.Equal(t, cards.Result{}, app.result)
	assert.Contains(t, app.View(), "Welcome to Grace Community Church")
}

func TestApp_SubmitFailureStaysEditing(t *testing.T) {
	app := newTestApp(&fakeSubmitter{err: errors.New("redis down")})
	fillNames(app)

	app.Update(findSubmitted(t, runCmd(press(app, tea.KeyEnter))))

	assert.Equal(t, viewEditing, app.view)
	assert.False(t, app.busy)
	assert.Contains(t, app.errMsg, "Something went wrong")
	assert.Equal(t, "Jane", app.form.Snapshot().FirstName)
}

func TestApp_QuitAndResize(t *testing.T) {
	app := newTestApp(&fakeSubmitter{})

	app.Update(tea.WindowSizeMsg{Width: 50, Height: 20})
	assert.Equal(t, 50, app.width)

	cmd := press(app, tea.KeyCtrlC)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestNewApp_RequiresSubmitter(t *testing.T) {
	assert.Panics(t, func() {
		NewApp(nil, config.DefaultChurchProfile(), nil)
	})
}
