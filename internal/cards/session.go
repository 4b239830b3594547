package cards

import (
	"time"

	"github.com/google/uuid"
	"github.com/wolfman30/connection-card/internal/visitor"
	"github.com/wolfman30/connection-card/internal/welcome"
)

// View is what the visitor currently sees for a draft.
type View string

const (
	ViewEditing View = "editing"
	ViewShowing View = "showing"
)

// Result is what the display layer renders after a submit: the generated
// content plus the visitor's first name.
type Result struct {
	FirstName      string `json:"firstName"`
	WelcomeMessage string `json:"welcomeMessage"`
	Prayer         string `json:"prayer"`
	Generated      bool   `json:"generated"`
}

func newResult(rec visitor.Record, content welcome.Content) Result {
	return Result{
		FirstName:      rec.FirstName,
		WelcomeMessage: content.WelcomeMessage,
		Prayer:         content.Prayer,
		Generated:      content != welcome.Fallback(rec.FirstName),
	}
}

// Session is one visitor's draft card and its display state. Editing moves
// to Showing when a submit settles; Reset moves back to Editing.
type Session struct {
	ID        string         `json:"id"`
	Draft     visitor.Record `json:"draft"`
	View      View           `json:"view"`
	Result    *Result        `json:"result,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// NewSession starts a blank draft in the Editing view.
func NewSession() *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        uuid.NewString(),
		Draft:     visitor.DefaultRecord(),
		View:      ViewEditing,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Form returns an editable form seeded from the draft. Changes are kept by
// calling Commit.
func (s *Session) Form() *visitor.Form {
	return visitor.FormFromRecord(s.Draft)
}

// Commit stores the form's current values as the draft.
func (s *Session) Commit(form *visitor.Form) {
	s.Draft = form.Snapshot()
	s.touch()
}

// Show moves the session to the Showing view.
func (s *Session) Show(result Result) {
	s.View = ViewShowing
	s.Result = &result
	s.touch()
}

// Reset clears the draft and returns to Editing.
func (s *Session) Reset() {
	form := s.Form()
	form.Reset()
	s.Draft = form.Snapshot()
	s.View = ViewEditing
	s.Result = nil
	s.touch()
}

func (s *Session) touch() {
	s.UpdatedAt = time.Now().UTC()
}
