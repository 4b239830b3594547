package welcome

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPromptEmbedsVisitorDetails(t *testing.T) {
	prompt := BuildPrompt(janeDoe())

	for _, want := range []string{
		"Jane Doe",
		"Age Group: 30-49",
		"Location: Springfield, IL",
		"Membership Interest: yes",
		`Prayer Request: "healing for my mother"`,
		`"welcomeMessage"`,
		`"prayer"`,
		"only if it is 'yes' or 'maybe'",
		"blessing over their life and family",
	} {
		assert.Contains(t, prompt, want)
	}
}

func TestBuildPromptEmptyPrayerRequest(t *testing.T) {
	rec := janeDoe()
	rec.PrayerRequest = ""
	rec.MembershipInterest = 0

	prompt := BuildPrompt(rec)
	assert.Contains(t, prompt, `Prayer Request: ""`)
	assert.Contains(t, prompt, "Membership Interest: no")
	assert.False(t, strings.Contains(prompt, "%!"), "prompt has formatting artifacts: %s", prompt)
}

func TestFallback(t *testing.T) {
	c := Fallback("Ruth")
	assert.Equal(t, "Welcome, Ruth! We are so glad you chose to worship with us today.", c.WelcomeMessage)
	assert.Equal(t, FallbackPrayer, c.Prayer)
}

func TestContentSchema(t *testing.T) {
	s := ContentSchema()
	assert.Len(t, s.Fields, 2)
	assert.Equal(t, []string{"welcomeMessage", "prayer"}, s.RequiredNames())

	var nilSchema *ResponseSchema
	assert.Nil(t, nilSchema.RequiredNames())
}
