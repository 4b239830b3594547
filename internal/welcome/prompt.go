package welcome

import (
	"fmt"

	"github.com/wolfman30/connection-card/internal/visitor"
)

const promptTemplate = `A new visitor named %s %s has just filled out a connection card for our church.

Details:
- Age Group: %s
- Location: %s
- Membership Interest: %s
- Prayer Request: "%s"

Please generate two things in JSON format:
1. "welcomeMessage": A warm, personalized short paragraph welcoming them to the church. Mention their interest in membership only if it is 'yes' or 'maybe'. Keep it friendly and inviting.
2. "prayer": A short, specific prayer based on their prayer request. If the request is empty or generic, write a blessing over their life and family.`

// BuildPrompt renders the generation prompt for a card. Visitor text is
// embedded verbatim.
func BuildPrompt(rec visitor.Record) string {
	return fmt.Sprintf(promptTemplate,
		rec.FirstName,
		rec.LastName,
		rec.AgeRange,
		rec.CityOrRegion,
		rec.MembershipInterest,
		rec.PrayerRequest,
	)
}

// ContentSchema declares the JSON object the model must return.
func ContentSchema() *ResponseSchema {
	return &ResponseSchema{
		Fields: []SchemaField{
			{Name: "welcomeMessage", Description: "Personalized welcome paragraph", Required: true},
			{Name: "prayer", Description: "Short prayer for the visitor", Required: true},
		},
	}
}
