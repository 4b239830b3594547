package welcome

import "fmt"

// FallbackPrayer is the blessing used whenever a prayer could not be generated.
const FallbackPrayer = "Lord, we ask for your blessing upon this visitor. Meet their needs and guide their steps. Amen."

const fallbackWelcomeFormat = "Welcome, %s! We are so glad you chose to worship with us today."

// Content is the welcome message and prayer shown to a visitor.
type Content struct {
	WelcomeMessage string `json:"welcomeMessage"`
	Prayer         string `json:"prayer"`
}

// Fallback returns the fixed content for a visitor when generation fails.
func Fallback(firstName string) Content {
	return Content{
		WelcomeMessage: fmt.Sprintf(fallbackWelcomeFormat, firstName),
		Prayer:         FallbackPrayer,
	}
}
