package bot

import (
	"fmt"

	"citybot/core/telegram/format"
)

const (
	locationPromptText = "Tap the button below to share your location, or type your area as text:\n\n" +
		"_Your location will only be used to find nearby service workers._"

	cancelledText = "❌ Request cancelled.\n\nUse /start to begin again."

	useButtonsText = "Please use the buttons above to select a service, or send /cancel to stop."

	idleHintText = "Send /start to request a service."

	helpText = "*Smart City Services*\n\n" +
		"I connect you with skilled service workers in your area:\n" +
		"• ⚡ Electrician\n" +
		"• 🔧 Plumber\n" +
		"• 🏗️ Construction Worker\n\n" +
		"/start — request a service\n" +
		"/cancel — cancel the current request\n" +
		"/help — show this message"
)

func welcomeMessage(firstName string) string {
	greeting := "👋 Welcome to *Smart City Services*!"
	if firstName != "" {
		greeting = fmt.Sprintf("👋 Welcome to *Smart City Services*, %s!", format.EscapeMarkdown(firstName))
	}
	return greeting + "\n\n" +
		"We connect you with skilled service workers in your area.\n\n" +
		"🔹 *Available Services:*\n" +
		"• ⚡ Electrician\n" +
		"• 🔧 Plumber\n" +
		"• 🏗️ Construction Worker\n\n" +
		"Please select a service below to get started:"
}

func serviceSelectedMessage(label string) string {
	return fmt.Sprintf("You selected: *%s*\n\n📍 Please share your location so we can find nearby workers.", label)
}

// confirmationMessage renders the final acknowledgement. location arrives
// pre-rendered: either escaped free text or a Markdown link to coordinates.
func confirmationMessage(label, location, reference string) string {
	return "✅ *Request Confirmed!*\n\n" +
		fmt.Sprintf("📋 *Service:* %s\n", label) +
		fmt.Sprintf("📍 *Location:* %s\n", location) +
		fmt.Sprintf("🆔 *Reference:* `%s`\n\n", reference) +
		"🔔 Nearby workers have been notified and will contact you shortly.\n\n" +
		"_Thank you for using Smart City Services!_\n\n" +
		"Use /start to request another service."
}
