package bot

import (
	"citybot/core/telegram/keyboard"

	tele "gopkg.in/telebot.v4"
)

// ServiceCategory identifies one of the city-service worker categories a user
// can request. Values double as callback payloads, so they must stay stable.
type ServiceCategory string

const (
	ServiceElectrician  ServiceCategory = "electrician"
	ServicePlumber      ServiceCategory = "plumber"
	ServiceConstruction ServiceCategory = "construction"
)

// serviceCallbackKey is the callback unique shared by all service buttons;
// the category travels in the payload.
const serviceCallbackKey = "service"

const (
	shareLocationLabel = "📍 Share My Location"
	cancelLabel        = "❌ Cancel"
)

// serviceOrder fixes the button order in the services keyboard.
var serviceOrder = []ServiceCategory{
	ServiceElectrician,
	ServicePlumber,
	ServiceConstruction,
}

var serviceLabels = map[ServiceCategory]string{
	ServiceElectrician:  "⚡ Electrician",
	ServicePlumber:      "🔧 Plumber",
	ServiceConstruction: "🏗️ Construction Worker",
}

// ParseService maps a callback payload to a known category.
func ParseService(data string) (ServiceCategory, bool) {
	cat := ServiceCategory(data)
	_, ok := serviceLabels[cat]
	return cat, ok
}

// Label returns the user-facing name of the category.
func (s ServiceCategory) Label() string {
	if label, ok := serviceLabels[s]; ok {
		return label
	}
	return "the requested service"
}

// ServicesKeyboard builds the inline keyboard listing all categories, one per row.
func ServicesKeyboard() *tele.ReplyMarkup {
	buttons := make([]keyboard.InlineBtn, 0, len(serviceOrder))
	for _, cat := range serviceOrder {
		buttons = append(buttons, keyboard.InlineBtn{
			Text:   cat.Label(),
			Unique: serviceCallbackKey,
			Data:   string(cat),
		})
	}
	return keyboard.InlineButtons(buttons)
}

// LocationKeyboard builds the one-time reply keyboard offering GPS sharing
// and a cancel shortcut.
func LocationKeyboard() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	share := markup.Location(shareLocationLabel)
	cancel := markup.Text(cancelLabel)
	return keyboard.ReplyKeyboard(markup,
		[]tele.Btn{share},
		[]tele.Btn{cancel},
	)
}
