// Package translate formats user-facing messages for the process locale.
package translate

import (
	"log"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/message"
)

// printer formats every message; replaced by SetLocale.
var printer *message.Printer

func init() {
	locales, err := locale.GetLocales()
	if err != nil {
		log.Printf("regasm: locale: %v", err)
	}

	SetLocale(locales...)
}

// SetLocale selects the best message catalog match for the given BCP 47
// language tags. With no tags, en-US is used.
func SetLocale(locales ...string) {
	if len(locales) == 0 {
		locales = []string{"en-US"}
	}

	printer = message.NewPrinter(message.MatchLanguage(locales...))
}

// From formats an en-US Sprintf() style key with the selected locale.
// Keys without a catalog entry are formatted as given.
func From(key message.Reference, args ...any) string {
	return printer.Sprintf(key, args...)
}
