// Package i18n renders user-facing bot messages in the user's language.
// Lookups go through a golang.org/x/text matcher so regional variants
// ("ru-RU", "en-GB") land on the supported base language; anything
// unsupported falls back to English.
package i18n

import (
	"fmt"

	"golang.org/x/text/language"
)

// Key identifies one translatable message.
type Key string

// Message keys. Formatting verbs in the catalog entries are part of the
// contract with the callers.
const (
	DontUnderstand   Key = "dont_understand"
	FoodLogged       Key = "food_logged"
	DayRemainder     Key = "day_remainder"
	RequestCaptured  Key = "request_captured"
	WeightLogged     Key = "weight_logged"
	Cancelled        Key = "cancelled"
	NothingToCancel  Key = "nothing_to_cancel"
	Unauthorized     Key = "unauthorized"
	TodayHeader      Key = "today_header"
	TodayEntry       Key = "today_entry"
	TodayEmpty       Key = "today_empty"
	Settings         Key = "settings"
	Help             Key = "help"
	Start            Key = "start"
	FoodCreated      Key = "food_created"
	UnitCreated      Key = "unit_created"
	UnitDefined      Key = "unit_defined"
	FoodUpdated      Key = "food_updated"
	DuplicateName    Key = "duplicate_name"
	RequestNotFound  Key = "request_not_found"
	DigestBody       Key = "digest_body"
	OwnerNewRequest  Key = "owner_new_request"
	OwnerGuideFood   Key = "owner_guide_food"
	OwnerGuideUnit   Key = "owner_guide_unit"
	OwnerGuideDefine Key = "owner_guide_define"
)

var supported = []language.Tag{
	language.English, // fallback
	language.Russian,
}

var matcher = language.NewMatcher(supported)

// T renders the message for the locale, applying fmt formatting when args
// are given. Unknown locales render English; an unknown key renders the key
// itself so a missing translation is visible rather than silent.
func T(locale string, key Key, args ...any) string {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	_, idx, _ := matcher.Match(tag)
	msgs := catalog[key]
	if msgs == nil {
		return string(key)
	}
	format, ok := msgs[supported[idx]]
	if !ok {
		format = msgs[language.English]
	}
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}
