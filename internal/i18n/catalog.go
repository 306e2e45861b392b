package i18n

import "golang.org/x/text/language"

// catalog holds every translation. English is the required baseline; a key
// missing its Russian entry falls back to English at render time.
var catalog = map[Key]map[language.Tag]string{
	DontUnderstand: {
		language.English: "I don't understand. Send e.g. \"Apple 100 g\" or /help.",
		language.Russian: "Я не понимаю. Отправьте, например, \"Яблоко 100 г\" или /help.",
	},
	FoodLogged: {
		language.English: "Logged %s ×%s: %.0f kcal, fat %.1f g, carbs %.1f g, protein %.1f g.",
		language.Russian: "Записано %s ×%s: %.0f ккал, жиры %.1f г, углеводы %.1f г, белки %.1f г.",
	},
	DayRemainder: {
		language.English: "Left today: %.0f kcal, fat %.1f g, carbs %.1f g, protein %.1f g.",
		language.Russian: "Осталось на сегодня: %.0f ккал, жиры %.1f г, углеводы %.1f г, белки %.1f г.",
	},
	RequestCaptured: {
		language.English: "I don't know \"%s\" yet. I've asked the administrator; your entry will be logged once it's added.",
		language.Russian: "Я пока не знаю \"%s\". Я передал запрос администратору; запись появится, как только её добавят.",
	},
	WeightLogged: {
		language.English: "Weight %.1f kg recorded.",
		language.Russian: "Вес %.1f кг записан.",
	},
	Cancelled: {
		language.English: "Cancelled: %s",
		language.Russian: "Отменено: %s",
	},
	NothingToCancel: {
		language.English: "Nothing to cancel.",
		language.Russian: "Нечего отменять.",
	},
	Unauthorized: {
		language.English: "This command is for the administrator only.",
		language.Russian: "Эта команда доступна только администратору.",
	},
	TodayHeader: {
		language.English: "Today:",
		language.Russian: "Сегодня:",
	},
	TodayEntry: {
		language.English: "- %s ×%s: %.0f kcal, fat %.1f, carbs %.1f, protein %.1f",
		language.Russian: "- %s ×%s: %.0f ккал, жиры %.1f, углеводы %.1f, белки %.1f",
	},
	TodayEmpty: {
		language.English: "No entries today yet.",
		language.Russian: "Сегодня пока нет записей.",
	},
	Settings: {
		language.English: "Daily targets: %.0f kcal, fat %.0f g, carbs %.0f g, protein %.0f g.",
		language.Russian: "Дневные цели: %.0f ккал, жиры %.0f г, углеводы %.0f г, белки %.0f г.",
	},
	Help: {
		language.English: "Send what you ate: \"<food> [<qty> [<unit>]]\", e.g. \"Chicken soup 1 bowl\".\n" +
			"weight <kg> — record your weight.\n" +
			"/today — today's entries and what's left.\n" +
			"/settings — your daily targets.\n" +
			"/cancel — undo the last entry.",
		language.Russian: "Напишите, что вы съели: \"<еда> [<кол-во> [<ед.>]]\", например \"Куриный суп 1 тарелка\".\n" +
			"weight <кг> — записать вес.\n" +
			"/today — записи за сегодня и остаток.\n" +
			"/settings — ваши дневные цели.\n" +
			"/cancel — отменить последнюю запись.",
	},
	Start: {
		language.English: "Hi! I track what you eat. Send /help to see how.",
		language.Russian: "Привет! Я веду учёт того, что вы едите. Отправьте /help, чтобы узнать как.",
	},
	FoodCreated: {
		language.English: "Food \"%s\" added.",
		language.Russian: "Еда \"%s\" добавлена.",
	},
	UnitCreated: {
		language.English: "Unit \"%s\" added.",
		language.Russian: "Единица \"%s\" добавлена.",
	},
	UnitDefined: {
		language.English: "\"%s\" now knows the unit \"%s\" (%.0f g).",
		language.Russian: "Для \"%s\" определена единица \"%s\" (%.0f г).",
	},
	FoodUpdated: {
		language.English: "Food \"%s\" updated.",
		language.Russian: "Еда \"%s\" обновлена.",
	},
	DuplicateName: {
		language.English: "That name already exists.",
		language.Russian: "Такое название уже существует.",
	},
	RequestNotFound: {
		language.English: "No request with that id.",
		language.Russian: "Запрос с таким номером не найден.",
	},
	DigestBody: {
		language.English: "Yesterday: %d entries, %.0f kcal, fat %.1f g, carbs %.1f g, protein %.1f g.",
		language.Russian: "Вчера: %d записей, %.0f ккал, жиры %.1f г, углеводы %.1f г, белки %.1f г.",
	},
	OwnerNewRequest: {
		language.English: "New food request #%d from %s: \"%s\"",
		language.Russian: "Новый запрос #%d от %s: \"%s\"",
	},
	OwnerGuideFood: {
		language.English: "Unknown food. To add it and replay:\n%s",
		language.Russian: "Неизвестная еда. Чтобы добавить и повторить:\n%s",
	},
	OwnerGuideUnit: {
		language.English: "Unknown unit. To add and define it, then replay:\n%s\n%s",
		language.Russian: "Неизвестная единица. Чтобы добавить, определить и повторить:\n%s\n%s",
	},
	OwnerGuideDefine: {
		language.English: "The unit exists but is not defined for this food. To define and replay:\n%s",
		language.Russian: "Единица существует, но не определена для этой еды. Чтобы определить и повторить:\n%s",
	},
}
