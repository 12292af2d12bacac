package flow

import "strings"

// keywordGroup maps a set of substrings to one canned reply. Groups are
// checked in order; the first match wins.
type keywordGroup struct {
	keywords []string
	reply    string
}

var keywordGroups = []keywordGroup{
	{
		keywords: []string{"море", "побережье"},
		reply:    "🏖 Отличные варианты на побережье Краснодарского края! Напишите, какой формат интересует.",
	},
	{
		keywords: []string{"цена", "стоимость"},
		reply:    "💰 Уточните параметры – и мы подберем лучшие предложения.",
	},
	{
		keywords: []string{"ипотек", "рассроч"},
		reply:    "🏦 Мы предлагаем семейную ипотеку и рассрочку под ваш бюджет.",
	},
}

const fallbackReply = "🤝 Спасибо за сообщение! Ответим в ближайшее время."

// Respond classifies free text by case-insensitive keyword containment and
// returns the canned reply. Stateless; never touches the lead store.
func Respond(text string) string {
	lower := strings.ToLower(text)
	for _, g := range keywordGroups {
		for _, kw := range g.keywords {
			if strings.Contains(lower, kw) {
				return g.reply
			}
		}
	}
	return fallbackReply
}
