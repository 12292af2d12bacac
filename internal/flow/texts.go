package flow

import (
	"fmt"
	"strings"

	"github.com/poryadindom/leadbot/internal/domain"
)

const (
	textWelcomeJoin = "👋 Добро пожаловать! Чтобы начать, подпишитесь на наш канал."
	textAskGoal     = "Вы рассматриваете недвижимость для жизни или в качестве инвестиции?"
	textAskType     = "Какой тип объекта Вас интересует?"
	textAskCity     = "Выберите город / регион"
	textAskDistrict = "Уточните район:"
	textAskFinance  = "Рассматриваете ли Вы семейную ипотеку? (ребёнок до 7 лет или двое несовершеннолетних)"
	textAskInstall  = "Тогда доступна рассрочка. Выберите локацию:"
	textAskHandover = "Важно ли, чтобы дом уже сдан?"
	textAskFinish   = "В каком состоянии предпочитаете жилье?"
	textAskPhone    = "Пожалуйста, оставьте ваш номер телефона:"
	textThanks      = "Спасибо! Наш специалист свяжется с Вами. ✨"

	btnJoin  = "➡️ Подписаться на канал"
	btnPhone = "📱 Оставить номер"
)

func promptJoin(channel string) Prompt {
	return Prompt{
		Text: textWelcomeJoin,
		Rows: [][]Button{{
			{Text: btnJoin, URL: "https://t.me/" + strings.TrimPrefix(channel, "@")},
		}},
	}
}

func promptGoal() Prompt {
	return Prompt{
		Text: textAskGoal,
		Rows: [][]Button{
			{{Text: "🏡 Для проживания", Key: CBGoal, Data: domain.GoalLive}},
			{{Text: "💼 Для инвестиций", Key: CBGoal, Data: domain.GoalInvest}},
		},
	}
}

func promptPropertyType() Prompt {
	rows := make([][]Button, 0, len(domain.PropertyTypes))
	for _, p := range domain.PropertyTypes {
		rows = append(rows, []Button{{Text: p.Label, Key: CBType, Data: p.Code}})
	}
	return Prompt{Text: textAskType, Rows: rows}
}

func promptCities() Prompt {
	rows := make([][]Button, 0, len(domain.Catalog))
	for _, c := range domain.Catalog {
		rows = append(rows, []Button{{Text: c.Label, Key: CBCity, Data: c.Key}})
	}
	return Prompt{Text: textAskCity, Rows: rows}
}

func promptDistricts(city domain.City) Prompt {
	rows := make([][]Button, 0, len(city.Districts))
	for _, d := range city.Districts {
		rows = append(rows, []Button{{Text: d, Key: CBDistrict, Data: domain.NormalizeDistrict(d)}})
	}
	return Prompt{Text: textAskDistrict, Rows: rows}
}

func promptFinancing() Prompt {
	return Prompt{
		Text: textAskFinance,
		Rows: [][]Button{
			{{Text: "👨‍👩‍👧 Семейная ипотека – да", Key: CBFinancing, Data: "yes"}},
			{{Text: "❌ Нет семейной", Key: CBFinancing, Data: "no"}},
		},
	}
}

func promptInstall() Prompt {
	rows := make([][]Button, 0, len(domain.InstallmentLocations))
	for _, l := range domain.InstallmentLocations {
		rows = append(rows, []Button{{Text: l.Label, Key: CBInstall, Data: l.Code}})
	}
	return Prompt{Text: textAskInstall, Rows: rows}
}

func promptHandover() Prompt {
	return Prompt{
		Text: textAskHandover,
		Rows: [][]Button{
			{{Text: "🏢 Только сданные", Key: CBHandover, Data: domain.HandoverNow}},
			{{Text: "⏳ Готов ждать", Key: CBHandover, Data: domain.HandoverWait}},
		},
	}
}

func promptFinish() Prompt {
	return Prompt{
		Text: textAskFinish,
		Rows: [][]Button{
			{{Text: "🔨 С ремонтом", Key: CBFinish, Data: domain.FinishingReady}},
			{{Text: "🛠 Подчистовая", Key: CBFinish, Data: domain.FinishingGrey}},
		},
	}
}

// ContactButton is the label for the phone-sharing reply button.
func (p Prompt) ContactButton() string { return btnPhone }

func promptPhone() Prompt {
	return Prompt{Text: textAskPhone, RequestContact: true}
}

func promptThanks() Prompt {
	return Prompt{Text: textThanks, RemoveKeyboard: true}
}

// AdminSummary renders the completed lead as the notification text sent to
// the configured admin. Plain text, field values come from users.
func AdminSummary(lead domain.Lead) string {
	var b strings.Builder
	b.WriteString("📩 Получена новая заявка!\n")
	fmt.Fprintf(&b, "Цель: %s\n", lead.Goal.String)
	fmt.Fprintf(&b, "Тип: %s\n", lead.Property.String)
	fmt.Fprintf(&b, "Город: %s\n", lead.City.String)
	fmt.Fprintf(&b, "Район: %s\n", lead.District.String)
	fmt.Fprintf(&b, "Ипотека: %s\n", lead.Financing.String)
	fmt.Fprintf(&b, "Сдача: %s\n", lead.Handover.String)
	fmt.Fprintf(&b, "Отделка: %s\n", lead.Finishing.String)
	fmt.Fprintf(&b, "Телефон: %s", lead.Phone.String)
	return b.String()
}
