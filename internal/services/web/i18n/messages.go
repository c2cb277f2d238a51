package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func init() {
	en := language.AmericanEnglish
	message.SetString(en, "display.loading", "Loading...")
	message.SetString(en, "display.error", "Failed to connect to backend")
	message.SetString(en, "display.stack", "Stack")
	message.SetString(en, "display.expired", "This view has expired. Reload the page to fetch the message again.")
	message.SetString(en, "lang.en", "English")
	message.SetString(en, "lang.pt_br", "Português")

	pt := language.BrazilianPortuguese
	message.SetString(pt, "display.loading", "Carregando...")
	message.SetString(pt, "display.error", "Falha ao conectar ao backend")
	message.SetString(pt, "display.stack", "Stack")
	message.SetString(pt, "display.expired", "Esta visualização expirou. Recarregue a página para buscar a mensagem novamente.")
	message.SetString(pt, "lang.en", "English")
	message.SetString(pt, "lang.pt_br", "Português")
}
