package templates

import "strings"

// HTMXScriptURL is the pinned htmx build loaded by every page.
const HTMXScriptURL = "https://unpkg.com/htmx.org@2.0.4"

// LanguageLink is one entry of the language switcher.
type LanguageLink struct {
	Label  string
	URL    string
	Active bool
}

// PageContext provides shared layout context for pages.
type PageContext struct {
	Lang      string
	Loc       Localizer
	Title     string
	Languages []LanguageLink
}

func pageLang(page PageContext) string {
	if lang := strings.TrimSpace(page.Lang); lang != "" {
		return lang
	}
	return "en-US"
}
