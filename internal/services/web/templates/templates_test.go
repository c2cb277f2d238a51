package templates

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/louisbranch/demofront/internal/display"
	"golang.org/x/text/message"
)

type mapLocalizer map[string]string

func (m mapLocalizer) Sprintf(key message.Reference, _ ...any) string {
	if k, ok := key.(string); ok {
		if v, ok := m[k]; ok {
			return v
		}
		return k
	}
	return ""
}

var testLoc = mapLocalizer{
	"display.loading": display.LoadingText,
	"display.error":   display.ErrorText,
	"display.stack":   "Stack",
}

var testBadges = []display.Badge{
	{Label: "React", Color: "#282c34"},
	{Label: "Nginx", Color: "#009639"},
}

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	return buf.String()
}

func TestDisplayPanelLoadingShowsPlaceholderAndTrigger(t *testing.T) {
	got := render(t, DisplayPanel(testLoc, display.InitialState(), testBadges, templ.Attributes{
		"hx-get":     "/display/abc",
		"hx-trigger": "load",
	}))
	for _, want := range []string{
		`data-phase="loading"`,
		`hx-get="/display/abc"`,
		`hx-trigger="load"`,
		`<h2 class="display-message">Loading...</h2>`,
		`style="background: #282c34"`,
		`>Nginx</span>`,
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("panel missing %q: %q", want, got)
		}
	}
}

func TestDisplayPanelLoadedEscapesMessage(t *testing.T) {
	state := display.State{Phase: display.PhaseLoaded, Message: `Hello <World> & "friends"`}
	got := render(t, DisplayPanel(testLoc, state, testBadges, nil))
	if !strings.Contains(got, `Hello &lt;World&gt; &amp; &#34;friends&#34;`) {
		t.Fatalf("message not escaped: %q", got)
	}
	if strings.Contains(got, "hx-get") {
		t.Fatalf("settled panel should not poll: %q", got)
	}
}

func TestDisplayPanelErroredHidesMessageAndBadges(t *testing.T) {
	state := display.State{Phase: display.PhaseErrored, Message: display.LoadingText, Error: display.ErrorText}
	got := render(t, DisplayPanel(testLoc, state, testBadges, nil))
	if !strings.Contains(got, `<p class="display-error" role="alert">Failed to connect to backend</p>`) {
		t.Fatalf("error text missing: %q", got)
	}
	if strings.Contains(got, "React") || strings.Contains(got, "Loading...") {
		t.Fatalf("errored panel should only show the error: %q", got)
	}
}

func TestDisplayPageAlwaysRendersTitle(t *testing.T) {
	page := PageContext{
		Lang:  "pt-BR",
		Loc:   testLoc,
		Title: "Project 3: Docker Compose Fullstack",
		Languages: []LanguageLink{
			{Label: "English", URL: "/?lang=en-US"},
			{Label: "Português", URL: "/?lang=pt-BR", Active: true},
		},
	}
	errored := display.State{Phase: display.PhaseErrored, Error: display.ErrorText}
	got := render(t, DisplayPage(page, DisplayPanel(testLoc, errored, nil, nil)))
	for _, want := range []string{
		`<html lang="pt-BR">`,
		`<title>Project 3: Docker Compose Fullstack</title>`,
		`<h1>Project 3: Docker Compose Fullstack</h1>`,
		`<a href="/?lang=en-US">English</a>`,
		`<span aria-current="true">Português</span>`,
		HTMXScriptURL,
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("page missing %q: %q", want, got)
		}
	}
}

func TestTFallsBackToKey(t *testing.T) {
	if got := T(nil, "display.loading"); got != "display.loading" {
		t.Fatalf("T(nil) = %q", got)
	}
	if got := T(nil, "%s!", "hi"); got != "hi!" {
		t.Fatalf("T(nil, args) = %q", got)
	}
}

func TestDisplayPanelEscapesAttributes(t *testing.T) {
	got := render(t, DisplayPanel(testLoc, display.InitialState(), nil, templ.Attributes{
		"hx-get": `/display/"><script>`,
	}))
	if strings.Contains(got, "<script>") {
		t.Fatalf("attribute value not escaped: %q", got)
	}
	if !strings.Contains(got, `hx-get="/display/&#34;&gt;&lt;script&gt;"`) {
		t.Fatalf("escaped attribute missing: %q", got)
	}
}

func TestBadgeWithoutColorHasNoStyle(t *testing.T) {
	got := render(t, Badges(testLoc, []display.Badge{{Label: "Plain"}}))
	if !strings.Contains(got, `<span class="badge">Plain</span>`) {
		t.Fatalf("badge = %q", got)
	}
	if got := render(t, Badges(testLoc, nil)); got != "" {
		t.Fatalf("empty badge row = %q, want nothing", got)
	}
}

func TestExpiredPanelKeepsPanelID(t *testing.T) {
	got := render(t, ExpiredPanel(mapLocalizer{"display.expired": "gone"}))
	if !strings.Contains(got, `id="`+PanelID+`"`) || !strings.Contains(got, `<p class="display-note">gone</p>`) {
		t.Fatalf("expired panel = %q", got)
	}
}
