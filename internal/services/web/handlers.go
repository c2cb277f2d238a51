package web

import (
	"context"
	"errors"
	"net/http"

	"github.com/a-h/templ"
	"github.com/louisbranch/demofront/internal/display"
	"github.com/louisbranch/demofront/internal/services/shared/htmx"
	sharedi18n "github.com/louisbranch/demofront/internal/services/shared/i18nhttp"
	webi18n "github.com/louisbranch/demofront/internal/services/web/i18n"
	"github.com/louisbranch/demofront/internal/services/web/routepath"
	webtemplates "github.com/louisbranch/demofront/internal/services/web/templates"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type handler struct {
	variant   display.Variant
	endpoint  string
	originURL string
	client    display.Doer
	logger    *zap.Logger
	metrics   *display.Metrics
	mounts    *mountRegistry
	mux       *http.ServeMux
}

func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *handler) newDisplay() (*display.Component, error) {
	return display.New(display.Options{
		Endpoint: h.endpoint,
		BaseURL:  h.originURL,
		Client:   h.client,
		Logger:   h.logger,
		Metrics:  h.metrics,
	})
}

// handleIndex mounts a display and renders the page synchronously with
// whatever state it holds, normally the Loading placeholder that pulls the
// settled fragment once the browser loads it.
func (h *handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	printer, tag := webi18n.Localize(w, r)

	component, err := h.newDisplay()
	if err != nil {
		h.logger.Error("create display", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	// Register before mounting so a full registry never reaches the backend.
	mountID, err := h.mounts.add(component)
	if err != nil {
		component.Unmount()
		h.logger.Warn("register display mount", zap.Error(err), zap.Int("pending", h.mounts.len()))
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}
	// The fetch outlives this request; the browser collects the result with
	// a second request.
	component.Mount(context.Background())

	state := component.State()
	var attrs templ.Attributes
	if state.Phase.Terminal() {
		if taken, ok := h.mounts.take(mountID); ok {
			taken.Unmount()
		}
	} else {
		attrs = htmx.LoadTrigger(routepath.Display(mountID))
	}

	panel := webtemplates.DisplayPanel(printer, state, h.variant.Badges, attrs)
	htmx.RenderPage(w, r, panel, webtemplates.DisplayPage(h.page(printer, tag), panel), http.StatusOK)
}

// handleDisplay waits for a mounted display to settle and renders it. Each
// mount can be collected once.
func (h *handler) handleDisplay(w http.ResponseWriter, r *http.Request) {
	printer, tag := webi18n.Localize(w, r)
	page := h.page(printer, tag)

	component, ok := h.mounts.take(r.PathValue("id"))
	if !ok {
		h.renderExpired(w, r, printer, page)
		return
	}
	defer component.Unmount()

	state, err := component.Wait(r.Context())
	if err != nil {
		if errors.Is(err, display.ErrUnmounted) {
			h.renderExpired(w, r, printer, page)
			return
		}
		// The browser went away; nobody is left to render for.
		h.logger.Debug("display request ended before fetch settled",
			zap.String("endpoint", h.endpoint),
			zap.Error(err))
		return
	}

	panel := webtemplates.DisplayPanel(printer, state, h.variant.Badges, nil)
	htmx.RenderPage(w, r, panel, webtemplates.DisplayPage(page, panel), http.StatusOK)
}

// renderExpired answers an unknown mount. htmx does not swap 4xx responses,
// so fragment requests get 200 to replace the Loading placeholder.
func (h *handler) renderExpired(w http.ResponseWriter, r *http.Request, printer *message.Printer, page webtemplates.PageContext) {
	panel := webtemplates.ExpiredPanel(printer)
	status := http.StatusNotFound
	if htmx.IsHTMXRequest(r) {
		status = http.StatusOK
	}
	htmx.RenderPage(w, r, panel, webtemplates.DisplayPage(page, panel), status)
}

func (h *handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func (h *handler) page(printer *message.Printer, tag language.Tag) webtemplates.PageContext {
	options := sharedi18n.BuildLanguageOptions(webi18n.Supported(), tag.String(), func(t language.Tag) string {
		return printer.Sprintf(sharedi18n.LanguageKeyLabel(t))
	})
	links := make([]webtemplates.LanguageLink, 0, len(options))
	for _, option := range options {
		links = append(links, webtemplates.LanguageLink{
			Label:  option.Label,
			URL:    sharedi18n.LanguageURL(routepath.Root, "", option.Tag),
			Active: option.Active,
		})
	}
	return webtemplates.PageContext{
		Lang:      tag.String(),
		Loc:       printer,
		Title:     h.variant.Title,
		Languages: links,
	}
}
