package web

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/louisbranch/demofront/internal/services/web/routepath"
	"go.uber.org/zap"
)

// newAPIProxy forwards /api/ requests to the backend, standing in for the
// reverse proxy of the compose stack. With stripPrefix the backend sees paths
// without the /api prefix.
func newAPIProxy(upstream string, stripPrefix bool, logger *zap.Logger) (http.Handler, error) {
	target, err := url.Parse(strings.TrimSpace(upstream))
	if err != nil {
		return nil, fmt.Errorf("parse api upstream: %w", err)
	}
	if !target.IsAbs() || target.Host == "" {
		return nil, fmt.Errorf("api upstream %q must be an absolute URL", upstream)
	}

	proxy := &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(target)
			pr.SetXForwarded()
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logger.Error("api proxy failed",
				zap.String("path", r.URL.Path),
				zap.String("upstream", target.String()),
				zap.Error(err))
			w.WriteHeader(http.StatusBadGateway)
		},
	}
	if stripPrefix {
		return http.StripPrefix(strings.TrimSuffix(routepath.APIPrefix, "/"), proxy), nil
	}
	return proxy, nil
}
