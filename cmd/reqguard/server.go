package main

import (
	"encoding/json"
	"net/http"
	"net/http/httputil"

	"github.com/gorilla/mux"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/abczzz13/reqguard/clientaddr"
	"github.com/abczzz13/reqguard/config"
	"github.com/abczzz13/reqguard/correlation"
	"github.com/abczzz13/reqguard/corspolicy"
	"github.com/abczzz13/reqguard/errhandler"
	"github.com/abczzz13/reqguard/internal/logging"
	"github.com/abczzz13/reqguard/ipfilter"
	reqguardprom "github.com/abczzz13/reqguard/prometheus"
)

// serverDeps carries the collaborators newHandler needs beyond the config.
type serverDeps struct {
	logger   *zerolog.Logger
	registry prom.Registerer
	gatherer prom.Gatherer
}

// newHandler assembles the request pipeline:
// correlation, access log, panic recovery, gateway header, ip filter, router.
func newHandler(cfg *config.Config, deps serverDeps) (http.Handler, error) {
	adapter := logging.Adapt(deps.logger)

	resolver, err := clientaddr.New(clientaddr.WithHostingMode(cfg.Hosting))
	if err != nil {
		return nil, err
	}

	errOpts := []errhandler.Option{errhandler.WithLogger(adapter)}
	if cfg.ErrorDetail {
		errOpts = append(errOpts, errhandler.WithIncludeErrorDetail(errhandler.AlwaysIncludeErrorDetail))
	}
	errh, err := errhandler.New(errOpts...)
	if err != nil {
		return nil, err
	}

	guard, err := ipfilter.New(
		ipfilter.WithList(cfg.IPList),
		ipfilter.WithResolver(resolver),
		ipfilter.WithLogger(adapter),
		reqguardprom.WithRegisterer(deps.registry),
	)
	if err != nil {
		return nil, err
	}

	router, err := newRouter(cfg, deps, resolver, errh)
	if err != nil {
		return nil, err
	}

	var h http.Handler = guard.Middleware(router)
	if cfg.Gateway.Header != "" {
		h = clientaddr.GatewayHeader(cfg.Gateway.Header, cfg.Gateway.TrustedProxies)(h)
	}
	h = errh.Recover(h)
	h = logging.AccessLog(deps.logger)(h)
	h = correlation.Middleware(h)

	return h, nil
}

func newRouter(cfg *config.Config, deps serverDeps, resolver *clientaddr.Resolver, errh *errhandler.Handler) (*mux.Router, error) {
	router := mux.NewRouter()

	router.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet, http.MethodHead)

	if cfg.MetricsPath != "" {
		router.Handle(cfg.MetricsPath, promhttp.HandlerFor(deps.gatherer, promhttp.HandlerOpts{}))
	}

	backend := backendHandler(cfg, resolver, errh)

	policies := corspolicy.NewCache(corspolicy.FromEntries(cfg.Policies).Lookup)
	for _, route := range cfg.Routes {
		h := backend
		if route.CORSPolicy != "" {
			if policies.Get(route.CORSPolicy).IsDefaultDeny() {
				deps.logger.Warn().
					Str("path", route.Path).
					Str("policy", route.CORSPolicy).
					Msg("route references unknown or empty cors policy; cross-origin access stays denied")
			}

			wrapped, err := corspolicy.Handler(policies.Get, route.CORSPolicy, backend)
			if err != nil {
				return nil, err
			}
			h = wrapped
		}
		router.PathPrefix(route.Path).Handler(h)
	}

	router.NotFoundHandler = backend
	return router, nil
}

// backendHandler proxies to the configured upstream, or answers with a
// description of the request when there is none.
func backendHandler(cfg *config.Config, resolver *clientaddr.Resolver, errh *errhandler.Handler) http.Handler {
	if cfg.Upstream == nil {
		return whoamiHandler(resolver)
	}

	proxy := httputil.NewSingleHostReverseProxy(cfg.Upstream)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		errh.Handle(w, r, &errhandler.StatusError{
			Code:    http.StatusBadGateway,
			Message: "upstream unavailable",
			Err:     err,
		})
	}
	return proxy
}

type whoami struct {
	Address       string   `json:"address"`
	Source        string   `json:"source,omitempty"`
	ForwardedFor  []string `json:"forwarded_for,omitempty"`
	CorrelationID string   `json:"correlation_id"`
	Path          string   `json:"path"`
}

func whoamiHandler(resolver *clientaddr.Resolver) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r, id := correlation.FromRequest(r)
		resolution, _ := resolver.Resolve(r)

		writeJSON(w, http.StatusOK, whoami{
			Address:       resolution.Address,
			Source:        resolution.Source,
			ForwardedFor:  clientaddr.ForwardedFor(r),
			CorrelationID: id.String(),
			Path:          r.URL.Path,
		})
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
