package server

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nekruzvatanshoev/carprice/pkg/carprice/config"
	"github.com/nekruzvatanshoev/carprice/pkg/carprice/logger"
	"github.com/nekruzvatanshoev/carprice/pkg/carprice/metrics"
	"github.com/nekruzvatanshoev/carprice/pkg/carprice/service"
)

//go:embed templates/index.html static/app.js
var assets embed.FS

// NewHTTPServer returns a new HTTP server
func NewHTTPServer(cfg config.ServerConfig, app *service.App, exposeMetrics bool) *http.Server {
	return &http.Server{
		Addr:         cfg.Address,
		Handler:      NewRouter(app, exposeMetrics),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
}

// NewRouter wires every route of the service onto a mux router.
func NewRouter(app *service.App, exposeMetrics bool) *mux.Router {
	server := newHTTPServer(app)

	r := mux.NewRouter()
	r.HandleFunc("/", server.Home).Methods(http.MethodGet)
	r.HandleFunc("/predict", server.Predict).Methods(http.MethodPost)
	r.HandleFunc("/test_data", server.TestData).Methods(http.MethodGet)
	r.HandleFunc("/model_info", server.ModelInfo).Methods(http.MethodGet)
	r.HandleFunc("/get_types/{make}", server.GetTypes).Methods(http.MethodGet)
	r.HandleFunc("/healthz", server.Health).Methods(http.MethodGet)

	static, _ := fs.Sub(assets, "static")
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	if exposeMetrics && app.Metrics != nil {
		r.Handle("/metrics", promhttp.HandlerFor(app.Metrics.Registry, promhttp.HandlerOpts{}))
	}

	r.Use(server.requestID, server.observe, server.recoverPanic)
	return r
}

type httpServer struct {
	app     *service.App
	log     logger.Logger
	metrics *metrics.Metrics
	home    *template.Template
}

func newHTTPServer(app *service.App) *httpServer {
	return &httpServer{
		app:     app,
		log:     app.Log,
		metrics: app.Metrics,
		home: template.Must(template.New("index.html").Funcs(template.FuncMap{
			"label": func(name string) string { return strings.ReplaceAll(name, "_", " ") },
		}).ParseFS(assets, "templates/index.html")),
	}
}
