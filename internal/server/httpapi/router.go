package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/datavault/internal/logging"
	"github.com/gorilla/mux"
)

// Deps are the collaborators the router dispatches to.
type Deps struct {
	Auth       AuthService
	Categories CategoryService
	Records    RecordService
	Transfer   TransferService
	DB         Pinger
	Metrics    *Metrics
	Logger     logging.Logger
}

// NewRouter wires every route. Everything under /api except register, login
// and refresh requires a bearer access token.
func NewRouter(d Deps) *mux.Router {
	logger := d.Logger.With("module", "http")
	if d.Metrics == nil {
		d.Metrics = NewMetrics()
	}

	root := mux.NewRouter()
	root.Use(recoverer(logger), requestLogger(logger), d.Metrics.Middleware)

	health := NewHealthHandler(d.DB, logger)
	root.HandleFunc("/healthz", health.Check).Methods(http.MethodGet)
	root.Handle("/metrics", d.Metrics.Handler()).Methods(http.MethodGet)

	auth := NewAuthHandler(d.Auth, logger)
	api := root.PathPrefix("/api").Subrouter()
	api.HandleFunc("/auth/register", auth.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", auth.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/refresh", auth.Refresh).Methods(http.MethodPost)

	protected := api.NewRoute().Subrouter()
	protected.Use(authenticator(d.Auth))

	protected.HandleFunc("/auth/logout", auth.Logout).Methods(http.MethodPost)
	protected.HandleFunc("/auth/user", auth.User).Methods(http.MethodGet)

	cats := NewCategoryHandler(d.Categories, logger)
	protected.HandleFunc("/data-categories", cats.List).Methods(http.MethodGet)
	protected.HandleFunc("/data-categories", cats.Create).Methods(http.MethodPost)
	protected.HandleFunc("/data-categories/{id}", cats.Get).Methods(http.MethodGet)
	protected.HandleFunc("/data-categories/{id}", cats.Update).Methods(http.MethodPut, http.MethodPatch)
	protected.HandleFunc("/data-categories/{id}", cats.Delete).Methods(http.MethodDelete)

	recs := NewRecordHandler(d.Records, logger)
	xfer := NewTransferHandler(d.Transfer, logger)
	protected.HandleFunc("/personal-data", recs.List).Methods(http.MethodGet)
	protected.HandleFunc("/personal-data", recs.Create).Methods(http.MethodPost)
	protected.HandleFunc("/personal-data", recs.Reset).Methods(http.MethodDelete)
	protected.HandleFunc("/personal-data/search/{query}", recs.Search).Methods(http.MethodGet)
	protected.HandleFunc("/personal-data/category/{category}", recs.ByCategory).Methods(http.MethodGet)
	protected.HandleFunc("/personal-data/export", xfer.Export).Methods(http.MethodGet)
	protected.HandleFunc("/personal-data/export/snapshot", xfer.Snapshot).Methods(http.MethodPost)
	protected.HandleFunc("/personal-data/import", xfer.Import).Methods(http.MethodPost)
	protected.HandleFunc("/personal-data/{id}", recs.Get).Methods(http.MethodGet)
	protected.HandleFunc("/personal-data/{id}", recs.Update).Methods(http.MethodPut, http.MethodPatch)
	protected.HandleFunc("/personal-data/{id}", recs.Delete).Methods(http.MethodDelete)

	return root
}
