package server

import (
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/diarium/diarium/internal/codec"
	"github.com/diarium/diarium/internal/store"
)

type Server struct {
	store  *store.Store
	codec  *codec.Codec
	router chi.Router
	addr   string
	log    zerolog.Logger
}

func New(st *store.Store, addr string, log zerolog.Logger) *Server {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	s := &Server{
		store:  st,
		codec:  codec.New(st, log),
		router: r,
		addr:   addr,
		log:    log.With().Str("component", "server").Logger(),
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Chart plans
		r.Post("/plans", s.createPlan)
		r.Get("/plans", s.listPlans)
		r.Get("/plans/{id}", s.getPlan)
		r.Post("/plans/{id}/clone", s.clonePlan)
		r.Get("/plans/{id}/accounts", s.listPlanAccounts)

		// Taxonomy
		r.Post("/types", s.createType)
		r.Get("/types", s.listTypes)
		r.Get("/types/{id}", s.getType)
		r.Patch("/types/{id}", s.updateType)
		r.Delete("/types/{id}", s.deleteType)

		r.Post("/categories", s.createCategory)
		r.Get("/categories", s.listCategories)
		r.Get("/categories/{id}", s.getCategory)
		r.Patch("/categories/{id}", s.updateCategory)
		r.Delete("/categories/{id}", s.deleteCategory)

		r.Post("/groups", s.createGroup)
		r.Get("/groups", s.listGroups)
		r.Get("/groups/{id}", s.getGroup)
		r.Patch("/groups/{id}", s.updateGroup)
		r.Delete("/groups/{id}", s.deleteGroup)

		r.Post("/accounts", s.createAccount)
		r.Get("/accounts", s.listAccounts)
		r.Get("/accounts/{id}", s.getAccount)
		r.Patch("/accounts/{id}", s.updateAccount)
		r.Delete("/accounts/{id}", s.deleteAccount)

		// Journal books and entries
		r.Post("/books", s.createBook)
		r.Get("/books", s.listBooks)
		r.Get("/books/{id}", s.getBook)
		r.Get("/books/{id}/entries", s.listEntries)
		r.Post("/books/{id}/entries", s.createEntry)
		r.Get("/entries/{id}", s.getEntry)
		r.Put("/entries/{id}", s.updateEntry)
		r.Delete("/entries/{id}", s.deleteEntry)

		// Spreadsheet codec
		r.Get("/books/{id}/export", s.exportBook)
		r.Post("/books/import", s.importBook)
	})

	return s
}

func (s *Server) ListenAndServe() error {
	s.log.Info().Str("addr", s.addr).Msg("listening")
	return http.ListenAndServe(s.addr, s.router)
}

func (s *Server) Serve(ln net.Listener) error {
	s.log.Info().Stringer("addr", ln.Addr()).Msg("listening")
	return http.Serve(ln, s.router)
}

func (s *Server) Handler() http.Handler {
	return s.router
}
