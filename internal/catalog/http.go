package catalog

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ducktaek/kitaekshoppingmall/pkg/kit"
)

type Server struct {
	Log *zap.Logger
}

// View is a Product plus the display flags the storefront derives on read.
type View struct {
	Product
	AmpleRAM bool `json:"ample_ram"`
}

func NewView(p Product) View {
	return View{Product: p, AmpleRAM: AmpleRAM(p)}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/", s.list)
	r.Get("/{id}", s.get)

	return r
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	q := Query{
		Text: r.URL.Query().Get("q"),
		Sort: ParseSort(r.URL.Query().Get("sort")),
	}

	if raw := r.URL.Query().Get("min_ram"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			kit.WriteError(w, r, http.StatusBadRequest, "min_ram must be a non-negative integer", nil)
			return
		}
		q.MinRAMGB = n
	}

	results := Search(Products(), q)

	views := make([]View, 0, len(results))
	for _, p := range results {
		views = append(views, NewView(p))
	}
	kit.WriteJSON(w, http.StatusOK, views)
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	p, ok := ByID(id)
	if !ok {
		kit.WriteError(w, r, http.StatusNotFound, "not found", map[string]any{"id": id})
		return
	}
	kit.WriteJSON(w, http.StatusOK, NewView(p))
}
