package compare

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ducktaek/kitaekshoppingmall/internal/catalog"
	"github.com/ducktaek/kitaekshoppingmall/internal/session"
	"github.com/ducktaek/kitaekshoppingmall/pkg/kit"
)

type Server struct {
	Sets *Sets
	Log  *zap.Logger
}

type view struct {
	IDs      []string       `json:"ids"`
	Products []catalog.View `json:"products"`
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/", s.get)
	r.Post("/{id}", s.toggle)
	r.Delete("/", s.clear)

	return r
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	scope, _ := session.Scope(r.Context())
	kit.WriteJSON(w, http.StatusOK, buildView(s.Sets.IDs(scope)))
}

func (s *Server) toggle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	// The in-page original trusted its caller; over HTTP the id has to
	// be checked against the catalog.
	if _, ok := catalog.ByID(id); !ok {
		kit.WriteError(w, r, http.StatusNotFound, "unknown product", map[string]any{"id": id})
		return
	}

	scope, _ := session.Scope(r.Context())
	kit.WriteJSON(w, http.StatusOK, buildView(s.Sets.Toggle(scope, id)))
}

func (s *Server) clear(w http.ResponseWriter, r *http.Request) {
	scope, _ := session.Scope(r.Context())
	s.Sets.Clear(scope)
	kit.WriteJSON(w, http.StatusOK, buildView(nil))
}

func buildView(ids []string) view {
	v := view{IDs: ids, Products: make([]catalog.View, 0, len(ids))}
	if v.IDs == nil {
		v.IDs = []string{}
	}
	for _, id := range ids {
		if p, ok := catalog.ByID(id); ok {
			v.Products = append(v.Products, catalog.NewView(p))
		}
	}
	return v
}
