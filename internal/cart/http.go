package cart

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ducktaek/kitaekshoppingmall/internal/catalog"
	"github.com/ducktaek/kitaekshoppingmall/internal/session"
	"github.com/ducktaek/kitaekshoppingmall/pkg/kit"
)

type Server struct {
	Store *Store
	Log   *zap.Logger
}

const maxBodyBytes = 1 << 16

type addReq struct {
	ProductID string `json:"product_id"`
	Qty       *int   `json:"qty"`
}

type setReq struct {
	Qty int `json:"qty"`
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/", s.get)
	r.Get("/events", s.events)
	r.Post("/items", s.add)
	r.Put("/items/{id}", s.setQuantity)
	r.Delete("/items/{id}", s.remove)

	return r
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) {
	items, err := s.load(w, r)
	if err != nil {
		return
	}
	kit.WriteJSON(w, http.StatusOK, Summarize(items, catalog.Products()))
}

func (s *Server) add(w http.ResponseWriter, r *http.Request) {
	var req addReq
	if err := decodeBody(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", nil)
		return
	}

	if _, ok := catalog.ByID(req.ProductID); !ok {
		kit.WriteError(w, r, http.StatusNotFound, "unknown product", map[string]any{"id": req.ProductID})
		return
	}

	qty := 1
	if req.Qty != nil {
		qty = *req.Qty
	}

	if err := s.Store.Add(r.Context(), storageKey(r), req.ProductID, qty); err != nil {
		if err == ErrBadQuantity {
			kit.WriteError(w, r, http.StatusBadRequest, "qty must be a positive integer", nil)
			return
		}
		s.storageError(w, r, "add to cart failed", err)
		return
	}

	s.get(w, r)
}

func (s *Server) setQuantity(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req setReq
	if err := decodeBody(w, r, &req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", nil)
		return
	}

	if _, ok := catalog.ByID(id); !ok {
		kit.WriteError(w, r, http.StatusNotFound, "unknown product", map[string]any{"id": id})
		return
	}

	if err := s.Store.SetQuantity(r.Context(), storageKey(r), id, req.Qty); err != nil {
		s.storageError(w, r, "set cart quantity failed", err)
		return
	}

	s.get(w, r)
}

func (s *Server) remove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.Store.Remove(r.Context(), storageKey(r), id); err != nil {
		s.storageError(w, r, "remove from cart failed", err)
		return
	}

	s.get(w, r)
}

// Checkout is a placeholder: it acknowledges the current cart and does
// nothing else. Nothing is charged and the cart is left untouched.
func (s *Server) Checkout(w http.ResponseWriter, r *http.Request) {
	items, err := s.load(w, r)
	if err != nil {
		return
	}

	sum := Summarize(items, catalog.Products())
	kit.WriteJSON(w, http.StatusAccepted, map[string]any{
		"status":      "accepted",
		"total_count": sum.TotalCount,
		"total_price": sum.TotalPrice,
	})
}

// events streams refresh signals for this browser's cart as
// server-sent events, so a badge and a drawer stay consistent without
// polling or referencing each other.
func (s *Server) events(w http.ResponseWriter, r *http.Request) {
	fl, ok := w.(http.Flusher)
	if !ok {
		kit.WriteError(w, r, http.StatusInternalServerError, "streaming unsupported", nil)
		return
	}

	key := storageKey(r)

	ch, cancel := s.Store.Subscribe()
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	fmt.Fprint(w, ": connected\n\n")
	fl.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			if ev.Key != key {
				continue
			}
			raw, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: cart\ndata: %s\n\n", raw)
			fl.Flush()
		}
	}
}

func (s *Server) load(w http.ResponseWriter, r *http.Request) (Items, error) {
	items, err := s.Store.Get(r.Context(), storageKey(r))
	if err != nil {
		s.storageError(w, r, "load cart failed", err)
		return nil, err
	}
	return items, nil
}

func (s *Server) storageError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	if s.Log != nil {
		s.Log.Error(msg, zap.Error(err))
	}
	kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
}

func storageKey(r *http.Request) string {
	scope, _ := session.Scope(r.Context())
	return StorageKey(scope)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer func() { _ = r.Body.Close() }()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return fmt.Errorf("trailing data")
	}
	return nil
}
