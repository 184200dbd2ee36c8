package storefront_test

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/ducktaek/kitaekshoppingmall/internal/cart"
	"github.com/ducktaek/kitaekshoppingmall/internal/session"
	"github.com/ducktaek/kitaekshoppingmall/internal/storefront"
)

func newTS(t *testing.T) *httptest.Server {
	t.Helper()

	h := storefront.NewHandler(storefront.Deps{
		Log:      zap.NewNop(),
		Service:  "storefront",
		Store:    cart.NewStore(cart.NewMemStorage(), nil),
		Sessions: session.NewTokenMaker("test-secret"),
	})

	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return ts
}

func newClient(t *testing.T) *http.Client {
	t.Helper()

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}
	return &http.Client{Jar: jar}
}

func doJSON(t *testing.T, c *http.Client, method, url string, body any, wantStatus int, out any) {
	t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, url, rd)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if resp.StatusCode != wantStatus {
		t.Fatalf("%s %s: status %d, want %d: %s", method, url, resp.StatusCode, wantStatus, raw)
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			t.Fatalf("unmarshal %s: %v", raw, err)
		}
	}
}

type productResp struct {
	ID       string `json:"id"`
	Price    int64  `json:"price"`
	RAM      string `json:"ram"`
	AmpleRAM bool   `json:"ample_ram"`
}

type cartResp struct {
	Items []struct {
		Product productResp `json:"product"`
		Qty     int         `json:"qty"`
	} `json:"items"`
	TotalCount int   `json:"total_count"`
	TotalPrice int64 `json:"total_price"`
}

type compareResp struct {
	IDs []string `json:"ids"`
}

func TestProducts_ListAndFilter(t *testing.T) {
	ts := newTS(t)
	c := newClient(t)

	var all []productResp
	doJSON(t, c, http.MethodGet, ts.URL+"/products", nil, 200, &all)
	if len(all) != 6 {
		t.Fatalf("got %d products, want 6", len(all))
	}
	if !all[0].AmpleRAM {
		t.Fatalf("64GB flagship should carry the ample_ram flag")
	}

	var filtered []productResp
	doJSON(t, c, http.MethodGet, ts.URL+"/products?min_ram=32", nil, 200, &filtered)
	if len(filtered) != 3 {
		t.Fatalf("min_ram=32: got %d, want 3", len(filtered))
	}

	var searched []productResp
	doJSON(t, c, http.MethodGet, ts.URL+"/products?q=i9", nil, 200, &searched)
	if len(searched) != 1 || searched[0].ID != "dk-01" {
		t.Fatalf("q=i9: got %+v", searched)
	}

	doJSON(t, c, http.MethodGet, ts.URL+"/products?min_ram=abc", nil, 400, nil)
	doJSON(t, c, http.MethodGet, ts.URL+"/products/dk-01", nil, 200, nil)
	doJSON(t, c, http.MethodGet, ts.URL+"/products/nope", nil, 404, nil)
}

func TestCart_Flow(t *testing.T) {
	ts := newTS(t)
	c := newClient(t)

	var got cartResp
	doJSON(t, c, http.MethodGet, ts.URL+"/cart", nil, 200, &got)
	if got.TotalCount != 0 {
		t.Fatalf("fresh cart not empty: %+v", got)
	}

	doJSON(t, c, http.MethodPost, ts.URL+"/cart/items", map[string]any{"product_id": "dk-01"}, 200, &got)
	doJSON(t, c, http.MethodPost, ts.URL+"/cart/items", map[string]any{"product_id": "dk-01"}, 200, &got)
	if got.TotalCount != 2 || len(got.Items) != 1 || got.Items[0].Qty != 2 {
		t.Fatalf("after two adds: %+v", got)
	}

	doJSON(t, c, http.MethodPost, ts.URL+"/cart/items", map[string]any{"product_id": "dk-02", "qty": 3}, 200, &got)
	if got.TotalCount != 5 {
		t.Fatalf("total count = %d, want 5", got.TotalCount)
	}
	if want := 2*got.Items[0].Product.Price + 3*got.Items[1].Product.Price; got.TotalPrice != want {
		t.Fatalf("total price = %d, want %d", got.TotalPrice, want)
	}

	doJSON(t, c, http.MethodPut, ts.URL+"/cart/items/dk-02", map[string]any{"qty": 1}, 200, &got)
	if got.TotalCount != 3 {
		t.Fatalf("after set: %+v", got)
	}

	// Setting zero removes the line.
	doJSON(t, c, http.MethodPut, ts.URL+"/cart/items/dk-01", map[string]any{"qty": 0}, 200, &got)
	if len(got.Items) != 1 || got.Items[0].Product.ID != "dk-02" {
		t.Fatalf("after zero set: %+v", got)
	}

	doJSON(t, c, http.MethodDelete, ts.URL+"/cart/items/dk-02", nil, 200, &got)
	if got.TotalCount != 0 {
		t.Fatalf("after remove: %+v", got)
	}

	doJSON(t, c, http.MethodPost, ts.URL+"/cart/items", map[string]any{"product_id": "nope"}, 404, nil)
	doJSON(t, c, http.MethodPost, ts.URL+"/cart/items", map[string]any{"product_id": "dk-01", "qty": -1}, 400, nil)
}

func TestCart_ScopedPerBrowser(t *testing.T) {
	ts := newTS(t)

	alice := newClient(t)
	bob := newClient(t)

	var got cartResp
	doJSON(t, alice, http.MethodPost, ts.URL+"/cart/items", map[string]any{"product_id": "dk-01"}, 200, &got)

	doJSON(t, bob, http.MethodGet, ts.URL+"/cart", nil, 200, &got)
	if got.TotalCount != 0 {
		t.Fatalf("bob sees alice's cart: %+v", got)
	}
}

func TestCompare_Flow(t *testing.T) {
	ts := newTS(t)
	c := newClient(t)

	var got compareResp
	for _, id := range []string{"dk-01", "dk-02", "dk-03", "dk-04"} {
		doJSON(t, c, http.MethodPost, ts.URL+"/compare/"+id, nil, 200, &got)
	}
	// Fourth toggle lands on a full tray and is ignored.
	if len(got.IDs) != 3 {
		t.Fatalf("ids = %v, want 3", got.IDs)
	}

	doJSON(t, c, http.MethodPost, ts.URL+"/compare/dk-02", nil, 200, &got)
	if len(got.IDs) != 2 {
		t.Fatalf("ids = %v after toggle off", got.IDs)
	}

	doJSON(t, c, http.MethodDelete, ts.URL+"/compare", nil, 200, &got)
	if len(got.IDs) != 0 {
		t.Fatalf("ids = %v after clear", got.IDs)
	}

	doJSON(t, c, http.MethodPost, ts.URL+"/compare/nope", nil, 404, nil)
}

func TestCheckout_Placeholder(t *testing.T) {
	ts := newTS(t)
	c := newClient(t)

	var got cartResp
	doJSON(t, c, http.MethodPost, ts.URL+"/cart/items", map[string]any{"product_id": "dk-03", "qty": 2}, 200, &got)

	var ack struct {
		Status     string `json:"status"`
		TotalCount int    `json:"total_count"`
	}
	doJSON(t, c, http.MethodPost, ts.URL+"/checkout", nil, 202, &ack)
	if ack.Status != "accepted" || ack.TotalCount != 2 {
		t.Fatalf("checkout ack = %+v", ack)
	}

	// Checkout commits nothing: the cart is untouched.
	doJSON(t, c, http.MethodGet, ts.URL+"/cart", nil, 200, &got)
	if got.TotalCount != 2 {
		t.Fatalf("checkout mutated the cart: %+v", got)
	}
}

func TestCartEvents_StreamsRefreshSignals(t *testing.T) {
	ts := newTS(t)
	c := newClient(t)

	// Establish the scope cookie before subscribing.
	doJSON(t, c, http.MethodGet, ts.URL+"/cart", nil, 200, nil)

	resp, err := c.Get(ts.URL + "/cart/events")
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content type = %q", ct)
	}

	timer := time.AfterFunc(5*time.Second, func() { resp.Body.Close() })
	defer timer.Stop()

	r := bufio.NewReader(resp.Body)

	// The stream opens with a comment line; after that the
	// subscription is live.
	if line, err := r.ReadString('\n'); err != nil || !strings.HasPrefix(line, ":") {
		t.Fatalf("preamble: %q, %v", line, err)
	}

	doJSON(t, c, http.MethodPost, ts.URL+"/cart/items", map[string]any{"product_id": "dk-01"}, 200, nil)

	for {
		line, err := r.ReadString('\n')
		if err != nil {
			t.Fatalf("stream ended without a refresh signal: %v", err)
		}
		if !strings.HasPrefix(line, "data: ") {
			continue
		}

		var ev struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal([]byte(strings.TrimPrefix(strings.TrimSpace(line), "data: ")), &ev); err != nil {
			t.Fatalf("bad event payload %q: %v", line, err)
		}
		if ev.Type != "mutated" {
			t.Fatalf("event type = %q", ev.Type)
		}
		return
	}
}

func TestHealthAndReady(t *testing.T) {
	ts := newTS(t)
	c := newClient(t)

	doJSON(t, c, http.MethodGet, ts.URL+"/healthz", nil, 200, nil)
	doJSON(t, c, http.MethodGet, ts.URL+"/readyz", nil, 200, nil)
}

func TestMetrics_HiddenWithoutToken(t *testing.T) {
	ts := newTS(t)
	c := newClient(t)

	resp, err := c.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("metrics exposed without registry: %d", resp.StatusCode)
	}
}
