package httpapi_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kovanlabs/pogen"
	"github.com/kovanlabs/pogen/draft"
	"github.com/kovanlabs/pogen/httpapi"
	"github.com/kovanlabs/pogen/inspect"
)

var today = time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

func clock() time.Time { return today }

type fixture struct {
	srv *httptest.Server
	seq *draft.Sequence
}

func newFixture(t *testing.T, opts ...pogen.Option) fixture {
	t.Helper()
	discard := slog.New(slog.NewTextHandler(io.Discard, nil))
	base := []pogen.Option{
		pogen.WithLogoPath(filepath.Join(t.TempDir(), "logo.svg")),
		pogen.WithCreationDate(today),
		pogen.WithLogger(discard),
	}
	c := pogen.New(append(base, opts...)...)
	seq := draft.NewSequence(1, clock)
	def := draft.Defaults{Company: pogen.Party{Name: "Kovan Labs", Address: "Coimbatore", Phone: "8675955999"}}
	s := httpapi.NewServer(c, def, seq, httpapi.WithClock(clock), httpapi.WithLogger(discard))

	srv := httptest.NewServer(s.Routes())
	t.Cleanup(srv.Close)
	return fixture{srv: srv, seq: seq}
}

func (f fixture) post(t *testing.T, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(f.srv.URL+"/api/v1/purchase-orders/pdf", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeEnvelope(t *testing.T, resp *http.Response) httpapi.Response {
	t.Helper()
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content type = %q", ct)
	}
	var env httpapi.Response
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return env
}

func readPDF(t *testing.T, resp *http.Response) *inspect.Document {
	t.Helper()
	doc, err := inspect.Read(resp.Body)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	return doc
}

const widgetOrder = `{
	"bill_to": {"name": "Acme Traders", "address": "12 Market Road", "phone": "044 2345"},
	"same_as_bill_to": true,
	"items": [{"description": "Widget A", "quantity": 2, "unit_price": "100"}]
}`

func TestHealth(t *testing.T) {
	f := newFixture(t)
	resp, err := http.Get(f.srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	env := decodeEnvelope(t, resp)
	if env.Data.(map[string]any)["status"] != "ok" {
		t.Errorf("data = %v", env.Data)
	}
}

func TestGenerateAssignsNumber(t *testing.T) {
	f := newFixture(t)

	resp := f.post(t, widgetOrder)
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); ct != pogen.ContentType {
		t.Errorf("content type = %q", ct)
	}
	if cd := resp.Header.Get("Content-Disposition"); cd != "attachment; filename=PO_PO20250314001.pdf" {
		t.Errorf("content disposition = %q", cd)
	}

	doc := readPDF(t, resp)
	for _, want := range []string{"PO Number: PO20250314001", "Order Date: 2025-03-14", "Purchase Date: 2025-03-16", "Widget A", "Rs.200.00", "Upon accepting this purchase order"} {
		if !doc.Contains(want) {
			t.Errorf("document lacks %q", want)
		}
	}
	// Same-as-bill-to prints the bill-to name in both address columns.
	if n := doc.Count("Acme Traders"); n != 2 {
		t.Errorf("bill-to name drawn %d times, want 2", n)
	}

	if got := f.seq.Peek(); got != "PO20250314002" {
		t.Errorf("sequence at %s after a successful generation", got)
	}
}

func TestNextNumber(t *testing.T) {
	f := newFixture(t)
	resp, err := http.Get(f.srv.URL + "/api/v1/purchase-orders/next-number")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	env := decodeEnvelope(t, resp)
	if env.Data.(map[string]any)["po_number"] != "PO20250314001" {
		t.Errorf("data = %v", env.Data)
	}
}

func TestGenerateWithExplicitFields(t *testing.T) {
	f := newFixture(t)

	resp := f.post(t, `{
		"po_number": "PO-7/A",
		"order_date": "2025-04-01",
		"company": {"name": "Acme Corp"},
		"bill_to": {"name": "Buyer"},
		"ship_to": {"name": "Dock 4"},
		"items": [
			{"description": "Bolts", "quantity": 3, "unit_price": 1.5},
			{"description": "Nuts", "quantity": 10, "unit_price": "0.25"}
		],
		"notes": "Leave at gate",
		"terms": ""
	}`)
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	if cd := resp.Header.Get("Content-Disposition"); cd != "attachment; filename=PO_PO-7_A.pdf" {
		t.Errorf("content disposition = %q", cd)
	}

	doc := readPDF(t, resp)
	for _, want := range []string{"PO Number: PO-7/A", "Purchase Date: 2025-04-03", "Dock 4", "Leave at gate", "Rs.4.50", "Rs.2.50", "Rs.7.00"} {
		if !doc.Contains(want) {
			t.Errorf("document lacks %q", want)
		}
	}
	if doc.Contains("Upon accepting") {
		t.Error("empty terms still printed the default terms")
	}
	if got := f.seq.Peek(); got != "PO20250314001" {
		t.Errorf("explicit PO number advanced the sequence to %s", got)
	}
}

func TestGenerateRejectsIncompleteOrder(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name string
		body string
		want []string
	}{
		{
			name: "empty order",
			body: `{}`,
			want: []string{
				"please add at least one item to generate the purchase order",
				"please fill in the bill-to information",
			},
		},
		{
			name: "bad item",
			body: `{"bill_to": {"name": "Acme"}, "items": [
				{"description": "ok", "quantity": 1, "unit_price": "1"},
				{"description": " ", "quantity": 0, "unit_price": "1"}
			]}`,
			want: []string{"item 2: description is empty", "item 2: quantity 0 is not positive"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := f.post(t, tt.body)
			if resp.StatusCode != http.StatusUnprocessableEntity {
				t.Fatalf("status = %d", resp.StatusCode)
			}
			env := decodeEnvelope(t, resp)
			if strings.Join(env.Details, "|") != strings.Join(tt.want, "|") {
				t.Errorf("details = %q, want %q", env.Details, tt.want)
			}
		})
	}
	if got := f.seq.Peek(); got != "PO20250314001" {
		t.Errorf("rejected orders advanced the sequence to %s", got)
	}
}

func TestGenerateBadRequest(t *testing.T) {
	f := newFixture(t)
	for _, body := range []string{
		`{"items": [`,
		`{"bill_to": {"name": "Acme"}, "order_date": "14/03/2025"}`,
		`{"bill_to": {"name": "Acme"}, "due_date": "tomorrow"}`,
	} {
		resp := f.post(t, body)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: status = %d", body, resp.StatusCode)
			continue
		}
		if env := decodeEnvelope(t, resp); env.Error == "" {
			t.Errorf("%s: no error message", body)
		}
	}
}

type brokenWriter struct {
	*httptest.ResponseRecorder
}

func (brokenWriter) Write([]byte) (int, error) {
	return 0, errors.New("connection reset by peer")
}

func TestGenerateLogsFailedWrite(t *testing.T) {
	var logs bytes.Buffer
	log := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	c := pogen.New(
		pogen.WithLogoPath(filepath.Join(t.TempDir(), "logo.svg")),
		pogen.WithCreationDate(today),
		pogen.WithLogger(log),
	)
	def := draft.Defaults{Company: pogen.Party{Name: "Kovan Labs"}}
	s := httpapi.NewServer(c, def, nil, httpapi.WithClock(clock), httpapi.WithLogger(log))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/purchase-orders/pdf", strings.NewReader(widgetOrder))
	w := brokenWriter{httptest.NewRecorder()}
	s.Routes().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	out := logs.String()
	if !strings.Contains(out, "writing purchase order response") || !strings.Contains(out, "connection reset by peer") {
		t.Errorf("write failure not logged:\n%s", out)
	}
	if !strings.Contains(out, "po=PO20250314001") {
		t.Errorf("log lacks the PO number:\n%s", out)
	}
}

func TestGenerateFailureKeepsNumber(t *testing.T) {
	f := newFixture(t, pogen.WithLetterhead(filepath.Join(t.TempDir(), "missing.pdf")))

	resp := f.post(t, widgetOrder)
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if env := decodeEnvelope(t, resp); env.Error == "" {
		t.Error("no error message")
	}
	if got := f.seq.Peek(); got != "PO20250314001" {
		t.Errorf("failed generation advanced the sequence to %s", got)
	}
}
