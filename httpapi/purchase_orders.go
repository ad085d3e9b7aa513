package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kovanlabs/pogen"
	"github.com/kovanlabs/pogen/draft"
)

// ItemRequest is one line of an order request. The line total is derived.
type ItemRequest struct {
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// OrderRequest is the body of POST /api/v1/purchase-orders/pdf.
//
// An empty PONumber is assigned from the server's sequence. Dates use the
// 2006-01-02 layout; an empty OrderDate is today and an empty DueDate
// follows the configured due interval. A nil Company or Terms uses the
// configured default, while an empty Terms string omits the terms block.
type OrderRequest struct {
	PONumber     string        `json:"po_number"`
	OrderDate    string        `json:"order_date"`
	DueDate      string        `json:"due_date"`
	Company      *pogen.Party  `json:"company"`
	BillTo       pogen.Party   `json:"bill_to"`
	ShipTo       pogen.Party   `json:"ship_to"`
	SameAsBillTo bool          `json:"same_as_bill_to"`
	Items        []ItemRequest `json:"items"`
	Notes        string        `json:"notes"`
	Terms        *string       `json:"terms"`
}

// generatePDF renders an order request and responds with the document as
// an attachment. Incomplete orders get 422 with one detail per failure.
func (s *Server) generatePDF(w http.ResponseWriter, r *http.Request) {
	var req OrderRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	d, err := s.newDraft(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var details []string
	for i, it := range req.Items {
		if _, err := d.AddItem(it.Description, it.Quantity, it.UnitPrice); err != nil {
			for _, msg := range messages(err) {
				details = append(details, fmt.Sprintf("item %d: %s", i+1, msg))
			}
		}
	}
	if err := d.Validate(); err != nil {
		details = append(details, messages(err)...)
	}
	if len(details) > 0 {
		writeError(w, http.StatusUnprocessableEntity, "purchase order is incomplete", details...)
		return
	}

	var buf bytes.Buffer
	render := func(po string) error {
		d.PONumber = po
		rec, err := d.Record()
		if err != nil {
			return err
		}
		buf.Reset()
		return s.composer.ComposeTo(&buf, rec)
	}

	po := req.PONumber
	if po == "" {
		po, err = s.seq.Issue(render)
	} else {
		err = render(po)
	}
	if err != nil {
		s.log.Error("failed to generate purchase order", "po", po, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to generate purchase order")
		return
	}

	s.log.Info("purchase order generated", "po", po, "items", len(req.Items), "bytes", buf.Len())
	w.Header().Set("Content-Type", pogen.ContentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+pogen.Filename(po))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("X-PO-Number", po)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		// The client went away; the number stays issued.
		s.log.Debug("writing purchase order response", "po", po, "error", err)
	}
}

func (s *Server) newDraft(req OrderRequest) (*draft.Draft, error) {
	ordered := s.now()
	if req.OrderDate != "" {
		t, err := time.Parse(draft.DateLayout, req.OrderDate)
		if err != nil {
			return nil, fmt.Errorf("invalid order_date %q, want YYYY-MM-DD", req.OrderDate)
		}
		ordered = t
	}

	d := draft.New(ordered, s.defaults)
	if req.DueDate != "" {
		t, err := time.Parse(draft.DateLayout, req.DueDate)
		if err != nil {
			return nil, fmt.Errorf("invalid due_date %q, want YYYY-MM-DD", req.DueDate)
		}
		d.DueDate = t
	}
	if req.Company != nil {
		d.Company = *req.Company
	}
	d.BillTo = req.BillTo
	d.ShipTo = req.ShipTo
	d.ShipToSameAsBillTo = req.SameAsBillTo
	d.Notes = req.Notes
	if req.Terms != nil {
		d.Terms = *req.Terms
	}
	return d, nil
}

// messages flattens joined draft errors into one message per failure.
func messages(err error) []string {
	if u, ok := err.(interface{ Unwrap() []error }); ok {
		var out []string
		for _, e := range u.Unwrap() {
			if e == draft.ErrInvalidItem {
				continue
			}
			out = append(out, messages(e)...)
		}
		return out
	}
	return []string{strings.TrimPrefix(err.Error(), "draft: ")}
}
