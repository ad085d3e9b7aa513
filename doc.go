// Package pogen renders purchase orders to PDF.
//
// A Composer turns one PurchaseOrderRecord into a complete A4 document made
// of a fixed sequence of blocks: a header with the logo and the PO
// metadata, the issuing company, the bill-to and ship-to parties, the items
// table, the totals and the optional notes and terms. The Composer holds no
// per-document state and may be shared between goroutines.
//
//	c := pogen.New(pogen.WithLogoPath("assets/logo.svg"))
//	r, err := c.Compose(&record)
//	if err != nil {
//		return err
//	}
//	http.ServeContent(w, req, pogen.Filename(record.PONumber), time.Now(), r)
//
// A missing or unusable logo never fails generation; the brand name is
// drawn as text instead.
package pogen
