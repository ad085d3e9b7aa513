package pogen

import (
	"errors"
	"fmt"
)

// Sentinel errors for purchase order generation failures.
var (
	ErrNilRecord  = errors.New("pogen: nil purchase order record")
	ErrRender     = errors.New("pogen: rendering failed")
	ErrLetterhead = errors.New("pogen: letterhead unavailable")
	ErrBarcode    = errors.New("pogen: barcode unavailable")
)

// GenerationError reports a failed document build. No output is produced
// when it is returned.
type GenerationError struct {
	PONumber string // empty when the record itself was missing
	Op       string // step that failed, e.g. "render", "letterhead"
	Err      error  // underlying error
}

func (e *GenerationError) Error() string {
	msg := "unknown error"
	if e.Err != nil {
		msg = e.Err.Error()
	}
	if e.PONumber == "" {
		return fmt.Sprintf("pogen: %s: %s", e.Op, msg)
	}
	return fmt.Sprintf("pogen: PO %s: %s: %s", e.PONumber, e.Op, msg)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// newGenerationError wraps err with kind so both stay visible to errors.Is.
func newGenerationError(po, op string, kind, err error) *GenerationError {
	if err == nil {
		return &GenerationError{PONumber: po, Op: op, Err: kind}
	}
	return &GenerationError{PONumber: po, Op: op, Err: fmt.Errorf("%w: %w", kind, err)}
}
