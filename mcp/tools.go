package mcp

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kovanlabs/pogen"
	"github.com/kovanlabs/pogen/inspect"
)

// RegisterDefaultTools adds the purchase order tools, rendering with c.
func RegisterDefaultTools(s *Server, c *pogen.Composer) {
	s.AddTool(renderPurchaseOrderTool(c))
	s.AddTool(extractPDFTextTool())
}

func renderPurchaseOrderTool(c *pogen.Composer) Tool {
	party := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"name":    map[string]any{"type": "string"},
			"address": map[string]any{"type": "string"},
			"phone":   map[string]any{"type": "string"},
		},
	}
	return Tool{
		Name: "render_purchase_order",
		Description: "Render a purchase order record as a PDF document. Amounts are printed as given and never " +
			"recomputed. Returns the PDF as base64, or writes it to output_path.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"record": map[string]any{
					"type":        "object",
					"description": "Purchase order record",
					"properties": map[string]any{
						"company":    party,
						"po_number":  map[string]any{"type": "string"},
						"order_date": map[string]any{"type": "string"},
						"due_date":   map[string]any{"type": "string"},
						"bill_to":    party,
						"ship_to":    party,
						"items": map[string]any{
							"type": "array",
							"items": map[string]any{
								"type": "object",
								"properties": map[string]any{
									"description": map[string]any{"type": "string"},
									"quantity":    map[string]any{"type": "integer"},
									"unit_price":  map[string]any{"type": "string"},
									"line_total":  map[string]any{"type": "string"},
								},
							},
						},
						"subtotal": map[string]any{"type": "string"},
						"total":    map[string]any{"type": "string"},
						"notes":    map[string]any{"type": "string"},
						"terms":    map[string]any{"type": "string"},
					},
				},
				"output_path": map[string]any{
					"type":        "string",
					"description": "Optional file or directory to save the PDF. A directory gets PO_<po_number>.pdf.",
				},
			},
			"required": []string{"record"},
		},
		Handler: func(args map[string]any) (ToolResult, error) {
			return handleRenderPurchaseOrder(c, args)
		},
	}
}

func handleRenderPurchaseOrder(c *pogen.Composer, args map[string]any) (ToolResult, error) {
	raw, ok := args["record"]
	if !ok {
		return ToolResult{}, fmt.Errorf("missing 'record' argument")
	}
	jsonBytes, err := json.Marshal(raw)
	if err != nil {
		return ToolResult{}, fmt.Errorf("encoding record: %w", err)
	}
	var rec pogen.PurchaseOrderRecord
	if err := json.Unmarshal(jsonBytes, &rec); err != nil {
		return ToolResult{}, fmt.Errorf("decoding record: %w", err)
	}

	var buf bytes.Buffer
	if err := c.ComposeTo(&buf, &rec); err != nil {
		return ToolResult{}, err
	}

	if out, ok := args["output_path"].(string); ok && out != "" {
		if fi, err := os.Stat(out); err == nil && fi.IsDir() {
			out = filepath.Join(out, pogen.Filename(rec.PONumber))
		}
		if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
			return ToolResult{}, fmt.Errorf("writing file: %w", err)
		}
		return ToolResult{
			Content: []ContentBlock{{
				Type: "text",
				Text: fmt.Sprintf("Purchase order %s written to %s (%d bytes)", rec.PONumber, out, buf.Len()),
			}},
		}, nil
	}

	return ToolResult{
		Content: []ContentBlock{
			{
				Type: "text",
				Text: fmt.Sprintf("Purchase order %s rendered as %s (%d bytes)", rec.PONumber, pogen.Filename(rec.PONumber), buf.Len()),
			},
			{
				Type:     "resource",
				MIMEType: pogen.ContentType,
				Data:     base64.StdEncoding.EncodeToString(buf.Bytes()),
			},
		},
	}, nil
}

func extractPDFTextTool() Tool {
	return Tool{
		Name:        "extract_pdf_text",
		Description: "Extract the text drawn on each page of a generated purchase order, in drawing order.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"path": map[string]any{
					"type":        "string",
					"description": "Path to the PDF file",
				},
				"data": map[string]any{
					"type":        "string",
					"description": "Base64 PDF content, used when path is omitted",
				},
			},
		},
		Handler: handleExtractPDFText,
	}
}

func handleExtractPDFText(args map[string]any) (ToolResult, error) {
	var (
		data []byte
		err  error
	)
	switch {
	case args["path"] != nil && args["path"] != "":
		path, ok := args["path"].(string)
		if !ok {
			return ToolResult{}, fmt.Errorf("'path' must be a string")
		}
		if data, err = os.ReadFile(path); err != nil {
			return ToolResult{}, fmt.Errorf("reading PDF: %w", err)
		}
	case args["data"] != nil:
		enc, ok := args["data"].(string)
		if !ok {
			return ToolResult{}, fmt.Errorf("'data' must be a string")
		}
		if data, err = base64.StdEncoding.DecodeString(enc); err != nil {
			return ToolResult{}, fmt.Errorf("decoding data: %w", err)
		}
	default:
		return ToolResult{}, fmt.Errorf("missing 'path' or 'data' argument")
	}

	doc, err := inspect.Parse(data)
	if err != nil {
		return ToolResult{}, err
	}

	var sb strings.Builder
	for p := 1; p <= doc.Pages; p++ {
		fmt.Fprintf(&sb, "--- Page %d ---\n", p)
		for _, r := range doc.Page(p) {
			sb.WriteString(r.Text)
			sb.WriteByte('\n')
		}
	}
	return ToolResult{
		Content: []ContentBlock{{Type: "text", Text: sb.String()}},
	}, nil
}
