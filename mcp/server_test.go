package mcp

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kovanlabs/pogen"
	"github.com/kovanlabs/pogen/inspect"
)

func sendRequest(t *testing.T, s *Server, method string, id int, params any) jsonrpcResponse {
	t.Helper()

	req := map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"method":  method,
	}
	if params != nil {
		req["params"] = params
	}

	reqBytes, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshaling request: %v", err)
	}
	reqBytes = append(reqBytes, '\n')

	var output bytes.Buffer
	s.input = bytes.NewReader(reqBytes)
	s.output = &output

	if err := s.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}

	var resp jsonrpcResponse
	if err := json.Unmarshal(output.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshaling response %q: %v", output.String(), err)
	}
	return resp
}

func testServer(t *testing.T) *Server {
	t.Helper()
	c := pogen.New(
		pogen.WithLogoPath(filepath.Join(t.TempDir(), "logo.svg")),
		pogen.WithCreationDate(time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)),
	)
	s := NewServerWithIO(nil, nil, nil)
	RegisterDefaultTools(s, c)
	RegisterDefaultResources(s, nil)
	return s
}

func testRecord() pogen.PurchaseOrderRecord {
	return pogen.PurchaseOrderRecord{
		Company:   pogen.Party{Name: "Kovan Labs", Address: "Coimbatore", Phone: "8675955999"},
		PONumber:  "PO20250314007",
		OrderDate: "2025-03-14",
		DueDate:   "2025-03-16",
		BillTo:    pogen.Party{Name: "Acme Traders"},
		ShipTo:    pogen.Party{Name: "Acme Warehouse"},
		Items: []pogen.LineItem{
			{Description: "Widget A", Quantity: 2, UnitPrice: decimal.NewFromInt(100), LineTotal: decimal.NewFromInt(200)},
		},
		Subtotal: decimal.NewFromInt(200),
		Total:    decimal.NewFromInt(200),
	}
}

// toolContent returns the content blocks of a tools/call result.
func toolContent(t *testing.T, resp jsonrpcResponse) (ToolResult, string) {
	t.Helper()
	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error.Message)
	}
	data, _ := json.Marshal(resp.Result)
	var res ToolResult
	if err := json.Unmarshal(data, &res); err != nil {
		t.Fatalf("decoding tool result %s: %v", data, err)
	}
	return res, string(data)
}

func TestServerInitialize(t *testing.T) {
	s := testServer(t)

	resp := sendRequest(t, s, "initialize", 1, map[string]any{
		"protocolVersion": ProtocolVersion,
		"capabilities":    map[string]any{},
		"clientInfo":      map[string]any{"name": "test", "version": "1.0"},
	})
	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error.Message)
	}

	result, ok := resp.Result.(map[string]any)
	if !ok {
		t.Fatal("result is not a map")
	}
	if result["protocolVersion"] != ProtocolVersion {
		t.Fatalf("unexpected protocol version: %v", result["protocolVersion"])
	}
	serverInfo, ok := result["serverInfo"].(map[string]any)
	if !ok {
		t.Fatal("missing serverInfo")
	}
	if serverInfo["name"] != "pogen-mcp" {
		t.Fatalf("unexpected server name: %v", serverInfo["name"])
	}
}

func TestServerToolsListSorted(t *testing.T) {
	s := testServer(t)

	resp := sendRequest(t, s, "tools/list", 2, nil)
	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error.Message)
	}

	tools, ok := resp.Result.(map[string]any)["tools"].([]any)
	if !ok {
		t.Fatal("tools is not an array")
	}
	var names []string
	for _, tool := range tools {
		names = append(names, tool.(map[string]any)["name"].(string))
	}
	want := []string{"extract_pdf_text", "render_purchase_order"}
	if strings.Join(names, ",") != strings.Join(want, ",") {
		t.Fatalf("tools = %v, want %v", names, want)
	}
}

func TestServerResources(t *testing.T) {
	s := testServer(t)

	resp := sendRequest(t, s, "resources/list", 3, nil)
	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error.Message)
	}
	resources, ok := resp.Result.(map[string]any)["resources"].([]any)
	if !ok || len(resources) != 2 {
		t.Fatalf("resources = %v", resp.Result)
	}
	if uri := resources[0].(map[string]any)["uri"]; uri != SampleRecordURI {
		t.Errorf("first resource = %v", uri)
	}

	resp = sendRequest(t, s, "resources/read", 4, map[string]any{"uri": StylesURI})
	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error.Message)
	}
	data, _ := json.Marshal(resp.Result)
	for _, name := range []string{"ItemDescription", "TotalsCell", "Helvetica"} {
		if !strings.Contains(string(data), name) {
			t.Errorf("styles resource lacks %q: %s", name, data)
		}
	}

	resp = sendRequest(t, s, "resources/read", 5, map[string]any{"uri": "pogen://nothing"})
	if resp.Error == nil {
		t.Error("expected error for unknown resource")
	}
}

func TestSampleRecordRenders(t *testing.T) {
	s := testServer(t)

	resp := sendRequest(t, s, "resources/read", 1, map[string]any{"uri": SampleRecordURI})
	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error.Message)
	}
	var read struct {
		Contents []ResourceContent `json:"contents"`
	}
	data, _ := json.Marshal(resp.Result)
	if err := json.Unmarshal(data, &read); err != nil || len(read.Contents) != 1 {
		t.Fatalf("contents = %s (%v)", data, err)
	}
	var record map[string]any
	if err := json.Unmarshal([]byte(read.Contents[0].Text), &record); err != nil {
		t.Fatalf("sample record: %v", err)
	}

	resp = sendRequest(t, s, "tools/call", 2, map[string]any{
		"name":      "render_purchase_order",
		"arguments": map[string]any{"record": record},
	})
	if res, raw := toolContent(t, resp); res.IsError {
		t.Fatalf("sample record failed to render: %s", raw)
	}
}

func TestRenderPurchaseOrderTool(t *testing.T) {
	s := testServer(t)

	resp := sendRequest(t, s, "tools/call", 7, map[string]any{
		"name":      "render_purchase_order",
		"arguments": map[string]any{"record": testRecord()},
	})
	res, raw := toolContent(t, resp)
	if res.IsError || len(res.Content) != 2 {
		t.Fatalf("unexpected result: %s", raw)
	}
	if !strings.Contains(res.Content[0].Text, "PO_PO20250314007.pdf") {
		t.Errorf("summary = %q", res.Content[0].Text)
	}
	if res.Content[1].MIMEType != pogen.ContentType {
		t.Errorf("mime type = %q", res.Content[1].MIMEType)
	}

	pdf, err := base64.StdEncoding.DecodeString(res.Content[1].Data)
	if err != nil {
		t.Fatalf("base64: %v", err)
	}
	doc, err := inspect.Parse(pdf)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	for _, want := range []string{"PURCHASE ORDER", "PO20250314007", "Widget A", "Rs.200.00"} {
		if !doc.Contains(want) {
			t.Errorf("document lacks %q", want)
		}
	}
}

func TestRenderPurchaseOrderToOutputDir(t *testing.T) {
	s := testServer(t)
	dir := t.TempDir()

	resp := sendRequest(t, s, "tools/call", 8, map[string]any{
		"name":      "render_purchase_order",
		"arguments": map[string]any{"record": testRecord(), "output_path": dir},
	})
	if res, raw := toolContent(t, resp); res.IsError {
		t.Fatalf("unexpected result: %s", raw)
	}
	data, err := os.ReadFile(filepath.Join(dir, "PO_PO20250314007.pdf"))
	if err != nil {
		t.Fatalf("output file: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Error("output is not a PDF")
	}
}

func TestRenderPurchaseOrderErrors(t *testing.T) {
	s := testServer(t)

	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{"missing record", map[string]any{}, "missing 'record'"},
		{"bad quantity", map[string]any{"record": map[string]any{
			"items": []any{map[string]any{"description": "x", "quantity": "two"}},
		}}, "decoding record"},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := sendRequest(t, s, "tools/call", 10+i, map[string]any{
				"name":      "render_purchase_order",
				"arguments": tt.args,
			})
			res, raw := toolContent(t, resp)
			if !res.IsError || !strings.Contains(raw, tt.want) {
				t.Errorf("result = %s, want error mentioning %q", raw, tt.want)
			}
		})
	}
}

func TestExtractPDFTextTool(t *testing.T) {
	s := testServer(t)

	var buf bytes.Buffer
	rec := testRecord()
	c := pogen.New(pogen.WithLogoPath(filepath.Join(t.TempDir(), "logo.svg")))
	if err := c.ComposeTo(&buf, &rec); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "po.pdf")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	for i, args := range []map[string]any{
		{"path": path},
		{"data": base64.StdEncoding.EncodeToString(buf.Bytes())},
	} {
		resp := sendRequest(t, s, "tools/call", 20+i, map[string]any{
			"name":      "extract_pdf_text",
			"arguments": args,
		})
		res, raw := toolContent(t, resp)
		if res.IsError {
			t.Fatalf("unexpected error: %s", raw)
		}
		text := res.Content[0].Text
		if !strings.HasPrefix(text, "--- Page 1 ---\n") || !strings.Contains(text, "Widget A\n") {
			t.Errorf("text = %q", text)
		}
	}

	resp := sendRequest(t, s, "tools/call", 30, map[string]any{
		"name":      "extract_pdf_text",
		"arguments": map[string]any{"data": base64.StdEncoding.EncodeToString([]byte("not a pdf"))},
	})
	if res, raw := toolContent(t, resp); !res.IsError {
		t.Errorf("expected error result: %s", raw)
	}
}

func TestServerPing(t *testing.T) {
	s := NewServerWithIO(nil, nil, nil)

	resp := sendRequest(t, s, "ping", 4, nil)
	if resp.Error != nil {
		t.Fatalf("unexpected error: %v", resp.Error.Message)
	}
}

func TestServerUnknownMethod(t *testing.T) {
	s := NewServerWithIO(nil, nil, nil)

	resp := sendRequest(t, s, "nonexistent/method", 5, nil)
	if resp.Error == nil {
		t.Fatal("expected error for unknown method")
	}
	if resp.Error.Code != codeMethodNotFound {
		t.Fatalf("expected error code %d, got %d", codeMethodNotFound, resp.Error.Code)
	}
}

func TestServerUnknownTool(t *testing.T) {
	s := testServer(t)

	resp := sendRequest(t, s, "tools/call", 6, map[string]any{
		"name":      "nonexistent_tool",
		"arguments": map[string]any{},
	})
	if resp.Error == nil {
		t.Fatal("expected error for unknown tool")
	}
}

func TestServerMultipleRequests(t *testing.T) {
	requests := []string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2024-11-05","capabilities":{},"clientInfo":{"name":"test","version":"1.0"}}}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`,
		`{"jsonrpc":"2.0","id":3,"method":"resources/list"}`,
		`{"jsonrpc":"2.0","id":4,"method":"ping"}`,
		`{not json`,
	}

	input := strings.Join(requests, "\n") + "\n"
	var output bytes.Buffer

	s := testServer(t)
	s.input = strings.NewReader(input)
	s.output = &output
	if err := s.Run(); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(output.String()), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 responses, got %d: %s", len(lines), output.String())
	}
	for i, line := range lines {
		var resp jsonrpcResponse
		if err := json.Unmarshal([]byte(line), &resp); err != nil {
			t.Fatalf("response %d: unmarshal error: %v\nline: %s", i, err, line)
		}
		if i < 4 && resp.Error != nil {
			t.Errorf("response %d: unexpected error: %s", i, resp.Error.Message)
		}
		if i == 4 && (resp.Error == nil || resp.Error.Code != codeParse) {
			t.Errorf("malformed line answered with %s", line)
		}
	}
}

func TestServerAddTool(t *testing.T) {
	s := NewServerWithIO(nil, nil, nil)
	s.AddTool(Tool{
		Name:        "custom_tool",
		Description: "A custom test tool",
		InputSchema: map[string]any{"type": "object", "properties": map[string]any{}},
		Handler: func(args map[string]any) (ToolResult, error) {
			return ToolResult{Content: []ContentBlock{{Type: "text", Text: "custom result"}}}, nil
		},
	})

	resp := sendRequest(t, s, "tools/call", 1, map[string]any{"name": "custom_tool"})
	if _, raw := toolContent(t, resp); !strings.Contains(raw, "custom result") {
		t.Fatalf("unexpected result: %s", raw)
	}
}

func TestServerHandlerFailures(t *testing.T) {
	s := NewServerWithIO(nil, nil, nil)
	s.AddTool(Tool{
		Name:    "failing_tool",
		Handler: func(map[string]any) (ToolResult, error) { return ToolResult{}, os.ErrPermission },
	})
	s.AddResource(Resource{
		URI:     "pogen://broken",
		Name:    "Broken",
		Handler: func(string) ([]ResourceContent, error) { return nil, os.ErrNotExist },
	})

	resp := sendRequest(t, s, "tools/call", 1, map[string]any{"name": "failing_tool"})
	res, raw := toolContent(t, resp)
	if !res.IsError || !strings.Contains(raw, "Error: permission denied") {
		t.Errorf("tool failure answered with %s", raw)
	}

	resp = sendRequest(t, s, "resources/read", 2, map[string]any{"uri": "pogen://broken"})
	if resp.Error == nil || resp.Error.Code != codeInternal {
		t.Errorf("resource failure answered with %+v", resp)
	}

	resp = sendRequest(t, s, "tools/call", 3, "not an object")
	if resp.Error == nil || resp.Error.Code != codeInvalidParams {
		t.Errorf("bad params answered with %+v", resp)
	}
}
