package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

func TestGoogleSheetsAppend(t *testing.T) {
	var gotPath string
	var gotBody sheetsapi.ValueRange
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(sheetsapi.AppendValuesResponse{})
	}))
	defer srv.Close()

	service, err := sheetsapi.NewService(context.Background(),
		option.WithHTTPClient(srv.Client()),
		option.WithEndpoint(srv.URL),
	)
	if err != nil {
		t.Fatalf("create service: %v", err)
	}

	a := newAppenderWithService(service, "sheet-id-123")
	row := []string{"2025-06-01 15:04:05", "Pat", "pat@example.com"}
	if err := a.Append(context.Background(), "Submissions", row); err != nil {
		t.Fatalf("Append: %v", err)
	}

	if !strings.Contains(gotPath, "sheet-id-123") || !strings.Contains(gotPath, "Submissions") {
		t.Errorf("request path = %q", gotPath)
	}
	if len(gotBody.Values) != 1 || len(gotBody.Values[0]) != 3 {
		t.Fatalf("values = %v", gotBody.Values)
	}
	if gotBody.Values[0][1] != "Pat" {
		t.Errorf("row = %v", gotBody.Values[0])
	}
}

func TestStubRecordsRows(t *testing.T) {
	stub := &Stub{}
	if err := stub.Append(context.Background(), "Submissions", []string{"a", "b"}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if len(stub.Rows["Submissions"]) != 1 {
		t.Errorf("rows = %v", stub.Rows)
	}
}
