package remote

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mesh-intelligence/blueprints/pkg/types"
)

func studentSecurity() types.StaticSecurity {
	return types.StaticSecurity{
		User:    "alice",
		Type:    types.UserTypeStudent,
		Headers: map[string]string{"Authorization": "Bearer tok"},
	}
}

func TestListDiagrams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/chartdb/v1/diagrams" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("Authorization header = %q", got)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"diagrams": []map[string]any{
				{"id": "d1", "name": "inventory", "tablesCount": 3},
				{"id": "d2", "name": "billing", "tablesCount": 0},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, studentSecurity())
	diagrams, err := c.ListDiagrams()
	if err != nil {
		t.Fatalf("ListDiagrams() failed: %v", err)
	}
	if len(diagrams) != 2 {
		t.Fatalf("got %d diagrams, want 2", len(diagrams))
	}
	if diagrams[0].ID != "d1" || diagrams[0].TablesCount != 3 {
		t.Fatalf("diagrams[0] = %+v", diagrams[0])
	}
}

func TestGetDiagramDecodesContent(t *testing.T) {
	content := `{"id":"d1","name":"inventory"}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chartdb/v1/diagrams/d1" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]string{"content": types.Obfuscate(content)})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, studentSecurity())
	got, err := c.GetDiagram("d1")
	if err != nil {
		t.Fatalf("GetDiagram() failed: %v", err)
	}
	if got != content {
		t.Fatalf("GetDiagram() = %q, want %q", got, content)
	}
}

func TestCreateDiagram(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/chartdb/v1/diagrams" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		var req CreateDiagramRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		if req.ClientDiagramID != "d1" || req.TablesCount != 2 {
			t.Errorf("request = %+v", req)
		}
		json.NewEncoder(w).Encode(map[string]string{"id": "srv-9"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, studentSecurity())
	id, err := c.CreateDiagram(CreateDiagramRequest{
		ClientDiagramID: "d1",
		Content:         types.Obfuscate("{}"),
		Name:            "inventory",
		TablesCount:     2,
	})
	if err != nil {
		t.Fatalf("CreateDiagram() failed: %v", err)
	}
	if id != "srv-9" {
		t.Fatalf("CreateDiagram() = %q, want srv-9", id)
	}
}

func TestDeleteDiagram(t *testing.T) {
	var deleted string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s", r.Method)
		}
		deleted = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, studentSecurity())
	if err := c.DeleteDiagram("d1"); err != nil {
		t.Fatalf("DeleteDiagram() failed: %v", err)
	}
	if deleted != "/chartdb/v1/diagrams/d1" {
		t.Fatalf("deleted path = %q", deleted)
	}
}

func TestErrorPrefersDetails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]string{
			"details": "quota exceeded",
			"message": "forbidden",
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, studentSecurity())
	_, err := c.ListDiagrams()
	if err == nil {
		t.Fatal("expected error")
	}
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("error type = %T", err)
	}
	if apiErr.StatusCode != http.StatusForbidden || apiErr.Message != "quota exceeded" {
		t.Fatalf("APIError = %+v", apiErr)
	}
}

func TestErrorFallsBackToMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"message": "no such diagram"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, studentSecurity())
	_, err := c.GetDiagram("nope")
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "no such diagram" {
		t.Fatalf("error = %q", err.Error())
	}
}

func TestErrorWithUndecodableBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, studentSecurity())
	err := c.DeleteDiagram("d1")
	if err == nil {
		t.Fatal("expected error")
	}
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("error type = %T", err)
	}
	if apiErr.StatusCode != http.StatusBadGateway {
		t.Fatalf("StatusCode = %d", apiErr.StatusCode)
	}
}
