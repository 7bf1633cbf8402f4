package storage

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/mesh-intelligence/blueprints/internal/history"
	"github.com/mesh-intelligence/blueprints/internal/remote"
	"github.com/mesh-intelligence/blueprints/internal/store"
	"github.com/mesh-intelligence/blueprints/pkg/types"
)

func newStudentService(t *testing.T, handler http.Handler) (*Service, *recordingNotifier) {
	t.Helper()
	dir := t.TempDir()

	st, err := store.Open(dir)
	if err != nil {
		t.Fatalf("store.Open() failed: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	hist, err := history.Open(dir)
	if err != nil {
		t.Fatalf("history.Open() failed: %v", err)
	}
	t.Cleanup(func() { hist.Close() })

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	sec := types.StaticSecurity{
		User:    "alice",
		Type:    types.UserTypeStudent,
		Headers: map[string]string{"Authorization": "Bearer tok"},
	}
	notifier := &recordingNotifier{}
	return New(st, hist, remote.NewClient(srv.URL, sec), sec, notifier), notifier
}

func TestListDiagramsStudentReadsRemote(t *testing.T) {
	svc, notifier := newStudentService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"diagrams": []map[string]any{
				{"id": "d1", "name": "inventory", "tablesCount": 3},
			},
		})
	}))

	diagrams, err := svc.ListDiagrams(LoadOptions{IncludeTables: true})
	if err != nil {
		t.Fatalf("ListDiagrams() failed: %v", err)
	}
	if len(diagrams) != 1 || diagrams[0].ID != "d1" {
		t.Fatalf("diagrams = %+v", diagrams)
	}
	if diagrams[0].DatabaseType != types.DatabaseTypeGeneric {
		t.Fatalf("DatabaseType = %q, want generic", diagrams[0].DatabaseType)
	}
	// Remote rows carry only a count; tables come back as numbered
	// placeholder shells.
	if len(diagrams[0].Tables) != 3 {
		t.Fatalf("got %d placeholder tables, want 3", len(diagrams[0].Tables))
	}
	for i, tbl := range diagrams[0].Tables {
		want := strconv.Itoa(i)
		if tbl.ID != want || tbl.Name != want {
			t.Fatalf("placeholder %d = {ID: %q, Name: %q}, want %q", i, tbl.ID, tbl.Name, want)
		}
		if tbl.DiagramID != "d1" {
			t.Fatalf("placeholder %d DiagramID = %q", i, tbl.DiagramID)
		}
	}
	if len(notifier.messages) != 0 {
		t.Fatalf("unexpected notifications: %v", notifier.messages)
	}
}

func TestListDiagramsRemoteFailureDegrades(t *testing.T) {
	svc, notifier := newStudentService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"message": "backend down"})
	}))

	diagrams, err := svc.ListDiagrams(LoadOptions{})
	if err != nil {
		t.Fatalf("ListDiagrams() = %v, want degraded nil error", err)
	}
	if len(diagrams) != 0 {
		t.Fatalf("diagrams = %+v, want empty", diagrams)
	}
	if len(notifier.messages) != 1 {
		t.Fatalf("notifications = %v, want one", notifier.messages)
	}
}

func TestDeleteDiagramStudentDeletesRemote(t *testing.T) {
	var deleted []string
	svc, _ := newStudentService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			deleted = append(deleted, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	if err := svc.AddDiagram(testDiagram("d1", "inventory"), true); err != nil {
		t.Fatalf("AddDiagram() failed: %v", err)
	}
	if err := svc.DeleteDiagram("d1", true, false); err != nil {
		t.Fatalf("DeleteDiagram() failed: %v", err)
	}

	if len(deleted) != 1 || deleted[0] != "/chartdb/v1/diagrams/d1" {
		t.Fatalf("remote deletes = %v", deleted)
	}
}

func TestDeleteDiagramLocalOnlySkipsRemote(t *testing.T) {
	var remoteCalls int
	svc, _ := newStudentService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		remoteCalls++
		w.WriteHeader(http.StatusNoContent)
	}))

	if err := svc.AddDiagram(testDiagram("d1", "inventory"), true); err != nil {
		t.Fatalf("AddDiagram() failed: %v", err)
	}
	if err := svc.DeleteDiagram("d1", true, true); err != nil {
		t.Fatalf("DeleteDiagram() failed: %v", err)
	}

	if remoteCalls != 0 {
		t.Fatalf("remote was called %d times for a local-only delete", remoteCalls)
	}
}

func TestShareDiagram(t *testing.T) {
	var created remote.CreateDiagramRequest
	svc, _ := newStudentService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			if err := json.NewDecoder(r.Body).Decode(&created); err != nil {
				t.Errorf("decoding create request: %v", err)
			}
			json.NewEncoder(w).Encode(map[string]string{"id": "srv-9"})
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	d := testDiagram("d1", "inventory")
	d.Tables = []*types.Table{testTable("t1", "d1", "products")}
	if err := svc.AddDiagram(d, true); err != nil {
		t.Fatalf("AddDiagram() failed: %v", err)
	}

	remoteID, err := svc.ShareDiagram("d1")
	if err != nil {
		t.Fatalf("ShareDiagram() failed: %v", err)
	}
	if remoteID != "srv-9" {
		t.Fatalf("ShareDiagram() = %q, want srv-9", remoteID)
	}
	if created.ClientDiagramID != "d1" || created.Name != "inventory" || created.TablesCount != 1 {
		t.Fatalf("create request = %+v", created)
	}

	snapshot, err := types.Deobfuscate(created.Content)
	if err != nil {
		t.Fatalf("decoding shared content: %v", err)
	}
	shared, err := types.DiagramFromJSON(snapshot)
	if err != nil {
		t.Fatalf("parsing shared content: %v", err)
	}
	if len(shared.Tables) != 1 {
		t.Fatalf("shared content tables = %+v", shared.Tables)
	}

	got, err := svc.GetDiagram("d1", LoadOptions{})
	if err != nil {
		t.Fatalf("GetDiagram() failed: %v", err)
	}
	if got.SavedAt == nil {
		t.Fatal("SavedAt not stamped after share")
	}
}

func TestPullDiagram(t *testing.T) {
	source := testDiagram("d1", "inventory")
	source.Tables = []*types.Table{testTable("t1", "d1", "products")}
	snapshot, err := types.DiagramToJSON(source)
	if err != nil {
		t.Fatalf("serializing source diagram: %v", err)
	}

	svc, _ := newStudentService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"content": types.Obfuscate(snapshot)})
	}))

	d, err := svc.PullDiagram("srv-9")
	if err != nil {
		t.Fatalf("PullDiagram() failed: %v", err)
	}
	if d.ID != "d1" {
		t.Fatalf("pulled diagram id = %q", d.ID)
	}

	got, err := svc.GetDiagram("d1", LoadAll)
	if err != nil {
		t.Fatalf("GetDiagram after pull failed: %v", err)
	}
	if len(got.Tables) != 1 || got.Tables[0].Name != "products" {
		t.Fatalf("pulled tables = %+v", got.Tables)
	}
}

func TestShareWithoutRemote(t *testing.T) {
	svc, _ := newGuestService(t)

	if _, err := svc.ShareDiagram("d1"); !errors.Is(err, ErrNoRemote) {
		t.Fatalf("ShareDiagram() = %v, want ErrNoRemote", err)
	}
	if _, err := svc.PullDiagram("srv-9"); !errors.Is(err, ErrNoRemote) {
		t.Fatalf("PullDiagram() = %v, want ErrNoRemote", err)
	}
}

func TestDeleteDiagramRemoteFailureStillDeletesLocally(t *testing.T) {
	svc, notifier := newStudentService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"message": "backend down"})
	}))

	if err := svc.AddDiagram(testDiagram("d1", "inventory"), true); err != nil {
		t.Fatalf("AddDiagram() failed: %v", err)
	}
	if err := svc.DeleteDiagram("d1", true, false); err != nil {
		t.Fatalf("DeleteDiagram() = %v, want nil despite remote failure", err)
	}

	if _, err := svc.store.GetDiagram("d1"); err == nil {
		t.Fatal("diagram survived the local delete")
	}
	if len(notifier.messages) != 1 {
		t.Fatalf("notifications = %v, want one", notifier.messages)
	}
}
