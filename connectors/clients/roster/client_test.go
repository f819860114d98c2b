package roster

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/escala-app/escala/core/model"
)

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(Config{BaseURL: srv.URL, MinistryID: 1}, nil)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c, srv
}

func TestFetchAssignments(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ministerios/1/escala/2025/6" {
			t.Errorf("path %s", r.URL.Path)
		}
		io.WriteString(w, `[
			{"id_evento":10,"id_funcao":1,"funcao_instancia":0,"nome_funcao":"Leader","nome_servico":"Thursday","data_evento":"2025-06-05","id_voluntario":5,"nome_voluntario":"Ana"},
			{"id_evento":10,"id_funcao":2,"funcao_instancia":0,"nome_funcao":"Support","nome_servico":"Thursday","data_evento":"2025-06-05T00:00:00","id_voluntario":null,"nome_voluntario":null}
		]`)
	})
	slots, err := c.FetchAssignments(context.Background(), model.Period{Year: 2025, Month: 6})
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(slots) != 2 {
		t.Fatalf("%d slots", len(slots))
	}
	if slots[0].Key() != "10-1-0" || slots[0].VolunteerName != "Ana" {
		t.Fatalf("slot 0: %+v", slots[0])
	}
	if !slots[1].Vacant() {
		t.Fatal("null volunteer must map to a vacant slot")
	}
	if d := slots[1].EventDate; d.Day() != 5 || d.Location() != time.UTC {
		t.Fatalf("event date not pinned to UTC day: %v", d)
	}
}

func TestFetchAssignmentsBadDate(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[{"id_evento":1,"id_funcao":1,"funcao_instancia":0,"data_evento":"junk"}]`)
	})
	if _, err := c.FetchAssignments(context.Background(), model.Period{Year: 2025, Month: 6}); err == nil {
		t.Fatal("expected date parse error")
	}
}

func TestFetchVolunteers(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("inativos"); got != "false" {
			t.Errorf("inativos=%s, want false", got)
		}
		io.WriteString(w, `[{"id_voluntario":5,"nome_voluntario":"Ana","nivel_experiencia":"senior","ativo":true,"limite_escalas_mes":2}]`)
	})
	vols, err := c.FetchVolunteers(context.Background(), true)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(vols) != 1 || vols[0].MonthlyCap != 2 || !vols[0].Active {
		t.Fatalf("volunteers %+v", vols)
	}
}

func TestEligibleCandidates(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/escala/vaga-elegiveis" {
			t.Errorf("path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("id_funcao") != "2" || q.Get("id_evento") != "10" {
			t.Errorf("query %v", q)
		}
		io.WriteString(w, `[{"id_voluntario":6,"nome_voluntario":"Bruno"}]`)
	})
	cands, err := c.EligibleCandidates(context.Background(), 2, 10)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(cands) != 1 || cands[0].ID != 6 {
		t.Fatalf("candidates %+v", cands)
	}
}

func TestCommitSlot(t *testing.T) {
	var got slotUpdateDTO
	var reqID string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/escala/vaga" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		reqID = r.Header.Get("X-Request-ID")
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("body: %v", err)
		}
		// null volunteer must survive the round trip
		if !bytes.Contains(body, []byte(`"id_voluntario":null`)) {
			t.Errorf("body %s", body)
		}
		w.WriteHeader(http.StatusOK)
	})
	err := c.CommitSlot(context.Background(), model.SlotUpdate{EventID: 10, RoleID: 2, Instance: 0, VolunteerID: nil})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if got.EventID != 10 || got.RoleID != 2 || got.Instance != 0 {
		t.Fatalf("update %+v", got)
	}
	if reqID == "" {
		t.Fatal("mutations must carry X-Request-ID")
	}
}

func TestCommitSlotServerError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	err := c.CommitSlot(context.Background(), model.SlotUpdate{EventID: 10, RoleID: 2})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestBulkOperations(t *testing.T) {
	var paths []string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
		var p periodDTO
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil || p.Year != 2025 || p.Month != 6 {
			t.Errorf("period body %+v err %v", p, err)
		}
		w.WriteHeader(http.StatusOK)
	})
	period := model.Period{Year: 2025, Month: 6}
	if err := c.CreateEvents(context.Background(), period); err != nil {
		t.Fatalf("create events: %v", err)
	}
	if err := c.GenerateSchedule(context.Background(), period); err != nil {
		t.Fatalf("generate: %v", err)
	}
	want := []string{"POST /ministerios/1/eventos/criar", "POST /ministerios/1/escala/gerar"}
	for i := range want {
		if paths[i] != want[i] {
			t.Fatalf("calls %v", paths)
		}
	}
}

func TestExportPDF(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ministerios/1/escala/2025/6/pdf" {
			t.Errorf("path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("%PDF-1.4 fake"))
	})
	var buf bytes.Buffer
	if err := c.ExportPDF(context.Background(), model.Period{Year: 2025, Month: 6}, &buf); err != nil {
		t.Fatalf("export: %v", err)
	}
	if buf.String() != "%PDF-1.4 fake" {
		t.Fatalf("payload %q", buf.String())
	}
}

func TestConfigValidate(t *testing.T) {
	if _, err := New(Config{}, nil); err == nil {
		t.Fatal("missing base_url accepted")
	}
	if _, err := New(Config{BaseURL: "http://x", MinistryID: 0}, nil); err == nil {
		t.Fatal("zero ministry accepted")
	}
}
