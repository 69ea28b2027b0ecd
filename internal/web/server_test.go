package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
)

type stubDB struct{ err error }

func (s stubDB) Ping(context.Context) error { return s.err }

type stubQueue struct{}

func (stubQueue) Depth() int   { return 3 }
func (stubQueue) Dropped() int { return 1 }

func TestServer_Alive(t *testing.T) {
	s := New(":0", stubDB{}, stubQueue{})
	resp, err := s.App().Test(httptest.NewRequest("GET", "/", nil))
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != 200 || string(body) != "QuestBot is alive" {
		t.Errorf("GET / = %d %q", resp.StatusCode, body)
	}
}

func TestServer_Health(t *testing.T) {
	tests := []struct {
		name       string
		dbErr      error
		wantStatus int
		wantHealth string
	}{
		{name: "healthy", wantStatus: 200, wantHealth: "ok"},
		{name: "database down", dbErr: errors.New("connection refused"), wantStatus: 503, wantHealth: "degraded"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(":0", stubDB{err: tt.dbErr}, stubQueue{})
			resp, err := s.App().Test(httptest.NewRequest("GET", "/health", nil))
			if err != nil {
				t.Fatal(err)
			}
			var h Health
			if err := json.NewDecoder(resp.Body).Decode(&h); err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != tt.wantStatus || h.Status != tt.wantHealth || h.QueueDepth != 3 || h.Dropped != 1 {
				t.Errorf("GET /health = %d %+v", resp.StatusCode, h)
			}
		})
	}
}
