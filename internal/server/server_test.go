package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"mapgen/pkg/engine"
)

var small = map[string]string{
	"cells": "300", "w": "300", "h": "300",
	"cultures": "2", "states": "1", "religions": "1",
}

func start(t *testing.T) (*Server, *Hub, *httptest.Server) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub()
	go hub.Run(ctx)
	srv := New(small, hub)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		srv.Wait()
		ts.Close()
		cancel()
	})
	return srv, hub, ts
}

func get(t *testing.T, url string) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestGenerateThenSummary(t *testing.T) {
	srv, _, ts := start(t)
	if resp := get(t, ts.URL+"/api/summary"); resp.StatusCode != http.StatusNotFound {
		t.Fatalf("summary before any map: %d", resp.StatusCode)
	}

	resp := get(t, ts.URL+"/api/generate?seed=served")
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("generate: %d", resp.StatusCode)
	}
	srv.Wait()

	resp = get(t, ts.URL+"/api/summary")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("summary: %d", resp.StatusCode)
	}
	var sum engine.Summary
	if err := json.NewDecoder(resp.Body).Decode(&sum); err != nil {
		t.Fatal(err)
	}
	if sum.Seed != "served" || sum.Cells == 0 {
		t.Fatalf("summary %+v", sum)
	}
}

func TestGenerateRejectsBadConfig(t *testing.T) {
	_, _, ts := start(t)
	if resp := get(t, ts.URL+"/api/generate?template=Moonscape"); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unknown template: %d", resp.StatusCode)
	}
}

func TestParamsReflectQuery(t *testing.T) {
	_, _, ts := start(t)
	resp := get(t, ts.URL+"/api/params?seed=abc")
	var snap struct {
		Groups []struct {
			Params []struct {
				Key   string
				Value string
			}
		}
	}
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatal(err)
	}
	got := map[string]string{}
	for _, g := range snap.Groups {
		for _, p := range g.Params {
			got[p.Key] = p.Value
		}
	}
	if got["seed"] != "abc" || got["cells"] != "300" {
		t.Fatalf("params %v", got)
	}
}

func TestSocketStreamsProgress(t *testing.T) {
	srv, hub, ts := start(t)
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	deadline := time.Now().Add(5 * time.Second)
	for hub.Clients() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("socket never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	get(t, ts.URL+"/api/generate?seed=socket")
	var stages []string
	conn.SetReadDeadline(time.Now().Add(30 * time.Second))
	for {
		var msg struct {
			Type    string          `json:"type"`
			Payload json.RawMessage `json:"payload"`
		}
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read after %v: %v", stages, err)
		}
		if msg.Type == "done" {
			break
		}
		if msg.Type != "progress" {
			t.Fatalf("unexpected event %q: %s", msg.Type, msg.Payload)
		}
		var p Progress
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			t.Fatal(err)
		}
		stages = append(stages, p.Stage)
	}
	srv.Wait()
	if len(stages) != len(engine.Stages)+1 || stages[0] != string(engine.StageGrid) {
		t.Fatalf("progress stages %v", stages)
	}
}
