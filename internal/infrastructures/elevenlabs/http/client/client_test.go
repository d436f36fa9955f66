package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	derr "github.com/ozzus/fan-companion/internal/domain/errors"
	"github.com/ozzus/fan-companion/internal/domain/models"
)

func TestCreateConversation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		if r.URL.Path != "/v1/convai/conversation" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("xi-api-key") != "xi-key" {
			t.Fatalf("missing api key header")
		}

		var req map[string]string
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req["agent_id"] != "agent-42" {
			t.Fatalf("unexpected agent_id: %q", req["agent_id"])
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"conversation_id":"conv-1",
			"rtc_session_id":"rtc-1",
			"websocket_url":"wss://api.elevenlabs.io/v1/convai/ws",
			"ice_servers":[
				{"urls":"stun:stun.l.google.com:19302"},
				{"urls":["turn:turn.example.com:3478","turns:turn.example.com:5349"],"username":"u","credential":"p"}
			]
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "xi-key", time.Second)
	session, err := c.CreateConversation(context.Background(), "agent-42")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if session.ConversationID != "conv-1" || session.RTCSessionID != "rtc-1" {
		t.Fatalf("unexpected session ids: %+v", session)
	}
	if len(session.ICEServers) != 2 {
		t.Fatalf("expected 2 ice servers, got %d", len(session.ICEServers))
	}
	if len(session.ICEServers[0].URLs) != 1 || len(session.ICEServers[1].URLs) != 2 {
		t.Fatalf("unexpected ice urls: %+v", session.ICEServers)
	}
	if session.ICEServers[1].Username != "u" || session.ICEServers[1].Credential != "p" {
		t.Fatalf("unexpected turn credentials: %+v", session.ICEServers[1])
	}
}

func TestCreateConversation_RejectedKeepsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":{"status":"invalid_api_key","message":"Invalid API key"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "xi-key", time.Second)
	_, err := c.CreateConversation(context.Background(), "agent-42")

	var upstream *derr.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if upstream.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unexpected status: %d", upstream.StatusCode)
	}
	want := `voice agent responded 401: {"message":"Invalid API key","status":"invalid_api_key"}`
	if upstream.Message != want {
		t.Fatalf("unexpected message:\n got %s\nwant %s", upstream.Message, want)
	}
	if upstream.Body == "" {
		t.Fatal("expected raw body to be kept")
	}
	if errors.Is(err, derr.ErrSourceUnavailable) {
		t.Fatal("401 must not map to unavailable")
	}
}

func TestCreateConversation_ServerErrorIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "xi-key", time.Second)
	_, err := c.CreateConversation(context.Background(), "agent-42")
	if !errors.Is(err, derr.ErrSourceUnavailable) {
		t.Fatalf("expected ErrSourceUnavailable, got %v", err)
	}
}

func TestNegotiateSDP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/convai/conversation/conv-1/sdp" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		var req map[string]string
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req["sdp"] != "v=0 offer" || req["type"] != "offer" || req["rtc_session_id"] != "rtc-1" {
			t.Fatalf("unexpected sdp request: %v", req)
		}
		_, _ = w.Write([]byte(`{"sdp":"v=0 answer","type":"answer"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "xi-key", time.Second)
	answer, err := c.NegotiateSDP(context.Background(),
		models.VoiceSession{ConversationID: "conv-1", RTCSessionID: "rtc-1"},
		models.SessionDescription{Type: "offer", SDP: "v=0 offer"},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if answer.Type != "answer" || answer.SDP != "v=0 answer" {
		t.Fatalf("unexpected answer: %+v", answer)
	}
}

func TestDescribeHTTPFailure(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{name: "empty body", status: 500, body: "  ", want: "voice agent responded 500"},
		{name: "plain text", status: 502, body: " upstream down \n", want: "voice agent responded 502: upstream down"},
		{name: "json string", status: 400, body: `"bad agent"`, want: "voice agent responded 400: bad agent"},
		{name: "detail string", status: 404, body: `{"detail":"agent not found"}`, want: "voice agent responded 404: agent not found"},
		{name: "message string", status: 403, body: `{"message":"forbidden"}`, want: "voice agent responded 403: forbidden"},
		{name: "detail list", status: 422, body: `{"detail":[{"loc":["agent_id"]}]}`, want: `voice agent responded 422: [{"loc":["agent_id"]}]`},
		{name: "json without hints", status: 418, body: `{"other":1}`, want: `voice agent responded 418: {"other":1}`},
		{name: "empty detail falls through to message", status: 400, body: `{"detail":"","message":"agent disabled"}`, want: "voice agent responded 400: agent disabled"},
		{name: "empty detail keeps raw body", status: 400, body: `{"detail":""}`, want: `voice agent responded 400: {"detail":""}`},
		{name: "zero detail keeps raw body", status: 400, body: `{"detail":0}`, want: `voice agent responded 400: {"detail":0}`},
		{name: "false detail uses message", status: 409, body: `{"detail":false,"message":"busy"}`, want: "voice agent responded 409: busy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DescribeHTTPFailure(tt.status, tt.body); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}
