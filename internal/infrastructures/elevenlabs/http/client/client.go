package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	derr "github.com/ozzus/fan-companion/internal/domain/errors"
	"github.com/ozzus/fan-companion/internal/domain/models"
	"github.com/ozzus/fan-companion/internal/infrastructures/elevenlabs/dto"
)

const maxErrorBody = 64 << 10

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = "https://api.elevenlabs.io"
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     strings.TrimSpace(apiKey),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) CreateConversation(ctx context.Context, agentID string) (models.VoiceSession, error) {
	var payload dto.CreateConversationResponse
	if err := c.postJSON(ctx, "/v1/convai/conversation", dto.CreateConversationRequest{AgentID: agentID}, &payload); err != nil {
		return models.VoiceSession{}, fmt.Errorf("create conversation: %w", err)
	}
	if payload.ConversationID == "" {
		return models.VoiceSession{}, fmt.Errorf("create conversation: empty conversation_id in response")
	}

	session := models.VoiceSession{
		ConversationID: payload.ConversationID,
		RTCSessionID:   payload.RTCSessionID,
		WebsocketURL:   payload.WebsocketURL,
		ICEServers:     make([]models.ICEServer, 0, len(payload.ICEServers)),
	}
	for _, s := range payload.ICEServers {
		session.ICEServers = append(session.ICEServers, models.ICEServer{
			URLs:       []string(s.URLs),
			Username:   s.Username,
			Credential: s.Credential,
		})
	}

	return session, nil
}

func (c *Client) NegotiateSDP(ctx context.Context, session models.VoiceSession, offer models.SessionDescription) (models.SessionDescription, error) {
	path := "/v1/convai/conversation/" + url.PathEscape(session.ConversationID) + "/sdp"
	req := dto.SDPRequest{
		SDP:          offer.SDP,
		Type:         offer.Type,
		RTCSessionID: session.RTCSessionID,
	}

	var payload dto.SDPResponse
	if err := c.postJSON(ctx, path, req, &payload); err != nil {
		return models.SessionDescription{}, fmt.Errorf("negotiate sdp: %w", err)
	}

	return models.SessionDescription{Type: payload.Type, SDP: payload.SDP}, nil
}

func (c *Client) postJSON(ctx context.Context, path string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return fmt.Errorf("%w: do request: %v", derr.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		upstream := &derr.UpstreamError{
			StatusCode: resp.StatusCode,
			Body:       string(raw),
			Message:    DescribeHTTPFailure(resp.StatusCode, string(raw)),
		}
		if resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusTooManyRequests {
			return errors.Join(upstream, derr.ErrSourceUnavailable)
		}
		return upstream
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
