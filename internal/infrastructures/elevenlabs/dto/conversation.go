package dto

import (
	"encoding/json"
	"fmt"
)

type CreateConversationRequest struct {
	AgentID string `json:"agent_id"`
}

type CreateConversationResponse struct {
	ConversationID string      `json:"conversation_id"`
	RTCSessionID   string      `json:"rtc_session_id"`
	ICEServers     []ICEServer `json:"ice_servers"`
	WebsocketURL   string      `json:"websocket_url"`
}

type ICEServer struct {
	URLs       StringList `json:"urls"`
	Username   string     `json:"username,omitempty"`
	Credential string     `json:"credential,omitempty"`
}

// StringList accepts either a single JSON string or an array of strings.
type StringList []string

func (s *StringList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*s = StringList{single}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("urls must be a string or a list of strings: %w", err)
	}
	*s = many
	return nil
}

type SDPRequest struct {
	SDP          string `json:"sdp"`
	Type         string `json:"type"`
	RTCSessionID string `json:"rtc_session_id"`
}

type SDPResponse struct {
	SDP  string `json:"sdp"`
	Type string `json:"type"`
}
