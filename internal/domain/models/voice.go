package models

import "time"

type CallStatus string

const (
	CallStatusIdle         CallStatus = "idle"
	CallStatusInitializing CallStatus = "initializing"
	CallStatusInCall       CallStatus = "in-call"
	CallStatusError        CallStatus = "error"
)

type CallSnapshot struct {
	ID             string
	Status         CallStatus
	Error          string
	ConversationID string
	StartedAt      time.Time
}

type LogLevel string

const (
	LogLevelInfo  LogLevel = "info"
	LogLevelError LogLevel = "error"
)

type VoiceLogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Level     LogLevel  `json:"level"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
}

func (e VoiceLogEntry) Valid() bool {
	return !e.Timestamp.IsZero() && e.Level != "" && e.Message != ""
}

type ICEServer struct {
	URLs       []string
	Username   string
	Credential string
}

type VoiceSession struct {
	ConversationID string
	RTCSessionID   string
	ICEServers     []ICEServer
	WebsocketURL   string
}

type SessionDescription struct {
	Type string
	SDP  string
}
