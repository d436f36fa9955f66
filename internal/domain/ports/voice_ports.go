package ports

import (
	"context"

	"github.com/ozzus/fan-companion/internal/domain/models"
)

type VoiceLogStore interface {
	Append(ctx context.Context, entry models.VoiceLogEntry) (models.VoiceLogEntry, error)
	List(ctx context.Context) ([]models.VoiceLogEntry, error)
	Clear(ctx context.Context) error
}

type VoiceSessionAPI interface {
	CreateConversation(ctx context.Context, agentID string) (models.VoiceSession, error)
	NegotiateSDP(ctx context.Context, session models.VoiceSession, offer models.SessionDescription) (models.SessionDescription, error)
}

// LocalAudio is a captured audio source owned by a single call.
type LocalAudio interface {
	Stop() error
}

type AudioInput interface {
	Acquire(ctx context.Context) (LocalAudio, error)
}

type Peer interface {
	CreateOffer(ctx context.Context) (models.SessionDescription, error)
	SetAnswer(answer models.SessionDescription) error
	Close() error
}

type PeerFactory interface {
	NewPeer(iceServers []models.ICEServer, audio LocalAudio) (Peer, error)
}

type SignalingConn interface {
	// Wait blocks until the connection ends. A nil result means a normal close.
	Wait() error
	Close() error
}

type SignalingDialer interface {
	Dial(ctx context.Context, rawURL string) (SignalingConn, error)
}
