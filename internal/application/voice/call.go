package voice

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ozzus/fan-companion/internal/domain/ports"
)

// call owns the handles acquired while a session is set up. A handle attached
// after release is closed immediately, so every handle is released once.
type call struct {
	id string

	mu       sync.Mutex
	released bool
	audio    ports.LocalAudio
	peer     ports.Peer
	conn     ports.SignalingConn
}

func (c *call) attachAudio(audio ports.LocalAudio) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.released {
		_ = audio.Stop()
		return errCallReleased
	}
	c.audio = audio
	return nil
}

func (c *call) attachPeer(peer ports.Peer) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.released {
		_ = peer.Close()
		return errCallReleased
	}
	c.peer = peer
	return nil
}

func (c *call) attachConn(conn ports.SignalingConn) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.released {
		_ = conn.Close()
		return errCallReleased
	}
	c.conn = conn
	return nil
}

func (c *call) isReleased() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.released
}

// release closes the peer connection, then the socket, then stops local
// audio. The first return value reports whether this call did the release.
func (c *call) release() (bool, error) {
	c.mu.Lock()
	if c.released {
		c.mu.Unlock()
		return false, nil
	}
	c.released = true
	peer, conn, audio := c.peer, c.conn, c.audio
	c.peer, c.conn, c.audio = nil, nil, nil
	c.mu.Unlock()

	var errs []error
	if peer != nil {
		if err := peer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close peer: %w", err))
		}
	}
	if conn != nil {
		if err := conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close signaling: %w", err))
		}
	}
	if audio != nil {
		if err := audio.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("stop audio: %w", err))
		}
	}

	return true, errors.Join(errs...)
}
