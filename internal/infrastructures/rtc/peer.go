package rtc

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ozzus/fan-companion/internal/domain/models"
	"github.com/ozzus/fan-companion/internal/domain/ports"
	"github.com/pion/webrtc/v4"
	"go.uber.org/zap"
)

const defaultGatherTimeout = 5 * time.Second

// AudioSink receives the agent's audio payloads.
type AudioSink interface {
	WriteAudio(payload []byte)
}

type discardSink struct{}

func (discardSink) WriteAudio([]byte) {}

type PeerFactory struct {
	log           *zap.Logger
	api           *webrtc.API
	gatherTimeout time.Duration
	sink          AudioSink
}

func NewPeerFactory(log *zap.Logger, gatherTimeout time.Duration, sink AudioSink) *PeerFactory {
	if log == nil {
		log = zap.NewNop()
	}
	if gatherTimeout <= 0 {
		gatherTimeout = defaultGatherTimeout
	}
	if sink == nil {
		sink = discardSink{}
	}

	settingEngine := webrtc.SettingEngine{}
	settingEngine.SetIncludeLoopbackCandidate(true)

	return &PeerFactory{
		log:           log,
		api:           webrtc.NewAPI(webrtc.WithSettingEngine(settingEngine)),
		gatherTimeout: gatherTimeout,
		sink:          sink,
	}
}

func (f *PeerFactory) NewPeer(iceServers []models.ICEServer, audio ports.LocalAudio) (ports.Peer, error) {
	pc, err := f.api.NewPeerConnection(webrtc.Configuration{ICEServers: toICEServers(iceServers)})
	if err != nil {
		return nil, fmt.Errorf("new peer connection: %w", err)
	}

	p := &Peer{
		log:           f.log,
		pc:            pc,
		gatherTimeout: f.gatherTimeout,
		sink:          f.sink,
	}

	if local, ok := audio.(*Audio); ok {
		if _, err := pc.AddTrack(local.Track()); err != nil {
			_ = pc.Close()
			return nil, fmt.Errorf("add local audio track: %w", err)
		}
	} else {
		if _, err := pc.AddTransceiverFromKind(webrtc.RTPCodecTypeAudio, webrtc.RTPTransceiverInit{
			Direction: webrtc.RTPTransceiverDirectionRecvonly,
		}); err != nil {
			_ = pc.Close()
			return nil, fmt.Errorf("add audio transceiver: %w", err)
		}
	}

	pc.OnTrack(p.drain)
	pc.OnICEConnectionStateChange(func(state webrtc.ICEConnectionState) {
		f.log.Debug("voice ice state changed", zap.String("state", state.String()))
	})

	return p, nil
}

type Peer struct {
	log           *zap.Logger
	pc            *webrtc.PeerConnection
	gatherTimeout time.Duration

	mu   sync.Mutex
	sink AudioSink
}

// CreateOffer sets the local description and waits for ICE gathering so the
// returned SDP carries every candidate.
func (p *Peer) CreateOffer(ctx context.Context) (models.SessionDescription, error) {
	offer, err := p.pc.CreateOffer(nil)
	if err != nil {
		return models.SessionDescription{}, fmt.Errorf("create offer: %w", err)
	}

	gatherComplete := webrtc.GatheringCompletePromise(p.pc)
	if err := p.pc.SetLocalDescription(offer); err != nil {
		return models.SessionDescription{}, fmt.Errorf("set local description: %w", err)
	}

	select {
	case <-gatherComplete:
	case <-time.After(p.gatherTimeout):
		return models.SessionDescription{}, fmt.Errorf("ice gathering timed out after %s", p.gatherTimeout)
	case <-ctx.Done():
		return models.SessionDescription{}, ctx.Err()
	}

	local := p.pc.LocalDescription()
	if local == nil {
		return models.SessionDescription{}, errors.New("local description is empty")
	}

	return models.SessionDescription{Type: local.Type.String(), SDP: local.SDP}, nil
}

func (p *Peer) SetAnswer(answer models.SessionDescription) error {
	sdpType := webrtc.NewSDPType(answer.Type)
	if sdpType != webrtc.SDPTypeAnswer && sdpType != webrtc.SDPTypePranswer {
		return fmt.Errorf("unexpected session description type %q", answer.Type)
	}

	if err := p.pc.SetRemoteDescription(webrtc.SessionDescription{Type: sdpType, SDP: answer.SDP}); err != nil {
		return fmt.Errorf("set remote description: %w", err)
	}
	return nil
}

// Close detaches the sink and closes the connection.
func (p *Peer) Close() error {
	p.mu.Lock()
	p.sink = discardSink{}
	p.mu.Unlock()

	return p.pc.Close()
}

func (p *Peer) drain(track *webrtc.TrackRemote, _ *webrtc.RTPReceiver) {
	p.log.Debug("remote track attached",
		zap.String("kind", track.Kind().String()),
		zap.String("codec", track.Codec().MimeType),
	)

	buf := make([]byte, 1500)
	for {
		n, _, err := track.Read(buf)
		if err != nil {
			return
		}

		p.mu.Lock()
		sink := p.sink
		p.mu.Unlock()

		sink.WriteAudio(buf[:n])
	}
}

func toICEServers(servers []models.ICEServer) []webrtc.ICEServer {
	out := make([]webrtc.ICEServer, 0, len(servers))
	for _, s := range servers {
		if len(s.URLs) == 0 {
			continue
		}
		server := webrtc.ICEServer{URLs: append([]string(nil), s.URLs...)}
		if s.Username != "" || s.Credential != "" {
			server.Username = s.Username
			server.Credential = s.Credential
		}
		out = append(out, server)
	}
	return out
}
