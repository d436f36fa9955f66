// Package voice drives a single voice-assistant call: it acquires local audio,
// negotiates a WebRTC session with the agent and keeps the signaling socket
// open until the call ends.
package voice

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	derr "github.com/ozzus/fan-companion/internal/domain/errors"
	"github.com/ozzus/fan-companion/internal/domain/models"
	"github.com/ozzus/fan-companion/internal/domain/ports"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

const (
	msgMissingCredentials = "missing voice agent credentials"
	msgStarting           = "starting voice session"
	msgAudioAcquired      = "audio input acquired"
	msgCreateRejected     = "voice agent rejected conversation creation"
	msgSessionCreated     = "rtc session created"
	msgSDPRejected        = "voice agent rejected sdp negotiation"
	msgSDPCompleted       = "sdp negotiation completed"
	msgSocketConnected    = "signaling socket connected"
	msgUnstable           = "unstable connection with voice agent"
	msgStartFailed        = "unexpected error while starting conversation"
	msgEnded              = "voice session ended and resources released"
	msgEndedAfterError    = "session closed after an error and local resources were released"
)

var errCallReleased = errors.New("call was released before it finished starting")

type Credentials struct {
	APIKey  string
	AgentID string
}

func (c Credentials) complete() bool {
	return strings.TrimSpace(c.APIKey) != "" && strings.TrimSpace(c.AgentID) != ""
}

type Manager struct {
	log    *zap.Logger
	logs   ports.VoiceLogStore
	api    ports.VoiceSessionAPI
	audio  ports.AudioInput
	peers  ports.PeerFactory
	dialer ports.SignalingDialer
	creds  Credentials
	now    func() time.Time

	mu       sync.Mutex
	current  *call
	snapshot models.CallSnapshot
}

func NewManager(
	log *zap.Logger,
	logs ports.VoiceLogStore,
	api ports.VoiceSessionAPI,
	audio ports.AudioInput,
	peers ports.PeerFactory,
	dialer ports.SignalingDialer,
	creds Credentials,
) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{
		log:      log,
		logs:     logs,
		api:      api,
		audio:    audio,
		peers:    peers,
		dialer:   dialer,
		creds:    creds,
		now:      time.Now,
		snapshot: models.CallSnapshot{Status: models.CallStatusIdle},
	}
}

func (m *Manager) Snapshot() models.CallSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot
}

// Start opens a call and returns once the signaling socket is connected.
// The call outlives ctx; only Hangup, Close or a socket failure end it.
func (m *Manager) Start(ctx context.Context) (models.CallSnapshot, error) {
	const op = "voice.Start"

	ctx, span := otel.Tracer("fan-companion/voice").Start(ctx, op)
	defer span.End()

	if !m.creds.complete() {
		m.mu.Lock()
		if m.current == nil {
			m.snapshot = models.CallSnapshot{Status: models.CallStatusError, Error: msgMissingCredentials}
		}
		m.mu.Unlock()

		m.record(ctx, models.LogLevelError, msgMissingCredentials, "")
		span.SetStatus(codes.Error, msgMissingCredentials)
		return m.Snapshot(), fmt.Errorf("%s: %w", op, derr.ErrMissingCredentials)
	}

	c, err := m.reserve()
	if err != nil {
		return m.Snapshot(), fmt.Errorf("%s: %w", op, err)
	}
	span.SetAttributes(attribute.String("call_id", c.id))

	m.record(ctx, models.LogLevelInfo, msgStarting, "")

	if err := m.connect(ctx, c); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		m.fail(ctx, c, err, msgStartFailed)
		return m.Snapshot(), fmt.Errorf("%s: %w", op, err)
	}

	return m.Snapshot(), nil
}

// Hangup ends the active call. Only an established call can be hung up.
func (m *Manager) Hangup(ctx context.Context) (models.CallSnapshot, error) {
	m.mu.Lock()
	c := m.current
	inCall := c != nil && m.snapshot.Status == models.CallStatusInCall
	m.mu.Unlock()

	if !inCall {
		return m.Snapshot(), fmt.Errorf("voice.Hangup: %w", derr.ErrNoActiveCall)
	}

	m.cleanup(ctx, c, false)
	return m.Snapshot(), nil
}

// Close releases whatever call is in flight. Used on service shutdown.
func (m *Manager) Close(ctx context.Context) {
	m.mu.Lock()
	c := m.current
	m.mu.Unlock()

	if c != nil {
		m.cleanup(ctx, c, false)
	}
}

func (m *Manager) reserve() (*call, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != nil {
		return nil, derr.ErrCallInProgress
	}

	c := &call{id: uuid.NewString()}
	m.current = c
	m.snapshot = models.CallSnapshot{
		ID:        c.id,
		Status:    models.CallStatusInitializing,
		StartedAt: m.now().UTC(),
	}

	return c, nil
}

func (m *Manager) connect(ctx context.Context, c *call) error {
	audio, err := m.audio.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire audio input: %w", err)
	}
	if err := c.attachAudio(audio); err != nil {
		return err
	}
	m.record(ctx, models.LogLevelInfo, msgAudioAcquired, "")

	session, err := m.api.CreateConversation(ctx, m.creds.AgentID)
	if err != nil {
		m.recordRejection(ctx, msgCreateRejected, err)
		return fmt.Errorf("create conversation: %w", err)
	}
	m.record(ctx, models.LogLevelInfo, msgSessionCreated, "")
	m.update(c, func(s *models.CallSnapshot) { s.ConversationID = session.ConversationID })

	peer, err := m.peers.NewPeer(session.ICEServers, audio)
	if err != nil {
		return fmt.Errorf("create peer connection: %w", err)
	}
	if err := c.attachPeer(peer); err != nil {
		return err
	}

	offer, err := peer.CreateOffer(ctx)
	if err != nil {
		return fmt.Errorf("create sdp offer: %w", err)
	}

	answer, err := m.api.NegotiateSDP(ctx, session, offer)
	if err != nil {
		m.recordRejection(ctx, msgSDPRejected, err)
		return fmt.Errorf("negotiate sdp: %w", err)
	}
	if answer.SDP != "" && answer.Type != "" {
		if err := peer.SetAnswer(answer); err != nil {
			return fmt.Errorf("apply sdp answer: %w", err)
		}
	}
	m.record(ctx, models.LogLevelInfo, msgSDPCompleted, "")

	socketURL, err := signalingURL(session)
	if err != nil {
		return err
	}
	conn, err := m.dialer.Dial(ctx, socketURL)
	if err != nil {
		return fmt.Errorf("open signaling socket: %w", err)
	}
	if err := c.attachConn(conn); err != nil {
		return err
	}

	if !m.update(c, func(s *models.CallSnapshot) {
		s.Status = models.CallStatusInCall
		s.Error = ""
	}) {
		return errCallReleased
	}
	m.record(ctx, models.LogLevelInfo, msgSocketConnected, "")

	go m.watch(context.WithoutCancel(ctx), c, conn)

	return nil
}

func (m *Manager) watch(ctx context.Context, c *call, conn ports.SignalingConn) {
	err := conn.Wait()
	if c.isReleased() {
		return
	}

	if err != nil {
		m.fail(ctx, c, err, msgUnstable)
		return
	}
	m.cleanup(ctx, c, false)
}

// fail moves the call into the error state and releases it. The snapshot
// error carries a user-facing message; the log keeps the cause.
func (m *Manager) fail(ctx context.Context, c *call, cause error, logMessage string) {
	message := describeFailure(cause)
	details := message
	if logMessage == msgUnstable {
		message = msgUnstable
		details = cause.Error()
	}

	if m.update(c, func(s *models.CallSnapshot) {
		s.Status = models.CallStatusError
		s.Error = message
	}) {
		m.record(ctx, models.LogLevelError, logMessage, details)
	}

	m.cleanup(ctx, c, true)
}

// cleanup is the only path that releases call resources. It runs at most once
// per call; keepStatus leaves an error snapshot visible to clients.
func (m *Manager) cleanup(ctx context.Context, c *call, keepStatus bool) {
	released, err := c.release()
	if !released {
		return
	}
	if err != nil {
		m.log.Warn("voice resources released with errors", zap.String("call_id", c.id), zap.Error(err))
	}

	m.mu.Lock()
	if m.current == c {
		m.current = nil
		if !keepStatus {
			m.snapshot = models.CallSnapshot{Status: models.CallStatusIdle}
		}
	}
	m.mu.Unlock()

	if keepStatus {
		m.record(ctx, models.LogLevelError, msgEndedAfterError, "")
		return
	}
	m.record(ctx, models.LogLevelInfo, msgEnded, "")
}

// update applies fn to the snapshot if c is still the current call.
func (m *Manager) update(c *call, fn func(*models.CallSnapshot)) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != c {
		return false
	}
	fn(&m.snapshot)
	return true
}

func (m *Manager) record(ctx context.Context, level models.LogLevel, message, details string) {
	fields := []zap.Field{zap.String("component", "voice")}
	if details != "" {
		fields = append(fields, zap.String("details", details))
	}
	if level == models.LogLevelError {
		m.log.Error(message, fields...)
	} else {
		m.log.Info(message, fields...)
	}

	if m.logs == nil {
		return
	}
	entry := models.VoiceLogEntry{
		Timestamp: m.now().UTC(),
		Level:     level,
		Message:   message,
		Details:   details,
	}
	if _, err := m.logs.Append(context.WithoutCancel(ctx), entry); err != nil {
		m.log.Warn("voice log append failed", zap.Error(err))
	}
}

// recordRejection logs a non-2xx answer from the voice agent with its raw
// body, or the formatted message when the body is empty.
func (m *Manager) recordRejection(ctx context.Context, message string, err error) {
	var upstream *derr.UpstreamError
	if !errors.As(err, &upstream) {
		return
	}
	details := upstream.Body
	if details == "" {
		details = upstream.Message
	}
	m.record(ctx, models.LogLevelError, message, details)
}

func describeFailure(err error) string {
	var upstream *derr.UpstreamError
	if errors.As(err, &upstream) {
		return upstream.Message
	}
	return err.Error()
}

func signalingURL(session models.VoiceSession) (string, error) {
	if strings.TrimSpace(session.WebsocketURL) == "" {
		return "", errors.New("voice agent did not return a signaling url")
	}

	u, err := url.Parse(session.WebsocketURL)
	if err != nil {
		return "", fmt.Errorf("parse signaling url: %w", err)
	}
	q := u.Query()
	q.Set("conversation_id", session.ConversationID)
	u.RawQuery = q.Encode()

	return u.String(), nil
}
