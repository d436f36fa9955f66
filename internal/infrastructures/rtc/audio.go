package rtc

import (
	"context"
	"sync"
	"time"

	"github.com/ozzus/fan-companion/internal/domain/ports"
	"github.com/pion/webrtc/v4"
	"github.com/pion/webrtc/v4/pkg/media"
	"go.uber.org/zap"
)

const frameDuration = 20 * time.Millisecond

// opusSilence is a single 20 ms Opus frame that decodes to silence.
var opusSilence = []byte{0xf8, 0xff, 0xfe}

// FrameSource yields encoded Opus frames, one per 20 ms tick. A nil frame
// means nothing to send on this tick.
type FrameSource interface {
	NextFrame() []byte
}

type silenceSource struct{}

func (silenceSource) NextFrame() []byte { return opusSilence }

// TrackInput hands out one local Opus track per call, fed from a FrameSource.
type TrackInput struct {
	log    *zap.Logger
	source func() FrameSource
}

func NewTrackInput(log *zap.Logger, source func() FrameSource) *TrackInput {
	if log == nil {
		log = zap.NewNop()
	}
	if source == nil {
		source = func() FrameSource { return silenceSource{} }
	}
	return &TrackInput{log: log, source: source}
}

func (in *TrackInput) Acquire(ctx context.Context) (ports.LocalAudio, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	track, err := webrtc.NewTrackLocalStaticSample(
		webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeOpus, ClockRate: 48000, Channels: 2},
		"audio",
		"fan-companion",
	)
	if err != nil {
		return nil, err
	}

	a := &Audio{
		log:    in.log,
		track:  track,
		source: in.source(),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go a.pump()

	return a, nil
}

// Audio is the local side of a call. Stop ends the frame pump; it is safe to
// call more than once.
type Audio struct {
	log    *zap.Logger
	track  *webrtc.TrackLocalStaticSample
	source FrameSource

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

func (a *Audio) Track() webrtc.TrackLocal {
	return a.track
}

func (a *Audio) Stop() error {
	a.stopOnce.Do(func() {
		close(a.stop)
		<-a.done
	})
	return nil
}

func (a *Audio) pump() {
	defer close(a.done)

	ticker := time.NewTicker(frameDuration)
	defer ticker.Stop()

	for {
		select {
		case <-a.stop:
			return
		case <-ticker.C:
			frame := a.source.NextFrame()
			if frame == nil {
				continue
			}
			if err := a.track.WriteSample(media.Sample{Data: frame, Duration: frameDuration}); err != nil {
				a.log.Debug("write audio sample", zap.Error(err))
			}
		}
	}
}
