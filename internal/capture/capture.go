// Package capture turns a live microphone stream into a single finalized
// audio payload. Recording ends automatically after a pause: a periodic task
// samples the stream's loudness and arms a countdown whenever it drops below
// the silence threshold. Manual stop remains available.
package capture

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

const (
	// DefaultSilenceThreshold is the RMS level below which the user is
	// considered to have stopped speaking. Empirical, not derived.
	DefaultSilenceThreshold = 0.01
	// DefaultSilenceWindow is how long loudness must stay below the
	// threshold before recording stops on its own.
	DefaultSilenceWindow = 2 * time.Second
	// DefaultPollInterval is how often the loudness tap is sampled.
	DefaultPollInterval = 50 * time.Millisecond
)

var (
	// ErrPermissionDenied is returned when the platform refuses microphone
	// access.
	ErrPermissionDenied = errors.New("microphone permission denied")
	// ErrEmptyRecording is returned when a finished session produced zero
	// bytes of audio.
	ErrEmptyRecording = errors.New("empty recording")
	// ErrRecorderBusy is returned when Start is called while a session is
	// already active.
	ErrRecorderBusy = errors.New("recording already in progress")
)

// State is the recorder's position in its lifecycle.
type State int

const (
	StateIdle State = iota
	StateRequesting
	StateRecording
	StateStopping
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRequesting:
		return "requesting"
	case StateRecording:
		return "recording"
	case StateStopping:
		return "stopping"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Microphone acquires an audio stream. Implementations return
// ErrPermissionDenied when access is refused.
type Microphone interface {
	Open(ctx context.Context) (Stream, error)
}

// Stream is a live audio source. Chunks carries the encoded recording data
// and is closed when the stream ends; Samples exposes the most recent frame
// of normalized amplitudes (-1..1) for the loudness tap.
type Stream interface {
	MIME() string
	Chunks() <-chan []byte
	Samples() []float64
	Close() error
}

// Result is delivered exactly once per session, when it ends.
type Result struct {
	Payload Payload
	Err     error
}

// Config tunes a Recorder. Zero values fall back to the defaults.
type Config struct {
	SilenceThreshold float64
	SilenceWindow    time.Duration
	PollInterval     time.Duration
}

func (c Config) withDefaults() Config {
	if c.SilenceThreshold == 0 {
		c.SilenceThreshold = DefaultSilenceThreshold
	}
	if c.SilenceWindow == 0 {
		c.SilenceWindow = DefaultSilenceWindow
	}
	if c.PollInterval == 0 {
		c.PollInterval = DefaultPollInterval
	}
	return c
}

// Recorder drives the capture state machine. At most one session can be
// active at a time.
type Recorder struct {
	mic Microphone
	cfg Config

	mu      sync.Mutex
	state   State
	stop    chan struct{}
	stopped bool
}

// NewRecorder creates a recorder over the given microphone.
func NewRecorder(mic Microphone, cfg Config) *Recorder {
	return &Recorder{mic: mic, cfg: cfg.withDefaults()}
}

// State returns the recorder's current state.
func (r *Recorder) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Start begins a capture session. It blocks only for microphone acquisition;
// the returned channel receives exactly one Result when the session ends,
// whether it stopped on silence, by Stop, or with an error.
//
// Permission denial and an empty recording are terminal for the session: the
// recorder returns to idle and the caller may Start again.
func (r *Recorder) Start(ctx context.Context) (<-chan Result, error) {
	r.mu.Lock()
	if r.state != StateIdle {
		r.mu.Unlock()
		return nil, ErrRecorderBusy
	}
	r.state = StateRequesting
	r.mu.Unlock()

	stream, err := r.mic.Open(ctx)
	if err != nil {
		r.setState(StateIdle)
		return nil, fmt.Errorf("open microphone: %w", err)
	}

	r.mu.Lock()
	r.state = StateRecording
	r.stop = make(chan struct{})
	r.stopped = false
	r.mu.Unlock()

	results := make(chan Result, 1)
	go r.run(stream, r.stop, results)
	return results, nil
}

// Stop ends the active session manually. It is a no-op unless recording.
func (r *Recorder) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateRecording || r.stopped {
		return
	}
	r.stopped = true
	close(r.stop)
}

func (r *Recorder) setState(s State) {
	r.mu.Lock()
	r.state = s
	r.mu.Unlock()
}

// run is the session body: it accumulates chunks, samples loudness on every
// tick and manages the single silence countdown. All acquired resources are
// released on every exit path.
func (r *Recorder) run(stream Stream, stop <-chan struct{}, results chan<- Result) {
	var chunks [][]byte

	ticker := time.NewTicker(r.cfg.PollInterval)

	// at most one countdown is outstanding at any moment
	var silence *time.Timer
	var elapsed <-chan time.Time

	cancelCountdown := func() {
		if silence != nil {
			silence.Stop()
			silence = nil
			elapsed = nil
		}
	}

loop:
	for {
		select {
		case chunk, ok := <-stream.Chunks():
			if !ok {
				// source ended on its own
				break loop
			}
			chunks = append(chunks, chunk)
		case <-ticker.C:
			if rms(stream.Samples()) < r.cfg.SilenceThreshold {
				if silence == nil {
					silence = time.NewTimer(r.cfg.SilenceWindow)
					elapsed = silence.C
				}
			} else {
				cancelCountdown()
			}
		case <-elapsed:
			silence = nil
			elapsed = nil
			break loop
		case <-stop:
			break loop
		}
	}

	// Stopping: tear everything down unconditionally, however the loop was
	// left.
	r.setState(StateStopping)
	ticker.Stop()
	cancelCountdown()
	_ = stream.Close()
	chunks = append(chunks, drain(stream.Chunks())...)

	result := Result{}
	payload := assemble(stream.MIME(), chunks)
	if len(payload.Data) == 0 {
		result.Err = ErrEmptyRecording
	} else {
		result.Payload = payload
	}

	r.setState(StateIdle)
	results <- result
}

// drain collects whatever encoded data is still buffered after the stream
// has been closed.
func drain(ch <-chan []byte) [][]byte {
	var rest [][]byte
	for chunk := range ch {
		rest = append(rest, chunk)
	}
	return rest
}

func assemble(mime string, chunks [][]byte) Payload {
	size := 0
	for _, c := range chunks {
		size += len(c)
	}
	data := make([]byte, 0, size)
	for _, c := range chunks {
		data = append(data, c...)
	}
	return Payload{MIME: mime, Data: data}
}
