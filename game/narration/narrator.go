package narration

import (
	"context"
	"log"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/wricardo/arrowbot/game/feedback"
)

// SoundCue names a short sound effect the client plays
type SoundCue string

const (
	SoundClick   SoundCue = "click"
	SoundDelete  SoundCue = "delete"
	SoundStep    SoundCue = "step"
	SoundBonk    SoundCue = "bonk"
	SoundWin     SoundCue = "win"
	SoundVictory SoundCue = "victory"
)

// MessageType tells clients how to present a Message
type MessageType string

const (
	MessageNarration MessageType = "narration"
	MessageSound     MessageType = "sound"
	MessageReward    MessageType = "reward"
)

// Message is what a Narrator publishes
type Message struct {
	Type     MessageType `json:"type"`
	Text     string      `json:"text,omitempty"`
	Sound    SoundCue    `json:"sound,omitempty"`
	Audio    []byte      `json:"audio,omitempty"` // 24kHz mono 16-bit PCM
	Image    []byte      `json:"image,omitempty"`
	MIMEType string      `json:"mime_type,omitempty"`
}

// Publisher delivers messages to a session's clients. Publish must not block.
type Publisher interface {
	Publish(sessionID string, msg Message)
}

// PublisherFunc adapts a function to Publisher
type PublisherFunc func(sessionID string, msg Message)

func (f PublisherFunc) Publish(sessionID string, msg Message) { f(sessionID, msg) }

// Voice synthesizes speech and images
type Voice interface {
	Speak(ctx context.Context, text string) ([]byte, error)
	Sticker(ctx context.Context, subject string) ([]byte, string, error)
}

// DefaultJobQueueSize bounds the speech/sticker backlog
const DefaultJobQueueSize = 16

// DefaultJobTimeout bounds a single Voice call
const DefaultJobTimeout = 30 * time.Second

type job struct {
	msg     Message
	sticker bool
}

// Option configures a Narrator
type Option func(*Narrator)

// WithVoice enables speech and sticker generation
func WithVoice(v Voice) Option {
	return func(n *Narrator) { n.voice = v }
}

// WithRand sets the source used to pick phrases
func WithRand(r *rand.Rand) Option {
	return func(n *Narrator) { n.rand = r }
}

// WithQueueSize sets the job queue capacity
func WithQueueSize(size int) Option {
	return func(n *Narrator) {
		if size > 0 {
			n.queueSize = size
		}
	}
}

// WithJobTimeout bounds every Voice call
func WithJobTimeout(d time.Duration) Option {
	return func(n *Narrator) {
		if d > 0 {
			n.timeout = d
		}
	}
}

// Narrator reacts to one session's feedback events
type Narrator struct {
	feedback.Emitter

	sessionID  string
	levelCount int
	publisher  Publisher
	voice      Voice
	timeout    time.Duration
	queueSize  int

	randMu sync.Mutex
	rand   *rand.Rand

	ctx     context.Context
	cancel  context.CancelFunc
	mu      sync.RWMutex
	closed  bool
	jobs    chan job
	done    chan struct{}
	once    sync.Once
	dropped atomic.Int64
}

// New creates a narrator for a session playing a catalog of levelCount
// levels. Call Close when the session ends.
func New(sessionID string, levelCount int, pub Publisher, opts ...Option) *Narrator {
	n := &Narrator{
		sessionID:  sessionID,
		levelCount: levelCount,
		publisher:  pub,
		timeout:    DefaultJobTimeout,
		queueSize:  DefaultJobQueueSize,
	}
	for _, opt := range opts {
		opt(n)
	}
	if n.publisher == nil {
		n.publisher = PublisherFunc(func(string, Message) {})
	}
	if n.rand == nil {
		n.rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	n.ctx, n.cancel = context.WithCancel(context.Background())
	n.jobs = make(chan job, n.queueSize)
	n.done = make(chan struct{})
	n.Emitter = n.handle

	go n.loop()
	return n
}

func (n *Narrator) handle(e feedback.Event) {
	switch e.Type {
	case feedback.EventInstructionAdded:
		n.sound(SoundClick)
	case feedback.EventInstructionsClear:
		n.sound(SoundDelete)
	case feedback.EventStepStarted:
		n.sound(SoundStep)
	case feedback.EventCrashed:
		n.sound(SoundBonk)
		n.say(n.pick(tryAgainPhrases))
	case feedback.EventGoalMissed:
		n.say(nearMissPhrase)
	case feedback.EventSucceeded:
		// the finale covers the last level
		if e.LevelIndex >= n.levelCount-1 {
			return
		}
		n.sound(SoundWin)
		n.say(n.pick(encouragingPhrases) + nextLevelSuffix)
	case feedback.EventAllLevelsCleared:
		n.sound(SoundVictory)
		n.say(finale(n.levelCount))
		n.enqueue(job{msg: Message{Type: MessageReward, Text: finale(n.levelCount)}, sticker: true})
	}
}

func (n *Narrator) pick(phrases []string) string {
	n.randMu.Lock()
	defer n.randMu.Unlock()
	return phrases[n.rand.Intn(len(phrases))]
}

func (n *Narrator) sound(cue SoundCue) {
	n.publisher.Publish(n.sessionID, Message{Type: MessageSound, Sound: cue})
}

func (n *Narrator) say(text string) {
	n.enqueue(job{msg: Message{Type: MessageNarration, Text: text}})
}

func (n *Narrator) enqueue(j job) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.closed {
		return
	}

	select {
	case n.jobs <- j:
	default:
		n.dropped.Add(1)
		log.Printf("Warning: narration queue full for session %s, dropped %s", n.sessionID, j.msg.Type)
	}
}

func (n *Narrator) loop() {
	defer close(n.done)
	for j := range n.jobs {
		n.run(j)
	}
}

// run fills in audio or image when a voice is configured. Voice errors are
// logged and the text-only message is still published.
func (n *Narrator) run(j job) {
	msg := j.msg
	if n.voice != nil && n.ctx.Err() == nil {
		ctx, cancel := context.WithTimeout(n.ctx, n.timeout)
		if j.sticker {
			img, mime, err := n.voice.Sticker(ctx, stickerSubject)
			if err != nil {
				log.Printf("[NARRATION] %s: sticker generation failed: %v", n.sessionID, err)
			} else {
				msg.Image, msg.MIMEType = img, mime
			}
		} else {
			audio, err := n.voice.Speak(ctx, msg.Text)
			if err != nil {
				log.Printf("[NARRATION] %s: speech failed, sending text only: %v", n.sessionID, err)
			} else {
				msg.Audio, msg.MIMEType = audio, "audio/L16;rate=24000"
			}
		}
		cancel()
	}
	n.publisher.Publish(n.sessionID, msg)
}

// Dropped returns the number of jobs discarded because the queue was full
func (n *Narrator) Dropped() int {
	return int(n.dropped.Load())
}

// Flush stops accepting events and waits for queued jobs to be published
func (n *Narrator) Flush() {
	n.once.Do(func() {
		n.mu.Lock()
		n.closed = true
		close(n.jobs)
		n.mu.Unlock()
	})
	<-n.done
}

// Close cancels Voice calls in progress and waits for the worker to exit
func (n *Narrator) Close() {
	n.cancel()
	n.Flush()
}

var _ feedback.Channel = (*Narrator)(nil)
