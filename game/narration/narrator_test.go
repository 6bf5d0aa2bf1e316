package narration

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"sync"
	"testing"

	"github.com/wricardo/arrowbot/game/engine"
)

// recordingPublisher collects published messages
type recordingPublisher struct {
	mu       sync.Mutex
	messages []Message
	sessions []string
}

func (p *recordingPublisher) Publish(sessionID string, msg Message) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sessions = append(p.sessions, sessionID)
	p.messages = append(p.messages, msg)
}

func (p *recordingPublisher) byType(t MessageType) []Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []Message
	for _, m := range p.messages {
		if m.Type == t {
			out = append(out, m)
		}
	}
	return out
}

func (p *recordingPublisher) sounds() []SoundCue {
	var out []SoundCue
	for _, m := range p.byType(MessageSound) {
		out = append(out, m.Sound)
	}
	return out
}

// fakeVoice returns fixed bytes or a configured error
type fakeVoice struct {
	mu      sync.Mutex
	spoken  []string
	err     error
	block   chan struct{}
	started chan struct{}
}

func (v *fakeVoice) Speak(ctx context.Context, text string) ([]byte, error) {
	if v.started != nil {
		v.started <- struct{}{}
	}
	if v.block != nil {
		select {
		case <-v.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	v.mu.Lock()
	v.spoken = append(v.spoken, text)
	v.mu.Unlock()
	if v.err != nil {
		return nil, v.err
	}
	return []byte("pcm:" + text), nil
}

func (v *fakeVoice) Sticker(ctx context.Context, subject string) ([]byte, string, error) {
	if v.err != nil {
		return nil, "", v.err
	}
	return []byte("png"), "image/png", nil
}

func TestSoundCues(t *testing.T) {
	pub := &recordingPublisher{}
	n := New("abcd", 3, pub)

	n.OnInstructionAdded(engine.Right)
	n.OnInstructionsCleared()
	n.OnStepStarted(0)
	n.OnStepLanded(engine.Position{X: 1, Y: 0})
	n.OnCrashed(1, engine.Position{X: 1, Y: 0})
	n.Flush()

	expected := []SoundCue{SoundClick, SoundDelete, SoundStep, SoundBonk}
	got := pub.sounds()
	if len(got) != len(expected) {
		t.Fatalf("Expected sounds %v, got %v", expected, got)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("Sound %d: expected %s, got %s", i, expected[i], got[i])
		}
	}

	for _, id := range pub.sessions {
		if id != "abcd" {
			t.Errorf("Expected session abcd, got %s", id)
		}
	}
}

func TestPhrases(t *testing.T) {
	pub := &recordingPublisher{}
	n := New("abcd", 3, pub)

	n.OnCrashed(0, engine.Position{})
	n.OnGoalMissed(engine.Position{X: 2, Y: 2})
	n.OnSucceeded(0)
	n.Flush()

	narrations := pub.byType(MessageNarration)
	if len(narrations) != 3 {
		t.Fatalf("Expected 3 narrations, got %d", len(narrations))
	}

	if !contains(tryAgainPhrases, narrations[0].Text) {
		t.Errorf("Expected a try-again phrase, got %q", narrations[0].Text)
	}
	if narrations[1].Text != nearMissPhrase {
		t.Errorf("Expected near-miss phrase, got %q", narrations[1].Text)
	}
	if !strings.HasSuffix(narrations[2].Text, nextLevelSuffix) {
		t.Errorf("Expected encouragement with next-level suffix, got %q", narrations[2].Text)
	}
	if sounds := pub.sounds(); len(sounds) != 2 || sounds[1] != SoundWin {
		t.Errorf("Expected bonk then win, got %v", sounds)
	}
}

func TestDeterministicPhrases(t *testing.T) {
	pick := func() string {
		pub := &recordingPublisher{}
		n := New("abcd", 3, pub, WithRand(rand.New(rand.NewSource(42))))
		n.OnCrashed(0, engine.Position{})
		n.OnSucceeded(1)
		n.Flush()

		var texts []string
		for _, m := range pub.byType(MessageNarration) {
			texts = append(texts, m.Text)
		}
		return strings.Join(texts, "|")
	}

	if a, b := pick(), pick(); a != b {
		t.Errorf("Expected identical phrases for the same seed, got %q and %q", a, b)
	}
}

func TestFinale(t *testing.T) {
	pub := &recordingPublisher{}
	n := New("abcd", 30, pub, WithVoice(&fakeVoice{}))

	// the final success is narrated by the finale only
	n.OnSucceeded(29)
	n.OnAllLevelsCleared()
	n.Flush()

	sounds := pub.sounds()
	if len(sounds) != 1 || sounds[0] != SoundVictory {
		t.Errorf("Expected only the victory sound, got %v", sounds)
	}

	narrations := pub.byType(MessageNarration)
	if len(narrations) != 1 || !strings.Contains(narrations[0].Text, "30") {
		t.Fatalf("Expected the finale phrase, got %+v", narrations)
	}
	if string(narrations[0].Audio) != "pcm:"+narrations[0].Text {
		t.Errorf("Expected synthesized audio, got %q", narrations[0].Audio)
	}

	rewards := pub.byType(MessageReward)
	if len(rewards) != 1 || string(rewards[0].Image) != "png" || rewards[0].MIMEType != "image/png" {
		t.Errorf("Expected a reward sticker, got %+v", rewards)
	}
}

func TestVoiceFailureFallsBackToText(t *testing.T) {
	pub := &recordingPublisher{}
	n := New("abcd", 2, pub, WithVoice(&fakeVoice{err: errors.New("quota exceeded")}))

	n.OnGoalMissed(engine.Position{})
	n.OnAllLevelsCleared()
	n.Flush()

	narrations := pub.byType(MessageNarration)
	if len(narrations) != 2 {
		t.Fatalf("Expected 2 narrations, got %d", len(narrations))
	}
	for _, m := range narrations {
		if m.Text == "" || m.Audio != nil {
			t.Errorf("Expected text-only narration, got %+v", m)
		}
	}

	rewards := pub.byType(MessageReward)
	if len(rewards) != 1 || rewards[0].Image != nil || rewards[0].Text == "" {
		t.Errorf("Expected text-only reward, got %+v", rewards)
	}
}

func TestQueueFullDropsWithoutBlocking(t *testing.T) {
	voice := &fakeVoice{block: make(chan struct{}), started: make(chan struct{}, 1)}
	pub := &recordingPublisher{}
	n := New("abcd", 3, pub, WithVoice(voice), WithQueueSize(2))

	// first job occupies the worker
	n.OnGoalMissed(engine.Position{})
	<-voice.started
	voice.started = nil

	for i := 0; i < 5; i++ {
		n.OnGoalMissed(engine.Position{})
	}

	if n.Dropped() != 3 {
		t.Errorf("Expected 3 dropped jobs, got %d", n.Dropped())
	}

	close(voice.block)
	n.Flush()

	if got := len(pub.byType(MessageNarration)); got != 3 {
		t.Errorf("Expected 3 narrations, got %d", got)
	}
}

func TestCloseIgnoresLaterEvents(t *testing.T) {
	pub := &recordingPublisher{}
	n := New("abcd", 3, pub)
	n.Close()

	n.OnGoalMissed(engine.Position{})
	n.Close()

	if len(pub.byType(MessageNarration)) != 0 {
		t.Error("Expected no narration after Close")
	}
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
