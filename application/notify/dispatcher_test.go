package notify

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"askbox-backend/application/ports"
	"askbox-backend/domain/core/entities"
)

// fakeRegistry is an in-memory SubscriptionRepository keyed by endpoint
type fakeRegistry struct {
	mu   sync.Mutex
	subs map[string]*entities.PushSubscription
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{subs: make(map[string]*entities.PushSubscription)}
}

func (f *fakeRegistry) Upsert(_ context.Context, sub *entities.PushSubscription) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if prior, ok := f.subs[sub.Endpoint()]; ok {
		sub.Renew(prior)
	}
	f.subs[sub.Endpoint()] = sub
	return nil
}

func (f *fakeRegistry) GetByEndpoint(_ context.Context, endpoint string) (*entities.PushSubscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sub, ok := f.subs[endpoint]
	if !ok {
		return nil, nil
	}
	return sub, nil
}

func (f *fakeRegistry) GetByOwner(_ context.Context, ownerID string) ([]*entities.PushSubscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entities.PushSubscription
	for _, sub := range f.subs {
		if sub.OwnerID() == ownerID {
			out = append(out, sub)
		}
	}
	return out, nil
}

func (f *fakeRegistry) Delete(_ context.Context, ownerID, endpoint string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if sub, ok := f.subs[endpoint]; ok && sub.OwnerID() == ownerID {
		delete(f.subs, endpoint)
	}
	return nil
}

func (f *fakeRegistry) DeleteByEndpoint(_ context.Context, endpoint string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.subs, endpoint)
	return nil
}

func (f *fakeRegistry) TouchValid(_ context.Context, endpoint string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if sub, ok := f.subs[endpoint]; ok {
		sub.MarkValid(at)
	}
	return nil
}

// scriptedSender fails for configured endpoints and records every attempt
type scriptedSender struct {
	mu        sync.Mutex
	attempts  []string
	permanent map[string]bool
	transient map[string]bool
}

func newScriptedSender() *scriptedSender {
	return &scriptedSender{
		permanent: make(map[string]bool),
		transient: make(map[string]bool),
	}
}

func (s *scriptedSender) Send(_ context.Context, sub *entities.PushSubscription, _ []byte) error {
	s.mu.Lock()
	s.attempts = append(s.attempts, sub.Endpoint())
	s.mu.Unlock()

	if s.permanent[sub.Endpoint()] {
		return ports.ErrEndpointGone
	}
	if s.transient[sub.Endpoint()] {
		return errors.New("relay 503")
	}
	return nil
}

func (s *scriptedSender) attemptCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.attempts)
}

func subscribe(t *testing.T, reg *fakeRegistry, owner, endpoint string) {
	t.Helper()
	sub, err := entities.NewPushSubscription(owner, endpoint, entities.SubscriptionKeys{P256dh: "p", Auth: "a"})
	require.NoError(t, err)
	require.NoError(t, reg.Upsert(context.Background(), sub))
}

func TestDispatchNoSubscribers(t *testing.T) {
	reg := newFakeRegistry()
	sender := newScriptedSender()
	d := NewDispatcher(reg, sender, zap.NewNop())

	report, err := d.Dispatch(context.Background(), NewAnswer{QuestionID: "q1", AskerID: "alice"})
	require.NoError(t, err)

	assert.True(t, report.NoSubscribers)
	assert.Zero(t, sender.attemptCount(), "no network call without subscribers")
}

func TestDispatchNoStoredAsker(t *testing.T) {
	reg := newFakeRegistry()
	sender := newScriptedSender()
	d := NewDispatcher(reg, sender, zap.NewNop())

	// Question asked without authentication: nobody to notify
	report, err := d.Dispatch(context.Background(), NewAnswer{QuestionID: "q1"})
	require.NoError(t, err)

	assert.True(t, report.NoSubscribers)
	assert.Zero(t, sender.attemptCount())
}

func TestDispatchFanOut(t *testing.T) {
	reg := newFakeRegistry()
	sender := newScriptedSender()
	d := NewDispatcher(reg, sender, zap.NewNop())

	subscribe(t, reg, "bob", "https://push.example.com/ep/1")
	subscribe(t, reg, "bob", "https://push.example.com/ep/2")
	subscribe(t, reg, "carol", "https://push.example.com/ep/3")

	report, err := d.Dispatch(context.Background(), NewQuestion{QuestionID: "q1", RecipientID: "bob", Preview: "생일 축하해!"})
	require.NoError(t, err)

	assert.Equal(t, 2, report.Sent, "only bob's devices are targeted")
	assert.Equal(t, 2, sender.attemptCount())
	assert.False(t, report.NoSubscribers)
}

func TestDispatchIsolatesFailures(t *testing.T) {
	reg := newFakeRegistry()
	sender := newScriptedSender()
	d := NewDispatcher(reg, sender, zap.NewNop())

	endpoints := []string{
		"https://push.example.com/ep/1",
		"https://push.example.com/ep/2",
		"https://push.example.com/ep/3",
		"https://push.example.com/ep/4",
	}
	for _, ep := range endpoints {
		subscribe(t, reg, "bob", ep)
	}
	sender.permanent[endpoints[1]] = true
	sender.transient[endpoints[2]] = true

	report, err := d.Dispatch(context.Background(), NewQuestion{QuestionID: "q1", RecipientID: "bob"})
	require.NoError(t, err)

	assert.Equal(t, len(endpoints), sender.attemptCount(), "every subscription is attempted")
	assert.Equal(t, 2, report.Sent)
	assert.Equal(t, 1, report.FailedTransient)
	assert.Equal(t, 1, report.RemovedExpired)

	// Exactly the permanently-failing endpoint was pruned
	remaining, err := reg.GetByOwner(context.Background(), "bob")
	require.NoError(t, err)
	assert.Len(t, remaining, 3)
	for _, sub := range remaining {
		assert.NotEqual(t, endpoints[1], sub.Endpoint())
	}
}

func TestDispatchTransientFailureKeepsSubscription(t *testing.T) {
	reg := newFakeRegistry()
	sender := newScriptedSender()
	d := NewDispatcher(reg, sender, zap.NewNop())

	subscribe(t, reg, "bob", "https://push.example.com/ep/1")
	sender.transient["https://push.example.com/ep/1"] = true

	report, err := d.Dispatch(context.Background(), NewQuestion{QuestionID: "q1", RecipientID: "bob"})
	require.NoError(t, err)

	assert.Equal(t, 1, report.FailedTransient)
	remaining, err := reg.GetByOwner(context.Background(), "bob")
	require.NoError(t, err)
	assert.Len(t, remaining, 1, "transient failures never prune")
}

func TestPayloadSuppressesPreview(t *testing.T) {
	e := NewQuestion{QuestionID: "q1", RecipientID: "bob", Preview: "언제 결혼해?", SuppressPreview: true}

	raw, err := e.Payload().Encode()
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))

	assert.Equal(t, "New question", decoded["title"])
	assert.NotContains(t, decoded, "body_preview")
	assert.Empty(t, decoded["body"], "policy flag is honored without interpretation")
}

func TestPayloadNeverNamesSender(t *testing.T) {
	e := NewQuestion{QuestionID: "q1", RecipientID: "bob", Preview: "생일 축하해!"}

	raw, err := e.Payload().Encode()
	require.NoError(t, err)

	assert.NotContains(t, string(raw), "sender")
	assert.NotContains(t, string(raw), "alice")
}

func TestAnswerPayloadRoutesToQuestion(t *testing.T) {
	e := NewAnswer{QuestionID: "q1", AskerID: "alice", Preview: "고마워!"}
	p := e.Payload()

	assert.Equal(t, "/q/q1", p.URL)
	assert.Equal(t, "Your question was answered", p.Title)
	assert.Equal(t, "고마워!", p.Body)
}
