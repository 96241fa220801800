package handlers

import (
	"context"
	"sort"
	"sync"
	"time"

	"askbox-backend/application/ports"
	"askbox-backend/domain/core/entities"
	"askbox-backend/domain/core/valueobjects"
	"askbox-backend/domain/events"
	pkgerrors "askbox-backend/pkg/errors"
)

// fakeQuestionRepo is an in-memory QuestionRepository with the same
// conditional-write semantics as the DynamoDB implementation.
type fakeQuestionRepo struct {
	mu        sync.Mutex
	questions map[string]*entities.Question
	saveErr   error
}

func newFakeQuestionRepo() *fakeQuestionRepo {
	return &fakeQuestionRepo{questions: make(map[string]*entities.Question)}
}

func (r *fakeQuestionRepo) Save(ctx context.Context, q *entities.Question) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	if _, exists := r.questions[q.ID().String()]; exists {
		return pkgerrors.NewConflictError("question already exists")
	}
	r.questions[q.ID().String()] = q
	return nil
}

func (r *fakeQuestionRepo) GetByID(ctx context.Context, id valueobjects.QuestionID) (*entities.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.questions[id.String()]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("question not found")
	}
	return q, nil
}

func (r *fakeQuestionRepo) GetByRecipient(ctx context.Context, userID string, filter ports.QuestionFilter) ([]*entities.Question, error) {
	return r.collect(filter, func(q *entities.Question) bool { return q.RecipientID() == userID }), nil
}

func (r *fakeQuestionRepo) GetBySender(ctx context.Context, userID string, filter ports.QuestionFilter) ([]*entities.Question, error) {
	return r.collect(filter, func(q *entities.Question) bool { return q.StoredSenderID() == userID }), nil
}

func (r *fakeQuestionRepo) collect(filter ports.QuestionFilter, match func(*entities.Question) bool) []*entities.Question {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entities.Question
	for _, q := range r.questions {
		if !match(q) {
			continue
		}
		if filter.Answered != nil && q.IsAnswered() != *filter.Answered {
			continue
		}
		if filter.AttributedOnly && (q.IsAnonymous() || q.StoredSenderID() == "") {
			continue
		}
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt().After(out[j].CreatedAt()) })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out
}

func (r *fakeQuestionRepo) AttachAnswer(ctx context.Context, q *entities.Question, a *entities.Answer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.questions[q.ID().String()]
	if !ok {
		return pkgerrors.NewNotFoundError("question not found")
	}
	// Mirrors the store's condition check on a concurrent first answer
	if stored != q && stored.IsAnswered() {
		return pkgerrors.NewConflictError("question is already answered")
	}
	r.questions[q.ID().String()] = q
	return nil
}

// fakeUserRepo is an in-memory UserRepository
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*entities.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*entities.User)}
}

func (r *fakeUserRepo) Save(ctx context.Context, u *entities.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID()] = u
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("user not found")
	}
	return u, nil
}

func (r *fakeUserRepo) GetOrCreate(ctx context.Context, id string) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	u, err := entities.NewUser(id, "")
	if err != nil {
		return nil, err
	}
	r.users[id] = u
	return u, nil
}

// fakeSubscriptionRepo is an in-memory SubscriptionRepository keyed by
// endpoint, matching the registry's upsert and conditional-delete rules
type fakeSubscriptionRepo struct {
	mu   sync.Mutex
	subs map[string]*entities.PushSubscription
}

func newFakeSubscriptionRepo() *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{subs: make(map[string]*entities.PushSubscription)}
}

func (r *fakeSubscriptionRepo) Upsert(ctx context.Context, sub *entities.PushSubscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if prior, ok := r.subs[sub.Endpoint()]; ok {
		sub.Renew(prior)
	}
	r.subs[sub.Endpoint()] = sub
	return nil
}

func (r *fakeSubscriptionRepo) GetByEndpoint(ctx context.Context, endpoint string) (*entities.PushSubscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sub, ok := r.subs[endpoint]
	if !ok {
		return nil, pkgerrors.NewNotFoundError("subscription not found")
	}
	return sub, nil
}

func (r *fakeSubscriptionRepo) GetByOwner(ctx context.Context, ownerID string) ([]*entities.PushSubscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entities.PushSubscription
	for _, sub := range r.subs {
		if sub.OwnerID() == ownerID {
			out = append(out, sub)
		}
	}
	return out, nil
}

func (r *fakeSubscriptionRepo) Delete(ctx context.Context, ownerID, endpoint string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	sub, ok := r.subs[endpoint]
	if !ok || sub.OwnerID() != ownerID {
		return nil
	}
	delete(r.subs, endpoint)
	return nil
}

func (r *fakeSubscriptionRepo) DeleteByEndpoint(ctx context.Context, endpoint string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.subs, endpoint)
	return nil
}

func (r *fakeSubscriptionRepo) TouchValid(ctx context.Context, endpoint string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if sub, ok := r.subs[endpoint]; ok {
		sub.MarkValid(at)
	}
	return nil
}

// fakePublisher records published events
type fakePublisher struct {
	mu        sync.Mutex
	published []events.DomainEvent
	err       error
}

func (p *fakePublisher) Publish(ctx context.Context, event events.DomainEvent) error {
	return p.PublishBatch(ctx, []events.DomainEvent{event})
}

func (p *fakePublisher) PublishBatch(ctx context.Context, evts []events.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, evts...)
	return nil
}

func (p *fakePublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.published))
	for _, e := range p.published {
		out = append(out, e.GetEventType())
	}
	return out
}
