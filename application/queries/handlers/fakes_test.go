package handlers

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"askbox-backend/application/ports"
	"askbox-backend/domain/core/entities"
	"askbox-backend/domain/core/valueobjects"
	pkgerrors "askbox-backend/pkg/errors"
)

// fakeQuestionRepo serves reads from a fixed question set
type fakeQuestionRepo struct {
	mu        sync.Mutex
	questions []*entities.Question
	calls     int
	err       error
}

func (r *fakeQuestionRepo) Save(ctx context.Context, q *entities.Question) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.questions = append(r.questions, q)
	return nil
}

func (r *fakeQuestionRepo) GetByID(ctx context.Context, id valueobjects.QuestionID) (*entities.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, q := range r.questions {
		if q.ID() == id {
			return q, nil
		}
	}
	return nil, pkgerrors.NewNotFoundError("question not found")
}

func (r *fakeQuestionRepo) GetByRecipient(ctx context.Context, userID string, filter ports.QuestionFilter) ([]*entities.Question, error) {
	return r.collect(filter, func(q *entities.Question) bool { return q.RecipientID() == userID })
}

func (r *fakeQuestionRepo) GetBySender(ctx context.Context, userID string, filter ports.QuestionFilter) ([]*entities.Question, error) {
	return r.collect(filter, func(q *entities.Question) bool { return q.StoredSenderID() == userID })
}

func (r *fakeQuestionRepo) collect(filter ports.QuestionFilter, match func(*entities.Question) bool) ([]*entities.Question, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
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
	return out, nil
}

func (r *fakeQuestionRepo) AttachAnswer(ctx context.Context, q *entities.Question, a *entities.Answer) error {
	return nil
}

func (r *fakeQuestionRepo) queryCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

// seedQuestion stores a question, optionally answered by its recipient
func seedQuestion(t *testing.T, repo *fakeQuestionRepo, recipient, sender string, anonymous, answered bool) *entities.Question {
	t.Helper()
	text, err := valueobjects.NewQuestionText("seed question")
	require.NoError(t, err)
	q, err := entities.NewQuestion(recipient, sender, text, anonymous)
	require.NoError(t, err)
	if answered {
		answerText, err := valueobjects.NewAnswerText("seed answer")
		require.NoError(t, err)
		_, err = q.Reply(recipient, answerText)
		require.NoError(t, err)
	}
	require.NoError(t, repo.Save(context.Background(), q))
	return q
}
