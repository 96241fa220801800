package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"askbox-backend/domain/core/valueobjects"
	"askbox-backend/domain/events"
	pkgerrors "askbox-backend/pkg/errors"
)

func questionText(t *testing.T, s string) valueobjects.Text {
	t.Helper()
	text, err := valueobjects.NewQuestionText(s)
	require.NoError(t, err)
	return text
}

func TestNewQuestion(t *testing.T) {
	q, err := NewQuestion("bob", "alice", questionText(t, "생일 축하해!"), false)
	require.NoError(t, err)

	assert.False(t, q.ID().IsZero())
	assert.Equal(t, "bob", q.RecipientID())
	assert.Equal(t, "alice", q.VisibleSenderID())
	assert.False(t, q.IsAnswered())

	evts := q.Events()
	require.Len(t, evts, 1)
	assert.Equal(t, events.TypeQuestionAsked, evts[0].GetEventType())
}

func TestNewQuestionRequiresRecipient(t *testing.T) {
	_, err := NewQuestion("", "alice", questionText(t, "hello?"), false)
	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeValidation))
}

func TestVisibleSenderIDHidesAnonymousSender(t *testing.T) {
	q, err := NewQuestion("bob", "alice", questionText(t, "언제 결혼해?"), true)
	require.NoError(t, err)

	// Stored for abuse handling, invisible everywhere else
	assert.Equal(t, "alice", q.StoredSenderID())
	assert.Empty(t, q.VisibleSenderID())
}

func TestReply(t *testing.T) {
	answerText, err := valueobjects.NewAnswerText("고마워!")
	require.NoError(t, err)

	t.Run("recipient can answer once", func(t *testing.T) {
		q, err := NewQuestion("bob", "alice", questionText(t, "생일 축하해!"), false)
		require.NoError(t, err)
		q.Events() // drain creation event

		answer, err := q.Reply("bob", answerText)
		require.NoError(t, err)
		assert.Equal(t, q.ID(), answer.QuestionID())
		assert.True(t, q.IsAnswered())

		evts := q.Events()
		require.Len(t, evts, 1)
		assert.Equal(t, events.TypeQuestionAnswered, evts[0].GetEventType())
	})

	t.Run("second answer is a conflict", func(t *testing.T) {
		q, err := NewQuestion("bob", "alice", questionText(t, "생일 축하해!"), false)
		require.NoError(t, err)

		_, err = q.Reply("bob", answerText)
		require.NoError(t, err)

		_, err = q.Reply("bob", answerText)
		assert.True(t, pkgerrors.IsConflict(err))
	})

	t.Run("only the recipient can answer", func(t *testing.T) {
		q, err := NewQuestion("bob", "alice", questionText(t, "생일 축하해!"), false)
		require.NoError(t, err)

		_, err = q.Reply("mallory", answerText)
		assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeForbidden))
	})
}

func TestContributesToFriendship(t *testing.T) {
	answerText, err := valueobjects.NewAnswerText("답변")
	require.NoError(t, err)

	tests := []struct {
		name      string
		recipient string
		sender    string
		anonymous bool
		answered  bool
		want      bool
	}{
		{"answered attributed", "bob", "alice", false, true, true},
		{"unanswered", "bob", "alice", false, false, false},
		{"anonymous", "bob", "alice", true, true, false},
		{"anonymous unanswered", "bob", "alice", true, false, false},
		{"no stored sender", "bob", "", false, true, false},
		{"self addressed", "bob", "bob", false, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := NewQuestion(tt.recipient, tt.sender, questionText(t, "질문"), tt.anonymous)
			require.NoError(t, err)
			if tt.answered {
				_, err = q.Reply(tt.recipient, answerText)
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, q.ContributesToFriendship())
		})
	}
}

func TestNewPushSubscription(t *testing.T) {
	keys := SubscriptionKeys{P256dh: "BPk...", Auth: "k9d..."}

	t.Run("valid", func(t *testing.T) {
		sub, err := NewPushSubscription("alice", "https://push.example.com/ep/1", keys)
		require.NoError(t, err)
		assert.Equal(t, "alice", sub.OwnerID())
		assert.False(t, sub.ID().IsZero())
	})

	t.Run("bad endpoint", func(t *testing.T) {
		_, err := NewPushSubscription("alice", "not a uri", keys)
		assert.Error(t, err)
	})

	t.Run("missing keys", func(t *testing.T) {
		_, err := NewPushSubscription("alice", "https://push.example.com/ep/1", SubscriptionKeys{})
		assert.Error(t, err)
	})

	t.Run("renew keeps the stable id", func(t *testing.T) {
		prior, err := NewPushSubscription("alice", "https://push.example.com/ep/1", keys)
		require.NoError(t, err)

		renewed, err := NewPushSubscription("bob", "https://push.example.com/ep/1", keys)
		require.NoError(t, err)
		renewed.Renew(prior)

		assert.Equal(t, prior.ID(), renewed.ID())
		assert.Equal(t, prior.CreatedAt(), renewed.CreatedAt())
		assert.Equal(t, "bob", renewed.OwnerID(), "ownership transfers to the new owner")
	})
}
