package services

import (
	"askbox-backend/domain/core/entities"
)

// FriendshipService derives the implicit social graph from question history.
// There is no follow or friend-request action anywhere in the product: two
// users are friends exactly when at least one answered, attributed question
// exists between them, in either direction. The relation is a view over the
// content store, recomputed on demand and never persisted.
//
// The service is a pure function over two already-fetched slices so it can
// be tested without a database and so the two source queries can run
// concurrently upstream.
type FriendshipService struct{}

// NewFriendshipService creates a friendship derivation service
func NewFriendshipService() *FriendshipService {
	return &FriendshipService{}
}

// DeriveFriends computes the friend set for userID.
//
// received holds questions where userID is the recipient: each answered,
// attributed one contributes its sender. sent holds questions where userID
// is the stored sender: each answered, attributed one contributes its
// recipient. The result is a de-duplicated set that never contains userID
// itself; anonymous, unanswered, and self-addressed questions contribute
// nothing. Either slice may be empty or nil.
func (s *FriendshipService) DeriveFriends(userID string, received, sent []*entities.Question) []string {
	seen := make(map[string]struct{})

	for _, q := range received {
		if !q.ContributesToFriendship() {
			continue
		}
		// VisibleSenderID re-checks the anonymity flag at read time; a
		// stored sender on an anonymous question stays invisible here.
		if sender := q.VisibleSenderID(); sender != "" && sender != userID {
			seen[sender] = struct{}{}
		}
	}

	for _, q := range sent {
		if !q.ContributesToFriendship() {
			continue
		}
		if recipient := q.RecipientID(); recipient != userID {
			seen[recipient] = struct{}{}
		}
	}

	friends := make([]string, 0, len(seen))
	for id := range seen {
		friends = append(friends, id)
	}
	return friends
}

// AreFriends reports whether other is in userID's derived friend set
func (s *FriendshipService) AreFriends(userID, other string, received, sent []*entities.Question) bool {
	for _, id := range s.DeriveFriends(userID, received, sent) {
		if id == other {
			return true
		}
	}
	return false
}
