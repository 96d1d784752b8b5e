package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/quillhq/newsletter-api/internal/mailer"
	"github.com/quillhq/newsletter-api/internal/model"
	"github.com/quillhq/newsletter-api/internal/repository"
)

// memStore is an in-memory stand-in for the subscriber and token
// repositories.
type memStore struct {
	mu          sync.Mutex
	subscribers []*model.Subscriber
	tokens      []*model.SubscriptionToken
}

func newMemStore() *memStore {
	return &memStore{}
}

func (s *memStore) CreateWithToken(_ context.Context, sub *model.Subscriber, token *model.SubscriptionToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	subCopy := *sub
	tokenCopy := *token
	s.subscribers = append(s.subscribers, &subCopy)
	s.tokens = append(s.tokens, &tokenCopy)

	return nil
}

func (s *memStore) GetByEmail(_ context.Context, email string) (*model.Subscriber, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sub := range s.subscribers {
		if sub.Email == email {
			subCopy := *sub
			return &subCopy, nil
		}
	}

	return nil, repository.ErrNotFound
}

func (s *memStore) ConfirmByID(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sub := range s.subscribers {
		if sub.ID == id {
			sub.Status = model.StatusConfirmed
		}
	}

	return nil
}

func (s *memStore) ListConfirmed(_ context.Context) (repository.ConfirmedSubscriberCursor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rows []model.ConfirmedSubscriber
	for _, sub := range s.subscribers {
		if sub.Status == model.StatusConfirmed {
			rows = append(rows, model.ConfirmedSubscriber{ID: sub.ID, Email: sub.Email})
		}
	}

	return &sliceCursor{rows: rows}, nil
}

func (s *memStore) Create(_ context.Context, token *model.SubscriptionToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tokenCopy := *token
	s.tokens = append(s.tokens, &tokenCopy)

	return nil
}

func (s *memStore) GetActive(_ context.Context, token string) (*model.SubscriptionToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, doc := range s.tokens {
		if doc.Token == token && !doc.Invalidated && doc.ExpiresAt.After(time.Now()) {
			docCopy := *doc
			return &docCopy, nil
		}
	}

	return nil, repository.ErrNotFound
}

func (s *memStore) InvalidateForSubscriber(_ context.Context, subscriberID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, doc := range s.tokens {
		if doc.SubscriberID == subscriberID && !doc.Invalidated {
			doc.Invalidated = true
		}
	}

	return nil
}

func (s *memStore) activeTokensFor(subscriberID string) []*model.SubscriptionToken {
	s.mu.Lock()
	defer s.mu.Unlock()

	var active []*model.SubscriptionToken
	for _, doc := range s.tokens {
		if doc.SubscriberID == subscriberID && !doc.Invalidated {
			docCopy := *doc
			active = append(active, &docCopy)
		}
	}

	return active
}

// sliceCursor mimics the mongo cursor, including the per-row email
// re-validation.
type sliceCursor struct {
	rows []model.ConfirmedSubscriber
	idx  int
}

func (c *sliceCursor) Next(_ context.Context) bool {
	if c.idx >= len(c.rows) {
		return false
	}
	c.idx++
	return true
}

func (c *sliceCursor) Current() (model.ConfirmedSubscriber, error) {
	row := c.rows[c.idx-1]
	if err := model.ValidateStoredEmail(row.Email); err != nil {
		return model.ConfirmedSubscriber{}, err
	}

	return row, nil
}

func (c *sliceCursor) Err() error { return nil }

func (c *sliceCursor) Close(_ context.Context) error { return nil }

// fakeNotifier records sent emails and can be told to fail on the Nth send.
type fakeNotifier struct {
	mu       sync.Mutex
	sent     []mailer.Email
	failOn   int // 1-based attempt number that fails; 0 means never
	attempts int
}

func (n *fakeNotifier) Send(_ context.Context, email mailer.Email) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.attempts++
	if n.failOn != 0 && n.attempts == n.failOn {
		return errors.New("smtp unavailable")
	}

	n.sent = append(n.sent, email)
	return nil
}

func (n *fakeNotifier) sentTo() []string {
	n.mu.Lock()
	defer n.mu.Unlock()

	recipients := make([]string, 0, len(n.sent))
	for _, email := range n.sent {
		recipients = append(recipients, email.To)
	}

	return recipients
}

// fakeOperatorRepo stores operators keyed by username.
type fakeOperatorRepo struct {
	mu        sync.Mutex
	operators map[string]*model.Operator
}

func newFakeOperatorRepo() *fakeOperatorRepo {
	return &fakeOperatorRepo{operators: map[string]*model.Operator{}}
}

func (r *fakeOperatorRepo) GetByUsername(_ context.Context, username string) (*model.Operator, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	op, ok := r.operators[username]
	if !ok {
		return nil, repository.ErrNotFound
	}

	opCopy := *op
	return &opCopy, nil
}

func (r *fakeOperatorRepo) UpdatePassword(_ context.Context, id string, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, op := range r.operators {
		if op.ID.Hex() == id {
			op.PasswordHash = passwordHash
			return nil
		}
	}

	return repository.ErrNotFound
}

func (r *fakeOperatorRepo) Upsert(_ context.Context, username, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if op, ok := r.operators[username]; ok {
		op.PasswordHash = passwordHash
		return nil
	}

	r.operators[username] = &model.Operator{
		ID:           bson.NewObjectID(),
		Username:     username,
		PasswordHash: passwordHash,
	}

	return nil
}
