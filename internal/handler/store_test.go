package handler

import (
	"context"
	"sort"
	"time"

	"github.com/witple/witple/internal/model"
	"github.com/witple/witple/internal/repository"
)

// memUserStore is an in-memory UserStore for handler tests.
type memUserStore struct {
	nextID int64
	users  map[int64]*model.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{nextID: 1, users: make(map[int64]*model.User)}
}

func (s *memUserStore) CreateUser(_ context.Context, user *model.User) error {
	for _, u := range s.users {
		if u.Email == user.Email {
			return repository.ErrEmailExists
		}
		if u.Username == user.Username {
			return repository.ErrUsernameExists
		}
	}

	user.ID = s.nextID
	s.nextID++
	user.CreatedAt = time.Now().UTC()

	stored := *user
	s.users[user.ID] = &stored
	return nil
}

func (s *memUserStore) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (s *memUserStore) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range s.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (s *memUserStore) GetUserByIdentifier(_ context.Context, identifier string) (*model.User, error) {
	for _, u := range s.users {
		if u.Email == identifier || u.Username == identifier {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (s *memUserStore) UpdateUser(_ context.Context, id int64, patch model.UserPatch) (*model.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}

	for otherID, u := range s.users {
		if otherID == id {
			continue
		}
		if patch.Email != nil && u.Email == *patch.Email {
			return nil, repository.ErrEmailExists
		}
		if patch.Username != nil && u.Username == *patch.Username {
			return nil, repository.ErrUsernameExists
		}
	}

	if patch.Email != nil {
		user.Email = *patch.Email
	}
	if patch.Username != nil {
		user.Username = *patch.Username
	}
	if patch.HashedPassword != nil {
		user.HashedPassword = *patch.HashedPassword
	}
	if patch.FullName != nil {
		user.FullName = patch.FullName
	}
	if patch.IsActive != nil {
		user.IsActive = *patch.IsActive
	}
	if patch.IsSuperuser != nil {
		user.IsSuperuser = *patch.IsSuperuser
	}
	if patch.Bio != nil {
		user.Bio = patch.Bio
	}

	now := time.Now().UTC()
	user.UpdatedAt = &now

	copied := *user
	return &copied, nil
}

// memMessageStore is an in-memory MessageStore for handler tests.
type memMessageStore struct {
	nextID   int64
	messages map[int64]*model.Message
}

func newMemMessageStore() *memMessageStore {
	return &memMessageStore{nextID: 1, messages: make(map[int64]*model.Message)}
}

func (s *memMessageStore) CreateMessage(_ context.Context, msg *model.Message) error {
	msg.ID = s.nextID
	s.nextID++
	msg.CreatedAt = time.Now().UTC()

	stored := *msg
	s.messages[msg.ID] = &stored
	return nil
}

func (s *memMessageStore) GetMessageByID(_ context.Context, id int64) (*model.Message, error) {
	msg, ok := s.messages[id]
	if !ok {
		return nil, repository.ErrMessageNotFound
	}
	copied := *msg
	return &copied, nil
}

func (s *memMessageStore) ListMessages(_ context.Context, offset, limit int) ([]*model.Message, error) {
	ids := make([]int64, 0, len(s.messages))
	for id := range s.messages {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	result := make([]*model.Message, 0)
	for i, id := range ids {
		if i < offset {
			continue
		}
		if len(result) >= limit {
			break
		}
		copied := *s.messages[id]
		result = append(result, &copied)
	}
	return result, nil
}

func (s *memMessageStore) UpdateMessage(_ context.Context, id int64, patch model.MessagePatch) (*model.Message, error) {
	msg, ok := s.messages[id]
	if !ok {
		return nil, repository.ErrMessageNotFound
	}

	if patch.Content != nil {
		msg.Content = *patch.Content
		now := time.Now().UTC()
		msg.UpdatedAt = &now
	}

	copied := *msg
	return &copied, nil
}

func (s *memMessageStore) DeleteMessage(_ context.Context, id int64) (bool, error) {
	if _, ok := s.messages[id]; !ok {
		return false, nil
	}
	delete(s.messages, id)
	return true, nil
}
