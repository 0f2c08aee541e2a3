package core

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/roomtalk/roomtalk-server/internal/store"
)

// fakeStore is an in-memory store.Store used by core tests.
type fakeStore struct {
	mu       sync.Mutex
	messages []store.Message
	users    []*store.User
	nextMsg  int64
	nextUser int64

	failInsert bool
	failList   bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{}
}

func (f *fakeStore) InsertMessage(_ context.Context, msg *store.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failInsert {
		return errors.New("store unavailable")
	}
	f.nextMsg++
	msg.ID = f.nextMsg
	f.messages = append(f.messages, *msg)
	return nil
}

func (f *fakeStore) GroupRoomMessagesByDate(_ context.Context, room string) ([]store.DateGroup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	groups := make([]store.DateGroup, 0)
	index := make(map[string]int)
	for _, msg := range f.messages {
		if msg.To != room {
			continue
		}
		i, ok := index[msg.Date]
		if !ok {
			i = len(groups)
			index[msg.Date] = i
			groups = append(groups, store.DateGroup{Date: msg.Date})
		}
		groups[i].Messages = append(groups[i].Messages, msg)
	}
	return groups, nil
}

func (f *fakeStore) ListUsers(_ context.Context) ([]*store.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failList {
		return nil, errors.New("store unavailable")
	}
	users := make([]*store.User, len(f.users))
	copy(users, f.users)
	return users, nil
}

func (f *fakeStore) GetUserByID(_ context.Context, id int64) (*store.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (f *fakeStore) CreateUser(_ context.Context, name string) (*store.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextUser++
	user := &store.User{ID: f.nextUser, Name: name, Status: store.UserStatusOnline, NewMessages: map[string]int{}}
	f.users = append(f.users, user)
	return user, nil
}

func (f *fakeStore) SetUserOffline(_ context.Context, id int64, newMessages map[string]int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.ID == id {
			u.Status = store.UserStatusOffline
			u.NewMessages = newMessages
			return nil
		}
	}
	return store.ErrUserNotFound
}

func (f *fakeStore) Close() error { return nil }

func nopLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

func mustEvent(t *testing.T, ch <-chan *Event, kind EventKind) *Event {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev == nil {
				continue
			}
			if ev.Kind == kind {
				return ev
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	t.Fatalf("expected event kind %v not received", kind)
	return nil
}

// nextEvent returns the next event of any kind, failing on timeout.
func nextEvent(t *testing.T, ch <-chan *Event) *Event {
	t.Helper()

	select {
	case ev := <-ch:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
		return nil
	}
}

func mustNoEvent(t *testing.T, ch <-chan *Event, kind EventKind, wait time.Duration) {
	t.Helper()

	deadline := time.Now().Add(wait)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev != nil && ev.Kind == kind {
				t.Fatalf("unexpected event kind %v received: %+v", kind, ev)
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
}
