package http

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/publication-admin/internal/domain"
)

type memUsers struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*domain.User
}

func newMemUsers() *memUsers { return &memUsers{byID: map[int64]*domain.User{}} }

func (m *memUsers) Get(_ context.Context, id int64) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.byID[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memUsers) Create(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == email {
			return nil, domain.ErrConflict
		}
	}
	m.nextID++
	u := &domain.User{ID: m.nextID, Email: email}
	m.byID[u.ID] = u
	cp := *u
	return &cp, nil
}

func (m *memUsers) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID)
}

type memCodes struct {
	mu    sync.Mutex
	codes map[string]domain.EmailCode
}

func newMemCodes() *memCodes { return &memCodes{codes: map[string]domain.EmailCode{}} }

func (m *memCodes) Get(_ context.Context, email string) (*domain.EmailCode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.codes[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

func (m *memCodes) Replace(_ context.Context, c *domain.EmailCode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codes[c.Email] = *c
	return nil
}

func (m *memCodes) UpdateAttempts(_ context.Context, email string, attempts int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.codes[email]
	if !ok {
		return domain.ErrNotFound
	}
	c.Attempts = attempts
	m.codes[email] = c
	return nil
}

func (m *memCodes) Delete(_ context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.codes, email)
	return nil
}

func (m *memCodes) code(email string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.codes[email].Code
}

type memAvatars struct {
	mu     sync.Mutex
	nextID int64
	byUser map[int64]*domain.Avatar
	topics *memTopics
}

func newMemAvatars(topics *memTopics) *memAvatars {
	return &memAvatars{byUser: map[int64]*domain.Avatar{}, topics: topics}
}

func (m *memAvatars) GetByUserID(_ context.Context, userID int64) (*domain.Avatar, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byUser[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *memAvatars) ExistsForUser(_ context.Context, userID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.byUser[userID]
	return ok, nil
}

func (m *memAvatars) Create(_ context.Context, a *domain.Avatar) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byUser[a.UserID]; ok {
		return domain.ErrConflict
	}
	m.nextID++
	a.ID = m.nextID
	a.InitStatus = domain.InitStatusCreated
	cp := *a
	m.byUser[a.UserID] = &cp
	return nil
}

func (m *memAvatars) UpdateProfile(_ context.Context, a *domain.Avatar) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.byUser[a.UserID]
	if !ok || cur.ID != a.ID {
		return domain.ErrNotFound
	}
	cur.Name, cur.Text, cur.Topics = a.Name, a.Text, a.Topics
	m.topics.add(a.Topics)
	return nil
}

func (m *memAvatars) UpdateInit(_ context.Context, a *domain.Avatar) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.byUser[a.UserID]
	if !ok || cur.ID != a.ID {
		return domain.ErrNotFound
	}
	cur.LoraName, cur.InitPersonaTaskID, cur.InitStatus, cur.LoraPath = a.LoraName, a.InitPersonaTaskID, a.InitStatus, a.LoraPath
	return nil
}

func (m *memAvatars) Delete(_ context.Context, avatarID, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.byUser[userID]
	if !ok || cur.ID != avatarID {
		return domain.ErrNotFound
	}
	delete(m.byUser, userID)
	return nil
}

type memPosts struct {
	mu    sync.Mutex
	posts []domain.Post
}

func (m *memPosts) ListByAvatar(_ context.Context, avatarID int64) ([]domain.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Post{}
	for _, p := range m.posts {
		if p.AvatarID == avatarID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memPosts) Get(_ context.Context, avatarID int64, postID uuid.UUID) (*domain.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.posts {
		if p.AvatarID == avatarID && p.ID == postID {
			cp := p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memPosts) Create(_ context.Context, p *domain.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	p.CreatedAt = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	m.posts = append(m.posts, *p)
	return nil
}

func (m *memPosts) Delete(_ context.Context, avatarID int64, postID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, p := range m.posts {
		if p.AvatarID == avatarID && p.ID == postID {
			m.posts = append(m.posts[:i], m.posts[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

type memTopics struct {
	mu    sync.Mutex
	names map[string]struct{}
}

func newMemTopics() *memTopics { return &memTopics{names: map[string]struct{}{}} }

func (m *memTopics) add(names []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range names {
		m.names[n] = struct{}{}
	}
}

func (m *memTopics) All(context.Context) ([]domain.Topic, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Topic, 0, len(m.names))
	for n := range m.names {
		out = append(out, domain.Topic{Name: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type memMedia struct {
	mu      sync.Mutex
	objects map[string][]byte
	fail    error
}

func newMemMedia() *memMedia { return &memMedia{objects: map[string][]byte{}} }

func (m *memMedia) Upload(_ context.Context, key string, r io.Reader, _ string) error {
	if m.fail != nil {
		return m.fail
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = b
	return nil
}

func (m *memMedia) URL(key string) string { return "http://media.test/bucket/" + key }

func (m *memMedia) URLForPath(path string) string { return "http://media.test/" + path }

// fakeImages completes every job on its first status query.
type fakeImages struct {
	mu       sync.Mutex
	calls    int
	seq      int
	down     bool
	statuses map[string]domain.MLTaskStatus
}

func newFakeImages() *fakeImages { return &fakeImages{statuses: map[string]domain.MLTaskStatus{}} }

func (f *fakeImages) next(prefix string) (*domain.MLTask, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.down {
		return nil, fmt.Errorf("dial: %w", domain.ErrServiceUnavailable)
	}
	f.seq++
	id := fmt.Sprintf("%s-%d", prefix, f.seq)
	f.statuses[id] = domain.MLTaskPending
	return &domain.MLTask{TaskID: id, Status: domain.MLTaskPending}, nil
}

func (f *fakeImages) status(id, path string) (*domain.MLTask, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.down {
		return nil, fmt.Errorf("dial: %w", domain.ErrServiceUnavailable)
	}
	if _, ok := f.statuses[id]; !ok {
		return &domain.MLTask{TaskID: id, Status: domain.MLTaskPending}, nil
	}
	f.statuses[id] = domain.MLTaskSuccess
	return &domain.MLTask{TaskID: id, Status: domain.MLTaskSuccess, ResultPath: path}, nil
}

func (f *fakeImages) SubmitInitPersona(context.Context, string, []string) (*domain.MLTask, error) {
	return f.next("init")
}

func (f *fakeImages) GetInitPersona(_ context.Context, taskID string) (*domain.MLTask, error) {
	return f.status(taskID, "s3://bucket/lora/"+taskID)
}

func (f *fakeImages) SubmitTextToPicture(context.Context, string, string, string) (*domain.MLTask, error) {
	return f.next("t2p")
}

func (f *fakeImages) GetTextToPicture(_ context.Context, taskID string) (*domain.MLTask, error) {
	return f.status(taskID, "pictures/"+taskID+".jpeg")
}

func (f *fakeImages) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeImages) setDown(down bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.down = down
}

type fakeText struct{}

func (fakeText) Bio(_ context.Context, name, _ string, topics []string) (string, error) {
	return fmt.Sprintf("%s writes about %d topics", name, len(topics)), nil
}

type memMailer struct {
	mu   sync.Mutex
	sent []domain.EmailMessage
}

func (m *memMailer) Send(_ context.Context, msg domain.EmailMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

func (m *memMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}
