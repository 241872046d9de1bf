package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"campus-navi/algo"
	"campus-navi/db"
	"campus-navi/model"

	"github.com/gin-gonic/gin"
)

type fakeBuildings struct {
	mu     sync.Mutex
	items  map[uint]model.Building
	nextID uint
	lists  int
}

func newFakeBuildings(items ...model.Building) *fakeBuildings {
	f := &fakeBuildings{items: map[uint]model.Building{}}
	for _, b := range items {
		f.nextID++
		b.ID = f.nextID
		f.items[b.ID] = b
	}
	return f
}

func (f *fakeBuildings) List(_ context.Context, activeOnly bool) ([]model.Building, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	var out []model.Building
	for _, b := range f.items {
		if activeOnly && !b.IsActive {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (f *fakeBuildings) Get(_ context.Context, id uint) (model.Building, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.items[id]
	if !ok {
		return model.Building{}, db.ErrNotFound
	}
	return b, nil
}

func (f *fakeBuildings) Create(_ context.Context, b *model.Building) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	b.ID = f.nextID
	f.items[b.ID] = *b
	return nil
}

func (f *fakeBuildings) Update(_ context.Context, b *model.Building) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[b.ID]; !ok {
		return db.ErrNotFound
	}
	f.items[b.ID] = *b
	return nil
}

func (f *fakeBuildings) Delete(_ context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return db.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeBuildings) SetActive(_ context.Context, id uint, active bool) error {
	return f.modify(id, func(b *model.Building) { b.IsActive = active })
}

func (f *fakeBuildings) SetPosition(_ context.Context, id uint, x, y float64) error {
	return f.modify(id, func(b *model.Building) { b.Coordinates.X, b.Coordinates.Y = x, y })
}

func (f *fakeBuildings) modify(id uint, fn func(*model.Building)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.items[id]
	if !ok {
		return db.ErrNotFound
	}
	fn(&b)
	f.items[id] = b
	return nil
}

type fakeUsers struct {
	mu     sync.Mutex
	users  map[string]model.User
	roles  map[uint]string
	nextID uint
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: map[string]model.User{}, roles: map[uint]string{}}
}

func (f *fakeUsers) FindByUsername(_ context.Context, username string) (model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[username]
	if !ok {
		return model.User{}, db.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) Create(_ context.Context, u *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[u.Username]; ok {
		return db.ErrUserExists
	}
	f.nextID++
	u.ID = f.nextID
	f.users[u.Username] = *u
	f.roles[u.ID] = model.RoleStudent
	return nil
}

func (f *fakeUsers) Role(_ context.Context, userID uint) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if role, ok := f.roles[userID]; ok {
		return role, nil
	}
	return model.RoleStudent, nil
}

type fakeContent struct {
	announcements []model.Announcement
	events        []model.Event
}

func (f *fakeContent) ListAnnouncements(_ context.Context, activeOnly bool) ([]model.Announcement, error) {
	var out []model.Announcement
	now := time.Now()
	for _, a := range f.announcements {
		if activeOnly && (!a.IsActive || a.Expired(now)) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (f *fakeContent) CreateAnnouncement(_ context.Context, a *model.Announcement) error {
	a.ID = uint(len(f.announcements) + 1)
	f.announcements = append(f.announcements, *a)
	return nil
}

func (f *fakeContent) DeleteAnnouncement(_ context.Context, id uint) error {
	for i, a := range f.announcements {
		if a.ID == id {
			f.announcements = append(f.announcements[:i], f.announcements[i+1:]...)
			return nil
		}
	}
	return db.ErrNotFound
}

func (f *fakeContent) SetAnnouncementActive(_ context.Context, id uint, active bool) error {
	for i := range f.announcements {
		if f.announcements[i].ID == id {
			f.announcements[i].IsActive = active
			return nil
		}
	}
	return db.ErrNotFound
}

func (f *fakeContent) ListEvents(_ context.Context, activeOnly bool, eventType string) ([]model.Event, error) {
	var out []model.Event
	for _, e := range f.events {
		if activeOnly && !e.IsActive {
			continue
		}
		if eventType != "" && e.EventType != eventType {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeContent) CreateEvent(_ context.Context, e *model.Event) error {
	e.ID = uint(len(f.events) + 1)
	f.events = append(f.events, *e)
	return nil
}

func (f *fakeContent) DeleteEvent(_ context.Context, id uint) error {
	for i, e := range f.events {
		if e.ID == id {
			f.events = append(f.events[:i], f.events[i+1:]...)
			return nil
		}
	}
	return db.ErrNotFound
}

func (f *fakeContent) SetEventActive(_ context.Context, id uint, active bool) error {
	for i := range f.events {
		if f.events[i].ID == id {
			f.events[i].IsActive = active
			return nil
		}
	}
	return db.ErrNotFound
}

// testBuildings Central Hall 中心 (400,220)，Arts Center 中心 (700,80)，Old Annex 已隐藏
func testBuildings() []model.Building {
	return []model.Building{
		{Code: "CEN", Name: "Central Hall", Type: model.BuildingAcademic, Color: "#601214",
			Coordinates: model.Rect{X: 360, Y: 190, Width: 80, Height: 60}, IsActive: true},
		{Code: "ART", Name: "Arts Center", Type: model.BuildingArts, Color: "#335577",
			Coordinates: model.Rect{X: 660, Y: 40, Width: 80, Height: 80}, IsActive: true},
		{Code: "OLD", Name: "Old Annex", Type: model.BuildingAdmin, Color: "#601214",
			Coordinates: model.Rect{X: 100, Y: 500, Width: 40, Height: 40}, IsActive: false},
	}
}

type testEnv struct {
	h         *Handler
	r         *gin.Engine
	buildings *fakeBuildings
	users     *fakeUsers
	content   *fakeContent
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	m, err := algo.LoadDefaultLayout()
	if err != nil {
		t.Fatalf("LoadDefaultLayout: %v", err)
	}
	env := &testEnv{
		buildings: newFakeBuildings(testBuildings()...),
		users:     newFakeUsers(),
		content:   &fakeContent{},
	}
	env.h = New(env.buildings, env.users, env.content, m)
	env.h.JWTSecret = []byte("test-secret")
	env.r = gin.New()
	SetupRoutes(env.r, env.h)
	return env
}

// do 发送请求，body 非空时编码为 JSON
func (env *testEnv) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	env.r.ServeHTTP(w, req)
	return w
}

// tokenFor 直接创建用户并签发 token
func (env *testEnv) tokenFor(t *testing.T, username, role string) string {
	t.Helper()
	u := &model.User{Username: username, Password: "x"}
	if err := env.users.Create(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	env.users.roles[u.ID] = role
	token, err := env.h.issueToken(*u, role)
	if err != nil {
		t.Fatalf("issueToken: %v", err)
	}
	return token
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}
