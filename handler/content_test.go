package handler

import (
	"net/http"
	"testing"
	"time"

	"campus-navi/model"
)

func TestAnnouncements(t *testing.T) {
	env := newTestEnv(t)
	past := time.Now().Add(-time.Hour)
	env.content.announcements = []model.Announcement{
		{ID: 1, Title: "Welcome", Content: "Semester starts", IsActive: true},
		{ID: 2, Title: "Draft", Content: "hidden", IsActive: false},
		{ID: 3, Title: "Old", Content: "expired", IsActive: true, ExpiresAt: &past},
	}
	token := env.tokenFor(t, "root", model.RoleAdmin)

	var resp struct {
		Count         int                  `json:"count"`
		Announcements []model.Announcement `json:"announcements"`
	}
	decode(t, env.do(http.MethodGet, "/api/announcements", nil, ""), &resp)
	if resp.Count != 1 || resp.Announcements[0].ID != 1 {
		t.Errorf("public announcements = %+v", resp.Announcements)
	}

	decode(t, env.do(http.MethodGet, "/api/admin/announcements", nil, token), &resp)
	if resp.Count != 3 {
		t.Errorf("admin announcements = %d, want 3", resp.Count)
	}

	w := env.do(http.MethodPost, "/api/admin/announcements", model.Announcement{Title: "Exam", Content: "Room 101", IsActive: true}, token)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d (%s)", w.Code, w.Body.String())
	}
	var created model.Announcement
	decode(t, w, &created)
	if created.Type != "general" || created.Priority != "normal" || created.CreatedBy != "root" {
		t.Errorf("created = %+v", created)
	}

	if w := env.do(http.MethodPost, "/api/admin/announcements", map[string]string{"title": "no content"}, token); w.Code != http.StatusBadRequest {
		t.Errorf("missing content status = %d, want 400", w.Code)
	}
	if w := env.do(http.MethodPatch, "/api/admin/announcements/2/active", map[string]bool{"is_active": true}, token); w.Code != http.StatusOK {
		t.Errorf("toggle status = %d", w.Code)
	}
	if w := env.do(http.MethodDelete, "/api/admin/announcements/9", nil, token); w.Code != http.StatusNotFound {
		t.Errorf("delete missing status = %d, want 404", w.Code)
	}
}

func TestEvents(t *testing.T) {
	env := newTestEnv(t)
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	env.content.events = []model.Event{
		{ID: 1, Title: "Career Fair", StartTime: start, EndTime: start.Add(3 * time.Hour), EventType: "career", IsActive: true},
		{ID: 2, Title: "Concert", StartTime: start, EndTime: start.Add(2 * time.Hour), EventType: "arts", IsActive: true},
		{ID: 3, Title: "Cancelled", StartTime: start, EndTime: start.Add(time.Hour), EventType: "arts", IsActive: false},
	}
	token := env.tokenFor(t, "root", model.RoleAdmin)

	var resp struct {
		Count  int           `json:"count"`
		Events []model.Event `json:"events"`
	}
	decode(t, env.do(http.MethodGet, "/api/events?type=arts", nil, ""), &resp)
	if resp.Count != 1 || resp.Events[0].Title != "Concert" {
		t.Errorf("arts events = %+v", resp.Events)
	}

	bad := model.Event{Title: "Backwards", StartTime: start, EndTime: start.Add(-time.Hour)}
	if w := env.do(http.MethodPost, "/api/admin/events", bad, token); w.Code != http.StatusBadRequest {
		t.Errorf("end before start status = %d, want 400", w.Code)
	}
	good := model.Event{Title: "Open Day", StartTime: start, EndTime: start.Add(time.Hour), IsActive: true}
	if w := env.do(http.MethodPost, "/api/admin/events", good, token); w.Code != http.StatusCreated {
		t.Errorf("create status = %d (%s)", w.Code, w.Body.String())
	}
	if w := env.do(http.MethodDelete, "/api/admin/events/1", nil, token); w.Code != http.StatusOK {
		t.Errorf("delete status = %d", w.Code)
	}
}
