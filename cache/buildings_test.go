package cache

import (
	"context"
	"errors"
	"testing"

	"campus-navi/model"
)

type fakeSource struct {
	buildings []model.Building
	calls     int
	err       error
}

func (f *fakeSource) List(_ context.Context, activeOnly bool) ([]model.Building, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	var out []model.Building
	for _, b := range f.buildings {
		if !activeOnly || b.IsActive {
			out = append(out, b)
		}
	}
	return out, nil
}

func seed() *fakeSource {
	return &fakeSource{buildings: []model.Building{
		{ID: 1, Code: "SCI", Name: "Science Hall", Color: "#2563eb", IsActive: true, Coordinates: model.Rect{X: 420, Y: 130, Width: 120, Height: 80}},
		{ID: 2, Code: "LIB", Name: "Library", IsActive: true},
		{ID: 3, Code: "OLD", Name: "Old Annex", IsActive: false, Coordinates: model.Rect{X: 10, Y: 10, Width: 10, Height: 10}},
	}}
}

func TestBuildingsLookup(t *testing.T) {
	c := NewBuildings(seed())
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	sci, ok := c.Lookup("Science Hall")
	if !ok {
		t.Fatal("Science Hall not found")
	}
	if sci.Center() != (model.Point{X: 480, Y: 170}) {
		t.Errorf("center = %v, want (480,170)", sci.Center())
	}

	// 缺失坐标时使用地图默认矩形和默认颜色
	lib, ok := c.Lookup("Library")
	if !ok {
		t.Fatal("Library not found")
	}
	if lib.Rect != (model.Rect{X: 100, Y: 100, Width: 60, Height: 40}) || lib.Color != model.DefaultBuildingColor {
		t.Errorf("library = %+v", lib)
	}

	if _, ok := c.Lookup("Old Annex"); ok {
		t.Error("inactive building must not be routable")
	}
	if got := c.List(); len(got) != 2 || got[0].Name != "Library" {
		t.Errorf("List = %+v", got)
	}
}

func TestBuildingsInvalidate(t *testing.T) {
	src := seed()
	c := NewBuildings(src)
	ctx := context.Background()

	if !c.Stale() {
		t.Fatal("new cache should start stale")
	}
	if err := c.Ensure(ctx); err != nil {
		t.Fatal(err)
	}
	if err := c.Ensure(ctx); err != nil {
		t.Fatal(err)
	}
	if src.calls != 1 {
		t.Errorf("source calls = %d, want 1", src.calls)
	}

	src.buildings[2].IsActive = true
	c.Invalidate()
	if err := c.Ensure(ctx); err != nil {
		t.Fatal(err)
	}
	if src.calls != 2 {
		t.Errorf("source calls = %d, want 2", src.calls)
	}
	if _, ok := c.Lookup("Old Annex"); !ok {
		t.Error("re-activated building should be visible after refresh")
	}
}

func TestBuildingsRefreshErrorKeepsOldData(t *testing.T) {
	src := seed()
	c := NewBuildings(src)
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	src.err = errors.New("store offline")
	if err := c.Refresh(context.Background()); err == nil {
		t.Fatal("expected refresh error")
	}
	if _, ok := c.Lookup("Science Hall"); !ok {
		t.Error("failed refresh must keep the previous snapshot")
	}
}

func TestBuildingsSearch(t *testing.T) {
	c := NewBuildings(seed())
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := c.Search("sci"); len(got) != 1 || got[0].Code != "SCI" {
		t.Errorf("Search(sci) = %+v", got)
	}
	if got := c.Search("lib"); len(got) != 1 {
		t.Errorf("Search(lib) = %+v", got)
	}
}

// blockingSource 读取完快照后阻塞，直到测试放行
type blockingSource struct {
	inner   *fakeSource
	entered chan struct{}
	release chan struct{}
}

func (b *blockingSource) List(ctx context.Context, activeOnly bool) ([]model.Building, error) {
	out, err := b.inner.List(ctx, activeOnly)
	close(b.entered)
	<-b.release
	return out, err
}

func TestBuildingsInvalidateDuringRefresh(t *testing.T) {
	inner := seed()
	src := &blockingSource{inner: inner, entered: make(chan struct{}), release: make(chan struct{})}
	c := NewBuildings(src)

	done := make(chan error, 1)
	go func() { done <- c.Refresh(context.Background()) }()

	<-src.entered
	// 管理员在读取进行中隐藏了建筑
	inner.buildings[0].IsActive = false
	c.Invalidate()
	close(src.release)
	if err := <-done; err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	if !c.Stale() {
		t.Fatal("invalidation during refresh was lost")
	}
	if _, ok := c.Lookup("Science Hall"); !ok {
		t.Error("the fetched snapshot should still be installed")
	}

	c.src = inner
	if err := c.Ensure(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Lookup("Science Hall"); ok {
		t.Error("hidden building still routable after the next refresh")
	}
	if c.Stale() {
		t.Error("cache should be fresh after an uncontended refresh")
	}
}
