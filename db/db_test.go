package db

import (
	"strings"
	"testing"

	"campus-navi/config"
	"campus-navi/data"
	"campus-navi/model"
)

func TestParseSeedBuildings(t *testing.T) {
	buildings, err := ParseBuildings(data.SeedBuildings)
	if err != nil {
		t.Fatalf("ParseBuildings: %v", err)
	}
	if len(buildings) == 0 {
		t.Fatal("seed data is empty")
	}
	codes := make(map[string]bool)
	for _, b := range buildings {
		if codes[b.Code] {
			t.Errorf("duplicate building code %q", b.Code)
		}
		codes[b.Code] = true
		if !b.IsActive {
			t.Errorf("seed building %q should be active", b.Code)
		}
	}
	var art model.Building
	for _, b := range buildings {
		if b.Code == "ART" {
			art = b
		}
	}
	if c := art.Rect().Center(); c != (model.Point{X: 700, Y: 80}) {
		t.Errorf("ART center = %v, want (700,80)", c)
	}
}

func TestParseBuildingsRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"bad json", `[{`},
		{"zero width", `[{"building_code":"X","building_name":"X","building_type":"academic","coordinates":{"x":1,"y":1,"width":0,"height":5}}]`},
		{"bad type", `[{"building_code":"X","building_name":"X","building_type":"castle","coordinates":{"x":1,"y":1,"width":5,"height":5}}]`},
		{"bad color", `[{"building_code":"X","building_name":"X","building_type":"academic","color":"red","coordinates":{"x":1,"y":1,"width":5,"height":5}}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseBuildings([]byte(tt.raw)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestDSN(t *testing.T) {
	dsn := DSN(config.DBConfig{Host: "h", Port: "5433", User: "u", Password: "p", Name: "n", TimeZone: "UTC"})
	for _, part := range []string{"host=h", "port=5433", "user=u", "password=p", "dbname=n", "TimeZone=UTC"} {
		if !strings.Contains(dsn, part) {
			t.Errorf("DSN %q missing %q", dsn, part)
		}
	}
}
