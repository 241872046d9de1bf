package cmd

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"campus-navi/algo"
	"campus-navi/data"
	"campus-navi/db"
)

func seedLookup(t *testing.T) algo.MapLookup {
	t.Helper()
	buildings, err := db.ParseBuildings(data.SeedBuildings)
	if err != nil {
		t.Fatalf("ParseBuildings: %v", err)
	}
	lookup := algo.MapLookup{}
	for _, b := range buildings {
		lookup[b.Name] = b.BuildingRect()
	}
	return lookup
}

func TestSimulateRoute(t *testing.T) {
	campus, err := algo.LoadDefaultLayout()
	if err != nil {
		t.Fatal(err)
	}
	gate, _ := campus.StartPoint("gate")

	var out bytes.Buffer
	if err := simulateRoute(&out, campus, seedLookup(t), gate, "Arts Center", 0.05, 500); err != nil {
		t.Fatalf("simulateRoute: %v", err)
	}
	text := out.String()
	for _, want := range []string{"Main Gate -> Arts Center", "Student Plaza Hub", "completed"} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if last := lines[len(lines)-1]; !strings.Contains(last, "100.0%") {
		t.Errorf("last frame = %q, want 100%%", last)
	}
}

func TestSimulateRouteUnknownDestination(t *testing.T) {
	campus, err := algo.LoadDefaultLayout()
	if err != nil {
		t.Fatal(err)
	}
	gate, _ := campus.StartPoint("gate")
	err = simulateRoute(&bytes.Buffer{}, campus, seedLookup(t), gate, "Moon Base", 0.05, 500)
	if !errors.Is(err, algo.ErrDestinationNotFound) {
		t.Errorf("err = %v, want ErrDestinationNotFound", err)
	}
}
