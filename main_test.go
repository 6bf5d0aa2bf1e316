package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/wricardo/arrowbot/game/catalog"
	"github.com/wricardo/arrowbot/game/engine"
	"github.com/wricardo/arrowbot/game/progression"
	"github.com/wricardo/arrowbot/transport/websocket"
)

func TestConstants(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if AppName == "" {
		t.Error("AppName should not be empty")
	}

	expectedAppName := "Arrow Bot Puzzle Server"
	if AppName != expectedAppName {
		t.Errorf("Expected app name %s, got %s", expectedAppName, AppName)
	}
}

func TestFlagDefaults(t *testing.T) {
	if *port <= 0 || *port > 65535 {
		t.Errorf("Invalid default port: %d", *port)
	}
	if *host == "" {
		t.Error("Host should have a default value")
	}
	if *levelsDir == "" {
		t.Error("Levels directory should have a default value")
	}
	if *stepDelay < 0 {
		t.Errorf("Step delay should not be negative, got %v", *stepDelay)
	}
}

func TestGetStepDelayDefault(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{"", defaultStepDelay.String()},
		{"250ms", "250ms"},
		{"0s", "0s"},
		{"soon", defaultStepDelay.String()},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Setenv("STEP_DELAY", tt.env)
			if got := getStepDelayDefault().String(); got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestGetLevelsDirDefault(t *testing.T) {
	t.Setenv("LEVELS_DIR", "")
	if got := getLevelsDirDefault(); got != "levels" {
		t.Errorf("Expected levels, got %s", got)
	}

	t.Setenv("LEVELS_DIR", "/srv/levels")
	if got := getLevelsDirDefault(); got != "/srv/levels" {
		t.Errorf("Expected /srv/levels, got %s", got)
	}
}

func TestGetDefaultCatalogDefault(t *testing.T) {
	t.Setenv("DEFAULT_CATALOG", "")
	if got := getDefaultCatalogDefault(); got != catalog.ClassicID {
		t.Errorf("Expected %s, got %s", catalog.ClassicID, got)
	}

	t.Setenv("DEFAULT_CATALOG", "garden")
	if got := getDefaultCatalogDefault(); got != "garden" {
		t.Errorf("Expected garden, got %s", got)
	}
}

func withDefaultCatalog(t *testing.T, name string) {
	t.Helper()
	original := *defaultCatalog
	*defaultCatalog = name
	t.Cleanup(func() { *defaultCatalog = original })
}

func withLevelsDir(t *testing.T, dir string) {
	t.Helper()
	original := *levelsDir
	*levelsDir = dir
	t.Cleanup(func() { *levelsDir = original })
}

func TestInitializeServices(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	withLevelsDir(t, t.TempDir())

	gameService, err := initializeServices(nil)
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}
	if gameService == nil {
		t.Fatal("Expected game service to be initialized")
	}

	catalogs, err := gameService.ListCatalogs(context.Background())
	if err != nil {
		t.Fatalf("ListCatalogs failed: %v", err)
	}
	if len(catalogs) == 0 || catalogs[0].CatalogID != catalog.ClassicID {
		t.Errorf("Expected the classic catalog, got %+v", catalogs)
	}
}

func TestInitializeServices_InvalidLevelsDir(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	withLevelsDir(t, filepath.Join(t.TempDir(), "missing"))

	if _, err := initializeServices(nil); err == nil {
		t.Error("Expected error for non-existent levels directory")
	}
}

func TestInitializeServices_ShippedLevels(t *testing.T) {
	if _, err := os.Stat("levels"); os.IsNotExist(err) {
		t.Skip("Skipping test - levels directory not found")
	}
	t.Setenv("GEMINI_API_KEY", "")
	withLevelsDir(t, "levels")

	gameService, err := initializeServices(nil)
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}

	catalogs, err := gameService.ListCatalogs(context.Background())
	if err != nil {
		t.Fatalf("ListCatalogs failed: %v", err)
	}
	if len(catalogs) < 2 {
		t.Errorf("Expected the shipped catalogs next to classic, got %d", len(catalogs))
	}
}

func TestInitializeServices_DefaultCatalog(t *testing.T) {
	if _, err := os.Stat("levels"); os.IsNotExist(err) {
		t.Skip("Skipping test - levels directory not found")
	}
	t.Setenv("GEMINI_API_KEY", "")
	withLevelsDir(t, "levels")

	withDefaultCatalog(t, "garden")
	gameService, err := initializeServices(nil)
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}

	info, err := gameService.CreateSession(context.Background(), "")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if info.CatalogID != "garden" {
		t.Errorf("Expected sessions to default to garden, got %s", info.CatalogID)
	}

	withDefaultCatalog(t, "missing")
	if _, err := initializeServices(nil); err == nil {
		t.Error("Expected an unknown default catalog to fail startup")
	}
}

func TestSessionFactory(t *testing.T) {
	hub := websocket.NewHub()
	go hub.Run()

	prevDelay := *stepDelay
	*stepDelay = 10 * time.Millisecond
	defer func() { *stepDelay = prevDelay }()

	factory := newSessionFactory(hub, engine.New(), nil)
	ctrl, cleanup, err := factory("a1b2", catalog.Classic())
	if err != nil {
		t.Fatalf("factory failed: %v", err)
	}
	if cleanup == nil {
		t.Fatal("Expected a cleanup func")
	}
	defer cleanup()

	if err := ctrl.AddInstructions([]engine.Direction{engine.Right, engine.Right, engine.Right}); err != nil {
		t.Fatalf("AddInstructions failed: %v", err)
	}

	start := time.Now()
	result, err := ctrl.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !result.Succeeded() {
		t.Errorf("Expected the first classic level to be cleared, got %s", result.Status)
	}
	if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
		t.Errorf("Expected every landed step to be paced, run took %s", elapsed)
	}

	state := ctrl.CurrentState()
	if state.Phase != progression.PhaseCompleted {
		t.Errorf("Expected phase %s, got %s", progression.PhaseCompleted, state.Phase)
	}
	if !ctrl.Unlocked(1) {
		t.Error("Expected level 2 to be unlocked")
	}
}
