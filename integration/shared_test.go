//go:build basic || database

package integration

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

var (
	// sharedGapcastPath holds the path to a shared gapcast binary built once for all tests.
	sharedGapcastPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	// Run all tests
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getGapcastBinary returns the path to the gapcast binary, building it once if needed.
func getGapcastBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		// Create a temp directory for the binary
		var err error
		tempDir, err = os.MkdirTemp("", "gapcast-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		gapcastPath := filepath.Join(tempDir, "gapcast")
		buildCmd := exec.Command("go", "build", "-o", gapcastPath, ".")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		err = buildCmd.Run()
		if err != nil {
			panic(fmt.Sprintf("failed to build gapcast: %v", err))
		}

		sharedGapcastPath = gapcastPath
	})

	return sharedGapcastPath
}

// writeSnapshotFixtures writes a small but complete set of snapshot CSVs into
// dir and returns the alerts path.
func writeSnapshotFixtures(t *testing.T, dir string) string {
	t.Helper()

	alertsHeader := strings.Join([]string{
		"uuid", "incident_date", "status", "validation_date", "hh_number", "ind_number",
		"admin1", "admin2",
		"need_food", "need_wash", "need_nfi", "need_shelter", "need_health", "need_protection",
		"need_menstrual_hygiene", "need_fortified_flour", "need_education", "need_livelihood",
	}, ",")
	alerts := alertsHeader + "\n" +
		"a-1,2024-03-05,valid,2024-03-06,10,50,north,n-east,1,1,0,0,0,0,0,0,0,0\n" +
		"a-2,2024-03-10,valid,2024-03-12,4,20,south,s-west,1,0,0,0,0,0,0,0,0,0\n" +
		"a-3,2024-02-01,pending,,2,10,north,n-west,0,0,1,0,0,0,0,0,0,0\n"

	evaluations := "uuid,validation_date\na-1,2024-03-06\na-2,2024-03-12\n"

	respHeader := strings.Join([]string{
		"uuid", "response_start_date", "response_end_date",
		"households_supported", "individuals_supported", "actor", "donor",
		"food", "wash", "nfi", "shelter", "health", "protection",
		"menstrual_hygiene", "fortified_flour", "education", "livelihood",
	}, ",")
	rrm := respHeader + "\n" +
		"a-1,2024-03-10,2024-03-20,8,40,ACF,ECHO,1,0,0,0,0,0,0,0,0,0\n"
	postrrm := respHeader + "\n" +
		"a-1,2024-06-01,2024-06-10,8,40,PUI,CDC,0,1,0,0,0,0,0,0,0,0\n"

	alertsPath := filepath.Join(dir, "alerts.csv")
	writeFile(t, alertsPath, alerts)
	writeFile(t, filepath.Join(dir, "evaluations.csv"), evaluations)
	writeFile(t, filepath.Join(dir, "rrm.csv"), rrm)
	writeFile(t, filepath.Join(dir, "postrrm.csv"), postrrm)
	return alertsPath
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write fixture %s: %v", path, err)
	}
}

// reportArgs returns the standard report invocation over the fixtures in dir.
func reportArgs(dir string) []string {
	return []string{
		"report", filepath.Join(dir, "alerts.csv"),
		"--evaluations", filepath.Join(dir, "evaluations.csv"),
		"--rrm", filepath.Join(dir, "rrm.csv"),
		"--postrrm", filepath.Join(dir, "postrrm.csv"),
		"--prev-period", "2024-03-01",
		"--current-period", "2024-04-01",
		"--threshold", "2024-01-01",
	}
}

func runGapcastCommand(t *testing.T, args ...string) error {
	gapcastPath := getGapcastBinary()
	cmd := exec.Command(gapcastPath, args...)
	cmd.Dir = "../" // Run from project root
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Logf("Command failed: %s\nOutput: %s", cmd.String(), string(output))
		return err
	}
	return nil
}
