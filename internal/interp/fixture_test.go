package interp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

// capturingHost buffers every Write call instead of touching stdio,
// letting fixture tests assert on exactly what a program printed.
type capturingHost struct {
	out strings.Builder
}

func (h *capturingHost) Write(s string) error {
	h.out.WriteString(s)
	h.out.WriteByte('\n')
	return nil
}

func (h *capturingHost) ReadLine(context.Context, string) (string, error) { return "", nil }

func (h *capturingHost) ReadFile(path string) (string, error) {
	return "", fmt.Errorf("ReadFile not available in fixture tests: %s", path)
}

// TestFixtures runs every testdata/fixtures/*.algo program and snapshots
// its print output.
func TestFixtures(t *testing.T) {
	files, err := filepath.Glob("../../testdata/fixtures/*.algo")
	if err != nil {
		t.Fatalf("failed to list fixtures: %v", err)
	}
	if len(files) == 0 {
		t.Fatal("no fixtures found")
	}

	for _, path := range files {
		name := strings.TrimSuffix(filepath.Base(path), ".algo")
		t.Run(name, func(t *testing.T) {
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("failed to read %s: %v", path, err)
			}

			h := &capturingHost{}
			it := New(h, 42)
			runErr := it.Run(context.Background(), name+".algo", string(data))

			result := h.out.String()
			if runErr != nil {
				result += "error: " + runErr.Error()
			}
			snaps.MatchSnapshot(t, result)
		})
	}
}
