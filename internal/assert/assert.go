package assert

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Assert is a wrapper around assert.Assertions and testing.T
type Assert struct {
	*assert.Assertions
	T *testing.T
}

// New creates a new Assert object
func New(t *testing.T) *Assert {
	return &Assert{
		Assertions: assert.New(t),
		T:          t,
	}
}

// EqualLines compares rendered lines, reporting the difference as text blocks
// so tree connectors line up in the failure output.
func (a *Assert) EqualLines(expected []string, actual []string) bool {
	a.T.Helper()
	return a.Equal(strings.Join(expected, "\n"), strings.Join(actual, "\n"))
}

// EqualToFixture compares text output with the content of a golden file.
// If GEN_FIXTURE=true is set, it writes the output to the fixture file and passes the test.
// The fixture path is derived from the test name: testdata/<a.T.Name()>_<fixtureName>.golden
func (a *Assert) EqualToFixture(fixtureName string, output string) {
	a.T.Helper()

	fixtureFileName := fmt.Sprintf("%s_%s.golden", filepath.Base(a.T.Name()), fixtureName)
	fixturePath := filepath.Join("testdata", fixtureFileName)

	if os.Getenv("GEN_FIXTURE") == "true" {
		err := os.MkdirAll(filepath.Dir(fixturePath), 0755)
		a.NoError(err, "Failed to create fixture directory")
		err = os.WriteFile(fixturePath, []byte(output), 0644)
		a.NoError(err, "Failed to write fixture file")
		return
	}

	expected, err := os.ReadFile(fixturePath)
	a.NoError(err, "Failed to read fixture file")

	a.Equal(string(expected), output, "Output does not match fixture %s", fixturePath)
}
