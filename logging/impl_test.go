package logging

import (
	"bytes"
	"encoding/json"
	"io"
	"strconv"
	"strings"
	"testing"
	"time"

	"go.viam.com/test"
)

type vec struct {
	X, Y, Z float64
}

type contact struct {
	Cell   int
	Normal vec
	depth  float64
}

// captureStdout points the stdout loggers at a buffer for the rest of the test.
func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	old := stdout
	stdout = func() io.Writer { return buf }
	t.Cleanup(func() { stdout = old })
	return buf
}

// assertLogMatches will fuzzy match log lines. Notably, this checks the time format, but ignores
// the exact time. And it expects a match on the filename, but the exact line number can be wrong.
func assertLogMatches(t *testing.T, actual *bytes.Buffer, expected string) {
	t.Helper()

	output, err := actual.ReadString('\n')
	test.That(t, err, test.ShouldBeNil)

	actualParts := strings.Split(strings.TrimSuffix(output, "\n"), "\t")
	expectedParts := strings.Split(expected, "\t")
	test.That(t, len(actualParts), test.ShouldEqual, len(expectedParts))
	// The exact time and zone are ignored.
	_, err = time.Parse("2006-01-02T15:04:05.000Z0700", actualParts[0])
	test.That(t, err, test.ShouldBeNil)
	// Levels are colored.
	test.That(t, actualParts[1], test.ShouldContainSubstring, expectedParts[1])
	// Logger name.
	test.That(t, actualParts[2], test.ShouldEqual, expectedParts[2])

	actualFilename, actualLineNumber, found := strings.Cut(actualParts[3], ":")
	test.That(t, found, test.ShouldBeTrue)
	expectedFilename, _, found := strings.Cut(expectedParts[3], ":")
	test.That(t, found, test.ShouldBeTrue)
	test.That(t, actualFilename, test.ShouldEqual, expectedFilename)
	_, err = strconv.Atoi(actualLineNumber)
	test.That(t, err, test.ShouldBeNil)

	test.That(t, actualParts[4], test.ShouldEqual, expectedParts[4])
	if len(actualParts) == 5 {
		return
	}

	// JSON encoding of maps can be unpredictable because map iteration order can change between
	// runs. Parse the output into maps and assert on map equality.
	expectedMap := make(map[string]any)
	test.That(t, json.Unmarshal([]byte(expectedParts[5]), &expectedMap), test.ShouldBeNil)
	actualMap := make(map[string]any)
	test.That(t, json.Unmarshal([]byte(actualParts[5]), &actualMap), test.ShouldBeNil)
	test.That(t, actualMap, test.ShouldResemble, expectedMap)
}

func TestConsoleOutputFormat(t *testing.T) {
	notStdout := captureStdout(t)
	logger := NewDebugLogger("engine")

	logger.Info("query done")
	assertLogMatches(t, notStdout,
		`2023-10-30T09:12:09.459-0400	INFO	engine	logging/impl_test.go:67	query done`)

	logger.Debugf("leaf %d", 7)
	assertLogMatches(t, notStdout,
		`2023-10-30T09:12:09.459-0400	DEBUG	engine	logging/impl_test.go:67	leaf 7`)

	logger.Infow("collision query done", "contacts", 2, "shape", "ball")
	assertLogMatches(t, notStdout,
		`2023-10-30T09:12:09.459-0400	INFO	engine	logging/impl_test.go:67	collision query done	{"contacts":2,"shape":"ball"}`)

	// Unexported fields are not encoded.
	logger.Infow("contact", "first", contact{Cell: 3, Normal: vec{Z: 1}, depth: -0.2})
	assertLogMatches(t, notStdout,
		`2023-10-30T09:12:09.459-0400	INFO	engine	logging/impl_test.go:67	contact	{"first":{"Cell":3,"Normal":{"X":0,"Y":0,"Z":1}}}`)
}

func TestInfoLoggerDropsDebug(t *testing.T) {
	notStdout := captureStdout(t)
	logger := NewLogger("engine")
	logger.Debug("hidden")
	logger.Warn("shown")
	assertLogMatches(t, notStdout,
		`2023-10-30T09:12:09.459-0400	WARN	engine	logging/impl_test.go:67	shown`)
	test.That(t, notStdout.Len(), test.ShouldEqual, 0)
}
