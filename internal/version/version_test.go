package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	saved := [3]string{Version, GitSHA, BuildTime}
	t.Cleanup(func() { Version, GitSHA, BuildTime = saved[0], saved[1], saved[2] })

	assert.Equal(t, "propmount dev (unknown, built unknown)", String())

	Version, GitSHA, BuildTime = "1.2.0", "0123456789abcdef0123", "2026-10-19T10:00:00Z"
	assert.Equal(t, "propmount 1.2.0 (0123456789ab, built 2026-10-19T10:00:00Z)", String())
}
