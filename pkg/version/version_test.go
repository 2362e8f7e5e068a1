package version

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfo(t *testing.T) {
	original := Version
	t.Cleanup(func() { Version = original })

	Version = "1.2.3"
	info := Info()
	assert.Equal(t, "1.2.3", info["version"])
	assert.Equal(t, runtime.Version(), info["go_version"])
}
