package lua

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	glua "github.com/yuin/gopher-lua"
)

func writeScript(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSandboxCapabilities(t *testing.T) {
	sb := newState(t).Sandbox()
	assert.Empty(t, sb.Capabilities())

	sb.Grant(CapabilityUnsafe)
	sb.Grant(CapabilityFileRead)
	assert.Equal(t, []Capability{CapabilityFileRead, CapabilityUnsafe}, sb.Capabilities())

	sb.Revoke(CapabilityFileRead)
	assert.False(t, sb.HasCapability(CapabilityFileRead))
	assert.True(t, sb.HasCapability(CapabilityUnsafe))
}

func TestSandboxCallLimit(t *testing.T) {
	L := glua.NewState()
	defer L.Close()

	sb := NewSandbox(L, 3)
	for range 3 {
		require.False(t, sb.CountCall())
	}
	assert.True(t, sb.CountCall())
	assert.Equal(t, int64(4), sb.CallCount())

	sb.ResetCallCount()
	assert.Zero(t, sb.CallCount())

	unlimited := NewSandbox(L, 0)
	for range 1000 {
		require.False(t, unlimited.CountCall())
	}
}

func TestSandboxRequire(t *testing.T) {
	s := newState(t)
	ctx := context.Background()

	for _, mod := range []string{"string", "math", "table"} {
		assert.NoError(t, s.DoString(ctx, fmt.Sprintf(`require(%q)`, mod)), mod)
	}
	for _, mod := range []string{"io", "os", "debug", "socket"} {
		assert.ErrorContains(t, s.DoString(ctx, fmt.Sprintf(`require(%q)`, mod)), "not available", mod)
	}

	s.Sandbox().Grant(CapabilityUnsafe)
	assert.NoError(t, s.DoString(ctx, `require("os")`))
}

func TestSandboxFileRead(t *testing.T) {
	path := writeScript(t, "one\r\ntwo\n\nfour\n")
	s := newState(t)
	s.Sandbox().Grant(CapabilityFileRead)

	err := s.DoString(context.Background(), fmt.Sprintf(`
		local io = require("io")
		lines = {}
		for line in io.lines(%q) do
			lines[#lines + 1] = line
		end
		whole = io.read_all(%q)
		missing, msg = io.read_all(%q)
	`, path, path, path+".absent"))
	require.NoError(t, err)

	lines := goValue(s.GetGlobal("lines"))
	assert.Equal(t, []any{"one", "two", "", "four"}, lines)
	assert.Equal(t, glua.LString("one\r\ntwo\n\nfour\n"), s.GetGlobal("whole"))
	assert.Equal(t, glua.LNil, s.GetGlobal("missing"))
	assert.NotEqual(t, glua.LNil, s.GetGlobal("msg"))

	err = s.DoString(context.Background(), fmt.Sprintf(`io.lines(%q)`, path+".absent"))
	assert.ErrorContains(t, err, "cannot open file")
}
