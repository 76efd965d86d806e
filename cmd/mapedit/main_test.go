package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-playground/assert/v2"

	"github.com/dshills/mapedit/internal/engine/lump"
)

func write(t *testing.T, dir, name, text string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunWritesMap(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")

	cmds := write(t, dir, "build.txt", `
# two vertices and a line
begin "first line"
new vertex 0 0
new vertex 128 0
new linedef 0 1
end
`)
	lua := write(t, dir, "things.lua", `
for i = 0, 2 do
	map.new("thing", i * 32, 64)
end
`)

	code := run([]string{"-o", out, "-e", "new sector", cmds, lua})
	assert.Equal(t, 0, code)

	for _, name := range []string{lump.Header, lump.Things, lump.LineDefs, lump.SideDefs, lump.Vertexes, lump.Sectors} {
		_, err := os.Stat(filepath.Join(out, name+lump.Ext))
		assert.Equal(t, nil, err)
	}

	// round trip through the written lumps
	code = run([]string{"-m", out, "-e", "validate"})
	assert.Equal(t, 0, code)
}

func TestRunErrors(t *testing.T) {
	dir := t.TempDir()

	bad := write(t, dir, "bad.txt", "new linedef 4 5\n")
	assert.Equal(t, 1, run([]string{bad}))

	assert.Equal(t, 1, run([]string{"-c", filepath.Join(dir, "missing.json")}))

	mapDir := filepath.Join(dir, "map")
	assert.Equal(t, nil, os.Mkdir(mapDir, 0o755))
	write(t, mapDir, lump.Things+lump.Ext, "abc")
	assert.Equal(t, 1, run([]string{"-m", mapDir}))

	cfg := write(t, dir, "cfg.json", `{"defaults": {"lightLevel": 999}}`)
	assert.Equal(t, 1, run([]string{"-c", cfg}))
}
