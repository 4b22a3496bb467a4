package sitegen

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gruzpro/site-platform/pkg/logging"
)

const testShell = `<!doctype html>
<html lang="ru">
<head>
<meta charset="utf-8">
<title>GruzPro</title>
</head>
<body><div id="root"></div></body>
</html>
`

func writeShell(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "index.html")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestInjectPlacesDataBeforeHeadClose(t *testing.T) {
	path := writeShell(t, testShell)
	inj := NewInjector(logging.NewText("info"))

	snap := snapshotWith(publicArticle("first-load"))
	require.NoError(t, inj.Inject(path, snap))

	out, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(out)

	assert.Contains(t, text, "window.__NEWS_DATA__ = ")
	assert.Contains(t, text, `"first-load"`)
	assert.Less(t, strings.Index(text, "window.__NEWS_DATA__"), strings.Index(text, "</head>"))
}

func TestInjectIsIdempotent(t *testing.T) {
	path := writeShell(t, testShell)
	inj := NewInjector(logging.NewText("info"))

	require.NoError(t, inj.Inject(path, snapshotWith(publicArticle("v1"))))
	require.NoError(t, inj.Inject(path, snapshotWith(publicArticle("v2"))))

	out, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(out)

	assert.Equal(t, 1, strings.Count(text, "window.__NEWS_DATA__"),
		"re-running injection must replace the block, not stack a second one")
	assert.Contains(t, text, `"v2"`)
	assert.NotContains(t, text, `"v1"`)
	assert.Equal(t, 1, strings.Count(text, injectStartMarker))
	assert.Equal(t, 1, strings.Count(text, injectEndMarker))
}

func TestInjectEscapesClosingScriptTag(t *testing.T) {
	path := writeShell(t, testShell)
	inj := NewInjector(logging.NewText("info"))

	a := publicArticle("xss")
	a.Content = `before</script><script>alert(1)</script>after`
	require.NoError(t, inj.Inject(path, snapshotWith(a)))

	out, err := os.ReadFile(path)
	require.NoError(t, err)
	block := string(out)
	start := strings.Index(block, injectStartMarker)
	end := strings.Index(block, injectEndMarker)
	require.True(t, start >= 0 && end > start)
	assert.NotContains(t, block[start:end], "</script><script>alert")
}

func TestInjectMissingShellIsNoOp(t *testing.T) {
	inj := NewInjector(logging.NewText("info"))
	err := inj.Inject(filepath.Join(t.TempDir(), "missing.html"), snapshotWith(publicArticle("a")))
	assert.NoError(t, err)
}

func TestInjectNilSnapshotIsNoOp(t *testing.T) {
	path := writeShell(t, testShell)
	inj := NewInjector(logging.NewText("info"))

	require.NoError(t, inj.Inject(path, nil))

	out, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, testShell, string(out), "shell stays untouched without a snapshot")
}

func TestInjectRejectsShellWithoutHead(t *testing.T) {
	// html.Parse synthesizes a head element for almost any input, so the
	// failure surfaces at the splice step as a missing </head> marker.
	path := writeShell(t, `<body>no head at all</body>`)
	inj := NewInjector(logging.NewText("info"))

	err := inj.Inject(path, snapshotWith(publicArticle("a")))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrWriteFailed)
	assert.Equal(t, ExitWrite, ExitCode(err))
}

func TestInjectEmptySnapshotStillInjects(t *testing.T) {
	path := writeShell(t, testShell)
	inj := NewInjector(logging.NewText("info"))

	require.NoError(t, inj.Inject(path, &Snapshot{GeneratedAt: time.Now().UTC(), Articles: []PublicArticle{}}))

	out, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(out), "window.__NEWS_DATA__ = [];")
}
