package sitegen

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"golang.org/x/net/html"

	"github.com/gruzpro/site-platform/pkg/logging"
)

// Marker comments fencing the injected block. Re-running the injector
// replaces the fenced block instead of stacking a second assignment.
const (
	injectStartMarker = "<!-- gruzpro:news-data -->"
	injectEndMarker   = "<!-- /gruzpro:news-data -->"
)

// Injector embeds the news snapshot into the static HTML shell so first
// paint does not need a network fetch. A missing shell or snapshot is a
// no-op: injection is progressive enhancement, not a required step.
type Injector struct {
	logger *logging.Logger
}

// NewInjector creates an injector.
func NewInjector(logger *logging.Logger) *Injector {
	if logger == nil {
		logger = logging.Default()
	}
	return &Injector{logger: logger}
}

// Inject rewrites shellPath with the snapshot inlined before </head>.
// Idempotent: an existing fenced block is replaced.
func (i *Injector) Inject(shellPath string, snap *Snapshot) error {
	if snap == nil {
		i.logger.Warn("no snapshot to inject; skipping")
		return nil
	}

	shell, err := os.ReadFile(shellPath)
	if err != nil {
		if os.IsNotExist(err) {
			i.logger.Warn("html shell not found; skipping injection", "path", shellPath)
			return nil
		}
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}

	// The shell comes from an external build; sanity-check that it is
	// parseable HTML with a head before touching it.
	if err := validateShell(shell); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}

	block, err := renderBlock(snap)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}

	out, err := splice(shell, block)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}

	if err := writeFileAtomic(shellPath, out); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}

	i.logger.Info("news data injected", "path", shellPath, "articles", len(snap.Articles))
	return nil
}

func renderBlock(snap *Snapshot) ([]byte, error) {
	data, err := json.Marshal(snap.Articles)
	if err != nil {
		return nil, err
	}
	// "</script>" inside article content would terminate the inline block
	// early; escape it the standard way.
	data = bytes.ReplaceAll(data, []byte("</"), []byte(`<\/`))

	var b bytes.Buffer
	b.WriteString(injectStartMarker)
	b.WriteString("<script>window.__NEWS_DATA__ = ")
	b.Write(data)
	b.WriteString(";</script>")
	b.WriteString(injectEndMarker)
	return b.Bytes(), nil
}

func splice(shell, block []byte) ([]byte, error) {
	if start := bytes.Index(shell, []byte(injectStartMarker)); start >= 0 {
		end := bytes.Index(shell, []byte(injectEndMarker))
		if end < start {
			return nil, fmt.Errorf("injection markers are malformed")
		}
		end += len(injectEndMarker)
		out := make([]byte, 0, len(shell)-(end-start)+len(block))
		out = append(out, shell[:start]...)
		out = append(out, block...)
		out = append(out, shell[end:]...)
		return out, nil
	}

	idx := indexCaseInsensitive(shell, "</head>")
	if idx < 0 {
		return nil, fmt.Errorf("shell has no </head> marker")
	}
	out := make([]byte, 0, len(shell)+len(block))
	out = append(out, shell[:idx]...)
	out = append(out, block...)
	out = append(out, shell[idx:]...)
	return out, nil
}

func indexCaseInsensitive(haystack []byte, needle string) int {
	return strings.Index(strings.ToLower(string(haystack)), strings.ToLower(needle))
}

func validateShell(shell []byte) error {
	doc, err := html.Parse(bytes.NewReader(shell))
	if err != nil {
		return fmt.Errorf("shell is not parseable html: %w", err)
	}
	if findElement(doc, "head") == nil {
		return fmt.Errorf("shell has no head element")
	}
	return nil
}

func findElement(n *html.Node, name string) *html.Node {
	if n.Type == html.ElementNode && n.Data == name {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, name); found != nil {
			return found
		}
	}
	return nil
}
