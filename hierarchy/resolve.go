package hierarchy

import (
	"fmt"
	"strings"

	"github.com/shntn/hdlproto/signal"
)

// Resolve looks up a fully-qualified hierarchical path (as returned by
// Signaler.Path() after Build) against the built design's root module.
// It is the harness package's way of turning a path string given by a
// test into the Signaler the Write Arbiter and Signal Store already
// know.
func Resolve(root *Module, path string) (signal.Signaler, error) {
	prefix := root.path + "."
	if !strings.HasPrefix(path, prefix) {
		return nil, fmt.Errorf("hierarchy: path %q is not rooted at %q", path, root.path)
	}
	return root.resolve(strings.TrimPrefix(path, prefix))
}
