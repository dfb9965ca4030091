package parser

import (
	"io"
	"os"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"

	"github.com/ardnew/ly/lang/ast"
)

// cache maps the content hash of a source file to the root of its parsed
// tree, so a module imported from several files is parsed once per run.
type cache struct {
	roots map[uint64]ast.Index
}

func newCache() *cache {
	return &cache{roots: make(map[uint64]ast.Index)}
}

// key hashes data seeded by dir. Relative imports inside the file resolve
// against dir, so identical content in two directories parses differently.
func (c *cache) key(dir string, data []byte) uint64 {
	return xxh3.HashSeed(data, xxh3.HashString(dir))
}

func (c *cache) get(key uint64) (ast.Index, bool) {
	root, ok := c.roots[key]

	return root, ok
}

func (c *cache) put(key uint64, root ast.Index) {
	c.roots[key] = root
}

// readSource reads the whole file at path through an asynchronous
// read-ahead buffer.
func readSource(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ra := readahead.NewReader(f)
	defer ra.Close()

	return io.ReadAll(ra)
}
