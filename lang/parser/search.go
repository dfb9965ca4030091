package parser

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ardnew/mung"
)

// searchPath returns the import search directories: dirs followed by the
// entries of the PATH-like list env, keeping only existing directories.
func searchPath(env string, dirs ...string) []string {
	list := mung.Make(
		mung.WithSubjectItems(env),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(dirs...),
	).String()

	search := make([]string, 0)

	for dir := range strings.SplitSeq(list, string(os.PathListSeparator)) {
		if dir != "" && isDir(dir) {
			search = append(search, filepath.Clean(dir))
		}
	}

	return search
}

func isDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}

// isRelative reports whether path is explicitly relative to the importing
// file, in which case the search path is not consulted.
func isRelative(path string) bool {
	return path == "." || path == ".." ||
		strings.HasPrefix(path, "./") || strings.HasPrefix(path, "../")
}

func isFile(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.Mode().IsRegular()
}
