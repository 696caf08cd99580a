// Package cache remembers compiled definitions so an unchanged file is not
// compiled twice, which keeps watch mode quiet when editors touch a file
// without changing it.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"sort"
)

// Fingerprint hashes definition content together with everything else that
// shapes its targets: the root prefix and the substitution variables
type Fingerprint struct {
	Prefix string
	Vars   map[string]string
}

// HashContent computes the SHA-256 cache key of content under f
func (f Fingerprint) HashContent(content []byte) string {
	hasher := sha256.New()
	f.writeOptions(hasher)
	hasher.Write(content)
	return hex.EncodeToString(hasher.Sum(nil))
}

// HashFile computes the cache key of the file at path under f
func (f Fingerprint) HashFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hasher := sha256.New()
	f.writeOptions(hasher)
	if _, err := io.Copy(hasher, file); err != nil {
		return "", err
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// writeOptions feeds the options in a stable order, NUL separated so
// neighbouring values cannot run together
func (f Fingerprint) writeOptions(w io.Writer) {
	names := make([]string, 0, len(f.Vars))
	for name := range f.Vars {
		names = append(names, name)
	}
	sort.Strings(names)

	io.WriteString(w, f.Prefix)
	w.Write([]byte{0})
	for _, name := range names {
		io.WriteString(w, name)
		w.Write([]byte{0})
		io.WriteString(w, f.Vars[name])
		w.Write([]byte{0})
	}
}
