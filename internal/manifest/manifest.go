// Package manifest records what a build produced: one entry per rendered
// document with its fingerprint and heading ids. The previous manifest drives
// incremental builds.
package manifest

import (
	"crypto/sha256"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"git.home.luguber.info/inful/docnorm/internal/collection"
)

// FileName is the manifest's name inside the output directory.
const FileName = "manifest.json"

type BuildManifest struct {
	ID         string     `json:"id"`
	Timestamp  time.Time  `json:"timestamp"`
	Status     string     `json:"status"`
	Duration   int64      `json:"duration_ms"`
	ConfigHash string     `json:"config_hash"`
	Documents  []Document `json:"documents"`
}

// Document describes one rendered page.
type Document struct {
	collection.Entry

	Source      string   `json:"source"`
	Output      string   `json:"output"`
	URL         string   `json:"url"`
	Fingerprint string   `json:"fingerprint"`
	HeadingIDs  []string `json:"heading_ids,omitempty"`
	IDs         int      `json:"ids_rewritten"`
	Anchors     int      `json:"anchors_rewritten"`
}

// Sort orders documents the way the collection orders entries, then by source.
func (m *BuildManifest) Sort() {
	sort.SliceStable(m.Documents, func(i, j int) bool {
		a, b := m.Documents[i], m.Documents[j]
		if collection.Less(a.Entry, b.Entry) {
			return true
		}
		if collection.Less(b.Entry, a.Entry) {
			return false
		}
		return a.Source < b.Source
	})
}

// Lookup returns the document rendered from source.
func (m *BuildManifest) Lookup(source string) (Document, bool) {
	if m == nil {
		return Document{}, false
	}
	for _, d := range m.Documents {
		if d.Source == source {
			return d, true
		}
	}
	return Document{}, false
}

func (m *BuildManifest) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}
	return data, nil
}

func FromJSON(data []byte) (*BuildManifest, error) {
	var m BuildManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal manifest: %w", err)
	}
	return &m, nil
}

// ContentHash digests the config hash and every document fingerprint. Two
// builds with equal content hashes produced the same pages.
func (m *BuildManifest) ContentHash() (string, error) {
	hashInput := struct {
		ConfigHash   string            `json:"config_hash"`
		Fingerprints map[string]string `json:"fingerprints"`
	}{
		ConfigHash:   m.ConfigHash,
		Fingerprints: make(map[string]string, len(m.Documents)),
	}
	for _, d := range m.Documents {
		hashInput.Fingerprints[d.Source] = d.Fingerprint
	}

	data, err := json.Marshal(hashInput)
	if err != nil {
		return "", fmt.Errorf("marshal for hash: %w", err)
	}
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash), nil
}

// Load reads the manifest from dir. A missing manifest yields nil, nil.
func Load(dir string) (*BuildManifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if stderrors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return FromJSON(data)
}

// Persist writes the manifest into dir atomically.
func (m *BuildManifest) Persist(dir string) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("ensure manifest dir: %w", err)
	}
	data, err := m.ToJSON()
	if err != nil {
		return err
	}
	path := filepath.Join(dir, FileName)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("write temp manifest: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("atomic rename manifest: %w", err)
	}
	return nil
}
