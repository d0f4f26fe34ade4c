// Package nvs is a small namespaced key/value store for persisted settings.
//
// Each namespace is one text file of key=value lines inside the storage
// root; writes rewrite the whole file.
package nvs

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"inkdash/hal"
)

var (
	ErrNotFound   = errors.New("nvs: key not found")
	ErrInvalidKey = errors.New("nvs: invalid key")
)

// Store opens namespaces over a hal.Storage.
type Store struct {
	fs hal.Storage
	mu sync.Mutex
}

func New(fs hal.Storage) *Store {
	return &Store{fs: fs}
}

// Namespace is a handle on one namespace file.
type Namespace struct {
	s    *Store
	name string
}

func (s *Store) Namespace(name string) (*Namespace, error) {
	if !validName(name) {
		return nil, fmt.Errorf("%w: namespace %q", ErrInvalidKey, name)
	}
	return &Namespace{s: s, name: name}, nil
}

func validName(s string) bool {
	return s != "" && !strings.ContainsAny(s, "=\n\r/")
}

func (n *Namespace) path() string { return "nvs-" + n.name + ".kv" }

func (n *Namespace) load() (map[string]string, error) {
	data, err := n.s.fs.ReadFile(n.path())
	if errors.Is(err, hal.ErrNotFound) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("nvs: read %s: %w", n.name, err)
	}
	m := make(map[string]string)
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		k, v, ok := strings.Cut(sc.Text(), "=")
		if !ok {
			continue
		}
		m[k] = v
	}
	return m, nil
}

func (n *Namespace) store(m map[string]string) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b bytes.Buffer
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(m[k])
		b.WriteByte('\n')
	}
	if err := n.s.fs.WriteFile(n.path(), b.Bytes()); err != nil {
		return fmt.Errorf("nvs: write %s: %w", n.name, err)
	}
	return nil
}

// GetInt32 returns ErrNotFound if key was never set.
func (n *Namespace) GetInt32(key string) (int32, error) {
	if !validName(key) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	n.s.mu.Lock()
	m, err := n.load()
	n.s.mu.Unlock()
	if err != nil {
		return 0, err
	}
	raw, ok := m[key]
	if !ok {
		return 0, fmt.Errorf("%w: %s/%s", ErrNotFound, n.name, key)
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("nvs: %s/%s: %w", n.name, key, err)
	}
	return int32(v), nil
}

func (n *Namespace) SetInt32(key string, v int32) error {
	if !validName(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	n.s.mu.Lock()
	defer n.s.mu.Unlock()
	m, err := n.load()
	if err != nil {
		return err
	}
	m[key] = strconv.FormatInt(int64(v), 10)
	return n.store(m)
}

// Reader page index location.
const (
	ReaderNamespace = "reader"
	PageIndexKey    = "page_idx"
)

// PageIndex persists the reader position.
type PageIndex struct {
	ns *Namespace
}

func NewPageIndex(s *Store) *PageIndex {
	ns, _ := s.Namespace(ReaderNamespace)
	return &PageIndex{ns: ns}
}

// Load returns 0 when nothing was saved yet.
func (p *PageIndex) Load() (int, error) {
	v, err := p.ns.GetInt32(PageIndexKey)
	if errors.Is(err, ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

func (p *PageIndex) Save(idx int) error {
	return p.ns.SetInt32(PageIndexKey, int32(idx))
}
