// Package corpus loads samples from a directory, a single source file, or a
// JSON Lines candidate file.
package corpus

import (
	"bufio"
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"

	"github.com/leapstack-labs/samplegate/pkg/core"
)

// IDMode selects how sample IDs are derived.
type IDMode string

// ID modes.
const (
	IDPath IDMode = "path" // corpus-relative slash path
	IDHash IDMode = "hash" // sha256 of the source
)

// ParseIDMode validates an ID mode name. The empty string means path.
func ParseIDMode(s string) (IDMode, error) {
	switch m := IDMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return IDPath, nil
	case IDPath, IDHash:
		return m, nil
	default:
		return "", fmt.Errorf("unknown id mode %q (want path or hash)", s)
	}
}

// DefaultInclude matches JavaScript and TypeScript sources.
var DefaultInclude = []string{"*.js", "*.mjs", "*.cjs", "*.jsx", "*.ts", "*.tsx"}

// DefaultExclude skips installed dependencies.
var DefaultExclude = []string{"node_modules/**", "**/node_modules/**"}

// maxLine bounds one JSON Lines record. Longer records become load errors.
var maxLine = 64 << 20

// Options configures a Loader.
type Options struct {
	Include []string // nil means DefaultInclude
	Exclude []string
	IDMode  IDMode
	Logger  *slog.Logger
}

// Loader reads samples. All reading happens in Load; the returned samples
// hold their full source.
type Loader struct {
	include []matcher
	exclude []matcher
	idMode  IDMode
	logger  *slog.Logger
}

type matcher struct {
	g        glob.Glob
	basename bool // pattern has no '/', match the file name only
}

func (m matcher) match(rel string) bool {
	if m.basename {
		return m.g.Match(path.Base(rel))
	}
	return m.g.Match(rel)
}

func compile(patterns []string) ([]matcher, error) {
	out := make([]matcher, 0, len(patterns))
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", p, err)
		}
		out = append(out, matcher{g: g, basename: !strings.Contains(p, "/")})
	}
	return out, nil
}

func matchAny(ms []matcher, rel string) bool {
	for _, m := range ms {
		if m.match(rel) {
			return true
		}
	}
	return false
}

// NewLoader compiles the include and exclude patterns.
func NewLoader(opts Options) (*Loader, error) {
	if opts.Include == nil {
		opts.Include = DefaultInclude
	}
	if opts.IDMode == "" {
		opts.IDMode = IDPath
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	include, err := compile(opts.Include)
	if err != nil {
		return nil, fmt.Errorf("include: %w", err)
	}
	exclude, err := compile(opts.Exclude)
	if err != nil {
		return nil, fmt.Errorf("exclude: %w", err)
	}
	return &Loader{include: include, exclude: exclude, idMode: opts.IDMode, logger: opts.Logger}, nil
}

// Load reads every sample under root. Unreadable files become samples with
// LoadErr set; only a missing root or a cancelled context is an error.
// Samples are returned in lexical path order (record order for .jsonl).
func (l *Loader) Load(ctx context.Context, root string) ([]core.Sample, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("corpus %s: %w", root, err)
	}
	if !info.IsDir() {
		if strings.EqualFold(filepath.Ext(root), ".jsonl") {
			return l.loadJSONL(ctx, root)
		}
		return []core.Sample{l.readFile(root, filepath.Base(root))}, nil
	}

	var samples []core.Sample
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, relErr := filepath.Rel(root, p)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return walkErr
		}

		if strings.HasPrefix(d.Name(), ".") || l.excluded(rel, d.IsDir()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if walkErr != nil {
			samples = append(samples, core.Sample{ID: rel, Path: p, LoadErr: walkErr})
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !matchAny(l.include, rel) {
			return nil
		}
		samples = append(samples, l.readFile(p, rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan corpus %s: %w", root, err)
	}

	l.logger.Debug("loaded corpus", "root", root, "samples", len(samples))
	return samples, nil
}

// Selects reports whether the file at rel, a slash path relative to a corpus
// root, would be loaded from a directory walk.
func (l *Loader) Selects(rel string) bool {
	for _, part := range strings.Split(rel, "/") {
		if strings.HasPrefix(part, ".") {
			return false
		}
	}
	return !l.excluded(rel, false) && matchAny(l.include, rel)
}

// SkipsDir reports whether a directory walk prunes the directory at rel.
func (l *Loader) SkipsDir(rel string) bool {
	return strings.HasPrefix(path.Base(rel), ".") || l.excluded(rel, true)
}

// LoadFile reads one file under root as a sample, with the same ID scheme
// as Load.
func (l *Loader) LoadFile(root, p string) core.Sample {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		rel = filepath.Base(p)
	}
	return l.readFile(p, filepath.ToSlash(rel))
}

func (l *Loader) excluded(rel string, dir bool) bool {
	// "dir/**" should prune dir itself
	return matchAny(l.exclude, rel) || (dir && matchAny(l.exclude, rel+"/"))
}

func (l *Loader) readFile(p, rel string) core.Sample {
	s := core.Sample{ID: rel, Path: p}
	src, err := os.ReadFile(p)
	if err != nil {
		s.LoadErr = err
		return s
	}
	s.Source = src
	if l.idMode == IDHash {
		s.ID = Hash(src)
	}
	return s
}

type record struct {
	ID      string  `json:"id"`
	Code    *string `json:"code"`
	Edition string  `json:"edition"`
}

func (l *Loader) loadJSONL(ctx context.Context, p string) ([]core.Sample, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, fmt.Errorf("corpus %s: %w", p, err)
	}
	defer f.Close()

	base := filepath.Base(p)
	var samples []core.Sample

	r := bufio.NewReaderSize(f, 64*1024)
	for lineNo := 1; ; lineNo++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		raw, tooLong, err := readLine(r, maxLine)
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		where := fmt.Sprintf("%s:%d", base, lineNo)
		if tooLong {
			samples = append(samples, core.Sample{ID: where, Path: where, LoadErr: fmt.Errorf("record exceeds %d bytes", maxLine)})
		} else if line := bytes.TrimSpace(raw); len(line) > 0 {
			samples = append(samples, l.decodeRecord(line, where))
		}
		if err == io.EOF {
			break
		}
	}

	l.logger.Debug("loaded candidates", "file", p, "samples", len(samples))
	return samples, nil
}

func (l *Loader) decodeRecord(line []byte, where string) core.Sample {
	var rec record
	if err := json.Unmarshal(line, &rec); err != nil {
		return core.Sample{ID: where, Path: where, LoadErr: fmt.Errorf("invalid record: %w", err)}
	}
	id := rec.ID
	if id == "" {
		id = where
	}
	switch {
	case rec.Code == nil:
		return core.Sample{ID: id, Path: where, LoadErr: errors.New("record has no code field")}
	case strings.TrimSpace(*rec.Code) == "":
		return core.Sample{ID: id, Path: where, LoadErr: errors.New("record has empty code")}
	}
	src := []byte(*rec.Code)
	if rec.ID == "" || l.idMode == IDHash {
		id = Hash(src)
	}
	return core.Sample{ID: id, Path: where, Source: src, Edition: rec.Edition}
}

// readLine returns the next line without its terminator. A line longer than
// limit is consumed and reported as tooLong with no data.
func readLine(r *bufio.Reader, limit int) (line []byte, tooLong bool, err error) {
	for {
		chunk, err := r.ReadSlice('\n')
		if !tooLong {
			if len(line)+len(chunk) > limit+1 {
				tooLong, line = true, nil
			} else {
				line = append(line, chunk...)
			}
		}
		switch err {
		case bufio.ErrBufferFull:
			continue
		case nil:
			return bytes.TrimSuffix(line, []byte("\n")), tooLong, nil
		default:
			return line, tooLong, err
		}
	}
}

// Hash returns the hex sha256 of src.
func Hash(src []byte) string {
	sum := sha256.Sum256(src)
	return hex.EncodeToString(sum[:])
}
