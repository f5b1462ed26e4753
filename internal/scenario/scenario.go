// Package scenario reads and writes the flat per-body text format:
//
//	<type> <R> <color> <m> <x> <y> <Vx> <Vy>
//
// one body per line, where type is Star or Planet in any letter case.
// Blank lines and lines starting with '#' are ignored.
package scenario

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/san-kum/gravsim/internal/dynamo"
)

// Ext is the extension of scenario files in a scenario directory.
const Ext = ".txt"

const numFields = 8

var (
	ErrUnknownKind     = dynamo.ErrUnknownKind
	ErrMalformedRecord = errors.New("scenario: malformed record")
)

// ParseError describes a rejected line.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

type options struct {
	lenient bool
	onSkip  func(*ParseError)
}

type Option func(*options)

// WithLenient skips rejected lines instead of failing the load. onSkip, if
// not nil, is called for every skipped line.
func WithLenient(onSkip func(*ParseError)) Option {
	return func(o *options) {
		o.lenient = true
		o.onSkip = onSkip
	}
}

// Load parses bodies in file order. By default the first rejected line
// aborts the load with a *ParseError.
func Load(r io.Reader, opts ...Option) ([]dynamo.Body, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	bodies := make([]dynamo.Body, 0)
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		trimmed := strings.TrimSpace(text)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		b, err := parseRecord(trimmed)
		if err != nil {
			perr := &ParseError{Line: line, Text: text, Err: err}
			if !o.lenient {
				return nil, perr
			}
			if o.onSkip != nil {
				o.onSkip(perr)
			}
			continue
		}
		bodies = append(bodies, b)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return bodies, nil
}

func parseRecord(s string) (dynamo.Body, error) {
	fields := strings.Fields(s)
	kind, err := dynamo.ParseKind(fields[0])
	if err != nil {
		return dynamo.Body{}, err
	}
	if len(fields) != numFields {
		return dynamo.Body{}, fmt.Errorf("%w: expected %d fields, got %d", ErrMalformedRecord, numFields, len(fields))
	}

	names := [...]string{"R", "m", "x", "y", "Vx", "Vy"}
	raw := [...]string{fields[1], fields[3], fields[4], fields[5], fields[6], fields[7]}
	var vals [len(names)]float64
	for i, f := range raw {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return dynamo.Body{}, fmt.Errorf("%w: %s: %q is not a number", ErrMalformedRecord, names[i], f)
		}
		vals[i] = v
	}

	return dynamo.NewLabelledBody(kind, fields[0], vals[0], fields[2], vals[1],
		dynamo.Vec2{X: vals[2], Y: vals[3]},
		dynamo.Vec2{X: vals[4], Y: vals[5]})
}

// Save writes one line per body with the kind token echoed as loaded.
func Save(w io.Writer, bodies []dynamo.Body) error {
	bw := bufio.NewWriter(w)
	for _, b := range bodies {
		fields := []string{
			b.Label(),
			formatFloat(b.Radius()),
			b.Color(),
			formatFloat(b.Mass()),
			formatFloat(b.Pos.X),
			formatFloat(b.Pos.Y),
			formatFloat(b.Vel.X),
			formatFloat(b.Vel.Y),
		}
		if _, err := bw.WriteString(strings.Join(fields, " ") + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func LoadFile(path string, opts ...Option) ([]dynamo.Body, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	bodies, err := Load(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return bodies, nil
}

func SaveFile(path string, bodies []dynamo.Body) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Save(f, bodies); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// List returns the scenario file names in dir, sorted.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != Ext {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}
