// Package fasta reads FASTA files.  FASTA files consist of a number of named
// sequences that may be interrupted by newlines.  For example:
//
// >read7
// ACGTAC
// GAGGAC
// GCG
// >read8
// ACGT
//
// Sequence names are the stretch of characters excluding spaces immediately
// after '>'.  Any text after a space is ignored, so '>read1 pass=2' becomes
// 'read1'.
package fasta

import (
	"bufio"
	"io"
	"strings"

	"github.com/grailbio/longread/biosimd"
	"github.com/pkg/errors"
)

const (
	// Long reads can be megabases long, and some writers put a whole read on
	// one line.
	maxLineSize = 1024 * 1024 * 300 // 300 MB
)

// Record is one named sequence.  Seq is uppercase, with every byte outside
// ACGT replaced by N.
type Record struct {
	Name string
	Seq  []byte
}

// Scanner streams records from FASTA data.
//
// Usage:
//   sc := fasta.NewScanner(r)
//   for sc.Scan() {
//     rec := sc.Record()
//   }
//   if err := sc.Err(); err != nil { ... }
type Scanner struct {
	sc      *bufio.Scanner
	header  string // pending header line for the next record
	started bool
	rec     Record
	err     error
}

// NewScanner creates a Scanner reading from r.
func NewScanner(r io.Reader) *Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(nil, maxLineSize)
	return &Scanner{sc: sc}
}

func parseName(header string) string {
	name := header[1:]
	if i := strings.IndexAny(name, " \t"); i >= 0 {
		name = name[:i]
	}
	return name
}

// Scan reads the next record.  It returns false at EOF or on error.
func (s *Scanner) Scan() bool {
	if s.err != nil {
		return false
	}
	if !s.started {
		s.started = true
		for s.sc.Scan() {
			line := s.sc.Text()
			if len(line) == 0 {
				continue
			}
			if line[0] != '>' {
				s.err = errors.Errorf("malformed FASTA file: sequence data before the first header")
				return false
			}
			s.header = line
			break
		}
	}
	if s.header == "" {
		if err := s.sc.Err(); err != nil {
			s.err = errors.Wrap(err, "couldn't read FASTA data")
		}
		return false
	}
	s.rec = Record{Name: parseName(s.header)}
	s.header = ""
	var seq []byte
	for s.sc.Scan() {
		line := s.sc.Bytes()
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' {
			s.header = string(line)
			break
		}
		seq = append(seq, line...)
	}
	if err := s.sc.Err(); err != nil {
		s.err = errors.Wrap(err, "couldn't read FASTA data")
		return false
	}
	if s.rec.Name == "" {
		s.err = errors.Errorf("malformed FASTA file: empty sequence name")
		return false
	}
	if seq == nil {
		seq = []byte{}
	}
	biosimd.CleanASCIISeqInplace(seq)
	s.rec.Seq = seq
	return true
}

// Record returns the record read by the last successful Scan.  The record's
// sequence is owned by the caller.
func (s *Scanner) Record() Record { return s.rec }

// Err returns the first error encountered.
func (s *Scanner) Err() error { return s.err }

// ReadAll reads every record from r.  Duplicate names are an error.
func ReadAll(r io.Reader) ([]Record, error) {
	var (
		recs []Record
		seen = map[string]bool{}
	)
	sc := NewScanner(r)
	for sc.Scan() {
		rec := sc.Record()
		if seen[rec.Name] {
			return nil, errors.Errorf("duplicate sequence name: %s", rec.Name)
		}
		seen[rec.Name] = true
		recs = append(recs, rec)
	}
	return recs, sc.Err()
}
