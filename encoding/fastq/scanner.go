// Package fastq reads long-read FASTQ files.  Each record is exactly four
// lines: "@name comment", the bases, a "+" separator and the qualities.
// Multi-line records are not supported.
package fastq

import (
	"bufio"
	"bytes"
	"io"

	"github.com/grailbio/longread/biosimd"
	"github.com/pkg/errors"
)

var (
	// ErrShort is returned when a truncated FASTQ file is encountered.
	ErrShort = errors.New("short FASTQ file")
	// ErrInvalid is returned when an invalid FASTQ file is encountered.
	ErrInvalid = errors.New("invalid FASTQ file")
)

// A single nanopore read can be several megabases.
const maxLineSize = 1024 * 1024 * 300

// A Read is one FASTQ record.  Name excludes the leading '@' and anything
// after the first space or tab.  Seq is uppercase, with every byte outside
// ACGT replaced by N.
type Read struct {
	Name      string
	Seq, Qual []byte
}

var errEOF = errors.New("eof")

// Scanner reads FASTQ records.  Scanners are not threadsafe.
//
// Scanner requires name lines to begin with "@", separator lines to begin
// with "+", and qualities (when requested) to be as long as the bases.
type Scanner struct {
	b      *bufio.Scanner
	err    error
	fields Field
	n      int
}

// Field enumerates FASTQ fields. It is used to specify fields to read in
// NewScanner.
type Field uint

const (
	// Name causes the Read.Name field to be filled
	Name Field = 1 << iota
	// Seq causes the Read.Seq field to be filled
	Seq
	// Qual causes the Read.Qual field to be filled
	Qual
	// All equals Name|Seq|Qual.
	All = Name | Seq | Qual
)

// NewScanner constructs a new Scanner that reads raw FASTQ data from the
// provided reader. Fields is a bitset of the fields to read.
func NewScanner(r io.Reader, fields Field) *Scanner {
	b := bufio.NewScanner(r)
	b.Buffer(nil, maxLineSize)
	return &Scanner{b: b, fields: fields}
}

func parseName(line []byte) string {
	name := line[1:]
	if i := bytes.IndexAny(name, " \t"); i >= 0 {
		name = name[:i]
	}
	return string(name)
}

// Scan the next read into the provided read. Scan returns a boolean
// indicating whether the scan succeeded. Once Scan returns false, it
// never returns true again. Upon completion, the user should check
// the Err method to determine whether scanning stopped because of an
// error or because the end of the stream was reached.
//
// The byte slices stored in read are freshly allocated on every call.
func (f *Scanner) Scan(read *Read) bool {
	if f.err != nil {
		return false
	}
	if !f.b.Scan() {
		if f.err = f.b.Err(); f.err == nil {
			f.err = errEOF
		}
		return false
	}
	f.n++
	id := f.b.Bytes()
	if len(id) < 2 || id[0] != '@' {
		f.err = errors.Wrapf(ErrInvalid, "record %d: bad name line", f.n)
		return false
	}
	*read = Read{}
	if f.fields&Name != 0 {
		read.Name = parseName(id)
	}
	if !f.scan() {
		return false
	}
	seqLen := len(f.b.Bytes())
	if f.fields&Seq != 0 {
		read.Seq = append([]byte{}, f.b.Bytes()...)
		biosimd.CleanASCIISeqInplace(read.Seq)
	}
	if !f.scan() {
		return false
	}
	if sep := f.b.Bytes(); len(sep) == 0 || sep[0] != '+' {
		f.err = errors.Wrapf(ErrInvalid, "record %d: bad separator line", f.n)
		return false
	}
	if !f.scan() {
		return false
	}
	if f.fields&Qual != 0 {
		if len(f.b.Bytes()) != seqLen {
			f.err = errors.Wrapf(ErrInvalid, "record %d: %d bases but %d qualities", f.n, seqLen, len(f.b.Bytes()))
			return false
		}
		read.Qual = append([]byte{}, f.b.Bytes()...)
	}
	return true
}

func (f *Scanner) scan() bool {
	ok := f.b.Scan()
	if !ok {
		if f.err = f.b.Err(); f.err == nil {
			f.err = ErrShort
		}
	}
	return ok
}

// Err returns the scanning error, if any.
func (f *Scanner) Err() error {
	if f.err == errEOF {
		return nil
	}
	return f.err
}
