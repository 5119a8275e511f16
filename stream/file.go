/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package stream

import (
	"io"
	"os"

	"github/sabouaram/fibernet/file/perm"
)

// FileStream wraps *os.File, exposing the full seek/size/truncate
// capability set a regular file supports in addition to the baseline
// Stream contract.
type FileStream struct {
	f *os.File
}

// OpenFile opens path with the given flags and permission, returning
// a FileStream ready for the Stream contract.
func OpenFile(path string, flag int, mode perm.Perm) (*FileStream, error) {
	f, err := os.OpenFile(path, flag, mode.FileMode())
	if err != nil {
		return nil, err
	}
	return &FileStream{f: f}, nil
}

// NewFile wraps an already-open *os.File.
func NewFile(f *os.File) *FileStream {
	return &FileStream{f: f}
}

func (s *FileStream) Read(p []byte) (int, error)  { return s.f.Read(p) }
func (s *FileStream) Write(p []byte) (int, error) { return s.f.Write(p) }
func (s *FileStream) Close() error                { return s.f.Close() }
func (s *FileStream) CancelRead()                 {}
func (s *FileStream) CancelWrite()                {}

func (s *FileStream) Seek(offset int64, whence int) (int64, error) {
	return s.f.Seek(offset, whence)
}

func (s *FileStream) Tell() (int64, error) {
	return s.f.Seek(0, io.SeekCurrent)
}

func (s *FileStream) Size() (int64, error) {
	fi, err := s.f.Stat()
	if err != nil {
		return 0, err
	}
	return fi.Size(), nil
}

func (s *FileStream) Truncate(size int64) error {
	return s.f.Truncate(size)
}

// Mode returns the file's permission bits as the typed Perm wrapper
// rather than a bare os.FileMode.
func (s *FileStream) Mode() (perm.Perm, error) {
	fi, err := s.f.Stat()
	if err != nil {
		return 0, err
	}
	return perm.ParseFileMode(fi.Mode()), nil
}

// File exposes the underlying *os.File for callers needing OS-level
// operations (Fd, Sync, Name) outside the Stream contract.
func (s *FileStream) File() *os.File { return s.f }
