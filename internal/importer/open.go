package importer

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"

	"github.com/ulikunitz/xz"

	"github.com/FocuswithJustin/BibleHere/core/errors"
	"github.com/FocuswithJustin/BibleHere/internal/validation"
)

type readCloser struct {
	io.Reader
	closer io.Closer
}

func (r readCloser) Close() error {
	return r.closer.Close()
}

// OpenFile opens path for reading. The content is sniffed: xz and gzip
// streams are decompressed on the fly, other binary files are rejected.
func OpenFile(path string) (io.ReadCloser, error) {
	if err := validation.ValidatePath(path); err != nil {
		return nil, errors.NewValidation("path", err.Error())
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errors.NewIO("stat", path, err)
	}
	if err := validation.CheckFileInfo(info); err != nil {
		f.Close()
		return nil, errors.NewValidation("file", err.Error())
	}

	br := bufio.NewReaderSize(f, validation.SniffLength)
	head, _ := br.Peek(validation.SniffLength)
	var r io.Reader
	switch t := validation.Detect(head); t {
	case validation.FileTypeText:
		r = br
	case validation.FileTypeXZ:
		r, err = xz.NewReader(br)
	case validation.FileTypeGzip:
		r, err = gzip.NewReader(br)
	default:
		f.Close()
		return nil, errors.NewValidation("file", fmt.Sprintf("%s holds %s data, want text, xz or gzip", path, t))
	}
	if err != nil {
		f.Close()
		return nil, errors.NewIO("decompress", path, err)
	}
	return readCloser{Reader: r, closer: f}, nil
}
