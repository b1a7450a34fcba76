package tableau

import (
	"archive/zip"
	"bytes"
	"fmt"
	"path"
	"strings"

	"github.com/matzehuels/glow/pkg/errors"
	"github.com/matzehuels/glow/pkg/xmltree"
)

// zipMagic is the local file header signature of a zip archive.
var zipMagic = []byte("PK\x03\x04")

// ParseBundle parses a downloaded data source. data is either a .tdsx
// archive, in which case the first .tds entry is used, or a .tds document.
func ParseBundle(data []byte) (*xmltree.Element, error) {
	if !bytes.HasPrefix(data, zipMagic) {
		return xmltree.ParseBytes(data)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMalformedDocument, err, "open data source archive")
	}
	for _, f := range zr.File {
		if !strings.EqualFold(path.Ext(f.Name), ".tds") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeMalformedDocument, err, "open %s", f.Name)
		}
		defer rc.Close()
		root, err := xmltree.Parse(rc)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.Name, err)
		}
		return root, nil
	}
	return nil, errors.New(errors.ErrCodeMalformedDocument, "no .tds file in data source archive")
}
