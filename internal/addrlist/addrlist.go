// Package addrlist loads the candidate address list from a CSV file. The
// core never parses the addresses; it just iterates them.
package addrlist

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

const addressColumn = "address"

// Load reads addresses from the named CSV file. The file must have a
// header row containing an "address" column (any position, any case).
// An empty encoding means UTF-8; otherwise the file is decoded from the
// named charset (e.g. "iso-8859-1" for spreadsheet exports).
func Load(path, encoding string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "addrlist: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	var r io.Reader = f
	if encoding != "" {
		enc, err := htmlindex.Get(encoding)
		if err != nil {
			return nil, eris.Wrapf(err, "addrlist: unknown encoding %q", encoding)
		}
		r = transform.NewReader(f, enc.NewDecoder())
	}

	return parse(r)
}

func parse(r io.Reader) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // allow ragged rows
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, eris.New("addrlist: empty file")
	}
	if err != nil {
		return nil, eris.Wrap(err, "addrlist: read header")
	}

	col := -1
	for i, name := range header {
		if strings.EqualFold(strings.TrimSpace(name), addressColumn) {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, eris.Errorf("addrlist: no %q column in header", addressColumn)
	}

	var addresses []string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			return addresses, nil
		}
		if err != nil {
			return nil, eris.Wrap(err, "addrlist: read row")
		}
		if col >= len(record) {
			continue
		}
		addr := strings.TrimSpace(record[col])
		if addr == "" {
			continue
		}
		addresses = append(addresses, addr)
	}
}
