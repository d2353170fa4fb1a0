package sqlite

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/infodoc"
)

// parseRFC3339 parses an RFC3339 formatted timestamp string.
// Returns an error if parsing fails with a descriptive message including the field name.
func parseRFC3339(value, fieldName string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", fieldName, err)
	}
	return t, nil
}

// hashEntries computes the xxHash of a list of index entries as a hex
// string. Equal lists hash equally regardless of the manual's fingerprint.
func hashEntries(entries []infodoc.IndexEntry) string {
	d := xxhash.New()
	for _, e := range entries {
		d.WriteString(e.Manual)
		d.WriteString("\x00")
		d.WriteString(e.Entry)
		d.WriteString("\x00")
		d.WriteString(e.Node)
		d.WriteString("\x00")
		d.WriteString(strconv.Itoa(e.Line))
		d.WriteString("\n")
	}
	b := binary.BigEndian.AppendUint64(nil, d.Sum64())
	return hex.EncodeToString(b)
}
