package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"leaguestore/internal/core"
)

type printer struct {
	format string
	w      io.Writer
}

func (o *RootOptions) printer(w io.Writer) printer { return printer{format: o.Format, w: w} }

func (p printer) json(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// records prints a record set as JSON, or as CSV under the canonical header
// in text mode.
func (p printer) records(ops entityOps, records any) error {
	if p.format != "text" {
		return p.json(records)
	}
	raw, err := ops.encode(records)
	if err != nil {
		return err
	}
	_, err = p.w.Write(raw)
	return err
}

func (p printer) statuses(statuses []core.ExtentStatus) error {
	if p.format != "text" {
		return p.json(statuses)
	}
	for _, st := range statuses {
		if st.Error != "" {
			if _, err := fmt.Fprintf(p.w, "%-7s FAIL %s: %s\n", st.Entity, st.Kind, st.Error); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(p.w, "%-7s ok   %d records, %d bytes\n", st.Entity, st.Records, st.Size); err != nil {
			return err
		}
	}
	return nil
}
