// Package export writes listings and round records as tables, YAML, JSON or CSV.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/r3d91ll/meetup/pkg/agent"
	merrors "github.com/r3d91ll/meetup/pkg/errors"
	"github.com/r3d91ll/meetup/pkg/round"
)

// Format is an output format.
type Format string

const (
	FormatTable Format = "table"
	FormatYAML  Format = "yaml"
	FormatJSON  Format = "json"
	FormatCSV   Format = "csv"
)

// Formats lists the supported formats.
var Formats = []Format{FormatTable, FormatYAML, FormatJSON, FormatCSV}

// ParseFormat converts a case-insensitive name into a Format.
// An empty name selects the table format.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "" {
		return FormatTable, nil
	}
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return f, merrors.AttachSuggestions(merrors.Validationf(merrors.ErrFormatUnsupported,
		"unsupported format %q", s))
}

// WriteListing writes a listing in the given format.
func WriteListing(w io.Writer, format Format, listing []agent.Agent) error {
	if listing == nil {
		listing = []agent.Agent{}
	}

	switch format {
	case FormatTable, "":
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tCONDITION")
		for _, a := range listing {
			fmt.Fprintf(tw, "%s\t%s\n", a.Name, a.Category)
		}
		return flushErr(tw.Flush())
	case FormatYAML:
		return writeYAML(w, listing)
	case FormatJSON:
		return writeJSON(w, listing)
	case FormatCSV:
		cw := NewCSVWriter(w, DefaultCSVConfig())
		if err := cw.WriteListing(listing); err != nil {
			return err
		}
		return cw.Flush()
	default:
		return unsupported(format)
	}
}

// WriteRound writes a round record. Table and CSV output list the transitions.
func WriteRound(w io.Writer, format Format, r *round.Round) error {
	switch format {
	case FormatTable, "":
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tFROM\tTO\tPARTNER\tRULE")
		for _, t := range r.Transitions {
			partner := t.Partner
			if partner == "" {
				partner = "-"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", t.Name, t.From, t.To, partner, t.Rule)
		}
		return flushErr(tw.Flush())
	case FormatYAML:
		return writeYAML(w, r)
	case FormatJSON:
		return writeJSON(w, r)
	case FormatCSV:
		cw := NewCSVWriter(w, DefaultCSVConfig())
		if err := cw.WriteTransitions(r); err != nil {
			return err
		}
		return cw.Flush()
	default:
		return unsupported(format)
	}
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return merrors.Wrap(err, merrors.ErrExportFailed, merrors.CategoryIO, "failed to encode YAML")
	}
	return flushErr(enc.Close())
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return merrors.Wrap(err, merrors.ErrExportFailed, merrors.CategoryIO, "failed to encode JSON")
	}
	return nil
}

func flushErr(err error) error {
	if err != nil {
		return merrors.AttachSuggestions(merrors.IOWrap(err, merrors.ErrIOWriteFailed, "failed to write output"))
	}
	return nil
}

func unsupported(format Format) error {
	return merrors.AttachSuggestions(merrors.Validationf(merrors.ErrFormatUnsupported,
		"unsupported format %q", format))
}

// WriteFile creates path and fills it with write. The file is removed again
// when writing or closing fails.
func WriteFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return merrors.AttachSuggestions(merrors.IOWrap(err, merrors.ErrIOWriteFailed,
			"failed to create output file").WithContext("path", path))
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = merrors.AttachSuggestions(merrors.IOWrap(cerr, merrors.ErrIOWriteFailed,
				"failed to close output file").WithContext("path", path))
		}
		if err != nil {
			os.Remove(path)
		}
	}()

	return write(f)
}
