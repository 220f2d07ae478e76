package export

import (
	"encoding/csv"
	"io"
	"time"

	"github.com/r3d91ll/meetup/pkg/agent"
	merrors "github.com/r3d91ll/meetup/pkg/errors"
	"github.com/r3d91ll/meetup/pkg/round"
)

// CSVDialect specifies the CSV format variant.
type CSVDialect string

const (
	// DialectStandard uses RFC 4180 compliant CSV.
	DialectStandard CSVDialect = "standard"

	// DialectTSV uses tab-separated values instead of comma.
	DialectTSV CSVDialect = "tsv"
)

// CSVConfig specifies options for CSV export.
type CSVConfig struct {
	// Dialect specifies the CSV format variant.
	Dialect CSVDialect

	// IncludeHeader writes column headers as the first row.
	IncludeHeader bool

	// IncludeRoundID adds round_id and timestamp columns to transition rows.
	IncludeRoundID bool

	// TimestampFormat is used when IncludeRoundID is set.
	TimestampFormat string
}

// DefaultCSVConfig returns RFC 4180 output with a header row.
func DefaultCSVConfig() *CSVConfig {
	return &CSVConfig{
		Dialect:         DialectStandard,
		IncludeHeader:   true,
		TimestampFormat: time.RFC3339,
	}
}

// CSVWriter writes listings and transitions as CSV.
type CSVWriter struct {
	config *CSVConfig
	writer *csv.Writer
}

// NewCSVWriter creates a CSVWriter. A nil config uses DefaultCSVConfig.
func NewCSVWriter(w io.Writer, config *CSVConfig) *CSVWriter {
	if config == nil {
		config = DefaultCSVConfig()
	}
	cw := csv.NewWriter(w)
	if config.Dialect == DialectTSV {
		cw.Comma = '\t'
	}
	return &CSVWriter{config: config, writer: cw}
}

// WriteListing writes one row per agent: name, category.
func (c *CSVWriter) WriteListing(listing []agent.Agent) error {
	if c.config.IncludeHeader {
		if err := c.write([]string{"name", "category"}); err != nil {
			return err
		}
	}
	for _, a := range listing {
		if err := c.write([]string{a.Name, a.Category.String()}); err != nil {
			return err
		}
	}
	return nil
}

// WriteTransitions writes one row per transition of the round.
func (c *CSVWriter) WriteTransitions(r *round.Round) error {
	header := []string{"name", "from", "to", "partner", "rule"}
	if c.config.IncludeRoundID {
		header = append([]string{"round_id", "timestamp"}, header...)
	}
	if c.config.IncludeHeader {
		if err := c.write(header); err != nil {
			return err
		}
	}

	for _, t := range r.Transitions {
		row := []string{t.Name, t.From.String(), t.To.String(), t.Partner, string(t.Rule)}
		if c.config.IncludeRoundID {
			row = append([]string{r.ID, r.Timestamp.UTC().Format(c.config.TimestampFormat)}, row...)
		}
		if err := c.write(row); err != nil {
			return err
		}
	}
	return nil
}

// Flush writes buffered rows to the underlying writer.
func (c *CSVWriter) Flush() error {
	c.writer.Flush()
	if err := c.writer.Error(); err != nil {
		return merrors.AttachSuggestions(merrors.IOWrap(err, merrors.ErrIOWriteFailed, "failed to write CSV"))
	}
	return nil
}

func (c *CSVWriter) write(record []string) error {
	if err := c.writer.Write(record); err != nil {
		return merrors.AttachSuggestions(merrors.IOWrap(err, merrors.ErrIOWriteFailed, "failed to write CSV row"))
	}
	return nil
}
