package reporter

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fenilsonani/dupescan/internal/scanner"
	"github.com/fenilsonani/dupescan/pkg/utils"
	"gopkg.in/yaml.v3"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatTable   OutputFormat = "table"
	FormatJSON    OutputFormat = "json"
	FormatYAML    OutputFormat = "yaml"
	FormatSummary OutputFormat = "summary"
)

// ParseFormat validates a user supplied format name
func ParseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(s)); f {
	case FormatTable, FormatJSON, FormatYAML, FormatSummary:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported format: %s", s)
	}
}

// Reporter handles report generation
type Reporter struct {
	writer io.Writer
	format OutputFormat
}

// New creates a new Reporter
func New(writer io.Writer, format OutputFormat) *Reporter {
	return &Reporter{
		writer: writer,
		format: format,
	}
}

// Report generates a report from scan results
func (r *Reporter) Report(result *scanner.Result) error {
	switch r.format {
	case FormatTable:
		return r.reportTable(result)
	case FormatJSON:
		return r.reportJSON(result)
	case FormatYAML:
		return r.reportYAML(result)
	case FormatSummary:
		return r.reportSummary(result)
	default:
		return fmt.Errorf("unsupported format: %s", r.format)
	}
}

// Banner describes what a scan is about to search
func Banner(root, filterDescription string) string {
	return fmt.Sprintf("🔍 Searching '%s' for duplicates among %s...", root, filterDescription)
}

// reportSummary prints numbered groups followed by totals
func (r *Reporter) reportSummary(result *scanner.Result) error {
	w := r.writer

	if !result.HasDuplicates() {
		fmt.Fprintf(w, "✅ No duplicate files found.\n")
	} else {
		fmt.Fprintf(w, "\n✨ Found %d duplicate groups:\n\n", len(result.Groups))
		for i, group := range result.Groups {
			fmt.Fprintf(w, "--- Group %d (%d files, %s each, sha256 %s) ---\n",
				i+1, len(group.Paths), utils.FormatBytes(group.Size), group.Digest.Short())
			for _, path := range group.Paths {
				fmt.Fprintf(w, "  - %s\n", path)
			}
			fmt.Fprintln(w)
		}
	}

	stats := result.Stats
	fmt.Fprintf(w, "=== Duplicate Scan Summary ===\n")
	fmt.Fprintf(w, "Files scanned: %d (%s)\n", stats.FilesSeen, utils.FormatBytes(stats.BytesSeen))
	fmt.Fprintf(w, "Files hashed: %d of %d candidates (%s read)\n",
		stats.FilesHashed, stats.Candidates, utils.FormatBytes(stats.BytesHashed))
	fmt.Fprintf(w, "Duplicate groups: %d (%d files)\n", len(result.Groups), stats.DuplicateFiles)
	fmt.Fprintf(w, "Reclaimable: %s\n", utils.FormatBytes(stats.WastedBytes))
	fmt.Fprintf(w, "Duration: %s\n", result.Duration.Round(time.Millisecond))

	if summary := scanner.FormatWarningSummary(result.Warnings); summary != "" {
		fmt.Fprint(w, summary)
	}

	return nil
}

// reportTable generates a table report, one row per file
func (r *Reporter) reportTable(result *scanner.Result) error {
	rule := strings.Repeat("-", 110)

	// Print header
	fmt.Fprintf(r.writer, "%-6s | %-12s | %-12s | %s\n", "Group", "Size", "Digest", "Path")
	fmt.Fprintf(r.writer, "%s\n", rule)

	// Print rows
	for i, group := range result.Groups {
		for _, path := range group.Paths {
			if len(path) > 70 {
				path = "..." + path[len(path)-67:]
			}
			fmt.Fprintf(r.writer, "%-6d | %-12s | %-12s | %s\n",
				i+1,
				utils.FormatBytes(group.Size),
				group.Digest.Short(),
				path)
		}
	}

	// Print summary
	fmt.Fprintf(r.writer, "%s\n", rule)
	fmt.Fprintf(r.writer, "Total: %d groups, %d files, %s reclaimable\n",
		len(result.Groups), result.Stats.DuplicateFiles, utils.FormatBytes(result.Stats.WastedBytes))
	if len(result.Warnings) > 0 {
		fmt.Fprintf(r.writer, "Warnings: %d\n", len(result.Warnings))
	}

	return nil
}

// groupReport is the serialised form of a duplicate group
type groupReport struct {
	Size        int64    `json:"size" yaml:"size"`
	Digest      string   `json:"sha256" yaml:"sha256"`
	WastedBytes int64    `json:"wasted_bytes" yaml:"wasted_bytes"`
	Files       []string `json:"files" yaml:"files"`
}

type warningReport struct {
	Kind    string `json:"kind" yaml:"kind"`
	Path    string `json:"path" yaml:"path"`
	Reason  string `json:"reason" yaml:"reason"`
	Message string `json:"message" yaml:"message"`
}

type statsReport struct {
	FilesScanned   int   `json:"files_scanned" yaml:"files_scanned"`
	BytesScanned   int64 `json:"bytes_scanned" yaml:"bytes_scanned"`
	Candidates     int   `json:"candidates" yaml:"candidates"`
	SizeBuckets    int   `json:"size_buckets" yaml:"size_buckets"`
	FilesHashed    int   `json:"files_hashed" yaml:"files_hashed"`
	BytesHashed    int64 `json:"bytes_hashed" yaml:"bytes_hashed"`
	DuplicateFiles int   `json:"duplicate_files" yaml:"duplicate_files"`
	WastedBytes    int64 `json:"wasted_bytes" yaml:"wasted_bytes"`
}

// Document is the structure written by the json and yaml formats
type Document struct {
	ScanID              string          `json:"scan_id" yaml:"scan_id"`
	Timestamp           string          `json:"timestamp" yaml:"timestamp"`
	Root                string          `json:"root" yaml:"root"`
	Filter              string          `json:"filter,omitempty" yaml:"filter,omitempty"`
	DurationMS          int64           `json:"duration_ms" yaml:"duration_ms"`
	Stats               statsReport     `json:"stats" yaml:"stats"`
	WastedSizeFormatted string          `json:"wasted_size_formatted" yaml:"wasted_size_formatted"`
	Groups              []groupReport   `json:"groups" yaml:"groups"`
	Warnings            []warningReport `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// NewDocument converts a result into its serialisable form
func NewDocument(result *scanner.Result) Document {
	doc := Document{
		ScanID:     result.ID.String(),
		Timestamp:  result.StartedAt.Format(time.RFC3339),
		Root:       result.Root,
		Filter:     result.Filter,
		DurationMS: result.Duration.Milliseconds(),
		Stats: statsReport{
			FilesScanned:   result.Stats.FilesSeen,
			BytesScanned:   result.Stats.BytesSeen,
			Candidates:     result.Stats.Candidates,
			SizeBuckets:    result.Stats.SizeBuckets,
			FilesHashed:    result.Stats.FilesHashed,
			BytesHashed:    result.Stats.BytesHashed,
			DuplicateFiles: result.Stats.DuplicateFiles,
			WastedBytes:    result.Stats.WastedBytes,
		},
		WastedSizeFormatted: utils.FormatBytes(result.Stats.WastedBytes),
		Groups:              make([]groupReport, 0, len(result.Groups)),
	}

	for _, g := range result.Groups {
		doc.Groups = append(doc.Groups, groupReport{
			Size:        g.Size,
			Digest:      g.Digest.String(),
			WastedBytes: g.WastedBytes(),
			Files:       g.Paths,
		})
	}

	for _, w := range result.Warnings {
		doc.Warnings = append(doc.Warnings, warningReport{
			Kind:    w.Kind.String(),
			Path:    w.Path,
			Reason:  w.Reason.String(),
			Message: w.Error(),
		})
	}

	return doc
}

// reportJSON generates a JSON report
func (r *Reporter) reportJSON(result *scanner.Result) error {
	encoder := json.NewEncoder(r.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewDocument(result))
}

// reportYAML generates a YAML report
func (r *Reporter) reportYAML(result *scanner.Result) error {
	encoder := yaml.NewEncoder(r.writer)
	defer encoder.Close()
	return encoder.Encode(NewDocument(result))
}

// SaveToFile saves the report to a file
func SaveToFile(result *scanner.Result, path string, format OutputFormat) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, file.Close())
	}()

	reporter := New(file, format)
	return reporter.Report(result)
}
