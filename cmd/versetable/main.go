// Command versetable converts a JSON Bible document into a flat verse table.
// Both list-shaped documents (an array of verse objects) and nested
// book -> chapter -> verse -> text documents are accepted.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/alecthomas/kong"
	"github.com/dustin/go-humanize"

	"github.com/FocuswithJustin/versetable/core/sqlite"
	"github.com/FocuswithJustin/versetable/core/verse"
	"github.com/FocuswithJustin/versetable/internal/logging"
	"github.com/FocuswithJustin/versetable/internal/pipeline"
	"github.com/FocuswithJustin/versetable/internal/sink"
)

const version = "0.1.0"

// previewTextWidth caps the text column of the preview table.
const previewTextWidth = 60

// stdout receives command output; tests replace it.
var stdout io.Writer = os.Stdout

// CLI defines the command-line interface for versetable.
type CLI struct {
	// Global flags
	LogLevel  string `name:"log-level" help:"Log level (debug, info, warn, error)" default:"info" enum:"debug,info,warn,error"`
	LogFormat string `name:"log-format" help:"Log format (text, json)" default:"text" enum:"text,json"`

	Convert ConvertCmd `cmd:"" default:"withargs" help:"Convert a JSON Bible into a verse table (default)"`
	Detect  DetectCmd  `cmd:"" help:"Report the shape of a JSON Bible"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// AfterApply configures logging once flags are parsed.
func (c *CLI) AfterApply() error {
	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return err
	}
	format, err := logging.ParseFormat(c.LogFormat)
	if err != nil {
		return err
	}
	logging.InitLogger(level, format)
	return nil
}

// ConvertCmd converts one input document.
type ConvertCmd struct {
	Input   string `short:"i" help:"Input JSON file (.json, .json.gz, .json.xz)" default:"${default_input}"`
	Out     string `short:"o" help:"Output file" default:"${default_output}"`
	Format  string `help:"Output format (auto, csv, sqlite); auto picks sqlite for .db, .sqlite and .sqlite3" default:"auto" enum:"auto,csv,sqlite"`
	Table   string `help:"SQLite table name" default:"${default_table}"`
	Preview int    `help:"Number of rows to print after saving" default:"${default_preview}"`
}

func (c *ConvertCmd) Run() error {
	format, err := sink.ParseFormat(c.Format)
	if err != nil {
		return err
	}

	res, err := pipeline.Run(context.Background(), pipeline.Options{
		Input:   c.Input,
		Output:  c.Out,
		Format:  format,
		Table:   c.Table,
		Preview: c.Preview,
	})
	if err != nil {
		return err
	}

	printSummary(stdout, res)
	return nil
}

// DetectCmd reports the shape of a document without converting it.
type DetectCmd struct {
	Path string `arg:"" help:"Path to JSON file"`
}

func (c *DetectCmd) Run() error {
	shape, doc, err := pipeline.Detect(context.Background(), c.Path)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%s: %s (%s, blake3 %s)\n", c.Path, shape, humanize.Bytes(uint64(doc.Size)), doc.Digest)
	return nil
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	info := sqlite.GetInfo()
	fmt.Fprintf(stdout, "versetable version %s (sqlite: %s via %s)\n", version, info.DriverType, info.Package)
	return nil
}

func printSummary(w io.Writer, res *pipeline.Result) {
	fmt.Fprintf(w, "Saved %s verses to %s\n", humanize.Comma(int64(res.Rows)), res.Output)
	fmt.Fprintf(w, "Input: %s %s document, %s, blake3 %s\n",
		humanize.Bytes(uint64(res.InputSize)), res.Shape, res.Compression, res.InputDigest)

	if len(res.Preview) == 0 {
		return
	}
	fmt.Fprintln(w, "First few rows:")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "id\tbook\tchapter\tverse\ttext")
	for _, rec := range res.Preview {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", rec.ID, rec.Book, cell(rec.Chapter), cell(rec.Verse), truncate(rec.Text, previewTextWidth))
	}
	tw.Flush()
}

// cell renders a null integer as NaN, the way a dataframe preview shows it.
func cell(n verse.NullInt) string {
	if !n.Valid {
		return "NaN"
	}
	return n.String()
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}

func newParser(cli *CLI, options ...kong.Option) (*kong.Kong, error) {
	options = append([]kong.Option{
		kong.Name("versetable"),
		kong.Description("Convert a JSON Bible into a sorted id,book,chapter,verse,text table"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"default_input":   pipeline.DefaultInput,
			"default_output":  pipeline.DefaultOutput,
			"default_table":   sink.DefaultTable,
			"default_preview": strconv.Itoa(pipeline.DefaultPreview),
		},
	}, options...)
	return kong.New(cli, options...)
}

func main() {
	var cli CLI
	parser, err := newParser(&cli)
	if err != nil {
		panic(err)
	}
	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)
	err = ctx.Run()
	ctx.FatalIfErrorf(err)
}
