// Command biblehere resolves scripture references and searches Bible
// versions, cross-references, commentaries and the Strong's concordance
// from the command line or over HTTP.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"

	"github.com/FocuswithJustin/BibleHere/core/canon"
	"github.com/FocuswithJustin/BibleHere/core/engine"
	"github.com/FocuswithJustin/BibleHere/core/search"
	"github.com/FocuswithJustin/BibleHere/internal/config"
	"github.com/FocuswithJustin/BibleHere/internal/logging"
	"github.com/FocuswithJustin/BibleHere/internal/storage"
)

const version = "0.1.0"

// stdout receives command output; tests point it at a buffer.
var stdout io.Writer = os.Stdout

// CLI defines the command-line interface for biblehere.
var CLI struct {
	// Global flags
	Config    string `name:"config" short:"c" help:"Config file path" type:"path"`
	DB        string `name:"db" help:"Corpus database (overrides storage.database)" type:"path"`
	LogLevel  string `name:"log-level" help:"Log level: debug, info, warn, error"`
	LogFormat string `name:"log-format" help:"Log format: json, text"`

	Serve      ServeCmd      `cmd:"" help:"Start the REST API server"`
	Import     ImportGroup   `cmd:"" help:"Import versions, cross-references, commentaries and Strong's data"`
	Versions   VersionsCmd   `cmd:"" help:"List loaded Bible versions"`
	Resolve    ResolveCmd    `cmd:"" help:"Resolve references to canonical identifiers"`
	Search     SearchCmd     `cmd:"" help:"Search verse text"`
	Suggest    SuggestCmd    `cmd:"" help:"Complete a partial reference or word"`
	Passage    PassageCmd    `cmd:"" help:"Print the text of a reference"`
	Votd       VotdCmd       `cmd:"" name:"votd" help:"Print the verse of the day"`
	Random     RandomCmd     `cmd:"" help:"Print a random verse"`
	Xrefs      XrefsCmd      `cmd:"" help:"List cross-references of a verse"`
	Commentary CommentaryCmd `cmd:"" help:"List commentaries on a verse or chapter"`
	Strongs    StrongsCmd    `cmd:"" help:"Look up Strong's numbers and tagged words"`
	Version    VersionCmd    `cmd:"" help:"Print version information"`
}

// app is what a command needs once configuration is loaded.
type app struct {
	cfg   *config.Config
	canon *canon.Canon
	db    *storage.DB
}

// setup loads the configuration, applies the global flags, initializes
// logging and opens the database.
func setup() (*app, error) {
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		return nil, err
	}
	if CLI.DB != "" {
		cfg.Storage.Database = CLI.DB
	}
	if CLI.LogLevel != "" {
		cfg.Logging.Level = CLI.LogLevel
	}
	if CLI.LogFormat != "" {
		cfg.Logging.Format = CLI.LogFormat
	}
	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, err
	}
	format, err := logging.ParseFormat(cfg.Logging.Format)
	if err != nil {
		return nil, err
	}
	logging.InitLogger(level, format)

	c, err := loadCanon(cfg.Canon)
	if err != nil {
		return nil, err
	}
	db, err := storage.Open(cfg.Storage.Database)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, canon: c, db: db}, nil
}

func (a *app) Close() error {
	return a.db.Close()
}

// engine loads the corpus into a new engine.
func (a *app) engine(ctx context.Context) (*engine.Engine, error) {
	data, err := a.db.Load(ctx, a.canon)
	if err != nil {
		return nil, err
	}
	return engine.New(data, engineOptions(a.cfg)), nil
}

func loadCanon(cfg config.CanonConfig) (*canon.Canon, error) {
	if cfg.AliasFile == "" {
		return canon.Default(), nil
	}
	data, err := os.ReadFile(cfg.AliasFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read alias file: %w", err)
	}
	table, err := canon.ParseAliases(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.AliasFile, err)
	}
	return canon.WithAliases(table)
}

func engineOptions(cfg *config.Config) engine.Options {
	s := cfg.Search
	return engine.Options{
		Search: search.Options{
			DefaultVersions:  s.DefaultVersions,
			DefaultPageSize:  s.DefaultPageSize,
			MaxPageSize:      s.MaxPageSize,
			NgramSize:        s.NgramSize,
			NgramMinOverlap:  s.NgramMinOverlap,
			MaxRegexLength:   s.MaxRegexLength,
			HighlightPre:     s.HighlightPre,
			HighlightPost:    s.HighlightPost,
			EscapeHTML:       true,
			StopwordLanguage: s.StopwordLanguage,
		},
		CacheSize:       s.CacheSize,
		CacheTTL:        s.CacheTTL,
		HistoryCapacity: cfg.History.Capacity,
		SuggestLimit:    s.SuggestLimit,
		Locale:          cfg.Canon.DefaultLocale,
	}
}

// withEngine runs fn against a freshly loaded engine.
func withEngine(fn func(ctx context.Context, a *app, eng *engine.Engine) error) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := context.Background()
	eng, err := a.engine(ctx)
	if err != nil {
		return err
	}
	return fn(ctx, a, eng)
}

func printJSON(v any) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Fprintf(stdout, "biblehere version %s\n", version)
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("biblehere"),
		kong.Description("BibleHere - scripture reference resolution and search"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	err := ctx.Run(ctx)
	ctx.FatalIfErrorf(err)
}
