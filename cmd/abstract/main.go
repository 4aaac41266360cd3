// Command abstract runs one abstraction pass over a page and prints the
// resulting element tree: navigate (or read a local HTML snapshot), pick the
// matching recipe, build, serialize.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/domlens/domlens/internal/abstract"
	"github.com/domlens/domlens/internal/browser"
	"github.com/domlens/domlens/internal/dom"
	"github.com/domlens/domlens/internal/recipe"
)

type cliOptions struct {
	url        string
	htmlFile   string
	recipeDir  string
	recipeFile string
	format     string
	out        string
	storage    string
	saveState  string
	wait       time.Duration
}

func main() {
	_ = godotenv.Load()
	opts := parseFlags()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if opts.url == "" && opts.htmlFile == "" {
		log.Fatal().Msg("either -url or -html is required")
	}
	if opts.recipeDir == "" && opts.recipeFile == "" {
		log.Fatal().Msg("either -recipes or -recipe is required")
	}

	page, cleanup, err := openPage(ctx, opts)
	if err != nil {
		log.Fatal().Err(err).Msg("open page")
	}
	defer cleanup()

	rec, name, err := pickRecipe(ctx, page, opts)
	if err != nil {
		log.Fatal().Err(err).Msg("pick recipe")
	}
	log.Info().Str("recipe", name).Str("url", page.URL()).Msg("running abstraction pass")

	result, err := abstract.Run(ctx, page, rec, log.With().Str("comp", "abstract").Logger())
	if err != nil {
		log.Fatal().Err(err).Msg("abstraction pass failed")
	}
	result.RecipeName = name
	log.Info().Int("elements", len(result.Elements)).
		Int("bindings", result.Registry.Len()).Msg("pass complete")

	if err := emit(result, opts); err != nil {
		log.Fatal().Err(err).Msg("write output")
	}
}

func openPage(ctx context.Context, opts cliOptions) (dom.Page, func(), error) {
	if opts.htmlFile != "" {
		f, err := os.Open(opts.htmlFile)
		if err != nil {
			return nil, nil, fmt.Errorf("open html: %w", err)
		}
		defer f.Close()
		page, err := dom.ParseStatic(f, opts.url)
		if err != nil {
			return nil, nil, err
		}
		return page, func() {}, nil
	}

	launcher, err := browser.NewLauncher(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("browser init: %w", err)
	}
	sess, err := launcher.NewSession(ctx, opts.storage)
	if err != nil {
		_ = launcher.Close()
		return nil, nil, fmt.Errorf("browser session: %w", err)
	}
	cleanup := func() {
		if opts.saveState != "" {
			if err := sess.SaveState(ctx, opts.saveState); err != nil {
				log.Warn().Err(err).Msg("save state failed")
			}
		}
		_ = sess.Close(ctx)
		_ = launcher.Close()
	}
	if err := sess.Navigate(ctx, opts.url); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("navigate: %w", err)
	}
	if err := sess.WaitForStableDOM(ctx, opts.wait); err != nil {
		log.Warn().Err(err).Msg("page did not stabilize, abstracting anyway")
	}
	return dom.NewLivePage(sess.Page()), cleanup, nil
}

func pickRecipe(ctx context.Context, page dom.Page, opts cliOptions) (*recipe.Recipe, string, error) {
	if opts.recipeFile != "" {
		rec, err := recipe.LoadFile(opts.recipeFile)
		if err != nil {
			return nil, "", err
		}
		return rec, baseName(opts.recipeFile), nil
	}
	lib, err := recipe.LoadDir(opts.recipeDir)
	if err != nil {
		return nil, "", err
	}
	rec, name, ok := lib.Select(ctx, page)
	if !ok {
		return nil, "", fmt.Errorf("no recipe matches %s", page.URL())
	}
	return rec, name, nil
}

func emit(result *abstract.Result, opts cliOptions) error {
	var out []byte
	switch opts.format {
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal result: %w", err)
		}
		out = append(data, '\n')
	default:
		out = []byte(abstract.Render(result.Elements))
	}
	if opts.out == "" {
		_, err := os.Stdout.Write(out)
		return err
	}
	return os.WriteFile(opts.out, out, 0o644)
}

func parseFlags() cliOptions {
	opts := cliOptions{}
	flag.StringVar(&opts.url, "url", "", "page URL to navigate to")
	flag.StringVar(&opts.htmlFile, "html", "", "local HTML snapshot instead of a live browser")
	flag.StringVar(&opts.recipeDir, "recipes", "", "directory of recipe YAML files")
	flag.StringVar(&opts.recipeFile, "recipe", "", "single recipe YAML file (skips matching)")
	flag.StringVar(&opts.format, "format", "text", "output format: text or json")
	flag.StringVar(&opts.out, "out", "", "output file (default stdout)")
	flag.StringVar(&opts.storage, "storage", "", "storage state file to load")
	flag.StringVar(&opts.saveState, "save-state", "", "storage state file to write on exit")
	flag.DurationVar(&opts.wait, "wait", 2*time.Second, "how long to wait for a stable DOM")
	flag.Parse()
	return opts
}

func baseName(path string) string {
	base := path
	if i := strings.LastIndexByte(base, '/'); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.LastIndexByte(base, '.'); i > 0 {
		base = base[:i]
	}
	return base
}
