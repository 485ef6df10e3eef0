package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/Carmen-Shannon/oxy-loupe/inspector"
	"github.com/Carmen-Shannon/oxy-loupe/inspector/config"
	"github.com/Carmen-Shannon/oxy-loupe/inspector/gltfjson"
	"github.com/Carmen-Shannon/oxy-loupe/inspector/loader"
	"github.com/Carmen-Shannon/oxy-loupe/inspector/profiler"
	"github.com/Carmen-Shannon/oxy-loupe/inspector/scene"
	"github.com/Carmen-Shannon/oxy-loupe/inspector/selection"
	"github.com/Carmen-Shannon/oxy-loupe/inspector/skin"
)

// app holds the collaborators shared by every command.
type app struct {
	cfg       config.Config
	logger    *slog.Logger
	stdout    io.Writer
	style     style
	loader    loader.Loader
	validator skin.Validator
	inspector inspector.Inspector
}

func newApp(cfg config.Config, logger *slog.Logger, stdout io.Writer, profile bool) (*app, error) {
	readerOpts, err := cfg.ReaderOptions()
	if err != nil {
		return nil, err
	}

	loaderOpts := []loader.LoaderBuilderOption{
		loader.WithReaderOptions(readerOpts...),
		loader.WithLogger(logger),
	}
	if profile {
		loaderOpts = append(loaderOpts, loader.WithProfiler(
			profiler.NewProfiler(profiler.WithLogger(logger), profiler.WithLevel(slog.LevelInfo)),
		))
	}

	a := &app{
		cfg:       cfg,
		logger:    logger,
		stdout:    stdout,
		style:     newStyle(stdout, cfg.Output.Color),
		loader:    loader.NewLoader(loaderOpts...),
		validator: skin.NewValidator(skin.WithTolerance(cfg.Skin.Tolerance)),
	}
	a.inspector = inspector.NewInspector(
		inspector.WithLoader(a.loader),
		inspector.WithValidator(a.validator),
		inspector.WithLogger(logger),
	)
	return a, nil
}

// dispatch runs the named command.
func (a *app) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "info":
		if len(args) != 1 {
			return fmt.Errorf("%w: info <file>", errUsage)
		}
		return a.info(args[0])
	case "json":
		if len(args) != 1 && len(args) != 2 {
			return fmt.Errorf("%w: json <file> [path]", errUsage)
		}
		path := "/"
		if len(args) == 2 {
			path = args[1]
		}
		return a.json(args[0], path)
	case "tree":
		if len(args) != 1 {
			return fmt.Errorf("%w: tree <file>", errUsage)
		}
		return a.tree(args[0])
	case "skin":
		if len(args) != 2 {
			return fmt.Errorf("%w: skin <file> <index|all>", errUsage)
		}
		return a.skin(args[0], args[1])
	case "accessor":
		if len(args) != 2 {
			return fmt.Errorf("%w: accessor <file> <index>", errUsage)
		}
		i, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("%w: accessor index %q", errUsage, args[1])
		}
		return a.accessor(args[0], i)
	case "select":
		if len(args) != 2 {
			return fmt.Errorf("%w: select <file> <path>", errUsage)
		}
		return a.selectPath(args[0], args[1])
	case "check":
		if len(args) == 0 {
			return fmt.Errorf("%w: check <file>...", errUsage)
		}
		return a.check(args)
	case "watch":
		if len(args) != 2 {
			return fmt.Errorf("%w: watch <file> <path>", errUsage)
		}
		return a.watch(ctx, args[0], args[1])
	}
	return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
}

func (a *app) open(path string) (*loader.Document, error) {
	return a.inspector.Open(path)
}

func (a *app) info(path string) error {
	doc, err := a.open(path)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "file\t%s\n", doc.Name)
	fmt.Fprintf(tw, "format\t%s\n", doc.Format)
	if c := doc.Container; c != nil {
		fmt.Fprintf(tw, "version\t%d\n", c.Version)
		fmt.Fprintf(tw, "length\t%d\n", c.Length)
		fmt.Fprintf(tw, "bin chunk\t%d bytes\n", len(c.BIN))
		if len(c.Skipped) > 0 {
			fmt.Fprintf(tw, "skipped chunks\t%d\n", len(c.Skipped))
		}
	}
	fmt.Fprintf(tw, "json\t%d bytes\n", len(doc.JSON))
	if asset, ok := doc.Tree.Field("asset"); ok {
		if gen, ok := asset.Field("generator"); ok {
			s, _ := gen.Str()
			fmt.Fprintf(tw, "generator\t%s\n", s)
		}
	}
	g := doc.GLTF
	fmt.Fprintf(tw, "scenes\t%d\n", len(g.Scenes))
	fmt.Fprintf(tw, "nodes\t%d\n", len(g.Nodes))
	fmt.Fprintf(tw, "meshes\t%d\n", len(g.Meshes))
	fmt.Fprintf(tw, "skins\t%d\n", len(g.Skins))
	fmt.Fprintf(tw, "accessors\t%d\n", len(g.Accessors))
	fmt.Fprintf(tw, "buffer views\t%d\n", len(g.BufferViews))
	fmt.Fprintf(tw, "buffers\t%d\n", len(g.Buffers))
	if len(g.ExtensionsUsed) > 0 {
		fmt.Fprintf(tw, "extensions\t%s\n", strings.Join(g.ExtensionsUsed, ", "))
	}
	return tw.Flush()
}

func (a *app) json(path, jsonPath string) error {
	doc, err := a.open(path)
	if err != nil {
		return err
	}
	v, err := gltfjson.Lookup(doc.Tree, gltfjson.ParsePath(jsonPath))
	if err != nil {
		return err
	}
	if err := gltfjson.WritePretty(a.stdout, v); err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.stdout)
	return err
}

func (a *app) tree(path string) error {
	doc, err := a.open(path)
	if err != nil {
		return err
	}
	doc.Hierarchy.Walk(func(n *scene.Node) bool {
		w := n.World.Col(3)
		fmt.Fprintf(a.stdout, "%s[%d:%s] %s\n", strings.Repeat("  ", n.Depth), n.Index, n.Name,
			a.style.dim(fmt.Sprintf("(%.3f, %.3f, %.3f)", w[0], w[1], w[2])))
		return true
	})
	return nil
}

func (a *app) skin(path, which string) error {
	doc, err := a.open(path)
	if err != nil {
		return err
	}

	var indices []int
	if which == "all" {
		for i := range doc.GLTF.Skins {
			indices = append(indices, i)
		}
	} else {
		i, err := strconv.Atoi(which)
		if err != nil {
			return fmt.Errorf("%w: skin index %q", errUsage, which)
		}
		indices = []int{i}
	}

	for _, i := range indices {
		r, err := a.inspector.SkinReport(i)
		if err != nil {
			return err
		}
		a.printReport(r)
	}
	return nil
}

func (a *app) printReport(r *skin.Report) {
	fmt.Fprintln(a.stdout, a.style.heading(fmt.Sprintf("skin %d: %s", r.Skin, r.Name)))
	for _, j := range r.Joints {
		line := j.Line()
		if !j.OK() {
			line = a.style.failure(line)
		}
		fmt.Fprintln(a.stdout, line)
	}
	summary := fmt.Sprintf("%d/%d joints mismatched (tolerance %g)", r.Mismatches(), len(r.Joints), r.Tolerance)
	if r.Mismatches() == 0 {
		summary = a.style.ok(summary)
	} else {
		summary = a.style.failure(summary)
	}
	fmt.Fprintln(a.stdout, summary)
}

func (a *app) accessor(path string, i int) error {
	if _, err := a.open(path); err != nil {
		return err
	}
	table, err := a.inspector.AccessorTable(i)
	if err != nil {
		return err
	}
	_, err = io.WriteString(a.stdout, table)
	return err
}

func (a *app) selectPath(path, jsonPath string) error {
	if _, err := a.open(path); err != nil {
		return err
	}
	return a.printSelection(jsonPath)
}

// printSelection prints the panel for jsonPath in the current document.
func (a *app) printSelection(jsonPath string) error {
	res, err := a.inspector.Select(jsonPath)
	if err != nil {
		return err
	}
	if res.Kind == selection.KindSkin {
		a.printReport(res.Skin)
		return nil
	}
	text := res.Text
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	_, err = io.WriteString(a.stdout, text)
	return err
}
