package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/wbrown/lospec"
	"github.com/wbrown/lospec/assets"
	"github.com/wbrown/lospec/imageutil"
	"github.com/wbrown/lospec/library"
)

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: lospec %s\n", commands[name].usage)
		fs.PrintDefaults()
	}
	return fs
}

func paletteFlag(fs *flag.FlagSet) *string {
	return fs.String("palette", "",
		"Palette to use: embedded name ("+strings.Join(lospec.EmbeddedNames(), ", ")+
			"), file path, or library name (default: built-in six color palette)")
}

// openLibrary opens the catalogue. When create is false a missing database
// is reported as os.ErrNotExist instead of being created.
func (env *cliEnv) openLibrary(create bool) (*library.Library, error) {
	if !create {
		if _, err := os.Stat(env.cfg.DB); err != nil {
			return nil, err
		}
	}
	return library.Open(env.cfg.DB, library.WithLogger(env.log.WithField("component", "library")))
}

// palette resolves name as an embedded palette, then a file, then a
// library entry. An empty name selects the default palette.
func (env *cliEnv) palette(name string) (lospec.Palette, error) {
	if name == "" {
		return lospec.Default(), nil
	}
	p, err := lospec.Open(name)
	if err == nil {
		return p, nil
	}
	var ioErr *lospec.IOError
	if !errors.As(err, &ioErr) {
		return lospec.Palette{}, err
	}

	lib, libErr := env.openLibrary(false)
	if libErr != nil {
		return lospec.Palette{}, err
	}
	defer lib.Close()
	p, libErr = lib.Get(name)
	if errors.Is(libErr, library.ErrNotFound) {
		return lospec.Palette{}, err
	}
	return p, libErr
}

func runInfo(env *cliEnv, args []string) error {
	fs := newFlagSet("info")
	name := paletteFlag(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	p, err := env.palette(*name)
	if err != nil {
		return err
	}

	fmt.Fprint(env.out, p.ANSI(4))
	fmt.Fprint(env.out, p.ANSITable())
	fmt.Fprintf(env.out, "colors:   %d\n", p.Len())
	fmt.Fprintf(env.out, "lightest: %s\n", p.Lightest())
	fmt.Fprintf(env.out, "darkest:  %s\n", p.Darkest())
	return nil
}

func runClosest(env *cliEnv, args []string) error {
	fs := newFlagSet("closest")
	name := paletteFlag(fs)
	metricName := fs.String("metric", "",
		"Color distance method: Manhattan, Redmean, or LAB")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return flag.ErrHelp
	}
	p, err := env.palette(*name)
	if err != nil {
		return err
	}
	var metric lospec.Metric
	if *metricName != "" {
		if metric, err = lospec.ParseMetric(*metricName); err != nil {
			return err
		}
	}

	for _, arg := range fs.Args() {
		query, err := lospec.ParseHex(arg)
		if err != nil {
			return err
		}
		var idx int
		var c lospec.Color
		if metric != nil {
			idx, c = p.ClosestBy(metric, query)
		} else {
			idx, c = p.Closest(query)
		}
		single, _ := lospec.NewPalette([]lospec.Color{c})
		fmt.Fprintf(env.out, "%s -> %3d %s %s", query, idx, c, single.ANSI(2))
	}
	return nil
}

func runSwatch(env *cliEnv, args []string) error {
	fs := newFlagSet("swatch")
	name := paletteFlag(fs)
	output := fs.String("output", "", "Path to the output image (required)")
	tile := fs.Int("tile", 40, "Tile edge length in pixels")
	columns := fs.Int("columns", 0, "Tiles per row, 0 for a single row")
	labels := fs.Bool("labels", true, "Draw hex codes on the tiles")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *output == "" {
		fs.Usage()
		return flag.ErrHelp
	}
	p, err := env.palette(*name)
	if err != nil {
		return err
	}

	img, err := imageutil.RenderSwatch(p, imageutil.SwatchOptions{
		TileSize: *tile,
		Columns:  *columns,
		Labels:   *labels,
	})
	if err != nil {
		return err
	}
	if err := imageutil.SaveImage(img, *output); err != nil {
		return err
	}
	env.log.WithFields(logrus.Fields{
		"output": *output,
		"colors": p.Len(),
	}).Info("Wrote swatch")
	return nil
}

func runRemap(env *cliEnv, args []string) error {
	fs := newFlagSet("remap")
	name := paletteFlag(fs)
	input := fs.String("input", "", "Path to the input image (required)")
	output := fs.String("output", "", "Path to the output image (required)")
	dither := fs.Bool("dither", false, "Use Floyd-Steinberg error diffusion")
	metricName := fs.String("metric", "Manhattan",
		"Color distance method: Manhattan, Redmean, or LAB")
	width := fs.Int("width", 0, "Resize to this width before remapping, 0 to keep")
	scale := fs.Int("scale", 1, "Integer upscale factor applied after remapping")
	blur := fs.Bool("blur", false, "Blur before remapping to reduce dither noise")
	sharpen := fs.Bool("sharpen", false, "Sharpen before remapping")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *input == "" || *output == "" {
		fs.Usage()
		return flag.ErrHelp
	}
	metric, err := lospec.ParseMetric(*metricName)
	if err != nil {
		return err
	}
	p, err := env.palette(*name)
	if err != nil {
		return err
	}

	img, err := imageutil.LoadImage(*input)
	if err != nil {
		return err
	}
	if *width > 0 {
		img = imageutil.ResizeToWidth(img, *width, imageutil.InterpolationArea)
	}
	if *blur {
		img = imageutil.GaussianBlur(img)
	}
	if *sharpen {
		img = imageutil.Sharpen(img)
	}
	remapped, err := imageutil.Remap(img, p,
		imageutil.WithDither(*dither), imageutil.WithMetric(metric))
	if err != nil {
		return err
	}
	if *scale > 1 {
		err = imageutil.SaveImage(imageutil.Upscale(remapped, *scale), *output)
	} else {
		err = imageutil.SaveImage(remapped, *output)
	}
	if err != nil {
		return err
	}
	env.log.WithFields(logrus.Fields{
		"input":  *input,
		"output": *output,
		"metric": metric.Name(),
		"dither": *dither,
	}).Info("Remapped image")
	return nil
}

func runImport(env *cliEnv, args []string) error {
	fs := newFlagSet("import")
	name := fs.String("name", "", "Library name (default: file name without extension)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return flag.ErrHelp
	}
	path := fs.Arg(0)
	p, err := lospec.Open(path)
	if err != nil {
		return err
	}
	if *name == "" {
		*name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	lib, err := env.openLibrary(true)
	if err != nil {
		return err
	}
	defer lib.Close()
	if err := lib.Save(*name, p, path); err != nil {
		return err
	}
	fmt.Fprintf(env.out, "%s %s", *name, p.ANSI(2))
	return nil
}

func runList(env *cliEnv, args []string) error {
	fs := newFlagSet("list")
	if err := fs.Parse(args); err != nil {
		return err
	}
	for _, name := range lospec.EmbeddedNames() {
		fmt.Fprintf(env.out, "%-24s embedded\n", name)
	}

	lib, err := env.openLibrary(false)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer lib.Close()
	entries, err := lib.List()
	if err != nil {
		return err
	}
	for _, e := range entries {
		fmt.Fprintf(env.out, "%-24s %3d colors  %s\n", e.Name, e.Count, e.Source)
	}
	return nil
}

func runDelete(env *cliEnv, args []string) error {
	fs := newFlagSet("delete")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return flag.ErrHelp
	}
	lib, err := env.openLibrary(false)
	if err != nil {
		return err
	}
	defer lib.Close()
	return lib.Delete(fs.Arg(0))
}

// loadAll loads every file under the server's root that has a registered
// loader. Broken files are logged and skipped.
func loadAll(s *assets.Server, log *logrus.Logger) (int, error) {
	exts := s.Extensions()
	loaded := 0
	err := filepath.WalkDir(s.Root(), func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
		if !slices.Contains(exts, ext) {
			return nil
		}
		rel, err := filepath.Rel(s.Root(), path)
		if err != nil {
			return err
		}
		if _, err := s.Load(filepath.ToSlash(rel)); err != nil {
			log.WithError(err).Debug("Skipping palette")
			return nil
		}
		loaded++
		return nil
	})
	return loaded, err
}

func runWatch(env *cliEnv, args []string) error {
	fs := newFlagSet("watch")
	root := fs.String("root", env.cfg.Assets, "Directory of palette files to watch")
	if err := fs.Parse(args); err != nil {
		return err
	}

	s := assets.NewServer(*root, assets.WithLogger(env.log.WithField("component", "assets")))
	n, err := loadAll(s, env.log)
	if err != nil {
		return err
	}
	for _, name := range s.Loaded() {
		p, _ := s.Get(name)
		fmt.Fprintf(env.out, "%-24s %s", name, p.ANSI(2))
	}
	env.log.WithFields(logrus.Fields{"root": *root, "palettes": n}).Info("Loaded palettes")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.Watch(ctx, func(name string, p lospec.Palette, err error) {
		if err != nil {
			fmt.Fprintf(env.out, "%-24s error: %v\n", name, err)
			return
		}
		fmt.Fprintf(env.out, "%-24s %s", name, p.ANSI(2))
	})
}
