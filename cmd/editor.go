package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"tomgalvin.uk/msxsprite/internal/canvas"
	"tomgalvin.uk/msxsprite/internal/preview"
	"tomgalvin.uk/msxsprite/internal/project"
	"tomgalvin.uk/msxsprite/internal/session"
	"tomgalvin.uk/msxsprite/internal/shift"
	"tomgalvin.uk/msxsprite/internal/store"
)

var ErrUsage = errors.New("usage")

const Usage = `usage: msxsprite [-db dsn] [-v] <command> [args]

commands:
  projects                                  list projects
  brushes                                   list brushes
  new <name> <8|16>                         create an empty project
  delete <name>                             delete a project
  show [-ansi] [-scale n] <project> <index> print a sprite
  sheet [-gap n] <project>                  print every sprite of a project
  shift [-n count] [-mode m] <project> <index> <left|right|up|down> <wrap|buffer>
  invert [-mode m] <project> <index>        invert a sprite
  flip [-mode m] <project> <index> <h|v>    mirror a sprite
`

// Editor runs commands against a sprite database. Edits are made through a
// session and saved back when they changed anything.
type Editor struct {
	Store  *store.Store
	Out    io.Writer
	Logger *slog.Logger
}

func (e *Editor) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.Default()
	}
	return e.Logger
}

func usage(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrUsage}, args...)...)
}

// Run dispatches a command line, without the program name and global flags.
func (e *Editor) Run(args []string) error {
	if len(args) == 0 {
		return usage("no command given")
	}
	name, args := args[0], args[1:]
	switch name {
	case "projects":
		return e.Projects()
	case "brushes":
		return e.Brushes()
	case "new":
		if len(args) != 2 {
			return usage("new <name> <8|16>")
		}
		size, err := strconv.Atoi(args[1])
		if err != nil {
			return usage("sprite size %q is not a number", args[1])
		}
		return e.New(args[0], size)
	case "delete":
		if len(args) != 1 {
			return usage("delete <name>")
		}
		return e.Delete(args[0])
	case "show":
		return e.runShow(args)
	case "sheet":
		return e.runSheet(args)
	case "shift":
		return e.runShift(args)
	case "invert":
		return e.runEdit("invert", args, 0, func(s *session.Session, _ []string) error {
			return s.Invert()
		})
	case "flip":
		return e.runEdit("flip", args, 1, func(s *session.Session, rest []string) error {
			switch rest[0] {
			case "h", "horizontal":
				return s.FlipHorizontal()
			case "v", "vertical":
				return s.FlipVertical()
			}
			return usage("flip axis must be h or v, got %q", rest[0])
		})
	}
	return usage("unknown command %q", name)
}

func parseIndex(s string) (int, error) {
	idx, err := strconv.Atoi(s)
	if err != nil {
		return 0, usage("sprite index %q is not a number", s)
	}
	return idx, nil
}

func (e *Editor) Projects() error {
	projects, err := e.Store.ListProjects()
	if err != nil {
		return err
	}
	for _, p := range projects {
		fmt.Fprintf(e.Out, "%s\t%dx%d sprites\t%d in a %dx%d grid\t%s\n",
			p.Name, p.SpriteSize, p.SpriteSize, p.Cols*p.Rows, p.Cols, p.Rows, p.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func (e *Editor) Brushes() error {
	brushes, err := e.Store.ListBrushes()
	if err != nil {
		return err
	}
	for _, b := range brushes {
		kind := "default"
		if b.UserDefined {
			kind = "user"
		}
		fmt.Fprintf(e.Out, "%s\t%dx%d\t%s\n", b.Name, b.Width, b.Height, kind)
	}
	return nil
}

func (e *Editor) New(name string, size int) error {
	existing, err := e.Store.GetProjectByName(name)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("Project %q already exists", name)
	}
	p, err := project.New(name, size)
	if err != nil {
		return err
	}
	if err := e.Store.SaveProject(p); err != nil {
		return err
	}
	fmt.Fprintf(e.Out, "Created %s with %d sprites of %dx%d\n", p.Name, p.Len(), size, size)
	return nil
}

func (e *Editor) Delete(name string) error {
	deleted, err := e.Store.DeleteProject(name)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("No project named %q", name)
	}
	fmt.Fprintf(e.Out, "Deleted %s\n", name)
	return nil
}

func (e *Editor) load(name string) (*project.Project, error) {
	p, report, err := e.Store.LoadProject(name)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("No project named %q", name)
	}
	if !report.OK() {
		e.logger().Warn("Project loaded with problems", "project", name,
			"malformed", report.MalformedIndices(), "missing", report.Missing, "dropped", report.Dropped)
	}
	return p, nil
}

func (e *Editor) runShow(args []string) error {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	ansi := fs.Bool("ansi", false, "draw in colour with terminal escape codes")
	scale := fs.Int("scale", 1, "enlarge each pixel, with -ansi")
	if err := fs.Parse(args); err != nil || fs.NArg() != 2 {
		return usage("show [-ansi] [-scale n] <project> <index>")
	}
	idx, err := parseIndex(fs.Arg(1))
	if err != nil {
		return err
	}
	return e.Show(fs.Arg(0), idx, *ansi, *scale)
}

// Show prints one sprite, as '#' and '.' or in colour.
func (e *Editor) Show(name string, index int, ansi bool, scale int) error {
	p, err := e.load(name)
	if err != nil {
		return err
	}
	b, err := p.Bitmap(index)
	if err != nil {
		return err
	}
	col, row := p.Position(index)
	fmt.Fprintf(e.Out, "%s sprite %d (%d, %d) colour %d\n", name, index, col, row, b.Color())
	if !ansi {
		fmt.Fprint(e.Out, b.Art())
		return nil
	}
	img, err := preview.Scaled(preview.Sprite(b), scale)
	if err != nil {
		return err
	}
	fmt.Fprint(e.Out, preview.ANSI(img))
	return nil
}

func (e *Editor) runSheet(args []string) error {
	fs := flag.NewFlagSet("sheet", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	gap := fs.Int("gap", 1, "blank pixels between sprites")
	if err := fs.Parse(args); err != nil || fs.NArg() != 1 || *gap < 0 {
		return usage("sheet [-gap n] <project>")
	}
	p, err := e.load(fs.Arg(0))
	if err != nil {
		return err
	}
	fmt.Fprint(e.Out, preview.ANSI(preview.Sheet(p, *gap)))
	return nil
}

func (e *Editor) runShift(args []string) error {
	fs := flag.NewFlagSet("shift", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	times := fs.Int("n", 1, "number of pixels to shift by")
	mode := fs.String("mode", "single", "canvas mode: single, 2x2 or overlay")
	layer := fs.Int("layer", 1, "overlay layer to edit")
	if err := fs.Parse(args); err != nil || fs.NArg() != 4 || *times < 1 {
		return usage("shift [-n count] [-mode m] <project> <index> <direction> <wrap|buffer>")
	}
	dir, err := shift.ParseDirection(fs.Arg(2))
	if err != nil {
		return err
	}
	shiftMode, err := shift.ParseMode(fs.Arg(3))
	if err != nil {
		return err
	}
	return e.edit(fs.Arg(0), fs.Arg(1), *mode, *layer, func(s *session.Session) error {
		s.SetShiftMode(shiftMode)
		for range *times {
			if err := s.Shift(dir); err != nil {
				return err
			}
		}
		return nil
	})
}

// runEdit handles the commands shaped "<project> <index> [extra...]" with the
// common -mode and -layer flags.
func (e *Editor) runEdit(name string, args []string, extra int, f func(*session.Session, []string) error) error {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	mode := fs.String("mode", "single", "canvas mode: single, 2x2 or overlay")
	layer := fs.Int("layer", 1, "overlay layer to edit")
	if err := fs.Parse(args); err != nil || fs.NArg() != 2+extra {
		return usage("%s [-mode m] [-layer n] <project> <index>", name)
	}
	rest := fs.Args()[2:]
	return e.edit(fs.Arg(0), fs.Arg(1), *mode, *layer, func(s *session.Session) error {
		return f(s, rest)
	})
}

// edit loads a project, opens a session on one sprite, applies f and saves
// the project if f changed it.
func (e *Editor) edit(name, index, mode string, layer int, f func(*session.Session) error) error {
	idx, err := parseIndex(index)
	if err != nil {
		return err
	}
	canvasMode, err := canvas.ParseMode(mode)
	if err != nil {
		return err
	}
	p, err := e.load(name)
	if err != nil {
		return err
	}

	s := session.New(p, e.logger())
	if err := s.Select(idx); err != nil {
		return err
	}
	if err := s.SetLayer(layer); err != nil {
		return err
	}
	if err := s.SetMode(canvasMode); err != nil {
		return err
	}
	if err := f(s); err != nil {
		return err
	}
	if !s.Dirty() {
		fmt.Fprintln(e.Out, "No change")
		return nil
	}
	if err := e.Store.SaveProject(p); err != nil {
		return err
	}
	s.MarkClean()

	b, _ := p.Bitmap(idx)
	fmt.Fprint(e.Out, b.Art())
	return nil
}
