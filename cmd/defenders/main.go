package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/arashnrim/desperate-defenders/internal/config"
	"github.com/arashnrim/desperate-defenders/internal/game"
	"github.com/arashnrim/desperate-defenders/internal/roster"
	"github.com/arashnrim/desperate-defenders/internal/savefile"
)

const defaultConfigPath = "defenders_config.yml"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		printUsage(stderr)
		return 2
	}

	cmds := map[string]func(context.Context, []string, io.Writer, io.Writer) error{
		"new":     cmdNew,
		"show":    cmdShow,
		"buy":     cmdBuy,
		"upgrade": cmdUpgrade,
		"end":     cmdEnd,
		"config":  cmdConfig,
		"backup":  cmdBackup,
		"restore": cmdRestore,
	}
	cmd, ok := cmds[args[0]]
	if !ok {
		printUsage(stderr)
		return 2
	}
	if err := cmd(context.Background(), args[1:], stdout, stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 2
		}
		fmt.Fprintf(stderr, "%s failed: %v\n", args[0], err)
		return 1
	}
	return 0
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, `usage: defenders <command> [flags]

commands:
  new      start a new game (-force to replace an existing save)
  show     draw the field
  buy      buy a defender: -unit ARCHR|WALL|CANON -row N -col N
  upgrade  upgrade a defender: -row N -col N
  end      end the turn
  config   print the effective configuration
  backup   archive saves: -out PATH
  restore  unpack saves: -in PATH

shared flags: -config PATH -save PATH -seed N -quarantine -v`)
}

// common holds the flags every subcommand accepts.
type common struct {
	configPath string
	savePath   string
	seed       int64
	quarantine bool
	verbose    bool
}

func newFlagSet(name string, stderr io.Writer) (*flag.FlagSet, *common) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	c := &common{}
	fs.StringVar(&c.configPath, "config", "", "YAML config path (default "+defaultConfigPath+" when present)")
	fs.StringVar(&c.savePath, "save", savefile.DefaultName, "save file path")
	fs.Int64Var(&c.seed, "seed", 0, "random seed, 0 uses the clock")
	fs.BoolVar(&c.quarantine, "quarantine", false, "move a corrupt save aside instead of failing")
	fs.BoolVar(&c.verbose, "v", false, "write JSON logs to stderr")
	return fs, c
}

func (c *common) loadConfig() (*config.Config, error) {
	path := c.configPath
	if path == "" {
		if _, err := os.Stat(defaultConfigPath); err != nil {
			cfg := config.FromEnv()
			cfg.ApplyDefaults()
			return &cfg, cfg.Validate()
		}
		path = defaultConfigPath
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	config.ApplyEnv(cfg)
	return cfg, cfg.Validate()
}

func (c *common) options(stderr io.Writer) game.Options {
	opts := game.Options{RNG: game.NewSeededRNG(c.seed)}
	if c.verbose {
		opts.Logger = log.New(stderr, "", 0)
	}
	return opts
}

func (c *common) store() (*savefile.FileRepo, string, error) {
	dir, name := filepath.Split(c.savePath)
	if dir == "" {
		dir = "."
	}
	repo, err := savefile.NewFileRepo(dir)
	if err != nil {
		return nil, "", err
	}
	return repo, name, nil
}

// session pairs a loaded game with the slot it is saved back to.
type session struct {
	*game.Session
	repo *savefile.FileRepo
	name string
}

func (c *common) open(ctx context.Context, stdout, stderr io.Writer) (*session, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	repo, name, err := c.store()
	if err != nil {
		return nil, err
	}

	blob, err := repo.Load(ctx, name)
	if errors.Is(err, savefile.ErrNotFound) {
		return nil, fmt.Errorf("no saved game at %s, start one with: defenders new", c.savePath)
	}
	if err != nil {
		return nil, err
	}

	s, err := game.LoadSession(cfg, blob, c.options(stderr))
	var le *game.LoadError
	if errors.As(err, &le) {
		if !c.quarantine {
			return nil, fmt.Errorf("save is corrupt (%w); rerun with -quarantine to move it aside", err)
		}
		moved, qerr := repo.Quarantine(ctx, name)
		if qerr != nil {
			return nil, fmt.Errorf("quarantine corrupt save: %w", qerr)
		}
		fmt.Fprintf(stdout, "Corrupt save moved to %s. Start a fresh game with: defenders new\n", filepath.Join(repo.Dir(), moved))
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	return &session{Session: s, repo: repo, name: name}, nil
}

func (s *session) persist(ctx context.Context) error {
	blob, err := s.Save()
	if err != nil {
		return err
	}
	return s.repo.Store(ctx, s.name, blob)
}

func cmdNew(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs, c := newFlagSet("new", stderr)
	force := fs.Bool("force", false, "overwrite an existing save")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	repo, name, err := c.store()
	if err != nil {
		return err
	}
	exists, err := repo.Exists(ctx, name)
	if err != nil {
		return err
	}
	if exists && !*force {
		return fmt.Errorf("a saved game already exists at %s; use -force to replace it", c.savePath)
	}

	gs, err := game.NewSession(cfg, c.options(stderr))
	if err != nil {
		return err
	}
	s := &session{Session: gs, repo: repo, name: name}
	if err := s.persist(ctx); err != nil {
		return err
	}

	fmt.Fprintln(stdout, "The undead approach. Defend the city!")
	fmt.Fprintln(stdout, renderShop(s.Shop()))
	fmt.Fprintln(stdout, renderField(s.RenderState()))
	return nil
}

func cmdShow(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs, c := newFlagSet("show", stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	s, err := c.open(ctx, stdout, stderr)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, renderShop(s.Shop()))
	fmt.Fprintln(stdout, renderField(s.RenderState()))
	return nil
}

func cmdBuy(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs, c := newFlagSet("buy", stderr)
	unit := fs.String("unit", "", "unit id: ARCHR, WALL or CANON")
	row := fs.String("row", "", "lane letter or index")
	col := fs.Int("col", -1, "column index")
	if err := fs.Parse(args); err != nil {
		return err
	}
	lane, err := parseLane(*row)
	if err != nil {
		return err
	}

	s, err := c.open(ctx, stdout, stderr)
	if err != nil {
		return err
	}
	res, err := s.Purchase(roster.ID(strings.ToUpper(strings.TrimSpace(*unit))), lane, *col)
	if err != nil {
		return err
	}
	return finishTurn(ctx, s, res, stdout)
}

func cmdUpgrade(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs, c := newFlagSet("upgrade", stderr)
	row := fs.String("row", "", "lane letter or index")
	col := fs.Int("col", -1, "column index")
	if err := fs.Parse(args); err != nil {
		return err
	}
	lane, err := parseLane(*row)
	if err != nil {
		return err
	}

	s, err := c.open(ctx, stdout, stderr)
	if err != nil {
		return err
	}
	res, err := s.Upgrade(lane, *col)
	if err != nil {
		return err
	}
	if err := s.persist(ctx); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%s in lane %s upgraded to level %d for %d gold (%d/%d HP, %d-%d damage).\n",
		res.Name, laneName(res.Pos.Row), res.UpgradeCount, res.Cost, res.Health, res.MaxHealth, res.MinDamage, res.MaxDamage)
	fmt.Fprintln(stdout, renderField(s.RenderState()))
	return nil
}

func cmdEnd(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs, c := newFlagSet("end", stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	s, err := c.open(ctx, stdout, stderr)
	if err != nil {
		return err
	}
	return finishTurn(ctx, s, s.EndTurn(), stdout)
}

func finishTurn(ctx context.Context, s *session, res game.TurnResult, stdout io.Writer) error {
	if err := s.persist(ctx); err != nil {
		return err
	}
	for _, ev := range res.Events {
		if line := narrate(ev); line != "" {
			fmt.Fprintln(stdout, line)
		}
	}
	fmt.Fprintln(stdout, renderField(s.RenderState()))
	return nil
}

func cmdConfig(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	_ = ctx
	fs, c := newFlagSet("config", stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	b, err := config.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = stdout.Write(b)
	return err
}

func cmdBackup(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	_ = ctx
	fs, c := newFlagSet("backup", stderr)
	out := fs.String("out", "", "output archive path (.tar.gz)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *out == "" {
		ts := time.Now().UTC().Format("20060102T150405Z")
		*out = filepath.Join("backups", "defenders-"+ts+".tar.gz")
	}
	repo, _, err := c.store()
	if err != nil {
		return err
	}
	names, err := savefile.Backup(repo.Dir(), *out)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%s (%d saves)\n", *out, len(names))
	return nil
}

func cmdRestore(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	_ = ctx
	fs, c := newFlagSet("restore", stderr)
	in := fs.String("in", "", "input archive path (.tar.gz)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		return fmt.Errorf("-in is required")
	}
	repo, _, err := c.store()
	if err != nil {
		return err
	}
	names, err := savefile.Restore(*in, repo.Dir())
	if err != nil {
		return err
	}
	for _, n := range names {
		fmt.Fprintln(stdout, filepath.Join(repo.Dir(), n))
	}
	return nil
}
