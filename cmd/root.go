package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"emfield"
	"emfield/config"
	"emfield/render"
	"emfield/sample"
	"emfield/store"

	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"
)

// options 命令行共享状态
type options struct {
	scenePath  string
	configPath string
	outDir     string
	dbPath     string
	verbose    bool

	cfg   config.Config
	scene *emfield.Scene
}

func newRootCmd() *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:           "empy",
		Short:         "Electric and magnetic field superposition",
		Long:          "empy evaluates the fields of point charges, charge distributions, current loops and infinite wires described in a netlist scene file.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVarP(&o.scenePath, "scene", "s", "", "scene netlist file")
	root.PersistentFlags().StringVarP(&o.configPath, "config", "c", "", "run configuration (TOML)")
	root.PersistentFlags().StringVarP(&o.outDir, "out", "o", "", "output directory (overrides config)")
	root.PersistentFlags().StringVar(&o.dbPath, "db", "", "SQLite database for samples (overrides config)")
	root.PersistentFlags().BoolVarP(&o.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newGridCmd(o, "efield", "Plot the electric field over the grid"),
		newGridCmd(o, "potential", "Plot the electric potential over the grid"),
		newGridCmd(o, "bfield", "Plot the magnetic field over the grid"),
		newProfileCmd(o),
		newLatticeCmd(o),
		newExportCmd(o),
		newRunsCmd(o),
	)
	return root
}

// setup 加载配置、日志与场景
func (o *options) setup(cmd *cobra.Command, needScene bool) error {
	o.cfg = config.Default()
	if o.configPath != "" {
		cfg, err := config.Load(o.configPath)
		if err != nil {
			return err
		}
		o.cfg = cfg
	}
	if o.outDir != "" {
		o.cfg.Output.Dir = o.outDir
	}
	if o.dbPath != "" {
		o.cfg.Output.Database = o.dbPath
	}

	level, err := o.cfg.Level()
	if err != nil {
		return err
	}
	if o.verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))

	if !needScene {
		return nil
	}
	if o.scenePath == "" {
		return fmt.Errorf("--scene is required")
	}
	o.scene = emfield.NewScene(2)
	o.scene.LoopSet.LengthUnits = o.cfg.Units.Length
	o.scene.LoopSet.FieldUnits = o.cfg.Units.Field
	if err := o.scene.Load(o.scenePath); err != nil {
		return err
	}
	slog.Info("scene loaded",
		"path", o.scenePath,
		"dim", o.scene.Dim,
		"charges", o.scene.System.Len(),
		"loops", o.scene.LoopSet.Len(),
		"wires", len(o.scene.WireList),
		"skipped", len(o.scene.Skipped))
	return os.MkdirAll(o.cfg.Output.Dir, 0o755)
}

// grid 按配置生成采样网格，三维场景附加 z 平面
func (o *options) grid() sample.Grid {
	g := o.cfg.Grid
	grid := sample.Grid2D([2]float64{g.XMin, g.XMax}, [2]float64{g.YMin, g.YMax}, g.NX, g.NY)
	if o.scene.Dim == 3 {
		grid = grid.WithZ(g.Z)
	}
	return grid
}

func (o *options) profile() sample.Grid {
	p := o.cfg.Profile
	grid := sample.Line(p.From, p.To, p.Samples)
	if o.scene.Dim == 3 {
		grid = grid.WithZ(o.cfg.Grid.Z)
	}
	return grid
}

// lattice 三维场景的立方格点
func (o *options) lattice() sample.Grid {
	l := o.cfg.Lattice
	return sample.Grid3D([2]float64{l.Min[0], l.Max[0]}, [2]float64{l.Min[1], l.Max[1]}, [2]float64{l.Min[2], l.Max[2]}, l.N, l.N, l.N)
}

func (o *options) renderOptions(title string) render.Options {
	return render.Options{
		Title:    title,
		Width:    vg.Length(o.cfg.Output.Width) * vg.Centimeter,
		Clip:     o.cfg.Output.Clip,
		Compress: o.cfg.Output.Compress,
	}
}

func (o *options) path(name string) string {
	return filepath.Join(o.cfg.Output.Dir, name)
}

// save 写出 JSON 记录并按需保存到数据库
func (o *options) save(kind string, s sample.Samples) error {
	rec := render.NewRecord(kind, s, render.Markers(o.scene))
	file, err := os.Create(o.path(kind + ".json"))
	if err != nil {
		return err
	}
	defer file.Close()
	if err := rec.Render(file); err != nil {
		return err
	}
	if o.cfg.Output.Database == "" {
		return nil
	}
	db, err := store.Open(o.cfg.Output.Database)
	if err != nil {
		return err
	}
	defer db.Close()
	text, err := os.ReadFile(o.scenePath)
	if err != nil {
		return err
	}
	id, err := db.SaveRun(store.Run{Kind: kind, Scene: string(text)}, s)
	if err != nil {
		return err
	}
	slog.Info("run stored", "id", id, "db", o.cfg.Output.Database)
	return nil
}
