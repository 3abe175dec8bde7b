package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"emfield/render"
	"emfield/sample"
	"emfield/store"

	"github.com/spf13/cobra"
)

func newGridCmd(o *options, kind, short string) *cobra.Command {
	return &cobra.Command{
		Use:   kind,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := o.setup(cmd, true); err != nil {
				return err
			}
			var fn sample.Func = o.scene.EField
			switch kind {
			case "potential":
				fn = sample.Scalar(o.scene.Potential)
			case "bfield":
				fn = o.scene.BField
			}

			start := time.Now()
			s, err := sample.Sample(cmd.Context(), o.grid(), fn, o.cfg.Workers)
			if err != nil {
				return err
			}
			slog.Debug("grid sampled", "kind", kind, "points", s.Len(), "elapsed", time.Since(start))

			markers := render.Markers(o.scene)
			png := o.path(kind + ".png")
			if kind == "potential" {
				err = render.PotentialPNG(png, s, markers, o.renderOptions("Potential"))
			} else {
				err = render.VectorPNG(png, s, markers, o.renderOptions(kind))
			}
			if err != nil {
				return err
			}
			cmd.Println(png)
			return o.save(kind, s)
		},
	}
}

func newProfileCmd(o *options) *cobra.Command {
	var field, serve string
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Chart field components along the configured profile line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := o.setup(cmd, true); err != nil {
				return err
			}
			var (
				fn    sample.Func
				names []string
			)
			switch field {
			case "e":
				fn, names = o.scene.EField, []string{"Ex", "Ey", "Ez"}
			case "v":
				fn, names = sample.Scalar(o.scene.Potential), []string{"V"}
			case "b":
				fn, names = o.scene.BField, []string{"Bx", "By", "Bz"}
			default:
				return fmt.Errorf("unknown field %q (want e, v or b)", field)
			}
			s, err := sample.Sample(cmd.Context(), o.profile(), fn, o.cfg.Workers)
			if err != nil {
				return err
			}
			charts := render.NewCharts("Profile "+field, s, names, render.Markers(o.scene))
			if serve != "" {
				slog.Info("serving profile", "addr", serve)
				return http.ListenAndServe(serve, http.HandlerFunc(charts.Handler))
			}

			html := o.path("profile.html")
			file, err := os.Create(html)
			if err != nil {
				return err
			}
			defer file.Close()
			if err := charts.Render(file); err != nil {
				return err
			}
			cmd.Println(html)
			return o.save("profile", s)
		},
	}
	cmd.Flags().StringVarP(&field, "field", "f", "e", "field to chart: e, v or b")
	cmd.Flags().StringVar(&serve, "serve", "", "serve the chart over HTTP at this address instead of writing a file")
	return cmd
}

func newLatticeCmd(o *options) *cobra.Command {
	var field string
	cmd := &cobra.Command{
		Use:   "lattice",
		Short: "Sample a 3-D scene on the configured cubic lattice",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := o.setup(cmd, true); err != nil {
				return err
			}
			if o.scene.Dim != 3 {
				return fmt.Errorf("lattice needs a 3-D scene, got %d-D", o.scene.Dim)
			}
			var fn sample.Func
			switch field {
			case "e":
				fn = o.scene.EField
			case "v":
				fn = sample.Scalar(o.scene.Potential)
			case "b":
				fn = o.scene.BField
			default:
				return fmt.Errorf("unknown field %q (want e, v or b)", field)
			}

			start := time.Now()
			s, err := sample.Sample(cmd.Context(), o.lattice(), fn, o.cfg.Workers)
			if err != nil {
				return err
			}
			slog.Debug("lattice sampled", "field", field, "points", s.Len(), "elapsed", time.Since(start))
			cmd.Println(o.path("lattice.json"))
			return o.save("lattice", s)
		},
	}
	cmd.Flags().StringVarP(&field, "field", "f", "e", "field to sample: e, v or b")
	return cmd
}

func newExportCmd(o *options) *cobra.Command {
	var to string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Re-export the parsed scene as a normalized netlist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := o.setup(cmd, true); err != nil {
				return err
			}
			if to != "" {
				return o.scene.Export(to)
			}
			_, err := o.scene.WriteTo(cmd.OutOrStdout())
			return err
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "write to file instead of stdout")
	return cmd
}

func newRunsCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "runs",
		Short: "List runs stored in the sample database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := o.setup(cmd, false); err != nil {
				return err
			}
			if o.cfg.Output.Database == "" {
				return fmt.Errorf("no database configured (use --db)")
			}
			db, err := store.Open(o.cfg.Output.Database)
			if err != nil {
				return err
			}
			defer db.Close()
			runs, err := db.Runs()
			if err != nil {
				return err
			}
			for _, r := range runs {
				cmd.Printf("%s  %-9s %dx%d  %s\n", r.ID, r.Kind, r.Cols, r.Rows,
					time.UnixMilli(r.CreatedAt).Format(time.RFC3339))
			}
			return nil
		},
	}
}
