package main

import (
	"github.com/spf13/cobra"

	"github.com/couchcryptid/interconnection-etl/internal/pipeline"
	"github.com/couchcryptid/interconnection-etl/internal/stats"
)

func newRootCmd() *cobra.Command {
	var manifestPath string
	var a *app

	root := &cobra.Command{
		Use:           "interconnect",
		Short:         "Clean interconnection queues, locate projects, and model their outcomes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			a, err = newApp(manifestPath)
			return err
		},
	}
	root.PersistentFlags().StringVar(&manifestPath, "manifest", "", "YAML manifest of stage files (default: built-in)")

	// Subcommands reach the app through this getter since it is only built
	// once flags are parsed.
	get := func() *app { return a }
	root.AddCommand(
		newQueueCmd(get),
		newAmenityCmd(get),
		newBryceCmd(get),
		newLocateCmd(get),
		newGeoJSONCmd(get),
		newPublishCmd(get),
		newMergeCmd(get),
		newModelsCmd(get),
	)
	return root
}

func newQueueCmd(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "queue",
		Short: "Clean each operator's queue workbook into <OPERATOR>_<status>.csv",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := get()
			return a.run(cmd.Context(), &pipeline.QueueStage{
				Dir:              a.cfg.TrainingDir,
				Files:            a.manifest.QueueFiles(),
				FuelType:         a.manifest.FuelType,
				IncludeDeveloper: a.manifest.IncludeDeveloper,
				Logger:           a.logger,
			})
		},
	}
}

func newAmenityCmd(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "amenity",
		Short: "Split the natural amenity County cell into county and state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := get()
			return a.run(cmd.Context(), &pipeline.AmenityStage{
				Source: a.cfg.DataPath(a.manifest.Amenity.Source),
				Output: a.cfg.DataPath(a.manifest.Amenity.Output),
				Logger: a.logger,
			})
		},
	}
}

func newBryceCmd(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "bryce",
		Short: "Fill in the county of each opposed wind project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := get()
			return a.run(cmd.Context(), &pipeline.BryceStage{
				Source: a.cfg.DataPath(a.manifest.Bryce.Source),
				Output: a.cfg.DataPath(a.manifest.Bryce.Output),
				Logger: a.logger,
			})
		},
	}
}

func newLocateCmd(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "locate",
		Short: "Geocode every County, State in the locations table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := get()
			return a.run(cmd.Context(), &pipeline.LocateStage{
				Source:   a.cfg.DataPath(a.manifest.Locations.Source),
				Output:   a.cfg.DataPath(a.manifest.Locations.Output),
				Geocoder: a.geocoder(),
				Logger:   a.logger,
			})
		},
	}
}

func newGeoJSONCmd(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "geojson",
		Short: "Write located projects as a GeoJSON FeatureCollection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := get()
			return a.run(cmd.Context(), &pipeline.GeoJSONStage{
				Source: a.geojsonSource(),
				Output: a.cfg.DataPath(a.manifest.GeoJSON.Output),
				Logger: a.logger,
			})
		},
	}
}

func newPublishCmd(get func() *app) *cobra.Command {
	var overwrite bool
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Stage the GeoJSON in S3 and publish it as a Mapbox tileset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := get()
			stage, err := a.publishStage(overwrite)
			if err != nil {
				return err
			}
			if err := a.run(cmd.Context(), stage); err != nil {
				return err
			}
			if stage.Response == nil {
				cmd.PrintErrln("tileset publish failed, see log")
				return nil
			}
			cmd.Printf("upload %s queued for tileset %s\n", stage.Response.ID, stage.Response.Tileset)
			return nil
		},
	}
	cmd.Flags().BoolVar(&overwrite, "overwrite-keys", false, "write renewed upload credentials back to the credentials file")
	return cmd
}

func newMergeCmd(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "merge",
		Short: "Join the cleaned queues with the amenity reference",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := get()
			return a.run(cmd.Context(), a.publishingMergeStage())
		},
	}
}

func newModelsCmd(get func() *app) *cobra.Command {
	var (
		choice   int
		nbParams int
		equalize bool
	)
	cmd := &cobra.Command{
		Use:   "models",
		Short: "Fit one model on the merged training matrix",
		Long: `Fit one model on the merged training matrix.

  0  tier-conditional in-service probability
  1  naive Bayes (see --nb-params)
  2  linear regression
  3  probit (writes a residual plot)
  4  logit
  5  logistic regression`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := get()
			return a.run(cmd.Context(), a.modelsStage(choice, nbParams, equalize, cmd.OutOrStdout()))
		},
	}
	cmd.Flags().IntVar(&choice, "model", stats.ModelBayes, "model to fit, 0 to 5")
	cmd.Flags().IntVar(&nbParams, "nb-params", 1, "naive Bayes parameter set, 1 to 6")
	cmd.Flags().BoolVar(&equalize, "equalize", false, "balance withdrawn and in-service rows before shuffling")
	_ = cmd.MarkFlagRequired("model")
	return cmd
}
