package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/engdan77/music-meta-manager/adapter"
	"github.com/engdan77/music-meta-manager/adapters"
	"github.com/engdan77/music-meta-manager/migrate"
)

var (
	matchFields   []string
	excludeFields []string
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy songs from one source to one destination",
	Long: `Copy songs from exactly one activated reader to exactly one
activated writer. Activate an adapter with its name flag and configure
it with its prefixed parameter flags, e.g.:

    musicmeta migrate --tunes-reader --tunes-reader-xml Library.xml \
        --json-writer --json-writer-file /tmp/music.json`,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)

	migrateCmd.Flags().AddFlagSet(adapter.Flags(adapters.All()))
	migrateCmd.Flags().StringSliceVar(&matchFields, "match-fields", nil,
		"only migrate records where all named fields are non-empty")
	migrateCmd.Flags().StringSliceVar(&excludeFields, "exclude-fields", nil,
		"strip the named fields from every record before writing")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	registry := adapter.NewRegistry()
	if err := adapters.RegisterBuiltins(registry); err != nil {
		return err
	}
	descs := registry.Descriptors()

	sel, err := migrate.Select(adapter.Activated(cmd.Flags(), descs))
	if err != nil {
		return err
	}

	readerOpts, err := adapter.Collect(cmd.Flags(), sel.Reader)
	if err != nil {
		return err
	}
	writerOpts, err := adapter.Collect(cmd.Flags(), sel.Writer)
	if err != nil {
		return err
	}

	match := matchFields
	if !cmd.Flags().Changed("match-fields") {
		match = splitFields(cfg.Pipeline.MatchFields)
	}
	exclude := excludeFields
	if !cmd.Flags().Changed("exclude-fields") {
		exclude = splitFields(cfg.Pipeline.ExcludeFields)
	}

	pipeline, err := migrate.New(sel, readerOpts, writerOpts, match, exclude)
	if err != nil {
		return err
	}

	stats, err := pipeline.Run()
	if err != nil {
		return err
	}

	cmd.Printf("Migrated %d of %d songs from %s to %s (%d skipped, %d filtered)\n",
		stats.Written, stats.Read, sel.Reader.Name, sel.Writer.Name,
		stats.Skipped, stats.Filtered)
	return nil
}

// splitFields parses the comma-separated field list form used in the
// configuration file.
func splitFields(v string) []string {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	var fields []string
	for _, f := range strings.Split(v, ",") {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	return fields
}
