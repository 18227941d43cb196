package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"edinet_xbrl/pkg/core/config"
	"edinet_xbrl/pkg/core/listing"
	"edinet_xbrl/pkg/core/store"
	"edinet_xbrl/pkg/core/taxonomy"
	"edinet_xbrl/pkg/core/xbrl"
)

// NewRootCmd creates the root xbrldump command with all subcommands registered.
func NewRootCmd() *cobra.Command {
	var configPath string
	root := &cobra.Command{
		Use:           "xbrldump",
		Short:         "xbrldump - list typed facts from an XBRL instance document",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "config/xbrl.yaml", "path to the YAML config file")

	loadConfig := func() (config.Config, error) {
		return config.Load(configPath)
	}
	root.AddCommand(newListCmd(loadConfig))
	root.AddCommand(newFactsCmd(loadConfig))
	root.AddCommand(newTaxonomyCmd(loadConfig))
	return root
}

func loadDocument(cfg config.Config, path string) (*xbrl.Document, error) {
	catalog, err := cfg.Catalog()
	if err != nil {
		return nil, err
	}
	return xbrl.LoadFile(path, xbrl.WithCatalog(catalog))
}

func newListCmd(loadConfig func() (config.Config, error)) *cobra.Command {
	var format string
	var cache bool
	cmd := &cobra.Command{
		Use:   "list FILE",
		Short: "Print the taxonomy, context and fact listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if format == "" {
				format = cfg.Format
			}
			f, err := listing.ParseFormat(format)
			if err != nil {
				return err
			}

			doc, err := loadDocument(cfg, args[0])
			if err != nil {
				return err
			}
			if cache {
				if err := saveSnapshot(cmd.Context(), cmd.ErrOrStderr(), cfg, args[0], doc); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "[WARNING] %v\n", err)
				}
			}
			return listing.Render(cmd.OutOrStdout(), doc, f)
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "text, markdown or html (default from config)")
	cmd.Flags().BoolVar(&cache, "cache", false, "store the extracted snapshot in the cache")
	return cmd
}

// saveSnapshot reports to logw so the listing on stdout stays unchanged.
func saveSnapshot(ctx context.Context, logw io.Writer, cfg config.Config, path string, doc *xbrl.Document) error {
	if ctx == nil {
		ctx = context.Background()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s for caching: %w", path, err)
	}

	if cfg.UseDatabase {
		if err := store.InitDB(ctx); err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer store.Close()
	}
	cache := store.NewSnapshotCache(store.GetPool(), cfg.CacheDir)

	key := store.Digest(data, doc.Source(), doc.Catalog().Fingerprint())
	entry, err := cache.Save(ctx, key, doc.Snapshot())
	if err != nil {
		return err
	}
	fmt.Fprintf(logw, "[CACHE] Saved %s (%d facts)\n", entry.ID, entry.FactCount)
	return nil
}

func newFactsCmd(loadConfig func() (config.Config, error)) *cobra.Command {
	var name, prefix, contextID string
	cmd := &cobra.Command{
		Use:   "facts FILE",
		Short: "Print facts selected by qualified name, prefix or context",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			doc, err := loadDocument(cfg, args[0])
			if err != nil {
				return err
			}

			var facts []xbrl.Fact
			switch {
			case name != "":
				qn, err := xbrl.ParseQualifiedName(name)
				if err != nil {
					return err
				}
				facts = doc.Index().FactsFor(qn)
			case prefix != "":
				facts = doc.Index().FactsWithPrefix(prefix)
				fmt.Fprintf(cmd.OutOrStdout(), "# %s: %d names, %d facts\n",
					prefix, doc.Index().CountDistinctNamesWithPrefix(prefix), len(facts))
			case contextID != "":
				if _, ok := doc.Contexts().Lookup(contextID); !ok {
					return fmt.Errorf("no context %q", contextID)
				}
				facts = doc.FactsInContext(contextID)
			default:
				facts = doc.Index().Facts()
			}

			out := cmd.OutOrStdout()
			for _, f := range facts {
				fmt.Fprintf(out, "%s\t%s\t%s\t%s\t%s\t%s\n",
					f.Name, f.ContextRef, f.Value.Kind(), f.Value, f.UnitRef, f.DecimalsString())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "qualified name, e.g. jppfs_cor:Assets")
	cmd.Flags().StringVar(&prefix, "prefix", "", "taxonomy prefix, e.g. jppfs_cor")
	cmd.Flags().StringVar(&contextID, "context", "", "context id")
	return cmd
}

func newTaxonomyCmd(loadConfig func() (config.Config, error)) *cobra.Command {
	var lang string
	cmd := &cobra.Command{
		Use:   "taxonomy [DIR]",
		Short: "Summarize the filer taxonomy schema and linkbases in DIR",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			dir := cfg.TaxonomyDir
			if len(args) == 1 {
				dir = args[0]
			}
			if dir == "" {
				return fmt.Errorf("no taxonomy directory given")
			}

			ref, err := taxonomy.LoadReference(dir)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "schema\t%s\n", ref.SchemaPath)
			fmt.Fprintf(out, "target\t%s\n", ref.TargetNamespace)
			for _, ns := range ref.ImportedNamespaces() {
				fmt.Fprintf(out, "import\t%s\n", ns)
			}
			linkbases := ref.Linkbases
			sort.Slice(linkbases, func(i, j int) bool { return linkbases[i].Path < linkbases[j].Path })
			for _, lb := range linkbases {
				fmt.Fprintf(out, "linkbase\t%s\t%s\n", lb.Kind, lb.Path)
			}
			for _, c := range ref.Concepts {
				label, _ := ref.Label(c.ID, lang)
				fmt.Fprintf(out, "concept\t%s\t%s\t%s\n", c.Name, c.PeriodType, label)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&lang, "lang", "ja", "label language")
	return cmd
}
