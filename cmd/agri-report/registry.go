package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"agri-report-workers/internal/catalog"
	"agri-report-workers/internal/pipeline"
	"agri-report-workers/internal/providers"
	"agri-report-workers/pkg/registry"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
)

const defaultRegistryPath = "configs/template-registry.json"

func implementedCatalog(g *globalOptions) *catalog.Catalog {
	log := g.logger()
	clock := clockwork.NewRealClock()
	return catalog.New(nil, providers.SimulatedSet(providers.NewSimulated(0, clock)), pipeline.NewRunner(log), log)
}

func newTemplatesCmd(g *globalOptions) *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List the implemented report templates",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat := implementedCatalog(g)
			reg, _ := registry.LoadRegistry(path)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TEMPLATE\tARITY\tARGUMENTS")
			for _, e := range cat.Entries() {
				args := "-"
				if reg != nil {
					if def, ok := reg.Find(e.Name); ok {
						args = strings.Join(def.ArgumentNames(), ", ")
					}
				}
				fmt.Fprintf(w, "%s\t%d\t%s\n", e.Name, e.Template.Arity(), args)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&path, "path", defaultRegistryPath, "registry file used for argument names")
	return cmd
}

func newRegistryCmd(g *globalOptions) *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Validate and maintain the template registry",
	}
	cmd.PersistentFlags().StringVar(&path, "path", defaultRegistryPath, "path to the registry file")

	validate := &cobra.Command{
		Use:   "validate",
		Short: "Check the registry file and its arity against the implemented templates",
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := registry.LoadRegistry(path)
			if err != nil {
				return fmt.Errorf("failed to load registry: %w", err)
			}
			if err := reg.Validate(); err != nil {
				return err
			}
			implemented := make(map[string]int)
			for _, e := range implementedCatalog(g).Entries() {
				implemented[e.Name] = e.Template.Arity()
			}
			if err := reg.CheckArity(implemented); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registry validation passed. Found %d templates.\n", len(reg.Templates))
			return nil
		},
	}

	var id, field, value string
	update := &cobra.Command{
		Use:     "update",
		Short:   "Update one field of a registry template",
		Example: "  agri-report registry update --id treatment-tracking --field status --value verified",
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := registry.LoadRegistry(path)
			if err != nil {
				return fmt.Errorf("failed to load registry: %w", err)
			}
			if err := reg.SetField(id, field, value); err != nil {
				return err
			}
			if err := registry.SaveRegistry(reg, path); err != nil {
				return fmt.Errorf("failed to write registry file: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated template %s, field %s to %s\n", id, field, value)
			return nil
		},
	}
	update.Flags().StringVar(&id, "id", "", "template id")
	update.Flags().StringVar(&field, "field", "", "field to update (status, version, displayName, description, category, timeout, retries)")
	update.Flags().StringVar(&value, "value", "", "new value")
	_ = update.MarkFlagRequired("id")
	_ = update.MarkFlagRequired("field")
	_ = update.MarkFlagRequired("value")

	show := &cobra.Command{
		Use:   "show <template>",
		Short: "Print one registry entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := registry.LoadRegistry(path)
			if err != nil {
				return fmt.Errorf("failed to load registry: %w", err)
			}
			def, ok := reg.Find(args[0])
			if !ok {
				return fmt.Errorf("template %s not found", args[0])
			}
			return writeValue(cmd.OutOrStdout(), g.output, def)
		},
	}

	cmd.AddCommand(validate, update, show)
	return cmd
}
