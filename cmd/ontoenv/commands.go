package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kahefi/ontoenv"
)

// printJSON marshals v as pretty JSON to stdout, the shape every --json
// flag across the command surface produces.
func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func initOptsFromFlags(root string, locations []string, overwrite bool) ontoenv.InitOptions {
	return ontoenv.InitOptions{
		Root:                 root,
		Locations:            locations,
		Includes:             flagIncludes,
		Excludes:             flagExcludes,
		RequireOntologyNames: flagRequireOntologyNames,
		Strict:               flagStrict,
		Offline:              flagOffline,
		Temporary:            flagTemporary,
		NoSearch:             flagNoSearch,
		Policy:               flagPolicy,
		Overwrite:            overwrite,
	}
}

var initCmd = &cobra.Command{
	Use:   "init [locations...]",
	Short: "create .ontoenv/ under the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		overwrite, _ := cmd.Flags().GetBool("overwrite")
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		e, how, err := ontoenv.Init(initOptsFromFlags(wd, args, overwrite))
		if err != nil {
			return err
		}
		defer e.Close()
		fmt.Println(how)
		return nil
	},
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "re-discover and re-ingest stale or new ontologies",
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		quiet, _ := cmd.Flags().GetBool("quiet")
		asJSON, _ := cmd.Flags().GetBool("json")
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		e, err := ontoenv.Load(wd)
		if err != nil {
			return err
		}
		defer e.Close()

		result, err := e.Update(ontoenv.UpdateOptions{All: all, Refresh: ontoenv.RefreshUseCache})
		if err != nil {
			return err
		}
		if asJSON {
			return printJSON(result)
		}
		if quiet {
			return nil
		}
		for _, n := range result.Ingested {
			fmt.Println("ingested:", n)
		}
		for _, n := range result.Removed {
			fmt.Println("removed:", n)
		}
		for _, w := range result.Warnings {
			fmt.Println("warning:", w)
		}
		return nil
	},
}

var addCmd = &cobra.Command{
	Use:   "add LOCATION",
	Short: "add a single ontology source",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		noImports, _ := cmd.Flags().GetBool("no-imports")
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		e, err := ontoenv.Load(wd)
		if err != nil {
			return err
		}
		defer e.Close()

		loc, err := ontoenv.ParseLocation(args[0])
		if err != nil {
			return err
		}
		ont, err := e.Add(loc, !noImports)
		if err != nil {
			return err
		}
		if err := e.Save(); err != nil {
			return err
		}
		fmt.Println(ont.Name)
		return nil
	},
}

var closureCmd = &cobra.Command{
	Use:   "closure ONTOLOGY [dest]",
	Short: "write the import closure of an ontology to a file",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		keepImports, _ := cmd.Flags().GetBool("keep-owl-imports")
		noRewrite, _ := cmd.Flags().GetBool("no-rewrite-sh-prefixes")
		depth, _ := cmd.Flags().GetInt("recursion-depth")
		dest := "output.ttl"
		if len(args) == 2 {
			dest = args[1]
		}

		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		e, err := ontoenv.LoadReadOnly(wd)
		if err != nil {
			return err
		}
		defer e.Close()

		ds, ids, err := e.GetUnionGraph(args[0], depth)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return fmt.Errorf("no ontology named %s", args[0])
		}
		root := ontoenv.Term(ontoenv.NewResourceTerm(ids[0].Name))
		if !noRewrite {
			ds = ontoenv.RewriteSHPrefixes(ds, root)
		}
		removedImports := !keepImports
		if removedImports {
			ds = ontoenv.RemoveOWLImports(ds)
		}
		ds = ontoenv.RemoveOntologyDeclarations(ds, root)

		// import_graph (4.8) flattens the dataset to a plain triple set
		// merged into the default graph; when owl:imports was stripped it
		// is replaced by one (root, owl:imports, dep) statement per
		// non-root closure member.
		triples := make([]ontoenv.Triple, 0, len(ds))
		for _, q := range ds {
			triples = append(triples, ontoenv.Triple{Subject: q.Subject, Predicate: q.Predicate, Object: q.Object})
		}
		if removedImports {
			importsPred := ontoenv.Term(ontoenv.NewResourceTerm(ontoenv.OWLImports))
			for _, id := range ids[1:] {
				triples = append(triples, ontoenv.Triple{
					Subject:   root,
					Predicate: importsPred,
					Object:    ontoenv.Term(ontoenv.NewResourceTerm(id.Name)),
				})
			}
		}

		f, err := os.Create(dest)
		if err != nil {
			return err
		}
		defer f.Close()
		return ontoenv.SerializeTriples(triples, ontoenv.FormatTurtle, f)
	},
}

var getCmd = &cobra.Command{
	Use:   "get ONTOLOGY",
	Short: "serialize a single ontology's graph",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		location, _ := cmd.Flags().GetString("location")
		output, _ := cmd.Flags().GetString("output")
		formatName, _ := cmd.Flags().GetString("format")

		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		e, err := ontoenv.LoadReadOnly(wd)
		if err != nil {
			return err
		}
		defer e.Close()

		ont, err := resolveWithLocation(e, args[0], location)
		if err != nil {
			return err
		}
		triples, err := e.Store.GetGraph(ont.ID)
		if err != nil {
			return err
		}

		w := os.Stdout
		if output != "" {
			f, err := os.Create(output)
			if err != nil {
				return err
			}
			defer f.Close()
			return ontoenv.SerializeTriples(triples, formatFromName(formatName), f)
		}
		return ontoenv.SerializeTriples(triples, formatFromName(formatName), w)
	},
}

// resolveWithLocation picks the record named name, disambiguating by exact
// source location when more than one candidate shares the name and a
// location string was given.
func resolveWithLocation(e *ontoenv.OntoEnv, name, location string) (*ontoenv.Ontology, error) {
	if location == "" {
		return e.Resolve(name)
	}
	for _, o := range e.Index.GetByName(name) {
		if o.ID.Location.String() == location {
			return o, nil
		}
	}
	return nil, fmt.Errorf("no ontology named %s at location %s", name, location)
}

func formatFromName(name string) ontoenv.Format {
	switch name {
	case "ntriples":
		return ontoenv.FormatNTriples
	case "rdfxml":
		return ontoenv.FormatRDFXML
	case "jsonld":
		return ontoenv.FormatJSONLD
	default:
		return ontoenv.FormatTurtle
	}
}

var listCmd = &cobra.Command{
	Use:   "list (locations|ontologies|missing)",
	Short: "enumerate the environment's contents",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		e, err := ontoenv.LoadReadOnly(wd)
		if err != nil {
			return err
		}
		defer e.Close()

		var out []string
		switch args[0] {
		case "ontologies":
			for _, o := range e.Index.All() {
				out = append(out, o.Name)
			}
		case "locations":
			for _, o := range e.Index.All() {
				out = append(out, o.ID.Location.String())
			}
		case "missing":
			for _, o := range e.Index.All() {
				if o.ID.Location.IsFile() {
					if _, err := os.Stat(o.ID.Location.Path); os.IsNotExist(err) {
						out = append(out, o.ID.Location.String())
					}
				}
			}
		default:
			return fmt.Errorf("unknown list target: %s", args[0])
		}

		if asJSON {
			return printJSON(out)
		}
		for _, s := range out {
			fmt.Println(s)
		}
		return nil
	},
}

var whyCmd = &cobra.Command{
	Use:   "why ONTOLOGY...",
	Short: "print import paths leading to each named ontology",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		e, err := ontoenv.LoadReadOnly(wd)
		if err != nil {
			return err
		}
		defer e.Close()

		results := map[string][][]string{}
		for _, name := range args {
			paths, err := e.ExplainImport(name)
			if err != nil {
				return err
			}
			results[name] = paths
		}

		if asJSON {
			return printJSON(results)
		}
		for _, name := range args {
			for _, path := range results[name] {
				fmt.Println(path)
			}
		}
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "summarize the environment",
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		e, err := ontoenv.LoadReadOnly(wd)
		if err != nil {
			return err
		}
		defer e.Close()

		s, err := e.Status()
		if err != nil {
			return err
		}
		if asJSON {
			return printJSON(s)
		}
		fmt.Printf("graphs: %d\n", s.NumGraphs)
		fmt.Printf("triples: %d\n", s.NumTriples)
		fmt.Printf("store: %s\n", s.StoreSize)
		fmt.Printf("missing sources: %d\n", s.MissingSourceCount)
		return nil
	},
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "run diagnostic checks over the environment",
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		e, err := ontoenv.LoadReadOnly(wd)
		if err != nil {
			return err
		}
		defer e.Close()

		findings, err := e.Doctor()
		if err != nil {
			return err
		}
		if asJSON {
			return printJSON(findings)
		}
		for _, f := range findings {
			fmt.Printf("[%s] %s\n", f.Check, f.Message)
		}
		return nil
	},
}

var depGraphCmd = &cobra.Command{
	Use:   "dep-graph [roots...]",
	Short: "emit the dependency graph as a PDF via graphviz",
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		if output == "" {
			output = "dep-graph.pdf"
		}
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		e, err := ontoenv.LoadReadOnly(wd)
		if err != nil {
			return err
		}
		defer e.Close()

		dg, err := e.DepGraph.Subgraph(args)
		if err != nil {
			return err
		}
		dot, err := dg.ToDOT()
		if err != nil {
			return err
		}
		c := exec.Command("dot", "-Tpdf", "-o", output)
		c.Stdin = strings.NewReader(dot)
		c.Stderr = os.Stderr
		return c.Run()
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "remove .ontoenv/",
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		root, err := ontoenv.FindOntoenvRoot(wd)
		if err != nil {
			return err
		}
		if !force {
			fmt.Printf("remove .ontoenv under %s? [y/N] ", root)
			var answer string
			fmt.Scanln(&answer)
			if answer != "y" && answer != "Y" {
				return nil
			}
		}
		return os.RemoveAll(root + "/.ontoenv")
	},
}

var configCmd = &cobra.Command{
	Use:   "config (list|get|set|unset|add|remove) [key] [value]",
	Short: "inspect or mutate the persisted configuration",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		root, err := ontoenv.FindOntoenvRoot(wd)
		if err != nil {
			return err
		}
		path := root + "/.ontoenv/ontoenv.json"
		cfg, err := ontoenv.LoadConfigFromFile(path)
		if err != nil {
			return err
		}

		switch args[0] {
		case "list":
			return printJSON(cfg)
		case "get":
			if len(args) != 2 {
				return fmt.Errorf("usage: config get KEY")
			}
			return printConfigField(cfg, args[1])
		case "set":
			if len(args) != 3 {
				return fmt.Errorf("usage: config set KEY VALUE")
			}
			if err := setConfigField(cfg, args[1], args[2]); err != nil {
				return err
			}
		case "unset":
			if len(args) != 2 {
				return fmt.Errorf("usage: config unset KEY")
			}
			if err := setConfigField(cfg, args[1], ""); err != nil {
				return err
			}
		case "add":
			if len(args) != 3 {
				return fmt.Errorf("usage: config add KEY VALUE")
			}
			if err := addConfigListValue(cfg, args[1], args[2]); err != nil {
				return err
			}
		case "remove":
			if len(args) != 3 {
				return fmt.Errorf("usage: config remove KEY VALUE")
			}
			if err := removeConfigListValue(cfg, args[1], args[2]); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown config subcommand: %s", args[0])
		}
		return ontoenv.SaveConfig(root+"/.ontoenv", cfg)
	},
}

func printConfigField(cfg *ontoenv.Config, key string) error {
	switch key {
	case "root":
		fmt.Println(cfg.Root)
	case "resolution_policy":
		fmt.Println(cfg.ResolutionPolicy)
	case "require_ontology_names":
		fmt.Println(cfg.RequireOntologyNames)
	case "strict":
		fmt.Println(cfg.Strict)
	case "offline":
		fmt.Println(cfg.Offline)
	case "external_graph_store":
		fmt.Println(cfg.ExternalGraphStore)
	case "locations":
		return printJSON(cfg.Locations)
	case "includes":
		return printJSON(cfg.Includes)
	case "excludes":
		return printJSON(cfg.Excludes)
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

func setConfigField(cfg *ontoenv.Config, key, value string) error {
	switch key {
	case "resolution_policy":
		cfg.ResolutionPolicy = value
	case "strict":
		cfg.Strict = value == "true"
	case "offline":
		cfg.Offline = value == "true"
	case "require_ontology_names":
		cfg.RequireOntologyNames = value == "true"
	case "external_graph_store":
		cfg.ExternalGraphStore = value
	default:
		return fmt.Errorf("unknown or non-scalar config key: %s", key)
	}
	return nil
}

func addConfigListValue(cfg *ontoenv.Config, key, value string) error {
	switch key {
	case "locations":
		cfg.Locations = append(cfg.Locations, value)
	case "includes":
		cfg.Includes = append(cfg.Includes, value)
	case "excludes":
		cfg.Excludes = append(cfg.Excludes, value)
	default:
		return fmt.Errorf("unknown list config key: %s", key)
	}
	return nil
}

func removeConfigListValue(cfg *ontoenv.Config, key, value string) error {
	var list *[]string
	switch key {
	case "locations":
		list = &cfg.Locations
	case "includes":
		list = &cfg.Includes
	case "excludes":
		list = &cfg.Excludes
	default:
		return fmt.Errorf("unknown list config key: %s", key)
	}
	out := (*list)[:0]
	for _, v := range *list {
		if v != value {
			out = append(out, v)
		}
	}
	*list = out
	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "print the ontoenv version",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(version)
		return nil
	},
}

func init() {
	initCmd.Flags().Bool("overwrite", false, "replace an existing environment")

	updateCmd.Flags().Bool("all", false, "force re-ingest of every known record")
	updateCmd.Flags().Bool("quiet", false, "suppress per-item output")
	updateCmd.Flags().Bool("json", false, "print the result as JSON")

	addCmd.Flags().Bool("no-imports", false, "do not follow the added ontology's declared imports")

	closureCmd.Flags().Bool("keep-owl-imports", false, "keep owl:imports statements in the output")
	closureCmd.Flags().Bool("no-rewrite-sh-prefixes", false, "do not collapse sh:prefixes onto the root")
	closureCmd.Flags().Int("recursion-depth", -1, "closure depth, -1 for unbounded")

	getCmd.Flags().String("location", "", "disambiguate by source location")
	getCmd.Flags().String("output", "", "write to a file instead of stdout")
	getCmd.Flags().String("format", "turtle", "output format: turtle, ntriples, rdfxml, jsonld")

	listCmd.Flags().Bool("json", false, "print the result as JSON")
	whyCmd.Flags().Bool("json", false, "print the result as JSON")
	statusCmd.Flags().Bool("json", false, "print the result as JSON")
	doctorCmd.Flags().Bool("json", false, "print the result as JSON")

	depGraphCmd.Flags().String("output", "", "output PDF path")

	resetCmd.Flags().Bool("force", false, "skip the confirmation prompt")
}
