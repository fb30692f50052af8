// Command ontoenv manages a local OWL/RDF ontology environment: a catalog
// of ontologies discovered under one or more search roots, their
// owl:imports dependency graph, and a quad store holding their triples.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/kahefi/ontoenv"
)

var (
	flagVerbose              bool
	flagDebug                bool
	flagPolicy               string
	flagTemporary            bool
	flagRequireOntologyNames bool
	flagStrict               bool
	flagOffline              bool
	flagIncludes             []string
	flagExcludes             []string
	flagNoSearch             bool
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:           "ontoenv",
	Short:         "manage a local ontology environment",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVar(&flagVerbose, "verbose", false, "log at info level")
	flags.BoolVar(&flagDebug, "debug", false, "log at debug level")
	flags.StringVar(&flagPolicy, "policy", "", "resolution policy for name collisions (default, latest, version)")
	flags.BoolVar(&flagTemporary, "temporary", false, "use a volatile in-memory store instead of .ontoenv/")
	flags.BoolVar(&flagRequireOntologyNames, "require-ontology-names", false, "fail ingestion of files with no ontology declaration")
	flags.BoolVar(&flagStrict, "strict", false, "escalate suppressible errors to fatal")
	flags.BoolVar(&flagOffline, "offline", false, "forbid network access")
	flags.StringSliceVar(&flagIncludes, "includes", nil, "glob patterns of files to include")
	flags.StringSliceVar(&flagExcludes, "excludes", nil, "glob patterns of files to exclude")
	flags.BoolVar(&flagNoSearch, "no-search", false, "do not default locations to the environment root")

	rootCmd.AddCommand(
		initCmd,
		updateCmd,
		addCmd,
		closureCmd,
		getCmd,
		listCmd,
		whyCmd,
		statusCmd,
		doctorCmd,
		depGraphCmd,
		resetCmd,
		configCmd,
		versionCmd,
	)
}

func setupLogging() {
	switch {
	case flagDebug:
		ontoenv.Log().SetLevel(logrus.DebugLevel)
	case flagVerbose:
		ontoenv.Log().SetLevel(logrus.InfoLevel)
	}
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fail(err)
	}
}
