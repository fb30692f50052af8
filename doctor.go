package ontoenv

import (
	"fmt"
	"os"
)

// DoctorFinding reports one problem a check discovered, naming every
// ontology location it concerns alongside a human-readable message.
type DoctorFinding struct {
	Check     string
	Locations []GraphIdentifier
	Message   string
}

// DoctorCheck is one independent diagnostic pass over an environment.
type DoctorCheck interface {
	Name() string
	Check(e *OntoEnv) ([]DoctorFinding, error)
}

// Doctor runs a fixed battery of checks and collects their findings,
// backing the `doctor` command.
type Doctor struct {
	checks []DoctorCheck
}

// NewDoctor builds a Doctor carrying the standard check battery.
func NewDoctor() *Doctor {
	return &Doctor{checks: []DoctorCheck{
		ontologyDeclarationCheck{},
		duplicateOntologyCheck{},
		missingSourceCheck{},
		unresolvedImportCheck{},
	}}
}

// Run executes every check in order, accumulating findings; a check's own
// error aborts the run (a malformed environment, not a diagnosable one).
func (d *Doctor) Run(e *OntoEnv) ([]DoctorFinding, error) {
	var findings []DoctorFinding
	for _, c := range d.checks {
		found, err := c.Check(e)
		if err != nil {
			return nil, err
		}
		findings = append(findings, found...)
	}
	return findings, nil
}

// ontologyDeclarationCheck flags files with zero or more than one
// rdf:type owl:Ontology declaration.
type ontologyDeclarationCheck struct{}

func (ontologyDeclarationCheck) Name() string { return "Ontology Declaration" }

func (ontologyDeclarationCheck) Check(e *OntoEnv) ([]DoctorFinding, error) {
	var findings []DoctorFinding
	for _, o := range e.Index.All() {
		trps, err := e.Store.GetGraph(o.ID)
		if err != nil {
			findings = append(findings, DoctorFinding{
				Check:     "Ontology Declaration",
				Locations: []GraphIdentifier{o.ID},
				Message:   fmt.Sprintf("failed to load graph: %v", err),
			})
			continue
		}
		decls := subjectsForPredicateObject(trps, RDFType, NewResourceTerm(OWLOntology).String())
		switch {
		case len(decls) == 0:
			findings = append(findings, DoctorFinding{
				Check:     "Ontology Declaration",
				Locations: []GraphIdentifier{o.ID},
				Message:   "no ontology declaration found",
			})
		case len(decls) > 1:
			findings = append(findings, DoctorFinding{
				Check:     "Ontology Declaration",
				Locations: []GraphIdentifier{o.ID},
				Message:   "multiple ontology declarations found",
			})
		}
	}
	return findings, nil
}

// duplicateOntologyCheck flags names held by more than one record, the
// situation a ResolutionPolicy exists to arbitrate.
type duplicateOntologyCheck struct{}

func (duplicateOntologyCheck) Name() string { return "Duplicate Ontology" }

func (duplicateOntologyCheck) Check(e *OntoEnv) ([]DoctorFinding, error) {
	var findings []DoctorFinding
	for _, o := range e.Index.All() {
		group := e.Index.GetByName(o.Name)
		if len(group) <= 1 {
			continue
		}
		var locs []GraphIdentifier
		for _, g := range group {
			locs = append(locs, g.ID)
		}
		findings = append(findings, DoctorFinding{
			Check:     "Duplicate Ontology",
			Locations: locs,
			Message:   fmt.Sprintf("multiple ontologies with name %s", o.Name),
		})
	}
	// collapse the len(group) duplicate reports (one per member) into one per name
	return dedupeDoctorFindings(findings), nil
}

func dedupeDoctorFindings(findings []DoctorFinding) []DoctorFinding {
	seen := map[string]bool{}
	var out []DoctorFinding
	for _, f := range findings {
		if seen[f.Message] {
			continue
		}
		seen[f.Message] = true
		out = append(out, f)
	}
	return out
}

// missingSourceCheck flags file-backed records whose source no longer
// exists on disk, the same condition Update.pruneMissing repairs on the
// next write-opened run.
type missingSourceCheck struct{}

func (missingSourceCheck) Name() string { return "Missing Source" }

func (missingSourceCheck) Check(e *OntoEnv) ([]DoctorFinding, error) {
	var findings []DoctorFinding
	for _, o := range e.Index.All() {
		if !o.ID.Location.IsFile() {
			continue
		}
		if _, err := os.Stat(o.ID.Location.Path); os.IsNotExist(err) {
			findings = append(findings, DoctorFinding{
				Check:     "Missing Source",
				Locations: []GraphIdentifier{o.ID},
				Message:   "source file no longer exists: " + o.ID.Location.Path,
			})
		}
	}
	return findings, nil
}

// unresolvedImportCheck flags declared imports the active policy cannot
// resolve against the current catalog.
type unresolvedImportCheck struct{}

func (unresolvedImportCheck) Name() string { return "Unresolved Import" }

func (unresolvedImportCheck) Check(e *OntoEnv) ([]DoctorFinding, error) {
	var findings []DoctorFinding
	for _, o := range e.Index.All() {
		for _, imp := range o.Imports {
			if _, err := e.Index.Resolve(imp, e.Policy); err != nil {
				findings = append(findings, DoctorFinding{
					Check:     "Unresolved Import",
					Locations: []GraphIdentifier{o.ID},
					Message:   fmt.Sprintf("%s declares unresolved import %s", o.Name, imp),
				})
			}
		}
	}
	return findings, nil
}

// Doctor runs the standard check battery over e, backing the `doctor`
// command.
func (e *OntoEnv) Doctor() ([]DoctorFinding, error) {
	return NewDoctor().Run(e)
}
