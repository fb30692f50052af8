package ontoenv

// Vocabulary IRIs used to extract ontology metadata. Extends the teacher's
// RDF/RDFS/OWL/XSD constant block with SHACL, DCTERMS, and VAEM terms needed
// for version-property and namespace-map extraction.
const (
	OWLOntology    string = "http://www.w3.org/2002/07/owl#Ontology"
	OWLImports     string = "http://www.w3.org/2002/07/owl#imports"
	OWLVersionInfo string = "http://www.w3.org/2002/07/owl#versionInfo"
	OWLVersionIRI  string = "http://www.w3.org/2002/07/owl#versionIRI"

	RDFType string = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"

	RDFSIsDefinedBy string = "http://www.w3.org/2000/01/rdf-schema#isDefinedBy"
	RDFSSeeAlso     string = "http://www.w3.org/2000/01/rdf-schema#seeAlso"
	RDFSLabel       string = "http://www.w3.org/2000/01/rdf-schema#label"

	DCTermsCreated    string = "http://purl.org/dc/terms/created"
	DCTermsModified   string = "http://purl.org/dc/terms/modified"
	DCTermsHasVersion string = "http://purl.org/dc/terms/hasVersion"
	DCTermsTitle      string = "http://purl.org/dc/terms/title"

	VAEMHasGraphMetadata string = "http://www.linkedmodel.org/schema/vaem#hasGraphMetadata"
	VAEMRevision         string = "http://www.linkedmodel.org/schema/vaem#revision"

	SHPrefixes  string = "http://www.w3.org/ns/shacl#prefixes"
	SHDeclare   string = "http://www.w3.org/ns/shacl#declare"
	SHPrefix    string = "http://www.w3.org/ns/shacl#prefix"
	SHNamespace string = "http://www.w3.org/ns/shacl#namespace"
)

// OntologyVersionIRIs is the fixed, ordered set of predicates consulted when
// extracting version properties and when comparing version vectors under
// the "version" resolution policy. Order matters: VersionPolicy compares
// vectors built in this order lexicographically.
var OntologyVersionIRIs = []string{
	OWLVersionInfo,
	OWLVersionIRI,
	RDFSIsDefinedBy,
	RDFSSeeAlso,
	DCTermsCreated,
	DCTermsModified,
	DCTermsHasVersion,
	RDFSLabel,
	DCTermsTitle,
	VAEMRevision,
}
