package ontoenv

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestPolicySuite(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Resolution Policy Suite")
}

func ontology(name string, t *time.Time, versions map[string]string) *Ontology {
	if versions == nil {
		versions = map[string]string{}
	}
	return &Ontology{Name: name, VersionProperties: versions, LastUpdated: t}
}

var _ = Describe("ResolutionPolicy", func() {
	var a, b, c *Ontology

	BeforeEach(func() {
		early := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		late := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		a = ontology("foaf", &early, map[string]string{OWLVersionInfo: "1.0"})
		b = ontology("foaf", &late, map[string]string{OWLVersionInfo: "2.0"})
		c = ontology("foaf", nil, nil)
	})

	Describe("DefaultPolicy", func() {
		It("picks the first candidate in iteration order without error", func() {
			winner, err := DefaultPolicy{}.Resolve([]*Ontology{b, a, c})
			Expect(err).NotTo(HaveOccurred())
			Expect(winner).To(Equal(b))
		})
	})

	Describe("LatestPolicy", func() {
		It("picks the candidate with the most recent LastUpdated", func() {
			winner, err := LatestPolicy{}.Resolve([]*Ontology{a, b, c})
			Expect(err).NotTo(HaveOccurred())
			Expect(winner).To(Equal(b))
		})

		It("skips candidates with no LastUpdated when a timestamped one exists", func() {
			winner, err := LatestPolicy{}.Resolve([]*Ontology{c, a})
			Expect(err).NotTo(HaveOccurred())
			Expect(winner).To(Equal(a))
		})
	})

	Describe("VersionPolicy", func() {
		It("picks the candidate with the greatest version vector", func() {
			winner, err := VersionPolicy{}.Resolve([]*Ontology{a, b})
			Expect(err).NotTo(HaveOccurred())
			Expect(winner).To(Equal(b))
		})
	})

	Describe("PolicyFromName", func() {
		It("resolves the empty string and \"default\" to DefaultPolicy", func() {
			p, err := PolicyFromName("")
			Expect(err).NotTo(HaveOccurred())
			Expect(p.PolicyName()).To(Equal("default"))

			p, err = PolicyFromName("default")
			Expect(err).NotTo(HaveOccurred())
			Expect(p.PolicyName()).To(Equal("default"))
		})

		It("rejects unrecognized policy names", func() {
			_, err := PolicyFromName("bogus")
			Expect(err).To(HaveOccurred())
			Expect(IsKind(err, KindUnresolved)).To(BeTrue())
		})
	})
})
