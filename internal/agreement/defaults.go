package agreement

// Family names.
const (
	FamilyBCGEUInstructor = "bcgeu-instructor"
	FamilyBCGEUSupport    = "bcgeu-support"
	FamilyCUPE            = "cupe"
)

// CUPECommonURL is the published copy of the CUPE common agreement, used when
// no local copy is installed.
const CUPECommonURL = "https://raw.githubusercontent.com/16880444c/V4/main/agreements/cupe_common/cupe_common.json"

// localSections are the top-level keys the split local agreement is expected to
// produce once all fragments are merged.
var localSections = []string{
	"agreement_metadata",
	"definitions",
	"articles",
	"appendices",
	"letters_of_agreement",
	"memorandum_of_understanding",
}

// Default returns the built-in catalog. Paths are relative to the agreements
// directory.
func Default() *Catalog {
	return &Catalog{
		Families: []Family{
			{
				Name:           FamilyBCGEUInstructor,
				AgreementType:  "BCGEU Instructor agreements",
				CitationFormat: "[Agreement Type - Article X.X: Title]",
			},
			{
				Name:           FamilyBCGEUSupport,
				AgreementType:  "BCGEU Support Agreement",
				CitationFormat: "[BCGEU Support Agreement - Article X.X: Title]",
			},
			{
				Name:           FamilyCUPE,
				AgreementType:  "CUPE agreements",
				CitationFormat: "[Agreement - Article X.X: Title]",
			},
		},
		Sets: []Set{
			{
				Name:   "bcgeu-local",
				Label:  "Coast Mountain College Local Agreement",
				Family: FamilyBCGEUInstructor,
				Fragments: []string{
					"bcgeu_local/local-metadata-json.json",
					"bcgeu_local/local-definitions-json.json",
					"bcgeu_local/local-articles-1-10-json.json",
					"bcgeu_local/local-articles-11-20-json.json",
					"bcgeu_local/local-articles-21-30-json.json",
					"bcgeu_local/local-articles-31-35-json.json",
					"bcgeu_local/local-appendices-json.json",
					"bcgeu_local/local-letters-of-agreement-json.json",
					"bcgeu_local/local-memorandum-json.json",
				},
				Fallback:         "bcgeu_local/complete_local.json",
				ExpectedSections: localSections,
			},
			{
				Name:     "bcgeu-common",
				Label:    "BCGEU Common Agreement",
				Family:   FamilyBCGEUInstructor,
				Fallback: "bcgeu_common/complete_common.json",
			},
			{
				Name:   "bcgeu-support",
				Label:  "BCGEU Support Agreement",
				Family: FamilyBCGEUSupport,
				Fragments: []string{
					"bcgeu_support/definitions_json.json",
					"bcgeu_support/articles_1_10_json.json",
					"bcgeu_support/articles_11_20_json.json",
					"bcgeu_support/articles_21_30_json.json",
					"bcgeu_support/articles_31_36_json.json",
					"bcgeu_support/appendices_json.json",
					"bcgeu_support/memoranda_json.json",
				},
				Fallback: "bcgeu_support/bcgeu_support.json",
			},
			{
				Name:     "cupe-local",
				Label:    "CUPE Local Agreement",
				Family:   FamilyCUPE,
				Fallback: "cupe_local/cupe_local.json",
			},
			{
				Name:      "cupe-common",
				Label:     "CUPE Common Agreement",
				Family:    FamilyCUPE,
				Fallback:  "cupe_common/cupe_common.json",
				RemoteURL: CUPECommonURL,
			},
		},
		Scopes: []Scope{
			{Name: "bcgeu-instructor-local", Title: "BCGEU Instructor - Local Only", Family: FamilyBCGEUInstructor, Sets: []string{"bcgeu-local"}},
			{Name: "bcgeu-instructor-common", Title: "BCGEU Instructor - Common Only", Family: FamilyBCGEUInstructor, Sets: []string{"bcgeu-common"}},
			{Name: "bcgeu-instructor-both", Title: "BCGEU Instructor - Both Agreements", Family: FamilyBCGEUInstructor, Sets: []string{"bcgeu-local", "bcgeu-common"}},
			{Name: "bcgeu-support", Title: "BCGEU Support Agreement", Family: FamilyBCGEUSupport, Sets: []string{"bcgeu-support"}},
			{Name: "cupe-local", Title: "CUPE - Local Agreement", Family: FamilyCUPE, Sets: []string{"cupe-local"}},
			{Name: "cupe-common", Title: "CUPE - Common Agreement", Family: FamilyCUPE, Sets: []string{"cupe-common"}},
			{Name: "cupe-both", Title: "CUPE - Both Agreements", Family: FamilyCUPE, Sets: []string{"cupe-local", "cupe-common"}},
		},
	}
}
