package taxonomy

// Section is a top-level disclosure topic with its ordered data points.
// Sections are compiled in and never mutated at runtime.
type Section struct {
	Name       string   `json:"name"`
	DataPoints []string `json:"data_points"`
}

// Fixed section names
const (
	SectionIdentityAndClaims = "Product Identity & Claims"
	SectionEthicalImpact     = "Ethical, Social & Environmental Impact"
	SectionCertifications    = "Certifications"
)

// Sector section names
const (
	SectorCosmetics     = "Cosmetics"
	SectorDairy         = "Dairy"
	SectorTextiles      = "Textiles"
	SectorMeatPoultry   = "Meat & Poultry"
	SectorPackagedFoods = "Packaged Foods"
	SectorAgriculture   = "Agriculture"
)

var catalog = map[string]Section{
	SectionIdentityAndClaims: {
		Name: SectionIdentityAndClaims,
		DataPoints: []string{
			"Product name and variants",
			"Intended use and target consumer",
			"Marketing claims made on pack or online",
			"Evidence supporting each claim",
			"Country of origin",
			"Manufacturing or processing location",
		},
	},
	SectorCosmetics: {
		Name: SectorCosmetics,
		DataPoints: []string{
			"Full ingredient list (INCI names)",
			"Fragrance and allergen disclosure",
			"Preservative system",
			"Animal testing policy",
			"Product safety assessment",
			"Primary packaging materials",
		},
	},
	SectorDairy: {
		Name: SectorDairy,
		DataPoints: []string{
			"Milk source and herd details",
			"Animal feed composition",
			"Animal welfare practices",
			"Antibiotic and hormone use",
			"Pasteurisation and processing method",
			"Cold chain handling",
		},
	},
	SectorTextiles: {
		Name: SectorTextiles,
		DataPoints: []string{
			"Fibre composition",
			"Fibre origin and farming method",
			"Dyes and finishing chemicals",
			"Spinning, weaving and sewing facilities",
			"Water use and wastewater treatment",
			"Care and end-of-life instructions",
		},
	},
	SectorMeatPoultry: {
		Name: SectorMeatPoultry,
		DataPoints: []string{
			"Breed and animal origin",
			"Rearing system and stocking density",
			"Feed composition",
			"Antibiotic and growth promoter use",
			"Slaughter and processing practices",
			"Traceability from farm to pack",
		},
	},
	SectorPackagedFoods: {
		Name: SectorPackagedFoods,
		DataPoints: []string{
			"Full ingredient list",
			"Allergen statement",
			"Additives and preservatives",
			"Sourcing of primary ingredients",
			"Processing method",
			"Shelf life and storage conditions",
		},
	},
	SectorAgriculture: {
		Name: SectorAgriculture,
		DataPoints: []string{
			"Seed source and variety",
			"Cultivation practices",
			"Fertiliser and pesticide use",
			"Irrigation and water source",
			"Harvest and post-harvest handling",
			"Farm size and land tenure",
		},
	},
	SectionEthicalImpact: {
		Name: SectionEthicalImpact,
		DataPoints: []string{
			"Worker wages and working conditions",
			"Community and smallholder impact",
			"Carbon footprint or emissions data",
			"Waste and by-product management",
			"Packaging recyclability and end-of-life",
		},
	},
	SectionCertifications: {
		Name: SectionCertifications,
		DataPoints: []string{
			"Certifications currently held",
			"Certifying bodies and certificate numbers",
			"Certificate validity and renewal dates",
			"Most recent audit findings",
			"Certifications in progress",
		},
	},
}

// Lookup returns a copy of the named section.
func Lookup(name string) (Section, bool) {
	s, ok := catalog[name]
	if !ok {
		return Section{}, false
	}
	return clone(s), true
}

// SectionsFor returns the fixed questionnaire order for a detected sector:
// identity, sector, ethical impact, certifications. A sector that coincides
// with a fixed section (or is unknown) is not repeated.
func SectionsFor(sector string) []Section {
	order := []string{SectionIdentityAndClaims, sector, SectionEthicalImpact, SectionCertifications}

	seen := make(map[string]bool, len(order))
	sections := make([]Section, 0, len(order))
	for _, name := range order {
		if seen[name] {
			continue
		}
		s, ok := Lookup(name)
		if !ok {
			continue
		}
		seen[name] = true
		sections = append(sections, s)
	}
	return sections
}

// TotalDataPoints counts every data point across the given sections.
func TotalDataPoints(sections []Section) int {
	total := 0
	for _, s := range sections {
		total += len(s.DataPoints)
	}
	return total
}

func clone(s Section) Section {
	points := make([]string, len(s.DataPoints))
	copy(points, s.DataPoints)
	return Section{Name: s.Name, DataPoints: points}
}
