package taxonomy

import "strings"

type sectorKeywords struct {
	sector   string
	keywords []string
}

// Priority order matters: the first sector with any matching keyword wins.
var sectorTable = []sectorKeywords{
	{SectorCosmetics, []string{
		"cosmetic", "lip balm", "lipstick", "skincare", "skin care", "lotion", "face cream",
		"body cream", "shampoo", "conditioner", "soap", "serum", "moisturi", "makeup", "perfume", "balm",
	}},
	{SectorDairy, []string{
		"dairy", "milk", "cheese", "yogurt", "yoghurt", "butter", "ghee", "paneer", "curd", "kefir",
	}},
	{SectorTextiles, []string{
		"textile", "fabric", "cotton", "wool", "silk", "garment", "apparel", "clothing", "yarn", "linen", "denim",
	}},
	{SectorMeatPoultry, []string{
		"meat", "poultry", "chicken", "beef", "pork", "lamb", "mutton", "sausage", "turkey",
	}},
	{SectorPackagedFoods, []string{
		"packaged", "snack", "biscuit", "cookie", "chips", "sauce", "jam", "cereal", "noodle",
		"ready-to-eat", "ready to eat", "beverage", "juice", "chocolate", "spread",
	}},
	{SectorAgriculture, []string{
		"agricultur", "agri", "farm", "crop", "grain", "wheat", "millet", "vegetable", "fruit",
		"seed", "pulses", "harvest",
	}},
}

// DetectSector classifies a product into a sector section by case-insensitive
// substring matching over its name, description and category. Products that
// match nothing fall back to the identity section.
func DetectSector(name, description, category string) string {
	haystack := strings.ToLower(strings.Join([]string{name, description, category}, " "))

	for _, entry := range sectorTable {
		for _, kw := range entry.keywords {
			if strings.Contains(haystack, kw) {
				return entry.sector
			}
		}
	}
	return SectionIdentityAndClaims
}
