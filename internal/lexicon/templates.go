package lexicon

import "strings"

// BaseTemplate is one of the fixed seed vocabularies the taxonomy resolver
// classifies free-text categories against. The AI path is instructed to pick
// the nearest template; the heuristic path matches Aliases against the
// normalized category name.
type BaseTemplate struct {
	Name               string
	Aliases            []string
	AromaCategories    []string
	FlavorCategories   []string
	TypicalDescriptors []string
	TextureNotes       []string
}

// BaseTemplates are the seed vocabularies for taxonomy generation.
var BaseTemplates = []BaseTemplate{
	{
		Name:               "coffee",
		Aliases:            []string{"coffee", "espresso", "cold brew", "pour over", "cafe"},
		AromaCategories:    []string{"fruity", "floral", "sweet", "nutty", "roasted", "spice"},
		FlavorCategories:   []string{"sweet", "sour", "bitter", "grain", "savory"},
		TypicalDescriptors: []string{"citrus", "berry", "jasmine", "honey", "caramel", "chocolate", "hazelnut", "roasted", "cocoa", "stone fruit"},
		TextureNotes:       []string{"creamy", "syrupy", "clean", "tea-like"},
	},
	{
		Name:               "wine",
		Aliases:            []string{"wine", "red wine", "white wine", "rose", "champagne", "sparkling", "cabernet", "chardonnay", "pinot"},
		AromaCategories:    []string{"fruity", "floral", "earthy", "woody", "spice", "herbal"},
		FlavorCategories:   []string{"sweet", "sour", "bitter", "mineral"},
		TypicalDescriptors: []string{"cherry", "blackberry", "violet", "oak", "vanilla", "leather", "tobacco", "pepper", "mineral", "apple", "pear"},
		TextureNotes:       []string{"tannic", "silky", "crisp", "full-bodied", "astringent"},
	},
	{
		Name:               "beer",
		Aliases:            []string{"beer", "ale", "lager", "ipa", "stout", "porter", "pilsner"},
		AromaCategories:    []string{"fruity", "herbal", "roasted", "sweet", "spice"},
		FlavorCategories:   []string{"bitter", "sweet", "grain", "sour"},
		TypicalDescriptors: []string{"citrus", "pine", "tropical", "caramel", "biscuit", "coffee", "banana", "clove", "grassy"},
		TextureNotes:       []string{"effervescent", "creamy", "crisp", "full-bodied"},
	},
	{
		Name:               "spirits",
		Aliases:            []string{"whiskey", "whisky", "bourbon", "scotch", "rum", "tequila", "mezcal", "gin", "vodka", "brandy", "cognac", "spirits"},
		AromaCategories:    []string{"sweet", "woody", "spice", "fruity", "roasted", "earthy"},
		FlavorCategories:   []string{"sweet", "bitter", "spice", "grain"},
		TypicalDescriptors: []string{"vanilla", "caramel", "oak", "smoke", "honey", "cinnamon", "raisin", "toffee", "pepper", "cedar"},
		TextureNotes:       []string{"warming", "oily", "smooth", "drying"},
	},
	{
		Name:               "tea",
		Aliases:            []string{"tea", "green tea", "black tea", "oolong", "matcha", "pu-erh", "herbal tea"},
		AromaCategories:    []string{"floral", "herbal", "fruity", "earthy", "roasted"},
		FlavorCategories:   []string{"sweet", "bitter", "savory", "mineral"},
		TypicalDescriptors: []string{"jasmine", "grassy", "hay", "honey", "apricot", "mushroom", "toasted", "mint", "bergamot"},
		TextureNotes:       []string{"astringent", "silky", "brothy", "clean"},
	},
	{
		Name:               "chocolate",
		Aliases:            []string{"chocolate", "cacao", "dark chocolate", "cocoa"},
		AromaCategories:    []string{"roasted", "fruity", "sweet", "nutty", "earthy", "spice"},
		FlavorCategories:   []string{"sweet", "bitter", "sour", "savory"},
		TypicalDescriptors: []string{"cocoa", "cherry", "raspberry", "caramel", "almond", "coffee", "fig", "vanilla", "tobacco"},
		TextureNotes:       []string{"creamy", "chalky", "smooth", "melting"},
	},
	{
		Name:               "general",
		Aliases:            []string{},
		AromaCategories:    []string{"fruity", "floral", "sweet", "earthy", "spice", "herbal"},
		FlavorCategories:   []string{"sweet", "sour", "bitter", "salty", "savory"},
		TypicalDescriptors: []string{"citrus", "berry", "honey", "vanilla", "nutty", "earthy", "spicy", "floral"},
		TextureNotes:       []string{"smooth", "creamy", "crisp", "drying"},
	},
}

// MatchTemplate finds the base template whose aliases best match a
// normalized category name. The "general" template is the fallback for
// categories no alias matches.
// Parameters:
//   - normalized: lowercased, trimmed category name.
// Returns:
//   - BaseTemplate: the matched (or fallback) template.
func MatchTemplate(normalized string) BaseTemplate {
	for _, tpl := range BaseTemplates {
		for _, alias := range tpl.Aliases {
			if normalized == alias || strings.Contains(normalized, alias) {
				return tpl
			}
		}
	}
	// "general" is always last
	return BaseTemplates[len(BaseTemplates)-1]
}

// TemplateNames returns the names of all base templates, for use in the
// taxonomy generation prompt.
func TemplateNames() []string {
	names := make([]string, 0, len(BaseTemplates))
	for _, tpl := range BaseTemplates {
		names = append(names, tpl.Name)
	}
	return names
}

// TemplateByName returns the base template with the given name, falling back
// to "general" when the name is unknown.
func TemplateByName(name string) BaseTemplate {
	for _, tpl := range BaseTemplates {
		if strings.EqualFold(tpl.Name, name) {
			return tpl
		}
	}
	return BaseTemplates[len(BaseTemplates)-1]
}
