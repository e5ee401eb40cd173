package recommend

import "github.com/Devayan28/Outfitron/body"

// Clothing guidance category names.
const (
	CategoryBestTops    = "Best Tops"
	CategoryBestBottoms = "Best Bottoms"
	CategoryDresses     = "Dresses"
	CategoryAvoid       = "Avoid"
	CategoryCelebrities = "Celebrity Examples"
	CategoryBestChoices = "Best Choices"
	CategoryTips        = "Tips"
)

// Category is one titled list of clothing advice.
type Category struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

// Guidance is the ordered clothing advice for one body shape.
type Guidance []Category

// Get returns the items of the named category.
func (g Guidance) Get(name string) ([]string, bool) {
	for _, c := range g {
		if c.Name == name {
			return c.Items, true
		}
	}
	return nil, false
}

// Highlights returns the categories shown in summaries: tops, bottoms and
// dresses, each trimmed to its first n items.
func (g Guidance) Highlights(n int) Guidance {
	var out Guidance
	for _, c := range g {
		switch c.Name {
		case CategoryBestTops, CategoryBestBottoms, CategoryDresses:
			items := c.Items
			if len(items) > n {
				items = items[:n]
			}
			out = append(out, Category{Name: c.Name, Items: items})
		}
	}
	return out
}

var guidance = map[body.Shape]Guidance{
	body.ShapePear: {
		{CategoryBestTops, []string{
			"V-necks, scoop necks, and boat necks",
			"Tops with detailing on the shoulders or sleeves",
			"Bright colors or patterns on top",
			"Structured jackets that hit at the waist",
		}},
		{CategoryBestBottoms, []string{
			"Dark colored pants and skirts",
			"A-line skirts that skim over hips",
			"Bootcut or wide-leg pants",
			"High-waisted styles to elongate legs",
		}},
		{CategoryDresses, []string{
			"Fit and flare silhouettes",
			"Empire waist dresses",
			"Wrap dresses that cinch at the waist",
			"Dresses with detailing on top",
		}},
		{CategoryAvoid, []string{
			"Skinny jeans that emphasize hip width",
			"Tops that end at the widest part of your hips",
			"Tight skirts that cling to hips",
			"Excessive detailing on hips/bottom",
		}},
		{CategoryCelebrities, []string{"Jennifer Lopez", "Beyoncé", "Kim Kardashian"}},
	},
	body.ShapeInvertedTriangle: {
		{CategoryBestTops, []string{
			"Scoop necks and V-necks",
			"Dark colored tops",
			"Simple, clean designs",
			"Tops that create waist definition",
		}},
		{CategoryBestBottoms, []string{
			"Flared pants to balance shoulders",
			"Patterned skirts and pants",
			"A-line skirts",
			"Bootcut or wide-leg jeans",
		}},
		{CategoryDresses, []string{
			"A-line dresses",
			"Wrap dresses",
			"Dresses with full skirts",
			"Empire waist dresses",
		}},
		{CategoryAvoid, []string{
			"Padded shoulders or shoulder detailing",
			"Tight tops with high necklines",
			"Skinny jeans without balancing tops",
			"Strapless styles",
		}},
		{CategoryCelebrities, []string{"Angelina Jolie", "Demi Moore", "Renée Zellweger"}},
	},
	body.ShapeHourglass: {
		{CategoryBestTops, []string{
			"Fitted styles that show your waist",
			"Wrap tops",
			"Sweetheart or V-necklines",
			"Structured blazers",
		}},
		{CategoryBestBottoms, []string{
			"High-waisted pants and skirts",
			"Pencil skirts",
			"Bootcut or straight leg pants",
			"Tailored shorts",
		}},
		{CategoryDresses, []string{
			"Bodycon dresses",
			"Belted styles",
			"Wrap dresses",
			"Fit-and-flare silhouettes",
		}},
		{CategoryAvoid, []string{
			"Baggy, shapeless clothing",
			"High-necked tops without waist definition",
			"Boxy jackets",
			"Dropped waist styles",
		}},
		{CategoryCelebrities, []string{"Marilyn Monroe", "Sophia Loren", "Salma Hayek"}},
	},
	body.ShapeRectangle: {
		{CategoryBestTops, []string{
			"Peplum tops",
			"Ruffled or detailed tops",
			"Off-the-shoulder styles",
			"Tops with waist definition",
		}},
		{CategoryBestBottoms, []string{
			"High-waisted jeans",
			"A-line skirts",
			"Pleated pants",
			"Patterned bottoms",
		}},
		{CategoryDresses, []string{
			"Belted dresses",
			"Fit and flare dresses",
			"Shirt dresses with belts",
			"Dresses with ruching or draping",
		}},
		{CategoryAvoid, []string{
			"Boxy, shapeless tops",
			"Straight up-and-down dresses",
			"Tops that hide your waist",
			"Baggy jeans",
		}},
		{CategoryCelebrities, []string{"Cameron Diaz", "Natalie Portman", "Kate Hudson"}},
	},
	body.ShapeAverage: {
		{CategoryBestChoices, []string{
			"Most styles work well",
			"Can experiment with different silhouettes",
			"Focus on proportion and fit",
			"Highlight your best features",
		}},
		{CategoryTips, []string{
			"You can wear both fitted and loose styles",
			"Play with different necklines",
			"Try both high and low waistlines",
			"Experiment with patterns and textures",
		}},
		{CategoryCelebrities, []string{"Jennifer Aniston", "Gwyneth Paltrow", "Sandra Bullock"}},
	},
}

// Clothing returns the guidance for a body shape. Unknown shapes get no guidance.
func Clothing(shape body.Shape) Guidance {
	g, ok := guidance[shape]
	if !ok {
		return Guidance{}
	}
	out := make(Guidance, len(g))
	for i, c := range g {
		out[i] = Category{Name: c.Name, Items: append([]string(nil), c.Items...)}
	}
	return out
}
