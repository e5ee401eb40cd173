package recommend

import "github.com/Devayan28/Outfitron/skin"

// Step is one entry of a skincare routine.
type Step struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

// Routine is an ordered skincare routine. Step names are unique.
type Routine []Step

// Get returns the text of the named step.
func (r Routine) Get(name string) (string, bool) {
	for _, s := range r {
		if s.Name == name {
			return s.Text, true
		}
	}
	return "", false
}

// merge overlays src onto r. A step already present keeps its position and
// takes the new text; new steps are appended.
func (r Routine) merge(src Routine) Routine {
	for _, s := range src {
		replaced := false
		for i := range r {
			if r[i].Name == s.Name {
				r[i].Text = s.Text
				replaced = true
				break
			}
		}
		if !replaced {
			r = append(r, s)
		}
	}
	return r
}

var toneRoutines = map[skin.Tone]Routine{
	skin.ToneVeryFair: {
		{"Cleanser", "Gentle non-foaming cleanser (like cream or milk cleansers)"},
		{"Sunscreen", "SPF 50+ physical sunscreen with zinc oxide"},
		{"Moisturizer", "Lightweight gel-cream with hyaluronic acid"},
		{"Special Notes", "Very prone to sun damage - reapply sunscreen every 2 hours"},
	},
	skin.ToneFair: {
		{"Cleanser", "Creamy/milky cleanser or gentle foaming cleanser"},
		{"Sunscreen", "SPF 50 broad spectrum (chemical/physical combo)"},
		{"Moisturizer", "Medium-weight lotion with ceramides"},
		{"Special Notes", "Protect against environmental aggressors"},
	},
	skin.ToneMedium: {
		{"Cleanser", "Gel-based cleanser with mild exfoliation"},
		{"Sunscreen", "SPF 30-50 with antioxidant protection"},
		{"Moisturizer", "Balanced cream with niacinamide"},
		{"Special Notes", "Watch for hyperpigmentation"},
	},
	skin.ToneTan: {
		{"Cleanser", "Foaming or clay cleanser for balance"},
		{"Sunscreen", "SPF 30 with iron oxides for pigmentation protection"},
		{"Moisturizer", "Rich cream with glycerin"},
		{"Special Notes", "May need extra hydration in dry climates"},
	},
	skin.ToneDark: {
		{"Cleanser", "Hydrating foam or oil cleanser"},
		{"Sunscreen", "Tinted SPF 30+ to prevent ashiness"},
		{"Moisturizer", "Butter-based with shea or mango butter"},
		{"Special Notes", "Look for products that won't leave white cast"},
	},
}

var textureTreatments = map[skin.Texture]Routine{
	skin.TextureSmooth: {
		{"Treatment", "Hydration serum with hyaluronic acid"},
		{"Exfoliation", "Gentle enzymatic exfoliant 1-2x/week"},
	},
	skin.TextureNormal: {
		{"Treatment", "Niacinamide serum for balance"},
		{"Exfoliation", "Lactic acid 2-3x/week"},
	},
	skin.TextureCombination: {
		{"Treatment", "Zone-specific care (light on oily areas, rich on dry)"},
		{"Exfoliation", "Salicylic acid on oily zones, lactic on dry"},
	},
	skin.TextureRough: {
		{"Treatment", "Ceramide cream for barrier repair"},
		{"Exfoliation", "Glycolic acid 2-3x/week + physical exfoliation 1x/week"},
	},
}

var undertoneExtras = map[skin.Undertone]Routine{
	skin.UndertoneWarm: {
		{"Note", "Use calming ingredients (chamomile, aloe, centella)"},
		{"Avoid", "Highly acidic products that may cause redness"},
	},
	skin.UndertoneCool: {
		{"Note", "Try brightening ingredients (vitamin C, licorice root)"},
		{"Avoid", "Very warm-toned makeup that may look orange"},
	},
	skin.UndertoneNeutral: {
		{"Note", "Balanced ingredients work well"},
		{"Avoid", "Extreme treatments (very high or low pH)"},
	},
}

// Skincare merges the tone routine, the texture treatments and the undertone
// extras, in that order. Later sources win on a shared step name. Unknown keys
// contribute nothing.
func Skincare(tone skin.Tone, texture skin.Texture, undertone skin.Undertone) Routine {
	routine := Routine{}
	routine = routine.merge(toneRoutines[tone])
	routine = routine.merge(textureTreatments[texture])
	routine = routine.merge(undertoneExtras[undertone])
	return routine
}
