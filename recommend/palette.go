// Package recommend holds the lookup tables that turn classifications into advice.
// Every function is total: unknown keys fall back to a default instead of failing.
package recommend

import (
	"image/color"

	"github.com/Devayan28/Outfitron/skin"
)

type paletteKey struct {
	tone      skin.Tone
	undertone skin.Undertone
}

var palettes = map[paletteKey][]string{
	{skin.ToneVeryFair, skin.UndertoneWarm}:    {"Peach", "Coral", "Gold", "Cream", "Camel"},
	{skin.ToneVeryFair, skin.UndertoneCool}:    {"Baby Blue", "Lavender", "Silver", "Mint", "Powder Pink"},
	{skin.ToneVeryFair, skin.UndertoneNeutral}: {"Dusty Rose", "Mauve", "Taupe", "Soft Gray", "Rose Brown"},

	{skin.ToneFair, skin.UndertoneWarm}:    {"Camel", "Olive Green", "Terracotta", "Mustard", "Rust"},
	{skin.ToneFair, skin.UndertoneCool}:    {"Royal Blue", "Emerald Green", "Plum", "Navy", "Burgundy"},
	{skin.ToneFair, skin.UndertoneNeutral}: {"Rose Brown", "Slate Blue", "Charcoal", "Mushroom", "Deep Teal"},

	{skin.ToneMedium, skin.UndertoneWarm}:    {"Burnt Orange", "Rust", "Golden Yellow", "Amber", "Warm Red"},
	{skin.ToneMedium, skin.UndertoneCool}:    {"Navy Blue", "Fuchsia", "Deep Purple", "Teal", "Electric Blue"},
	{skin.ToneMedium, skin.UndertoneNeutral}: {"Burgundy", "Forest Green", "Eggplant", "Moss Green", "Deep Wine"},

	{skin.ToneTan, skin.UndertoneWarm}:    {"Terracotta", "Amber", "Warm Red", "Spice", "Cinnamon"},
	{skin.ToneTan, skin.UndertoneCool}:    {"Teal", "Deep Purple", "Emerald", "Sapphire", "Cool Gray"},
	{skin.ToneTan, skin.UndertoneNeutral}: {"Moss Green", "Mauve", "Charcoal", "Taupe", "Oyster"},

	{skin.ToneDark, skin.UndertoneWarm}:    {"Rich Browns", "Deep Oranges", "Gold", "Copper", "Warm White"},
	{skin.ToneDark, skin.UndertoneCool}:    {"Bright Blues", "Violet", "Cool Grays", "Icy Pink", "Jewel Tones"},
	{skin.ToneDark, skin.UndertoneNeutral}: {"Deep Purples", "Ruby Red", "Onyx", "Slate", "Eggplant"},
}

var defaultPalette = []string{"Black", "White", "Denim", "Gray", "Navy"}

// Palette returns the flattering colours for a tone and undertone, most
// recommended first. The returned slice is owned by the caller.
func Palette(tone skin.Tone, undertone skin.Undertone) []string {
	colors, ok := palettes[paletteKey{tone, undertone}]
	if !ok {
		colors = defaultPalette
	}
	return append([]string(nil), colors...)
}

// DefaultPalette is the palette used for unknown combinations.
func DefaultPalette() []string {
	return append([]string(nil), defaultPalette...)
}

// NeutralSwatch is drawn for colour names without a swatch.
var NeutralSwatch = color.RGBA{R: 200, G: 200, B: 200, A: 255}

var swatches = map[string]color.RGBA{
	"Peach":      {R: 255, G: 200, B: 180, A: 255},
	"Coral":      {R: 255, G: 180, B: 130, A: 255},
	"Gold":       {R: 255, G: 215, B: 50, A: 255},
	"Cream":      {R: 255, G: 250, B: 210, A: 255},
	"Baby Blue":  {R: 100, G: 200, B: 255, A: 255},
	"Lavender":   {R: 250, G: 180, B: 250, A: 255},
	"Silver":     {R: 220, G: 220, B: 220, A: 255},
	"Mint":       {R: 200, G: 255, B: 200, A: 255},
	"Dusty Rose": {R: 210, G: 180, B: 150, A: 255},
	"Mauve":      {R: 210, G: 170, B: 180, A: 255},
	"Taupe":      {R: 200, G: 190, B: 180, A: 255},
	"Black":      {R: 0, G: 0, B: 0, A: 255},
	"White":      {R: 255, G: 255, B: 255, A: 255},
	"Denim":      {R: 50, G: 100, B: 150, A: 255},
}

// Swatch returns the display colour for a palette name.
func Swatch(name string) color.RGBA {
	if c, ok := swatches[name]; ok {
		return c
	}
	return NeutralSwatch
}
