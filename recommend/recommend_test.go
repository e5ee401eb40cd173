package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Devayan28/Outfitron/body"
	"github.com/Devayan28/Outfitron/skin"
)

func TestPaletteCoversEveryPair(t *testing.T) {
	for _, tone := range skin.Tones() {
		for _, u := range skin.Undertones() {
			colors := Palette(tone, u)
			require.NotEmpty(t, colors, "%s/%s", tone, u)
			assert.NotEqual(t, defaultPalette, colors, "%s/%s fell back to default", tone, u)
		}
	}
}

func TestPaletteDefault(t *testing.T) {
	want := []string{"Black", "White", "Denim", "Gray", "Navy"}
	assert.Equal(t, want, Palette(skin.Tone(42), skin.UndertoneWarm))
	assert.Equal(t, want, Palette(skin.ToneFair, skin.Undertone(-1)))
	assert.Equal(t, want, DefaultPalette())
}

func TestPaletteReturnsCopy(t *testing.T) {
	colors := Palette(skin.ToneMedium, skin.UndertoneCool)
	colors[0] = "Changed"
	assert.Equal(t, "Navy Blue", Palette(skin.ToneMedium, skin.UndertoneCool)[0])

	def := Palette(skin.Tone(42), skin.UndertoneCool)
	def[0] = "Changed"
	assert.Equal(t, "Black", DefaultPalette()[0])
}

func TestSwatch(t *testing.T) {
	assert.Equal(t, uint8(255), Swatch("White").R)
	assert.Equal(t, NeutralSwatch, Swatch("Burnt Orange"))
}

func TestClothing(t *testing.T) {
	pear := Clothing(body.ShapePear)
	require.Len(t, pear, 5)
	assert.Equal(t, CategoryBestTops, pear[0].Name)
	tops, ok := pear.Get(CategoryBestTops)
	require.True(t, ok)
	assert.Equal(t, "V-necks, scoop necks, and boat necks", tops[0])

	avg := Clothing(body.ShapeAverage)
	_, ok = avg.Get(CategoryBestChoices)
	assert.True(t, ok)
	assert.Empty(t, avg.Highlights(3))

	assert.Empty(t, Clothing(body.Shape(99)))

	for _, shape := range body.Shapes() {
		assert.NotEmpty(t, Clothing(shape), shape.String())
	}
}

func TestClothingHighlights(t *testing.T) {
	h := Clothing(body.ShapeHourglass).Highlights(3)
	require.Len(t, h, 3)
	for _, c := range h {
		assert.Len(t, c.Items, 3)
		assert.NotEqual(t, CategoryAvoid, c.Name)
	}
}

func TestSkincareMergeKeepsAllSources(t *testing.T) {
	r := Skincare(skin.ToneMedium, skin.TextureNormal, skin.UndertoneCool)

	var names []string
	for _, s := range r {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{
		"Cleanser", "Sunscreen", "Moisturizer", "Special Notes",
		"Treatment", "Exfoliation",
		"Note", "Avoid",
	}, names)

	cleanser, _ := r.Get("Cleanser")
	assert.Equal(t, "Gel-based cleanser with mild exfoliation", cleanser)
	treatment, _ := r.Get("Treatment")
	assert.Equal(t, "Niacinamide serum for balance", treatment)
	note, _ := r.Get("Note")
	assert.Equal(t, "Try brightening ingredients (vitamin C, licorice root)", note)
}

func TestSkincareLaterSourceWins(t *testing.T) {
	r := Routine{}.
		merge(Routine{{"Cleanser", "tone"}, {"Note", "tone"}}).
		merge(Routine{{"Note", "texture"}, {"Treatment", "texture"}}).
		merge(Routine{{"Note", "undertone"}, {"Cleanser", "undertone"}})

	require.Len(t, r, 3)
	assert.Equal(t, Step{"Cleanser", "undertone"}, r[0])
	assert.Equal(t, Step{"Note", "undertone"}, r[1])
	assert.Equal(t, Step{"Treatment", "texture"}, r[2])
}

func TestSkincareUnknownKeys(t *testing.T) {
	r := Skincare(skin.Tone(42), skin.Texture(42), skin.UndertoneWarm)
	assert.Len(t, r, 2)

	assert.Empty(t, Skincare(skin.Tone(42), skin.Texture(42), skin.Undertone(42)))
}

func TestSkincareDoesNotMutateTables(t *testing.T) {
	first := Skincare(skin.ToneDark, skin.TextureRough, skin.UndertoneWarm)
	first[0].Text = "changed"
	second := Skincare(skin.ToneDark, skin.TextureRough, skin.UndertoneWarm)
	assert.Equal(t, "Hydrating foam or oil cleanser", second[0].Text)
}
