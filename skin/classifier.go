// Package skin maps a dominant skin colour and a texture score to categorical labels.
package skin

import "image/color"

// Brightness weights of the HSV value channel and the Lab lightness channel.
const (
	valueWeight     = 0.6
	lightnessWeight = 0.4
)

// Tone thresholds, strictly greater-than, highest first.
const (
	veryFairAbove = 200
	fairAbove     = 175
	mediumAbove   = 140
	tanAbove      = 100
)

// Texture thresholds, strictly less-than, lowest first.
const (
	smoothBelow      = 100
	normalBelow      = 300
	combinationBelow = 600
)

// Profile is the classified skin of one selfie.
type Profile struct {
	Tone         Tone       `json:"tone"`
	Undertone    Undertone  `json:"undertone"`
	Brightness   float64    `json:"brightness"`
	Texture      Texture    `json:"texture"`
	TextureScore float64    `json:"texture_score"`
	Sample       color.RGBA `json:"-"`
}

// TextureDescription returns the qualifier for the profile's texture.
func (p Profile) TextureDescription() string {
	return p.Texture.Description()
}

// Brightness combines the HSV value and 8-bit Lab lightness of the same sample.
func Brightness(value, lightness float64) float64 {
	return valueWeight*value + lightnessWeight*lightness
}

// ClassifyTone maps a brightness score to a tone. Boundaries fall to the darker class.
func ClassifyTone(brightness float64) Tone {
	switch {
	case brightness > veryFairAbove:
		return ToneVeryFair
	case brightness > fairAbove:
		return ToneFair
	case brightness > mediumAbove:
		return ToneMedium
	case brightness > tanAbove:
		return ToneTan
	default:
		return ToneDark
	}
}

// ClassifyUndertone compares raw channel magnitudes. Warm and Cool cannot both hold.
func ClassifyUndertone(r, g, b uint8) Undertone {
	ri, gi, bi := int(r), int(g), int(b)
	switch {
	case ri > bi+15 && gi > bi+10:
		return UndertoneWarm
	case bi > ri+15 && bi > gi+10:
		return UndertoneCool
	default:
		return UndertoneNeutral
	}
}

// ClassifyTexture maps the Laplacian variance of the face region to a texture.
func ClassifyTexture(score float64) Texture {
	switch {
	case score < smoothBelow:
		return TextureSmooth
	case score < normalBelow:
		return TextureNormal
	case score < combinationBelow:
		return TextureCombination
	default:
		return TextureRough
	}
}

// NewProfile classifies a dominant colour sample. value and lightness are the
// HSV V and Lab L channels of sample; textureScore is the face-region variance.
func NewProfile(sample color.RGBA, value, lightness, textureScore float64) Profile {
	brightness := Brightness(value, lightness)
	return Profile{
		Tone:         ClassifyTone(brightness),
		Undertone:    ClassifyUndertone(sample.R, sample.G, sample.B),
		Brightness:   brightness,
		Texture:      ClassifyTexture(textureScore),
		TextureScore: textureScore,
		Sample:       sample,
	}
}
