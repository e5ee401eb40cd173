package skin

import "fmt"

// Tone is the brightness class of a skin sample.
type Tone int

const (
	ToneDark Tone = iota
	ToneTan
	ToneMedium
	ToneFair
	ToneVeryFair
)

var toneNames = map[Tone]string{
	ToneVeryFair: "Very Fair",
	ToneFair:     "Fair",
	ToneMedium:   "Medium",
	ToneTan:      "Tan",
	ToneDark:     "Dark",
}

// Tones lists every tone from lightest to darkest.
func Tones() []Tone {
	return []Tone{ToneVeryFair, ToneFair, ToneMedium, ToneTan, ToneDark}
}

func (t Tone) String() string {
	if name, ok := toneNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Tone(%d)", int(t))
}

func (t Tone) MarshalText() ([]byte, error) {
	if _, ok := toneNames[t]; !ok {
		return nil, fmt.Errorf("skin: unknown tone %d", int(t))
	}
	return []byte(t.String()), nil
}

func (t *Tone) UnmarshalText(text []byte) error {
	for k, v := range toneNames {
		if v == string(text) {
			*t = k
			return nil
		}
	}
	return fmt.Errorf("skin: unknown tone %q", text)
}

// Undertone is the warm/cool/neutral cast of a skin sample.
type Undertone int

const (
	UndertoneNeutral Undertone = iota
	UndertoneWarm
	UndertoneCool
)

var undertoneNames = map[Undertone]string{
	UndertoneWarm:    "Warm",
	UndertoneCool:    "Cool",
	UndertoneNeutral: "Neutral",
}

// Undertones lists every undertone.
func Undertones() []Undertone {
	return []Undertone{UndertoneWarm, UndertoneCool, UndertoneNeutral}
}

func (u Undertone) String() string {
	if name, ok := undertoneNames[u]; ok {
		return name
	}
	return fmt.Sprintf("Undertone(%d)", int(u))
}

func (u Undertone) MarshalText() ([]byte, error) {
	if _, ok := undertoneNames[u]; !ok {
		return nil, fmt.Errorf("skin: unknown undertone %d", int(u))
	}
	return []byte(u.String()), nil
}

func (u *Undertone) UnmarshalText(text []byte) error {
	for k, v := range undertoneNames {
		if v == string(text) {
			*u = k
			return nil
		}
	}
	return fmt.Errorf("skin: unknown undertone %q", text)
}

// Texture is the surface roughness class of the face region.
type Texture int

const (
	TextureSmooth Texture = iota
	TextureNormal
	TextureCombination
	TextureRough
)

var textureNames = map[Texture]string{
	TextureSmooth:      "Smooth",
	TextureNormal:      "Normal",
	TextureCombination: "Combination",
	TextureRough:       "Rough",
}

// Textures lists every texture from finest to coarsest.
func Textures() []Texture {
	return []Texture{TextureSmooth, TextureNormal, TextureCombination, TextureRough}
}

func (t Texture) String() string {
	if name, ok := textureNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Texture(%d)", int(t))
}

// Description is the human readable qualifier shown next to the label.
func (t Texture) Description() string {
	switch t {
	case TextureSmooth:
		return "Fine texture"
	case TextureNormal:
		return "Even texture"
	case TextureCombination:
		return "Uneven texture"
	case TextureRough:
		return "Coarse texture"
	default:
		return ""
	}
}

func (t Texture) MarshalText() ([]byte, error) {
	if _, ok := textureNames[t]; !ok {
		return nil, fmt.Errorf("skin: unknown texture %d", int(t))
	}
	return []byte(t.String()), nil
}

func (t *Texture) UnmarshalText(text []byte) error {
	for k, v := range textureNames {
		if v == string(text) {
			*t = k
			return nil
		}
	}
	return fmt.Errorf("skin: unknown texture %q", text)
}
