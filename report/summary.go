package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/Devayan28/Outfitron/model"
)

// WriteSummary prints the analysis as plain text: skin labels, the first five
// colours, measurements, three items per highlighted clothing category and the
// skincare routine.
func WriteSummary(w io.Writer, result *model.AnalysisResult) error {
	var b strings.Builder
	s := result.Skin

	b.WriteString("=== RESULTS ===\n")
	fmt.Fprintf(&b, "Skin Tone: %s\n", s.Tone)
	fmt.Fprintf(&b, "Undertone: %s\n", s.Undertone)
	fmt.Fprintf(&b, "Texture: %s (%s)\n", s.Texture, s.TextureDescription)
	fmt.Fprintf(&b, "Recommended Colors: %s\n", strings.Join(firstN(result.Colors, swatchCount), ", "))

	fmt.Fprintf(&b, "\nBody Type: %s\n", result.BodyShape.Shape)
	if m := result.Measurements; m != nil {
		b.WriteString("Measurements:\n")
		fmt.Fprintf(&b, "  Shoulder: %.1fpx\n", m.Shoulder)
		fmt.Fprintf(&b, "  Waist: %.1fpx (approximated from hip landmarks)\n", m.Waist)
		fmt.Fprintf(&b, "  Hips: %.1fpx\n", m.Hips)
		fmt.Fprintf(&b, "  Shoulder/Hip Ratio: %.2f\n", m.ShoulderHipRatio)
		fmt.Fprintf(&b, "  Waist/Hip Ratio: %.2f\n", m.WaistHipRatio)
	} else {
		b.WriteString("Measurements: unavailable (no body landmarks detected)\n")
	}

	if highlights := result.Clothing.Highlights(topItems); len(highlights) > 0 {
		b.WriteString("\nTop Clothing Recommendations:\n")
		for _, c := range highlights {
			fmt.Fprintf(&b, "  %s:\n", c.Name)
			for _, item := range c.Items {
				fmt.Fprintf(&b, "    - %s\n", item)
			}
		}
	}

	b.WriteString("\nSkincare Routine:\n")
	for _, step := range result.Skincare {
		fmt.Fprintf(&b, "  %s: %s\n", step.Name, step.Text)
	}

	_, err := io.WriteString(w, b.String())
	return err
}
