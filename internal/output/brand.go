package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// writeBrandGuidelines writes BRAND_GUIDELINES.md: the voice, compliance, and
// terminology rules downstream content generators must follow when answering
// from this corpus.
func (w *Writer) writeBrandGuidelines() error {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s - BRAND GUIDELINES\n", strings.ToUpper(w.brand.CompanyName))
	fmt.Fprintf(&b, "# Generated: %s\n\n", time.Now().Format("2006-01-02 15:04:05"))

	b.WriteString("## BRAND IDENTITY\n\n")
	fmt.Fprintf(&b, "**Company:** %s\n", w.brand.CompanyName)
	fmt.Fprintf(&b, "**Tagline:** %s\n", w.brand.Tagline)
	fmt.Fprintf(&b, "**Tone:** %s\n\n", w.brand.Tone)

	b.WriteString("## KEY VALUES\n\n")
	for _, v := range w.brand.KeyValues {
		fmt.Fprintf(&b, "- %s\n", v)
	}

	b.WriteString("\n## REGULATORY LICENSES\n\n")
	for _, r := range w.brand.Regulators {
		fmt.Fprintf(&b, "- %s\n", r)
	}

	b.WriteString("\n## PROHIBITED CLAIMS\n\nNever state or imply:\n\n")
	for _, c := range w.brand.ProhibitedClaims {
		fmt.Fprintf(&b, "- \"%s\"\n", c)
	}

	b.WriteString("\n## REQUIRED DISCLAIMERS\n\nAlways include where relevant:\n\n")
	for _, d := range w.brand.RequiredDisclaimers {
		fmt.Fprintf(&b, "- %s\n", d)
	}

	path := filepath.Join(w.dir, "BRAND_GUIDELINES.md")
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write brand guidelines: %w", err)
	}
	if w.logger != nil {
		w.logger.Info("brand guidelines written")
	}
	return nil
}
