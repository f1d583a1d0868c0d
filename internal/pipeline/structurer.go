package pipeline

import (
	"fmt"
	"strings"

	"github.com/hyperjump/seiri/internal/models"
)

const sectionDivider = "================================================================================"

// Structure assembles cleaned text, metadata, and facts into one structured
// record body: a metadata block, an optional key-facts block, the full cleaned
// text under a content heading, and a source-attribution line when a source
// URL was captured. Deterministic composition; nothing is filtered here.
func Structure(text string, md models.Metadata, facts models.Facts, sourceURL string) string {
	var b []string

	b = append(b,
		"# METADATA",
		fmt.Sprintf("Word Count: %d", md.WordCount),
		fmt.Sprintf("Character Count: %d", md.CharCount),
		fmt.Sprintf("Complexity Score: %d/4", md.ComplexityScore),
		fmt.Sprintf("Topics: %s", strings.Join(md.Topics, ", ")),
		fmt.Sprintf("Has Pricing: %s", yesNo(md.HasPricing)),
		fmt.Sprintf("Has Contact: %s", yesNo(md.HasContact)),
		fmt.Sprintf("Has Regulatory: %s", yesNo(md.HasRegulatory)),
		fmt.Sprintf("Has Tutorial: %s", yesNo(md.HasTutorial)),
		"\n"+sectionDivider+"\n",
	)

	if !facts.Empty() {
		b = append(b, "# KEY FACTS")
		if len(facts.Leverage) > 0 {
			b = append(b, fmt.Sprintf("Leverage Options: %s", strings.Join(facts.Leverage, ", ")))
		}
		if len(facts.Spreads) > 0 {
			b = append(b, fmt.Sprintf("Spreads: From %s pips", minString(facts.Spreads)))
		}
		if len(facts.Commissions) > 0 {
			b = append(b, fmt.Sprintf("Commissions: %s%%", strings.Join(facts.Commissions, "%, ")))
		}
		if len(facts.MinimumDeposits) > 0 {
			b = append(b, fmt.Sprintf("Minimum Deposits: %s", strings.Join(facts.MinimumDeposits, ", ")))
		}
		if len(facts.Regulations) > 0 {
			b = append(b, fmt.Sprintf("Regulations: %s", strings.Join(facts.Regulations, ", ")))
		}
		if len(facts.AccountTypes) > 0 {
			b = append(b, fmt.Sprintf("Account Types: %s", strings.Join(facts.AccountTypes, ", ")))
		}
		if len(facts.Platforms) > 0 {
			b = append(b, fmt.Sprintf("Platforms: %s", strings.Join(facts.Platforms, ", ")))
		}
		if len(facts.Instruments) > 0 {
			b = append(b, fmt.Sprintf("Instruments: %s", strings.Join(facts.Instruments, ", ")))
		}
		if len(facts.ContactInfo) > 0 {
			// Limit to the first two contact identifiers to keep the block scannable.
			contact := facts.ContactInfo
			if len(contact) > 2 {
				contact = contact[:2]
			}
			b = append(b, fmt.Sprintf("Contact: %s", strings.Join(contact, ", ")))
		}
		if len(facts.ProcessingTimes) > 0 {
			b = append(b, fmt.Sprintf("Processing Times: %s", strings.Join(facts.ProcessingTimes, ", ")))
		}
		b = append(b, "\n"+sectionDivider+"\n")
	}

	b = append(b, "# CONTENT\n", text)

	structured := strings.Join(b, "\n")
	if sourceURL != "" {
		structured = fmt.Sprintf("SOURCE: %s\n%s\n\n%s", sourceURL, sectionDivider, structured)
	}
	return structured
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

// minString returns the lexicographically smallest value. Spread figures are
// short numeric strings, so this matches the reported minimum in practice.
func minString(values []string) string {
	min := values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
	}
	return min
}
