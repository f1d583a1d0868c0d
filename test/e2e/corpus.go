// Package e2e provides end-to-end tests; this file builds a fixture corpus of
// raw scraped pages with realistic noise and a leading SOURCE banner.
package e2e

import "github.com/hyperjump/seiri/internal/models"

// RawPage is one scraped input file plus the expectations a full batch run
// must satisfy for it.
type RawPage struct {
	Filename string
	Content  string
	Category models.Category
}

// QueryCase is one keyword search over the indexed corpus.
type QueryCase struct {
	Description   string
	Query         string
	Category      string
	ExpectedFiles []string
}

// Corpus bundles the fixture pages with their query test cases.
type Corpus struct {
	Pages     []RawPage
	TestCases []QueryCase
}

func page(filename, url, body string, category models.Category) RawPage {
	return RawPage{
		Filename: filename,
		Content:  "SOURCE: " + url + "\n==========\n\n" + body,
		Category: category,
	}
}

// BuildCorpus returns the fixture corpus. Every page carries navigation noise
// that cleaning must remove and factual content that must survive.
func BuildCorpus() Corpus {
	pages := []RawPage{
		page("trading-accounts.txt", "https://hantecmarkets.com/trading-accounts",
			"OPEN AN ACCOUNT\n"+
				"Hantec Markets offers two account types for retail clients: Hantec Global and Hantec Cent.\n"+
				"Leverage up to 500:1 is available on major currency pairs for experienced traders.\n"+
				"The minimum deposit is $100 and spreads start from 0.1 pips on the Hantec Global account.\n"+
				"Account opening takes around one business day once your documents are verified.\n"+
				"LEARN MORE\n",
			models.CategoryAccounts),
		page("mt4-platform.txt", "https://hantecmarkets.com/platforms/mt4",
			"START TRADING\n"+
				"MetaTrader 4 remains the most widely used retail trading platform in the world.\n"+
				"Hantec Markets provides MT4 on desktop, web, and mobile with full expert advisor support.\n"+
				"Charting, one-click trading, and automated strategies are included on every account.\n"+
				"The platform connects to the same liquidity as MT5 and WebTrader.\n",
			models.CategoryPlatforms),
		page("deposits-withdrawals.txt", "https://hantecmarkets.com/funding",
			"Deposits and withdrawals are processed free of charge by Hantec Markets.\n"+
				"Bank transfer deposits arrive within 1-3 business days depending on your bank.\n"+
				"Card payments and e-wallet transfers are usually credited the same day.\n"+
				"The minimum deposit is $100 for all payment methods and all account types.\n"+
				"Withdrawal requests submitted before noon are processed the same business day.\n",
			models.CategoryFunding),
		page("regulation.txt", "https://hantecmarkets.com/about/regulation",
			"Hantec Markets is authorised and regulated by the FCA in the United Kingdom.\n"+
				"Group entities hold licenses from ASIC in Australia and the FSC in Mauritius.\n"+
				"Client funds are held in segregated accounts with tier-one banks.\n"+
				"Regulatory oversight covers every product offered to retail clients.\n",
			models.CategoryLegal),
	}

	cases := []QueryCase{
		{
			Description:   "leverage query finds the accounts page",
			Query:         "leverage",
			ExpectedFiles: []string{"trading-accounts.txt"},
		},
		{
			Description:   "platform query finds the MT4 page",
			Query:         "MetaTrader charting",
			ExpectedFiles: []string{"mt4-platform.txt"},
		},
		{
			Description:   "withdrawal query finds the funding page",
			Query:         "withdrawal bank transfer",
			ExpectedFiles: []string{"deposits-withdrawals.txt"},
		},
		{
			Description:   "regulator query finds the regulation page",
			Query:         "FCA segregated",
			ExpectedFiles: []string{"regulation.txt"},
		},
		{
			Description:   "category filter restricts deposit query to funding",
			Query:         "deposit",
			Category:      string(models.CategoryFunding),
			ExpectedFiles: []string{"deposits-withdrawals.txt"},
		},
	}

	return Corpus{Pages: pages, TestCases: cases}
}
