package extract

import (
	"regexp"
	"strings"

	"github.com/hyperjump/seiri/internal/models"
)

var (
	// Leverage ratios are written either side of the word: "500:1 leverage"
	// and "leverage up to 500:1" both count.
	leverageBeforeRe = regexp.MustCompile(`(?i)(\d+:\d+)\s*leverage`)
	leverageAfterRe  = regexp.MustCompile(`(?i)leverage[^0-9\n]{0,20}(\d+:\d+)`)

	spreadRe     = regexp.MustCompile(`(?i)spread.*?(\d+\.?\d*)\s*pip`)
	commissionRe = regexp.MustCompile(`(?i)commission.*?(\d+\.?\d*)\s*%`)
	depositRe    = regexp.MustCompile(`(?i)minimum deposit.*?\$(\d+)`)
	regulatorRe  = regexp.MustCompile(`(?i)(FCA|FSC|ASIC|CySEC|VFSC|FSA)`)
	timeSpanRe   = regexp.MustCompile(`(?i)(\d+[-\s]?\d*)\s*(minute|hour|day|business day)`)
)

// presenceFact is a presence test that contributes a canonical display name.
type presenceFact struct {
	re   *regexp.Regexp
	name string
}

var accountTypeFacts = []presenceFact{
	{regexp.MustCompile(`(?i)hantec global`), "Hantec Global"},
	{regexp.MustCompile(`(?i)hantec pro`), "Hantec Pro"},
	{regexp.MustCompile(`(?i)hantec cent`), "Hantec Cent"},
}

var platformFacts = []presenceFact{
	{regexp.MustCompile(`(?i)\bMT4\b|MetaTrader 4`), "MT4"},
	{regexp.MustCompile(`(?i)\bMT5\b|MetaTrader 5`), "MT5"},
	{regexp.MustCompile(`(?i)hantec social`), "Hantec Social"},
	{regexp.MustCompile(`(?i)mobile app`), "Mobile App"},
	{regexp.MustCompile(`(?i)webtrader`), "WebTrader"},
}

var instrumentFacts = []presenceFact{
	{regexp.MustCompile(`(?i)forex|currency pair|fx`), "Forex"},
	{regexp.MustCompile(`(?i)\bcfd\b`), "CFDs"},
	{regexp.MustCompile(`(?i)commodit|gold|silver|oil`), "Commodities"},
	{regexp.MustCompile(`(?i)indices|index|S&P|FTSE|Dow`), "Indices"},
	{regexp.MustCompile(`(?i)stock|share|equit`), "Stocks"},
	{regexp.MustCompile(`(?i)crypto|bitcoin|ethereum`), "Crypto"},
}

// Facts pulls structured factual fields from cleaned text. Each field is
// produced independently by its own pattern and deduplicated.
func Facts(text string) models.Facts {
	var f models.Facts

	leverage := submatches(leverageBeforeRe, text)
	leverage = append(leverage, submatches(leverageAfterRe, text)...)
	f.Leverage = dedupe(leverage)

	f.Spreads = dedupe(submatches(spreadRe, text))
	f.Commissions = dedupe(submatches(commissionRe, text))

	var deposits []string
	for _, m := range submatches(depositRe, text) {
		deposits = append(deposits, "$"+m)
	}
	f.MinimumDeposits = dedupe(deposits)

	var regulators []string
	for _, m := range submatches(regulatorRe, text) {
		regulators = append(regulators, strings.ToUpper(m))
	}
	f.Regulations = dedupe(regulators)

	f.AccountTypes = presence(accountTypeFacts, text)
	f.Platforms = presence(platformFacts, text)
	f.Instruments = presence(instrumentFacts, text)

	contact := emailRe.FindAllString(text, -1)
	contact = append(contact, phoneRe.FindAllString(text, -1)...)
	f.ContactInfo = dedupe(contact)

	var times []string
	for _, m := range timeSpanRe.FindAllStringSubmatch(text, -1) {
		times = append(times, m[1]+" "+m[2])
	}
	f.ProcessingTimes = dedupe(times)

	return f
}

func submatches(re *regexp.Regexp, text string) []string {
	var out []string
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		out = append(out, m[1])
	}
	return out
}

func presence(tests []presenceFact, text string) []string {
	var out []string
	for _, t := range tests {
		if t.re.MatchString(text) {
			out = append(out, t.name)
		}
	}
	return out
}
