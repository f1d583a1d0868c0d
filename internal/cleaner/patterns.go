package cleaner

import "regexp"

// preservePatterns match factual content that noise removal must never delete:
// leverage ratios, spread/commission figures, minimum deposits, regulator
// acronyms, and contact strings. Matches are recorded as protected spans
// before any noise pass runs.
var preservePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)leverage.*?\d+:\d+`),
	regexp.MustCompile(`(?i)spread.*?\d+\.?\d*\s*pip`),
	regexp.MustCompile(`(?i)commission.*?\d+\.?\d*%?`),
	regexp.MustCompile(`(?i)minimum deposit.*?\$\d+`),
	regexp.MustCompile(`(?i)FCA|FSC|ASIC|VFSC|CySEC`),
	regexp.MustCompile(`(?i)regulated by`),
	regexp.MustCompile(`(?i)contact.*?(\+?\d{1,3}[-\s]?\d+|[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,})`),
}

// noisePattern pairs a removal regex with the literal label used for the
// preserve-overlap guard: the pattern is skipped when its label occurs
// (case-insensitively) inside any protected span.
type noisePattern struct {
	re    *regexp.Regexp
	label string
}

func noise(expr, label string) noisePattern {
	return noisePattern{re: regexp.MustCompile(`(?i)` + expr), label: label}
}

// noisePatterns are UI chrome, not content: navigation labels, CTAs, filter
// controls, social-media link labels, and footer policy links.
var noisePatterns = []noisePattern{
	// Navigation
	noise(`Open main menu`, "open main menu"),
	noise(`Select local office`, "select local office"),
	noise(`Region`, "region"),

	// CTAs
	noise(`OPEN AN ACCOUNT`, "open an account"),
	noise(`TRY A DEMO`, "try a demo"),
	noise(`LEARN MORE`, "learn more"),
	noise(`DOWNLOAD NOW`, "download now"),
	noise(`GET STARTED`, "get started"),
	noise(`SIGN UP`, "sign up"),
	noise(`Start Trading`, "start trading"),

	// Filters/UI
	noise(`FILTERS`, "filters"),
	noise(`SHOW MORE`, "show more"),
	noise(`SHOW LESS`, "show less"),
	noise(`Load More`, "load more"),

	// Social media
	noise(`Twitter page`, "twitter page"),
	noise(`Linkedin page`, "linkedin page"),
	noise(`Facebook page`, "facebook page"),
	noise(`Instagram page`, "instagram page"),
	noise(`Line page`, "line page"),
	noise(`Youtube channel`, "youtube channel"),
	noise(`Follow us`, "follow us"),

	// Footer navigation (anchored to end of text, same as the scraper emits them)
	noise(`Cookie Policy\s*$`, "cookie policy"),
	noise(`Privacy Policy\s*$`, "privacy policy"),
	noise(`Terms And Conditions\s*$`, "terms and conditions"),
	noise(`Marketing Preferences\s*$`, "marketing preferences"),

	// Preferences
	noise(`preferences-of-communication`, "preferences-of-communication"),
	noise(`unsubscribe`, "unsubscribe"),
}

// sectionHeaders are phrases that get promoted to markdown sub-headings when
// they appear verbatim in the cleaned text.
var sectionHeaders = []string{
	"Why trade with Hantec Markets?",
	"Features",
	"Benefits",
	"How it works",
	"Requirements",
	"Specifications",
	"FAQ",
	"Risk Warning",
	"Trading accounts to suit you",
	"New to trading?",
	"Partner with us",
	"Real-time trading ideas",
	"Key Statistics",
	"Contact Information",
	"Regulatory Information",
	"Product Overview",
	"Platform Features",
	"Account Types",
}

var (
	sourceBannerRe = regexp.MustCompile(`(?m)^SOURCE:[^\n]*\n=+\n\n`)
	sourceURLRe    = regexp.MustCompile(`SOURCE:\s*(https?://[^\n]+)`)

	blankLinesRe = regexp.MustCompile(`\n{3,}`)
	multiSpaceRe = regexp.MustCompile(` {2,}`)

	// Trade-signal boilerplate: alert tags are matched case-sensitively (they
	// are always shouted), label lines case-insensitively.
	signalTagRe     = regexp.MustCompile(`(PREMIUM|INTRADAY|BUY LIMIT|SELL LIMIT|LIVE TRADE)\s*\n`)
	signalLabelRe   = regexp.MustCompile(`(?i)(Entry|Target|Stop|Confidence|Expires)\s*\n`)
	signalUnlockRe  = regexp.MustCompile(`(?is)To unlock this trade idea.*?account\.`)
	elapsedStampRe  = regexp.MustCompile(`\d+h \d+m`)
	dashDividerRe   = regexp.MustCompile(`-{10,}`)
	equalsDividerRe = regexp.MustCompile(`={10,}`)
)
