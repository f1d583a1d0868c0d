package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Input.Directory == "" {
		cfg.Input.Directory = "./raw_scraped_data"
	}
	if cfg.Input.Extensions == nil {
		cfg.Input.Extensions = []string{".txt"}
	}
	if cfg.Output.Directory == "" {
		cfg.Output.Directory = "./data/knowledge_base/website"
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Pipeline.MinContentLength == 0 {
		cfg.Pipeline.MinContentLength = 100
	}
	if cfg.Pipeline.RelatedLimit == 0 {
		cfg.Pipeline.RelatedLimit = 5
	}
	if cfg.Watch.DebounceMillis == 0 {
		cfg.Watch.DebounceMillis = 2000
	}
	if cfg.Brand.CompanyName == "" {
		cfg.Brand.CompanyName = "Hantec Markets"
	}
	if cfg.Brand.Tagline == "" {
		cfg.Brand.Tagline = "Trade Better"
	}
	if cfg.Brand.Tone == "" {
		cfg.Brand.Tone = "Professional, supportive, educational"
	}
	if cfg.Brand.KeyValues == nil {
		cfg.Brand.KeyValues = []string{
			"Transparency",
			"Security",
			"Innovation",
			"Client-first approach",
		}
	}
	if cfg.Brand.Regulators == nil {
		cfg.Brand.Regulators = []string{"FCA (UK)", "FSC (Mauritius)", "ASIC", "VFSC"}
	}
	if cfg.Brand.ProhibitedClaims == nil {
		cfg.Brand.ProhibitedClaims = []string{
			"guaranteed returns",
			"no risk trading",
			"get rich quick",
			"always profitable",
		}
	}
	if cfg.Brand.RequiredDisclaimers == nil {
		cfg.Brand.RequiredDisclaimers = []string{
			"Risk warning for CFD trading",
			"Past performance disclaimer",
			"Not financial advice disclaimer",
		}
	}
}
