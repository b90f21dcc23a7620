package secrets

import "regexp"

// Confidence classifies how certain a pattern match is to be a genuine
// secret rather than incidental text.
type Confidence string

const (
	High   Confidence = "high"
	Medium Confidence = "medium"
	Low    Confidence = "low"
)

// Pattern is a named, pre-compiled detector.
type Pattern struct {
	Type        string
	Regex       *regexp.Regexp
	Confidence  Confidence
	Description string
}

// builtinPatterns is compiled once at package init, mirroring the teacher's
// eager-compile-at-construction style for regex sets.
var builtinPatterns = compileBuiltins()

func compileBuiltins() []*Pattern {
	specs := []struct {
		typ, expr, desc string
		conf            Confidence
	}{
		{"openai_api_key", `sk-[A-Za-z0-9]{48}`, "OpenAI API key", High},
		{"stripe_api_key", `sk_(?:live|test)_[A-Za-z0-9]{24,}`, "Stripe API key", High},
		{"github_token", `gh[pousr]_[A-Za-z0-9]{36,}`, "GitHub token", High},
		{"slack_token", `xox[baprs]-[A-Za-z0-9-]{10,}`, "Slack token", High},
		{"aws_access_key_id", `AKIA[0-9A-Z]{16}`, "AWS access key id", High},
		{"aws_secret_access_key", `(?i)aws_secret_access_key\s*[:=]\s*['"]?[A-Za-z0-9/+=]{40}['"]?`, "AWS secret access key", High},
		{"gcp_service_account_key", `"private_key"\s*:\s*"-----BEGIN [A-Z ]*PRIVATE KEY-----`, "GCP service-account private key block", High},
		{"azure_connection_string", `(?i)DefaultEndpointsProtocol=https?;AccountName=[^;]+;AccountKey=[A-Za-z0-9+/=]{20,}`, "Azure storage connection string", High},
		{"jwt", `eyJ[A-Za-z0-9_-]+\.eyJ[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+`, "JSON Web Token", High},
		{"bearer_token", `(?i)bearer\s+[A-Za-z0-9._~+/-]{20,}=*`, "Bearer token", High},
		{"pem_private_key", `-----BEGIN (?:RSA |EC |OPENSSH |)PRIVATE KEY-----`, "PEM private key", High},
		{"ssh_public_key", `ssh-(?:rsa|ed25519|dss) [A-Za-z0-9+/]{20,}={0,3}`, "SSH public key", Medium},
		{"database_url", `(?i)(?:postgres|postgresql|mysql|mongodb(?:\+srv)?|redis)://[^:\s/]+:[^@\s/]+@[^\s/]+`, "database URL with embedded credentials", High},
		{"generic_secret_assignment", `(?i)(?:api[_-]?key|password|access[_-]?token)\s*[:=]\s*['"]?[^\s'"]{6,}['"]?`, "generic secret assignment", Medium},
		{"credit_card", `\b(?:\d[ -]?){13,19}\b`, "credit card number candidate", Medium},
		{"us_ssn", `\b\d{3}-\d{2}-\d{4}\b`, "US Social Security Number", Medium},
		{"generic_upper_secret", `\b[A-Z][A-Z0-9_]*_(?:SECRET|KEY|TOKEN|PASSWORD|CREDENTIAL)\s*=\s*\S+`, "generic uppercase secret assignment", Medium},
		{"email", `\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`, "email address", Low},
		{"phone", `\b(?:\+?1[-. ]?)?\(?\d{3}\)?[-. ]?\d{3}[-. ]?\d{4}\b`, "phone number", Low},
	}

	patterns := make([]*Pattern, 0, len(specs))
	for _, s := range specs {
		patterns = append(patterns, &Pattern{
			Type:        s.typ,
			Regex:       regexp.MustCompile(s.expr),
			Confidence:  s.conf,
			Description: s.desc,
		})
	}
	return patterns
}
