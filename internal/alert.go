package internal

import (
	"encoding/json"
	"errors"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Validation failures for authenticated alert payloads. The webhook
// layer maps these onto response outcomes.
var (
	ErrMissingRepository   = errors.New("repository owner or name missing")
	ErrMissingEcosystem    = errors.New("direct dependency ecosystem missing")
	ErrNoDependencies      = errors.New("no usable dependency names")
	ErrMissingInstallation = errors.New("installation id missing")
)

type alertPackage struct {
	Name      string `json:"name"`
	Ecosystem string `json:"ecosystem"`
}

// AlertPayload is the decoded form of a dependabot_alert delivery,
// reduced to the fields the bridge acts on.
type AlertPayload struct {
	Alert struct {
		Number     int `json:"number"`
		Dependency struct {
			Package alertPackage `json:"package"`
		} `json:"dependency"`
		SecurityAdvisory struct {
			GHSAID          string `json:"ghsa_id"`
			Vulnerabilities []struct {
				Package alertPackage `json:"package"`
			} `json:"vulnerabilities"`
		} `json:"security_advisory"`
		SecurityVulnerability struct {
			Severity string `json:"severity"`
		} `json:"security_vulnerability"`
	} `json:"alert"`
	Installation struct {
		ID int64 `json:"id"`
	} `json:"installation"`
	Repository struct {
		Name  string `json:"name"`
		Owner struct {
			Login string `json:"login"`
		} `json:"owner"`
	} `json:"repository"`
}

// DispatchPayload is the fixed-shape client payload attached to the
// outbound repository_dispatch call.
type DispatchPayload struct {
	AlertNumber  int      `json:"alert_number"`
	GHSAID       string   `json:"ghsa_id"`
	Severity     string   `json:"severity"`
	Ecosystem    string   `json:"ecosystem"`
	Dependencies []string `json:"dependencies"`
}

// DecodeAlert parses a signature-verified raw body.
func DecodeAlert(raw []byte) (AlertPayload, error) {
	var payload AlertPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return payload, err
	}
	return payload, nil
}

// Normalize validates the payload and derives the outbound dispatch
// payload. Order matters: the dispatch target first, then the direct
// dependency and its ecosystem, then the dependency set, then the
// installation id needed for the credential exchange.
func (p AlertPayload) Normalize() (DispatchPayload, error) {
	var out DispatchPayload
	if p.Repository.Owner.Login == "" || p.Repository.Name == "" {
		return out, ErrMissingRepository
	}
	direct := p.Alert.Dependency.Package
	if strings.TrimSpace(direct.Ecosystem) == "" {
		return out, ErrMissingEcosystem
	}
	names := []string{direct.Name}
	for _, vuln := range p.Alert.SecurityAdvisory.Vulnerabilities {
		names = append(names, vuln.Package.Name)
	}
	deps := NormalizeDependencies(names)
	if len(deps) == 0 {
		return out, ErrNoDependencies
	}
	if p.Installation.ID == 0 {
		return out, ErrMissingInstallation
	}
	out = DispatchPayload{
		AlertNumber:  p.Alert.Number,
		GHSAID:       p.Alert.SecurityAdvisory.GHSAID,
		Severity:     p.Alert.SecurityVulnerability.Severity,
		Ecosystem:    strings.ToLower(strings.TrimSpace(direct.Ecosystem)),
		Dependencies: deps,
	}
	return out, nil
}

// NormalizeDependencies trims names, drops empty ones, removes
// duplicates, and sorts the remainder with a locale-aware collation.
// The transformation is idempotent.
func NormalizeDependencies(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	collate.New(language.Und).SortStrings(out)
	return out
}
