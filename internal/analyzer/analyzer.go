package analyzer

import (
	"fmt"

	"github.com/ppiankov/spospectre/internal/metrics"
)

// Severity ranks a finding. The order is semantic: Critical > High > Medium.
type Severity int

const (
	Medium Severity = iota
	High
	Critical
)

func (s Severity) String() string {
	switch s {
	case Medium:
		return "Medium"
	case High:
		return "High"
	case Critical:
		return "Critical"
	default:
		return "unknown"
	}
}

// MarshalJSON emits the severity name rather than its rank.
func (s Severity) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// Finding is a single classified risk statement.
type Finding struct {
	ID       string   `json:"id"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// Stable rule identifiers, used for machine-readable exports and
// baseline comparison.
const (
	RuleAnyoneOrEveryone   = "ANYONE_OR_EVERYONE"
	RuleExternalOwner      = "EXTERNAL_OWNER"
	RuleDirectWebPerms     = "DIRECT_WEB_PERMS"
	RuleUniqueItems        = "UNIQUE_ITEMS"
	RuleExternalIdentities = "EXTERNAL_IDENTITIES"
	RuleGroupWithoutOwner  = "GROUP_WITHOUT_OWNER"
)

// rule couples a predicate over normalized counts with the finding it
// emits when it fires.
type rule func(c metrics.Counts, t Thresholds) *Finding

// The rule table runs in declaration order and each rule fires
// independently; finding order in the output is rule order, never
// severity order.
var rules = []rule{
	func(c metrics.Counts, t Thresholds) *Finding {
		if t.Critical.AnyoneOrEveryone && c.AnyoneOrEveryone {
			return &Finding{RuleAnyoneOrEveryone, Critical,
				"'Anyone/Everyone' access detected at web/site scope."}
		}
		return nil
	},
	func(c metrics.Counts, t Thresholds) *Finding {
		if t.Critical.ExternalOwner && c.ExternalOwner {
			return &Finding{RuleExternalOwner, Critical,
				"Guest/external user with Owner role detected."}
		}
		return nil
	},
	func(c metrics.Counts, t Thresholds) *Finding {
		if t.High.DirectWebPerms && c.DirectWebAssignments > 0 {
			return &Finding{RuleDirectWebPerms, High,
				fmt.Sprintf("Direct user permissions at web scope: %d", c.DirectWebAssignments)}
		}
		return nil
	},
	func(c metrics.Counts, t Thresholds) *Finding {
		if c.UniqueItems > t.High.UniqueItemsGT {
			return &Finding{RuleUniqueItems, High,
				fmt.Sprintf("Items with unique permissions: %d", c.UniqueItems)}
		}
		return nil
	},
	func(c metrics.Counts, t Thresholds) *Finding {
		if c.ExternalIdentities >= t.Medium.ExternalItemIdentitiesGTE {
			return &Finding{RuleExternalIdentities, Medium,
				fmt.Sprintf("External identities with item-level access: %d", c.ExternalIdentities)}
		}
		return nil
	},
	func(c metrics.Counts, t Thresholds) *Finding {
		if t.Medium.GroupWithoutOwner && c.GroupsWithoutOwner > 0 {
			return &Finding{RuleGroupWithoutOwner, Medium,
				fmt.Sprintf("SharePoint groups without owners: %d", c.GroupsWithoutOwner)}
		}
		return nil
	},
}

// Classify evaluates normalized counts against the thresholds and
// returns zero or more findings. An empty result is a valid outcome.
func Classify(c metrics.Counts, t Thresholds) []Finding {
	var findings []Finding
	for _, r := range rules {
		if f := r(c, t); f != nil {
			findings = append(findings, *f)
		}
	}
	return findings
}
