package analyzer

// Thresholds holds the tunable limits and enable flags controlling which
// conditions produce findings, grouped by the severity they emit.
// It is read-only during analysis; start from DefaultThresholds and
// override individual fields from config or flags.
type Thresholds struct {
	Critical CriticalLimits `yaml:"critical"`
	High     HighLimits     `yaml:"high"`
	Medium   MediumLimits   `yaml:"medium"`
}

// CriticalLimits enables the critical-tier rules.
type CriticalLimits struct {
	AnyoneOrEveryone bool `yaml:"anyone_or_everyone"`
	ExternalOwner    bool `yaml:"external_owner"`
}

// HighLimits controls the high-tier rules. UniqueItemsGT is a strict
// greater-than limit.
type HighLimits struct {
	DirectWebPerms bool `yaml:"direct_web_perms"`
	UniqueItemsGT  int  `yaml:"unique_items_gt"`
}

// MediumLimits controls the medium-tier rules. ExternalItemIdentitiesGTE
// is inclusive.
type MediumLimits struct {
	ExternalItemIdentitiesGTE int  `yaml:"external_item_identities_gte"`
	GroupWithoutOwner         bool `yaml:"group_without_owner"`
}

// DefaultThresholds returns the process-wide default configuration.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Critical: CriticalLimits{
			AnyoneOrEveryone: true,
			ExternalOwner:    true,
		},
		High: HighLimits{
			DirectWebPerms: true,
			UniqueItemsGT:  250,
		},
		Medium: MediumLimits{
			ExternalItemIdentitiesGTE: 10,
			GroupWithoutOwner:         true,
		},
	}
}
