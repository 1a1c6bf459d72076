package relations

// Reference layout of the client entities. Every Relation has a mirror
// entry on the other side.
var (
	Sites = Config{
		Collection: "sites",
		Relations: []Relation{
			{Field: "groups", Collection: "groups", RelatedField: "sites"},
			{Field: "chains", Collection: "chains", RelatedField: "sites"},
			{Field: "contacts", Collection: "contacts", RelatedField: "sites"},
			{Field: "suppliers", Collection: "suppliers", RelatedField: "sites"},
		},
		Legacy: []LegacyRef{
			{Field: "group", Collection: "groups", RelatedField: "sites", ArrayField: "groups"},
			{Field: "chain", Collection: "chains", RelatedField: "sites", ArrayField: "chains"},
		},
		Referrers: []Referrer{{Collection: "contacts", Field: "site"}},
	}

	Groups = Config{
		Collection: "groups",
		Relations: []Relation{
			{Field: "sites", Collection: "sites", RelatedField: "groups"},
			{Field: "chains", Collection: "chains", RelatedField: "groups"},
			{Field: "contacts", Collection: "contacts", RelatedField: "groups"},
		},
		Legacy: []LegacyRef{
			{Field: "chain", Collection: "chains", RelatedField: "groups", ArrayField: "chains"},
		},
		Referrers: []Referrer{{Collection: "sites", Field: "group"}},
	}

	Chains = Config{
		Collection: "chains",
		Relations: []Relation{
			{Field: "sites", Collection: "sites", RelatedField: "chains"},
			{Field: "groups", Collection: "groups", RelatedField: "chains"},
			{Field: "contacts", Collection: "contacts", RelatedField: "chains"},
		},
		Referrers: []Referrer{
			{Collection: "sites", Field: "chain"},
			{Collection: "groups", Field: "chain"},
		},
	}

	Contacts = Config{
		Collection: "contacts",
		Relations: []Relation{
			{Field: "sites", Collection: "sites", RelatedField: "contacts"},
			{Field: "groups", Collection: "groups", RelatedField: "contacts"},
			{Field: "chains", Collection: "chains", RelatedField: "contacts"},
			{Field: "suppliers", Collection: "suppliers", RelatedField: "contacts"},
		},
		Legacy: []LegacyRef{
			{Field: "site", Collection: "sites", RelatedField: "contacts", ArrayField: "sites"},
		},
	}

	Suppliers = Config{
		Collection: "suppliers",
		Relations: []Relation{
			{Field: "sites", Collection: "sites", RelatedField: "suppliers"},
			{Field: "contacts", Collection: "contacts", RelatedField: "suppliers"},
		},
	}
)

// All lists every client entity config.
var All = []Config{Sites, Groups, Chains, Contacts, Suppliers}
