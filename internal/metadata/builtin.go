package metadata

// Builtin returns the content types the importer ships with. They are seeded
// into _content_types on bootstrap and can be edited there afterwards; the
// registry is always loaded from the database, not from this list.
func Builtin() []*ContentType {
	return []*ContentType{
		{
			Slug:  "party",
			Kind:  KindCollection,
			Table: "parties",
			Attributes: []Attribute{
				{Name: "name", Kind: AttrScalar, Type: "string", Required: true},
				{Name: "abbreviation", Kind: AttrScalar, Type: "string"},
				{Name: "logo", Kind: AttrMedia, AllowedTypes: []string{"images"}},
				{Name: "published_at", Kind: AttrScalar, Type: "timestamp"},
			},
		},
		{
			Slug:  "constituency",
			Kind:  KindCollection,
			Table: "constituencies",
			Attributes: []Attribute{
				{Name: "name", Kind: AttrScalar, Type: "string", Required: true},
				{Name: "district", Kind: AttrScalar, Type: "string"},
			},
		},
		{
			Slug:  "election",
			Kind:  KindCollection,
			Table: "elections",
			Attributes: []Attribute{
				{Name: "name", Kind: AttrScalar, Type: "string", Required: true},
				{Name: "date", Kind: AttrScalar, Type: "date"},
			},
		},
		{
			Slug:  "manifesto.pledge",
			Kind:  KindComponent,
			Table: "components_manifesto_pledges",
			Attributes: []Attribute{
				{Name: "title", Kind: AttrScalar, Type: "string", Required: true},
				{Name: "detail", Kind: AttrScalar, Type: "text"},
			},
		},
		{
			Slug:  "profile.social-link",
			Kind:  KindComponent,
			Table: "components_profile_social_links",
			Attributes: []Attribute{
				{Name: "platform", Kind: AttrScalar, Type: "string"},
				{Name: "url", Kind: AttrScalar, Type: "string"},
			},
		},
		{
			Slug:  "candidate",
			Kind:  KindCollection,
			Table: "candidates",
			Attributes: []Attribute{
				{Name: "first_name", Kind: AttrScalar, Type: "string", Required: true},
				{Name: "last_name", Kind: AttrScalar, Type: "string", Required: true},
				{Name: "email", Kind: AttrScalar, Type: "string", Required: true, Unique: true},
				{Name: "phone", Kind: AttrScalar, Type: "string"},
				{Name: "bio", Kind: AttrScalar, Type: "text"},
				{Name: "photo", Kind: AttrMedia, AllowedTypes: []string{"images"}},
				{Name: "party", Kind: AttrRelation, Target: "party", Required: true},
				{Name: "pledges", Kind: AttrComponent, Target: "manifesto.pledge", Repeatable: true},
				{Name: "contact", Kind: AttrComponent, Target: "profile.social-link"},
				{Name: "sections", Kind: AttrDynamicZone, Components: []string{"manifesto.pledge", "profile.social-link"}},
				{Name: "published_at", Kind: AttrScalar, Type: "timestamp"},
				{Name: "created_by", Kind: AttrRelation, Target: "user", Type: "string"},
				{Name: "updated_by", Kind: AttrRelation, Target: "user", Type: "string"},
			},
		},
		{
			Slug:  "nomination",
			Kind:  KindCollection,
			Table: "nominations",
			Attributes: []Attribute{
				{Name: "email", Kind: AttrScalar, Type: "string", Required: true},
				{Name: "candidate", Kind: AttrRelation, Target: "candidate"},
				{Name: "party", Kind: AttrRelation, Target: "party", Required: true},
				{Name: "constituency", Kind: AttrRelation, Target: "constituency", Required: true},
				{Name: "election", Kind: AttrRelation, Target: "election", Required: true},
				{Name: "status", Kind: AttrScalar, Type: "string"},
				{Name: "published_at", Kind: AttrScalar, Type: "timestamp"},
				{Name: "created_by", Kind: AttrRelation, Target: "user", Type: "string"},
				{Name: "updated_by", Kind: AttrRelation, Target: "user", Type: "string"},
			},
		},
		{
			Slug:  "election-config",
			Kind:  KindSingle,
			Table: "election_config",
			Attributes: []Attribute{
				{Name: "current_election", Kind: AttrRelation, Target: "election"},
				{Name: "contact_email", Kind: AttrScalar, Type: "string"},
			},
		},
	}
}
