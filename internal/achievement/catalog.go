package achievement

// DefaultCatalog returns the built-in achievement set. Stat keys are the
// cumulative counters the manager maintains across sessions.
func DefaultCatalog() []Definition {
	return []Definition{
		{
			ID:          "first_survival",
			Category:    "survival",
			Name:        "The Living",
			Description: "Survive your first session.",
			Rarity:      RarityCommon,
			Points:      10,
			Criteria: []Criterion{
				{Trigger: TriggerStatThreshold, Key: "sessions_survived", Operator: OpGte, Value: 1,
					Description: "Survive one full session"},
			},
		},
		{
			ID:          "sanity_keeper",
			Category:    "sanity",
			Name:        "Sanity Keeper",
			Description: "End a session with sanity at 80 or higher.",
			Rarity:      RarityUncommon,
			Points:      20,
			Criteria: []Criterion{
				{Trigger: TriggerConditionMet, Key: "session_end_sanity", Operator: OpGte, Value: 80,
					Description: "Finish a session with sanity >= 80"},
			},
		},
		{
			ID:          "first_truth",
			Category:    "cosmic",
			Name:        "First Truth",
			Description: "Glimpse the cosmic truth for the first time.",
			Rarity:      RarityUncommon,
			Points:      20,
			Criteria: []Criterion{
				{Trigger: TriggerEventOccurrence, Key: "revelation", Operator: OpEq, Value: nil,
					Description: "Experience a cosmic revelation"},
			},
		},
		{
			ID:            "forbidden_scholar",
			Category:      "knowledge",
			Name:          "Forbidden Scholar",
			Description:   "Accumulate five pieces of mythos knowledge.",
			Rarity:        RarityRare,
			Points:        40,
			Prerequisites: []string{"first_truth"},
			Criteria: []Criterion{
				{Trigger: TriggerStatThreshold, Key: "mythos_knowledge", Operator: OpCountGte, Value: 5,
					Description: "Hold five mythos fragments"},
			},
		},
		{
			ID:          "first_mystery",
			Category:    "investigation",
			Name:        "First Mystery",
			Description: "Complete your first investigation.",
			Rarity:      RarityCommon,
			Points:      10,
			Criteria: []Criterion{
				{Trigger: TriggerObjectiveCompletion, Key: "kind", Operator: OpEq, Value: "investigation",
					Description: "Complete an investigation objective"},
			},
		},
		{
			ID:            "master_detective",
			Category:      "investigation",
			Name:          "Master Detective",
			Description:   "Complete ten investigations.",
			Rarity:        RarityRare,
			Points:        40,
			Prerequisites: []string{"first_mystery"},
			Criteria: []Criterion{
				{Trigger: TriggerObjectiveCompletion, Key: "investigations_completed", Operator: OpCountGte, Value: 10,
					Description: "Complete ten investigation objectives"},
			},
		},
		{
			ID:          "madness_embrace",
			Category:    "madness",
			Name:        "Embrace of Madness",
			Description: "Keep playing while completely mad.",
			Rarity:      RarityUncommon,
			Points:      20,
			Criteria: []Criterion{
				{Trigger: TriggerConditionMet, Key: "sanity_state", Operator: OpEq, Value: "mad",
					Description: "End a turn with a shattered mind"},
			},
		},
		{
			ID:            "cosmic_witness",
			Category:      "cosmic",
			Name:          "Cosmic Witness",
			Description:   "Reach the fourth level of cosmic insight.",
			Rarity:        RarityLegendary,
			Points:        100,
			Prerequisites: []string{"forbidden_scholar"},
			Criteria: []Criterion{
				{Trigger: TriggerStatThreshold, Key: "insight_level", Operator: OpGte, Value: 4,
					Description: "Reach insight level 4"},
			},
		},
		{
			ID:          "dedicated_investigator",
			Category:    "dedication",
			Name:        "Dedicated Investigator",
			Description: "Play ten sessions.",
			Rarity:      RarityUncommon,
			Points:      20,
			Criteria: []Criterion{
				{Trigger: TriggerStatThreshold, Key: "sessions_played", Operator: OpGte, Value: 10,
					Description: "Play ten sessions"},
			},
		},
		{
			ID:          "ultimate_survivor",
			Category:    "survival",
			Name:        "Ultimate Survivor",
			Description: "Finish a campaign with your mind intact.",
			Rarity:      RarityLegendary,
			Points:      100,
			Criteria: []Criterion{
				{Trigger: TriggerEventOccurrence, Key: "campaign_completed", Operator: OpEq, Value: nil,
					Description: "Complete a campaign"},
				{Trigger: TriggerConditionMet, Key: "sanity", Operator: OpGte, Value: 50,
					Description: "Keep sanity at 50 or above"},
			},
		},
		{
			ID:          "fourth_wall",
			Category:    "hidden",
			Name:        "???",
			Description: "Some things notice being watched.",
			Rarity:      RarityLegendary,
			Points:      50,
			Hidden:      true,
			Criteria: []Criterion{
				{Trigger: TriggerEventOccurrence, Key: "fourth_wall_broken", Operator: OpEq, Value: nil,
					Description: "?"},
			},
		},
	}
}
