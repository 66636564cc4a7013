package pipeline

import "github.com/SammyJoBron/Narrative-Abilities-of-Hearing-Impaired-Children/pkg/dataprep"

// DefaultSchema is the recipe of the HI/TD narrative study. configs/recipe.yaml
// holds the same recipe.
func DefaultSchema() Schema {
	return Schema{
		AgeBanded: []dataprep.AgeBandedPair{
			// Executive function: preschool and school-age questionnaire forms.
			{Younger: "BRIEFP_GEC", Older: "BRIEF_GEC", Output: "EF_GEC"},
			// Phonological processing: younger and older protocols.
			{Younger: "PHON_PreK", Older: "PHON_School", Output: "PHON"},
		},
		Grouping: Grouping{Indicator: "HI", Member: 1, MemberName: "HI", NonMemberName: "TD"},
		Transformable: []string{
			// Frog Story microstructure
			"FS_MLU", "FS_NDW", "FS_TNW", "FS_SubClauses", "FS_ComplexSent",
			"FS_GramErrors", "FS_Connectives", "FS_InternalState",
			// Frog Story macrostructure
			"FS_StoryGrammar", "FS_EpisodeComplete",
			// Bus Story
			"BS_Information", "BS_SentenceLength", "BS_Subordinates", "BS_Retell",
			// language and communication
			"CCC_Pragmatics", "CCC_Structural", "PPVT",
			// cognition
			"EF_GEC", "PHON", "NonverbalIQ",
			// audiology and rehabilitation
			"AgeAtDiagnosis", "AgeAtImplant", "DeviceExperience", "PTA",
		},
		Sections: []Section{
			{Name: "morphosyntax", Variables: []string{"FS_MLU", "FS_SubClauses", "FS_ComplexSent", "FS_GramErrors", "BS_SentenceLength", "BS_Subordinates"}},
			{Name: "semantic-pragmatics", Variables: []string{"FS_NDW", "FS_TNW", "FS_Connectives", "FS_InternalState", "PPVT", "CCC_Pragmatics"}},
			{Name: "communicative-language", Variables: []string{"CCC_Pragmatics", "CCC_Structural", "BS_Information", "BS_Retell"}},
			{Name: "macrostructure", Variables: []string{"FS_StoryGrammar", "FS_EpisodeComplete", "BS_Information"}},
			{Name: "cognition", Variables: []string{"EF_GEC", "PHON", "NonverbalIQ", "FS_StoryGrammar", "FS_MLU"}},
			{Name: "rehabilitation", Variables: []string{"AgeAtDiagnosis", "AgeAtImplant", "DeviceExperience", "PTA", "FS_StoryGrammar", "FS_MLU"}},
		},
		Models: []ModelSpec{
			{Outcome: "FS_MLU", Predictor: "HI", View: ViewAll},
			{Outcome: "FS_StoryGrammar", Predictor: "HI", View: ViewAll},
			{Outcome: "BS_Information", Predictor: "HI", View: ViewAll},
			{Outcome: "FS_StoryGrammar", Predictor: "EF_GEC", View: ViewAll},
			{Outcome: "FS_StoryGrammar", Predictor: "AgeAtImplant", View: "HI"},
			{Outcome: "FS_MLU", Predictor: "DeviceExperience", View: "HI"},
			{Outcome: "FS_MLU", Predictor: "PHON", View: "TD"},
		},
	}
}
