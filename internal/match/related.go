package match

import "strings"

// relatedRoles maps lowercase role families to alternative titles accepted
// under similar matching when a role declares no synonyms of its own. Add
// entries over time as gaps show up.
var relatedRoles = map[string][]string{
	"project manager": {
		"program manager", "project lead", "delivery manager", "delivery lead",
		"technical delivery lead", "project coordinator", "project officer",
		"project administrator", "pmo", "project director", "it project manager",
		"technical project manager", "agile project manager", "project specialist",
		"project consultant", "engagement manager", "implementation manager",
	},
	"program manager": {
		"project manager", "portfolio manager", "delivery manager",
		"program director", "programme manager",
	},
	"delivery manager": {
		"project manager", "program manager", "engineering manager",
		"release manager", "scrum master",
	},
	"scrum master": {
		"agile coach", "agile lead", "product owner", "delivery lead",
		"iteration manager",
	},
	"product manager": {
		"product owner", "product director", "head of product",
		"digital product manager", "technical product manager", "vp product",
	},
	"product owner": {
		"product manager", "scrum master", "business analyst",
	},
	"business analyst": {
		"systems analyst", "functional analyst", "solution analyst",
		"process analyst", "requirements analyst", "product analyst", "ba",
	},
	"software engineer": {
		"software developer", "programmer", "full stack developer",
		"backend developer", "frontend developer", "software architect",
		"application developer", "developer",
	},
	"software developer": {
		"software engineer", "programmer", "developer", "full stack developer",
	},
	"devops engineer": {
		"site reliability engineer", "sre", "infrastructure engineer",
		"cloud engineer", "platform engineer", "build engineer", "release engineer",
	},
	"data scientist": {
		"machine learning engineer", "ml engineer", "ai engineer", "data analyst",
		"research scientist", "data engineer",
	},
	"data analyst": {
		"business intelligence analyst", "bi analyst", "reporting analyst",
		"analytics engineer", "insights analyst", "data specialist",
	},
	"data engineer": {
		"analytics engineer", "etl developer", "data architect", "database developer",
	},
	"ux designer": {
		"ui designer", "ux/ui designer", "product designer", "interaction designer",
		"user experience designer", "user interface designer", "visual designer",
	},
	"account manager": {
		"client manager", "key account manager", "national account manager",
		"customer success manager", "relationship manager", "sales manager",
	},
	"marketing manager": {
		"digital marketing manager", "content marketing manager", "brand manager",
		"growth marketing manager", "campaign manager", "marketing specialist",
	},
}

var levelWords = map[string]struct{}{
	"senior": {}, "junior": {}, "lead": {}, "principal": {}, "staff": {},
	"associate": {}, "head": {}, "chief": {},
}

// RelatedRoles returns alternative titles for a role. Lookup order: direct
// table hit, partial key match ("Senior Project Manager" finds
// "project manager"), then generic level-prefix variations.
func RelatedRoles(role string) []string {
	key := strings.ToLower(strings.TrimSpace(role))

	if related, ok := relatedRoles[key]; ok {
		return related
	}

	for family, related := range relatedRoles {
		if strings.Contains(key, family) || strings.Contains(family, key) {
			return related
		}
	}

	words := strings.Fields(key)
	baseWords := make([]string, 0, len(words))
	for _, w := range words {
		if _, ok := levelWords[w]; !ok {
			baseWords = append(baseWords, w)
		}
	}

	var variations []string
	if len(baseWords) < len(words) {
		variations = append(variations, strings.Join(baseWords, " "))
	}

	base := key
	if len(baseWords) > 0 {
		base = strings.Join(baseWords, " ")
	}
	for _, prefix := range []string{"senior", "lead", "principal"} {
		variations = append(variations, prefix+" "+base)
	}
	return variations
}
