package repository

import (
	"strings"

	qb "github.com/noah-isme/usercoursecontrol-api/pkg/querybuilder"
)

// courseNameMatch matches courses whose shortname equals a token or whose fullname
// contains it, OR-ed across tokens. Blank tokens are ignored.
func courseNameMatch(tokens []string) qb.Predicate {
	preds := make([]qb.Predicate, 0, len(tokens))
	for _, token := range tokens {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		preds = append(preds, qb.Or(qb.Eq("c.shortname", token), qb.Contains("c.fullname", token)))
	}
	return qb.Or(preds...)
}
