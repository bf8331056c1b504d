package sqlinline

import (
	"regexp"
	"strings"
	"testing"
)

var markerRegexp = regexp.MustCompile(`^--sql [0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// Every statement must carry the runner's marker line or it will be rejected
// at execution time.
func TestAllQueriesCarryMarkers(t *testing.T) {
	queries := map[string]string{
		"QInsertUser":             QInsertUser,
		"QSelectUserByID":         QSelectUserByID,
		"QSelectUserByEmail":      QSelectUserByEmail,
		"QDebitUserCredits":       QDebitUserCredits,
		"QAddUserCredits":         QAddUserCredits,
		"QInsertProject":          QInsertProject,
		"QSelectProjectByID":      QSelectProjectByID,
		"QListProjectsByUser":     QListProjectsByUser,
		"QUpdateProjectStatus":    QUpdateProjectStatus,
		"QDeleteProject":          QDeleteProject,
		"QInsertCreative":         QInsertCreative,
		"QListCreativesByProject": QListCreativesByProject,
		"QInsertUsageEntry":       QInsertUsageEntry,
		"QListRecentUsage":        QListRecentUsage,
		"QStatsSummary":           QStatsSummary,
		"QListUserOverviews":      QListUserOverviews,
	}

	seen := make(map[string]string)
	for name, query := range queries {
		first := strings.TrimSpace(strings.Split(strings.TrimSpace(query), "\n")[0])
		if !markerRegexp.MatchString(first) {
			t.Fatalf("%s first line %q is not a valid marker", name, first)
		}
		if prev, dup := seen[first]; dup {
			t.Fatalf("%s reuses marker of %s", name, prev)
		}
		seen[first] = name
	}
}

func TestDebitGuardsBalance(t *testing.T) {
	if !strings.Contains(QDebitUserCredits, "credits_remaining >= $2::int") {
		t.Fatal("debit statement lost its balance guard")
	}
}
