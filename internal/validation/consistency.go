package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dlclark/regexp2"

	"towerdb/internal/models"
)

// Rule identifies one cross-field consistency rule.
type Rule int

const (
	RuleRingingService Rule = iota + 1
	RulePracticeDay
	RuleTravelCheckMentioned
	RulePracticeWeeksFromPractice
	RulePracticeWeeksFromWeeks
	RuleTravelCheckReciprocal
)

func (r Rule) String() string {
	switch r {
	case RuleRingingService:
		return "ringing_service"
	case RulePracticeDay:
		return "practice_day"
	case RuleTravelCheckMentioned:
		return "travel_check_mentioned"
	case RulePracticeWeeksFromPractice:
		return "practice_weeks_from_practice"
	case RulePracticeWeeksFromWeeks:
		return "practice_weeks_from_weeks"
	case RuleTravelCheckReciprocal:
		return "travel_check_reciprocal"
	}
	return fmt.Sprintf("rule(%d)", int(r))
}

func (r Rule) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

const weekSeparator = ", "

var (
	// Wording that tells visitors to check before coming to a practice.
	checkPattern = regexp2.MustCompile(
		`check(?! if Bank Holiday)|by arrangement|by invitation`,
		regexp2.IgnoreCase,
	)

	weekPhrasePattern = regexp.MustCompile(`1st|2nd|3rd|4th|5th|not`)
)

type consistencyRule func(t *models.Tower) []*ConsistencyError

// The checks are heuristic substring tests and can misfire on unusual
// wording; they are kept literal so editors get predictable results.
var consistencyRules = []consistencyRule{
	checkRingingService,
	checkPracticeDay,
	checkTravelCheckMentioned,
	checkWeeksFromPractice,
	checkWeeksFromWeeks,
	checkTravelCheckReciprocal,
}

// CheckConsistency runs every cross-field rule and returns all violations in
// rule order.
func CheckConsistency(t *models.Tower) Errors {
	var errs Errors
	for _, rule := range consistencyRules {
		for _, err := range rule(t) {
			errs = append(errs, err)
		}
	}
	return errs
}

func mentionsCheck(practice string) bool {
	return matches(checkPattern, practice)
}

func checkRingingService(t *models.Tower) []*ConsistencyError {
	if t.Ringing != models.RingingNone || (t.Service == "" && t.Practice == "") {
		return nil
	}
	return []*ConsistencyError{{
		Rule:   RuleRingingService,
		Fields: []string{"ringing", "service", "practice"},
		Message: fmt.Sprintf(
			"Ringing status %q inconsistent with Service/Practice (service %q, practice %q)",
			t.Ringing.DisplayName(), t.Service, t.Practice,
		),
	}}
}

// An unset day has an empty display name, which every practice contains, so
// the second condition only fires for a set day.
func checkPracticeDay(t *models.Tower) []*ConsistencyError {
	dayName := t.Day.DisplayName()
	if (t.Practice != "" && t.Day == "") || !strings.Contains(t.Practice, dayName) {
		return []*ConsistencyError{{
			Rule:    RulePracticeDay,
			Fields:  []string{"day", "practice"},
			Message: fmt.Sprintf("Practice day %q inconsistent with Practice %q", dayName, t.Practice),
		}}
	}
	return nil
}

func checkTravelCheckMentioned(t *models.Tower) []*ConsistencyError {
	if !mentionsCheck(t.Practice) || t.CheckBeforeTravel {
		return nil
	}
	return []*ConsistencyError{{
		Rule:   RuleTravelCheckMentioned,
		Fields: []string{"practice", "check_before_travelling"},
		Message: fmt.Sprintf(
			"Practice %q says to check before travelling but 'Check before travelling' is not set",
			t.Practice,
		),
	}}
}

func checkWeeksFromPractice(t *models.Tower) []*ConsistencyError {
	if mentionsCheck(t.Practice) {
		return nil
	}

	var errs []*ConsistencyError
	for _, phrase := range weekPhrasePattern.FindAllString(t.Practice, -1) {
		if strings.Contains(t.Week, phrase) {
			continue
		}
		errs = append(errs, &ConsistencyError{
			Rule:   RulePracticeWeeksFromPractice,
			Fields: []string{"practice", "week"},
			Message: fmt.Sprintf(
				"Practice %q mentions %q but Practice weeks %q does not",
				t.Practice, phrase, t.Week,
			),
		})
	}
	return errs
}

func checkWeeksFromWeeks(t *models.Tower) []*ConsistencyError {
	if t.Week == "" {
		return nil
	}

	var errs []*ConsistencyError
	for _, phrase := range strings.Split(t.Week, weekSeparator) {
		if strings.Contains(phrase, "BH") {
			if !strings.Contains(t.Practice, "Bank") {
				errs = append(errs, &ConsistencyError{
					Rule:   RulePracticeWeeksFromWeeks,
					Fields: []string{"week", "practice"},
					Message: fmt.Sprintf(
						"Practice weeks %q mentions %q but Practice %q does not mention 'Bank'",
						t.Week, phrase, t.Practice,
					),
				})
			}
			continue
		}
		if !strings.Contains(t.Practice, phrase) {
			errs = append(errs, &ConsistencyError{
				Rule:   RulePracticeWeeksFromWeeks,
				Fields: []string{"week", "practice"},
				Message: fmt.Sprintf(
					"Practice weeks %q mentions %q but Practice %q does not",
					t.Week, phrase, t.Practice,
				),
			})
		}
	}
	return errs
}

func checkTravelCheckReciprocal(t *models.Tower) []*ConsistencyError {
	if !t.CheckBeforeTravel || mentionsCheck(t.Practice) {
		return nil
	}
	return []*ConsistencyError{{
		Rule:   RuleTravelCheckReciprocal,
		Fields: []string{"check_before_travelling", "practice"},
		Message: fmt.Sprintf(
			"'Check before travelling' is set but Practice %q does not say to check",
			t.Practice,
		),
	}}
}
