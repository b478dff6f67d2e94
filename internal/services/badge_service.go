package services

// Badge names awarded by the evaluator.
const (
	BadgeFirstQuestion = "First Question"
	BadgeCurious       = "Curious"
	BadgeFirstAnswer   = "First Answer"
	BadgeProblemSolver = "Problem Solver"
	BadgeRisingStar    = "Rising Star"
	BadgeExpert        = "Expert"
	BadgeStreakMaster  = "Streak Master"
)

// UserStats is the read-only view of a user the evaluator inspects.
type UserStats struct {
	Questions  int
	Answers    int
	Reputation int
	Streak     int
}

// BadgeService decides which badges a user's stats earn. It is pure: stats
// in, badge set out. Badges are additive; the evaluator never revokes one,
// callers only insert names missing from the user's current set.
type BadgeService struct{}

func NewBadgeService() *BadgeService {
	return &BadgeService{}
}

func (s *BadgeService) Evaluate(stats UserStats) []string {
	var badges []string
	if stats.Questions >= 1 {
		badges = append(badges, BadgeFirstQuestion)
	}
	if stats.Questions >= 5 {
		badges = append(badges, BadgeCurious)
	}
	if stats.Answers >= 1 {
		badges = append(badges, BadgeFirstAnswer)
	}
	if stats.Answers >= 10 {
		badges = append(badges, BadgeProblemSolver)
	}
	if stats.Reputation >= 50 {
		badges = append(badges, BadgeRisingStar)
	}
	if stats.Reputation >= 200 {
		badges = append(badges, BadgeExpert)
	}
	if stats.Streak >= 7 {
		badges = append(badges, BadgeStreakMaster)
	}
	return badges
}

// Missing returns the earned badges the user does not have yet.
func (s *BadgeService) Missing(stats UserStats, current []string) []string {
	have := make(map[string]bool, len(current))
	for _, name := range current {
		have[name] = true
	}
	var missing []string
	for _, name := range s.Evaluate(stats) {
		if !have[name] {
			missing = append(missing, name)
		}
	}
	return missing
}
