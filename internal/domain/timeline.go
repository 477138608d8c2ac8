package domain

// TimelineStep is the dashboard rendering of one stage.
type TimelineStep struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Date      string `json:"date"`
	Completed bool   `json:"completed"`
	// ByProgress is true when the step is shown complete only because
	// progress passed its threshold while the flag is still pending.
	ByProgress bool `json:"byProgress"`
}

// Timeline derives the read-only stage view. Stage i of n counts as done
// when its flag is completed or progress >= (i+1)*100/n.
func Timeline(e *ClientEngagement) []TimelineStep {
	if e == nil {
		return []TimelineStep{}
	}
	n := len(e.Stages)
	steps := make([]TimelineStep, n)
	for i, s := range e.Stages {
		threshold := (i + 1) * 100 / n
		flagged := s.Status == StageCompleted
		reached := e.Progress >= threshold
		steps[i] = TimelineStep{
			ID:         s.ID,
			Title:      s.Title,
			Date:       s.Date,
			Completed:  flagged || reached,
			ByProgress: reached && !flagged,
		}
	}
	return steps
}
