package referral

import "fmt"

// Cycle is a position in a repeating count-to-threshold bar.
type Cycle struct {
	Progress  int `json:"progress"`  // within the current cycle, in [0, ref]
	Completed int `json:"completed"` // number of completed cycles
}

// CyclePosition returns the position of a cumulative progress counter in
// cycles of length ref.
//
// A non zero progress that is an exact multiple of ref shows a full bar
// rather than an empty one, so that "just completed" reads differently from
// "never started".
func CyclePosition(progress, ref int) (Cycle, error) {
	if ref <= 0 {
		return Cycle{}, fmt.Errorf("cycle length %d: %w", ref, ErrInvalidThreshold)
	}
	if progress < 0 {
		return Cycle{}, fmt.Errorf("progress %d: %w", progress, ErrInvalidProgress)
	}
	c := Cycle{Completed: progress / ref}
	switch rem := progress % ref; {
	case progress == 0:
		c.Progress = 0
	case rem > 0:
		c.Progress = rem
	default:
		c.Progress = ref
	}
	return c, nil
}
