package reasoner

import (
	"github.com/narswright/nars-kernel/internal/sf"
	"github.com/narswright/nars-kernel/internal/term"
)

// taskItem adapts *term.Task to bag.Item: Task's budget is a struct field,
// not a method, and the novel-task bag needs the Rebudgetable hook to
// apply forgetting without losing the task's identity.
type taskItem struct {
	*term.Task
}

func (i taskItem) Key() string       { return i.Task.Key() }
func (i taskItem) Budget() sf.Budget { return i.Task.Budget }

func (i taskItem) WithBudget(b sf.Budget) taskItem {
	i.Task.Budget = b
	return i
}
