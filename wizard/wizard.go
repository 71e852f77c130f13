// Package wizard models the four-step booking form as an explicit state
// machine. Transitions outside [MinStep, MaxStep] are defined no-ops rather
// than relying on the UI to silently ignore them.
package wizard

const (
	MinStep = 1
	MaxStep = 4
)

// StepInfo describes one panel of the form for template rendering.
type StepInfo struct {
	Number int
	Title  string
}

// Steps enumerates the wizard panels in order.
func Steps() []StepInfo {
	return []StepInfo{
		{Number: 1, Title: "Your Idea"},
		{Number: 2, Title: "Placement & Size"},
		{Number: 3, Title: "Reference Photos"},
		{Number: 4, Title: "Contact Details"},
	}
}

type Wizard struct {
	step int
}

func New() *Wizard {
	return &Wizard{step: MinStep}
}

func (w *Wizard) Step() int {
	return w.step
}

// Next advances one step, clamped at MaxStep.
func (w *Wizard) Next() int {
	if w.step < MaxStep {
		w.step++
	}
	return w.step
}

// Prev goes back one step, clamped at MinStep.
func (w *Wizard) Prev() int {
	if w.step > MinStep {
		w.step--
	}
	return w.step
}

func (w *Wizard) Reset() {
	w.step = MinStep
}

// OnFinal reports whether the submit step is showing.
func (w *Wizard) OnFinal() bool {
	return w.step == MaxStep
}
