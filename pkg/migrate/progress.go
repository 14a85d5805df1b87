package migrate

// Progress receives a line for every step of a run
type Progress interface {
	// Step is called when the run enters a state
	Step(state State, message string)

	// Service is called after every stop or start attempt
	Service(action, unit string, err error)
}

type nopProgress struct{}

func (nopProgress) Step(State, string) {}
func (nopProgress) Service(string, string, error) {}
