// Package prompt models the blocking confirm/alert dialogs that guard
// destructive actions and surface validation failures.
package prompt

// Prompter asks the user a yes/no question or shows a message
type Prompter interface {
	Confirm(message string) bool
	Alert(message string)
}

// Answer always gives the same reply and remembers what it was shown
type Answer struct {
	Yes       bool
	Questions []string
	Alerts    []string
}

// Yes returns a prompter that accepts every confirmation
func Yes() *Answer { return &Answer{Yes: true} }

// No returns a prompter that declines every confirmation
func No() *Answer { return &Answer{} }

func (a *Answer) Confirm(message string) bool {
	a.Questions = append(a.Questions, message)
	return a.Yes
}

func (a *Answer) Alert(message string) {
	a.Alerts = append(a.Alerts, message)
}

// Deferred lets an event loop answer a confirmation later. The first pass
// records the question and declines; the caller shows its own dialog and
// replays the action with Resolve once the user has answered.
type Deferred struct {
	answered bool
	answer   bool
	question string
	alert    string
}

func (d *Deferred) Confirm(message string) bool {
	if d.answered {
		return d.answer
	}
	d.question = message
	return false
}

func (d *Deferred) Alert(message string) {
	d.alert = message
}

// Pending reports the question asked during the last pass, if any
func (d *Deferred) Pending() (string, bool) {
	return d.question, d.question != "" && !d.answered
}

// Alerted returns the last alert message
func (d *Deferred) Alerted() (string, bool) {
	return d.alert, d.alert != ""
}

// Resolve returns a prompter that replays the pending question with the
// user's answer
func (d *Deferred) Resolve(yes bool) *Deferred {
	return &Deferred{answered: true, answer: yes, question: d.question}
}
