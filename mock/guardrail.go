package mock

import "github.com/fwojciec/docbot"

var _ docbot.Guardrail = (*Guardrail)(nil)

// Guardrail is a mock implementation of docbot.Guardrail.
type Guardrail struct {
	CheckFn func(question string) docbot.Verdict
}

func (g *Guardrail) Check(question string) docbot.Verdict {
	return g.CheckFn(question)
}
