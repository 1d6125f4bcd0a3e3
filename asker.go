package docbot

import "context"

// Stage is a step of the query pipeline. Stages run strictly in order:
// Received, GuardrailChecked, Retrieved, PromptAssembled, Generated,
// FollowUpsDerived, Completed. Rejected and Failed are terminal branches.
type Stage string

// Pipeline stages.
const (
	StageReceived         Stage = "received"
	StageGuardrailChecked Stage = "guardrail_checked"
	StageRetrieved        Stage = "retrieved"
	StagePromptAssembled  Stage = "prompt_assembled"
	StageGenerated        Stage = "generated"
	StageFollowUpsDerived Stage = "follow_ups_derived"
	StageCompleted        Stage = "completed"
	StageRejected         Stage = "rejected"
	StageFailed           Stage = "failed"
)

// Outcome is the terminal state of a successful Ask call.
type Outcome string

// Ask outcomes. A failed query is reported as an error instead.
const (
	OutcomeCompleted Outcome = "completed"
	OutcomeRejected  Outcome = "rejected"
)

// Roles of chat history turns.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one message of prior conversation.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Query is one user question, optionally with prior conversation.
type Query struct {
	Question string `json:"question"`
	History  []Turn `json:"history,omitempty"`
}

// Answer is the result of a query that completed or was rejected.
type Answer struct {
	ID      string  `json:"id"`
	Outcome Outcome `json:"outcome"`

	// Text is the generated answer, or the refusal message when rejected.
	Text string `json:"text"`

	// Category names the guardrail category that rejected the query.
	Category string `json:"category,omitempty"`

	FollowUps []string `json:"followUps"`

	// Sources lists the distinct source IDs of the chunks placed in the
	// prompt, most similar first.
	Sources []string `json:"sources"`

	// Grounded is false when no context was available for the prompt.
	Grounded bool `json:"grounded"`
}

// Asker answers natural language questions about the indexed corpus.
type Asker interface {
	// Ask runs the query pipeline. A guardrail rejection is returned as an
	// Answer with OutcomeRejected, not as an error. Failures return
	// EINVALID, EEMBEDDING, EGENERATION or an index integrity error.
	Ask(ctx context.Context, q *Query) (*Answer, error)
}
