package assistant

import "context"

// Reply is a provider-neutral model answer: candidates made of text parts
// and function-call parts.
type Reply struct {
	Candidates []Candidate
}

type Candidate struct {
	Parts []Part
}

// Part carries either Text or a FunctionCall.
type Part struct {
	Text         string
	FunctionCall *FunctionCall
}

type FunctionCall struct {
	Name string
	Args map[string]any
}

// Session is one remote chat handle. The remote side keeps the turn
// history; callers only send the new user text.
type Session interface {
	Send(ctx context.Context, text string) (*Reply, error)
}

// Starter opens sessions seeded with the system prompt and tool
// declarations.
type Starter interface {
	Start(ctx context.Context, language string) (Session, error)
}

// StarterFunc adapts a function to Starter.
type StarterFunc func(ctx context.Context, language string) (Session, error)

func (f StarterFunc) Start(ctx context.Context, language string) (Session, error) {
	return f(ctx, language)
}

// SessionFunc adapts a function to Session.
type SessionFunc func(ctx context.Context, text string) (*Reply, error)

func (f SessionFunc) Send(ctx context.Context, text string) (*Reply, error) {
	return f(ctx, text)
}
