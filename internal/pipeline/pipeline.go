// Package pipeline drives one conversational turn: exit gating, two-stage
// generation (think, then speak), concept learning, reply cleaning, and
// observation archival.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jeanpaul/xylon/internal/persona"
	"github.com/jeanpaul/xylon/internal/provider"
	"github.com/jeanpaul/xylon/internal/store"
)

// ErrOracle marks a fatal text-generation failure on a required stage.
// Its message is the only thing shown to the operator in that case.
var ErrOracle = errors.New("[AI系统故障] 核心议会连接中断。")

// Turn is the externally visible result of one pipeline invocation.
type Turn struct {
	UserInput  string
	Thoughts   string
	Reply      string
	Exit       bool
	RawArchive bool
	Learned    []Concept
}

// Params wires a Pipeline.
type Params struct {
	Oracle       provider.Oracle
	Persona      *persona.Persona
	Concepts     *store.ConceptArchive
	Observations *store.ObservationLog
	Logger       *zap.Logger

	ThoughtTemperature float64
	ReplyTemperature   float64
}

// Pipeline is the sole writer of the concept archive and observation log.
type Pipeline struct {
	oracle       provider.Oracle
	persona      *persona.Persona
	concepts     *store.ConceptArchive
	observations *store.ObservationLog
	log          *zap.Logger

	thoughtTemp float64
	replyTemp   float64
}

func New(p Params) *Pipeline {
	if p.ThoughtTemperature == 0 {
		p.ThoughtTemperature = 0.9
	}
	if p.ReplyTemperature == 0 {
		p.ReplyTemperature = 0.7
	}
	if p.Logger == nil {
		p.Logger = zap.NewNop()
	}
	return &Pipeline{
		oracle:       p.Oracle,
		persona:      p.Persona,
		concepts:     p.Concepts,
		observations: p.Observations,
		log:          p.Logger,
		thoughtTemp:  p.ThoughtTemperature,
		replyTemp:    p.ReplyTemperature,
	}
}

// Process runs one turn. Stage failures (thought, reply) abort the turn;
// concept learning and observation archival are best-effort side effects.
func (pl *Pipeline) Process(ctx context.Context, userInput string, history []store.ThoughtRecord) (*Turn, error) {
	if IsUserExit(userInput) {
		return &Turn{UserInput: userInput, Reply: FarewellReply, Exit: true}, nil
	}

	processed := persona.AbstractInput(userInput)
	snapshot := pl.concepts.Snapshot()
	conversation := conversationMessages(history)

	// Stage 1: think.
	thoughtPrompt := pl.persona.ThoughtPrompt(snapshot, history, conversation, processed)
	thoughts, err := pl.oracle.Generate(ctx, provider.GenerateRequest{
		System:      thoughtPrompt.System,
		Messages:    thoughtPrompt.Messages,
		Temperature: pl.thoughtTemp,
	})
	if err != nil {
		pl.log.Error("thought stage failed", zap.Error(err))
		return nil, fmt.Errorf("%w (thought stage: %v)", ErrOracle, err)
	}

	// Concept learning never fails the turn.
	learned := pl.learnConcepts(thoughts)

	// Stage 2: speak.
	replyPrompt := pl.persona.ReplyPrompt(thoughts, snapshot, history, conversation, processed)
	rawReply, err := pl.oracle.Generate(ctx, provider.GenerateRequest{
		System:      replyPrompt.System,
		Messages:    replyPrompt.Messages,
		Temperature: pl.replyTemp,
	})
	if err != nil {
		pl.log.Error("reply stage failed", zap.Error(err))
		return nil, fmt.Errorf("%w (reply stage: %v)", ErrOracle, err)
	}

	var reply string
	if strings.TrimSpace(rawReply) == "" {
		reply = PlaceholderReply
	} else {
		reply = Clean(rawReply)
	}

	exit := IsFarewell(reply)
	if !exit && reply != PlaceholderReply {
		reply = pl.persona.TranslateReply(reply)
	}

	rawArchive := pl.recordObservation(rawReply)

	return &Turn{
		UserInput:  userInput,
		Thoughts:   thoughts,
		Reply:      reply,
		Exit:       exit,
		RawArchive: rawArchive,
		Learned:    learned,
	}, nil
}

func (pl *Pipeline) learnConcepts(thoughts string) []Concept {
	concepts := Extract(thoughts)
	var learned []Concept
	for _, c := range concepts {
		if err := pl.concepts.Merge(c.Term, c.Definition); err != nil {
			pl.log.Warn("concept merge failed", zap.String("term", c.Term), zap.Error(err))
			continue
		}
		learned = append(learned, c)
	}
	if len(learned) > 0 {
		pl.log.Info("concepts learned", zap.Int("count", len(learned)))
	}
	return learned
}

// recordObservation archives tagged content from the raw reply. The tag's
// presence is reported even when persistence fails.
func (pl *Pipeline) recordObservation(rawReply string) bool {
	loc := observeTagRe.FindStringIndex(rawReply)
	if loc == nil {
		return false
	}
	content := strings.TrimSpace(rawReply[loc[1]:])
	if content == "" {
		return true
	}
	if err := pl.observations.Append(content); err != nil {
		pl.log.Warn("observation archive failed", zap.Error(err))
	}
	return true
}

// conversationMessages rebuilds conversational context from prior thought
// records: each non-reflection record contributes its operator input and
// recorded trace, newest six only.
func conversationMessages(history []store.ThoughtRecord) []provider.Message {
	const maxTurns = 6
	var turns []store.ThoughtRecord
	for _, r := range history {
		if !r.IsReflection && r.UserInput != "" {
			turns = append(turns, r)
		}
	}
	if len(turns) > maxTurns {
		turns = turns[len(turns)-maxTurns:]
	}
	var msgs []provider.Message
	for _, r := range turns {
		msgs = append(msgs,
			provider.Message{Role: provider.RoleUser, Content: r.UserInput},
			provider.Message{Role: provider.RoleAssistant, Content: r.Content},
		)
	}
	return msgs
}
