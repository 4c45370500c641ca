package agent

import (
	"context"
	"iter"
	"slices"
	"sort"
	"strings"
	"sync/atomic"

	"charm.land/fantasy"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/wallacegibbon/skillclaw/internal/llm"
	"github.com/wallacegibbon/skillclaw/internal/logger"
	"github.com/wallacegibbon/skillclaw/internal/memory"
	"github.com/wallacegibbon/skillclaw/internal/skills"
)

var tracer = otel.Tracer("github.com/wallacegibbon/skillclaw/internal/agent")

// Options configures a new session
type Options struct {
	// BasePrompt is the persona prompt; DefaultSystemPrompt when empty
	BasePrompt string
	// ProjectInstructions is the content of the project instructions file
	ProjectInstructions string
	Catalog             *skills.Catalog
	// Memory is the memory file found at startup, nil when there is none
	Memory *memory.File
	Tools  []fantasy.AgentTool
	// OnSkillActivated is called synchronously after a skill is injected
	OnSkillActivated func(name string)
}

// Session owns the message history of one conversation. It is not safe for
// concurrent use: turns must be submitted one after another.
type Session struct {
	id        string
	client    llm.Client
	catalog   *skills.Catalog
	selector  *Selector
	compactor *Compactor
	tools     []fantasy.AgentTool

	onSkillActivated func(name string)

	history   []llm.Message
	activated map[string]struct{}
	closed    atomic.Bool
}

// NewSession composes the system prompt and returns an active session.
func NewSession(client llm.Client, opts Options) (*Session, error) {
	if client == nil {
		return nil, errors.New("model client is required")
	}

	catalog := opts.Catalog
	if catalog == nil {
		catalog, _ = skills.NewCatalog()
	}

	var memoryContent string
	if opts.Memory != nil {
		memoryContent = opts.Memory.Content()
	}

	s := &Session{
		id:               uuid.NewString(),
		client:           client,
		catalog:          catalog,
		selector:         NewSelector(client, catalog),
		compactor:        NewCompactor(client, opts.Memory),
		tools:            opts.Tools,
		onSkillActivated: opts.OnSkillActivated,
		activated:        make(map[string]struct{}),
	}
	s.history = []llm.Message{
		llm.SystemMessage(ComposeSystemPrompt(opts.BasePrompt, opts.ProjectInstructions, catalog.Summarize(), memoryContent)),
	}
	return s, nil
}

// ID identifies the session in logs and traces.
func (s *Session) ID() string {
	return s.id
}

// SystemPrompt returns the composed initial system prompt.
func (s *Session) SystemPrompt() string {
	return s.history[0].Content
}

// History returns a copy of the conversation so far.
func (s *Session) History() []llm.Message {
	return slices.Clone(s.history)
}

// ActivatedSkills returns the names of the skills injected so far, sorted.
func (s *Session) ActivatedSkills() []string {
	names := make([]string, 0, len(s.activated))
	for name := range s.activated {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Catalog returns the skill catalog the session was built with.
func (s *Session) Catalog() *skills.Catalog {
	return s.catalog
}

func (s *Session) logContext(ctx context.Context) context.Context {
	return logger.WithFields(ctx, logrus.Fields{"session_id": s.id})
}

// Submit runs one user turn: skill selection, then the model call over the
// full history. The reply is recorded and returned.
func (s *Session) Submit(ctx context.Context, userText string) (string, error) {
	return s.complete(ctx, "session.submit", userText, true)
}

// Pulse runs an administrative turn triggered by inactivity. It behaves like
// Submit but never activates skills.
func (s *Session) Pulse(ctx context.Context, prompt string) (string, error) {
	return s.complete(ctx, "session.pulse", prompt, false)
}

func (s *Session) complete(ctx context.Context, spanName, userText string, selectSkill bool) (string, error) {
	ctx = s.logContext(ctx)
	ctx, span := tracer.Start(ctx, spanName, trace.WithAttributes(attribute.String("session.id", s.id)))
	defer span.End()

	if err := s.begin(ctx, userText, selectSkill); err != nil {
		recordError(span, err)
		return "", err
	}

	reply, err := s.client.Complete(ctx, s.History(), s.tools)
	if err != nil {
		err = wrapCollaborator(err, "completion")
		recordError(span, err)
		return "", err
	}

	s.history = append(s.history, llm.AssistantMessage(reply))
	return reply, nil
}

// SubmitAs runs a turn whose reply is decoded into T. The raw JSON reply is
// kept in history.
func SubmitAs[T any](ctx context.Context, s *Session, userText string) (T, error) {
	var zero T

	ctx = s.logContext(ctx)
	ctx, span := tracer.Start(ctx, "session.submit_structured", trace.WithAttributes(attribute.String("session.id", s.id)))
	defer span.End()

	if err := s.begin(ctx, userText, true); err != nil {
		recordError(span, err)
		return zero, err
	}

	value, raw, err := llm.CompleteAs[T](ctx, s.client, s.History())
	if err != nil {
		err = wrapCollaborator(err, "structured completion")
		recordError(span, err)
		return zero, err
	}

	s.history = append(s.history, llm.AssistantMessage(string(raw)))
	return value, nil
}

// SubmitStream runs a turn and yields reply fragments as they arrive. The
// turn starts when iteration starts. The reply is recorded only if the
// stream completes and the caller consumed it to the end.
func (s *Session) SubmitStream(ctx context.Context, userText string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		ctx := s.logContext(ctx)
		ctx, span := tracer.Start(ctx, "session.submit_stream", trace.WithAttributes(attribute.String("session.id", s.id)))
		defer span.End()

		if err := s.begin(ctx, userText, true); err != nil {
			recordError(span, err)
			yield("", err)
			return
		}

		var reply strings.Builder
		for fragment, err := range s.client.CompleteStreaming(ctx, s.History(), s.tools) {
			if err != nil {
				err = wrapCollaborator(err, "streaming completion")
				recordError(span, err)
				yield("", err)
				return
			}
			reply.WriteString(fragment)
			if !yield(fragment, nil) {
				logger.G(ctx).Debug("stream abandoned by caller, reply not recorded")
				return
			}
		}

		s.history = append(s.history, llm.AssistantMessage(reply.String()))
	}
}

// begin runs skill selection and records the user message. Selection
// happens first so an activation always precedes the message that caused it.
func (s *Session) begin(ctx context.Context, userText string, selectSkill bool) error {
	if s.closed.Load() {
		return ErrSessionClosed
	}

	if selectSkill {
		if err := s.selectSkill(ctx, userText); err != nil {
			return err
		}
	}

	s.history = append(s.history, llm.UserMessage(userText))
	return nil
}

func (s *Session) selectSkill(ctx context.Context, userText string) error {
	if s.catalog.IsEmpty() || len(s.activated) >= s.catalog.Len() {
		return nil
	}

	ctx, span := tracer.Start(ctx, "session.select_skill")
	defer span.End()

	def, err := s.selector.Select(ctx, userText)
	if err != nil {
		recordError(span, err)
		return err
	}
	if def == nil {
		return nil
	}
	span.SetAttributes(attribute.String("skill.name", def.Name()))
	s.activate(ctx, def)
	return nil
}

// Activate injects the named skill as if the selector had chosen it. It
// reports whether the skill was newly activated.
func (s *Session) Activate(ctx context.Context, name string) (bool, error) {
	if s.closed.Load() {
		return false, ErrSessionClosed
	}
	def, ok := s.catalog.Lookup(name)
	if !ok {
		return false, errors.Errorf("skill '%s' not found", name)
	}
	return s.activate(s.logContext(ctx), def), nil
}

func (s *Session) activate(ctx context.Context, def *skills.Definition) bool {
	log := logger.G(ctx).WithField("skill", def.Name())

	key := strings.ToLower(def.Name())
	if _, done := s.activated[key]; done {
		log.Debug("skill already active")
		return false
	}

	s.activated[key] = struct{}{}
	s.history = append(s.history, llm.SystemMessage(ActivationMessage(def)))
	log.Info("skill activated")

	if s.onSkillActivated != nil {
		s.onSkillActivated(def.Name())
	}
	return true
}

// ActivationMessage is the system message that injects def into history.
func ActivationMessage(def *skills.Definition) string {
	return "[skill activated: " + def.Name() + "]\n\n" + def.FullContent
}

// Close ends the session and compacts the transcript into memory. Only the
// first call does any work. Compaction is not cancelled by ctx, since the
// usual reason to close is that ctx was just cancelled.
func (s *Session) Close(ctx context.Context) (int, error) {
	if !s.closed.CompareAndSwap(false, true) {
		return 0, nil
	}

	ctx = s.logContext(context.WithoutCancel(ctx))
	ctx, span := tracer.Start(ctx, "session.close")
	defer span.End()

	n, err := s.compactor.Compact(ctx, s.History())
	if err != nil {
		recordError(span, err)
		logger.G(ctx).WithError(err).Error("memory compaction failed")
		return 0, err
	}
	span.SetAttributes(attribute.Int("memory.facts", n))
	return n, nil
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
