package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/wallacegibbon/skillclaw/internal/llm"
	"github.com/wallacegibbon/skillclaw/internal/logger"
	"github.com/wallacegibbon/skillclaw/internal/skills"
)

const selectionPrompt = `You route user messages to skills.
Decide whether exactly one of the skills below is needed to answer the user's next message.
Reply with the exact skill name, or null when no skill clearly applies. Never invent names.

%s`

type selection struct {
	SkillName *string `json:"skillName" jsonschema:"description=Exact name of the skill to activate or null"`
}

// Selector asks the model which skill, if any, a user message needs
type Selector struct {
	client  llm.Client
	catalog *skills.Catalog
}

// NewSelector creates a selector over catalog.
func NewSelector(client llm.Client, catalog *skills.Catalog) *Selector {
	return &Selector{client: client, catalog: catalog}
}

// Select returns the skill chosen for userText, or nil when none applies.
// A name that is not in the catalog is a protocol violation.
func (s *Selector) Select(ctx context.Context, userText string) (*skills.Definition, error) {
	history := []llm.Message{
		llm.SystemMessage(fmt.Sprintf(selectionPrompt, s.catalog.Summarize())),
		llm.UserMessage(userText),
	}

	choice, raw, err := llm.CompleteAs[selection](ctx, s.client, history)
	if err != nil {
		return nil, wrapCollaborator(err, "skill selection")
	}
	logger.G(ctx).WithField("reply", string(raw)).Debug("skill selection reply")

	if choice.SkillName == nil {
		return nil, nil
	}
	name := strings.TrimSpace(*choice.SkillName)
	if isNoSkill(name) {
		return nil, nil
	}

	def, ok := s.catalog.Lookup(name)
	if !ok {
		logger.G(ctx).WithFields(logrus.Fields{"skill": name}).Error("selector chose a skill outside the catalog")
		return nil, errors.Wrapf(ErrProtocolViolation, "selector chose unknown skill '%s'", name)
	}
	return def, nil
}

func isNoSkill(name string) bool {
	return name == "" || strings.EqualFold(name, "none") || strings.EqualFold(name, "null")
}
