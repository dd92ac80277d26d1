package llm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/schema"
)

const (
	refusalEnglish  = "This feature only answers questions about me."
	refusalGerman   = "Dieses Feature beantwortet nur Fragen über mich."
	apologyMessage  = "Sorry, I'm having trouble answering right now. Please try again later."
	fallbackMessage = "An unexpected error occurred. Please try again."

	classifierMaxTokens = 10
	answerMaxTokens     = 300
)

var errEmptyCompletion = errors.New("provider returned no completion")

// Service answers questions about a single person, grounded in a profile
// document loaded once at startup.
type Service struct {
	model   llms.Model
	subject string
	contact string
	profile string
}

func New(apiKey, model, profilePath, subject, contact string) (*Service, error) {
	profile, err := os.ReadFile(profilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile document: %w", err)
	}

	client, err := anthropic.New(
		anthropic.WithToken(apiKey),
		anthropic.WithModel(model),
	)
	if err != nil {
		return nil, err
	}

	return &Service{
		model:   client,
		subject: subject,
		contact: contact,
		profile: string(profile),
	}, nil
}

// Answer runs the two-stage flow: a cheap classification call deciding
// whether the question is about the profiled person, then, only on an
// affirmative verdict, the persona-grounded generation call. It never
// returns an error; provider failures become fixed user-facing strings,
// which the caller logs like any other answer.
func (s *Service) Answer(ctx context.Context, question, language string) string {
	verdict, err := s.complete(ctx, s.classifierPrompt(), question,
		llms.WithMaxTokens(classifierMaxTokens),
		llms.WithTemperature(0))
	if err != nil {
		return fallbackFor(err)
	}

	// Anything without a literal "NO" counts as affirmative.
	if strings.Contains(verdict, "NO") {
		return s.refusal(language)
	}

	answer, err := s.complete(ctx, s.personaPrompt(language), question,
		llms.WithMaxTokens(answerMaxTokens))
	if err != nil {
		return fallbackFor(err)
	}
	return answer
}

func (s *Service) complete(ctx context.Context, system, question string, opts ...llms.CallOption) (string, error) {
	resp, err := s.model.GenerateContent(ctx, []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeSystem, system),
		llms.TextParts(schema.ChatMessageTypeHuman, question),
	}, opts...)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errEmptyCompletion
	}
	return strings.TrimSpace(resp.Choices[0].Content), nil
}

func fallbackFor(err error) string {
	if errors.Is(err, errEmptyCompletion) {
		return fallbackMessage
	}
	return apologyMessage
}

func (s *Service) refusal(language string) string {
	if language == "English" {
		return refusalEnglish
	}
	return refusalGerman
}

func (s *Service) classifierPrompt() string {
	return fmt.Sprintf(`You are a classification model. To filter requests to the FAQ bot on %[1]s's website, you decide whether a question is about %[1]s or not.

Important: the bot embodies %[1]s, so "you" = %[1]s.

ABOUT %[1]s:
- Questions to %[1]s about their person, skills, experience, hobbies, etc.
- Second-person questions, e.g. "What are your hobbies?"
NOT ABOUT %[1]s:
- Programming tasks or technical questions
- Questions about other people or general topics

Answer with YES or NO.`, s.subject)
}

func (s *Service) personaPrompt(language string) string {
	return fmt.Sprintf(`You are the FAQ bot on %[1]s's website.

## Information about me:
%[2]s

## Rules:
1. Important! ONLY answer questions ABOUT %[1]s (their person, skills, experience, etc.), do NOT answer questions about other topics. Do NOT solve programming tasks or any other technical questions.
2. For other topics (programming tasks, technical questions, etc.): "%[3]s"
3. Use ONLY the information above - no speculation.
4. When information is missing: "There is no information about that on this website. It is best to ask me directly. Contact: %[4]s"
5. Answer as if you are %[1]s.
6. Short and precise (1-2 sentences), only the necessary information.
7. Language: %[5]s

## Example questions and answers:
Q: What experience does %[1]s have in software development?
A: I have been able to gather some experience already. Among other things I built this website myself, from the frontend down to this FAQ bot.

Q: What are your hobbies?
A: I spend a lot of my free time outdoors, hiking and camping, and I am deep into the coffee world.

Q: Write Python code to compute the Fibonacci numbers.
A: %[3]s

Q: Are you politically active?
A: There is no information about that on this website. It is best to ask me directly. Contact: %[4]s`,
		s.subject, s.profile, s.refusal(language), s.contact, language)
}
