// Package ai wraps the Gemini API behind the small surface the bot needs:
// chat and tutorial replies, image screening, and video analysis.
package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/bmrdev/editing-helper/internal/conversation"
	"github.com/bmrdev/editing-helper/internal/moderation"
	"github.com/bmrdev/editing-helper/internal/setup/config"
)

// Fallback strings sent when generation fails. Failed calls are never
// retried; the user can resend the message instead.
const (
	fallbackChat  = "Sorry, I encountered an error while processing your request. Please try again."
	fallbackEmpty = "I couldn't generate a response. Please try again."
	fallbackImage = "I couldn't analyze this image. Please try again."
	fallbackVideo = "Could not analyze video. Please try again."
)

// Mode selects which generation path a request takes.
type Mode int

const (
	// ModeChat is the default conversational reply.
	ModeChat Mode = iota
	// ModeTutorialBrief produces the quick summary for a chosen software.
	ModeTutorialBrief
	// ModeTutorialDetailed produces the full walkthrough.
	ModeTutorialDetailed
	// ModeVision answers about an attached image.
	ModeVision
	// ModeVideo analyzes an attached video clip.
	ModeVideo
)

// Request carries one generation call. Text is the user's message, or the
// original question in tutorial modes. Media is only read in the vision and
// video modes.
type Request struct {
	Mode     Mode
	UserID   uint64
	Username string
	Text     string
	Software string
	Media    []byte
	Filename string
}

// Generator produces replies from Gemini. Concurrent calls are bounded by a
// semaphore so a message burst cannot open unlimited upstream requests.
type Generator struct {
	client      *genai.Client
	model       string
	visionModel string
	histories   *conversation.Histories
	creatorOf   func(string) bool
	sem         *semaphore.Weighted
	logger      *zap.Logger
}

// NewGenerator creates a Generator on the given Gemini client.
func NewGenerator(client *genai.Client, cfg *config.GeminiAI, histories *conversation.Histories, creatorOf func(string) bool, logger *zap.Logger) *Generator {
	return &Generator{
		client:      client,
		model:       cfg.Model,
		visionModel: cfg.VisionModel,
		histories:   histories,
		creatorOf:   creatorOf,
		sem:         semaphore.NewWeighted(cfg.MaxConcurrent),
		logger:      logger.Named("generator"),
	}
}

// Respond produces the reply text for a request. Failures come back as a
// fixed fallback string, already logged, so the caller can always send the
// result as-is.
func (g *Generator) Respond(ctx context.Context, req Request) string {
	if err := g.sem.Acquire(ctx, 1); err != nil {
		g.logger.Warn("Dropped generation request", zap.Error(err))
		return fallbackChat
	}
	defer g.sem.Release(1)

	switch req.Mode {
	case ModeVideo:
		return g.respondVideo(ctx, req)
	case ModeVision:
		return g.respondVision(ctx, req)
	default:
		return g.respondText(ctx, req)
	}
}

// ModerateImage screens an image and reports whether it should be removed,
// with the model's stated reason. Screening failures pass the image rather
// than punish the user for an upstream error.
func (g *Generator) ModerateImage(ctx context.Context, data []byte) (bool, string) {
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return false, ""
	}
	defer g.sem.Release(1)

	model := g.client.GenerativeModel(g.visionModel)
	resp, err := model.GenerateContent(ctx,
		genai.Blob{MIMEType: "image/jpeg", Data: data},
		genai.Text(imageModerationPrompt),
	)
	if err != nil {
		g.logger.Error("Image screening failed", zap.Error(err))
		return false, ""
	}

	verdict := strings.TrimSpace(responseText(resp))
	if strings.HasPrefix(strings.ToUpper(verdict), "YES") {
		return true, verdict
	}
	return false, ""
}

func (g *Generator) respondText(ctx context.Context, req Request) string {
	systemPrompt := g.systemPromptFor(req)

	var prompt strings.Builder
	prompt.WriteString(systemPrompt)
	prompt.WriteString(userContext(req.Username, g.creatorOf(req.Username)))

	if req.Mode == ModeChat {
		if history := g.histories.Render(req.UserID); history != "" {
			prompt.WriteString("\n\nConversation so far:\n")
			prompt.WriteString(history)
		}
	}

	prompt.WriteString("\n\nUser's message: ")
	prompt.WriteString(req.Text)

	model := g.client.GenerativeModel(g.model)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt.String()))
	if err != nil {
		g.logger.Error("Generation failed",
			zap.Uint64("user_id", req.UserID),
			zap.Error(err))
		return fallbackChat
	}

	text := responseText(resp)
	if text == "" {
		return fallbackEmpty
	}

	if req.Mode == ModeChat {
		g.histories.AppendExchange(req.UserID, req.Text, text)
	}

	if req.Mode == ModeTutorialBrief && !strings.HasSuffix(strings.TrimSpace(text), "?") {
		text = strings.TrimSpace(text) + detailOfferSuffix
	}

	return text
}

func (g *Generator) respondVision(ctx context.Context, req Request) string {
	question := req.Text
	if question == "" {
		question = "Please analyze this screenshot and help me."
	}

	prompt := fmt.Sprintf("%s%s\n\nThe user has sent an image. Analyze it carefully and help them.\n\nUser's message: %s",
		g.systemPromptFor(req),
		userContext(req.Username, g.creatorOf(req.Username)),
		question)

	model := g.client.GenerativeModel(g.visionModel)
	resp, err := model.GenerateContent(ctx,
		genai.Blob{MIMEType: "image/jpeg", Data: req.Media},
		genai.Text(prompt),
	)
	if err != nil {
		g.logger.Error("Image analysis failed",
			zap.Uint64("user_id", req.UserID),
			zap.Error(err))
		return fallbackImage
	}

	if text := responseText(resp); text != "" {
		return text
	}
	return fallbackImage
}

func (g *Generator) respondVideo(ctx context.Context, req Request) string {
	mimeType, err := VideoMIMEType(req.Filename)
	if err != nil {
		return fallbackVideo
	}

	model := g.client.GenerativeModel(g.model)
	resp, err := model.GenerateContent(ctx,
		genai.Blob{MIMEType: mimeType, Data: req.Media},
		genai.Text(videoAnalysisPrompt),
	)
	if err != nil {
		g.logger.Error("Video analysis failed",
			zap.Uint64("user_id", req.UserID),
			zap.String("filename", req.Filename),
			zap.Error(err))
		return fallbackVideo
	}

	if text := responseText(resp); text != "" {
		return text
	}
	return fallbackVideo
}

// systemPromptFor picks the persona for a request. Tutorial modes use their
// templates; plain chat flips to the sassy persona when the message is rude.
func (g *Generator) systemPromptFor(req Request) string {
	switch req.Mode {
	case ModeTutorialBrief:
		return briefTutorialPrompt(req.Software)
	case ModeTutorialDetailed:
		return detailedTutorialPrompt(req.Software)
	default:
		if moderation.DetectRudeness(req.Text) {
			return rudeSystemPrompt
		}
		return defaultSystemPrompt
	}
}

// AskSoftwareQuestion is the fixed reply that opens the tutorial flow.
func AskSoftwareQuestion() string {
	return askSoftwarePrompt
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	return b.String()
}
