package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/anthropics/anthropic-sdk-go"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/maestrokit/maestro/internal/activity"
	"github.com/maestrokit/maestro/internal/config"
	"github.com/maestrokit/maestro/internal/orchestrator"
	"github.com/maestrokit/maestro/internal/recognizer"
	"github.com/maestrokit/maestro/internal/responses"
	"github.com/maestrokit/maestro/internal/skills"
	"github.com/maestrokit/maestro/internal/state"
	"github.com/maestrokit/maestro/internal/tui"
	"github.com/maestrokit/maestro/pkg/models"
)

// generalIntents describes the interruption intents for the Claude backend.
var generalIntents = map[string]string{
	orchestrator.IntentCancel:    "the user wants to cancel or abandon what is in progress",
	orchestrator.IntentHelp:      "the user asks what the assistant can do",
	orchestrator.IntentLogout:    "the user wants to sign out",
	orchestrator.IntentRepeat:    "the user asks to hear the last response again",
	orchestrator.IntentStartOver: "the user wants to start the conversation over",
	orchestrator.IntentEscalate:  "the user wants to reach a human",
	orchestrator.IntentStop:      "the user tells the assistant to stop talking",
}

func runConsole() error {
	if err := activity.ValidateEventTable(); err != nil {
		return fmt.Errorf("event table: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	locale := consoleLocale
	if locale == "" {
		locale = cfg.DefaultLocale
	}

	// Initialize state database
	dbPath := cfg.State.Path
	if dbPath == "" {
		dbPath = state.DefaultDBPath()
	}
	db, err := state.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open state database: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	resp, err := buildResponses(cfg)
	if err != nil {
		return fmt.Errorf("load response templates: %w", err)
	}

	general, err := buildGeneralRecognizer(cfg)
	if err != nil {
		return fmt.Errorf("build general recognizer: %w", err)
	}

	// Connected skills, optionally hot-reloaded when the file changes.
	skillsFile := cfg.Skills.File
	if skillsFile == "" {
		skillsFile = "skills.json"
	}

	notifier := &programNotifier{}
	var routerFn func() *skills.Router
	if cfg.Skills.Watch {
		watcher, err := skills.NewWatcher(skillsFile, func(r *skills.Router) {
			notifier.send(tui.SystemLineMsg{Text: fmt.Sprintf("skills reloaded (%d connected)", r.Len())})
		})
		if err != nil {
			return fmt.Errorf("watch skills file: %w", err)
		}
		defer watcher.Close()
		routerFn = watcher.Router
	} else {
		router, err := skills.LoadRouter(skillsFile)
		if err != nil {
			return fmt.Errorf("load skills file: %w", err)
		}
		routerFn = func() *skills.Router { return router }
	}

	logger := orchestrator.NewDebugLoggerForDataDir(filepath.Dir(dbPath))
	defer logger.Close()

	emitter := orchestrator.NewEventEmitter(64)
	defer emitter.Close()

	orch, err := orchestrator.New(orchestrator.Options{
		Config:    cfg,
		Store:     db,
		Responses: resp,
		Router:    routerFn,
		General:   general,
		Dispatch:  buildDispatch(cfg, routerFn),
		QnA:       buildQnA(cfg, locale),
		Threshold: cfg.Recognizer.Threshold,
		Logger:    logger,
		Emitter:   emitter,
	})
	if err != nil {
		return fmt.Errorf("build orchestrator: %w", err)
	}

	// Suppress log output while the console is active
	originalOutput := log.Writer()
	log.SetOutput(io.Discard)
	defer log.SetOutput(originalOutput)

	program, _ := tui.NewProgram(orch, consoleUserID, locale)
	notifier.set(program)

	// Surface turn errors from background processing as console lines.
	go func() {
		for ev := range emitter.Events() {
			if ev.Type == orchestrator.EventError {
				notifier.send(tui.SystemLineMsg{Text: "turn error: " + ev.Text})
			}
		}
	}()

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run console: %w", err)
	}
	return nil
}

// buildResponses loads templates from the configured directory, or the
// embedded collection when none is set.
func buildResponses(cfg *config.Config) (*responses.Manager, error) {
	if cfg.Responses.Dir != "" {
		return responses.New(os.DirFS(cfg.Responses.Dir), responses.DefaultLocales, responses.MainResponses)
	}
	return responses.Default()
}

// buildGeneralRecognizer selects the interruption recognizer backend.
func buildGeneralRecognizer(cfg *config.Config) (recognizer.Recognizer, error) {
	if cfg.Recognizer.Backend == "claude" {
		apiKey, err := resolveAPIKey(cfg)
		if err != nil {
			return nil, err
		}
		return recognizer.NewClaudeRecognizer(recognizer.ClaudeConfig{
			Model:         anthropic.Model(cfg.Anthropic.Model),
			APIKey:        apiKey,
			UseAWSBedrock: cfg.Anthropic.UseAWSBedrock,
			AWSRegion:     cfg.Anthropic.AWSRegion,
			AWSProfile:    cfg.Anthropic.AWSProfile,
			Intents:       generalIntents,
		})
	}
	if cfg.Recognizer.KeywordModelPath != "" {
		return recognizer.LoadKeywordModel(cfg.Recognizer.KeywordModelPath)
	}
	return recognizer.DefaultGeneral()
}

// resolveAPIKey resolves the Anthropic key for the Claude backend. Bedrock
// authenticates through AWS credentials, so a missing key only matters on
// the direct-API path.
func resolveAPIKey(cfg *config.Config) (string, error) {
	apiKey, err := config.GetAPIKey(cfg)
	if err != nil && !cfg.Anthropic.UseAWSBedrock {
		return "", fmt.Errorf("claude recognizer: %w", err)
	}
	return apiKey, nil
}

// programNotifier hands background messages to the TUI program once it
// exists. Callbacks start firing before NewProgram runs, so access to the
// pointer is guarded.
type programNotifier struct {
	mu sync.Mutex
	p  *tea.Program
}

func (n *programNotifier) set(p *tea.Program) {
	n.mu.Lock()
	n.p = p
	n.mu.Unlock()
}

func (n *programNotifier) send(msg tea.Msg) {
	n.mu.Lock()
	p := n.p
	n.mu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

// liveDispatch rebuilds its inner recognizer whenever the skill router is
// swapped by a reload, so new skills become dispatchable without a restart.
type liveDispatch struct {
	routerFn func() *skills.Router
	build    func(*skills.Router) (recognizer.Recognizer, error)

	mu     sync.Mutex
	router *skills.Router
	inner  recognizer.Recognizer
}

func (d *liveDispatch) Recognize(ctx context.Context, utterance string) (*models.RecognizerResult, error) {
	d.mu.Lock()
	router := d.routerFn()
	if d.inner == nil || router != d.router {
		inner, err := d.build(router)
		if err != nil {
			d.mu.Unlock()
			return nil, err
		}
		d.router = router
		d.inner = inner
	}
	inner := d.inner
	d.mu.Unlock()
	return inner.Recognize(ctx, utterance)
}

// buildDispatch builds the utterance dispatcher over the current router.
func buildDispatch(cfg *config.Config, routerFn func() *skills.Router) recognizer.Recognizer {
	build := buildKeywordDispatch
	if cfg.Recognizer.Backend == "claude" {
		anthropicCfg := cfg.Anthropic
		build = func(router *skills.Router) (recognizer.Recognizer, error) {
			apiKey, err := resolveAPIKey(cfg)
			if err != nil {
				return nil, err
			}
			intents := map[string]string{
				orchestrator.DispatchGeneral:  "small talk, greetings, or anything no skill covers",
				orchestrator.DispatchFAQ:      "a question answerable from the FAQ knowledge base",
				orchestrator.DispatchChitchat: "casual chitchat",
			}
			for _, m := range router.Manifests() {
				desc := m.Description
				if desc == "" {
					desc = m.Name
				}
				intents[m.Intent()] = desc
			}
			return recognizer.NewClaudeRecognizer(recognizer.ClaudeConfig{
				Model:         anthropic.Model(anthropicCfg.Model),
				APIKey:        apiKey,
				UseAWSBedrock: anthropicCfg.UseAWSBedrock,
				AWSRegion:     anthropicCfg.AWSRegion,
				AWSProfile:    anthropicCfg.AWSProfile,
				Intents:       intents,
			})
		}
	}
	return &liveDispatch{routerFn: routerFn, build: build}
}

// buildKeywordDispatch derives a keyword dispatcher from the connected
// skills: each skill's name and action names become trigger phrases for its
// dispatch intent.
func buildKeywordDispatch(router *skills.Router) (recognizer.Recognizer, error) {
	model := make(map[string]struct {
		Phrases  []string
		Patterns []string
	})
	for _, m := range router.Manifests() {
		phrases := []string{m.Name}
		for _, a := range m.Actions {
			if a.Name != "" {
				phrases = append(phrases, a.Name)
			}
		}
		model[m.Intent()] = struct {
			Phrases  []string
			Patterns []string
		}{Phrases: phrases}
	}
	return recognizer.NewKeywordRecognizer(model)
}

// buildQnA binds the configured QnA services for the locale.
func buildQnA(cfg *config.Config, locale string) map[string]recognizer.QnA {
	cm, ok := cfg.CognitiveModel(locale)
	if !ok {
		return nil
	}
	qna := make(map[string]recognizer.QnA, len(cm.QnA))
	for name, ref := range cm.QnA {
		if ref.Endpoint == "" {
			continue
		}
		qna[name] = recognizer.NewRestQnA(ref.Endpoint, ref.Key, ref.Threshold)
	}
	return qna
}
