package presentation

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"

	"github.com/BerylCAtieno/ai-stack-agent/internal/logger"
	"github.com/BerylCAtieno/ai-stack-agent/internal/models"
)

// Narration is the read-aloud text for a result.
func Narration(r *models.StackResult) string {
	if r == nil || r.Stack == nil {
		return ""
	}
	names := make([]string, 0, len(r.Recommendations))
	for _, rec := range SortByPriority(r.Recommendations) {
		names = append(names, rec.ToolName)
	}

	s := r.Stack
	return fmt.Sprintf("%s. %s. Análise: %s. Suas recomendações incluem: %s. Economia estimada: %s.",
		clause(s.Title), clause(s.Description), clause(s.OverallAnalysis), strings.Join(names, ", "), clause(s.EstimatedSavings))
}

// clause trims trailing terminators; Narration adds its own.
func clause(s string) string {
	return strings.TrimRight(strings.TrimSpace(s), ".!? ")
}

type speechEngine struct {
	bin  string
	args func(text string) []string
}

var speechEngines = []speechEngine{
	{bin: "espeak-ng", args: func(text string) []string { return []string{"-v", "pt-br", text} }},
	{bin: "espeak", args: func(text string) []string { return []string{"-v", "pt-br", text} }},
	{bin: "say", args: func(text string) []string { return []string{text} }},
}

// Speaker reads text aloud through a local speech synthesizer. Without one
// installed every call is a silent no-op.
type Speaker struct {
	engine *speechEngine
	log    *logger.Logger

	mu      sync.Mutex
	cmd     *exec.Cmd
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

func NewSpeaker(log *logger.Logger) *Speaker {
	for i := range speechEngines {
		if _, err := exec.LookPath(speechEngines[i].bin); err == nil {
			return &Speaker{engine: &speechEngines[i], log: log}
		}
	}
	log.Debug("no speech synthesizer found, narration disabled")
	return &Speaker{log: log}
}

func (s *Speaker) Available() bool { return s.engine != nil }

func (s *Speaker) Speaking() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Speak starts reading text, replacing anything currently being spoken. It
// returns once the synthesizer has started.
func (s *Speaker) Speak(ctx context.Context, text string) error {
	if s.engine == nil || strings.TrimSpace(text) == "" {
		return nil
	}
	s.Stop()

	ctx, cancel := context.WithCancel(ctx)
	cmd := exec.CommandContext(ctx, s.engine.bin, s.engine.args(text)...)
	if err := cmd.Start(); err != nil {
		cancel()
		return fmt.Errorf("start %s: %w", s.engine.bin, err)
	}

	done := make(chan struct{})
	s.mu.Lock()
	s.cmd, s.cancel, s.done, s.running = cmd, cancel, done, true
	s.mu.Unlock()

	go func() {
		defer close(done)
		if err := cmd.Wait(); err != nil && ctx.Err() == nil {
			s.log.Warn("speech synthesizer exited", "bin", s.engine.bin, "error", err)
		}
		s.mu.Lock()
		if s.cmd == cmd {
			s.running = false
		}
		s.mu.Unlock()
	}()
	return nil
}

// Wait blocks until the current utterance finishes.
func (s *Speaker) Wait() {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	if done != nil {
		<-done
	}
}

// Stop cancels the current utterance, if any.
func (s *Speaker) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel = nil
	s.running = false
	s.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}
