package services

import (
	"context"
	"errors"
	"fmt"
	"medilens/internal/gateway"
	"medilens/internal/models"
	"medilens/internal/providers"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

type View string

const (
	ViewHome    View = "home"
	ViewHistory View = "history"
	ViewResult  View = "result"
)

func (v View) Valid() bool {
	return v == ViewHome || v == ViewHistory || v == ViewResult
}

var (
	ErrBusy        = errors.New("an analysis is already in progress")
	ErrEmptyInput  = errors.New("nothing to analyze")
	ErrFileRead    = errors.New("failed to read file")
	ErrNotFound    = errors.New("result not found")
	ErrUnknownView = errors.New("unknown view")
)

// FileReadMessage is shown when an uploaded image cannot be read.
const FileReadMessage = "Failed to read file"

// State is a point-in-time copy of the session.
type State struct {
	View       View                   `json:"view"`
	Active     *models.AnalysisResult `json:"active,omitempty"`
	Error      string                 `json:"error,omitempty"`
	Processing bool                   `json:"processing"`
}

type SessionServiceInterface interface {
	SubmitImage(ctx context.Context, data []byte, contentType string) (models.AnalysisResult, error)
	SubmitText(ctx context.Context, text string) (models.AnalysisResult, error)
	Navigate(view View) error
	Open(id string) (models.AnalysisResult, error)
	Back()
	Delete(id string) []models.AnalysisResult
	State() State
}

// SessionService holds the view state and wires submissions to the gateway
// and the history. At most one gateway call is in flight.
type SessionService struct {
	mu         sync.Mutex
	view       View
	activeID   string
	lastError  string
	generation uint64

	busy atomic.Bool

	gateway gateway.Gateway
	history HistoryServiceInterface
	clock   Clock
	logger  providers.Logger
}

func NewSessionService(gw gateway.Gateway, history HistoryServiceInterface, clock Clock, logger providers.Logger) SessionServiceInterface {
	return &SessionService{
		view:    ViewHome,
		gateway: gw,
		history: history,
		clock:   clock,
		logger:  logger,
	}
}

func (s *SessionService) SubmitImage(ctx context.Context, data []byte, contentType string) (models.AnalysisResult, error) {
	if len(data) == 0 {
		s.setError(FileReadMessage)
		return models.AnalysisResult{}, ErrFileRead
	}
	uri := gateway.DataURI(data, contentType)
	return s.submit(ctx, gateway.SourceImage, uri, func(ctx context.Context) (string, error) {
		return s.gateway.AnalyzeImage(ctx, uri)
	})
}

func (s *SessionService) SubmitText(ctx context.Context, text string) (models.AnalysisResult, error) {
	if strings.TrimSpace(text) == "" {
		return models.AnalysisResult{}, ErrEmptyInput
	}
	return s.submit(ctx, gateway.SourceText, "", func(ctx context.Context) (string, error) {
		return s.gateway.AnalyzeText(ctx, text)
	})
}

func (s *SessionService) submit(ctx context.Context, source gateway.Source, imageURL string, call func(context.Context) (string, error)) (models.AnalysisResult, error) {
	if !s.busy.CompareAndSwap(false, true) {
		return models.AnalysisResult{}, ErrBusy
	}
	defer s.busy.Store(false)

	s.mu.Lock()
	s.lastError = ""
	gen := s.generation
	s.mu.Unlock()

	// the caller going away must not lose a paid analysis; gateway.timeout bounds it
	text, err := call(context.WithoutCancel(ctx))
	if err != nil {
		s.logger.Errorf(providers.TypeGateway, "Analysis of %s failed: %s", source, err)
		s.setError(gateway.UserMessage(err))
		return models.AnalysisResult{}, err
	}
	if strings.TrimSpace(text) == "" {
		text = gateway.FallbackText(source)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return models.AnalysisResult{}, fmt.Errorf("result id: %w", err)
	}
	result := models.NewAnalysisResult(id.String(), s.clock.Now(), imageURL, text)
	s.history.Append(result)

	s.mu.Lock()
	if s.generation == gen {
		s.view = ViewResult
		s.activeID = result.ID
		s.generation++
	} else {
		s.logger.Debugf(providers.TypeApp, "Result %s stored without navigation, view changed meanwhile", result.ID)
	}
	s.mu.Unlock()

	return result, nil
}

// Navigate switches screens. The result view needs an active result; use Open.
func (s *SessionService) Navigate(view View) error {
	if !view.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownView, view)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if view == ViewResult && s.activeID == "" {
		return fmt.Errorf("%w: no active result", ErrNotFound)
	}
	if view == ViewHome {
		s.activeID = ""
	}
	s.view = view
	s.lastError = ""
	s.generation++
	return nil
}

func (s *SessionService) Open(id string) (models.AnalysisResult, error) {
	result, ok := s.history.Get(id)
	if !ok {
		return models.AnalysisResult{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = ViewResult
	s.activeID = id
	s.lastError = ""
	s.generation++
	return result, nil
}

func (s *SessionService) Back() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = ViewHome
	s.activeID = ""
	s.generation++
}

// Delete removes id from history and returns what remains. Deleting the
// active result moves the session to the history view.
func (s *SessionService) Delete(id string) []models.AnalysisResult {
	remaining := s.history.Remove(id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.activeID == id {
		s.activeID = ""
		if s.view == ViewResult {
			s.view = ViewHistory
			s.generation++
		}
	}
	return remaining
}

func (s *SessionService) State() State {
	s.mu.Lock()
	state := State{
		View:       s.view,
		Error:      s.lastError,
		Processing: s.busy.Load(),
	}
	activeID := s.activeID
	s.mu.Unlock()

	if activeID != "" {
		if result, ok := s.history.Get(activeID); ok {
			state.Active = &result
		}
	}
	return state
}

func (s *SessionService) setError(msg string) {
	s.mu.Lock()
	s.lastError = msg
	s.mu.Unlock()
}
