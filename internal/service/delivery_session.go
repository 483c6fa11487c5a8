package service

import (
	"context"
	"time"

	"taqyim_backend/internal/model"
	"taqyim_backend/pkg/logger"

	"go.uber.org/zap"
)

// Event types pushed over the session stream.
const (
	EventState     = "state"
	EventCountdown = "countdown"
	EventWarning   = "warning"
	EventSubmitted = "submitted"
)

// Thresholds, in seconds remaining, at which a timed session emits a
// warning. Each fires at most once per session, persisted so a resume does
// not replay them.
var countdownWarnings = []int{300, 120, 60}

// DeliveryEvent is one message on a session's event stream.
type DeliveryEvent struct {
	Type      string `json:"type"`
	State     string `json:"state,omitempty"`
	Remaining int    `json:"remaining,omitempty"`
	Threshold int    `json:"threshold,omitempty"`
	Cause     string `json:"cause,omitempty"`
}

type sessionRunner struct {
	stop chan struct{}
}

// Subscribe registers a listener for one participant's session events. The
// returned cancel func must be called when the listener goes away. Slow
// listeners drop events rather than stall the session.
func (s *DeliveryService) Subscribe(participantID string) (<-chan DeliveryEvent, func()) {
	ch := make(chan DeliveryEvent, 16)

	s.mu.Lock()
	subs, ok := s.subscribers[participantID]
	if !ok {
		subs = make(map[chan DeliveryEvent]struct{})
		s.subscribers[participantID] = subs
	}
	subs[ch] = struct{}{}
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if subs, ok := s.subscribers[participantID]; ok {
			if _, present := subs[ch]; present {
				delete(subs, ch)
				close(ch)
			}
			if len(subs) == 0 {
				delete(s.subscribers, participantID)
			}
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *DeliveryService) broadcast(participantID string, ev DeliveryEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.subscribers[participantID] {
		select {
		case ch <- ev:
		default:
		}
	}
}

// startRunner launches the per-session ticker goroutine. At most one runner
// exists per participant; starting an already-running session is a no-op.
func (s *DeliveryService) startRunner(participantID string) {
	s.mu.Lock()
	if _, ok := s.runners[participantID]; ok {
		s.mu.Unlock()
		return
	}
	r := &sessionRunner{stop: make(chan struct{})}
	s.runners[participantID] = r
	s.mu.Unlock()

	go func() {
		ticker := time.NewTicker(s.tickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-r.stop:
				return
			case <-ticker.C:
				if s.handleTick(participantID) {
					s.stopRunner(participantID)
					return
				}
			}
		}
	}()
}

func (s *DeliveryService) stopRunner(participantID string) {
	s.mu.Lock()
	r, ok := s.runners[participantID]
	if ok {
		delete(s.runners, participantID)
	}
	s.mu.Unlock()
	if ok {
		close(r.stop)
	}
}

// handleTick advances one timed session by one tick: broadcast the
// countdown, fire any warnings whose threshold has been crossed, and submit
// when the clock hits zero. Returns true when the runner should exit.
func (s *DeliveryService) handleTick(participantID string) bool {
	lock := s.lockFor(participantID)
	lock.Lock()

	st, ok, err := s.States.Get(participantID)
	if err != nil {
		lock.Unlock()
		logger.Log.Error("failed to load session state on tick",
			zap.String("participantId", participantID),
			zap.Error(err))
		return false
	}
	if !ok || st.State != model.StateQuestions || st.Deadline == nil {
		lock.Unlock()
		return true
	}

	remaining := st.Remaining(s.now())

	var fired []int
	for _, threshold := range countdownWarnings {
		if remaining > 0 && remaining <= threshold && !st.FiredWarnings[threshold] {
			st.FiredWarnings[threshold] = true
			fired = append(fired, threshold)
		}
	}
	if len(fired) > 0 {
		st.UpdatedAt = s.now()
		if err := s.States.Save(st); err != nil {
			logger.Log.Warn("failed to persist fired warnings",
				zap.String("participantId", participantID),
				zap.Error(err))
		}
	}
	assessmentID := st.AssessmentID
	lock.Unlock()

	s.broadcast(participantID, DeliveryEvent{Type: EventCountdown, Remaining: remaining})
	for _, threshold := range fired {
		s.broadcast(participantID, DeliveryEvent{Type: EventWarning, Threshold: threshold, Remaining: remaining})
	}

	if remaining == 0 {
		if _, err := s.SubmitSession(context.Background(), participantID, assessmentID, nil, CauseTimer); err != nil {
			logger.Log.Error("timer-triggered submission failed",
				zap.String("participantId", participantID),
				zap.Error(err))
		}
		return true
	}
	return false
}
