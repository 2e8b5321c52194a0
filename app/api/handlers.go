package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	matchevents "github.com/duelyard/fightcore/app/modules/match/domain/events"
	"github.com/duelyard/fightcore/app/shared"
)

// HandleHealthz reports liveness.
func (s *Server) HandleHealthz(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleState serves the raw match snapshot.
func (s *Server) HandleState(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.match.Snapshot())
}

// HandleHUD serves the derived HUD view model.
func (s *Server) HandleHUD(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.match.View())
}

// HandleStartMatch publishes a game-started fact. An empty body starts the
// default mode with roster-filled fighters.
func (s *Server) HandleStartMatch(w http.ResponseWriter, r *http.Request) {
	var payload matchevents.GameStartedPayload
	if err := decodeBody(r, &payload); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	s.publishFact(w, r, matchevents.GameStarted, payload)
}

// HandleSceneReady publishes a scene-ready fact. An empty body reports the
// fight scene, which is what advances a finished round.
func (s *Server) HandleSceneReady(w http.ResponseWriter, r *http.Request) {
	var payload matchevents.SceneReadyPayload
	if err := decodeBody(r, &payload); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if payload.SceneName == "" {
		payload.SceneName = matchevents.SceneFight
	}
	s.publishFact(w, r, matchevents.SceneReady, payload)
}

// HandleDamage publishes a fighter-damaged fact.
func (s *Server) HandleDamage(w http.ResponseWriter, r *http.Request) {
	var payload matchevents.FighterDamagedPayload
	if err := decodeBody(r, &payload); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if payload.FighterID == "" {
		http.Error(w, "missing fighterId", http.StatusBadRequest)
		return
	}
	s.publishFact(w, r, matchevents.FighterDamaged, payload)
}

// HandleDefeat publishes a fighter-defeated fact.
func (s *Server) HandleDefeat(w http.ResponseWriter, r *http.Request) {
	var payload matchevents.FighterDefeatedPayload
	if err := decodeBody(r, &payload); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if payload.FighterID == "" {
		http.Error(w, "missing fighterId", http.StatusBadRequest)
		return
	}
	s.publishFact(w, r, matchevents.FighterDefeated, payload)
}

// HandleRoundEnd publishes a round-ended fact.
func (s *Server) HandleRoundEnd(w http.ResponseWriter, r *http.Request) {
	var payload matchevents.RoundEndedPayload
	if err := decodeBody(r, &payload); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if payload.Winner == "" {
		http.Error(w, "missing winner", http.StatusBadRequest)
		return
	}
	s.publishFact(w, r, matchevents.RoundEnded, payload)
}

// HandleGameOver publishes a game-over fact.
func (s *Server) HandleGameOver(w http.ResponseWriter, r *http.Request) {
	var payload matchevents.GameOverPayload
	if err := decodeBody(r, &payload); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if payload.Winner == "" {
		http.Error(w, "missing winner", http.StatusBadRequest)
		return
	}
	s.publishFact(w, r, matchevents.GameOver, payload)
}

// pauseRequest is the optional POST /api/pause body.
type pauseRequest struct {
	Mode    string `json:"mode,omitempty"`
	Context string `json:"context,omitempty"`
}

// HandlePauseState serves the pause controller's current state.
func (s *Server) HandlePauseState(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.pause.State())
}

// HandlePause suspends gameplay. Mode defaults to the running match's mode
// and the context to the fight loop.
func (s *Server) HandlePause(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req pauseRequest
	if err := decodeBody(r, &req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if req.Mode == "" {
		req.Mode = string(s.match.Snapshot().Mode.Name)
	}
	if req.Context == "" {
		req.Context = matchevents.SceneFight
	}

	if _, err := s.pause.Pause(ctx, req.Mode, req.Context); err != nil {
		s.logger.ErrorContext(ctx, "pause request failed", slog.Any("error", err))
		http.Error(w, "pause failed", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, http.StatusOK, s.pause.State())
}

// HandleResume releases a suspended game.
func (s *Server) HandleResume(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, err := s.pause.Resume(ctx); err != nil {
		s.logger.ErrorContext(ctx, "resume request failed", slog.Any("error", err))
		http.Error(w, "resume failed", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, http.StatusOK, s.pause.State())
}

// HandleReturnToMenu abandons a paused match for the menu.
func (s *Server) HandleReturnToMenu(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if _, err := s.pause.ReturnToMenu(ctx); err != nil {
		s.logger.ErrorContext(ctx, "return to menu failed", slog.Any("error", err))
		http.Error(w, "return to menu failed", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, http.StatusOK, s.pause.State())
}

// HandleStatsTally serves the session win/loss tally.
func (s *Server) HandleStatsTally(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.stats.Tally())
}

// HandleStatsSession serves the full per-match session log.
func (s *Server) HandleStatsSession(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.stats.Session())
}

// HandleStatsSummary serves the persisted lifetime stats.
func (s *Server) HandleStatsSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.stats.FileSummary()
	if err != nil {
		s.logger.ErrorContext(r.Context(), "failed to read stats summary", slog.Any("error", err))
		http.Error(w, "failed to read stats summary", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, http.StatusOK, summary)
}

// HandleTimelinePNG renders the latest match's health timeline chart.
func (s *Server) HandleTimelinePNG(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "image/png")
	if err := s.stats.TimelinePNG(w); err != nil {
		s.logger.ErrorContext(r.Context(), "failed to render timeline", slog.Any("error", err))
		http.Error(w, "failed to render timeline", http.StatusInternalServerError)
	}
}

// publishFact puts a command fact on the bus and acknowledges acceptance.
// The outcome surfaces through the fact stream, not this response.
func (s *Server) publishFact(w http.ResponseWriter, r *http.Request, topic string, payload any) {
	if err := shared.PublishJSON(s.bus, topic, payload); err != nil {
		s.logger.ErrorContext(r.Context(), "failed to publish command fact",
			slog.String("topic", topic),
			slog.Any("error", err),
		)
		http.Error(w, "failed to publish fact", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted", "topic": topic})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("failed to encode response", slog.Any("error", err))
	}
}

// decodeBody decodes an optional JSON body. An empty body leaves dst at its
// zero value.
func decodeBody(r *http.Request, dst any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
