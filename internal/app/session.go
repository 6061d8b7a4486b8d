package app

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/bomi-coder/liar-game/internal/domain"
)

// Round-result reasons
const (
	ReasonNoVotes       = "no_votes"
	ReasonWrongAccuse   = "wrong_accusation"
	ReasonUnresolvedTie = "unresolved_tie"
	ReasonLiarCorrect   = "liar_correct"
	ReasonLiarWrong     = "liar_wrong"
	ReasonGuessTimeout  = "guess_timeout"
)

// ClientConnection represents a connected client
type ClientConnection interface {
	Send(message interface{}) error
	GetPlayerID() string
	Close() error
}

// RoomSession wraps a room with concurrency control, the phase timer and
// client management. All room mutations, whether commands, timer expiries
// or speaker advances, are serialized under one mutex, so a host command
// racing a timer expiry resolves to whichever acquires the lock first; the
// loser is re-validated against the updated phase and dropped.
type RoomSession struct {
	room      *domain.Room
	mu        sync.Mutex
	timer     *PhaseTimer
	timerGen  uint64 // generation of the live countdown, guarded by mu
	clients   map[string]ClientConnection // playerID -> client
	clientsMu sync.RWMutex
	logger    *slog.Logger

	// Event channel for broadcasting
	events chan *domain.Event
	done   chan struct{}
}

// NewRoomSession creates a session for the given room
func NewRoomSession(room *domain.Room, logger *slog.Logger) *RoomSession {
	s := &RoomSession{
		room:    room,
		timer:   NewPhaseTimer(),
		clients: make(map[string]ClientConnection),
		logger:  logger,
		events:  make(chan *domain.Event, 100),
		done:    make(chan struct{}),
	}

	go s.eventLoop()

	return s
}

// RoomCode returns the room identifier
func (s *RoomSession) RoomCode() string {
	return s.room.ID
}

// CreatedAt returns when the room was created
func (s *RoomSession) CreatedAt() time.Time {
	return s.room.CreatedAt
}

// Phase returns the current room phase
func (s *RoomSession) Phase() domain.Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.room.Phase
}

// PlayerCount returns the roster size, disconnected players included
func (s *RoomSession) PlayerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.room.Players)
}

// ConnectedCount returns the number of connected players
func (s *RoomSession) ConnectedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.room.ConnectedCount()
}

// CanJoin checks whether a new player fits in the roster
func (s *RoomSession) CanJoin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.room.Players) < s.room.Settings.MaxPlayers
}

// RegisterClient registers a client connection for a player
func (s *RoomSession) RegisterClient(playerID string, client ClientConnection) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	s.clients[playerID] = client
}

// UnregisterClient removes a client connection
func (s *RoomSession) UnregisterClient(playerID string) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	delete(s.clients, playerID)
}

// Join adds a player or re-attaches a disconnected one by name. The
// returned player carries the stable ID the caller must adopt; on a name
// reconnect it differs from the provisional connection ID.
func (s *RoomSession) Join(playerID, name string) (*domain.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	player, err := s.room.Join(playerID, name)
	if err != nil {
		return nil, err
	}

	s.queueEvent(domain.NewPlayerEvent(domain.EventJoined, s.room.ID, player.ID, &domain.JoinedPayload{
		PlayerID: player.ID,
		Name:     player.Name,
		RoomID:   s.room.ID,
	}))
	s.broadcastPlayerListLocked()

	return player, nil
}

// Reconnect re-attaches a returning connection by stable player ID
func (s *RoomSession) Reconnect(playerID string) (*domain.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	player, err := s.room.FindPlayer(playerID)
	if err != nil {
		return nil, err
	}

	player.Reconnect()
	s.broadcastPlayerListLocked()

	return player, nil
}

// Disconnect handles a dropped connection. Mid-game the player is retained
// with score for a later reconnect; a running speaker timer keeps going and
// the scheduler will skip the player when the turn pointer reaches them.
func (s *RoomSession) Disconnect(playerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.room.FindPlayer(playerID); err != nil {
		return
	}
	s.room.Leave(playerID)
	s.broadcastPlayerListLocked()
}

// ClaimHost grants host authority when the code matches the room secret
func (s *RoomSession) ClaimHost(playerID, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.room.ClaimHost(playerID, code); err != nil {
		return err
	}

	s.broadcastPlayerListLocked()
	return nil
}

// StartGame begins round one. Host only, lobby only, enough players.
func (s *RoomSession) StartGame(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.room.IsHost(playerID) {
		return domain.ErrNotAuthorized
	}
	if s.room.Phase != domain.PhaseLobby {
		return domain.ErrIllegalTransition
	}
	if !s.room.CanStart() {
		return domain.ErrNotEnoughPlayers
	}

	for _, p := range s.room.Players {
		p.Score = 0
	}
	s.room.Round = 0
	s.room.UsedPairs = make(map[string]bool)

	s.queueEvent(domain.NewEvent(domain.EventGameStart, s.room.ID, &domain.GameStartPayload{
		TotalRounds: s.room.Settings.TotalRounds,
	}))
	s.startRoundLocked()

	return nil
}

// Vote records a vote in the open voting round. Resubmitting overwrites;
// the latest choice before closure is the one counted.
func (s *RoomSession) Vote(voterID, targetID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.room.Phase.IsVoting() || s.room.Current == nil {
		return domain.ErrVoteOutOfPhase
	}
	if voterID == targetID {
		return domain.ErrSelfVote
	}
	voter, err := s.room.FindPlayer(voterID)
	if err != nil {
		return err
	}
	if !voter.Connected {
		return domain.ErrPlayerNotFound
	}
	target, err := s.room.FindPlayer(targetID)
	if err != nil || !target.Connected {
		return domain.ErrInvalidVoteTarget
	}

	round := s.room.Current
	voteRound := 1
	tally := round.Tally1
	if s.room.Phase == domain.PhaseVote2 {
		voteRound = 2
		tally = round.Tally2
		// The second vote is restricted to the tied leaders
		if !round.IsTieCandidate(targetID) {
			return domain.ErrInvalidVoteTarget
		}
	}

	tally.Cast(voterID, targetID)

	s.queueEvent(domain.NewEvent(domain.EventVoteUpdate, s.room.ID, &domain.VoteUpdatePayload{
		Round:       voteRound,
		Votes:       tally.Votes(),
		VotedCount:  tally.VoterCount(),
		TotalVoters: s.room.ConnectedCount(),
	}))

	// Close early once every connected player has voted
	if s.allConnectedVotedLocked(tally) {
		s.closeVoteLocked()
	}

	return nil
}

// LiarGuess resolves the accused liar's free-text guess. Matching is
// case-insensitive with all whitespace stripped.
func (s *RoomSession) LiarGuess(playerID, guess string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.room.Phase != domain.PhaseLiarGuess || s.room.Current == nil {
		return domain.ErrGuessOutOfPhase
	}
	if playerID != s.room.Current.LiarID {
		return domain.ErrNotLiar
	}
	if strings.TrimSpace(guess) == "" {
		return domain.ErrEmptyGuess
	}

	if normalizeGuess(guess) == normalizeGuess(s.room.Current.SecretWord) {
		s.finishRoundLocked(domain.SideLiar, ReasonLiarCorrect)
	} else {
		s.finishRoundLocked(domain.SideCitizens, ReasonLiarWrong)
	}
	return nil
}

// ManualNextPhase is the host override. The target must be reachable from
// the current phase in the transition graph; from a voting phase any
// reachable target closes the vote and the tally decides the branch.
func (s *RoomSession) ManualNextPhase(playerID string, target domain.Phase) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.room.IsHost(playerID) {
		return domain.ErrNotAuthorized
	}
	if !s.room.Phase.CanTransitionTo(target) {
		return domain.ErrIllegalTransition
	}

	switch {
	case target == domain.PhaseLobby:
		s.resetLocked()
	case s.room.Phase == domain.PhaseRoleAssign && target == domain.PhaseHintTurns:
		s.beginHintTurnsLocked()
	case s.room.Phase == domain.PhaseHintTurns && target == domain.PhaseHintTurns:
		s.advanceSpeakerLocked()
	case s.room.Phase == domain.PhaseHintTurns && target == domain.PhaseDiscussion:
		s.startDiscussionLocked()
	case s.room.Phase == domain.PhaseDiscussion && target == domain.PhaseVote1:
		s.startVoteLocked(1)
	case s.room.Phase.IsVoting():
		s.closeVoteLocked()
	case s.room.Phase == domain.PhaseTieSpeech && target == domain.PhaseTieSpeech:
		s.advanceTieSpeakerLocked()
	case s.room.Phase == domain.PhaseTieSpeech && target == domain.PhaseVote2:
		s.startVoteLocked(2)
	case s.room.Phase == domain.PhaseLiarGuess && target == domain.PhaseRoundResult:
		// Forcing past the guess window counts as a wrong guess
		s.finishRoundLocked(domain.SideCitizens, ReasonGuessTimeout)
	case s.room.Phase == domain.PhaseRoundResult && target == domain.PhaseRoleAssign:
		s.startRoundLocked()
	case s.room.Phase == domain.PhaseRoundResult && target == domain.PhaseGameOver:
		s.finishGameLocked()
	default:
		return domain.ErrIllegalTransition
	}

	return nil
}

// ResetGame returns the room to the lobby. Host only, legal in any phase.
func (s *RoomSession) ResetGame(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.room.IsHost(playerID) {
		return domain.ErrNotAuthorized
	}

	s.resetLocked()
	return nil
}

// GameState builds the catch-up snapshot for a (re)connecting player
func (s *RoomSession) GameState(playerID string) map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := map[string]interface{}{
		"phase":       s.room.Phase,
		"round":       s.room.Round,
		"totalRounds": s.room.Settings.TotalRounds,
		"players":     s.room.PlayerList(),
		"canStart":    s.room.CanStart(),
	}
	if host := s.room.Host(); host != nil {
		state["hostId"] = host.ID
	}

	round := s.room.Current
	if round == nil {
		return state
	}

	state["category"] = round.Category
	if role, ok := round.Roles[playerID]; ok {
		state["role"] = role
		state["secretWord"] = round.WordFor(playerID)
	}

	switch s.room.Phase {
	case domain.PhaseHintTurns:
		if speaker, ok := round.Schedule.Current(); ok {
			state["currentSpeakerId"] = speaker
		}
	case domain.PhaseVote1:
		state["votes"] = round.Tally1.Votes()
	case domain.PhaseVote2:
		state["votes"] = round.Tally2.Votes()
	case domain.PhaseGameOver:
		state["standings"] = s.room.Standings()
	}

	return state
}

// --- internal transitions, caller must hold s.mu ---

func (s *RoomSession) startRoundLocked() {
	subject, reused := PickSubject(s.room.UsedPairs)
	round := s.room.StartRound(subject.Category, subject.Word, reused)

	s.logger.Info("round started",
		"roomCode", s.room.ID,
		"round", round.Number,
		"category", round.Category,
		"players", round.Schedule.Len(),
	)

	s.queueEvent(domain.NewEvent(domain.EventRoundStart, s.room.ID, &domain.RoundStartPayload{
		Round:       round.Number,
		TotalRounds: s.room.Settings.TotalRounds,
		Category:    round.Category,
		Reused:      round.Reused,
	}))

	// One role reveal per participant; only the liar's word is withheld
	for playerID, role := range round.Roles {
		s.queueEvent(domain.NewPlayerEvent(domain.EventRoleAssignment, s.room.ID, playerID, &domain.RoleAssignmentPayload{
			Role:       role,
			Category:   round.Category,
			SecretWord: round.WordFor(playerID),
		}))
	}

	// Hint turns begin automatically once the reveal window closes
	s.startTimerLocked(s.room.Settings.RoleRevealSeconds, func() {
		if s.room.Phase == domain.PhaseRoleAssign {
			s.beginHintTurnsLocked()
		}
	})
}

func (s *RoomSession) beginHintTurnsLocked() {
	s.room.Phase = domain.PhaseHintTurns
	s.advanceSpeakerLocked()
}

func (s *RoomSession) advanceSpeakerLocked() {
	round := s.room.Current
	speakerID, ok := round.Schedule.Advance(s.room.IsConnected)
	if !ok {
		s.startDiscussionLocked()
		return
	}

	speaker, err := s.room.FindPlayer(speakerID)
	if err != nil {
		return
	}

	s.queueEvent(domain.NewEvent(domain.EventHintTurn, s.room.ID, &domain.HintTurnPayload{
		SpeakerID:   speaker.ID,
		SpeakerName: speaker.Name,
		Index:       round.Schedule.Index(),
		Total:       round.Schedule.Len(),
		Seconds:     s.room.Settings.HintSeconds,
	}))

	// An unresponsive speaker cannot stall the round: expiry advances
	s.startTimerLocked(s.room.Settings.HintSeconds, func() {
		if s.room.Phase == domain.PhaseHintTurns {
			s.advanceSpeakerLocked()
		}
	})
}

func (s *RoomSession) startDiscussionLocked() {
	s.room.Phase = domain.PhaseDiscussion

	s.queueEvent(domain.NewEvent(domain.EventDiscussionStart, s.room.ID, &domain.DiscussionStartPayload{
		Seconds: s.room.Settings.DiscussSeconds,
	}))

	s.startTimerLocked(s.room.Settings.DiscussSeconds, func() {
		if s.room.Phase == domain.PhaseDiscussion {
			s.startVoteLocked(1)
		}
	})
}

func (s *RoomSession) startVoteLocked(voteRound int) {
	round := s.room.Current

	var candidates []domain.Candidate
	if voteRound == 1 {
		s.room.Phase = domain.PhaseVote1
		round.Tally1 = domain.NewVoteTally()
		for _, p := range s.room.ConnectedPlayers() {
			candidates = append(candidates, domain.Candidate{ID: p.ID, Name: p.Name})
		}
	} else {
		s.room.Phase = domain.PhaseVote2
		round.Tally2 = domain.NewVoteTally()
		candidates = s.candidatesLocked(round.TieCandidates)
	}

	s.queueEvent(domain.NewEvent(domain.EventVoteStart, s.room.ID, &domain.VoteStartPayload{
		Round:      voteRound,
		Candidates: candidates,
		Seconds:    s.room.Settings.VoteSeconds,
	}))

	s.startTimerLocked(s.room.Settings.VoteSeconds, func() {
		if s.room.Phase.IsVoting() {
			s.closeVoteLocked()
		}
	})
}

// closeVoteLocked tallies the open vote and picks the next phase. After
// VOTE_2 the two rounds are summed; a second tie resolves to no accusation
// and a liar-side win, bounding tie handling to one cycle per round.
func (s *RoomSession) closeVoteLocked() {
	s.timer.Cancel()
	round := s.room.Current

	var leaders []string
	secondVote := s.room.Phase == domain.PhaseVote2
	if secondVote {
		leaders = domain.LeadersOf(domain.CombinedCounts(round.Tally1, round.Tally2))
	} else {
		leaders = round.Tally1.Leaders()
	}

	switch {
	case len(leaders) == 0:
		s.finishRoundLocked(domain.SideLiar, ReasonNoVotes)

	case len(leaders) == 1:
		round.AccusedID = leaders[0]
		if round.AccusedID == round.LiarID {
			s.startLiarGuessLocked()
		} else {
			s.finishRoundLocked(domain.SideLiar, ReasonWrongAccuse)
		}

	case secondVote:
		s.finishRoundLocked(domain.SideLiar, ReasonUnresolvedTie)

	default:
		s.startTieSpeechLocked(leaders)
	}
}

func (s *RoomSession) startTieSpeechLocked(tied []string) {
	s.room.Phase = domain.PhaseTieSpeech
	round := s.room.Current
	round.BeginTieSpeech(tied)

	s.queueEvent(domain.NewEvent(domain.EventVoteTie, s.room.ID, &domain.VoteTiePayload{
		Candidates: s.candidatesLocked(tied),
	}))

	s.advanceTieSpeakerLocked()
}

func (s *RoomSession) advanceTieSpeakerLocked() {
	round := s.room.Current
	speakerID, ok := round.TieSchedule.Advance(s.room.IsConnected)
	if !ok {
		s.startVoteLocked(2)
		return
	}

	speaker, err := s.room.FindPlayer(speakerID)
	if err != nil {
		return
	}

	s.queueEvent(domain.NewEvent(domain.EventTieSpeechTurn, s.room.ID, &domain.TieSpeechTurnPayload{
		ID:      speaker.ID,
		Name:    speaker.Name,
		Seconds: s.room.Settings.TieSpeechSeconds,
	}))

	s.startTimerLocked(s.room.Settings.TieSpeechSeconds, func() {
		if s.room.Phase == domain.PhaseTieSpeech {
			s.advanceTieSpeakerLocked()
		}
	})
}

func (s *RoomSession) startLiarGuessLocked() {
	s.room.Phase = domain.PhaseLiarGuess
	round := s.room.Current

	liarName := ""
	if liar, err := s.room.FindPlayer(round.LiarID); err == nil {
		liarName = liar.Name
	}

	s.queueEvent(domain.NewEvent(domain.EventLiarGuessStart, s.room.ID, &domain.LiarGuessStartPayload{
		LiarID:   round.LiarID,
		LiarName: liarName,
		Category: round.Category,
		Seconds:  s.room.Settings.GuessSeconds,
	}))
	s.queueEvent(domain.NewPlayerEvent(domain.EventLiarInputEnable, s.room.ID, round.LiarID, struct{}{}))

	s.startTimerLocked(s.room.Settings.GuessSeconds, func() {
		if s.room.Phase == domain.PhaseLiarGuess {
			// No guess in time counts as a wrong guess
			s.finishRoundLocked(domain.SideCitizens, ReasonGuessTimeout)
		}
	})
}

func (s *RoomSession) finishRoundLocked(winner domain.Side, reason string) {
	s.timer.Cancel()
	round := s.room.Current
	s.room.ApplyRoundOutcome(winner)

	s.logger.Info("round finished",
		"roomCode", s.room.ID,
		"round", round.Number,
		"winner", winner,
		"reason", reason,
	)

	s.queueEvent(domain.NewEvent(domain.EventRoundResult, s.room.ID, &domain.RoundResultPayload{
		Winner:     winner,
		Reason:     reason,
		AccusedID:  round.AccusedID,
		LiarID:     round.LiarID,
		SecretWord: round.SecretWord,
		Category:   round.Category,
	}))
	s.broadcastPlayerListLocked()

	if s.room.Round >= s.room.Settings.TotalRounds {
		s.finishGameLocked()
	} else {
		s.room.Phase = domain.PhaseRoundResult
	}
}

func (s *RoomSession) finishGameLocked() {
	s.timer.Cancel()
	s.room.Phase = domain.PhaseGameOver

	s.queueEvent(domain.NewEvent(domain.EventGameOver, s.room.ID, &domain.GameOverPayload{
		Standings: s.room.Standings(),
	}))
}

func (s *RoomSession) resetLocked() {
	s.timer.Cancel()
	s.room.Reset()
	s.broadcastPlayerListLocked()
}

// startTimerLocked arms the room's single countdown for the current phase,
// cancelling whatever the outgoing phase left running. onExpire runs under
// the session lock; it still must re-validate the phase. An expiry whose
// countdown was replaced while it waited for the lock is dropped by the
// generation check, so a host command winning the race can never be
// followed by the superseded expiry firing on the updated state.
func (s *RoomSession) startTimerLocked(seconds int, onExpire func()) {
	s.queueEvent(domain.NewEvent(domain.EventTimerReset, s.room.ID, &domain.TimerResetPayload{
		Seconds: seconds,
	}))

	s.timerGen = s.timer.Start(seconds,
		func(remaining int) {
			s.queueEvent(domain.NewEvent(domain.EventTimerTick, s.room.ID, &domain.TimerTickPayload{
				Remaining: remaining,
			}))
		},
		func(gen uint64) {
			s.mu.Lock()
			defer s.mu.Unlock()
			if gen != s.timerGen {
				return
			}
			s.queueEvent(domain.NewEvent(domain.EventTimerDone, s.room.ID, struct{}{}))
			onExpire()
		},
	)
}

func (s *RoomSession) allConnectedVotedLocked(tally *domain.VoteTally) bool {
	for _, id := range s.room.ConnectedIDs() {
		if !tally.HasVoted(id) {
			return false
		}
	}
	return s.room.ConnectedCount() > 0
}

func (s *RoomSession) candidatesLocked(ids []string) []domain.Candidate {
	out := make([]domain.Candidate, 0, len(ids))
	for _, id := range ids {
		if p, err := s.room.FindPlayer(id); err == nil {
			out = append(out, domain.Candidate{ID: p.ID, Name: p.Name})
		}
	}
	return out
}

func (s *RoomSession) broadcastPlayerListLocked() {
	payload := &domain.PlayerListPayload{
		Players: s.room.PlayerList(),
	}
	if host := s.room.Host(); host != nil {
		payload.HostID = host.ID
	}
	s.queueEvent(domain.NewEvent(domain.EventPlayerList, s.room.ID, payload))
}

// normalizeGuess lowercases and strips all whitespace, so "  Apple " and
// "apple" compare equal.
func normalizeGuess(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), ""))
}

// --- event broadcasting ---

// queueEvent adds an event to the broadcast queue
func (s *RoomSession) queueEvent(event *domain.Event) {
	select {
	case s.events <- event:
	default:
		s.logger.Warn("event queue full, dropping event", "type", event.Type)
	}
}

// eventLoop processes events and broadcasts to clients
func (s *RoomSession) eventLoop() {
	for {
		select {
		case <-s.done:
			return
		case event := <-s.events:
			s.broadcastEvent(event)
		}
	}
}

// broadcastEvent sends an event to the whole room, or to one player when
// the event is scoped to them.
func (s *RoomSession) broadcastEvent(event *domain.Event) {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	if event.PlayerID != "" {
		if client, ok := s.clients[event.PlayerID]; ok {
			if err := client.Send(event); err != nil {
				s.logger.Debug("failed to send to client", "playerID", event.PlayerID, "error", err)
			}
		}
		return
	}

	for playerID, client := range s.clients {
		if err := client.Send(event); err != nil {
			s.logger.Debug("failed to send to client", "playerID", playerID, "error", err)
		}
	}
}

// Close shuts down the session
func (s *RoomSession) Close() {
	select {
	case <-s.done:
		return // Already closed
	default:
		close(s.done)
	}

	s.timer.Cancel()

	s.clientsMu.Lock()
	for _, client := range s.clients {
		client.Close()
	}
	s.clients = make(map[string]ClientConnection)
	s.clientsMu.Unlock()
}
