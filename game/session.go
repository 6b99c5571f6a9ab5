package game

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/fractaloutlook/Incremental/combo"
	"github.com/fractaloutlook/Incremental/config"
	"github.com/fractaloutlook/Incremental/gameerrors"
	"github.com/fractaloutlook/Incremental/notify"
	"github.com/fractaloutlook/Incremental/quest"
	"github.com/fractaloutlook/Incremental/wsutil"
)

// ActionType enumerates the kinds of actions a session can process.
type ActionType int

const (
	ActionClick ActionType = iota
	ActionPurchaseUpgrade
	ActionActivateArtifact
	ActionActivateEvent
	ActionPrestige
	ActionLoadSave
	ActionExportSave
	ActionClaimQuest
	ActionKey
	ActionIdentify     // bind the session to an authenticated user id
	ActionShutdown     // stop timers and end the loop
	ActionTick         // internal: auto-increment period elapsed
	ActionComboDecay   // internal: combo window elapsed without a click
	ActionRollEvent    // internal: time to roll for a random event
	ActionEventExpired // internal: active event display window ended
)

// Action is one request sent into the session's action channel.
type Action struct {
	Type       ActionType
	ID         string    // upgrade, artifact or quest id; key code for ActionKey; user id for ActionIdentify
	Data       []byte    // save file contents for ActionLoadSave
	At         time.Time // when the input happened; zero means processing time
	Generation uint64    // timer generation for internal actions
}

// TelemetrySink records economy events. Optional; may be nil.
type TelemetrySink interface {
	RecordPurchase(sessionID, playerID, kind, itemID string, cost, pointsAfter float64)
	RecordPrestige(sessionID, playerID string, level, totalClicks, bonus int64, shielded bool)
}

// Session owns one player's game. All state is touched only by the Run goroutine;
// every other goroutine talks to it through Actions.
type Session struct {
	ID       string
	PlayerID string
	Config   *config.Config
	Engine   *Engine
	Send     chan []byte

	// TelemetrySink records purchases and prestiges; optional, set by the hub.
	TelemetrySink TelemetrySink

	state        *GameState
	combo        *combo.Tracker
	quests       *quest.Book
	achievements *quest.Board
	secrets      *quest.Detector
	roller       *quest.Roller

	offered     *quest.Event
	active      *quest.Event
	activeUntil time.Time

	autoGen     uint64
	autoCancel  chan struct{}
	decayCancel chan struct{}
	eventGen    uint64
	eventCancel chan struct{}
	rollCancel  chan struct{}

	now func() time.Time

	Actions chan Action
	Done    chan struct{}
}

// NewSession creates a session with a fresh game state. send receives every outbound message.
func NewSession(id string, cfg *config.Config, engine *Engine, send chan []byte) *Session {
	return &Session{
		ID:     id,
		Config: cfg,
		Engine: engine,
		Send:   send,
		state:  engine.NewState(),
		combo: combo.NewTracker(combo.Settings{
			Window:         cfg.Combo.Window(),
			Max:            cfg.Combo.Max,
			BonusThreshold: cfg.Combo.BonusThreshold,
			BonusStep:      cfg.Combo.BonusStep,
		}),
		quests:       quest.NewBook(quest.DefaultQuests()),
		achievements: quest.NewBoard(quest.DefaultAchievements()),
		secrets:      quest.NewDetector(quest.DefaultSecrets()),
		roller:       quest.NewRoller(quest.DefaultEvents(), cfg.Events.Chance, cfg.Events.MinClicks, time.Now().UnixNano()),
		now:          time.Now,
		Actions:      make(chan Action, 64),
		Done:         make(chan struct{}),
	}
}

// Run is the session loop. It processes actions sequentially until shutdown.
// It should be run as a goroutine.
func (s *Session) Run() {
	defer close(s.Done)
	defer s.stopTimers()

	s.broadcastState()
	s.syncAutoTimer()
	s.startEventRoller()

	for {
		action, ok := <-s.Actions
		if !ok {
			return
		}
		at := action.At
		if at.IsZero() {
			at = s.now()
		}
		switch action.Type {
		case ActionClick:
			s.handleClick(at)
		case ActionPurchaseUpgrade:
			s.handlePurchaseUpgrade(action.ID)
		case ActionActivateArtifact:
			s.handleActivateArtifact(action.ID)
		case ActionActivateEvent:
			s.handleActivateEvent(at)
		case ActionPrestige:
			s.handlePrestige()
		case ActionLoadSave:
			s.handleLoadSave(action.Data)
		case ActionExportSave:
			s.handleExportSave(at)
		case ActionClaimQuest:
			s.handleClaimQuest(action.ID)
		case ActionKey:
			s.handleKey(action.ID)
		case ActionIdentify:
			s.PlayerID = action.ID
		case ActionShutdown:
			return
		case ActionTick:
			s.handleTick(action.Generation)
		case ActionComboDecay:
			s.handleComboDecay(action.Generation)
		case ActionRollEvent:
			s.handleRollEvent()
		case ActionEventExpired:
			s.handleEventExpired(action.Generation)
		}
	}
}

// Stop asks the loop to cancel its timers and exit. Safe to call after the loop has ended.
func (s *Session) Stop() {
	select {
	case s.Actions <- Action{Type: ActionShutdown}:
	case <-s.Done:
	}
}

func (s *Session) handleClick(at time.Time) {
	s.Engine.ApplyClick(s.state)
	notes := s.combo.ObserveClick(at)
	s.armComboDecay(at)
	s.Engine.ApplyComboBonus(s.state, s.combo.Multiplier())
	for _, d := range s.secrets.ObserveClick(at) {
		notes = append(notes, s.discovered(d)...)
	}
	s.sendNotifications(notes)
	s.afterChange()
}

func (s *Session) handlePurchaseUpgrade(id string) {
	u, ok := s.Engine.Catalog.Upgrade(id)
	if !s.Engine.PurchaseUpgrade(s.state, id) {
		s.sendError("Cannot purchase upgrade " + id)
		return
	}
	if s.TelemetrySink != nil && ok {
		s.TelemetrySink.RecordPurchase(s.ID, s.PlayerID, "upgrade", id, u.Cost, s.state.IncrementPoints)
	}
	s.afterChange()
}

func (s *Session) handleActivateArtifact(id string) {
	a, ok := s.Engine.Catalog.Artifact(id)
	if !s.Engine.ActivateArtifact(s.state, id) {
		s.sendError("Cannot activate artifact " + id)
		return
	}
	if s.TelemetrySink != nil && ok {
		s.TelemetrySink.RecordPurchase(s.ID, s.PlayerID, "artifact", id, a.Cost, s.state.IncrementPoints)
	}
	s.sendNotifications([]notify.Notification{{
		Kind:        notify.Success,
		Title:       "Artifact Activated!",
		Message:     a.Name + ": " + a.Effect.Label(),
		AutoCloseMS: 4000,
	}})
	s.afterChange()
}

func (s *Session) handleActivateEvent(at time.Time) {
	if s.offered == nil {
		s.sendError("No event to activate")
		return
	}
	ev := *s.offered
	s.offered = nil
	s.Engine.ApplyEventEffect(s.state, ev.Effect)
	if d := ev.Duration(); d > 0 {
		s.active = &ev
		s.activeUntil = at.Add(d)
		s.eventGen++
		s.cancelEventTimer()
		s.eventCancel = s.after(d, Action{Type: ActionEventExpired, Generation: s.eventGen})
	}
	s.sendNotifications([]notify.Notification{{
		Kind:        notify.Success,
		Title:       ev.Name + "!",
		Message:     ev.Description,
		AutoCloseMS: 4000,
	}})
	s.afterChange()
}

func (s *Session) handleEventExpired(gen uint64) {
	if gen != s.eventGen || s.active == nil {
		return
	}
	s.active = nil
	s.activeUntil = time.Time{}
	s.eventCancel = nil
	s.broadcastState()
}

func (s *Session) handlePrestige() {
	res, ok := s.Engine.Prestige(s.state)
	if !ok {
		s.sendError(fmt.Sprintf("Prestige requires %d total clicks", s.Engine.Thresholds.MinClicks))
		return
	}
	slog.Info("prestige", "tag", "session", "session", s.ID, "level", res.Level, "bonus", res.Bonus, "shielded", res.Shielded)
	if s.TelemetrySink != nil {
		s.TelemetrySink.RecordPrestige(s.ID, s.PlayerID, res.Level, res.TotalClicks, res.Bonus, res.Shielded)
	}
	msg := fmt.Sprintf("Welcome to prestige level %d! Click power is now %d.", res.Level, 1+res.Bonus)
	if res.Shielded {
		msg += " Your artifacts were protected."
	}
	s.sendNotifications([]notify.Notification{{
		Kind:        notify.Achievement,
		Title:       "✨ Prestige!",
		Message:     msg,
		AutoCloseMS: 5000,
	}})
	s.afterChange()
}

func (s *Session) handleLoadSave(data []byte) {
	doc, err := DecodeSave(data, s.Config.MaxSaveBytes)
	if err != nil {
		slog.Warn("rejected save file", "tag", "session", "session", s.ID, "err", err)
		message := "Invalid save file"
		if errors.Is(err, gameerrors.ErrSaveTooLarge) {
			message = "Save file is too large"
		}
		s.sendNotifications([]notify.Notification{{Kind: notify.Error, Title: "Load Failed", Message: message}})
		return
	}
	s.Engine.LoadState(s.state, doc)
	s.sendNotifications([]notify.Notification{{
		Kind:        notify.Success,
		Title:       "Game Loaded!",
		Message:     "Your progress has been restored",
		AutoCloseMS: 3000,
	}})
	s.afterChange()
}

func (s *Session) handleExportSave(at time.Time) {
	data, err := EncodeSave(s.state)
	if err != nil {
		slog.Error("exporting save", "tag", "session", "session", s.ID, "err", err)
		s.sendError("Could not export save")
		return
	}
	s.send(SaveFileMsg{Type: "save_file", FileName: SaveFileName(at), Data: data})
	s.sendNotifications([]notify.Notification{{
		Kind:        notify.Success,
		Title:       "Game Exported!",
		Message:     "Your save file is downloading",
		AutoCloseMS: 3000,
	}})
}

func (s *Session) handleClaimQuest(id string) {
	reward, err := s.quests.Claim(id, s.progress())
	if err != nil {
		slog.Debug("quest claim refused", "tag", "session", "session", s.ID, "err", err)
		s.sendError(claimErrorMessage(err))
		return
	}
	s.Engine.GrantReward(s.state, reward)
	s.sendNotifications([]notify.Notification{{
		Kind:        notify.Success,
		Title:       "Quest Completed!",
		Message:     fmt.Sprintf("Earned %.0f increment points", reward),
		AutoCloseMS: 4000,
	}})
	s.afterChange()
}

func claimErrorMessage(err error) string {
	switch {
	case errors.Is(err, gameerrors.ErrQuestClaimed):
		return "Quest reward already claimed"
	case errors.Is(err, gameerrors.ErrQuestNotComplete):
		return "Quest is not complete yet"
	default:
		return "Unknown quest"
	}
}

func (s *Session) handleKey(code string) {
	var notes []notify.Notification
	for _, d := range s.secrets.ObserveKey(code) {
		notes = append(notes, s.discovered(d)...)
	}
	if len(notes) == 0 {
		return
	}
	s.sendNotifications(notes)
	s.afterChange()
}

func (s *Session) handleTick(gen uint64) {
	if gen != s.autoGen || s.autoCancel == nil {
		return
	}
	if !s.Engine.Tick(s.state) {
		s.syncAutoTimer()
		return
	}
	s.afterChange()
}

func (s *Session) handleComboDecay(gen uint64) {
	notes := s.combo.Decay(gen)
	s.sendNotifications(notes)
	s.broadcastState()
}

func (s *Session) handleRollEvent() {
	ev, ok := s.roller.Roll(s.state.TotalClicks, s.offered != nil || s.active != nil)
	if !ok {
		return
	}
	s.offered = &ev
	slog.Debug("event offered", "tag", "session", "session", s.ID, "event", ev.ID)
	s.send(EventOfferedMsg{Type: "event_offered", Event: ev})
	s.broadcastState()
}

// discovered applies the unlocks of a newly found secret and returns its notification.
func (s *Session) discovered(d quest.Discovery) []notify.Notification {
	slog.Info("secret discovered", "tag", "session", "session", s.ID, "secret", d.Secret.ID)
	if d.Secret.UnlockUpgrade != "" {
		s.Engine.UnlockSecret(s.state, d.Secret.UnlockUpgrade)
	}
	return []notify.Notification{d.Notification}
}

// afterChange runs the checks that follow any state change, then pushes the new state.
func (s *Session) afterChange() {
	var notes []notify.Notification
	for _, d := range s.secrets.ObservePoints(s.state.IncrementPoints) {
		notes = append(notes, s.discovered(d)...)
	}
	notes = append(notes, s.achievements.Evaluate(s.progress())...)
	s.sendNotifications(notes)

	s.combo.ObserveTotalClicks(s.state.TotalClicks)
	if s.state.TotalClicks == 0 {
		s.cancelComboDecay()
	}
	s.syncAutoTimer()
	s.broadcastState()
}

func (s *Session) progress() quest.Progress {
	return quest.Progress{
		TotalClicks:       s.state.TotalClicks,
		PrestigeLevel:     s.state.PrestigeLevel,
		IncrementPoints:   s.state.IncrementPoints,
		UpgradesPurchased: s.state.PurchasedUpgrades(),
		SecretsFound:      s.secrets.Count(),
	}
}

// syncAutoTimer keeps exactly one ticker running while the auto rate is positive.
func (s *Session) syncAutoTimer() {
	running := s.autoCancel != nil
	switch {
	case s.state.AutoIncrementRate > 0 && !running:
		s.startAutoTimer()
	case s.state.AutoIncrementRate <= 0 && running:
		s.cancelAutoTimer()
	}
}

func (s *Session) startAutoTimer() {
	interval := s.Config.TickInterval()
	if interval <= 0 {
		return
	}
	s.autoGen++
	s.autoCancel = s.every(interval, Action{Type: ActionTick, Generation: s.autoGen})
}

func (s *Session) cancelAutoTimer() {
	if s.autoCancel != nil {
		close(s.autoCancel)
		s.autoCancel = nil
	}
	s.autoGen++
}

// armComboDecay replaces any pending decay timer with one for the tracker's current deadline,
// measured from the click instant at.
func (s *Session) armComboDecay(at time.Time) {
	s.cancelComboDecay()
	deadline, gen, ok := s.combo.Pending()
	if !ok {
		return
	}
	s.decayCancel = s.after(deadline.Sub(at), Action{Type: ActionComboDecay, Generation: gen})
}

func (s *Session) cancelComboDecay() {
	if s.decayCancel != nil {
		close(s.decayCancel)
		s.decayCancel = nil
	}
}

func (s *Session) cancelEventTimer() {
	if s.eventCancel != nil {
		close(s.eventCancel)
		s.eventCancel = nil
	}
}

func (s *Session) startEventRoller() {
	interval := s.Config.Events.RollInterval()
	if interval <= 0 {
		return
	}
	s.rollCancel = s.every(interval, Action{Type: ActionRollEvent})
}

func (s *Session) stopTimers() {
	s.cancelAutoTimer()
	s.cancelComboDecay()
	s.cancelEventTimer()
	if s.rollCancel != nil {
		close(s.rollCancel)
		s.rollCancel = nil
	}
}

// after posts a once d has elapsed, unless the returned channel is closed first.
func (s *Session) after(d time.Duration, a Action) chan struct{} {
	cancel := make(chan struct{})
	go func() {
		t := time.NewTimer(d)
		defer t.Stop()
		select {
		case <-t.C:
			select {
			case s.Actions <- a:
			case <-cancel:
			case <-s.Done:
			}
		case <-cancel:
		case <-s.Done:
		}
	}()
	return cancel
}

// every posts a each period until the returned channel is closed. A slow loop drops ticks
// rather than queueing them.
func (s *Session) every(period time.Duration, a Action) chan struct{} {
	cancel := make(chan struct{})
	go func() {
		t := time.NewTicker(period)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				select {
				case s.Actions <- a:
				case <-cancel:
					return
				case <-s.Done:
					return
				}
			case <-cancel:
				return
			case <-s.Done:
				return
			}
		}
	}()
	return cancel
}

func (s *Session) sendNotifications(notes []notify.Notification) {
	for _, n := range notes {
		s.send(NotificationMsg{Type: "notification", Notification: n})
	}
}

func (s *Session) sendError(message string) {
	s.send(ErrorMsg{Type: "error", Message: message})
}

func (s *Session) broadcastState() {
	s.send(s.BuildState())
}

func (s *Session) send(msg any) {
	if s.Send == nil {
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("marshaling message", "tag", "session", "session", s.ID, "err", err)
		return
	}
	wsutil.SafeSend(s.Send, data)
}
