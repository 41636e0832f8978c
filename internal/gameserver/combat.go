package gameserver

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/wisperwind/internal/game/character"
	"github.com/cory-johannsen/wisperwind/internal/game/combat"
	"github.com/cory-johannsen/wisperwind/internal/gameerr"
)

// CombatResult is the reply to a combat action.
type CombatResult struct {
	// Combat is the session after the round, or nil once the fight ended.
	Combat        *combat.View         `json:"combat"`
	Log           []string             `json:"log"`
	UpdatedPlayer *character.Character `json:"updatedPlayer"`
	Outcome       string               `json:"outcome"`
	Rewards       *combat.Rewards      `json:"rewards,omitempty"`
}

// CombatAction resolves one round of the account's fight.
//
// A session left pending by an earlier failed write is settled first, and
// the call reports that settlement instead of resolving a new round.
//
// Postcondition: Fails with gameerr.ErrNoActiveCombat when the account has
// no session and gameerr.ErrUnknownAction for undefined actions, both
// without mutation. When the fight ends the session is removed only after
// the character is stored; if every write attempt fails the rewarded
// character stays in the session and a persistence error is returned.
func (s *Service) CombatAction(ctx context.Context, accountID, action string) (*CombatResult, error) {
	unlock := s.locks.lock(accountID)
	defer unlock()

	sess, ok := s.sessions.Get(accountID)
	if !ok {
		return nil, fmt.Errorf("account %q: %w", accountID, gameerr.ErrNoActiveCombat)
	}
	if sess.State.Terminal() {
		settled, err := s.settle(ctx, accountID)
		if err != nil {
			return nil, err
		}
		return &CombatResult{
			Log:           []string{"The results of your last battle have been saved."},
			UpdatedPlayer: settled.Player.View(),
			Outcome:       settled.State.String(),
		}, nil
	}

	act, err := combat.ParseAction(action)
	if err != nil {
		return nil, err
	}
	res, err := combat.ResolveAction(sess, act, s.dice, s.ref)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("combat round resolved",
		zap.String("account_id", accountID),
		zap.String("monster_id", sess.Monster.Template.ID),
		zap.Int("damage", res.PlayerDamage),
		zap.Bool("critical", res.Critical),
		zap.Int("counter_damage", res.MonsterDamage),
		zap.Stringer("outcome", res.Outcome),
	)

	out := &CombatResult{Log: res.Log, Outcome: res.Outcome.String(), Rewards: res.Rewards}
	switch res.Outcome {
	case combat.OutcomeContinue:
		out.Combat = sess.View()
		out.UpdatedPlayer = sess.Player.View()
		return out, nil
	case combat.OutcomeVictory:
		s.logger.Info("monster defeated",
			zap.String("account_id", accountID),
			zap.String("monster_id", sess.Monster.Template.ID),
			zap.Int("xp", res.Rewards.XP),
			zap.Int("items", len(res.Rewards.Items)),
		)
	case combat.OutcomeDefeat:
		sess.Player.Revive(s.opts.Start)
		out.Log = append(out.Log, "You wake up back in town.")
		s.logger.Info("character defeated",
			zap.String("account_id", accountID),
			zap.String("monster_id", sess.Monster.Template.ID),
		)
	}

	if err := s.persistWithRetry(ctx, accountID, sess.Player); err != nil {
		return nil, err
	}
	s.sessions.End(accountID)
	out.UpdatedPlayer = sess.Player.View()
	return out, nil
}
