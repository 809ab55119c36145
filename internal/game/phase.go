package game

import "fmt"

// Phase identifies one step of a turn. The set is closed: a turn runs through
// reset, draw, ride and main, then the battle sub-sequence, then turnend. The
// umbrella name "battle" is accepted as a valid phase (legacy clients send it
// when entering combat) and advances into battle_start.
type Phase string

const (
	PhaseReset         Phase = "reset"
	PhaseDraw          Phase = "draw"
	PhaseRide          Phase = "ride"
	PhaseMain          Phase = "main"
	PhaseBattle        Phase = "battle"
	PhaseBattleStart   Phase = "battle_start"
	PhaseBattleAttack  Phase = "battle_attack"
	PhaseBattleDefence Phase = "battle_defence"
	PhaseBattleTrigger Phase = "battle_trigger"
	PhaseBattleDamage  Phase = "battle_damage"
	PhaseBattleEnd     Phase = "battle_end"
	PhaseTurnEnd       Phase = "turnend"
)

var phaseDescriptions = map[Phase]string{
	PhaseReset:         "stand/reset step",
	PhaseDraw:          "draw step",
	PhaseRide:          "ride step",
	PhaseMain:          "main phase",
	PhaseBattle:        "battle phase",
	PhaseBattleStart:   "battle phase: start of battle",
	PhaseBattleAttack:  "battle phase: declare attack",
	PhaseBattleDefence: "battle phase: declare guardians",
	PhaseBattleTrigger: "battle phase: trigger check",
	PhaseBattleDamage:  "battle phase: damage step",
	PhaseBattleEnd:     "battle phase: end of battle",
	PhaseTurnEnd:       "end of turn",
}

// battleSubphases is the nested sub-sequence inside the battle phase.
var battleSubphases = map[Phase]bool{
	PhaseBattleStart:   true,
	PhaseBattleAttack:  true,
	PhaseBattleDefence: true,
	PhaseBattleTrigger: true,
	PhaseBattleDamage:  true,
	PhaseBattleEnd:     true,
}

// phaseSuccessors is the fixed, non-branching transition table. turnend wraps
// to the next player's reset.
var phaseSuccessors = map[Phase]Phase{
	PhaseReset:         PhaseDraw,
	PhaseDraw:          PhaseRide,
	PhaseRide:          PhaseMain,
	PhaseMain:          PhaseBattleStart,
	PhaseBattle:        PhaseBattleStart,
	PhaseBattleStart:   PhaseBattleAttack,
	PhaseBattleAttack:  PhaseBattleDefence,
	PhaseBattleDefence: PhaseBattleTrigger,
	PhaseBattleTrigger: PhaseBattleDamage,
	PhaseBattleDamage:  PhaseBattleEnd,
	PhaseBattleEnd:     PhaseTurnEnd,
	PhaseTurnEnd:       PhaseReset,
}

// Valid reports whether p is a member of the fixed phase set.
func (p Phase) Valid() bool {
	_, ok := phaseDescriptions[p]
	return ok
}

// Next returns the successor phase in the fixed turn sequence.
func (p Phase) Next() (Phase, error) {
	next, ok := phaseSuccessors[p]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownPhase, string(p))
	}
	return next, nil
}

func (p Phase) String() string {
	return string(p)
}

// IsBattleSubphase reports whether p belongs to the nested battle
// sub-sequence.
func IsBattleSubphase(p Phase) bool {
	return battleSubphases[p]
}

// DescribePhase returns the human-readable description of a phase.
func DescribePhase(p Phase) (string, error) {
	desc, ok := phaseDescriptions[p]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownPhase, string(p))
	}
	return desc, nil
}
