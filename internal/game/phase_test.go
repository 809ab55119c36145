package game

import "testing"

func TestPhaseSequence(t *testing.T) {
	expected := []Phase{
		PhaseReset,
		PhaseDraw,
		PhaseRide,
		PhaseMain,
		PhaseBattleStart,
		PhaseBattleAttack,
		PhaseBattleDefence,
		PhaseBattleTrigger,
		PhaseBattleDamage,
		PhaseBattleEnd,
		PhaseTurnEnd,
	}

	current := PhaseReset
	for i, want := range expected {
		if current != want {
			t.Fatalf("step %d: expected phase %s, got %s", i, want, current)
		}
		if !current.Valid() {
			t.Fatalf("step %d: phase %s should be valid", i, current)
		}
		desc, err := DescribePhase(current)
		if err != nil {
			t.Fatalf("step %d: DescribePhase(%s): %v", i, current, err)
		}
		if desc == "" {
			t.Fatalf("step %d: phase %s has empty description", i, current)
		}
		next, err := current.Next()
		if err != nil {
			t.Fatalf("step %d: Next(%s): %v", i, current, err)
		}
		current = next
	}

	// turnend wraps to the next player's reset.
	if current != PhaseReset {
		t.Fatalf("expected sequence to wrap to reset, got %s", current)
	}
}

func TestBattleUmbrellaPhase(t *testing.T) {
	if !PhaseBattle.Valid() {
		t.Fatal("battle umbrella phase should be valid")
	}
	next, err := PhaseBattle.Next()
	if err != nil {
		t.Fatalf("Next(battle): %v", err)
	}
	if next != PhaseBattleStart {
		t.Fatalf("expected battle to enter battle_start, got %s", next)
	}
	if IsBattleSubphase(PhaseBattle) {
		t.Fatal("umbrella battle phase is not itself a subphase")
	}
}

func TestBattleSubphases(t *testing.T) {
	subphases := []Phase{
		PhaseBattleStart,
		PhaseBattleAttack,
		PhaseBattleDefence,
		PhaseBattleTrigger,
		PhaseBattleDamage,
		PhaseBattleEnd,
	}
	for _, p := range subphases {
		if !IsBattleSubphase(p) {
			t.Errorf("expected %s to be a battle subphase", p)
		}
	}
	for _, p := range []Phase{PhaseReset, PhaseDraw, PhaseRide, PhaseMain, PhaseTurnEnd} {
		if IsBattleSubphase(p) {
			t.Errorf("expected %s not to be a battle subphase", p)
		}
	}
}

func TestUnknownPhaseRejected(t *testing.T) {
	bogus := Phase("bogus")
	if bogus.Valid() {
		t.Fatal("bogus phase should not be valid")
	}
	if _, err := DescribePhase(bogus); err == nil {
		t.Fatal("expected DescribePhase to reject bogus phase")
	}
	if _, err := bogus.Next(); err == nil {
		t.Fatal("expected Next to reject bogus phase")
	}
}
