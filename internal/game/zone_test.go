package game

import "testing"

func TestAllZonesValid(t *testing.T) {
	if len(Zones) != 17 {
		t.Fatalf("expected 17 board zones, got %d", len(Zones))
	}
	for _, z := range Zones {
		if !z.Valid() {
			t.Errorf("zone %s should be valid", z)
		}
		desc, err := DescribeZone(z)
		if err != nil {
			t.Errorf("DescribeZone(%s): %v", z, err)
		}
		if desc == "" {
			t.Errorf("zone %s has empty description", z)
		}
	}
}

func TestZoneNamesMatchWireForm(t *testing.T) {
	names := map[Zone]string{
		ZoneRide:        "ride",
		ZoneDeck:        "deck",
		ZoneHand:        "hand",
		ZoneVanguard:    "v",
		ZoneLeftFront:   "leftfront",
		ZoneLeftBack:    "leftback",
		ZoneRightFront:  "rightfront",
		ZoneRightBack:   "rightback",
		ZoneVBack:       "vback",
		ZoneDamage:      "damage",
		ZoneInstruction: "instruction",
		ZoneTrigger:     "trigger",
		ZoneCrest:       "coa",
		ZoneG:           "g",
		ZoneGDeck:       "gdeck",
		ZoneToken:       "token",
		ZoneSeal:        "seal",
	}
	for z, want := range names {
		if z.String() != want {
			t.Errorf("zone %v: expected wire name %q, got %q", z, want, z.String())
		}
	}
}

func TestInvalidZoneRejected(t *testing.T) {
	bogus := Zone("graveyard")
	if bogus.Valid() {
		t.Fatal("graveyard is not a board zone")
	}
	if _, err := DescribeZone(bogus); err == nil {
		t.Fatal("expected DescribeZone to reject an unknown zone")
	}
	// effect is a sub-region of the field but not a card zone.
	if Zone("effect").Valid() {
		t.Fatal("effect must not be addressable as a card zone")
	}
}
