package game

import "fmt"

// Zone identifies one of the fixed ordered card regions of a player field.
// The enumeration is closed; zones are never added, renamed or removed at
// runtime. Order inside a zone is meaningful (deck order, damage stack order).
type Zone string

const (
	ZoneRide        Zone = "ride"
	ZoneDeck        Zone = "deck"
	ZoneHand        Zone = "hand"
	ZoneVanguard    Zone = "v"
	ZoneLeftFront   Zone = "leftfront"
	ZoneLeftBack    Zone = "leftback"
	ZoneRightFront  Zone = "rightfront"
	ZoneRightBack   Zone = "rightback"
	ZoneVBack       Zone = "vback"
	ZoneDamage      Zone = "damage"
	ZoneInstruction Zone = "instruction"
	ZoneTrigger     Zone = "trigger"
	ZoneCrest       Zone = "coa"
	ZoneG           Zone = "g"
	ZoneGDeck       Zone = "gdeck"
	ZoneToken       Zone = "token"
	ZoneSeal        Zone = "seal"
)

var zoneDescriptions = map[Zone]string{
	ZoneRide:        "ride line",
	ZoneDeck:        "main deck",
	ZoneHand:        "hand",
	ZoneVanguard:    "vanguard circle",
	ZoneLeftFront:   "left front rear-guard circle",
	ZoneLeftBack:    "left back rear-guard circle",
	ZoneRightFront:  "right front rear-guard circle",
	ZoneRightBack:   "right back rear-guard circle",
	ZoneVBack:       "back rear-guard circle behind the vanguard",
	ZoneDamage:      "damage zone",
	ZoneInstruction: "order zone",
	ZoneTrigger:     "trigger zone",
	ZoneCrest:       "crest zone",
	ZoneG:           "g zone",
	ZoneGDeck:       "g deck",
	ZoneToken:       "token area",
	ZoneSeal:        "bind/seal zone",
}

// Zones lists every board zone in canonical order.
var Zones = []Zone{
	ZoneRide, ZoneDeck, ZoneHand, ZoneVanguard,
	ZoneLeftFront, ZoneLeftBack, ZoneRightFront, ZoneRightBack,
	ZoneVBack, ZoneDamage, ZoneInstruction, ZoneTrigger,
	ZoneCrest, ZoneG, ZoneGDeck, ZoneToken, ZoneSeal,
}

// Valid reports whether z is one of the fixed board zones.
func (z Zone) Valid() bool {
	_, ok := zoneDescriptions[z]
	return ok
}

func (z Zone) String() string {
	return string(z)
}

// DescribeZone returns the human-readable description of a zone.
func DescribeZone(z Zone) (string, error) {
	desc, ok := zoneDescriptions[z]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidZone, string(z))
	}
	return desc, nil
}
