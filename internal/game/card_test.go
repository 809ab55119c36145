package game

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCatalogCard(id string) CatalogCard {
	return CatalogCard{
		ID:          id,
		NameCN:      "先锋剑士",
		Nation:      "United Sanctuary",
		Clan:        "Royal Paladin",
		Grade:       1,
		Skill:       "boost",
		Power:       7000,
		Shield:      5000,
		Critical:    1,
		CardType:    "normal",
		TriggerType: "none",
		Ability:     "When this unit boosts, +2000 power.",
		Image:       "royal/blaster_dagger",
	}
}

func TestBuildCardHiddenIgnoresPayload(t *testing.T) {
	card := BuildCard(sampleCatalogCard("c-1"), false,
		[]CardAbility{{ID: "a-1", AbilityDesc: "boost"}},
		[]string{"powered"},
		map[string]int{"power": 2000},
		[]AbilityGrant{{ID: "g-1", Duration: "turn"}},
	)
	require.False(t, card.Visible())
	_, ok := card.(HiddenCard)
	assert.True(t, ok, "hidden card must be the hidden variant, not a stripped visible card")
}

func TestBuildCardDefaultsOverlays(t *testing.T) {
	card := BuildCard(sampleCatalogCard("c-1"), true, nil, nil, nil, nil)
	vc, ok := card.(*VisibleCard)
	require.True(t, ok)
	assert.NotNil(t, vc.AbilityList)
	assert.NotNil(t, vc.Status)
	assert.NotNil(t, vc.NormalEffect)
	assert.NotNil(t, vc.AdditionalAbility)
	assert.Empty(t, vc.AbilityList)
}

func TestHideIsIdempotent(t *testing.T) {
	visible := BuildCard(sampleCatalogCard("c-1"), true, nil, nil, nil, nil)

	once := visible.Hide()
	twice := once.Hide()
	assert.Equal(t, once, twice)

	hidden := HiddenCard{}
	assert.Equal(t, Card(hidden), hidden.Hide())
}

func TestHiddenCardEncodesOnlyShowFlag(t *testing.T) {
	data, err := json.Marshal(HiddenCard{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"show":false}`, string(data))

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.Len(t, fields, 1, "hidden card must leak no field beyond the visibility flag")
}

func TestVisibleCardRoundTrip(t *testing.T) {
	card := BuildCard(sampleCatalogCard("c-7"), true,
		[]CardAbility{{ID: "a-1", AbilityDesc: "on boost", Ability: map[string]any{"power": float64(2000)}}},
		[]string{"bound"},
		map[string]int{"critical": 1},
		[]AbilityGrant{{ID: "g-1", AbilityDesc: "intercept", Ability: map[string]any{}, Duration: "battle"}},
	)

	encoded, err := json.Marshal(CardList{card})
	require.NoError(t, err)

	var decoded CardList
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, card, decoded[0])
}

func TestCardListDecodesMixedVariants(t *testing.T) {
	payload := `[{"show":false},{"show":true,"id":"c-2","name_cn":"卡","nation":"","clan":"","grade":0,"skill":"","card_power":0,"shield":0,"critical":0,"special_mark":"","card_type":"","trigger_type":"","ability":"","card_alias":"","card_group":"","image":"","ability_list":[],"status":[],"normal_effect":{},"additional_ability":[]}]`

	var list CardList
	require.NoError(t, json.Unmarshal([]byte(payload), &list))
	require.Len(t, list, 2)
	assert.False(t, list[0].Visible())
	assert.True(t, list[1].Visible())
}

func TestCardListRejectsMissingShowFlag(t *testing.T) {
	var list CardList
	err := json.Unmarshal([]byte(`[{"id":"c-1"}]`), &list)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidCard)
}

func TestValidateCard(t *testing.T) {
	ok, errs := ValidateCard(HiddenCard{})
	assert.True(t, ok)
	assert.Empty(t, errs)

	ok, errs = ValidateCard(BuildCard(sampleCatalogCard("c-1"), true, nil, nil, nil, nil))
	assert.True(t, ok)
	assert.Empty(t, errs)

	ok, errs = ValidateCard(&VisibleCard{})
	assert.False(t, ok)
	assert.NotEmpty(t, errs)

	ok, errs = ValidateCard(nil)
	assert.False(t, ok)
	assert.NotEmpty(t, errs)
}

func TestFilterByVisibility(t *testing.T) {
	cards := CardList{
		BuildCard(sampleCatalogCard("c-1"), true, nil, nil, nil, nil),
		BuildCard(sampleCatalogCard("c-2"), true, nil, nil, nil, nil),
		HiddenCard{},
	}

	filtered := FilterByVisibility(cards, map[string]bool{"c-2": true})
	require.Len(t, filtered, 3)
	assert.False(t, filtered[0].Visible())
	assert.True(t, filtered[1].Visible())
	assert.False(t, filtered[2].Visible(), "already-hidden cards stay hidden")

	// Source list is untouched.
	assert.True(t, cards[0].Visible())

	// Nil allow-set means no redaction.
	open := FilterByVisibility(cards, nil)
	assert.True(t, open[0].Visible())
	assert.True(t, open[1].Visible())
}

func TestVisibleCardCloneIsDeep(t *testing.T) {
	original := BuildCard(sampleCatalogCard("c-1"), true,
		[]CardAbility{{ID: "a-1", Ability: map[string]any{"power": float64(1000)}}},
		[]string{"powered"},
		map[string]int{"power": 1000},
		nil,
	).(*VisibleCard)

	dup := original.Clone().(*VisibleCard)
	dup.Status[0] = "bound"
	dup.NormalEffect["power"] = 9999
	dup.AbilityList[0].Ability["power"] = float64(0)

	assert.Equal(t, "powered", original.Status[0])
	assert.Equal(t, 1000, original.NormalEffect["power"])
	assert.Equal(t, float64(1000), original.AbilityList[0].Ability["power"])
}
