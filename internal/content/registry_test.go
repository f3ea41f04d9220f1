package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emberdelve-server/internal/domain"
)

func TestCreateEntityFromTemplate(t *testing.T) {
	reg := NewRegistry()

	e := reg.CreateEntity("core:player", "player-1", domain.Position{X: 3, Y: 4})
	require.NotNil(t, e)

	assert.Equal(t, "player-1", e.ID)
	assert.Equal(t, domain.EntityTypePlayer, e.Type)
	assert.Equal(t, "core:player", e.TemplateID)
	assert.Equal(t, domain.Position{X: 3, Y: 4}, e.Pos)
	assert.Equal(t, e.MaxHP, e.HP)
	assert.Equal(t, 1, e.Level)

	// Стартовые предметы получают детерминированные ID
	require.Len(t, e.Inventory.Slots, 2)
	assert.Equal(t, "player-1-item-0", e.Inventory.Slots[0].ID)
	assert.Equal(t, "player-1-item-1", e.Inventory.Slots[1].ID)
}

func TestCreateEntityStartingItemsAreIndependentCopies(t *testing.T) {
	reg := NewRegistry()

	a := reg.CreateEntity("core:player", "a", domain.Position{})
	b := reg.CreateEntity("core:player", "b", domain.Position{})
	require.NotNil(t, a)
	require.NotNil(t, b)

	a.Inventory.Slots[0].Damage = 999
	assert.NotEqual(t, a.Inventory.Slots[0].Damage, b.Inventory.Slots[0].Damage)
}

func TestCreateEntityUnknownTemplate(t *testing.T) {
	reg := NewRegistry()
	assert.Nil(t, reg.CreateEntity("core:dragon", "x", domain.Position{}))
	assert.Nil(t, reg.Item("core:excalibur"))
}

func TestItemReturnsClone(t *testing.T) {
	reg := NewRegistry()

	first := reg.Item("core:vampiric_blade")
	require.NotNil(t, first)
	first.Bonuses["lifesteal"] = 100

	second := reg.Item("core:vampiric_blade")
	require.NotNil(t, second)
	assert.Equal(t, 25, second.Bonus("lifesteal"))
}

func TestManifestsSortedAndComplete(t *testing.T) {
	reg := NewRegistry()
	manifests := reg.Manifests()

	require.NotEmpty(t, manifests)
	for i := 1; i < len(manifests); i++ {
		assert.Less(t, manifests[i-1].ID, manifests[i].ID)
	}

	kinds := map[string]bool{}
	for _, m := range manifests {
		kinds[m.Kind] = true
	}
	assert.True(t, kinds["entity"])
	assert.True(t, kinds["item"])
}

func TestEffectiveness(t *testing.T) {
	reg := NewRegistry()

	assert.Equal(t, 2, reg.Effectiveness(domain.WeaponBlunt, domain.ArmorPlate))
	assert.Equal(t, 2, reg.Effectiveness(domain.WeaponPierce, domain.ArmorCloth))
	assert.Equal(t, 0, reg.Effectiveness(domain.WeaponBlunt, domain.ArmorCloth))
	assert.Equal(t, 0, reg.Effectiveness("", ""))
}

func TestDefaultTemplateID(t *testing.T) {
	assert.Equal(t, "core:player", DefaultTemplateID("alice"))
	assert.Equal(t, "core:goblin", DefaultTemplateID("ai-bot-1"))
}

func TestFallbackEntity(t *testing.T) {
	e := FallbackEntity("wanderer", domain.Position{X: 1, Y: 1})
	assert.Equal(t, domain.EntityTypePlayer, e.Type)
	assert.True(t, e.Alive())

	bot := FallbackEntity("ai-1", domain.Position{})
	assert.Equal(t, domain.EntityTypeEnemy, bot.Type)
}
