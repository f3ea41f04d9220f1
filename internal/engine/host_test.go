package engine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emberdelve-server/internal/content"
	"emberdelve-server/internal/domain"
)

// arenaConfig - пустая комната 7x5 с выходом в углу, без врагов.
func arenaConfig(players ...string) domain.GameConfig {
	hint := domain.Position{X: 1, Y: 1}
	return domain.GameConfig{
		RNGSeed: 7,
		Players: players,
		CustomLevel: &domain.CustomLevel{
			Grid: []string{
				"#######",
				"#.....#",
				"#.....#",
				"#....X#",
				"#######",
			},
			SpawnHint: &hint,
		},
	}
}

func move(dx, dy int) domain.Action {
	return domain.Action{Type: domain.ActionMove, Move: &domain.MoveArgs{Dx: dx, Dy: dy}}
}

func stateJSON(t *testing.T, s *domain.GameState) string {
	t.Helper()
	b, err := json.Marshal(s)
	require.NoError(t, err)
	return string(b)
}

func TestNewHostJoinsConfiguredPlayers(t *testing.T) {
	h := NewHost(arenaConfig("alice", "bob"), content.NewRegistry())

	state := h.State()
	require.NotNil(t, state.Entity("alice"))
	require.NotNil(t, state.Entity("bob"))
	assert.Equal(t, 0, state.Turn)
	assert.NotEqual(t, state.Entity("alice").Pos, state.Entity("bob").Pos)
}

func TestNewHostGeneratedDungeon(t *testing.T) {
	h := NewHost(domain.GameConfig{DungeonSeed: 99, RNGSeed: 1, MaxLevels: 3, Players: []string{"alice"}}, content.NewRegistry())

	state := h.State()
	assert.Len(t, state.Levels, 3)
	assert.Equal(t, 0, state.CurrentLevel)
	require.NotNil(t, state.Entity("alice"))
	assert.True(t, state.TileAt(state.Entity("alice").Pos).Walkable())
}

func TestProcessActionOverwritesActorID(t *testing.T) {
	h := NewHost(arenaConfig("alice", "bob"), content.NewRegistry())

	spoofed := move(1, 0)
	spoofed.ActorID = "bob"
	delta, err := h.ProcessAction("alice", spoofed, Options{})
	require.NoError(t, err)

	assert.Equal(t, "alice", delta.Action.ActorID)
	require.NotEmpty(t, delta.Events)
	assert.Equal(t, "alice", delta.Events[0].ActorID)
}

func TestProcessActionRejectsMalformed(t *testing.T) {
	h := NewHost(arenaConfig("alice"), content.NewRegistry())

	_, err := h.ProcessAction("alice", domain.Action{Type: domain.ActionMove}, Options{})
	assert.Error(t, err)

	_, err = h.ProcessAction("alice", domain.Action{Type: domain.ActionMove, Move: &domain.MoveArgs{Dx: 1, Dy: 1}}, Options{})
	assert.Error(t, err)
}

func TestProcessActionAdvancesTurnOnce(t *testing.T) {
	h := NewHost(arenaConfig("alice"), content.NewRegistry())
	seedBefore := h.State().Seed

	delta, err := h.ProcessAction("alice", move(1, 0), Options{})
	require.NoError(t, err)

	assert.Equal(t, 0, delta.Turn)
	assert.Equal(t, 1, h.State().Turn)
	assert.NotEqual(t, seedBefore, h.State().Seed)
}

func TestConnectMarriesExistingEntity(t *testing.T) {
	h := NewHost(arenaConfig("alice"), content.NewRegistry())
	before := stateJSON(t, h.State())
	records := len(h.Log().Turns)

	// Переподключение дает синтетический spawned для рассылки пирам:
	// состояние не меняется, журнал не растет
	delta, err := h.Connect("alice")
	require.NoError(t, err)
	require.NotNil(t, delta)
	require.Len(t, delta.Events, 1)
	assert.Equal(t, domain.EventSpawned, delta.Events[0].Type)
	assert.Equal(t, "alice", delta.Events[0].ActorID)
	assert.Equal(t, before, stateJSON(t, h.State()))
	assert.Len(t, h.Log().Turns, records)
	assert.Contains(t, h.ConnectedIDs(), "alice")

	// Новый игрок получает новую сущность
	delta, err = h.Connect("carol")
	require.NoError(t, err)
	require.NotNil(t, delta)
	assert.NotNil(t, h.State().Entity("carol"))
}

func TestVictoryOnExit(t *testing.T) {
	h := NewHost(arenaConfig("alice"), content.NewRegistry())

	var all []domain.Event
	steps := []domain.Action{
		move(1, 0), move(1, 0), move(1, 0), move(1, 0),
		move(0, 1), move(0, 1),
	}
	for _, a := range steps {
		delta, err := h.ProcessAction("alice", a, Options{})
		require.NoError(t, err)
		all = append(all, delta.Events...)
	}

	assert.True(t, h.State().VictoryAchieved)
	found := false
	for _, e := range all {
		if e.Type == domain.EventVictory {
			found = true
		}
	}
	assert.True(t, found)
}

func TestDefeatWhenPartyDies(t *testing.T) {
	cfg := arenaConfig("alice")
	cfg.CustomLevel.Entities = []domain.CustomSpawn{
		{TemplateID: "core:goblin", ID: "ai-g1", Pos: domain.Position{X: 2, Y: 1}},
	}
	h := NewHost(cfg, content.NewRegistry())

	// Герой на волоске и не способен увернуться
	alice := h.state.Entity("alice")
	alice.HP = 1
	alice.Abilities.Dexterity = 0

	delta, err := h.ProcessAction("alice", domain.Action{Type: domain.ActionWait}, Options{})
	require.NoError(t, err)

	assert.Nil(t, h.State().Entity("alice"))
	var sawDefeat bool
	for _, e := range delta.Events {
		if e.Type == domain.EventDefeat {
			sawDefeat = true
		}
	}
	assert.True(t, sawDefeat)
}

func TestAIRoundChasesPlayer(t *testing.T) {
	cfg := arenaConfig("alice")
	cfg.CustomLevel.Entities = []domain.CustomSpawn{
		{TemplateID: "core:goblin", ID: "ai-g1", Pos: domain.Position{X: 5, Y: 1}},
	}
	h := NewHost(cfg, content.NewRegistry())
	start := h.State().Entity("ai-g1").Pos

	_, err := h.ProcessAction("alice", domain.Action{Type: domain.ActionWait}, Options{})
	require.NoError(t, err)

	moved := h.State().Entity("ai-g1").Pos
	assert.NotEqual(t, start, moved)
	assert.True(t, start.Adjacent4(moved))
}

func TestSkipAISuppressesEnemies(t *testing.T) {
	cfg := arenaConfig("alice")
	cfg.CustomLevel.Entities = []domain.CustomSpawn{
		{TemplateID: "core:goblin", ID: "ai-g1", Pos: domain.Position{X: 5, Y: 1}},
	}
	h := NewHost(cfg, content.NewRegistry())
	start := h.State().Entity("ai-g1").Pos

	_, err := h.ProcessAction("alice", domain.Action{Type: domain.ActionWait}, Options{SkipAI: true, SkipTurnAdvance: true})
	require.NoError(t, err)

	assert.Equal(t, start, h.State().Entity("ai-g1").Pos)
	assert.Equal(t, 0, h.State().Turn)
}

// stepOntoStairs ставит игрока на проходимую клетку рядом с лестницей и
// возвращает шаг на нее - переход срабатывает только от самого шага.
func stepOntoStairs(t *testing.T, h *Host, playerID string, stairs domain.Position) domain.Action {
	t.Helper()
	for _, d := range [][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
		from := stairs.Shift(-d[0], -d[1])
		if h.state.InBounds(from) && h.state.TileAt(from).Walkable() && h.state.LivingEntityAt(from) == nil {
			h.state.Entity(playerID).Pos = from
			return move(d[0], d[1])
		}
	}
	t.Fatalf("no walkable tile next to stairs at %+v", stairs)
	return domain.Action{}
}

// stripEnemies оставляет в состоянии только игроков - бои не предмет
// тестов на переходы.
func stripEnemies(h *Host) {
	var players []domain.Entity
	for _, e := range h.state.Entities {
		if e.Type == domain.EntityTypePlayer {
			players = append(players, e)
		}
	}
	h.state.Entities = players
}

func TestLevelTransitionMovesWholeParty(t *testing.T) {
	h := NewHost(domain.GameConfig{DungeonSeed: 42, RNGSeed: 5, MaxLevels: 2, Players: []string{"alice", "bob"}}, content.NewRegistry())
	stripEnemies(h)

	// Маршрут до лестницы не предмет теста - алиса стартует вплотную
	stairs := h.state.Levels[0].StairsDown
	require.NotNil(t, stairs)
	step := stepOntoStairs(t, h, "alice", *stairs)

	delta, err := h.ProcessAction("alice", step, Options{SkipAI: true})
	require.NoError(t, err)

	state := h.State()
	assert.Equal(t, 1, state.CurrentLevel)

	var sawTransition bool
	for _, e := range delta.Events {
		if e.Type == domain.EventLevelTransition {
			sawTransition = true
			assert.Equal(t, 1, e.Level)
		}
	}
	assert.True(t, sawTransition)

	// Вся партия на новом уровне, возле ответной лестницы
	up := state.Levels[1].StairsUp
	require.NotNil(t, up)
	for _, id := range []string{"alice", "bob"} {
		e := state.Entity(id)
		require.NotNil(t, e)
		assert.True(t, e.Pos.DistanceTo(*up) < 4, "player %s far from arrival", id)
	}

	// Ростер первого уровня заморожен
	_, frozen := state.LevelEnemies[0]
	assert.True(t, frozen)
}

func TestActionsAfterTransitionKeepLevel(t *testing.T) {
	h := NewHost(domain.GameConfig{DungeonSeed: 42, RNGSeed: 5, MaxLevels: 2, Players: []string{"alice", "bob"}}, content.NewRegistry())
	stripEnemies(h)

	stairs := h.state.Levels[0].StairsDown
	require.NotNil(t, stairs)
	step := stepOntoStairs(t, h, "alice", *stairs)
	_, err := h.ProcessAction("alice", step, Options{SkipAI: true})
	require.NoError(t, err)
	require.Equal(t, 1, h.State().CurrentLevel)

	// Партия прибыла к ответной лестнице, но стоять на ней - не шагнуть
	// на нее: последующие действия не утаскивают партию обратно
	_, err = h.ProcessAction("bob", domain.Action{Type: domain.ActionWait}, Options{SkipAI: true})
	require.NoError(t, err)
	assert.Equal(t, 1, h.State().CurrentLevel)

	_, err = h.ProcessAction("alice", domain.Action{Type: domain.ActionWait}, Options{SkipAI: true})
	require.NoError(t, err)
	assert.Equal(t, 1, h.State().CurrentLevel)
}

func TestStateSnapshotRestores(t *testing.T) {
	h := NewHost(arenaConfig("alice"), content.NewRegistry())
	_, err := h.ProcessAction("alice", move(1, 0), Options{})
	require.NoError(t, err)
	_, err = h.ProcessAction("alice", move(0, 1), Options{})
	require.NoError(t, err)

	restored, err := FromLog(h.Log(), content.NewRegistry())
	require.NoError(t, err)

	assert.Equal(t, stateJSON(t, h.State()), stateJSON(t, restored.State()))
}

func TestFromLogReplaysWithoutSnapshot(t *testing.T) {
	h := NewHost(arenaConfig("alice", "bob"), content.NewRegistry())
	_, err := h.ProcessAction("alice", move(1, 0), Options{})
	require.NoError(t, err)
	_, err = h.ProcessAction("bob", move(0, 1), Options{})
	require.NoError(t, err)

	gameLog := h.Log()
	gameLog.StateSnapshot = nil

	restored, err := FromLog(gameLog, content.NewRegistry())
	require.NoError(t, err)

	assert.Equal(t, stateJSON(t, h.State()), stateJSON(t, restored.State()))
}
