package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"emberdelve-server/internal/content"
	"emberdelve-server/internal/domain"
)

func newArena(t *testing.T, players ...string) (*Host, *Coordinator) {
	t.Helper()
	h := NewHost(arenaConfig(players...), content.NewRegistry())
	c := NewCoordinator(h, time.Minute)
	for _, p := range players {
		c.Track(p)
	}
	return h, c
}

// movedActors выбирает из событий акторов шагов - по ним виден порядок
// применения действий внутри раунда.
func movedActors(events []domain.Event) []string {
	var out []string
	for _, e := range events {
		if e.Type == domain.EventMoved {
			out = append(out, e.ActorID)
		}
	}
	return out
}

func TestRoundWaitsForAllPlayers(t *testing.T) {
	h, c := newArena(t, "alice", "bob")

	deltas, err := c.SubmitAction("alice", move(0, 1))
	require.NoError(t, err)
	assert.Nil(t, deltas)
	assert.Equal(t, 0, h.State().Turn)
	assert.Equal(t, []string{"bob"}, c.PendingPlayers())

	deltas, err = c.SubmitAction("bob", move(0, 1))
	require.NoError(t, err)

	// Раунд уходит наружу одной дельтой со слитыми событиями
	require.Len(t, deltas, 1)
	round := deltas[0]
	assert.Equal(t, []string{"alice", "bob"}, movedActors(round.Events))
	require.NotNil(t, round.State)

	// Ход продвинулся ровно один раз
	assert.Equal(t, 1, h.State().Turn)
	assert.Empty(t, c.PendingPlayers())
}

func TestRoundAppliesInSubmissionOrder(t *testing.T) {
	h, c := newArena(t, "alice", "bob")

	// Боб подал первым - его действие и применяется первым, хотя под
	// отслеживание он попал вторым
	_, err := c.SubmitAction("bob", move(0, 1))
	require.NoError(t, err)
	deltas, err := c.SubmitAction("alice", move(0, 1))
	require.NoError(t, err)

	require.Len(t, deltas, 1)
	assert.Equal(t, []string{"bob", "alice"}, movedActors(deltas[0].Events))

	// Журнал хранит тот же порядок - реплей применит его так же
	gameLog := h.Log()
	n := len(gameLog.Turns)
	require.GreaterOrEqual(t, n, 2)
	assert.Equal(t, "bob", gameLog.Turns[n-2].Action.ActorID)
	assert.Equal(t, "alice", gameLog.Turns[n-1].Action.ActorID)
}

func TestRoundRecordsBatchFlags(t *testing.T) {
	h, c := newArena(t, "alice", "bob")

	_, err := c.SubmitAction("alice", move(1, 0))
	require.NoError(t, err)
	_, err = c.SubmitAction("bob", move(0, 1))
	require.NoError(t, err)

	gameLog := h.Log()
	n := len(gameLog.Turns)
	require.GreaterOrEqual(t, n, 2)

	// Все действия раунда, кроме последнего, записаны с подавлением
	batchFirst := gameLog.Turns[n-2]
	batchLast := gameLog.Turns[n-1]
	assert.True(t, batchFirst.SkipAI)
	assert.True(t, batchFirst.SkipTurnAdvance)
	assert.False(t, batchLast.SkipAI)
	assert.False(t, batchLast.SkipTurnAdvance)
}

func TestFreeActionAppliesImmediately(t *testing.T) {
	h, c := newArena(t, "alice", "bob")

	deltas, err := c.SubmitAction("alice", domain.Action{Type: domain.ActionWait})
	require.NoError(t, err)
	require.Len(t, deltas, 1)
	assert.Equal(t, 0, h.State().Turn)
}

func TestResubmitReplacesBufferedAction(t *testing.T) {
	h, c := newArena(t, "alice", "bob")

	_, err := c.SubmitAction("alice", move(1, 0))
	require.NoError(t, err)
	_, err = c.SubmitAction("alice", move(0, 1))
	require.NoError(t, err)

	deltas, err := c.SubmitAction("bob", move(0, 1))
	require.NoError(t, err)
	require.Len(t, deltas, 1)

	// Применилось последнее действие алисы
	alice := h.State().Entity("alice")
	assert.Equal(t, domain.Position{X: 1, Y: 2}, alice.Pos)
}

func TestSinglePlayerResolvesImmediately(t *testing.T) {
	h, c := newArena(t, "alice")

	deltas, err := c.SubmitAction("alice", move(1, 0))
	require.NoError(t, err)
	require.Len(t, deltas, 1)
	assert.Equal(t, 1, h.State().Turn)
}

func TestUntrackReleasesStuckRound(t *testing.T) {
	h, c := newArena(t, "alice", "bob")

	_, err := c.SubmitAction("alice", move(1, 0))
	require.NoError(t, err)

	deltas := c.Untrack("bob")
	require.Len(t, deltas, 1)
	assert.Equal(t, "alice", deltas[0].Action.ActorID)
	assert.Equal(t, 1, h.State().Turn)
}

func TestDeadPlayerDoesNotBlockRound(t *testing.T) {
	h, c := newArena(t, "alice", "bob")
	h.state.Entity("bob").HP = 0
	h.state.PurgeDead()

	deltas, err := c.SubmitAction("alice", move(1, 0))
	require.NoError(t, err)
	require.Len(t, deltas, 1)
}

func TestExpirePlanningForcesWait(t *testing.T) {
	h, c := newArena(t, "alice", "bob")

	_, err := c.SubmitAction("alice", move(1, 0))
	require.NoError(t, err)

	// До таймаута ничего не происходит
	assert.Nil(t, c.ExpirePlanning(time.Now()))

	deltas := c.ExpirePlanning(time.Now().Add(2 * time.Minute))
	require.Len(t, deltas, 1)

	// Боб получил принудительный wait, его событие в общей дельте
	var bobWaited bool
	for _, e := range deltas[0].Events {
		if e.Type == domain.EventWait && e.ActorID == "bob" {
			bobWaited = true
		}
	}
	assert.True(t, bobWaited)
	assert.Equal(t, 1, h.State().Turn)
}

func TestTimeRemaining(t *testing.T) {
	_, c := newArena(t, "alice", "bob")

	now := time.Now()
	assert.Equal(t, time.Duration(0), c.TimeRemaining(now))

	_, err := c.SubmitAction("alice", move(1, 0))
	require.NoError(t, err)

	left := c.TimeRemaining(time.Now())
	assert.Greater(t, left, time.Duration(0))
	assert.Equal(t, time.Duration(0), c.TimeRemaining(now.Add(2*time.Minute)))
}

func TestSubmitUntrackedPlayer(t *testing.T) {
	_, c := newArena(t, "alice")

	_, err := c.SubmitAction("mallory", move(1, 0))
	assert.Error(t, err)
}
