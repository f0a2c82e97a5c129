package backup

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stefanpenner/daybook/pkg/model"
	"github.com/stefanpenner/daybook/pkg/store"
)

func fixture() *store.Snapshot {
	updated := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)
	return &store.Snapshot{
		Themes: []model.Theme{{
			ID: "th1", Title: "Go", Color: "#00ADD8", CreatedAt: "2024-03-01T09:00:00Z", Updated: updated,
			Notes: "## 2024-03-01\n- started",
			Subthemes: []model.Subtheme{
				{ID: "s1", Title: "Maps", Status: model.SubthemeActive, IntroductionDate: "2024-03-01",
					Reviews: []model.Review{
						{ID: "r1", Number: 1, Date: "2024-03-02", Status: model.ReviewCompleted, CompletedAt: "2024-03-02T08:00:00Z"},
						{ID: "r2", Number: 2, Date: "2024-03-04", Status: model.ReviewPending},
					}},
				{ID: "s2", Title: "Generics", Status: model.SubthemeLocked},
			},
		}},
		Tasks: []model.Task{
			{ID: "t1", Title: "Report", Type: model.TaskDay, Date: "2024-03-04", Status: model.StatusPending,
				Priority: model.PriorityHigh, Time: "09:30", DurationMinutes: 45, Updated: updated},
			{ID: "t2", Title: "Gym", Type: model.TaskRecurring, Recurrence: []int{1, 3, 5}, Status: model.StatusPending,
				CompletionHistory: []string{"2024-03-01T07:00:00Z", "2024-03-04T07:00:00Z"}, Updated: updated},
		},
		Goals: []model.Goal{
			{ID: "g1", Title: "Launch", Type: model.GoalChecklist, Progress: 50, Status: model.StatusPending, Updated: updated,
				Checklist: []model.ChecklistItem{
					{ID: "c1", Title: "Design", Completed: true, Order: 0},
					{ID: "c2", Title: "Build", Deadline: "2024-03-10", Order: 1},
				}},
			{ID: "g2", Title: "Read", Type: model.GoalHabit, Recurrence: []int{0, 6},
				CompletionHistory: []string{"2024-03-03T21:00:00Z"}, Updated: updated},
		},
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "daybook.db")
	want := fixture()

	require.NoError(t, Export(ctx, want, path))
	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))

	got, err := Import(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestExportOverwrites(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "daybook.db")

	require.NoError(t, Export(ctx, fixture(), path))
	empty := &store.Snapshot{Themes: []model.Theme{}, Tasks: []model.Task{}, Goals: []model.Goal{}}
	require.NoError(t, Export(ctx, empty, path))

	got, err := Import(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, empty, got)
}

func TestImportMissing(t *testing.T) {
	_, err := Import(context.Background(), filepath.Join(t.TempDir(), "nope.db"))
	assert.Error(t, err)
}

func TestRestoreIntoStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "daybook.db")
	require.NoError(t, Export(ctx, fixture(), path))

	s, err := store.NewStore(t.TempDir())
	require.NoError(t, err)
	snap, err := Import(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Replace(snap))

	task, err := s.LoadTask("t2")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 5}, task.Recurrence)
	assert.True(t, model.CompletedOn(task.CompletionHistory, model.NewDate(2024, 3, 4)))
}
