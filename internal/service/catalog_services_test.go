package service

import (
	"testing"

	"alcyxob/bodytrack/internal/domain"
	"alcyxob/bodytrack/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestClientUpdateKeepsPlan(t *testing.T) {
	f := newFixture(t)
	svc := NewClientService(f.store.Clients(), f.store.Users(), f.store.Subscriptions(), f.store.Assignments())
	client := f.client(t, domain.PlanPremium)

	names, phone := "Lucía", "999111222"
	updated, err := svc.Update(f.ctx, client.ID, ClientUpdate{Names: &names, Phone: &phone, Height: floatPtr(170)})
	require.NoError(t, err)
	assert.Equal(t, names, updated.Names)
	assert.Equal(t, phone, updated.Phone)
	assert.Equal(t, domain.PlanPremium, updated.Plan)
	assert.Equal(t, "Rojas", updated.LastNames)

	empty := " "
	_, err = svc.Update(f.ctx, client.ID, ClientUpdate{Names: &empty})
	assert.ErrorIs(t, err, ErrInvalidInput)

	detail, err := svc.Get(f.ctx, client.ID)
	require.NoError(t, err)
	require.NotNil(t, detail.User)
	assert.Nil(t, detail.Subscription)
	assert.Nil(t, detail.Assignment)
}

func TestClientDeleteRemovesAccount(t *testing.T) {
	f := newFixture(t)
	svc := NewClientService(f.store.Clients(), f.store.Users(), f.store.Subscriptions(), f.store.Assignments())
	client := f.client(t, domain.PlanFree)

	require.NoError(t, svc.Delete(f.ctx, client.ID))
	_, err := f.store.Users().GetByID(f.ctx, client.UserID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(f.ctx, client.ID), ErrClientNotFound)
}

func TestTrainerClientsAndStats(t *testing.T) {
	f := newFixture(t)
	svc := NewTrainerService(f.store.Trainers(), f.store.Clients(), f.store.Routines(), f.store.Assignments())
	trainer := f.trainer(t)
	routine := f.routine(t, trainer.ID, false)
	f.routine(t, trainer.ID, true)

	c1, c2 := f.client(t, domain.PlanPremium), f.client(t, domain.PlanPremium)
	f.activeAssignment(t, c1, routine)
	f.activeAssignment(t, c2, routine)
	old := f.activeAssignment(t, f.client(t, domain.PlanFree), routine)
	_, err := f.store.Assignments().DeactivateByIDs(f.ctx, []primitive.ObjectID{old.ID}, f.now)
	require.NoError(t, err)

	clients, err := svc.Clients(f.ctx, trainer.ID)
	require.NoError(t, err)
	assert.Len(t, clients, 2)

	stats, err := svc.Stats(f.ctx, trainer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Routines)
	assert.Equal(t, int64(2), stats.ActiveClients)
	assert.Equal(t, int64(3), stats.TotalAssignments)

	_, err = svc.Stats(f.ctx, primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrTrainerNotFound)
}

func TestExerciseLibrary(t *testing.T) {
	f := newFixture(t)
	svc := NewExerciseService(f.store.Exercises())
	author := primitive.NewObjectID()

	squat, err := svc.Create(f.ctx, author, ExerciseInput{Name: "Squat", MuscleGroup: "Legs", Difficulty: "Intermediate"})
	require.NoError(t, err)
	assert.Equal(t, "intermediate", squat.Difficulty)
	_, err = svc.Create(f.ctx, author, ExerciseInput{Name: "Push-up", MuscleGroup: "Chest"})
	require.NoError(t, err)

	_, err = svc.Create(f.ctx, author, ExerciseInput{Name: "X", Difficulty: "legendary"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	legs, err := svc.List(f.ctx, repository.ExerciseFilter{MuscleGroup: "Legs"})
	require.NoError(t, err)
	require.Len(t, legs, 1)
	assert.Equal(t, squat.ID, legs[0].ID)

	groups, err := svc.MuscleGroups(f.ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Chest", "Legs"}, groups)

	updated, err := svc.Update(f.ctx, squat.ID, ExerciseInput{Name: "Back squat", MuscleGroup: "Legs"})
	require.NoError(t, err)
	assert.Equal(t, "Back squat", updated.Name)
	assert.Equal(t, author, updated.CreatedBy)

	require.NoError(t, svc.Delete(f.ctx, squat.ID))
	_, err = svc.Get(f.ctx, squat.ID)
	assert.ErrorIs(t, err, ErrExerciseNotFound)
}

func TestForumPostsAndComments(t *testing.T) {
	f := newFixture(t)
	svc := NewForumService(f.store.Forum())
	author := primitive.NewObjectID()

	post, err := svc.CreatePost(f.ctx, author, "Deadlift form", "Any tips?")
	require.NoError(t, err)
	_, err = svc.CreatePost(f.ctx, author, "", "no title")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.AddComment(f.ctx, post.ID, primitive.NewObjectID(), "Keep your back straight")
	require.NoError(t, err)
	comment, err := svc.AddComment(f.ctx, post.ID, author, "Thanks")
	require.NoError(t, err)
	_, err = svc.AddComment(f.ctx, primitive.NewObjectID(), author, "lost")
	assert.ErrorIs(t, err, ErrPostNotFound)

	posts, err := svc.ListPosts(f.ctx, 0)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, int64(2), posts[0].Comments)

	edited, err := svc.UpdateComment(f.ctx, comment.ID, "Thanks a lot")
	require.NoError(t, err)
	assert.Equal(t, "Thanks a lot", edited.Content)

	detail, err := svc.GetPost(f.ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, detail.Comments, 2)
	assert.Equal(t, "Keep your back straight", detail.Comments[0].Content)

	require.NoError(t, svc.DeletePost(f.ctx, post.ID))
	_, err = svc.GetComment(f.ctx, comment.ID)
	assert.ErrorIs(t, err, ErrCommentNotFound)
}

func TestAdminDashboardAndToggle(t *testing.T) {
	f := newFixture(t)
	svc := NewAdminService(f.store.Users(), f.store.Clients(), f.store.Subscriptions(), f.store.Routines(), f.store.Exercises())
	client := f.client(t, domain.PlanFree)
	f.routine(t, f.trainer(t).ID, true)
	f.exercise(t, "Plank")

	stats, err := svc.Dashboard(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.UsersByRole[domain.RoleClient])
	assert.Equal(t, int64(1), stats.UsersByRole[domain.RoleTrainer])
	assert.Equal(t, int64(1), stats.ClientsByPlan[domain.PlanFree])
	assert.Equal(t, 1, stats.Routines)
	assert.Equal(t, 1, stats.Exercises)

	actor := primitive.NewObjectID()
	user, err := svc.ToggleActive(f.ctx, actor, client.UserID)
	require.NoError(t, err)
	assert.False(t, user.Active)
	user, err = svc.ToggleActive(f.ctx, actor, client.UserID)
	require.NoError(t, err)
	assert.True(t, user.Active)

	_, err = svc.ToggleActive(f.ctx, actor, actor)
	assert.ErrorIs(t, err, ErrInvalidInput)

	role := domain.RoleClient
	users, err := svc.ListUsers(f.ctx, repository.UserFilter{Role: &role})
	require.NoError(t, err)
	assert.Len(t, users, 1)
}
