package app

import (
	"context"
	"fmt"
	"strings"

	"alcyxob/bodytrack/internal/domain"
	"alcyxob/bodytrack/internal/repository"
	"alcyxob/bodytrack/internal/service"

	log "github.com/sirupsen/logrus"
)

type seedEntry struct {
	exercise string
	day      int
	sets     int
	reps     string
	rest     int
}

type seedRoutine struct {
	name    string
	goal    string
	weeks   int
	entries []seedEntry
}

var seedExercises = []service.ExerciseInput{
	{Name: "Back Squat", MuscleGroup: "Legs", Equipment: "Barbell", Difficulty: "intermediate"},
	{Name: "Push-up", MuscleGroup: "Chest", Equipment: "None", Difficulty: "beginner"},
	{Name: "Bent-over Row", MuscleGroup: "Back", Equipment: "Barbell", Difficulty: "intermediate"},
	{Name: "Plank", MuscleGroup: "Core", Equipment: "None", Difficulty: "beginner"},
	{Name: "Walking Lunge", MuscleGroup: "Legs", Equipment: "Dumbbell", Difficulty: "beginner"},
	{Name: "Overhead Press", MuscleGroup: "Shoulders", Equipment: "Barbell", Difficulty: "intermediate"},
}

var seedRoutines = []seedRoutine{
	{
		name: "Starter Full Body", goal: "General fitness", weeks: 4,
		entries: []seedEntry{
			{"Back Squat", 1, 3, "10", 90},
			{"Push-up", 1, 3, "8-12", 60},
			{"Plank", 1, 3, "30s", 45},
			{"Walking Lunge", 3, 3, "12", 60},
			{"Bent-over Row", 3, 3, "10", 90},
			{"Overhead Press", 5, 3, "8-10", 90},
		},
	},
	{
		name: "Core and Mobility", goal: "Posture", weeks: 3,
		entries: []seedEntry{
			{"Plank", 2, 4, "40s", 45},
			{"Walking Lunge", 2, 3, "10", 60},
			{"Push-up", 4, 3, "10", 60},
		},
	},
}

// SeedGenericRoutines adds the starter exercise library and generic routine
// templates authored by the trainer with the given email. Existing exercises
// and routines with the same name are left alone. Returns the routines created.
func (a *App) SeedGenericRoutines(ctx context.Context, trainerEmail string) (int, error) {
	user, err := a.Repos.Users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(trainerEmail)))
	if err != nil {
		return 0, fmt.Errorf("find trainer account %q: %w", trainerEmail, err)
	}
	trainer, err := a.Repos.Trainers.GetByUserID(ctx, user.ID)
	if err != nil {
		return 0, fmt.Errorf("account %q has no trainer profile: %w", trainerEmail, err)
	}

	// 1. Exercise library
	library := map[string]domain.Exercise{}
	existing, err := a.Services.Exercise.List(ctx, repository.ExerciseFilter{})
	if err != nil {
		return 0, err
	}
	for _, e := range existing {
		library[e.Name] = e
	}
	for _, in := range seedExercises {
		if _, ok := library[in.Name]; ok {
			continue
		}
		e, err := a.Services.Exercise.Create(ctx, user.ID, in)
		if err != nil {
			return 0, fmt.Errorf("seed exercise %q: %w", in.Name, err)
		}
		library[e.Name] = *e
	}

	// 2. Routine templates
	generic := true
	current, err := a.Services.Routine.List(ctx, repository.RoutineFilter{TrainerID: &trainer.ID, Generic: &generic})
	if err != nil {
		return 0, err
	}
	have := map[string]bool{}
	for _, r := range current {
		have[r.Name] = true
	}

	created := 0
	for _, sr := range seedRoutines {
		if have[sr.name] {
			continue
		}
		entries := make([]service.RoutineExerciseInput, 0, len(sr.entries))
		for i, e := range sr.entries {
			entries = append(entries, service.RoutineExerciseInput{
				ExerciseID:  library[e.exercise].ID,
				Day:         e.day,
				Order:       i + 1,
				Sets:        e.sets,
				Reps:        e.reps,
				RestSeconds: e.rest,
			})
		}
		_, err := a.Services.Routine.Create(ctx, trainer.ID, service.RoutineInput{
			Name:          sr.name,
			Goal:          sr.goal,
			DurationWeeks: sr.weeks,
			IsGeneric:     true,
		}, entries)
		if err != nil {
			return created, fmt.Errorf("seed routine %q: %w", sr.name, err)
		}
		created++
	}

	log.WithFields(log.Fields{"trainer": trainer.ID.Hex(), "routines": created}).Info("generic routines seeded")
	return created, nil
}
