package workout

import (
	"context"

	"fittrack_backend/internal/access"
	"fittrack_backend/internal/common"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service manages workouts and their days, exercises and sets for the
// session in ctx. Ownership of child rows is resolved through the workout.
type Service interface {
	ListWorkouts(ctx context.Context, page common.PaginationQuery) ([]Workout, int64, error)
	GetWorkout(ctx context.Context, id uuid.UUID) (*Workout, error)
	CreateWorkout(ctx context.Context, req CreateWorkoutRequest) (*Workout, error)
	UpdateWorkout(ctx context.Context, id uuid.UUID, req UpdateWorkoutRequest) (*Workout, error)
	DeleteWorkout(ctx context.Context, id uuid.UUID) error

	ListDays(ctx context.Context, workoutID uuid.UUID) ([]WorkoutDay, error)
	AddDay(ctx context.Context, workoutID uuid.UUID, req AddDayRequest) (*WorkoutDay, error)
	DeleteDay(ctx context.Context, id uuid.UUID) error

	ListExercises(ctx context.Context, workoutID uuid.UUID, page common.PaginationQuery) ([]Exercise, int64, error)
	AddExercise(ctx context.Context, workoutID uuid.UUID, req CreateExerciseRequest) (*Exercise, error)
	UpdateExercise(ctx context.Context, id uuid.UUID, req UpdateExerciseRequest) (*Exercise, error)
	DeleteExercise(ctx context.Context, id uuid.UUID) error

	ListSets(ctx context.Context, exerciseID uuid.UUID) ([]ExerciseSet, error)
	AddSet(ctx context.Context, exerciseID uuid.UUID, req CreateSetRequest) (*ExerciseSet, error)
	UpdateSet(ctx context.Context, id uuid.UUID, req UpdateSetRequest) (*ExerciseSet, error)
	DeleteSet(ctx context.Context, id uuid.UUID) error
}

type service struct {
	workouts  *access.Store[Workout]
	days      *access.Store[WorkoutDay]
	exercises *access.Store[Exercise]
	sets      *access.Store[ExerciseSet]
	logger    *zap.Logger
}

// NewService creates a new workout service.
func NewService(db *gorm.DB, engine *access.Engine, logger *zap.Logger) Service {
	return &service{
		workouts:  access.NewStore[Workout](db, engine, access.TableWorkouts),
		days:      access.NewStore[WorkoutDay](db, engine, access.TableWorkoutDays),
		exercises: access.NewStore[Exercise](db, engine, access.TableExercises),
		sets:      access.NewStore[ExerciseSet](db, engine, access.TableExerciseSets),
		logger:    logger.Named("workout_service"),
	}
}

// all is the page size used for child collections, which are small.
var all = common.PaginationQuery{Page: 1, PageSize: common.MaxPageSize}

func where(cond string, args ...interface{}) access.Scope {
	return func(db *gorm.DB) *gorm.DB { return db.Where(cond, args...) }
}

func (s *service) ListWorkouts(ctx context.Context, page common.PaginationQuery) ([]Workout, int64, error) {
	return s.workouts.List(ctx, page)
}

func (s *service) GetWorkout(ctx context.Context, id uuid.UUID) (*Workout, error) {
	return s.workouts.Get(ctx, id)
}

func (s *service) CreateWorkout(ctx context.Context, req CreateWorkoutRequest) (*Workout, error) {
	w := &Workout{
		UserID: access.SessionFromContext(ctx).IdentityID,
		Name:   req.Name,
		Notes:  req.Notes,
	}
	if err := s.workouts.Create(ctx, w); err != nil {
		return nil, err
	}
	s.logger.Debug("Workout created", zap.String("workout_id", w.ID.String()), zap.String("user_id", w.UserID))
	return w, nil
}

func (s *service) UpdateWorkout(ctx context.Context, id uuid.UUID, req UpdateWorkoutRequest) (*Workout, error) {
	return s.workouts.Update(ctx, id, req.Changes())
}

func (s *service) DeleteWorkout(ctx context.Context, id uuid.UUID) error {
	return s.workouts.Delete(ctx, id)
}

func (s *service) ListDays(ctx context.Context, workoutID uuid.UUID) ([]WorkoutDay, error) {
	days, _, err := s.days.List(ctx, all, where("workout_days.workout_id = ?", workoutID))
	return days, err
}

func (s *service) AddDay(ctx context.Context, workoutID uuid.UUID, req AddDayRequest) (*WorkoutDay, error) {
	d := &WorkoutDay{WorkoutID: workoutID, DayOfWeek: *req.DayOfWeek}
	if err := s.days.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *service) DeleteDay(ctx context.Context, id uuid.UUID) error {
	return s.days.Delete(ctx, id)
}

func (s *service) ListExercises(ctx context.Context, workoutID uuid.UUID, page common.PaginationQuery) ([]Exercise, int64, error) {
	return s.exercises.List(ctx, page, where("exercises.workout_id = ?", workoutID))
}

func (s *service) AddExercise(ctx context.Context, workoutID uuid.UUID, req CreateExerciseRequest) (*Exercise, error) {
	e := &Exercise{WorkoutID: workoutID, Name: req.Name, Position: req.Position, Notes: req.Notes}
	if err := s.exercises.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *service) UpdateExercise(ctx context.Context, id uuid.UUID, req UpdateExerciseRequest) (*Exercise, error) {
	return s.exercises.Update(ctx, id, req.Changes())
}

func (s *service) DeleteExercise(ctx context.Context, id uuid.UUID) error {
	return s.exercises.Delete(ctx, id)
}

func (s *service) ListSets(ctx context.Context, exerciseID uuid.UUID) ([]ExerciseSet, error) {
	sets, _, err := s.sets.List(ctx, all, where("exercise_sets.exercise_id = ?", exerciseID))
	return sets, err
}

func (s *service) AddSet(ctx context.Context, exerciseID uuid.UUID, req CreateSetRequest) (*ExerciseSet, error) {
	set := &ExerciseSet{
		ExerciseID:  exerciseID,
		SetNumber:   req.SetNumber,
		Reps:        req.Reps,
		WeightKg:    req.WeightKg,
		RestSeconds: req.RestSeconds,
	}
	if err := s.sets.Create(ctx, set); err != nil {
		return nil, err
	}
	return set, nil
}

func (s *service) UpdateSet(ctx context.Context, id uuid.UUID, req UpdateSetRequest) (*ExerciseSet, error) {
	return s.sets.Update(ctx, id, req.Changes())
}

func (s *service) DeleteSet(ctx context.Context, id uuid.UUID) error {
	return s.sets.Delete(ctx, id)
}
